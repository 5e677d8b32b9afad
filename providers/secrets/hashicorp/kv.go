package hashicorp

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/vault/api"
	"github.com/hengadev/stegx"
)

const (
	// DefaultMount is the KV v2 mount the password is read from.
	DefaultMount = "secret"
	// DefaultField is the key inside the secret holding the password.
	DefaultField = "password"
	// PathTemplate is mount, then name. The "/data/" segment is required by
	// the KV v2 API.
	PathTemplate = "%s/data/stegx/%s"
)

// KVPasswordSource implements stegx.PasswordSource using HashiCorp Vault KV v2.
//
// The password is stored as a plain string under Field at
// "{Mount}/data/stegx/{Name}".
type KVPasswordSource struct {
	client *api.Client
	mount  string
	name   string
	field  string
}

// Option configures a KVPasswordSource.
type Option func(*KVPasswordSource)

// WithMount overrides DefaultMount.
func WithMount(mount string) Option {
	return func(k *KVPasswordSource) {
		k.mount = strings.Trim(mount, "/")
	}
}

// WithField overrides DefaultField.
func WithField(field string) Option {
	return func(k *KVPasswordSource) {
		k.field = field
	}
}

// NewKVPasswordSource creates a source for the password stored under name,
// with a client configured from the environment (see createVaultClient).
//
// Usage:
//
//	source, err := hashicorp.NewKVPasswordSource(ctx, "holiday-photos")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	msg, err := codec.DecodeWithSource(ctx, img, source)
func NewKVPasswordSource(ctx context.Context, name string, opts ...Option) (*KVPasswordSource, error) {
	client, err := createVaultClient(ctx)
	if err != nil {
		return nil, err
	}
	return NewKVPasswordSourceWithClient(client, name, opts...)
}

// NewKVPasswordSourceWithClient creates a source using an existing client.
func NewKVPasswordSourceWithClient(client *api.Client, name string, opts ...Option) (*KVPasswordSource, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: vault client cannot be nil", stegx.ErrInvalidConfiguration)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: secret name cannot be empty", stegx.ErrInvalidConfiguration)
	}

	k := &KVPasswordSource{
		client: client,
		mount:  DefaultMount,
		name:   strings.Trim(name, "/"),
		field:  DefaultField,
	}
	for _, opt := range opts {
		opt(k)
	}
	return k, nil
}

// Path returns the KV v2 API path of the secret.
func (k *KVPasswordSource) Path() string {
	return fmt.Sprintf(PathTemplate, k.mount, k.name)
}

// GetPassword reads the password from Vault.
func (k *KVPasswordSource) GetPassword(ctx context.Context) (string, error) {
	secret, err := k.client.Logical().ReadWithContext(ctx, k.Path())
	if err != nil {
		return "", fmt.Errorf("%w: failed to read password from Vault KV: %w",
			stegx.ErrPasswordSourceUnavailable, err)
	}

	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("%w: no secret at %s", stegx.ErrMissingPassword, k.Path())
	}

	// KV v2 wraps the actual data in a "data" key
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("%w: invalid KV v2 secret format at %s", stegx.ErrMissingPassword, k.Path())
	}

	password, ok := data[k.field].(string)
	if !ok || password == "" {
		return "", fmt.Errorf("%w: field %q missing or not a string at %s", stegx.ErrMissingPassword, k.field, k.Path())
	}
	return password, nil
}

// StorePassword writes password to Vault, creating a new KV version.
func (k *KVPasswordSource) StorePassword(ctx context.Context, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password cannot be empty", stegx.ErrInvalidConfiguration)
	}

	data := map[string]interface{}{
		"data": map[string]interface{}{
			k.field: password,
		},
	}

	if _, err := k.client.Logical().WriteWithContext(ctx, k.Path(), data); err != nil {
		return fmt.Errorf("%w: failed to store password in Vault KV: %w",
			stegx.ErrPasswordSourceUnavailable, err)
	}
	return nil
}
