package stegx

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hengadev/stegx/internal/reliability"
)

// StaticPasswordSource returns a fixed password.
type StaticPasswordSource string

func (s StaticPasswordSource) GetPassword(ctx context.Context) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: static password is empty", ErrMissingPassword)
	}
	return string(s), nil
}

// EnvPasswordSource reads the password from an environment variable. An
// empty Name reads EnvPassword.
type EnvPasswordSource struct {
	Name string
}

func (e EnvPasswordSource) GetPassword(ctx context.Context) (string, error) {
	name := e.Name
	if name == "" {
		name = EnvPassword
	}
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingPassword, name)
	}
	return value, nil
}

// ResolvePassword asks source for a password, honouring ctx cancellation.
func ResolvePassword(ctx context.Context, source PasswordSource) (string, error) {
	if source == nil {
		return "", fmt.Errorf("%w: no password source", ErrMissingPassword)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	password, err := source.GetPassword(ctx)
	if err != nil {
		return "", err
	}
	if password == "" {
		return "", fmt.Errorf("%w: source returned an empty password", ErrMissingPassword)
	}
	return password, nil
}

// RetryingPasswordSource retries a remote source while it reports
// ErrPasswordSourceUnavailable. Authentication failures and missing
// secrets are returned immediately.
type RetryingPasswordSource struct {
	source  PasswordSource
	retrier *reliability.Retrier
}

// NewRetryingPasswordSource wraps source with exponential backoff. A
// maxAttempts or initialDelay of zero uses the default.
func NewRetryingPasswordSource(source PasswordSource, maxAttempts int, initialDelay time.Duration, onRetry func(attempt int, delay time.Duration, err error)) *RetryingPasswordSource {
	return &RetryingPasswordSource{
		source: source,
		retrier: reliability.NewRetrier(reliability.RetryConfig{
			MaxAttempts:  maxAttempts,
			InitialDelay: initialDelay,
			ShouldRetry:  IsRetryableError,
			OnRetry:      onRetry,
		}),
	}
}

func (r *RetryingPasswordSource) GetPassword(ctx context.Context) (string, error) {
	var password string
	err := r.retrier.Do(ctx, func(ctx context.Context) error {
		p, err := r.source.GetPassword(ctx)
		if err != nil {
			return err
		}
		password = p
		return nil
	})
	if err != nil {
		return "", err
	}
	return password, nil
}
