package hashicorp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/vault/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hengadev/stegx"
)

const testToken = "test-token-12345"

// mockVaultServer serves AppRole login and an in-memory KV v2 mount.
func mockVaultServer(t *testing.T) *httptest.Server {
	t.Helper()

	var mu sync.Mutex
	store := map[string]map[string]interface{}{}

	mux := http.NewServeMux()

	mux.HandleFunc("/v1/auth/approle/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["role_id"] != "test-role-id" || body["secret_id"] != "test-secret-id" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errors":["invalid role or secret ID"]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"auth": {"client_token": "` + testToken + `"}}`))
	})

	mux.HandleFunc("/v1/secret/data/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != testToken {
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"errors":["permission denied"]}`))
			return
		}
		key := strings.TrimPrefix(r.URL.Path, "/v1/secret/data/")

		mu.Lock()
		defer mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			data, ok := store[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"data": map[string]interface{}{"data": data},
			})
		case http.MethodPut, http.MethodPost:
			var body struct {
				Data map[string]interface{} `json:"data"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			store[key] = body.Data
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/v1/broken/data/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"errors":["internal error"]}`))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func clearVaultEnv(t *testing.T) {
	for _, name := range []string{"VAULT_ADDR", "VAULT_TOKEN", "VAULT_NAMESPACE", "VAULT_ROLE_ID", "VAULT_SECRET_ID"} {
		t.Setenv(name, "")
	}
}

func newTestClient(t *testing.T, addr string) *api.Client {
	t.Helper()
	cfg := api.DefaultConfig()
	cfg.Address = addr
	cfg.MaxRetries = 0
	client, err := api.NewClient(cfg)
	require.NoError(t, err)
	client.SetToken(testToken)
	return client
}

func TestNewKVPasswordSource_WithToken(t *testing.T) {
	server := mockVaultServer(t)
	clearVaultEnv(t)
	t.Setenv("VAULT_ADDR", server.URL)
	t.Setenv("VAULT_TOKEN", testToken)

	source, err := NewKVPasswordSource(context.Background(), "photos")
	require.NoError(t, err)
	assert.Equal(t, "secret/data/stegx/photos", source.Path())
}

func TestNewKVPasswordSource_WithAppRole(t *testing.T) {
	server := mockVaultServer(t)
	clearVaultEnv(t)
	t.Setenv("VAULT_ADDR", server.URL)
	t.Setenv("VAULT_ROLE_ID", "test-role-id")
	t.Setenv("VAULT_SECRET_ID", "test-secret-id")

	ctx := context.Background()
	source, err := NewKVPasswordSource(ctx, "photos")
	require.NoError(t, err)
	assert.Equal(t, testToken, source.client.Token())

	require.NoError(t, source.StorePassword(ctx, "approle-pw"))
	pw, err := source.GetPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "approle-pw", pw)
}

func TestNewKVPasswordSource_BadAppRole(t *testing.T) {
	server := mockVaultServer(t)
	clearVaultEnv(t)
	t.Setenv("VAULT_ADDR", server.URL)
	t.Setenv("VAULT_MAX_RETRIES", "0")
	t.Setenv("VAULT_ROLE_ID", "wrong")
	t.Setenv("VAULT_SECRET_ID", "wrong")

	_, err := NewKVPasswordSource(context.Background(), "photos")
	assert.ErrorIs(t, err, stegx.ErrPasswordSourceAuth)
}

func TestNewKVPasswordSource_NoAuth(t *testing.T) {
	server := mockVaultServer(t)
	clearVaultEnv(t)
	t.Setenv("VAULT_ADDR", server.URL)

	_, err := NewKVPasswordSource(context.Background(), "photos")
	assert.ErrorIs(t, err, stegx.ErrInvalidConfiguration)
}

func TestNewKVPasswordSourceWithClient_Validation(t *testing.T) {
	_, err := NewKVPasswordSourceWithClient(nil, "photos")
	assert.ErrorIs(t, err, stegx.ErrInvalidConfiguration)

	server := mockVaultServer(t)
	_, err = NewKVPasswordSourceWithClient(newTestClient(t, server.URL), "  ")
	assert.ErrorIs(t, err, stegx.ErrInvalidConfiguration)
}

func TestKVPasswordSource_StoreAndGet(t *testing.T) {
	server := mockVaultServer(t)
	ctx := context.Background()

	source, err := NewKVPasswordSourceWithClient(newTestClient(t, server.URL), "/photos/",
		WithField("pw"), WithMount("/secret/"))
	require.NoError(t, err)
	assert.Equal(t, "secret/data/stegx/photos", source.Path())

	_, err = source.GetPassword(ctx)
	assert.ErrorIs(t, err, stegx.ErrMissingPassword)

	require.NoError(t, source.StorePassword(ctx, "correct horse"))
	pw, err := source.GetPassword(ctx)
	require.NoError(t, err)
	assert.Equal(t, "correct horse", pw)

	other, err := NewKVPasswordSourceWithClient(newTestClient(t, server.URL), "photos")
	require.NoError(t, err)
	_, err = other.GetPassword(ctx)
	assert.ErrorIs(t, err, stegx.ErrMissingPassword, "default field is absent")

	assert.ErrorIs(t, source.StorePassword(ctx, ""), stegx.ErrInvalidConfiguration)
}

func TestKVPasswordSource_Unavailable(t *testing.T) {
	server := mockVaultServer(t)
	ctx := context.Background()

	source, err := NewKVPasswordSourceWithClient(newTestClient(t, server.URL), "photos", WithMount("broken"))
	require.NoError(t, err)

	_, err = source.GetPassword(ctx)
	assert.ErrorIs(t, err, stegx.ErrPasswordSourceUnavailable)
	assert.True(t, stegx.IsRetryableError(err))

	err = source.StorePassword(ctx, "pw")
	assert.ErrorIs(t, err, stegx.ErrPasswordSourceUnavailable)
}

func TestKVPasswordSource_DrivesCodec(t *testing.T) {
	server := mockVaultServer(t)
	ctx := context.Background()

	source, err := NewKVPasswordSourceWithClient(newTestClient(t, server.URL), "photos")
	require.NoError(t, err)
	require.NoError(t, source.StorePassword(ctx, "vault-held"))

	codec := stegx.NewTestCodec(t)
	img := stegx.NewTestImage(t, 20, 20)

	out, err := codec.EncodeWithSource(ctx, img, "hi", source)
	require.NoError(t, err)

	msg, err := codec.Decode(ctx, out, "vault-held")
	require.NoError(t, err)
	assert.Equal(t, "hi", msg)
}
