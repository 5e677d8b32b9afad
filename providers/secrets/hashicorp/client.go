package hashicorp

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/hashicorp/vault/api"
	"github.com/hengadev/stegx"
)

// createVaultClient creates a configured Vault client using environment variables.
//
// Environment Variables:
//   - VAULT_ADDR: Vault server address (required, e.g., "https://vault.example.com")
//   - VAULT_NAMESPACE: Vault namespace for HCP Vault (optional, e.g., "admin/example")
//   - VAULT_TOKEN: Direct Vault token (optional, alternative to AppRole)
//   - VAULT_ROLE_ID: AppRole role ID for authentication (optional, requires VAULT_SECRET_ID)
//   - VAULT_SECRET_ID: AppRole secret ID for authentication (optional, requires VAULT_ROLE_ID)
//
// Authentication Priority:
//  1. If VAULT_TOKEN is set, uses token directly
//  2. If VAULT_ROLE_ID and VAULT_SECRET_ID are set, uses AppRole authentication
//  3. Otherwise, returns error (no authentication method available)
func createVaultClient(ctx context.Context) (*api.Client, error) {
	config := api.DefaultConfig()

	if addr := os.Getenv("VAULT_ADDR"); addr != "" {
		config.Address = addr
	}
	if config.Address == "" {
		return nil, fmt.Errorf("%w: VAULT_ADDR environment variable is required", stegx.ErrInvalidConfiguration)
	}

	config.HttpClient.Transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Vault client: %w", stegx.ErrPasswordSourceUnavailable, err)
	}

	if namespace := os.Getenv("VAULT_NAMESPACE"); namespace != "" {
		client.SetNamespace(namespace)
	}

	if token := os.Getenv("VAULT_TOKEN"); token != "" {
		client.SetToken(token)
		return client, nil
	}

	roleID := os.Getenv("VAULT_ROLE_ID")
	secretID := os.Getenv("VAULT_SECRET_ID")
	if roleID != "" && secretID != "" {
		if err := appRoleLogin(ctx, client, roleID, secretID); err != nil {
			return nil, err
		}
		return client, nil
	}

	return nil, fmt.Errorf("%w: no Vault authentication method configured (set VAULT_TOKEN or VAULT_ROLE_ID+VAULT_SECRET_ID)",
		stegx.ErrInvalidConfiguration)
}

// appRoleLogin exchanges an AppRole role and secret id for a client token.
func appRoleLogin(ctx context.Context, client *api.Client, roleID, secretID string) error {
	data := map[string]interface{}{
		"role_id":   roleID,
		"secret_id": secretID,
	}

	resp, err := client.Logical().WriteWithContext(ctx, "auth/approle/login", data)
	if err != nil {
		return fmt.Errorf("%w: failed to login with AppRole: %w", stegx.ErrPasswordSourceAuth, err)
	}
	if resp == nil || resp.Auth == nil {
		return fmt.Errorf("%w: no auth info returned from AppRole login", stegx.ErrPasswordSourceAuth)
	}

	client.SetToken(resp.Auth.ClientToken)
	return nil
}
