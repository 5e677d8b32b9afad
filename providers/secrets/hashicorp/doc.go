// Package hashicorp reads stegx passwords from HashiCorp Vault's KV v2 engine.
//
// KVPasswordSource implements stegx.PasswordSource, so a codec can encode and
// decode without the password ever appearing on a command line:
//
//	source, err := hashicorp.NewKVPasswordSource(ctx, "holiday-photos")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := codec.EncodeWithSource(ctx, img, "meet at dawn", source)
//
// # Configuration
//
// The client is configured from the environment:
//
//	export VAULT_ADDR="https://vault.example.com:8200"
//	export VAULT_TOKEN="hvs.your-token-here"
//	# or AppRole
//	export VAULT_ROLE_ID="..."
//	export VAULT_SECRET_ID="..."
//	# optional
//	export VAULT_NAMESPACE="admin/example"
//
// # Storage
//
// Passwords live at "secret/data/stegx/{name}" under the "password" field.
// WithMount and WithField change both parts. To store one by hand:
//
//	vault kv put secret/stegx/holiday-photos password='correct horse'
//
// The token needs:
//
//	path "secret/data/stegx/*" {
//	    capabilities = ["create", "read", "update"]
//	}
//
// # Errors
//
//   - stegx.ErrPasswordSourceUnavailable: Vault could not be reached or refused the request
//   - stegx.ErrPasswordSourceAuth: AppRole login failed
//   - stegx.ErrMissingPassword: no secret, or the field is missing
//   - stegx.ErrInvalidConfiguration: missing address, credentials or name
package hashicorp
