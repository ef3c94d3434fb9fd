// Package auth provides account authentication: bcrypt password
// verification and JWT session tokens carrying the account's linked
// ledger identity.
package auth

import (
	"context"

	"github.com/swisscoin/swisscoin/internal/models"
)

// Authenticator abstracts the credential scheme so the service layer is
// independent of how accounts prove who they are.
type Authenticator interface {
	// Register creates a new account from an email and credential,
	// including the person the account views balances as.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credentials and returns the account.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks a credential against the scheme's
	// strength requirements without touching storage.
	ValidateCredential(credential string) error
}
