package ports

import (
	"context"

	"github.com/openshelf/book-catalog/internal/core/domain"
)

// RegisterInput carries the registration payload. PasswordConfirmation is
// supplied only at registration time and never stored.
type RegisterInput struct {
	Username             string
	Email                string
	Password             string
	PasswordConfirmation string
}

type AuthService interface {
	// Register validates the password policy and confirmation match, then
	// creates the account. The returned user never carries the password.
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	// IssueToken verifies credentials and returns a signed bearer token.
	IssueToken(ctx context.Context, username, password string) (string, error)

	// Profile resolves the account behind an authenticated username.
	Profile(ctx context.Context, username string) (*domain.User, error)
}
