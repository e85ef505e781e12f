package bot

import (
	"context"

	"editor-board/internal/api/backend"
	"editor-board/internal/models"
)

// TokenStore holds the access token of one Telegram user.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
}

// accountIdentity calls the backend with whatever token the user currently holds.
type accountIdentity struct {
	client *backend.Client
	tokens TokenStore
}

func (a *accountIdentity) Me(ctx context.Context) (*models.Profile, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}
	return a.client.Identity(token).Me(ctx)
}

func (a *accountIdentity) Logout(ctx context.Context) error {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	return a.client.Identity(token).Logout(ctx)
}
