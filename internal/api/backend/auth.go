package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	apperrors "editor-board/internal/errors"
	"editor-board/internal/models"

	"go.uber.org/zap"
)

const (
	mePath     = "/api/auth/me"
	logoutPath = "/api/auth/logout"
	oauthPath  = "/oauth2/authorization/google"
)

// LoginURL is where the user is sent to start the Google OAuth flow.
func (c *Client) LoginURL() string {
	return c.baseURL + oauthPath
}

// ParseCallback extracts the session token from the OAuth callback query.
// A 403 (disabled account) or any reported error is returned as such.
func ParseCallback(query url.Values) (string, error) {
	if token := strings.TrimSpace(query.Get("token")); token != "" {
		return token, nil
	}

	status := query.Get("status")
	reason := query.Get("error")
	if status == "403" || strings.EqualFold(reason, "forbidden") || strings.EqualFold(reason, "disabled") {
		return "", ErrAccountDisabled
	}
	if reason != "" {
		return "", apperrors.Unauthorized("oauth callback error", fmt.Errorf("%s", reason))
	}

	return "", ErrMissingToken
}

// Identity performs account calls on behalf of one token holder.
type Identity struct {
	client *Client
	token  string
}

func (c *Client) Identity(token string) *Identity {
	return &Identity{client: c, token: token}
}

// Me returns the current account. A 401 is reported as ErrUnauthorized.
func (i *Identity) Me(ctx context.Context) (*models.Profile, error) {
	if i.token == "" {
		return nil, ErrUnauthorized
	}

	data, _, err := i.client.do(ctx, request{
		method: http.MethodGet,
		url:    i.client.baseURL + mePath,
		token:  i.token,
	})
	if err != nil {
		if !apperrors.IsType(err, apperrors.ErrTypeUnauthorized) {
			i.client.logger.Error("failed to get current user", zap.Error(err))
		}
		return nil, fmt.Errorf("get current user: %w", err)
	}

	var env envelope
	if err := i.client.parseResponse(data, &env); err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, apperrors.Internal("current user response without data", nil)
	}

	var profile models.Profile
	if err := i.client.parseResponse(env.Data, &profile); err != nil {
		return nil, err
	}

	i.client.logger.Debug("current user retrieved",
		zap.Int64("account_id", profile.ID),
		zap.String("nickname", profile.Nickname),
	)

	return &profile, nil
}

// Verify is the cheap HEAD variant of Me.
func (i *Identity) Verify(ctx context.Context) error {
	if i.token == "" {
		return ErrUnauthorized
	}

	_, _, err := i.client.do(ctx, request{
		method: http.MethodHead,
		url:    i.client.baseURL + mePath,
		token:  i.token,
	})
	if err != nil {
		return fmt.Errorf("verify session: %w", err)
	}
	return nil
}

func (i *Identity) Logout(ctx context.Context) error {
	_, _, err := i.client.do(ctx, request{
		method: http.MethodPost,
		url:    i.client.baseURL + logoutPath,
		token:  i.token,
	})
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
