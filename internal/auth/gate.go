package auth

import (
	"context"
	"errors"
	"fmt"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/models"
)

// ErrLookupFailed marks gate failures caused by storage rather than by the
// presented token.
var ErrLookupFailed = errors.New("user lookup failed")

// UserFinder looks up the user owning a token under a given scope.
type UserFinder interface {
	FindByToken(ctx context.Context, userID, access, token string) (*models.User, error)
}

// Gate resolves a presented bearer token to its user.
type Gate struct {
	tokens *TokenService
	users  UserFinder
}

func NewGate(tokens *TokenService, users UserFinder) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate returns the user owning token. Every failure wraps
// common.ErrUnauthorized; storage failures additionally wrap the cause.
func (g *Gate) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing token", common.ErrUnauthorized)
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrUnauthorized, err)
	}

	user, err := g.users.FindByToken(ctx, claims.UserID, claims.Access, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: token revoked or unknown user", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %w: %w", common.ErrUnauthorized, ErrLookupFailed, err)
	}

	return user, nil
}
