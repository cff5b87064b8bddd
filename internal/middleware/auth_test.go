package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TODOAPP_BACK-END/internal/auth"
	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/models"
)

type stubGate struct {
	user *models.User
	err  error
}

func (s stubGate) Authenticate(_ context.Context, token string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != "good" {
		return nil, common.ErrUnauthorized
	}
	return s.user, nil
}

func TestRequireAuth(t *testing.T) {
	user := &models.User{ID: models.NewID(), Email: "a@x.com"}

	var gotUser *models.User
	var gotToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		gotToken, _ = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		gate       stubGate
		token      string
		wantStatus int
	}{
		{name: "valid", gate: stubGate{user: user}, token: "good", wantStatus: http.StatusNoContent},
		{name: "missing", gate: stubGate{user: user}, wantStatus: http.StatusUnauthorized},
		{name: "wrong", gate: stubGate{user: user}, token: "bad", wantStatus: http.StatusUnauthorized},
		{name: "storage error", gate: stubGate{err: fmt.Errorf("%w: %w", common.ErrUnauthorized, auth.ErrLookupFailed)}, token: "good", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotToken = nil, ""
			h := RequireAuth(tt.gate, "x-auth", logging.Discard())(next)

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.token != "" {
				req.Header.Set("x-auth", tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"Unauthorized","message":"unauthorised"}`, rec.Body.String())
				assert.Nil(t, gotUser, "next must not run")
				return
			}
			require.NotNil(t, gotUser)
			assert.Equal(t, user.ID, gotUser.ID)
			assert.Equal(t, "good", gotToken)
		})
	}
}

func TestFromContext_Empty(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
	_, ok = TokenFromContext(context.Background())
	assert.False(t, ok)
}

func TestRequireAuth_RealGate(t *testing.T) {
	tokens := auth.NewTokenService("mw-secret")
	user := &models.User{ID: models.NewID(), Email: "a@x.com"}
	tok, err := tokens.Issue(user.ID, models.AccessAuth)
	require.NoError(t, err)
	user.Tokens = []models.Token{{Access: models.AccessAuth, Token: tok}}

	finder := finderFunc(func(_ context.Context, id, access, token string) (*models.User, error) {
		if id == user.ID && user.HasToken(access, token) {
			return user, nil
		}
		return nil, common.ErrNotFound
	})
	h := RequireAuth(auth.NewGate(tokens, finder), "x-auth", logging.Discard())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-auth", tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	user.Tokens = nil
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type finderFunc func(ctx context.Context, id, access, token string) (*models.User, error)

func (f finderFunc) FindByToken(ctx context.Context, id, access, token string) (*models.User, error) {
	return f(ctx, id, access, token)
}

