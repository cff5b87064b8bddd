package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"TODOAPP_BACK-END/internal/auth"
	"TODOAPP_BACK-END/internal/config"
	"TODOAPP_BACK-END/internal/dto"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/services"
	"TODOAPP_BACK-END/internal/store/memory"
)

func newGoogleHandler(t *testing.T, enabled bool) (*GoogleAuthHandler, *memory.Store, *auth.Gate) {
	t.Helper()
	st := memory.New()
	tokens := auth.NewTokenService("google-secret")
	users := services.NewUserService(st.Users(), tokens, bcrypt.MinCost, logging.Discard())

	cfg := config.GoogleOAuthConfig{RedirectURL: "http://localhost:3000/users/google/callback"}
	if enabled {
		cfg.ClientID, cfg.ClientSecret = "client-id", "client-secret"
	}
	h := NewGoogleAuthHandler(users, cfg, "x-auth", logging.Discard())
	h.exchange = func(_ context.Context, code string) (*oauth2.Token, error) {
		if code != "good-code" {
			return nil, errors.New("invalid_grant")
		}
		return &oauth2.Token{AccessToken: "google-access"}, nil
	}
	h.userInfo = func(context.Context, *oauth2.Token) (*dto.GoogleUserInfo, error) {
		return &dto.GoogleUserInfo{Email: "g@x.com", Verified: true}, nil
	}
	return h, st, auth.NewGate(tokens, st.Users())
}

func callbackRequest(code, state, cookie string) *http.Request {
	q := url.Values{}
	if code != "" {
		q.Set("code", code)
	}
	if state != "" {
		q.Set("state", state)
	}
	req := httptest.NewRequest(http.MethodGet, "/users/google/callback?"+q.Encode(), nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: cookie})
	}
	return req
}

func TestGoogleLogin_Disabled(t *testing.T) {
	h, _, _ := newGoogleHandler(t, false)

	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/users/google/login", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.GoogleCallback(rec, callbackRequest("good-code", "s", "s"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGoogleLogin_ReturnsURLAndState(t *testing.T) {
	h, _, _ := newGoogleHandler(t, true)

	rec := httptest.NewRecorder()
	h.GoogleLogin(rec, httptest.NewRequest(http.MethodGet, "/users/google/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body dto.GoogleLoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.State)

	u, err := url.Parse(body.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, "client-id", u.Query().Get("client_id"))
	assert.Equal(t, body.State, u.Query().Get("state"))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, stateCookie, cookies[0].Name)
	assert.Equal(t, body.State, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestGoogleCallback(t *testing.T) {
	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{name: "missing code", req: callbackRequest("", "s", "s"), wantStatus: http.StatusBadRequest},
		{name: "missing cookie", req: callbackRequest("good-code", "s", ""), wantStatus: http.StatusBadRequest},
		{name: "state mismatch", req: callbackRequest("good-code", "s", "other"), wantStatus: http.StatusBadRequest},
		{name: "bad code", req: callbackRequest("bad-code", "s", "s"), wantStatus: http.StatusUnauthorized},
		{name: "success", req: callbackRequest("good-code", "s", "s"), wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _, gate := newGoogleHandler(t, true)
			rec := httptest.NewRecorder()
			h.GoogleCallback(rec, tt.req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body dto.TokenResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, body.Token, rec.Header().Get("x-auth"))

			user, err := gate.Authenticate(context.Background(), body.Token)
			require.NoError(t, err)
			assert.Equal(t, "g@x.com", user.Email)
		})
	}
}

func TestGoogleCallback_Unverified(t *testing.T) {
	h, st, _ := newGoogleHandler(t, true)
	h.userInfo = func(context.Context, *oauth2.Token) (*dto.GoogleUserInfo, error) {
		return &dto.GoogleUserInfo{Email: "g@x.com", Verified: false}, nil
	}

	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, callbackRequest("good-code", "s", "s"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, err := st.Users().FindByEmail(context.Background(), "g@x.com")
	assert.Error(t, err, "no account created")
}

func TestGoogleCallback_UserInfoError(t *testing.T) {
	h, _, _ := newGoogleHandler(t, true)
	h.userInfo = func(context.Context, *oauth2.Token) (*dto.GoogleUserInfo, error) {
		return nil, errors.New("googleapi: 503")
	}

	rec := httptest.NewRecorder()
	h.GoogleCallback(rec, callbackRequest("good-code", "s", "s"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGoogleAuthHandler_DefaultExchange(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"google-access","token_type":"Bearer","expires_in":3600}`))
	}))
	t.Cleanup(tokenServer.Close)

	st := memory.New()
	users := services.NewUserService(st.Users(), auth.NewTokenService("k"), bcrypt.MinCost, logging.Discard())
	h := NewGoogleAuthHandler(users, config.GoogleOAuthConfig{ClientID: "id", ClientSecret: "secret"}, "x-auth", logging.Discard())
	h.oauth2Config.Endpoint = oauth2.Endpoint{TokenURL: tokenServer.URL, AuthStyle: oauth2.AuthStyleInParams}

	tok, err := h.exchange(context.Background(), "good-code")
	require.NoError(t, err)
	assert.Equal(t, "google-access", tok.AccessToken)

	_, err = h.exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}
