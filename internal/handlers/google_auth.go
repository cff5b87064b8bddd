package handlers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleOAuth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"TODOAPP_BACK-END/internal/config"
	"TODOAPP_BACK-END/internal/dto"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/services"
	"TODOAPP_BACK-END/internal/utils"
)

const stateCookie = "oauth_state"

// GoogleAuthHandler handles Google OAuth sign-in. A verified Google email is
// mapped to a local user and answered with the same auth token as Login.
type GoogleAuthHandler struct {
	users        *services.UserService
	oauth2Config *oauth2.Config
	header       string
	enabled      bool
	log          logging.Logger

	exchange func(ctx context.Context, code string) (*oauth2.Token, error)
	userInfo func(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error)
}

// NewGoogleAuthHandler creates a new GoogleAuthHandler instance. Without
// client credentials both routes answer 404.
func NewGoogleAuthHandler(users *services.UserService, cfg config.GoogleOAuthConfig, header string, log logging.Logger) *GoogleAuthHandler {
	h := &GoogleAuthHandler{
		users: users,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		header:  header,
		enabled: cfg.ClientID != "" && cfg.ClientSecret != "",
		log:     log.With("handler", "google_auth"),
	}
	h.exchange = func(ctx context.Context, code string) (*oauth2.Token, error) {
		return h.oauth2Config.Exchange(ctx, code)
	}
	h.userInfo = h.fetchGoogleUserInfo
	return h
}

// GoogleLogin initiates Google OAuth login
// @Summary Google OAuth login
// @Description Returns the Google consent URL and the CSRF state, also set as a cookie
// @Tags users
// @Produce json
// @Success 200 {object} dto.GoogleLoginResponse "Google OAuth URL"
// @Failure 404 {object} dto.ErrorResponse "Google sign-in disabled"
// @Router /users/google/login [get]
func (h *GoogleAuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Google sign-in is not configured")
		return
	}

	// Generate state parameter for CSRF protection
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/users/google",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	utils.WriteJSONResponse(w, http.StatusOK, dto.GoogleLoginResponse{
		AuthURL: h.oauth2Config.AuthCodeURL(state),
		State:   state,
	})
}

// GoogleCallback handles Google OAuth callback
// @Summary Google OAuth callback
// @Description Exchange the authorization code and sign the Google user in
// @Tags users
// @Produce json
// @Param code query string true "Authorization code from Google"
// @Param state query string true "State returned by /users/google/login"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Header 200 {string} x-auth "Auth token"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid authorization code"
// @Failure 404 {object} dto.ErrorResponse "Google sign-in disabled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/google/callback [get]
func (h *GoogleAuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not Found", "Google sign-in is not configured")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing authorization code", "Authorization code is required")
		return
	}
	if !h.validState(r) {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Invalid state")
		return
	}

	token, err := h.exchange(r.Context(), code)
	if err != nil {
		h.log.Warn(r.Context(), "code exchange failed", "error", err)
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid authorization code")
		return
	}

	info, err := h.userInfo(r.Context(), token)
	if err != nil {
		h.log.Error(r.Context(), "fetch google user info", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get user info")
		return
	}
	if !info.Verified {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Google email is not verified")
		return
	}

	_, authToken, err := h.users.SignInWithEmail(r.Context(), info.Email)
	if err != nil {
		writeServiceError(w, r, h.log, err, defaultMessages)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/users/google", MaxAge: -1})
	w.Header().Set(h.header, authToken)
	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{Token: authToken})
}

func (h *GoogleAuthHandler) validState(r *http.Request) bool {
	state := r.URL.Query().Get("state")
	c, err := r.Cookie(stateCookie)
	if err != nil || state == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(state), []byte(c.Value)) == 1
}

// fetchGoogleUserInfo fetches user information from Google
func (h *GoogleAuthHandler) fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*dto.GoogleUserInfo, error) {
	service, err := googleOAuth2.NewService(ctx, option.WithTokenSource(h.oauth2Config.TokenSource(ctx, token)))
	if err != nil {
		return nil, err
	}

	userInfo, err := service.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	verified := false
	if userInfo.VerifiedEmail != nil {
		verified = *userInfo.VerifiedEmail
	}

	return &dto.GoogleUserInfo{Email: userInfo.Email, Verified: verified}, nil
}
