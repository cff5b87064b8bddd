package handlers

import (
	"net/http"

	"TODOAPP_BACK-END/internal/dto"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/middleware"
	"TODOAPP_BACK-END/internal/services"
	"TODOAPP_BACK-END/internal/utils"
)

// AuthHandler handles account and session requests
type AuthHandler struct {
	users  *services.UserService
	header string
	log    logging.Logger
}

// NewAuthHandler creates a new AuthHandler instance. header names the
// response header carrying newly issued tokens.
func NewAuthHandler(users *services.UserService, header string, log logging.Logger) *AuthHandler {
	return &AuthHandler{users: users, header: header, log: log.With("handler", "auth")}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an account and return it with a fresh token in the x-auth header
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CredentialsRequest true "Email and password"
// @Success 200 {object} dto.UserResponse "User created"
// @Header 200 {string} x-auth "Auth token"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or email taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	user, token, err := h.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err, defaultMessages)
		return
	}

	w.Header().Set(h.header, token)
	utils.WriteJSONResponse(w, http.StatusOK, dto.ToPublicView(user))
}

// Login handles user login
// @Summary Login user
// @Description Check credentials and issue a new token
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CredentialsRequest true "Login credentials"
// @Success 200 {object} dto.TokenResponse "Login successful"
// @Header 200 {string} x-auth "Auth token"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid email/password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.CredentialsRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	_, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.log, err, defaultMessages)
		return
	}

	w.Header().Set(h.header, token)
	utils.WriteJSONResponse(w, http.StatusOK, dto.TokenResponse{Token: token})
}

// Me returns the authenticated user
// @Summary Current user
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "unauthorised"
// @Router /users/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.ToPublicView(user))
}

// Logout revokes the token used for this request
// @Summary Logout
// @Tags users
// @Security ApiKeyAuth
// @Success 200 "Token removed"
// @Failure 401 {object} dto.ErrorResponse "unauthorised"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users/me/token [delete]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	token, tok := middleware.TokenFromContext(r.Context())
	if !ok || !tok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "unauthorised")
		return
	}

	if err := h.users.Logout(r.Context(), user.ID, token); err != nil {
		writeServiceError(w, r, h.log, err, defaultMessages)
		return
	}
	w.WriteHeader(http.StatusOK)
}
