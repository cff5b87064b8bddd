// Package services contains the business logic behind the HTTP handlers:
// account registration and login with per-session tokens, and the todo store
// scoped to the authenticated user.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"TODOAPP_BACK-END/internal/auth"
	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/logging"
	"TODOAPP_BACK-END/internal/models"
	"TODOAPP_BACK-END/internal/store"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type emailOnly struct {
	Email string `json:"email" validate:"required,email"`
}

// UserService registers users, checks credentials and manages the token
// collection of each user.
type UserService struct {
	users      store.UserRepository
	tokens     *auth.TokenService
	bcryptCost int
	validate   *validator.Validate
	log        logging.Logger
}

// NewUserService constructs a UserService.
func NewUserService(users store.UserRepository, tokens *auth.TokenService, bcryptCost int, log logging.Logger) *UserService {
	return &UserService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		validate:   newValidator(),
		log:        log.With("module", "users"),
	}
}

// Register creates a user and issues its first auth token. The token is
// stored together with the user, so a failed registration leaves nothing
// behind.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	in := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := validateStruct(s.validate, in); err != nil {
		return nil, "", err
	}
	// max above counts runes, bcrypt counts bytes
	if len(in.Password) > auth.MaxPasswordBytes {
		return nil, "", &common.ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes),
		}
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{ID: models.NewID(), Email: in.Email, PasswordHash: hash}
	token, err := s.tokens.Issue(user.ID, models.AccessAuth)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	user.Tokens = []models.Token{{Access: models.AccessAuth, Token: token}}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Login checks email and password and issues a new auth token. Unknown email
// and wrong password fail the same way.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, "", common.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, "", common.ErrInvalidCredentials
	}

	token, err := s.generateAuthToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout removes every copy of token from the user's collection.
func (s *UserService) Logout(ctx context.Context, userID, token string) error {
	if err := s.users.RemoveToken(ctx, userID, token); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	s.log.Debug(ctx, "token revoked", "user_id", userID)
	return nil
}

// SignInWithEmail finds the user with email, creating one with a random
// password when none exists, and issues an auth token. It backs sign-in
// through an external identity provider that already verified the address.
func (s *UserService) SignInWithEmail(ctx context.Context, email string) (*models.User, string, error) {
	in := emailOnly{Email: strings.TrimSpace(email)}
	if err := validateStruct(s.validate, in); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByEmail(ctx, in.Email)
	if errors.Is(err, common.ErrNotFound) {
		user, err = s.createExternal(ctx, in.Email)
	}
	if err != nil {
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	token, err := s.generateAuthToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) createExternal(ctx context.Context, email string) (*models.User, error) {
	password, err := auth.RandomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{ID: models.NewID(), Email: email, PasswordHash: hash}
	err = s.users.Create(ctx, user)
	if errors.Is(err, common.ErrDuplicateEmail) {
		// a concurrent sign-in created it first
		return s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user created from external sign-in", "user_id", user.ID)
	return user, nil
}

// generateAuthToken issues an auth-scoped token and appends it to the
// user's collection.
func (s *UserService) generateAuthToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, models.AccessAuth)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	entry := models.Token{Access: models.AccessAuth, Token: token}
	if err := s.users.AddToken(ctx, user.ID, entry); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	user.Tokens = append(user.Tokens, entry)
	return token, nil
}
