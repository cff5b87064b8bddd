// Package store declares the persistence contracts shared by the memory,
// postgres and mongo backends.
//
// Lookups that match nothing return common.ErrNotFound; creating a user with a
// taken email returns common.ErrDuplicateEmail. Every todo operation takes the
// creator id and never touches another creator's records.
package store

import (
	"context"

	"TODOAPP_BACK-END/internal/models"
)

// UserRepository persists users and their token collections.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByToken returns user id only if its collection holds token under access.
	FindByToken(ctx context.Context, id, access, token string) (*models.User, error)
	AddToken(ctx context.Context, userID string, token models.Token) error
	// RemoveToken drops every entry equal to token. Missing tokens are not an error.
	RemoveToken(ctx context.Context, userID, token string) error
}

// TodoRepository persists todos scoped by creator.
type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	ListByCreator(ctx context.Context, creatorID string) ([]models.Todo, error)
	FindOwned(ctx context.Context, creatorID, id string) (*models.Todo, error)
	UpdateOwned(ctx context.Context, creatorID, id string, upd models.TodoUpdate) (*models.Todo, error)
	DeleteOwned(ctx context.Context, creatorID, id string) (*models.Todo, error)
}

// Store bundles the repositories of one backend with its lifecycle.
type Store interface {
	Users() UserRepository
	Todos() TodoRepository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
