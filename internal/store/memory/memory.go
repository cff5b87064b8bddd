// Package memory is the in-process store backend. Data lives only as long as
// the process; it is the default driver for development and the backend the
// service and route tests run against.
package memory

import (
	"context"
	"sync"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/models"
	"TODOAPP_BACK-END/internal/store"
)

// Store keeps users and todos in maps guarded by one RWMutex.
// Values handed out are copies, callers never alias stored state.
type Store struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	byEmail map[string]string
	todos   map[string]*models.Todo
	order   []string
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
		todos:   make(map[string]*models.Todo),
	}
}

func (s *Store) Users() store.UserRepository { return userRepo{s} }
func (s *Store) Todos() store.TodoRepository { return todoRepo{s} }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close(context.Context) error { return nil }

type userRepo struct{ s *Store }

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Tokens = append([]models.Token(nil), u.Tokens...)
	return &c
}

func (r userRepo) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := user.Email
	if _, taken := r.s.byEmail[key]; taken {
		return common.ErrDuplicateEmail
	}
	r.s.users[user.ID] = cloneUser(user)
	r.s.byEmail[key] = user.ID
	return nil
}

func (r userRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r userRepo) FindByToken(ctx context.Context, id, access, token string) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok || !u.HasToken(access, token) {
		return nil, common.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r userRepo) AddToken(ctx context.Context, userID string, token models.Token) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrNotFound
	}
	u.Tokens = append(u.Tokens, token)
	return nil
}

func (r userRepo) RemoveToken(ctx context.Context, userID, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if u, ok := r.s.users[userID]; ok {
		u.Tokens = u.WithoutToken(token)
	}
	return nil
}

type todoRepo struct{ s *Store }

func (r todoRepo) Create(ctx context.Context, todo *models.Todo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c := *todo
	r.s.todos[todo.ID] = &c
	r.s.order = append(r.s.order, todo.ID)
	return nil
}

func (r todoRepo) ListByCreator(ctx context.Context, creatorID string) ([]models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Todo, 0)
	for _, id := range r.s.order {
		if td := r.s.todos[id]; td.CreatorID == creatorID {
			out = append(out, *td)
		}
	}
	return out, nil
}

// owned must be called with the lock held.
func (r todoRepo) owned(creatorID, id string) (*models.Todo, bool) {
	td, ok := r.s.todos[id]
	if !ok || td.CreatorID != creatorID {
		return nil, false
	}
	return td, true
}

func (r todoRepo) FindOwned(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	td, ok := r.owned(creatorID, id)
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *td
	return &c, nil
}

func (r todoRepo) UpdateOwned(ctx context.Context, creatorID, id string, upd models.TodoUpdate) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	td, ok := r.owned(creatorID, id)
	if !ok {
		return nil, common.ErrNotFound
	}
	if upd.Text != nil {
		td.Text = *upd.Text
	}
	td.Completed = upd.Completed
	td.CompletedAt = nil
	if upd.CompletedAt != nil {
		at := *upd.CompletedAt
		td.CompletedAt = &at
	}
	c := *td
	return &c, nil
}

func (r todoRepo) DeleteOwned(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	td, ok := r.owned(creatorID, id)
	if !ok {
		return nil, common.ErrNotFound
	}
	delete(r.s.todos, id)
	for i, oid := range r.s.order {
		if oid == id {
			r.s.order = append(r.s.order[:i], r.s.order[i+1:]...)
			break
		}
	}
	return td, nil
}
