// Package storetest holds the behaviour every store backend must share.
// Backend packages call Run from their tests with a factory for a clean store.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/models"
	"TODOAPP_BACK-END/internal/store"
)

// Factory returns an empty store. Cleanup is the factory's business.
type Factory func(t *testing.T) store.Store

// Run executes the whole suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	t.Run("users", func(t *testing.T) { runUsers(t, newStore) })
	t.Run("todos", func(t *testing.T) { runTodos(t, newStore) })
}

func newUser(t *testing.T, s store.Store, email string) *models.User {
	t.Helper()
	u := &models.User{ID: models.NewID(), Email: email, PasswordHash: "hash"}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func runUsers(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		s := newStore(t)
		u := newUser(t, s, "a@x.com")

		byID, err := s.Users().FindByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", byID.Email)
		assert.Equal(t, "hash", byID.PasswordHash)
		assert.Empty(t, byID.Tokens)

		byEmail, err := s.Users().FindByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, u.ID, byEmail.ID)
	})

	t.Run("create with initial token", func(t *testing.T) {
		s := newStore(t)
		u := &models.User{
			ID: models.NewID(), Email: "first@x.com", PasswordHash: "hash",
			Tokens: []models.Token{{Access: models.AccessAuth, Token: "first"}},
		}
		require.NoError(t, s.Users().Create(ctx, u))

		got, err := s.Users().FindByToken(ctx, u.ID, models.AccessAuth, "first")
		require.NoError(t, err)
		assert.Equal(t, u.Tokens, got.Tokens)
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := newStore(t)
		newUser(t, s, "dup@x.com")

		err := s.Users().Create(ctx, &models.User{ID: models.NewID(), Email: "dup@x.com", PasswordHash: "h"})
		assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	})

	t.Run("not found", func(t *testing.T) {
		s := newStore(t)

		_, err := s.Users().FindByID(ctx, models.NewID())
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = s.Users().FindByEmail(ctx, "ghost@x.com")
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = s.Users().FindByToken(ctx, models.NewID(), models.AccessAuth, "t")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("tokens", func(t *testing.T) {
		s := newStore(t)
		u := newUser(t, s, "tok@x.com")

		require.NoError(t, s.Users().AddToken(ctx, u.ID, models.Token{Access: models.AccessAuth, Token: "t1"}))
		require.NoError(t, s.Users().AddToken(ctx, u.ID, models.Token{Access: models.AccessAuth, Token: "t2"}))

		got, err := s.Users().FindByToken(ctx, u.ID, models.AccessAuth, "t1")
		require.NoError(t, err)
		assert.Equal(t, []models.Token{
			{Access: models.AccessAuth, Token: "t1"},
			{Access: models.AccessAuth, Token: "t2"},
		}, got.Tokens)

		_, err = s.Users().FindByToken(ctx, u.ID, "other", "t1")
		assert.ErrorIs(t, err, common.ErrNotFound)

		require.NoError(t, s.Users().RemoveToken(ctx, u.ID, "t1"))
		_, err = s.Users().FindByToken(ctx, u.ID, models.AccessAuth, "t1")
		assert.ErrorIs(t, err, common.ErrNotFound)

		_, err = s.Users().FindByToken(ctx, u.ID, models.AccessAuth, "t2")
		assert.NoError(t, err)

		require.NoError(t, s.Users().RemoveToken(ctx, u.ID, "t1"), "removing twice is a no-op")
	})

	t.Run("token of another user", func(t *testing.T) {
		s := newStore(t)
		a := newUser(t, s, "a@x.com")
		b := newUser(t, s, "b@x.com")
		require.NoError(t, s.Users().AddToken(ctx, a.ID, models.Token{Access: models.AccessAuth, Token: "ta"}))

		_, err := s.Users().FindByToken(ctx, b.ID, models.AccessAuth, "ta")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("add token to missing user", func(t *testing.T) {
		s := newStore(t)

		err := s.Users().AddToken(ctx, models.NewID(), models.Token{Access: models.AccessAuth, Token: "t"})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func runTodos(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("create list find", func(t *testing.T) {
		s := newStore(t)
		a := newUser(t, s, "a@x.com")
		b := newUser(t, s, "b@x.com")

		first := &models.Todo{ID: models.NewID(), Text: "first", CreatorID: a.ID}
		second := &models.Todo{ID: models.NewID(), Text: "second", CreatorID: a.ID}
		foreign := &models.Todo{ID: models.NewID(), Text: "foreign", CreatorID: b.ID}
		for _, td := range []*models.Todo{first, second, foreign} {
			require.NoError(t, s.Todos().Create(ctx, td))
		}

		list, err := s.Todos().ListByCreator(ctx, a.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "first", list[0].Text)
		assert.Equal(t, "second", list[1].Text)

		got, err := s.Todos().FindOwned(ctx, a.ID, first.ID)
		require.NoError(t, err)
		assert.Equal(t, *first, *got)

		_, err = s.Todos().FindOwned(ctx, a.ID, foreign.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("empty list", func(t *testing.T) {
		s := newStore(t)
		a := newUser(t, s, "a@x.com")

		list, err := s.Todos().ListByCreator(ctx, a.ID)
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("update", func(t *testing.T) {
		s := newStore(t)
		a := newUser(t, s, "a@x.com")
		b := newUser(t, s, "b@x.com")
		td := &models.Todo{ID: models.NewID(), Text: "walk", CreatorID: a.ID}
		require.NoError(t, s.Todos().Create(ctx, td))

		at := int64(1700000000000)
		got, err := s.Todos().UpdateOwned(ctx, a.ID, td.ID, models.TodoUpdate{Completed: true, CompletedAt: &at})
		require.NoError(t, err)
		assert.Equal(t, "walk", got.Text)
		assert.True(t, got.Completed)
		require.NotNil(t, got.CompletedAt)
		assert.Equal(t, at, *got.CompletedAt)

		text := "run"
		got, err = s.Todos().UpdateOwned(ctx, a.ID, td.ID, models.TodoUpdate{Text: &text})
		require.NoError(t, err)
		assert.Equal(t, "run", got.Text)
		assert.False(t, got.Completed)
		assert.Nil(t, got.CompletedAt)

		_, err = s.Todos().UpdateOwned(ctx, b.ID, td.ID, models.TodoUpdate{Text: &text})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		a := newUser(t, s, "a@x.com")
		b := newUser(t, s, "b@x.com")
		td := &models.Todo{ID: models.NewID(), Text: "gone", CreatorID: a.ID}
		require.NoError(t, s.Todos().Create(ctx, td))

		_, err := s.Todos().DeleteOwned(ctx, b.ID, td.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)

		got, err := s.Todos().DeleteOwned(ctx, a.ID, td.ID)
		require.NoError(t, err)
		assert.Equal(t, "gone", got.Text)

		_, err = s.Todos().DeleteOwned(ctx, a.ID, td.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
		_, err = s.Todos().FindOwned(ctx, a.ID, td.ID)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("ping", func(t *testing.T) {
		s := newStore(t)
		assert.NoError(t, s.Ping(ctx))
	})
}
