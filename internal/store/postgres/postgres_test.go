package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TODOAPP_BACK-END/internal/common"
	"TODOAPP_BACK-END/internal/config"
	"TODOAPP_BACK-END/internal/models"
	"TODOAPP_BACK-END/internal/store"
	"TODOAPP_BACK-END/internal/store/postgres/migrations"
	"TODOAPP_BACK-END/internal/store/storetest"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

const (
	userID = "507f1f77bcf86cd799439011"
	todoID = "507f191e810c19729de860ea"
)

func TestUsers_Create(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+users\s*\(id,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`).
		WithArgs(userID, "a@x.com", "hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Users().Create(context.Background(), &models.User{ID: userID, Email: "a@x.com", PasswordHash: "hash"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_CreateDuplicate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "users_email_key"})

	err := s.Users().Create(context.Background(), &models.User{ID: userID, Email: "a@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
}

func TestUsers_CreateDBError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnError(errors.New("db down"))

	err := s.Users().Create(context.Background(), &models.User{ID: userID})
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db down`, err.Error())
}

func TestUsers_CreateWithTokensIsAtomic(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WithArgs(userID, "a@x.com", "hash").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+user_tokens`).
		WithArgs(userID, models.AccessAuth, "tok").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	user := &models.User{
		ID: userID, Email: "a@x.com", PasswordHash: "hash",
		Tokens: []models.Token{{Access: models.AccessAuth, Token: "tok"}},
	}
	require.NoError(t, s.Users().Create(context.Background(), user))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_CreateWithTokensRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT\s+INTO\s+users`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT\s+INTO\s+user_tokens`).WillReturnError(errors.New("db down"))
	mock.ExpectRollback()

	user := &models.User{
		ID: userID, Email: "a@x.com", PasswordHash: "hash",
		Tokens: []models.Token{{Access: models.AccessAuth, Token: "tok"}},
	}
	err := s.Users().Create(context.Background(), user)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_CreateWithTokensDuplicateEmail(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WillReturnError(&pgconn.PgError{Code: codeUniqueViolation})
	mock.ExpectRollback()

	user := &models.User{ID: userID, Email: "a@x.com", Tokens: []models.Token{{Access: models.AccessAuth, Token: "tok"}}}
	err := s.Users().Create(context.Background(), user)
	assert.ErrorIs(t, err, common.ErrDuplicateEmail)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_FindByEmailLoadsTokens(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,\s*email,\s*password_hash\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s*$`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}).AddRow(userID, "a@x.com", "hash"))
	mock.ExpectQuery(`(?s)^SELECT\s+access,\s*token\s+FROM\s+user_tokens\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"access", "token"}).
			AddRow(models.AccessAuth, "t1").
			AddRow(models.AccessAuth, "t2"))

	u, err := s.Users().FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, userID, u.ID)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, []models.Token{{Access: models.AccessAuth, Token: "t1"}, {Access: models.AccessAuth, Token: "t2"}}, u.Tokens)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsers_FindByIDNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM\s+users\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(userID).
		WillReturnError(sql.ErrNoRows)

	_, err := s.Users().FindByID(context.Background(), userID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUsers_FindByToken(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)FROM\s+users\s+u\s+WHERE\s+u\.id\s*=\s*\$1\s+AND\s+EXISTS.*t\.access\s*=\s*\$2\s+AND\s+t\.token\s*=\s*\$3`).
		WithArgs(userID, models.AccessAuth, "tok").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}).AddRow(userID, "a@x.com", "hash"))
	mock.ExpectQuery(`FROM\s+user_tokens`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"access", "token"}).AddRow(models.AccessAuth, "tok"))

	u, err := s.Users().FindByToken(context.Background(), userID, models.AccessAuth, "tok")
	require.NoError(t, err)
	assert.True(t, u.HasToken(models.AccessAuth, "tok"))
}

func TestUsers_FindByTokenRevoked(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM\s+users\s+u`).
		WithArgs(userID, models.AccessAuth, "gone").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}))

	_, err := s.Users().FindByToken(context.Background(), userID, models.AccessAuth, "gone")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUsers_AddToken(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+user_tokens\s*\(user_id,\s*access,\s*token\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*$`).
		WithArgs(userID, models.AccessAuth, "tok").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := s.Users().AddToken(context.Background(), userID, models.Token{Access: models.AccessAuth, Token: "tok"})
	require.NoError(t, err)
}

func TestUsers_AddTokenMissingUser(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT\s+INTO\s+user_tokens`).
		WillReturnError(&pgconn.PgError{Code: codeForeignKeyViolation})

	err := s.Users().AddToken(context.Background(), userID, models.Token{Access: models.AccessAuth, Token: "tok"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestUsers_RemoveToken(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`(?s)^DELETE\s+FROM\s+user_tokens\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+token\s*=\s*\$2\s*$`).
		WithArgs(userID, "tok").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Users().RemoveToken(context.Background(), userID, "tok"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodos_Create(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`(?s)^INSERT\s+INTO\s+todos\s*\(id,\s*text,\s*completed,\s*completed_at,\s*creator_id\)`).
		WithArgs(todoID, "walk", false, nil, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Todos().Create(context.Background(), &models.Todo{ID: todoID, Text: "walk", CreatorID: userID})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodos_ListByCreator(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)FROM\s+todos\s+WHERE\s+creator_id\s*=\s*\$1\s+ORDER\s+BY\s+seq`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "completed_at", "creator_id"}).
			AddRow(todoID, "walk", false, nil, userID).
			AddRow("507f191e810c19729de860eb", "run", true, int64(1700000000000), userID))

	list, err := s.Todos().ListByCreator(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[0].CompletedAt)
	require.NotNil(t, list[1].CompletedAt)
	assert.Equal(t, int64(1700000000000), *list[1].CompletedAt)
}

func TestTodos_ListByCreatorEmpty(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM\s+todos`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "completed_at", "creator_id"}))

	list, err := s.Todos().ListByCreator(context.Background(), userID)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestTodos_ListByCreatorDBError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM\s+todos`).WillReturnError(errors.New("db err"))

	_, err := s.Todos().ListByCreator(context.Background(), userID)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestTodos_FindOwnedNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)FROM\s+todos\s+WHERE\s+id\s*=\s*\$1\s+AND\s+creator_id\s*=\s*\$2`).
		WithArgs(todoID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "completed_at", "creator_id"}))

	_, err := s.Todos().FindOwned(context.Background(), userID, todoID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTodos_UpdateOwned(t *testing.T) {
	s, mock := newMockStore(t)
	at := int64(1700000000000)

	mock.ExpectQuery(`(?s)^UPDATE\s+todos\s+SET\s+text\s*=\s*COALESCE\(\$3,\s*text\),\s*completed\s*=\s*\$4,\s*completed_at\s*=\s*\$5\s+WHERE\s+id\s*=\s*\$1\s+AND\s+creator_id\s*=\s*\$2\s+RETURNING`).
		WithArgs(todoID, userID, nil, true, at).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "completed_at", "creator_id"}).
			AddRow(todoID, "walk", true, at, userID))

	td, err := s.Todos().UpdateOwned(context.Background(), userID, todoID, models.TodoUpdate{Completed: true, CompletedAt: &at})
	require.NoError(t, err)
	assert.True(t, td.Completed)
	assert.Equal(t, at, *td.CompletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTodos_UpdateOwnedForeign(t *testing.T) {
	s, mock := newMockStore(t)
	text := "x"

	mock.ExpectQuery(`UPDATE\s+todos`).
		WithArgs(todoID, userID, text, false, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "completed_at", "creator_id"}))

	_, err := s.Todos().UpdateOwned(context.Background(), userID, todoID, models.TodoUpdate{Text: &text})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestTodos_DeleteOwned(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+todos\s+WHERE\s+id\s*=\s*\$1\s+AND\s+creator_id\s*=\s*\$2\s+RETURNING`).
		WithArgs(todoID, userID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "completed", "completed_at", "creator_id"}).
			AddRow(todoID, "walk", false, nil, userID))

	td, err := s.Todos().DeleteOwned(context.Background(), userID, todoID)
	require.NoError(t, err)
	assert.Equal(t, "walk", td.Text)
}

func TestRunMigrations(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	var gotDir string
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		gotDir = dir
		return nil
	}
	require.NoError(t, RunMigrations(context.Background(), db))
	assert.Equal(t, ".", gotDir)

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err = RunMigrations(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "00001_init.sql", entries[0].Name())
}

// TestStore_Conformance runs the shared suite against a live database.
func TestStore_Conformance(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	ctx := context.Background()
	s, err := Open(ctx, dsn, config.DatabaseConfig{MaxConns: 4, MaxLifetime: time.Hour, QueryTimeout: 10 * time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(ctx) })
	require.NoError(t, s.Migrate(ctx))

	storetest.Run(t, func(t *testing.T) store.Store {
		_, err := s.db.ExecContext(ctx, `TRUNCATE users, user_tokens, todos`)
		require.NoError(t, err)
		return s
	})
}
