package postgres

import (
	"context"
	"fmt"

	"TODOAPP_BACK-END/internal/models"
)

// UserRepository stores users in the users table and their token
// collections in user_tokens, ordered by insertion.
type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and, in the same transaction, any tokens it
// already carries.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if len(user.Tokens) == 0 {
		return insertUser(ctx, r.db, user)
	}

	return withTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		for _, t := range user.Tokens {
			if err := insertToken(ctx, tx, user.ID, t); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertUser(ctx context.Context, db DBTX, user *models.User) error {
	query :=
		`INSERT INTO users (id, email, password_hash)
		 VALUES ($1, $2, $3)
		 `

	if _, err := db.ExecContext(ctx, query, user.ID, user.Email, user.PasswordHash); err != nil {
		return translate(err)
	}
	return nil
}

func insertToken(ctx context.Context, db DBTX, userID string, token models.Token) error {
	query :=
		`INSERT INTO user_tokens (user_id, access, token)
		 VALUES ($1, $2, $3)
		 `

	if _, err := db.ExecContext(ctx, query, userID, token.Access, token.Token); err != nil {
		return translate(err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash FROM users
		 WHERE id = $1
		 `
	return r.findOne(ctx, query, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query :=
		`SELECT id, email, password_hash FROM users
		 WHERE email = $1
		 `
	return r.findOne(ctx, query, email)
}

func (r *UserRepository) FindByToken(ctx context.Context, id, access, token string) (*models.User, error) {
	query :=
		`SELECT u.id, u.email, u.password_hash FROM users u
		 WHERE u.id = $1
		   AND EXISTS (SELECT 1 FROM user_tokens t
		               WHERE t.user_id = u.id AND t.access = $2 AND t.token = $3)
		 `
	return r.findOne(ctx, query, id, access, token)
}

func (r *UserRepository) AddToken(ctx context.Context, userID string, token models.Token) error {
	return insertToken(ctx, r.db, userID, token)
}

func (r *UserRepository) RemoveToken(ctx context.Context, userID, token string) error {
	query :=
		`DELETE FROM user_tokens
		 WHERE user_id = $1 AND token = $2
		 `

	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash)
	if err != nil {
		return nil, translate(err)
	}

	tokens, err := r.tokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Tokens = tokens
	return user, nil
}

func (r *UserRepository) tokens(ctx context.Context, userID string) ([]models.Token, error) {
	query :=
		`SELECT access, token FROM user_tokens
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []models.Token
	for rows.Next() {
		var t models.Token
		if err := rows.Scan(&t.Access, &t.Token); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
