package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"TODOAPP_BACK-END/internal/models"
)

// TodoRepository stores todos. Every statement filters on creator_id.
type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (*models.Todo, error) {
	var (
		td          models.Todo
		completedAt sql.NullInt64
	)
	if err := row.Scan(&td.ID, &td.Text, &td.Completed, &completedAt, &td.CreatorID); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		at := completedAt.Int64
		td.CompletedAt = &at
	}
	return &td, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query :=
		`INSERT INTO todos (id, text, completed, completed_at, creator_id)
		 VALUES ($1, $2, $3, $4, $5)
		 `

	_, err := r.db.ExecContext(ctx, query,
		todo.ID, todo.Text, todo.Completed, nullInt64(todo.CompletedAt), todo.CreatorID)
	if err != nil {
		return translate(err)
	}
	return nil
}

func (r *TodoRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.Todo, error) {
	query :=
		`SELECT id, text, completed, completed_at, creator_id FROM todos
		 WHERE creator_id = $1
		 ORDER BY seq
		 `

	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]models.Todo, 0)
	for rows.Next() {
		td, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *TodoRepository) FindOwned(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	query :=
		`SELECT id, text, completed, completed_at, creator_id FROM todos
		 WHERE id = $1 AND creator_id = $2
		 `

	td, err := scanTodo(r.db.QueryRowContext(ctx, query, id, creatorID))
	if err != nil {
		return nil, translate(err)
	}
	return td, nil
}

func (r *TodoRepository) UpdateOwned(ctx context.Context, creatorID, id string, upd models.TodoUpdate) (*models.Todo, error) {
	query :=
		`UPDATE todos
		 SET text = COALESCE($3, text), completed = $4, completed_at = $5
		 WHERE id = $1 AND creator_id = $2
		 RETURNING id, text, completed, completed_at, creator_id
		 `

	row := r.db.QueryRowContext(ctx, query,
		id, creatorID, nullString(upd.Text), upd.Completed, nullInt64(upd.CompletedAt))
	td, err := scanTodo(row)
	if err != nil {
		return nil, translate(err)
	}
	return td, nil
}

func (r *TodoRepository) DeleteOwned(ctx context.Context, creatorID, id string) (*models.Todo, error) {
	query :=
		`DELETE FROM todos
		 WHERE id = $1 AND creator_id = $2
		 RETURNING id, text, completed, completed_at, creator_id
		 `

	td, err := scanTodo(r.db.QueryRowContext(ctx, query, id, creatorID))
	if err != nil {
		return nil, translate(err)
	}
	return td, nil
}
