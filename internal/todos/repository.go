package todos

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
}

// Repository implements Store on PostgreSQL.
type Repository struct {
	db dbtx
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

const (
	insertTodo = `INSERT INTO todos (user_id, complete, content) VALUES ($1, 0, $2)`
	toggleTodo = `UPDATE todos SET complete = 1 - complete WHERE id = $1 AND user_id = $2`
	deleteTodo = `DELETE FROM todos WHERE id = $1 AND user_id = $2`
	listTodos  = `SELECT id::text, user_id::text, content, complete FROM todos WHERE user_id = $1 ORDER BY complete ASC, content ASC`
)

// Insert adds an incomplete todo.
func (r *Repository) Insert(ctx context.Context, userID, content string) error {
	_, err := r.db.Exec(ctx, insertTodo, userID, content)
	return err
}

// Toggle flips complete between 0 and 1.
func (r *Repository) Toggle(ctx context.Context, userID, id string) error {
	_, err := r.db.Exec(ctx, toggleTodo, id, userID)
	return err
}

// Delete removes the todo.
func (r *Repository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.Exec(ctx, deleteTodo, id, userID)
	return err
}

// List returns the user's todos, open ones first.
func (r *Repository) List(ctx context.Context, userID string) ([]Todo, error) {
	rows, err := r.db.Query(ctx, listTodos, userID)
	if err != nil {
		return nil, fmt.Errorf("todos: list: %w", err)
	}
	defer rows.Close()

	var out []Todo
	for rows.Next() {
		var t Todo
		var complete int
		if err := rows.Scan(&t.ID, &t.UserID, &t.Content, &complete); err != nil {
			return nil, fmt.Errorf("todos: scan: %w", err)
		}
		t.Complete = complete != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

var _ Store = (*Repository)(nil)
