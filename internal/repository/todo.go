package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/tasklane/tasklane/internal/model"
)

// Common errors for todo repository operations.
var (
	ErrTodoNotFound = errors.New("todo not found")
)

// CreateTodo inserts a new todo item into the database.
func (r *Repository) CreateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		INSERT INTO todos (id, title, description, status, owner_id, assignee_ids, participants, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.Status,
		todo.OwnerID,
		pq.Array(todo.AssigneeIDs),
		pq.Array(todo.Participants),
		todo.CreatedAt,
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetTodoByID retrieves a todo item by its ID.
func (r *Repository) GetTodoByID(ctx context.Context, id string) (*model.Todo, error) {
	query := `
		SELECT id, title, description, status, owner_id, assignee_ids, participants, created_at, updated_at
		FROM todos
		WHERE id = $1
	`

	todo, err := scanTodo(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("failed to get todo by ID: %w", err)
	}

	return todo, nil
}

// ListTodosForUser retrieves every todo item where uid appears in the
// participant set, newest first.
func (r *Repository) ListTodosForUser(ctx context.Context, uid string) ([]*model.Todo, error) {
	query := `
		SELECT id, title, description, status, owner_id, assignee_ids, participants, created_at, updated_at
		FROM todos
		WHERE $1 = ANY(participants)
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	var todos []*model.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// UpdateTodo writes the full mutable state of an item.
// Last write wins; there is no version check.
func (r *Repository) UpdateTodo(ctx context.Context, todo *model.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, description = $3, status = $4, assignee_ids = $5, participants = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		todo.ID,
		todo.Title,
		todo.Description,
		todo.Status,
		pq.Array(todo.AssigneeIDs),
		pq.Array(todo.Participants),
		todo.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// DeleteTodo permanently removes a todo item.
func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	query := `DELETE FROM todos WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	return nil
}

// rowScanner abstracts pgx.Row and pgx.Rows for scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTodo scans a todo row into a model.
func scanTodo(row rowScanner) (*model.Todo, error) {
	var todo model.Todo
	var assigneeIDs, participants []string

	err := row.Scan(
		&todo.ID,
		&todo.Title,
		&todo.Description,
		&todo.Status,
		&todo.OwnerID,
		pq.Array(&assigneeIDs),
		pq.Array(&participants),
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	todo.AssigneeIDs = assigneeIDs
	todo.Participants = participants

	return &todo, nil
}
