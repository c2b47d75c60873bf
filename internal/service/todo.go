// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/tasklane/tasklane/internal/metrics"
	"github.com/tasklane/tasklane/internal/model"
	"github.com/tasklane/tasklane/internal/repository"
)

// Service errors.
var (
	ErrTitleRequired = errors.New("title is required")
	ErrInvalidStatus = errors.New("invalid status value")
	ErrTodoNotFound  = errors.New("todo not found")
	ErrForbidden     = errors.New("caller is not allowed to modify this todo")
)

// TodoStore defines the persistence operations the service needs.
// *repository.Repository satisfies this interface.
type TodoStore interface {
	CreateTodo(ctx context.Context, todo *model.Todo) error
	GetTodoByID(ctx context.Context, id string) (*model.Todo, error)
	ListTodosForUser(ctx context.Context, uid string) ([]*model.Todo, error)
	UpdateTodo(ctx context.Context, todo *model.Todo) error
	DeleteTodo(ctx context.Context, id string) error
}

// TodoService handles todo business logic: validation, the participant
// invariant, and ownership checks.
type TodoService struct {
	store   TodoStore
	metrics metrics.Recorder
}

// NewTodoService creates a new TodoService.
func NewTodoService(store TodoStore, recorder metrics.Recorder) *TodoService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &TodoService{
		store:   store,
		metrics: recorder,
	}
}

// CreateTodoInput defines input for creating a todo.
type CreateTodoInput struct {
	Title       string
	Description string
	AssigneeIDs []string
	OwnerID     string
}

// CreateTodo creates a new todo item owned by the caller.
// New items always start in the open state.
func (s *TodoService) CreateTodo(ctx context.Context, input CreateTodoInput) (*model.Todo, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	assignees := input.AssigneeIDs
	if assignees == nil {
		assignees = []string{}
	}

	now := time.Now().UnixMilli()
	todo := &model.Todo{
		ID:          ulid.Make().String(),
		Title:       input.Title,
		Description: input.Description,
		Status:      model.StatusOpen,
		OwnerID:     input.OwnerID,
		AssigneeIDs: assignees,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	todo.RecomputeParticipants()

	if err := s.store.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.metrics.IncTodoCreated()

	return todo, nil
}

// ListTodos returns every item where the caller is a participant,
// newest first.
func (s *TodoService) ListTodos(ctx context.Context, callerID string) ([]*model.Todo, error) {
	todos, err := s.store.ListTodosForUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// UpdateTodoInput defines a partial update. Nil fields are left unchanged.
type UpdateTodoInput struct {
	ID          string
	CallerID    string
	Title       *string
	Description *string
	Status      *model.TodoStatus
	AssigneeIDs *[]string
}

// UpdateTodo applies a partial update to an item.
// Any participant may update; supplying assignees recomputes the
// participant set from the stored owner. UpdatedAt is always refreshed.
func (s *TodoService) UpdateTodo(ctx context.Context, input UpdateTodoInput) (*model.Todo, error) {
	todo, err := s.store.GetTodoByID(ctx, input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("load todo: %w", err)
	}

	if !todo.IsParticipant(input.CallerID) {
		return nil, ErrForbidden
	}

	if input.Status != nil && !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	if input.Title != nil {
		todo.Title = *input.Title
	}
	if input.Description != nil {
		todo.Description = *input.Description
	}
	if input.Status != nil {
		todo.Status = *input.Status
	}
	if input.AssigneeIDs != nil {
		todo.AssigneeIDs = *input.AssigneeIDs
		todo.RecomputeParticipants()
	}

	// UpdatedAt never moves backwards, even across same-millisecond calls.
	now := time.Now().UnixMilli()
	if now < todo.UpdatedAt {
		now = todo.UpdatedAt
	}
	todo.UpdatedAt = now

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("update todo: %w", err)
	}

	s.metrics.IncTodoUpdated()

	return todo, nil
}

// DeleteTodo permanently removes an item. Only the owner may delete.
func (s *TodoService) DeleteTodo(ctx context.Context, id, callerID string) error {
	todo, err := s.store.GetTodoByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("load todo: %w", err)
	}

	if !todo.IsOwner(callerID) {
		return ErrForbidden
	}

	if err := s.store.DeleteTodo(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTodoNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}

	s.metrics.IncTodoDeleted()

	return nil
}
