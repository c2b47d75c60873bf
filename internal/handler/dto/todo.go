// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/tasklane/tasklane/internal/model"
)

// CreateTodoRequest represents the request body for creating a todo.
// A non-string assigneeIds entry fails JSON decoding, which the handler
// reports as a validation error.
type CreateTodoRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssigneeIDs []string `json:"assigneeIds"`
}

// UpdateTodoRequest represents a partial update. Absent fields stay nil
// and leave the stored value untouched.
type UpdateTodoRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	AssigneeIDs *[]string `json:"assigneeIds,omitempty"`
}

// TodoResponse represents a todo item in API responses.
type TodoResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Status       string   `json:"status"`
	OwnerID      string   `json:"ownerId"`
	AssigneeIDs  []string `json:"assigneeIds"`
	Participants []string `json:"participants"`
	CreatedAt    int64    `json:"createdAt"`
	UpdatedAt    int64    `json:"updatedAt"`
}

// UserResponse represents a user profile in API responses.
// Email is populated only when the server is configured to expose it.
type UserResponse struct {
	UID       string `json:"uid"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Email     string `json:"email,omitempty"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ToTodoResponse converts a Todo model to TodoResponse DTO.
func ToTodoResponse(todo *model.Todo) *TodoResponse {
	assignees := todo.AssigneeIDs
	if assignees == nil {
		assignees = []string{}
	}
	participants := todo.Participants
	if participants == nil {
		participants = []string{}
	}
	return &TodoResponse{
		ID:           todo.ID,
		Title:        todo.Title,
		Description:  todo.Description,
		Status:       string(todo.Status),
		OwnerID:      todo.OwnerID,
		AssigneeIDs:  assignees,
		Participants: participants,
		CreatedAt:    todo.CreatedAt,
		UpdatedAt:    todo.UpdatedAt,
	}
}

// ToTodoListResponse converts a slice of Todo models to response DTOs.
func ToTodoListResponse(todos []*model.Todo) []TodoResponse {
	responses := make([]TodoResponse, len(todos))
	for i, todo := range todos {
		responses[i] = *ToTodoResponse(todo)
	}
	return responses
}

// ToUserResponse converts a User model to UserResponse DTO.
func ToUserResponse(user *model.User, includeEmail bool) *UserResponse {
	resp := &UserResponse{
		UID:       user.UID,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
	if includeEmail {
		resp.Email = user.Email
	}
	return resp
}

// ToUserListResponse converts a slice of User models to response DTOs.
func ToUserListResponse(users []*model.User, includeEmail bool) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = *ToUserResponse(user, includeEmail)
	}
	return responses
}
