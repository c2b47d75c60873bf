package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tasklane/tasklane/internal/handler/dto"
	"github.com/tasklane/tasklane/internal/model"
)

// UserLister lists user profiles for the assignment picker.
// *repository.Repository satisfies this interface.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
}

// UserHandler handles HTTP requests for user profiles.
type UserHandler struct {
	users        UserLister
	logger       *slog.Logger
	includeEmail bool
}

// NewUserHandler creates a new UserHandler.
// includeEmail controls whether profile emails are exposed to callers.
func NewUserHandler(users UserLister, logger *slog.Logger, includeEmail bool) *UserHandler {
	return &UserHandler{
		users:        users,
		logger:       logger,
		includeEmail: includeEmail,
	}
}

// List handles GET /users.
// Returns every profile; filtering happens client-side.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list_users_failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to fetch users.",
			Code:  "INTERNAL_ERROR",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users, h.includeEmail))
}
