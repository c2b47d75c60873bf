package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklane/tasklane/internal/handler/dto"
)

// fakeAPI records calls and serves canned responses for model tests.
type fakeAPI struct {
	todos []dto.TodoResponse
	users []dto.UserResponse

	deleteErr  error
	deletedIDs []string
	updates    []dto.UpdateTodoRequest
}

func (f *fakeAPI) ListTodos(ctx context.Context) ([]dto.TodoResponse, error) {
	return f.todos, nil
}

func (f *fakeAPI) CreateTodo(ctx context.Context, req dto.CreateTodoRequest) (*dto.TodoResponse, error) {
	todo := dto.TodoResponse{ID: "new", Title: req.Title, Status: "open"}
	return &todo, nil
}

func (f *fakeAPI) UpdateTodo(ctx context.Context, id string, req dto.UpdateTodoRequest) (*dto.TodoResponse, error) {
	f.updates = append(f.updates, req)
	todo := dto.TodoResponse{ID: id, Title: "updated"}
	if req.Status != nil {
		todo.Status = *req.Status
	}
	return &todo, nil
}

func (f *fakeAPI) DeleteTodo(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

func (f *fakeAPI) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	return f.users, nil
}

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(api *fakeAPI) Model {
	m := New(api)
	updated, _ := m.Update(todosLoadedMsg{todos: api.todos})
	m = updated.(Model)
	updated, _ = m.Update(usersLoadedMsg{users: api.users})
	return updated.(Model)
}

func sampleTodos() []dto.TodoResponse {
	return []dto.TodoResponse{
		{ID: "t1", Title: "First", Status: "open"},
		{ID: "t2", Title: "Second", Status: "in_progress"},
		{ID: "t3", Title: "Third", Status: "done"},
	}
}

func TestModel_LoadMessages(t *testing.T) {
	t.Parallel()

	m := New(&fakeAPI{})
	if !m.loading {
		t.Error("fresh model should be loading")
	}

	updated, _ := m.Update(todosLoadedMsg{todos: sampleTodos()})
	m = updated.(Model)

	if m.loading {
		t.Error("loading should clear after todos arrive")
	}
	if len(m.todos) != 3 {
		t.Errorf("todos = %d, want 3", len(m.todos))
	}
}

func TestModel_CursorMovement(t *testing.T) {
	t.Parallel()

	m := loadedModel(&fakeAPI{todos: sampleTodos()})

	// Down twice, then against the bottom.
	for i := 0; i < 5; i++ {
		updated, _ := m.Update(keyMsg("j"))
		m = updated.(Model)
	}
	if m.cursor != 2 {
		t.Errorf("cursor = %d, want 2 (clamped at last item)", m.cursor)
	}

	for i := 0; i < 5; i++ {
		updated, _ := m.Update(keyMsg("k"))
		m = updated.(Model)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
}

func TestModel_ToggleStatus(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{todos: sampleTodos()}
	m := loadedModel(api)

	// Space on an open item requests done.
	updated, cmd := m.Update(keyMsg(" "))
	m = updated.(Model)
	if cmd == nil {
		t.Fatal("expected an update command")
	}
	if !m.loading {
		t.Error("loading should be set during the update")
	}

	msg := cmd()
	upd, ok := msg.(todoUpdatedMsg)
	if !ok {
		t.Fatalf("msg = %T, want todoUpdatedMsg", msg)
	}
	if upd.todo.Status != "done" {
		t.Errorf("status = %q, want done", upd.todo.Status)
	}

	// Apply the result; the item in the list flips.
	updated, _ = m.Update(msg)
	m = updated.(Model)
	if m.todos[0].Status != "done" {
		t.Errorf("todos[0].Status = %q, want done", m.todos[0].Status)
	}

	// Space again toggles back to open.
	updated, cmd = m.Update(keyMsg(" "))
	m = updated.(Model)
	msg = cmd()
	if upd := msg.(todoUpdatedMsg); upd.todo.Status != "open" {
		t.Errorf("status = %q, want open", upd.todo.Status)
	}
	_ = m
}

func TestModel_MarkInProgress(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{todos: sampleTodos()}
	m := loadedModel(api)

	_, cmd := m.Update(keyMsg("p"))
	if cmd == nil {
		t.Fatal("expected an update command")
	}
	msg := cmd()
	if upd := msg.(todoUpdatedMsg); upd.todo.Status != "in_progress" {
		t.Errorf("status = %q, want in_progress", upd.todo.Status)
	}
}

func TestModel_OptimisticDelete(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{todos: sampleTodos()}
	m := loadedModel(api)

	updated, cmd := m.Update(keyMsg("d"))
	m = updated.(Model)

	// The item is gone before the API call resolves.
	if len(m.todos) != 2 {
		t.Fatalf("todos = %d, want 2 after optimistic removal", len(m.todos))
	}
	if m.todos[0].ID != "t2" {
		t.Errorf("todos[0].ID = %q, want t2", m.todos[0].ID)
	}

	msg := cmd()
	if del, ok := msg.(todoDeletedMsg); !ok || del.id != "t1" {
		t.Fatalf("msg = %#v, want todoDeletedMsg{t1}", msg)
	}
	if len(api.deletedIDs) != 1 || api.deletedIDs[0] != "t1" {
		t.Errorf("deletedIDs = %v", api.deletedIDs)
	}
}

func TestModel_DeleteFailureReconciles(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{todos: sampleTodos(), deleteErr: errors.New("gone away")}
	m := loadedModel(api)

	updated, cmd := m.Update(keyMsg("d"))
	m = updated.(Model)

	msg := cmd()
	errMsg, ok := msg.(apiErrMsg)
	if !ok {
		t.Fatalf("msg = %T, want apiErrMsg", msg)
	}
	if errMsg.reconcile == nil {
		t.Fatal("delete failure must carry a reconcile command")
	}

	updated, reconcile := m.Update(msg)
	m = updated.(Model)
	if m.errMsg != "Failed to delete todo." {
		t.Errorf("errMsg = %q", m.errMsg)
	}
	if reconcile == nil {
		t.Fatal("Update should forward the reconcile command")
	}

	// The refetch restores the full list.
	refetched := reconcile()
	loaded, ok := refetched.(todosLoadedMsg)
	if !ok {
		t.Fatalf("reconcile msg = %T, want todosLoadedMsg", refetched)
	}
	updated, _ = m.Update(loaded)
	m = updated.(Model)
	if len(m.todos) != 3 {
		t.Errorf("todos = %d, want 3 after reconcile", len(m.todos))
	}
}

func TestModel_DeleteLastItemClampsCursor(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{todos: sampleTodos()}
	m := loadedModel(api)

	// Move to the last item, then delete it.
	m.cursor = 2
	updated, _ := m.Update(keyMsg("d"))
	m = updated.(Model)

	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestModel_AddFlow(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{}
	m := loadedModel(api)

	updated, _ := m.Update(keyMsg("a"))
	m = updated.(Model)
	if m.mode != modeAdd {
		t.Fatalf("mode = %d, want modeAdd", m.mode)
	}

	// Enter with an empty draft stays in add mode with an error.
	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)
	if cmd != nil {
		t.Error("empty title should not issue a command")
	}
	if m.mode != modeAdd || m.errMsg == "" {
		t.Errorf("mode=%d errMsg=%q", m.mode, m.errMsg)
	}

	// Type a title and submit.
	m.ti.SetValue("Buy milk")
	updated, cmd = m.Update(keyMsg("enter"))
	m = updated.(Model)
	if m.mode != modeList {
		t.Errorf("mode = %d, want modeList", m.mode)
	}
	if cmd == nil {
		t.Fatal("expected create command")
	}

	msg := cmd()
	created, ok := msg.(todoCreatedMsg)
	if !ok {
		t.Fatalf("msg = %T, want todoCreatedMsg", msg)
	}

	updated, _ = m.Update(msg)
	m = updated.(Model)
	if len(m.todos) != 1 || m.todos[0].Title != created.todo.Title {
		t.Errorf("todos = %+v", m.todos)
	}
}

func TestModel_AddEscCancels(t *testing.T) {
	t.Parallel()

	m := loadedModel(&fakeAPI{todos: sampleTodos()})

	updated, _ := m.Update(keyMsg("a"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("esc"))
	m = updated.(Model)

	if m.mode != modeList {
		t.Errorf("mode = %d, want modeList after esc", m.mode)
	}
}

func TestModel_AssignFlow(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		todos: []dto.TodoResponse{{ID: "t1", Title: "Shared", Status: "open", AssigneeIDs: []string{"bob"}}},
		users: []dto.UserResponse{
			{UID: "alice", Name: "Alice"},
			{UID: "bob", Name: "Bob"},
		},
	}
	m := loadedModel(api)

	updated, _ := m.Update(keyMsg("x"))
	m = updated.(Model)
	if m.mode != modeAssign {
		t.Fatalf("mode = %d, want modeAssign", m.mode)
	}
	if !m.assignDraft["bob"] {
		t.Error("existing assignee should be pre-checked")
	}

	// Toggle alice on, bob off, then save.
	updated, _ = m.Update(keyMsg("1"))
	m = updated.(Model)
	updated, _ = m.Update(keyMsg("2"))
	m = updated.(Model)

	updated, cmd := m.Update(keyMsg("enter"))
	m = updated.(Model)
	if m.mode != modeList {
		t.Errorf("mode = %d, want modeList", m.mode)
	}
	if cmd == nil {
		t.Fatal("expected update command")
	}

	cmd()
	if len(api.updates) != 1 {
		t.Fatalf("updates = %d, want 1", len(api.updates))
	}
	req := api.updates[0]
	if req.AssigneeIDs == nil {
		t.Fatal("assigneeIds must be present")
	}
	if len(*req.AssigneeIDs) != 1 || (*req.AssigneeIDs)[0] != "alice" {
		t.Errorf("assigneeIds = %v, want [alice]", *req.AssigneeIDs)
	}
}

func TestModel_View(t *testing.T) {
	t.Parallel()

	api := &fakeAPI{
		todos: sampleTodos(),
		users: []dto.UserResponse{{UID: "bob", Name: "Bob"}},
	}
	m := loadedModel(api)

	view := m.View()
	for _, want := range []string{"First", "Second", "Third", "Todos"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModel_ViewEmpty(t *testing.T) {
	t.Parallel()

	m := loadedModel(&fakeAPI{})

	if view := m.View(); !strings.Contains(view, "No todos yet") {
		t.Error("empty view should prompt to add a todo")
	}
}
