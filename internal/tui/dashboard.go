// Package tui implements the terminal dashboard for the Tasklane API.
// It holds all client-side state: the todo list, the user list, an
// in-progress draft, the item under edit, a loading flag, and the last
// error message. Every action maps to one API call.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklane/tasklane/internal/client"
	"github.com/tasklane/tasklane/internal/handler/dto"
	"github.com/tasklane/tasklane/internal/model"
)

// mode is the current input mode of the dashboard.
type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeAssign
)

// Messages delivered by API commands.
type (
	todosLoadedMsg struct{ todos []dto.TodoResponse }
	usersLoadedMsg struct{ users []dto.UserResponse }
	todoCreatedMsg struct{ todo dto.TodoResponse }
	todoUpdatedMsg struct{ todo dto.TodoResponse }
	todoDeletedMsg struct{ id string }

	// apiErrMsg carries the static per-action failure message plus a
	// command to reconcile local state where the mutation was optimistic.
	apiErrMsg struct {
		message   string
		reconcile tea.Cmd
	}
)

// api is the subset of the REST client the dashboard uses.
type api interface {
	ListTodos(ctx context.Context) ([]dto.TodoResponse, error)
	CreateTodo(ctx context.Context, req dto.CreateTodoRequest) (*dto.TodoResponse, error)
	UpdateTodo(ctx context.Context, id string, req dto.UpdateTodoRequest) (*dto.TodoResponse, error)
	DeleteTodo(ctx context.Context, id string) error
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
}

var _ api = (*client.Client)(nil)

// Model is the Bubble Tea model for the todo dashboard.
type Model struct {
	api api

	todos   []dto.TodoResponse
	users   []dto.UserResponse
	cursor  int
	loading bool
	errMsg  string

	mode mode
	ti   textinput.Model

	// assign mode state
	assignTodoID string
	assignDraft  map[string]bool
}

// New creates a dashboard model backed by the given API client.
func New(api api) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New todo title..."
	ti.CharLimit = 200

	return Model{
		api:     api,
		loading: true,
		ti:      ti,
	}
}

// Init fetches users and todos in parallel; the two loads are independent.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchTodos(), m.fetchUsers())
}

// ------- commands -------

func (m Model) fetchTodos() tea.Cmd {
	return func() tea.Msg {
		todos, err := m.api.ListTodos(context.Background())
		if err != nil {
			return apiErrMsg{message: "Failed to fetch todos."}
		}
		return todosLoadedMsg{todos: todos}
	}
}

func (m Model) fetchUsers() tea.Cmd {
	return func() tea.Msg {
		users, err := m.api.ListUsers(context.Background())
		if err != nil {
			return apiErrMsg{message: "Failed to fetch users."}
		}
		return usersLoadedMsg{users: users}
	}
}

func (m Model) createTodo(title string) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.api.CreateTodo(context.Background(), dto.CreateTodoRequest{
			Title:       title,
			AssigneeIDs: []string{},
		})
		if err != nil {
			return apiErrMsg{message: "Failed to create todo."}
		}
		return todoCreatedMsg{todo: *todo}
	}
}

func (m Model) updateTodo(id string, req dto.UpdateTodoRequest) tea.Cmd {
	return func() tea.Msg {
		todo, err := m.api.UpdateTodo(context.Background(), id, req)
		if err != nil {
			return apiErrMsg{message: "Failed to update todo."}
		}
		return todoUpdatedMsg{todo: *todo}
	}
}

// deleteTodo issues the DELETE after the item was already removed
// locally. On failure the list is refetched so the optimistic removal
// does not leave the view inconsistent with the store.
func (m Model) deleteTodo(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.api.DeleteTodo(context.Background(), id); err != nil {
			return apiErrMsg{message: "Failed to delete todo.", reconcile: m.fetchTodos()}
		}
		return todoDeletedMsg{id: id}
	}
}

// ------- update -------

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		m.todos = msg.todos
		m.loading = false
		m.clampCursor()
		return m, nil

	case usersLoadedMsg:
		m.users = msg.users
		return m, nil

	case todoCreatedMsg:
		m.todos = append([]dto.TodoResponse{msg.todo}, m.todos...)
		m.loading = false
		m.errMsg = ""
		return m, nil

	case todoUpdatedMsg:
		for i := range m.todos {
			if m.todos[i].ID == msg.todo.ID {
				m.todos[i] = msg.todo
				break
			}
		}
		m.loading = false
		m.errMsg = ""
		return m, nil

	case todoDeletedMsg:
		m.loading = false
		m.errMsg = ""
		return m, nil

	case apiErrMsg:
		m.errMsg = msg.message
		m.loading = false
		return m, msg.reconcile

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode != modeList {
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAdd:
		return m.handleAddKey(msg)
	case modeEdit:
		return m.handleEditKey(msg)
	case modeAssign:
		return m.handleAssignKey(msg)
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.todos)-1 {
			m.cursor++
		}
		return m, nil

	case "r":
		m.loading = true
		return m, tea.Batch(m.fetchTodos(), m.fetchUsers())

	case " ":
		// Toggle open <-> done on the selected item.
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		next := string(model.StatusDone)
		if todo.Status == string(model.StatusDone) {
			next = string(model.StatusOpen)
		}
		m.loading = true
		return m, m.updateTodo(todo.ID, dto.UpdateTodoRequest{Status: &next})

	case "p":
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		inProgress := string(model.StatusInProgress)
		m.loading = true
		return m, m.updateTodo(todo.ID, dto.UpdateTodoRequest{Status: &inProgress})

	case "d":
		// Optimistic removal; reconciled by refetch if the call fails.
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.todos = append(m.todos[:m.cursor], m.todos[m.cursor+1:]...)
		m.clampCursor()
		m.loading = true
		return m, m.deleteTodo(todo.ID)

	case "a":
		m.mode = modeAdd
		m.ti.SetValue("")
		m.ti.Placeholder = "New todo title..."
		m.ti.Focus()
		return m, nil

	case "e":
		todo, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.ti.SetValue(todo.Title)
		m.ti.CursorEnd()
		m.ti.Placeholder = "Edit todo title..."
		m.ti.Focus()
		return m, nil

	case "x":
		todo, ok := m.selected()
		if !ok || len(m.users) == 0 {
			return m, nil
		}
		m.mode = modeAssign
		m.assignTodoID = todo.ID
		m.assignDraft = make(map[string]bool, len(todo.AssigneeIDs))
		for _, uid := range todo.AssigneeIDs {
			m.assignDraft[uid] = true
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleAddKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(m.ti.Value())
		if title == "" {
			m.errMsg = "Title cannot be empty"
			return m, nil
		}
		m.exitInput()
		m.loading = true
		return m, m.createTodo(title)
	case "esc":
		m.exitInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		todo, ok := m.selected()
		if !ok {
			m.exitInput()
			return m, nil
		}
		title := strings.TrimSpace(m.ti.Value())
		if title == "" {
			m.errMsg = "Title cannot be empty"
			return m, nil
		}
		m.exitInput()
		m.loading = true
		return m, m.updateTodo(todo.ID, dto.UpdateTodoRequest{Title: &title})
	case "esc":
		m.exitInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) handleAssignKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "enter":
		assignees := make([]string, 0, len(m.assignDraft))
		for _, u := range m.users {
			if m.assignDraft[u.UID] {
				assignees = append(assignees, u.UID)
			}
		}
		id := m.assignTodoID
		m.mode = modeList
		m.assignTodoID = ""
		m.assignDraft = nil
		m.loading = true
		return m, m.updateTodo(id, dto.UpdateTodoRequest{AssigneeIDs: &assignees})
	case "esc":
		m.mode = modeList
		m.assignTodoID = ""
		m.assignDraft = nil
		return m, nil
	}

	// Digits toggle assignment for the n-th listed user.
	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		idx := int(key[0] - '1')
		if idx < len(m.users) {
			uid := m.users[idx].UID
			m.assignDraft[uid] = !m.assignDraft[uid]
		}
	}

	return m, nil
}

// exitInput resets the text input and returns to list mode.
func (m *Model) exitInput() {
	m.mode = modeList
	m.ti.SetValue("")
	m.ti.Blur()
	m.errMsg = ""
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.todos) {
		m.cursor = len(m.todos) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (dto.TodoResponse, bool) {
	if m.cursor < 0 || m.cursor >= len(m.todos) {
		return dto.TodoResponse{}, false
	}
	return m.todos[m.cursor], true
}

// userName resolves a uid to a display name for rendering.
func (m Model) userName(uid string) string {
	for _, u := range m.users {
		if u.UID == uid && u.Name != "" {
			return u.Name
		}
	}
	return uid
}

// ------- view -------

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	open, inProgress, done := m.stats()
	b.WriteString(fmt.Sprintf("%s   %s %d  %s %d  %s %d\n\n",
		titleStyle.Render("Todos"),
		pendingStyle.Render(boxOpen), open,
		accentStyle.Render(boxInProgress), inProgress,
		successStyle.Render(boxDone), done,
	))

	if len(m.todos) == 0 && !m.loading {
		b.WriteString(mutedStyle.Render("No todos yet. Press 'a' to add one.") + "\n")
	}

	for i, todo := range m.todos {
		b.WriteString(m.renderTodo(i, todo) + "\n")
	}

	if m.mode == modeAssign {
		b.WriteString("\n" + m.renderAssignPicker())
	}

	if m.mode == modeAdd || m.mode == modeEdit {
		title := "Add todo"
		if m.mode == modeEdit {
			title = "Edit todo"
		}
		if m.errMsg != "" {
			title += "  " + errorStyle.Render(m.errMsg)
		}
		b.WriteString("\n" + inputBarStyle.Render(title+"\n"+m.ti.View()))
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(mutedStyle.Render("loading...") + "\n")
	} else if m.errMsg != "" && m.mode == modeList {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}

	b.WriteString(helpStyle.Render("a add • e edit • x assign • space done • p in progress • d delete • r refresh • q quit"))

	return b.String()
}

func (m Model) renderTodo(i int, todo dto.TodoResponse) string {
	box := boxOpen
	text := todo.Title
	switch todo.Status {
	case string(model.StatusDone):
		box = successStyle.Render(boxDone)
		text = doneStyle.Render(text)
	case string(model.StatusInProgress):
		box = accentStyle.Render(boxInProgress)
	default:
		box = mutedStyle.Render(box)
	}

	line := fmt.Sprintf("%s %s", box, text)

	if len(todo.AssigneeIDs) > 0 {
		names := make([]string, len(todo.AssigneeIDs))
		for j, uid := range todo.AssigneeIDs {
			names[j] = m.userName(uid)
		}
		line += mutedStyle.Render("  @" + strings.Join(names, " @"))
	}

	prefix := "  "
	if i == m.cursor {
		prefix = selectedStyle.Render("> ")
	}
	return prefix + line
}

func (m Model) renderAssignPicker() string {
	var lines []string
	lines = append(lines, "Assign users (digits toggle, enter saves)")
	for i, u := range m.users {
		if i >= 9 {
			break
		}
		mark := boxOpen
		if m.assignDraft[u.UID] {
			mark = successStyle.Render(boxDone)
		}
		name := u.Name
		if name == "" {
			name = u.UID
		}
		lines = append(lines, fmt.Sprintf("%d %s %s", i+1, mark, name))
	}
	return inputBarStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) stats() (open, inProgress, done int) {
	for _, todo := range m.todos {
		switch todo.Status {
		case string(model.StatusDone):
			done++
		case string(model.StatusInProgress):
			inProgress++
		default:
			open++
		}
	}
	return
}
