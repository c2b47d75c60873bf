package dto

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/tasklane/tasklane/internal/model"
)

func TestUpdateTodoRequest_AbsentVsPresent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want UpdateTodoRequest
	}{
		{
			name: "empty object leaves everything nil",
			body: `{}`,
			want: UpdateTodoRequest{},
		},
		{
			name: "explicit empty title is present",
			body: `{"title":""}`,
			want: UpdateTodoRequest{Title: ptr("")},
		},
		{
			name: "status only",
			body: `{"status":"done"}`,
			want: UpdateTodoRequest{Status: ptr("done")},
		},
		{
			name: "empty assignee list is present",
			body: `{"assigneeIds":[]}`,
			want: UpdateTodoRequest{AssigneeIDs: &[]string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateTodoRequest
			if err := json.Unmarshal([]byte(tt.body), &req); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !reflect.DeepEqual(req, tt.want) {
				t.Errorf("got %s, want %s", dump(req), dump(tt.want))
			}
		})
	}
}

func TestCreateTodoRequest_RejectsNonStringAssignees(t *testing.T) {
	t.Parallel()

	var req CreateTodoRequest
	if err := json.Unmarshal([]byte(`{"title":"x","assigneeIds":"bob"}`), &req); err == nil {
		t.Error("expected decode error for string assigneeIds")
	}
	if err := json.Unmarshal([]byte(`{"title":"x","assigneeIds":[1,2]}`), &req); err == nil {
		t.Error("expected decode error for numeric assigneeIds")
	}
}

func TestToTodoResponse_NilSlices(t *testing.T) {
	t.Parallel()

	resp := ToTodoResponse(&model.Todo{ID: "t1", OwnerID: "alice"})

	if resp.AssigneeIDs == nil {
		t.Error("AssigneeIDs should be an empty slice, not nil")
	}
	if resp.Participants == nil {
		t.Error("Participants should be an empty slice, not nil")
	}

	// Nil slices must serialize as [], never null.
	buf, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["assigneeIds"] == nil || decoded["participants"] == nil {
		t.Errorf("serialized = %s", buf)
	}
}

func TestToUserResponse_EmailGate(t *testing.T) {
	t.Parallel()

	user := &model.User{UID: "alice", Name: "Alice", Email: "alice@example.com"}

	if got := ToUserResponse(user, false); got.Email != "" {
		t.Errorf("Email = %q, want empty without includeEmail", got.Email)
	}
	if got := ToUserResponse(user, true); got.Email != "alice@example.com" {
		t.Errorf("Email = %q", got.Email)
	}
}

func ptr(s string) *string { return &s }

func dump(v any) string {
	buf, _ := json.Marshal(v)
	return string(buf)
}
