// Package model defines domain entities for the application.
package model

// TodoStatus represents the workflow state of a todo item.
type TodoStatus string

const (
	StatusOpen       TodoStatus = "open"
	StatusInProgress TodoStatus = "in_progress"
	StatusDone       TodoStatus = "done"
)

// IsValid checks if the status is one of the defined values.
func (s TodoStatus) IsValid() bool {
	return s == StatusOpen || s == StatusInProgress || s == StatusDone
}

// Todo represents a collaborative todo item.
// Timestamps are milliseconds since the Unix epoch.
type Todo struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Status       TodoStatus `json:"status"`
	OwnerID      string     `json:"ownerId"`
	AssigneeIDs  []string   `json:"assigneeIds"`
	Participants []string   `json:"participants"`
	CreatedAt    int64      `json:"createdAt"`
	UpdatedAt    int64      `json:"updatedAt"`
}

// ComputeParticipants returns the owner followed by the assignees.
// Duplicates are passed through unchanged.
func ComputeParticipants(ownerID string, assigneeIDs []string) []string {
	participants := make([]string, 0, len(assigneeIDs)+1)
	participants = append(participants, ownerID)
	participants = append(participants, assigneeIDs...)
	return participants
}

// RecomputeParticipants refreshes the participant list from the current
// owner and assignees.
func (t *Todo) RecomputeParticipants() {
	t.Participants = ComputeParticipants(t.OwnerID, t.AssigneeIDs)
}

// IsParticipant reports whether uid is the owner or an assignee.
func (t *Todo) IsParticipant(uid string) bool {
	for _, p := range t.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

// IsOwner reports whether uid owns the item.
func (t *Todo) IsOwner(uid string) bool {
	return t.OwnerID == uid
}
