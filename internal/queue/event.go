// Package queue defines the activity events published to RabbitMQ and
// the background consumer that turns them into the activity log.
package queue

// Activity event kinds.
const (
	KindTaskStatusChanged    = "task.status_changed"
	KindProjectMembersSynced = "project.members_synced"
)

// ActivityEvent is the message published to the activity.events queue
// whenever something noteworthy happens. Kind selects which of the
// optional fields are meaningful.
type ActivityEvent struct {
	Kind      string `json:"kind"`
	ActorID   uint64 `json:"actor_id"`
	ProjectID uint64 `json:"project_id"`

	// task.status_changed
	TaskID    uint64 `json:"task_id,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`
	OldStatus string `json:"old_status,omitempty"`
	NewStatus string `json:"new_status,omitempty"`

	// project.members_synced
	MemberCount int `json:"member_count,omitempty"`

	OccurredAt string `json:"occurred_at"`
}
