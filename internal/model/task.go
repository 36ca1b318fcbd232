package model

import "time"

// TaskStatus enumerates the workflow states of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskDone       TaskStatus = "done"
)

// ValidTaskStatus reports whether s is a known task status.
func ValidTaskStatus(s string) bool {
	switch TaskStatus(s) {
	case TaskTodo, TaskInProgress, TaskReview, TaskDone:
		return true
	}
	return false
}

// TaskPriority enumerates task priorities.
type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// ValidTaskPriority reports whether s is a known priority.
func ValidTaskPriority(s string) bool {
	switch TaskPriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task mirrors the `tasks` table. Each task belongs to exactly one
// project and has exactly one assignee. DueDate is optional.
//
// ProjectName and ProjectManagerID are populated by repository reads
// that join the owning project; they carry no column of their own.
// ProjectName is nil when the joined project row is gone.
type Task struct {
	ID          uint64       `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     *time.Time   `json:"dueDate"`
	ProjectID   uint64       `json:"projectId"`
	AssigneeID  uint64       `json:"assigneeId"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	ProjectName      *string `json:"projectName,omitempty"`
	ProjectManagerID uint64  `json:"-"`
}
