// Package dashboard folds scoped project/task rows into the metrics
// served by GET /dashboard. The callers fetch rows already narrowed
// to the principal's visibility (or unfiltered for admins); grouping
// happens in memory, and group order is first-seen order so repeated
// requests over the same rows produce identical documents.
package dashboard

import (
	"sort"
	"time"

	"github.com/iliyamo/project-manager/internal/model"
)

// ProjectStatusCount is one row of the project-status grouping.
type ProjectStatusCount struct {
	Status model.ProjectStatus `json:"status"`
	Count  int                 `json:"count"`
}

// TaskPriorityCount is one row of the (priority, status) grouping.
type TaskPriorityCount struct {
	Priority model.TaskPriority `json:"priority"`
	Status   model.TaskStatus   `json:"status"`
	Count    int                `json:"count"`
}

// ProjectTaskProgress is one row of the per-project task grouping.
type ProjectTaskProgress struct {
	ProjectID   uint64           `json:"projectId"`
	ProjectName string           `json:"projectName"`
	Status      model.TaskStatus `json:"status"`
	Count       int              `json:"count"`
}

// DeadlineProject annotates an upcoming deadline with its project.
type DeadlineProject struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// UpcomingDeadline is one entry of the developer deadline list.
type UpcomingDeadline struct {
	ID       uint64             `json:"id"`
	Title    string             `json:"title"`
	DueDate  *time.Time         `json:"dueDate"`
	Priority model.TaskPriority `json:"priority"`
	Status   model.TaskStatus   `json:"status"`
	Project  *DeadlineProject   `json:"project"`
}

// ManagerOverview is the admin/manager dashboard document.
type ManagerOverview struct {
	ActiveProjects        int                   `json:"activeProjects"`
	OverdueTasks          int                   `json:"overdueTasks"`
	CompletedThisWeek     int                   `json:"completedThisWeek"`
	ProjectStatus         []ProjectStatusCount  `json:"projectStatus"`
	TaskPriority          []TaskPriorityCount   `json:"taskPriority"`
	TaskProgressByProject []ProjectTaskProgress `json:"taskProgressByProject"`
}

// DeveloperOverview is the developer dashboard document.
type DeveloperOverview struct {
	TodoTasks         int                 `json:"todoTasks"`
	InProgressTasks   int                 `json:"inProgressTasks"`
	OverdueTasks      int                 `json:"overdueTasks"`
	TasksByPriority   []TaskPriorityCount `json:"tasksByPriority"`
	UpcomingDeadlines []UpcomingDeadline  `json:"upcomingDeadlines"`
}

// maxDeadlines bounds the developer deadline list.
const maxDeadlines = 10

// deadlineWindow is how far ahead the deadline list looks.
const deadlineWindow = 7 * 24 * time.Hour

// StartOfWeek returns the most recent Sunday at 00:00 in now's
// location. "Completed this week" counts from this instant.
func StartOfWeek(now time.Time) time.Time {
	day := now.AddDate(0, 0, -int(now.Weekday()))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}

// overdue reports whether a task has a due date in the past and is
// not done yet. Tasks without a due date are never overdue.
func overdue(t model.Task, now time.Time) bool {
	return t.DueDate != nil && t.DueDate.Before(now) && t.Status != model.TaskDone
}

// BuildManagerOverview computes the admin/manager metrics over the
// given scoped rows.
func BuildManagerOverview(projects []model.Project, tasks []model.Task, now time.Time) ManagerOverview {
	weekStart := StartOfWeek(now)
	out := ManagerOverview{
		ProjectStatus:         []ProjectStatusCount{},
		TaskPriority:          []TaskPriorityCount{},
		TaskProgressByProject: []ProjectTaskProgress{},
	}

	statusIdx := map[model.ProjectStatus]int{}
	for _, p := range projects {
		if p.Status == model.ProjectActive {
			out.ActiveProjects++
		}
		status := p.Status
		if status == "" {
			status = model.ProjectPlanned
		}
		if i, ok := statusIdx[status]; ok {
			out.ProjectStatus[i].Count++
		} else {
			statusIdx[status] = len(out.ProjectStatus)
			out.ProjectStatus = append(out.ProjectStatus, ProjectStatusCount{Status: status, Count: 1})
		}
	}

	type prioKey struct {
		priority model.TaskPriority
		status   model.TaskStatus
	}
	type progKey struct {
		projectID uint64
		status    model.TaskStatus
	}
	prioIdx := map[prioKey]int{}
	progIdx := map[progKey]int{}

	for _, t := range tasks {
		if overdue(t, now) {
			out.OverdueTasks++
		}
		if t.Status == model.TaskDone && !t.UpdatedAt.Before(weekStart) {
			out.CompletedThisWeek++
		}

		pk := prioKey{priority: t.Priority, status: t.Status}
		if i, ok := prioIdx[pk]; ok {
			out.TaskPriority[i].Count++
		} else {
			prioIdx[pk] = len(out.TaskPriority)
			out.TaskPriority = append(out.TaskPriority, TaskPriorityCount{
				Priority: t.Priority, Status: t.Status, Count: 1,
			})
		}

		gk := progKey{projectID: t.ProjectID, status: t.Status}
		if i, ok := progIdx[gk]; ok {
			out.TaskProgressByProject[i].Count++
		} else {
			name := "Unknown"
			if t.ProjectName != nil {
				name = *t.ProjectName
			}
			progIdx[gk] = len(out.TaskProgressByProject)
			out.TaskProgressByProject = append(out.TaskProgressByProject, ProjectTaskProgress{
				ProjectID: t.ProjectID, ProjectName: name, Status: t.Status, Count: 1,
			})
		}
	}

	return out
}

// BuildDeveloperOverview computes the developer metrics over the
// given scoped rows: per-status counts, a (priority, status)
// grouping, and at most ten not-done tasks due within the next seven
// days, soonest first.
func BuildDeveloperOverview(tasks []model.Task, now time.Time) DeveloperOverview {
	out := DeveloperOverview{
		TasksByPriority:   []TaskPriorityCount{},
		UpcomingDeadlines: []UpcomingDeadline{},
	}

	type prioKey struct {
		priority model.TaskPriority
		status   model.TaskStatus
	}
	prioIdx := map[prioKey]int{}
	horizon := now.Add(deadlineWindow)

	for _, t := range tasks {
		switch t.Status {
		case model.TaskTodo:
			out.TodoTasks++
		case model.TaskInProgress:
			out.InProgressTasks++
		}
		if overdue(t, now) {
			out.OverdueTasks++
		}

		pk := prioKey{priority: t.Priority, status: t.Status}
		if i, ok := prioIdx[pk]; ok {
			out.TasksByPriority[i].Count++
		} else {
			prioIdx[pk] = len(out.TasksByPriority)
			out.TasksByPriority = append(out.TasksByPriority, TaskPriorityCount{
				Priority: t.Priority, Status: t.Status, Count: 1,
			})
		}

		if t.Status != model.TaskDone && t.DueDate != nil &&
			!t.DueDate.Before(now) && !t.DueDate.After(horizon) {
			entry := UpcomingDeadline{
				ID:       t.ID,
				Title:    t.Title,
				DueDate:  t.DueDate,
				Priority: t.Priority,
				Status:   t.Status,
			}
			// Project annotation is best effort: a vanished project
			// leaves the field null instead of failing the dashboard.
			if t.ProjectName != nil {
				entry.Project = &DeadlineProject{ID: t.ProjectID, Name: *t.ProjectName}
			}
			out.UpcomingDeadlines = append(out.UpcomingDeadlines, entry)
		}
	}

	sort.SliceStable(out.UpcomingDeadlines, func(i, j int) bool {
		return out.UpcomingDeadlines[i].DueDate.Before(*out.UpcomingDeadlines[j].DueDate)
	})
	if len(out.UpcomingDeadlines) > maxDeadlines {
		out.UpcomingDeadlines = out.UpcomingDeadlines[:maxDeadlines]
	}

	return out
}
