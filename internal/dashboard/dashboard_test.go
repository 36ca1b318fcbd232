package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/project-manager/internal/model"
)

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

// A Wednesday at noon; the containing week starts Sunday 00:00.
var now = time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

func TestStartOfWeek(t *testing.T) {
	weekStart := StartOfWeek(now)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), weekStart)
	assert.Equal(t, time.Sunday, weekStart.Weekday())

	// A Sunday maps to itself at midnight.
	sunday := time.Date(2026, 8, 23, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC), StartOfWeek(sunday))
}

func TestManagerOverviewCounters(t *testing.T) {
	projects := []model.Project{
		{ID: 1, Name: "alpha", Status: model.ProjectActive},
		{ID: 2, Name: "beta", Status: model.ProjectActive},
		{ID: 3, Name: "gamma", Status: model.ProjectPlanned},
	}
	tasks := []model.Task{
		// overdue: due yesterday, not done
		{ID: 1, ProjectID: 1, ProjectName: strPtr("alpha"), Status: model.TaskTodo,
			Priority: model.PriorityHigh, DueDate: timePtr(now.AddDate(0, 0, -1))},
		// due yesterday but done: not overdue
		{ID: 2, ProjectID: 1, ProjectName: strPtr("alpha"), Status: model.TaskDone,
			Priority: model.PriorityHigh, DueDate: timePtr(now.AddDate(0, 0, -1)), UpdatedAt: now},
		// no due date: never overdue
		{ID: 3, ProjectID: 2, ProjectName: strPtr("beta"), Status: model.TaskInProgress,
			Priority: model.PriorityLow},
		// done last week: outside completedThisWeek
		{ID: 4, ProjectID: 2, ProjectName: strPtr("beta"), Status: model.TaskDone,
			Priority: model.PriorityLow, UpdatedAt: now.AddDate(0, 0, -10)},
	}

	out := BuildManagerOverview(projects, tasks, now)

	assert.Equal(t, 2, out.ActiveProjects)
	assert.Equal(t, 1, out.OverdueTasks)
	assert.Equal(t, 1, out.CompletedThisWeek)
}

func TestManagerOverviewGroupOrderIsFirstSeen(t *testing.T) {
	projects := []model.Project{
		{ID: 1, Status: model.ProjectActive},
		{ID: 2, Status: model.ProjectPlanned},
		{ID: 3, Status: model.ProjectActive},
	}
	tasks := []model.Task{
		{ID: 1, ProjectID: 2, ProjectName: strPtr("beta"), Status: model.TaskTodo, Priority: model.PriorityHigh},
		{ID: 2, ProjectID: 1, ProjectName: strPtr("alpha"), Status: model.TaskDone, Priority: model.PriorityLow},
		{ID: 3, ProjectID: 2, ProjectName: strPtr("beta"), Status: model.TaskTodo, Priority: model.PriorityHigh},
	}

	out := BuildManagerOverview(projects, tasks, now)

	assert.Equal(t, []ProjectStatusCount{
		{Status: model.ProjectActive, Count: 2},
		{Status: model.ProjectPlanned, Count: 1},
	}, out.ProjectStatus)

	assert.Equal(t, []TaskPriorityCount{
		{Priority: model.PriorityHigh, Status: model.TaskTodo, Count: 2},
		{Priority: model.PriorityLow, Status: model.TaskDone, Count: 1},
	}, out.TaskPriority)

	assert.Equal(t, []ProjectTaskProgress{
		{ProjectID: 2, ProjectName: "beta", Status: model.TaskTodo, Count: 2},
		{ProjectID: 1, ProjectName: "alpha", Status: model.TaskDone, Count: 1},
	}, out.TaskProgressByProject)
}

func TestManagerOverviewUnknownProjectName(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, ProjectID: 9, Status: model.TaskTodo, Priority: model.PriorityLow},
	}
	out := BuildManagerOverview(nil, tasks, now)
	assert.Equal(t, "Unknown", out.TaskProgressByProject[0].ProjectName)
}

func TestManagerOverviewEmptyInputSerializableGroups(t *testing.T) {
	out := BuildManagerOverview(nil, nil, now)
	assert.NotNil(t, out.ProjectStatus)
	assert.NotNil(t, out.TaskPriority)
	assert.NotNil(t, out.TaskProgressByProject)
	assert.Empty(t, out.ProjectStatus)
}

func TestDeveloperOverviewCounters(t *testing.T) {
	tasks := []model.Task{
		{ID: 1, Status: model.TaskTodo, Priority: model.PriorityHigh},
		{ID: 2, Status: model.TaskTodo, Priority: model.PriorityLow},
		{ID: 3, Status: model.TaskInProgress, Priority: model.PriorityHigh},
		{ID: 4, Status: model.TaskReview, Priority: model.PriorityLow,
			DueDate: timePtr(now.AddDate(0, 0, -2))}, // overdue
		{ID: 5, Status: model.TaskDone, Priority: model.PriorityLow},
	}

	out := BuildDeveloperOverview(tasks, now)

	assert.Equal(t, 2, out.TodoTasks)
	assert.Equal(t, 1, out.InProgressTasks)
	assert.Equal(t, 1, out.OverdueTasks)
}

func TestDeveloperOverviewUpcomingDeadlines(t *testing.T) {
	tasks := []model.Task{
		// inside the window, out of order
		{ID: 1, Title: "later", Status: model.TaskTodo, Priority: model.PriorityLow,
			DueDate: timePtr(now.AddDate(0, 0, 5)), ProjectID: 1, ProjectName: strPtr("alpha")},
		{ID: 2, Title: "sooner", Status: model.TaskTodo, Priority: model.PriorityHigh,
			DueDate: timePtr(now.AddDate(0, 0, 1)), ProjectID: 1, ProjectName: strPtr("alpha")},
		// past due: belongs to overdue, not to upcoming
		{ID: 3, Title: "past", Status: model.TaskTodo, Priority: model.PriorityLow,
			DueDate: timePtr(now.AddDate(0, 0, -1))},
		// beyond the 7-day window
		{ID: 4, Title: "far", Status: model.TaskTodo, Priority: model.PriorityLow,
			DueDate: timePtr(now.AddDate(0, 0, 9))},
		// done: never listed
		{ID: 5, Title: "done", Status: model.TaskDone, Priority: model.PriorityLow,
			DueDate: timePtr(now.AddDate(0, 0, 2))},
		// vanished project: entry kept, project null
		{ID: 6, Title: "orphan", Status: model.TaskTodo, Priority: model.PriorityLow,
			DueDate: timePtr(now.AddDate(0, 0, 3)), ProjectID: 9},
	}

	out := BuildDeveloperOverview(tasks, now)

	ids := make([]uint64, 0, len(out.UpcomingDeadlines))
	for _, d := range out.UpcomingDeadlines {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []uint64{2, 6, 1}, ids, "ascending by due date")

	assert.NotNil(t, out.UpcomingDeadlines[0].Project)
	assert.Equal(t, "alpha", out.UpcomingDeadlines[0].Project.Name)
	assert.Nil(t, out.UpcomingDeadlines[1].Project)
}

func TestDeveloperOverviewDeadlineListCappedAtTen(t *testing.T) {
	tasks := make([]model.Task, 0, 15)
	for i := 0; i < 15; i++ {
		tasks = append(tasks, model.Task{
			ID: uint64(i + 1), Title: "t", Status: model.TaskTodo,
			Priority: model.PriorityLow,
			DueDate:  timePtr(now.Add(time.Duration(i+1) * time.Hour)),
		})
	}
	out := BuildDeveloperOverview(tasks, now)
	assert.Len(t, out.UpcomingDeadlines, 10)
	assert.Equal(t, uint64(1), out.UpcomingDeadlines[0].ID)
	assert.Equal(t, uint64(10), out.UpcomingDeadlines[9].ID)
}
