package stats

import (
	"testing"

	"github.com/example/kandy/internal/models"
)

const today = "2026-03-02"

func TestDay_FiveTaskScenario(t *testing.T) {
	tasks := []TaskSnapshot{
		{Status: models.TaskStatusCompleted, ScheduledDate: today},
		{Status: models.TaskStatusCompleted, ScheduledDate: today},
		{Status: models.TaskStatusInProgress, ScheduledDate: today},
		{Status: models.TaskStatusPending, ScheduledDate: today},
		{Status: models.TaskStatusPending, ScheduledDate: today},
		{Status: models.TaskStatusPending, ScheduledDate: "2026-03-03"},
	}

	got := Day(tasks, today)
	want := DayCounts{TodayTasks: 5, CompletedToday: 2, InProgress: 1, PendingToday: 2}
	if got != want {
		t.Errorf("Day = %+v, want %+v", got, want)
	}
}

func TestDay_AssignedCountsAsPending(t *testing.T) {
	got := Day([]TaskSnapshot{
		{Status: models.TaskStatusAssigned, ScheduledDate: today},
		{Status: models.TaskStatusCancelled, ScheduledDate: today},
	}, today)
	if got.PendingToday != 1 || got.TodayTasks != 2 {
		t.Errorf("unexpected counts: %+v", got)
	}
}

func TestIssues_OnlyUnresolvedPrioritiesCount(t *testing.T) {
	got := Issues([]IssueSnapshot{
		{Status: models.IssueStatusOpen, Priority: models.IssuePriorityUrgent},
		{Status: models.IssueStatusInProgress, Priority: models.IssuePriorityEmergency},
		{Status: models.IssueStatusResolved, Priority: models.IssuePriorityEmergency},
		{Status: models.IssueStatusOpen, Priority: models.IssuePriorityNormal},
	})
	want := IssueCounts{Total: 4, Open: 2, InProgress: 1, Resolved: 1, Unresolved: 3, Urgent: 1, Emergency: 1}
	if got != want {
		t.Errorf("Issues = %+v, want %+v", got, want)
	}
}

func TestManager(t *testing.T) {
	tasks := []TaskSnapshot{
		{Status: models.TaskStatusPending, ScheduledDate: today},
		{Status: models.TaskStatusAssigned, ScheduledDate: today, AssignedTo: "e1"},
		{Status: models.TaskStatusInProgress, ScheduledDate: today, AssignedTo: "e1"},
		{Status: models.TaskStatusCompleted, ScheduledDate: "2026-03-01", AssignedTo: "e2"},
	}
	issues := []IssueSnapshot{
		{Status: models.IssueStatusOpen, Priority: models.IssuePriorityEmergency},
		{Status: models.IssueStatusResolved, Priority: models.IssuePriorityUrgent},
	}
	users := []UserSnapshot{
		{ID: "m1", Role: models.RoleManager, Status: models.UserStatusActive},
		{ID: "e1", Role: models.RoleElectrician, Status: models.UserStatusActive},
		{ID: "e2", Role: models.RoleElectrician, Status: models.UserStatusActive},
		{ID: "e3", Role: models.RoleElectrician, Status: models.UserStatusInactive},
	}

	got := Manager(tasks, issues, users, today)

	if got.TotalTasks != 4 || got.Pending != 1 || got.Assigned != 1 || got.InProgress != 1 || got.Completed != 1 {
		t.Errorf("unexpected task counts: %+v", got.TaskCounts)
	}
	if got.ActiveElectricians != 1 {
		t.Errorf("expected only e2 to be active and free, got %d", got.ActiveElectricians)
	}
	if got.TotalElectricians != 3 {
		t.Errorf("expected 3 electricians, got %d", got.TotalElectricians)
	}
	if got.OpenIssues != 1 || got.EmergencyIssues != 1 || got.UrgentIssues != 0 {
		t.Errorf("unexpected issue counts: open=%d urgent=%d emergency=%d", got.OpenIssues, got.UrgentIssues, got.EmergencyIssues)
	}
	if got.Today.TodayTasks != 3 || got.Today.PendingToday != 2 {
		t.Errorf("unexpected today block: %+v", got.Today)
	}
}

func TestElectrician(t *testing.T) {
	tasks := []TaskSnapshot{
		{Status: models.TaskStatusCompleted, ScheduledDate: today, Rating: 5},
		{Status: models.TaskStatusInProgress, ScheduledDate: today},
		{Status: models.TaskStatusAssigned, ScheduledDate: "2026-03-20"},
		{Status: models.TaskStatusCompleted, ScheduledDate: "2026-02-10", Rating: 4},
	}

	got := Electrician(tasks, today)
	if got.TodayTasks != 2 || got.CompletedToday != 1 || got.InProgress != 1 || got.PendingToday != 0 {
		t.Errorf("unexpected day counts: %+v", got.DayCounts)
	}
	if got.TotalCompleted != 2 {
		t.Errorf("expected 2 lifetime completions, got %d", got.TotalCompleted)
	}
	if got.ThisMonth != 3 || got.CompletedThisMonth != 1 {
		t.Errorf("unexpected month counts: thisMonth=%d completedThisMonth=%d", got.ThisMonth, got.CompletedThisMonth)
	}
	if got.AverageRating != 4.5 {
		t.Errorf("expected average rating 4.5, got %v", got.AverageRating)
	}
}

func TestAdmin(t *testing.T) {
	got := Admin([]UserSnapshot{
		{ID: "a1", Role: models.RoleAdmin, Status: models.UserStatusActive},
		{ID: "m1", Role: models.RoleManager, Status: models.UserStatusInactive},
		{ID: "e1", Role: models.RoleElectrician, Status: models.UserStatusActive},
	}, 4, 9)

	if got.TotalUsers != 3 || got.ActiveUsers != 2 || got.InactiveUsers != 1 {
		t.Errorf("unexpected user counts: %+v", got.UserCounts)
	}
	if got.UsersByRole[models.RoleManager] != 1 || got.UsersByRole[models.RoleElectrician] != 1 {
		t.Errorf("unexpected role counts: %v", got.UsersByRole)
	}
	if got.LoginsToday != 4 || got.ActivitiesToday != 9 {
		t.Errorf("unexpected activity counts: %+v", got)
	}
}
