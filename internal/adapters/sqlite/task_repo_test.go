package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/kandy/internal/adapters/sqlite"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/ports/secondary"
)

func newTaskRecord(id string) *secondary.TaskRecord {
	return &secondary.TaskRecord{
		ID:                  id,
		Title:               "Install ceiling fan",
		CustomerName:        "Nimal Perera",
		CustomerPhone:       "0771234567",
		CustomerAddress:     "5 Lake Road, Kandy",
		Priority:            "High",
		ScheduledDate:       "2026-03-10",
		ScheduledTimeStart:  "09:00",
		ScheduledTimeEnd:    "10:30",
		EstimatedHours:      1.5,
		TaskLifecycleRecord: secondary.TaskLifecycleRecord{Status: "Pending"},
		CreatedBy:           "USR-MGR",
	}
}

func TestTaskRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db)
	repo := sqlite.NewTaskRepository(db)
	ctx := context.Background()

	record := newTaskRecord("TASK-100")
	record.Description = "Living room"
	if err := repo.Create(ctx, record); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "TASK-100")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != "Pending" {
		t.Errorf("Status = %q, want %q", got.Status, "Pending")
	}
	if got.Description != "Living room" {
		t.Errorf("Description = %q, want %q", got.Description, "Living room")
	}
	if got.EstimatedHours != 1.5 {
		t.Errorf("EstimatedHours = %v, want 1.5", got.EstimatedHours)
	}
	if got.AssignedElectricianID != "" || got.StartedAt != nil || got.CompletedAt != nil {
		t.Errorf("expected empty lifecycle, got %+v", got.TaskLifecycleRecord)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewTaskRepository(db)

	_, err := repo.GetByID(context.Background(), "TASK-404")
	if !errs.Is(err, errs.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTaskRepository_List(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db)
	seedUser(t, db, "USR-EL2", "", "Electrician")
	seedTask(t, db, "TASK-001", "Pending", "", "2026-03-10")
	seedTask(t, db, "TASK-002", "Assigned", "USR-EL1", "2026-03-10")
	seedTask(t, db, "TASK-003", "In Progress", "USR-EL2", "2026-03-11")
	repo := sqlite.NewTaskRepository(db)
	ctx := context.Background()

	tests := []struct {
		name    string
		filters secondary.TaskFilters
		want    int
	}{
		{"no filters", secondary.TaskFilters{}, 3},
		{"by status", secondary.TaskFilters{Status: "Assigned"}, 1},
		{"by date", secondary.TaskFilters{ScheduledDate: "2026-03-10"}, 2},
		{"by electrician", secondary.TaskFilters{AssignedElectricianID: "USR-EL2"}, 1},
		{"combined", secondary.TaskFilters{ScheduledDate: "2026-03-11", AssignedElectricianID: "USR-EL1"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.List(ctx, tt.filters)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(tasks) != tt.want {
				t.Errorf("got %d tasks, want %d", len(tasks), tt.want)
			}
		})
	}
}

func TestTaskRepository_UpdateLifecycle(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db)
	seedTask(t, db, "TASK-001", "Pending", "", "2026-03-10")
	repo := sqlite.NewTaskRepository(db)
	ctx := context.Background()
	pending := secondary.TaskExpectation{Status: "Pending"}
	assignedEL1 := secondary.TaskExpectation{Status: "Assigned", AssignedTo: "USR-EL1"}

	t.Run("applies when status matches", func(t *testing.T) {
		err := repo.UpdateLifecycle(ctx, "TASK-001", pending, &secondary.TaskLifecycleRecord{
			Status:                "Assigned",
			AssignedElectricianID: "USR-EL1",
		})
		if err != nil {
			t.Fatalf("UpdateLifecycle failed: %v", err)
		}

		got, _ := repo.GetByID(ctx, "TASK-001")
		if got.Status != "Assigned" || got.AssignedElectricianID != "USR-EL1" {
			t.Errorf("got status %q assignee %q", got.Status, got.AssignedElectricianID)
		}
	})

	t.Run("stale status is an invalid transition", func(t *testing.T) {
		err := repo.UpdateLifecycle(ctx, "TASK-001", pending, &secondary.TaskLifecycleRecord{
			Status:                "Assigned",
			AssignedElectricianID: "USR-EL1",
		})
		if !errs.Is(err, errs.KindInvalidTransition) {
			t.Fatalf("expected invalid transition, got %v", err)
		}
	})

	t.Run("missing task is not found", func(t *testing.T) {
		err := repo.UpdateLifecycle(ctx, "TASK-404", pending, &secondary.TaskLifecycleRecord{Status: "Cancelled"})
		if !errs.Is(err, errs.KindNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	})

	t.Run("schema rejects inconsistent lifecycle", func(t *testing.T) {
		err := repo.UpdateLifecycle(ctx, "TASK-001", assignedEL1, &secondary.TaskLifecycleRecord{Status: "Completed"})
		if err == nil {
			t.Fatal("expected constraint failure for Completed without assignee")
		}
	})

	t.Run("completes with all dependent fields", func(t *testing.T) {
		now := time.Now().UTC()
		charges := 1500.0
		if err := repo.UpdateLifecycle(ctx, "TASK-001", assignedEL1, &secondary.TaskLifecycleRecord{
			Status: "In Progress", AssignedElectricianID: "USR-EL1", StartedAt: &now,
		}); err != nil {
			t.Fatalf("start failed: %v", err)
		}
		if err := repo.UpdateLifecycle(ctx, "TASK-001", secondary.TaskExpectation{Status: "In Progress", AssignedTo: "USR-EL1"}, &secondary.TaskLifecycleRecord{
			Status: "Completed", AssignedElectricianID: "USR-EL1", StartedAt: &now, CompletedAt: &now,
			CompletionNotes: "Fan fitted", MaterialsUsed: "bracket", AdditionalCharges: &charges,
		}); err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		got, _ := repo.GetByID(ctx, "TASK-001")
		if got.CompletedAt == nil || got.StartedAt == nil {
			t.Fatal("expected timestamps to be set")
		}
		if got.AdditionalCharges == nil || *got.AdditionalCharges != 1500 {
			t.Errorf("AdditionalCharges = %v, want 1500", got.AdditionalCharges)
		}
		if got.CompletionNotes != "Fan fitted" {
			t.Errorf("CompletionNotes = %q", got.CompletionNotes)
		}
	})
}

func TestTaskRepository_UpdateLifecycle_ReassignedTaskLoses(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db)
	seedTask(t, db, "TASK-001", "Assigned", "USR-EL1", "2026-03-10")
	repo := sqlite.NewTaskRepository(db)
	ctx := context.Background()

	// A manager resets the task and hands it to USR-EL2: the status is Assigned again.
	if err := repo.UpdateLifecycle(ctx, "TASK-001", secondary.TaskExpectation{Status: "Assigned", AssignedTo: "USR-EL1"},
		&secondary.TaskLifecycleRecord{Status: "Pending"}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if err := repo.UpdateLifecycle(ctx, "TASK-001", secondary.TaskExpectation{Status: "Pending"},
		&secondary.TaskLifecycleRecord{Status: "Assigned", AssignedElectricianID: "USR-EL2"}); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}

	// USR-EL1 still holds the row it read before the reassignment.
	now := time.Now().UTC()
	err := repo.UpdateLifecycle(ctx, "TASK-001", secondary.TaskExpectation{Status: "Assigned", AssignedTo: "USR-EL1"},
		&secondary.TaskLifecycleRecord{Status: "In Progress", AssignedElectricianID: "USR-EL1", StartedAt: &now})
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}

	got, _ := repo.GetByID(ctx, "TASK-001")
	if got.Status != "Assigned" || got.AssignedElectricianID != "USR-EL2" {
		t.Errorf("got status %q assignee %q, want Assigned USR-EL2", got.Status, got.AssignedElectricianID)
	}
}

func TestTaskRepository_UpdateDetails(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db)
	seedTask(t, db, "TASK-001", "Assigned", "USR-EL1", "2026-03-10")
	repo := sqlite.NewTaskRepository(db)
	ctx := context.Background()

	task, err := repo.GetByID(ctx, "TASK-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	task.Title = "Updated title"
	task.TaskLifecycleRecord = secondary.TaskLifecycleRecord{Status: "Pending"}

	if err := repo.UpdateDetails(ctx, task, secondary.TaskExpectation{Status: "Assigned", AssignedTo: "USR-EL1"}); err != nil {
		t.Fatalf("UpdateDetails failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "TASK-001")
	if got.Title != "Updated title" || got.Status != "Pending" || got.AssignedElectricianID != "" {
		t.Errorf("got title %q status %q assignee %q", got.Title, got.Status, got.AssignedElectricianID)
	}

	if err := repo.UpdateDetails(ctx, task, secondary.TaskExpectation{Status: "Assigned", AssignedTo: "USR-EL1"}); !errs.Is(err, errs.KindInvalidTransition) {
		t.Errorf("expected invalid transition on stale status, got %v", err)
	}
}

func TestTaskRepository_UpdateFeedback(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db)
	seedTask(t, db, "TASK-001", "Completed", "USR-EL1", "2026-03-10")
	seedTask(t, db, "TASK-002", "Pending", "", "2026-03-10")
	repo := sqlite.NewTaskRepository(db)
	ctx := context.Background()

	if err := repo.UpdateFeedback(ctx, "TASK-001", 5, "Great work"); err != nil {
		t.Fatalf("UpdateFeedback failed: %v", err)
	}
	got, _ := repo.GetByID(ctx, "TASK-001")
	if got.Rating != 5 || got.Feedback != "Great work" {
		t.Errorf("got rating %d feedback %q", got.Rating, got.Feedback)
	}

	if err := repo.UpdateFeedback(ctx, "TASK-002", 4, ""); !errs.Is(err, errs.KindInvalidState) {
		t.Errorf("expected invalid state for Pending task, got %v", err)
	}
	if err := repo.UpdateFeedback(ctx, "TASK-404", 4, ""); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	seedStaff(t, db)
	seedTask(t, db, "TASK-001", "Pending", "", "2026-03-10")
	seedTask(t, db, "TASK-002", "Completed", "USR-EL1", "2026-03-10")
	repo := sqlite.NewTaskRepository(db)
	ctx := context.Background()

	if err := repo.Delete(ctx, "TASK-001"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(ctx, "TASK-001"); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("expected deleted task to be gone, got %v", err)
	}

	if err := repo.Delete(ctx, "TASK-002"); !errs.Is(err, errs.KindInvalidState) {
		t.Errorf("expected invalid state deleting Completed task, got %v", err)
	}
	if err := repo.Delete(ctx, "TASK-404"); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
