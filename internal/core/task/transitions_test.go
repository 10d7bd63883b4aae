package task

import (
	"testing"
	"time"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
)

// checkInvariants asserts the assignment and completion invariants of a lifecycle.
func checkInvariants(t *testing.T, l Lifecycle) {
	t.Helper()
	if (l.AssignedTo != "") != l.Status.HasAssignee() {
		t.Errorf("%s: assignee %q violates assignment invariant", l.Status, l.AssignedTo)
	}
	if (l.CompletedAt != nil) != (l.Status == models.TaskStatusCompleted) {
		t.Errorf("%s: completed_at presence violates completion invariant", l.Status)
	}
	if (l.CompletionNotes != "") != (l.Status == models.TaskStatusCompleted) {
		t.Errorf("%s: completion notes presence violates completion invariant", l.Status)
	}
}

func TestLifecycleHappyPath(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	l := InitialLifecycle()
	checkInvariants(t, l)

	l = Assign("e1")
	checkInvariants(t, l)
	if l.Status != models.TaskStatusAssigned || l.AssignedTo != "e1" {
		t.Fatalf("unexpected assigned lifecycle: %+v", l)
	}

	l = Start(l, now)
	checkInvariants(t, l)
	if l.StartedAt == nil || !l.StartedAt.Equal(now) {
		t.Fatalf("expected start time %v, got %v", now, l.StartedAt)
	}

	later := now.Add(2 * time.Hour)
	l = Complete(l, Completion{Notes: " done ", MaterialsUsed: "cable"}, later)
	checkInvariants(t, l)
	if l.CompletionNotes != "done" {
		t.Errorf("expected trimmed notes, got %q", l.CompletionNotes)
	}
	if !l.CompletedAt.Equal(later) || !l.StartedAt.Equal(now) {
		t.Errorf("unexpected timestamps: started %v completed %v", l.StartedAt, l.CompletedAt)
	}
}

func TestStartKeepsOriginalStartTime(t *testing.T) {
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	l := Start(Assign("e1"), first)
	l = Start(l, first.Add(time.Hour))
	if !l.StartedAt.Equal(first) {
		t.Errorf("expected start time to stay %v, got %v", first, l.StartedAt)
	}
}

func TestResetAndCancelClearAssignment(t *testing.T) {
	for _, l := range []Lifecycle{Reset(), Cancel()} {
		checkInvariants(t, l)
		if l.AssignedTo != "" || l.StartedAt != nil {
			t.Errorf("%s: expected cleared assignment, got %+v", l.Status, l)
		}
	}
}

func TestValidateCompletion(t *testing.T) {
	neg := -10.0
	zero := 0.0

	if err := ValidateCompletion(Completion{Notes: "done", AdditionalCharges: &zero}); err != nil {
		t.Errorf("expected valid completion, got %v", err)
	}

	err := ValidateCompletion(Completion{Notes: "  ", AdditionalCharges: &neg})
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := errs.FieldsOf(err)
	if fields["completion_notes"] == "" || fields["additional_charges"] == "" {
		t.Errorf("expected both fields flagged, got %v", fields)
	}
}
