package task

import (
	"strings"
	"time"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
)

// Lifecycle is the set of task fields owned by status transitions. A transition
// replaces all of them at once so dependent fields never drift from the status.
type Lifecycle struct {
	Status            models.TaskStatus
	AssignedTo        string
	StartedAt         *time.Time
	CompletedAt       *time.Time
	CompletionNotes   string
	MaterialsUsed     string
	AdditionalCharges *float64
}

// Completion is the electrician's report when finishing a task.
type Completion struct {
	Notes             string
	MaterialsUsed     string
	AdditionalCharges *float64
}

// InitialLifecycle returns the lifecycle of a newly created task.
func InitialLifecycle() Lifecycle {
	return Lifecycle{Status: models.TaskStatusPending}
}

// Assign moves a Pending task to Assigned.
func Assign(electricianID string) Lifecycle {
	return Lifecycle{
		Status:     models.TaskStatusAssigned,
		AssignedTo: electricianID,
	}
}

// Start moves an Assigned task to In Progress and records the start time.
// Starting a task that is already In Progress keeps the original start time.
func Start(cur Lifecycle, now time.Time) Lifecycle {
	next := Lifecycle{
		Status:     models.TaskStatusInProgress,
		AssignedTo: cur.AssignedTo,
		StartedAt:  cur.StartedAt,
	}
	if next.StartedAt == nil {
		next.StartedAt = &now
	}
	return next
}

// Complete moves an In Progress task to Completed.
func Complete(cur Lifecycle, c Completion, now time.Time) Lifecycle {
	return Lifecycle{
		Status:            models.TaskStatusCompleted,
		AssignedTo:        cur.AssignedTo,
		StartedAt:         cur.StartedAt,
		CompletedAt:       &now,
		CompletionNotes:   strings.TrimSpace(c.Notes),
		MaterialsUsed:     strings.TrimSpace(c.MaterialsUsed),
		AdditionalCharges: c.AdditionalCharges,
	}
}

// Reset returns a task to Pending, clearing its assignment.
func Reset() Lifecycle {
	return Lifecycle{Status: models.TaskStatusPending}
}

// Cancel moves a task to Cancelled, clearing its assignment.
func Cancel() Lifecycle {
	return Lifecycle{Status: models.TaskStatusCancelled}
}

// ValidateCompletion checks the completion report.
func ValidateCompletion(c Completion) error {
	fields := map[string]string{}
	if strings.TrimSpace(c.Notes) == "" {
		fields["completion_notes"] = "completion notes are required"
	}
	if c.AdditionalCharges != nil && *c.AdditionalCharges < 0 {
		fields["additional_charges"] = "additional charges cannot be negative"
	}
	if len(fields) > 0 {
		return errs.Validation("invalid completion report", fields)
	}
	return nil
}
