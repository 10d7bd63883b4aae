// Package task contains the pure business logic for the task lifecycle.
// Guards are pure functions that evaluate preconditions without side effects.
package task

import (
	"fmt"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    errs.Kind
	Field   string // set for validation failures tied to one input field
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Kind == errs.KindValidation && r.Field != "" {
		return errs.Validation(r.Reason, map[string]string{r.Field: r.Reason})
	}
	return errs.New(r.Kind, "%s", r.Reason)
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(kind errs.Kind, format string, args ...any) GuardResult {
	return GuardResult{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// AssignContext provides context for assignment guards.
type AssignContext struct {
	TaskID            string
	Status            models.TaskStatus
	ElectricianID     string
	ElectricianFound  bool
	ElectricianRole   models.Role
	ElectricianStatus models.UserStatus
}

// StartContext provides context for start guards.
type StartContext struct {
	TaskID     string
	Status     models.TaskStatus
	AssignedTo string
	CallerID   string
}

// CompleteContext provides context for completion guards.
type CompleteContext struct {
	TaskID     string
	Status     models.TaskStatus
	AssignedTo string
	CallerID   string
}

// EditContext provides context for manager edits. TargetStatus is empty when
// the edit leaves the status alone.
type EditContext struct {
	TaskID       string
	Status       models.TaskStatus
	TargetStatus models.TaskStatus
}

// StatusContext provides context for guards that only depend on the current status.
type StatusContext struct {
	TaskID string
	Status models.TaskStatus
}

// RateContext provides context for rating guards.
type RateContext struct {
	TaskID string
	Status models.TaskStatus
	Rating int
}

// CanAssign evaluates whether a task can be assigned to an electrician.
// Rules:
// - Task must be Pending
// - Electrician must exist, hold the Electrician role and be Active
func CanAssign(ctx AssignContext) GuardResult {
	if ctx.Status != models.TaskStatusPending {
		return deny(errs.KindInvalidTransition, "task %s is %s; only Pending tasks can be assigned", ctx.TaskID, ctx.Status)
	}
	if !ctx.ElectricianFound {
		return deny(errs.KindNotFound, "user %s not found", ctx.ElectricianID)
	}
	if ctx.ElectricianRole != models.RoleElectrician {
		r := deny(errs.KindValidation, "user %s is not an electrician", ctx.ElectricianID)
		r.Field = "electrician_id"
		return r
	}
	if ctx.ElectricianStatus != models.UserStatusActive {
		r := deny(errs.KindValidation, "electrician %s is not active", ctx.ElectricianID)
		r.Field = "electrician_id"
		return r
	}
	return allow()
}

// CanStart evaluates whether the caller can start work on a task.
// Rules:
// - Task must be Assigned (In Progress is accepted as a no-op)
// - Caller must be the assigned electrician
func CanStart(ctx StartContext) GuardResult {
	switch ctx.Status {
	case models.TaskStatusAssigned, models.TaskStatusInProgress:
		if ctx.AssignedTo != ctx.CallerID {
			return deny(errs.KindUnauthorized, "task %s is not assigned to you", ctx.TaskID)
		}
		return allow()
	case models.TaskStatusPending:
		return deny(errs.KindInvalidTransition, "task %s is not assigned", ctx.TaskID)
	default:
		return deny(errs.KindInvalidTransition, "cannot start task %s: status is %s", ctx.TaskID, ctx.Status)
	}
}

// CanComplete evaluates whether the caller can complete a task.
// Rules:
// - Caller must be the assigned electrician
// - Task must be In Progress
func CanComplete(ctx CompleteContext) GuardResult {
	if ctx.Status.HasAssignee() && ctx.AssignedTo != ctx.CallerID {
		return deny(errs.KindUnauthorized, "task %s is not assigned to you", ctx.TaskID)
	}
	if ctx.Status != models.TaskStatusInProgress {
		return deny(errs.KindInvalidTransition, "task %s is %s; only In Progress tasks can be completed", ctx.TaskID, ctx.Status)
	}
	return allow()
}

// CanEdit evaluates whether a manager may edit a task.
// Rules:
// - Completed and Cancelled tasks are immutable
// - The only status change an edit may make is Assigned/In Progress back to Pending
func CanEdit(ctx EditContext) GuardResult {
	if ctx.Status.IsTerminal() {
		return deny(errs.KindInvalidState, "task %s is %s and can no longer be edited", ctx.TaskID, ctx.Status)
	}
	if ctx.TargetStatus == "" || ctx.TargetStatus == ctx.Status {
		return allow()
	}
	if ctx.TargetStatus == models.TaskStatusPending &&
		(ctx.Status == models.TaskStatusAssigned || ctx.Status == models.TaskStatusInProgress) {
		return allow()
	}
	return deny(errs.KindInvalidTransition, "cannot move task %s from %s to %s", ctx.TaskID, ctx.Status, ctx.TargetStatus)
}

// CanDelete evaluates whether a task can be deleted.
// Rules:
// - Completed tasks are kept as a record of work done
func CanDelete(ctx StatusContext) GuardResult {
	if ctx.Status == models.TaskStatusCompleted {
		return deny(errs.KindInvalidState, "task %s is Completed and cannot be deleted", ctx.TaskID)
	}
	return allow()
}

// CanCancel evaluates whether a task can be cancelled.
// Rules:
// - Task must not be Completed or already Cancelled
func CanCancel(ctx StatusContext) GuardResult {
	if ctx.Status.IsTerminal() {
		return deny(errs.KindInvalidTransition, "task %s is %s and cannot be cancelled", ctx.TaskID, ctx.Status)
	}
	return allow()
}

// CanRate evaluates whether feedback can be attached to a task.
// Rules:
// - Rating must be between 1 and 5
// - Task must be Completed
func CanRate(ctx RateContext) GuardResult {
	if ctx.Rating < MinRating || ctx.Rating > MaxRating {
		r := deny(errs.KindValidation, "rating must be between %d and %d", MinRating, MaxRating)
		r.Field = "rating"
		return r
	}
	if ctx.Status != models.TaskStatusCompleted {
		return deny(errs.KindInvalidState, "task %s is %s; only Completed tasks can be rated", ctx.TaskID, ctx.Status)
	}
	return allow()
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)
