// Package issue contains the pure business logic for issues reported against tasks.
package issue

import (
	"fmt"
	"strings"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    errs.Kind
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return errs.New(r.Kind, "%s", r.Reason)
}

// ReportContext provides context for reporting an issue on a task.
type ReportContext struct {
	TaskID         string
	TaskFound      bool
	TaskStatus     models.TaskStatus
	TaskAssignedTo string
	CallerID       string
}

// CanReport evaluates whether the caller may report an issue on the task.
// Rules:
// - Task must exist
// - Caller must be the electrician assigned to the task
// - Task must be Assigned or In Progress
func CanReport(ctx ReportContext) GuardResult {
	if !ctx.TaskFound {
		return GuardResult{Kind: errs.KindNotFound, Reason: fmt.Sprintf("task %s not found", ctx.TaskID)}
	}
	if ctx.TaskAssignedTo == "" || ctx.TaskAssignedTo != ctx.CallerID {
		return GuardResult{Kind: errs.KindUnauthorized, Reason: fmt.Sprintf("task %s is not assigned to you", ctx.TaskID)}
	}
	if ctx.TaskStatus != models.TaskStatusAssigned && ctx.TaskStatus != models.TaskStatusInProgress {
		return GuardResult{
			Kind:   errs.KindInvalidState,
			Reason: fmt.Sprintf("issues can only be reported on Assigned or In Progress tasks (task %s is %s)", ctx.TaskID, ctx.TaskStatus),
		}
	}
	return GuardResult{Allowed: true}
}

// transitions lists the legal status moves of an issue.
var transitions = map[models.IssueStatus][]models.IssueStatus{
	models.IssueStatusOpen:       {models.IssueStatusInProgress, models.IssueStatusResolved},
	models.IssueStatusInProgress: {models.IssueStatusResolved},
	models.IssueStatusResolved:   nil,
}

// CanTransition evaluates whether an issue may move from one status to another.
func CanTransition(issueID string, from, to models.IssueStatus) GuardResult {
	for _, next := range transitions[from] {
		if next == to {
			return GuardResult{Allowed: true}
		}
	}
	return GuardResult{
		Kind:   errs.KindInvalidTransition,
		Reason: fmt.Sprintf("cannot move issue %s from %s to %s", issueID, from, to),
	}
}

// Report is an electrician's escalation input.
type Report struct {
	TaskID          string
	IssueType       models.IssueType
	Description     string
	RequestedAction models.RequestedAction
	Priority        models.IssuePriority
}

// ValidateReport checks the report and applies defaults.
func ValidateReport(r Report) (Report, error) {
	fields := map[string]string{}

	r.TaskID = strings.TrimSpace(r.TaskID)
	r.Description = strings.TrimSpace(r.Description)
	if r.Priority == "" {
		r.Priority = models.IssuePriorityNormal
	}

	if r.TaskID == "" {
		fields["task_id"] = "task id is required"
	}
	if !r.IssueType.Valid() {
		fields["issue_type"] = "issue type must be one of access, materials, scope, safety, customer, equipment, other"
	}
	if r.Description == "" {
		fields["description"] = "description is required"
	}
	if r.RequestedAction != "" && !r.RequestedAction.Valid() {
		fields["requested_action"] = "requested action must be one of reschedule, assistance, manager, customer_contact, materials"
	}
	if !r.Priority.Valid() {
		fields["priority"] = "priority must be one of normal, urgent, emergency"
	}

	if len(fields) > 0 {
		return r, errs.Validation("invalid issue report", fields)
	}
	return r, nil
}

// ValidateStatusUpdate checks a status change request before the issue is loaded.
func ValidateStatusUpdate(status models.IssueStatus, resolutionNotes string) error {
	if !status.Valid() {
		return errs.Field("status", "status must be one of open, in_progress, resolved")
	}
	if status == models.IssueStatusResolved && strings.TrimSpace(resolutionNotes) == "" {
		return errs.Field("resolution_notes", "resolution notes are required to resolve an issue")
	}
	return nil
}
