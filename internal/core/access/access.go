// Package access is the authorization boundary: which role may perform which action.
package access

import (
	"context"
	"fmt"

	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
)

// Action is an operation subject to role checks.
type Action string

const (
	CreateTask       Action = "create task"
	ViewAllTasks     Action = "view all tasks"
	AssignTask       Action = "assign task"
	EditTask         Action = "edit task"
	CancelTask       Action = "cancel task"
	DeleteTask       Action = "delete task"
	RateTask         Action = "rate task"
	StartTask        Action = "start task"
	CompleteTask     Action = "complete task"
	ReportIssue      Action = "report issue"
	ViewAllIssues    Action = "view all issues"
	UpdateIssue      Action = "update issue"
	ListElectricians Action = "list electricians"
	ManageUsers      Action = "manage users"
	ViewActivity     Action = "view activity"
)

// Allows reports whether role may perform action. Unknown roles are denied.
func Allows(role models.Role, action Action) bool {
	switch role {
	case models.RoleAdmin:
		switch action {
		case CreateTask, ViewAllTasks, ListElectricians, ManageUsers, ViewActivity:
			return true
		}
		return false
	case models.RoleManager:
		switch action {
		case CreateTask, ViewAllTasks, AssignTask, EditTask, CancelTask, DeleteTask, RateTask,
			ViewAllIssues, UpdateIssue, ListElectricians, ViewActivity:
			return true
		}
		return false
	case models.RoleElectrician:
		switch action {
		case StartTask, CompleteTask, ReportIssue:
			return true
		}
		return false
	default:
		return false
	}
}

// Require returns the caller's session if it may perform action.
// A missing session is Unauthenticated; a role without the action is Unauthorized.
func Require(ctx context.Context, action Action) (ctxutil.Session, error) {
	s, ok := ctxutil.SessionFromContext(ctx)
	if !ok {
		return ctxutil.Session{}, errs.Unauthenticated("authentication required")
	}
	if !Allows(s.Role, action) {
		return s, errs.Unauthorized("%s may not %s", roleName(s.Role), action)
	}
	return s, nil
}

func roleName(r models.Role) string {
	if r == "" {
		return "unknown role"
	}
	return fmt.Sprintf("role %s", r)
}

// Authenticated returns the caller's session for operations open to every role.
func Authenticated(ctx context.Context) (ctxutil.Session, error) {
	s, ok := ctxutil.SessionFromContext(ctx)
	if !ok {
		return ctxutil.Session{}, errs.Unauthenticated("authentication required")
	}
	return s, nil
}
