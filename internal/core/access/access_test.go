package access

import (
	"context"
	"testing"

	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name   string
		role   models.Role
		action Action
		want   bool
	}{
		{"manager assigns", models.RoleManager, AssignTask, true},
		{"manager deletes", models.RoleManager, DeleteTask, true},
		{"manager updates issue", models.RoleManager, UpdateIssue, true},
		{"manager cannot start", models.RoleManager, StartTask, false},
		{"admin creates task", models.RoleAdmin, CreateTask, true},
		{"admin manages users", models.RoleAdmin, ManageUsers, true},
		{"admin cannot assign", models.RoleAdmin, AssignTask, false},
		{"admin cannot update issue", models.RoleAdmin, UpdateIssue, false},
		{"electrician starts", models.RoleElectrician, StartTask, true},
		{"electrician completes", models.RoleElectrician, CompleteTask, true},
		{"electrician reports issue", models.RoleElectrician, ReportIssue, true},
		{"electrician cannot create", models.RoleElectrician, CreateTask, false},
		{"electrician cannot delete", models.RoleElectrician, DeleteTask, false},
		{"unknown role denied", models.Role("Guest"), ViewAllTasks, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.role, tt.action); got != tt.want {
				t.Errorf("Allows(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	if _, err := Require(context.Background(), CreateTask); !errs.Is(err, errs.KindUnauthenticated) {
		t.Errorf("expected unauthenticated, got %v", err)
	}

	ctx := ctxutil.WithSession(context.Background(), ctxutil.Session{UserID: "e1", Role: models.RoleElectrician})
	if _, err := Require(ctx, AssignTask); !errs.Is(err, errs.KindUnauthorized) {
		t.Errorf("expected unauthorized, got %v", err)
	}

	got, err := Require(ctx, StartTask)
	if err != nil {
		t.Fatalf("expected allowed, got %v", err)
	}
	if got.UserID != "e1" {
		t.Errorf("expected session passthrough, got %+v", got)
	}
}
