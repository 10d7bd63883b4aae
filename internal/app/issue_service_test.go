package app

import (
	"testing"
	"time"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/ports/secondary"
)

func newTestIssueService() (*IssueServiceImpl, *mockIssueRepository, *mockTaskRepository, *mockLogWriter) {
	issues := newMockIssueRepository()
	tasks := newMockTaskRepository()
	logs := &mockLogWriter{}
	svc := NewIssueService(issues, tasks, logs, colombo())
	svc.now = func() time.Time { return fixedNow }
	return svc, issues, tasks, logs
}

func validReport(taskID string) primary.ReportIssueRequest {
	return primary.ReportIssueRequest{
		TaskID:          taskID,
		IssueType:       "materials",
		Description:     "Need 20m of 2.5mm cable",
		RequestedAction: "materials",
	}
}

func TestReportIssue(t *testing.T) {
	svc, issues, tasks, logs := newTestIssueService()
	tasks.put(taskFixture("T1", "In Progress", "USR-EL1", "2026-03-10"))

	issue, err := svc.ReportIssue(el1Ctx, validReport("T1"))
	if err != nil {
		t.Fatalf("ReportIssue failed: %v", err)
	}
	if issue.Status != "open" {
		t.Errorf("Status = %q, want open", issue.Status)
	}
	if issue.Priority != "normal" {
		t.Errorf("Priority = %q, want default normal", issue.Priority)
	}
	if issue.ReportedBy != "USR-EL1" {
		t.Errorf("ReportedBy = %q, want USR-EL1", issue.ReportedBy)
	}
	if len(issues.issues) != 1 {
		t.Errorf("expected 1 stored issue, got %d", len(issues.issues))
	}
	if !logs.has("create", "", "") {
		t.Error("expected report to be logged")
	}
}

func TestReportIssue_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		status   string
		assignee string
		taskID   string
		modify   func(*primary.ReportIssueRequest)
		kind     errs.Kind
	}{
		{"not the assignee", "Assigned", "USR-EL2", "T1", nil, errs.KindUnauthorized},
		{"missing task", "Assigned", "USR-EL1", "T404", nil, errs.KindNotFound},
		{"pending task", "Pending", "", "T1", nil, errs.KindUnauthorized},
		{"completed task", "Completed", "USR-EL1", "T1", nil, errs.KindInvalidState},
		{"unknown type", "Assigned", "USR-EL1", "T1", func(r *primary.ReportIssueRequest) { r.IssueType = "weather" }, errs.KindValidation},
		{"unknown action", "Assigned", "USR-EL1", "T1", func(r *primary.ReportIssueRequest) { r.RequestedAction = "panic" }, errs.KindValidation},
		{"empty description", "Assigned", "USR-EL1", "T1", func(r *primary.ReportIssueRequest) { r.Description = "" }, errs.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, issues, tasks, _ := newTestIssueService()
			tasks.put(taskFixture("T1", tt.status, tt.assignee, "2026-03-10"))

			req := validReport(tt.taskID)
			if tt.modify != nil {
				tt.modify(&req)
			}

			_, err := svc.ReportIssue(el1Ctx, req)
			if !errs.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if len(issues.issues) != 0 {
				t.Error("no issue should be created")
			}
		})
	}

	t.Run("managers do not report", func(t *testing.T) {
		svc, _, tasks, _ := newTestIssueService()
		tasks.put(taskFixture("T1", "Assigned", "USR-EL1", "2026-03-10"))

		if _, err := svc.ReportIssue(managerCtx, validReport("T1")); !errs.Is(err, errs.KindUnauthorized) {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})
}

func seedIssue(issues *mockIssueRepository, id, status, priority, reporter string) {
	issues.issues[id] = &secondary.IssueRecord{
		ID:                id,
		TaskID:            "T1",
		ReportedBy:        reporter,
		IssueType:         "other",
		Description:       "Issue " + id,
		Priority:          priority,
		IssueStatusRecord: secondary.IssueStatusRecord{Status: status},
	}
}

func TestUpdateIssueStatus(t *testing.T) {
	svc, issues, _, logs := newTestIssueService()
	seedIssue(issues, "I1", "open", "urgent", "USR-EL1")

	issue, err := svc.UpdateIssueStatus(managerCtx, "I1", primary.UpdateIssueStatusRequest{Status: "in_progress"})
	if err != nil {
		t.Fatalf("UpdateIssueStatus failed: %v", err)
	}
	if issue.Status != "in_progress" || issue.ResolvedAt != nil {
		t.Errorf("after start: status %q resolved_at %v", issue.Status, issue.ResolvedAt)
	}

	_, err = svc.UpdateIssueStatus(managerCtx, "I1", primary.UpdateIssueStatusRequest{Status: "resolved"})
	if !errs.Is(err, errs.KindValidation) {
		t.Fatalf("resolve without notes: expected validation error, got %v", err)
	}

	issue, err = svc.UpdateIssueStatus(managerCtx, "I1", primary.UpdateIssueStatusRequest{Status: "resolved", ResolutionNotes: "Cable delivered"})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if issue.ResolvedBy != "USR-MGR" || issue.ResolvedAt == nil || issue.ResolutionNotes != "Cable delivered" {
		t.Errorf("resolution fields not set: %+v", issue)
	}
	if !logs.has("update", "status", "resolved") {
		t.Error("expected resolution to be logged")
	}

	_, err = svc.UpdateIssueStatus(managerCtx, "I1", primary.UpdateIssueStatusRequest{Status: "open"})
	if !errs.Is(err, errs.KindInvalidTransition) {
		t.Fatalf("reopen: expected invalid transition, got %v", err)
	}
}

func TestUpdateIssueStatus_Rejections(t *testing.T) {
	tests := []struct {
		name string
		ctx  string
		from string
		req  primary.UpdateIssueStatusRequest
		kind errs.Kind
	}{
		{"electrician", "el1", "open", primary.UpdateIssueStatusRequest{Status: "in_progress"}, errs.KindUnauthorized},
		{"admin", "admin", "open", primary.UpdateIssueStatusRequest{Status: "in_progress"}, errs.KindUnauthorized},
		{"unknown status", "manager", "open", primary.UpdateIssueStatusRequest{Status: "closed"}, errs.KindValidation},
		{"same status", "manager", "in_progress", primary.UpdateIssueStatusRequest{Status: "in_progress"}, errs.KindInvalidTransition},
		{"blank notes", "manager", "open", primary.UpdateIssueStatusRequest{Status: "resolved", ResolutionNotes: "  "}, errs.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, issues, _, _ := newTestIssueService()
			seedIssue(issues, "I1", tt.from, "normal", "USR-EL1")

			ctx := managerCtx
			switch tt.ctx {
			case "el1":
				ctx = el1Ctx
			case "admin":
				ctx = adminCtx
			}

			_, err := svc.UpdateIssueStatus(ctx, "I1", tt.req)
			if !errs.Is(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if issues.issues["I1"].Status != tt.from {
				t.Errorf("status changed to %q", issues.issues["I1"].Status)
			}
		})
	}
}

func TestOpenIssueResolvesDirectly(t *testing.T) {
	svc, issues, _, _ := newTestIssueService()
	seedIssue(issues, "I1", "open", "normal", "USR-EL1")

	issue, err := svc.UpdateIssueStatus(managerCtx, "I1", primary.UpdateIssueStatusRequest{Status: "resolved", ResolutionNotes: "Handled by phone"})
	if err != nil {
		t.Fatalf("UpdateIssueStatus failed: %v", err)
	}
	if issue.Status != "resolved" {
		t.Errorf("Status = %q, want resolved", issue.Status)
	}
}

func TestListIssues(t *testing.T) {
	svc, issues, _, _ := newTestIssueService()
	seedIssue(issues, "I1", "open", "urgent", "USR-EL1")
	seedIssue(issues, "I2", "resolved", "normal", "USR-EL2")
	seedIssue(issues, "I3", "in_progress", "urgent", "USR-EL2")

	all, err := svc.ListIssues(managerCtx, primary.IssueFilters{})
	if err != nil {
		t.Fatalf("ListIssues failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("manager sees %d issues, want 3", len(all))
	}

	urgent, _ := svc.ListIssues(managerCtx, primary.IssueFilters{Priority: "urgent", Status: "open"})
	if len(urgent) != 1 || urgent[0].ID != "I1" {
		t.Errorf("urgent open issues = %v, want only I1", urgent)
	}

	mine, _ := svc.ListIssues(el2Ctx, primary.IssueFilters{})
	if len(mine) != 2 {
		t.Errorf("electrician sees %d issues, want their own 2", len(mine))
	}

	if _, err := svc.ListIssues(adminCtx, primary.IssueFilters{}); !errs.Is(err, errs.KindUnauthorized) {
		t.Errorf("admin: expected unauthorized, got %v", err)
	}
}

func TestListIssues_DateRange(t *testing.T) {
	svc, issues, _, _ := newTestIssueService()

	if _, err := svc.ListIssues(managerCtx, primary.IssueFilters{StartDate: "2026-03-01", EndDate: "2026-03-10"}); err != nil {
		t.Fatalf("ListIssues failed: %v", err)
	}

	loc := colombo()
	wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, loc)
	wantBefore := time.Date(2026, 3, 11, 0, 0, 0, 0, loc)
	if !issues.lastFilters.CreatedFrom.Equal(wantFrom) {
		t.Errorf("CreatedFrom = %v, want %v", issues.lastFilters.CreatedFrom, wantFrom)
	}
	if !issues.lastFilters.CreatedBefore.Equal(wantBefore) {
		t.Errorf("CreatedBefore = %v, want %v (end date inclusive)", issues.lastFilters.CreatedBefore, wantBefore)
	}

	tests := []struct {
		name    string
		filters primary.IssueFilters
		field   string
	}{
		{"bad start", primary.IssueFilters{StartDate: "March 1"}, "start_date"},
		{"bad end", primary.IssueFilters{EndDate: "2026-13-01"}, "end_date"},
		{"reversed", primary.IssueFilters{StartDate: "2026-03-10", EndDate: "2026-03-01"}, "end_date"},
		{"bad priority", primary.IssueFilters{Priority: "high"}, "priority"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ListIssues(managerCtx, tt.filters)
			if _, ok := errs.FieldsOf(err)[tt.field]; !ok {
				t.Errorf("expected field %q, got %v", tt.field, err)
			}
		})
	}
}

func TestGetIssue_Visibility(t *testing.T) {
	svc, issues, _, _ := newTestIssueService()
	seedIssue(issues, "I1", "open", "normal", "USR-EL1")

	if _, err := svc.GetIssue(el1Ctx, "I1"); err != nil {
		t.Errorf("reporter: %v", err)
	}
	if _, err := svc.GetIssue(managerCtx, "I1"); err != nil {
		t.Errorf("manager: %v", err)
	}
	if _, err := svc.GetIssue(el2Ctx, "I1"); !errs.Is(err, errs.KindNotFound) {
		t.Errorf("other electrician: expected not found, got %v", err)
	}
}

func TestIssueStats(t *testing.T) {
	svc, issues, _, _ := newTestIssueService()
	seedIssue(issues, "I1", "open", "urgent", "USR-EL1")
	seedIssue(issues, "I2", "in_progress", "emergency", "USR-EL1")
	seedIssue(issues, "I3", "resolved", "emergency", "USR-EL2")

	counts, err := svc.IssueStats(managerCtx)
	if err != nil {
		t.Fatalf("IssueStats failed: %v", err)
	}
	if counts.Total != 3 || counts.Open != 1 || counts.InProgress != 1 || counts.Resolved != 1 {
		t.Errorf("unexpected status counts: %+v", counts)
	}
	if counts.Urgent != 1 || counts.Emergency != 1 {
		t.Errorf("urgent/emergency should only count unresolved issues: %+v", counts)
	}
}
