package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/kandy/internal/core/access"
	coreissue "github.com/example/kandy/internal/core/issue"
	"github.com/example/kandy/internal/core/stats"
	coretask "github.com/example/kandy/internal/core/task"
	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/ports/secondary"
)

// IssueServiceImpl implements the IssueService interface.
type IssueServiceImpl struct {
	issueRepo secondary.IssueRepository
	taskRepo  secondary.TaskRepository
	logWriter secondary.LogWriter
	loc       *time.Location
	now       func() time.Time
}

// NewIssueService creates a new IssueService with injected dependencies.
// loc is the timezone date filters are interpreted in.
func NewIssueService(issueRepo secondary.IssueRepository, taskRepo secondary.TaskRepository, logWriter secondary.LogWriter, loc *time.Location) *IssueServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &IssueServiceImpl{
		issueRepo: issueRepo,
		taskRepo:  taskRepo,
		logWriter: logWriter,
		loc:       loc,
		now:       time.Now,
	}
}

// ReportIssue records an electrician's escalation on a task assigned to them.
func (s *IssueServiceImpl) ReportIssue(ctx context.Context, req primary.ReportIssueRequest) (*primary.Issue, error) {
	session, err := access.Require(ctx, access.ReportIssue)
	if err != nil {
		return nil, err
	}

	report, err := coreissue.ValidateReport(coreissue.Report{
		TaskID:          req.TaskID,
		IssueType:       models.IssueType(req.IssueType),
		Description:     req.Description,
		RequestedAction: models.RequestedAction(req.RequestedAction),
		Priority:        models.IssuePriority(req.Priority),
	})
	if err != nil {
		return nil, err
	}

	guardCtx := coreissue.ReportContext{TaskID: report.TaskID, CallerID: session.UserID}
	task, err := s.taskRepo.GetByID(ctx, report.TaskID)
	switch {
	case errs.Is(err, errs.KindNotFound):
	case err != nil:
		return nil, err
	default:
		guardCtx.TaskFound = true
		guardCtx.TaskStatus = models.TaskStatus(task.Status)
		guardCtx.TaskAssignedTo = task.AssignedElectricianID
	}

	if result := coreissue.CanReport(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	record := &secondary.IssueRecord{
		ID:                uuid.NewString(),
		TaskID:            report.TaskID,
		ReportedBy:        session.UserID,
		IssueType:         string(report.IssueType),
		Description:       report.Description,
		RequestedAction:   string(report.RequestedAction),
		Priority:          string(report.Priority),
		IssueStatusRecord: secondary.IssueStatusRecord{Status: string(models.IssueStatusOpen)},
	}

	if err := s.issueRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	_ = s.logWriter.LogCreate(ctx, secondary.EntityIssue, record.ID)

	return s.reload(ctx, record.ID)
}

// GetIssue retrieves an issue. Electricians only see issues they reported.
func (s *IssueServiceImpl) GetIssue(ctx context.Context, issueID string) (*primary.Issue, error) {
	session, err := s.requireReader(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if !access.Allows(session.Role, access.ViewAllIssues) && record.ReportedBy != session.UserID {
		return nil, errs.NotFound("issue", issueID)
	}

	return recordToIssue(record), nil
}

// ListIssues lists issues matching every given filter, newest first.
func (s *IssueServiceImpl) ListIssues(ctx context.Context, filters primary.IssueFilters) ([]*primary.Issue, error) {
	session, err := s.requireReader(ctx)
	if err != nil {
		return nil, err
	}

	repoFilters, err := s.toRepoFilters(filters)
	if err != nil {
		return nil, err
	}
	if !access.Allows(session.Role, access.ViewAllIssues) {
		repoFilters.ReportedBy = session.UserID
	}

	records, err := s.issueRepo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	issues := make([]*primary.Issue, len(records))
	for i, r := range records {
		issues[i] = recordToIssue(r)
	}
	return issues, nil
}

// UpdateIssueStatus moves an issue along its lifecycle. Resolving requires
// resolution notes and stamps the resolver and time.
func (s *IssueServiceImpl) UpdateIssueStatus(ctx context.Context, issueID string, req primary.UpdateIssueStatusRequest) (*primary.Issue, error) {
	session, err := access.Require(ctx, access.UpdateIssue)
	if err != nil {
		return nil, err
	}

	target := models.IssueStatus(strings.TrimSpace(req.Status))
	notes := strings.TrimSpace(req.ResolutionNotes)
	if err := coreissue.ValidateStatusUpdate(target, notes); err != nil {
		return nil, err
	}

	record, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}

	if result := coreissue.CanTransition(issueID, models.IssueStatus(record.Status), target); !result.Allowed {
		return nil, result.Error()
	}

	update := &secondary.IssueStatusRecord{Status: string(target)}
	if target == models.IssueStatusResolved {
		now := s.now().UTC()
		update.ResolutionNotes = notes
		update.ResolvedBy = session.UserID
		update.ResolvedAt = &now
	}

	if err := s.issueRepo.UpdateStatus(ctx, issueID, record.Status, update); err != nil {
		return nil, err
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityIssue, issueID, "status", record.Status, string(target))

	return s.reload(ctx, issueID)
}

// IssueStats counts the issues visible to the caller.
func (s *IssueServiceImpl) IssueStats(ctx context.Context) (*stats.IssueCounts, error) {
	session, err := s.requireReader(ctx)
	if err != nil {
		return nil, err
	}

	filters := secondary.IssueFilters{}
	if !access.Allows(session.Role, access.ViewAllIssues) {
		filters.ReportedBy = session.UserID
	}

	records, err := s.issueRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	counts := stats.Issues(issueSnapshots(records))
	return &counts, nil
}

// requireReader admits managers and the electricians who report issues.
func (s *IssueServiceImpl) requireReader(ctx context.Context) (ctxutil.Session, error) {
	session, err := access.Authenticated(ctx)
	if err != nil {
		return session, err
	}
	if !access.Allows(session.Role, access.ViewAllIssues) && !access.Allows(session.Role, access.ReportIssue) {
		return session, errs.Unauthorized("role %s may not view issues", session.Role)
	}
	return session, nil
}

// toRepoFilters converts the inclusive date range into created_at instants at
// local midnight.
func (s *IssueServiceImpl) toRepoFilters(f primary.IssueFilters) (secondary.IssueFilters, error) {
	out := secondary.IssueFilters{
		Status:   f.Status,
		Priority: f.Priority,
		TaskID:   f.TaskID,
	}

	fields := map[string]string{}
	if f.Status != "" && !models.IssueStatus(f.Status).Valid() {
		fields["status"] = "status must be one of open, in_progress, resolved"
	}
	if f.Priority != "" && !models.IssuePriority(f.Priority).Valid() {
		fields["priority"] = "priority must be one of normal, urgent, emergency"
	}
	if f.StartDate != "" {
		start, err := time.ParseInLocation(coretask.DateLayout, f.StartDate, s.loc)
		if err != nil {
			fields["start_date"] = "start date must be YYYY-MM-DD"
		} else {
			out.CreatedFrom = start
		}
	}
	if f.EndDate != "" {
		end, err := time.ParseInLocation(coretask.DateLayout, f.EndDate, s.loc)
		if err != nil {
			fields["end_date"] = "end date must be YYYY-MM-DD"
		} else {
			out.CreatedBefore = end.AddDate(0, 0, 1)
		}
	}
	if !out.CreatedFrom.IsZero() && !out.CreatedBefore.IsZero() && !out.CreatedFrom.Before(out.CreatedBefore) {
		fields["end_date"] = "end date must not be before start date"
	}

	if len(fields) > 0 {
		return out, errs.Validation("invalid issue filters", fields)
	}
	return out, nil
}

func (s *IssueServiceImpl) reload(ctx context.Context, issueID string) (*primary.Issue, error) {
	record, err := s.issueRepo.GetByID(ctx, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload issue: %w", err)
	}
	return recordToIssue(record), nil
}

func issueSnapshots(records []*secondary.IssueRecord) []stats.IssueSnapshot {
	out := make([]stats.IssueSnapshot, len(records))
	for i, r := range records {
		out[i] = stats.IssueSnapshot{
			Status:   models.IssueStatus(r.Status),
			Priority: models.IssuePriority(r.Priority),
		}
	}
	return out
}

func recordToIssue(r *secondary.IssueRecord) *primary.Issue {
	return &primary.Issue{
		ID:              r.ID,
		TaskID:          r.TaskID,
		TaskTitle:       r.TaskTitle,
		ReportedBy:      r.ReportedBy,
		IssueType:       r.IssueType,
		Description:     r.Description,
		RequestedAction: r.RequestedAction,
		Priority:        r.Priority,
		Status:          r.Status,
		ResolutionNotes: r.ResolutionNotes,
		ResolvedBy:      r.ResolvedBy,
		ResolvedAt:      r.ResolvedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// Ensure IssueServiceImpl implements the interface
var _ primary.IssueService = (*IssueServiceImpl)(nil)
