package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/example/kandy/internal/core/access"
	"github.com/example/kandy/internal/core/stats"
	coretask "github.com/example/kandy/internal/core/task"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/ports/secondary"
)

// Activity list bounds.
const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

// DashboardServiceImpl implements the DashboardService interface. It only
// reads; every call recomputes the counts from a fresh snapshot.
type DashboardServiceImpl struct {
	taskRepo     secondary.TaskRepository
	issueRepo    secondary.IssueRepository
	userRepo     secondary.UserRepository
	activityRepo secondary.ActivityRepository
	loc          *time.Location
	now          func() time.Time
}

// NewDashboardService creates a new DashboardService with injected dependencies.
func NewDashboardService(
	taskRepo secondary.TaskRepository,
	issueRepo secondary.IssueRepository,
	userRepo secondary.UserRepository,
	activityRepo secondary.ActivityRepository,
	loc *time.Location,
) *DashboardServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		taskRepo:     taskRepo,
		issueRepo:    issueRepo,
		userRepo:     userRepo,
		activityRepo: activityRepo,
		loc:          loc,
		now:          time.Now,
	}
}

// GetStats returns the dashboard block for the caller's role.
func (s *DashboardServiceImpl) GetStats(ctx context.Context) (*primary.DashboardStats, error) {
	session, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := &primary.DashboardStats{
		Role: string(session.Role),
		Date: coretask.Today(now, s.loc),
	}

	switch session.Role {
	case models.RoleElectrician:
		tasks, err := s.taskRepo.List(ctx, secondary.TaskFilters{AssignedElectricianID: session.UserID})
		if err != nil {
			return nil, fmt.Errorf("failed to load tasks: %w", err)
		}
		counts := stats.Electrician(taskSnapshots(tasks), out.Date)
		out.Electrician = &counts

	case models.RoleManager:
		counts, err := s.managerStats(ctx, out.Date)
		if err != nil {
			return nil, err
		}
		out.Manager = counts

	case models.RoleAdmin:
		counts, err := s.adminStats(ctx, s.startOfDay(now))
		if err != nil {
			return nil, err
		}
		out.Admin = counts

	default:
		return nil, errs.Unauthorized("unknown role %q", session.Role)
	}

	return out, nil
}

func (s *DashboardServiceImpl) managerStats(ctx context.Context, day string) (*stats.ManagerCounts, error) {
	var (
		tasks  []*secondary.TaskRecord
		issues []*secondary.IssueRecord
		users  []*secondary.UserRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.taskRepo.List(gctx, secondary.TaskFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		issues, err = s.issueRepo.List(gctx, secondary.IssueFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.userRepo.List(gctx, secondary.UserFilters{Role: string(models.RoleElectrician)})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	counts := stats.Manager(taskSnapshots(tasks), issueSnapshots(issues), userSnapshots(users), day)
	return &counts, nil
}

func (s *DashboardServiceImpl) adminStats(ctx context.Context, since time.Time) (*stats.AdminCounts, error) {
	var (
		users      []*secondary.UserRecord
		logins     int
		activities int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.userRepo.List(gctx, secondary.UserFilters{})
		return err
	})
	g.Go(func() error {
		var err error
		logins, err = s.activityRepo.Count(gctx, secondary.ActivityFilters{Action: "login", Since: since})
		return err
	})
	g.Go(func() error {
		var err error
		activities, err = s.activityRepo.Count(gctx, secondary.ActivityFilters{Since: since})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard data: %w", err)
	}

	counts := stats.Admin(userSnapshots(users), logins, activities)
	return &counts, nil
}

// ListActivity returns the most recent activity entries. limit <= 0 uses the
// default; larger values are capped.
func (s *DashboardServiceImpl) ListActivity(ctx context.Context, limit int) ([]*primary.Activity, error) {
	if _, err := access.Require(ctx, access.ViewActivity); err != nil {
		return nil, err
	}

	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}

	records, err := s.activityRepo.List(ctx, secondary.ActivityFilters{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	out := make([]*primary.Activity, len(records))
	for i, r := range records {
		out[i] = &primary.Activity{
			ID:         r.ID,
			ActorID:    r.ActorID,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Action:     r.Action,
			FieldName:  r.FieldName,
			OldValue:   r.OldValue,
			NewValue:   r.NewValue,
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}

func (s *DashboardServiceImpl) startOfDay(now time.Time) time.Time {
	local := now.In(s.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
}

func taskSnapshots(records []*secondary.TaskRecord) []stats.TaskSnapshot {
	out := make([]stats.TaskSnapshot, len(records))
	for i, r := range records {
		out[i] = stats.TaskSnapshot{
			Status:        models.TaskStatus(r.Status),
			ScheduledDate: r.ScheduledDate,
			AssignedTo:    r.AssignedElectricianID,
			Rating:        r.Rating,
		}
	}
	return out
}

func userSnapshots(records []*secondary.UserRecord) []stats.UserSnapshot {
	out := make([]stats.UserSnapshot, len(records))
	for i, r := range records {
		out[i] = stats.UserSnapshot{
			ID:     r.ID,
			Role:   models.Role(r.Role),
			Status: models.UserStatus(r.Status),
		}
	}
	return out
}

// Ensure DashboardServiceImpl implements the interface
var _ primary.DashboardService = (*DashboardServiceImpl)(nil)
