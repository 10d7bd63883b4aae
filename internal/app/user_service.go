package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/kandy/internal/core/access"
	"github.com/example/kandy/internal/core/stats"
	"github.com/example/kandy/internal/core/validate"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/ports/secondary"
)

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userRepo  secondary.UserRepository
	taskRepo  secondary.TaskRepository
	hasher    secondary.PasswordHasher
	logWriter secondary.LogWriter
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(userRepo secondary.UserRepository, taskRepo secondary.TaskRepository, hasher secondary.PasswordHasher, logWriter secondary.LogWriter) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo:  userRepo,
		taskRepo:  taskRepo,
		hasher:    hasher,
		logWriter: logWriter,
	}
}

// CreateUser creates an account. Admin only.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	if _, err := access.Require(ctx, access.ManageUsers); err != nil {
		return nil, err
	}
	return s.create(ctx, req)
}

// BootstrapAdmin creates the first Admin account on an empty database.
func (s *UserServiceImpl) BootstrapAdmin(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	existing, err := s.userRepo.List(ctx, secondary.UserFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	if len(existing) > 0 {
		return nil, errs.InvalidState("users already exist; create further accounts as an admin")
	}

	req.Role = string(models.RoleAdmin)
	return s.create(ctx, req)
}

func (s *UserServiceImpl) create(ctx context.Context, req primary.CreateUserRequest) (*primary.User, error) {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Phone = strings.TrimSpace(req.Phone)

	fields := map[string]string{}
	if msg := validate.FullName(req.FullName); msg != "" {
		fields["full_name"] = "full name " + msg
	}
	if !validate.Email(req.Email) {
		fields["email"] = "enter a valid email address"
	}
	if req.Phone != "" && !validate.Phone(req.Phone) {
		fields["phone"] = "enter a valid Sri Lankan phone number"
	}
	if !models.Role(req.Role).Valid() {
		fields["role"] = "role must be one of Admin, Manager, Electrician"
	}
	if msg := validate.Password(req.Password); msg != "" {
		fields["password"] = "password " + msg
	}
	if len(fields) > 0 {
		return nil, errs.Validation("invalid user", fields)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	record := &secondary.UserRecord{
		ID:             uuid.NewString(),
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Role:           req.Role,
		Status:         string(models.UserStatusActive),
		Skills:         joinList(req.Skills),
		Certifications: joinList(req.Certifications),
		EmployeeCode:   strings.TrimSpace(req.EmployeeCode),
		PasswordHash:   hash,
	}

	if err := s.userRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	_ = s.logWriter.LogCreate(ctx, secondary.EntityUser, record.ID)

	return recordToUser(record), nil
}

// GetUser retrieves an account. Admins and managers may read any account;
// everyone may read their own.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*primary.User, error) {
	session, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}
	if userID != session.UserID && !access.Allows(session.Role, access.ListElectricians) {
		return nil, errs.Unauthorized("role %s may not view other users", session.Role)
	}

	record, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recordToUser(record), nil
}

// GetProfile returns the caller's own account.
func (s *UserServiceImpl) GetProfile(ctx context.Context) (*primary.User, error) {
	session, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	return recordToUser(record), nil
}

// ListUsers lists accounts. Admin only.
func (s *UserServiceImpl) ListUsers(ctx context.Context, filters primary.UserFilters) ([]*primary.User, error) {
	if _, err := access.Require(ctx, access.ManageUsers); err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if filters.Role != "" && !models.Role(filters.Role).Valid() {
		fields["role"] = "role must be one of Admin, Manager, Electrician"
	}
	if filters.Status != "" && !models.UserStatus(filters.Status).Valid() {
		fields["status"] = "status must be Active or Inactive"
	}
	if len(fields) > 0 {
		return nil, errs.Validation("invalid user filters", fields)
	}

	records, err := s.userRepo.List(ctx, secondary.UserFilters{Role: filters.Role, Status: filters.Status})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*primary.User, len(records))
	for i, r := range records {
		users[i] = recordToUser(r)
	}
	return users, nil
}

// ListElectricians lists electricians with their current workload. An
// electrician is available when Active with no Assigned or In Progress task.
func (s *UserServiceImpl) ListElectricians(ctx context.Context) ([]*primary.Electrician, error) {
	if _, err := access.Require(ctx, access.ListElectricians); err != nil {
		return nil, err
	}

	records, err := s.userRepo.List(ctx, secondary.UserFilters{Role: string(models.RoleElectrician)})
	if err != nil {
		return nil, fmt.Errorf("failed to list electricians: %w", err)
	}

	tasks, err := s.taskRepo.List(ctx, secondary.TaskFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	current := stats.CurrentTasks(taskSnapshots(tasks))

	out := make([]*primary.Electrician, len(records))
	for i, r := range records {
		n := current[r.ID]
		out[i] = &primary.Electrician{
			User:         *recordToUser(r),
			CurrentTasks: n,
			Available:    r.Status == string(models.UserStatusActive) && n == 0,
		}
	}
	return out, nil
}

// SetUserStatus activates or deactivates an account. Admin only; an admin
// cannot deactivate their own account.
func (s *UserServiceImpl) SetUserStatus(ctx context.Context, userID, status string) (*primary.User, error) {
	session, err := access.Require(ctx, access.ManageUsers)
	if err != nil {
		return nil, err
	}

	target := models.UserStatus(strings.TrimSpace(status))
	if !target.Valid() {
		return nil, errs.Field("status", "status must be Active or Inactive")
	}
	if userID == session.UserID && target == models.UserStatusInactive {
		return nil, errs.InvalidState("you cannot deactivate your own account")
	}

	record, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if record.Status != string(target) {
		if err := s.userRepo.UpdateStatus(ctx, userID, string(target)); err != nil {
			return nil, err
		}
		_ = s.logWriter.LogUpdate(ctx, secondary.EntityUser, userID, "status", record.Status, string(target))
		record.Status = string(target)
	}

	return recordToUser(record), nil
}

func joinList(items []string) string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return strings.Join(out, ",")
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func recordToUser(r *secondary.UserRecord) *primary.User {
	return &primary.User{
		ID:             r.ID,
		FullName:       r.FullName,
		Email:          r.Email,
		Phone:          r.Phone,
		Role:           r.Role,
		Status:         r.Status,
		Skills:         splitList(r.Skills),
		Certifications: splitList(r.Certifications),
		EmployeeCode:   r.EmployeeCode,
		LastLoginAt:    r.LastLoginAt,
		CreatedAt:      r.CreatedAt,
	}
}

// Ensure UserServiceImpl implements the interface
var _ primary.UserService = (*UserServiceImpl)(nil)
