package app

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockTaskRepository implements secondary.TaskRepository for testing. Its
// conditional writes behave like the SQLite repository.
type mockTaskRepository struct {
	tasks     map[string]*secondary.TaskRecord
	createErr error
	listErr   error
	updateErr error
	// beforeWrite runs at the start of each conditional write, to simulate a
	// concurrent caller changing the row after the service read it.
	beforeWrite func()
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{tasks: make(map[string]*secondary.TaskRecord)}
}

func (m *mockTaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	if task, ok := m.tasks[id]; ok {
		cp := *task
		return &cp, nil
	}
	return nil, errs.NotFound("task", id)
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.TaskRecord
	for _, task := range m.tasks {
		if filters.Status != "" && task.Status != filters.Status {
			continue
		}
		if filters.ScheduledDate != "" && task.ScheduledDate != filters.ScheduledDate {
			continue
		}
		if filters.AssignedElectricianID != "" && task.AssignedElectricianID != filters.AssignedElectricianID {
			continue
		}
		cp := *task
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockTaskRepository) conditional(id string, expected secondary.TaskExpectation) (*secondary.TaskRecord, error) {
	if m.beforeWrite != nil {
		m.beforeWrite()
	}
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	task, ok := m.tasks[id]
	if !ok {
		return nil, errs.NotFound("task", id)
	}
	if task.Status != expected.Status {
		return nil, errs.InvalidTransition("task %s is %s, expected %s", id, task.Status, expected.Status)
	}
	if task.AssignedElectricianID != expected.AssignedTo {
		return nil, errs.InvalidTransition("task %s was reassigned; reload and retry", id)
	}
	return task, nil
}

func (m *mockTaskRepository) UpdateDetails(ctx context.Context, task *secondary.TaskRecord, expected secondary.TaskExpectation) error {
	if _, err := m.conditional(task.ID, expected); err != nil {
		return err
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskRepository) UpdateLifecycle(ctx context.Context, id string, expected secondary.TaskExpectation, lifecycle *secondary.TaskLifecycleRecord) error {
	task, err := m.conditional(id, expected)
	if err != nil {
		return err
	}
	task.TaskLifecycleRecord = *lifecycle
	return nil
}

func (m *mockTaskRepository) UpdateFeedback(ctx context.Context, id string, rating int, feedback string) error {
	expected := secondary.TaskExpectation{Status: string(models.TaskStatusCompleted)}
	if task, ok := m.tasks[id]; ok {
		expected.AssignedTo = task.AssignedElectricianID
	}
	task, err := m.conditional(id, expected)
	if err != nil {
		return err
	}
	task.Rating = rating
	task.Feedback = feedback
	return nil
}

func (m *mockTaskRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return errs.NotFound("task", id)
	}
	delete(m.tasks, id)
	return nil
}

// put stores a task directly, bypassing the service.
func (m *mockTaskRepository) put(task *secondary.TaskRecord) {
	m.tasks[task.ID] = task
}

// mockIssueRepository implements secondary.IssueRepository for testing.
type mockIssueRepository struct {
	issues  map[string]*secondary.IssueRecord
	listErr error
	// lastFilters records the filters of the most recent List call.
	lastFilters secondary.IssueFilters
}

func newMockIssueRepository() *mockIssueRepository {
	return &mockIssueRepository{issues: make(map[string]*secondary.IssueRecord)}
}

func (m *mockIssueRepository) Create(ctx context.Context, issue *secondary.IssueRecord) error {
	issue.CreatedAt = time.Now()
	issue.UpdatedAt = issue.CreatedAt
	cp := *issue
	m.issues[issue.ID] = &cp
	return nil
}

func (m *mockIssueRepository) GetByID(ctx context.Context, id string) (*secondary.IssueRecord, error) {
	if issue, ok := m.issues[id]; ok {
		cp := *issue
		return &cp, nil
	}
	return nil, errs.NotFound("issue", id)
}

func (m *mockIssueRepository) List(ctx context.Context, filters secondary.IssueFilters) ([]*secondary.IssueRecord, error) {
	m.lastFilters = filters
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.IssueRecord
	for _, issue := range m.issues {
		if filters.Status != "" && issue.Status != filters.Status {
			continue
		}
		if filters.Priority != "" && issue.Priority != filters.Priority {
			continue
		}
		if filters.TaskID != "" && issue.TaskID != filters.TaskID {
			continue
		}
		if filters.ReportedBy != "" && issue.ReportedBy != filters.ReportedBy {
			continue
		}
		cp := *issue
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockIssueRepository) UpdateStatus(ctx context.Context, id, expectedStatus string, update *secondary.IssueStatusRecord) error {
	issue, ok := m.issues[id]
	if !ok {
		return errs.NotFound("issue", id)
	}
	if issue.Status != expectedStatus {
		return errs.InvalidTransition("issue %s is %s, expected %s", id, issue.Status, expectedStatus)
	}
	issue.IssueStatusRecord = *update
	return nil
}

// mockUserRepository implements secondary.UserRepository for testing.
type mockUserRepository struct {
	users     map[string]*secondary.UserRecord
	createErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: make(map[string]*secondary.UserRecord)}
}

func (m *mockUserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return errs.Field("email", "is already registered")
		}
	}
	user.CreatedAt = time.Now()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	if user, ok := m.users[id]; ok {
		cp := *user
		return &cp, nil
	}
	return nil, errs.NotFound("user", id)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*secondary.UserRecord, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errs.NotFound("user", email)
}

func (m *mockUserRepository) List(ctx context.Context, filters secondary.UserFilters) ([]*secondary.UserRecord, error) {
	var result []*secondary.UserRecord
	for _, u := range m.users {
		if filters.Role != "" && u.Role != filters.Role {
			continue
		}
		if filters.Status != "" && u.Status != filters.Status {
			continue
		}
		cp := *u
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepository) UpdateStatus(ctx context.Context, id, status string) error {
	user, ok := m.users[id]
	if !ok {
		return errs.NotFound("user", id)
	}
	user.Status = status
	return nil
}

func (m *mockUserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	user, ok := m.users[id]
	if !ok {
		return errs.NotFound("user", id)
	}
	user.LastLoginAt = &at
	return nil
}

// put stores a user directly, bypassing the service.
func (m *mockUserRepository) put(id, role, status string) {
	m.users[id] = &secondary.UserRecord{
		ID:           id,
		FullName:     "User " + id,
		Email:        strings.ToLower(id) + "@kandy.lk",
		Role:         role,
		Status:       status,
		PasswordHash: "hashed:secret123",
	}
}

// mockActivityRepository implements secondary.ActivityRepository for testing.
type mockActivityRepository struct {
	entries  []*secondary.ActivityRecord
	countErr error
}

func (m *mockActivityRepository) Create(ctx context.Context, entry *secondary.ActivityRecord) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockActivityRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	var result []*secondary.ActivityRecord
	for i := len(m.entries) - 1; i >= 0; i-- {
		if filters.Limit > 0 && len(result) == filters.Limit {
			break
		}
		result = append(result, m.entries[i])
	}
	return result, nil
}

func (m *mockActivityRepository) Count(ctx context.Context, filters secondary.ActivityFilters) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	n := 0
	for _, e := range m.entries {
		if filters.Action != "" && e.Action != filters.Action {
			continue
		}
		if !filters.Since.IsZero() && e.CreatedAt.Before(filters.Since) {
			continue
		}
		n++
	}
	return n, nil
}

// logEntry is one call recorded by mockLogWriter.
type logEntry struct {
	action, entityType, entityID, field, oldValue, newValue, actor string
}

// mockLogWriter implements secondary.LogWriter for testing.
type mockLogWriter struct {
	entries []logEntry
	err     error
}

func (m *mockLogWriter) record(ctx context.Context, e logEntry) error {
	e.actor = ctxutil.ActorFromContext(ctx)
	m.entries = append(m.entries, e)
	return m.err
}

func (m *mockLogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return m.record(ctx, logEntry{action: "create", entityType: entityType, entityID: entityID})
}

func (m *mockLogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return m.record(ctx, logEntry{action: "update", entityType: entityType, entityID: entityID, field: fieldName, oldValue: oldValue, newValue: newValue})
}

func (m *mockLogWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return m.record(ctx, logEntry{action: "delete", entityType: entityType, entityID: entityID})
}

func (m *mockLogWriter) LogLogin(ctx context.Context, userID string) error {
	m.entries = append(m.entries, logEntry{action: "login", entityType: "user", entityID: userID, actor: userID})
	return m.err
}

// has reports whether an entry with the given action, field and new value was recorded.
func (m *mockLogWriter) has(action, field, newValue string) bool {
	for _, e := range m.entries {
		if e.action == action && e.field == field && e.newValue == newValue {
			return true
		}
	}
	return false
}

// fakeHasher implements secondary.PasswordHasher without bcrypt's cost.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// fakeTokens implements secondary.TokenIssuer with readable tokens.
type fakeTokens struct{}

func (fakeTokens) Issue(userID, role string) (string, time.Time, error) {
	return "token:" + userID + ":" + role, time.Now().Add(time.Hour), nil
}

func (fakeTokens) Parse(token string) (*secondary.TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != "token" {
		return nil, errs.Unauthenticated("invalid token")
	}
	return &secondary.TokenClaims{UserID: parts[1], Role: parts[2], ExpiresAt: time.Now().Add(time.Hour)}, nil
}

// Test sessions.
var (
	adminCtx     = ctxutil.WithSession(context.Background(), ctxutil.Session{UserID: "USR-ADMIN", Role: models.RoleAdmin})
	managerCtx   = ctxutil.WithSession(context.Background(), ctxutil.Session{UserID: "USR-MGR", Role: models.RoleManager})
	el1Ctx       = ctxutil.WithSession(context.Background(), ctxutil.Session{UserID: "USR-EL1", Role: models.RoleElectrician})
	el2Ctx       = ctxutil.WithSession(context.Background(), ctxutil.Session{UserID: "USR-EL2", Role: models.RoleElectrician})
	anonymousCtx = context.Background()
)

// fixedNow is the clock used by service tests: 2026-03-10 09:30 in Colombo.
var fixedNow = time.Date(2026, 3, 10, 4, 0, 0, 0, time.UTC)

func colombo() *time.Location {
	loc, err := time.LoadLocation("Asia/Colombo")
	if err != nil {
		return time.FixedZone("Asia/Colombo", 5*3600+1800)
	}
	return loc
}

// newStaff returns a user repository with one account per role and a second electrician.
func newStaff() *mockUserRepository {
	users := newMockUserRepository()
	users.put("USR-ADMIN", "Admin", "Active")
	users.put("USR-MGR", "Manager", "Active")
	users.put("USR-EL1", "Electrician", "Active")
	users.put("USR-EL2", "Electrician", "Active")
	return users
}

// taskFixture returns a task in the given status scheduled on date.
func taskFixture(id, status, assignee, date string) *secondary.TaskRecord {
	t := &secondary.TaskRecord{
		ID:                 id,
		Title:              "Task " + id,
		CustomerName:       "Kamal Silva",
		CustomerPhone:      "0812345678",
		CustomerAddress:    "12 Temple Road, Kandy",
		Priority:           "Medium",
		ScheduledDate:      date,
		ScheduledTimeStart: "09:00",
		ScheduledTimeEnd:   "11:00",
		EstimatedHours:     2,
		CreatedBy:          "USR-MGR",
	}
	t.Status = status
	t.AssignedElectricianID = assignee
	now := fixedNow
	if status == "In Progress" || status == "Completed" {
		t.StartedAt = &now
	}
	if status == "Completed" {
		t.CompletedAt = &now
		t.CompletionNotes = "done"
	}
	return t
}
