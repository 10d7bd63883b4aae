// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// TaskRepository defines the secondary port for task persistence.
// Status-changing writes are conditional on the status the caller observed.
type TaskRepository interface {
	// Create persists a new task.
	Create(ctx context.Context, task *TaskRecord) error

	// GetByID retrieves a task by its ID.
	GetByID(ctx context.Context, id string) (*TaskRecord, error)

	// List retrieves tasks matching the given filters.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// UpdateDetails rewrites the editable fields and the lifecycle fields of a
	// task, provided its status and assignee still match expected.
	UpdateDetails(ctx context.Context, task *TaskRecord, expected TaskExpectation) error

	// UpdateLifecycle replaces the lifecycle fields of a task, provided its
	// status and assignee still match expected.
	UpdateLifecycle(ctx context.Context, id string, expected TaskExpectation, lifecycle *TaskLifecycleRecord) error

	// UpdateFeedback sets rating and feedback on a Completed task.
	UpdateFeedback(ctx context.Context, id string, rating int, feedback string) error

	// Delete removes a task unless it is Completed.
	Delete(ctx context.Context, id string) error
}

// TaskRecord represents a task as stored in persistence.
type TaskRecord struct {
	ID                 string
	Title              string
	Description        string
	CustomerName       string
	CustomerPhone      string
	CustomerAddress    string
	Priority           string
	ScheduledDate      string
	ScheduledTimeStart string
	ScheduledTimeEnd   string
	EstimatedHours     float64
	TaskLifecycleRecord
	Rating    int
	Feedback  string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskExpectation is the state a conditional task write was planned against.
// An empty AssignedTo means the task must be unassigned.
type TaskExpectation struct {
	Status     string
	AssignedTo string
}

// TaskLifecycleRecord holds the columns owned by status transitions.
type TaskLifecycleRecord struct {
	Status                string
	AssignedElectricianID string
	StartedAt             *time.Time
	CompletedAt           *time.Time
	CompletionNotes       string
	MaterialsUsed         string
	AdditionalCharges     *float64
}

// TaskFilters contains filter options for querying tasks.
type TaskFilters struct {
	Status                string
	ScheduledDate         string
	AssignedElectricianID string
}

// IssueRepository defines the secondary port for issue persistence.
type IssueRepository interface {
	// Create persists a new issue.
	Create(ctx context.Context, issue *IssueRecord) error

	// GetByID retrieves an issue by its ID.
	GetByID(ctx context.Context, id string) (*IssueRecord, error)

	// List retrieves issues matching the given filters, newest first.
	List(ctx context.Context, filters IssueFilters) ([]*IssueRecord, error)

	// UpdateStatus applies a status change, provided the issue's status still
	// equals expectedStatus.
	UpdateStatus(ctx context.Context, id, expectedStatus string, update *IssueStatusRecord) error
}

// IssueRecord represents an issue as stored in persistence.
type IssueRecord struct {
	ID              string
	TaskID          string
	TaskTitle       string // read-only, joined from tasks
	ReportedBy      string
	IssueType       string
	Description     string
	RequestedAction string
	Priority        string
	IssueStatusRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IssueStatusRecord holds the columns owned by issue status changes.
type IssueStatusRecord struct {
	Status          string
	ResolutionNotes string
	ResolvedBy      string
	ResolvedAt      *time.Time
}

// IssueFilters contains filter options for querying issues.
// CreatedFrom is inclusive and CreatedBefore exclusive; zero values are ignored.
type IssueFilters struct {
	Status        string
	Priority      string
	TaskID        string
	ReportedBy    string
	CreatedFrom   time.Time
	CreatedBefore time.Time
}

// UserRepository defines the secondary port for user persistence.
type UserRepository interface {
	// Create persists a new user. A duplicate email is a validation error.
	Create(ctx context.Context, user *UserRecord) error

	// GetByID retrieves a user by ID.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// GetByEmail retrieves a user by email, case-insensitively.
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)

	// List retrieves users matching the given filters.
	List(ctx context.Context, filters UserFilters) ([]*UserRecord, error)

	// UpdateStatus sets a user's account status.
	UpdateStatus(ctx context.Context, id, status string) error

	// RecordLogin stamps the user's last login time.
	RecordLogin(ctx context.Context, id string, at time.Time) error
}

// UserRecord represents a user as stored in persistence.
type UserRecord struct {
	ID             string
	FullName       string
	Email          string
	Phone          string
	Role           string
	Status         string
	Skills         string // comma-joined
	Certifications string // comma-joined
	EmployeeCode   string
	PasswordHash   string
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserFilters contains filter options for querying users.
type UserFilters struct {
	Role   string
	Status string
}

// ActivityRepository defines the secondary port for the activity log.
type ActivityRepository interface {
	// Create appends an entry.
	Create(ctx context.Context, entry *ActivityRecord) error

	// List retrieves entries matching the filters, newest first.
	List(ctx context.Context, filters ActivityFilters) ([]*ActivityRecord, error)

	// Count counts entries matching the filters.
	Count(ctx context.Context, filters ActivityFilters) (int, error)
}

// ActivityRecord represents one activity log entry.
type ActivityRecord struct {
	ID         string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string
	OldValue   string
	NewValue   string
	CreatedAt  time.Time
}

// ActivityFilters contains filter options for querying the activity log.
type ActivityFilters struct {
	Action string
	Since  time.Time
	Limit  int
}
