// Package primary defines the driving ports: the services adapters call into.
package primary

import (
	"context"
	"time"
)

// TaskService is the task lifecycle manager. It is the single authority for
// task status changes.
type TaskService interface {
	CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error)
	GetTask(ctx context.Context, taskID string) (*Task, error)
	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)
	AssignTask(ctx context.Context, taskID, electricianID string) (*Task, error)
	StartTask(ctx context.Context, taskID string) (*Task, error)
	CompleteTask(ctx context.Context, taskID string, req CompleteTaskRequest) (*Task, error)
	EditTask(ctx context.Context, taskID string, req EditTaskRequest) (*Task, error)
	CancelTask(ctx context.Context, taskID string) (*Task, error)
	RateTask(ctx context.Context, taskID string, req RateTaskRequest) (*Task, error)
	DeleteTask(ctx context.Context, taskID string) error
}

// CreateTaskRequest contains parameters for creating a task.
// EstimatedHours of zero derives the estimate from the scheduled window.
type CreateTaskRequest struct {
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
}

// EditTaskRequest is a partial update; nil fields are left unchanged.
// Status may only be set to "Pending" (or the current status).
type EditTaskRequest struct {
	Title              *string
	Description        *string
	CustomerName       *string
	CustomerPhone      *string
	CustomerAddress    *string
	Priority           *string
	ScheduledDate      *string
	ScheduledTimeStart *string
	ScheduledTimeEnd   *string
	EstimatedHours     *float64
	Status             *string
}

// CompleteTaskRequest is the electrician's completion report.
type CompleteTaskRequest struct {
	CompletionNotes   string
	MaterialsUsed     string
	AdditionalCharges *float64
}

// RateTaskRequest attaches customer feedback to a completed task.
type RateTaskRequest struct {
	Rating   int
	Feedback string
}

// TaskFilters contains filter options for listing tasks.
type TaskFilters struct {
	Status        string
	ScheduledDate string
	ElectricianID string
}

// Task is the public representation of a task.
type Task struct {
	ID                    string     `json:"id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	CustomerName          string     `json:"customer_name"`
	CustomerPhone         string     `json:"customer_phone"`
	CustomerAddress       string     `json:"customer_address"`
	Priority              string     `json:"priority"`
	Status                string     `json:"status"`
	AssignedElectricianID string     `json:"assigned_electrician,omitempty"`
	ScheduledDate         string     `json:"scheduled_date"`
	ScheduledTimeStart    string     `json:"scheduled_time_start"`
	ScheduledTimeEnd      string     `json:"scheduled_time_end"`
	EstimatedHours        float64    `json:"estimated_hours"`
	StartedAt             *time.Time `json:"started_at,omitempty"`
	CompletionNotes       string     `json:"completion_notes,omitempty"`
	MaterialsUsed         string     `json:"materials_used,omitempty"`
	AdditionalCharges     *float64   `json:"additional_charges,omitempty"`
	CompletedAt           *time.Time `json:"completed_at,omitempty"`
	Rating                int        `json:"rating,omitempty"`
	Feedback              string     `json:"feedback,omitempty"`
	CreatedBy             string     `json:"created_by"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}
