// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository with SQLite.
type TaskRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTaskRepository creates a new SQLite task repository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db, now: time.Now}
}

// scanTask scans a task row into a TaskRecord.
func scanTask(scanner interface {
	Scan(dest ...any) error
}) (*secondary.TaskRecord, error) {
	var (
		desc              sql.NullString
		assignee          sql.NullString
		startedAt         sql.NullTime
		completionNotes   sql.NullString
		materialsUsed     sql.NullString
		additionalCharges sql.NullFloat64
		completedAt       sql.NullTime
		rating            sql.NullInt64
		feedback          sql.NullString
	)

	record := &secondary.TaskRecord{}
	err := scanner.Scan(
		&record.ID, &record.Title, &desc, &record.CustomerName, &record.CustomerPhone, &record.CustomerAddress,
		&record.Priority, &record.Status, &assignee, &record.ScheduledDate, &record.ScheduledTimeStart,
		&record.ScheduledTimeEnd, &record.EstimatedHours, &startedAt, &completionNotes, &materialsUsed,
		&additionalCharges, &completedAt, &rating, &feedback, &record.CreatedBy, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.AssignedElectricianID = assignee.String
	record.StartedAt = timePtr(startedAt)
	record.CompletionNotes = completionNotes.String
	record.MaterialsUsed = materialsUsed.String
	if additionalCharges.Valid {
		v := additionalCharges.Float64
		record.AdditionalCharges = &v
	}
	record.CompletedAt = timePtr(completedAt)
	record.Rating = int(rating.Int64)
	record.Feedback = feedback.String

	return record, nil
}

const taskSelectCols = "id, title, description, customer_name, customer_phone, customer_address, priority, status, " +
	"assigned_electrician_id, scheduled_date, scheduled_time_start, scheduled_time_end, estimated_hours, started_at, " +
	"completion_notes, materials_used, additional_charges, completed_at, rating, feedback, created_by, created_at, updated_at"

// lifecycleArgs returns the lifecycle column values in the order of lifecycleSet.
func lifecycleArgs(l *secondary.TaskLifecycleRecord) []any {
	var charges sql.NullFloat64
	if l.AdditionalCharges != nil {
		charges = sql.NullFloat64{Float64: *l.AdditionalCharges, Valid: true}
	}
	return []any{
		l.Status, nullString(l.AssignedElectricianID), nullTime(l.StartedAt), nullTime(l.CompletedAt),
		nullString(l.CompletionNotes), nullString(l.MaterialsUsed), charges,
	}
}

const lifecycleSet = "status = ?, assigned_electrician_id = ?, started_at = ?, completed_at = ?, " +
	"completion_notes = ?, materials_used = ?, additional_charges = ?"

// Create persists a new task.
func (r *TaskRepository) Create(ctx context.Context, task *secondary.TaskRecord) error {
	now := r.now().UTC()
	task.CreatedAt, task.UpdatedAt = now, now

	args := []any{
		task.ID, task.Title, nullString(task.Description), task.CustomerName, task.CustomerPhone, task.CustomerAddress,
		task.Priority, task.ScheduledDate, task.ScheduledTimeStart, task.ScheduledTimeEnd, task.EstimatedHours,
		task.CreatedBy, now, now,
	}
	args = append(args, lifecycleArgs(&task.TaskLifecycleRecord)...)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, title, description, customer_name, customer_phone, customer_address, priority,
		 scheduled_date, scheduled_time_start, scheduled_time_end, estimated_hours, created_by, created_at, updated_at,
		 status, assigned_electrician_id, started_at, completed_at, completion_notes, materials_used, additional_charges)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	return nil
}

// GetByID retrieves a task by its ID.
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*secondary.TaskRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+taskSelectCols+" FROM tasks WHERE id = ?", id)

	record, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("task", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return record, nil
}

// List retrieves tasks matching the given filters.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := "SELECT " + taskSelectCols + " FROM tasks WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	if filters.ScheduledDate != "" {
		query += " AND scheduled_date = ?"
		args = append(args, filters.ScheduledDate)
	}

	if filters.AssignedElectricianID != "" {
		query += " AND assigned_electrician_id = ?"
		args = append(args, filters.AssignedElectricianID)
	}

	query += " ORDER BY scheduled_date ASC, scheduled_time_start ASC, created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*secondary.TaskRecord
	for rows.Next() {
		record, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, record)
	}

	return tasks, rows.Err()
}

// UpdateDetails rewrites the editable and lifecycle columns of a task whose
// status and assignee still match expected.
func (r *TaskRepository) UpdateDetails(ctx context.Context, task *secondary.TaskRecord, expected secondary.TaskExpectation) error {
	args := []any{
		task.Title, nullString(task.Description), task.CustomerName, task.CustomerPhone, task.CustomerAddress,
		task.Priority, task.ScheduledDate, task.ScheduledTimeStart, task.ScheduledTimeEnd, task.EstimatedHours,
	}
	args = append(args, lifecycleArgs(&task.TaskLifecycleRecord)...)
	args = append(args, r.now().UTC(), task.ID, expected.Status, nullString(expected.AssignedTo))

	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, description = ?, customer_name = ?, customer_phone = ?, customer_address = ?,
		 priority = ?, scheduled_date = ?, scheduled_time_start = ?, scheduled_time_end = ?, estimated_hours = ?, `+
			lifecycleSet+`, updated_at = ? WHERE `+expectedWhere,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return r.checkConditional(ctx, result, task.ID, expected)
}

// UpdateLifecycle replaces the lifecycle columns of a task whose status and
// assignee still match expected. The status and every dependent column change
// in one statement, so a concurrent caller that observed the same row loses,
// including one that saw the same status with a different assignee.
func (r *TaskRepository) UpdateLifecycle(ctx context.Context, id string, expected secondary.TaskExpectation, lifecycle *secondary.TaskLifecycleRecord) error {
	args := lifecycleArgs(lifecycle)
	args = append(args, r.now().UTC(), id, expected.Status, nullString(expected.AssignedTo))

	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET "+lifecycleSet+", updated_at = ? WHERE "+expectedWhere,
		args...,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	return r.checkConditional(ctx, result, id, expected)
}

// UpdateFeedback sets rating and feedback on a Completed task.
func (r *TaskRepository) UpdateFeedback(ctx context.Context, id string, rating int, feedback string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE tasks SET rating = ?, feedback = ?, updated_at = ? WHERE id = ? AND status = 'Completed'",
		rating, nullString(feedback), r.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to rate task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	status, err := r.currentStatus(ctx, id)
	if err != nil {
		return err
	}
	return errs.InvalidState("task %s is %s; only Completed tasks can be rated", id, status)
}

// Delete removes a task unless it is Completed.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ? AND status != 'Completed'", id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	if _, err := r.currentStatus(ctx, id); err != nil {
		return err
	}
	return errs.InvalidState("task %s is Completed and cannot be deleted", id)
}

// checkConditional turns a zero-row conditional update into NotFound or
// InvalidTransition depending on whether the row still exists.
// expectedWhere matches a task row against a TaskExpectation. IS compares a
// NULL assignee with NULL.
const expectedWhere = "id = ? AND status = ? AND assigned_electrician_id IS ?"

func (r *TaskRepository) checkConditional(ctx context.Context, result sql.Result, id string, expected secondary.TaskExpectation) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var status string
	var assignee sql.NullString
	err = r.db.QueryRowContext(ctx, "SELECT status, assigned_electrician_id FROM tasks WHERE id = ?", id).Scan(&status, &assignee)
	if err == sql.ErrNoRows {
		return errs.NotFound("task", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read task status: %w", err)
	}
	if status != expected.Status {
		return errs.InvalidTransition("task %s is %s, expected %s", id, status, expected.Status)
	}
	return errs.InvalidTransition("task %s was reassigned; reload and retry", id)
}

func (r *TaskRepository) currentStatus(ctx context.Context, id string) (string, error) {
	var status string
	err := r.db.QueryRowContext(ctx, "SELECT status FROM tasks WHERE id = ?", id).Scan(&status)
	if err == sql.ErrNoRows {
		return "", errs.NotFound("task", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read task status: %w", err)
	}
	return status, nil
}

// Ensure TaskRepository implements the interface
var _ secondary.TaskRepository = (*TaskRepository)(nil)
