package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/ports/secondary"
)

// IssueRepository implements secondary.IssueRepository with SQLite.
type IssueRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewIssueRepository creates a new SQLite issue repository.
func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db, now: time.Now}
}

const issueSelectCols = "i.id, i.task_id, COALESCE(t.title, ''), i.reported_by, i.issue_type, i.description, " +
	"i.requested_action, i.priority, i.status, i.resolution_notes, i.resolved_by, i.resolved_at, i.created_at, i.updated_at"

const issueFrom = " FROM issues i LEFT JOIN tasks t ON t.id = i.task_id"

func scanIssue(scanner interface {
	Scan(dest ...any) error
}) (*secondary.IssueRecord, error) {
	var (
		requestedAction sql.NullString
		resolutionNotes sql.NullString
		resolvedBy      sql.NullString
		resolvedAt      sql.NullTime
	)

	record := &secondary.IssueRecord{}
	err := scanner.Scan(
		&record.ID, &record.TaskID, &record.TaskTitle, &record.ReportedBy, &record.IssueType, &record.Description,
		&requestedAction, &record.Priority, &record.Status, &resolutionNotes, &resolvedBy, &resolvedAt,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.RequestedAction = requestedAction.String
	record.ResolutionNotes = resolutionNotes.String
	record.ResolvedBy = resolvedBy.String
	record.ResolvedAt = timePtr(resolvedAt)

	return record, nil
}

// Create persists a new issue.
func (r *IssueRepository) Create(ctx context.Context, issue *secondary.IssueRecord) error {
	now := r.now().UTC()
	issue.CreatedAt, issue.UpdatedAt = now, now
	if issue.Status == "" {
		issue.Status = "open"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO issues (id, task_id, reported_by, issue_type, description, requested_action, priority, status,
		 resolution_notes, resolved_by, resolved_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		issue.ID, issue.TaskID, issue.ReportedBy, issue.IssueType, issue.Description, nullString(issue.RequestedAction),
		issue.Priority, issue.Status, nullString(issue.ResolutionNotes), nullString(issue.ResolvedBy),
		nullTime(issue.ResolvedAt), now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}

	return nil
}

// GetByID retrieves an issue by its ID, including the parent task's title.
func (r *IssueRepository) GetByID(ctx context.Context, id string) (*secondary.IssueRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+issueSelectCols+issueFrom+" WHERE i.id = ?", id)

	record, err := scanIssue(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("issue", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}

	return record, nil
}

// List retrieves issues matching the given filters, newest first.
func (r *IssueRepository) List(ctx context.Context, filters secondary.IssueFilters) ([]*secondary.IssueRecord, error) {
	query := "SELECT " + issueSelectCols + issueFrom + " WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND i.status = ?"
		args = append(args, filters.Status)
	}

	if filters.Priority != "" {
		query += " AND i.priority = ?"
		args = append(args, filters.Priority)
	}

	if filters.TaskID != "" {
		query += " AND i.task_id = ?"
		args = append(args, filters.TaskID)
	}

	if filters.ReportedBy != "" {
		query += " AND i.reported_by = ?"
		args = append(args, filters.ReportedBy)
	}

	if !filters.CreatedFrom.IsZero() {
		query += " AND i.created_at >= ?"
		args = append(args, filters.CreatedFrom.UTC())
	}

	if !filters.CreatedBefore.IsZero() {
		query += " AND i.created_at < ?"
		args = append(args, filters.CreatedBefore.UTC())
	}

	query += " ORDER BY i.created_at DESC, i.id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []*secondary.IssueRecord
	for rows.Next() {
		record, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, record)
	}

	return issues, rows.Err()
}

// UpdateStatus applies a status change, provided the issue's status still
// equals expectedStatus.
func (r *IssueRepository) UpdateStatus(ctx context.Context, id, expectedStatus string, update *secondary.IssueStatusRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE issues SET status = ?, resolution_notes = ?, resolved_by = ?, resolved_at = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		update.Status, nullString(update.ResolutionNotes), nullString(update.ResolvedBy), nullTime(update.ResolvedAt),
		r.now().UTC(), id, expectedStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update issue status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	var status string
	err = r.db.QueryRowContext(ctx, "SELECT status FROM issues WHERE id = ?", id).Scan(&status)
	if err == sql.ErrNoRows {
		return errs.NotFound("issue", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read issue status: %w", err)
	}
	return errs.InvalidTransition("issue %s is %s, expected %s", id, status, expectedStatus)
}

// Ensure IssueRepository implements the interface
var _ secondary.IssueRepository = (*IssueRepository)(nil)
