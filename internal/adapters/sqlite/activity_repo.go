package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/kandy/internal/ports/secondary"
)

// ActivityRepository implements secondary.ActivityRepository with SQLite.
type ActivityRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewActivityRepository creates a new SQLite activity log repository.
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db, now: time.Now}
}

// Create appends an entry. A zero CreatedAt is stamped with the current time.
func (r *ActivityRepository) Create(ctx context.Context, entry *secondary.ActivityRecord) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, nullString(entry.ActorID), entry.EntityType, entry.EntityID, entry.Action,
		nullString(entry.FieldName), nullString(entry.OldValue), nullString(entry.NewValue), entry.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}

	return nil
}

func activityWhere(filters secondary.ActivityFilters) (string, []any) {
	where := " WHERE 1=1"
	args := []any{}

	if filters.Action != "" {
		where += " AND action = ?"
		args = append(args, filters.Action)
	}

	if !filters.Since.IsZero() {
		where += " AND created_at >= ?"
		args = append(args, filters.Since.UTC())
	}

	return where, args
}

// List retrieves entries matching the filters, newest first.
func (r *ActivityRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	where, args := activityWhere(filters)
	query := `SELECT id, actor_id, entity_type, entity_id, action, field_name, old_value, new_value, created_at
		FROM activity_log` + where + " ORDER BY created_at DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.ActivityRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			fieldName sql.NullString
			oldValue  sql.NullString
			newValue  sql.NullString
		)
		entry := &secondary.ActivityRecord{}
		if err := rows.Scan(&entry.ID, &actorID, &entry.EntityType, &entry.EntityID, &entry.Action,
			&fieldName, &oldValue, &newValue, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entry.ActorID = actorID.String
		entry.FieldName = fieldName.String
		entry.OldValue = oldValue.String
		entry.NewValue = newValue.String
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// Count counts entries matching the filters. Limit is ignored.
func (r *ActivityRepository) Count(ctx context.Context, filters secondary.ActivityFilters) (int, error) {
	where, args := activityWhere(filters)

	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity_log"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count activity: %w", err)
	}

	return count, nil
}

// Ensure ActivityRepository implements the interface
var _ secondary.ActivityRepository = (*ActivityRepository)(nil)
