package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/ports/secondary"
)

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

const userSelectCols = "id, full_name, email, phone, role, status, skills, certifications, employee_code, " +
	"password_hash, last_login_at, created_at, updated_at"

func scanUser(scanner interface {
	Scan(dest ...any) error
}) (*secondary.UserRecord, error) {
	var (
		phone          sql.NullString
		skills         sql.NullString
		certifications sql.NullString
		employeeCode   sql.NullString
		lastLoginAt    sql.NullTime
	)

	record := &secondary.UserRecord{}
	err := scanner.Scan(
		&record.ID, &record.FullName, &record.Email, &phone, &record.Role, &record.Status, &skills, &certifications,
		&employeeCode, &record.PasswordHash, &lastLoginAt, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Phone = phone.String
	record.Skills = skills.String
	record.Certifications = certifications.String
	record.EmployeeCode = employeeCode.String
	record.LastLoginAt = timePtr(lastLoginAt)

	return record, nil
}

// Create persists a new user. A duplicate email is reported as a validation
// error on the email field.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	now := r.now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	if user.Status == "" {
		user.Status = "Active"
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, full_name, email, phone, role, status, skills, certifications, employee_code,
		 password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.FullName, user.Email, nullString(user.Phone), user.Role, user.Status, nullString(user.Skills),
		nullString(user.Certifications), nullString(user.EmployeeCode), user.PasswordHash, now, now,
	)
	if isUniqueViolation(err) {
		return errs.Field("email", "is already registered")
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userSelectCols+" FROM users WHERE id = ?", id)

	record, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return record, nil
}

// GetByEmail retrieves a user by email. The column collates NOCASE.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*secondary.UserRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userSelectCols+" FROM users WHERE email = ?", email)

	record, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, errs.NotFound("user", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return record, nil
}

// List retrieves users matching the given filters.
func (r *UserRepository) List(ctx context.Context, filters secondary.UserFilters) ([]*secondary.UserRecord, error) {
	query := "SELECT " + userSelectCols + " FROM users WHERE 1=1"
	args := []any{}

	if filters.Role != "" {
		query += " AND role = ?"
		args = append(args, filters.Role)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY full_name ASC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*secondary.UserRecord
	for rows.Next() {
		record, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, record)
	}

	return users, rows.Err()
}

// UpdateStatus sets a user's account status.
func (r *UserRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET status = ?, updated_at = ? WHERE id = ?",
		status, r.now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}

	return requireRow(result, "user", id)
}

// RecordLogin stamps the user's last login time.
func (r *UserRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE users SET last_login_at = ? WHERE id = ?",
		at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}

	return requireRow(result, "user", id)
}

func requireRow(result sql.Result, entity, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errs.NotFound(entity, id)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

// Ensure UserRepository implements the interface
var _ secondary.UserRepository = (*UserRepository)(nil)
