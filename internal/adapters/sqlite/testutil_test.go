// Package sqlite_test contains integration tests for SQLite repositories.
//
// setupTestDB is the single point where the schema is loaded for tests. It goes
// through db.Open so tests run the same migrations and pragmas as production.
// Do not declare tables in test files; use the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	"github.com/example/kandy/internal/db"
)

// setupTestDB opens a private in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := db.Open(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedUser inserts an active user and returns its ID.
func seedUser(t *testing.T, database *sql.DB, id, email, role string) string {
	t.Helper()
	if email == "" {
		email = id + "@kandy.lk"
	}
	now := time.Now().UTC()
	_, err := database.Exec(
		`INSERT INTO users (id, full_name, email, role, status, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, 'Active', 'hash', ?, ?)`,
		id, "User "+id, email, role, now, now,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return id
}

// seedTask inserts a task in the given status. Assigned, In Progress and
// Completed tasks need an assignee; Completed tasks get notes and timestamps.
func seedTask(t *testing.T, database *sql.DB, id, status, assignee, day string) string {
	t.Helper()
	now := time.Now().UTC()

	var assigneeArg, startedAt, completedAt, notes any
	if assignee != "" {
		assigneeArg = assignee
	}
	if status == "In Progress" || status == "Completed" {
		startedAt = now
	}
	if status == "Completed" {
		completedAt = now
		notes = "done"
	}

	_, err := database.Exec(
		`INSERT INTO tasks (id, title, customer_name, customer_phone, customer_address, priority, status,
		 assigned_electrician_id, scheduled_date, scheduled_time_start, scheduled_time_end, estimated_hours,
		 started_at, completion_notes, completed_at, created_by, created_at, updated_at)
		 VALUES (?, ?, 'Kamal Silva', '0812345678', 'Kandy', 'Medium', ?, ?, ?, '09:00', '11:00', 2, ?, ?, ?, 'USR-MGR', ?, ?)`,
		id, "Task "+id, status, assigneeArg, day, startedAt, notes, completedAt, now, now,
	)
	if err != nil {
		t.Fatalf("failed to seed task: %v", err)
	}
	return id
}

// seedStaff inserts the manager and one electrician that most tests need.
func seedStaff(t *testing.T, database *sql.DB) {
	t.Helper()
	seedUser(t, database, "USR-MGR", "manager@kandy.lk", "Manager")
	seedUser(t, database, "USR-EL1", "ruwan@kandy.lk", "Electrician")
}
