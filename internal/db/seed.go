package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: one user per
// role plus a second electrician, all sharing passwordHash, and a day of tasks
// scheduled on day (YYYY-MM-DD) covering every status.
func SeedFixtures(database *sql.DB, passwordHash, day string) error {
	now := time.Now().UTC()

	users := []struct{ id, name, email, phone, role, skills, code string }{
		{"USR-ADMIN", "Ayesha Admin", "admin@kandy.lk", "0771000001", "Admin", "", "KE-001"},
		{"USR-MGR", "Malik Manager", "manager@kandy.lk", "0771000002", "Manager", "", "KE-002"},
		{"USR-EL1", "Ruwan Electrician", "ruwan@kandy.lk", "0771000003", "Electrician", "wiring,solar", "KE-101"},
		{"USR-EL2", "Sajith Electrician", "sajith@kandy.lk", "0771000004", "Electrician", "panels", "KE-102"},
	}
	for _, u := range users {
		if _, err := database.Exec(
			`INSERT INTO users (id, full_name, email, phone, role, status, skills, employee_code, password_hash, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, 'Active', ?, ?, ?, ?, ?)`,
			u.id, u.name, u.email, u.phone, u.role, u.skills, u.code, passwordHash, now, now,
		); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	tasks := []struct {
		id, title, status, assignee string
		completed                   bool
	}{
		{"TASK-001", "Install ceiling fans", "Pending", "", false},
		{"TASK-002", "Replace main breaker", "Assigned", "USR-EL1", false},
		{"TASK-003", "Rewire kitchen circuit", "In Progress", "USR-EL1", false},
		{"TASK-004", "Fit outdoor lighting", "Completed", "USR-EL2", true},
	}
	for _, t := range tasks {
		var assignee, notes any
		var startedAt, completedAt any
		if t.assignee != "" {
			assignee = t.assignee
		}
		if t.status == "In Progress" || t.completed {
			startedAt = now
		}
		if t.completed {
			completedAt = now
			notes = "Work finished and tested"
		}
		if _, err := database.Exec(
			`INSERT INTO tasks (id, title, customer_name, customer_phone, customer_address, priority, status,
			 assigned_electrician_id, scheduled_date, scheduled_time_start, scheduled_time_end, estimated_hours,
			 started_at, completion_notes, completed_at, created_by, created_at, updated_at)
			 VALUES (?, ?, 'Kamal Silva', '0812345678', '12 Temple Road, Kandy', 'Medium', ?, ?, ?, '09:00', '11:00', 2,
			 ?, ?, ?, 'USR-MGR', ?, ?)`,
			t.id, t.title, t.status, assignee, day, startedAt, notes, completedAt, now, now,
		); err != nil {
			return fmt.Errorf("seed tasks: %w", err)
		}
	}

	if _, err := database.Exec(
		`INSERT INTO issues (id, task_id, reported_by, issue_type, description, requested_action, priority, status, created_at, updated_at)
		 VALUES ('ISSUE-001', 'TASK-003', 'USR-EL1', 'materials', 'Need 20m of 2.5mm cable', 'materials', 'urgent', 'open', ?, ?)`,
		now, now,
	); err != nil {
		return fmt.Errorf("seed issues: %w", err)
	}

	return nil
}
