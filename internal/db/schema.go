package db

// SchemaSQL is the complete schema for fresh installs.
//
// This is the single source of truth for the database schema. Repository tests
// load it through GetSchemaSQL() (via Open) instead of declaring their own
// tables, so a column referenced by a repository but missing here fails fast.
//
// The CHECK constraints restate the lifecycle invariants so that no write path
// can persist a task or issue whose dependent fields disagree with its status.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE COLLATE NOCASE,
	phone TEXT,
	role TEXT NOT NULL CHECK(role IN ('Admin', 'Manager', 'Electrician')),
	status TEXT NOT NULL CHECK(status IN ('Active', 'Inactive')) DEFAULT 'Active',
	skills TEXT,
	certifications TEXT,
	employee_code TEXT,
	password_hash TEXT NOT NULL,
	last_login_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT,
	customer_name TEXT NOT NULL,
	customer_phone TEXT NOT NULL,
	customer_address TEXT NOT NULL,
	priority TEXT NOT NULL CHECK(priority IN ('Low', 'Medium', 'High', 'Urgent')),
	status TEXT NOT NULL CHECK(status IN ('Pending', 'Assigned', 'In Progress', 'Completed', 'Cancelled')) DEFAULT 'Pending',
	assigned_electrician_id TEXT REFERENCES users(id),
	scheduled_date TEXT NOT NULL,
	scheduled_time_start TEXT NOT NULL,
	scheduled_time_end TEXT NOT NULL,
	estimated_hours REAL NOT NULL CHECK(estimated_hours >= 0.5 AND estimated_hours <= 24),
	started_at DATETIME,
	completion_notes TEXT,
	materials_used TEXT,
	additional_charges REAL CHECK(additional_charges IS NULL OR additional_charges >= 0),
	completed_at DATETIME,
	rating INTEGER CHECK(rating IS NULL OR (rating BETWEEN 1 AND 5 AND status = 'Completed')),
	feedback TEXT,
	created_by TEXT NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	CHECK ((assigned_electrician_id IS NOT NULL) = (status IN ('Assigned', 'In Progress', 'Completed'))),
	CHECK ((completed_at IS NOT NULL) = (status = 'Completed')),
	CHECK ((completion_notes IS NOT NULL) = (status = 'Completed'))
);

CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_tasks_scheduled_date ON tasks(scheduled_date);
CREATE INDEX IF NOT EXISTS idx_tasks_assignee ON tasks(assigned_electrician_id);

CREATE TABLE IF NOT EXISTS issues (
	id TEXT PRIMARY KEY,
	task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	reported_by TEXT NOT NULL REFERENCES users(id),
	issue_type TEXT NOT NULL CHECK(issue_type IN ('access', 'materials', 'scope', 'safety', 'customer', 'equipment', 'other')),
	description TEXT NOT NULL,
	requested_action TEXT CHECK(requested_action IS NULL OR requested_action IN ('reschedule', 'assistance', 'manager', 'customer_contact', 'materials')),
	priority TEXT NOT NULL CHECK(priority IN ('normal', 'urgent', 'emergency')) DEFAULT 'normal',
	status TEXT NOT NULL CHECK(status IN ('open', 'in_progress', 'resolved')) DEFAULT 'open',
	resolution_notes TEXT,
	resolved_by TEXT REFERENCES users(id),
	resolved_at DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	CHECK ((resolved_at IS NOT NULL) = (status = 'resolved')),
	CHECK ((resolved_by IS NOT NULL) = (status = 'resolved')),
	CHECK ((resolution_notes IS NOT NULL) = (status = 'resolved'))
);

CREATE INDEX IF NOT EXISTS idx_issues_task ON issues(task_id);
CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);
CREATE INDEX IF NOT EXISTS idx_issues_created_at ON issues(created_at);

CREATE TABLE IF NOT EXISTS activity_log (
	id TEXT PRIMARY KEY,
	actor_id TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK(action IN ('create', 'update', 'delete', 'login')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity_log(created_at);
CREATE INDEX IF NOT EXISTS idx_activity_action ON activity_log(action);
`

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
