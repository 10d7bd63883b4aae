package primary

import (
	"context"
	"time"

	"github.com/example/kandy/internal/ctxutil"
)

// UserService manages accounts.
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	GetUser(ctx context.Context, userID string) (*User, error)
	GetProfile(ctx context.Context) (*User, error)
	ListUsers(ctx context.Context, filters UserFilters) ([]*User, error)
	ListElectricians(ctx context.Context) ([]*Electrician, error)
	SetUserStatus(ctx context.Context, userID, status string) (*User, error)

	// BootstrapAdmin creates the first Admin account. It needs no session and
	// fails with InvalidState once any account exists.
	BootstrapAdmin(ctx context.Context, req CreateUserRequest) (*User, error)
}

// AuthService exchanges credentials for bearer tokens and tokens for sessions.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Authenticate(ctx context.Context, token string) (ctxutil.Session, error)

	// SessionFor and IssueToken skip the password check. They back local
	// operator tooling (CLI, MCP) that already holds the database.
	SessionFor(ctx context.Context, email string) (ctxutil.Session, error)
	IssueToken(ctx context.Context, email string) (*LoginResponse, error)
}

// CreateUserRequest contains parameters for creating an account.
type CreateUserRequest struct {
	FullName       string
	Email          string
	Phone          string
	Role           string
	Password       string
	Skills         []string
	Certifications []string
	EmployeeCode   string
}

// UserFilters contains filter options for listing users.
type UserFilters struct {
	Role   string
	Status string
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse carries an issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      *User     `json:"user"`
}

// User is the public representation of an account. It never carries the password hash.
type User struct {
	ID             string     `json:"id"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	Skills         []string   `json:"skills"`
	Certifications []string   `json:"certifications"`
	EmployeeCode   string     `json:"employee_code,omitempty"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Electrician is a user with their current workload.
type Electrician struct {
	User
	CurrentTasks int  `json:"current_tasks"`
	Available    bool `json:"available"`
}
