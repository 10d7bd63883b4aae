package primary

import (
	"context"
	"time"

	"github.com/example/kandy/internal/core/stats"
)

// IssueService defines the issue reporting sub-flow.
type IssueService interface {
	ReportIssue(ctx context.Context, req ReportIssueRequest) (*Issue, error)
	GetIssue(ctx context.Context, issueID string) (*Issue, error)
	ListIssues(ctx context.Context, filters IssueFilters) ([]*Issue, error)
	UpdateIssueStatus(ctx context.Context, issueID string, req UpdateIssueStatusRequest) (*Issue, error)
	IssueStats(ctx context.Context) (*stats.IssueCounts, error)
}

// ReportIssueRequest contains parameters for reporting an issue.
type ReportIssueRequest struct {
	TaskID          string
	IssueType       string
	Description     string
	RequestedAction string
	Priority        string
}

// UpdateIssueStatusRequest moves an issue along open -> in_progress -> resolved.
type UpdateIssueStatusRequest struct {
	Status          string
	ResolutionNotes string
}

// IssueFilters contains filter options for listing issues. StartDate and
// EndDate (YYYY-MM-DD) bound created_at inclusively; all filters are ANDed.
type IssueFilters struct {
	Status    string
	Priority  string
	TaskID    string
	StartDate string
	EndDate   string
}

// Issue is the public representation of an issue.
type Issue struct {
	ID              string     `json:"id"`
	TaskID          string     `json:"task_id"`
	TaskTitle       string     `json:"task_title,omitempty"`
	ReportedBy      string     `json:"reported_by"`
	IssueType       string     `json:"issue_type"`
	Description     string     `json:"description"`
	RequestedAction string     `json:"requested_action,omitempty"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	ResolvedBy      string     `json:"resolved_by,omitempty"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
