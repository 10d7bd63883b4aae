package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/example/kandy/internal/core/stats"
	"github.com/example/kandy/internal/ports/primary"
)

// Login exchanges credentials for a token. The client keeps using its own
// token; pass the result to WithToken on a new client.
func (c *Client) Login(ctx context.Context, email, password string) (*primary.LoginResponse, error) {
	var resp primary.LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/health", nil, nil)
}

func (c *Client) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.ScheduledDate != "" {
		query.Set("date", filters.ScheduledDate)
	}
	if filters.ElectricianID != "" {
		query.Set("electrician_id", filters.ElectricianID)
	}

	var resp struct {
		Tasks []*primary.Task `json:"tasks"`
	}
	if err := c.get(ctx, "/tasks", query, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*primary.Task, error) {
	var task primary.Task
	if err := c.get(ctx, "/tasks/"+url.PathEscape(taskID), nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	body := map[string]any{
		"title":                req.Title,
		"description":          req.Description,
		"customer_name":        req.CustomerName,
		"customer_phone":       req.CustomerPhone,
		"customer_address":     req.CustomerAddress,
		"priority":             req.Priority,
		"scheduled_date":       req.ScheduledDate,
		"scheduled_time_start": req.ScheduledTimeStart,
		"scheduled_time_end":   req.ScheduledTimeEnd,
	}
	if req.EstimatedHours > 0 {
		body["estimated_hours"] = req.EstimatedHours
	}
	return c.taskMutation(ctx, http.MethodPost, "/tasks", body)
}

func (c *Client) AssignTask(ctx context.Context, taskID, electricianID string) (*primary.Task, error) {
	return c.taskMutation(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID)+"/assign",
		map[string]string{"electrician_id": electricianID})
}

// SetTaskStatus sends PATCH /tasks/:id/status: "In Progress" starts the
// task, "Pending" resets it and "Cancelled" cancels it.
func (c *Client) SetTaskStatus(ctx context.Context, taskID, status string) (*primary.Task, error) {
	return c.taskMutation(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID)+"/status",
		map[string]string{"status": status})
}

func (c *Client) CompleteTask(ctx context.Context, taskID string, req primary.CompleteTaskRequest) (*primary.Task, error) {
	body := map[string]any{
		"completion_notes": req.CompletionNotes,
		"materials_used":   req.MaterialsUsed,
	}
	if req.AdditionalCharges != nil {
		body["additional_charges"] = *req.AdditionalCharges
	}
	return c.taskMutation(ctx, http.MethodPost, "/tasks/"+url.PathEscape(taskID)+"/complete", body)
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.send(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID), nil, nil)
}

func (c *Client) taskMutation(ctx context.Context, method, path string, body any) (*primary.Task, error) {
	var task primary.Task
	if err := c.send(ctx, method, path, body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) ReportIssue(ctx context.Context, req primary.ReportIssueRequest) (*primary.Issue, error) {
	body := map[string]string{
		"task_id":          req.TaskID,
		"issue_type":       req.IssueType,
		"description":      req.Description,
		"priority":         req.Priority,
		"requested_action": req.RequestedAction,
	}
	var issue primary.Issue
	if err := c.send(ctx, http.MethodPost, "/issues", body, &issue); err != nil {
		return nil, err
	}
	return &issue, nil
}

func (c *Client) ListIssues(ctx context.Context, filters primary.IssueFilters) ([]*primary.Issue, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"status":     filters.Status,
		"priority":   filters.Priority,
		"task_id":    filters.TaskID,
		"start_date": filters.StartDate,
		"end_date":   filters.EndDate,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}

	var resp struct {
		Issues []*primary.Issue `json:"issues"`
	}
	if err := c.get(ctx, "/issues", query, &resp); err != nil {
		return nil, err
	}
	return resp.Issues, nil
}

func (c *Client) IssueStats(ctx context.Context) (*stats.IssueCounts, error) {
	var counts stats.IssueCounts
	if err := c.get(ctx, "/issues/stats", nil, &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

func (c *Client) DashboardStats(ctx context.Context) (*primary.DashboardStats, error) {
	var s primary.DashboardStats
	if err := c.get(ctx, "/dashboard/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
