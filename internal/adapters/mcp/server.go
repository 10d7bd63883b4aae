// Package mcp exposes the electrician workflow as MCP tools over stdio. Every
// tool call runs as the session the server was started with.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/version"
)

// Services are the primary ports the tools call into.
type Services struct {
	Tasks     primary.TaskService
	Issues    primary.IssueService
	Dashboard primary.DashboardService
}

// NewServer creates a new MCP server acting as session.
func NewServer(svc Services, session ctxutil.Session) *server.MCPServer {
	s := server.NewMCPServer("Kandy", version.String())
	as := func(ctx context.Context) context.Context {
		return ctxutil.WithSession(ctx, session)
	}

	s.AddTool(mcp.NewTool("list_my_tasks",
		mcp.WithDescription("List the tasks visible to you. Electricians see only tasks assigned to them."),
		mcp.WithString("status", mcp.Description("Filter by status (Pending, Assigned, In Progress, Completed, Cancelled)")),
		mcp.WithString("date", mcp.Description("Filter by scheduled date (YYYY-MM-DD)")),
	), listTasksHandler(svc.Tasks, as))

	s.AddTool(mcp.NewTool("get_task",
		mcp.WithDescription("Get a single task by id."),
		mcp.WithString("task_id", mcp.Description("Task id"), mcp.Required()),
	), getTaskHandler(svc.Tasks, as))

	s.AddTool(mcp.NewTool("start_task",
		mcp.WithDescription("Start work on an Assigned task. The task moves to In Progress."),
		mcp.WithString("task_id", mcp.Description("Task id"), mcp.Required()),
	), startTaskHandler(svc.Tasks, as))

	s.AddTool(mcp.NewTool("complete_task",
		mcp.WithDescription("Complete an In Progress task with a completion report."),
		mcp.WithString("task_id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithString("completion_notes", mcp.Description("What was done"), mcp.Required()),
		mcp.WithString("materials_used", mcp.Description("Materials used on the job")),
		mcp.WithNumber("additional_charges", mcp.Description("Additional charges in LKR")),
	), completeTaskHandler(svc.Tasks, as))

	s.AddTool(mcp.NewTool("report_issue",
		mcp.WithDescription("Report a problem on one of your Assigned or In Progress tasks."),
		mcp.WithString("task_id", mcp.Description("Task id"), mcp.Required()),
		mcp.WithString("issue_type", mcp.Description("access|materials|scope|safety|customer|equipment|other"), mcp.Required()),
		mcp.WithString("description", mcp.Description("What is wrong"), mcp.Required()),
		mcp.WithString("priority", mcp.Description("normal|urgent|emergency (defaults to normal)")),
		mcp.WithString("requested_action", mcp.Description("reschedule|assistance|manager|customer_contact|materials")),
	), reportIssueHandler(svc.Issues, as))

	s.AddTool(mcp.NewTool("dashboard_stats",
		mcp.WithDescription("Get your role's dashboard counts for today."),
	), dashboardStatsHandler(svc.Dashboard, as))

	return s
}

// Serve starts the MCP server on stdio.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

type withSession func(context.Context) context.Context

func listTasksHandler(tasks primary.TaskService, as withSession) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		list, err := tasks.ListTasks(as(ctx), primary.TaskFilters{
			Status:        mcp.ParseString(request, "status", ""),
			ScheduledDate: mcp.ParseString(request, "date", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"tasks": list, "count": len(list)})
	}
}

func getTaskHandler(tasks primary.TaskService, as withSession) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		task, err := tasks.GetTask(as(ctx), mcp.ParseString(request, "task_id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(task)
	}
}

func startTaskHandler(tasks primary.TaskService, as withSession) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		task, err := tasks.StartTask(as(ctx), mcp.ParseString(request, "task_id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(task)
	}
}

func completeTaskHandler(tasks primary.TaskService, as withSession) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := primary.CompleteTaskRequest{
			CompletionNotes: mcp.ParseString(request, "completion_notes", ""),
			MaterialsUsed:   mcp.ParseString(request, "materials_used", ""),
		}
		args, _ := request.Params.Arguments.(map[string]any)
		if charges, ok := args["additional_charges"].(float64); ok {
			req.AdditionalCharges = &charges
		}

		task, err := tasks.CompleteTask(as(ctx), mcp.ParseString(request, "task_id", ""), req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(task)
	}
}

func reportIssueHandler(issues primary.IssueService, as withSession) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		issue, err := issues.ReportIssue(as(ctx), primary.ReportIssueRequest{
			TaskID:          mcp.ParseString(request, "task_id", ""),
			IssueType:       mcp.ParseString(request, "issue_type", ""),
			Description:     mcp.ParseString(request, "description", ""),
			Priority:        mcp.ParseString(request, "priority", ""),
			RequestedAction: mcp.ParseString(request, "requested_action", ""),
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(issue)
	}
}

func dashboardStatsHandler(dashboard primary.DashboardService, as withSession) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		stats, err := dashboard.GetStats(as(ctx))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(stats)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
