package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
)

// statusColor picks the terminal color for a task status.
func statusColor(status string) *color.Color {
	switch models.TaskStatus(status) {
	case models.TaskStatusPending:
		return color.New(color.FgYellow)
	case models.TaskStatusAssigned:
		return color.New(color.FgCyan)
	case models.TaskStatusInProgress:
		return color.New(color.FgBlue, color.Bold)
	case models.TaskStatusCompleted:
		return color.New(color.FgGreen)
	case models.TaskStatusCancelled:
		return color.New(color.FgHiBlack)
	default:
		return color.New(color.Reset)
	}
}

func priorityMarker(priority string) string {
	switch models.TaskPriority(priority) {
	case models.TaskPriorityUrgent:
		return color.New(color.FgRed, color.Bold).Sprint(" !!")
	case models.TaskPriorityHigh:
		return color.New(color.FgRed).Sprint(" !")
	default:
		return ""
	}
}

func printTask(w io.Writer, t *primary.Task) {
	status := statusColor(t.Status).Sprintf("[%s]", t.Status)
	fmt.Fprintf(w, "%s %s %s%s\n", t.ID, status, t.Title, priorityMarker(t.Priority))
	fmt.Fprintf(w, "   %s %s-%s  %s, %s\n",
		t.ScheduledDate, t.ScheduledTimeStart, t.ScheduledTimeEnd, t.CustomerName, t.CustomerAddress)
	if t.AssignedElectricianID != "" {
		fmt.Fprintf(w, "   electrician: %s\n", t.AssignedElectricianID)
	}
}

func printUser(w io.Writer, u *primary.User) {
	status := color.New(color.FgGreen).Sprint(u.Status)
	if u.Status != string(models.UserStatusActive) {
		status = color.New(color.FgHiBlack).Sprint(u.Status)
	}
	fmt.Fprintf(w, "%s  %-12s %-24s %s [%s]\n", u.ID, u.Role, u.Email, u.FullName, status)
}

func printStats(w io.Writer, s *primary.DashboardStats) {
	heading := color.New(color.FgHiMagenta, color.Bold)
	heading.Fprintf(w, "%s dashboard for %s\n\n", s.Role, s.Date)

	switch {
	case s.Electrician != nil:
		e := s.Electrician
		fmt.Fprintf(w, "Today:         %d task(s), %d completed, %d in progress, %d pending\n",
			e.TodayTasks, e.CompletedToday, e.InProgress, e.PendingToday)
		fmt.Fprintf(w, "This month:    %d task(s), %d completed\n", e.ThisMonth, e.CompletedThisMonth)
		fmt.Fprintf(w, "All time:      %d completed, average rating %.1f\n", e.TotalCompleted, e.AverageRating)
	case s.Manager != nil:
		m := s.Manager
		fmt.Fprintf(w, "Tasks:         %d total, %d pending, %d assigned, %d in progress, %d completed, %d cancelled\n",
			m.TotalTasks, m.Pending, m.Assigned, m.InProgress, m.Completed, m.Cancelled)
		fmt.Fprintf(w, "Today:         %d task(s), %d completed, %d in progress, %d pending\n",
			m.Today.TodayTasks, m.Today.CompletedToday, m.Today.InProgress, m.Today.PendingToday)
		fmt.Fprintf(w, "Electricians:  %d active of %d\n", m.ActiveElectricians, m.TotalElectricians)
		issues := fmt.Sprintf("%d open, %d urgent, %d emergency", m.OpenIssues, m.UrgentIssues, m.EmergencyIssues)
		if m.EmergencyIssues > 0 {
			issues = color.New(color.FgRed).Sprint(issues)
		}
		fmt.Fprintf(w, "Issues:        %s\n", issues)
	case s.Admin != nil:
		a := s.Admin
		fmt.Fprintf(w, "Users:         %d total, %d active, %d inactive\n", a.TotalUsers, a.ActiveUsers, a.InactiveUsers)
		for _, role := range models.Roles {
			fmt.Fprintf(w, "  %-12s %d\n", role, a.UsersByRole[role])
		}
		fmt.Fprintf(w, "Today:         %d login(s), %d activit(ies)\n", a.LoginsToday, a.ActivitiesToday)
	}
}
