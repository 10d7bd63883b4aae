// Package stats computes role-scoped dashboard counts from snapshots of current data.
// Everything here is recomputed from a full snapshot on each call.
package stats

import (
	"strings"

	"github.com/example/kandy/internal/models"
)

// TaskSnapshot is the slice of a task the aggregations need.
type TaskSnapshot struct {
	Status        models.TaskStatus
	ScheduledDate string
	AssignedTo    string
	Rating        int
}

// IssueSnapshot is the slice of an issue the aggregations need.
type IssueSnapshot struct {
	Status   models.IssueStatus
	Priority models.IssuePriority
}

// UserSnapshot is the slice of a user the aggregations need.
type UserSnapshot struct {
	ID     string
	Role   models.Role
	Status models.UserStatus
}

// DayCounts summarises the tasks scheduled on one day.
type DayCounts struct {
	TodayTasks     int `json:"todayTasks"`
	CompletedToday int `json:"completedToday"`
	InProgress     int `json:"inProgress"`
	PendingToday   int `json:"pendingToday"`
}

// TaskCounts is a status breakdown of tasks.
type TaskCounts struct {
	TotalTasks int `json:"totalTasks"`
	Pending    int `json:"pending"`
	Assigned   int `json:"assigned"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// IssueCounts is a breakdown of issues. Urgent and Emergency only count unresolved issues.
type IssueCounts struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	Resolved   int `json:"resolved"`
	Unresolved int `json:"unresolved"`
	Urgent     int `json:"urgent"`
	Emergency  int `json:"emergency"`
}

// UserCounts is a breakdown of user accounts.
type UserCounts struct {
	TotalUsers    int                 `json:"totalUsers"`
	ActiveUsers   int                 `json:"activeUsers"`
	InactiveUsers int                 `json:"inactiveUsers"`
	UsersByRole   map[models.Role]int `json:"usersByRole"`
}

// ElectricianCounts is the electrician dashboard.
type ElectricianCounts struct {
	DayCounts
	TotalCompleted     int     `json:"totalCompleted"`
	ThisMonth          int     `json:"thisMonth"`
	CompletedThisMonth int     `json:"completedThisMonth"`
	AverageRating      float64 `json:"averageRating"`
}

// ManagerCounts is the manager dashboard.
type ManagerCounts struct {
	TaskCounts
	ActiveElectricians int       `json:"activeElectricians"`
	TotalElectricians  int       `json:"totalElectricians"`
	OpenIssues         int       `json:"openIssues"`
	UrgentIssues       int       `json:"urgentIssues"`
	EmergencyIssues    int       `json:"emergencyIssues"`
	Today              DayCounts `json:"today"`
}

// AdminCounts is the admin dashboard.
type AdminCounts struct {
	UserCounts
	LoginsToday     int `json:"loginsToday"`
	ActivitiesToday int `json:"activitiesToday"`
}

// Day counts the tasks scheduled on day (YYYY-MM-DD). Assigned tasks count as
// pending until work starts.
func Day(tasks []TaskSnapshot, day string) DayCounts {
	var c DayCounts
	for _, t := range tasks {
		if t.ScheduledDate != day {
			continue
		}
		c.TodayTasks++
		switch t.Status {
		case models.TaskStatusCompleted:
			c.CompletedToday++
		case models.TaskStatusInProgress:
			c.InProgress++
		case models.TaskStatusPending, models.TaskStatusAssigned:
			c.PendingToday++
		}
	}
	return c
}

// Tasks counts tasks by status.
func Tasks(tasks []TaskSnapshot) TaskCounts {
	c := TaskCounts{TotalTasks: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskStatusPending:
			c.Pending++
		case models.TaskStatusAssigned:
			c.Assigned++
		case models.TaskStatusInProgress:
			c.InProgress++
		case models.TaskStatusCompleted:
			c.Completed++
		case models.TaskStatusCancelled:
			c.Cancelled++
		}
	}
	return c
}

// Issues counts issues by status and unresolved priority.
func Issues(issues []IssueSnapshot) IssueCounts {
	c := IssueCounts{Total: len(issues)}
	for _, i := range issues {
		switch i.Status {
		case models.IssueStatusOpen:
			c.Open++
		case models.IssueStatusInProgress:
			c.InProgress++
		case models.IssueStatusResolved:
			c.Resolved++
			continue
		}
		c.Unresolved++
		switch i.Priority {
		case models.IssuePriorityUrgent:
			c.Urgent++
		case models.IssuePriorityEmergency:
			c.Emergency++
		}
	}
	return c
}

// CurrentTasks maps each electrician id to the number of Assigned or In Progress tasks they hold.
func CurrentTasks(tasks []TaskSnapshot) map[string]int {
	current := make(map[string]int)
	for _, t := range tasks {
		if t.Status == models.TaskStatusAssigned || t.Status == models.TaskStatusInProgress {
			current[t.AssignedTo]++
		}
	}
	return current
}

// Users counts user accounts by status and role.
func Users(users []UserSnapshot) UserCounts {
	c := UserCounts{TotalUsers: len(users), UsersByRole: make(map[models.Role]int, len(models.Roles))}
	for _, r := range models.Roles {
		c.UsersByRole[r] = 0
	}
	for _, u := range users {
		c.UsersByRole[u.Role]++
		if u.Status == models.UserStatusActive {
			c.ActiveUsers++
		} else {
			c.InactiveUsers++
		}
	}
	return c
}

// Electrician builds the dashboard for one electrician from the tasks assigned to them.
func Electrician(tasks []TaskSnapshot, day string) ElectricianCounts {
	c := ElectricianCounts{DayCounts: Day(tasks, day)}
	month := monthOf(day)

	var rated, ratingSum int
	for _, t := range tasks {
		inMonth := monthOf(t.ScheduledDate) == month
		if inMonth {
			c.ThisMonth++
		}
		if t.Status == models.TaskStatusCompleted {
			c.TotalCompleted++
			if inMonth {
				c.CompletedThisMonth++
			}
		}
		if t.Rating > 0 {
			rated++
			ratingSum += t.Rating
		}
	}
	if rated > 0 {
		c.AverageRating = float64(ratingSum) / float64(rated)
	}
	return c
}

// Manager builds the manager dashboard. An electrician is counted active when
// their account is Active and they hold no Assigned or In Progress task.
func Manager(tasks []TaskSnapshot, issues []IssueSnapshot, users []UserSnapshot, day string) ManagerCounts {
	ic := Issues(issues)
	c := ManagerCounts{
		TaskCounts:      Tasks(tasks),
		OpenIssues:      ic.Unresolved,
		UrgentIssues:    ic.Urgent,
		EmergencyIssues: ic.Emergency,
		Today:           Day(tasks, day),
	}

	current := CurrentTasks(tasks)
	for _, u := range users {
		if u.Role != models.RoleElectrician {
			continue
		}
		c.TotalElectricians++
		if u.Status == models.UserStatusActive && current[u.ID] == 0 {
			c.ActiveElectricians++
		}
	}
	return c
}

// Admin builds the admin dashboard from user accounts and activity counts.
func Admin(users []UserSnapshot, loginsToday, activitiesToday int) AdminCounts {
	return AdminCounts{
		UserCounts:      Users(users),
		LoginsToday:     loginsToday,
		ActivitiesToday: activitiesToday,
	}
}

func monthOf(date string) string {
	if i := strings.LastIndexByte(date, '-'); i > 0 {
		return date[:i]
	}
	return date
}
