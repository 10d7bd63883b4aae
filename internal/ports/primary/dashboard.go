package primary

import (
	"context"
	"time"

	"github.com/example/kandy/internal/core/stats"
)

// DashboardService rolls up role-scoped counts for the caller.
type DashboardService interface {
	GetStats(ctx context.Context) (*DashboardStats, error)
	ListActivity(ctx context.Context, limit int) ([]*Activity, error)
}

// DashboardStats carries exactly one of the role blocks, matching Role.
type DashboardStats struct {
	Role        string                   `json:"role"`
	Date        string                   `json:"date"`
	Admin       *stats.AdminCounts       `json:"admin,omitempty"`
	Manager     *stats.ManagerCounts     `json:"manager,omitempty"`
	Electrician *stats.ElectricianCounts `json:"electrician,omitempty"`
}

// Activity is one entry of the activity log.
type Activity struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actor_id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Action     string    `json:"action"`
	FieldName  string    `json:"field_name,omitempty"`
	OldValue   string    `json:"old_value,omitempty"`
	NewValue   string    `json:"new_value,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
