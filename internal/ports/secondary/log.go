package secondary

import "context"

// Entity types recorded in the activity log.
const (
	EntityTask  = "task"
	EntityIssue = "issue"
	EntityUser  = "user"
)

// LogWriter appends to the activity log. The actor is the Session carried by
// ctx; a context without one records an empty actor.
type LogWriter interface {
	LogCreate(ctx context.Context, entityType, entityID string) error
	// LogUpdate records one changed field. Status changes use fieldName "status".
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error
	LogDelete(ctx context.Context, entityType, entityID string) error
	LogLogin(ctx context.Context, userID string) error
}
