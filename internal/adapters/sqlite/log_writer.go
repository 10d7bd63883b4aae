package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/kandy/internal/ctxutil"
	"github.com/example/kandy/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using ActivityRepository.
type LogWriterAdapter struct {
	logRepo secondary.ActivityRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.ActivityRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, ctxutil.ActorFromContext(ctx), entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, ctxutil.ActorFromContext(ctx), entityType, entityID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, ctxutil.ActorFromContext(ctx), entityType, entityID, "delete", "", "", "")
}

// LogLogin logs a successful sign-in. The session is not yet in the context,
// so the user is both actor and entity.
func (w *LogWriterAdapter) LogLogin(ctx context.Context, userID string) error {
	return w.writeLog(ctx, userID, "user", userID, "login", "", "", "")
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, actorID, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	record := &secondary.ActivityRecord{
		ID:         uuid.NewString(),
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	}

	return w.logRepo.Create(ctx, record)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
