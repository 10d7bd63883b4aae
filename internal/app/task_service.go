package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/kandy/internal/core/access"
	coretask "github.com/example/kandy/internal/core/task"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
	"github.com/example/kandy/internal/ports/secondary"
)

// TaskServiceImpl implements the TaskService interface. It is the only code
// path that changes a task's status.
type TaskServiceImpl struct {
	taskRepo  secondary.TaskRepository
	userRepo  secondary.UserRepository
	logWriter secondary.LogWriter
	loc       *time.Location
	now       func() time.Time
}

// NewTaskService creates a new TaskService with injected dependencies.
// loc is the business timezone used to decide what "today" is.
func NewTaskService(taskRepo secondary.TaskRepository, userRepo secondary.UserRepository, logWriter secondary.LogWriter, loc *time.Location) *TaskServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		userRepo:  userRepo,
		logWriter: logWriter,
		loc:       loc,
		now:       time.Now,
	}
}

func (s *TaskServiceImpl) today() string {
	return coretask.Today(s.now(), s.loc)
}

// CreateTask validates the input and stores a new Pending task.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, req primary.CreateTaskRequest) (*primary.Task, error) {
	session, err := access.Require(ctx, access.CreateTask)
	if err != nil {
		return nil, err
	}

	draft, err := coretask.ValidateDraft(coretask.Draft{
		Title:              req.Title,
		Description:        req.Description,
		CustomerName:       req.CustomerName,
		CustomerPhone:      req.CustomerPhone,
		CustomerAddress:    req.CustomerAddress,
		Priority:           models.TaskPriority(req.Priority),
		ScheduledDate:      req.ScheduledDate,
		ScheduledTimeStart: req.ScheduledTimeStart,
		ScheduledTimeEnd:   req.ScheduledTimeEnd,
		EstimatedHours:     req.EstimatedHours,
	}, s.today(), true)
	if err != nil {
		return nil, err
	}

	record := &secondary.TaskRecord{
		ID:                  uuid.NewString(),
		TaskLifecycleRecord: lifecycleToRecord(coretask.InitialLifecycle()),
		CreatedBy:           session.UserID,
	}
	applyDraft(record, draft)

	if err := s.taskRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	_ = s.logWriter.LogCreate(ctx, secondary.EntityTask, record.ID)

	return recordToTask(record), nil
}

// GetTask retrieves a task. Electricians only see tasks assigned to them; any
// other task is reported as not found.
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID string) (*primary.Task, error) {
	session, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if !access.Allows(session.Role, access.ViewAllTasks) && record.AssignedElectricianID != session.UserID {
		return nil, errs.NotFound("task", taskID)
	}

	return recordToTask(record), nil
}

// ListTasks lists tasks with optional filters, scoped to the caller.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	session, err := access.Authenticated(ctx)
	if err != nil {
		return nil, err
	}

	if filters.Status != "" && !models.TaskStatus(filters.Status).Valid() {
		return nil, errs.Field("status", "unknown task status "+strconv.Quote(filters.Status))
	}

	repoFilters := secondary.TaskFilters{
		Status:                filters.Status,
		ScheduledDate:         filters.ScheduledDate,
		AssignedElectricianID: filters.ElectricianID,
	}
	if !access.Allows(session.Role, access.ViewAllTasks) {
		repoFilters.AssignedElectricianID = session.UserID
	}

	records, err := s.taskRepo.List(ctx, repoFilters)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]*primary.Task, len(records))
	for i, r := range records {
		tasks[i] = recordToTask(r)
	}
	return tasks, nil
}

// AssignTask moves a Pending task to Assigned.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, taskID, electricianID string) (*primary.Task, error) {
	if _, err := access.Require(ctx, access.AssignTask); err != nil {
		return nil, err
	}

	electricianID = strings.TrimSpace(electricianID)
	if electricianID == "" {
		return nil, errs.Field("electrician_id", "electrician id is required")
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	guardCtx := coretask.AssignContext{
		TaskID:        taskID,
		Status:        models.TaskStatus(record.Status),
		ElectricianID: electricianID,
	}
	// Only look the electrician up when the status already allows assignment.
	if guardCtx.Status == models.TaskStatusPending {
		user, err := s.userRepo.GetByID(ctx, electricianID)
		switch {
		case errs.Is(err, errs.KindNotFound):
		case err != nil:
			return nil, err
		default:
			guardCtx.ElectricianFound = true
			guardCtx.ElectricianRole = models.Role(user.Role)
			guardCtx.ElectricianStatus = models.UserStatus(user.Status)
		}
	}

	if result := coretask.CanAssign(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	next := coretask.Assign(electricianID)
	if err := s.taskRepo.UpdateLifecycle(ctx, taskID, expectationOf(record), lifecycleRecordPtr(next)); err != nil {
		return nil, err
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "status", record.Status, string(next.Status))
	_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "assigned_electrician", "", electricianID)

	return s.reload(ctx, taskID)
}

// StartTask moves an Assigned task to In Progress. Starting a task that is
// already In Progress returns it unchanged.
func (s *TaskServiceImpl) StartTask(ctx context.Context, taskID string) (*primary.Task, error) {
	session, err := access.Require(ctx, access.StartTask)
	if err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	status := models.TaskStatus(record.Status)
	if result := coretask.CanStart(coretask.StartContext{
		TaskID:     taskID,
		Status:     status,
		AssignedTo: record.AssignedElectricianID,
		CallerID:   session.UserID,
	}); !result.Allowed {
		return nil, result.Error()
	}

	if status == models.TaskStatusInProgress {
		return recordToTask(record), nil
	}

	next := coretask.Start(recordToLifecycle(record), s.now().UTC())
	if err := s.taskRepo.UpdateLifecycle(ctx, taskID, expectationOf(record), lifecycleRecordPtr(next)); err != nil {
		return nil, err
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "status", record.Status, string(next.Status))

	return s.reload(ctx, taskID)
}

// CompleteTask moves an In Progress task to Completed with the electrician's report.
func (s *TaskServiceImpl) CompleteTask(ctx context.Context, taskID string, req primary.CompleteTaskRequest) (*primary.Task, error) {
	session, err := access.Require(ctx, access.CompleteTask)
	if err != nil {
		return nil, err
	}

	completion := coretask.Completion{
		Notes:             req.CompletionNotes,
		MaterialsUsed:     req.MaterialsUsed,
		AdditionalCharges: req.AdditionalCharges,
	}
	if err := coretask.ValidateCompletion(completion); err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if result := coretask.CanComplete(coretask.CompleteContext{
		TaskID:     taskID,
		Status:     models.TaskStatus(record.Status),
		AssignedTo: record.AssignedElectricianID,
		CallerID:   session.UserID,
	}); !result.Allowed {
		return nil, result.Error()
	}

	next := coretask.Complete(recordToLifecycle(record), completion, s.now().UTC())
	if err := s.taskRepo.UpdateLifecycle(ctx, taskID, expectationOf(record), lifecycleRecordPtr(next)); err != nil {
		return nil, err
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "status", record.Status, string(next.Status))

	return s.reload(ctx, taskID)
}

// EditTask applies a manager's partial update. Setting status to Pending on an
// Assigned or In Progress task resets it and clears the assignment.
func (s *TaskServiceImpl) EditTask(ctx context.Context, taskID string, req primary.EditTaskRequest) (*primary.Task, error) {
	if _, err := access.Require(ctx, access.EditTask); err != nil {
		return nil, err
	}

	var target models.TaskStatus
	if req.Status != nil {
		target = models.TaskStatus(strings.TrimSpace(*req.Status))
		if !target.Valid() {
			return nil, errs.Field("status", "unknown task status "+strconv.Quote(string(target)))
		}
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	current := models.TaskStatus(record.Status)
	if result := coretask.CanEdit(coretask.EditContext{
		TaskID:       taskID,
		Status:       current,
		TargetStatus: target,
	}); !result.Allowed {
		return nil, result.Error()
	}

	before := recordToDraft(record)
	draft := before
	patchDraft(&draft, req)

	// An unchanged date may lie in the past; only a new date is checked against today.
	draft, err = coretask.ValidateDraft(draft, s.today(), draft.ScheduledDate != before.ScheduledDate)
	if err != nil {
		return nil, err
	}

	updated := *record
	applyDraft(&updated, draft)
	reset := target == models.TaskStatusPending && current != models.TaskStatusPending
	if reset {
		updated.TaskLifecycleRecord = lifecycleToRecord(coretask.Reset())
	}

	if err := s.taskRepo.UpdateDetails(ctx, &updated, expectationOf(record)); err != nil {
		return nil, err
	}

	for _, c := range draftChanges(before, draft) {
		_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, c.field, c.from, c.to)
	}
	if reset {
		_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "status", record.Status, string(models.TaskStatusPending))
		_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "assigned_electrician", record.AssignedElectricianID, "")
	}

	return s.reload(ctx, taskID)
}

// CancelTask moves a task that is not yet finished to Cancelled.
func (s *TaskServiceImpl) CancelTask(ctx context.Context, taskID string) (*primary.Task, error) {
	if _, err := access.Require(ctx, access.CancelTask); err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if result := coretask.CanCancel(coretask.StatusContext{
		TaskID: taskID,
		Status: models.TaskStatus(record.Status),
	}); !result.Allowed {
		return nil, result.Error()
	}

	next := coretask.Cancel()
	if err := s.taskRepo.UpdateLifecycle(ctx, taskID, expectationOf(record), lifecycleRecordPtr(next)); err != nil {
		return nil, err
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "status", record.Status, string(next.Status))

	return s.reload(ctx, taskID)
}

// RateTask attaches customer feedback to a Completed task.
func (s *TaskServiceImpl) RateTask(ctx context.Context, taskID string, req primary.RateTaskRequest) (*primary.Task, error) {
	if _, err := access.Require(ctx, access.RateTask); err != nil {
		return nil, err
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if result := coretask.CanRate(coretask.RateContext{
		TaskID: taskID,
		Status: models.TaskStatus(record.Status),
		Rating: req.Rating,
	}); !result.Allowed {
		return nil, result.Error()
	}

	feedback := strings.TrimSpace(req.Feedback)
	if err := s.taskRepo.UpdateFeedback(ctx, taskID, req.Rating, feedback); err != nil {
		return nil, err
	}

	_ = s.logWriter.LogUpdate(ctx, secondary.EntityTask, taskID, "rating", ratingString(record.Rating), strconv.Itoa(req.Rating))

	return s.reload(ctx, taskID)
}

// DeleteTask removes a task that has not been Completed.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID string) error {
	if _, err := access.Require(ctx, access.DeleteTask); err != nil {
		return err
	}

	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	if result := coretask.CanDelete(coretask.StatusContext{
		TaskID: taskID,
		Status: models.TaskStatus(record.Status),
	}); !result.Allowed {
		return result.Error()
	}

	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		return err
	}

	_ = s.logWriter.LogDelete(ctx, secondary.EntityTask, taskID)

	return nil
}

func (s *TaskServiceImpl) reload(ctx context.Context, taskID string) (*primary.Task, error) {
	record, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload task: %w", err)
	}
	return recordToTask(record), nil
}

// Helper functions

// expectationOf pins a conditional write to the status and assignee that were read.
func expectationOf(r *secondary.TaskRecord) secondary.TaskExpectation {
	return secondary.TaskExpectation{Status: r.Status, AssignedTo: r.AssignedElectricianID}
}

func recordToLifecycle(r *secondary.TaskRecord) coretask.Lifecycle {
	return coretask.Lifecycle{
		Status:            models.TaskStatus(r.Status),
		AssignedTo:        r.AssignedElectricianID,
		StartedAt:         r.StartedAt,
		CompletedAt:       r.CompletedAt,
		CompletionNotes:   r.CompletionNotes,
		MaterialsUsed:     r.MaterialsUsed,
		AdditionalCharges: r.AdditionalCharges,
	}
}

func lifecycleToRecord(l coretask.Lifecycle) secondary.TaskLifecycleRecord {
	return secondary.TaskLifecycleRecord{
		Status:                string(l.Status),
		AssignedElectricianID: l.AssignedTo,
		StartedAt:             l.StartedAt,
		CompletedAt:           l.CompletedAt,
		CompletionNotes:       l.CompletionNotes,
		MaterialsUsed:         l.MaterialsUsed,
		AdditionalCharges:     l.AdditionalCharges,
	}
}

func lifecycleRecordPtr(l coretask.Lifecycle) *secondary.TaskLifecycleRecord {
	r := lifecycleToRecord(l)
	return &r
}

func recordToDraft(r *secondary.TaskRecord) coretask.Draft {
	return coretask.Draft{
		Title:              r.Title,
		Description:        r.Description,
		CustomerName:       r.CustomerName,
		CustomerPhone:      r.CustomerPhone,
		CustomerAddress:    r.CustomerAddress,
		Priority:           models.TaskPriority(r.Priority),
		ScheduledDate:      r.ScheduledDate,
		ScheduledTimeStart: r.ScheduledTimeStart,
		ScheduledTimeEnd:   r.ScheduledTimeEnd,
		EstimatedHours:     r.EstimatedHours,
	}
}

func applyDraft(r *secondary.TaskRecord, d coretask.Draft) {
	r.Title = d.Title
	r.Description = d.Description
	r.CustomerName = d.CustomerName
	r.CustomerPhone = d.CustomerPhone
	r.CustomerAddress = d.CustomerAddress
	r.Priority = string(d.Priority)
	r.ScheduledDate = d.ScheduledDate
	r.ScheduledTimeStart = d.ScheduledTimeStart
	r.ScheduledTimeEnd = d.ScheduledTimeEnd
	r.EstimatedHours = d.EstimatedHours
}

// patchDraft overlays the non-nil fields of req. A new time window without an
// explicit estimate re-derives the estimate from the window.
func patchDraft(d *coretask.Draft, req primary.EditTaskRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.Title, req.Title)
	set(&d.Description, req.Description)
	set(&d.CustomerName, req.CustomerName)
	set(&d.CustomerPhone, req.CustomerPhone)
	set(&d.CustomerAddress, req.CustomerAddress)
	set(&d.ScheduledDate, req.ScheduledDate)
	set(&d.ScheduledTimeStart, req.ScheduledTimeStart)
	set(&d.ScheduledTimeEnd, req.ScheduledTimeEnd)
	if req.Priority != nil {
		d.Priority = models.TaskPriority(*req.Priority)
	}

	switch {
	case req.EstimatedHours != nil:
		d.EstimatedHours = *req.EstimatedHours
	case req.ScheduledTimeStart != nil || req.ScheduledTimeEnd != nil:
		d.EstimatedHours = 0
	}
}

type fieldChange struct {
	field, from, to string
}

func draftChanges(before, after coretask.Draft) []fieldChange {
	var changes []fieldChange
	add := func(field, from, to string) {
		if from != to {
			changes = append(changes, fieldChange{field, from, to})
		}
	}
	add("title", before.Title, after.Title)
	add("description", before.Description, after.Description)
	add("customer_name", before.CustomerName, after.CustomerName)
	add("customer_phone", before.CustomerPhone, after.CustomerPhone)
	add("customer_address", before.CustomerAddress, after.CustomerAddress)
	add("priority", string(before.Priority), string(after.Priority))
	add("scheduled_date", before.ScheduledDate, after.ScheduledDate)
	add("scheduled_time_start", before.ScheduledTimeStart, after.ScheduledTimeStart)
	add("scheduled_time_end", before.ScheduledTimeEnd, after.ScheduledTimeEnd)
	add("estimated_hours",
		strconv.FormatFloat(before.EstimatedHours, 'f', -1, 64),
		strconv.FormatFloat(after.EstimatedHours, 'f', -1, 64))
	return changes
}

func ratingString(r int) string {
	if r == 0 {
		return ""
	}
	return strconv.Itoa(r)
}

func recordToTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:                    r.ID,
		Title:                 r.Title,
		Description:           r.Description,
		CustomerName:          r.CustomerName,
		CustomerPhone:         r.CustomerPhone,
		CustomerAddress:       r.CustomerAddress,
		Priority:              r.Priority,
		Status:                r.Status,
		AssignedElectricianID: r.AssignedElectricianID,
		ScheduledDate:         r.ScheduledDate,
		ScheduledTimeStart:    r.ScheduledTimeStart,
		ScheduledTimeEnd:      r.ScheduledTimeEnd,
		EstimatedHours:        r.EstimatedHours,
		StartedAt:             r.StartedAt,
		CompletionNotes:       r.CompletionNotes,
		MaterialsUsed:         r.MaterialsUsed,
		AdditionalCharges:     r.AdditionalCharges,
		CompletedAt:           r.CompletedAt,
		Rating:                r.Rating,
		Feedback:              r.Feedback,
		CreatedBy:             r.CreatedBy,
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

// Ensure TaskServiceImpl implements the interface
var _ primary.TaskService = (*TaskServiceImpl)(nil)
