// Package handlers holds the HTTP handlers, one type per resource.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/adapters/rest/forms"
	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
	"github.com/example/kandy/internal/ports/primary"
)

type Task struct {
	log   *logrus.Logger
	tasks primary.TaskService
}

func NewTaskHandler(tasks primary.TaskService, log *logrus.Logger) *Task {
	return &Task{
		log:   log,
		tasks: tasks,
	}
}

func (h *Task) EnrichRoutes(router gin.IRouter) {
	taskRoutes := router.Group("/tasks")
	taskRoutes.POST("", h.createTaskAction)
	taskRoutes.GET("", h.listTasksAction)
	taskRoutes.GET("/:taskID", h.getTaskAction)
	taskRoutes.PUT("/:taskID", h.editTaskAction)
	taskRoutes.DELETE("/:taskID", h.deleteTaskAction)
	taskRoutes.PATCH("/:taskID/assign", h.assignTaskAction)
	taskRoutes.PATCH("/:taskID/status", h.changeTaskStatusAction)
	taskRoutes.POST("/:taskID/complete", h.completeTaskAction)
	taskRoutes.POST("/:taskID/rating", h.rateTaskAction)
}

func (h *Task) createTaskAction(c *gin.Context) {
	const op = "handlers.Task.createTaskAction"
	log := h.log.WithField("operation", op)

	form := forms.NewCreateTaskForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}
	log.WithFields(form.ConvertToMap()).Debug("create task")

	task, err := h.tasks.CreateTask(c.Request.Context(), form.CreateTaskRequest)
	if err != nil {
		fail(log, c, err, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, task)
}

func (h *Task) listTasksAction(c *gin.Context) {
	const op = "handlers.Task.listTasksAction"
	log := h.log.WithField("operation", op)

	tasks, err := h.tasks.ListTasks(c.Request.Context(), primary.TaskFilters{
		Status:        c.Query("status"),
		ScheduledDate: c.Query("date"),
		ElectricianID: c.Query("electrician_id"),
	})
	if err != nil {
		fail(log, c, err, "failed to list tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

func (h *Task) getTaskAction(c *gin.Context) {
	const op = "handlers.Task.getTaskAction"
	log := h.log.WithField("operation", op)

	task, err := h.tasks.GetTask(c.Request.Context(), c.Param("taskID"))
	if err != nil {
		fail(log, c, err, "failed to get task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) editTaskAction(c *gin.Context) {
	const op = "handlers.Task.editTaskAction"
	log := h.log.WithField("operation", op)

	form := forms.NewEditTaskForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}
	log.WithFields(form.ConvertToMap()).Debug("edit task")

	task, err := h.tasks.EditTask(c.Request.Context(), c.Param("taskID"), form.EditTaskRequest)
	if err != nil {
		fail(log, c, err, "failed to edit task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) deleteTaskAction(c *gin.Context) {
	const op = "handlers.Task.deleteTaskAction"
	log := h.log.WithField("operation", op)

	taskID := c.Param("taskID")
	if err := h.tasks.DeleteTask(c.Request.Context(), taskID); err != nil {
		fail(log, c, err, "failed to delete task")
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": taskID, "deleted": true})
}

func (h *Task) assignTaskAction(c *gin.Context) {
	const op = "handlers.Task.assignTaskAction"
	log := h.log.WithField("operation", op)

	form := forms.NewAssignTaskForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}

	task, err := h.tasks.AssignTask(c.Request.Context(), c.Param("taskID"), form.ElectricianID)
	if err != nil {
		fail(log, c, err, "failed to assign task")
		return
	}

	c.JSON(http.StatusOK, task)
}

// changeTaskStatusAction routes a bare status change to the lifecycle
// operation that owns it.
func (h *Task) changeTaskStatusAction(c *gin.Context) {
	const op = "handlers.Task.changeTaskStatusAction"
	log := h.log.WithField("operation", op)

	form := forms.NewChangeStatusForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}

	ctx := c.Request.Context()
	taskID := c.Param("taskID")

	var (
		task *primary.Task
		err  error
	)
	switch models.TaskStatus(form.Status) {
	case models.TaskStatusInProgress:
		task, err = h.tasks.StartTask(ctx, taskID)
	case models.TaskStatusPending:
		status := form.Status
		task, err = h.tasks.EditTask(ctx, taskID, primary.EditTaskRequest{Status: &status})
	case models.TaskStatusCancelled:
		task, err = h.tasks.CancelTask(ctx, taskID)
	case models.TaskStatusAssigned:
		err = errs.Field("status", "use PATCH /tasks/:id/assign to assign a task")
	case models.TaskStatusCompleted:
		err = errs.Field("status", "use POST /tasks/:id/complete to complete a task")
	default:
		err = errs.Field("status", "status must be one of In Progress, Pending, Cancelled")
	}
	if err != nil {
		fail(log, c, err, "failed to change task status")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) completeTaskAction(c *gin.Context) {
	const op = "handlers.Task.completeTaskAction"
	log := h.log.WithField("operation", op)

	form := forms.NewCompleteTaskForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}

	task, err := h.tasks.CompleteTask(c.Request.Context(), c.Param("taskID"), form.CompleteTaskRequest)
	if err != nil {
		fail(log, c, err, "failed to complete task")
		return
	}

	c.JSON(http.StatusOK, task)
}

func (h *Task) rateTaskAction(c *gin.Context) {
	const op = "handlers.Task.rateTaskAction"
	log := h.log.WithField("operation", op)

	form := forms.NewRateTaskForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}

	task, err := h.tasks.RateTask(c.Request.Context(), c.Param("taskID"), form.RateTaskRequest)
	if err != nil {
		fail(log, c, err, "failed to rate task")
		return
	}

	c.JSON(http.StatusOK, task)
}

// fail logs err at a level matching its kind and writes the error response.
func fail(log *logrus.Entry, c *gin.Context, err error, msg string) {
	if errs.KindOf(err) == errs.KindInternal {
		log.WithError(err).Error(msg)
	} else {
		log.WithError(err).Debug(msg)
	}
	response.HandleError(err, c)
}
