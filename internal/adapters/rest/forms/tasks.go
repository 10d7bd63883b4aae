package forms

import (
	"github.com/gin-gonic/gin"

	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/ports/primary"
)

type createTaskRequest struct {
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	CustomerName       string  `json:"customer_name"`
	CustomerPhone      string  `json:"customer_phone"`
	CustomerAddress    string  `json:"customer_address"`
	Priority           string  `json:"priority"`
	ScheduledDate      string  `json:"scheduled_date"`
	ScheduledTimeStart string  `json:"scheduled_time_start"`
	ScheduledTimeEnd   string  `json:"scheduled_time_end"`
	EstimatedHours     float64 `json:"estimated_hours"`
}

// CreateTaskForm is the body of POST /tasks.
type CreateTaskForm struct {
	primary.CreateTaskRequest
}

func NewCreateTaskForm() *CreateTaskForm {
	return &CreateTaskForm{}
}

func (f *CreateTaskForm) ParseAndValidate(c *gin.Context) response.Error {
	var request createTaskRequest
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.Title = required(errors, "title", request.Title)
	f.CustomerName = required(errors, "customer_name", request.CustomerName)
	f.CustomerPhone = required(errors, "customer_phone", request.CustomerPhone)
	f.CustomerAddress = required(errors, "customer_address", request.CustomerAddress)
	f.ScheduledDate = required(errors, "scheduled_date", request.ScheduledDate)
	f.ScheduledTimeStart = required(errors, "scheduled_time_start", request.ScheduledTimeStart)
	f.ScheduledTimeEnd = required(errors, "scheduled_time_end", request.ScheduledTimeEnd)
	f.Priority = request.Priority
	f.Description = request.Description
	f.EstimatedHours = request.EstimatedHours

	return result(errors)
}

func (f *CreateTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"title":          f.Title,
		"priority":       f.Priority,
		"scheduled_date": f.ScheduledDate,
	}
}

// EditTaskForm is the body of PUT /tasks/:id. Absent keys are left unchanged.
type EditTaskForm struct {
	primary.EditTaskRequest
}

type editTaskRequest struct {
	Title              *string  `json:"title"`
	Description        *string  `json:"description"`
	CustomerName       *string  `json:"customer_name"`
	CustomerPhone      *string  `json:"customer_phone"`
	CustomerAddress    *string  `json:"customer_address"`
	Priority           *string  `json:"priority"`
	ScheduledDate      *string  `json:"scheduled_date"`
	ScheduledTimeStart *string  `json:"scheduled_time_start"`
	ScheduledTimeEnd   *string  `json:"scheduled_time_end"`
	EstimatedHours     *float64 `json:"estimated_hours"`
	Status             *string  `json:"status"`
}

func NewEditTaskForm() *EditTaskForm {
	return &EditTaskForm{}
}

func (f *EditTaskForm) ParseAndValidate(c *gin.Context) response.Error {
	var request editTaskRequest
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	f.EditTaskRequest = primary.EditTaskRequest{
		Title:              request.Title,
		Description:        request.Description,
		CustomerName:       request.CustomerName,
		CustomerPhone:      request.CustomerPhone,
		CustomerAddress:    request.CustomerAddress,
		Priority:           request.Priority,
		ScheduledDate:      request.ScheduledDate,
		ScheduledTimeStart: request.ScheduledTimeStart,
		ScheduledTimeEnd:   request.ScheduledTimeEnd,
		EstimatedHours:     request.EstimatedHours,
		Status:             request.Status,
	}
	return nil
}

func (f *EditTaskForm) ConvertToMap() map[string]interface{} {
	m := map[string]interface{}{}
	if f.Status != nil {
		m["status"] = *f.Status
	}
	if f.ScheduledDate != nil {
		m["scheduled_date"] = *f.ScheduledDate
	}
	return m
}

// AssignTaskForm is the body of PATCH /tasks/:id/assign.
type AssignTaskForm struct {
	ElectricianID string
}

func NewAssignTaskForm() *AssignTaskForm {
	return &AssignTaskForm{}
}

func (f *AssignTaskForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		ElectricianID string `json:"electrician_id"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.ElectricianID = required(errors, "electrician_id", request.ElectricianID)
	return result(errors)
}

func (f *AssignTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{"electrician_id": f.ElectricianID}
}

// ChangeStatusForm is the body of PATCH /tasks/:id/status and /users/:id/status.
type ChangeStatusForm struct {
	Status string
}

func NewChangeStatusForm() *ChangeStatusForm {
	return &ChangeStatusForm{}
}

func (f *ChangeStatusForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		Status string `json:"status"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.Status = required(errors, "status", request.Status)
	return result(errors)
}

func (f *ChangeStatusForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{"status": f.Status}
}

// CompleteTaskForm is the body of POST /tasks/:id/complete.
type CompleteTaskForm struct {
	primary.CompleteTaskRequest
}

func NewCompleteTaskForm() *CompleteTaskForm {
	return &CompleteTaskForm{}
}

func (f *CompleteTaskForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		CompletionNotes   string   `json:"completion_notes"`
		MaterialsUsed     string   `json:"materials_used"`
		AdditionalCharges *float64 `json:"additional_charges"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.CompletionNotes = required(errors, "completion_notes", request.CompletionNotes)
	f.MaterialsUsed = request.MaterialsUsed
	f.AdditionalCharges = request.AdditionalCharges
	return result(errors)
}

func (f *CompleteTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{"has_charges": f.AdditionalCharges != nil}
}

// RateTaskForm is the body of POST /tasks/:id/rating.
type RateTaskForm struct {
	primary.RateTaskRequest
}

func NewRateTaskForm() *RateTaskForm {
	return &RateTaskForm{}
}

func (f *RateTaskForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		Rating   int    `json:"rating"`
		Feedback string `json:"feedback"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	if request.Rating == 0 {
		errors["rating"] = response.ErrorMessage{Code: response.MissedValue, Message: "missed value"}
	}
	f.Rating = request.Rating
	f.Feedback = request.Feedback
	return result(errors)
}

func (f *RateTaskForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{"rating": f.Rating}
}
