package forms

import (
	"github.com/gin-gonic/gin"

	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/ports/primary"
)

// ReportIssueForm is the body of POST /issues.
type ReportIssueForm struct {
	primary.ReportIssueRequest
}

func NewReportIssueForm() *ReportIssueForm {
	return &ReportIssueForm{}
}

func (f *ReportIssueForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		TaskID          string `json:"task_id"`
		IssueType       string `json:"issue_type"`
		Description     string `json:"description"`
		RequestedAction string `json:"requested_action"`
		Priority        string `json:"priority"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.TaskID = required(errors, "task_id", request.TaskID)
	f.IssueType = required(errors, "issue_type", request.IssueType)
	f.Description = required(errors, "description", request.Description)
	f.RequestedAction = request.RequestedAction
	f.Priority = request.Priority
	return result(errors)
}

func (f *ReportIssueForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{
		"task_id":    f.TaskID,
		"issue_type": f.IssueType,
		"priority":   f.Priority,
	}
}

// UpdateIssueStatusForm is the body of PATCH /issues/:id/status.
type UpdateIssueStatusForm struct {
	primary.UpdateIssueStatusRequest
}

func NewUpdateIssueStatusForm() *UpdateIssueStatusForm {
	return &UpdateIssueStatusForm{}
}

func (f *UpdateIssueStatusForm) ParseAndValidate(c *gin.Context) response.Error {
	var request struct {
		Status          string `json:"status"`
		ResolutionNotes string `json:"resolution_notes"`
	}
	if verr := decode(c, &request); verr != nil {
		return verr
	}

	errors := make(map[string]response.ErrorMessage)
	f.Status = required(errors, "status", request.Status)
	f.ResolutionNotes = request.ResolutionNotes
	return result(errors)
}

func (f *UpdateIssueStatusForm) ConvertToMap() map[string]interface{} {
	return map[string]interface{}{"status": f.Status}
}
