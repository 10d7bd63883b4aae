package forms

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kandy/internal/adapters/rest/response"
)

func testContext(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return c
}

func fieldsOf(t *testing.T, verr response.Error) map[string]response.ErrorMessage {
	t.Helper()
	require.NotNil(t, verr)
	return verr.Body().Error.Fields
}

func TestCreateTaskForm(t *testing.T) {
	form := NewCreateTaskForm()
	verr := form.ParseAndValidate(testContext(`{
		"title": " Rewire kitchen ",
		"customer_name": "Kamal Silva",
		"customer_phone": "0771234567",
		"customer_address": "12 Temple Road",
		"priority": "High",
		"scheduled_date": "2026-03-11",
		"scheduled_time_start": "09:00",
		"scheduled_time_end": "11:30"
	}`))

	require.Nil(t, verr)
	assert.Equal(t, "Rewire kitchen", form.Title)
	assert.Equal(t, "High", form.Priority)
	assert.Zero(t, form.EstimatedHours)
}

func TestCreateTaskForm_MissingFields(t *testing.T) {
	verr := NewCreateTaskForm().ParseAndValidate(testContext(`{"title": "x"}`))

	fields := fieldsOf(t, verr)
	for _, key := range []string{"customer_name", "customer_phone", "customer_address", "scheduled_date", "scheduled_time_start", "scheduled_time_end"} {
		assert.Equal(t, response.MissedValue, fields[key].Code, key)
	}
	assert.NotContains(t, fields, "title")
}

func TestParse_InvalidStructure(t *testing.T) {
	formers := map[string]Former{
		"create task":  NewCreateTaskForm(),
		"edit task":    NewEditTaskForm(),
		"assign":       NewAssignTaskForm(),
		"status":       NewChangeStatusForm(),
		"complete":     NewCompleteTaskForm(),
		"rate":         NewRateTaskForm(),
		"report issue": NewReportIssueForm(),
		"issue status": NewUpdateIssueStatusForm(),
		"login":        NewLoginForm(),
		"create user":  NewCreateUserForm(),
	}

	for name, f := range formers {
		t.Run(name, func(t *testing.T) {
			fields := fieldsOf(t, f.ParseAndValidate(testContext(`{not json`)))
			assert.Equal(t, response.InvalidRequestStructure, fields[response.GeneralErrorKey].Code)
		})
	}
}

func TestEditTaskForm_KeepsAbsentFieldsNil(t *testing.T) {
	form := NewEditTaskForm()
	require.Nil(t, form.ParseAndValidate(testContext(`{"status": "Pending", "estimated_hours": 3}`)))

	require.NotNil(t, form.Status)
	assert.Equal(t, "Pending", *form.Status)
	require.NotNil(t, form.EstimatedHours)
	assert.Equal(t, 3.0, *form.EstimatedHours)
	assert.Nil(t, form.Title)
	assert.Nil(t, form.ScheduledDate)
}

func TestCompleteTaskForm(t *testing.T) {
	form := NewCompleteTaskForm()
	require.Nil(t, form.ParseAndValidate(testContext(`{"completion_notes":"done","additional_charges":1500}`)))
	require.NotNil(t, form.AdditionalCharges)
	assert.Equal(t, 1500.0, *form.AdditionalCharges)

	fields := fieldsOf(t, NewCompleteTaskForm().ParseAndValidate(testContext(`{"materials_used":"cable"}`)))
	assert.Contains(t, fields, "completion_notes")
}

func TestLoginForm_DoesNotExposePassword(t *testing.T) {
	form := NewLoginForm()
	require.Nil(t, form.ParseAndValidate(testContext(`{"email":"a@kandy.lk","password":"secret123"}`)))

	assert.NotContains(t, form.ConvertToMap(), "password")
	assert.Equal(t, "secret123", form.Password)
}

func TestRateTaskForm_RequiresRating(t *testing.T) {
	fields := fieldsOf(t, NewRateTaskForm().ParseAndValidate(testContext(`{"feedback":"great"}`)))
	assert.Equal(t, response.MissedValue, fields["rating"].Code)
}
