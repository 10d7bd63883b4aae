package task

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/example/kandy/internal/core/validate"
	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/models"
)

// Date and time-of-day layouts used for scheduling.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Estimated hours bounds.
const (
	MinEstimatedHours = 0.5
	MaxEstimatedHours = 24
)

// Draft holds the manager-editable fields of a task.
type Draft struct {
	Title              string
	Description        string
	CustomerName       string
	CustomerPhone      string
	CustomerAddress    string
	Priority           models.TaskPriority
	ScheduledDate      string
	ScheduledTimeStart string
	ScheduledTimeEnd   string
	EstimatedHours     float64 // zero means derive from the scheduled window
}

// EstimateHours returns the scheduled window length rounded up to the next half hour.
func EstimateHours(start, end string) (float64, error) {
	s, err := time.Parse(ClockLayout, start)
	if err != nil {
		return 0, fmt.Errorf("invalid start time %q", start)
	}
	e, err := time.Parse(ClockLayout, end)
	if err != nil {
		return 0, fmt.Errorf("invalid end time %q", end)
	}
	hours := e.Sub(s).Hours()
	return math.Ceil(hours*2) / 2, nil
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(DateLayout)
}

// ValidateDraft checks d and returns it normalised, with EstimatedHours filled in
// when it was left at zero. today is the current date in DateLayout; past dates
// are rejected only when checkDate is set so edits can keep an old schedule.
func ValidateDraft(d Draft, today string, checkDate bool) (Draft, error) {
	fields := map[string]string{}

	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.CustomerName = strings.TrimSpace(d.CustomerName)
	d.CustomerAddress = strings.TrimSpace(d.CustomerAddress)
	d.CustomerPhone = strings.TrimSpace(d.CustomerPhone)

	if d.Title == "" {
		fields["title"] = "title is required"
	}
	if d.CustomerName == "" {
		fields["customer_name"] = "customer name is required"
	} else if msg := validate.FullName(d.CustomerName); msg != "" {
		fields["customer_name"] = "customer name " + msg
	}
	if d.CustomerPhone == "" {
		fields["customer_phone"] = "customer phone is required"
	} else if !validate.Phone(d.CustomerPhone) {
		fields["customer_phone"] = "enter a valid Sri Lankan phone number"
	}
	if d.CustomerAddress == "" {
		fields["customer_address"] = "customer address is required"
	}
	if !d.Priority.Valid() {
		fields["priority"] = "priority must be one of Low, Medium, High, Urgent"
	}

	if date, err := time.Parse(DateLayout, d.ScheduledDate); err != nil {
		fields["scheduled_date"] = "scheduled date must be YYYY-MM-DD"
	} else if checkDate && date.Format(DateLayout) < today {
		fields["scheduled_date"] = "scheduled date cannot be in the past"
	}

	start, startErr := time.Parse(ClockLayout, d.ScheduledTimeStart)
	end, endErr := time.Parse(ClockLayout, d.ScheduledTimeEnd)
	if startErr != nil {
		fields["scheduled_time_start"] = "start time must be HH:MM"
	}
	if endErr != nil {
		fields["scheduled_time_end"] = "end time must be HH:MM"
	}
	if startErr == nil && endErr == nil && !start.Before(end) {
		fields["scheduled_time_end"] = "end time must be after start time"
	}

	window := startErr == nil && endErr == nil && start.Before(end)
	if d.EstimatedHours == 0 && window {
		d.EstimatedHours, _ = EstimateHours(d.ScheduledTimeStart, d.ScheduledTimeEnd)
	}
	if (d.EstimatedHours != 0 || window) &&
		(d.EstimatedHours < MinEstimatedHours || d.EstimatedHours > MaxEstimatedHours) {
		fields["estimated_hours"] = "estimated hours must be between 0.5 and 24"
	}

	if len(fields) > 0 {
		return d, errs.Validation("invalid task", fields)
	}
	return d, nil
}
