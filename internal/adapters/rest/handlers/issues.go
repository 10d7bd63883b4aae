package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/adapters/rest/forms"
	"github.com/example/kandy/internal/adapters/rest/response"
	"github.com/example/kandy/internal/ports/primary"
)

type Issue struct {
	log    *logrus.Logger
	issues primary.IssueService
}

func NewIssueHandler(issues primary.IssueService, log *logrus.Logger) *Issue {
	return &Issue{
		log:    log,
		issues: issues,
	}
}

func (h *Issue) EnrichRoutes(router gin.IRouter) {
	issueRoutes := router.Group("/issues")
	issueRoutes.POST("", h.reportIssueAction)
	issueRoutes.GET("", h.listIssuesAction)
	issueRoutes.GET("/stats", h.issueStatsAction)
	issueRoutes.GET("/:issueID", h.getIssueAction)
	issueRoutes.PATCH("/:issueID/status", h.updateIssueStatusAction)
}

func (h *Issue) reportIssueAction(c *gin.Context) {
	const op = "handlers.Issue.reportIssueAction"
	log := h.log.WithField("operation", op)

	form := forms.NewReportIssueForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}
	log.WithFields(form.ConvertToMap()).Debug("report issue")

	issue, err := h.issues.ReportIssue(c.Request.Context(), form.ReportIssueRequest)
	if err != nil {
		fail(log, c, err, "failed to report issue")
		return
	}

	c.JSON(http.StatusCreated, issue)
}

func (h *Issue) listIssuesAction(c *gin.Context) {
	const op = "handlers.Issue.listIssuesAction"
	log := h.log.WithField("operation", op)

	issues, err := h.issues.ListIssues(c.Request.Context(), primary.IssueFilters{
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		TaskID:    c.Query("task_id"),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		fail(log, c, err, "failed to list issues")
		return
	}

	c.JSON(http.StatusOK, gin.H{"issues": issues, "count": len(issues)})
}

func (h *Issue) issueStatsAction(c *gin.Context) {
	const op = "handlers.Issue.issueStatsAction"
	log := h.log.WithField("operation", op)

	counts, err := h.issues.IssueStats(c.Request.Context())
	if err != nil {
		fail(log, c, err, "failed to count issues")
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *Issue) getIssueAction(c *gin.Context) {
	const op = "handlers.Issue.getIssueAction"
	log := h.log.WithField("operation", op)

	issue, err := h.issues.GetIssue(c.Request.Context(), c.Param("issueID"))
	if err != nil {
		fail(log, c, err, "failed to get issue")
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *Issue) updateIssueStatusAction(c *gin.Context) {
	const op = "handlers.Issue.updateIssueStatusAction"
	log := h.log.WithField("operation", op)

	form := forms.NewUpdateIssueStatusForm()
	if verr := form.ParseAndValidate(c); verr != nil {
		response.HandleError(verr, c)
		return
	}

	issue, err := h.issues.UpdateIssueStatus(c.Request.Context(), c.Param("issueID"), form.UpdateIssueStatusRequest)
	if err != nil {
		fail(log, c, err, "failed to update issue status")
		return
	}

	c.JSON(http.StatusOK, issue)
}
