package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/example/kandy/internal/errs"
	"github.com/example/kandy/internal/ports/primary"
)

type Dashboard struct {
	log       *logrus.Logger
	dashboard primary.DashboardService
}

func NewDashboardHandler(dashboard primary.DashboardService, log *logrus.Logger) *Dashboard {
	return &Dashboard{
		log:       log,
		dashboard: dashboard,
	}
}

func (h *Dashboard) EnrichRoutes(router gin.IRouter) {
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.GET("/stats", h.statsAction)
	dashboardRoutes.GET("/activities", h.activitiesAction)
}

func (h *Dashboard) statsAction(c *gin.Context) {
	const op = "handlers.Dashboard.statsAction"
	log := h.log.WithField("operation", op)

	stats, err := h.dashboard.GetStats(c.Request.Context())
	if err != nil {
		fail(log, c, err, "failed to load dashboard stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Dashboard) activitiesAction(c *gin.Context) {
	const op = "handlers.Dashboard.activitiesAction"
	log := h.log.WithField("operation", op)

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			fail(log, c, errs.Field("limit", "limit must be a number"), "bad limit")
			return
		}
		limit = n
	}

	activities, err := h.dashboard.ListActivity(c.Request.Context(), limit)
	if err != nil {
		fail(log, c, err, "failed to list activities")
		return
	}

	c.JSON(http.StatusOK, gin.H{"activities": activities, "count": len(activities)})
}
