package handler

import (
	"net/http"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

// AnalyticsHandler exposes the dashboard aggregation endpoints.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	access    *service.AccessChecker
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, access *service.AccessChecker) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, access: access}
}

// Summary returns tenant-wide staff and roster counts.
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionAnalyticsRead); err != nil {
		return respondError(c, err)
	}

	summary, err := h.analytics.Summary(tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// RosterStats returns one roster's shift counts and scheduled hours.
func (h *AnalyticsHandler) RosterStats(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	rosterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roster ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionAnalyticsRead); err != nil {
		return respondError(c, err)
	}

	stats, err := h.analytics.ForRoster(tenantID, rosterID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// StaffHours totals one staff member's scheduled hours over ?from / ?to
// (RFC 3339; defaults to the last 30 days).
func (h *AnalyticsHandler) StaffHours(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	staffID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionAnalyticsRead); err != nil {
		return respondError(c, err)
	}

	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if raw := c.QueryParam("from"); raw != "" {
		from, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from time"})
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		to, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to time"})
		}
	}

	hours, err := h.analytics.StaffHours(tenantID, staffID, from, to)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"staff_id": staffID,
		"from":     from,
		"to":       to,
		"hours":    hours,
	})
}
