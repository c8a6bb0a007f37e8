package handler

import (
	"net/http"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/service"
	"github.com/Tallon1/rooster-ai-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RosterHandler exposes the roster lifecycle and shift mutation endpoints.
type RosterHandler struct {
	rosters *service.RosterService
	export  *service.ExportService
	staff   *service.StaffService
	access  *service.AccessChecker
}

// NewRosterHandler creates a RosterHandler.
func NewRosterHandler(rosters *service.RosterService, export *service.ExportService, staff *service.StaffService, access *service.AccessChecker) *RosterHandler {
	return &RosterHandler{rosters: rosters, export: export, staff: staff, access: access}
}

// ListRosters returns the tenant's rosters. ?templates=true|false filters.
func (h *RosterHandler) ListRosters(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterRead); err != nil {
		return respondError(c, err)
	}

	var templatesOnly *bool
	switch c.QueryParam("templates") {
	case "true":
		v := true
		templatesOnly = &v
	case "false":
		v := false
		templatesOnly = &v
	}

	rosters, err := h.rosters.ListRosters(tenantID, templatesOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, rosters)
}

// GetRoster returns a roster with its shifts and staff joined.
func (h *RosterHandler) GetRoster(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roster ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterRead); err != nil {
		return respondError(c, err)
	}

	roster, err := h.rosters.GetRosterWithShifts(tenantID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, roster)
}

// CreateRoster creates a draft roster, optionally with an initial shift batch.
func (h *RosterHandler) CreateRoster(c echo.Context) error {
	log := logger.FromContext(c)

	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterManage); err != nil {
		return respondError(c, err)
	}

	var req service.CreateRosterRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse roster creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	roster, err := h.rosters.CreateRoster(tenantID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, roster)
}

// CreateFromTemplate instantiates a template as a new draft roster.
func (h *RosterHandler) CreateFromTemplate(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	templateID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid template ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterManage); err != nil {
		return respondError(c, err)
	}

	var req struct {
		StartDate time.Time `json:"start_date"`
		EndDate   time.Time `json:"end_date"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	roster, err := h.rosters.CreateRosterFromTemplate(tenantID, templateID, req.StartDate, req.EndDate)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, roster)
}

// PublishRoster performs the one-way draft -> published transition.
func (h *RosterHandler) PublishRoster(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roster ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterPublish); err != nil {
		return respondError(c, err)
	}

	roster, err := h.rosters.PublishRoster(tenantID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Roster published",
		"roster":  roster,
	})
}

// DeleteRoster hard-deletes a draft roster and its shifts.
func (h *RosterHandler) DeleteRoster(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roster ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterManage); err != nil {
		return respondError(c, err)
	}

	if err := h.rosters.DeleteRoster(tenantID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Roster deleted"})
}

// AddShift adds one shift to a draft roster.
func (h *RosterHandler) AddShift(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	rosterID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roster ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterManage); err != nil {
		return respondError(c, err)
	}

	var in service.ShiftInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	shift, err := h.rosters.AddShiftToRoster(tenantID, rosterID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, shift)
}

// UpdateShift applies a partial update to a draft-roster shift.
func (h *RosterHandler) UpdateShift(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	shiftID, err := pathID(c, "shift_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterManage); err != nil {
		return respondError(c, err)
	}

	var patch service.ShiftPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	shift, err := h.rosters.UpdateShift(tenantID, shiftID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, shift)
}

// ConfirmShift marks a shift as confirmed.
func (h *RosterHandler) ConfirmShift(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	shiftID, err := pathID(c, "shift_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift ID"})
	}

	// Managers confirm on anyone's behalf; staff only their own shifts.
	var ownStaffID uint
	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterManage); err != nil {
		if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterRead); err != nil {
			return respondError(c, err)
		}
		own, err := h.staff.FindStaffForUser(tenantID, userID)
		if err != nil {
			return respondError(c, err)
		}
		ownStaffID = own.ID
	}

	shift, err := h.rosters.ConfirmShift(tenantID, shiftID, ownStaffID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, shift)
}

// DeleteShift removes a shift from a draft roster.
func (h *RosterHandler) DeleteShift(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	shiftID, err := pathID(c, "shift_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid shift ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterManage); err != nil {
		return respondError(c, err)
	}

	if err := h.rosters.DeleteShift(tenantID, shiftID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Shift deleted"})
}

// ExportRoster streams the roster as a CSV attachment.
func (h *RosterHandler) ExportRoster(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid roster ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionRosterRead); err != nil {
		return respondError(c, err)
	}

	data, filename, err := h.export.RosterCSV(tenantID, id)
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}
