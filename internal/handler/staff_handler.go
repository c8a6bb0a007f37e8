package handler

import (
	"net/http"
	"strconv"

	"github.com/Tallon1/rooster-ai-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

// StaffHandler exposes staff record and availability endpoints.
type StaffHandler struct {
	staff  *service.StaffService
	access *service.AccessChecker
}

// NewStaffHandler creates a StaffHandler.
func NewStaffHandler(staff *service.StaffService, access *service.AccessChecker) *StaffHandler {
	return &StaffHandler{staff: staff, access: access}
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	return uint(id), err
}

// ListStaff returns the tenant's staff.
func (h *StaffHandler) ListStaff(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffRead); err != nil {
		return respondError(c, err)
	}

	activeOnly := c.QueryParam("active") == "true"
	staff, err := h.staff.ListStaff(tenantID, activeOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, staff)
}

// GetStaff returns one staff record with availability.
func (h *StaffHandler) GetStaff(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffRead); err != nil {
		return respondError(c, err)
	}

	staff, err := h.staff.GetStaff(tenantID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, staff)
}

// CreateStaff adds a staff record.
func (h *StaffHandler) CreateStaff(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffManage); err != nil {
		return respondError(c, err)
	}

	var req service.CreateStaffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	staff, err := h.staff.CreateStaff(tenantID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, staff)
}

// UpdateStaff applies a partial update.
func (h *StaffHandler) UpdateStaff(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffManage); err != nil {
		return respondError(c, err)
	}

	var patch service.StaffPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	staff, err := h.staff.UpdateStaff(tenantID, id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, staff)
}

// DeleteStaff soft-deletes a staff record.
func (h *StaffHandler) DeleteStaff(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffManage); err != nil {
		return respondError(c, err)
	}

	if err := h.staff.DeleteStaff(tenantID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Staff deleted"})
}

// AddAvailability declares a weekly window for a staff member.
func (h *StaffHandler) AddAvailability(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	staffID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffManage); err != nil {
		return respondError(c, err)
	}

	var in service.AvailabilityInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	window, err := h.staff.AddAvailability(tenantID, staffID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, window)
}

// SetAvailability toggles one window's active flag without deleting the
// declaration.
func (h *StaffHandler) SetAvailability(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	staffID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}
	availabilityID, err := pathID(c, "availability_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid availability ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffManage); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.staff.SetAvailabilityActive(tenantID, staffID, availabilityID, req.Active); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Availability updated"})
}

// GetStaffAccount returns the login account backing a staff record, when one
// exists.
func (h *StaffHandler) GetStaffAccount(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	staffID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffManage); err != nil {
		return respondError(c, err)
	}

	user, err := h.staff.FindUserForStaff(tenantID, staffID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// RemoveAvailability deletes one weekly window.
func (h *StaffHandler) RemoveAvailability(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	staffID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid staff ID"})
	}
	availabilityID, err := pathID(c, "availability_id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid availability ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionStaffManage); err != nil {
		return respondError(c, err)
	}

	if err := h.staff.RemoveAvailability(tenantID, staffID, availabilityID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Availability removed"})
}
