package handler

import (
	"net/http"
	"strconv"

	"github.com/Tallon1/rooster-ai-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

// TenantHandler exposes company management endpoints.
type TenantHandler struct {
	tenants *service.TenantService
	access  *service.AccessChecker
}

// NewTenantHandler creates a TenantHandler.
func NewTenantHandler(tenants *service.TenantService, access *service.AccessChecker) *TenantHandler {
	return &TenantHandler{tenants: tenants, access: access}
}

// GetTenant returns one company. The path ID may name another tenant; the
// policy only lets the platform admin cross that boundary.
func (h *TenantHandler) GetTenant(c echo.Context) error {
	userID, _, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant ID"})
	}

	if _, err := h.access.ValidateAccess(userID, uint(id), service.ActionTenantRead); err != nil {
		return respondError(c, err)
	}

	tenant, err := h.tenants.GetTenant(uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// UpdateTenant applies a partial update to the caller's company.
func (h *TenantHandler) UpdateTenant(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionTenantManage); err != nil {
		return respondError(c, err)
	}

	var patch service.TenantPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	tenant, err := h.tenants.UpdateTenant(tenantID, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// DeactivateTenant soft-flags the caller's company inactive.
func (h *TenantHandler) DeactivateTenant(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionTenantManage); err != nil {
		return respondError(c, err)
	}

	if err := h.tenants.DeactivateTenant(tenantID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Tenant deactivated"})
}

// ListLocations returns the tenant's store locations.
func (h *TenantHandler) ListLocations(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionTenantRead); err != nil {
		return respondError(c, err)
	}

	locations, err := h.tenants.ListLocations(tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, locations)
}

// CreateLocation adds a store location.
func (h *TenantHandler) CreateLocation(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionTenantManage); err != nil {
		return respondError(c, err)
	}

	var req struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Phone   string `json:"phone"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	location, err := h.tenants.CreateLocation(tenantID, req.Name, req.Address, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, location)
}
