package handler

import (
	"net/http"

	"github.com/Tallon1/rooster-ai-sub000/internal/service"
	"github.com/Tallon1/rooster-ai-sub000/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusFor maps the service error taxonomy onto transport status codes in
// one place; handlers never pick status codes for domain errors themselves.
func statusFor(err error) int {
	switch service.Classify(err) {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInvalidState:
		return http.StatusUnprocessableEntity
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs and renders a domain error. Internal errors get a generic
// message; domain errors surface their own text.
func respondError(c echo.Context, err error) error {
	log := logger.FromContext(c)
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
		return c.JSON(status, echo.Map{"error": "internal error"})
	}

	log.Warn("Request rejected", zap.Error(err), zap.Int("status", status))
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// callerID returns the authenticated user ID placed by the auth middleware.
func callerID(c echo.Context) (uint, bool) {
	id, ok := c.Get("user_id").(uint)
	return id, ok
}

// callerTenant returns the authenticated tenant ID placed by the auth
// middleware.
func callerTenant(c echo.Context) (uint, bool) {
	id, ok := c.Get("tenant_id").(uint)
	return id, ok
}

// requireCaller extracts the (user, tenant) pair set by the auth middleware.
func requireCaller(c echo.Context) (userID, tenantID uint, ok bool) {
	userID, ok = callerID(c)
	if !ok {
		return 0, 0, false
	}
	tenantID, ok = callerTenant(c)
	if !ok {
		return 0, 0, false
	}
	return userID, tenantID, true
}

// unauthenticated renders the standard 401 body.
func unauthenticated(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
}
