package handler

import (
	"net/http"

	"github.com/Tallon1/rooster-ai-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes the in-app notification feed.
type NotificationHandler struct {
	notifications *service.NotificationService
	staff         *service.StaffService
	access        *service.AccessChecker
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService, staff *service.StaffService, access *service.AccessChecker) *NotificationHandler {
	return &NotificationHandler{notifications: notifications, staff: staff, access: access}
}

// ListMine returns the caller's own notification feed. The caller is matched
// to a staff record by account email. ?unread=true filters to unread.
func (h *NotificationHandler) ListMine(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionNotificationsRead); err != nil {
		return respondError(c, err)
	}

	staff, err := h.staff.FindStaffForUser(tenantID, userID)
	if err != nil {
		return respondError(c, err)
	}

	unreadOnly := c.QueryParam("unread") == "true"
	notifications, err := h.notifications.ListForStaff(tenantID, staff.ID, unreadOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// ListForStaff returns another staff member's feed, for managers.
func (h *NotificationHandler) ListForStaff(c echo.Context) error {
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

	unreadOnly := c.QueryParam("unread") == "true"
	notifications, err := h.notifications.ListForStaff(tenantID, staffID, unreadOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notifications)
}

// MarkRead flags one notification as read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	userID, tenantID, ok := requireCaller(c)
	if !ok {
		return unauthenticated(c)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification ID"})
	}

	if _, err := h.access.ValidateAccess(userID, tenantID, service.ActionNotificationsRead); err != nil {
		return respondError(c, err)
	}

	if err := h.notifications.MarkRead(tenantID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked read"})
}
