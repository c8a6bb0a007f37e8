package service

import (
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dispatcher receives roster lifecycle events. The roster service treats it
// as fire-and-forget: a dispatch error is logged by the caller and never
// fails the operation that triggered it.
type Dispatcher interface {
	Dispatch(event string, tenantID uint, rosterID *uint, staffIDs []uint, message string) error
}

// StoreDispatcher is the in-app delivery channel: one Notification row per
// affected staff member. Email and push delivery sit behind other dispatchers
// outside this service.
type StoreDispatcher struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStoreDispatcher creates a dispatcher writing to the given handle.
func NewStoreDispatcher(db *gorm.DB, log *zap.Logger) *StoreDispatcher {
	return &StoreDispatcher{db: db, log: log}
}

// Dispatch stores one notification per staff member.
func (d *StoreDispatcher) Dispatch(event string, tenantID uint, rosterID *uint, staffIDs []uint, message string) error {
	if len(staffIDs) == 0 {
		return nil
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	notifications := make([]model.Notification, 0, len(staffIDs))
	for _, staffID := range staffIDs {
		notifications = append(notifications, model.Notification{
			TenantID: tenantID,
			StaffID:  staffID,
			RosterID: rosterID,
			Event:    event,
			Message:  message,
		})
	}

	if err := d.db.Create(&notifications).Error; err != nil {
		return err
	}

	d.log.Debug("Notifications stored",
		zap.String("event", event),
		zap.Uint("tenant_id", tenantID),
		zap.Int("recipients", len(staffIDs)))
	return nil
}

// NotificationService exposes the in-app notification feed.
type NotificationService struct {
	db *gorm.DB
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// ListForStaff returns a staff member's notifications, newest first.
func (s *NotificationService) ListForStaff(tenantID, staffID uint, unreadOnly bool) ([]model.Notification, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.Where("tenant_id = ? AND staff_id = ?", tenantID, staffID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var notifications []model.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(tenantID, notificationID uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := s.db.Model(&model.Notification{}).
		Where("id = ? AND tenant_id = ?", notificationID, tenantID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
