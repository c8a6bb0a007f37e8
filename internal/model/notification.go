package model

import (
	"time"
)

// Notification event names. These are the trigger contract between the roster
// lifecycle and the dispatcher; delivery beyond the in-app row is out of band.
const (
	EventRosterPublished = "roster_published"
	EventShiftCreated    = "shift_created"
	EventShiftUpdated    = "shift_updated"
	EventShiftDeleted    = "shift_deleted"
)

// Notification is one in-app message for a staff member.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	TenantID  uint      `json:"tenant_id" gorm:"index;not null"`
	StaffID   uint      `json:"staff_id" gorm:"index;not null"`
	RosterID  *uint     `json:"roster_id,omitempty" gorm:"index"`
	Event     string    `json:"event" gorm:"type:varchar(50);not null"`
	Message   string    `json:"message" gorm:"type:text"`
	IsRead    bool      `json:"is_read" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
