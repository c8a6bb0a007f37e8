package model

import (
	"time"
)

// Roster is a named, date-bounded container of shifts. A roster is either a
// live schedule (IsTemplate=false) or a reusable template; the flag is set at
// creation and never changes. Once IsPublished flips true the roster and its
// shifts are immutable.
type Roster struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TenantID    uint      `json:"tenant_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	IsPublished bool      `json:"is_published" gorm:"default:false"`
	IsTemplate  bool      `json:"is_template" gorm:"default:false"`
	Notes       string    `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Shifts []Shift `json:"shifts,omitempty" gorm:"foreignKey:RosterID;constraint:OnDelete:CASCADE"`
}

// Shift is one staff member's assigned work interval within a roster.
// Intervals are half-open [StartTime, EndTime): back-to-back shifts where one
// ends exactly when the next begins do not overlap.
type Shift struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	RosterID    uint      `json:"roster_id" gorm:"index;not null"`
	StaffID     uint      `json:"staff_id" gorm:"index;not null"`
	StartTime   time.Time `json:"start_time" gorm:"not null"`
	EndTime     time.Time `json:"end_time" gorm:"not null"`
	Position    string    `json:"position" gorm:"type:varchar(100)"`
	Notes       string    `json:"notes" gorm:"type:text"`
	IsConfirmed bool      `json:"is_confirmed" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Staff Staff `json:"staff,omitempty" gorm:"foreignKey:StaffID"`
}

// Duration returns the shift length.
func (s *Shift) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// Overlaps reports half-open interval overlap with another shift.
func (s *Shift) Overlaps(other *Shift) bool {
	return s.StartTime.Before(other.EndTime) && other.StartTime.Before(s.EndTime)
}
