package model

import (
	"time"

	"gorm.io/gorm"
)

// Staff is a schedulable person. Email is unique within the tenant and is how
// a Staff row is matched to a login-capable User, when one exists.
type Staff struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	TenantID   uint           `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_staff_tenant_email"`
	Name       string         `json:"name" gorm:"type:varchar(100);not null"`
	Email      string         `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_staff_tenant_email"`
	Phone      string         `json:"phone" gorm:"type:varchar(30)"`
	Position   string         `json:"position" gorm:"type:varchar(100)"`
	Department string         `json:"department" gorm:"type:varchar(100)"`
	HourlyRate float64        `json:"hourly_rate"`
	StartDate  *time.Time     `json:"start_date,omitempty"`
	EndDate    *time.Time     `json:"end_date,omitempty"`
	Active     bool           `json:"active" gorm:"default:true"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`

	Availability []StaffAvailability `json:"availability,omitempty" gorm:"foreignKey:StaffID"`
}

// StaffAvailability is one recurring weekly window in which the staff member
// may be scheduled. A staff member may declare several windows, including more
// than one for the same day.
type StaffAvailability struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	StaffID   uint      `json:"staff_id" gorm:"index;not null"`
	DayOfWeek Weekday   `json:"day_of_week" gorm:"not null"`
	StartTime TimeOfDay `json:"start_time" gorm:"type:varchar(5);not null"`
	EndTime   TimeOfDay `json:"end_time" gorm:"type:varchar(5);not null"`
	Active    bool      `json:"active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
