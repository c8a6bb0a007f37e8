package model

import (
	"time"

	"gorm.io/gorm"
)

// User represents a login-capable account. A User belongs to exactly one
// tenant and carries one role within it. Schedulable people are Staff rows; a
// Staff member may or may not have a matching User account (matched by email
// within the tenant).
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_users_tenant_email"`
	RoleID    uint           `json:"role_id" gorm:"index;not null"`
	Email     string         `json:"email" gorm:"type:varchar(100);not null;uniqueIndex:idx_users_tenant_email"`
	Password  string         `json:"-" gorm:"type:varchar(255)"`
	Name      string         `json:"name" gorm:"type:varchar(100)"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Role Role `json:"role,omitempty" gorm:"foreignKey:RoleID"`
}
