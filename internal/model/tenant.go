package model

import (
	"time"

	"gorm.io/gorm"
)

// Tenant represents one customer company. Every other row in the schema is
// scoped to exactly one tenant; deactivation is a soft flag, tenants are never
// hard-deleted in normal operation.
type Tenant struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	Name          string         `json:"name" gorm:"type:varchar(100);not null"`
	Domain        string         `json:"domain" gorm:"type:varchar(100);uniqueIndex"`
	MaxUsers      int            `json:"max_users" gorm:"default:50"`
	MaxManagers   int            `json:"max_managers" gorm:"default:5"`
	MaxTokenUsage int            `json:"max_token_usage" gorm:"default:0"`
	Active        bool           `json:"active" gorm:"default:true"`
	Settings      string         `json:"settings" gorm:"type:jsonb"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// StoreLocation is a physical site belonging to a tenant. Shifts may name a
// location through their free-text position; locations themselves are plain
// reference data.
type StoreLocation struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TenantID  uint           `json:"tenant_id" gorm:"index;not null"`
	Name      string         `json:"name" gorm:"type:varchar(100);not null"`
	Address   string         `json:"address" gorm:"type:text"`
	Phone     string         `json:"phone" gorm:"type:varchar(30)"`
	Active    bool           `json:"active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
