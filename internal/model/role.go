package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Well-known role names. The four system roles are seeded for every tenant and
// cannot be edited through the API.
const (
	RoleAdmin   = "admin" // platform operator, may cross tenant boundaries
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// StringList is a JSON-encoded list of strings, used for permission tokens.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	case nil:
		*l = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Contains reports whether the list holds the given token.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// Role is a named permission set scoped to one tenant.
type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    uint           `json:"tenant_id" gorm:"index;not null;uniqueIndex:idx_roles_tenant_name"`
	Name        string         `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:idx_roles_tenant_name"`
	Permissions StringList     `json:"permissions" gorm:"type:jsonb"`
	IsSystem    bool           `json:"is_system" gorm:"default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
