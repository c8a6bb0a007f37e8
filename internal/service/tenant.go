package service

import (
	"fmt"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// systemRoles are seeded for every new tenant. They are immutable through the
// API; the admin role belongs to the platform operator's own tenant.
var systemRoles = []struct {
	name        string
	permissions model.StringList
}{
	{model.RoleOwner, model.StringList{"tenant:manage", "staff:manage", "roster:manage", "roster:publish", "analytics:read"}},
	{model.RoleManager, model.StringList{"staff:manage", "roster:manage", "roster:publish", "analytics:read"}},
	{model.RoleStaff, model.StringList{"roster:read", "notifications:read"}},
}

// TenantService manages companies and their seeded roles.
type TenantService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewTenantService creates a TenantService.
func NewTenantService(db *gorm.DB, log *zap.Logger) *TenantService {
	return &TenantService{db: db, log: log}
}

// CreateTenantRequest carries the fields for a new company.
type CreateTenantRequest struct {
	Name        string `json:"name"`
	Domain      string `json:"domain"`
	MaxUsers    int    `json:"max_users,omitempty"`
	MaxManagers int    `json:"max_managers,omitempty"`
	Settings    string `json:"settings,omitempty"`
}

// CreateTenant persists the tenant and seeds its system roles in one
// transaction.
func (s *TenantService) CreateTenant(req CreateTenantRequest) (*model.Tenant, error) {
	if req.Name == "" || req.Domain == "" {
		return nil, fmt.Errorf("%w: name and domain are required", ErrValidation)
	}

	prometheus.RecordTenantOperation("create")
	defer prometheus.TrackDBOperation("insert")(time.Now())

	tenant := &model.Tenant{
		Name:        req.Name,
		Domain:      req.Domain,
		MaxUsers:    req.MaxUsers,
		MaxManagers: req.MaxManagers,
		Settings:    req.Settings,
		Active:      true,
	}
	if tenant.MaxUsers == 0 {
		tenant.MaxUsers = 50
	}
	if tenant.MaxManagers == 0 {
		tenant.MaxManagers = 5
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(tenant).Error; err != nil {
			return err
		}
		for _, r := range systemRoles {
			role := model.Role{
				TenantID:    tenant.ID,
				Name:        r.name,
				Permissions: r.permissions,
				IsSystem:    true,
			}
			if err := tx.Create(&role).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Tenant created",
		zap.Uint("tenant_id", tenant.ID),
		zap.String("name", tenant.Name),
		zap.String("domain", tenant.Domain))

	return tenant, nil
}

// GetTenant loads one tenant.
func (s *TenantService) GetTenant(tenantID uint) (*model.Tenant, error) {
	prometheus.RecordTenantOperation("access")
	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenant model.Tenant
	if err := s.db.First(&tenant, tenantID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// TenantPatch applies only the provided fields.
type TenantPatch struct {
	Name        *string `json:"name,omitempty"`
	MaxUsers    *int    `json:"max_users,omitempty"`
	MaxManagers *int    `json:"max_managers,omitempty"`
	Settings    *string `json:"settings,omitempty"`
}

// UpdateTenant applies a partial update.
func (s *TenantService) UpdateTenant(tenantID uint, patch TenantPatch) (*model.Tenant, error) {
	prometheus.RecordTenantOperation("update")
	defer prometheus.TrackDBOperation("update")(time.Now())

	tenant, err := s.GetTenant(tenantID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		tenant.Name = *patch.Name
	}
	if patch.MaxUsers != nil {
		tenant.MaxUsers = *patch.MaxUsers
	}
	if patch.MaxManagers != nil {
		tenant.MaxManagers = *patch.MaxManagers
	}
	if patch.Settings != nil {
		tenant.Settings = *patch.Settings
	}

	if err := s.db.Save(tenant).Error; err != nil {
		return nil, err
	}
	return tenant, nil
}

// DeactivateTenant soft-flags the tenant inactive. Tenants are never
// hard-deleted in normal operation.
func (s *TenantService) DeactivateTenant(tenantID uint) error {
	prometheus.RecordTenantOperation("deactivate")
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := s.db.Model(&model.Tenant{}).
		Where("id = ?", tenantID).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTenantNotFound
	}

	s.log.Info("Tenant deactivated", zap.Uint("tenant_id", tenantID))
	return nil
}

// GetRole loads a tenant's role by name.
func (s *TenantService) GetRole(tenantID uint, name string) (*model.Role, error) {
	var role model.Role
	err := s.db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRoleNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ListLocations returns the tenant's store locations.
func (s *TenantService) ListLocations(tenantID uint) ([]model.StoreLocation, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var locations []model.StoreLocation
	if err := s.db.Where("tenant_id = ?", tenantID).Order("name").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

// CreateLocation adds a store location to the tenant.
func (s *TenantService) CreateLocation(tenantID uint, name, address, phone string) (*model.StoreLocation, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	location := &model.StoreLocation{
		TenantID: tenantID,
		Name:     name,
		Address:  address,
		Phone:    phone,
		Active:   true,
	}
	if err := s.db.Create(location).Error; err != nil {
		return nil, err
	}
	return location, nil
}
