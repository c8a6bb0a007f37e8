package service

import (
	"fmt"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StaffService manages staff records and their weekly availability windows.
type StaffService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStaffService creates a StaffService.
func NewStaffService(db *gorm.DB, log *zap.Logger) *StaffService {
	return &StaffService{db: db, log: log}
}

// CreateStaffRequest carries the fields for a new staff record.
type CreateStaffRequest struct {
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	Position   string     `json:"position,omitempty"`
	Department string     `json:"department,omitempty"`
	HourlyRate float64    `json:"hourly_rate,omitempty"`
	StartDate  *time.Time `json:"start_date,omitempty"`
}

// CreateStaff persists a staff record. Email is unique within the tenant.
func (s *StaffService) CreateStaff(tenantID uint, req CreateStaffRequest) (*model.Staff, error) {
	if req.Name == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrValidation)
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	var count int64
	err := s.db.Model(&model.Staff{}).
		Where("tenant_id = ? AND email = ?", tenantID, req.Email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, req.Email)
	}

	staff := &model.Staff{
		TenantID:   tenantID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Position:   req.Position,
		Department: req.Department,
		HourlyRate: req.HourlyRate,
		StartDate:  req.StartDate,
		Active:     true,
	}
	if err := s.db.Create(staff).Error; err != nil {
		return nil, err
	}

	s.log.Info("Staff created",
		zap.Uint("staff_id", staff.ID),
		zap.Uint("tenant_id", tenantID),
		zap.String("email", staff.Email))

	return staff, nil
}

// GetStaff loads a staff record with its availability windows.
func (s *StaffService) GetStaff(tenantID, staffID uint) (*model.Staff, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var staff model.Staff
	err := s.db.Preload("Availability").
		Where("tenant_id = ?", tenantID).
		First(&staff, staffID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// ListStaff returns the tenant's staff, optionally restricted to active
// records.
func (s *StaffService) ListStaff(tenantID uint, activeOnly bool) ([]model.Staff, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.Where("tenant_id = ?", tenantID)
	if activeOnly {
		query = query.Where("active = ?", true)
	}

	var staff []model.Staff
	if err := query.Order("name").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// StaffPatch applies only the provided fields.
type StaffPatch struct {
	Name       *string    `json:"name,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Position   *string    `json:"position,omitempty"`
	Department *string    `json:"department,omitempty"`
	HourlyRate *float64   `json:"hourly_rate,omitempty"`
	EndDate    *time.Time `json:"end_date,omitempty"`
	Active     *bool      `json:"active,omitempty"`
}

// UpdateStaff applies a partial update.
func (s *StaffService) UpdateStaff(tenantID, staffID uint, patch StaffPatch) (*model.Staff, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	staff, err := s.GetStaff(tenantID, staffID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		staff.Name = *patch.Name
	}
	if patch.Phone != nil {
		staff.Phone = *patch.Phone
	}
	if patch.Position != nil {
		staff.Position = *patch.Position
	}
	if patch.Department != nil {
		staff.Department = *patch.Department
	}
	if patch.HourlyRate != nil {
		staff.HourlyRate = *patch.HourlyRate
	}
	if patch.EndDate != nil {
		staff.EndDate = patch.EndDate
	}
	if patch.Active != nil {
		staff.Active = *patch.Active
	}

	if err := s.db.Save(staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// DeleteStaff soft-deletes a staff record.
func (s *StaffService) DeleteStaff(tenantID, staffID uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.Where("tenant_id = ?", tenantID).Delete(&model.Staff{}, staffID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaffNotFound
	}
	return nil
}

// AvailabilityInput is one recurring weekly window.
type AvailabilityInput struct {
	DayOfWeek model.Weekday   `json:"day_of_week"`
	StartTime model.TimeOfDay `json:"start_time"`
	EndTime   model.TimeOfDay `json:"end_time"`
}

// AddAvailability declares a new weekly window for a staff member.
func (s *StaffService) AddAvailability(tenantID, staffID uint, in AvailabilityInput) (*model.StaffAvailability, error) {
	if !in.DayOfWeek.Valid() {
		return nil, fmt.Errorf("%w: day_of_week must be 1 (Monday) .. 7 (Sunday)", ErrValidation)
	}
	if !in.StartTime.Before(in.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	if _, err := s.GetStaff(tenantID, staffID); err != nil {
		return nil, err
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	window := &model.StaffAvailability{
		StaffID:   staffID,
		DayOfWeek: in.DayOfWeek,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Active:    true,
	}
	if err := s.db.Create(window).Error; err != nil {
		return nil, err
	}
	return window, nil
}

// RemoveAvailability deletes one weekly window.
func (s *StaffService) RemoveAvailability(tenantID, staffID, availabilityID uint) error {
	if _, err := s.GetStaff(tenantID, staffID); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	result := s.db.Where("staff_id = ?", staffID).Delete(&model.StaffAvailability{}, availabilityID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

// SetAvailabilityActive toggles one window's active flag without deleting the
// declaration.
func (s *StaffService) SetAvailabilityActive(tenantID, staffID, availabilityID uint, active bool) error {
	if _, err := s.GetStaff(tenantID, staffID); err != nil {
		return err
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	result := s.db.Model(&model.StaffAvailability{}).
		Where("id = ? AND staff_id = ?", availabilityID, staffID).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

// FindStaffForUser resolves the staff record backing a user account by email
// match within the tenant. Staff-facing endpoints use it to scope feeds to
// the caller's own record.
func (s *StaffService) FindStaffForUser(tenantID, userID uint) (*model.Staff, error) {
	var user model.User
	if err := s.db.Where("tenant_id = ?", tenantID).First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var staff model.Staff
	err := s.db.Where("tenant_id = ? AND email = ?", tenantID, user.Email).First(&staff).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	return &staff, nil
}

// FindUserForStaff matches a staff record to its login-capable user account
// by email within the tenant, when one exists.
func (s *StaffService) FindUserForStaff(tenantID, staffID uint) (*model.User, error) {
	staff, err := s.GetStaff(tenantID, staffID)
	if err != nil {
		return nil, err
	}

	var user model.User
	err = s.db.Where("tenant_id = ? AND email = ?", tenantID, staff.Email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
