package service

import (
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"gorm.io/gorm"
)

// AnalyticsService produces the aggregate numbers the dashboard shows. All
// reads, no mutation.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates an AnalyticsService.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// TenantSummary is the top-level dashboard card.
type TenantSummary struct {
	TenantID         uint  `json:"tenant_id"`
	ActiveStaff      int64 `json:"active_staff"`
	TotalStaff       int64 `json:"total_staff"`
	DraftRosters     int64 `json:"draft_rosters"`
	PublishedRosters int64 `json:"published_rosters"`
	Templates        int64 `json:"templates"`
	TotalShifts      int64 `json:"total_shifts"`
}

// Summary aggregates tenant-wide counts.
func (s *AnalyticsService) Summary(tenantID uint) (*TenantSummary, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	summary := &TenantSummary{TenantID: tenantID}

	if err := s.db.Model(&model.Staff{}).
		Where("tenant_id = ?", tenantID).
		Count(&summary.TotalStaff).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Staff{}).
		Where("tenant_id = ? AND active = ?", tenantID, true).
		Count(&summary.ActiveStaff).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Roster{}).
		Where("tenant_id = ? AND is_template = ? AND is_published = ?", tenantID, false, false).
		Count(&summary.DraftRosters).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Roster{}).
		Where("tenant_id = ? AND is_template = ? AND is_published = ?", tenantID, false, true).
		Count(&summary.PublishedRosters).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Roster{}).
		Where("tenant_id = ? AND is_template = ?", tenantID, true).
		Count(&summary.Templates).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Shift{}).
		Joins("JOIN rosters ON rosters.id = shifts.roster_id").
		Where("rosters.tenant_id = ? AND rosters.is_template = ?", tenantID, false).
		Count(&summary.TotalShifts).Error; err != nil {
		return nil, err
	}

	prometheus.UpdateActiveStaff(tenantID, int(summary.ActiveStaff))
	prometheus.UpdatePublishedRosters(tenantID, int(summary.PublishedRosters))

	return summary, nil
}

// RosterStats aggregates one roster's shifts.
type RosterStats struct {
	RosterID     uint              `json:"roster_id"`
	ShiftCount   int               `json:"shift_count"`
	Confirmed    int               `json:"confirmed"`
	TotalHours   float64           `json:"total_hours"`
	HoursByStaff []StaffHoursEntry `json:"hours_by_staff"`
}

// StaffHoursEntry is one staff member's scheduled hours.
type StaffHoursEntry struct {
	StaffID   uint    `json:"staff_id"`
	StaffName string  `json:"staff_name"`
	Shifts    int     `json:"shifts"`
	Hours     float64 `json:"hours"`
}

// ForRoster computes per-roster shift counts and scheduled hours, broken down
// by staff member. Hours are computed in process rather than in SQL so the
// half-open interval arithmetic matches the conflict checker's.
func (s *AnalyticsService) ForRoster(tenantID, rosterID uint) (*RosterStats, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var roster model.Roster
	err := s.db.
		Preload("Shifts").
		Preload("Shifts.Staff").
		Where("tenant_id = ?", tenantID).
		First(&roster, rosterID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRosterNotFound
		}
		return nil, err
	}

	stats := &RosterStats{RosterID: roster.ID}
	byStaff := make(map[uint]*StaffHoursEntry)
	for i := range roster.Shifts {
		shift := &roster.Shifts[i]
		hours := shift.Duration().Hours()

		stats.ShiftCount++
		stats.TotalHours += hours
		if shift.IsConfirmed {
			stats.Confirmed++
		}

		entry, ok := byStaff[shift.StaffID]
		if !ok {
			entry = &StaffHoursEntry{StaffID: shift.StaffID, StaffName: shift.Staff.Name}
			byStaff[shift.StaffID] = entry
		}
		entry.Shifts++
		entry.Hours += hours
	}

	for _, entry := range byStaff {
		stats.HoursByStaff = append(stats.HoursByStaff, *entry)
	}

	return stats, nil
}

// StaffHours totals one staff member's scheduled hours over [from, to).
func (s *AnalyticsService) StaffHours(tenantID, staffID uint, from, to time.Time) (float64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	if err := staffInTenant(s.db, tenantID, staffID); err != nil {
		return 0, err
	}

	var shifts []model.Shift
	err := s.db.Model(&model.Shift{}).
		Joins("JOIN rosters ON rosters.id = shifts.roster_id").
		Where("rosters.is_template = ?", false).
		Where("shifts.staff_id = ? AND shifts.start_time >= ? AND shifts.start_time < ?", staffID, from, to).
		Find(&shifts).Error
	if err != nil {
		return 0, err
	}

	var hours float64
	for i := range shifts {
		hours += shifts[i].Duration().Hours()
	}
	return hours, nil
}
