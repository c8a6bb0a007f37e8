package service

import (
	"fmt"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RosterService owns the roster and shift mutation surface and enforces the
// draft -> published state machine. Every check-then-write mutation runs
// inside a transaction so the conflict check and the write see the same
// state.
type RosterService struct {
	db         *gorm.DB
	checker    *ConflictChecker
	dispatcher Dispatcher
	log        *zap.Logger
}

// NewRosterService creates a RosterService with its collaborators injected.
func NewRosterService(db *gorm.DB, dispatcher Dispatcher, log *zap.Logger) *RosterService {
	return &RosterService{
		db:         db,
		checker:    NewConflictChecker(db),
		dispatcher: dispatcher,
		log:        log,
	}
}

// CreateRosterRequest carries the fields for a new roster plus an optional
// initial batch of shifts.
type CreateRosterRequest struct {
	Name       string       `json:"name"`
	StartDate  time.Time    `json:"start_date"`
	EndDate    time.Time    `json:"end_date"`
	IsTemplate bool         `json:"is_template"`
	Notes      string       `json:"notes"`
	Shifts     []ShiftInput `json:"shifts,omitempty"`
}

// ShiftPatch applies only the fields that are set.
type ShiftPatch struct {
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	Position    *string    `json:"position,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	IsConfirmed *bool      `json:"is_confirmed,omitempty"`
}

// CreateRoster persists a roster and its initial shift batch atomically. The
// batch is validated the same way individual shift mutations are: internally
// non-overlapping per staff member and checked against stored shifts.
func (s *RosterService) CreateRoster(tenantID uint, req CreateRosterRequest) (*model.Roster, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, fmt.Errorf("%w: roster %q", ErrInvalidDateRange, req.Name)
	}

	prometheus.RecordRosterOperation("create")

	roster := &model.Roster{
		TenantID:   tenantID,
		Name:       req.Name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		IsTemplate: req.IsTemplate,
		Notes:      req.Notes,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Templates may coincide with anything; live rosters must not
		// overlap another live roster in the tenant.
		if !req.IsTemplate {
			if err := rosterRangeFree(tx, tenantID, req.StartDate, req.EndDate, 0); err != nil {
				return err
			}
		}

		if len(req.Shifts) > 0 {
			if err := s.checker.WithTx(tx).CheckBatch(req.Shifts); err != nil {
				return err
			}
		}

		if err := tx.Create(roster).Error; err != nil {
			return err
		}

		for _, in := range req.Shifts {
			shift := model.Shift{
				RosterID:  roster.ID,
				StaffID:   in.StaffID,
				StartTime: in.StartTime,
				EndTime:   in.EndTime,
				Position:  in.Position,
				Notes:     in.Notes,
			}
			if err := tx.Create(&shift).Error; err != nil {
				return err
			}
			roster.Shifts = append(roster.Shifts, shift)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Roster created",
		zap.Uint("roster_id", roster.ID),
		zap.Uint("tenant_id", tenantID),
		zap.Bool("is_template", roster.IsTemplate),
		zap.Int("initial_shifts", len(roster.Shifts)))

	return roster, nil
}

// ListRosters returns the tenant's rosters, optionally restricted to live
// rosters or templates.
func (s *RosterService) ListRosters(tenantID uint, templatesOnly *bool) ([]model.Roster, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := s.db.Where("tenant_id = ?", tenantID)
	if templatesOnly != nil {
		query = query.Where("is_template = ?", *templatesOnly)
	}

	var rosters []model.Roster
	if err := query.Order("start_date").Find(&rosters).Error; err != nil {
		return nil, err
	}
	return rosters, nil
}

// GetRosterWithShifts loads a roster with its shifts and their staff joined:
// the read query export and reporting consume.
func (s *RosterService) GetRosterWithShifts(tenantID, rosterID uint) (*model.Roster, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var roster model.Roster
	err := s.db.
		Preload("Shifts", func(db *gorm.DB) *gorm.DB { return db.Order("shifts.start_time") }).
		Preload("Shifts.Staff").
		Where("tenant_id = ?", tenantID).
		First(&roster, rosterID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRosterNotFound
		}
		return nil, err
	}
	return &roster, nil
}

// AddShiftToRoster validates and persists one new shift in a draft roster.
// New shifts always start unconfirmed.
func (s *RosterService) AddShiftToRoster(tenantID, rosterID uint, in ShiftInput) (*model.Shift, error) {
	if !in.StartTime.Before(in.EndTime) {
		return nil, ErrInvalidTimeRange
	}

	prometheus.RecordShiftOperation("create")

	var shift *model.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		roster, err := lockRoster(tx, tenantID, rosterID)
		if err != nil {
			return err
		}
		if roster.IsPublished {
			return ErrRosterPublished
		}

		if err := staffInTenant(tx, tenantID, in.StaffID); err != nil {
			return err
		}

		if err := s.checker.WithTx(tx).CheckShiftConflicts(in.StaffID, in.StartTime, in.EndTime, 0); err != nil {
			return err
		}

		shift = &model.Shift{
			RosterID:    rosterID,
			StaffID:     in.StaffID,
			StartTime:   in.StartTime,
			EndTime:     in.EndTime,
			Position:    in.Position,
			Notes:       in.Notes,
			IsConfirmed: false,
		}
		return tx.Create(shift).Error
	})
	if err != nil {
		return nil, err
	}

	s.notify(model.EventShiftCreated, tenantID, &rosterID, []uint{in.StaffID},
		fmt.Sprintf("A new shift was added for you: %s - %s",
			in.StartTime.Format(time.RFC3339), in.EndTime.Format(time.RFC3339)))

	return shift, nil
}

// UpdateShift applies a partial update to a draft-roster shift. Whenever the
// effective time range changes, ordering is re-validated and the conflict
// check re-runs excluding the shift itself.
func (s *RosterService) UpdateShift(tenantID, shiftID uint, patch ShiftPatch) (*model.Shift, error) {
	prometheus.RecordShiftOperation("update")

	var updated *model.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		shift, roster, err := loadShift(tx, tenantID, shiftID)
		if err != nil {
			return err
		}
		if roster.IsPublished {
			return ErrRosterPublished
		}

		start, end := shift.StartTime, shift.EndTime
		timesChanged := false
		if patch.StartTime != nil {
			start = *patch.StartTime
			timesChanged = true
		}
		if patch.EndTime != nil {
			end = *patch.EndTime
			timesChanged = true
		}

		if timesChanged {
			if !start.Before(end) {
				return ErrInvalidTimeRange
			}
			if err := s.checker.WithTx(tx).CheckShiftConflicts(shift.StaffID, start, end, shift.ID); err != nil {
				return err
			}
			shift.StartTime = start
			shift.EndTime = end
		}
		if patch.Position != nil {
			shift.Position = *patch.Position
		}
		if patch.Notes != nil {
			shift.Notes = *patch.Notes
		}
		if patch.IsConfirmed != nil {
			shift.IsConfirmed = *patch.IsConfirmed
		}

		if err := tx.Save(shift).Error; err != nil {
			return err
		}
		updated = shift
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(model.EventShiftUpdated, tenantID, &updated.RosterID, []uint{updated.StaffID},
		fmt.Sprintf("Your shift was updated: %s - %s",
			updated.StartTime.Format(time.RFC3339), updated.EndTime.Format(time.RFC3339)))

	return updated, nil
}

// ConfirmShift marks one shift as confirmed by its staff member. A non-zero
// staffID restricts confirmation to that staff member's own shifts; managers
// pass zero to confirm on anyone's behalf.
func (s *RosterService) ConfirmShift(tenantID, shiftID, staffID uint) (*model.Shift, error) {
	if staffID != 0 {
		shift, _, err := loadShift(s.db, tenantID, shiftID)
		if err != nil {
			return nil, err
		}
		if shift.StaffID != staffID {
			return nil, fmt.Errorf("%w: shift belongs to another staff member", ErrAccessDenied)
		}
	}

	confirmed := true
	prometheus.RecordShiftOperation("confirm")
	return s.UpdateShift(tenantID, shiftID, ShiftPatch{IsConfirmed: &confirmed})
}

// DeleteShift hard-deletes a shift while its roster is still a draft.
func (s *RosterService) DeleteShift(tenantID, shiftID uint) error {
	prometheus.RecordShiftOperation("delete")

	var staffID uint
	var rosterID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		shift, roster, err := loadShift(tx, tenantID, shiftID)
		if err != nil {
			return err
		}
		if roster.IsPublished {
			return ErrRosterPublished
		}
		staffID = shift.StaffID
		rosterID = shift.RosterID
		return tx.Delete(&model.Shift{}, shift.ID).Error
	})
	if err != nil {
		return err
	}

	s.notify(model.EventShiftDeleted, tenantID, &rosterID, []uint{staffID},
		"One of your shifts was removed from the roster")
	return nil
}

// DeleteRoster hard-deletes a draft roster and all its shifts.
func (s *RosterService) DeleteRoster(tenantID, rosterID uint) error {
	prometheus.RecordRosterOperation("delete")

	return s.db.Transaction(func(tx *gorm.DB) error {
		roster, err := lockRoster(tx, tenantID, rosterID)
		if err != nil {
			return err
		}
		if roster.IsPublished {
			return ErrRosterPublished
		}
		if err := tx.Where("roster_id = ?", roster.ID).Delete(&model.Shift{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Roster{}, roster.ID).Error
	})
}

// PublishRoster performs the one-way draft -> published transition. A roster
// must have at least one shift and every shift must be confirmed. On success
// the notification fan-out to every staff member with a shift in the roster
// is fire-and-forget: a delivery failure is logged, never propagated.
func (s *RosterService) PublishRoster(tenantID, rosterID uint) (*model.Roster, error) {
	prometheus.RecordRosterOperation("publish")

	var published *model.Roster
	var staffIDs []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		roster, err := lockRoster(tx, tenantID, rosterID)
		if err != nil {
			return err
		}
		if roster.IsPublished {
			return ErrRosterAlreadyPublished
		}

		var shifts []model.Shift
		if err := tx.Where("roster_id = ?", roster.ID).Find(&shifts).Error; err != nil {
			return err
		}
		if len(shifts) == 0 {
			return ErrRosterEmpty
		}
		for _, shift := range shifts {
			if !shift.IsConfirmed {
				return fmt.Errorf("%w: shift %d is unconfirmed", ErrShiftsUnconfirmed, shift.ID)
			}
		}

		if err := tx.Model(roster).Update("is_published", true).Error; err != nil {
			return err
		}
		roster.IsPublished = true

		seen := make(map[uint]bool)
		for _, shift := range shifts {
			if !seen[shift.StaffID] {
				seen[shift.StaffID] = true
				staffIDs = append(staffIDs, shift.StaffID)
			}
		}
		published = roster
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Roster published",
		zap.Uint("roster_id", published.ID),
		zap.Uint("tenant_id", tenantID),
		zap.Int("staff_notified", len(staffIDs)))

	s.notify(model.EventRosterPublished, tenantID, &published.ID, staffIDs,
		fmt.Sprintf("Roster %q has been published", published.Name))

	return published, nil
}

// CreateRosterFromTemplate instantiates a template as a new draft roster:
// each template shift keeps its offset from the template's start date and its
// duration, re-anchored to the new start date. The generated batch goes
// through the same validation as any other shift batch.
func (s *RosterService) CreateRosterFromTemplate(tenantID, templateID uint, startDate, endDate time.Time) (*model.Roster, error) {
	if !startDate.Before(endDate) {
		return nil, ErrInvalidDateRange
	}

	prometheus.RecordRosterOperation("from_template")

	var template model.Roster
	err := s.db.
		Preload("Shifts").
		Where("tenant_id = ? AND is_template = ?", tenantID, true).
		First(&template, templateID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	shifts := make([]ShiftInput, 0, len(template.Shifts))
	for _, ts := range template.Shifts {
		offset := ts.StartTime.Sub(template.StartDate)
		newStart := startDate.Add(offset)
		shifts = append(shifts, ShiftInput{
			StaffID:   ts.StaffID,
			StartTime: newStart,
			EndTime:   newStart.Add(ts.Duration()),
			Position:  ts.Position,
			Notes:     ts.Notes,
		})
	}

	return s.CreateRoster(tenantID, CreateRosterRequest{
		Name:      template.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Notes:     template.Notes,
		Shifts:    shifts,
	})
}

// notify hands an event to the dispatcher. Dispatch failures are logged and
// never affect the triggering operation.
func (s *RosterService) notify(event string, tenantID uint, rosterID *uint, staffIDs []uint, message string) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Dispatch(event, tenantID, rosterID, staffIDs, message); err != nil {
		prometheus.RecordNotification(event, "failed")
		s.log.Error("Notification dispatch failed",
			zap.String("event", event),
			zap.Uint("tenant_id", tenantID),
			zap.Error(err))
		return
	}
	prometheus.RecordNotification(event, "delivered")
}

// rosterRangeFree rejects a live roster whose inclusive date range intersects
// an existing live roster in the tenant.
func rosterRangeFree(tx *gorm.DB, tenantID uint, start, end time.Time, excludeRosterID uint) error {
	query := tx.Model(&model.Roster{}).
		Where("tenant_id = ? AND is_template = ?", tenantID, false).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeRosterID != 0 {
		query = query.Where("id <> ?", excludeRosterID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %s - %s", ErrRosterOverlap,
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return nil
}

// lockRoster loads a tenant's roster inside the transaction.
func lockRoster(tx *gorm.DB, tenantID, rosterID uint) (*model.Roster, error) {
	var roster model.Roster
	err := tx.Where("tenant_id = ?", tenantID).First(&roster, rosterID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRosterNotFound
		}
		return nil, err
	}
	return &roster, nil
}

// loadShift loads a shift together with its roster, scoped to the tenant.
func loadShift(tx *gorm.DB, tenantID, shiftID uint) (*model.Shift, *model.Roster, error) {
	var shift model.Shift
	if err := tx.First(&shift, shiftID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrShiftNotFound
		}
		return nil, nil, err
	}

	var roster model.Roster
	err := tx.Where("tenant_id = ?", tenantID).First(&roster, shift.RosterID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// The shift exists but belongs to another tenant's roster:
			// indistinguishable from absent for the caller.
			return nil, nil, ErrShiftNotFound
		}
		return nil, nil, err
	}
	return &shift, &roster, nil
}

// staffInTenant verifies the staff member exists, is active, and belongs to
// the tenant.
func staffInTenant(tx *gorm.DB, tenantID, staffID uint) error {
	var count int64
	err := tx.Model(&model.Staff{}).
		Where("id = ? AND tenant_id = ? AND active = ?", staffID, tenantID, true).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrStaffNotFound
	}
	return nil
}
