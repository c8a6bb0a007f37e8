package service

import (
	"fmt"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"gorm.io/gorm"
)

// ConflictChecker is the read-only validation gate run before any shift is
// persisted or updated. It has no side effects; the roster lifecycle decides
// what to do with its verdict.
type ConflictChecker struct {
	db *gorm.DB
}

// NewConflictChecker creates a checker bound to the given handle.
func NewConflictChecker(db *gorm.DB) *ConflictChecker {
	return &ConflictChecker{db: db}
}

// WithTx returns a checker bound to the transaction so that check-then-write
// mutations read and write through the same connection.
func (c *ConflictChecker) WithTx(tx *gorm.DB) *ConflictChecker {
	return &ConflictChecker{db: tx}
}

// CheckShiftConflicts validates a proposed [start, end) interval for a staff
// member. The caller must already have verified start < end.
//
// Step 1 rejects overlap with any existing shift for the staff member,
// system-wide across all live rosters (template rosters are excluded).
// Intervals are half-open, so a shift ending exactly when another starts is
// not a conflict. excludeShiftID skips the shift being updated; pass 0 for
// new shifts.
//
// Step 2 requires the interval to fall entirely inside at least one active
// availability window for the start day. Days of week follow ISO 8601
// (Monday=1..Sunday=7). Only the start day is evaluated: a shift that crosses
// midnight is checked against the start day's windows with both clock times,
// the same way a single-day shift is.
func (c *ConflictChecker) CheckShiftConflicts(staffID uint, start, end time.Time, excludeShiftID uint) error {
	if conflict, err := c.findOverlap(staffID, start, end, excludeShiftID); err != nil {
		return err
	} else if conflict != nil {
		prometheus.RecordShiftConflict("overlap")
		return fmt.Errorf("%w: existing shift %s - %s",
			ErrShiftOverlap,
			conflict.StartTime.Format(time.RFC3339),
			conflict.EndTime.Format(time.RFC3339))
	}

	return c.checkAvailability(staffID, start, end)
}

// findOverlap returns the first stored shift whose half-open interval
// intersects [start, end), or nil.
func (c *ConflictChecker) findOverlap(staffID uint, start, end time.Time, excludeShiftID uint) (*model.Shift, error) {
	query := c.db.Model(&model.Shift{}).
		Joins("JOIN rosters ON rosters.id = shifts.roster_id").
		Where("shifts.staff_id = ?", staffID).
		Where("rosters.is_template = ?", false).
		Where("shifts.start_time < ? AND shifts.end_time > ?", end, start)

	if excludeShiftID != 0 {
		query = query.Where("shifts.id <> ?", excludeShiftID)
	}

	var conflicts []model.Shift
	if err := query.Limit(1).Find(&conflicts).Error; err != nil {
		return nil, err
	}
	if len(conflicts) == 0 {
		return nil, nil
	}
	return &conflicts[0], nil
}

// checkAvailability verifies the interval sits inside an active window for
// the start day.
func (c *ConflictChecker) checkAvailability(staffID uint, start, end time.Time) error {
	day := model.WeekdayFromTime(start)
	startClock := model.TimeOfDayFromTime(start)
	endClock := model.TimeOfDayFromTime(end)

	var windows []model.StaffAvailability
	err := c.db.
		Where("staff_id = ? AND day_of_week = ? AND active = ?", staffID, day, true).
		Find(&windows).Error
	if err != nil {
		return err
	}

	for _, w := range windows {
		if !w.StartTime.After(startClock) && !w.EndTime.Before(endClock) {
			return nil
		}
	}

	prometheus.RecordShiftConflict("availability")
	return fmt.Errorf("%w: no active window on %s contains %s - %s",
		ErrOutsideAvailability, day, startClock, endClock)
}

// ShiftInput is one proposed shift in a batch (initial roster creation or
// template instantiation).
type ShiftInput struct {
	StaffID   uint      `json:"staff_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Position  string    `json:"position"`
	Notes     string    `json:"notes"`
}

// CheckBatch validates a candidate set of shifts: every entry must have a
// valid interval, must not overlap any other entry for the same staff member,
// and must pass CheckShiftConflicts against the stored shifts.
func (c *ConflictChecker) CheckBatch(shifts []ShiftInput) error {
	for i := range shifts {
		if !shifts[i].StartTime.Before(shifts[i].EndTime) {
			return fmt.Errorf("%w: shift %d for staff %d", ErrInvalidTimeRange, i, shifts[i].StaffID)
		}
	}

	for i := range shifts {
		for j := i + 1; j < len(shifts); j++ {
			if shifts[i].StaffID != shifts[j].StaffID {
				continue
			}
			if shifts[i].StartTime.Before(shifts[j].EndTime) && shifts[j].StartTime.Before(shifts[i].EndTime) {
				prometheus.RecordShiftConflict("overlap")
				return fmt.Errorf("%w: shifts %d and %d in the batch overlap for staff %d",
					ErrShiftOverlap, i, j, shifts[i].StaffID)
			}
		}
	}

	for i := range shifts {
		if err := c.CheckShiftConflicts(shifts[i].StaffID, shifts[i].StartTime, shifts[i].EndTime, 0); err != nil {
			return fmt.Errorf("shift %d: %w", i, err)
		}
	}

	return nil
}
