package service

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
)

func weekRange() (time.Time, time.Time) {
	return monday, monday.AddDate(0, 0, 7)
}

// draftWithShift creates a draft roster holding one shift for the staff
// member, Monday 09:00-13:00.
func draftWithShift(t *testing.T, svc *RosterService, tenantID, staffID uint) *model.Roster {
	t.Helper()

	start, end := weekRange()
	roster, err := svc.CreateRoster(tenantID, CreateRosterRequest{
		Name:      "week 10",
		StartDate: start,
		EndDate:   end,
		Shifts: []ShiftInput{
			{StaffID: staffID, StartTime: hoursFrom(9), EndTime: hoursFrom(13)},
		},
	})
	if err != nil {
		t.Fatalf("create draft roster: %v", err)
	}
	return roster
}

func TestCreateRosterValidation(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	svc := newTestRosterService(db)

	start, end := weekRange()

	if _, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "", StartDate: start, EndDate: end,
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty name: got %v, want ErrValidation", err)
	}

	if _, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "bad", StartDate: end, EndDate: start,
	}); !errors.Is(err, ErrInvalidDateRange) {
		t.Errorf("inverted dates: got %v, want ErrInvalidDateRange", err)
	}
}

func TestCreateRosterRangeOverlap(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	svc := newTestRosterService(db)

	start, end := weekRange()
	if _, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "week 10", StartDate: start, EndDate: end,
	}); err != nil {
		t.Fatalf("first roster: %v", err)
	}

	// A second live roster intersecting the range is rejected.
	if _, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "week 10 again", StartDate: start.AddDate(0, 0, 3), EndDate: end.AddDate(0, 0, 3),
	}); !errors.Is(err, ErrRosterOverlap) {
		t.Errorf("overlapping live roster: got %v, want ErrRosterOverlap", err)
	}

	// Templates may coincide with anything.
	if _, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "standard week", StartDate: start, EndDate: end, IsTemplate: true,
	}); err != nil {
		t.Errorf("template over the same range should be allowed: %v", err)
	}

	// Another tenant is unaffected.
	other := seedTenant(t, db, "globex")
	if _, err := svc.CreateRoster(other.ID, CreateRosterRequest{
		Name: "week 10", StartDate: start, EndDate: end,
	}); err != nil {
		t.Errorf("same range in another tenant should be allowed: %v", err)
	}
}

func TestCreateRosterRejectsBadBatch(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	start, end := weekRange()
	_, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name:      "week 10",
		StartDate: start,
		EndDate:   end,
		Shifts: []ShiftInput{
			{StaffID: alice.ID, StartTime: hoursFrom(9), EndTime: hoursFrom(13)},
			{StaffID: alice.ID, StartTime: hoursFrom(12), EndTime: hoursFrom(16)},
		},
	})
	if !errors.Is(err, ErrShiftOverlap) {
		t.Fatalf("overlapping batch: got %v, want ErrShiftOverlap", err)
	}

	// The rejected roster must not exist: the whole create is atomic.
	var count int64
	if err := db.Model(&model.Roster{}).Where("tenant_id = ?", tenant.ID).Count(&count).Error; err != nil {
		t.Fatalf("count rosters: %v", err)
	}
	if count != 0 {
		t.Errorf("rejected creation left %d roster rows behind", count)
	}
}

func TestAddShiftToRoster(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)

	shift, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: alice.ID, StartTime: hoursFrom(13), EndTime: hoursFrom(17),
	})
	if err != nil {
		t.Fatalf("back-to-back shift should be accepted: %v", err)
	}
	if shift.IsConfirmed {
		t.Error("new shifts must start unconfirmed")
	}

	// The staff member gets an in-app notification.
	var notifications int64
	if err := db.Model(&model.Notification{}).
		Where("staff_id = ? AND event = ?", alice.ID, model.EventShiftCreated).
		Count(&notifications).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if notifications == 0 {
		t.Error("expected a shift-created notification")
	}

	// A conflicting add is rejected and persists nothing.
	_, err = svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: alice.ID, StartTime: hoursFrom(10), EndTime: hoursFrom(12),
	})
	if !errors.Is(err, ErrShiftOverlap) {
		t.Fatalf("overlapping add: got %v, want ErrShiftOverlap", err)
	}
	var shifts int64
	if err := db.Model(&model.Shift{}).Where("roster_id = ?", roster.ID).Count(&shifts).Error; err != nil {
		t.Fatalf("count shifts: %v", err)
	}
	if shifts != 2 {
		t.Errorf("expected 2 shifts after rejected add, got %d", shifts)
	}

	if _, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: alice.ID, StartTime: hoursFrom(20), EndTime: hoursFrom(18),
	}); !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("inverted interval: got %v, want ErrInvalidTimeRange", err)
	}
}

func TestAddShiftUnknownStaffRejected(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)

	other := seedTenant(t, db, "globex")
	mallory := seedStaff(t, db, other.ID, "mallory")

	if _, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: mallory.ID, StartTime: hoursFrom(14), EndTime: hoursFrom(18),
	}); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("staff from another tenant: got %v, want ErrStaffNotFound", err)
	}

	if _, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: 9999, StartTime: hoursFrom(14), EndTime: hoursFrom(18),
	}); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("unknown staff: got %v, want ErrStaffNotFound", err)
	}
}

func TestUpdateShiftRevalidatesTimes(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)
	second, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: alice.ID, StartTime: hoursFrom(14), EndTime: hoursFrom(18),
	})
	if err != nil {
		t.Fatalf("add second shift: %v", err)
	}

	// Moving the second shift onto the first must fail, even when only the
	// start time changes.
	newStart := hoursFrom(12)
	if _, err := svc.UpdateShift(tenant.ID, second.ID, ShiftPatch{StartTime: &newStart}); !errors.Is(err, ErrShiftOverlap) {
		t.Errorf("overlapping update: got %v, want ErrShiftOverlap", err)
	}

	// A clean move excludes the shift itself from the check.
	cleanStart, cleanEnd := hoursFrom(15), hoursFrom(19)
	updated, err := svc.UpdateShift(tenant.ID, second.ID, ShiftPatch{StartTime: &cleanStart, EndTime: &cleanEnd})
	if err != nil {
		t.Fatalf("clean move rejected: %v", err)
	}
	if !updated.StartTime.Equal(cleanStart) || !updated.EndTime.Equal(cleanEnd) {
		t.Errorf("updated interval = %v-%v, want %v-%v",
			updated.StartTime, updated.EndTime, cleanStart, cleanEnd)
	}

	// Non-time fields alone skip the conflict check entirely.
	position := "supervisor"
	updated, err = svc.UpdateShift(tenant.ID, second.ID, ShiftPatch{Position: &position})
	if err != nil {
		t.Fatalf("position-only update rejected: %v", err)
	}
	if updated.Position != position {
		t.Errorf("position = %q, want %q", updated.Position, position)
	}
}

func TestUpdateShiftCrossTenantHidden(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)
	shiftID := roster.Shifts[0].ID

	other := seedTenant(t, db, "globex")
	position := "peek"
	if _, err := svc.UpdateShift(other.ID, shiftID, ShiftPatch{Position: &position}); !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("cross-tenant shift access: got %v, want ErrShiftNotFound", err)
	}
}

func TestPublishRoster(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	bob := seedStaff(t, db, tenant.ID, "bob")
	allWeekAvailability(t, db, alice.ID)
	allWeekAvailability(t, db, bob.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)
	if _, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: bob.ID, StartTime: hoursFrom(9), EndTime: hoursFrom(17),
	}); err != nil {
		t.Fatalf("add bob's shift: %v", err)
	}
	if _, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: bob.ID, StartTime: hoursFrom(24 + 9), EndTime: hoursFrom(24 + 17),
	}); err != nil {
		t.Fatalf("add bob's second shift: %v", err)
	}

	// Unconfirmed shifts block publication.
	if _, err := svc.PublishRoster(tenant.ID, roster.ID); !errors.Is(err, ErrShiftsUnconfirmed) {
		t.Fatalf("publish with unconfirmed shifts: got %v, want ErrShiftsUnconfirmed", err)
	}

	var shifts []model.Shift
	if err := db.Where("roster_id = ?", roster.ID).Find(&shifts).Error; err != nil {
		t.Fatalf("load shifts: %v", err)
	}
	for _, s := range shifts {
		if _, err := svc.ConfirmShift(tenant.ID, s.ID, 0); err != nil {
			t.Fatalf("confirm shift %d: %v", s.ID, err)
		}
	}

	published, err := svc.PublishRoster(tenant.ID, roster.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublished {
		t.Error("roster should be flagged published")
	}

	// One publish notification per distinct staff member, not per shift.
	var count int64
	if err := db.Model(&model.Notification{}).
		Where("roster_id = ? AND event = ?", roster.ID, model.EventRosterPublished).
		Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	if count != 2 {
		t.Errorf("publish notifications = %d, want 2 (deduplicated per staff)", count)
	}

	// Publication is one-way and not repeatable.
	if _, err := svc.PublishRoster(tenant.ID, roster.ID); !errors.Is(err, ErrRosterAlreadyPublished) {
		t.Errorf("second publish: got %v, want ErrRosterAlreadyPublished", err)
	}
}

func TestPublishEmptyRoster(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	svc := newTestRosterService(db)

	start, end := weekRange()
	roster, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "empty week", StartDate: start, EndDate: end,
	})
	if err != nil {
		t.Fatalf("create roster: %v", err)
	}

	if _, err := svc.PublishRoster(tenant.ID, roster.ID); !errors.Is(err, ErrRosterEmpty) {
		t.Errorf("publish empty roster: got %v, want ErrRosterEmpty", err)
	}
}

func TestPublishedRosterIsImmutable(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)
	shiftID := roster.Shifts[0].ID
	if _, err := svc.ConfirmShift(tenant.ID, shiftID, 0); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.PublishRoster(tenant.ID, roster.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if _, err := svc.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: alice.ID, StartTime: hoursFrom(14), EndTime: hoursFrom(18),
	}); !errors.Is(err, ErrRosterPublished) {
		t.Errorf("add to published roster: got %v, want ErrRosterPublished", err)
	}

	newEnd := hoursFrom(14)
	if _, err := svc.UpdateShift(tenant.ID, shiftID, ShiftPatch{EndTime: &newEnd}); !errors.Is(err, ErrRosterPublished) {
		t.Errorf("update published shift: got %v, want ErrRosterPublished", err)
	}

	if err := svc.DeleteShift(tenant.ID, shiftID); !errors.Is(err, ErrRosterPublished) {
		t.Errorf("delete published shift: got %v, want ErrRosterPublished", err)
	}

	if err := svc.DeleteRoster(tenant.ID, roster.ID); !errors.Is(err, ErrRosterPublished) {
		t.Errorf("delete published roster: got %v, want ErrRosterPublished", err)
	}
}

func TestDeleteRosterRemovesShifts(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)

	if err := svc.DeleteRoster(tenant.ID, roster.ID); err != nil {
		t.Fatalf("delete draft roster: %v", err)
	}

	var shifts int64
	if err := db.Model(&model.Shift{}).Where("roster_id = ?", roster.ID).Count(&shifts).Error; err != nil {
		t.Fatalf("count shifts: %v", err)
	}
	if shifts != 0 {
		t.Errorf("%d shift rows survived roster deletion", shifts)
	}
}

func TestCreateRosterFromTemplate(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)
	svc := newTestRosterService(db)

	start, end := weekRange()
	template, err := svc.CreateRoster(tenant.ID, CreateRosterRequest{
		Name:       "standard week",
		StartDate:  start,
		EndDate:    end,
		IsTemplate: true,
		Shifts: []ShiftInput{
			// Monday 09:00-13:00 and Wednesday 14:00-20:00.
			{StaffID: alice.ID, StartTime: hoursFrom(9), EndTime: hoursFrom(13)},
			{StaffID: alice.ID, StartTime: hoursFrom(48 + 14), EndTime: hoursFrom(48 + 20)},
		},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	// Instantiate two weeks later.
	newStart := start.AddDate(0, 0, 14)
	newEnd := end.AddDate(0, 0, 14)
	roster, err := svc.CreateRosterFromTemplate(tenant.ID, template.ID, newStart, newEnd)
	if err != nil {
		t.Fatalf("instantiate template: %v", err)
	}

	if roster.IsTemplate {
		t.Error("instantiated roster must be live, not a template")
	}
	if roster.IsPublished {
		t.Error("instantiated roster must start as a draft")
	}
	if len(roster.Shifts) != 2 {
		t.Fatalf("instantiated roster has %d shifts, want 2", len(roster.Shifts))
	}

	// Shifts keep their offset from the start date and their duration.
	shifts := roster.Shifts
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].StartTime.Before(shifts[j].StartTime) })

	wantFirst := newStart.Add(9 * time.Hour)
	if !shifts[0].StartTime.Equal(wantFirst) {
		t.Errorf("first shift starts %v, want %v", shifts[0].StartTime, wantFirst)
	}
	if shifts[0].Duration() != 4*time.Hour {
		t.Errorf("first shift duration = %v, want 4h", shifts[0].Duration())
	}
	wantSecond := newStart.Add(62 * time.Hour)
	if !shifts[1].StartTime.Equal(wantSecond) {
		t.Errorf("second shift starts %v, want %v", shifts[1].StartTime, wantSecond)
	}
	if shifts[1].Duration() != 6*time.Hour {
		t.Errorf("second shift duration = %v, want 6h", shifts[1].Duration())
	}

	// A live roster cannot be instantiated as a template.
	if _, err := svc.CreateRosterFromTemplate(tenant.ID, roster.ID, newStart.AddDate(0, 0, 14), newEnd.AddDate(0, 0, 14)); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("instantiating a live roster: got %v, want ErrTemplateNotFound", err)
	}
}

func TestConfirmShiftOwnership(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	bob := seedStaff(t, db, tenant.ID, "bob")
	allWeekAvailability(t, db, alice.ID)
	allWeekAvailability(t, db, bob.ID)
	svc := newTestRosterService(db)

	roster := draftWithShift(t, svc, tenant.ID, alice.ID)
	shiftID := roster.Shifts[0].ID

	// A staff member cannot confirm a colleague's shift.
	if _, err := svc.ConfirmShift(tenant.ID, shiftID, bob.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("confirming another staff member's shift: got %v, want ErrAccessDenied", err)
	}

	var reloaded model.Shift
	if err := db.First(&reloaded, shiftID).Error; err != nil {
		t.Fatalf("reload shift: %v", err)
	}
	if reloaded.IsConfirmed {
		t.Error("shift should remain unconfirmed after a denied attempt")
	}

	if _, err := svc.ConfirmShift(tenant.ID, shiftID, alice.ID); err != nil {
		t.Fatalf("confirming own shift: %v", err)
	}
}
