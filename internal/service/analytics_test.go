package service

import (
	"errors"
	"math"
	"testing"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
)

func TestAnalyticsSummary(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	bob := seedStaff(t, db, tenant.ID, "bob")
	allWeekAvailability(t, db, alice.ID)
	allWeekAvailability(t, db, bob.ID)

	if err := db.Model(&model.Staff{}).Where("id = ?", bob.ID).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate bob: %v", err)
	}

	rosters := newTestRosterService(db)
	draft := draftWithShift(t, rosters, tenant.ID, alice.ID)
	if _, err := rosters.ConfirmShift(tenant.ID, draft.Shifts[0].ID, 0); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := rosters.PublishRoster(tenant.ID, draft.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}

	start, end := weekRange()
	if _, err := rosters.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "template week", StartDate: start, EndDate: end, IsTemplate: true,
	}); err != nil {
		t.Fatalf("create template: %v", err)
	}
	if _, err := rosters.CreateRoster(tenant.ID, CreateRosterRequest{
		Name: "next week", StartDate: start.AddDate(0, 0, 7), EndDate: end.AddDate(0, 0, 7),
	}); err != nil {
		t.Fatalf("create second draft: %v", err)
	}

	svc := NewAnalyticsService(db)
	summary, err := svc.Summary(tenant.ID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalStaff != 2 || summary.ActiveStaff != 1 {
		t.Errorf("staff counts = %d/%d, want 2 total 1 active", summary.TotalStaff, summary.ActiveStaff)
	}
	if summary.PublishedRosters != 1 || summary.DraftRosters != 1 || summary.Templates != 1 {
		t.Errorf("roster counts = %d published %d draft %d templates, want 1/1/1",
			summary.PublishedRosters, summary.DraftRosters, summary.Templates)
	}
	if summary.TotalShifts != 1 {
		t.Errorf("total shifts = %d, want 1", summary.TotalShifts)
	}
}

func TestRosterStats(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	bob := seedStaff(t, db, tenant.ID, "bob")
	allWeekAvailability(t, db, alice.ID)
	allWeekAvailability(t, db, bob.ID)

	rosters := newTestRosterService(db)
	roster := draftWithShift(t, rosters, tenant.ID, alice.ID) // alice 4h
	if _, err := rosters.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: alice.ID, StartTime: hoursFrom(14), EndTime: hoursFrom(18), // alice +4h
	}); err != nil {
		t.Fatalf("add shift: %v", err)
	}
	second, err := rosters.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: bob.ID, StartTime: hoursFrom(9), EndTime: hoursFrom(15), // bob 6h
	})
	if err != nil {
		t.Fatalf("add bob's shift: %v", err)
	}
	if _, err := rosters.ConfirmShift(tenant.ID, second.ID, 0); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	svc := NewAnalyticsService(db)
	stats, err := svc.ForRoster(tenant.ID, roster.ID)
	if err != nil {
		t.Fatalf("roster stats: %v", err)
	}

	if stats.ShiftCount != 3 {
		t.Errorf("shift count = %d, want 3", stats.ShiftCount)
	}
	if stats.Confirmed != 1 {
		t.Errorf("confirmed = %d, want 1", stats.Confirmed)
	}
	if math.Abs(stats.TotalHours-14) > 1e-9 {
		t.Errorf("total hours = %v, want 14", stats.TotalHours)
	}

	byStaff := make(map[uint]StaffHoursEntry, len(stats.HoursByStaff))
	for _, entry := range stats.HoursByStaff {
		byStaff[entry.StaffID] = entry
	}
	if entry := byStaff[alice.ID]; entry.Shifts != 2 || math.Abs(entry.Hours-8) > 1e-9 {
		t.Errorf("alice = %d shifts %vh, want 2 shifts 8h", entry.Shifts, entry.Hours)
	}
	if entry := byStaff[bob.ID]; entry.Shifts != 1 || math.Abs(entry.Hours-6) > 1e-9 {
		t.Errorf("bob = %d shifts %vh, want 1 shift 6h", entry.Shifts, entry.Hours)
	}

	other := seedTenant(t, db, "globex")
	if _, err := svc.ForRoster(other.ID, roster.ID); !errors.Is(err, ErrRosterNotFound) {
		t.Errorf("cross-tenant stats: got %v, want ErrRosterNotFound", err)
	}
}

func TestStaffHours(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	allWeekAvailability(t, db, alice.ID)

	rosters := newTestRosterService(db)
	roster := draftWithShift(t, rosters, tenant.ID, alice.ID) // Monday 09:00-13:00
	if _, err := rosters.AddShiftToRoster(tenant.ID, roster.ID, ShiftInput{
		StaffID: alice.ID, StartTime: hoursFrom(24 + 9), EndTime: hoursFrom(24 + 17), // Tuesday, 8h
	}); err != nil {
		t.Fatalf("add shift: %v", err)
	}

	svc := NewAnalyticsService(db)

	// The whole week.
	hours, err := svc.StaffHours(tenant.ID, alice.ID, monday, monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("staff hours: %v", err)
	}
	if math.Abs(hours-12) > 1e-9 {
		t.Errorf("week hours = %v, want 12", hours)
	}

	// The range is half-open on shift start times: Tuesday onward excludes
	// Monday's shift.
	hours, err = svc.StaffHours(tenant.ID, alice.ID, monday.AddDate(0, 0, 1), monday.AddDate(0, 0, 7))
	if err != nil {
		t.Fatalf("staff hours: %v", err)
	}
	if math.Abs(hours-8) > 1e-9 {
		t.Errorf("partial-week hours = %v, want 8", hours)
	}

	if _, err := svc.StaffHours(tenant.ID, 9999, monday, monday.AddDate(0, 0, 7)); !errors.Is(err, ErrStaffNotFound) {
		t.Errorf("unknown staff: got %v, want ErrStaffNotFound", err)
	}
}
