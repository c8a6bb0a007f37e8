package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/internal/service"

	"go.uber.org/zap"
)

func TestConfirmShiftAuthorization(t *testing.T) {
	env := newTestEnv(t)
	tenant := env.seedTenant(t, "acme")
	manager := env.seedUser(t, tenant.ID, "mgr@acme.example.com", model.RoleManager)
	aliceUser := env.seedUser(t, tenant.ID, "alice@example.com", model.RoleStaff)
	alice := env.seedStaff(t, tenant.ID, "alice")
	bob := env.seedStaff(t, tenant.ID, "bob")

	monday := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	roster, err := env.rosters.CreateRoster(tenant.ID, service.CreateRosterRequest{
		Name:      "week 10",
		StartDate: monday,
		EndDate:   monday.AddDate(0, 0, 7),
		Shifts: []service.ShiftInput{
			{StaffID: alice.ID, StartTime: monday.Add(9 * time.Hour), EndTime: monday.Add(13 * time.Hour)},
			{StaffID: bob.ID, StartTime: monday.Add(9 * time.Hour), EndTime: monday.Add(13 * time.Hour)},
		},
	})
	if err != nil {
		t.Fatalf("create roster: %v", err)
	}

	var aliceShift, bobShift uint
	for _, s := range roster.Shifts {
		if s.StaffID == alice.ID {
			aliceShift = s.ID
		} else {
			bobShift = s.ID
		}
	}

	export := service.NewExportService(env.rosters, zap.NewNop())
	h := NewRosterHandler(env.rosters, export, env.staff, env.access)

	confirm := func(user *model.User, shiftID uint) int {
		rec := call(t, h.ConfirmShift, user, http.MethodPost,
			"/api/shifts/"+itoa(shiftID)+"/confirm", "",
			map[string]string{"shift_id": itoa(shiftID)})
		return rec.Code
	}

	// A staff member cannot confirm a colleague's shift.
	if code := confirm(aliceUser, bobShift); code != http.StatusForbidden {
		t.Errorf("staff confirming colleague's shift: status %d, want 403", code)
	}

	// Their own shift is fine.
	if code := confirm(aliceUser, aliceShift); code != http.StatusOK {
		t.Errorf("staff confirming own shift: status %d, want 200", code)
	}

	// Managers confirm on anyone's behalf.
	if code := confirm(manager, bobShift); code != http.StatusOK {
		t.Errorf("manager confirming shift: status %d, want 200", code)
	}
}
