package service

import (
	"errors"
	"testing"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"

	"go.uber.org/zap"
)

func TestStoreDispatcherFanOut(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	bob := seedStaff(t, db, tenant.ID, "bob")

	dispatcher := NewStoreDispatcher(db, zap.NewNop())

	rosterID := uint(42)
	err := dispatcher.Dispatch(model.EventRosterPublished, tenant.ID, &rosterID,
		[]uint{alice.ID, bob.ID}, "Roster \"week 10\" has been published")
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	var rows []model.Notification
	if err := db.Where("tenant_id = ?", tenant.ID).Find(&rows).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("dispatched %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		if row.Event != model.EventRosterPublished {
			t.Errorf("event = %q, want %q", row.Event, model.EventRosterPublished)
		}
		if row.RosterID == nil || *row.RosterID != rosterID {
			t.Errorf("roster_id = %v, want %d", row.RosterID, rosterID)
		}
		if row.IsRead {
			t.Error("new notifications should start unread")
		}
	}

	// No recipients is a no-op, not an error.
	if err := dispatcher.Dispatch(model.EventShiftDeleted, tenant.ID, nil, nil, "x"); err != nil {
		t.Errorf("empty dispatch: %v", err)
	}
}

func TestNotificationFeed(t *testing.T) {
	db := openTestDB(t)
	tenant := seedTenant(t, db, "acme")
	alice := seedStaff(t, db, tenant.ID, "alice")
	bob := seedStaff(t, db, tenant.ID, "bob")

	dispatcher := NewStoreDispatcher(db, zap.NewNop())
	svc := NewNotificationService(db)

	if err := dispatcher.Dispatch(model.EventShiftCreated, tenant.ID, nil, []uint{alice.ID}, "first"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := dispatcher.Dispatch(model.EventShiftUpdated, tenant.ID, nil, []uint{alice.ID}, "second"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if err := dispatcher.Dispatch(model.EventShiftCreated, tenant.ID, nil, []uint{bob.ID}, "for bob"); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	feed, err := svc.ListForStaff(tenant.ID, alice.ID, false)
	if err != nil {
		t.Fatalf("list feed: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("alice's feed has %d entries, want 2", len(feed))
	}

	if err := svc.MarkRead(tenant.ID, feed[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	unread, err := svc.ListForStaff(tenant.ID, alice.ID, true)
	if err != nil {
		t.Fatalf("list unread: %v", err)
	}
	if len(unread) != 1 {
		t.Errorf("unread feed has %d entries, want 1", len(unread))
	}

	// A notification in another tenant is invisible to MarkRead.
	other := seedTenant(t, db, "globex")
	if err := svc.MarkRead(other.ID, feed[0].ID); !errors.Is(err, ErrNotificationNotFound) {
		t.Errorf("cross-tenant mark read: got %v, want ErrNotificationNotFound", err)
	}
}
