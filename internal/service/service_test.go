package service

import (
	"testing"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/pkg/database"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB gives each test its own in-memory database with the full schema.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// seedTenant creates a tenant with its system roles and returns it.
func seedTenant(t *testing.T, db *gorm.DB, name string) *model.Tenant {
	t.Helper()

	tenants := NewTenantService(db, zap.NewNop())
	tenant, err := tenants.CreateTenant(CreateTenantRequest{
		Name:   name,
		Domain: name + ".example.com",
	})
	if err != nil {
		t.Fatalf("seed tenant %q: %v", name, err)
	}
	return tenant
}

// seedUser creates an active user holding the named seeded role.
func seedUser(t *testing.T, db *gorm.DB, tenantID uint, email, roleName string) *model.User {
	t.Helper()

	var role model.Role
	if err := db.Where("tenant_id = ? AND name = ?", tenantID, roleName).First(&role).Error; err != nil {
		t.Fatalf("load role %q: %v", roleName, err)
	}
	user := &model.User{
		TenantID: tenantID,
		RoleID:   role.ID,
		Email:    email,
		Name:     email,
		Active:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user %q: %v", email, err)
	}
	user.Role = role
	return user
}

// seedStaff creates an active staff member.
func seedStaff(t *testing.T, db *gorm.DB, tenantID uint, name string) *model.Staff {
	t.Helper()

	staff := &model.Staff{
		TenantID: tenantID,
		Name:     name,
		Email:    name + "@example.com",
		Active:   true,
	}
	if err := db.Create(staff).Error; err != nil {
		t.Fatalf("seed staff %q: %v", name, err)
	}
	return staff
}

// seedAvailability declares one active weekly window.
func seedAvailability(t *testing.T, db *gorm.DB, staffID uint, day model.Weekday, start, end string) {
	t.Helper()

	startTime, err := model.ParseTimeOfDay(start)
	if err != nil {
		t.Fatalf("parse %q: %v", start, err)
	}
	endTime, err := model.ParseTimeOfDay(end)
	if err != nil {
		t.Fatalf("parse %q: %v", end, err)
	}
	window := &model.StaffAvailability{
		StaffID:   staffID,
		DayOfWeek: day,
		StartTime: startTime,
		EndTime:   endTime,
		Active:    true,
	}
	if err := db.Create(window).Error; err != nil {
		t.Fatalf("seed availability: %v", err)
	}
}

// allWeekAvailability opens every day of the week fully.
func allWeekAvailability(t *testing.T, db *gorm.DB, staffID uint) {
	t.Helper()
	for day := model.Monday; day <= model.Sunday; day++ {
		seedAvailability(t, db, staffID, day, "00:00", "23:59")
	}
}

// newTestRosterService wires a roster service with in-app notifications.
func newTestRosterService(db *gorm.DB) *RosterService {
	log := zap.NewNop()
	return NewRosterService(db, NewStoreDispatcher(db, log), log)
}

// monday is an arbitrary fixed Monday used as the anchor for shift times.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

// hoursFrom returns monday plus a whole number of hours.
func hoursFrom(h int) time.Time {
	return monday.Add(time.Duration(h) * time.Hour)
}
