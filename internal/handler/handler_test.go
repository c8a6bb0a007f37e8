package handler

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/internal/service"
	"github.com/Tallon1/rooster-ai-sub000/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testEnv wires real services over an in-memory database for handler tests.
type testEnv struct {
	db      *gorm.DB
	tenants *service.TenantService
	staff   *service.StaffService
	rosters *service.RosterService
	access  *service.AccessChecker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	log := zap.NewNop()
	return &testEnv{
		db:      db,
		tenants: service.NewTenantService(db, log),
		staff:   service.NewStaffService(db, log),
		rosters: service.NewRosterService(db, service.NewStoreDispatcher(db, log), log),
		access:  service.NewAccessChecker(db),
	}
}

func (env *testEnv) seedTenant(t *testing.T, name string) *model.Tenant {
	t.Helper()

	tenant, err := env.tenants.CreateTenant(service.CreateTenantRequest{
		Name:   name,
		Domain: name + ".example.com",
	})
	if err != nil {
		t.Fatalf("seed tenant %q: %v", name, err)
	}
	return tenant
}

func (env *testEnv) seedUser(t *testing.T, tenantID uint, email, roleName string) *model.User {
	t.Helper()

	var role model.Role
	if err := env.db.Where("tenant_id = ? AND name = ?", tenantID, roleName).First(&role).Error; err != nil {
		t.Fatalf("load role %q: %v", roleName, err)
	}
	user := &model.User{
		TenantID: tenantID,
		RoleID:   role.ID,
		Email:    email,
		Name:     email,
		Active:   true,
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("seed user %q: %v", email, err)
	}
	return user
}

// seedStaff creates an active staff member available every day, all day.
func (env *testEnv) seedStaff(t *testing.T, tenantID uint, name string) *model.Staff {
	t.Helper()

	staff := &model.Staff{
		TenantID: tenantID,
		Name:     name,
		Email:    name + "@example.com",
		Active:   true,
	}
	if err := env.db.Create(staff).Error; err != nil {
		t.Fatalf("seed staff %q: %v", name, err)
	}
	for day := model.Monday; day <= model.Sunday; day++ {
		window := &model.StaffAvailability{
			StaffID:   staff.ID,
			DayOfWeek: day,
			StartTime: 0,
			EndTime:   model.TimeOfDay(23*60 + 59),
			Active:    true,
		}
		if err := env.db.Create(window).Error; err != nil {
			t.Fatalf("seed availability: %v", err)
		}
	}
	return staff
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// call invokes a handler as the given user with the auth middleware's context
// keys already set.
func call(t *testing.T, h echo.HandlerFunc, user *model.User, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for name, value := range params {
		names = append(names, name)
		values = append(values, value)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	c.Set("user_id", user.ID)
	c.Set("tenant_id", user.TenantID)

	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}
