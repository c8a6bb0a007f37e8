package service

import (
	"fmt"
	"time"

	"github.com/Tallon1/rooster-ai-sub000/internal/model"
	"github.com/Tallon1/rooster-ai-sub000/pkg/jwtutil"
	"github.com/Tallon1/rooster-ai-sub000/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration, login, and account maintenance. Token
// verification on the request path lives in the auth middleware; this service
// only issues tokens.
type AuthService struct {
	db      *gorm.DB
	tenants *TenantService
	log     *zap.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(db *gorm.DB, tenants *TenantService, log *zap.Logger) *AuthService {
	return &AuthService{db: db, tenants: tenants, log: log}
}

// RegisterRequest signs up a new company together with its owner account.
type RegisterRequest struct {
	CompanyName   string `json:"company_name"`
	CompanyDomain string `json:"company_domain"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
}

// Register creates the tenant, seeds its roles, and creates the owner user.
func (s *AuthService) Register(req RegisterRequest) (*model.User, string, error) {
	if req.Email == "" || req.Password == "" || req.CompanyName == "" || req.CompanyDomain == "" {
		return nil, "", fmt.Errorf("%w: company_name, company_domain, email and password are required", ErrValidation)
	}
	if len(req.Password) < 8 {
		return nil, "", fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	tenant, err := s.tenants.CreateTenant(CreateTenantRequest{
		Name:   req.CompanyName,
		Domain: req.CompanyDomain,
	})
	if err != nil {
		return nil, "", err
	}

	ownerRole, err := s.tenants.GetRole(tenant.ID, model.RoleOwner)
	if err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		TenantID: tenant.ID,
		RoleID:   ownerRole.ID,
		Email:    req.Email,
		Password: string(hashed),
		Name:     req.Name,
		Active:   true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, "", err
	}
	user.Role = *ownerRole

	token, err := jwtutil.GenerateToken(user.ID, user.Email, tenant.ID, ownerRole.Name)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.Uint("tenant_id", tenant.ID),
		zap.String("email", user.Email))

	return user, token, nil
}

// Login verifies credentials and issues a token carrying the tenant and role.
func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	// Email addresses are unique per tenant, not globally: the same person
	// may hold accounts in several companies. The password decides which
	// account the login resolves to. Unknown addresses and wrong passwords
	// produce the same opaque credential error.
	var candidates []model.User
	if err := s.db.Preload("Role").Where("email = ?", email).Find(&candidates).Error; err != nil {
		return nil, "", err
	}

	var user *model.User
	for i := range candidates {
		if bcrypt.CompareHashAndPassword([]byte(candidates[i].Password), []byte(password)) == nil {
			user = &candidates[i]
			break
		}
	}
	if user == nil {
		prometheus.RecordAuthError("login_failure")
		return nil, "", fmt.Errorf("%w: invalid credentials", ErrAccessDenied)
	}

	if !user.Active {
		prometheus.RecordAuthError("inactive_user")
		return nil, "", ErrUserInactive
	}

	var tenant model.Tenant
	if err := s.db.First(&tenant, user.TenantID).Error; err != nil {
		return nil, "", err
	}
	if !tenant.Active {
		return nil, "", ErrTenantInactive
	}

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.TenantID, user.Role.Name)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// GetProfile loads the caller's own account.
func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	var user model.User
	if err := s.db.Preload("Role").First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile lets a user change their own display name.
func (s *AuthService) UpdateProfile(userID uint, name string) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	user.Name = name
	if err := s.db.Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the current password and stores the new hash.
func (s *AuthService) ChangePassword(userID uint, current, next string) error {
	if len(next) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(current)); err != nil {
		prometheus.RecordAuthError("password_change_failure")
		return fmt.Errorf("%w: current password is incorrect", ErrAccessDenied)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(user).Update("password", string(hashed)).Error
}

// CreateUser adds a user to an existing tenant with the named role. Intended
// for owner/manager invitation flows.
func (s *AuthService) CreateUser(tenantID uint, email, password, name, roleName string) (*model.User, error) {
	role, err := s.tenants.GetRole(tenantID, roleName)
	if err != nil {
		return nil, err
	}

	var count int64
	err = s.db.Model(&model.User{}).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		TenantID: tenantID,
		RoleID:   role.ID,
		Email:    email,
		Password: string(hashed),
		Name:     name,
		Active:   true,
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}
	user.Role = *role
	return user, nil
}
