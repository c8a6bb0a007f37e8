package service

import (
	"errors"
)

// Sentinel errors for the scheduling domain. Services wrap these with
// fmt.Errorf("%w: ...") to attach detail; callers classify them with Kind.
var (
	// Not found
	ErrTenantNotFound       = errors.New("tenant not found")
	ErrRoleNotFound         = errors.New("role not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrStaffNotFound        = errors.New("staff member not found")
	ErrRosterNotFound       = errors.New("roster not found")
	ErrShiftNotFound        = errors.New("shift not found")
	ErrTemplateNotFound     = errors.New("roster template not found")
	ErrAvailabilityNotFound = errors.New("availability window not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Invalid lifecycle state
	ErrRosterPublished        = errors.New("roster is published and cannot be modified")
	ErrRosterAlreadyPublished = errors.New("roster is already published")
	ErrRosterEmpty            = errors.New("cannot publish an empty roster")
	ErrShiftsUnconfirmed      = errors.New("all shifts must be confirmed before publishing")
	ErrTenantInactive         = errors.New("tenant is deactivated")

	// Validation
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	ErrInvalidDateRange = errors.New("end date must be after start date")
	ErrValidation       = errors.New("validation failed")

	// Conflicts
	ErrShiftOverlap        = errors.New("shift overlaps an existing shift for this staff member")
	ErrOutsideAvailability = errors.New("shift falls outside the staff member's declared availability")
	ErrRosterOverlap       = errors.New("roster date range overlaps an existing roster")
	ErrDuplicateEmail      = errors.New("email is already in use within this tenant")

	// Authorization
	ErrAccessDenied = errors.New("access denied")
	ErrUserInactive = errors.New("user account is inactive")
)

// Kind groups errors into the categories the API layer maps to status codes.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindValidation
	KindConflict
	KindAuthorization
)

// Classify reports which error kind err belongs to. Unrecognized errors
// (driver failures, constraint violations propagated from the store) come
// back as KindUnknown and are treated as internal.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, ErrTenantNotFound),
		errors.Is(err, ErrRoleNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrStaffNotFound),
		errors.Is(err, ErrRosterNotFound),
		errors.Is(err, ErrShiftNotFound),
		errors.Is(err, ErrTemplateNotFound),
		errors.Is(err, ErrAvailabilityNotFound),
		errors.Is(err, ErrNotificationNotFound):
		return KindNotFound
	case errors.Is(err, ErrRosterPublished),
		errors.Is(err, ErrRosterAlreadyPublished),
		errors.Is(err, ErrRosterEmpty),
		errors.Is(err, ErrShiftsUnconfirmed),
		errors.Is(err, ErrTenantInactive):
		return KindInvalidState
	case errors.Is(err, ErrInvalidTimeRange),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrShiftOverlap),
		errors.Is(err, ErrOutsideAvailability),
		errors.Is(err, ErrRosterOverlap),
		errors.Is(err, ErrDuplicateEmail):
		return KindConflict
	case errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrUserInactive):
		return KindAuthorization
	default:
		return KindUnknown
	}
}
