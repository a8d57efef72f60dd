package service

import "errors"

// Sentinel errors the handlers map onto HTTP status codes. Scope violations are
// reported with the same error as absence so tenants cannot probe each other.
var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
	ErrInactiveAccount    = errors.New("inactive user account")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrResetTokenInvalid  = errors.New("password reset token is invalid, expired, or already used")

	ErrMenuNotFound  = errors.New("menu not found")
	ErrOrderNotFound = errors.New("order not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrStoreNotFound = errors.New("store not found")
	ErrRoleNotFound  = errors.New("role not found")

	// ErrNoStore covers store accounts without a store membership.
	ErrNoStore = errors.New("user is not associated with any store")

	ErrCancelNotAllowed  = errors.New("only pending orders can be cancelled")
	ErrInvalidStatus     = errors.New("unknown order status")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvalidFileType   = errors.New("invalid file type, only images are allowed")
	ErrInvalidDateFormat = errors.New("invalid date format, expected YYYY-MM-DD")
)
