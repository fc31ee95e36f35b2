package domain

import "errors"

// Failure kinds returned by use cases. Handlers map these to HTTP status
// codes and localized messages; the kind, not the text, is the contract.
var (
	// Common
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("caller is not allowed to perform this operation")
	ErrOperationFailed    = errors.New("operation failed")
	ErrInvalidExecContext = errors.New("invalid query execution context")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Lookup failures
	ErrUserNotFound         = errors.New("user not found")
	ErrClubNotFound         = errors.New("club not found")
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrClubUserNotFound     = errors.New("club user not found")
	ErrSlotNotFound         = errors.New("non-peak slot not found")

	// Subscription state machine
	ErrDuplicateActiveSubscription = errors.New("user already has an active subscription")
	ErrCannotExtendInactive        = errors.New("cannot extend an inactive subscription")
	ErrCannotPauseInactive         = errors.New("cannot pause an inactive subscription")
	ErrCannotResumeInactive        = errors.New("cannot resume an inactive subscription")
	ErrAlreadyPaused               = errors.New("subscription is already paused")
	ErrNotPaused                   = errors.New("subscription is not paused")
	ErrAlreadyExpired              = errors.New("subscription has already expired")
	ErrNoRemainingDays             = errors.New("subscription has no remaining days")

	// Check-in
	ErrInvalidUserType      = errors.New("account is not an end-customer account")
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrAlreadyCheckedIn     = errors.New("already checked in today")
	ErrOutsideNonPeakHours  = errors.New("check-in is outside non-peak hours")

	// Access policy
	ErrNoAccessToClub = errors.New("no access to this club")

	// Time
	ErrInvalidTimeZone = errors.New("unknown time zone id")

	// Auth
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailTaken           = errors.New("a user with this email already exists")
	ErrPhoneTaken           = errors.New("a user with this phone number already exists")
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("refresh token has expired")
	ErrPasswordConfirmation = errors.New("password confirmation does not match")
)
