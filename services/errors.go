package services

import "errors"

// Business errors returned by the services. Controllers map these to HTTP
// statuses with errors.Is; anything not listed here is treated as an
// unexpected storage failure.
var (
	// Validation
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidRate        = errors.New("rate must be an integer between 0 and 1000")
	ErrInvalidPhoneNumber = errors.New("invalid mobile phone number")
	ErrInvalidOTP         = errors.New("invalid or expired OTP")

	// Not found
	ErrUserNotFound       = errors.New("user not found")
	ErrRewardNotFound     = errors.New("reward not found")
	ErrRedemptionNotFound = errors.New("redemption not found")
	ErrCodeNotFound       = errors.New("invalid redemption code")

	// State conflicts
	ErrRewardInactive          = errors.New("reward is not available")
	ErrDuplicatePendingRequest = errors.New("a pending redemption for this reward already exists")
	ErrAlreadyProcessed        = errors.New("redemption has already been processed")
	ErrNotVerified             = errors.New("redemption must be verified before completing")
	ErrAlreadyTerminal         = errors.New("redemption is already completed or cancelled")

	// Balance
	ErrInsufficientPoints = errors.New("insufficient points")

	// Configuration
	ErrInvalidRateConfig = errors.New("stored points rate is invalid")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
