package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrInsufficientBalance = errors.New("insufficient coin balance")
	ErrAlreadyUnlocked     = errors.New("time asset already unlocked")
	ErrSubscriptionExists  = errors.New("active or pending subscription already exists")
	ErrInvalidDate         = errors.New("invalid date format")
	ErrInvalidPeriod       = errors.New("period_start must not be after period_end")
	ErrInvalidTier         = errors.New("unknown subscription tier")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrUnknownFeature      = errors.New("unknown feature path")
)
