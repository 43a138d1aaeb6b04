package service

import (
	"errors"

	"mainet/internal/economy"
)

var (
	ErrInsufficientEnergy  = economy.ErrInsufficientEnergy
	ErrInsufficientBalance = economy.ErrInsufficientBalance
	ErrMaxLevelReached     = economy.ErrMaxLevelReached
	ErrInvalidClicks       = economy.ErrInvalidClicks
	ErrNothingToTransfer   = economy.ErrNothingToTransfer

	ErrInvalidUpgradeType   = errors.New("invalid upgrade type")
	ErrInvalidRigType       = errors.New("invalid rig type")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidTransactionID = errors.New("transaction_id is required")
	ErrUserNotFound         = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidToken       = errors.New("invalid token")

	// ErrValidation wraps input problems that have their own message
	ErrValidation = errors.New("validation failed")
)
