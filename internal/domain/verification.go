package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentPayeer    PaymentMethod = "payeer"
	PaymentFaucetPay PaymentMethod = "faucetpay"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentPayeer || m == PaymentFaucetPay
}

// VerificationStatus represents the outcome of an IDTX check
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationFailed   VerificationStatus = "failed"
	VerificationNotFound VerificationStatus = "not_found"
)

// Rechecked reports whether a resubmission asks the provider again. Pending
// and failed (provider unreachable or inconclusive) are not final.
func (s VerificationStatus) Rechecked() bool {
	return s == VerificationPending || s == VerificationFailed
}

// Verification records one external transaction id submitted by a user.
// (UserID, TransactionID) is unique; it is what prevents double crediting.
type Verification struct {
	ID             uuid.UUID          `db:"id" json:"id"`
	UserID         uuid.UUID          `db:"user_id" json:"user_id"`
	TransactionID  string             `db:"transaction_id" json:"transaction_id"`
	Amount         decimal.Decimal    `db:"amount" json:"amount"`
	Currency       string             `db:"currency" json:"currency"`
	PaymentMethod  PaymentMethod      `db:"payment_method" json:"payment_method"`
	Status         VerificationStatus `db:"status" json:"status"`
	BonusAmount    decimal.Decimal    `db:"bonus_amount" json:"bonus_amount"`
	BonusCredited  bool               `db:"bonus_credited" json:"bonus_credited"`
	ProviderDetail map[string]any     `db:"verification_data" json:"verification_data,omitempty"`
	CreatedAt      time.Time          `db:"created_at" json:"created_at"`
	VerifiedAt     *time.Time         `db:"verified_at" json:"verified_at,omitempty"`
}

// VerificationStats aggregates verification outcomes across all users
type VerificationStats struct {
	Total               int64           `json:"total_verifications"`
	Verified            int64           `json:"verified"`
	Failed              int64           `json:"failed"`
	NotFound            int64           `json:"not_found"`
	Pending             int64           `json:"pending"`
	TotalAmountVerified decimal.Decimal `json:"total_amount_verified"`
	TotalBonusPaid      decimal.Decimal `json:"total_bonus_paid"`
}
