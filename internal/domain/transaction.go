package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxTypePurchase     TransactionType = "purchase"
	TxTypeUpgrade      TransactionType = "upgrade"
	TxTypeTransferOut  TransactionType = "transfer_out"
	TxTypeDepositBonus TransactionType = "deposit_bonus"
)

// Transaction is an append-only ledger entry against current_balance.
// BalanceAfter always equals BalanceBefore + Amount.
type Transaction struct {
	ID            uuid.UUID       `db:"id" json:"id"`
	UserID        uuid.UUID       `db:"user_id" json:"user_id"`
	Type          TransactionType `db:"transaction_type" json:"transaction_type"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	BalanceBefore decimal.Decimal `db:"balance_before" json:"balance_before"`
	BalanceAfter  decimal.Decimal `db:"balance_after" json:"balance_after"`
	Description   string          `db:"description" json:"description"`
	Meta          map[string]any  `db:"metadata" json:"metadata,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction builds a ledger entry from the balance before and the signed amount.
func NewTransaction(userID uuid.UUID, typ TransactionType, before, amount decimal.Decimal, description string, meta map[string]any) *Transaction {
	return &Transaction{
		ID:            uuid.New(),
		UserID:        userID,
		Type:          typ,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  before.Add(amount),
		Description:   description,
		Meta:          meta,
	}
}
