package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog represents an audit log entry for tracking important actions
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    uuid.UUID      `db:"user_id" json:"user_id"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details"`
	IP        string         `db:"ip" json:"ip,omitempty"`
	UserAgent string         `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit action categories
const (
	AuditCategoryAuth    = "auth"
	AuditCategoryGame    = "game"
	AuditCategoryPayment = "payment"
	AuditCategoryBalance = "balance"
	AuditCategoryAdmin   = "admin"
)

// Audit actions
const (
	// Auth actions
	AuditActionRegister = "register"
	AuditActionLogin    = "login"
	AuditActionLogout   = "logout"

	// Game actions
	AuditActionUpgradeBuy = "upgrade_buy"
	AuditActionRigBuy     = "rig_buy"

	// Payment actions
	AuditActionVerifyTx   = "verify_transaction"
	AuditActionBulkVerify = "bulk_verify"

	// Balance actions
	AuditActionTransfer = "transfer"
)
