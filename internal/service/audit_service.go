package service

import (
	"context"

	"mainet/internal/domain"
	"mainet/internal/logger"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditService handles audit logging
type AuditService struct {
	store repository.Store
}

// NewAuditService creates a new audit service
func NewAuditService(store repository.Store) *AuditService {
	return &AuditService{store: store}
}

// Log creates a new audit log entry. Failures are logged, never returned.
func (s *AuditService) Log(ctx context.Context, userID uuid.UUID, action, category string, details map[string]any) {
	s.LogWithRequest(ctx, userID, action, category, "", "", details)
}

// LogWithRequest creates an audit log with request info (IP, User-Agent)
func (s *AuditService) LogWithRequest(ctx context.Context, userID uuid.UUID, action, category, ip, userAgent string, details map[string]any) {
	if s == nil {
		return
	}
	log := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		Category:  category,
		Details:   details,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.store.InsertAudit(ctx, log); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogLogin logs a user login
func (s *AuditService) LogLogin(ctx context.Context, userID uuid.UUID, ip, userAgent string) {
	s.LogWithRequest(ctx, userID, domain.AuditActionLogin, domain.AuditCategoryAuth, ip, userAgent, nil)
}

// LogUpgrade logs an upgrade purchase
func (s *AuditService) LogUpgrade(ctx context.Context, userID uuid.UUID, t domain.UpgradeType, level int, price decimal.Decimal) {
	s.Log(ctx, userID, domain.AuditActionUpgradeBuy, domain.AuditCategoryGame, map[string]any{
		"upgrade_type": t,
		"new_level":    level,
		"price":        price.String(),
	})
}

// LogRigPurchase logs a rig purchase
func (s *AuditService) LogRigPurchase(ctx context.Context, userID uuid.UUID, rig *domain.MiningRig) {
	s.Log(ctx, userID, domain.AuditActionRigBuy, domain.AuditCategoryGame, map[string]any{
		"rig_id":   rig.ID,
		"rig_type": rig.RigType,
		"price":    rig.PurchasePrice.String(),
	})
}

// LogVerification logs the outcome of an IDTX check
func (s *AuditService) LogVerification(ctx context.Context, userID uuid.UUID, v *domain.Verification) {
	s.Log(ctx, userID, domain.AuditActionVerifyTx, domain.AuditCategoryPayment, map[string]any{
		"transaction_id": v.TransactionID,
		"payment_method": v.PaymentMethod,
		"status":         v.Status,
		"amount":         v.Amount.String(),
		"bonus_amount":   v.BonusAmount.String(),
	})
}

// LogTransfer logs a move of game balance into the main balance
func (s *AuditService) LogTransfer(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) {
	s.Log(ctx, userID, domain.AuditActionTransfer, domain.AuditCategoryBalance, map[string]any{
		"amount": amount.String(),
	})
}

// LogAdminAction logs an admin action
func (s *AuditService) LogAdminAction(ctx context.Context, adminID uuid.UUID, action string, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["admin_id"] = adminID

	s.Log(ctx, adminID, action, domain.AuditCategoryAdmin, details)
}
