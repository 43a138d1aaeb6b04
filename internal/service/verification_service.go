package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mainet/internal/domain"
	"mainet/internal/economy"
	"mainet/internal/logger"
	"mainet/internal/metrics"
	"mainet/internal/payment"
	"mainet/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentVerifier looks up an external transaction id for a payment method
type PaymentVerifier interface {
	Verify(ctx context.Context, method domain.PaymentMethod, transactionID string, amount decimal.Decimal) (payment.Result, error)
}

// VerifyRequest is the client submission of an external transaction id
type VerifyRequest struct {
	TransactionID string               `json:"transaction_id"`
	Amount        *decimal.Decimal     `json:"amount"`
	PaymentMethod domain.PaymentMethod `json:"payment_method"`
	Currency      string               `json:"currency"`
}

// VerifyResult is the outcome of one submission
type VerifyResult struct {
	Verified         bool                      `json:"verified"`
	TransactionID    string                    `json:"transaction_id"`
	Status           domain.VerificationStatus `json:"status"`
	Amount           decimal.Decimal           `json:"amount"`
	BonusAmount      decimal.Decimal           `json:"bonus_amount"`
	Currency         string                    `json:"currency"`
	Message          string                    `json:"message"`
	AlreadyProcessed bool                      `json:"already_processed"`
	Verification     *domain.Verification      `json:"verification"`
}

const (
	msgAlreadyProcessed = "Transaction already processed"
	msgNotFound         = "Transaction not found or invalid"
	msgPending          = "Transaction is pending confirmation, submit it again later"
	msgUnavailable      = "Payment provider unavailable, transaction not verified"

	defaultCurrency = "USD"
)

// default amounts when the client omits one
var defaultAmounts = map[domain.PaymentMethod]decimal.Decimal{
	domain.PaymentPayeer:    decimal.NewFromInt(10),
	domain.PaymentFaucetPay: decimal.NewFromInt(5),
}

// VerificationService redeems external payment ids for balance plus bonus
type VerificationService struct {
	store    repository.Store
	balances *BalanceService
	verifier PaymentVerifier
	audit    *AuditService
	notifier Notifier
}

func NewVerificationService(store repository.Store, balances *BalanceService, verifier PaymentVerifier, audit *AuditService, notifier Notifier) *VerificationService {
	return &VerificationService{
		store:    store,
		balances: balances,
		verifier: verifier,
		audit:    audit,
		notifier: notifierOrNop(notifier),
	}
}

func resultFromRecord(v *domain.Verification, message string, already bool) *VerifyResult {
	return &VerifyResult{
		Verified:         v.Status == domain.VerificationVerified,
		TransactionID:    v.TransactionID,
		Status:           v.Status,
		Amount:           v.Amount,
		BonusAmount:      v.BonusAmount,
		Currency:         v.Currency,
		Message:          message,
		AlreadyProcessed: already,
		Verification:     v,
	}
}

// existing returns the stored record, or nil when none exists
func (s *VerificationService) existing(ctx context.Context, userID uuid.UUID, txID string) (*domain.Verification, error) {
	var found *domain.Verification
	err := s.store.WithinTx(ctx, func(tx repository.Tx) error {
		v, err := tx.FindVerification(ctx, userID, txID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		found = v
		return err
	})
	return found, err
}

// Verify checks an external transaction id once per user. A stored final
// outcome is returned unchanged; pending and failed records are looked up again.
// The provider call happens outside the user lock; the credit is decided
// under the lock after re-reading the record.
func (s *VerificationService) Verify(ctx context.Context, userID uuid.UUID, req VerifyRequest) (*VerifyResult, error) {
	txID := strings.TrimSpace(req.TransactionID)
	if txID == "" || len(txID) > 128 {
		return nil, ErrInvalidTransactionID
	}
	method := domain.PaymentMethod(strings.ToLower(string(req.PaymentMethod)))
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	amount := defaultAmounts[method]
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
		}
		amount = *req.Amount
	}
	currency, err := parseCurrency(req.Currency)
	if err != nil {
		return nil, err
	}

	prev, err := s.existing(ctx, userID, txID)
	if err != nil {
		return nil, err
	}
	if prev != nil && !prev.Status.Rechecked() {
		return resultFromRecord(prev, msgAlreadyProcessed, true), nil
	}

	res, lookupErr := s.verifier.Verify(ctx, method, txID, amount)
	if lookupErr != nil {
		logger.WithContext(ctx).Warn("payment provider lookup failed",
			"method", method, "transaction_id", txID, "error", lookupErr)
		res = payment.Result{
			Status: domain.VerificationFailed,
			Reason: lookupErr.Error(),
		}
	}
	if res.Status == domain.VerificationVerified {
		if !res.Amount.IsPositive() {
			// never credit a client-claimed amount the provider did not confirm
			res.Status = domain.VerificationFailed
			res.Reason = "provider reported no amount"
		} else {
			amount = res.Amount
		}
	}
	if res.Currency != "" {
		currency = strings.ToUpper(res.Currency)
	}

	var (
		record  *domain.Verification
		already bool
	)
	p, settlement, err := s.balances.Mutate(ctx, userID, func(tx repository.Tx, p *domain.Progression, now time.Time) error {
		cur, err := tx.FindVerification(ctx, userID, txID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			cur = nil
		case err != nil:
			return err
		}
		if cur != nil && !cur.Status.Rechecked() {
			record, already = cur, true
			return nil
		}

		v := &domain.Verification{
			ID:             uuid.New(),
			UserID:         userID,
			TransactionID:  txID,
			Amount:         amount,
			Currency:       currency,
			PaymentMethod:  method,
			Status:         res.Status,
			BonusAmount:    decimal.Zero,
			ProviderDetail: providerDetail(res),
		}
		if cur != nil {
			v.ID = cur.ID
			v.CreatedAt = cur.CreatedAt
		}

		if res.Status == domain.VerificationVerified {
			bonus := economy.DepositBonus(amount)
			before := p.CurrentBalance
			if err := economy.CreditDeposit(p, amount, bonus, now); err != nil {
				return err
			}
			v.BonusAmount = bonus
			v.BonusCredited = true
			v.VerifiedAt = &now

			entry := domain.NewTransaction(userID, domain.TxTypeDepositBonus, before, amount.Add(bonus),
				fmt.Sprintf("Verified %s deposit %s", method, txID),
				map[string]any{
					"transaction_id": txID,
					"payment_method": method,
					"amount":         amount.String(),
					"bonus_amount":   bonus.String(),
				})
			entry.CreatedAt = now
			if err := tx.InsertTransaction(ctx, entry); err != nil {
				return err
			}
		}

		if err := tx.SaveVerification(ctx, v); err != nil {
			return err
		}
		record = v
		return nil
	})
	if err != nil {
		return nil, err
	}

	if already {
		return resultFromRecord(record, msgAlreadyProcessed, true), nil
	}

	metrics.Verifications.WithLabelValues(string(method), string(record.Status)).Inc()
	s.audit.LogVerification(ctx, userID, record)

	var msg string
	switch record.Status {
	case domain.VerificationVerified:
		msg = fmt.Sprintf("Transaction verified! %s %s + %s bonus credited.",
			record.Amount.StringFixed(2), record.Currency, record.BonusAmount.StringFixed(2))
		s.notifier.Notify(userID, EventBalanceCredited, map[string]any{
			"transaction_id": txID,
			"amount":         record.Amount,
			"bonus_amount":   record.BonusAmount,
			"game_state":     newGameState(p, settlement),
		})
	case domain.VerificationPending:
		msg = msgPending
	case domain.VerificationFailed:
		msg = msgUnavailable
	default:
		msg = msgNotFound
	}
	return resultFromRecord(record, msg, false), nil
}

// parseCurrency defaults to USD and accepts a three letter code
func parseCurrency(raw string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(raw))
	if c == "" {
		return defaultCurrency, nil
	}
	if len(c) != 3 {
		return "", fmt.Errorf("%w: currency must be a 3 letter code", ErrValidation)
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: currency must be a 3 letter code", ErrValidation)
		}
	}
	return c, nil
}

func providerDetail(res payment.Result) map[string]any {
	detail := map[string]any{}
	for k, v := range res.Detail {
		detail[k] = v
	}
	if res.Reason != "" {
		detail["reason"] = res.Reason
	}
	return detail
}

// History lists the user's submissions, newest first
func (s *VerificationService) History(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Verification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	list, err := s.store.ListVerifications(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*domain.Verification{}
	}
	return list, nil
}
