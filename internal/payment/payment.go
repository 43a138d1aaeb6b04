// Package payment checks externally submitted transaction ids (IDTX) against
// the Payeer and FaucetPay APIs, or against a local acceptance rule when live
// verification is disabled.
package payment

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"mainet/internal/domain"

	"github.com/shopspring/decimal"
)

var ErrUnsupportedMethod = errors.New("unsupported payment method")

// Result is the provider's view of one transaction id.
// Status is verified, pending or not_found; transport problems are returned as errors.
type Result struct {
	Status   domain.VerificationStatus
	Amount   decimal.Decimal // credited amount reported by the provider, zero if unknown
	Currency string
	Detail   map[string]any
	Reason   string
}

// Verifier looks up a single transaction id.
type Verifier interface {
	Verify(ctx context.Context, transactionID string, amount decimal.Decimal) (Result, error)
}

// Verifiers routes a lookup to the verifier registered for the payment method
type Verifiers map[domain.PaymentMethod]Verifier

func (v Verifiers) Verify(ctx context.Context, method domain.PaymentMethod, transactionID string, amount decimal.Decimal) (Result, error) {
	verifier, ok := v[method]
	if !ok {
		return Result{}, ErrUnsupportedMethod
	}
	return verifier.Verify(ctx, transactionID, amount)
}

// Options configure live verification
type Options struct {
	Live            bool
	Timeout         time.Duration
	PayeerAccount   string
	PayeerAPIID     string
	PayeerAPISecret string
	FaucetPayAPIKey string
	FaucetPayEmail  string
}

// New builds the verifier set: live API clients when opts.Live, otherwise the
// simulated rule for both methods.
func New(opts Options) Verifiers {
	if !opts.Live {
		sim := Simulated{}
		return Verifiers{domain.PaymentPayeer: sim, domain.PaymentFaucetPay: sim}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	return Verifiers{
		domain.PaymentPayeer:    NewPayeerClient(httpClient, opts.PayeerAccount, opts.PayeerAPIID, opts.PayeerAPISecret),
		domain.PaymentFaucetPay: NewFaucetPayClient(httpClient, opts.FaucetPayAPIKey, opts.FaucetPayEmail),
	}
}

// Simulated accepts ids of at least 8 characters that do not start with "INVALID"
type Simulated struct{}

const minSimulatedIDLength = 8

func (Simulated) Verify(_ context.Context, transactionID string, amount decimal.Decimal) (Result, error) {
	if len(transactionID) < minSimulatedIDLength || strings.HasPrefix(strings.ToUpper(transactionID), "INVALID") {
		return Result{
			Status: domain.VerificationNotFound,
			Reason: "transaction not found",
		}, nil
	}
	return Result{
		Status: domain.VerificationVerified,
		Amount: amount,
		Detail: map[string]any{"mode": "simulated"},
	}, nil
}
