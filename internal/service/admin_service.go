package service

import (
	"context"
	"strings"

	"mainet/internal/domain"
	"mainet/internal/metrics"

	"github.com/google/uuid"
)

// maxBulkVerify bounds one bulk request
const maxBulkVerify = 100

// BulkItem is the outcome for one id of a bulk verification
type BulkItem struct {
	TransactionID string        `json:"transaction_id"`
	Result        *VerifyResult `json:"result,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// BulkResult summarises a bulk verification
type BulkResult struct {
	Processed int        `json:"processed"`
	Verified  int        `json:"verified"`
	Results   []BulkItem `json:"results"`
}

// AdminService exposes operator views over verification
type AdminService struct {
	verifications *VerificationService
	audit         *AuditService
}

func NewAdminService(verifications *VerificationService, audit *AuditService) *AdminService {
	return &AdminService{verifications: verifications, audit: audit}
}

// VerificationStats aggregates every stored verification and refreshes the gauges
func (s *AdminService) VerificationStats(ctx context.Context) (domain.VerificationStats, error) {
	st, err := s.verifications.store.VerificationStats(ctx)
	if err != nil {
		return st, err
	}
	PublishVerificationStats(st)
	return st, nil
}

// PublishVerificationStats copies aggregate stats into the prometheus gauges
func PublishVerificationStats(st domain.VerificationStats) {
	metrics.VerifiedAmount.Set(metrics.Float(st.TotalAmountVerified))
	metrics.VerificationsByStatus.WithLabelValues(string(domain.VerificationVerified)).Set(float64(st.Verified))
	metrics.VerificationsByStatus.WithLabelValues(string(domain.VerificationFailed)).Set(float64(st.Failed))
	metrics.VerificationsByStatus.WithLabelValues(string(domain.VerificationNotFound)).Set(float64(st.NotFound))
	metrics.VerificationsByStatus.WithLabelValues(string(domain.VerificationPending)).Set(float64(st.Pending))
}

// BulkVerify runs Verify for each id on behalf of the calling admin. Each id
// keeps the single-submission idempotency, so duplicates credit once.
func (s *AdminService) BulkVerify(ctx context.Context, adminID uuid.UUID, method domain.PaymentMethod, ids []string) (*BulkResult, error) {
	method = domain.PaymentMethod(strings.ToLower(string(method)))
	if !method.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if len(ids) > maxBulkVerify {
		ids = ids[:maxBulkVerify]
	}

	out := &BulkResult{Results: make([]BulkItem, 0, len(ids))}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := BulkItem{TransactionID: id}
		res, err := s.verifications.Verify(ctx, adminID, VerifyRequest{TransactionID: id, PaymentMethod: method})
		if err != nil {
			item.Error = err.Error()
		} else {
			item.Result = res
			if res.Verified && !res.AlreadyProcessed {
				out.Verified++
			}
		}
		out.Results = append(out.Results, item)
		out.Processed++
	}

	s.audit.LogAdminAction(ctx, adminID, domain.AuditActionBulkVerify, map[string]any{
		"payment_method": method,
		"processed":      out.Processed,
		"verified":       out.Verified,
	})
	return out, nil
}
