package repository

import (
	"context"
	"encoding/json"
	"time"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const verificationColumns = `id, user_id, transaction_id, amount, currency, payment_method, status,
	bonus_amount, bonus_credited, verification_data, created_at, verified_at`

// FindVerification returns the record for (user, transaction id) and locks it
func (t *pgTx) FindVerification(ctx context.Context, userID uuid.UUID, transactionID string) (*domain.Verification, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT `+verificationColumns+`
		FROM transaction_verifications
		WHERE user_id = $1 AND transaction_id = $2
		FOR UPDATE
	`, userID, transactionID)

	return scanVerification(row)
}

// SaveVerification inserts the record or overwrites the outcome of an earlier attempt
func (t *pgTx) SaveVerification(ctx context.Context, v *domain.Verification) error {
	dataJSON, err := json.Marshal(v.ProviderDetail)
	if err != nil {
		dataJSON = []byte("{}")
	}

	return t.tx.QueryRow(ctx, `
		INSERT INTO transaction_verifications (id, user_id, transaction_id, amount, currency,
			payment_method, status, bonus_amount, bonus_credited, verification_data, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, transaction_id) DO UPDATE
		SET amount = EXCLUDED.amount,
		    currency = EXCLUDED.currency,
		    status = EXCLUDED.status,
		    bonus_amount = EXCLUDED.bonus_amount,
		    bonus_credited = EXCLUDED.bonus_credited,
		    verification_data = EXCLUDED.verification_data,
		    verified_at = EXCLUDED.verified_at
		RETURNING id, created_at
	`, v.ID, v.UserID, v.TransactionID, v.Amount, v.Currency, v.PaymentMethod, v.Status,
		v.BonusAmount, v.BonusCredited, dataJSON, v.VerifiedAt).Scan(&v.ID, &v.CreatedAt)
}

// ListVerifications returns a user's submissions, newest first
func (s *Postgres) ListVerifications(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.Verification, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT `+verificationColumns+`
		FROM transaction_verifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Verification
	for rows.Next() {
		v, err := scanVerification(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

// VerificationStats aggregates outcomes over every user
func (s *Postgres) VerificationStats(ctx context.Context) (domain.VerificationStats, error) {
	var st domain.VerificationStats
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'verified'),
		       COUNT(*) FILTER (WHERE status = 'failed'),
		       COUNT(*) FILTER (WHERE status = 'not_found'),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COALESCE(SUM(amount) FILTER (WHERE status = 'verified'), 0),
		       COALESCE(SUM(bonus_amount) FILTER (WHERE bonus_credited), 0)
		FROM transaction_verifications
	`).Scan(&st.Total, &st.Verified, &st.Failed, &st.NotFound, &st.Pending,
		&st.TotalAmountVerified, &st.TotalBonusPaid)
	return st, err
}

func scanVerification(row pgx.Row) (*domain.Verification, error) {
	var (
		v          domain.Verification
		dataJSON   []byte
		verifiedAt *time.Time
	)

	if err := row.Scan(
		&v.ID, &v.UserID, &v.TransactionID, &v.Amount, &v.Currency, &v.PaymentMethod, &v.Status,
		&v.BonusAmount, &v.BonusCredited, &dataJSON, &v.CreatedAt, &verifiedAt,
	); err != nil {
		return nil, translate(err)
	}

	if len(dataJSON) > 0 {
		_ = json.Unmarshal(dataJSON, &v.ProviderDetail)
	}
	v.VerifiedAt = verifiedAt

	return &v, nil
}
