package repository

import (
	"context"
	"encoding/json"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ListTransactions returns a user's ledger entries, newest first
func (s *Postgres) ListTransactions(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, transaction_type, amount, balance_before, balance_after,
		        COALESCE(description, ''), metadata, created_at
		 FROM transactions
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// InsertTransaction appends a ledger entry inside the open transaction
func (t *pgTx) InsertTransaction(ctx context.Context, tr *domain.Transaction) error {
	metaJSON, err := json.Marshal(tr.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	return t.tx.QueryRow(ctx,
		`INSERT INTO transactions (id, user_id, transaction_type, amount, balance_before,
		                           balance_after, description, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		tr.ID, tr.UserID, tr.Type, tr.Amount, tr.BalanceBefore, tr.BalanceAfter,
		tr.Description, metaJSON,
	).Scan(&tr.CreatedAt)
}

func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction

	for rows.Next() {
		var (
			tr       domain.Transaction
			metaJSON []byte
		)
		if err := rows.Scan(&tr.ID, &tr.UserID, &tr.Type, &tr.Amount, &tr.BalanceBefore,
			&tr.BalanceAfter, &tr.Description, &metaJSON, &tr.CreatedAt); err != nil {
			return nil, err
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &tr.Meta)
		}
		result = append(result, &tr)
	}

	return result, rows.Err()
}
