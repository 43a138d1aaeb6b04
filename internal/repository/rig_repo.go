package repository

import (
	"context"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Postgres) ListRigs(ctx context.Context, userID uuid.UUID) ([]*domain.MiningRig, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, rig_name, rig_type, mining_power, efficiency_rating,
		        rarity, purchase_price, is_active, created_at
		 FROM mining_rigs
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.MiningRig
	for rows.Next() {
		var r domain.MiningRig
		if err := rows.Scan(&r.ID, &r.UserID, &r.RigName, &r.RigType, &r.MiningPower,
			&r.EfficiencyRating, &r.Rarity, &r.PurchasePrice, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &r)
	}
	return res, rows.Err()
}

// RigHashrate sums mining_power * efficiency_rating over active rigs
func (t *pgTx) RigHashrate(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := t.tx.QueryRow(ctx,
		`SELECT COALESCE(SUM(mining_power * efficiency_rating), 0)
		 FROM mining_rigs
		 WHERE user_id = $1 AND is_active`,
		userID,
	).Scan(&total)
	return total, err
}

func (t *pgTx) InsertRig(ctx context.Context, r *domain.MiningRig) error {
	return t.tx.QueryRow(ctx,
		`INSERT INTO mining_rigs (id, user_id, rig_name, rig_type, mining_power,
		                          efficiency_rating, rarity, purchase_price, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		r.ID, r.UserID, r.RigName, r.RigType, r.MiningPower,
		r.EfficiencyRating, r.Rarity, r.PurchasePrice, r.IsActive,
	).Scan(&r.CreatedAt)
}
