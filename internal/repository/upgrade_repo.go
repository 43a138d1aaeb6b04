package repository

import (
	"context"
	"errors"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *Postgres) ListUpgrades(ctx context.Context, userID uuid.UUID) ([]domain.UpgradeLevel, error) {
	rows, err := s.db.Query(ctx,
		`SELECT user_id, upgrade_type, current_level, total_cost, updated_at
		 FROM upgrades
		 WHERE user_id = $1
		 ORDER BY upgrade_type`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.UpgradeLevel
	for rows.Next() {
		var l domain.UpgradeLevel
		if err := rows.Scan(&l.UserID, &l.UpgradeType, &l.Level, &l.TotalCost, &l.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (t *pgTx) UpgradeLevel(ctx context.Context, userID uuid.UUID, typ domain.UpgradeType) (domain.UpgradeLevel, error) {
	l := domain.UpgradeLevel{UserID: userID, UpgradeType: typ, TotalCost: decimal.Zero}
	err := t.tx.QueryRow(ctx,
		`SELECT current_level, total_cost, updated_at
		 FROM upgrades
		 WHERE user_id = $1 AND upgrade_type = $2
		 FOR UPDATE`,
		userID, typ,
	).Scan(&l.Level, &l.TotalCost, &l.UpdatedAt)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return l, nil
		}
		return l, err
	}
	return l, nil
}

func (t *pgTx) SaveUpgradeLevel(ctx context.Context, l *domain.UpgradeLevel) error {
	_, err := t.tx.Exec(ctx,
		`INSERT INTO upgrades (user_id, upgrade_type, current_level, total_cost, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, upgrade_type)
		 DO UPDATE SET current_level = EXCLUDED.current_level,
		               total_cost = EXCLUDED.total_cost,
		               updated_at = EXCLUDED.updated_at`,
		l.UserID, l.UpgradeType, l.Level, l.TotalCost, l.UpdatedAt,
	)
	return err
}
