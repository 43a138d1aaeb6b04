package repository

import (
	"context"
	"encoding/json"
	"time"

	"mainet/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const progressionColumns = `user_id, energy, max_energy, energy_regen_rate, energy_progress,
	click_power, auto_mining_rate, total_clicks, current_balance, main_balance, bonus_balance,
	achievements, game_settings, last_update_at, created_at, updated_at`

func scanProgression(row pgx.Row) (*domain.Progression, error) {
	var (
		p            domain.Progression
		settingsJSON []byte
	)
	if err := row.Scan(
		&p.UserID,
		&p.Energy,
		&p.MaxEnergy,
		&p.EnergyRegenRate,
		&p.EnergyProgress,
		&p.ClickPower,
		&p.AutoMiningRate,
		&p.TotalClicks,
		&p.CurrentBalance,
		&p.MainBalance,
		&p.BonusBalance,
		&p.Achievements,
		&settingsJSON,
		&p.LastUpdateAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	if p.Achievements == nil {
		p.Achievements = []string{}
	}
	if err := json.Unmarshal(settingsJSON, &p.GameSettings); err != nil || p.GameSettings == nil {
		p.GameSettings = map[string]any{}
	}
	return &p, nil
}

func (t *pgTx) LockProgression(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.Progression, error) {
	def := domain.NewProgression(userID, now)
	settingsJSON, err := json.Marshal(def.GameSettings)
	if err != nil {
		settingsJSON = []byte("{}")
	}

	// ON CONFLICT keeps concurrent first requests from racing on the insert
	_, err = t.tx.Exec(ctx,
		`INSERT INTO game_states (user_id, energy, max_energy, energy_regen_rate, energy_progress,
		                          click_power, auto_mining_rate, current_balance, achievements,
		                          game_settings, last_update_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11, $11)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID, def.Energy, def.MaxEnergy, def.EnergyRegenRate, def.EnergyProgress,
		def.ClickPower, def.AutoMiningRate, def.CurrentBalance, def.Achievements,
		settingsJSON, now,
	)
	if err != nil {
		return nil, translate(err)
	}

	return scanProgression(t.tx.QueryRow(ctx,
		`SELECT `+progressionColumns+` FROM game_states WHERE user_id = $1 FOR UPDATE`, userID))
}

func (t *pgTx) UpdateProgression(ctx context.Context, p *domain.Progression) error {
	settingsJSON, err := json.Marshal(p.GameSettings)
	if err != nil {
		settingsJSON = []byte("{}")
	}

	tag, err := t.tx.Exec(ctx,
		`UPDATE game_states
		 SET energy = $2, max_energy = $3, energy_regen_rate = $4, energy_progress = $5,
		     click_power = $6, auto_mining_rate = $7, total_clicks = $8,
		     current_balance = $9, main_balance = $10, bonus_balance = $11,
		     achievements = $12, game_settings = $13, last_update_at = $14, updated_at = $15
		 WHERE user_id = $1`,
		p.UserID, p.Energy, p.MaxEnergy, p.EnergyRegenRate, p.EnergyProgress,
		p.ClickPower, p.AutoMiningRate, p.TotalClicks,
		p.CurrentBalance, p.MainBalance, p.BonusBalance,
		p.Achievements, settingsJSON, p.LastUpdateAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
