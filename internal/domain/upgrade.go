package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UpgradeType identifies one of the purchasable upgrade tracks
type UpgradeType string

const (
	UpgradeEnergyRegen UpgradeType = "ENERGY_REGEN"
	UpgradeClickPower  UpgradeType = "CLICK_POWER"
	UpgradeAutoMining  UpgradeType = "AUTO_MINING"
	UpgradeMaxEnergy   UpgradeType = "MAX_ENERGY"
)

// UpgradeTypes lists the tracks in display order
var UpgradeTypes = []UpgradeType{
	UpgradeEnergyRegen,
	UpgradeClickPower,
	UpgradeAutoMining,
	UpgradeMaxEnergy,
}

// older clients still send these labels
var upgradeAliases = map[string]UpgradeType{
	"DOUBLE_CLICK": UpgradeClickPower,
}

// ParseUpgradeType normalises a client-supplied label. Matching is case-insensitive.
func ParseUpgradeType(s string) (UpgradeType, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if t, ok := upgradeAliases[key]; ok {
		return t, true
	}
	for _, t := range UpgradeTypes {
		if string(t) == key {
			return t, true
		}
	}
	return "", false
}

// UpgradeLevel is the per-user level on one upgrade track
type UpgradeLevel struct {
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	UpgradeType UpgradeType     `db:"upgrade_type" json:"upgrade_type"`
	Level       int             `db:"current_level" json:"level"`
	TotalCost   decimal.Decimal `db:"total_cost" json:"total_cost"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
