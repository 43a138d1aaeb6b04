package economy

import (
	"mainet/internal/domain"

	"github.com/shopspring/decimal"
)

// UpgradeDef describes one upgrade track: its geometric price curve and
// the effect applied once per purchased level.
type UpgradeDef struct {
	Type        domain.UpgradeType `json:"upgrade_type"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	BasePrice   decimal.Decimal    `json:"base_price"`
	Multiplier  decimal.Decimal    `json:"multiplier"`
	EffectValue decimal.Decimal    `json:"effect_value"`
	MaxLevel    int                `json:"max_level"`
}

// EnergyRegenMaxEnergyBonus is added to max_energy on every ENERGY_REGEN level
const EnergyRegenMaxEnergyBonus = 10

var Upgrades = map[domain.UpgradeType]UpgradeDef{
	domain.UpgradeEnergyRegen: {
		Type:        domain.UpgradeEnergyRegen,
		Name:        "Energy Regeneration",
		Description: "+0.5 energy per minute and +10 max energy",
		BasePrice:   decimal.NewFromInt(100),
		Multiplier:  decimal.RequireFromString("1.5"),
		EffectValue: decimal.RequireFromString("0.5"),
		MaxLevel:    20,
	},
	domain.UpgradeClickPower: {
		Type:        domain.UpgradeClickPower,
		Name:        "Click Power",
		Description: "+1 click power",
		BasePrice:   decimal.NewFromInt(50),
		Multiplier:  decimal.NewFromInt(2),
		EffectValue: decimal.NewFromInt(1),
		MaxLevel:    25,
	},
	domain.UpgradeAutoMining: {
		Type:        domain.UpgradeAutoMining,
		Name:        "Auto Mining",
		Description: "+0.1 coins per minute while idle",
		BasePrice:   decimal.NewFromInt(200),
		Multiplier:  decimal.RequireFromString("1.75"),
		EffectValue: decimal.RequireFromString("0.1"),
		MaxLevel:    30,
	},
	domain.UpgradeMaxEnergy: {
		Type:        domain.UpgradeMaxEnergy,
		Name:        "Energy Capacity",
		Description: "+25 max energy, refilled immediately",
		BasePrice:   decimal.NewFromInt(150),
		Multiplier:  decimal.RequireFromString("1.6"),
		EffectValue: decimal.NewFromInt(25),
		MaxLevel:    20,
	},
}

// RigSpec is the catalog entry for a purchasable mining rig
type RigSpec struct {
	Type       domain.RigType  `json:"rig_type"`
	Power      decimal.Decimal `json:"mining_power"`
	Efficiency decimal.Decimal `json:"efficiency_rating"`
	Cost       decimal.Decimal `json:"cost"`
	Rarity     string          `json:"rarity"`
}

func rig(t domain.RigType, power, efficiency string, cost int64, rarity string) RigSpec {
	return RigSpec{
		Type:       t,
		Power:      decimal.RequireFromString(power),
		Efficiency: decimal.RequireFromString(efficiency),
		Cost:       decimal.NewFromInt(cost),
		Rarity:     rarity,
	}
}

// Rigs lists the rig catalog, cheapest first
var Rigs = []RigSpec{
	rig(domain.RigBasicCPU, "0.5", "1.0", 100, "common"),
	rig(domain.RigEntryGPU, "0.8", "1.0", 200, "common"),
	rig(domain.RigDualCore, "1.2", "1.05", 300, "common"),
	rig(domain.RigQuadCore, "2.0", "1.1", 500, "uncommon"),
	rig(domain.RigGTXMiner, "2.5", "1.15", 700, "uncommon"),
	rig(domain.RigASICBasic, "3.0", "1.2", 900, "uncommon"),
	rig(domain.RigRTX3080, "4.2", "1.25", 1500, "rare"),
	rig(domain.RigASICS19, "5.0", "1.3", 2000, "rare"),
	rig(domain.RigCustom, "5.8", "1.2", 2500, "rare"),
	rig(domain.RigRTX4090, "8.5", "1.4", 4000, "epic"),
	rig(domain.RigASICS21, "10.0", "1.5", 5000, "epic"),
	rig(domain.RigQuantumChip, "12.0", "2.0", 7500, "epic"),
	rig(domain.RigAIProcessor, "18.0", "1.75", 12000, "legendary"),
	rig(domain.RigFusionReactor, "22.0", "2.0", 20000, "legendary"),
	rig(domain.RigBlackHole, "50.0", "2.0", 50000, "mythic"),
	rig(domain.RigMainetCore, "100.0", "5.0", 100000, "mythic"),
}

// LookupRig finds a rig spec by type.
func LookupRig(t domain.RigType) (RigSpec, bool) {
	for _, r := range Rigs {
		if r.Type == t {
			return r, true
		}
	}
	return RigSpec{}, false
}
