package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type RigType string

const (
	RigBasicCPU      RigType = "basic_cpu"
	RigEntryGPU      RigType = "entry_gpu"
	RigDualCore      RigType = "dual_core"
	RigQuadCore      RigType = "quad_core"
	RigGTXMiner      RigType = "gtx_miner"
	RigASICBasic     RigType = "asic_basic"
	RigRTX3080       RigType = "rtx_3080"
	RigASICS19       RigType = "asic_s19"
	RigCustom        RigType = "custom_rig"
	RigRTX4090       RigType = "rtx_4090"
	RigASICS21       RigType = "asic_s21"
	RigQuantumChip   RigType = "quantum_chip"
	RigAIProcessor   RigType = "ai_processor"
	RigFusionReactor RigType = "fusion_reactor"
	RigBlackHole     RigType = "black_hole"
	RigMainetCore    RigType = "mainet_core"
)

// MiningRig is an owned piece of virtual hardware contributing passive hashrate
type MiningRig struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	UserID           uuid.UUID       `db:"user_id" json:"user_id"`
	RigName          string          `db:"rig_name" json:"rig_name"`
	RigType          RigType         `db:"rig_type" json:"rig_type"`
	MiningPower      decimal.Decimal `db:"mining_power" json:"mining_power"`
	EfficiencyRating decimal.Decimal `db:"efficiency_rating" json:"efficiency_rating"`
	Rarity           string          `db:"rarity" json:"rarity"`
	PurchasePrice    decimal.Decimal `db:"purchase_price" json:"purchase_price"`
	IsActive         bool            `db:"is_active" json:"is_active"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// Hashrate is the rig's contribution to passive mining.
func (r *MiningRig) Hashrate() decimal.Decimal {
	if !r.IsActive {
		return decimal.Zero
	}
	return r.MiningPower.Mul(r.EfficiencyRating)
}
