// Package metrics holds the prometheus collectors for game and payment events.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

var (
	Clicks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "game_clicks_total",
		Help: "Clicks accepted by the game service",
	})
	UpgradesPurchased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_upgrades_purchased_total",
			Help: "Upgrade levels bought, by upgrade type",
		},
		[]string{"type"},
	)
	RigsPurchased = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "game_rigs_purchased_total",
			Help: "Mining rigs bought, by rig type",
		},
		[]string{"rig_type"},
	)
	Verifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "External transaction verifications, by method and outcome",
		},
		[]string{"method", "status"},
	)
	WSConnections = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ws_active_connections",
		Help: "Open websocket connections",
	})
	VerifiedAmount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "payment_verified_amount",
		Help: "Total amount credited from verified external transactions",
	})
	VerificationsByStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "payment_verification_records",
			Help: "Stored verification records, by status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(Clicks, UpgradesPurchased, RigsPurchased, Verifications,
		WSConnections, VerifiedAmount, VerificationsByStatus)
}

// Float converts a decimal for gauges; precision loss is acceptable here
func Float(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
