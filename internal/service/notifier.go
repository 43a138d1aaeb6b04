package service

import "github.com/google/uuid"

// Push message types
const (
	EventGameStateUpdated = "game_state_updated"
	EventUpgradePurchased = "upgrade_purchased"
	EventBalanceCredited  = "balance_credited"
)

// Notifier pushes an event to a user's open connections. Delivery is best effort.
type Notifier interface {
	Notify(userID uuid.UUID, event string, data any)
}

type nopNotifier struct{}

func (nopNotifier) Notify(uuid.UUID, string, any) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
