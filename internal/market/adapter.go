// Package market defines the external market collaborator the
// request/provide handlers fall through to, plus a reference
// in-memory implementation for standalone runs.
package market

import (
	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// SellOptions carries the provide handler's sell hints.
type SellOptions struct {
	// PreferDirect is set for energy and base minerals when the
	// provider's remaining space is critically low, signalling the
	// adapter to favor an immediate direct sale over waiting for a
	// better order match.
	PreferDirect bool
}

// Adapter is the external market collaborator. Buy/Sell return the
// amount transacted; a negative value means the order failed (no
// match, insufficient credits, or any other adapter-side reason) and
// the caller treats the whole request/provide instance as failed.
type Adapter interface {
	Buy(terminal *colony.Terminal, r resource.Resource, amount uint64) int64
	Sell(terminal *colony.Terminal, r resource.Resource, amount uint64, opts SellOptions) int64

	// Credits returns the account-wide credit balance used for the
	// market gating constants.
	Credits() int64
}

// CreditGates are the credit thresholds gating market buy attempts.
// CanBuyAbove is the generic floor; energy and boosts have their own,
// typically higher, floors.
type CreditGates struct {
	CanBuyAbove       int64
	CanBuyEnergyAbove int64
	CanBuyBoostsAbove int64
}

// DefaultCreditGates mirrors a conservative, always-available default:
// never buy energy or boosts speculatively, but allow generic buys
// once any credits exist.
func DefaultCreditGates() CreditGates {
	return CreditGates{
		CanBuyAbove:       0,
		CanBuyEnergyAbove: 1_000_000,
		CanBuyBoostsAbove: 500_000,
	}
}

// IsBoost is consulted by Gate to decide which gate applies; see
// resource.Class — any boost-classed resource uses CanBuyBoostsAbove
// instead of the generic gate.
func IsBoost(r resource.Resource) bool {
	switch resource.ClassOf(r) {
	case resource.ClassHighTierBoost, resource.ClassLowTierBoost:
		return true
	default:
		return false
	}
}

// Gate returns the credit floor that applies to buying r.
func (g CreditGates) Gate(r resource.Resource) int64 {
	switch {
	case r == resource.Energy:
		return g.CanBuyEnergyAbove
	case IsBoost(r):
		return g.CanBuyBoostsAbove
	default:
		return g.CanBuyAbove
	}
}

// CanBuy reports whether the adapter's current credit balance clears
// the gate for r.
func CanBuy(a Adapter, gates CreditGates, r resource.Resource) bool {
	return a.Credits() >= gates.Gate(r)
}
