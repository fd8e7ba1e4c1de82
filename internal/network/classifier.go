package network

import (
	"log/slog"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// classify implements the state classifier decision table for a
// single (colony, resource, thresholds) triple.
func classify(amount uint64, th resource.Thresholds, remainingSpace int64) Tier {
	target, tolerance := th.Target, th.Tolerance

	if th.HasSurplus() && amount > *th.Surplus {
		return ActiveProvider
	}

	upper := target + tolerance
	if amount > upper {
		if remainingSpace < colony.MinColonySpace {
			return ActiveProvider
		}
		return PassiveProvider
	}

	var lower uint64
	if tolerance <= target {
		lower = target - tolerance
	}
	if amount >= lower && amount <= upper {
		return Equilibrium
	}
	if amount < lower {
		return PassiveRequestor
	}
	// Unreachable under the invariant tolerance <= target, but the
	// classifier must exhaust its domain rather than fall through
	// silently.
	return TierError
}

// assignColonyStates runs the classifier once per colony per resource
// in exchange order, honoring any pre-existing override, then shuffles
// each tier bucket for fairness.
func (n *TerminalNetwork) assignColonyStates() {
	order := resource.ExchangeOrder()

	for _, c := range n.members {
		states, ok := n.state.ColonyStates[c.Name]
		if !ok {
			states = make(map[resource.Resource]Tier)
			n.state.ColonyStates[c.Name] = states
		}

		for _, r := range order {
			if tier, overridden := states[r]; overridden {
				n.placeInBucket(c, r, tier)
				continue
			}

			th := n.thresholds(c, r)
			amount := c.Asset(r)
			space := c.RemainingSpace(true)

			tier := classify(amount, th, space)
			if tier == TierError {
				slog.Error("classifier reached error tier",
					"colony", c.Name, "resource", r.String(),
					"amount", amount, "target", th.Target, "tolerance", th.Tolerance)
				continue
			}

			states[r] = tier
			n.placeInBucket(c, r, tier)
		}
	}

	n.shuffleBuckets()
}

func (n *TerminalNetwork) placeInBucket(c *colony.Colony, r resource.Resource, tier Tier) {
	b := n.state.bucketFor(tier)
	if b == nil {
		return
	}
	b[r] = append(b[r], c)
}

// shuffleBuckets randomly permutes each tier's per-resource colony
// list. Each bucket gets a fresh generator seeded from the tick and
// the resource, so shuffling one bucket does not perturb another's
// order; the tier is not part of the seed.
func (n *TerminalNetwork) shuffleBuckets() {
	for _, b := range []Bucket{
		n.state.ActiveProviders, n.state.PassiveProviders,
		n.state.Equilibriums, n.state.PassiveReqs, n.state.ActiveReqs,
	} {
		for r, colonies := range b {
			seed := int64(n.tick)<<16 ^ int64(r)
			b[r] = shuffleBucket(n.shuffler.reseed(uint64(seed)), colonies)
		}
	}
}
