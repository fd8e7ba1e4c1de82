package network

import "github.com/talgya/terminalnet/internal/resource"

// CreepLifeTime is the domain constant used as the overload EMA's
// window.
const CreepLifeTime = 1500

// AvgCooldownWindow is the avgCooldown EMA's window.
const AvgCooldownWindow = 1000

func emaAlpha(window float64) float64 {
	return 2 / (window + 1)
}

// recordStats updates the persistent cooldown/overload EMAs and
// rebuilds the tier snapshot used by the UI and persisted layout.
func (n *TerminalNetwork) recordStats() {
	cooldownAlpha := emaAlpha(AvgCooldownWindow)
	overloadAlpha := emaAlpha(CreepLifeTime)

	for _, c := range n.members {
		prevCooldown := n.persistent.AvgCooldown[c.Name]
		n.persistent.AvgCooldown[c.Name] = cooldownAlpha*float64(c.Terminal.Cooldown) + (1-cooldownAlpha)*prevCooldown

		overloadSignal := 0.0
		if n.state.TerminalOverload[c.Name] {
			overloadSignal = 1.0
		}
		prevOverload := n.persistent.Overload[c.Name]
		n.persistent.Overload[c.Name] = overloadAlpha*overloadSignal + (1-overloadAlpha)*prevOverload
	}

	snapshot := make(map[Tier]map[string][]resource.Resource)
	for _, tier := range tierOrder {
		bucket := n.state.bucketFor(tier)
		if bucket == nil {
			continue
		}
		byColony := make(map[string][]resource.Resource)
		for _, r := range resource.ExchangeOrder() {
			for _, c := range bucket[r] {
				byColony[c.Name] = append(byColony[c.Name], r)
			}
		}
		snapshot[tier] = byColony
	}
	n.persistent.TierSnapshot = snapshot
}
