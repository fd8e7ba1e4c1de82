package network

import (
	"math"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
	"github.com/talgya/terminalnet/internal/transact"
)

// sendCost is the canonical energy cost to send amt of r between two
// colonies, computed from their room names. A malformed room name
// degrades to the worst-case cost rather than panicking.
func (n *TerminalNetwork) sendCost(from, to *colony.Colony, amt uint64) uint64 {
	cost, err := transact.SendCost(amt, from.RoomName, to.RoomName)
	if err != nil {
		n.log.Warn("send cost computation failed, treating as maximal",
			"from", from.RoomName, "to", to.RoomName, "error", err)
		return amt
	}
	return cost
}

// bestSender scores candidates by the sender heuristic and returns the
// highest-scoring (least negative) candidate. Returns nil if
// candidates is empty.
func (n *TerminalNetwork) bestSender(requestor *colony.Colony, candidates []*colony.Colony, amt uint64) *colony.Colony {
	var best *colony.Colony
	bestScore := math.Inf(-1)

	for _, p := range candidates {
		cost := n.sendCost(p, requestor, amt)
		avgCooldown := n.persistent.AvgCooldown[p.Name]
		score := -float64(cost) * (partnerScoreK + float64(cost)/bigCost + avgCooldown)
		if score > bestScore {
			bestScore = score
			best = p
		}
	}
	return best
}

// bestReceiver returns the candidate minimizing sendCost(provider,
// candidate, amt). Returns nil if candidates is empty.
func (n *TerminalNetwork) bestReceiver(provider *colony.Colony, candidates []*colony.Colony, amt uint64) *colony.Colony {
	var best *colony.Colony
	var bestCost uint64

	for _, p := range candidates {
		cost := n.sendCost(provider, p, amt)
		if best == nil || cost < bestCost {
			bestCost = cost
			best = p
		}
	}
	return best
}

// maxSend returns the per-send cap for r: energy has a larger
// allowance than every other resource.
func maxSend(r resource.Resource) uint64 {
	if r == resource.Energy {
		return maxSendEnergy
	}
	return maxSendOther
}
