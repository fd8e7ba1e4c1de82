package network

import (
	"fmt"
	"sort"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// requestOptions configures handleRequestors.
type requestOptions struct {
	partners                []Bucket
	allowDivvying           bool
	sendTargetPlusTolerance bool
	allowMarketBuy          bool
	receiveOnlyOncePerTick  bool
}

const maxDivvyPartners = 3

// handleRequestors implements the request side of the exchange: for
// each resource in exchange order, for each requestor colony, search
// tiered partner sources, fall back to divvying across up to three
// partners, then to the market, then give up with a throttled
// notification.
func (n *TerminalNetwork) handleRequestors(requestors Bucket, opts requestOptions) {
	for _, r := range resource.ExchangeOrder() {
		colonies := requestors[r]
		for _, c := range colonies {
			n.handleOneRequestor(c, r, opts)
		}
	}
}

func (n *TerminalNetwork) handleOneRequestor(c *colony.Colony, r resource.Resource, opts requestOptions) {
	if opts.receiveOnlyOncePerTick && c.Terminal.HasReceived {
		return
	}

	th := n.thresholds(c, r)
	amount := c.Asset(r)
	if amount >= th.Target && !opts.sendTargetPlusTolerance {
		return
	}

	var need int64
	if opts.sendTargetPlusTolerance {
		need = int64(th.Target+th.Tolerance) - int64(amount)
	} else {
		need = int64(th.Target) - int64(amount)
	}
	if need <= 0 {
		return
	}
	needAmt := uint64(need)

	if n.searchTiers(c, r, needAmt, th, opts.partners) {
		return
	}

	if opts.allowDivvying && n.divvy(c, r, needAmt, opts.partners) {
		return
	}

	if opts.allowMarketBuy && n.marketBuy(c, r, needAmt) {
		return
	}

	n.notifyThrottled(c, r, fmt.Sprintf(
		"• %s could not satisfy request for %s (need %d)", c.Name, r.String(), needAmt))
}

// searchTiers implements step 3 of the request side: strict, then
// relaxed candidate filtering per partner source, in priority order.
// Returns true once a candidate set is found and a send attempted,
// regardless of whether the send itself succeeded — the request is
// considered handled either way.
func (n *TerminalNetwork) searchTiers(c *colony.Colony, r resource.Resource, need uint64, requestorTh resource.Thresholds, partners []Bucket) bool {
	for _, p := range partners {
		candidates := p[r]
		if len(candidates) == 0 {
			continue
		}

		strict := n.filterCandidates(candidates, r, need, func(partnerTarget uint64) int64 {
			return int64(partnerTarget)
		})
		pool := strict
		if len(pool) == 0 {
			pool = n.filterCandidates(candidates, r, need, func(partnerTarget uint64) int64 {
				return int64(partnerTarget) - int64(requestorTh.Tolerance)
			})
		}
		if len(pool) == 0 {
			continue
		}

		sender := n.bestSender(c, pool, need)
		if sender == nil {
			continue
		}

		sendAmt := minUint64(need, sender.Terminal.Store[r], maxSend(r))
		n.transfer(sender, c, r, sendAmt)
		return true
	}
	return false
}

// filterCandidates selects partners whose assets minus need still
// clear the given bound function of the partner's own threshold
// target.
func (n *TerminalNetwork) filterCandidates(candidates []*colony.Colony, r resource.Resource, need uint64, bound func(partnerTarget uint64) int64) []*colony.Colony {
	var out []*colony.Colony
	for _, p := range candidates {
		partnerTh := n.thresholds(p, r)
		remaining := int64(p.Asset(r)) - int64(need)
		if remaining >= bound(partnerTh.Target) {
			out = append(out, p)
		}
	}
	return out
}

// divvy implements step 4: flatten every partner source, pick up to
// three partners with positive excess over their own target, sorted
// by descending excess, and draw from each until the need is met or
// the partners are exhausted.
func (n *TerminalNetwork) divvy(c *colony.Colony, r resource.Resource, need uint64, partners []Bucket) bool {
	type candidate struct {
		colony *colony.Colony
		excess uint64
	}

	seen := make(map[string]bool)
	var pool []candidate
	for _, p := range partners {
		for _, partner := range p[r] {
			if seen[partner.Name] {
				continue
			}
			seen[partner.Name] = true
			th := n.thresholds(partner, r)
			amount := partner.Asset(r)
			if amount > th.Target {
				pool = append(pool, candidate{colony: partner, excess: amount - th.Target})
			}
		}
	}

	sort.Slice(pool, func(i, j int) bool { return pool[i].excess > pool[j].excess })
	if len(pool) > maxDivvyPartners {
		pool = pool[:maxDivvyPartners]
	}

	remaining := need
	succeeded := false
	for _, cand := range pool {
		if remaining == 0 {
			break
		}
		draw := minUint64(cand.excess, remaining, maxSend(r))
		draw = minUint64(draw, cand.colony.Terminal.Store[r])
		if draw == 0 {
			continue
		}
		if n.transfer(cand.colony, c, r, draw) {
			succeeded = true
			remaining -= draw
		}
	}
	return succeeded
}

// marketBuy implements step 5: gate on the account's credit balance,
// then delegate to the market adapter.
func (n *TerminalNetwork) marketBuy(c *colony.Colony, r resource.Resource, need uint64) bool {
	if n.market == nil {
		return false
	}
	if n.market.Credits() < n.cfg.CreditGates.Gate(r) {
		return false
	}
	bought := n.market.Buy(c.Terminal, r, minUint64(need, maxSend(r)))
	return bought >= 0
}

func minUint64(values ...uint64) uint64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
