package network

import (
	"fmt"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/market"
	"github.com/talgya/terminalnet/internal/resource"
)

// provideOptions configures handleProviders.
type provideOptions struct {
	partners              []Bucket
	allowPushToOtherRooms bool
	allowMarketSell       bool
}

// handleProviders implements the provide side of the exchange: for
// each resource in exchange order, for each active-provider colony,
// push excess to a tiered receiver search, then fall back to the
// market.
func (n *TerminalNetwork) handleProviders(providers Bucket, opts provideOptions) {
	for _, r := range resource.ExchangeOrder() {
		for _, c := range providers[r] {
			n.handleOneProvider(c, r, opts)
		}
	}
}

func (n *TerminalNetwork) handleOneProvider(c *colony.Colony, r resource.Resource, opts provideOptions) {
	if !c.Terminal.IsReady() {
		return
	}

	th := n.thresholds(c, r)
	amount := c.Asset(r)
	if amount <= th.Target {
		return
	}
	excess := amount - th.Target

	pushed := false
	if opts.allowPushToOtherRooms {
		pushed = n.pushToPartners(c, r, amount, excess, th, opts.partners)
	}
	if pushed {
		return
	}

	if opts.allowMarketSell {
		n.marketSell(c, r, amount, excess)
	}
}

// pushToPartners implements step 3: preferred, relaxed, then loose
// receiver candidate tiers, in that order, choosing the best receiver
// from the first non-empty tier.
func (n *TerminalNetwork) pushToPartners(c *colony.Colony, r resource.Resource, amount, excess uint64, providerTh resource.Thresholds, partners []Bucket) bool {
	for _, p := range partners {
		candidates := p[r]
		if len(candidates) == 0 {
			continue
		}

		pool := n.filterReceivers(candidates, r, excess, receiverTierPreferred)
		if len(pool) == 0 {
			pool = n.filterReceivers(candidates, r, excess, receiverTierRelaxed)
		}
		if len(pool) == 0 {
			pool = n.filterReceivers(candidates, r, excess, receiverTierLoose)
		}
		if len(pool) == 0 {
			continue
		}

		receiver := n.bestReceiver(c, pool, excess)
		if receiver == nil {
			continue
		}

		sendAmt := minUint64(excess, c.Terminal.Store[r], maxSend(r))
		n.transfer(c, receiver, r, sendAmt)
		return true
	}
	return false
}

type receiverTier int

const (
	receiverTierPreferred receiverTier = iota
	receiverTierRelaxed
	receiverTierLoose
)

func (n *TerminalNetwork) filterReceivers(candidates []*colony.Colony, r resource.Resource, excess uint64, tier receiverTier) []*colony.Colony {
	var out []*colony.Colony
	for _, partner := range candidates {
		partnerTh := n.thresholds(partner, r)
		partnerAmount := partner.Asset(r)
		space := partner.RemainingSpace(true)

		switch tier {
		case receiverTierPreferred:
			if partnerAmount+excess <= partnerTh.Target && space-int64(excess) >= colony.MinColonySpace {
				out = append(out, partner)
			}
		case receiverTierRelaxed:
			if partnerAmount+excess <= partnerTh.Target+partnerTh.Tolerance && space-int64(excess) >= colony.MinColonySpace {
				out = append(out, partner)
			}
		case receiverTierLoose:
			if space < int64(excess) {
				continue
			}
			becomesActiveProvider := false
			if partnerTh.HasSurplus() {
				becomesActiveProvider = partnerAmount+excess >= *partnerTh.Surplus
			} else {
				becomesActiveProvider = partnerAmount+excess > partnerTh.Target+partnerTh.Tolerance
			}
			if !becomesActiveProvider {
				out = append(out, partner)
			}
		}
	}
	return out
}

// marketSell implements step 4: delegate to the market adapter,
// preferring an immediate direct sale for energy and base minerals
// when the provider is critically short on space.
func (n *TerminalNetwork) marketSell(c *colony.Colony, r resource.Resource, amount, excess uint64) {
	if n.market == nil {
		return
	}

	preferDirect := false
	if r == resource.Energy || resource.ClassOf(r) == resource.ClassBaseMineral {
		preferDirect = c.RemainingSpace(true) < colony.MinColonySpace
	}

	sendAmt := minUint64(excess, c.Terminal.Store[r], maxSend(r))
	if sendAmt == 0 {
		return
	}
	sold := n.market.Sell(c.Terminal, r, sendAmt, market.SellOptions{PreferDirect: preferDirect})
	if sold < 0 {
		n.state.Notifications = append(n.state.Notifications, fmt.Sprintf(
			"• %s failed to sell surplus %s on the market", c.Name, r.String()))
	}
}
