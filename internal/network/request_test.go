package network

import (
	"testing"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// buildResourceColony mirrors buildColony but for an arbitrary resource,
// registering the colony in reg so partner sends can find it by room.
func buildResourceColony(reg *colony.Registry, name, room string, r resource.Resource, amount uint64) *colony.Colony {
	assets := map[resource.Resource]uint64{r: amount}
	c := &colony.Colony{
		Name:     name,
		Level:    8,
		RoomName: room,
		Assets:   assets,
	}
	c.Terminal = colony.NewSimTerminal(reg, assets)
	reg.Register(c)
	return c
}

func TestDivvySplitsAcrossTopThreePartnersByDescendingExcess(t *testing.T) {
	n := newTestNetwork()
	reg := colony.NewRegistry()
	requestor := buildResourceColony(reg, "requestor", "E0S0", resource.Hydrogen, 0)

	const target = 7000 // resource.StaticDefault(Hydrogen).Target
	low := buildResourceColony(reg, "low", "E1S0", resource.Hydrogen, target+500)
	small := buildResourceColony(reg, "small", "E2S0", resource.Hydrogen, target+4000)
	big := buildResourceColony(reg, "big", "E3S0", resource.Hydrogen, target+8000)
	mid := buildResourceColony(reg, "mid", "E4S0", resource.Hydrogen, target+6000)

	partners := []Bucket{{resource.Hydrogen: {low, small, big, mid}}}

	ok := n.divvy(requestor, resource.Hydrogen, 9000, partners)
	if !ok {
		t.Fatal("divvy should succeed: three partners' capped draws cover the need exactly")
	}

	if got := requestor.Asset(resource.Hydrogen); got != 9000 {
		t.Errorf("requestor received %d, want 9000", got)
	}

	// Each of the three highest-excess partners is capped at maxSendOther (3000).
	if got := big.Asset(resource.Hydrogen); got != target+8000-maxSendOther {
		t.Errorf("big partner balance after draw = %d, want %d", got, target+8000-maxSendOther)
	}
	if got := mid.Asset(resource.Hydrogen); got != target+6000-maxSendOther {
		t.Errorf("mid partner balance after draw = %d, want %d", got, target+6000-maxSendOther)
	}
	if got := small.Asset(resource.Hydrogen); got != target+4000-maxSendOther {
		t.Errorf("small partner balance after draw = %d, want %d", got, target+4000-maxSendOther)
	}

	// The lowest-excess partner falls outside the top-three cap and is never touched.
	if got := low.Asset(resource.Hydrogen); got != target+500 {
		t.Errorf("low partner balance = %d, want untouched %d", got, target+500)
	}
}

func TestDivvyStopsDrawingOnceNeedIsMet(t *testing.T) {
	n := newTestNetwork()
	reg := colony.NewRegistry()
	requestor := buildResourceColony(reg, "requestor", "E0S0", resource.Hydrogen, 0)

	const target = 7000
	a := buildResourceColony(reg, "a", "E1S0", resource.Hydrogen, target+5000)
	b := buildResourceColony(reg, "b", "E2S0", resource.Hydrogen, target+5000)

	partners := []Bucket{{resource.Hydrogen: {a, b}}}

	ok := n.divvy(requestor, resource.Hydrogen, 1500, partners)
	if !ok {
		t.Fatal("divvy should succeed when a single partner's excess covers the need")
	}
	if got := requestor.Asset(resource.Hydrogen); got != 1500 {
		t.Errorf("requestor received %d, want 1500", got)
	}
	// 1500 is well under one partner's maxSendOther cap, so the combined
	// draw still lands exactly on the need regardless of which of the
	// equal-excess partners it came from.
	if gotA, gotB := a.Asset(resource.Hydrogen), b.Asset(resource.Hydrogen); gotA+gotB != 2*(target+5000)-1500 {
		t.Errorf("combined partner balances after draw = %d, want %d", gotA+gotB, 2*(target+5000)-1500)
	}
}

func TestDivvyFailsWithNoSurplusPartners(t *testing.T) {
	n := newTestNetwork()
	reg := colony.NewRegistry()
	requestor := buildResourceColony(reg, "requestor", "E0S0", resource.Hydrogen, 0)
	atTarget := buildResourceColony(reg, "at-target", "E1S0", resource.Hydrogen, 7000)

	partners := []Bucket{{resource.Hydrogen: {atTarget}}}

	if n.divvy(requestor, resource.Hydrogen, 1000, partners) {
		t.Error("divvy should fail when no partner holds more than its own target")
	}
}
