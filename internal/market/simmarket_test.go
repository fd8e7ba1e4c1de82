package market

import (
	"testing"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

func TestBuyInsufficientCreditsFails(t *testing.T) {
	a := NewSimAdapter(10)
	term := &colony.Terminal{Store: map[resource.Resource]uint64{}}
	if got := a.Buy(term, resource.Power, 1000); got != -1 {
		t.Errorf("Buy with insufficient credits = %d, want -1", got)
	}
}

func TestBuyDeductsCreditsAndCreditsStore(t *testing.T) {
	a := NewSimAdapter(1_000_000)
	term := &colony.Terminal{Store: map[resource.Resource]uint64{}}
	before := a.Credits()

	got := a.Buy(term, resource.Energy, 100)
	if got != 100 {
		t.Fatalf("Buy returned %d, want 100", got)
	}
	if term.Store[resource.Energy] != 100 {
		t.Errorf("terminal store after buy = %d, want 100", term.Store[resource.Energy])
	}
	if a.Credits() >= before {
		t.Error("expected credits to decrease after a buy")
	}
}

func TestSellInsufficientStoreFails(t *testing.T) {
	a := NewSimAdapter(0)
	term := &colony.Terminal{Store: map[resource.Resource]uint64{resource.Energy: 10}}
	if got := a.Sell(term, resource.Energy, 100, SellOptions{}); got != -1 {
		t.Errorf("Sell beyond store = %d, want -1", got)
	}
}

func TestSellCreditsAccountAndDrainsStore(t *testing.T) {
	a := NewSimAdapter(0)
	term := &colony.Terminal{Store: map[resource.Resource]uint64{resource.Energy: 1000}}

	got := a.Sell(term, resource.Energy, 500, SellOptions{})
	if got != 500 {
		t.Fatalf("Sell returned %d, want 500", got)
	}
	if term.Store[resource.Energy] != 500 {
		t.Errorf("terminal store after sell = %d, want 500", term.Store[resource.Energy])
	}
	if a.Credits() <= 0 {
		t.Error("expected credits to increase after a sell")
	}
}

func TestSellPreferDirectAppliesDiscount(t *testing.T) {
	plain := NewSimAdapter(0)
	discounted := NewSimAdapter(0)
	store := func() map[resource.Resource]uint64 { return map[resource.Resource]uint64{resource.Energy: 1000} }

	plain.Sell(&colony.Terminal{Store: store()}, resource.Energy, 1000, SellOptions{})
	discounted.Sell(&colony.Terminal{Store: store()}, resource.Energy, 1000, SellOptions{PreferDirect: true})

	if discounted.Credits() >= plain.Credits() {
		t.Errorf("PreferDirect sale credited %d, want less than plain sale %d", discounted.Credits(), plain.Credits())
	}
}

func TestResolvePriceClampsToFloorAndCeiling(t *testing.T) {
	e := &entry{Supply: 1000, Demand: 1, BasePrice: 10}
	if got := e.resolvePrice(); got != 10*priceFloorFactor {
		t.Errorf("low-demand price = %v, want floor %v", got, 10*priceFloorFactor)
	}
	e2 := &entry{Supply: 1, Demand: 1000, BasePrice: 10}
	if got := e2.resolvePrice(); got != 10*priceCeilingFactor {
		t.Errorf("high-demand price = %v, want ceiling %v", got, 10*priceCeilingFactor)
	}
}

func TestCreditGatesDispatch(t *testing.T) {
	gates := DefaultCreditGates()
	if gates.Gate(resource.Energy) != gates.CanBuyEnergyAbove {
		t.Error("expected energy to use the energy gate")
	}
	if gates.Gate(resource.UtriumAcid) != gates.CanBuyBoostsAbove {
		t.Error("expected a high-tier boost to use the boost gate")
	}
	if gates.Gate(resource.Hydrogen) != gates.CanBuyAbove {
		t.Error("expected a base mineral to use the generic gate")
	}
}

func TestCanBuyRespectsGate(t *testing.T) {
	a := NewSimAdapter(100)
	gates := DefaultCreditGates()
	if CanBuy(a, gates, resource.Energy) {
		t.Error("expected insufficient credits to fail the energy gate")
	}
	if !CanBuy(a, gates, resource.Hydrogen) {
		t.Error("expected the generic gate (0) to pass with any nonnegative balance")
	}
}
