package market

import (
	"sync"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// priceFloorFactor and priceCeilingFactor bound resolved prices as a
// multiple of a resource's base price.
const (
	priceFloorFactor   = 0.5
	priceCeilingFactor = 3.0
	directSaleDiscount = 0.85
)

// entry is the supply/demand state for one resource.
type entry struct {
	Supply    float64
	Demand    float64
	BasePrice float64
}

// resolvePrice derives a price from demand/supply pressure, clamped to
// [floor, ceiling] multiples of the base price.
func (e *entry) resolvePrice() float64 {
	supply := e.Supply
	if supply < 1 {
		supply = 1
	}
	demand := e.Demand
	if demand < 1 {
		demand = 1
	}
	price := e.BasePrice * (demand / supply)

	floor := e.BasePrice * priceFloorFactor
	ceiling := e.BasePrice * priceCeilingFactor
	if price < floor {
		price = floor
	}
	if price > ceiling {
		price = ceiling
	}
	return price
}

// SimAdapter is a reference in-memory Adapter: every resource gets a
// base price derived from its resource class, credits are tracked as
// a plain balance, and every buy/sell nudges the resource's
// supply/demand pressure.
type SimAdapter struct {
	mu      sync.Mutex
	entries map[resource.Resource]*entry
	credits int64
}

// classBasePrice assigns a base price per resource class.
func classBasePrice(r resource.Resource) float64 {
	switch resource.ClassOf(r) {
	case resource.ClassHighTierBoost:
		return 40
	case resource.ClassOps:
		return 20
	case resource.ClassLowTierBoost:
		return 15
	case resource.ClassIntermediate:
		return 5
	case resource.ClassBaseMineral:
		return 2
	case resource.ClassPower:
		return 30
	case resource.ClassEnergy:
		return 1
	default:
		return 3
	}
}

// NewSimAdapter constructs a SimAdapter seeded with initialCredits and
// a base price entry for every known resource.
func NewSimAdapter(initialCredits int64) *SimAdapter {
	a := &SimAdapter{
		entries: make(map[resource.Resource]*entry),
		credits: initialCredits,
	}
	for _, r := range resource.All() {
		a.entries[r] = &entry{Supply: 1, Demand: 1, BasePrice: classBasePrice(r)}
	}
	return a
}

func (a *SimAdapter) entryFor(r resource.Resource) *entry {
	e, ok := a.entries[r]
	if !ok {
		e = &entry{Supply: 1, Demand: 1, BasePrice: classBasePrice(r)}
		a.entries[r] = e
	}
	return e
}

// Credits returns the current credit balance.
func (a *SimAdapter) Credits() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.credits
}

// Buy purchases amount of r into terminal's store, returning the
// amount bought or -1 if credits are insufficient.
func (a *SimAdapter) Buy(terminal *colony.Terminal, r resource.Resource, amount uint64) int64 {
	if amount == 0 {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	e := a.entryFor(r)
	price := e.resolvePrice()
	cost := int64(price * float64(amount))
	if cost > a.credits {
		return -1
	}

	a.credits -= cost
	e.Demand += float64(amount)
	if terminal.Store == nil {
		terminal.Store = make(map[resource.Resource]uint64)
	}
	terminal.Store[r] += amount
	return int64(amount)
}

// Sell sells amount of r out of terminal's store, returning the
// amount sold or -1 if the terminal does not hold enough.
func (a *SimAdapter) Sell(terminal *colony.Terminal, r resource.Resource, amount uint64, opts SellOptions) int64 {
	if amount == 0 {
		return 0
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if terminal.Store[r] < amount {
		return -1
	}

	e := a.entryFor(r)
	price := e.resolvePrice()
	if opts.PreferDirect {
		price *= directSaleDiscount
	}

	terminal.Store[r] -= amount
	a.credits += int64(price * float64(amount))
	e.Supply += float64(amount)
	return int64(amount)
}
