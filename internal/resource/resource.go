// Package resource defines the fixed finite set of tradeable resources,
// their exchange priority, and per-resource threshold policy.
package resource

import "sort"

// Resource is an opaque identifier drawn from a fixed finite set.
type Resource uint16

const (
	Energy Resource = iota
	Power
	Ops

	// Base minerals.
	Hydrogen
	Oxygen
	Utrium
	Lemergium
	Keanium
	Zynthium
	Catalyst

	// Intermediates — first-stage compounds of two base minerals.
	Hydroxide
	ZynthiumKeanite
	UtriumLemergite
	Ghodium

	// Boosts — tier 1 (low).
	UtriumHydride
	KeaniumHydride
	LemergiumHydride
	ZynthiumHydride
	GhodiumHydride

	// Boosts — tier 2/3 (high), including the heal line.
	UtriumAcid
	UtriumAlkalide
	LemergiumOxide
	LemergiumAlkalide
	KeaniumAcid
	KeaniumAlkalide

	// Deposit-derived.
	Silicon
	Metal
	Biomass
	Mist

	// Commodities.
	Composite
	Crystal
	Liquid
	Wire
	Switch
	Transistor

	numResources
)

var names = map[Resource]string{
	Energy:          "energy",
	Power:           "power",
	Ops:             "ops",
	Hydrogen:        "hydrogen",
	Oxygen:          "oxygen",
	Utrium:          "utrium",
	Lemergium:       "lemergium",
	Keanium:         "keanium",
	Zynthium:        "zynthium",
	Catalyst:        "catalyst",
	Hydroxide:       "hydroxide",
	ZynthiumKeanite: "zynthium_keanite",
	UtriumLemergite: "utrium_lemergite",
	Ghodium:         "ghodium",
	UtriumHydride:   "utrium_hydride",
	KeaniumHydride:  "keanium_hydride",
	LemergiumHydride: "lemergium_hydride",
	ZynthiumHydride: "zynthium_hydride",
	GhodiumHydride:  "ghodium_hydride",
	UtriumAcid:      "utrium_acid",
	UtriumAlkalide:  "utrium_alkalide",
	LemergiumOxide:  "lemergium_oxide",
	LemergiumAlkalide: "lemergium_alkalide",
	KeaniumAcid:     "keanium_acid",
	KeaniumAlkalide: "keanium_alkalide",
	Silicon:         "silicon",
	Metal:           "metal",
	Biomass:         "biomass",
	Mist:            "mist",
	Composite:       "composite",
	Crystal:         "crystal",
	Liquid:          "liquid",
	Wire:            "wire",
	Switch:          "switch",
	Transistor:      "transistor",
}

// String returns the canonical lowercase name of the resource.
func (r Resource) String() string {
	if n, ok := names[r]; ok {
		return n
	}
	return "unknown"
}

// NameIndex returns every Resource keyed by its String() form, for
// deserializing persisted state that stores resources by name.
func NameIndex() map[string]Resource {
	index := make(map[string]Resource, len(names))
	for r, n := range names {
		index[n] = r
	}
	return index
}

// Class categorizes a resource for exchange-priority purposes.
// It is independent from Policy: two resources of the same
// Class can have different threshold behavior (e.g. heal boosts are
// HighTierBoost/LowTierBoost for ordering but Heal for thresholds).
type Class uint8

const (
	ClassHighTierBoost Class = iota
	ClassOps
	ClassLowTierBoost
	ClassIntermediate
	ClassBaseMineral
	ClassPower
	ClassEnergy
	ClassOther // deposit-derived, commodities, and anything unclassified
)

// classPriority defines the exchange order's class ordering: high-tier
// boosts first, then ops, lower-tier boosts, intermediates, base
// minerals, power, energy, then everything else.
var classPriority = map[Class]int{
	ClassHighTierBoost: 0,
	ClassOps:           1,
	ClassLowTierBoost:  2,
	ClassIntermediate:  3,
	ClassBaseMineral:   4,
	ClassPower:         5,
	ClassEnergy:        6,
	ClassOther:         7,
}

var classOf = map[Resource]Class{
	Energy:    ClassEnergy,
	Power:     ClassPower,
	Ops:       ClassOps,
	Hydrogen:  ClassBaseMineral,
	Oxygen:    ClassBaseMineral,
	Utrium:    ClassBaseMineral,
	Lemergium: ClassBaseMineral,
	Keanium:   ClassBaseMineral,
	Zynthium:  ClassBaseMineral,
	Catalyst:  ClassBaseMineral,

	Hydroxide:       ClassIntermediate,
	ZynthiumKeanite: ClassIntermediate,
	UtriumLemergite: ClassIntermediate,
	Ghodium:         ClassIntermediate,

	UtriumHydride:    ClassLowTierBoost,
	KeaniumHydride:   ClassLowTierBoost,
	LemergiumHydride: ClassLowTierBoost,
	ZynthiumHydride:  ClassLowTierBoost,
	GhodiumHydride:   ClassLowTierBoost,

	UtriumAcid:        ClassHighTierBoost,
	UtriumAlkalide:    ClassHighTierBoost,
	LemergiumOxide:    ClassHighTierBoost,
	LemergiumAlkalide: ClassHighTierBoost,
	KeaniumAcid:       ClassHighTierBoost,
	KeaniumAlkalide:   ClassHighTierBoost,

	Silicon: ClassOther,
	Metal:   ClassOther,
	Biomass: ClassOther,
	Mist:    ClassOther,

	Composite:  ClassOther,
	Crystal:    ClassOther,
	Liquid:     ClassOther,
	Wire:       ClassOther,
	Switch:     ClassOther,
	Transistor: ClassOther,
}

// ClassOf returns the exchange-priority class of a resource.
func ClassOf(r Resource) Class {
	if c, ok := classOf[r]; ok {
		return c
	}
	return ClassOther
}

// IsHeal reports whether r is one of the heal-line boosts, which use
// the Heal threshold policy (1.5x default target) rather than Default.
func IsHeal(r Resource) bool {
	switch r {
	case LemergiumHydride, LemergiumOxide, LemergiumAlkalide:
		return true
	default:
		return false
	}
}

// All returns every known resource in declaration order.
func All() []Resource {
	out := make([]Resource, 0, numResources)
	for r := Resource(0); r < numResources; r++ {
		out = append(out, r)
	}
	return out
}

// exchangeOrder is computed once: resources sorted by Class priority,
// tie-broken by declaration order (Resource numeric value) for a
// stable, deterministic total ordering. Used everywhere processing
// order or tie-breaking matters.
var exchangeOrder = func() []Resource {
	all := All()
	sort.SliceStable(all, func(i, j int) bool {
		ci, cj := classPriority[ClassOf(all[i])], classPriority[ClassOf(all[j])]
		if ci != cj {
			return ci < cj
		}
		return all[i] < all[j]
	})
	return all
}()

// ExchangeOrder returns RESOURCE_EXCHANGE_ORDER: the fixed total
// ordering over resources governing tick processing priority.
func ExchangeOrder() []Resource {
	out := make([]Resource, len(exchangeOrder))
	copy(out, exchangeOrder)
	return out
}

// Index returns r's position in RESOURCE_EXCHANGE_ORDER, used as a
// tie-break key (lower index sorts first).
func Index(r Resource) int {
	for i, x := range exchangeOrder {
		if x == r {
			return i
		}
	}
	return len(exchangeOrder)
}
