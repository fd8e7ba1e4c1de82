// Package network implements the Terminal Network: the per-tick
// state-classification, partner-selection, request/provide matching,
// and transfer bookkeeping that balances resource inventories across
// a set of colonies.
package network

import (
	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// Tier is one of the five demand states a (colony, resource) pair is
// classified into, totally ordered by urgency.
type Tier uint8

const (
	ActiveProvider Tier = iota
	PassiveProvider
	Equilibrium
	PassiveRequestor
	ActiveRequestor
	TierError
)

func (t Tier) String() string {
	switch t {
	case ActiveProvider:
		return "active_provider"
	case PassiveProvider:
		return "passive_provider"
	case Equilibrium:
		return "equilibrium"
	case PassiveRequestor:
		return "passive_requestor"
	case ActiveRequestor:
		return "active_requestor"
	default:
		return "error"
	}
}

// Bucket is a per-resource list of colonies sharing a tier.
type Bucket = map[resource.Resource][]*colony.Colony

// PerTickState is rebuilt every refresh and discarded at the start of
// the next one.
type PerTickState struct {
	// ColonyThresholds holds override thresholds set by external
	// callers via requestResource/exportResource, keyed by colony name
	// then resource.
	ColonyThresholds map[string]map[resource.Resource]resource.Thresholds

	// ColonyStates holds the tier assigned to (colony, resource),
	// either by override or by the classifier.
	ColonyStates map[string]map[resource.Resource]Tier

	// Buckets, one per tier, mapping resource to the colonies
	// classified into that tier for that resource.
	ActiveProviders  Bucket
	PassiveProviders Bucket
	Equilibriums     Bucket
	PassiveReqs      Bucket
	ActiveReqs       Bucket

	// Assets is the network-wide sum of each resource across every
	// member colony, snapshotted at init().
	Assets map[resource.Resource]uint64

	// TerminalOverload holds the names of colonies whose terminal
	// tried and failed to send this tick.
	TerminalOverload map[string]bool

	// Notifications accumulates this tick's textual notifications.
	Notifications []string

	// TransferCount is the number of successful transfers this tick.
	TransferCount int

	// energyThreshold is the dynamically derived energy threshold
	// computed once per refresh.
	energyThreshold resource.Thresholds
}

func newPerTickState() *PerTickState {
	return &PerTickState{
		ColonyThresholds: make(map[string]map[resource.Resource]resource.Thresholds),
		ColonyStates:     make(map[string]map[resource.Resource]Tier),
		ActiveProviders:  make(Bucket),
		PassiveProviders: make(Bucket),
		Equilibriums:     make(Bucket),
		PassiveReqs:      make(Bucket),
		ActiveReqs:       make(Bucket),
		Assets:           make(map[resource.Resource]uint64),
		TerminalOverload: make(map[string]bool),
	}
}

// bucketFor returns the mutable bucket for a tier, or nil for
// TierError, which has no bucket. ActiveRequestor's bucket is filled
// only by requestResource overrides, never by the classifier.
func (s *PerTickState) bucketFor(t Tier) Bucket {
	switch t {
	case ActiveProvider:
		return s.ActiveProviders
	case PassiveProvider:
		return s.PassiveProviders
	case Equilibrium:
		return s.Equilibriums
	case PassiveRequestor:
		return s.PassiveReqs
	case ActiveRequestor:
		return s.ActiveReqs
	default:
		return nil
	}
}

// LedgerEntry is one persisted transfer tally.
type LedgerEntry struct {
	Resource    resource.Resource
	Origin      string
	Destination string
	Units       uint64
	Cost        uint64
}

// PersistentState survives across ticks, owned exclusively by the
// network. The EMAs and tier snapshot are written in recordStats; the
// transfer ledger is updated by the transfer executor on each
// successful send.
type PersistentState struct {
	// Transfers[resource][origin][destination] = cumulative units sent.
	Transfers map[resource.Resource]map[string]map[string]uint64
	// Costs[origin][destination] = cumulative transaction cost paid.
	Costs map[string]map[string]uint64

	// AvgCooldown is the EMA of each colony's terminal cooldown,
	// window 1000.
	AvgCooldown map[string]float64
	// Overload is the EMA of the binary overload signal, window
	// CreepLifeTime.
	Overload map[string]float64

	// TierSnapshot mirrors the last recordStats output, sorted by
	// exchange order, for the UI and persisted layout.
	TierSnapshot map[Tier]map[string][]resource.Resource
}

// NewPersistentState constructs an empty PersistentState, exported
// for persistence layer restores.
func NewPersistentState() *PersistentState {
	return newPersistentState()
}

// TierNameIndex returns every Tier keyed by its String() form, for
// deserializing persisted tier snapshots.
func TierNameIndex() map[string]Tier {
	index := make(map[string]Tier, len(tierOrder))
	for _, t := range tierOrder {
		index[t.String()] = t
	}
	return index
}

// RecordLoadedTransfer replays a previously persisted transfer tally
// into the ledger, for process restarts.
func (p *PersistentState) RecordLoadedTransfer(r resource.Resource, origin, destination string, units, cost uint64) {
	p.recordTransfer(LedgerEntry{Resource: r, Origin: origin, Destination: destination, Units: units, Cost: cost})
}

func newPersistentState() *PersistentState {
	return &PersistentState{
		Transfers:    make(map[resource.Resource]map[string]map[string]uint64),
		Costs:        make(map[string]map[string]uint64),
		AvgCooldown:  make(map[string]float64),
		Overload:     make(map[string]float64),
		TierSnapshot: make(map[Tier]map[string][]resource.Resource),
	}
}

func (p *PersistentState) recordTransfer(e LedgerEntry) {
	byOrigin, ok := p.Transfers[e.Resource]
	if !ok {
		byOrigin = make(map[string]map[string]uint64)
		p.Transfers[e.Resource] = byOrigin
	}
	byDest, ok := byOrigin[e.Origin]
	if !ok {
		byDest = make(map[string]uint64)
		byOrigin[e.Origin] = byDest
	}
	byDest[e.Destination] += e.Units

	costByDest, ok := p.Costs[e.Origin]
	if !ok {
		costByDest = make(map[string]uint64)
		p.Costs[e.Origin] = costByDest
	}
	costByDest[e.Destination] += e.Cost
}
