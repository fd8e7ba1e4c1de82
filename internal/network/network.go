package network

import (
	"log/slog"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/entropy"
	"github.com/talgya/terminalnet/internal/market"
	"github.com/talgya/terminalnet/internal/resource"
)

// Domain constants governing partner scoring, send caps, and
// notification throttling.
const (
	partnerScoreK       = 2
	bigCost             = 2000
	maxSendEnergy       = 25_000
	maxSendOther        = 3_000
	notifyThrottleTicks = 5
	energySurplus       = 500_000
)

// Config carries the tunables the CLI/config layer exposes.
type Config struct {
	Seed        int64
	CreditGates market.CreditGates
	Catalog     *resource.Catalog
	// EntropySource, when non-nil, mixes one true-random draw into each
	// tier bucket's shuffle seed (see shuffle.go).
	EntropySource *entropy.Client
}

// TerminalNetwork is the balancer: the state-classification,
// partner-selection, request/provide matching, and bookkeeping engine
// that runs once per tick across every registered colony.
type TerminalNetwork struct {
	cfg    Config
	market market.Adapter
	log    *slog.Logger

	members  []*colony.Colony
	byName   map[string]*colony.Colony
	shuffler *shuffler
	tick     uint64

	state      *PerTickState
	persistent *PersistentState

	notifyLastTick map[string]uint64 // "colony|resource" -> last tick notified
}

// New constructs an empty Terminal Network. adapter is the external
// market collaborator; a nil adapter disables market buy/sell
// fallthrough entirely.
func New(cfg Config, adapter market.Adapter) *TerminalNetwork {
	return &TerminalNetwork{
		cfg:            cfg,
		market:         adapter,
		log:            slog.Default().With("component", "terminal_network"),
		byName:         make(map[string]*colony.Colony),
		shuffler:       newShuffler(cfg.Seed, cfg.EntropySource),
		state:          newPerTickState(),
		persistent:     newPersistentState(),
		notifyLastTick: make(map[string]uint64),
	}
}

// AddColony registers a colony with the network. Eligibility requires
// an owned terminal and level >= 6.
func (n *TerminalNetwork) AddColony(c *colony.Colony) {
	if !c.Eligible() {
		n.log.Error("ineligible colony registration rejected",
			"colony", c.Name, "level", c.Level, "has_terminal", c.Terminal != nil)
		return
	}
	if _, exists := n.byName[c.Name]; exists {
		n.log.Warn("colony already registered", "colony", c.Name)
		return
	}
	n.members = append(n.members, c)
	n.byName[c.Name] = c
	n.persistent.AvgCooldown[c.Name] = 0
	n.persistent.Overload[c.Name] = 0
}

// RequestResource sets an ActiveRequestor override for (colony,
// resource). Must be called between Init and Run.
func (n *TerminalNetwork) RequestResource(c *colony.Colony, r resource.Resource, amount uint64, tolerance uint64) {
	if c.Asset(r) >= amount {
		n.log.Error("requestResource rejected: colony already holds requested amount",
			"colony", c.Name, "resource", r.String(), "have", c.Asset(r), "want", amount)
		return
	}
	n.setOverride(c, r, resource.Thresholds{Target: amount, Surplus: nil, Tolerance: tolerance}, ActiveRequestor)
}

// ExportResource sets a threshold override for (colony, resource),
// leaving the tier to classification — typically yielding
// ActiveProvider once the colony's holdings exceed the override's
// target.
func (n *TerminalNetwork) ExportResource(c *colony.Colony, r resource.Resource, th *resource.Thresholds) {
	value := resource.DontWant()
	if th != nil {
		value = *th
	}
	n.setOverrideThresholdOnly(c, r, value)
}

func (n *TerminalNetwork) setOverride(c *colony.Colony, r resource.Resource, th resource.Thresholds, tier Tier) {
	n.setOverrideThresholdOnly(c, r, th)
	states, ok := n.state.ColonyStates[c.Name]
	if !ok {
		states = make(map[resource.Resource]Tier)
		n.state.ColonyStates[c.Name] = states
	}
	states[r] = tier
}

func (n *TerminalNetwork) setOverrideThresholdOnly(c *colony.Colony, r resource.Resource, th resource.Thresholds) {
	byResource, ok := n.state.ColonyThresholds[c.Name]
	if !ok {
		byResource = make(map[resource.Resource]resource.Thresholds)
		n.state.ColonyThresholds[c.Name] = byResource
	}
	if _, had := byResource[r]; had {
		n.log.Warn("threshold override replaced", "colony", c.Name, "resource", r.String())
	}
	byResource[r] = th
}

// Thresholds returns the effective thresholds for (colony, resource):
// the colony's override if present, else the dynamic energy value if
// resource is energy, else the catalog/static default.
func (n *TerminalNetwork) Thresholds(c *colony.Colony, r resource.Resource) resource.Thresholds {
	if byResource, ok := n.state.ColonyThresholds[c.Name]; ok {
		if th, ok := byResource[r]; ok {
			return th
		}
	}
	if r == resource.Energy {
		return n.state.energyThreshold
	}
	if n.cfg.Catalog != nil {
		if th, ok := n.cfg.Catalog.Lookup(r); ok {
			return th
		}
	}
	return resource.StaticDefault(r)
}

func (n *TerminalNetwork) thresholds(c *colony.Colony, r resource.Resource) resource.Thresholds {
	return n.Thresholds(c, r)
}

// Refresh discards all per-tick state and re-derives the dynamic
// energy threshold. Idempotent: calling it twice with no intervening
// Init/Run yields identical per-tick state.
func (n *TerminalNetwork) Refresh(tick uint64) {
	n.tick = tick
	n.state = newPerTickState()
	n.state.energyThreshold = n.deriveEnergyThreshold()
	for _, c := range n.members {
		c.Terminal.ResetTick()
	}
}

// deriveEnergyThreshold computes the dynamic energy threshold: target
// is the mean energy held by colonies that (a) have storage and (b)
// carry no energy override.
func (n *TerminalNetwork) deriveEnergyThreshold() resource.Thresholds {
	var sum uint64
	var count uint64
	for _, c := range n.members {
		if c.Storage == nil {
			continue
		}
		if byResource, ok := n.state.ColonyThresholds[c.Name]; ok {
			if _, overridden := byResource[resource.Energy]; overridden {
				continue
			}
		}
		sum += c.Asset(resource.Energy)
		count++
	}
	if count == 0 {
		return resource.StaticDefault(resource.Energy)
	}
	target := sum / count
	surplus := uint64(energySurplus)
	return resource.Thresholds{Target: target, Surplus: &surplus, Tolerance: target / 5}
}

// Init snapshots network-wide asset totals for this tick. External
// callers may call RequestResource/ExportResource after Init and
// before Run.
func (n *TerminalNetwork) Init() {
	for _, c := range n.members {
		for _, r := range resource.All() {
			n.state.Assets[r] += c.Asset(r)
		}
	}
}

// Run executes one tick's classification, matching, and bookkeeping
// pipeline.
func (n *TerminalNetwork) Run() {
	n.assignColonyStates()

	n.handleRequestors(n.state.ActiveReqs, requestOptions{
		partners: []Bucket{
			n.state.ActiveProviders, n.state.PassiveProviders,
			n.state.Equilibriums, n.state.PassiveReqs,
		},
		allowDivvying:          true,
		sendTargetPlusTolerance: false,
		allowMarketBuy:         true,
		receiveOnlyOncePerTick: true,
	})

	n.handleProviders(n.state.ActiveProviders, provideOptions{
		partners: []Bucket{
			n.state.ActiveReqs, n.state.PassiveReqs,
		},
		allowPushToOtherRooms: true,
		allowMarketSell:       true,
	})

	n.handleRequestors(n.state.PassiveReqs, requestOptions{
		partners: []Bucket{
			n.state.ActiveProviders, n.state.PassiveProviders,
		},
		allowDivvying:          true,
		sendTargetPlusTolerance: false,
		allowMarketBuy:         false,
		receiveOnlyOncePerTick: true,
	})

	n.recordStats()
	n.log.Info("tick complete", "tick", n.tick,
		"active_requestors", bucketSize(n.state.ActiveReqs),
		"active_providers", bucketSize(n.state.ActiveProviders),
		"notifications", len(n.state.Notifications))
}

// TickNumber returns the tick most recently passed to Refresh.
func (n *TerminalNetwork) TickNumber() uint64 {
	return n.tick
}

// Persistent returns the cross-tick ledger, EMAs, and tier snapshot,
// for API handlers and the persistence layer.
func (n *TerminalNetwork) Persistent() *PersistentState {
	return n.persistent
}

// LoadPersistent replaces the cross-tick ledger, EMAs, and tier
// snapshot with state read back from storage, so a restarted process
// resumes its cooldown/overload history instead of starting cold.
// Must be called before the first Run.
func (n *TerminalNetwork) LoadPersistent(p *PersistentState) {
	if p == nil {
		return
	}
	n.persistent = p
}

// TransferCount returns the number of successful transfers issued
// this tick, for telemetry wiring.
func (n *TerminalNetwork) TransferCount() int {
	return n.state.TransferCount
}

// OverloadCount returns the number of terminals flagged overloaded
// this tick, for telemetry wiring.
func (n *TerminalNetwork) OverloadCount() int {
	return len(n.state.TerminalOverload)
}

func bucketSize(b Bucket) int {
	total := 0
	for _, colonies := range b {
		total += len(colonies)
	}
	return total
}
