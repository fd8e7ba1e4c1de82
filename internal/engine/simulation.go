// Simulation ties the Terminal Network, its colony registry, market
// adapter, persistence, and telemetry together and drives them one
// tick at a time.
package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/network"
	"github.com/talgya/terminalnet/internal/persistence"
	"github.com/talgya/terminalnet/internal/telemetry"
)

// Simulation holds the Terminal Network and its collaborators, and
// implements the per-tick dataflow: refresh -> init -> (external
// overrides may run here) -> run. Persist is called separately, on
// the engine's hourly cadence and at shutdown.
type Simulation struct {
	net      *network.TerminalNetwork
	registry *colony.Registry
	db       *persistence.DB
	metrics  *telemetry.Metrics

	LastTick uint64
}

// NewSimulation wires a Terminal Network to its colony registry and
// optional persistence/telemetry collaborators.
func NewSimulation(net *network.TerminalNetwork, registry *colony.Registry, db *persistence.DB, metrics *telemetry.Metrics) *Simulation {
	return &Simulation{net: net, registry: registry, db: db, metrics: metrics}
}

// Network returns the underlying Terminal Network, for external
// override calls (RequestResource/ExportResource) and API handlers.
func (s *Simulation) Network() *network.TerminalNetwork {
	return s.net
}

// Registry returns the colony directory backing this simulation.
func (s *Simulation) Registry() *colony.Registry {
	return s.registry
}

// CurrentTick returns the most recently processed tick number.
func (s *Simulation) CurrentTick() uint64 {
	return s.LastTick
}

// Tick runs one full Terminal Network cycle: refresh, init, run.
// External callers wanting to issue RequestResource/ExportResource
// overrides for this tick must do so between Refresh and Run — see
// RefreshAndInit/RunOnly.
func (s *Simulation) Tick(tick uint64) {
	s.RefreshAndInit(tick)
	s.RunOnly()
}

// RefreshAndInit runs the first half of the per-tick dataflow,
// stopping before Run so external overrides can be issued.
func (s *Simulation) RefreshAndInit(tick uint64) {
	s.net.Refresh(tick)
	s.net.Init()
}

// RunOnly runs the classification/matching/bookkeeping pipeline and
// records telemetry, assuming RefreshAndInit already ran this tick.
func (s *Simulation) RunOnly() {
	start := time.Now()
	s.net.Run()
	s.LastTick = s.net.TickNumber()

	if s.metrics != nil {
		s.metrics.ObserveTick(time.Since(start))
		s.metrics.TransfersPerTick.Add(float64(s.net.TransferCount()))
		s.metrics.OverloadGauge.Set(float64(s.net.OverloadCount()))
		s.metrics.NotificationsPerTick.Add(float64(len(s.net.Notifications())))
	}
}

// Persist writes the Terminal Network's persistent state (ledger,
// EMAs, tier snapshot) to the database. Called on the engine's hourly
// cadence.
func (s *Simulation) Persist() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.SavePersistentState(s.net.Persistent()); err != nil {
		return fmt.Errorf("persist terminal network state: %w", err)
	}
	if err := s.db.SaveMeta("last_tick", fmt.Sprintf("%d", s.LastTick)); err != nil {
		return fmt.Errorf("persist last tick: %w", err)
	}
	slog.Info("terminal network state persisted", "tick", s.LastTick)
	return nil
}
