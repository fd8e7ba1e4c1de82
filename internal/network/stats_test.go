package network

import (
	"math"
	"testing"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

func TestEmaAlphaWindowRelationship(t *testing.T) {
	if got := emaAlpha(AvgCooldownWindow); math.Abs(got-2.0/1001.0) > 1e-9 {
		t.Errorf("emaAlpha(1000) = %v, want %v", got, 2.0/1001.0)
	}
	if got := emaAlpha(CreepLifeTime); math.Abs(got-2.0/1501.0) > 1e-9 {
		t.Errorf("emaAlpha(1500) = %v, want %v", got, 2.0/1501.0)
	}
}

func TestRecordStatsMovesCooldownEmaTowardCurrentValue(t *testing.T) {
	reg := colony.NewRegistry()
	c := buildColony(reg, "a", "E0S0", 100_000)
	c.Terminal.Cooldown = 10

	n := New(Config{Seed: 1}, nil)
	n.AddColony(c)
	n.Refresh(1)
	n.Init()

	before := n.persistent.AvgCooldown[c.Name]
	n.recordStats()
	after := n.persistent.AvgCooldown[c.Name]

	if after <= before {
		t.Errorf("AvgCooldown after recordStats = %v, want an increase from %v toward observed cooldown 10", after, before)
	}
}

func TestRecordStatsTracksOverloadSignal(t *testing.T) {
	reg := colony.NewRegistry()
	c := buildColony(reg, "a", "E0S0", 100_000)

	n := New(Config{Seed: 1}, nil)
	n.AddColony(c)
	n.Refresh(1)
	n.Init()
	n.state.TerminalOverload[c.Name] = true

	n.recordStats()

	if n.persistent.Overload[c.Name] <= 0 {
		t.Errorf("Overload EMA after an overloaded tick = %v, want > 0", n.persistent.Overload[c.Name])
	}
}

func TestRecordStatsRebuildsTierSnapshotByExchangeOrder(t *testing.T) {
	reg := colony.NewRegistry()
	rich := buildColony(reg, "rich", "E0S0", 900_000)

	n := New(Config{Seed: 1}, nil)
	n.AddColony(rich)
	n.Refresh(1)
	n.Init()
	n.placeInBucket(rich, resource.Energy, ActiveProvider)
	n.recordStats()

	byColony, ok := n.persistent.TierSnapshot[ActiveProvider]
	if !ok {
		t.Fatal("expected an ActiveProvider entry in the rebuilt tier snapshot")
	}
	resources, ok := byColony[rich.Name]
	if !ok || len(resources) == 0 {
		t.Fatal("expected rich colony to appear under ActiveProvider with at least one resource")
	}
	if resources[0] != resource.Energy {
		t.Errorf("tier snapshot resource = %v, want energy", resources[0])
	}
}
