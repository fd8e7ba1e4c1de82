package colony

import (
	"testing"

	"github.com/talgya/terminalnet/internal/resource"
)

func TestEligibleRequiresTerminalAndLevel(t *testing.T) {
	cases := []struct {
		name     string
		c        *Colony
		eligible bool
	}{
		{"no terminal", &Colony{Level: 8}, false},
		{"low level", &Colony{Level: 5, Terminal: &Terminal{}}, false},
		{"eligible", &Colony{Level: 6, Terminal: &Terminal{}}, true},
		{"nil colony", nil, false},
	}
	for _, c := range cases {
		if got := c.c.Eligible(); got != c.eligible {
			t.Errorf("%s: Eligible() = %v, want %v", c.name, got, c.eligible)
		}
	}
}

func TestRemainingSpace(t *testing.T) {
	c := &Colony{
		Assets:   map[resource.Resource]uint64{resource.Energy: 100_000},
		Terminal: &Terminal{},
		Storage:  &Storage{},
		Factory:  &Factory{},
	}
	want := int64(TerminalCapacity+StorageCapacity+FactoryCapacity) - 100_000
	if got := c.RemainingSpace(true); got != want {
		t.Errorf("RemainingSpace(true) = %d, want %d", got, want)
	}
	wantNoFactory := int64(TerminalCapacity+StorageCapacity) - 100_000
	if got := c.RemainingSpace(false); got != wantNoFactory {
		t.Errorf("RemainingSpace(false) = %d, want %d", got, wantNoFactory)
	}
}

func TestRemainingSpaceNoStructures(t *testing.T) {
	c := &Colony{Assets: map[resource.Resource]uint64{resource.Energy: 500}}
	if got := c.RemainingSpace(true); got != -500 {
		t.Errorf("RemainingSpace with no structures = %d, want -500", got)
	}
}

func TestTerminalReadyThenSentBlocksFurtherSends(t *testing.T) {
	term := &Terminal{}
	if !term.IsReady() {
		t.Fatal("fresh terminal should be ready")
	}
	term.MarkSent()
	if term.IsReady() {
		t.Error("terminal should not be ready after a send this tick")
	}
	term.ResetTick()
	if !term.IsReady() {
		t.Error("terminal should be ready again after ResetTick")
	}
}

func TestTerminalCooldownBlocksReadiness(t *testing.T) {
	term := &Terminal{Cooldown: 3}
	if term.IsReady() {
		t.Error("terminal with positive cooldown should not be ready")
	}
}

func TestAssetZeroFilledForNilMaps(t *testing.T) {
	var c *Colony
	if got := c.Asset(resource.Energy); got != 0 {
		t.Errorf("Asset on nil colony = %d, want 0", got)
	}
	c2 := &Colony{}
	if got := c2.Asset(resource.Energy); got != 0 {
		t.Errorf("Asset with nil Assets map = %d, want 0", got)
	}
}
