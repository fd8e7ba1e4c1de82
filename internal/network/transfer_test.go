package network

import (
	"testing"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

func newSimColony(reg *colony.Registry, name, room string, energy uint64) *colony.Colony {
	store := map[resource.Resource]uint64{resource.Energy: energy}
	c := &colony.Colony{Name: name, Level: 8, RoomName: room, Assets: store, Storage: &colony.Storage{Store: store}}
	c.Terminal = colony.NewSimTerminal(reg, store)
	reg.Register(c)
	return c
}

func TestTransferMovesResourcesAndRecordsLedger(t *testing.T) {
	reg := colony.NewRegistry()
	sender := newSimColony(reg, "sender", "E0S0", 50_000)
	receiver := newSimColony(reg, "receiver", "E1S0", 0)

	n := newTestNetwork()
	n.AddColony(sender)
	n.AddColony(receiver)

	ok := n.transfer(sender, receiver, resource.Energy, 10_000)
	if !ok {
		t.Fatal("expected transfer to succeed")
	}
	if got := sender.Asset(resource.Energy); got != 40_000 {
		t.Errorf("sender balance after transfer = %d, want 40000", got)
	}
	if got := receiver.Asset(resource.Energy); got != 10_000 {
		t.Errorf("receiver balance after transfer = %d, want 10000", got)
	}
	if n.TransferCount() != 1 {
		t.Errorf("TransferCount() = %d, want 1", n.TransferCount())
	}
	units := n.Persistent().Transfers[resource.Energy][sender.Name][receiver.Name]
	if units != 10_000 {
		t.Errorf("ledger units = %d, want 10000", units)
	}
}

func TestTransferAtMostOncePerTerminalPerTick(t *testing.T) {
	reg := colony.NewRegistry()
	sender := newSimColony(reg, "sender", "E0S0", 50_000)
	receiverA := newSimColony(reg, "a", "E1S0", 0)
	receiverB := newSimColony(reg, "b", "E2S0", 0)

	n := newTestNetwork()
	n.AddColony(sender)
	n.AddColony(receiverA)
	n.AddColony(receiverB)

	if !n.transfer(sender, receiverA, resource.Energy, 1_000) {
		t.Fatal("expected first transfer to succeed")
	}
	if n.transfer(sender, receiverB, resource.Energy, 1_000) {
		t.Fatal("expected second same-tick send from the same terminal to be rejected")
	}
	if n.TransferCount() != 1 {
		t.Errorf("TransferCount() = %d, want 1 (second send must not count)", n.TransferCount())
	}
}

func TestTransferZeroAmountIsNoop(t *testing.T) {
	reg := colony.NewRegistry()
	sender := newSimColony(reg, "sender", "E0S0", 50_000)
	receiver := newSimColony(reg, "receiver", "E1S0", 0)
	n := newTestNetwork()
	n.AddColony(sender)
	n.AddColony(receiver)

	if n.transfer(sender, receiver, resource.Energy, 0) {
		t.Error("zero-amount transfer must report failure")
	}
	if n.TransferCount() != 0 {
		t.Errorf("TransferCount() = %d, want 0", n.TransferCount())
	}
}

func TestTransferInsufficientResourcesMarksOverload(t *testing.T) {
	reg := colony.NewRegistry()
	sender := newSimColony(reg, "sender", "E0S0", 500)
	receiver := newSimColony(reg, "receiver", "E1S0", 0)
	n := newTestNetwork()
	n.AddColony(sender)
	n.AddColony(receiver)

	if n.transfer(sender, receiver, resource.Energy, 10_000) {
		t.Fatal("expected transfer to fail when sender lacks the resource")
	}
	if !n.state.TerminalOverload[sender.Name] {
		t.Error("expected sender to be flagged overloaded after ERR_NOT_ENOUGH_RESOURCES")
	}
}
