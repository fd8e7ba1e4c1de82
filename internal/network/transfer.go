package network

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// transfer issues a terminal send and records the outcome. amount
// must already be bounded by maxSend(r) and the sender's balance —
// the executor enforces readiness and dispatches on the send() result
// code but does not itself reclamp amount; that's a caller obligation.
func (n *TerminalNetwork) transfer(sender, receiver *colony.Colony, r resource.Resource, amount uint64) bool {
	if amount == 0 {
		return false
	}
	if !sender.Terminal.IsReady() {
		n.state.TerminalOverload[sender.Name] = true
		return false
	}

	code := sender.Terminal.Send(r, amount, receiver.RoomName)
	switch code {
	case colony.SendOK:
		sender.Terminal.MarkSent()
		receiver.Terminal.MarkReceived()
		cost := n.sendCost(sender, receiver, amount)
		n.persistent.recordTransfer(LedgerEntry{
			Resource: r, Origin: sender.Name, Destination: receiver.Name,
			Units: amount, Cost: cost,
		})
		n.state.Notifications = append(n.state.Notifications, fmt.Sprintf(
			"• %s → %s %s → %s (terminal transfer)",
			sender.Name, humanize.Comma(int64(amount)), r.String(), receiver.Name))
		n.state.TransferCount++
		slog.Debug("transfer executed",
			"sender", sender.Name, "receiver", receiver.Name,
			"resource", r.String(), "amount", amount, "cost", cost)
		return true

	case colony.SendErrNotEnoughResources, colony.SendErrTired:
		n.state.TerminalOverload[sender.Name] = true
		slog.Debug("transfer overloaded", "sender", sender.Name, "resource", r.String(), "code", code)
		return false

	default:
		slog.Warn("transfer failed", "sender", sender.Name, "receiver", receiver.Name,
			"resource", r.String(), "amount", amount, "code", code)
		return false
	}
}
