package network

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

// notifyThrottled emits a notification for (colony, resource) at most
// once every notifyThrottleTicks ticks, so an unfulfillable request or
// provide doesn't spam a notification every tick it stays unfulfilled.
func (n *TerminalNetwork) notifyThrottled(c *colony.Colony, r resource.Resource, message string) {
	key := c.Name + "|" + r.String()
	if last, ok := n.notifyLastTick[key]; ok && n.tick-last < notifyThrottleTicks {
		return
	}
	n.notifyLastTick[key] = n.tick
	n.state.Notifications = append(n.state.Notifications, message)
}

// Notifications returns this tick's accumulated notification strings.
func (n *TerminalNetwork) Notifications() []string {
	return n.state.Notifications
}

// tierOrder is the display order for Summarize's tier headings.
var tierOrder = []Tier{ActiveProvider, PassiveProvider, Equilibrium, PassiveRequestor, ActiveRequestor}

// Summarize writes a console dump of the current tier snapshot,
// grouping colonies under each tier heading. Tier headings are bolded
// only when isTTY reports true; colony lines are never decorated.
func (n *TerminalNetwork) Summarize(w io.Writer, isTTY func() bool) {
	if isTTY == nil {
		isTTY = func() bool { return false }
	}
	bold := func(s string) string { return s }
	if isTTY() {
		bold = func(s string) string { return "\x1b[1m" + s + "\x1b[0m" }
	}

	for _, tier := range tierOrder {
		bucket := n.state.bucketFor(tier)
		if bucket == nil {
			continue
		}

		type entry struct {
			colony    *colony.Colony
			resources []resource.Resource
		}
		byColony := make(map[string]*entry)
		for _, r := range resource.ExchangeOrder() {
			for _, c := range bucket[r] {
				e, ok := byColony[c.Name]
				if !ok {
					e = &entry{colony: c}
					byColony[c.Name] = e
				}
				e.resources = append(e.resources, r)
			}
		}
		if len(byColony) == 0 {
			continue
		}

		names := make([]string, 0, len(byColony))
		for name := range byColony {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintf(w, "%s\n", bold(strings.ToUpper(tier.String())))
		for _, name := range names {
			e := byColony[name]
			parts := make([]string, 0, len(e.resources))
			for _, r := range e.resources {
				parts = append(parts, fmt.Sprintf("%s=%s", r.String(), humanize.Comma(int64(e.colony.Asset(r)))))
			}
			fmt.Fprintf(w, "  %s: %s\n", name, strings.Join(parts, ", "))
		}
	}
}

// TTYWriter reports whether the given file descriptor is a terminal,
// wiring isatty into the summarize console dump the way cmd/networksim
// decides whether to decorate output.
func TTYWriter(fd uintptr) func() bool {
	return func() bool { return isatty.IsTerminal(fd) }
}
