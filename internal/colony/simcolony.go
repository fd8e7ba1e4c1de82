package colony

import "github.com/talgya/terminalnet/internal/resource"

// Registry is a reference, in-memory colony directory, used to wire
// terminal Send closures for standalone runs and tests without a real
// game backend. Colonies are indexed both by name (the network's own
// key) and by room name (what a terminal send targets).
type Registry struct {
	byName map[string]*Colony
	byRoom map[string]*Colony
}

// NewRegistry creates an empty colony registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Colony), byRoom: make(map[string]*Colony)}
}

// Register adds a colony to the registry, indexed by both name and room name.
func (reg *Registry) Register(c *Colony) {
	reg.byName[c.Name] = c
	reg.byRoom[c.RoomName] = c
}

// Lookup returns the colony with the given name, if any.
func (reg *Registry) Lookup(name string) (*Colony, bool) {
	c, ok := reg.byName[name]
	return c, ok
}

// LookupByRoom returns the colony occupying roomName, if any.
func (reg *Registry) LookupByRoom(roomName string) (*Colony, bool) {
	c, ok := reg.byRoom[roomName]
	return c, ok
}

// Names returns every registered colony's name.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.byName))
	for name := range reg.byName {
		names = append(names, name)
	}
	return names
}

// NewSimTerminal builds a reference Terminal whose Send implementation
// moves resources directly into the destination colony's store
// (storage preferred, falling back to the terminal itself), entirely
// in memory. Real deployments replace Terminal.Send with a call into
// the actual game/transport backend instead of using this type.
func NewSimTerminal(reg *Registry, store map[resource.Resource]uint64) *Terminal {
	t := &Terminal{Store: store}
	t.Send = func(r resource.Resource, amount uint64, destRoomName string) SendCode {
		if amount == 0 {
			return SendErrInvalidArgs
		}
		if t.Store[r] < amount {
			return SendErrNotEnoughResources
		}
		dest, ok := reg.LookupByRoom(destRoomName)
		if !ok {
			return SendErrInvalidArgs
		}

		var sink map[resource.Resource]uint64
		switch {
		case dest.Storage != nil:
			sink = dest.Storage.Store
		case dest.Terminal != nil:
			sink = dest.Terminal.Store
		default:
			return SendErrFull
		}

		t.Store[r] -= amount
		sink[r] += amount
		dest.Terminal.MarkReceived()
		return SendOK
	}
	return t
}
