package colony

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/terminalnet/internal/resource"
)

// RosterEntry is the YAML-facing shape of one colony in a roster file.
type RosterEntry struct {
	Name     string           `yaml:"name"`
	Level    int              `yaml:"level"`
	RoomName string           `yaml:"room_name"`
	Storage  bool             `yaml:"storage"`
	Factory  bool             `yaml:"factory"`
	Assets   map[string]int64 `yaml:"assets"`
}

// LoadRoster reads a YAML colony roster and builds live colonies, each
// wired to a reference in-memory terminal via reg.
func LoadRoster(path string, reg *Registry) ([]*Colony, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read colony roster %s: %w", path, err)
	}

	var entries []RosterEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse colony roster %s: %w", path, err)
	}

	byName := resource.NameIndex()
	colonies := make([]*Colony, 0, len(entries))
	for _, e := range entries {
		assets := make(map[resource.Resource]uint64, len(e.Assets))
		for name, amount := range e.Assets {
			r, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("colony roster %s: colony %q has unknown resource %q", path, e.Name, name)
			}
			if amount < 0 {
				return nil, fmt.Errorf("colony roster %s: colony %q resource %q has negative amount", path, e.Name, name)
			}
			assets[r] = uint64(amount)
		}

		c := &Colony{
			Name:     e.Name,
			Level:    e.Level,
			RoomName: e.RoomName,
			Assets:   assets,
		}
		if e.Storage {
			c.Storage = &Storage{Store: assets}
		}
		if e.Factory {
			c.Factory = &Factory{Store: make(map[resource.Resource]uint64)}
		}
		c.Terminal = NewSimTerminal(reg, assets)

		reg.Register(c)
		colonies = append(colonies, c)
	}
	return colonies, nil
}

// roomNameQuadrants supplies the axis letters for Screeps-shaped room
// names ("W\d+N\d+" or "E\d+S\d+") in synthetic rosters.
var roomNameQuadrants = [2][2]string{{"W", "N"}, {"E", "S"}}

// GenerateRoster synthesizes a deterministic roster of eligible
// colonies for demo runs where no roster file is supplied, seeding
// each colony's starting energy so the initial tick already exercises
// classification. A seeded rand.Rand drives every random choice so a
// fixed seed reproduces the identical roster.
func GenerateRoster(seed int64, count int, reg *Registry) []*Colony {
	rng := rand.New(rand.NewSource(seed))
	colonies := make([]*Colony, 0, count)

	for i := 0; i < count; i++ {
		quadrant := roomNameQuadrants[i%2]
		roomName := fmt.Sprintf("%s%d%s%d", quadrant[0], rng.Intn(60), quadrant[1], rng.Intn(60))
		name := fmt.Sprintf("colony-%02d", i+1)

		energy := uint64(50_000 + rng.Intn(400_000))
		assets := map[resource.Resource]uint64{
			resource.Energy: energy,
		}
		if rng.Float64() < 0.4 {
			assets[resource.Hydrogen] = uint64(rng.Intn(20_000))
		}

		c := &Colony{
			Name:     name,
			Level:    6 + rng.Intn(3),
			RoomName: roomName,
			Assets:   assets,
			Storage:  &Storage{Store: assets},
		}
		c.Terminal = NewSimTerminal(reg, assets)

		reg.Register(c)
		colonies = append(colonies, c)
	}
	return colonies
}
