package resource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CatalogEntry is the YAML-facing shape of a threshold override.
// SurplusUnbounded takes precedence over Surplus when true.
type CatalogEntry struct {
	Resource         string `yaml:"resource"`
	Target           uint64 `yaml:"target"`
	Surplus          uint64 `yaml:"surplus"`
	SurplusUnbounded bool   `yaml:"surplus_unbounded"`
	Tolerance        uint64 `yaml:"tolerance"`
}

// Catalog holds per-resource threshold overrides loaded from a YAML
// file, applied on top of the hardcoded static defaults. Grounded on
// hellsoul86-voxelcraft.ai's internal/sim/tuning.Load: a small
// os.ReadFile + yaml.Unmarshal loader with a documented fallback.
type Catalog struct {
	overrides map[Resource]Thresholds
}

// LoadCatalog reads a YAML threshold-override file. A missing file is
// not an error — it simply yields an empty catalog, so the network
// runs entirely on the static defaults until an operator supplies one.
func LoadCatalog(path string) (*Catalog, error) {
	c := &Catalog{overrides: make(map[Resource]Thresholds)}
	if path == "" {
		return c, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read threshold catalog %s: %w", path, err)
	}

	var entries []CatalogEntry
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse threshold catalog %s: %w", path, err)
	}

	byName := NameIndex()

	for _, e := range entries {
		r, ok := byName[e.Resource]
		if !ok {
			return nil, fmt.Errorf("threshold catalog %s: unknown resource %q", path, e.Resource)
		}
		th := Thresholds{Target: e.Target, Tolerance: e.Tolerance}
		if !e.SurplusUnbounded {
			s := e.Surplus
			th.Surplus = &s
		}
		c.overrides[r] = th
	}

	return c, nil
}

// Lookup returns the catalog override for r, if any.
func (c *Catalog) Lookup(r Resource) (Thresholds, bool) {
	if c == nil {
		return Thresholds{}, false
	}
	th, ok := c.overrides[r]
	return th, ok
}
