package resource

// LabCap is the per-resource lab capacity constant that the default
// threshold triples are derived from.
const LabCap = 3000

// Thresholds is a (target, surplus, tolerance) triple. Surplus == nil
// means unbounded surplus allowed — never force-export.
//
// Invariant: Tolerance <= Target, and when Surplus != nil,
// *Surplus >= Target+Tolerance.
type Thresholds struct {
	Target    uint64
	Surplus   *uint64 // nil == unbounded
	Tolerance uint64
}

// HasSurplus reports whether a surplus cap is configured.
func (t Thresholds) HasSurplus() bool {
	return t.Surplus != nil
}

func ptr(v uint64) *uint64 { return &v }

// Policy tags the threshold-derivation strategy for a resource, so the
// classifier dispatches an exhaustive pattern match over a tagged
// variant instead of an ad hoc lookup table.
type Policy uint8

const (
	PolicyDefault       Policy = iota // base minerals, intermediates, standard boosts, generic minerals
	PolicyHeal                        // heal boosts: 1.5x default target, same surplus/tolerance
	PolicyPowerLike                   // power, ops: target=2500, unbounded surplus, tolerance=target (never buy actively)
	PolicyDontCare                    // deposit-derived, commodities: all zero
	PolicyDontWant                    // exportResource default: all zero
	PolicyEnergyDynamic                // energy: derived once per tick from network state
)

// PolicyFor returns the threshold policy that governs r absent any
// colony-level override.
func PolicyFor(r Resource) Policy {
	switch r {
	case Energy:
		return PolicyEnergyDynamic
	case Power, Ops:
		return PolicyPowerLike
	case Silicon, Metal, Biomass, Mist,
		Composite, Crystal, Liquid, Wire, Switch, Transistor:
		return PolicyDontCare
	default:
		if IsHeal(r) {
			return PolicyHeal
		}
		return PolicyDefault
	}
}

// defaultThresholds is the generic (target, surplus, tolerance) triple
// shared by base minerals, intermediates, standard boosts, and generic
// minerals.
func defaultThresholds() Thresholds {
	return Thresholds{
		Target:    2*LabCap + 1000,
		Surplus:   ptr(15 * LabCap),
		Tolerance: LabCap / 3,
	}
}

// healThresholds scales the default target by 1.5x, keeping the same
// surplus and tolerance.
func healThresholds() Thresholds {
	d := defaultThresholds()
	d.Target = uint64(float64(d.Target) * 1.5)
	return d
}

// powerLikeThresholds covers power and ops: target == tolerance means
// the classifier's equilibrium band never dips low enough to register
// as a requestor worth actively buying for.
func powerLikeThresholds() Thresholds {
	return Thresholds{Target: 2500, Surplus: nil, Tolerance: 2500}
}

// dontCareThresholds covers deposit-derived resources and commodities:
// the network has no opinion on their quantity.
func dontCareThresholds() Thresholds {
	return Thresholds{Target: 0, Surplus: nil, Tolerance: 0}
}

// DontWant is the default threshold applied by exportResource when the
// caller supplies none.
func DontWant() Thresholds {
	z := uint64(0)
	return Thresholds{Target: 0, Surplus: &z, Tolerance: 0}
}

// StaticDefault returns the static default threshold triple for r,
// ignoring any colony-level override and ignoring energy's dynamic
// derivation (callers needing energy must supply the tick's derived
// value separately — see internal/network's threshold lookup).
func StaticDefault(r Resource) Thresholds {
	switch PolicyFor(r) {
	case PolicyHeal:
		return healThresholds()
	case PolicyPowerLike:
		return powerLikeThresholds()
	case PolicyDontCare:
		return dontCareThresholds()
	case PolicyEnergyDynamic:
		// Caller must override; this is a safe, inert fallback.
		return defaultThresholds()
	default:
		return defaultThresholds()
	}
}
