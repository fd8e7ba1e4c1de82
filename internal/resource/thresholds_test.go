package resource

import "testing"

func TestHealThresholdsScalesTargetByOneAndHalf(t *testing.T) {
	def := defaultThresholds()
	heal := healThresholds()
	if heal.Target != uint64(float64(def.Target)*1.5) {
		t.Errorf("heal target = %d, want %d", heal.Target, uint64(float64(def.Target)*1.5))
	}
	if heal.Tolerance != def.Tolerance {
		t.Errorf("heal tolerance = %d, want %d (unchanged from default)", heal.Tolerance, def.Tolerance)
	}
	if *heal.Surplus != *def.Surplus {
		t.Errorf("heal surplus = %d, want %d (unchanged from default)", *heal.Surplus, *def.Surplus)
	}
}

func TestPowerLikeThresholdsUnboundedSurplus(t *testing.T) {
	th := powerLikeThresholds()
	if th.HasSurplus() {
		t.Error("power-like thresholds must have unbounded surplus")
	}
	if th.Target != th.Tolerance {
		t.Error("power-like target must equal tolerance (never actively buys)")
	}
}

func TestDontCareThresholdsAllZero(t *testing.T) {
	th := dontCareThresholds()
	if th.Target != 0 || th.Tolerance != 0 || th.HasSurplus() {
		t.Errorf("dont-care thresholds must be all zero/unbounded, got %+v", th)
	}
}

func TestDontWantHasZeroSurplus(t *testing.T) {
	th := DontWant()
	if !th.HasSurplus() {
		t.Fatal("DontWant must carry a bounded (zero) surplus so any holdings classify as providable")
	}
	if *th.Surplus != 0 {
		t.Errorf("DontWant surplus = %d, want 0", *th.Surplus)
	}
}

func TestPolicyForDispatch(t *testing.T) {
	cases := []struct {
		r    Resource
		want Policy
	}{
		{Energy, PolicyEnergyDynamic},
		{Power, PolicyPowerLike},
		{Ops, PolicyPowerLike},
		{Silicon, PolicyDontCare},
		{Composite, PolicyDontCare},
		{LemergiumHydride, PolicyHeal},
		{Hydrogen, PolicyDefault},
		{UtriumHydride, PolicyDefault},
	}
	for _, c := range cases {
		if got := PolicyFor(c.r); got != c.want {
			t.Errorf("PolicyFor(%s) = %d, want %d", c.r, got, c.want)
		}
	}
}

func TestStaticDefaultInvariants(t *testing.T) {
	for _, r := range All() {
		th := StaticDefault(r)
		if th.Tolerance > th.Target && th.Target != 0 {
			// Tolerance may legitimately exceed a zero target (dont-care), but
			// never a nonzero one.
			t.Errorf("%s: tolerance %d exceeds nonzero target %d", r, th.Tolerance, th.Target)
		}
		if th.HasSurplus() && *th.Surplus < th.Target+th.Tolerance && *th.Surplus != 0 {
			t.Errorf("%s: surplus %d below target+tolerance %d", r, *th.Surplus, th.Target+th.Tolerance)
		}
	}
}
