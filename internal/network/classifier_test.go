package network

import (
	"testing"

	"github.com/talgya/terminalnet/internal/colony"
	"github.com/talgya/terminalnet/internal/resource"
)

func thresholds(target, tolerance uint64, surplus *uint64) resource.Thresholds {
	return resource.Thresholds{Target: target, Tolerance: tolerance, Surplus: surplus}
}

func TestClassifySurplusAlwaysActiveProvider(t *testing.T) {
	surplus := uint64(45_000)
	th := thresholds(7_000, 1_000, &surplus)
	got := classify(50_000, th, 1_000_000)
	if got != ActiveProvider {
		t.Errorf("classify above surplus = %v, want ActiveProvider", got)
	}
}

func TestClassifyAboveTargetLowSpaceForcesActiveProvider(t *testing.T) {
	th := thresholds(7_000, 1_000, nil)
	got := classify(9_000, th, colony.MinColonySpace-1)
	if got != ActiveProvider {
		t.Errorf("classify above target with tight space = %v, want ActiveProvider", got)
	}
}

func TestClassifyAboveTargetWithRoomIsPassiveProvider(t *testing.T) {
	th := thresholds(7_000, 1_000, nil)
	got := classify(9_000, th, colony.MinColonySpace+1)
	if got != PassiveProvider {
		t.Errorf("classify above target with space = %v, want PassiveProvider", got)
	}
}

func TestClassifyWithinBandIsEquilibrium(t *testing.T) {
	th := thresholds(7_000, 1_000, nil)
	for _, amount := range []uint64{6_000, 6_500, 7_000, 7_500, 8_000} {
		got := classify(amount, th, 1_000_000)
		if got != Equilibrium {
			t.Errorf("classify(%d) = %v, want Equilibrium", amount, got)
		}
	}
}

func TestClassifyBelowBandIsPassiveRequestor(t *testing.T) {
	th := thresholds(7_000, 1_000, nil)
	got := classify(5_999, th, 1_000_000)
	if got != PassiveRequestor {
		t.Errorf("classify below band = %v, want PassiveRequestor", got)
	}
}

func TestClassifyToleranceExceedsTargetLowerClampsToZero(t *testing.T) {
	// tolerance > target: lower bound clamps to 0, so nothing below the
	// band is reachable and amount=0 must land in Equilibrium.
	th := thresholds(100, 500, nil)
	got := classify(0, th, 1_000_000)
	if got != Equilibrium {
		t.Errorf("classify(0) with tolerance>target = %v, want Equilibrium", got)
	}
}

func TestClassifyPowerLikeNeverActivelyRequests(t *testing.T) {
	// target == tolerance (power/ops shape): any amount from 0 up to
	// target+tolerance lands in Equilibrium, never PassiveRequestor.
	th := thresholds(2_500, 2_500, nil)
	for _, amount := range []uint64{0, 1, 2_500, 4_999} {
		got := classify(amount, th, 1_000_000)
		if got != Equilibrium {
			t.Errorf("classify(%d) power-like = %v, want Equilibrium", amount, got)
		}
	}
}
