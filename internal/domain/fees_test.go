package domain

import "testing"

func TestSplitAmountBaseline(t *testing.T) {
	t.Parallel()

	fee, net := SplitAmount(120000, 5)
	if fee != 6000 {
		t.Fatalf("expected fee 6000, got %d", fee)
	}
	if net != 114000 {
		t.Fatalf("expected net 114000, got %d", net)
	}
}

func TestSplitAmountRoundsHalfUp(t *testing.T) {
	t.Parallel()

	// 99 * 3% = 2.97 -> 3
	fee, net := SplitAmount(99, 3)
	if fee != 3 || net != 96 {
		t.Fatalf("expected 3/96, got %d/%d", fee, net)
	}
	// 50 * 1% = 0.5 -> rounds up to 1
	fee, net = SplitAmount(50, 1)
	if fee != 1 || net != 49 {
		t.Fatalf("expected 1/49, got %d/%d", fee, net)
	}
	// 49 * 1% = 0.49 -> rounds down to 0
	fee, net = SplitAmount(49, 1)
	if fee != 0 || net != 49 {
		t.Fatalf("expected 0/49, got %d/%d", fee, net)
	}
}

func TestSplitAmountEdgeCases(t *testing.T) {
	t.Parallel()

	if fee, net := SplitAmount(0, 5); fee != 0 || net != 0 {
		t.Fatalf("zero gross: expected 0/0, got %d/%d", fee, net)
	}
	if fee, net := SplitAmount(100, 0); fee != 0 || net != 100 {
		t.Fatalf("zero percent: expected 0/100, got %d/%d", fee, net)
	}
	if fee, net := SplitAmount(100, 250); fee != 100 || net != 0 {
		t.Fatalf("clamped percent: expected 100/0, got %d/%d", fee, net)
	}
}

func TestSplitAmountConserves(t *testing.T) {
	t.Parallel()

	for gross := int64(1); gross <= 1000; gross += 37 {
		for percent := int64(0); percent <= 100; percent += 13 {
			fee, net := SplitAmount(gross, percent)
			if fee+net != gross {
				t.Fatalf("split of %d at %d%% does not conserve: %d + %d", gross, percent, fee, net)
			}
			if fee < 0 || net < 0 {
				t.Fatalf("split of %d at %d%% produced negative component: %d/%d", gross, percent, fee, net)
			}
		}
	}
}
