package poolstate

import "testing"

func TestSwapOutGivenInAppliesFeeBeforeOut(t *testing.T) {
	out := swapOutGivenIn(1_000_000, 1_000_000, 25, 10000, 10000)
	if out == 0 || out >= 10000 {
		t.Fatalf("expected a plausible fee-adjusted output, got %d", out)
	}
}

func TestSwapOutGivenInZeroReservesNoPanic(t *testing.T) {
	if out := swapOutGivenIn(0, 0, 25, 10000, 100); out != 0 {
		t.Fatalf("expected 0 for empty reserves, got %d", out)
	}
}

func TestSwapInGivenOutIsApproximateInverseOfSwapOutGivenIn(t *testing.T) {
	reserveIn, reserveOut := uint64(1_000_000), uint64(1_000_000)
	amountIn := uint64(5000)
	out := swapOutGivenIn(reserveIn, reserveOut, 25, 10000, amountIn)

	requiredIn := swapInGivenOut(reserveIn, reserveOut, 25, 10000, out)
	// Rounding (ceiling on the fee) means the inverse is not exact; it
	// should land close to the original input, never far under it.
	if requiredIn+100 < amountIn {
		t.Fatalf("expected swapInGivenOut(%d) to roughly invert amountIn=%d, got %d", out, amountIn, requiredIn)
	}
}

func TestSwapInGivenOutSaturatesWhenOutputExceedsReserve(t *testing.T) {
	in := swapInGivenOut(1000, 1000, 25, 10000, 1000)
	if in != 1000 {
		t.Fatalf("expected saturating fallback to reserveIn, got %d", in)
	}
}

func TestCeilDivBigRoundsUp(t *testing.T) {
	got := ceilDivBig(toBig(10), toBig(3))
	if got.Uint64() != 4 {
		t.Fatalf("expected ceil(10/3)=4, got %d", got.Uint64())
	}
	got = ceilDivBig(toBig(9), toBig(3))
	if got.Uint64() != 3 {
		t.Fatalf("expected ceil(9/3)=3 (exact), got %d", got.Uint64())
	}
}
