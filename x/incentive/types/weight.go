package types

import (
	"cosmossdk.io/math"
)

// Quadratic interpolation of the weight multiplier through (1 day, 1), (~6 months, 5), (1 year, 16):
//
//	multiplier(d) = (d² * quadA + d * quadB) / quadDen + constNum / constDen
var (
	quadA    = math.NewInt(109_498_841)
	quadB    = math.NewInt(249_042_009_202_369)
	quadDen  = math.NewInt(7_791_996_353).Mul(math.NewInt(1_000_000_000_000)).Add(math.NewInt(100_889_432_894))
	constNum = math.NewInt(246_210_981_355_969)
	constDen = math.NewInt(246_918_738_317_569)
)

// CalculateWeight returns the reward weight of amount locked for unbondingDuration seconds.
// The multiplier is applied with exact integer arithmetic and truncated; the weight is never
// below the locked amount.
func CalculateWeight(amount math.Int, unbondingDuration uint64) (math.Int, error) {
	if unbondingDuration < MinUnbondingDuration || unbondingDuration > MaxUnbondingDuration {
		return math.ZeroInt(), ErrInvalidWeight.Wrapf("duration %d outside [%d, %d]",
			unbondingDuration, MinUnbondingDuration, MaxUnbondingDuration)
	}
	if amount.IsNil() || amount.IsNegative() {
		return math.ZeroInt(), ErrInvalidAmount.Wrap("amount must not be negative")
	}

	d := math.NewIntFromUint64(unbondingDuration)
	quadratic := d.Mul(d).Mul(quadA).Add(d.Mul(quadB))

	// amount * (quadratic/quadDen + constNum/constDen) over a common denominator
	numerator := quadratic.Mul(constDen).Add(constNum.Mul(quadDen))
	denominator := quadDen.Mul(constDen)

	weight := amount.Mul(numerator).Quo(denominator)
	if weight.LT(amount) {
		return amount, nil
	}
	return weight, nil
}
