// Package fixed implements the integer fixed-point arithmetic shared by
// every pricing component. All USD values and configuration factors are
// big.Int values scaled by Precision (10^30); token amounts are scaled by
// the token's own decimals. Division always truncates toward zero, matching
// EVM integer division, so results stay bit-exact with the on-chain
// contracts.
package fixed

import "math/big"

// USDDecimals is the number of decimals used for USD values.
const USDDecimals = 30

// BasisPointsDivisor converts basis points to ratios (10000 bps = 100%).
const BasisPointsDivisor = 10_000

var (
	// Precision is the scale applied to factors and USD values (10^30).
	Precision = Exp10(USDDecimals)

	bpsDivisor = big.NewInt(BasisPointsDivisor)
)

// Exp10 returns 10^n as a big.Int.
func Exp10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

// ExpandDecimals returns n * 10^decimals.
func ExpandDecimals(n int64, decimals int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), Exp10(decimals))
}

// MulDiv computes a*b/denominator with a full-width intermediate product
// and truncation toward zero. The denominator must be non-zero; a zero
// denominator is a corrupt-configuration programmer error and panics,
// snapshot validation rejects such configs before they reach this point.
func MulDiv(a, b, denominator *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, denominator)
}

// MulDivRoundUp is MulDiv rounding the magnitude away from zero when the
// division has a remainder.
func MulDivRoundUp(a, b, denominator *big.Int) *big.Int {
	product := new(big.Int).Mul(a, b)
	quo, rem := new(big.Int).QuoRem(product, denominator, new(big.Int))
	if rem.Sign() == 0 {
		return quo
	}
	if (product.Sign() < 0) != (denominator.Sign() < 0) {
		return quo.Sub(quo, big.NewInt(1))
	}
	return quo.Add(quo, big.NewInt(1))
}

// ApplyFactor scales amount by a Precision-scaled factor.
func ApplyFactor(amount, factor *big.Int) *big.Int {
	return MulDiv(amount, factor, Precision)
}

// ApplyFactorRoundUp is ApplyFactor rounding the magnitude up.
func ApplyFactorRoundUp(amount, factor *big.Int) *big.Int {
	return MulDivRoundUp(amount, factor, Precision)
}

// BasisPoints returns numerator/denominator expressed in basis points,
// truncated toward zero. A zero denominator yields zero bps.
func BasisPoints(numerator, denominator *big.Int) *big.Int {
	if denominator == nil || denominator.Sign() == 0 {
		return new(big.Int)
	}
	return MulDiv(numerator, bpsDivisor, denominator)
}

// FactorFromBasisPoints converts basis points to a Precision-scaled factor.
func FactorFromBasisPoints(bps *big.Int) *big.Int {
	return MulDiv(bps, Precision, bpsDivisor)
}

// ApplyBasisPoints scales amount by bps/BasisPointsDivisor.
func ApplyBasisPoints(amount, bps *big.Int) *big.Int {
	return MulDiv(amount, bps, bpsDivisor)
}
