package fixed

import (
	"math"
	"math/big"
)

// maxIntegerExponent bounds the repeated-multiplication fast path. On-chain
// impact exponents are small (1x-3x); anything larger falls through to the
// float approximation.
const maxIntegerExponent = 10

// ApplyExponentFactor raises a Precision-scaled value to a Precision-scaled
// exponent, returning a Precision-scaled result: (value/10^30)^(exp/10^30)
// * 10^30.
//
// Integer exponents are computed exactly by repeated MulDiv, matching the
// contract's fixed-point power for the common exponent factors (1e30,
// 2e30, 3e30). Fractional exponents fall back to float64 math.Pow; the
// rounding behavior of that path is pinned by the tests in pow_test.go.
func ApplyExponentFactor(value, exponentFactor *big.Int) *big.Int {
	if value.Sign() <= 0 {
		return new(big.Int)
	}
	if exponentFactor.Sign() == 0 {
		return new(big.Int).Set(Precision)
	}
	if exponentFactor.Cmp(Precision) == 0 {
		return new(big.Int).Set(value)
	}

	quo, rem := new(big.Int).QuoRem(exponentFactor, Precision, new(big.Int))
	if rem.Sign() == 0 && quo.IsInt64() && quo.Int64() <= maxIntegerExponent {
		return powInteger(value, quo.Int64())
	}
	return powFloat(value, exponentFactor)
}

func powInteger(value *big.Int, n int64) *big.Int {
	result := new(big.Int).Set(value)
	for i := int64(1); i < n; i++ {
		result = MulDiv(result, value, Precision)
	}
	return result
}

func powFloat(value, exponentFactor *big.Int) *big.Int {
	base, _ := new(big.Float).Quo(
		new(big.Float).SetInt(value),
		new(big.Float).SetInt(Precision),
	).Float64()
	exp, _ := new(big.Float).Quo(
		new(big.Float).SetInt(exponentFactor),
		new(big.Float).SetInt(Precision),
	).Float64()

	powed := math.Pow(base, exp)
	if math.IsInf(powed, 0) || math.IsNaN(powed) {
		return new(big.Int)
	}

	result, _ := new(big.Float).Mul(
		big.NewFloat(powed),
		new(big.Float).SetInt(Precision),
	).Int(nil)
	return result
}
