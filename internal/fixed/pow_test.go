package fixed

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyExponentFactorIdentity(t *testing.T) {
	value := ExpandDecimals(123_456, USDDecimals)

	got := ApplyExponentFactor(value, Precision)
	assert.Equal(t, value.String(), got.String(), "exponent 1 must return the value unchanged")
}

func TestApplyExponentFactorZeroValue(t *testing.T) {
	got := ApplyExponentFactor(new(big.Int), ExpandDecimals(2, USDDecimals))
	assert.Equal(t, int64(0), got.Int64())
}

func TestApplyExponentFactorZeroExponent(t *testing.T) {
	got := ApplyExponentFactor(ExpandDecimals(5, USDDecimals), new(big.Int))
	assert.Equal(t, Precision.String(), got.String(), "x^0 must be 1 in fixed point")
}

func TestApplyExponentFactorSquareIsExact(t *testing.T) {
	// (100000)^2 = 10^10, computed by repeated MulDiv with no float involved.
	value := ExpandDecimals(100_000, USDDecimals)
	exponent := ExpandDecimals(2, USDDecimals)

	got := ApplyExponentFactor(value, exponent)
	want := ExpandDecimals(1, 40) // 10^10 scaled by 10^30
	require.Equal(t, want.String(), got.String())
}

func TestApplyExponentFactorCubeIsExact(t *testing.T) {
	value := ExpandDecimals(7, USDDecimals)
	exponent := ExpandDecimals(3, USDDecimals)

	got := ApplyExponentFactor(value, exponent)
	want := ExpandDecimals(343, USDDecimals)
	require.Equal(t, want.String(), got.String())
}

func TestApplyExponentFactorFractional(t *testing.T) {
	// 4^1.5 = 8. The fractional path goes through float64 pow; the result
	// must still land on the exact value for representable inputs.
	value := ExpandDecimals(4, USDDecimals)
	exponent := new(big.Int).Add(Precision, MulDiv(Precision, big.NewInt(5), big.NewInt(10)))

	got := ApplyExponentFactor(value, exponent)
	want := ExpandDecimals(8, USDDecimals)
	assert.Equal(t, want.String(), got.String())
}

func TestApplyExponentFactorNegativeValue(t *testing.T) {
	got := ApplyExponentFactor(big.NewInt(-5), ExpandDecimals(2, USDDecimals))
	assert.Equal(t, int64(0), got.Int64(), "impact diffs are absolute values, negatives collapse to zero")
}
