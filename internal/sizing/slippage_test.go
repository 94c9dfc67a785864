package sizing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
)

func TestApplySlippageToPriceDirections(t *testing.T) {
	price := big.NewInt(2_000_000_000_000_000)

	// The acceptable price always moves against the trader.
	assert.Equal(t, "2006000000000000", ApplySlippageToPrice(price, 30, true, true).String())
	assert.Equal(t, "1994000000000000", ApplySlippageToPrice(price, 30, true, false).String())
	assert.Equal(t, "1994000000000000", ApplySlippageToPrice(price, 30, false, true).String())
	assert.Equal(t, "2006000000000000", ApplySlippageToPrice(price, 30, false, false).String())
}

func TestApplySlippageZeroIsIdentity(t *testing.T) {
	price := big.NewInt(2_000_000_000_000_000)
	assert.Equal(t, price.String(), ApplySlippageToPrice(price, 0, true, true).String())
}

func TestApplySlippageToMinOut(t *testing.T) {
	out := big.NewInt(499_648_000_000_000_000)
	assert.Equal(t, "498149056000000000", ApplySlippageToMinOut(out, 30).String())
}

func TestSwapRatioMarkRate(t *testing.T) {
	// USDC at $1 (6 decimals) into WETH at $2000 (18 decimals): 5e8 wei
	// per USDC unit, Precision-scaled.
	priceIn := fixed.Exp10(24)
	priceOut := new(big.Int).Mul(big.NewInt(2000), fixed.Exp10(12))

	ratio := SwapRatio(priceIn, priceOut)
	assert.Equal(t, "500000000000000000000000000000000000000", ratio.String())

	worst := ApplySlippageToSwapRatio(ratio, 30)
	assert.Equal(t, "498500000000000000000000000000000000000", worst.String())
}

func TestSwapRatioZeroOutputPrice(t *testing.T) {
	assert.Zero(t, SwapRatio(fixed.Exp10(24), big.NewInt(0)).Sign())
}
