package pricing

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub014/internal/enginetest"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

func TestSwapImpactBalancedPoolPaysQuadratic(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	// $1000 into the short side of a balanced pool moves the imbalance
	// from $0 to $2000; with factor 1e-9 and exponent 2 that costs
	// (2000)^2 * 1e-9 = $0.004.
	delta := enginetest.Usd(1000)
	impact, err := SwapPriceImpactUsd(m, new(big.Int).Neg(delta), delta)
	require.NoError(t, err)
	assert.Equal(t, "-4000000000000000000000000000", impact.String())
}

func TestSwapImpactRebalancingEarnsRebate(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.BtcEth(snap)

	// The pool sits at $400k long / $500k short. Adding $2000 of WBTC
	// narrows the gap, so the positive factor prices both terms.
	delta := enginetest.Usd(2000)
	impact, err := SwapPriceImpactUsd(m, delta, new(big.Int).Neg(delta))
	require.NoError(t, err)
	assert.Equal(t, "392000000000000000000000000000", impact.String())
}

func TestSwapImpactDrainingPoolFails(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.BtcEth(snap)

	// The long side only holds $400k.
	delta := enginetest.Usd(500_000)
	_, err := SwapPriceImpactUsd(m, new(big.Int).Neg(delta), delta)
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientLiquidity))
}

func TestPositionImpactOpeningAgainstEmptyBook(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	impact := PositionPriceImpactUsd(m, enginetest.Usd(30_000), true)
	assert.Equal(t, "-900000000000000000000000000000", impact.String(), "a $30k long on an empty book costs $0.90")
}

func TestPositionImpactReducingImbalanceIsPositive(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.LongInterestUsd = enginetest.Usd(100_000)

	impact := PositionPriceImpactUsd(m, enginetest.Usd(50_000), false)
	assert.Equal(t, "3750000000000000000000000000000", impact.String())
}

func TestPositionImpactVirtualInventoryTakesWorse(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	// Locally balanced, but markets sharing the index already carry a
	// $100k long skew. The cross-market impact is worse and wins.
	m.HasVirtualInventory = true
	m.VirtualInventoryForPositions = new(big.Int).Neg(enginetest.Usd(100_000))

	local := PositionPriceImpactUsd(m, enginetest.Usd(30_000), true)
	m.HasVirtualInventory = false
	withoutVirtual := PositionPriceImpactUsd(m, enginetest.Usd(30_000), true)
	assert.True(t, local.Cmp(withoutVirtual) < 0)
}

func TestCapPositiveImpactByFactor(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	// Max positive factor is 0.5% of the size delta.
	capped := CapPositiveImpactUsd(m, enginetest.Usd(1), enginetest.Usd(100))
	assert.Equal(t, "500000000000000000000000000000", capped.String())
}

func TestCapPositiveImpactByImpactPool(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.PositionImpactPoolAmount = new(big.Int)

	capped := CapPositiveImpactUsd(m, enginetest.Usd(1), enginetest.Usd(1_000_000))
	assert.Equal(t, "0", capped.String(), "an empty impact pool pays nothing")
}

func TestCapLeavesNegativeImpactAlone(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	impact := new(big.Int).Neg(enginetest.Usd(50))
	capped := CapPositiveImpactUsd(m, impact, enginetest.Usd(100))
	assert.Equal(t, impact.String(), capped.String())
}

func TestCapNegativeImpactByFactor(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	impact := new(big.Int).Neg(enginetest.Usd(50))
	capped := CapNegativeImpactUsd(m, impact, enginetest.Usd(1000))
	assert.Equal(t, "-5000000000000000000000000000000", capped.String(), "floored at 0.5% of the size")
}

func TestCapNegativeLeavesSmallImpactAlone(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	impact := new(big.Int).Neg(enginetest.Usd(1))
	capped := CapNegativeImpactUsd(m, impact, enginetest.Usd(1000))
	assert.Equal(t, impact.String(), capped.String())

	rebate := enginetest.Usd(1)
	assert.Equal(t, rebate.String(), CapNegativeImpactUsd(m, rebate, enginetest.Usd(1000)).String())
}

func TestSwapImpactAmountCappedByPool(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	// $2000 of positive impact is worth 2000 USDC but the short impact
	// pool only holds 1000.
	amount := SwapImpactAmountWithCap(m, false, enginetest.Usd(2000))
	assert.Equal(t, "1000000000", amount.String())
}

func TestSwapImpactAmountNegativeRoundsUp(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	impact := new(big.Int).Neg(enginetest.Usd(4))
	impact.Sub(impact, big.NewInt(1))
	amount := SwapImpactAmountWithCap(m, false, impact)
	assert.Equal(t, "-4000001", amount.String(), "charges round away from zero")
}

func TestMaxNegativeImpactUsdForLiquidations(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	floor := MaxNegativeImpactUsdForLiquidations(m, enginetest.Usd(30_000))
	assert.Equal(t, "-30000000000000000000000000000000", floor.String())
}
