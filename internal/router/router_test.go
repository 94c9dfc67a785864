package router

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub014/internal/enginetest"
	"github.com/gmx-io/gmx-interface-sub014/internal/graph"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

func newTestRouter(snap *model.Snapshot, maxHops int) *Router {
	return New(graph.Build(snap), maxHops)
}

func TestSwapExactAmounts(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	usdc := enginetest.Token(snap, "USDC")
	weth := enginetest.Token(snap, "WETH")

	// 1000 USDC into the balanced ETH/USD pool: $0.70 fee, $0.004 of
	// negative impact, rest converted at $2000.
	amounts, err := r.FindBestSwapPath(usdc.Address, weth.Address, big.NewInt(1_000_000_000))
	require.NoError(t, err)

	assert.Equal(t, "499648000000000000", amounts.AmountOut.String())
	assert.Equal(t, enginetest.Usd(1000).String(), amounts.UsdIn.String())
	assert.Len(t, amounts.Path, 1)
	assert.Equal(t, enginetest.EthUsd(snap).Address, amounts.Path[0].MarketAddress)

	require.Len(t, amounts.Fees.SwapFees, 1)
	assert.Equal(t, "-700000000000000000000000000000", amounts.Fees.SwapFees[0].DeltaUsd.String())
	assert.Equal(t, "-4000000000000000000000000000", amounts.Fees.SwapPriceImpact.DeltaUsd.String())
	assert.Equal(t, int64(-7), amounts.Fees.Total.Bps.Int64())
}

func TestRouterPrefersCheaperTwoHopPath(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	weth := enginetest.Token(snap, "WETH")
	wbtc := enginetest.Token(snap, "WBTC")

	// The direct WBTC/WETH pool charges 30 bps and is thin; hopping
	// through USDC yields more despite paying two fees.
	amounts, err := r.FindBestSwapPath(weth.Address, wbtc.Address, enginetest.Factor(1, 18))
	require.NoError(t, err)

	require.Len(t, amounts.Path, 2)
	assert.Equal(t, enginetest.EthUsd(snap).Address, amounts.Path[0].MarketAddress)
	assert.Equal(t, enginetest.BtcUsd(snap).Address, amounts.Path[1].MarketAddress)
	assert.Equal(t, "4992922", amounts.AmountOut.String())
}

func TestRouterDirectPathWhenHopsLimited(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 1)

	weth := enginetest.Token(snap, "WETH")
	wbtc := enginetest.Token(snap, "WBTC")

	amounts, err := r.FindBestSwapPath(weth.Address, wbtc.Address, enginetest.Factor(1, 18))
	require.NoError(t, err)
	require.Len(t, amounts.Path, 1)
	assert.Equal(t, "4982960", amounts.AmountOut.String())
}

func TestRouterInsufficientLiquidity(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	weth := enginetest.Token(snap, "WETH")
	usdc := enginetest.Token(snap, "USDC")

	// $1.5M of WETH exceeds the $1M swap liquidity on every route.
	_, err := r.FindBestSwapPath(weth.Address, usdc.Address, enginetest.Factor(750, 18))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientLiquidity))
}

func TestRouterNoRoute(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	usdc := enginetest.Token(snap, "USDC")
	dai := enginetest.Token(snap, "DAI")

	_, err := r.FindBestSwapPath(usdc.Address, dai.Address, big.NewInt(1_000_000_000))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNoRouteFound))
}

func TestRouterRejectsSelfSwap(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	usdc := enginetest.Token(snap, "USDC")
	_, err := r.FindBestSwapPath(usdc.Address, usdc.Address, big.NewInt(1_000_000_000))
	assert.True(t, errors.Is(err, model.ErrNoRouteFound))
}

func TestInverseRoutingDerivesInput(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	usdc := enginetest.Token(snap, "USDC")
	weth := enginetest.Token(snap, "WETH")

	// Asking for the forward quote's output requires slightly less input
	// than the forward's 1000 USDC: the inverse estimates impact from the
	// output value, which is smaller than the input value.
	wanted, _ := new(big.Int).SetString("499648000000000000", 10)
	amounts, err := r.FindSwapPathForOutput(usdc.Address, weth.Address, wanted)
	require.NoError(t, err)

	assert.Equal(t, "999999995", amounts.AmountIn.String())
	assert.Equal(t, wanted.String(), amounts.AmountOut.String())
	assert.Len(t, amounts.Path, 1)
}

func TestInverseRoutingCapsRebateByImpactPool(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.BtcEth(snap)
	m.SwapImpactPoolAmountShort = new(big.Int)
	r := newTestRouter(snap, 1)

	wbtc := enginetest.Token(snap, "WBTC")
	weth := enginetest.Token(snap, "WETH")

	// Swapping into the thin side of the WBTC/WETH pool earns a rebate,
	// but with an empty impact pool nothing can pay it: the input must
	// cover the full output plus the 30 bps fee.
	amounts, err := r.FindSwapPathForOutput(wbtc.Address, weth.Address, enginetest.Factor(1, 18))
	require.NoError(t, err)

	require.Len(t, amounts.Path, 1)
	assert.Equal(t, "5015046", amounts.AmountIn.String())
}

func TestInverseRoutingInsufficientLiquidity(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	usdc := enginetest.Token(snap, "USDC")
	weth := enginetest.Token(snap, "WETH")

	_, err := r.FindSwapPathForOutput(usdc.Address, weth.Address, enginetest.Factor(2000, 18))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInsufficientLiquidity))
}

func TestSimulateRejectsNonPositiveAmount(t *testing.T) {
	snap := enginetest.Snapshot()
	r := newTestRouter(snap, 2)

	usdc := enginetest.Token(snap, "USDC")
	weth := enginetest.Token(snap, "WETH")

	_, err := r.FindBestSwapPath(usdc.Address, weth.Address, new(big.Int))
	assert.True(t, errors.Is(err, model.ErrInsufficientLiquidity))
}
