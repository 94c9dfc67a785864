package sizing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub014/internal/enginetest"
	"github.com/gmx-io/gmx-interface-sub014/internal/graph"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/router"
)

func testRouter(snap *model.Snapshot) *router.Router {
	return router.New(graph.Build(snap), 2)
}

func TestIncreaseByLeverage(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	usdc := enginetest.Token(snap, "USDC")

	// 10,000 USDC at 3x: $30k size, $21 position fee, $0.90 of negative
	// impact folded into the entry price.
	in := IncreaseInput{
		Market:                  m,
		IsLong:                  true,
		InitialCollateralToken:  usdc,
		InitialCollateralAmount: big.NewInt(10_000_000_000),
		CollateralToken:         usdc,
		LeverageBps:             big.NewInt(30_000),
		SlippageBps:             30,
	}
	amounts, err := ComputeIncrease(model.DefaultTradingConfig(), testRouter(snap), in)
	require.NoError(t, err)

	assert.Equal(t, enginetest.Usd(30_000).String(), amounts.SizeDeltaUsd.String())
	assert.Equal(t, "9979000000000000000000000000000000", amounts.CollateralDeltaUsd.String())
	assert.Equal(t, "14999550000000000000", amounts.SizeDeltaInTokens.String())
	assert.Equal(t, "2000060001800054", amounts.EntryPrice.String())
	assert.Equal(t, "2006060181805454", amounts.AcceptablePrice.String())
	assert.Equal(t, int64(30_063), amounts.EstimatedLeverage.Int64())
	assert.Empty(t, amounts.SwapPath)

	assert.Equal(t, "-21000000000000000000000000000000", amounts.Fees.PositionFee.DeltaUsd.String())
	assert.Equal(t, "-900000000000000000000000000000", amounts.Fees.PositionPriceImpact.DeltaUsd.String())
}

func TestIncreaseBySizeDelta(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	usdc := enginetest.Token(snap, "USDC")

	in := IncreaseInput{
		Market:                  m,
		IsLong:                  true,
		InitialCollateralToken:  usdc,
		InitialCollateralAmount: big.NewInt(10_000_000_000),
		CollateralToken:         usdc,
		SizeDeltaUsd:            enginetest.Usd(30_000),
		SlippageBps:             30,
	}
	amounts, err := ComputeIncrease(model.DefaultTradingConfig(), testRouter(snap), in)
	require.NoError(t, err)
	assert.Equal(t, enginetest.Usd(30_000).String(), amounts.SizeDeltaUsd.String())
}

func TestCollateralForSizeRoundTrip(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	usdc := enginetest.Token(snap, "USDC")

	sizeDeltaUsd := enginetest.Usd(30_000)
	leverage := big.NewInt(30_000)

	collateral := CollateralForSize(m, usdc, sizeDeltaUsd, leverage)
	assert.Equal(t, "10000000000", collateral.String())

	in := IncreaseInput{
		Market:                  m,
		IsLong:                  true,
		InitialCollateralToken:  usdc,
		InitialCollateralAmount: collateral,
		CollateralToken:         usdc,
		LeverageBps:             leverage,
	}
	amounts, err := ComputeIncrease(model.DefaultTradingConfig(), testRouter(snap), in)
	require.NoError(t, err)
	assert.Equal(t, sizeDeltaUsd.String(), amounts.SizeDeltaUsd.String(), "the two entry points must invert each other")
}

func TestIncreaseSwapsInitialCollateral(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	usdc := enginetest.Token(snap, "USDC")
	weth := enginetest.Token(snap, "WETH")

	in := IncreaseInput{
		Market:                  m,
		IsLong:                  true,
		InitialCollateralToken:  weth,
		InitialCollateralAmount: enginetest.Factor(1, 18),
		CollateralToken:         usdc,
		LeverageBps:             big.NewInt(30_000),
		SlippageBps:             30,
	}
	amounts, err := ComputeIncrease(model.DefaultTradingConfig(), testRouter(snap), in)
	require.NoError(t, err)

	// 1 WETH swaps into 1998.584 USDC; size is 3x the swapped value.
	require.Len(t, amounts.SwapPath, 1)
	assert.Equal(t, "5995752000000000000000000000000000", amounts.SizeDeltaUsd.String())
	require.Len(t, amounts.Fees.SwapFees, 1)
	assert.True(t, amounts.Fees.SwapFees[0].DeltaUsd.Sign() < 0)
}

func TestShortEntryPriceBelowMark(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	usdc := enginetest.Token(snap, "USDC")

	in := IncreaseInput{
		Market:                  m,
		IsLong:                  false,
		InitialCollateralToken:  usdc,
		InitialCollateralAmount: big.NewInt(10_000_000_000),
		CollateralToken:         usdc,
		LeverageBps:             big.NewInt(30_000),
		SlippageBps:             30,
	}
	amounts, err := ComputeIncrease(model.DefaultTradingConfig(), testRouter(snap), in)
	require.NoError(t, err)

	// Negative impact grows a short's token debt, landing the entry
	// below the mark; the acceptable price sits below the entry.
	assert.Equal(t, "15000450000000000000", amounts.SizeDeltaInTokens.String())
	assert.Equal(t, "1999940001799946", amounts.EntryPrice.String())
	assert.Equal(t, "1993940181794546", amounts.AcceptablePrice.String())
	assert.True(t, amounts.EntryPrice.Cmp(amounts.MarkPrice) < 0)
}

func TestLimitIncreaseUsesTriggerPrice(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	usdc := enginetest.Token(snap, "USDC")

	trigger := big.NewInt(1_900_000_000_000_000) // $1900
	in := IncreaseInput{
		Market:                  m,
		IsLong:                  true,
		InitialCollateralToken:  usdc,
		InitialCollateralAmount: big.NewInt(10_000_000_000),
		CollateralToken:         usdc,
		LeverageBps:             big.NewInt(30_000),
		TriggerPrice:            trigger,
		SlippageBps:             30,
	}
	amounts, err := ComputeIncrease(model.DefaultTradingConfig(), testRouter(snap), in)
	require.NoError(t, err)

	assert.Equal(t, trigger.String(), amounts.TriggerPrice.String())
	// Tokens are bought at the trigger, not the mark: ($30k - $0.90
	// impact) / $1900.
	assert.Equal(t, "15789000000000000000", amounts.SizeDeltaInTokens.String())
	assert.True(t, amounts.EntryPrice.Cmp(amounts.MarkPrice) < 0)
}

func TestIncreaseRequiresSizeOrLeverage(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	usdc := enginetest.Token(snap, "USDC")

	in := IncreaseInput{
		Market:                  m,
		IsLong:                  true,
		InitialCollateralToken:  usdc,
		InitialCollateralAmount: big.NewInt(10_000_000_000),
		CollateralToken:         usdc,
	}
	_, err := ComputeIncrease(model.DefaultTradingConfig(), testRouter(snap), in)
	assert.Error(t, err)
}
