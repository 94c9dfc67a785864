package quote

import (
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub014/internal/enginetest"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/sizing"
)

func newTestQuoter(snap *model.Snapshot) *Quoter {
	cfg := model.DefaultTradingConfig()
	cfg.MaxSwapPathLength = 2
	return New(cfg, snap)
}

func TestQuoterSwapEndToEnd(t *testing.T) {
	snap := enginetest.Snapshot()
	q := newTestQuoter(snap)

	usdc := enginetest.Token(snap, "USDC")
	weth := enginetest.Token(snap, "WETH")

	amounts, warnings, err := q.Swap(usdc.Address, weth.Address, big.NewInt(1_000_000_000), 30)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, "499648000000000000", amounts.AmountOut.String())
	assert.Equal(t, "498149056000000000", amounts.MinOutputAmount.String())
	assert.Equal(t, "498500000000000000000000000000000000000", amounts.AcceptableSwapRatio.String())

	rec := SwapRecord(snap, model.OrderMarketSwap, amounts, warnings)
	assert.Equal(t, "market_swap", rec.OrderType)
	assert.Equal(t, uint64(42161), rec.ChainID)
	assert.Equal(t, uint64(250_000_000), rec.BlockNumber)
	assert.Equal(t, "1000000000", rec.AmountIn)
	assert.Equal(t, "499648000000000000", rec.AmountOut)
	assert.Equal(t, "498149056000000000", rec.MinOutputAmount)
	require.Len(t, rec.SwapPath, 1)
	assert.Equal(t, enginetest.EthUsd(snap).Address.Hex(), rec.SwapPath[0])
}

func TestQuoterSwapForOutput(t *testing.T) {
	snap := enginetest.Snapshot()
	q := newTestQuoter(snap)

	usdc := enginetest.Token(snap, "USDC")
	weth := enginetest.Token(snap, "WETH")

	wanted, _ := new(big.Int).SetString("499648000000000000", 10)
	amounts, _, err := q.SwapForOutput(usdc.Address, weth.Address, wanted, 30)
	require.NoError(t, err)

	assert.Equal(t, "999999995", amounts.AmountIn.String())
	// The requested output is already the binding amount.
	assert.Equal(t, wanted.String(), amounts.MinOutputAmount.String())
}

func TestQuoterRejectsUnknownToken(t *testing.T) {
	snap := enginetest.Snapshot()
	q := newTestQuoter(snap)

	unknown := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	_, _, err := q.Swap(unknown, enginetest.Token(snap, "WETH").Address, big.NewInt(1), 30)
	assert.True(t, errors.Is(err, model.ErrNoRouteFound))
}

func TestQuoterIncreaseIncludesLiquidationPrice(t *testing.T) {
	snap := enginetest.Snapshot()
	q := newTestQuoter(snap)

	usdc := enginetest.Token(snap, "USDC")
	in := sizing.IncreaseInput{
		Market:                  enginetest.EthUsd(snap),
		IsLong:                  true,
		InitialCollateralToken:  usdc,
		InitialCollateralAmount: big.NewInt(10_000_000_000),
		CollateralToken:         usdc,
		LeverageBps:             big.NewInt(30_000),
		SlippageBps:             30,
	}
	amounts, liqPrice, warnings, err := q.Increase(in)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.NotNil(t, liqPrice)
	assert.True(t, liqPrice.Cmp(amounts.EntryPrice) < 0, "a long liquidates below its entry")

	rec := IncreaseRecord(snap, model.OrderMarketIncrease, amounts, liqPrice, warnings)
	assert.Equal(t, "market_increase", rec.OrderType)
	require.NotNil(t, rec.IsLong)
	assert.True(t, *rec.IsLong)
	assert.Equal(t, amounts.SizeDeltaUsd.String(), rec.SizeDeltaUsd)
	assert.Equal(t, liqPrice.String(), rec.LiquidationPrice)
	assert.Equal(t, amounts.AcceptablePrice.String(), rec.AcceptablePrice)
}

func TestQuoterDecreaseEndToEnd(t *testing.T) {
	snap := enginetest.Snapshot()
	q := newTestQuoter(snap)

	position := &model.Position{
		MarketAddress:          enginetest.EthUsd(snap).Address,
		CollateralToken:        enginetest.Token(snap, "USDC"),
		IsLong:                 true,
		SizeInUsd:              enginetest.Usd(30_000),
		SizeInTokens:           enginetest.Factor(15, 18),
		CollateralAmount:       big.NewInt(10_000_000_000),
		BorrowingFactorAtEntry: new(big.Int),
		FundingPerSizeAtEntry: model.FundingPerSize{
			LongToken:  new(big.Int),
			ShortToken: new(big.Int),
		},
	}
	in := sizing.DecreaseInput{
		Market:       enginetest.EthUsd(snap),
		Position:     position,
		CloseSizeUsd: enginetest.Usd(30_000),
		SlippageBps:  30,
	}
	amounts, warnings, err := q.Decrease(in)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "0", amounts.NextSizeUsd.String())

	rec := DecreaseRecord(snap, model.OrderMarketDecrease, amounts, warnings)
	assert.Equal(t, "market_decrease", rec.OrderType)
	assert.Equal(t, enginetest.EthUsd(snap).Address.Hex(), rec.MarketAddress)
	assert.Equal(t, amounts.SizeDeltaUsd.String(), rec.SizeDeltaUsd)
}

func TestQuoterRecordsWarnings(t *testing.T) {
	snap := enginetest.Snapshot()
	q := newTestQuoter(snap)

	// Thin the short impact pool: the 1000 USDC charge on a large swap
	// cannot be softened, driving total cost past the advisory bound.
	m := enginetest.BtcEth(snap)
	m.SwapFeeFactorForNegativeImpact = enginetest.Factor(9, 27)

	weth := enginetest.Token(snap, "WETH")
	wbtc := enginetest.Token(snap, "WBTC")

	// Force the expensive direct hop by disabling the two-hop markets.
	enginetest.EthUsd(snap).IsDisabled = true
	enginetest.BtcUsd(snap).IsDisabled = true
	q = newTestQuoter(snap)

	amounts, warnings, err := q.Swap(weth.Address, wbtc.Address, enginetest.Factor(30, 18), 30)
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	assert.Equal(t, "high_price_impact", warnings[0].Code)

	rec := SwapRecord(snap, model.OrderMarketSwap, amounts, warnings)
	assert.Equal(t, []string{"high_price_impact"}, rec.Warnings)
}
