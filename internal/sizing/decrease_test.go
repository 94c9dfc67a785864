package sizing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub014/internal/enginetest"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// openLong is a $30k 3x WETH long margined in USDC at a $2000 entry, with
// all pending fees settled.
func openLong(snap *model.Snapshot) *model.Position {
	return &model.Position{
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
}

func TestDecreaseKeepLeverage(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	in := DecreaseInput{
		Market:       m,
		Position:     openLong(snap),
		CloseSizeUsd: enginetest.Usd(15_000),
		KeepLeverage: true,
		SlippageBps:  30,
	}
	amounts, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	require.NoError(t, err)

	// Half the size closes, so half the collateral is withdrawn and the
	// remaining leverage stays at 3x.
	assert.Equal(t, enginetest.Usd(5000).String(), amounts.CollateralDeltaUsd.String())
	assert.Equal(t, "7500000000000000000", amounts.SizeDeltaInTokens.String())
	assert.Equal(t, enginetest.Usd(15_000).String(), amounts.NextSizeUsd.String())
	assert.Equal(t, enginetest.Usd(5000).String(), amounts.NextCollateralUsd.String())
	require.NotNil(t, amounts.NextLeverage)
	assert.Equal(t, int64(30_000), amounts.NextLeverage.Int64())

	// Payout is the withdrawn collateral minus the $10.50 close fee.
	assert.Equal(t, "-10500000000000000000000000000000", amounts.Fees.PositionFee.DeltaUsd.String())
	assert.Equal(t, "4989500000", amounts.ReceiveAmount.String())
}

func TestDecreaseFullClose(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	in := DecreaseInput{
		Market:       m,
		Position:     openLong(snap),
		CloseSizeUsd: enginetest.Usd(100_000), // clamped to position size
		SlippageBps:  30,
	}
	amounts, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	require.NoError(t, err)

	assert.Equal(t, enginetest.Usd(30_000).String(), amounts.SizeDeltaUsd.String())
	assert.Equal(t, enginetest.Usd(10_000).String(), amounts.CollateralDeltaUsd.String())
	assert.Equal(t, "0", amounts.NextSizeUsd.String())
	assert.Nil(t, amounts.NextLeverage)
}

func TestDecreaseRealizesProportionalPnl(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	// WETH rallies to $2200: $3000 unrealized, half realized by closing
	// half the position.
	weth := enginetest.Token(snap, "WETH")
	weth.Prices.Min = big.NewInt(2_200_000_000_000_000)
	weth.Prices.Max = big.NewInt(2_200_000_000_000_000)

	in := DecreaseInput{
		Market:       m,
		Position:     openLong(snap),
		CloseSizeUsd: enginetest.Usd(15_000),
		SlippageBps:  30,
	}
	amounts, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	require.NoError(t, err)

	assert.Equal(t, enginetest.Usd(3000).String(), amounts.EstimatedPnl.String())
	assert.Equal(t, enginetest.Usd(1500).String(), amounts.RealizedPnl.String())

	// No withdrawal requested: the payout is the realized profit minus
	// the close fee.
	assert.Equal(t, "0", amounts.CollateralDeltaUsd.String())
	assert.Equal(t, "1489500000", amounts.ReceiveAmount.String())
}

func TestDecreaseWithdrawalCappedAtCollateral(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	in := DecreaseInput{
		Market:                     m,
		Position:                   openLong(snap),
		CloseSizeUsd:               enginetest.Usd(15_000),
		CollateralWithdrawalAmount: big.NewInt(50_000_000_000),
		SlippageBps:                30,
	}
	amounts, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	require.NoError(t, err)
	assert.Equal(t, enginetest.Usd(10_000).String(), amounts.CollateralDeltaUsd.String())
}

func TestStopLossExecutesAtTrigger(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	trigger := big.NewInt(1_900_000_000_000_000)
	in := DecreaseInput{
		Market:       m,
		Position:     openLong(snap),
		CloseSizeUsd: enginetest.Usd(30_000),
		TriggerPrice: trigger,
		IsStopLoss:   true,
		SlippageBps:  30,
	}
	amounts, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	require.NoError(t, err)

	assert.True(t, amounts.IsStopLoss)
	// Zero open interest on the book means zero impact, so the exit is
	// exactly the trigger and the realized loss is priced off it.
	assert.Equal(t, trigger.String(), amounts.ExitPrice.String())
	assert.Equal(t, new(big.Int).Neg(enginetest.Usd(1500)).String(), amounts.RealizedPnl.String())
}

func TestDecreaseSettlesPendingFees(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.CumulativeBorrowingFactorLong = enginetest.Factor(1, 28)

	in := DecreaseInput{
		Market:       m,
		Position:     openLong(snap),
		CloseSizeUsd: enginetest.Usd(30_000),
		SlippageBps:  30,
	}
	amounts, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	require.NoError(t, err)

	assert.Equal(t, new(big.Int).Neg(enginetest.Usd(300)).String(), amounts.Fees.BorrowingFee.DeltaUsd.String())
	// $10k collateral minus the $21 close fee and $300 of borrowing debt.
	assert.Equal(t, "9679000000", amounts.ReceiveAmount.String())
}

func TestDecreaseClampsNegativeImpact(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	// Closing a long against a short-heavy book walks a steep impact
	// curve: the raw charge on this $15k close is $113.25, but the max
	// negative impact factor of 0.1% holds it at $15.
	m.LongInterestUsd = enginetest.Usd(30_000)
	m.ShortInterestUsd = enginetest.Usd(400_000)
	m.PositionImpactFactorNegative = enginetest.Factor(1, 22)
	m.MaxPositionImpactFactorNegative = enginetest.Factor(1, 27)

	in := DecreaseInput{
		Market:       m,
		Position:     openLong(snap),
		CloseSizeUsd: enginetest.Usd(15_000),
		SlippageBps:  30,
	}
	amounts, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	require.NoError(t, err)

	assert.Equal(t, "-15000000000000000000000000000000", amounts.Fees.PositionPriceImpact.DeltaUsd.String())
	assert.Equal(t, "1998000000000000", amounts.ExitPrice.String())
}

func TestDecreaseRejectsEmptyPosition(t *testing.T) {
	snap := enginetest.Snapshot()
	in := DecreaseInput{
		Market:       enginetest.EthUsd(snap),
		CloseSizeUsd: enginetest.Usd(1000),
	}
	_, err := ComputeDecrease(model.DefaultTradingConfig(), in)
	assert.Error(t, err)
}
