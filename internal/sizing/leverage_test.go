package sizing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmx-io/gmx-interface-sub014/internal/enginetest"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

func TestLeverageBasic(t *testing.T) {
	size := enginetest.Usd(30_000)
	collateral := enginetest.Usd(10_000)
	zero := new(big.Int)

	got := Leverage(size, collateral, zero, zero, false)
	require.NotNil(t, got)
	assert.Equal(t, int64(30_000), got.Int64())
}

func TestLeveragePnlToggle(t *testing.T) {
	size := enginetest.Usd(30_000)
	collateral := enginetest.Usd(10_000)
	pnl := enginetest.Usd(5000)
	zero := new(big.Int)

	without := Leverage(size, collateral, pnl, zero, false)
	with := Leverage(size, collateral, pnl, zero, true)
	assert.Equal(t, int64(30_000), without.Int64())
	assert.Equal(t, int64(20_000), with.Int64(), "profit lowers displayed leverage")
}

func TestLeverageNilOnWipedCollateral(t *testing.T) {
	size := enginetest.Usd(30_000)
	collateral := enginetest.Usd(100)
	fees := enginetest.Usd(200)

	assert.Nil(t, Leverage(size, collateral, new(big.Int), fees, false))
}

func TestPositionLeverageIncludesPendingFees(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	position := openLong(snap)
	base := PositionLeverage(position, m, false)
	require.NotNil(t, base)
	assert.Equal(t, int64(30_000), base.Int64())

	// Accrued borrowing debt eats into collateral and raises leverage.
	m.CumulativeBorrowingFactorLong = enginetest.Factor(1, 28)
	withDebt := PositionLeverage(position, m, false)
	require.NotNil(t, withDebt)
	assert.True(t, withDebt.Cmp(base) > 0)
}

func TestLiquidationPriceStableCollateralLong(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	got := LiquidationPrice(model.DefaultTradingConfig(), m, openLong(snap))
	require.NotNil(t, got)
	assert.Equal(t, "1354733333333333", got.String())
}

func TestLiquidationPriceSelfConsistent(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	position := openLong(snap)
	cfg := model.DefaultTradingConfig()

	liqPrice := LiquidationPrice(cfg, m, position)
	require.NotNil(t, liqPrice)

	// At the liquidation price, collateral plus PnL minus the close fee
	// must land on the liquidation threshold (1% of size) up to the
	// truncation of the price itself.
	pnl := position.Pnl(liqPrice)
	closeFee := enginetest.Usd(21)
	equity := new(big.Int).Add(position.CollateralUsd(), pnl)
	equity.Sub(equity, closeFee)

	threshold := enginetest.Usd(300)
	diff := new(big.Int).Sub(equity, threshold)
	diff.Abs(diff)
	assert.True(t, diff.Cmp(new(big.Int).Mul(position.SizeInTokens, big.NewInt(1))) <= 0,
		"equity at the liquidation price must hit the threshold within one price unit")
}

func TestLiquidationPriceRisesWithPendingFees(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	position := openLong(snap)
	cfg := model.DefaultTradingConfig()

	base := LiquidationPrice(cfg, m, position)
	require.NotNil(t, base)

	m.CumulativeBorrowingFactorLong = enginetest.Factor(1, 28)
	withFees := LiquidationPrice(cfg, m, position)
	require.NotNil(t, withFees)
	assert.Equal(t, "1374733333333333", withFees.String())
	assert.True(t, withFees.Cmp(base) > 0)
}

func TestLiquidationPriceIndexCollateralLong(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	position := &model.Position{
		MarketAddress:          m.Address,
		CollateralToken:        enginetest.Token(snap, "WETH"),
		IsLong:                 true,
		SizeInUsd:              enginetest.Usd(30_000),
		SizeInTokens:           enginetest.Factor(15, 18),
		CollateralAmount:       enginetest.Factor(5, 18),
		BorrowingFactorAtEntry: new(big.Int),
		FundingPerSizeAtEntry: model.FundingPerSize{
			LongToken:  new(big.Int),
			ShortToken: new(big.Int),
		},
	}
	got := LiquidationPrice(model.DefaultTradingConfig(), m, position)
	require.NotNil(t, got)
	assert.Equal(t, "1516050000000000", got.String())
}

func TestLiquidationPriceNilForEmptyPosition(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	position := openLong(snap)
	position.SizeInUsd = new(big.Int)
	assert.Nil(t, LiquidationPrice(model.DefaultTradingConfig(), m, position))
}
