package pricing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gmx-io/gmx-interface-sub014/internal/enginetest"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

func TestOpenInterestImbalanceFactor(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)

	assert.Equal(t, "0", OpenInterestImbalanceFactor(m).String(), "empty book has no imbalance")

	m.LongInterestUsd = enginetest.Usd(750_000)
	m.ShortInterestUsd = enginetest.Usd(250_000)
	assert.Equal(t, enginetest.Factor(5, 29).String(), OpenInterestImbalanceFactor(m).String())
}

func TestStaticFundingClampsToMax(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.FundingFactorPerSecond = enginetest.Factor(2, 17)
	m.LongsPayShorts = true

	factor, longsPay := NextFundingFactorPerSecond(m, 3600)
	assert.Equal(t, m.MaxFundingFactorPerSecond.String(), factor.String())
	assert.True(t, longsPay)
}

func TestAdaptiveFundingGrowsTowardHeavierSide(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.FundingIncreaseFactorPerSecond = enginetest.Factor(1, 13)
	m.LongInterestUsd = enginetest.Usd(750_000)
	m.ShortInterestUsd = enginetest.Usd(250_000)
	m.FundingFactorPerSecond = new(big.Int)

	// 50% imbalance grows the rate by 5e12 per second.
	factor, longsPay := NextFundingFactorPerSecond(m, 3600)
	assert.Equal(t, "18000000000000000", factor.String())
	assert.True(t, longsPay)

	// Mirrored book pushes the rate the other way.
	m.LongInterestUsd, m.ShortInterestUsd = m.ShortInterestUsd, m.LongInterestUsd
	factor, longsPay = NextFundingFactorPerSecond(m, 3600)
	assert.Equal(t, "18000000000000000", factor.String())
	assert.False(t, longsPay)
}

func TestAdaptiveFundingDecaysWhenBalanced(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.FundingIncreaseFactorPerSecond = enginetest.Factor(1, 13)
	m.FundingDecreaseFactorPerSecond = enginetest.Factor(1, 12)
	m.FundingFactorPerSecond = enginetest.Factor(1, 16)
	m.LongsPayShorts = true
	m.LongInterestUsd = enginetest.Usd(500_000)
	m.ShortInterestUsd = enginetest.Usd(500_000)

	factor, longsPay := NextFundingFactorPerSecond(m, 3600)
	assert.Equal(t, "6400000000000000", factor.String())
	assert.True(t, longsPay)
}

func TestAdaptiveFundingDecaysToZeroWithoutOvershoot(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.FundingIncreaseFactorPerSecond = enginetest.Factor(1, 13)
	m.FundingDecreaseFactorPerSecond = enginetest.Factor(1, 13)
	m.FundingFactorPerSecond = enginetest.Factor(1, 16)
	m.LongsPayShorts = true
	m.LongInterestUsd = enginetest.Usd(500_000)
	m.ShortInterestUsd = enginetest.Usd(500_000)

	// The decay step exceeds the remaining rate; it must stop at zero
	// rather than flip sign.
	factor, _ := NextFundingFactorPerSecond(m, 3600)
	assert.Equal(t, "0", factor.String())
}

func TestAdaptiveFundingRespectsMinimum(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.FundingIncreaseFactorPerSecond = enginetest.Factor(1, 13)
	m.MinFundingFactorPerSecond = enginetest.Factor(1, 12)
	m.FundingFactorPerSecond = enginetest.Factor(1, 10)
	m.LongsPayShorts = true
	// Imbalance between both thresholds leaves the rate unchanged, then
	// the minimum clamp lifts it.
	m.LongInterestUsd = enginetest.Usd(510_000)
	m.ShortInterestUsd = enginetest.Usd(490_000)

	factor, _ := NextFundingFactorPerSecond(m, 3600)
	assert.Equal(t, enginetest.Factor(1, 12).String(), factor.String())
}

func TestPendingFundingFeeSumsBothLegs(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.FundingFeePerSizeLong = model.FundingPerSize{
		LongToken:  enginetest.Factor(1, 24),
		ShortToken: enginetest.Factor(2, 24),
	}

	position := &model.Position{
		IsLong:       true,
		SizeInTokens: enginetest.Factor(15, 18),
		FundingPerSizeAtEntry: model.FundingPerSize{
			LongToken:  new(big.Int),
			ShortToken: new(big.Int),
		},
	}
	fee := PendingFundingFeeUsd(position, m)
	assert.Equal(t, "45000000000000", fee.String())
}

func TestPendingFundingFeeClaimable(t *testing.T) {
	snap := enginetest.Snapshot()
	m := enginetest.EthUsd(snap)
	m.FundingFeePerSizeLong = model.FundingPerSize{
		LongToken:  new(big.Int),
		ShortToken: new(big.Int),
	}

	position := &model.Position{
		IsLong:       true,
		SizeInTokens: enginetest.Factor(15, 18),
		FundingPerSizeAtEntry: model.FundingPerSize{
			LongToken:  enginetest.Factor(1, 24),
			ShortToken: new(big.Int),
		},
	}
	fee := PendingFundingFeeUsd(position, m)
	assert.Equal(t, "-15000000000000", fee.String(), "a negative delta is owed to the position")
}
