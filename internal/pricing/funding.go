package pricing

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// OpenInterestImbalanceFactor returns |longOI - shortOI| / totalOI as a
// 10^30-scaled factor. Zero total open interest yields zero.
func OpenInterestImbalanceFactor(market *model.Market) *big.Int {
	diff := new(big.Int).Sub(market.LongInterestUsd, market.ShortInterestUsd)
	diff.Abs(diff)
	total := new(big.Int).Add(market.LongInterestUsd, market.ShortInterestUsd)
	if total.Sign() == 0 {
		return new(big.Int)
	}
	return fixed.MulDiv(diff, fixed.Precision, total)
}

// NextFundingFactorPerSecond projects the funding factor per second after
// the book has stayed in its current shape for the given duration, and
// reports which side pays.
//
// With no increase factor configured the market runs static funding: the
// saved factor is only clamped to the maximum. Otherwise the factor
// adapts: while the imbalance exceeds thresholdForStableFunding it grows
// toward the maximum in favor of the lighter side; once the imbalance
// falls below thresholdForDecreaseFunding (or the heavier side flips) it
// decays toward the minimum.
func NextFundingFactorPerSecond(market *model.Market, seconds int64) (*big.Int, bool) {
	imbalance := OpenInterestImbalanceFactor(market)

	if market.FundingIncreaseFactorPerSecond.Sign() == 0 {
		factor := new(big.Int).Set(market.FundingFactorPerSecond)
		if factor.Cmp(market.MaxFundingFactorPerSecond) > 0 {
			factor.Set(market.MaxFundingFactorPerSecond)
		}
		return factor, market.LongsPayShorts
	}

	// Signed convention: positive means longs pay shorts.
	signed := new(big.Int).Set(market.FundingFactorPerSecond)
	if !market.LongsPayShorts {
		signed.Neg(signed)
	}
	longsHeavier := market.LongInterestUsd.Cmp(market.ShortInterestUsd) > 0

	switch {
	case imbalance.Cmp(market.ThresholdForStableFunding) > 0:
		delta := fixed.ApplyFactor(imbalance, market.FundingIncreaseFactorPerSecond)
		delta.Mul(delta, big.NewInt(seconds))
		if longsHeavier {
			signed.Add(signed, delta)
		} else {
			signed.Sub(signed, delta)
		}
	case imbalance.Cmp(market.ThresholdForDecreaseFunding) < 0 && signed.Sign() != 0:
		delta := new(big.Int).Mul(market.FundingDecreaseFactorPerSecond, big.NewInt(seconds))
		if signed.CmpAbs(delta) <= 0 {
			signed.SetInt64(0)
		} else if signed.Sign() > 0 {
			signed.Sub(signed, delta)
		} else {
			signed.Add(signed, delta)
		}
	}

	longsPayShorts := signed.Sign() >= 0
	magnitude := signed.Abs(signed)
	if magnitude.Cmp(market.MaxFundingFactorPerSecond) > 0 {
		magnitude.Set(market.MaxFundingFactorPerSecond)
	}
	if magnitude.Sign() != 0 && magnitude.Cmp(market.MinFundingFactorPerSecond) < 0 {
		magnitude.Set(market.MinFundingFactorPerSecond)
	}
	return magnitude, longsPayShorts
}

// PendingFundingFeeUsd is the position's unsettled funding fee in USD:
// the per-size deltas since entry multiplied by size in tokens, summed
// over the long-token and short-token denominated legs. Positive results
// are costs, negative results are claimable.
func PendingFundingFeeUsd(position *model.Position, market *model.Market) *big.Int {
	current := market.FundingFeePerSizeShort
	if position.IsLong {
		current = market.FundingFeePerSizeLong
	}

	total := new(big.Int)
	total.Add(total, fundingLegUsd(current.LongToken, position.FundingPerSizeAtEntry.LongToken, position.SizeInTokens))
	total.Add(total, fundingLegUsd(current.ShortToken, position.FundingPerSizeAtEntry.ShortToken, position.SizeInTokens))
	return total
}

func fundingLegUsd(current, atEntry, sizeInTokens *big.Int) *big.Int {
	delta := new(big.Int).Sub(current, atEntry)
	if delta.Sign() == 0 {
		return delta
	}
	if delta.Sign() > 0 {
		// Costs round up so the payout side is never undercharged.
		return fixed.MulDivRoundUp(delta, sizeInTokens, fixed.Precision)
	}
	return fixed.MulDiv(delta, sizeInTokens, fixed.Precision)
}
