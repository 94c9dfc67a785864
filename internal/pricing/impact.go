// Package pricing implements the price-impact and fee formulas used by the
// router and the position sizing engine. Everything here is a pure
// function of the market snapshot: no state, no I/O.
package pricing

import (
	"fmt"
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// SwapPriceImpactUsd computes the 10^30-scaled USD price impact of a swap
// that moves the long-token pool by usdDeltaLong and the short-token pool
// by usdDeltaShort. Positive results are rebates (the swap improves pool
// balance), negative results are costs. Returns
// model.ErrInsufficientLiquidity when the swap would drain a pool side
// below zero.
func SwapPriceImpactUsd(market *model.Market, usdDeltaLong, usdDeltaShort *big.Int) (*big.Int, error) {
	longPoolUsd := model.ConvertToUsd(market.LongPoolAmount, market.LongToken.Prices.Mid())
	shortPoolUsd := model.ConvertToUsd(market.ShortPoolAmount, market.ShortToken.Prices.Mid())

	nextLongPoolUsd := new(big.Int).Add(longPoolUsd, usdDeltaLong)
	nextShortPoolUsd := new(big.Int).Add(shortPoolUsd, usdDeltaShort)
	if nextLongPoolUsd.Sign() < 0 || nextShortPoolUsd.Sign() < 0 {
		return nil, fmt.Errorf("swap drains pool side: %w", model.ErrInsufficientLiquidity)
	}

	impactUsd := priceImpactUsd(
		longPoolUsd, shortPoolUsd,
		nextLongPoolUsd, nextShortPoolUsd,
		market.SwapImpactFactorPositive,
		market.SwapImpactFactorNegative,
		market.SwapImpactExponentFactor,
	)

	if impactUsd.Sign() > 0 && hasVirtualSwapInventory(market) {
		virtualImpactUsd, ok := virtualSwapPriceImpactUsd(market, usdDeltaLong, usdDeltaShort)
		if ok && virtualImpactUsd.Cmp(impactUsd) < 0 {
			impactUsd = virtualImpactUsd
		}
	}
	return impactUsd, nil
}

// PositionPriceImpactUsd computes the price impact of changing one side's
// open interest by sizeDeltaUsd (negative for decreases). The result is
// uncapped; callers apply CapPositiveImpactUsd or the liquidation floor.
func PositionPriceImpactUsd(market *model.Market, sizeDeltaUsd *big.Int, isLong bool) *big.Int {
	longOI := market.LongInterestUsd
	shortOI := market.ShortInterestUsd
	nextLongOI, nextShortOI := nextOpenInterest(longOI, shortOI, sizeDeltaUsd, isLong)

	impactUsd := priceImpactUsd(
		longOI, shortOI,
		nextLongOI, nextShortOI,
		market.PositionImpactFactorPositive,
		market.PositionImpactFactorNegative,
		market.PositionImpactExponentFactor,
	)

	if !market.HasVirtualInventory {
		return impactUsd
	}

	// Cross-market netting: a market that looks balanced locally may be
	// imbalanced across markets sharing the same index. The worse of the
	// two impacts applies.
	virtualLongOI, virtualShortOI := virtualOpenInterest(market.VirtualInventoryForPositions)
	nextVirtualLongOI, nextVirtualShortOI := nextOpenInterest(virtualLongOI, virtualShortOI, sizeDeltaUsd, isLong)
	virtualImpactUsd := priceImpactUsd(
		virtualLongOI, virtualShortOI,
		nextVirtualLongOI, nextVirtualShortOI,
		market.PositionImpactFactorPositive,
		market.PositionImpactFactorNegative,
		market.PositionImpactExponentFactor,
	)
	if virtualImpactUsd.Cmp(impactUsd) < 0 {
		return virtualImpactUsd
	}
	return impactUsd
}

// priceImpactUsd is the shared power-law impact curve over an imbalance
// shift. Same-side rebalances use a single factor on both terms; a
// crossover (the imbalance flips sign) prices the improving leg with the
// positive factor and the worsening leg with the negative factor.
func priceImpactUsd(current0, current1, next0, next1, positiveFactor, negativeFactor, exponentFactor *big.Int) *big.Int {
	initialDiff := new(big.Int).Sub(current0, current1)
	initialDiff.Abs(initialDiff)
	nextDiff := new(big.Int).Sub(next0, next1)
	nextDiff.Abs(nextDiff)

	sameSide := (current0.Cmp(current1) < 0) == (next0.Cmp(next1) < 0)
	if sameSide {
		factor := negativeFactor
		if nextDiff.Cmp(initialDiff) < 0 {
			factor = positiveFactor
		}
		initialImpact := applyImpactFactor(initialDiff, factor, exponentFactor)
		nextImpact := applyImpactFactor(nextDiff, factor, exponentFactor)
		return initialImpact.Sub(initialImpact, nextImpact)
	}

	positiveImpact := applyImpactFactor(initialDiff, positiveFactor, exponentFactor)
	negativeImpact := applyImpactFactor(nextDiff, negativeFactor, exponentFactor)
	return positiveImpact.Sub(positiveImpact, negativeImpact)
}

func applyImpactFactor(diffUsd, factor, exponentFactor *big.Int) *big.Int {
	return fixed.ApplyFactor(fixed.ApplyExponentFactor(diffUsd, exponentFactor), factor)
}

func nextOpenInterest(longOI, shortOI, sizeDeltaUsd *big.Int, isLong bool) (*big.Int, *big.Int) {
	nextLong := new(big.Int).Set(longOI)
	nextShort := new(big.Int).Set(shortOI)
	if isLong {
		nextLong.Add(nextLong, sizeDeltaUsd)
		if nextLong.Sign() < 0 {
			nextLong.SetInt64(0)
		}
	} else {
		nextShort.Add(nextShort, sizeDeltaUsd)
		if nextShort.Sign() < 0 {
			nextShort.SetInt64(0)
		}
	}
	return nextLong, nextShort
}

// virtualOpenInterest maps the netted inventory onto a synthetic open
// interest pair: positive inventory means shorts dominate across markets.
func virtualOpenInterest(virtualInventory *big.Int) (*big.Int, *big.Int) {
	if virtualInventory.Sign() > 0 {
		return new(big.Int), new(big.Int).Set(virtualInventory)
	}
	return new(big.Int).Abs(virtualInventory), new(big.Int)
}

func hasVirtualSwapInventory(market *model.Market) bool {
	return market.VirtualPoolAmountForLongToken != nil &&
		market.VirtualPoolAmountForShortToken != nil &&
		(market.VirtualPoolAmountForLongToken.Sign() > 0 || market.VirtualPoolAmountForShortToken.Sign() > 0)
}

func virtualSwapPriceImpactUsd(market *model.Market, usdDeltaLong, usdDeltaShort *big.Int) (*big.Int, bool) {
	virtualLongUsd := model.ConvertToUsd(market.VirtualPoolAmountForLongToken, market.LongToken.Prices.Mid())
	virtualShortUsd := model.ConvertToUsd(market.VirtualPoolAmountForShortToken, market.ShortToken.Prices.Mid())

	nextLongUsd := new(big.Int).Add(virtualLongUsd, usdDeltaLong)
	nextShortUsd := new(big.Int).Add(virtualShortUsd, usdDeltaShort)
	if nextLongUsd.Sign() < 0 || nextShortUsd.Sign() < 0 {
		return nil, false
	}

	return priceImpactUsd(
		virtualLongUsd, virtualShortUsd,
		nextLongUsd, nextShortUsd,
		market.SwapImpactFactorPositive,
		market.SwapImpactFactorNegative,
		market.SwapImpactExponentFactor,
	), true
}

// SwapImpactAmountWithCap converts a swap impact USD value into a delta of
// the given token. Positive impact pays out of the side's impact pool and
// is capped by it; negative impact is charged against the trader, rounded
// up so the pool never undercollects.
func SwapImpactAmountWithCap(market *model.Market, isLongToken bool, priceImpactUsd *big.Int) *big.Int {
	token := market.CollateralToken(isLongToken)

	if priceImpactUsd.Sign() > 0 {
		amount := model.ConvertToTokenAmount(priceImpactUsd, token.Prices.Max)
		pool := market.SwapImpactPoolAmount(isLongToken)
		if amount.Cmp(pool) > 0 {
			amount = new(big.Int).Set(pool)
		}
		return amount
	}
	return model.ConvertToTokenAmountRoundUp(priceImpactUsd, token.Prices.Min)
}

// CapPositiveImpactUsd bounds a positive position impact by the max
// positive impact factor and by the impact pool's current value. Negative
// impacts pass through unchanged.
func CapPositiveImpactUsd(market *model.Market, impactUsd, sizeDeltaUsd *big.Int) *big.Int {
	if impactUsd.Sign() <= 0 {
		return impactUsd
	}
	capped := new(big.Int).Set(impactUsd)

	absSize := new(big.Int).Abs(sizeDeltaUsd)
	maxByFactor := fixed.ApplyFactor(absSize, market.MaxPositionImpactFactorPositive)
	if capped.Cmp(maxByFactor) > 0 {
		capped.Set(maxByFactor)
	}

	poolUsd := model.ConvertToUsd(market.PositionImpactPoolAmount, market.IndexToken.Prices.Min)
	if capped.Cmp(poolUsd) > 0 {
		capped.Set(poolUsd)
	}
	return capped
}

// CapNegativeImpactUsd floors a negative position impact at the max
// negative impact factor applied to the trade size. The excess is not
// charged to the trader when a decrease crosses a heavily imbalanced
// book. Positive impacts pass through unchanged.
func CapNegativeImpactUsd(market *model.Market, impactUsd, sizeDeltaUsd *big.Int) *big.Int {
	if impactUsd.Sign() >= 0 {
		return impactUsd
	}
	absSize := new(big.Int).Abs(sizeDeltaUsd)
	floor := fixed.ApplyFactor(absSize, market.MaxPositionImpactFactorNegative)
	floor.Neg(floor)
	if impactUsd.Cmp(floor) < 0 {
		return floor
	}
	return impactUsd
}

// MaxNegativeImpactUsdForLiquidations is the most negative impact applied
// when deriving a liquidation price.
func MaxNegativeImpactUsdForLiquidations(market *model.Market, sizeInUsd *big.Int) *big.Int {
	capped := fixed.ApplyFactor(sizeInUsd, market.MaxPositionImpactFactorForLiquidations)
	return capped.Neg(capped)
}
