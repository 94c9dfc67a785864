package sizing

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/pricing"
)

// Leverage returns size/collateral in basis points (30000 = 3x). Pending
// fees always reduce the denominator; unrealized PnL is added only when
// includePnl is set; the toggle never changes the numerator. Returns nil
// when the denominator is not positive.
func Leverage(sizeInUsd, collateralUsd, pnl, pendingFeesUsd *big.Int, includePnl bool) *big.Int {
	denominator := new(big.Int).Sub(collateralUsd, pendingFeesUsd)
	if includePnl {
		denominator.Add(denominator, pnl)
	}
	if denominator.Sign() <= 0 {
		return nil
	}
	return fixed.BasisPoints(sizeInUsd, denominator)
}

// PositionLeverage computes the live leverage of an existing position.
func PositionLeverage(position *model.Position, market *model.Market, includePnl bool) *big.Int {
	pendingFees := new(big.Int).Add(
		pricing.PendingBorrowingFeeUsd(position, market),
		pricing.PendingFundingFeeUsd(position, market),
	)
	pnl := position.Pnl(market.IndexToken.Prices.Pick(!position.IsLong))
	return Leverage(position.SizeInUsd, position.CollateralUsd(), pnl, pendingFees, includePnl)
}

// LiquidationPrice solves for the exit price at which the remaining
// collateral plus PnL minus accrued fees hits the liquidation threshold.
// This is an algebraic inversion of the PnL formula, not a search. The
// worst allowed negative price impact is assumed. Returns nil when the
// position cannot be liquidated by price movement alone.
func LiquidationPrice(cfg model.TradingConfig, market *model.Market, position *model.Position) *big.Int {
	if position.SizeInUsd.Sign() == 0 || position.SizeInTokens.Sign() == 0 {
		return nil
	}

	closingFee := pricing.PositionFee(market, position.SizeInUsd, false)
	pendingFeesUsd := new(big.Int).Add(
		pricing.PendingBorrowingFeeUsd(position, market),
		pricing.PendingFundingFeeUsd(position, market),
	)
	totalFeesUsd := new(big.Int).Sub(pendingFeesUsd, closingFee.DeltaUsd)

	impactUsd := liquidationImpactUsd(market, position)

	liquidationCollateralUsd := fixed.ApplyFactor(position.SizeInUsd, market.MinCollateralFactor)
	if liquidationCollateralUsd.Cmp(cfg.MinCollateralUsd) < 0 {
		liquidationCollateralUsd = new(big.Int).Set(cfg.MinCollateralUsd)
	}

	indexCollateral := position.CollateralToken.Address == market.IndexToken.Address
	if indexCollateral {
		return liquidationPriceIndexCollateral(position, liquidationCollateralUsd, impactUsd, totalFeesUsd)
	}
	return liquidationPriceStableCollateral(position, liquidationCollateralUsd, impactUsd, totalFeesUsd)
}

// liquidationImpactUsd is the decrease impact bounded below by the
// liquidation cap and above by zero.
func liquidationImpactUsd(market *model.Market, position *model.Position) *big.Int {
	closeDelta := new(big.Int).Neg(position.SizeInUsd)
	impactUsd := pricing.PositionPriceImpactUsd(market, closeDelta, position.IsLong)
	floor := pricing.MaxNegativeImpactUsdForLiquidations(market, position.SizeInUsd)
	if impactUsd.Cmp(floor) < 0 {
		impactUsd = floor
	}
	if impactUsd.Sign() > 0 {
		impactUsd = new(big.Int)
	}
	return impactUsd
}

// Collateral in the index token: the collateral value moves with the
// liquidation price, so the price term appears on both sides and the
// denominator combines size and collateral token amounts.
func liquidationPriceIndexCollateral(position *model.Position, liquidationCollateralUsd, impactUsd, totalFeesUsd *big.Int) *big.Int {
	if position.IsLong {
		denominator := new(big.Int).Add(position.SizeInTokens, position.CollateralAmount)
		if denominator.Sign() == 0 {
			return nil
		}
		numerator := new(big.Int).Add(position.SizeInUsd, liquidationCollateralUsd)
		numerator.Sub(numerator, impactUsd)
		numerator.Add(numerator, totalFeesUsd)
		return positivePrice(numerator.Quo(numerator, denominator))
	}

	denominator := new(big.Int).Sub(position.CollateralAmount, position.SizeInTokens)
	if denominator.Sign() <= 0 {
		return nil
	}
	numerator := new(big.Int).Sub(liquidationCollateralUsd, position.SizeInUsd)
	numerator.Sub(numerator, impactUsd)
	numerator.Add(numerator, totalFeesUsd)
	return positivePrice(numerator.Quo(numerator, denominator))
}

// Collateral in a non-index token: collateral value is fixed in USD terms
// and only the PnL term depends on the liquidation price.
func liquidationPriceStableCollateral(position *model.Position, liquidationCollateralUsd, impactUsd, totalFeesUsd *big.Int) *big.Int {
	remainingCollateralUsd := new(big.Int).Add(position.CollateralUsd(), impactUsd)
	remainingCollateralUsd.Sub(remainingCollateralUsd, totalFeesUsd)

	if position.IsLong {
		numerator := new(big.Int).Sub(liquidationCollateralUsd, remainingCollateralUsd)
		numerator.Add(numerator, position.SizeInUsd)
		return positivePrice(numerator.Quo(numerator, position.SizeInTokens))
	}
	numerator := new(big.Int).Add(remainingCollateralUsd, position.SizeInUsd)
	numerator.Sub(numerator, liquidationCollateralUsd)
	return positivePrice(numerator.Quo(numerator, position.SizeInTokens))
}

func positivePrice(price *big.Int) *big.Int {
	if price.Sign() <= 0 {
		return nil
	}
	return price
}
