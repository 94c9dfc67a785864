// Package validate checks assembled trade amounts against protocol
// invariants. Checks run cheapest-first and short-circuit: the first
// failing constraint is returned and later checks are never evaluated.
// Warnings never block submission; errors always do.
package validate

import (
	"fmt"
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/pricing"
)

// Warning is a non-blocking advisory attached to an otherwise valid trade.
type Warning struct {
	Code    string
	Message string
}

// highImpactWarningBps triggers the high-price-impact advisory.
const highImpactWarningBps = 80

// Swap validates a routed swap.
func Swap(cfg model.TradingConfig, amounts *model.SwapAmounts, slippageBps int64) ([]Warning, error) {
	if err := checkSlippage(cfg, slippageBps); err != nil {
		return nil, err
	}
	if amounts.AmountOut.Sign() <= 0 {
		return nil, fmt.Errorf("swap produces no output: %w", model.ErrInsufficientLiquidity)
	}
	return impactWarnings(amounts.Fees), nil
}

// Increase validates a sized increase order against the market's capacity
// and the position constraints.
func Increase(cfg model.TradingConfig, amounts *model.IncreaseAmounts, slippageBps int64) ([]Warning, error) {
	market := amounts.Market

	if err := checkSlippage(cfg, slippageBps); err != nil {
		return nil, err
	}
	if err := checkTriggerSide(amounts.TriggerPrice, amounts.MarkPrice, amounts.IsLong, true); err != nil {
		return nil, err
	}

	if amounts.SizeDeltaUsd.Cmp(cfg.MinPositionSizeUsd) < 0 {
		return nil, fmt.Errorf("size %s below minimum: %w", amounts.SizeDeltaUsd, model.ErrBelowMinCollateral)
	}

	available := pricing.AvailableOpenInterestUsd(market, amounts.IsLong)
	if amounts.SizeDeltaUsd.Cmp(available) > 0 {
		return nil, fmt.Errorf("size %s exceeds available %s: %w",
			amounts.SizeDeltaUsd, available, model.ErrInsufficientLiquidity)
	}

	if amounts.CollateralDeltaUsd.Cmp(cfg.MinCollateralUsd) < 0 {
		return nil, fmt.Errorf("collateral after fees %s below %s: %w",
			amounts.CollateralDeltaUsd, cfg.MinCollateralUsd, model.ErrBelowMinCollateral)
	}

	if err := checkLeverageBound(market, amounts.SizeDeltaUsd, amounts.CollateralDeltaUsd); err != nil {
		return nil, err
	}

	if pricing.ExceedsMaxPnlFactor(market, amounts.IsLong) {
		return nil, fmt.Errorf("market %s: %w", market.Name, model.ErrPnlFactorExceeded)
	}

	return impactWarnings(amounts.Fees), nil
}

// Decrease validates a sized decrease or trigger order.
func Decrease(cfg model.TradingConfig, amounts *model.DecreaseAmounts, slippageBps int64) ([]Warning, error) {
	if err := checkSlippage(cfg, slippageBps); err != nil {
		return nil, err
	}
	// A trigger decrease takes profit on the winning side of the mark; a
	// stop loss sits on the losing side.
	triggerSide := amounts.IsLong
	if amounts.IsStopLoss {
		triggerSide = !amounts.IsLong
	}
	if err := checkTriggerSide(amounts.TriggerPrice, amounts.MarkPrice, triggerSide, false); err != nil {
		return nil, err
	}

	if amounts.ReceiveUsd.Sign() < 0 {
		return nil, fmt.Errorf("payout would be negative: %w", model.ErrBelowMinCollateral)
	}

	// A partial close must leave a viable position behind.
	if amounts.NextSizeUsd.Sign() > 0 {
		if amounts.NextCollateralUsd.Cmp(cfg.MinCollateralUsd) < 0 {
			return nil, fmt.Errorf("remaining collateral %s below %s: %w",
				amounts.NextCollateralUsd, cfg.MinCollateralUsd, model.ErrBelowMinCollateral)
		}
		if err := checkLeverageBound(amounts.Market, amounts.NextSizeUsd, amounts.NextCollateralUsd); err != nil {
			return nil, err
		}
	}

	warnings := impactWarnings(amounts.Fees)
	if amounts.EstimatedPnl.Sign() > 0 && pricing.ExceedsMaxPnlFactor(amounts.Market, amounts.IsLong) {
		// Closing into a capped pool still executes, but the realized
		// profit may be reduced by the contracts.
		warnings = append(warnings, Warning{
			Code:    "pnl_factor_capped",
			Message: "pool is at its max pnl factor, realized profit may be capped",
		})
	}
	return warnings, nil
}

func checkSlippage(cfg model.TradingConfig, slippageBps int64) error {
	if slippageBps < 0 || slippageBps > cfg.MaxSlippageBps {
		return fmt.Errorf("slippage %d bps outside [0, %d]: %w",
			slippageBps, cfg.MaxSlippageBps, model.ErrInvalidSlippage)
	}
	return nil
}

// checkTriggerSide rejects trigger prices on the wrong side of the mark
// price: a limit increase must improve on the mark, a trigger decrease
// must be reachable in the profit/stop direction chosen.
func checkTriggerSide(triggerPrice, markPrice *big.Int, isLong, isIncrease bool) error {
	if triggerPrice == nil {
		return nil
	}
	// Long increases and short decreases execute on a falling price.
	wantBelow := isLong == isIncrease
	if wantBelow && triggerPrice.Cmp(markPrice) > 0 {
		return fmt.Errorf("trigger %s above mark %s: %w", triggerPrice, markPrice, model.ErrAcceptablePriceInverted)
	}
	if !wantBelow && triggerPrice.Cmp(markPrice) < 0 {
		return fmt.Errorf("trigger %s below mark %s: %w", triggerPrice, markPrice, model.ErrAcceptablePriceInverted)
	}
	return nil
}

// checkLeverageBound enforces the min-collateral-factor constraint:
// collateral must cover sizeUsd * minCollateralFactor.
func checkLeverageBound(market *model.Market, sizeUsd, collateralUsd *big.Int) error {
	minCollateralForLeverage := fixed.ApplyFactor(sizeUsd, market.MinCollateralFactor)
	if collateralUsd.Cmp(minCollateralForLeverage) < 0 {
		return fmt.Errorf("collateral %s below leverage floor %s: %w",
			collateralUsd, minCollateralForLeverage, model.ErrAboveMaxLeverage)
	}
	return nil
}

func impactWarnings(fees *model.TradeFees) []Warning {
	if fees == nil {
		return nil
	}
	total := new(big.Int).Add(fees.SwapPriceImpact.DeltaUsd, fees.PositionPriceImpact.DeltaUsd)
	if total.Sign() >= 0 {
		return nil
	}
	if fees.Total.Bps.Cmp(big.NewInt(-highImpactWarningBps)) < 0 {
		return []Warning{{
			Code:    "high_price_impact",
			Message: "price impact and fees exceed the advisory threshold",
		}}
	}
	return nil
}
