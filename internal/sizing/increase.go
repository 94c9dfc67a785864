// Package sizing combines the router and pricing layers into trade
// amounts for increase and decrease orders: sizes, collateral, leverage,
// acceptable prices, and liquidation prices. Every function is a pure
// derivation from the snapshot; results are rebuilt from scratch on each
// input change.
package sizing

import (
	"fmt"
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/pricing"
	"github.com/gmx-io/gmx-interface-sub014/internal/router"
)

// IncreaseInput describes one increase order to size. Exactly one of
// LeverageBps (size derived from collateral) or SizeDeltaUsd (collateral
// derived from size) drives the computation; the two entry points are
// inverse operations of each other.
type IncreaseInput struct {
	Market *model.Market
	IsLong bool

	InitialCollateralToken  *model.Token
	InitialCollateralAmount *big.Int

	// CollateralToken is the market collateral token the position is
	// margined in; a swap is routed when it differs from the initial token.
	CollateralToken *model.Token

	LeverageBps  *big.Int
	SizeDeltaUsd *big.Int

	// TriggerPrice is set for limit increases; market orders use the
	// oracle mark price.
	TriggerPrice *big.Int
	SlippageBps  int64
}

// ComputeIncrease sizes an increase order.
func ComputeIncrease(cfg model.TradingConfig, rtr *router.Router, in IncreaseInput) (*model.IncreaseAmounts, error) {
	swap, collateralAmount, err := swapInitialCollateral(rtr, in)
	if err != nil {
		return nil, err
	}

	collateralUsd := model.ConvertToUsd(collateralAmount, in.CollateralToken.Prices.Min)

	var sizeDeltaUsd *big.Int
	switch {
	case in.LeverageBps != nil:
		sizeDeltaUsd = fixed.ApplyBasisPoints(collateralUsd, in.LeverageBps)
	case in.SizeDeltaUsd != nil:
		sizeDeltaUsd = new(big.Int).Set(in.SizeDeltaUsd)
	default:
		return nil, fmt.Errorf("increase needs either leverage or size delta")
	}

	markPrice := in.Market.IndexToken.Prices.Pick(in.IsLong)
	basisPrice := markPrice
	if in.TriggerPrice != nil {
		basisPrice = in.TriggerPrice
	}

	impactUsd := pricing.PositionPriceImpactUsd(in.Market, sizeDeltaUsd, in.IsLong)
	impactUsd = pricing.CapPositiveImpactUsd(in.Market, impactUsd, sizeDeltaUsd)

	positionFee := pricing.PositionFee(in.Market, sizeDeltaUsd, impactUsd.Sign() > 0)
	collateralAfterFeesUsd := new(big.Int).Add(collateralUsd, positionFee.DeltaUsd)
	collateralDeltaAmount := model.ConvertToTokenAmount(collateralAfterFeesUsd, in.CollateralToken.Prices.Min)

	sizeDeltaInTokens, entryPrice := increaseExecution(sizeDeltaUsd, impactUsd, basisPrice, in.IsLong)
	acceptablePrice := ApplySlippageToPrice(entryPrice, in.SlippageBps, in.IsLong, true)

	fees := model.NewTradeFees()
	if swap != nil {
		fees.SwapFees = swap.Fees.SwapFees
		fees.SwapPriceImpact = swap.Fees.SwapPriceImpact
	}
	fees.PositionFee = positionFee
	fees.PositionPriceImpact = model.NewFeeItem(impactUsd, sizeDeltaUsd)
	model.SumTradeFees(fees, sizeDeltaUsd)

	var swapPath model.SwapPath
	if swap != nil {
		swapPath = swap.Path
	}

	return &model.IncreaseAmounts{
		Market:                  in.Market,
		CollateralToken:         in.CollateralToken,
		IsLong:                  in.IsLong,
		InitialCollateralAmount: new(big.Int).Set(in.InitialCollateralAmount),
		InitialCollateralUsd:    model.ConvertToUsd(in.InitialCollateralAmount, in.InitialCollateralToken.Prices.Min),
		CollateralDeltaAmount:   collateralDeltaAmount,
		CollateralDeltaUsd:      collateralAfterFeesUsd,
		SizeDeltaUsd:            sizeDeltaUsd,
		SizeDeltaInTokens:       sizeDeltaInTokens,
		MarkPrice:               markPrice,
		EntryPrice:              entryPrice,
		AcceptablePrice:         acceptablePrice,
		TriggerPrice:            in.TriggerPrice,
		SwapPath:                swapPath,
		Fees:                    fees,
		EstimatedLeverage:       fixed.BasisPoints(sizeDeltaUsd, collateralAfterFeesUsd),
	}, nil
}

// CollateralForSize is the dual entry point: it derives the collateral a
// trader must supply (in the collateral token, before position fees) to
// open sizeDeltaUsd at the given leverage. Composing it with
// ComputeIncrease reproduces the original collateral within one unit of
// rounding.
func CollateralForSize(market *model.Market, collateralToken *model.Token, sizeDeltaUsd, leverageBps *big.Int) *big.Int {
	collateralUsd := fixed.MulDiv(sizeDeltaUsd, big.NewInt(fixed.BasisPointsDivisor), leverageBps)
	return model.ConvertToTokenAmountRoundUp(collateralUsd, collateralToken.Prices.Min)
}

func swapInitialCollateral(rtr *router.Router, in IncreaseInput) (*model.SwapAmounts, *big.Int, error) {
	if in.InitialCollateralToken.Address == in.CollateralToken.Address {
		return nil, new(big.Int).Set(in.InitialCollateralAmount), nil
	}
	swap, err := rtr.FindBestSwapPath(
		in.InitialCollateralToken.Address,
		in.CollateralToken.Address,
		in.InitialCollateralAmount,
	)
	if err != nil {
		// A missing collateral route makes the whole trade un-computable.
		return nil, nil, err
	}
	return swap, swap.AmountOut, nil
}

// increaseExecution converts the size delta into index tokens with the
// price impact folded in, and derives the effective entry price. Positive
// impact buys extra tokens for a long (lower entry) and shrinks the token
// debt of a short (higher entry).
func increaseExecution(sizeDeltaUsd, impactUsd, basisPrice *big.Int, isLong bool) (*big.Int, *big.Int) {
	adjustedUsd := new(big.Int)
	if isLong {
		adjustedUsd.Add(sizeDeltaUsd, impactUsd)
	} else {
		adjustedUsd.Sub(sizeDeltaUsd, impactUsd)
	}
	if adjustedUsd.Sign() <= 0 {
		adjustedUsd.SetInt64(0)
	}

	sizeDeltaInTokens := model.ConvertToTokenAmount(adjustedUsd, basisPrice)
	if sizeDeltaInTokens.Sign() == 0 {
		return sizeDeltaInTokens, new(big.Int).Set(basisPrice)
	}
	entryPrice := new(big.Int).Quo(sizeDeltaUsd, sizeDeltaInTokens)
	return sizeDeltaInTokens, entryPrice
}
