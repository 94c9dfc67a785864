package sizing

import (
	"fmt"
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/pricing"
)

// DecreaseInput describes a decrease or trigger order against an existing
// position.
type DecreaseInput struct {
	Market   *model.Market
	Position *model.Position

	// CloseSizeUsd is the USD size being closed; clamped to the position
	// size.
	CloseSizeUsd *big.Int

	// KeepLeverage withdraws collateral proportionally so the remaining
	// leverage is unchanged. When unset, collateral changes only by
	// CollateralWithdrawalAmount.
	KeepLeverage               bool
	CollateralWithdrawalAmount *big.Int

	// TriggerPrice is set for limit/stop orders; market orders use the
	// oracle mark price. IsStopLoss flips the side of the mark the
	// trigger is expected on.
	TriggerPrice *big.Int
	IsStopLoss   bool
	SlippageBps  int64

	// ShowPnlInLeverage folds unrealized PnL into the next-leverage
	// denominator. Display preference only; it never changes amounts.
	ShowPnlInLeverage bool
}

// ComputeDecrease sizes a decrease order: realized PnL, pending fee
// settlement, collateral withdrawal, payout, and the next position state.
func ComputeDecrease(cfg model.TradingConfig, in DecreaseInput) (*model.DecreaseAmounts, error) {
	position := in.Position
	if position == nil || position.SizeInUsd.Sign() == 0 {
		return nil, fmt.Errorf("no position to decrease")
	}
	market := in.Market

	sizeDeltaUsd := new(big.Int).Set(in.CloseSizeUsd)
	if sizeDeltaUsd.Cmp(position.SizeInUsd) > 0 {
		sizeDeltaUsd.Set(position.SizeInUsd)
	}
	isFullClose := sizeDeltaUsd.Cmp(position.SizeInUsd) == 0

	// Closing a long sells at the bid, closing a short buys at the ask.
	markPrice := market.IndexToken.Prices.Pick(!position.IsLong)
	basisPrice := markPrice
	if in.TriggerPrice != nil {
		basisPrice = in.TriggerPrice
	}

	closeDelta := new(big.Int).Neg(sizeDeltaUsd)
	impactUsd := pricing.PositionPriceImpactUsd(market, closeDelta, position.IsLong)
	impactUsd = pricing.CapPositiveImpactUsd(market, impactUsd, sizeDeltaUsd)
	impactUsd = pricing.CapNegativeImpactUsd(market, impactUsd, sizeDeltaUsd)

	positionFee := pricing.PositionFee(market, sizeDeltaUsd, impactUsd.Sign() > 0)
	borrowingFeeUsd := pricing.PendingBorrowingFeeUsd(position, market)
	fundingFeeUsd := pricing.PendingFundingFeeUsd(position, market)

	// Size in tokens closes proportionally to size in USD.
	sizeDeltaInTokens := fixed.MulDiv(position.SizeInTokens, sizeDeltaUsd, position.SizeInUsd)

	exitPrice := decreaseExecutionPrice(sizeDeltaUsd, impactUsd, basisPrice, position.IsLong)

	estimatedPnl := position.Pnl(markPrice)
	realizedPnl := realizedShare(position, basisPrice, sizeDeltaInTokens)

	collateralUsd := position.CollateralUsd()
	collateralDeltaUsd := collateralWithdrawal(in, collateralUsd, sizeDeltaUsd, position.SizeInUsd, isFullClose)
	collateralDeltaAmount := model.ConvertToTokenAmount(collateralDeltaUsd, position.CollateralToken.Prices.Min)

	fees := model.NewTradeFees()
	fees.PositionFee = positionFee
	fees.PositionPriceImpact = model.NewFeeItem(impactUsd, sizeDeltaUsd)
	fees.BorrowingFee = model.NewFeeItem(new(big.Int).Neg(borrowingFeeUsd), sizeDeltaUsd)
	fees.FundingFee = model.NewFeeItem(new(big.Int).Neg(fundingFeeUsd), sizeDeltaUsd)
	model.SumTradeFees(fees, sizeDeltaUsd)

	// Pending fees are settled out of the realized PnL before payout.
	receiveUsd := new(big.Int).Add(collateralDeltaUsd, realizedPnl)
	receiveUsd.Add(receiveUsd, fees.Total.DeltaUsd)
	receiveAmount := model.ConvertToTokenAmount(receiveUsd, position.CollateralToken.Prices.Min)

	nextSizeUsd := new(big.Int).Sub(position.SizeInUsd, sizeDeltaUsd)
	nextCollateralUsd := new(big.Int).Sub(collateralUsd, collateralDeltaUsd)

	var nextLeverage *big.Int
	if nextSizeUsd.Sign() > 0 {
		remainingPnl := new(big.Int).Sub(estimatedPnl, realizedPnl)
		nextLeverage = Leverage(nextSizeUsd, nextCollateralUsd, remainingPnl, new(big.Int), in.ShowPnlInLeverage)
	}

	return &model.DecreaseAmounts{
		Market:                market,
		IsLong:                position.IsLong,
		SizeDeltaUsd:          sizeDeltaUsd,
		SizeDeltaInTokens:     sizeDeltaInTokens,
		CollateralDeltaAmount: collateralDeltaAmount,
		CollateralDeltaUsd:    collateralDeltaUsd,
		MarkPrice:             markPrice,
		ExitPrice:             exitPrice,
		AcceptablePrice:       ApplySlippageToPrice(exitPrice, in.SlippageBps, position.IsLong, false),
		TriggerPrice:          in.TriggerPrice,
		IsStopLoss:            in.IsStopLoss,
		EstimatedPnl:          estimatedPnl,
		RealizedPnl:           realizedPnl,
		ReceiveUsd:            receiveUsd,
		ReceiveAmount:         receiveAmount,
		NextSizeUsd:           nextSizeUsd,
		NextCollateralUsd:     nextCollateralUsd,
		NextLeverage:          nextLeverage,
		Fees:                  fees,
	}, nil
}

// decreaseExecutionPrice folds the price impact into the exit price.
// Positive impact raises a long's exit and lowers a short's.
func decreaseExecutionPrice(sizeDeltaUsd, impactUsd, basisPrice *big.Int, isLong bool) *big.Int {
	if sizeDeltaUsd.Sign() == 0 {
		return new(big.Int).Set(basisPrice)
	}
	adjustedUsd := new(big.Int)
	if isLong {
		adjustedUsd.Add(sizeDeltaUsd, impactUsd)
	} else {
		adjustedUsd.Sub(sizeDeltaUsd, impactUsd)
	}
	return fixed.MulDiv(basisPrice, adjustedUsd, sizeDeltaUsd)
}

// realizedShare is the PnL realized by the closed part, valued at the
// order's basis price: (exitPrice - entryPrice) * closedTokens for longs,
// mirrored for shorts.
func realizedShare(position *model.Position, basisPrice, sizeDeltaInTokens *big.Int) *big.Int {
	entryPrice := position.EntryPrice()
	if entryPrice == nil {
		return new(big.Int)
	}
	diff := new(big.Int).Sub(basisPrice, entryPrice)
	if !position.IsLong {
		diff.Neg(diff)
	}
	return diff.Mul(diff, sizeDeltaInTokens)
}

func collateralWithdrawal(in DecreaseInput, collateralUsd, sizeDeltaUsd, sizeInUsd *big.Int, isFullClose bool) *big.Int {
	if isFullClose {
		return new(big.Int).Set(collateralUsd)
	}
	if in.KeepLeverage {
		return fixed.MulDiv(collateralUsd, sizeDeltaUsd, sizeInUsd)
	}
	if in.CollateralWithdrawalAmount == nil {
		return new(big.Int)
	}
	withdrawal := model.ConvertToUsd(in.CollateralWithdrawalAmount, in.Position.CollateralToken.Prices.Min)
	if withdrawal.Cmp(collateralUsd) > 0 {
		return new(big.Int).Set(collateralUsd)
	}
	return withdrawal
}
