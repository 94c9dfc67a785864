package main

import (
	"fmt"
	"io"
	"math/big"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/pricing"
	"github.com/gmx-io/gmx-interface-sub014/internal/validate"
)

func formatUsd(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return "$" + decimal.NewFromBigInt(v, -30).StringFixed(4)
}

func formatToken(v *big.Int, token *model.Token) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromBigInt(v, -int32(token.Decimals)).String() + " " + token.Symbol
}

func formatPrice(v *big.Int, token *model.Token) string {
	if v == nil {
		return "-"
	}
	return "$" + decimal.NewFromBigInt(v, -(30-int32(token.Decimals))).StringFixed(4)
}

func formatBps(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return v.String() + " bps"
}

func formatRatio(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromBigInt(v, -30).StringFixed(6)
}

func formatLeverage(v *big.Int) string {
	if v == nil {
		return "-"
	}
	return decimal.NewFromBigInt(v, -4).StringFixed(2) + "x"
}

func renderSwap(out io.Writer, amounts *model.SwapAmounts, warnings []validate.Warning) {
	table := tablewriter.NewWriter(out)
	table.Header("Field", "Value")
	table.Append("Token in", formatToken(amounts.AmountIn, amounts.TokenIn))
	table.Append("Token out", formatToken(amounts.AmountOut, amounts.TokenOut))
	table.Append("Min output", formatToken(amounts.MinOutputAmount, amounts.TokenOut))
	table.Append("Acceptable ratio", formatRatio(amounts.AcceptableSwapRatio))
	table.Append("USD in", formatUsd(amounts.UsdIn))
	table.Append("USD out", formatUsd(amounts.UsdOut))
	table.Append("Hops", fmt.Sprintf("%d", len(amounts.Path)))
	table.Append("Price impact", formatUsd(amounts.Fees.SwapPriceImpact.DeltaUsd))
	table.Append("Total fees", formatUsd(amounts.Fees.Total.DeltaUsd))
	table.Append("Total fee rate", formatBps(amounts.Fees.Total.Bps))
	table.Render()

	renderWarnings(out, warnings)
}

func renderIncrease(out io.Writer, amounts *model.IncreaseAmounts, liqPrice *big.Int, warnings []validate.Warning) {
	indexToken := amounts.Market.IndexToken

	table := tablewriter.NewWriter(out)
	table.Header("Field", "Value")
	table.Append("Market", amounts.Market.Name)
	table.Append("Side", sideLabel(amounts.IsLong))
	table.Append("Collateral", formatToken(amounts.CollateralDeltaAmount, amounts.CollateralToken))
	table.Append("Collateral USD", formatUsd(amounts.CollateralDeltaUsd))
	table.Append("Size delta", formatUsd(amounts.SizeDeltaUsd))
	table.Append("Leverage", formatLeverage(amounts.EstimatedLeverage))
	table.Append("Mark price", formatPrice(amounts.MarkPrice, indexToken))
	table.Append("Entry price", formatPrice(amounts.EntryPrice, indexToken))
	table.Append("Acceptable price", formatPrice(amounts.AcceptablePrice, indexToken))
	table.Append("Liquidation price", formatPrice(liqPrice, indexToken))
	table.Append("Price impact", formatUsd(amounts.Fees.PositionPriceImpact.DeltaUsd))
	table.Append("Position fee", formatUsd(amounts.Fees.PositionFee.DeltaUsd))
	table.Append("Total fees", formatUsd(amounts.Fees.Total.DeltaUsd))
	table.Render()

	renderWarnings(out, warnings)
}

func renderDecrease(out io.Writer, amounts *model.DecreaseAmounts, collateralToken *model.Token, warnings []validate.Warning) {
	indexToken := amounts.Market.IndexToken

	table := tablewriter.NewWriter(out)
	table.Header("Field", "Value")
	table.Append("Market", amounts.Market.Name)
	table.Append("Side", sideLabel(amounts.IsLong))
	table.Append("Close size", formatUsd(amounts.SizeDeltaUsd))
	table.Append("Mark price", formatPrice(amounts.MarkPrice, indexToken))
	table.Append("Exit price", formatPrice(amounts.ExitPrice, indexToken))
	table.Append("Acceptable price", formatPrice(amounts.AcceptablePrice, indexToken))
	table.Append("Realized PnL", formatUsd(amounts.RealizedPnl))
	table.Append("Receive", formatToken(amounts.ReceiveAmount, collateralToken))
	table.Append("Receive USD", formatUsd(amounts.ReceiveUsd))
	table.Append("Next size", formatUsd(amounts.NextSizeUsd))
	table.Append("Next collateral", formatUsd(amounts.NextCollateralUsd))
	table.Append("Next leverage", formatLeverage(amounts.NextLeverage))
	table.Append("Borrowing fee", formatUsd(amounts.Fees.BorrowingFee.DeltaUsd))
	table.Append("Funding fee", formatUsd(amounts.Fees.FundingFee.DeltaUsd))
	table.Append("Total fees", formatUsd(amounts.Fees.Total.DeltaUsd))
	table.Render()

	renderWarnings(out, warnings)
}

func renderExecutionFee(out io.Writer, fee pricing.ExecutionFee, nativeToken *model.Token) {
	fmt.Fprintf(out, "execution fee: %s (%s, gas limit %d)\n",
		formatToken(fee.FeeTokenAmount, nativeToken), formatUsd(fee.FeeUsd), fee.GasLimit)
}

func renderWarnings(out io.Writer, warnings []validate.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s: %s\n", w.Code, w.Message)
	}
}

func sideLabel(isLong bool) string {
	if isLong {
		return "long"
	}
	return "short"
}
