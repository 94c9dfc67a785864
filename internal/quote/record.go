package quote

import (
	"math/big"
	"time"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/validate"
)

// SwapRecord flattens a swap quote into a storage record.
func SwapRecord(snapshot *model.Snapshot, orderType model.OrderType, amounts *model.SwapAmounts, warnings []validate.Warning) model.QuoteRecord {
	rec := baseRecord(snapshot, orderType, warnings)
	rec.TokenIn = amounts.TokenIn.Address.Hex()
	rec.TokenOut = amounts.TokenOut.Address.Hex()
	rec.AmountIn = amounts.AmountIn.String()
	rec.AmountOut = amounts.AmountOut.String()
	if amounts.MinOutputAmount != nil {
		rec.MinOutputAmount = amounts.MinOutputAmount.String()
	}
	rec.TotalFeeUsd = amounts.Fees.Total.DeltaUsd.String()
	rec.TotalFeeBps = amounts.Fees.Total.Bps.String()
	for _, addr := range amounts.Path.MarketAddresses() {
		rec.SwapPath = append(rec.SwapPath, addr.Hex())
	}
	return rec
}

// IncreaseRecord flattens an increase quote into a storage record.
func IncreaseRecord(snapshot *model.Snapshot, orderType model.OrderType, amounts *model.IncreaseAmounts, liqPrice *big.Int, warnings []validate.Warning) model.QuoteRecord {
	rec := baseRecord(snapshot, orderType, warnings)
	rec.MarketAddress = amounts.Market.Address.Hex()
	isLong := amounts.IsLong
	rec.IsLong = &isLong
	rec.SizeDeltaUsd = amounts.SizeDeltaUsd.String()
	rec.CollateralUsd = amounts.CollateralDeltaUsd.String()
	rec.AcceptablePrice = amounts.AcceptablePrice.String()
	if liqPrice != nil {
		rec.LiquidationPrice = liqPrice.String()
	}
	rec.TotalFeeUsd = amounts.Fees.Total.DeltaUsd.String()
	rec.TotalFeeBps = amounts.Fees.Total.Bps.String()
	for _, addr := range amounts.SwapPath.MarketAddresses() {
		rec.SwapPath = append(rec.SwapPath, addr.Hex())
	}
	return rec
}

// DecreaseRecord flattens a decrease quote into a storage record.
func DecreaseRecord(snapshot *model.Snapshot, orderType model.OrderType, amounts *model.DecreaseAmounts, warnings []validate.Warning) model.QuoteRecord {
	rec := baseRecord(snapshot, orderType, warnings)
	rec.MarketAddress = amounts.Market.Address.Hex()
	isLong := amounts.IsLong
	rec.IsLong = &isLong
	rec.SizeDeltaUsd = amounts.SizeDeltaUsd.String()
	rec.CollateralUsd = amounts.CollateralDeltaUsd.String()
	rec.AcceptablePrice = amounts.AcceptablePrice.String()
	rec.TotalFeeUsd = amounts.Fees.Total.DeltaUsd.String()
	rec.TotalFeeBps = amounts.Fees.Total.Bps.String()
	return rec
}

func baseRecord(snapshot *model.Snapshot, orderType model.OrderType, warnings []validate.Warning) model.QuoteRecord {
	rec := model.QuoteRecord{
		ChainID:     snapshot.ChainID,
		BlockNumber: snapshot.BlockNumber,
		CreatedAt:   time.Now().UTC(),
		OrderType:   orderType.String(),
	}
	for _, w := range warnings {
		rec.Warnings = append(rec.Warnings, w.Code)
	}
	return rec
}
