package model

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
)

// FeeItem is one signed fee component: a 10^30-scaled USD delta plus its
// rate in basis points relative to the base amount it was computed from.
// Negative deltas are costs, positive deltas are rebates.
type FeeItem struct {
	DeltaUsd *big.Int
	Bps      *big.Int
}

// NewFeeItem builds a fee item, deriving bps from the base amount. A nil
// or zero base yields zero bps.
func NewFeeItem(deltaUsd, baseUsd *big.Int) FeeItem {
	if deltaUsd == nil {
		deltaUsd = new(big.Int)
	}
	return FeeItem{
		DeltaUsd: deltaUsd,
		Bps:      fixed.BasisPoints(deltaUsd, baseUsd),
	}
}

// ZeroFeeItem returns an all-zero fee item.
func ZeroFeeItem() FeeItem {
	return FeeItem{DeltaUsd: new(big.Int), Bps: new(big.Int)}
}

// Add sums two fee items relative to the given base amount.
func (f FeeItem) Add(other FeeItem, baseUsd *big.Int) FeeItem {
	return NewFeeItem(new(big.Int).Add(f.DeltaUsd, other.DeltaUsd), baseUsd)
}

// TradeFees is the full fee breakdown for one computed trade. Components
// that do not apply to the order type are zero items, never nil.
type TradeFees struct {
	SwapFees            []FeeItem
	SwapPriceImpact     FeeItem
	PositionFee         FeeItem
	PositionPriceImpact FeeItem
	BorrowingFee        FeeItem
	FundingFee          FeeItem
	Total               FeeItem
}

// SumTradeFees recomputes the total from the component items against the
// given base amount.
func SumTradeFees(fees *TradeFees, baseUsd *big.Int) {
	total := new(big.Int)
	for _, item := range fees.SwapFees {
		total.Add(total, item.DeltaUsd)
	}
	total.Add(total, fees.SwapPriceImpact.DeltaUsd)
	total.Add(total, fees.PositionFee.DeltaUsd)
	total.Add(total, fees.PositionPriceImpact.DeltaUsd)
	total.Add(total, fees.BorrowingFee.DeltaUsd)
	total.Add(total, fees.FundingFee.DeltaUsd)
	fees.Total = NewFeeItem(total, baseUsd)
}

// NewTradeFees returns a TradeFees with every component zeroed.
func NewTradeFees() *TradeFees {
	return &TradeFees{
		SwapPriceImpact:     ZeroFeeItem(),
		PositionFee:         ZeroFeeItem(),
		PositionPriceImpact: ZeroFeeItem(),
		BorrowingFee:        ZeroFeeItem(),
		FundingFee:          ZeroFeeItem(),
		Total:               ZeroFeeItem(),
	}
}
