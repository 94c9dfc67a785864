package pricing

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// SwapFee returns the swap fee for a hop as a fee item. The fee is always
// a cost; the factor depends on whether the hop's price impact was
// positive (balancing swaps pay the discounted rate).
func SwapFee(market *model.Market, swapUsd *big.Int, forPositiveImpact bool) model.FeeItem {
	factor := market.SwapFeeFactorForNegativeImpact
	if forPositiveImpact {
		factor = market.SwapFeeFactorForPositiveImpact
	}
	feeUsd := fixed.ApplyFactor(swapUsd, factor)
	return model.NewFeeItem(feeUsd.Neg(feeUsd), swapUsd)
}

// PositionFee returns the open/close fee on a position size delta.
func PositionFee(market *model.Market, sizeDeltaUsd *big.Int, forPositiveImpact bool) model.FeeItem {
	factor := market.PositionFeeFactorForNegativeImpact
	if forPositiveImpact {
		factor = market.PositionFeeFactorForPositiveImpact
	}
	absSize := new(big.Int).Abs(sizeDeltaUsd)
	feeUsd := fixed.ApplyFactor(absSize, factor)
	return model.NewFeeItem(feeUsd.Neg(feeUsd), absSize)
}
