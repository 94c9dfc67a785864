package sizing

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
)

// ApplySlippageToPrice worsens a price by the slippage tolerance in the
// direction that hurts the trader: increases for long-increase and
// short-decrease, decreases otherwise. The result is the acceptable price
// submitted on-chain.
func ApplySlippageToPrice(price *big.Int, slippageBps int64, isLong, isIncrease bool) *big.Int {
	shouldIncrease := isLong == isIncrease
	bps := big.NewInt(fixed.BasisPointsDivisor)
	if shouldIncrease {
		bps.Add(bps, big.NewInt(slippageBps))
	} else {
		bps.Sub(bps, big.NewInt(slippageBps))
	}
	return fixed.ApplyBasisPoints(price, bps)
}

// ApplySlippageToMinOut reduces a swap output by the slippage tolerance,
// producing the binding minimum output amount.
func ApplySlippageToMinOut(amountOut *big.Int, slippageBps int64) *big.Int {
	bps := big.NewInt(fixed.BasisPointsDivisor - slippageBps)
	return fixed.ApplyBasisPoints(amountOut, bps)
}

// SwapRatio returns the mark exchange rate between two priced tokens as a
// Precision-scaled ratio of output token units per input token unit.
func SwapRatio(priceIn, priceOut *big.Int) *big.Int {
	if priceOut == nil || priceOut.Sign() <= 0 {
		return new(big.Int)
	}
	return fixed.MulDiv(priceIn, fixed.Precision, priceOut)
}

// ApplySlippageToSwapRatio lowers a mark swap ratio by the slippage
// tolerance, giving the worst exchange rate a limit swap accepts.
func ApplySlippageToSwapRatio(ratio *big.Int, slippageBps int64) *big.Int {
	bps := big.NewInt(fixed.BasisPointsDivisor - slippageBps)
	return fixed.ApplyBasisPoints(ratio, bps)
}
