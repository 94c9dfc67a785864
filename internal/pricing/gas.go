package pricing

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// ExecutionFee is the keeper execution cost estimate for one order,
// denominated in the chain's native token with a USD value for display.
// This is an approximation: it never feeds the bit-exact trade parameters.
type ExecutionFee struct {
	GasLimit       uint64
	FeeTokenAmount *big.Int
	FeeUsd         *big.Int
}

// EstimateExecutionFee sizes the gas limit from the order shape (base cost
// plus per-hop swap cost), applies the configured multiplier, and prices
// the result at the given gas price.
func EstimateExecutionFee(
	gas model.GasLimits,
	gasPrice *big.Int,
	orderType model.OrderType,
	swapHops int,
	nativeToken *model.Token,
) ExecutionFee {
	var orderGas uint64
	switch {
	case orderType.IsSwap():
		orderGas = gas.SwapOrder
	case orderType.IsIncrease():
		orderGas = gas.IncreaseOrder
	default:
		orderGas = gas.DecreaseOrder
	}
	limit := gas.EstimatedFeeBaseGasLimit + orderGas + uint64(swapHops)*gas.SingleSwap

	adjusted := fixed.ApplyFactor(new(big.Int).SetUint64(limit), gas.EstimatedFeeMultiplierFactor)
	feeTokenAmount := adjusted.Mul(adjusted, gasPrice)

	return ExecutionFee{
		GasLimit:       limit,
		FeeTokenAmount: feeTokenAmount,
		FeeUsd:         model.ConvertToUsd(feeTokenAmount, nativeToken.Prices.Min),
	}
}
