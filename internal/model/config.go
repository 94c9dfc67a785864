package model

import (
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
)

// TradingConfig carries the static protocol constants injected into the
// engine. Every field is set at construction; components receive the
// config by reference and never redeclare the constants locally.
type TradingConfig struct {
	// MinCollateralUsd is the absolute collateral floor (10^30 USD).
	MinCollateralUsd *big.Int
	// MinPositionSizeUsd is the smallest size delta accepted.
	MinPositionSizeUsd *big.Int
	// MaxSwapPathLength bounds route enumeration.
	MaxSwapPathLength int
	// DefaultSlippageBps is applied when the caller does not specify one.
	DefaultSlippageBps int64
	// MaxSlippageBps bounds user-specified slippage.
	MaxSlippageBps int64

	Gas GasLimits
}

// GasLimits holds execution-fee gas estimates per order shape. These feed
// the display-only execution fee estimate, not the bit-exact path.
type GasLimits struct {
	SingleSwap    uint64
	SwapOrder     uint64
	IncreaseOrder uint64
	DecreaseOrder uint64

	// EstimatedFeeBaseGasLimit is added to every order.
	EstimatedFeeBaseGasLimit uint64
	// EstimatedFeeMultiplierFactor is a 10^30-scaled multiplier applied to
	// the summed gas limit.
	EstimatedFeeMultiplierFactor *big.Int
}

// DefaultTradingConfig returns the protocol defaults.
func DefaultTradingConfig() TradingConfig {
	return TradingConfig{
		MinCollateralUsd:   fixed.ExpandDecimals(1, fixed.USDDecimals),
		MinPositionSizeUsd: fixed.ExpandDecimals(1, fixed.USDDecimals),
		MaxSwapPathLength:  3,
		DefaultSlippageBps: 30,
		MaxSlippageBps:     500,
		Gas: GasLimits{
			SingleSwap:                   1_000_000,
			SwapOrder:                    3_000_000,
			IncreaseOrder:                4_000_000,
			DecreaseOrder:                4_000_000,
			EstimatedFeeBaseGasLimit:     600_000,
			EstimatedFeeMultiplierFactor: fixed.ExpandDecimals(1, fixed.USDDecimals),
		},
	}
}
