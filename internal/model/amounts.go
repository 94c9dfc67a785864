package model

import "math/big"

// SwapAmounts is the immutable result of routing and pricing one swap.
// Recomputed from scratch on every input change.
type SwapAmounts struct {
	TokenIn  *Token
	TokenOut *Token

	AmountIn  *big.Int
	AmountOut *big.Int
	UsdIn     *big.Int
	UsdOut    *big.Int

	PriceIn  *big.Int
	PriceOut *big.Int

	// MinOutputAmount is AmountOut reduced by the slippage tolerance; it
	// is the binding on-chain parameter.
	MinOutputAmount *big.Int

	// AcceptableSwapRatio is the worst output-per-input exchange rate the
	// order accepts, used as the trigger ratio for limit swaps.
	AcceptableSwapRatio *big.Int

	Path SwapPath
	Fees *TradeFees
}

// IncreaseAmounts is the immutable result of sizing a position increase.
type IncreaseAmounts struct {
	Market          *Market
	CollateralToken *Token
	IsLong          bool

	InitialCollateralAmount *big.Int
	InitialCollateralUsd    *big.Int

	// Collateral delta after the collateral swap and position fees.
	CollateralDeltaAmount *big.Int
	CollateralDeltaUsd    *big.Int

	SizeDeltaUsd      *big.Int
	SizeDeltaInTokens *big.Int

	MarkPrice       *big.Int
	EntryPrice      *big.Int
	AcceptablePrice *big.Int
	TriggerPrice    *big.Int

	SwapPath SwapPath
	Fees     *TradeFees

	EstimatedLeverage *big.Int
}

// DecreaseAmounts is the immutable result of sizing a position decrease or
// trigger order.
type DecreaseAmounts struct {
	Market *Market
	IsLong bool

	SizeDeltaUsd      *big.Int
	SizeDeltaInTokens *big.Int

	CollateralDeltaAmount *big.Int
	CollateralDeltaUsd    *big.Int

	MarkPrice       *big.Int
	ExitPrice       *big.Int
	AcceptablePrice *big.Int
	TriggerPrice    *big.Int
	IsStopLoss      bool

	EstimatedPnl *big.Int
	RealizedPnl  *big.Int

	// ReceiveUsd is the USD value paid out to the user after fees and pnl.
	ReceiveUsd    *big.Int
	ReceiveAmount *big.Int

	NextSizeUsd       *big.Int
	NextCollateralUsd *big.Int
	NextLeverage      *big.Int

	Fees *TradeFees
}
