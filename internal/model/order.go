package model

// OrderType identifies the trade shape being computed.
type OrderType int

const (
	OrderMarketSwap OrderType = iota
	OrderLimitSwap
	OrderMarketIncrease
	OrderLimitIncrease
	OrderMarketDecrease
	OrderLimitDecrease
	OrderStopLossDecrease
)

var orderTypeNames = map[OrderType]string{
	OrderMarketSwap:       "market_swap",
	OrderLimitSwap:        "limit_swap",
	OrderMarketIncrease:   "market_increase",
	OrderLimitIncrease:    "limit_increase",
	OrderMarketDecrease:   "market_decrease",
	OrderLimitDecrease:    "limit_decrease",
	OrderStopLossDecrease: "stop_loss_decrease",
}

func (t OrderType) String() string {
	if name, ok := orderTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// IsSwap reports whether the order only swaps tokens.
func (t OrderType) IsSwap() bool {
	return t == OrderMarketSwap || t == OrderLimitSwap
}

// IsIncrease reports whether the order opens or grows a position.
func (t OrderType) IsIncrease() bool {
	return t == OrderMarketIncrease || t == OrderLimitIncrease
}

// IsDecrease reports whether the order shrinks or closes a position.
func (t OrderType) IsDecrease() bool {
	return t == OrderMarketDecrease || t == OrderLimitDecrease || t == OrderStopLossDecrease
}
