package model

import "time"

// QuoteRecord is a flattened, storage-ready view of one computed quote.
// Big integers are serialized as decimal strings so the record survives
// JSON and SQL round trips without precision loss.
type QuoteRecord struct {
	ChainID     uint64    `json:"chain_id"`
	BlockNumber uint64    `json:"block_number"`
	CreatedAt   time.Time `json:"created_at"`

	OrderType     string `json:"order_type"`
	MarketAddress string `json:"market_address,omitempty"`
	IsLong        *bool  `json:"is_long,omitempty"`

	TokenIn  string `json:"token_in,omitempty"`
	TokenOut string `json:"token_out,omitempty"`

	AmountIn        string `json:"amount_in,omitempty"`
	AmountOut       string `json:"amount_out,omitempty"`
	MinOutputAmount string `json:"min_output_amount,omitempty"`
	SizeDeltaUsd    string `json:"size_delta_usd,omitempty"`
	CollateralUsd   string `json:"collateral_usd,omitempty"`

	AcceptablePrice  string `json:"acceptable_price,omitempty"`
	LiquidationPrice string `json:"liquidation_price,omitempty"`

	TotalFeeUsd string `json:"total_fee_usd,omitempty"`
	TotalFeeBps string `json:"total_fee_bps,omitempty"`

	SwapPath []string `json:"swap_path,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}
