package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token is an immutable token snapshot used for one computation cycle.
// Prices are scaled by 10^(30-Decimals) so that tokenAmount * price yields
// a USD value at 10^30.
type Token struct {
	Address     common.Address
	Symbol      string
	Decimals    uint8
	IsStable    bool
	IsShortable bool
	IsSynthetic bool
	IsNative    bool
	Prices      TokenPrices
}

// TokenPrices holds the current min/max (bid/ask) oracle prices.
type TokenPrices struct {
	Min *big.Int
	Max *big.Int
}

// Mid returns the midpoint of the min and max price, truncated.
func (p TokenPrices) Mid() *big.Int {
	sum := new(big.Int).Add(p.Min, p.Max)
	return sum.Quo(sum, big.NewInt(2))
}

// Pick returns the max price when maximize is set, otherwise the min.
func (p TokenPrices) Pick(maximize bool) *big.Int {
	if maximize {
		return p.Max
	}
	return p.Min
}
