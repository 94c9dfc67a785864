package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Position is a read-only snapshot of an existing on-chain position. The
// engine only derives trade amounts from it; mutation happens on-chain.
type Position struct {
	Key             string
	MarketAddress   common.Address
	CollateralToken *Token
	IsLong          bool

	SizeInUsd        *big.Int
	SizeInTokens     *big.Int
	CollateralAmount *big.Int

	// Cumulative fee trackers captured when the position was last touched,
	// used to derive the pending (unsettled) fee debt.
	BorrowingFactorAtEntry *big.Int
	FundingPerSizeAtEntry  FundingPerSize
}

// CollateralUsd values the position collateral at the min oracle price.
func (p *Position) CollateralUsd() *big.Int {
	return ConvertToUsd(p.CollateralAmount, p.CollateralToken.Prices.Min)
}

// EntryPrice is the average entry price implied by size in USD and tokens.
// Returns nil for an empty position.
func (p *Position) EntryPrice() *big.Int {
	if p.SizeInTokens == nil || p.SizeInTokens.Sign() == 0 {
		return nil
	}
	return new(big.Int).Quo(p.SizeInUsd, p.SizeInTokens)
}

// Pnl returns the position's unrealized PnL at the given index price,
// positive when the position is in profit.
func (p *Position) Pnl(indexPrice *big.Int) *big.Int {
	entryPrice := p.EntryPrice()
	if entryPrice == nil {
		return new(big.Int)
	}
	diff := new(big.Int).Sub(indexPrice, entryPrice)
	if !p.IsLong {
		diff.Neg(diff)
	}
	return diff.Mul(diff, p.SizeInTokens)
}
