package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// Snapshot is an atomic view of all markets and tokens at one block. The
// engine never observes partial updates: a snapshot is built once and read
// many times; a newer snapshot simply replaces it.
type Snapshot struct {
	ChainID     uint64
	BlockNumber uint64
	Timestamp   uint64

	Tokens  []*Token
	Markets []*Market
}

// TokenByAddress returns the token snapshot, or nil when unknown.
func (s *Snapshot) TokenByAddress(addr common.Address) *Token {
	for _, token := range s.Tokens {
		if token.Address == addr {
			return token
		}
	}
	return nil
}

// MarketByAddress returns the market snapshot, or nil when unknown.
func (s *Snapshot) MarketByAddress(addr common.Address) *Market {
	for _, market := range s.Markets {
		if market.Address == addr {
			return market
		}
	}
	return nil
}

// EnabledMarkets returns markets available for trading.
func (s *Snapshot) EnabledMarkets() []*Market {
	out := make([]*Market, 0, len(s.Markets))
	for _, market := range s.Markets {
		if !market.IsDisabled {
			out = append(out, market)
		}
	}
	return out
}
