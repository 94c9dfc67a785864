package model

import "github.com/ethereum/go-ethereum/common"

// SwapHop is one market traversal in a swap path with its direction.
type SwapHop struct {
	MarketAddress common.Address
	TokenIn       common.Address
	TokenOut      common.Address
}

// SwapPath is an ordered sequence of hops converting one token into
// another. Paths are transient: they are derived per route query and are
// invalid once the underlying snapshot changes.
type SwapPath []SwapHop

// MarketAddresses returns the market addresses in traversal order, the
// shape submitted on-chain.
func (p SwapPath) MarketAddresses() []common.Address {
	addrs := make([]common.Address, 0, len(p))
	for _, hop := range p {
		addrs = append(addrs, hop.MarketAddress)
	}
	return addrs
}

// ContainsMarket reports whether the path already traverses the market.
func (p SwapPath) ContainsMarket(addr common.Address) bool {
	for _, hop := range p {
		if hop.MarketAddress == addr {
			return true
		}
	}
	return false
}
