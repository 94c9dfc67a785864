// Package graph derives the directed swap graph from a market snapshot.
// Nodes are tokens, edges are markets traversed in one direction. Edges
// are recomputed from the snapshot on every build; the graph holds no
// state of its own.
package graph

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// Edge is one market traversed from TokenIn to TokenOut, annotated with
// the estimated liquidity available in that direction.
type Edge struct {
	Market   *model.Market
	TokenIn  *model.Token
	TokenOut *model.Token

	// AvailableLiquidityUsd is the lesser of the reserve-bounded and
	// pool-cap-bounded liquidity for this direction, 10^30-scaled USD.
	AvailableLiquidityUsd *big.Int
}

// Graph is an adjacency list keyed by the input token address.
type Graph struct {
	edges map[common.Address][]Edge
}

// Build constructs the swap graph from the snapshot. Disabled markets,
// single-token markets, and directions with no available liquidity are
// excluded entirely rather than carried with zero weight.
func Build(snapshot *model.Snapshot) *Graph {
	g := &Graph{edges: make(map[common.Address][]Edge)}

	for _, market := range snapshot.EnabledMarkets() {
		if market.IsSameCollaterals {
			continue
		}
		g.addEdge(market, market.LongToken, market.ShortToken)
		g.addEdge(market, market.ShortToken, market.LongToken)
	}
	return g
}

func (g *Graph) addEdge(market *model.Market, tokenIn, tokenOut *model.Token) {
	liquidity := AvailableSwapLiquidityUsd(market, market.IsLongTokenSide(tokenOut.Address))
	if liquidity.Sign() <= 0 {
		return
	}
	g.edges[tokenIn.Address] = append(g.edges[tokenIn.Address], Edge{
		Market:                market,
		TokenIn:               tokenIn,
		TokenOut:              tokenOut,
		AvailableLiquidityUsd: liquidity,
	})
}

// EdgesFrom returns the outgoing edges for a token.
func (g *Graph) EdgesFrom(token common.Address) []Edge {
	return g.edges[token]
}

// TokenCount returns the number of tokens with at least one outgoing edge.
func (g *Graph) TokenCount() int {
	return len(g.edges)
}
