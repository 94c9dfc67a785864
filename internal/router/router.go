// Package router finds the best multi-hop swap path through the market
// graph. Edge cost is not a static weight: price impact and fees depend
// on the amount flowing through each hop, so candidate paths are
// enumerated first and then scored by simulating the full swap.
package router

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub014/internal/graph"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// Router scores swap paths over a snapshot-derived graph.
type Router struct {
	graph   *graph.Graph
	maxHops int
}

// New creates a router bounded to maxHops per path.
func New(g *graph.Graph, maxHops int) *Router {
	if maxHops <= 0 {
		maxHops = 1
	}
	return &Router{graph: g, maxHops: maxHops}
}

// FindBestSwapPath routes amountIn of tokenIn into tokenOut and returns
// the path with the highest net output, ties broken by fewer hops.
// Returns model.ErrNoRouteFound when the tokens are not connected at all,
// and model.ErrInsufficientLiquidity when routes exist but none can carry
// the amount.
func (r *Router) FindBestSwapPath(tokenIn, tokenOut common.Address, amountIn *big.Int) (*model.SwapAmounts, error) {
	if tokenIn == tokenOut {
		return nil, fmt.Errorf("token swaps to itself: %w", model.ErrNoRouteFound)
	}

	candidates := r.enumeratePaths(tokenIn, tokenOut)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s -> %s: %w", tokenIn, tokenOut, model.ErrNoRouteFound)
	}

	var best *model.SwapAmounts
	for _, path := range candidates {
		amounts, err := simulatePath(path, amountIn)
		if err != nil {
			// A hop without capacity disqualifies the whole path.
			continue
		}
		if best == nil || betterForward(amounts, best) {
			best = amounts
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s -> %s for amount %s: %w",
			tokenIn, tokenOut, amountIn, model.ErrInsufficientLiquidity)
	}
	return best, nil
}

// FindSwapPathForOutput routes backwards: it returns the path requiring
// the least input to produce the desired output amount.
func (r *Router) FindSwapPathForOutput(tokenIn, tokenOut common.Address, amountOut *big.Int) (*model.SwapAmounts, error) {
	if tokenIn == tokenOut {
		return nil, fmt.Errorf("token swaps to itself: %w", model.ErrNoRouteFound)
	}

	candidates := r.enumeratePaths(tokenIn, tokenOut)
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%s -> %s: %w", tokenIn, tokenOut, model.ErrNoRouteFound)
	}

	var best *model.SwapAmounts
	for _, path := range candidates {
		amounts, err := simulatePathInverse(path, amountOut)
		if err != nil {
			continue
		}
		if best == nil || betterInverse(amounts, best) {
			best = amounts
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s -> %s for output %s: %w",
			tokenIn, tokenOut, amountOut, model.ErrInsufficientLiquidity)
	}
	return best, nil
}

func betterForward(candidate, current *model.SwapAmounts) bool {
	switch candidate.AmountOut.Cmp(current.AmountOut) {
	case 1:
		return true
	case 0:
		return len(candidate.Path) < len(current.Path)
	default:
		return false
	}
}

func betterInverse(candidate, current *model.SwapAmounts) bool {
	switch candidate.AmountIn.Cmp(current.AmountIn) {
	case -1:
		return true
	case 0:
		return len(candidate.Path) < len(current.Path)
	default:
		return false
	}
}

// enumeratePaths collects all simple paths up to maxHops via depth-first
// search. Markets and intermediate tokens are never revisited, so paths
// stay cycle-free.
func (r *Router) enumeratePaths(tokenIn, tokenOut common.Address) [][]graph.Edge {
	var (
		paths        [][]graph.Edge
		current      []graph.Edge
		visitedMkts  = make(map[common.Address]bool)
		visitedToken = map[common.Address]bool{tokenIn: true}
	)

	var walk func(from common.Address)
	walk = func(from common.Address) {
		for _, edge := range r.graph.EdgesFrom(from) {
			if visitedMkts[edge.Market.Address] || visitedToken[edge.TokenOut.Address] && edge.TokenOut.Address != tokenOut {
				continue
			}

			current = append(current, edge)
			if edge.TokenOut.Address == tokenOut {
				path := make([]graph.Edge, len(current))
				copy(path, current)
				paths = append(paths, path)
			} else if len(current) < r.maxHops {
				visitedMkts[edge.Market.Address] = true
				visitedToken[edge.TokenOut.Address] = true
				walk(edge.TokenOut.Address)
				delete(visitedMkts, edge.Market.Address)
				delete(visitedToken, edge.TokenOut.Address)
			}
			current = current[:len(current)-1]
		}
	}
	walk(tokenIn)
	return paths
}
