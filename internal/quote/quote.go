// Package quote is the engine facade: it wires the market graph, router,
// pricing, sizing, and validation into single-call quote computations
// over one immutable snapshot. A Quoter is cheap to build and is simply
// replaced when a newer snapshot arrives.
package quote

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/gmx-io/gmx-interface-sub014/internal/graph"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/router"
	"github.com/gmx-io/gmx-interface-sub014/internal/sizing"
	"github.com/gmx-io/gmx-interface-sub014/internal/validate"
)

// Quoter computes swap and position quotes against one snapshot.
type Quoter struct {
	cfg      model.TradingConfig
	snapshot *model.Snapshot
	router   *router.Router
}

// New builds a quoter, deriving the swap graph from the snapshot.
func New(cfg model.TradingConfig, snapshot *model.Snapshot) *Quoter {
	g := graph.Build(snapshot)
	return &Quoter{
		cfg:      cfg,
		snapshot: snapshot,
		router:   router.New(g, cfg.MaxSwapPathLength),
	}
}

// Snapshot returns the snapshot the quoter is bound to.
func (q *Quoter) Snapshot() *model.Snapshot { return q.snapshot }

// Config returns the trading configuration.
func (q *Quoter) Config() model.TradingConfig { return q.cfg }

// Swap quotes a swap for a fixed input amount.
func (q *Quoter) Swap(tokenIn, tokenOut common.Address, amountIn *big.Int, slippageBps int64) (*model.SwapAmounts, []validate.Warning, error) {
	if err := q.checkTokens(tokenIn, tokenOut); err != nil {
		return nil, nil, err
	}

	amounts, err := q.router.FindBestSwapPath(tokenIn, tokenOut, amountIn)
	if err != nil {
		return nil, nil, err
	}
	amounts.MinOutputAmount = sizing.ApplySlippageToMinOut(amounts.AmountOut, slippageBps)
	markRatio := sizing.SwapRatio(amounts.PriceIn, amounts.PriceOut)
	amounts.AcceptableSwapRatio = sizing.ApplySlippageToSwapRatio(markRatio, slippageBps)

	warnings, err := validate.Swap(q.cfg, amounts, slippageBps)
	if err != nil {
		return nil, nil, err
	}
	return amounts, warnings, nil
}

// SwapForOutput quotes a swap for a desired output amount, deriving the
// required input.
func (q *Quoter) SwapForOutput(tokenIn, tokenOut common.Address, amountOut *big.Int, slippageBps int64) (*model.SwapAmounts, []validate.Warning, error) {
	if err := q.checkTokens(tokenIn, tokenOut); err != nil {
		return nil, nil, err
	}

	amounts, err := q.router.FindSwapPathForOutput(tokenIn, tokenOut, amountOut)
	if err != nil {
		return nil, nil, err
	}
	amounts.MinOutputAmount = new(big.Int).Set(amounts.AmountOut)
	markRatio := sizing.SwapRatio(amounts.PriceIn, amounts.PriceOut)
	amounts.AcceptableSwapRatio = sizing.ApplySlippageToSwapRatio(markRatio, slippageBps)

	warnings, err := validate.Swap(q.cfg, amounts, slippageBps)
	if err != nil {
		return nil, nil, err
	}
	return amounts, warnings, nil
}

// Increase quotes an increase order, including the estimated liquidation
// price of the resulting position.
func (q *Quoter) Increase(in sizing.IncreaseInput) (*model.IncreaseAmounts, *big.Int, []validate.Warning, error) {
	amounts, err := sizing.ComputeIncrease(q.cfg, q.router, in)
	if err != nil {
		return nil, nil, nil, err
	}

	warnings, err := validate.Increase(q.cfg, amounts, in.SlippageBps)
	if err != nil {
		return nil, nil, nil, err
	}

	liqPrice := sizing.LiquidationPrice(q.cfg, in.Market, nextPosition(in.Market, amounts))
	return amounts, liqPrice, warnings, nil
}

// Decrease quotes a decrease or trigger order.
func (q *Quoter) Decrease(in sizing.DecreaseInput) (*model.DecreaseAmounts, []validate.Warning, error) {
	amounts, err := sizing.ComputeDecrease(q.cfg, in)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := validate.Decrease(q.cfg, amounts, in.SlippageBps)
	if err != nil {
		return nil, nil, err
	}
	return amounts, warnings, nil
}

func (q *Quoter) checkTokens(tokenIn, tokenOut common.Address) error {
	if q.snapshot.TokenByAddress(tokenIn) == nil {
		return fmt.Errorf("unknown token %s: %w", tokenIn, model.ErrNoRouteFound)
	}
	if q.snapshot.TokenByAddress(tokenOut) == nil {
		return fmt.Errorf("unknown token %s: %w", tokenOut, model.ErrNoRouteFound)
	}
	return nil
}

// nextPosition projects the position state after the increase executes,
// used for the liquidation price estimate.
func nextPosition(market *model.Market, amounts *model.IncreaseAmounts) *model.Position {
	fundingPerSize := market.FundingFeePerSizeShort
	if amounts.IsLong {
		fundingPerSize = market.FundingFeePerSizeLong
	}
	cumulativeBorrowing := market.CumulativeBorrowingFactorShort
	if amounts.IsLong {
		cumulativeBorrowing = market.CumulativeBorrowingFactorLong
	}
	return &model.Position{
		MarketAddress:          market.Address,
		CollateralToken:        amounts.CollateralToken,
		IsLong:                 amounts.IsLong,
		SizeInUsd:              amounts.SizeDeltaUsd,
		SizeInTokens:           amounts.SizeDeltaInTokens,
		CollateralAmount:       amounts.CollateralDeltaAmount,
		BorrowingFactorAtEntry: cumulativeBorrowing,
		FundingPerSizeAtEntry:  fundingPerSize,
	}
}
