package router

import (
	"fmt"
	"math/big"

	"github.com/gmx-io/gmx-interface-sub014/internal/fixed"
	"github.com/gmx-io/gmx-interface-sub014/internal/graph"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/pricing"
)

// hopResult captures one hop of a simulated swap.
type hopResult struct {
	amountOut *big.Int
	fee       model.FeeItem
	impactUsd *big.Int
}

// simulatePath pushes amountIn through each hop in order, feeding every
// hop's output into the next. Any hop without capacity fails the path.
func simulatePath(path []graph.Edge, amountIn *big.Int) (*model.SwapAmounts, error) {
	if amountIn == nil || amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("non-positive input amount: %w", model.ErrInsufficientLiquidity)
	}

	fees := model.NewTradeFees()
	totalImpactUsd := new(big.Int)

	hops := make(model.SwapPath, 0, len(path))
	amount := new(big.Int).Set(amountIn)
	for _, edge := range path {
		result, err := swapHop(edge, amount)
		if err != nil {
			return nil, err
		}
		hops = append(hops, model.SwapHop{
			MarketAddress: edge.Market.Address,
			TokenIn:       edge.TokenIn.Address,
			TokenOut:      edge.TokenOut.Address,
		})
		fees.SwapFees = append(fees.SwapFees, result.fee)
		totalImpactUsd.Add(totalImpactUsd, result.impactUsd)
		amount = result.amountOut
	}

	tokenIn := path[0].TokenIn
	tokenOut := path[len(path)-1].TokenOut
	usdIn := model.ConvertToUsd(amountIn, tokenIn.Prices.Min)
	usdOut := model.ConvertToUsd(amount, tokenOut.Prices.Max)

	fees.SwapPriceImpact = model.NewFeeItem(totalImpactUsd, usdIn)
	model.SumTradeFees(fees, usdIn)

	return &model.SwapAmounts{
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  new(big.Int).Set(amountIn),
		AmountOut: amount,
		UsdIn:     usdIn,
		UsdOut:    usdOut,
		PriceIn:   tokenIn.Prices.Min,
		PriceOut:  tokenOut.Prices.Max,
		Path:      hops,
		Fees:      fees,
	}, nil
}

// swapHop applies one market's fee and price impact to amountIn. Input is
// valued at the min price, output at the max price, matching the contract
// pricing of a swap.
func swapHop(edge graph.Edge, amountIn *big.Int) (*hopResult, error) {
	market := edge.Market
	inIsLong := market.IsLongTokenSide(edge.TokenIn.Address)
	outIsLong := !inIsLong

	priceIn := edge.TokenIn.Prices.Min
	priceOut := edge.TokenOut.Prices.Max
	usdIn := model.ConvertToUsd(amountIn, priceIn)

	usdDeltaLong, usdDeltaShort := directionalDeltas(usdIn, inIsLong)
	impactUsd, err := pricing.SwapPriceImpactUsd(market, usdDeltaLong, usdDeltaShort)
	if err != nil {
		return nil, err
	}

	fee := pricing.SwapFee(market, usdIn, impactUsd.Sign() > 0)
	usdAfterFees := new(big.Int).Add(usdIn, fee.DeltaUsd)

	var amountOut *big.Int
	if impactUsd.Sign() > 0 {
		// Positive impact pays a bonus out of the impact pool, capped by it.
		impactAmount := pricing.SwapImpactAmountWithCap(market, outIsLong, impactUsd)
		amountOut = model.ConvertToTokenAmount(usdAfterFees, priceOut)
		amountOut.Add(amountOut, impactAmount)
	} else {
		// Negative impact is charged on the input side.
		impactAmountIn := pricing.SwapImpactAmountWithCap(market, inIsLong, impactUsd)
		usdAfterFees.Add(usdAfterFees, model.ConvertToUsd(impactAmountIn, priceIn))
		if usdAfterFees.Sign() <= 0 {
			return nil, fmt.Errorf("impact exceeds swap input on %s: %w",
				market.Name, model.ErrInsufficientLiquidity)
		}
		amountOut = model.ConvertToTokenAmount(usdAfterFees, priceOut)
	}

	if err := checkHopCapacity(edge, amountOut, priceOut, outIsLong); err != nil {
		return nil, err
	}

	return &hopResult{amountOut: amountOut, fee: fee, impactUsd: impactUsd}, nil
}

// simulatePathInverse walks the path from output to input, estimating the
// required input per hop. The impact term uses the hop's output value as
// the flow estimate, a single-pass approximation of the fixed-receive
// order shape.
func simulatePathInverse(path []graph.Edge, amountOut *big.Int) (*model.SwapAmounts, error) {
	if amountOut == nil || amountOut.Sign() <= 0 {
		return nil, fmt.Errorf("non-positive output amount: %w", model.ErrInsufficientLiquidity)
	}

	fees := model.NewTradeFees()
	totalImpactUsd := new(big.Int)

	amount := new(big.Int).Set(amountOut)
	for i := len(path) - 1; i >= 0; i-- {
		edge := path[i]
		market := edge.Market
		inIsLong := market.IsLongTokenSide(edge.TokenIn.Address)
		outIsLong := !inIsLong

		priceIn := edge.TokenIn.Prices.Min
		priceOut := edge.TokenOut.Prices.Max
		usdOut := model.ConvertToUsd(amount, priceOut)

		if err := checkHopCapacity(edge, amount, priceOut, outIsLong); err != nil {
			return nil, err
		}

		usdDeltaLong, usdDeltaShort := directionalDeltas(usdOut, inIsLong)
		impactUsd, err := pricing.SwapPriceImpactUsd(market, usdDeltaLong, usdDeltaShort)
		if err != nil {
			return nil, err
		}
		feeFactor := market.SwapFeeFactorForNegativeImpact
		if impactUsd.Sign() > 0 {
			feeFactor = market.SwapFeeFactorForPositiveImpact
			// The rebate pays out of the output side's impact pool, so it
			// carries the same cap as the forward pass.
			impactAmount := pricing.SwapImpactAmountWithCap(market, outIsLong, impactUsd)
			impactUsd = model.ConvertToUsd(impactAmount, priceOut)
		}

		// usdIn must cover the output plus the impact cost (or minus the
		// rebate), then the fee is grossed up on the input side.
		usdBeforeFees := new(big.Int).Sub(usdOut, impactUsd)
		if usdBeforeFees.Sign() <= 0 {
			return nil, fmt.Errorf("impact exceeds swap output on %s: %w",
				market.Name, model.ErrInsufficientLiquidity)
		}
		denominator := new(big.Int).Sub(fixed.Precision, feeFactor)
		usdIn := fixed.MulDivRoundUp(usdBeforeFees, fixed.Precision, denominator)

		fee := model.NewFeeItem(new(big.Int).Sub(usdBeforeFees, usdIn), usdIn)
		fees.SwapFees = append([]model.FeeItem{fee}, fees.SwapFees...)
		totalImpactUsd.Add(totalImpactUsd, impactUsd)

		amount = model.ConvertToTokenAmountRoundUp(usdIn, priceIn)
	}

	hops := make(model.SwapPath, 0, len(path))
	for _, edge := range path {
		hops = append(hops, model.SwapHop{
			MarketAddress: edge.Market.Address,
			TokenIn:       edge.TokenIn.Address,
			TokenOut:      edge.TokenOut.Address,
		})
	}

	tokenIn := path[0].TokenIn
	tokenOut := path[len(path)-1].TokenOut
	usdIn := model.ConvertToUsd(amount, tokenIn.Prices.Min)
	usdOut := model.ConvertToUsd(amountOut, tokenOut.Prices.Max)

	fees.SwapPriceImpact = model.NewFeeItem(totalImpactUsd, usdIn)
	model.SumTradeFees(fees, usdIn)

	return &model.SwapAmounts{
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amount,
		AmountOut: new(big.Int).Set(amountOut),
		UsdIn:     usdIn,
		UsdOut:    usdOut,
		PriceIn:   tokenIn.Prices.Min,
		PriceOut:  tokenOut.Prices.Max,
		Path:      hops,
		Fees:      fees,
	}, nil
}

func directionalDeltas(usdIn *big.Int, inIsLong bool) (*big.Int, *big.Int) {
	if inIsLong {
		return new(big.Int).Set(usdIn), new(big.Int).Neg(usdIn)
	}
	return new(big.Int).Neg(usdIn), new(big.Int).Set(usdIn)
}

func checkHopCapacity(edge graph.Edge, amountOut, priceOut *big.Int, outIsLong bool) error {
	usdOut := model.ConvertToUsd(amountOut, priceOut)
	if usdOut.Cmp(edge.AvailableLiquidityUsd) > 0 {
		return fmt.Errorf("hop %s needs %s USD of %s liquidity: %w",
			edge.Market.Name, usdOut, edge.TokenOut.Symbol, model.ErrInsufficientLiquidity)
	}
	if amountOut.Cmp(edge.Market.PoolAmount(outIsLong)) > 0 {
		return fmt.Errorf("hop %s output exceeds pool amount: %w",
			edge.Market.Name, model.ErrInsufficientLiquidity)
	}
	return nil
}
