package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/quote"
	"github.com/gmx-io/gmx-interface-sub014/internal/sizing"
)

func newIncreaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "increase",
		Short: "Quote a position increase",
		RunE:  runIncrease,
	}

	cmd.Flags().String("snapshot", "./data/snapshot.json", "market snapshot path")
	cmd.Flags().String("market", "", "market address")
	cmd.Flags().Bool("long", true, "long position (false for short)")
	cmd.Flags().String("token-in", "", "initial collateral token symbol or address")
	cmd.Flags().String("amount-in", "", "initial collateral amount in token units")
	cmd.Flags().String("collateral-token", "", "market collateral token the position is margined in (defaults to token-in)")
	cmd.Flags().Int64("leverage-bps", 0, "target leverage in basis points (30000 = 3x)")
	cmd.Flags().String("size-usd", "", "position size delta in USD (alternative to leverage)")
	cmd.Flags().String("trigger-price", "", "limit trigger price in USD per index token")
	cmd.Flags().Uint64("slippage-bps", 30, "slippage tolerance in basis points")
	cmd.Flags().Int("max-hops", 2, "maximum collateral swap path length")
	cmd.Flags().Uint64("gas-price-gwei", 0, "gas price in gwei for the execution fee estimate (0 disables)")
	cmd.Flags().String("native-token", "WETH", "native fee token symbol or address")
	cmd.Flags().String("out", "./data/quotes.jsonl", "quote audit JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the quote audit table")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func runIncrease(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	marketFlag, _ := cmd.Flags().GetString("market")
	market, err := resolveMarket(a.snap, marketFlag)
	if err != nil {
		return err
	}
	isLong, _ := cmd.Flags().GetBool("long")

	tokenInFlag, _ := cmd.Flags().GetString("token-in")
	tokenIn, err := resolveToken(a.snap, tokenInFlag)
	if err != nil {
		return err
	}

	amountInFlag, _ := cmd.Flags().GetString("amount-in")
	amountIn, err := parseTokenAmount(amountInFlag, tokenIn)
	if err != nil {
		return err
	}
	if amountIn == nil {
		return fmt.Errorf("--amount-in is required")
	}

	collateralToken := tokenIn
	if collateralFlag, _ := cmd.Flags().GetString("collateral-token"); collateralFlag != "" {
		collateralToken, err = resolveToken(a.snap, collateralFlag)
		if err != nil {
			return err
		}
	}
	if !market.HasCollateral(collateralToken.Address) {
		return fmt.Errorf("token %s is not a collateral token of market %s", collateralToken.Symbol, market.Name)
	}

	in := sizing.IncreaseInput{
		Market:                  market,
		IsLong:                  isLong,
		InitialCollateralToken:  tokenIn,
		InitialCollateralAmount: amountIn,
		CollateralToken:         collateralToken,
		SlippageBps:             int64(a.cfg.SlippageBps),
	}

	if leverageBps, _ := cmd.Flags().GetInt64("leverage-bps"); leverageBps > 0 {
		in.LeverageBps = big.NewInt(leverageBps)
	}
	if sizeUsdFlag, _ := cmd.Flags().GetString("size-usd"); sizeUsdFlag != "" {
		if in.SizeDeltaUsd, err = parseUsd(sizeUsdFlag); err != nil {
			return err
		}
	}

	orderType := model.OrderMarketIncrease
	if triggerFlag, _ := cmd.Flags().GetString("trigger-price"); triggerFlag != "" {
		if in.TriggerPrice, err = parsePrice(triggerFlag, market.IndexToken); err != nil {
			return err
		}
		orderType = model.OrderLimitIncrease
	}

	amounts, liqPrice, warnings, err := a.quoter.Increase(in)
	if err != nil {
		return err
	}

	renderIncrease(os.Stdout, amounts, liqPrice, warnings)

	rec := quote.IncreaseRecord(a.snap, orderType, amounts, liqPrice, warnings)
	if err := a.persist(cmd.Context(), rec); err != nil {
		return err
	}

	if err := maybeRenderExecutionFee(cmd, a, orderType, len(amounts.SwapPath)); err != nil {
		return err
	}

	a.log.Info("increase quoted",
		zap.String("market", market.Name),
		zap.Bool("long", isLong),
		zap.String("size_delta_usd", amounts.SizeDeltaUsd.String()),
	)
	return nil
}

func newDecreaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decrease",
		Short: "Quote a position decrease or trigger order",
		RunE:  runDecrease,
	}

	cmd.Flags().String("snapshot", "./data/snapshot.json", "market snapshot path")
	cmd.Flags().String("market", "", "market address")
	cmd.Flags().Bool("long", true, "long position (false for short)")
	cmd.Flags().String("collateral-token", "", "position collateral token symbol or address")
	cmd.Flags().String("position-size-usd", "", "current position size in USD")
	cmd.Flags().String("position-collateral", "", "current collateral amount in token units")
	cmd.Flags().String("entry-price", "", "average entry price in USD per index token")
	cmd.Flags().String("close-size-usd", "", "USD size to close (defaults to full close)")
	cmd.Flags().Bool("keep-leverage", false, "withdraw collateral proportionally to keep leverage")
	cmd.Flags().String("withdraw-amount", "", "collateral withdrawal amount in token units")
	cmd.Flags().String("trigger-price", "", "limit or stop trigger price in USD per index token")
	cmd.Flags().Bool("stop-loss", false, "treat the trigger as a stop loss")
	cmd.Flags().Uint64("gas-price-gwei", 0, "gas price in gwei for the execution fee estimate (0 disables)")
	cmd.Flags().String("native-token", "WETH", "native fee token symbol or address")
	cmd.Flags().Uint64("slippage-bps", 30, "slippage tolerance in basis points")
	cmd.Flags().String("out", "./data/quotes.jsonl", "quote audit JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the quote audit table")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func runDecrease(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	marketFlag, _ := cmd.Flags().GetString("market")
	market, err := resolveMarket(a.snap, marketFlag)
	if err != nil {
		return err
	}
	isLong, _ := cmd.Flags().GetBool("long")

	collateralFlag, _ := cmd.Flags().GetString("collateral-token")
	collateralToken, err := resolveToken(a.snap, collateralFlag)
	if err != nil {
		return err
	}
	if !market.HasCollateral(collateralToken.Address) {
		return fmt.Errorf("token %s is not a collateral token of market %s", collateralToken.Symbol, market.Name)
	}

	position, err := buildPosition(cmd, a, market, collateralToken, isLong)
	if err != nil {
		return err
	}

	in := sizing.DecreaseInput{
		Market:       market,
		Position:     position,
		CloseSizeUsd: position.SizeInUsd,
		SlippageBps:  int64(a.cfg.SlippageBps),
	}
	in.KeepLeverage, _ = cmd.Flags().GetBool("keep-leverage")

	if closeFlag, _ := cmd.Flags().GetString("close-size-usd"); closeFlag != "" {
		if in.CloseSizeUsd, err = parseUsd(closeFlag); err != nil {
			return err
		}
	}
	if withdrawFlag, _ := cmd.Flags().GetString("withdraw-amount"); withdrawFlag != "" {
		if in.CollateralWithdrawalAmount, err = parseTokenAmount(withdrawFlag, collateralToken); err != nil {
			return err
		}
	}

	orderType := model.OrderMarketDecrease
	if triggerFlag, _ := cmd.Flags().GetString("trigger-price"); triggerFlag != "" {
		if in.TriggerPrice, err = parsePrice(triggerFlag, market.IndexToken); err != nil {
			return err
		}
		orderType = model.OrderLimitDecrease
		if stopLoss, _ := cmd.Flags().GetBool("stop-loss"); stopLoss {
			orderType = model.OrderStopLossDecrease
			in.IsStopLoss = true
		}
	}

	amounts, warnings, err := a.quoter.Decrease(in)
	if err != nil {
		return err
	}

	renderDecrease(os.Stdout, amounts, collateralToken, warnings)

	rec := quote.DecreaseRecord(a.snap, orderType, amounts, warnings)
	if err := a.persist(cmd.Context(), rec); err != nil {
		return err
	}

	if err := maybeRenderExecutionFee(cmd, a, orderType, 0); err != nil {
		return err
	}

	a.log.Info("decrease quoted",
		zap.String("market", market.Name),
		zap.Bool("long", isLong),
		zap.String("size_delta_usd", amounts.SizeDeltaUsd.String()),
	)
	return nil
}

// buildPosition reconstructs the position snapshot from flags. Cumulative
// fee trackers default to the market's current values, so the quote
// assumes pending borrowing and funding fees were settled on the last
// touch.
func buildPosition(cmd *cobra.Command, a *app, market *model.Market, collateralToken *model.Token, isLong bool) (*model.Position, error) {
	sizeFlag, _ := cmd.Flags().GetString("position-size-usd")
	sizeUsd, err := parseUsd(sizeFlag)
	if err != nil {
		return nil, err
	}
	if sizeUsd == nil {
		return nil, fmt.Errorf("--position-size-usd is required")
	}

	collateralFlag, _ := cmd.Flags().GetString("position-collateral")
	collateralAmount, err := parseTokenAmount(collateralFlag, collateralToken)
	if err != nil {
		return nil, err
	}
	if collateralAmount == nil {
		return nil, fmt.Errorf("--position-collateral is required")
	}

	entryFlag, _ := cmd.Flags().GetString("entry-price")
	entryPrice, err := parsePrice(entryFlag, market.IndexToken)
	if err != nil {
		return nil, err
	}
	if entryPrice == nil || entryPrice.Sign() == 0 {
		return nil, fmt.Errorf("--entry-price is required")
	}

	borrowingAtEntry := market.CumulativeBorrowingFactorShort
	fundingAtEntry := market.FundingFeePerSizeShort
	if isLong {
		borrowingAtEntry = market.CumulativeBorrowingFactorLong
		fundingAtEntry = market.FundingFeePerSizeLong
	}

	return &model.Position{
		MarketAddress:          market.Address,
		CollateralToken:        collateralToken,
		IsLong:                 isLong,
		SizeInUsd:              sizeUsd,
		SizeInTokens:           model.ConvertToTokenAmount(sizeUsd, entryPrice),
		CollateralAmount:       collateralAmount,
		BorrowingFactorAtEntry: borrowingAtEntry,
		FundingPerSizeAtEntry:  fundingAtEntry,
	}, nil
}
