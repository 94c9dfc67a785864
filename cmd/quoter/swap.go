package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/quote"
)

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap",
		Short: "Quote a token swap",
		RunE:  runSwap,
	}

	cmd.Flags().String("snapshot", "./data/snapshot.json", "market snapshot path")
	cmd.Flags().String("token-in", "", "input token symbol or address")
	cmd.Flags().String("token-out", "", "output token symbol or address")
	cmd.Flags().String("amount-in", "", "input amount in token units")
	cmd.Flags().String("amount-out", "", "desired output amount in token units (derives the required input)")
	cmd.Flags().Uint64("slippage-bps", 30, "slippage tolerance in basis points")
	cmd.Flags().Int("max-hops", 2, "maximum swap path length")
	cmd.Flags().Uint64("gas-price-gwei", 0, "gas price in gwei for the execution fee estimate (0 disables)")
	cmd.Flags().String("native-token", "WETH", "native fee token symbol or address")
	cmd.Flags().StringSlice("market", nil, "restrict routing to market addresses (comma-separated)")
	cmd.Flags().String("out", "./data/quotes.jsonl", "quote audit JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for the quote audit table")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func runSwap(cmd *cobra.Command, _ []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	tokenInFlag, _ := cmd.Flags().GetString("token-in")
	tokenOutFlag, _ := cmd.Flags().GetString("token-out")
	amountInFlag, _ := cmd.Flags().GetString("amount-in")
	amountOutFlag, _ := cmd.Flags().GetString("amount-out")

	tokenIn, err := resolveToken(a.snap, tokenInFlag)
	if err != nil {
		return err
	}
	tokenOut, err := resolveToken(a.snap, tokenOutFlag)
	if err != nil {
		return err
	}

	amountIn, err := parseTokenAmount(amountInFlag, tokenIn)
	if err != nil {
		return err
	}
	amountOut, err := parseTokenAmount(amountOutFlag, tokenOut)
	if err != nil {
		return err
	}

	slippageBps := int64(a.cfg.SlippageBps)

	var amounts *model.SwapAmounts
	orderType := model.OrderMarketSwap

	switch {
	case amountIn != nil && amountOut == nil:
		result, warns, err := a.quoter.Swap(tokenIn.Address, tokenOut.Address, amountIn, slippageBps)
		if err != nil {
			return err
		}
		amounts = result
		renderSwap(os.Stdout, amounts, warns)
		rec := quote.SwapRecord(a.snap, orderType, amounts, warns)
		if err := a.persist(cmd.Context(), rec); err != nil {
			return err
		}
	case amountOut != nil && amountIn == nil:
		result, warns, err := a.quoter.SwapForOutput(tokenIn.Address, tokenOut.Address, amountOut, slippageBps)
		if err != nil {
			return err
		}
		amounts = result
		renderSwap(os.Stdout, amounts, warns)
		rec := quote.SwapRecord(a.snap, orderType, amounts, warns)
		if err := a.persist(cmd.Context(), rec); err != nil {
			return err
		}
	default:
		return fmt.Errorf("exactly one of --amount-in or --amount-out is required")
	}

	if err := maybeRenderExecutionFee(cmd, a, orderType, len(amounts.Path)); err != nil {
		return err
	}

	a.log.Info("swap quoted",
		zap.String("token_in", tokenIn.Symbol),
		zap.String("token_out", tokenOut.Symbol),
		zap.Int("hops", len(amounts.Path)),
	)
	return nil
}
