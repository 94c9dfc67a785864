package main

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gmx-io/gmx-interface-sub014/internal/config"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/pricing"
	"github.com/gmx-io/gmx-interface-sub014/internal/quote"
	"github.com/gmx-io/gmx-interface-sub014/internal/snapshot"
)

func main() {
	root := &cobra.Command{
		Use:          "quoter",
		Short:        "Perp DEX trade quoter",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	root.AddCommand(newSwapCmd())
	root.AddCommand(newIncreaseCmd())
	root.AddCommand(newDecreaseCmd())
	root.AddCommand(newFetchCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

// app bundles everything a quote subcommand needs.
type app struct {
	cfg    config.Config
	log    *zap.Logger
	snap   *model.Snapshot
	quoter *quote.Quoter
}

func setup(cmd *cobra.Command) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	store := &snapshot.FileStore{Path: cfg.Snapshot}
	snap, err := store.Load(cmd.Context())
	if err != nil {
		return nil, err
	}
	if len(cfg.Markets) > 0 {
		snap, err = filterMarkets(snap, cfg.Markets)
		if err != nil {
			return nil, err
		}
	}

	tradingCfg := model.DefaultTradingConfig()
	if cfg.MaxHops > 0 {
		tradingCfg.MaxSwapPathLength = cfg.MaxHops
	}

	logger.Info("snapshot loaded",
		zap.Uint64("chain_id", snap.ChainID),
		zap.Uint64("block", snap.BlockNumber),
		zap.Int("tokens", len(snap.Tokens)),
		zap.Int("markets", len(snap.Markets)),
	)

	return &app{
		cfg:    cfg,
		log:    logger,
		snap:   snap,
		quoter: quote.New(tradingCfg, snap),
	}, nil
}

// filterMarkets restricts the snapshot to the requested market addresses.
func filterMarkets(snap *model.Snapshot, addrs []string) (*model.Snapshot, error) {
	keep := make(map[common.Address]bool, len(addrs))
	for _, a := range addrs {
		if !common.IsHexAddress(a) {
			return nil, fmt.Errorf("invalid market address %q", a)
		}
		keep[common.HexToAddress(a)] = true
	}

	filtered := *snap
	filtered.Markets = nil
	for _, m := range snap.Markets {
		if keep[m.Address] {
			filtered.Markets = append(filtered.Markets, m)
		}
	}
	if len(filtered.Markets) == 0 {
		return nil, fmt.Errorf("no snapshot market matches the market filter")
	}
	return &filtered, nil
}

// resolveToken accepts a token symbol or a hex address.
func resolveToken(snap *model.Snapshot, s string) (*model.Token, error) {
	if s == "" {
		return nil, fmt.Errorf("token is required")
	}
	if common.IsHexAddress(s) {
		token := snap.TokenByAddress(common.HexToAddress(s))
		if token == nil {
			return nil, fmt.Errorf("token %s not in snapshot", s)
		}
		return token, nil
	}
	for _, token := range snap.Tokens {
		if strings.EqualFold(token.Symbol, s) {
			return token, nil
		}
	}
	return nil, fmt.Errorf("token %q not in snapshot", s)
}

// maybeRenderExecutionFee prints the keeper cost estimate when a gas price
// was supplied on the command line. The estimate never feeds the quote
// itself.
func maybeRenderExecutionFee(cmd *cobra.Command, a *app, orderType model.OrderType, swapHops int) error {
	gwei, _ := cmd.Flags().GetUint64("gas-price-gwei")
	if gwei == 0 {
		return nil
	}
	nativeFlag, _ := cmd.Flags().GetString("native-token")
	native, err := resolveToken(a.snap, nativeFlag)
	if err != nil {
		return err
	}

	gasPrice := new(big.Int).Mul(new(big.Int).SetUint64(gwei), big.NewInt(1_000_000_000))
	fee := pricing.EstimateExecutionFee(a.quoter.Config().Gas, gasPrice, orderType, swapHops, native)
	renderExecutionFee(os.Stdout, fee, native)
	return nil
}

func resolveMarket(snap *model.Snapshot, s string) (*model.Market, error) {
	if !common.IsHexAddress(s) {
		return nil, fmt.Errorf("invalid market address %q", s)
	}
	market := snap.MarketByAddress(common.HexToAddress(s))
	if market == nil {
		return nil, fmt.Errorf("market %s not in snapshot", s)
	}
	return market, nil
}

// parseTokenAmount converts a human decimal amount to base token units.
func parseTokenAmount(s string, token *model.Token) (*big.Int, error) {
	return parseShifted(s, int32(token.Decimals))
}

// parseUsd converts a human USD amount to the 10^30 fixed-point scale.
func parseUsd(s string) (*big.Int, error) {
	return parseShifted(s, 30)
}

// parsePrice converts a human USD-per-token price to the oracle price
// scale, 10^(30 - token decimals).
func parsePrice(s string, token *model.Token) (*big.Int, error) {
	return parseShifted(s, 30-int32(token.Decimals))
}

// parseShifted returns nil for an empty string so optional flags stay
// unset.
func parseShifted(s string, shift int32) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d.Shift(shift).BigInt(), nil
}
