package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gmx-io/gmx-interface-sub014/internal/chain"
	"github.com/gmx-io/gmx-interface-sub014/internal/config"
	"github.com/gmx-io/gmx-interface-sub014/internal/snapshot"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Refresh the snapshot's on-chain state",
		RunE:  runFetch,
	}

	cmd.Flags().String("rpc", "", "RPC URL")
	cmd.Flags().String("data-store", "", "DataStore contract address")
	cmd.Flags().String("snapshot", "./data/snapshot.json", "market snapshot path")
	cmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	cmd.Flags().Duration("retry-backoff", 0, "initial retry backoff")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if !common.IsHexAddress(cfg.DataStore) {
		return fmt.Errorf("valid data-store address is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	store := &snapshot.FileStore{Path: cfg.Snapshot}
	snap, err := store.Load(ctx)
	if err != nil {
		return err
	}

	fetcher := snapshot.NewFetcher(chainClient, common.HexToAddress(cfg.DataStore), logger).
		WithRetry(cfg.MaxRetries, cfg.RetryBackoff)
	snap, err = fetcher.Refresh(ctx, snap)
	if err != nil {
		return err
	}

	if err := store.Save(ctx, snap); err != nil {
		return err
	}

	logger.Info("snapshot saved",
		zap.String("path", cfg.Snapshot),
		zap.Uint64("block", snap.BlockNumber),
	)
	return nil
}
