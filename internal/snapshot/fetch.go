package snapshot

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/gmx-io/gmx-interface-sub014/internal/chain"
	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// Fetcher refreshes the mutable on-chain state of a snapshot: pool
// amounts, open interest, impact pools, cumulative borrowing and funding
// values, and the disabled flag. Fee and impact configuration factors and
// oracle prices are kept from the base snapshot.
type Fetcher struct {
	client *chain.Client
	reader *chain.Reader
	log    *zap.Logger

	maxRetries int
	retryDelay time.Duration
}

// NewFetcher creates a fetcher reading from the given DataStore contract.
func NewFetcher(client *chain.Client, dataStore common.Address, log *zap.Logger) *Fetcher {
	return &Fetcher{
		client:     client,
		reader:     chain.NewReader(client, dataStore),
		log:        log,
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
	}
}

// WithRetry overrides the retry policy.
func (f *Fetcher) WithRetry(maxRetries int, baseDelay time.Duration) *Fetcher {
	f.maxRetries = maxRetries
	if baseDelay > 0 {
		f.retryDelay = baseDelay
	}
	return f
}

// Refresh pins the latest block and re-reads every market's mutable state
// at that block. The snapshot is updated in place and validated before it
// is returned; it must not be shared with the engine until Refresh has
// completed.
func (f *Fetcher) Refresh(ctx context.Context, snap *model.Snapshot) (*model.Snapshot, error) {
	chainID, err := f.client.GetChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain id: %w", err)
	}
	if snap.ChainID != 0 && chainID.Uint64() != snap.ChainID {
		return nil, fmt.Errorf("rpc chain id %d does not match snapshot chain id %d", chainID.Uint64(), snap.ChainID)
	}

	blockNumber, err := f.client.LatestBlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("latest block: %w", err)
	}
	timestamp, err := f.client.BlockTimestamp(ctx, blockNumber)
	if err != nil {
		return nil, fmt.Errorf("block timestamp: %w", err)
	}

	blockPtr := new(big.Int).SetUint64(blockNumber)
	for _, market := range snap.Markets {
		if err := f.refreshMarket(ctx, market, blockPtr); err != nil {
			return nil, fmt.Errorf("refresh market %s: %w", market.Name, err)
		}
		f.log.Debug("market refreshed",
			zap.String("market", market.Name),
			zap.String("long_pool_amount", market.LongPoolAmount.String()),
			zap.String("short_pool_amount", market.ShortPoolAmount.String()),
		)
	}

	snap.ChainID = chainID.Uint64()
	snap.BlockNumber = blockNumber
	snap.Timestamp = timestamp

	if err := Validate(snap); err != nil {
		return nil, err
	}

	f.log.Info("snapshot refreshed",
		zap.Uint64("block", blockNumber),
		zap.Int("markets", len(snap.Markets)),
	)
	return snap, nil
}

func (f *Fetcher) refreshMarket(ctx context.Context, m *model.Market, block *big.Int) error {
	var err error

	if m.LongPoolAmount, err = f.getUint(ctx, chain.PoolAmountKey(m.Address, m.LongToken.Address), block); err != nil {
		return err
	}
	if m.ShortPoolAmount, err = f.getUint(ctx, chain.PoolAmountKey(m.Address, m.ShortToken.Address), block); err != nil {
		return err
	}

	if m.LongInterestUsd, err = f.sumOverCollaterals(ctx, m, chain.OpenInterestKey, true, block); err != nil {
		return err
	}
	if m.ShortInterestUsd, err = f.sumOverCollaterals(ctx, m, chain.OpenInterestKey, false, block); err != nil {
		return err
	}
	if m.LongInterestInTokens, err = f.sumOverCollaterals(ctx, m, chain.OpenInterestInTokensKey, true, block); err != nil {
		return err
	}
	if m.ShortInterestInTokens, err = f.sumOverCollaterals(ctx, m, chain.OpenInterestInTokensKey, false, block); err != nil {
		return err
	}

	if m.PositionImpactPoolAmount, err = f.getUint(ctx, chain.PositionImpactPoolAmountKey(m.Address), block); err != nil {
		return err
	}
	if m.SwapImpactPoolAmountLong, err = f.getUint(ctx, chain.SwapImpactPoolAmountKey(m.Address, m.LongToken.Address), block); err != nil {
		return err
	}
	if m.SwapImpactPoolAmountShort, err = f.getUint(ctx, chain.SwapImpactPoolAmountKey(m.Address, m.ShortToken.Address), block); err != nil {
		return err
	}

	if m.CumulativeBorrowingFactorLong, err = f.getUint(ctx, chain.CumulativeBorrowingFactorKey(m.Address, true), block); err != nil {
		return err
	}
	if m.CumulativeBorrowingFactorShort, err = f.getUint(ctx, chain.CumulativeBorrowingFactorKey(m.Address, false), block); err != nil {
		return err
	}

	if m.FundingFeePerSizeLong.LongToken, err = f.getUint(ctx, chain.FundingFeeAmountPerSizeKey(m.Address, m.LongToken.Address, true), block); err != nil {
		return err
	}
	if m.FundingFeePerSizeLong.ShortToken, err = f.getUint(ctx, chain.FundingFeeAmountPerSizeKey(m.Address, m.ShortToken.Address, true), block); err != nil {
		return err
	}
	if m.FundingFeePerSizeShort.LongToken, err = f.getUint(ctx, chain.FundingFeeAmountPerSizeKey(m.Address, m.LongToken.Address, false), block); err != nil {
		return err
	}
	if m.FundingFeePerSizeShort.ShortToken, err = f.getUint(ctx, chain.FundingFeeAmountPerSizeKey(m.Address, m.ShortToken.Address, false), block); err != nil {
		return err
	}

	disabled, err := f.getBool(ctx, chain.IsMarketDisabledKey(m.Address), block)
	if err != nil {
		return err
	}
	m.IsDisabled = disabled

	return nil
}

func (f *Fetcher) sumOverCollaterals(
	ctx context.Context,
	m *model.Market,
	key func(market, collateralToken common.Address, isLong bool) common.Hash,
	isLong bool,
	block *big.Int,
) (*big.Int, error) {
	longPart, err := f.getUint(ctx, key(m.Address, m.LongToken.Address, isLong), block)
	if err != nil {
		return nil, err
	}
	shortPart, err := f.getUint(ctx, key(m.Address, m.ShortToken.Address, isLong), block)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Add(longPart, shortPart), nil
}

func (f *Fetcher) getUint(ctx context.Context, key common.Hash, block *big.Int) (*big.Int, error) {
	var value *big.Int
	err := withRetry(ctx, f.maxRetries, f.retryDelay, func(ctx context.Context) error {
		var err error
		value, err = f.reader.GetUint(ctx, key, block)
		return err
	})
	return value, err
}

func (f *Fetcher) getBool(ctx context.Context, key common.Hash, block *big.Int) (bool, error) {
	var value bool
	err := withRetry(ctx, f.maxRetries, f.retryDelay, func(ctx context.Context) error {
		var err error
		value, err = f.reader.GetBool(ctx, key, block)
		return err
	})
	return value, err
}

func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}
