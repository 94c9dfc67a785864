package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
)

// Store provides Postgres persistence for computed quotes.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InsertQuotes appends computed quote records to the audit table.
func (s *Store) InsertQuotes(ctx context.Context, quotes []model.QuoteRecord) error {
	if len(quotes) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, q := range quotes {
		batch.Queue(`
			INSERT INTO quotes (
				chain_id, block_number, created_at, order_type, market_address, is_long,
				token_in, token_out, amount_in, amount_out, min_output_amount,
				size_delta_usd, collateral_usd, acceptable_price, liquidation_price,
				total_fee_usd, total_fee_bps, swap_path, warnings
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		`,
			int64(q.ChainID),
			int64(q.BlockNumber),
			q.CreatedAt,
			q.OrderType,
			q.MarketAddress,
			q.IsLong,
			q.TokenIn,
			q.TokenOut,
			q.AmountIn,
			q.AmountOut,
			q.MinOutputAmount,
			q.SizeDeltaUsd,
			q.CollateralUsd,
			q.AcceptablePrice,
			q.LiquidationPrice,
			q.TotalFeeUsd,
			q.TotalFeeBps,
			q.SwapPath,
			q.Warnings,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range quotes {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// PutQuoteBatch implements the storage sink interface over InsertQuotes.
func (s *Store) PutQuoteBatch(quotes []model.QuoteRecord) error {
	return s.InsertQuotes(context.Background(), quotes)
}
