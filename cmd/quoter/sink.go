package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/gmx-io/gmx-interface-sub014/internal/model"
	"github.com/gmx-io/gmx-interface-sub014/internal/storage"
	"github.com/gmx-io/gmx-interface-sub014/internal/storage/postgres"
)

// persist appends the computed quote to the JSONL audit log and, when a
// DSN is configured, to Postgres.
func (a *app) persist(ctx context.Context, rec model.QuoteRecord) error {
	batch := []model.QuoteRecord{rec}

	if a.cfg.Out != "" {
		if err := storage.NewJsonlStorage(a.cfg.Out).PutQuoteBatch(batch); err != nil {
			return err
		}
		a.log.Debug("quote appended", zap.String("out", a.cfg.Out))
	}

	if a.cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, a.cfg.PGDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.InsertQuotes(ctx, batch); err != nil {
			return err
		}
		a.log.Debug("quote stored in postgres")
	}

	return nil
}
