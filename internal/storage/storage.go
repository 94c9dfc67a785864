package storage

import "github.com/gmx-io/gmx-interface-sub014/internal/model"

// Storage defines a sink for computed quote records.
type Storage interface {
	PutQuoteBatch(quotes []model.QuoteRecord) error
}
