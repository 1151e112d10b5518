package storage

import (
	"context"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
)

// OrderStore defines the interface for persisting and reading order records.
//
// The aggregation engine is a pure read layer: it only ever consumes the
// snapshot returned by ListOrders. UpsertOrder is the single writer,
// exercised by bulk import and the single-record upsert endpoint.
type OrderStore interface {
	// UpsertOrder inserts the record or fully overwrites the existing one
	// with the same order_id (last-write-wins). Populates RowSeq.
	UpsertOrder(ctx context.Context, order *v1.Order) error

	// ListOrders returns a consistent snapshot of the whole collection in
	// natural row order (row_seq ascending). The engine's stable tie-break
	// depends on this ordering.
	ListOrders(ctx context.Context) ([]v1.Order, error)

	// CountOrders returns the number of stored records.
	CountOrders(ctx context.Context) (int64, error)
}
