package importer

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/orderpulse-lab/orderpulse/internal/core/config"
	"github.com/stretchr/testify/require"
)

// fakeOrderStore is an in-memory OrderStore keyed by order_id, mirroring the
// upsert semantics of the postgres adapter: last write wins, row_seq sticks.
type fakeOrderStore struct {
	orders  map[string]v1.Order
	nextSeq int64
	failErr error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]v1.Order)}
}

func (s *fakeOrderStore) UpsertOrder(_ context.Context, order *v1.Order) error {
	if s.failErr != nil {
		return s.failErr
	}
	if prev, ok := s.orders[order.OrderID]; ok {
		order.RowSeq = prev.RowSeq
	} else {
		s.nextSeq++
		order.RowSeq = s.nextSeq
	}
	s.orders[order.OrderID] = *order
	return nil
}

func (s *fakeOrderStore) ListOrders(_ context.Context) ([]v1.Order, error) {
	out := make([]v1.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RowSeq < out[j].RowSeq })
	return out, nil
}

func (s *fakeOrderStore) CountOrders(_ context.Context) (int64, error) {
	return int64(len(s.orders)), nil
}

// csvHeader returns the full header line of the export contract.
func csvHeader() string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.header
	}
	return strings.Join(names, ",")
}

// csvRow renders one row, filling unspecified columns with empty strings.
func csvRow(values map[string]string) string {
	fields := make([]string, len(columns))
	for i, col := range columns {
		fields[i] = values[col.header]
	}
	return strings.Join(fields, ",")
}

func orderRow(orderID string, extra map[string]string) string {
	values := map[string]string{
		"Order Id":       orderID,
		"Order Item Id":  orderID + "-1",
		"Order Datetime": "2017-03-15 10:00:00",
	}
	for k, v := range extra {
		values[k] = v
	}
	return csvRow(values)
}

func TestImportCSV_UpsertsRows(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewService(store, 1, config.OnRowErrorAbort)

	input := strings.Join([]string{
		csvHeader(),
		orderRow("ord-1", map[string]string{"Item Subtotal": "99.95", "Customer Segment": "Consumer"}),
		orderRow("ord-2", map[string]string{"Item Subtotal": "50", "Customer Segment": "Corporate"}),
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, report.RowsRead)
	require.Equal(t, 2, report.Imported)
	require.Zero(t, report.Skipped)
	require.Empty(t, report.RowErrors)
	require.NotEmpty(t, report.RunID)

	orders, err := store.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, "ord-1", orders[0].OrderID)
	require.Equal(t, "Consumer", orders[0].CustomerSegment)
	require.True(t, orders[0].ItemSubtotal.String() == "99.95")
}

func TestImportCSV_LastWriteWinsByOrderID(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewService(store, 1, config.OnRowErrorAbort)

	input := strings.Join([]string{
		csvHeader(),
		orderRow("ord-1", map[string]string{"Customer Segment": "Consumer"}),
		orderRow("ord-1", map[string]string{"Customer Segment": "Corporate"}),
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, report.RowsRead)
	require.Equal(t, 2, report.Imported)

	orders, err := store.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "Corporate", orders[0].CustomerSegment)
	require.Equal(t, int64(1), orders[0].RowSeq) // first-insert seq survives
}

func TestImportCSV_AbortModeStopsOnBadRow(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewService(store, 1, config.OnRowErrorAbort)

	input := strings.Join([]string{
		csvHeader(),
		orderRow("ord-1", nil),
		orderRow("ord-2", map[string]string{"Order Datetime": "not-a-date"}),
		orderRow("ord-3", nil),
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)

	var rowErr *RowError
	require.ErrorAs(t, err, &rowErr)
	require.Equal(t, 3, rowErr.Line)
	require.Contains(t, rowErr.Error(), "Order Datetime")

	// The first row landed before the abort; ord-3 never did.
	require.Equal(t, 1, report.Imported)
	count, _ := store.CountOrders(context.Background())
	require.Equal(t, int64(1), count)
}

func TestImportCSV_SkipModeReportsBadRows(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewService(store, 1, config.OnRowErrorSkip)

	input := strings.Join([]string{
		csvHeader(),
		orderRow("ord-1", nil),
		orderRow("", nil), // missing order id fails validation
		orderRow("ord-3", map[string]string{"Item Subtotal": "abc"}),
		orderRow("ord-4", nil),
	}, "\n")

	report, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 4, report.RowsRead)
	require.Equal(t, 2, report.Imported)
	require.Equal(t, 2, report.Skipped)
	require.Len(t, report.RowErrors, 2)
	require.Equal(t, 3, report.RowErrors[0].Line)
	require.Equal(t, 4, report.RowErrors[1].Line)

	count, _ := store.CountOrders(context.Background())
	require.Equal(t, int64(2), count)
}

func TestImportCSV_MissingColumnFailsBeforeAnyWrite(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewService(store, 1, config.OnRowErrorSkip)

	// Drop the Shipping Mode column from the header.
	header := strings.Replace(csvHeader(), "Shipping Mode", "Shipment Mode", 1)
	input := header + "\n" + orderRow("ord-1", nil)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing column")
	require.Contains(t, err.Error(), "Shipping Mode")

	count, _ := store.CountOrders(context.Background())
	require.Zero(t, count)
}

func TestImportCSV_StoreFailureAlwaysAborts(t *testing.T) {
	store := newFakeOrderStore()
	store.failErr = errors.New("connection refused")
	svc := NewService(store, 1, config.OnRowErrorSkip)

	input := csvHeader() + "\n" + orderRow("ord-1", nil)

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.Error(t, err)
	require.ErrorIs(t, err, store.failErr)
}

func TestImportCSV_ToleratesFloatShapedIntegers(t *testing.T) {
	store := newFakeOrderStore()
	svc := NewService(store, 1, config.OnRowErrorAbort)

	input := csvHeader() + "\n" + orderRow("ord-1", map[string]string{
		"Days for shipping (real)": "3.0",
		"Item Quantity":            "2",
	})

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	orders, _ := store.ListOrders(context.Background())
	require.Equal(t, 3, orders[0].DaysForShippingReal)
	require.Equal(t, 2, orders[0].ItemQuantity)
}
