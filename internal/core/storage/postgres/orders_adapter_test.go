package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAdapter_UpsertOrder(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	order := &v1.Order{
		OrderID:       "ord-1",
		OrderItemID:   "item-1",
		CustomerID:    "cust-1",
		ItemSubtotal:  decimal.NewFromInt(100),
		OrderDatetime: time.Date(2017, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery(regexp.QuoteMeta(queryUpsertOrder)).
		WillReturnRows(sqlmock.NewRows([]string{"row_seq"}).AddRow(int64(7)))

	err := adapter.UpsertOrder(context.Background(), order)
	require.NoError(t, err)
	require.Equal(t, int64(7), order.RowSeq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpsertOrder_ReimportKeepsRowSeq(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	order := &v1.Order{
		OrderID:       "ord-1",
		OrderItemID:   "item-1",
		OrderDatetime: time.Date(2017, 3, 15, 10, 0, 0, 0, time.UTC),
	}

	// The upsert RETURNING clause yields the original row_seq on conflict.
	mock.ExpectQuery(regexp.QuoteMeta(queryUpsertOrder)).
		WillReturnRows(sqlmock.NewRows([]string{"row_seq"}).AddRow(int64(3)))
	mock.ExpectQuery(regexp.QuoteMeta(queryUpsertOrder)).
		WillReturnRows(sqlmock.NewRows([]string{"row_seq"}).AddRow(int64(3)))

	require.NoError(t, adapter.UpsertOrder(context.Background(), order))
	first := order.RowSeq

	require.NoError(t, adapter.UpsertOrder(context.Background(), order))
	require.Equal(t, first, order.RowSeq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_ListOrders(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	orderedAt := time.Date(2017, 3, 15, 10, 0, 0, 0, time.UTC)
	shippedAt := orderedAt.Add(48 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(queryListOrders)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns()).
			AddRow(orderRowValues("ord-1", "item-1", orderedAt, shippedAt, int64(1))...).
			AddRow(orderRowValues("ord-2", "item-2", orderedAt, shippedAt, int64(2))...),
		).RowsWillBeClosed()

	orders, err := adapter.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	require.Equal(t, "ord-1", orders[0].OrderID)
	require.Equal(t, int64(1), orders[0].RowSeq)
	require.True(t, orders[0].ItemSubtotal.Equal(decimal.RequireFromString("99.95")))
	require.Equal(t, orderedAt, orders[0].OrderDatetime)
	require.Equal(t, "ord-2", orders[1].OrderID)
	require.Equal(t, int64(2), orders[1].RowSeq)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CountOrders(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryCountOrders)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	count, err := adapter.CountOrders(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewAdapter_MissingSchemaFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = NewAdapter(db)
	require.Error(t, err)
	require.ErrorContains(t, err, "orders table does not exist")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_CloseReturnsDBCloseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dbCloseErr := errors.New("db close failed")

	mock.ExpectPrepare(regexp.QuoteMeta(queryUpsertOrder)).WillBeClosed()
	stmtUpsert, err := db.Prepare(queryUpsertOrder)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryListOrders)).WillBeClosed()
	stmtList, err := db.Prepare(queryListOrders)
	require.NoError(t, err)

	mock.ExpectPrepare(regexp.QuoteMeta(queryCountOrders)).WillBeClosed()
	stmtCount, err := db.Prepare(queryCountOrders)
	require.NoError(t, err)

	mock.ExpectClose().WillReturnError(dbCloseErr)

	adapter := &Adapter{
		db:              db,
		stmtUpsertOrder: stmtUpsert,
		stmtListOrders:  stmtList,
		stmtCountOrders: stmtCount,
	}

	err = adapter.Close()
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to close database")
	require.ErrorIs(t, err, dbCloseErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func newMockAdapter(t *testing.T) (*Adapter, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	adapter := &Adapter{
		db:              db,
		stmtUpsertOrder: mustPrepareStmt(t, db, mock, queryUpsertOrder),
		stmtListOrders:  mustPrepareStmt(t, db, mock, queryListOrders),
		stmtCountOrders: mustPrepareStmt(t, db, mock, queryCountOrders),
	}

	return adapter, mock, db
}

func mustPrepareStmt(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock, query string) *sql.Stmt {
	t.Helper()

	mock.ExpectPrepare(regexp.QuoteMeta(query))
	stmt, err := db.Prepare(query)
	require.NoError(t, err)

	return stmt
}

func orderRowColumns() []string {
	return []string{
		"order_id", "order_item_id", "customer_id", "order_customer_id", "product_id",
		"item_subtotal", "item_total", "profit_per_item", "item_profit_ratio",
		"item_product_price", "product_price", "order_item_discount", "item_discount_rate",
		"item_quantity", "days_for_shipping_real", "days_for_shipment_scheduled",
		"customer_segment", "customer_name", "customer_zipcode",
		"order_country", "order_region", "order_state", "order_city", "order_status", "market",
		"product_name", "product_category_id", "order_item_cardprod_id",
		"category_id", "category_name", "department_id", "department_name",
		"shipping_mode", "delivery_status", "payment_type", "late_delivery",
		"store_city", "store_state", "store_street", "store_country", "latitude", "longitude",
		"order_datetime", "shipping_datetime",
		"row_seq",
	}
}

// orderRowValues builds one driver row in orderRowColumns order.
func orderRowValues(orderID, itemID string, orderedAt, shippedAt time.Time, rowSeq int64) []driver.Value {
	return []driver.Value{
		orderID, itemID, "cust-1", "ocust-1", "prod-1",
		"99.95", "89.95", "10.00", "0.1001",
		"49.98", "49.98", "10.00", "0.1",
		2, 3, 4,
		"Consumer", "Jane Smith", "10001",
		"United States", "West", "CA", "Los Angeles", "COMPLETE", "US",
		"Field & Stream Shelter", "17", "1360",
		"17", "Cleats", "4", "Apparel",
		"Standard Class", "Advance shipping", "DEBIT", "No late",
		"San Jose", "CA", "5 Main St", "United States", 37.33, -121.89,
		orderedAt, shippedAt,
		rowSeq,
	}
}
