package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/orderpulse-lab/orderpulse/internal/core/config"
	"github.com/shopspring/decimal"
)

// RowError reports a single CSV row that failed to map to the record schema.
type RowError struct {
	Line int // 1-based line number in the file, header included
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Report summarizes one bulk import run.
type Report struct {
	RunID     string
	RowsRead  int
	Imported  int
	Skipped   int
	RowErrors []*RowError
	Duration  time.Duration
}

// column binds a CSV header to its Order field setter. The table is the
// fixed header contract of the tabular export; every header must be present.
type column struct {
	header string
	set    func(o *v1.Order, raw string) error
}

var columns = []column{
	{"Order Id", func(o *v1.Order, s string) error { o.OrderID = s; return nil }},
	{"Type", func(o *v1.Order, s string) error { o.PaymentType = s; return nil }},
	{"Days for shipping (real)", func(o *v1.Order, s string) (err error) {
		o.DaysForShippingReal, err = parseInt(s)
		return err
	}},
	{"Days for shipment (scheduled)", func(o *v1.Order, s string) (err error) {
		o.DaysForShipmentScheduled, err = parseInt(s)
		return err
	}},
	{"Delivery Status", func(o *v1.Order, s string) error { o.DeliveryStatus = s; return nil }},
	{"Late Delivery", func(o *v1.Order, s string) error { o.LateDelivery = s; return nil }},
	{"Category Name", func(o *v1.Order, s string) error { o.CategoryName = s; return nil }},
	{"Store City", func(o *v1.Order, s string) error { o.StoreCity = s; return nil }},
	{"Store Country", func(o *v1.Order, s string) error { o.StoreCountry = s; return nil }},
	{"Category Id", func(o *v1.Order, s string) error { o.CategoryID = s; return nil }},
	{"Customer Id", func(o *v1.Order, s string) error { o.CustomerID = s; return nil }},
	{"Customer Name", func(o *v1.Order, s string) error { o.CustomerName = s; return nil }},
	{"Customer Segment", func(o *v1.Order, s string) error { o.CustomerSegment = s; return nil }},
	{"Customer Zipcode", func(o *v1.Order, s string) error { o.CustomerZipcode = s; return nil }},
	{"Store State", func(o *v1.Order, s string) error { o.StoreState = s; return nil }},
	{"Store Street", func(o *v1.Order, s string) error { o.StoreStreet = s; return nil }},
	{"Department Id", func(o *v1.Order, s string) error { o.DepartmentID = s; return nil }},
	{"Department Name", func(o *v1.Order, s string) error { o.DepartmentName = s; return nil }},
	{"Latitude", func(o *v1.Order, s string) (err error) {
		o.Latitude, err = parseFloat(s)
		return err
	}},
	{"Longitude", func(o *v1.Order, s string) (err error) {
		o.Longitude, err = parseFloat(s)
		return err
	}},
	{"Market", func(o *v1.Order, s string) error { o.Market = s; return nil }},
	{"Order City", func(o *v1.Order, s string) error { o.OrderCity = s; return nil }},
	{"Order Country", func(o *v1.Order, s string) error { o.OrderCountry = s; return nil }},
	{"Order Customer Id", func(o *v1.Order, s string) error { o.OrderCustomerID = s; return nil }},
	{"Order Datetime", func(o *v1.Order, s string) (err error) {
		o.OrderDatetime, err = parseTime(s)
		return err
	}},
	{"Order Item Cardprod Id", func(o *v1.Order, s string) error { o.OrderItemCardprodID = s; return nil }},
	{"Order Item Discount", func(o *v1.Order, s string) (err error) {
		o.OrderItemDiscount, err = parseDecimal(s)
		return err
	}},
	{"Item Discount Rate", func(o *v1.Order, s string) (err error) {
		o.ItemDiscountRate, err = parseDecimal(s)
		return err
	}},
	{"Order Item Id", func(o *v1.Order, s string) error { o.OrderItemID = s; return nil }},
	{"Item Product Price", func(o *v1.Order, s string) (err error) {
		o.ItemProductPrice, err = parseDecimal(s)
		return err
	}},
	{"Item Profit Ratio", func(o *v1.Order, s string) (err error) {
		o.ItemProfitRatio, err = parseDecimal(s)
		return err
	}},
	{"Item Quantity", func(o *v1.Order, s string) (err error) {
		o.ItemQuantity, err = parseInt(s)
		return err
	}},
	{"Item Subtotal", func(o *v1.Order, s string) (err error) {
		o.ItemSubtotal, err = parseDecimal(s)
		return err
	}},
	{"Item Total", func(o *v1.Order, s string) (err error) {
		o.ItemTotal, err = parseDecimal(s)
		return err
	}},
	{"Profit per Item", func(o *v1.Order, s string) (err error) {
		o.ProfitPerItem, err = parseDecimal(s)
		return err
	}},
	{"Order Region", func(o *v1.Order, s string) error { o.OrderRegion = s; return nil }},
	{"Order State", func(o *v1.Order, s string) error { o.OrderState = s; return nil }},
	{"Order Status", func(o *v1.Order, s string) error { o.OrderStatus = s; return nil }},
	{"Product Id", func(o *v1.Order, s string) error { o.ProductID = s; return nil }},
	{"Product Category Id", func(o *v1.Order, s string) error { o.ProductCategoryID = s; return nil }},
	{"Product Name", func(o *v1.Order, s string) error { o.ProductName = s; return nil }},
	{"Product Price", func(o *v1.Order, s string) (err error) {
		o.ProductPrice, err = parseDecimal(s)
		return err
	}},
	{"Shipping Datetime", func(o *v1.Order, s string) (err error) {
		o.ShippingDatetime, err = parseTime(s)
		return err
	}},
	{"Shipping Mode", func(o *v1.Order, s string) error { o.ShippingMode = s; return nil }},
}

// ImportFile bulk-loads a CSV export and upserts every row by order_id.
func (s *Service) ImportFile(ctx context.Context, path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return s.ImportCSV(ctx, f)
}

// ImportCSV reads order rows from r and upserts them by order_id
// (last-write-wins). A row that fails to map to the record schema either
// aborts the run or is skipped and reported, per the configured row-error
// mode. Store failures always abort: a broken database is not a bad row.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (*Report, error) {
	start := time.Now()
	report := &Report{RunID: uuid.New().String()}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row width validated against the header below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	pos, err := headerIndex(header)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting order import", "run_id", report.RunID, "on_row_error", s.onRowError)

	line := 1 // header consumed
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErr := &RowError{Line: line, Err: err}
			if aborted := s.recordRowError(report, rowErr); aborted {
				return report, rowErr
			}
			continue
		}

		report.RowsRead++

		order, err := mapRow(pos, record)
		if err == nil {
			err = order.Validate()
		}
		if err != nil {
			rowErr := &RowError{Line: line, Err: err}
			if aborted := s.recordRowError(report, rowErr); aborted {
				return report, rowErr
			}
			continue
		}

		if err := s.store.UpsertOrder(ctx, order); err != nil {
			return report, fmt.Errorf("failed to persist order %q: %w", order.OrderID, err)
		}
		report.Imported++
	}

	report.Duration = time.Since(start)
	slog.Info("Order import finished",
		"run_id", report.RunID,
		"rows_read", report.RowsRead,
		"imported", report.Imported,
		"skipped", report.Skipped,
		"duration", report.Duration,
	)
	return report, nil
}

// recordRowError applies the configured row-error mode.
// Returns true when the import must abort.
func (s *Service) recordRowError(report *Report, rowErr *RowError) bool {
	report.RowErrors = append(report.RowErrors, rowErr)
	if s.onRowError == config.OnRowErrorAbort {
		return true
	}
	report.Skipped++
	slog.Warn("Skipping bad import row", "line", rowErr.Line, "error", rowErr.Err)
	return false
}

// headerIndex validates the fixed header contract and maps each expected
// column to its position. Extra columns are tolerated; missing ones are not.
func headerIndex(header []string) (map[string]int, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(h)] = i
	}

	var missing []string
	for _, col := range columns {
		if _, ok := pos[col.header]; !ok {
			missing = append(missing, col.header)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("import file is missing column(s): %s", strings.Join(missing, ", "))
	}
	return pos, nil
}

func mapRow(pos map[string]int, record []string) (*v1.Order, error) {
	var o v1.Order
	for _, col := range columns {
		i := pos[col.header]
		if i >= len(record) {
			return nil, fmt.Errorf("column %q: row too short", col.header)
		}
		if err := col.set(&o, strings.TrimSpace(record[i])); err != nil {
			return nil, fmt.Errorf("column %q: %w", col.header, err)
		}
	}
	return &o, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parseInt tolerates the float-shaped integers ("3.0") some exports emit.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", s)
	}
	return int(d.IntPart()), nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// timeLayouts are the timestamp shapes seen across export variants,
// tried in order.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"1/2/2006 15:04",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}
