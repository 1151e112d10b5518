package metrics

import (
	"fmt"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Measure field names accepted by the engine.
const (
	MeasureItemSubtotal             = "item_subtotal"
	MeasureProfitPerItem            = "profit_per_item"
	MeasureItemProfitRatio          = "item_profit_ratio"
	MeasureDaysForShippingReal      = "days_for_shipping_real"
	MeasureDaysForShipmentScheduled = "days_for_shipment_scheduled"
	MeasureItemQuantity             = "item_quantity"
	MeasureItemTotal                = "item_total"
	MeasureProductPrice             = "product_price"
)

// Dimension field names accepted by the engine.
const (
	DimCustomerSegment = "customer_segment"
	DimOrderCountry    = "order_country"
	DimProductName     = "product_name"
	DimDepartmentName  = "department_name"
	DimShippingMode    = "shipping_mode"
	DimDeliveryStatus  = "delivery_status"
	DimLateDelivery    = "late_delivery"
	DimMarket          = "market"
	DimOrderID         = "order_id"
	DimCustomerID      = "customer_id"
	DimProductID       = "product_id"
)

// GroupByMonth groups on the month component of order_datetime (1-12).
// All years are pooled; there is no year scoping.
const GroupByMonth = "month"

// measureFields is the registry of numeric fields eligible for aggregation.
// To expose a new measure: add an extractor here. No switch statements need
// to be modified anywhere in the codebase.
var measureFields = map[string]func(*v1.Order) decimal.Decimal{
	MeasureItemSubtotal:    func(o *v1.Order) decimal.Decimal { return o.ItemSubtotal },
	MeasureProfitPerItem:   func(o *v1.Order) decimal.Decimal { return o.ProfitPerItem },
	MeasureItemProfitRatio: func(o *v1.Order) decimal.Decimal { return o.ItemProfitRatio },
	MeasureDaysForShippingReal: func(o *v1.Order) decimal.Decimal {
		return decimal.NewFromInt(int64(o.DaysForShippingReal))
	},
	MeasureDaysForShipmentScheduled: func(o *v1.Order) decimal.Decimal {
		return decimal.NewFromInt(int64(o.DaysForShipmentScheduled))
	},
	MeasureItemQuantity: func(o *v1.Order) decimal.Decimal {
		return decimal.NewFromInt(int64(o.ItemQuantity))
	},
	MeasureItemTotal:    func(o *v1.Order) decimal.Decimal { return o.ItemTotal },
	MeasureProductPrice: func(o *v1.Order) decimal.Decimal { return o.ProductPrice },
}

// dimensionFields is the registry of categorical fields eligible for
// grouping, filtering and distinct counting.
var dimensionFields = map[string]func(*v1.Order) string{
	DimCustomerSegment: func(o *v1.Order) string { return o.CustomerSegment },
	DimOrderCountry:    func(o *v1.Order) string { return o.OrderCountry },
	DimProductName:     func(o *v1.Order) string { return o.ProductName },
	DimDepartmentName:  func(o *v1.Order) string { return o.DepartmentName },
	DimShippingMode:    func(o *v1.Order) string { return o.ShippingMode },
	DimDeliveryStatus:  func(o *v1.Order) string { return o.DeliveryStatus },
	DimLateDelivery:    func(o *v1.Order) string { return o.LateDelivery },
	DimMarket:          func(o *v1.Order) string { return o.Market },
	DimOrderID:         func(o *v1.Order) string { return o.OrderID },
	DimCustomerID:      func(o *v1.Order) string { return o.CustomerID },
	DimProductID:       func(o *v1.Order) string { return o.ProductID },
}

// ValidMeasure reports whether name is a registered measure field.
func ValidMeasure(name string) bool {
	_, ok := measureFields[name]
	return ok
}

// ValidDimension reports whether name is a registered dimension field.
func ValidDimension(name string) bool {
	_, ok := dimensionFields[name]
	return ok
}

// FieldError reports a query referencing an unsupported field.
// It is surfaced to the caller, never recovered internally.
type FieldError struct {
	Field string
	Kind  string // "measure", "dimension" or "group_by"
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("unsupported %s field %q", e.Kind, e.Field)
}
