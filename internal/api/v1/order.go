package v1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a single line-item record, the atomic unit of the system.
// It is NOT a full order: multiple records share an OrderID when an order
// contains several product lines. Monetary and ratio measures use exact
// decimal arithmetic; the raw export is lossy enough without float drift.
type Order struct {
	// --- Identity ---

	// OrderID identifies the logical order this line item belongs to.
	// It is the upsert key for imports and MAY repeat across records.
	OrderID string `json:"order_id"`

	// OrderItemID identifies this specific line item.
	OrderItemID string `json:"order_item_id"`

	CustomerID      string `json:"customer_id"`
	OrderCustomerID string `json:"order_customer_id"`
	ProductID       string `json:"product_id"`

	// --- Measures (numeric, aggregatable) ---

	ItemSubtotal             decimal.Decimal `json:"item_subtotal"`
	ItemTotal                decimal.Decimal `json:"item_total"`
	ProfitPerItem            decimal.Decimal `json:"profit_per_item"`
	ItemProfitRatio          decimal.Decimal `json:"item_profit_ratio"`
	ItemProductPrice         decimal.Decimal `json:"item_product_price"`
	ProductPrice             decimal.Decimal `json:"product_price"`
	OrderItemDiscount        decimal.Decimal `json:"order_item_discount"`
	ItemDiscountRate         decimal.Decimal `json:"item_discount_rate"`
	ItemQuantity             int             `json:"item_quantity"`
	DaysForShippingReal      int             `json:"days_for_shipping_real"`
	DaysForShipmentScheduled int             `json:"days_for_shipment_scheduled"`

	// --- Dimensions (categorical, groupable) ---

	CustomerSegment     string `json:"customer_segment"`
	CustomerName        string `json:"customer_name"`
	CustomerZipcode     string `json:"customer_zipcode"`
	OrderCountry        string `json:"order_country"`
	OrderRegion         string `json:"order_region"`
	OrderState          string `json:"order_state"`
	OrderCity           string `json:"order_city"`
	OrderStatus         string `json:"order_status"`
	Market              string `json:"market"`
	ProductName         string `json:"product_name"`
	ProductCategoryID   string `json:"product_category_id"`
	OrderItemCardprodID string `json:"order_item_cardprod_id"`
	CategoryID          string `json:"category_id"`
	CategoryName        string `json:"category_name"`
	DepartmentID        string `json:"department_id"`
	DepartmentName      string `json:"department_name"`
	ShippingMode        string `json:"shipping_mode"`
	DeliveryStatus      string `json:"delivery_status"`
	PaymentType         string `json:"payment_type"`

	// LateDelivery is stored verbatim. Export variants encode it as
	// "Late"/"No late", "0"/"1", or "Yes"/"No"; classification happens at
	// query time, never at import time.
	LateDelivery string `json:"late_delivery"`

	// --- Store attributes ---

	StoreCity    string  `json:"store_city"`
	StoreState   string  `json:"store_state"`
	StoreStreet  string  `json:"store_street"`
	StoreCountry string  `json:"store_country"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`

	// --- Temporal ---

	OrderDatetime    time.Time `json:"order_datetime"`
	ShippingDatetime time.Time `json:"shipping_datetime"`

	// RowSeq is a monotonic sequence assigned on first insert.
	// It defines the collection's natural row order, which the aggregation
	// engine uses as its stable tie-break. Set by database (BIGSERIAL),
	// not exposed in the public API.
	RowSeq int64 `json:"-"`
}

// Validate ensures the record has all required identity attributes.
func (o *Order) Validate() error {
	if o.OrderID == "" {
		return fmt.Errorf("order_id is required")
	}

	if o.OrderItemID == "" {
		return fmt.Errorf("order_item_id is required")
	}

	if o.OrderDatetime.IsZero() {
		return fmt.Errorf("order_datetime is required")
	}

	return nil
}
