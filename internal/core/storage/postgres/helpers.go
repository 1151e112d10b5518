package postgres

import (
	"fmt"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// upsertArgs returns the record's values in the orderColumns order.
func upsertArgs(o *v1.Order) []interface{} {
	return []interface{}{
		o.OrderID, o.OrderItemID, o.CustomerID, o.OrderCustomerID, o.ProductID,
		o.ItemSubtotal, o.ItemTotal, o.ProfitPerItem, o.ItemProfitRatio,
		o.ItemProductPrice, o.ProductPrice, o.OrderItemDiscount, o.ItemDiscountRate,
		o.ItemQuantity, o.DaysForShippingReal, o.DaysForShipmentScheduled,
		o.CustomerSegment, o.CustomerName, o.CustomerZipcode,
		o.OrderCountry, o.OrderRegion, o.OrderState, o.OrderCity, o.OrderStatus, o.Market,
		o.ProductName, o.ProductCategoryID, o.OrderItemCardprodID,
		o.CategoryID, o.CategoryName, o.DepartmentID, o.DepartmentName,
		o.ShippingMode, o.DeliveryStatus, o.PaymentType, o.LateDelivery,
		o.StoreCity, o.StoreState, o.StoreStreet, o.StoreCountry, o.Latitude, o.Longitude,
		o.OrderDatetime, o.ShippingDatetime,
	}
}

// scanOrderRow scans a database row into an Order struct.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
// decimal.Decimal implements sql.Scanner, so NUMERIC columns scan directly.
func scanOrderRow(row scanner) (*v1.Order, error) {
	var o v1.Order

	err := row.Scan(
		&o.OrderID, &o.OrderItemID, &o.CustomerID, &o.OrderCustomerID, &o.ProductID,
		&o.ItemSubtotal, &o.ItemTotal, &o.ProfitPerItem, &o.ItemProfitRatio,
		&o.ItemProductPrice, &o.ProductPrice, &o.OrderItemDiscount, &o.ItemDiscountRate,
		&o.ItemQuantity, &o.DaysForShippingReal, &o.DaysForShipmentScheduled,
		&o.CustomerSegment, &o.CustomerName, &o.CustomerZipcode,
		&o.OrderCountry, &o.OrderRegion, &o.OrderState, &o.OrderCity, &o.OrderStatus, &o.Market,
		&o.ProductName, &o.ProductCategoryID, &o.OrderItemCardprodID,
		&o.CategoryID, &o.CategoryName, &o.DepartmentID, &o.DepartmentName,
		&o.ShippingMode, &o.DeliveryStatus, &o.PaymentType, &o.LateDelivery,
		&o.StoreCity, &o.StoreState, &o.StoreStreet, &o.StoreCountry, &o.Latitude, &o.Longitude,
		&o.OrderDatetime, &o.ShippingDatetime,
		&o.RowSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan order row: %w", err)
	}

	return &o, nil
}
