package dashboard

import (
	"github.com/orderpulse-lab/orderpulse/internal/core/metrics"
	"github.com/shopspring/decimal"
)

// OverviewResponse is the executive dashboard payload: scalar KPIs, the
// fixed monthly and segment series, and the ranked breakdowns for the
// selected metric.
//
// Scalar KPIs are rounded here, at the presentation boundary; the engine
// works at full precision throughout.
type OverviewResponse struct {
	SelectedMetric string `json:"selected_metric"`

	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalProfits   decimal.Decimal `json:"total_profits"`
	TotalOrders    int64           `json:"total_orders"`
	DistinctOrders int64           `json:"distinct_orders"`
	TotalCustomers int64           `json:"total_customers"`
	ProfitRatio    decimal.Decimal `json:"profit_ratio"`

	MonthlySales   []metrics.GroupValue `json:"monthly_sales"`
	MonthlyProfits []metrics.GroupValue `json:"monthly_profits"`
	MonthlyOrders  []metrics.GroupValue `json:"monthly_orders"`

	SegmentSales   []metrics.GroupValue `json:"segment_sales"`
	SegmentProfits []metrics.GroupValue `json:"segment_profits"`
	SegmentOrders  []metrics.GroupValue `json:"segment_orders"`

	MetricByCountry    []metrics.GroupValue `json:"metric_by_country"`
	MetricByProduct    []metrics.GroupValue `json:"metric_by_product"`
	MetricByDepartment []metrics.GroupValue `json:"metric_by_department"`
}

// BreakdownResponse is the metric-filtering payload: just the three ranked
// breakdowns for one metric.
type BreakdownResponse struct {
	Metric       string               `json:"metric"`
	ByCountry    []metrics.GroupValue `json:"by_country"`
	ByProduct    []metrics.GroupValue `json:"by_product"`
	ByDepartment []metrics.GroupValue `json:"by_department"`
}

// MonthlyDeliveryPoint is one month of the delivery performance series.
type MonthlyDeliveryPoint struct {
	Month       string          `json:"month"`
	TotalOrders int64           `json:"total_orders"`
	AvgDays     decimal.Decimal `json:"avg_days"`
}

// ShippingModePoint is one shipping mode's volume and average transit time.
type ShippingModePoint struct {
	ShippingMode string          `json:"shipping_mode"`
	TotalOrders  int64           `json:"total_orders"`
	AvgDays      decimal.Decimal `json:"avg_days"`
}

// DeliveryOverviewResponse is the delivery dashboard payload over the whole
// collection.
type DeliveryOverviewResponse struct {
	TotalOrders      int64           `json:"total_orders"`
	OnTimeOrders     int64           `json:"on_time_orders"`
	LateOrders       int64           `json:"late_orders"`
	OnTimeRate       decimal.Decimal `json:"on_time_rate"`
	LateRate         decimal.Decimal `json:"late_rate"`
	AvgShippingDays  decimal.Decimal `json:"avg_shipping_days"`
	AvgScheduledDays decimal.Decimal `json:"avg_scheduled_days"`

	MonthlyDelivery         []MonthlyDeliveryPoint `json:"monthly_delivery"`
	ShippingModePerformance []ShippingModePoint    `json:"shipping_mode_performance"`
	DeliveryStatusDist      []metrics.GroupValue   `json:"delivery_status_dist"`
	CountryPerformance      []metrics.GroupValue   `json:"country_performance"`
}

// DeliveryStatsResponse is the filtered delivery KPI payload, recomputed
// against the market / shipping-mode subset.
type DeliveryStatsResponse struct {
	Market       string `json:"market"`
	ShippingMode string `json:"shipping_mode"`

	TotalOrders      int64           `json:"total_orders"`
	OnTimeRate       decimal.Decimal `json:"on_time_rate"`
	LateOrders       int64           `json:"late_orders"`
	AvgShippingDays  decimal.Decimal `json:"avg_shipping_days"`
	AvgScheduledDays decimal.Decimal `json:"avg_scheduled_days"`
}
