package metrics

import (
	"strings"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/shopspring/decimal"
)

// TopN is the breakdown truncation used by the dashboard's ranked panels.
const TopN = 5

// TotalSales returns sum(item_subtotal) over the snapshot.
func TotalSales(orders []v1.Order) (decimal.Decimal, error) {
	return Scalar(orders, Query{Measure: MeasureItemSubtotal, Op: OpSum})
}

// TotalProfits returns sum(profit_per_item) over the snapshot.
func TotalProfits(orders []v1.Order) (decimal.Decimal, error) {
	return Scalar(orders, Query{Measure: MeasureProfitPerItem, Op: OpSum})
}

// TotalOrders counts rows, i.e. line items, not distinct order ids.
// This preserves the historical dashboard semantics; use DistinctOrders for
// the order-grain count.
func TotalOrders(orders []v1.Order) int64 {
	return int64(len(orders))
}

// DistinctOrders counts distinct order_id values. Exposed as a separate KPI
// because TotalOrders deliberately counts line items.
func DistinctOrders(orders []v1.Order) (decimal.Decimal, error) {
	return Scalar(orders, Query{Measure: DimOrderID, Op: OpCountDistinct})
}

// TotalCustomers counts distinct customer_id values.
func TotalCustomers(orders []v1.Order) (decimal.Decimal, error) {
	return Scalar(orders, Query{Measure: DimCustomerID, Op: OpCountDistinct})
}

// ProfitRatio returns avg(item_profit_ratio) over the snapshot.
func ProfitRatio(orders []v1.Order) (decimal.Decimal, error) {
	return Scalar(orders, Query{Measure: MeasureItemProfitRatio, Op: OpAvg})
}

// MonthlySeries aggregates a measure per month of order_datetime,
// ascending by month number. All years are pooled.
func MonthlySeries(orders []v1.Order, measure, op string) ([]GroupValue, error) {
	return Aggregate(orders, Query{GroupBy: GroupByMonth, Measure: measure, Op: op, Order: OrderKeyAsc})
}

// SegmentBreakdown aggregates a measure per customer segment,
// descending by aggregate value.
func SegmentBreakdown(orders []v1.Order, measure, op string) ([]GroupValue, error) {
	return Aggregate(orders, Query{GroupBy: DimCustomerSegment, Measure: measure, Op: op})
}

// Top5 returns the five largest groups of a dimension by aggregate value.
// The result is a prefix of the corresponding unlimited breakdown.
func Top5(orders []v1.Order, dimension, measure, op string) ([]GroupValue, error) {
	return Aggregate(orders, Query{GroupBy: dimension, Measure: measure, Op: op, Limit: TopN})
}

// DeliveryStats holds the delivery KPIs for one (possibly filtered) subset.
// Rates and day averages are full precision; rounding happens at the
// presentation boundary.
type DeliveryStats struct {
	TotalOrders      int64
	OnTimeOrders     int64
	LateOrders       int64
	OnTimeRate       decimal.Decimal // percentage 0-100
	LateRate         decimal.Decimal // percentage 0-100
	AvgShippingDays  decimal.Decimal
	AvgScheduledDays decimal.Decimal
}

// lateMatcher is one tier of the late_delivery tolerance chain: a pair of
// predicates classifying a row as on-time or late under one encoding.
type lateMatcher struct {
	name   string
	onTime func(string) bool
	late   func(string) bool
}

func exactly(want string) func(string) bool {
	return func(v string) bool { return v == want }
}

func containsFold(want string) func(string) bool {
	needle := strings.ToLower(want)
	return func(v string) bool { return strings.Contains(strings.ToLower(v), needle) }
}

// lateDeliveryMatchers is the ordered fallback chain for the heterogeneous
// late_delivery encodings seen across import sources. Tiers are tried in
// sequence; the first tier that classifies at least one row wins. If no tier
// classifies anything, both counts report zero rather than failing.
var lateDeliveryMatchers = []lateMatcher{
	{name: "label", onTime: exactly("No late"), late: exactly("Late")},
	{name: "numeric", onTime: exactly("0"), late: exactly("1")},
	{name: "substring", onTime: containsFold("No"), late: containsFold("Yes")},
}

// classifyLateDelivery walks the fallback chain and returns the on-time and
// late row counts for the first tier that matches anything.
func classifyLateDelivery(orders []v1.Order) (onTime, late int64) {
	for _, m := range lateDeliveryMatchers {
		var on, lt int64
		for i := range orders {
			v := orders[i].LateDelivery
			switch {
			case m.onTime(v):
				on++
			case m.late(v):
				lt++
			}
		}
		if on+lt > 0 {
			return on, lt
		}
	}
	return 0, 0
}

// ComputeDeliveryStats recomputes the delivery KPIs for a subset.
// Both rates are zero when the subset is empty; no division by zero.
func ComputeDeliveryStats(orders []v1.Order) (DeliveryStats, error) {
	stats := DeliveryStats{TotalOrders: TotalOrders(orders)}

	stats.OnTimeOrders, stats.LateOrders = classifyLateDelivery(orders)
	if stats.TotalOrders > 0 {
		total := decimal.NewFromInt(stats.TotalOrders)
		hundred := decimal.NewFromInt(100)
		stats.OnTimeRate = decimal.NewFromInt(stats.OnTimeOrders).Mul(hundred).Div(total)
		stats.LateRate = decimal.NewFromInt(stats.LateOrders).Mul(hundred).Div(total)
	}

	var err error
	stats.AvgShippingDays, err = Scalar(orders, Query{Measure: MeasureDaysForShippingReal, Op: OpAvg})
	if err != nil {
		return DeliveryStats{}, err
	}
	stats.AvgScheduledDays, err = Scalar(orders, Query{Measure: MeasureDaysForShipmentScheduled, Op: OpAvg})
	if err != nil {
		return DeliveryStats{}, err
	}
	return stats, nil
}
