package metrics

import (
	"testing"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func lateRows(values ...string) []v1.Order {
	out := make([]v1.Order, len(values))
	for i, v := range values {
		out[i] = v1.Order{OrderID: "o", LateDelivery: v}
	}
	return out
}

func TestClassifyLateDelivery_LabelEncoding(t *testing.T) {
	on, late := classifyLateDelivery(lateRows("No late", "Late", "No late"))
	require.Equal(t, int64(2), on)
	require.Equal(t, int64(1), late)
}

func TestClassifyLateDelivery_NumericEncoding(t *testing.T) {
	on, late := classifyLateDelivery(lateRows("0", "1", "1"))
	require.Equal(t, int64(1), on)
	require.Equal(t, int64(2), late)
}

func TestClassifyLateDelivery_SubstringEncoding(t *testing.T) {
	on, late := classifyLateDelivery(lateRows("no", "YES", "Yes, delayed"))
	require.Equal(t, int64(1), on)
	require.Equal(t, int64(2), late)
}

func TestClassifyLateDelivery_EarlierTierWins(t *testing.T) {
	// "No late" matches both the label tier and the substring tier ("No");
	// the label tier is tried first and must win so the "1" row is not
	// misread by a later tier.
	on, late := classifyLateDelivery(lateRows("No late", "Late", "1"))
	require.Equal(t, int64(1), on)
	require.Equal(t, int64(1), late)
}

func TestClassifyLateDelivery_UnrecognizedYieldsZeros(t *testing.T) {
	on, late := classifyLateDelivery(lateRows("maybe", "unknown", ""))
	require.Zero(t, on)
	require.Zero(t, late)
}

func TestComputeDeliveryStats_Rates(t *testing.T) {
	orders := []v1.Order{
		{OrderID: "o1", LateDelivery: "No late", DaysForShippingReal: 2, DaysForShipmentScheduled: 4},
		{OrderID: "o2", LateDelivery: "Late", DaysForShippingReal: 6, DaysForShipmentScheduled: 2},
		{OrderID: "o3", LateDelivery: "No late", DaysForShippingReal: 4, DaysForShipmentScheduled: 3},
		{OrderID: "o4", LateDelivery: "Late", DaysForShippingReal: 4, DaysForShipmentScheduled: 3},
	}

	stats, err := ComputeDeliveryStats(orders)
	require.NoError(t, err)

	require.Equal(t, int64(4), stats.TotalOrders)
	require.Equal(t, int64(2), stats.OnTimeOrders)
	require.Equal(t, int64(2), stats.LateOrders)
	require.True(t, stats.OnTimeRate.Equal(decimal.NewFromInt(50)))
	require.True(t, stats.LateRate.Equal(decimal.NewFromInt(50)))
	require.True(t, stats.AvgShippingDays.Equal(decimal.NewFromInt(4)))
	require.True(t, stats.AvgScheduledDays.Equal(decimal.NewFromInt(3)))
}

func TestComputeDeliveryStats_EmptySubset(t *testing.T) {
	stats, err := ComputeDeliveryStats(nil)
	require.NoError(t, err)

	require.Zero(t, stats.TotalOrders)
	require.Zero(t, stats.OnTimeOrders)
	require.Zero(t, stats.LateOrders)
	require.True(t, stats.OnTimeRate.IsZero())
	require.True(t, stats.LateRate.IsZero())
	require.True(t, stats.AvgShippingDays.IsZero())
	require.True(t, stats.AvgScheduledDays.IsZero())
}

func TestComputeDeliveryStats_RatesWithinBounds(t *testing.T) {
	orders := lateRows("Late", "Late", "No late")

	stats, err := ComputeDeliveryStats(orders)
	require.NoError(t, err)

	hundred := decimal.NewFromInt(100)
	require.True(t, stats.OnTimeRate.GreaterThanOrEqual(decimal.Zero))
	require.True(t, stats.OnTimeRate.LessThanOrEqual(hundred))
	require.True(t, stats.LateRate.GreaterThanOrEqual(decimal.Zero))
	require.True(t, stats.LateRate.LessThanOrEqual(hundred))
}

func TestScalarKPIs(t *testing.T) {
	orders := []v1.Order{
		{OrderID: "o1", CustomerID: "c1", ItemSubtotal: decimal.NewFromInt(100), ProfitPerItem: decimal.NewFromInt(10), ItemProfitRatio: decimal.RequireFromString("0.10")},
		{OrderID: "o1", CustomerID: "c1", ItemSubtotal: decimal.NewFromInt(50), ProfitPerItem: decimal.NewFromInt(5), ItemProfitRatio: decimal.RequireFromString("0.20")},
		{OrderID: "o2", CustomerID: "c2", ItemSubtotal: decimal.NewFromInt(50), ProfitPerItem: decimal.NewFromInt(15), ItemProfitRatio: decimal.RequireFromString("0.30")},
	}

	sales, err := TotalSales(orders)
	require.NoError(t, err)
	require.True(t, sales.Equal(decimal.NewFromInt(200)))

	profits, err := TotalProfits(orders)
	require.NoError(t, err)
	require.True(t, profits.Equal(decimal.NewFromInt(30)))

	// Row count, not distinct order count.
	require.Equal(t, int64(3), TotalOrders(orders))

	distinct, err := DistinctOrders(orders)
	require.NoError(t, err)
	require.True(t, distinct.Equal(decimal.NewFromInt(2)))

	customers, err := TotalCustomers(orders)
	require.NoError(t, err)
	require.True(t, customers.Equal(decimal.NewFromInt(2)))

	ratio, err := ProfitRatio(orders)
	require.NoError(t, err)
	require.True(t, ratio.Equal(decimal.RequireFromString("0.2")))
}

func TestTop5_TruncatesToFiveGroups(t *testing.T) {
	var orders []v1.Order
	for _, c := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		orders = append(orders, v1.Order{OrderID: c, OrderCountry: c})
	}

	got, err := Top5(orders, DimOrderCountry, "", OpCount)
	require.NoError(t, err)
	require.Len(t, got, TopN)
}
