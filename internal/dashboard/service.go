package dashboard

import (
	"context"
	"errors"
	"fmt"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/orderpulse-lab/orderpulse/internal/core/metrics"
	"github.com/orderpulse-lab/orderpulse/internal/core/storage"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidQuery marks client-side query errors (unknown metric or market).
var ErrInvalidQuery = errors.New("invalid dashboard query")

// Service answers the dashboard read queries. It is stateless: every query
// loads one immutable snapshot from the store and runs the aggregation
// engine over it, so queries are independent, idempotent and safe to run
// concurrently.
type Service struct {
	store storage.OrderStore
	rules map[string]metrics.MetricRule
}

func NewService(store storage.OrderStore, rules []metrics.MetricRule) *Service {
	if store == nil {
		panic("dashboard: store must not be nil")
	}
	table := metrics.BuiltinMetricRules()
	for _, r := range rules {
		table[r.Name] = r
	}
	return &Service{store: store, rules: table}
}

// Overview computes the executive dashboard: 5 scalar KPIs plus the
// distinct-order variant, the fixed monthly/segment series for sales,
// profits and orders, and the three top-5 breakdowns for the selected
// metric. Breakdowns fan out concurrently over the immutable snapshot.
func (s *Service) Overview(ctx context.Context, metric string) (*OverviewResponse, error) {
	if metric == "" {
		metric = metrics.MetricOrders
	}
	rule, ok := s.rules[metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidQuery, metric)
	}

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order snapshot: %w", err)
	}

	resp := &OverviewResponse{SelectedMetric: metric}

	if err := s.fillScalarKPIs(orders, resp); err != nil {
		return nil, err
	}

	sales := s.rules[metrics.MetricSales]
	profits := s.rules[metrics.MetricProfits]
	counts := s.rules[metrics.MetricOrders]

	// Each goroutine writes a distinct response field; the snapshot itself
	// is never mutated.
	g, _ := errgroup.WithContext(ctx)
	series := []struct {
		out *[]metrics.GroupValue
		run func() ([]metrics.GroupValue, error)
	}{
		{&resp.MonthlySales, func() ([]metrics.GroupValue, error) {
			return metrics.MonthlySeries(orders, sales.Measure, sales.Operator)
		}},
		{&resp.MonthlyProfits, func() ([]metrics.GroupValue, error) {
			return metrics.MonthlySeries(orders, profits.Measure, profits.Operator)
		}},
		{&resp.MonthlyOrders, func() ([]metrics.GroupValue, error) {
			return metrics.MonthlySeries(orders, counts.Measure, counts.Operator)
		}},
		{&resp.SegmentSales, func() ([]metrics.GroupValue, error) {
			return metrics.SegmentBreakdown(orders, sales.Measure, sales.Operator)
		}},
		{&resp.SegmentProfits, func() ([]metrics.GroupValue, error) {
			return metrics.SegmentBreakdown(orders, profits.Measure, profits.Operator)
		}},
		{&resp.SegmentOrders, func() ([]metrics.GroupValue, error) {
			return metrics.SegmentBreakdown(orders, counts.Measure, counts.Operator)
		}},
		{&resp.MetricByCountry, func() ([]metrics.GroupValue, error) {
			return metrics.Top5(orders, metrics.DimOrderCountry, rule.Measure, rule.Operator)
		}},
		{&resp.MetricByProduct, func() ([]metrics.GroupValue, error) {
			return metrics.Top5(orders, metrics.DimProductName, rule.Measure, rule.Operator)
		}},
		{&resp.MetricByDepartment, func() ([]metrics.GroupValue, error) {
			return metrics.Top5(orders, metrics.DimDepartmentName, rule.Measure, rule.Operator)
		}},
	}
	for _, item := range series {
		g.Go(func() error {
			got, err := item.run()
			if err != nil {
				return err
			}
			*item.out = got
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *Service) fillScalarKPIs(orders []v1.Order, resp *OverviewResponse) error {
	var err error
	if resp.TotalSales, err = metrics.TotalSales(orders); err != nil {
		return err
	}
	if resp.TotalProfits, err = metrics.TotalProfits(orders); err != nil {
		return err
	}
	resp.TotalOrders = metrics.TotalOrders(orders)

	distinct, err := metrics.DistinctOrders(orders)
	if err != nil {
		return err
	}
	resp.DistinctOrders = distinct.IntPart()

	customers, err := metrics.TotalCustomers(orders)
	if err != nil {
		return err
	}
	resp.TotalCustomers = customers.IntPart()

	ratio, err := metrics.ProfitRatio(orders)
	if err != nil {
		return err
	}
	resp.ProfitRatio = ratio.Round(2)
	return nil
}

// Breakdowns computes just the three ranked top-5 breakdowns for one metric.
func (s *Service) Breakdowns(ctx context.Context, metric string) (*BreakdownResponse, error) {
	if metric == "" {
		metric = metrics.MetricOrders
	}
	rule, ok := s.rules[metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown metric %q", ErrInvalidQuery, metric)
	}

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order snapshot: %w", err)
	}

	resp := &BreakdownResponse{Metric: metric}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		resp.ByCountry, err = metrics.Top5(orders, metrics.DimOrderCountry, rule.Measure, rule.Operator)
		return err
	})
	g.Go(func() (err error) {
		resp.ByProduct, err = metrics.Top5(orders, metrics.DimProductName, rule.Measure, rule.Operator)
		return err
	})
	g.Go(func() (err error) {
		resp.ByDepartment, err = metrics.Top5(orders, metrics.DimDepartmentName, rule.Measure, rule.Operator)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}

// DeliveryOverview computes the delivery dashboard over the whole collection.
func (s *Service) DeliveryOverview(ctx context.Context) (*DeliveryOverviewResponse, error) {
	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order snapshot: %w", err)
	}

	stats, err := metrics.ComputeDeliveryStats(orders)
	if err != nil {
		return nil, err
	}

	resp := &DeliveryOverviewResponse{
		TotalOrders:      stats.TotalOrders,
		OnTimeOrders:     stats.OnTimeOrders,
		LateOrders:       stats.LateOrders,
		OnTimeRate:       stats.OnTimeRate.Round(1),
		LateRate:         stats.LateRate.Round(1),
		AvgShippingDays:  stats.AvgShippingDays.Round(1),
		AvgScheduledDays: stats.AvgScheduledDays.Round(1),
	}

	if resp.MonthlyDelivery, err = monthlyDelivery(orders); err != nil {
		return nil, err
	}
	if resp.ShippingModePerformance, err = shippingModePerformance(orders); err != nil {
		return nil, err
	}
	if resp.DeliveryStatusDist, err = metrics.Aggregate(orders, metrics.Query{
		GroupBy: metrics.DimDeliveryStatus,
		Op:      metrics.OpCount,
	}); err != nil {
		return nil, err
	}
	if resp.CountryPerformance, err = metrics.Aggregate(orders, metrics.Query{
		GroupBy: metrics.DimOrderCountry,
		Op:      metrics.OpCount,
		Limit:   10,
	}); err != nil {
		return nil, err
	}

	return resp, nil
}

// DeliveryStats recomputes the delivery KPIs against the market and
// shipping-mode filtered subset.
func (s *Service) DeliveryStats(ctx context.Context, market, shippingMode string) (*DeliveryStatsResponse, error) {
	filter, err := metrics.MarketFilter(market)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	modeFilter, err := metrics.ShippingModeFilter(shippingMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	filter = filter.And(modeFilter...)

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load order snapshot: %w", err)
	}

	subset := metrics.Apply(filter, orders)
	stats, err := metrics.ComputeDeliveryStats(subset)
	if err != nil {
		return nil, err
	}

	return &DeliveryStatsResponse{
		Market:           market,
		ShippingMode:     shippingMode,
		TotalOrders:      stats.TotalOrders,
		OnTimeRate:       stats.OnTimeRate.Round(1),
		LateOrders:       stats.LateOrders,
		AvgShippingDays:  stats.AvgShippingDays.Round(1),
		AvgScheduledDays: stats.AvgScheduledDays.Round(1),
	}, nil
}

// monthlyDelivery zips the per-month order count with the per-month average
// shipping days. Both series come from the same snapshot, so the key sets
// are identical.
func monthlyDelivery(orders []v1.Order) ([]MonthlyDeliveryPoint, error) {
	counts, err := metrics.MonthlySeries(orders, "", metrics.OpCount)
	if err != nil {
		return nil, err
	}
	avgs, err := metrics.MonthlySeries(orders, metrics.MeasureDaysForShippingReal, metrics.OpAvg)
	if err != nil {
		return nil, err
	}

	avgByMonth := make(map[string]decimal.Decimal, len(avgs))
	for _, a := range avgs {
		avgByMonth[a.Key] = a.Value.Round(1)
	}

	out := make([]MonthlyDeliveryPoint, 0, len(counts))
	for _, c := range counts {
		out = append(out, MonthlyDeliveryPoint{
			Month:       c.Key,
			TotalOrders: c.Value.IntPart(),
			AvgDays:     avgByMonth[c.Key],
		})
	}
	return out, nil
}

// shippingModePerformance ranks shipping modes by volume (top 5) and
// annotates each with its average real shipping days.
func shippingModePerformance(orders []v1.Order) ([]ShippingModePoint, error) {
	counts, err := metrics.Top5(orders, metrics.DimShippingMode, "", metrics.OpCount)
	if err != nil {
		return nil, err
	}
	avgs, err := metrics.Aggregate(orders, metrics.Query{
		GroupBy: metrics.DimShippingMode,
		Measure: metrics.MeasureDaysForShippingReal,
		Op:      metrics.OpAvg,
	})
	if err != nil {
		return nil, err
	}

	avgByMode := make(map[string]decimal.Decimal, len(avgs))
	for _, a := range avgs {
		avgByMode[a.Key] = a.Value.Round(1)
	}

	out := make([]ShippingModePoint, 0, len(counts))
	for _, c := range counts {
		out = append(out, ShippingModePoint{
			ShippingMode: c.Key,
			TotalOrders:  c.Value.IntPart(),
			AvgDays:      avgByMode[c.Key],
		})
	}
	return out, nil
}
