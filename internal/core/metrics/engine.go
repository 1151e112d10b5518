package metrics

import (
	"sort"
	"strconv"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Result ordering modes.
const (
	// OrderValueDesc sorts groups descending by aggregate value.
	// Default for every grouped breakdown except the month series.
	OrderValueDesc = "value_desc"

	// OrderKeyAsc sorts groups ascending by group key, comparing keys
	// numerically when both parse as integers (month series).
	OrderKeyAsc = "key_asc"
)

// Query describes one aggregation over the order collection.
// The zero value of optional fields means: no filter, scalar aggregate
// (no grouping), default ordering, no truncation.
type Query struct {
	Filter  Filter
	GroupBy string // dimension name, GroupByMonth, or "" for a scalar aggregate
	Measure string // numeric field; ignored by count, dimension name for count_distinct
	Op      string // sum, avg, count, count_distinct
	Order   string // OrderValueDesc or OrderKeyAsc; "" picks the default
	Limit   int    // top-N truncation after ordering; 0 = unlimited
}

// GroupValue is one (group key, aggregate value) pair of an ordered result.
type GroupValue struct {
	Key   string          `json:"group_key"`
	Value decimal.Decimal `json:"value"`
}

// Aggregate runs a grouped aggregation over the snapshot and returns an
// ordered sequence of (group key, value) pairs. It is a pure read: the
// snapshot is never mutated and repeated calls yield identical results.
//
// Ties in aggregate value preserve the collection's natural row order
// (encounter order of the first row of each group) via stable sort.
// An empty snapshot, or a filter matching nothing, yields an empty result,
// never an error.
func Aggregate(orders []v1.Order, q Query) ([]GroupValue, error) {
	factory, ok := Operators[q.Op]
	if !ok {
		return nil, &FieldError{Field: q.Op, Kind: "operator"}
	}
	newAcc, err := factory(q.Measure)
	if err != nil {
		return nil, err
	}

	groupFn, err := resolveGroupBy(q.GroupBy)
	if err != nil {
		return nil, err
	}

	type slot struct {
		key string
		acc Accumulator
	}
	index := make(map[string]int)
	var groups []slot

	for i := range orders {
		o := &orders[i]
		if !q.Filter.Matches(o) {
			continue
		}
		var key string
		if groupFn != nil {
			key = groupFn(o)
		}
		at, seen := index[key]
		if !seen {
			at = len(groups)
			index[key] = at
			groups = append(groups, slot{key: key, acc: newAcc()})
		}
		groups[at].acc.Add(o)
	}

	out := make([]GroupValue, len(groups))
	for i, g := range groups {
		out[i] = GroupValue{Key: g.key, Value: g.acc.Value()}
	}

	switch effectiveOrder(q) {
	case OrderKeyAsc:
		sort.SliceStable(out, func(i, j int) bool { return keyLess(out[i].Key, out[j].Key) })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Value.GreaterThan(out[j].Value) })
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Scalar runs a whole-collection (or filtered-subset) aggregate.
// An empty subset returns zero: sum=0, avg=0, count=0.
func Scalar(orders []v1.Order, q Query) (decimal.Decimal, error) {
	q.GroupBy = ""
	q.Limit = 0
	res, err := Aggregate(orders, q)
	if err != nil {
		return decimal.Zero, err
	}
	if len(res) == 0 {
		return decimal.Zero, nil
	}
	return res[0].Value, nil
}

// resolveGroupBy maps the group_by name to a key extractor.
// Returns nil for "" (scalar aggregate, single implicit group).
func resolveGroupBy(groupBy string) (func(*v1.Order) string, error) {
	if groupBy == "" {
		return nil, nil
	}
	if groupBy == GroupByMonth {
		return func(o *v1.Order) string {
			return strconv.Itoa(int(o.OrderDatetime.Month()))
		}, nil
	}
	extract, ok := dimensionFields[groupBy]
	if !ok {
		return nil, &FieldError{Field: groupBy, Kind: "group_by"}
	}
	return extract, nil
}

func effectiveOrder(q Query) string {
	if q.Order != "" {
		return q.Order
	}
	if q.GroupBy == GroupByMonth {
		return OrderKeyAsc
	}
	return OrderValueDesc
}

// keyLess compares group keys numerically when both parse as integers
// (month keys "1".."12"), falling back to lexicographic order.
func keyLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return ai < bi
	}
	return a < b
}
