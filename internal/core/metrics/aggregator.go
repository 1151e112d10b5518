package metrics

import (
	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
	"github.com/shopspring/decimal"
)

// Supported aggregation operators.
const (
	OpSum           = "sum"
	OpAvg           = "avg"
	OpCount         = "count"
	OpCountDistinct = "count_distinct"
)

// Accumulator folds rows of one result group into an aggregate value.
// Implementations carry whatever composite state the operator needs
// (avg keeps sum+count, count_distinct keeps a seen-set).
type Accumulator interface {
	// Add folds one matching row into the aggregate.
	Add(o *v1.Order)

	// Value returns the current aggregate for the group.
	Value() decimal.Decimal
}

// AccumulatorFactory validates the measure field once per query and returns
// a constructor invoked once per result group. The engine's fold loop stays
// a single map lookup plus an Add call.
type AccumulatorFactory func(measure string) (func() Accumulator, error)

// Operators is the registry of all supported aggregation operators.
// To add a new operator: write a factory and add an entry here.
var Operators = map[string]AccumulatorFactory{
	OpCount:         countFactory,
	OpSum:           sumFactory,
	OpAvg:           avgFactory,
	OpCountDistinct: distinctFactory,
}

// ValidOperator reports whether op is a registered aggregation operator.
func ValidOperator(op string) bool {
	_, ok := Operators[op]
	return ok
}

// countFactory counts matching rows. The measure is ignored: a synthetic
// row count has no underlying field.
func countFactory(_ string) (func() Accumulator, error) {
	return func() Accumulator { return &countAcc{} }, nil
}

func sumFactory(measure string) (func() Accumulator, error) {
	extract, ok := measureFields[measure]
	if !ok {
		return nil, &FieldError{Field: measure, Kind: "measure"}
	}
	return func() Accumulator { return &sumAcc{extract: extract} }, nil
}

func avgFactory(measure string) (func() Accumulator, error) {
	extract, ok := measureFields[measure]
	if !ok {
		return nil, &FieldError{Field: measure, Kind: "measure"}
	}
	return func() Accumulator { return &avgAcc{extract: extract} }, nil
}

// distinctFactory counts distinct values of a dimension field
// (e.g. count_distinct over customer_id).
func distinctFactory(measure string) (func() Accumulator, error) {
	extract, ok := dimensionFields[measure]
	if !ok {
		return nil, &FieldError{Field: measure, Kind: "dimension"}
	}
	return func() Accumulator {
		return &distinctAcc{extract: extract, seen: make(map[string]struct{})}
	}, nil
}

type countAcc struct {
	n int64
}

func (a *countAcc) Add(_ *v1.Order)        { a.n++ }
func (a *countAcc) Value() decimal.Decimal { return decimal.NewFromInt(a.n) }

type sumAcc struct {
	extract func(*v1.Order) decimal.Decimal
	total   decimal.Decimal
}

func (a *sumAcc) Add(o *v1.Order)        { a.total = a.total.Add(a.extract(o)) }
func (a *sumAcc) Value() decimal.Decimal { return a.total }

type avgAcc struct {
	extract func(*v1.Order) decimal.Decimal
	total   decimal.Decimal
	n       int64
}

func (a *avgAcc) Add(o *v1.Order) {
	a.total = a.total.Add(a.extract(o))
	a.n++
}

// Value returns total/n at full decimal precision. A group accumulator is
// only ever created after its first row, so n is never zero here; the
// zero-rows case is handled by the engine's empty-result contract.
func (a *avgAcc) Value() decimal.Decimal {
	if a.n == 0 {
		return decimal.Zero
	}
	return a.total.Div(decimal.NewFromInt(a.n))
}

type distinctAcc struct {
	extract func(*v1.Order) string
	seen    map[string]struct{}
}

func (a *distinctAcc) Add(o *v1.Order) {
	a.seen[a.extract(o)] = struct{}{}
}

func (a *distinctAcc) Value() decimal.Decimal {
	return decimal.NewFromInt(int64(len(a.seen)))
}
