package metrics

import (
	"strings"

	v1 "github.com/orderpulse-lab/orderpulse/internal/api/v1"
)

// Predicate evaluates one condition against a record.
type Predicate func(*v1.Order) bool

// Filter is a conjunction of predicates. An empty (or nil) filter matches
// every row.
type Filter []Predicate

// Matches reports whether the record satisfies every predicate.
func (f Filter) Matches(o *v1.Order) bool {
	for _, p := range f {
		if !p(o) {
			return false
		}
	}
	return true
}

// And returns a filter extended with additional predicates.
func (f Filter) And(ps ...Predicate) Filter {
	out := make(Filter, 0, len(f)+len(ps))
	out = append(out, f...)
	out = append(out, ps...)
	return out
}

// Apply materializes the filtered subset, preserving natural row order.
func Apply(f Filter, orders []v1.Order) []v1.Order {
	if len(f) == 0 {
		return orders
	}
	var out []v1.Order
	for i := range orders {
		if f.Matches(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}

// DimensionEquals matches rows whose dimension field equals want exactly.
func DimensionEquals(field, want string) (Predicate, error) {
	extract, ok := dimensionFields[field]
	if !ok {
		return nil, &FieldError{Field: field, Kind: "dimension"}
	}
	return func(o *v1.Order) bool { return extract(o) == want }, nil
}

// DimensionIn matches rows whose dimension field equals any of want.
func DimensionIn(field string, want ...string) (Predicate, error) {
	extract, ok := dimensionFields[field]
	if !ok {
		return nil, &FieldError{Field: field, Kind: "dimension"}
	}
	set := make(map[string]struct{}, len(want))
	for _, w := range want {
		set[w] = struct{}{}
	}
	return func(o *v1.Order) bool {
		_, hit := set[extract(o)]
		return hit
	}, nil
}

// DimensionContains matches rows whose dimension field contains substr,
// case-insensitively.
func DimensionContains(field, substr string) (Predicate, error) {
	extract, ok := dimensionFields[field]
	if !ok {
		return nil, &FieldError{Field: field, Kind: "dimension"}
	}
	needle := strings.ToLower(substr)
	return func(o *v1.Order) bool {
		return strings.Contains(strings.ToLower(extract(o)), needle)
	}, nil
}
