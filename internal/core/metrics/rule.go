package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MetricRule maps a public metric name to the measure and operator the
// engine runs for it. The dashboard's metric selector dispatches through
// this table instead of branching per metric.
type MetricRule struct {
	Name     string `yaml:"name"`
	Measure  string `yaml:"measure"` // empty for count
	Operator string `yaml:"operator"`
}

// Builtin metric names.
const (
	MetricSales   = "sales"
	MetricProfits = "profits"
	MetricOrders  = "orders"
)

// BuiltinMetricRules returns the compiled-in dispatch table.
func BuiltinMetricRules() map[string]MetricRule {
	return map[string]MetricRule{
		MetricSales:   {Name: MetricSales, Measure: MeasureItemSubtotal, Operator: OpSum},
		MetricProfits: {Name: MetricProfits, Measure: MeasureProfitPerItem, Operator: OpSum},
		MetricOrders:  {Name: MetricOrders, Operator: OpCount},
	}
}

// FileSystemMetricRepository serves metric rules: the builtin table,
// optionally extended or overridden by *.yaml files in a directory.
// Each file contains exactly one rule at the top level. Rules are loaded
// once at startup and cached in memory; there is no hot reload.
type FileSystemMetricRepository struct {
	dir   string
	rules map[string]MetricRule // keyed by Name
}

// NewFileSystemMetricRepository creates a repository seeded with the builtin
// rules and eagerly overlays all rules from dir. A missing directory is
// valid (builtins only). Returns an error if any rule file is malformed.
func NewFileSystemMetricRepository(dir string) (*FileSystemMetricRepository, error) {
	repo := &FileSystemMetricRepository{
		dir:   dir,
		rules: BuiltinMetricRules(),
	}
	if err := repo.load(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *FileSystemMetricRepository) load() error {
	if r.dir == "" {
		return nil
	}
	info, err := os.Stat(r.dir)
	if os.IsNotExist(err) {
		return nil // builtins only
	}
	if err != nil {
		return fmt.Errorf("metric rule dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("metric rule path %q is not a directory", r.dir)
	}

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return fmt.Errorf("reading metric rule dir: %w", err)
	}

	seen := make(map[string]string) // rule name -> file, duplicate detection
	for _, e := range entries {
		if e.IsDir() || (!strings.HasSuffix(e.Name(), ".yaml") && !strings.HasSuffix(e.Name(), ".yml")) {
			continue
		}

		path := filepath.Join(r.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading metric rule file %s: %w", path, err)
		}

		var rule MetricRule
		if err := yaml.Unmarshal(data, &rule); err != nil {
			return fmt.Errorf("parsing metric rule file %s: %w", path, err)
		}
		if rule.Name == "" {
			continue // skip empty / comment-only files
		}

		if err := validateMetricRule(rule); err != nil {
			return fmt.Errorf("rule %q (%s): %w", rule.Name, path, err)
		}

		if prev, dup := seen[rule.Name]; dup {
			return fmt.Errorf("rule %q: defined in both %s and %s", rule.Name, prev, path)
		}
		seen[rule.Name] = path

		r.rules[rule.Name] = rule
	}
	return nil
}

func validateMetricRule(rule MetricRule) error {
	if !ValidOperator(rule.Operator) {
		return fmt.Errorf("unsupported operator %q", rule.Operator)
	}
	switch rule.Operator {
	case OpCount:
		// no measure needed
	case OpCountDistinct:
		if !ValidDimension(rule.Measure) {
			return &FieldError{Field: rule.Measure, Kind: "dimension"}
		}
	default:
		if !ValidMeasure(rule.Measure) {
			return &FieldError{Field: rule.Measure, Kind: "measure"}
		}
	}
	return nil
}

// Get returns the rule with the given name, or an error if not found.
func (r *FileSystemMetricRepository) Get(name string) (*MetricRule, error) {
	rule, ok := r.rules[name]
	if !ok {
		return nil, fmt.Errorf("metric %q not found", name)
	}
	return &rule, nil
}

// GetRules returns all rules as a slice.
func (r *FileSystemMetricRepository) GetRules() []MetricRule {
	rules := make([]MetricRule, 0, len(r.rules))
	for _, rule := range r.rules {
		rules = append(rules, rule)
	}
	return rules
}
