package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-sif/aggregate"
	"github.com/go-sif/aggregate/functions"
	"github.com/go-sif/aggregate/row"
)

type registration struct {
	factory     aggregate.AggregateFunctionFactory
	description string
}

// registry maps function names to constructors. composed() is resolved separately by lookup.
var registry = map[string]registration{
	"count":     {functions.NewCount, "number of rows, or of non-null values of its argument"},
	"sum":       {functions.NewSum, "sum of a numeric argument, as Int64, UInt64 or Float64"},
	"avg":       {functions.NewAvg, "arithmetic mean of a numeric argument, as Float64"},
	"min":       {functions.NewMin, "least value of a numeric or string argument"},
	"max":       {functions.NewMax, "greatest value of a numeric or string argument"},
	"any":       {functions.NewAny, "first value encountered (order-sensitive)"},
	"uniq":      {functions.NewUniq, "approximate number of distinct values (HyperLogLog)"},
	"uniqExact": {functions.NewUniqExact, "exact number of distinct values"},
	"quantile":  {functions.NewQuantile, "approximate quantile of a numeric argument (DDSketch), level defaults to 0.5"},
}

// lookup resolves a function expression: a registered name, optionally followed by
// numeric parameters as in quantile(0.9), or composed(expr, ...). The parameters of a
// top-level function are returned separately; those of composed() children are bound
// to the child.
func lookup(expr string) (aggregate.AggregateFunctionFactory, aggregate.Row, error) {
	expr = strings.TrimSpace(expr)
	name, inner, hasArgs, err := splitCall(expr)
	if err != nil {
		return nil, nil, err
	}
	if name == "composed" {
		if !hasArgs {
			return nil, nil, fmt.Errorf("composed needs at least one function, as in composed(count, sum)")
		}
		parts, err := splitArgs(inner)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", expr, err)
		}
		children := make([]functions.Child, 0, len(parts))
		for _, part := range parts {
			f, params, err := lookup(part)
			if err != nil {
				return nil, nil, err
			}
			children = append(children, functions.Child{New: f, Params: params})
		}
		return functions.Compose(children...), nil, nil
	}
	reg, ok := registry[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown aggregate function %q", name)
	}
	if !hasArgs {
		return reg.factory, nil, nil
	}
	parts, err := splitArgs(inner)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", expr, err)
	}
	values := make([]float64, len(parts))
	for i, part := range parts {
		if values[i], err = strconv.ParseFloat(strings.TrimSpace(part), 64); err != nil {
			return nil, nil, fmt.Errorf("%s: parameter %d is not a number: %w", expr, i, err)
		}
	}
	params, err := paramsRow(values)
	if err != nil {
		return nil, nil, err
	}
	return reg.factory, params, nil
}

// splitCall splits "name(inner)" into its parts. A bare name has no inner part.
func splitCall(expr string) (name, inner string, hasArgs bool, err error) {
	open := strings.IndexByte(expr, '(')
	if open < 0 {
		return expr, "", false, nil
	}
	if !strings.HasSuffix(expr, ")") {
		return "", "", false, fmt.Errorf("malformed function expression %q", expr)
	}
	return strings.TrimSpace(expr[:open]), expr[open+1 : len(expr)-1], true, nil
}

// splitArgs splits a comma-separated list, ignoring commas nested inside parentheses
func splitArgs(s string) ([]string, error) {
	var (
		parts []string
		depth int
		from  int
	)
	for i, c := range s {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[from:i])
				from = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses")
	}
	parts = append(parts, s[from:])
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("empty argument")
		}
	}
	return parts, nil
}

// paramsRow builds a parameter Row from numeric values, or nil if there are none
func paramsRow(values []float64) (aggregate.Row, error) {
	if len(values) == 0 {
		return nil, nil
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return row.Infer(vals...)
}

func registeredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the available aggregate functions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, name := range registeredNames() {
			fmt.Fprintf(out, "%-10s %s\n", name, registry[name].description)
		}
		fmt.Fprintf(out, "%-10s %s\n", "composed", "composed(f1, f2, ...) applies several functions to the same arguments")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Parameters may be given inline, as in quantile(0.9), and composed() may be nested:")
		fmt.Fprintln(out, "  composed(count, quantile(0.5), composed(min, max))")
		return nil
	},
}
