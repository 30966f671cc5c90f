package main

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/NTPCPHARMACY/HRPC/pkg/content"
)

// recordFilter evaluates a boolean expr-lang expression against the fields
// of a record, e.g. `date >= "2025-01-01" && title contains "SOP"`.
type recordFilter struct {
	source  string
	program *vm.Program
}

// filterEnv declares the variables of kind so that field names shadow expr
// builtins such as date.
func filterEnv(kind content.Kind) map[string]any {
	env := map[string]any{"id": int64(0), "kind": ""}
	for _, name := range content.Fields(kind) {
		env[name] = ""
	}
	return env
}

func compileFilter(kind content.Kind, source string) (*recordFilter, error) {
	if source == "" {
		return nil, nil
	}
	program, err := expr.Compile(source,
		expr.Env(filterEnv(kind)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", source, err)
	}
	return &recordFilter{source: source, program: program}, nil
}

// Match reports whether rec satisfies the filter. A nil filter matches
// everything.
func (f *recordFilter) Match(rec content.Record) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := expr.Run(f.program, content.Map(rec))
	if err != nil {
		return false, fmt.Errorf("filter %q: %w", f.source, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

func filterRecords(recs []content.Record, f *recordFilter) ([]content.Record, error) {
	out := make([]content.Record, 0, len(recs))
	for _, rec := range recs {
		ok, err := f.Match(rec)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}
