// Package filter provides client-side filtering of FOLIO records using the
// expr expression language. CQL narrows result sets server-side; filters
// refine them locally with predicates CQL cannot express, evaluated against
// the raw JSON documents.
//
// Example expressions:
//
//	active && personal.lastName startsWith "S"
//	date(expirationDate) < now()
//	status.name == "Open" && date(dueDate) < daysAgo(30)
package filter

import (
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled record predicate safe for reuse across records.
type Filter struct {
	expression string
	program    *vm.Program
}

// Compile turns an expression into a reusable filter. Record fields resolve
// as top-level identifiers; unknown fields evaluate to nil rather than
// failing, since FOLIO records omit empty fields.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression,
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     err.Error(),
			Err:        err,
		}
	}

	return &Filter{expression: expression, program: program}, nil
}

// Expression returns the source expression the filter was compiled from.
func (f *Filter) Expression() string {
	return f.expression
}

// Match evaluates the filter against a decoded record.
func (f *Filter) Match(record map[string]any) (bool, error) {
	env := make(map[string]any, len(record)+len(helperFuncs))
	maps.Copy(env, helperFuncs)
	maps.Copy(env, record)

	output, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     err.Error(),
			Err:        err,
		}
	}
	matched, ok := output.(bool)
	if !ok {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     fmt.Sprintf("expression produced %T, want bool", output),
		}
	}
	return matched, nil
}

// MatchRaw evaluates the filter against an undecoded JSON record, as yielded
// by the pagination iterator.
func (f *Filter) MatchRaw(raw json.RawMessage) (bool, error) {
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			Reason:     "record is not a JSON object",
			Err:        err,
		}
	}
	return f.Match(record)
}

// helperFuncs are the functions available inside filter expressions.
var helperFuncs = map[string]any{
	"now": func() time.Time {
		return time.Now()
	},
	// date parses the timestamp formats FOLIO emits: bare days and RFC3339.
	"date": func(value string) time.Time {
		for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05.000-0700"} {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed
			}
		}
		return time.Time{}
	},
	"daysAgo": func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	},
}
