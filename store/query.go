package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/getditto-shared/ditto-cot/schema"
	"github.com/getditto-shared/ditto-cot/types"
)

// Query compiles and evaluates CEL filter expressions over documents.
// The document under test is bound as the variable `doc`, a map from
// field name to value:
//
//	doc.w == "a-f-G-U-C"
//	doc.j > 37.0 && doc.l < -122.0
//	has(doc.e) && doc.e.startsWith("ALPHA")
//
// Compiled programs are cached per expression; a Query is safe for
// concurrent use.
type Query struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// NewQuery returns a query engine with the standard CEL environment
// and the `doc` variable declared.
func NewQuery() *Query {
	// The standard environment cannot fail to build for a single map
	// variable declaration.
	env, err := cel.NewEnv(
		cel.Variable("doc", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		panic(fmt.Sprintf("store: failed to create CEL environment: %v", err))
	}
	return &Query{env: env, programs: make(map[string]cel.Program)}
}

// Compile checks an expression and caches its program. Returns a
// descriptive error for syntax or type problems.
func (q *Query) Compile(expr string) (cel.Program, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if prg, ok := q.programs[expr]; ok {
		return prg, nil
	}

	ast, iss := q.env.Compile(expr)
	if iss.Err() != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", iss.Err())
	}
	if ast.OutputType() != cel.BoolType && ast.OutputType() != cel.DynType {
		return nil, fmt.Errorf("filter expression must evaluate to a boolean, got %s", ast.OutputType())
	}
	prg, err := q.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build filter program: %w", err)
	}
	q.programs[expr] = prg
	return prg, nil
}

// Filter returns the documents matching the expression. Compile errors
// surface to the caller; evaluation errors on an individual document
// (a missing field referenced without has(), say) just exclude that
// document, since a filter over partially-synced documents should not
// fail wholesale.
func (q *Query) Filter(docs []schema.Document, expr string) ([]schema.Document, error) {
	prg, err := q.Compile(expr)
	if err != nil {
		return nil, err
	}

	var out []schema.Document
	for _, doc := range docs {
		val, _, err := prg.Eval(map[string]any{"doc": nativeDoc(doc)})
		if err != nil {
			continue
		}
		if matched, ok := val.Value().(bool); ok && matched {
			out = append(out, doc)
		}
	}
	return out, nil
}

// nativeDoc converts document values into shapes CEL's standard types
// understand: json.Number becomes float64, and typed detail values
// become plain maps.
func nativeDoc(doc schema.Document) map[string]any {
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = nativeValue(v)
	}
	return out
}

func nativeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t.String()
		}
		return f
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = nativeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = nativeValue(val)
		}
		return out
	case types.FieldValue:
		return nativeValue(t.ToNative())
	case types.DetailFieldMap:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = val.ToNative()
		}
		return out
	case map[string]types.FieldValue:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = val.ToNative()
		}
		return out
	default:
		return v
	}
}
