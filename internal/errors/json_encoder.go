// Package errors provides structured error encoding for machine-readable
// diagnostics.
package errors

import (
	"fmt"

	"github.com/ailang-project/corec/internal/schema"
)

// Fix represents a suggested fix with confidence score.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Encoded represents a structured error in JSON format.
type Encoded struct {
	Schema     string      `json:"schema"`
	Phase      string      `json:"phase"`
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	Fix        Fix         `json:"fix"`
	Context    interface{} `json:"context,omitempty"`
	SourceSpan string      `json:"source_span,omitempty"`
	Meta       interface{} `json:"meta,omitempty"`
}

func newEncoded(phase, code, msg string, ctx interface{}) Encoded {
	return Encoded{
		Schema:  schema.ErrorV1,
		Phase:   phase,
		Code:    code,
		Message: msg,
		Fix:     Fix{Suggestion: "", Confidence: 0.0},
		Context: ctx,
	}
}

// NewLoaderError creates a module-loader phase error.
func NewLoaderError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("loader", code, msg, ctx)
}

// NewASTError creates an AST-context phase error (identifier interning,
// name lookup, pattern shape mismatches).
func NewASTError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("ast", code, msg, ctx)
}

// NewTypesError creates a type-system phase error (canonicalization,
// conformance, substitution).
func NewTypesError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("types", code, msg, ctx)
}

// NewIRError creates a typed-IR verifier phase error.
func NewIRError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("ir", code, msg, ctx)
}

// NewCallGraphError creates a call-graph construction phase error.
func NewCallGraphError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("callgraph", code, msg, ctx)
}

// NewRCDataflowError creates a reference-count dataflow phase error.
func NewRCDataflowError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("rcdataflow", code, msg, ctx)
}

// NewSigOptError creates a function-signature optimization phase error.
func NewSigOptError(code, msg string, ctx interface{}) Encoded {
	return newEncoded("sigopt", code, msg, ctx)
}

// WithFix adds a fix suggestion to the error.
func (e Encoded) WithFix(suggestion string, confidence float64) Encoded {
	e.Fix = Fix{Suggestion: suggestion, Confidence: confidence}
	return e
}

// WithSourceSpan adds a source location to the error.
func (e Encoded) WithSourceSpan(span string) Encoded {
	e.SourceSpan = span
	return e
}

// WithMeta adds metadata to the error.
func (e Encoded) WithMeta(meta interface{}) Encoded {
	e.Meta = meta
	return e
}

// ToJSON converts the error to deterministic JSON.
func (e Encoded) ToJSON() ([]byte, error) {
	data, err := schema.MarshalDeterministic(e)
	if err != nil {
		fallback := Encoded{
			Schema:  schema.ErrorV1,
			Message: "encoding failed",
			Meta:    map[string]string{"original_error": err.Error()},
		}
		return schema.MarshalDeterministic(fallback)
	}
	return schema.FormatJSON(data)
}

// ErrorContext provides structured context for errors.
type ErrorContext struct {
	Constraints []string          `json:"constraints,omitempty"`
	Decisions   []string          `json:"decisions,omitempty"`
	TraceSlice  string            `json:"trace_slice,omitempty"`
	Environment map[string]string `json:"environment,omitempty"`
}

// SafeEncodeError safely encodes any error, never panics.
func SafeEncodeError(err error, phase string) []byte {
	if err == nil {
		return nil
	}
	encoded := Encoded{
		Schema:  schema.ErrorV1,
		Phase:   phase,
		Code:    "ERR000",
		Message: err.Error(),
		Fix:     Fix{Suggestion: "", Confidence: 0.0},
	}
	data, _ := encoded.ToJSON()
	return data
}

// FormatSourceSpan formats a file position as "file:line:col".
func FormatSourceSpan(file string, line, col int) string {
	return fmt.Sprintf("%s:%d:%d", file, line, col)
}
