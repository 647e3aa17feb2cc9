package errors

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ailang-project/corec/internal/schema"
)

func TestNewTypesError(t *testing.T) {
	err := NewTypesError(TYC001, "Canonical type mismatch", nil)

	if err.Schema != schema.ErrorV1 {
		t.Errorf("Expected schema %s, got %s", schema.ErrorV1, err.Schema)
	}
	if err.Phase != "types" {
		t.Errorf("Expected phase types, got %s", err.Phase)
	}
	if err.Code != TYC001 {
		t.Errorf("Expected code %s, got %s", TYC001, err.Code)
	}
}

func TestWithFix(t *testing.T) {
	err := NewTypesError(TYC003, "Unresolved generic parameter", nil)
	err = err.WithFix("Provide an explicit type argument", 0.9)

	if err.Fix.Suggestion != "Provide an explicit type argument" {
		t.Errorf("Expected fix suggestion, got %s", err.Fix.Suggestion)
	}
	if err.Fix.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %f", err.Fix.Confidence)
	}
}

func TestWithSourceSpan(t *testing.T) {
	err := NewIRError(IR001, "Missing terminator", nil)
	err = err.WithSourceSpan("main.x:10:5")

	if err.SourceSpan != "main.x:10:5" {
		t.Errorf("Expected source span main.x:10:5, got %s", err.SourceSpan)
	}
}

func TestWithMeta(t *testing.T) {
	meta := map[string]string{
		"hint":     "Check the callee's parameter list",
		"severity": "error",
	}

	err := NewCallGraphError(CG002, "No node for function", nil)
	err = err.WithMeta(meta)

	if err.Meta == nil {
		t.Error("Expected meta to be set")
	}
}

func TestToJSON(t *testing.T) {
	ctx := ErrorContext{
		Constraints: []string{"switch_enum over Optional<Int>"},
		Decisions:   []string{"no default destination present"},
	}

	err := NewIRError(IR006, "Non-exhaustive switch_enum", ctx).
		WithFix("Add a default destination or cover every case", 0.85).
		WithSourceSpan("test.x:5:10")

	jsonData, jsonErr := err.ToJSON()
	if jsonErr != nil {
		t.Fatalf("ToJSON failed: %v", jsonErr)
	}

	var result map[string]interface{}
	if parseErr := json.Unmarshal(jsonData, &result); parseErr != nil {
		t.Fatalf("Failed to parse JSON: %v", parseErr)
	}

	if result["schema"] != schema.ErrorV1 {
		t.Errorf("Expected schema %s, got %v", schema.ErrorV1, result["schema"])
	}
	if result["phase"] != "ir" {
		t.Errorf("Expected phase ir, got %v", result["phase"])
	}
	if result["code"] != IR006 {
		t.Errorf("Expected code %s, got %v", IR006, result["code"])
	}
	if _, ok := result["fix"]; !ok {
		t.Error("Fix field should always be present")
	}
}

func TestSafeEncodeError(t *testing.T) {
	result := SafeEncodeError(nil, "ir")
	if result != nil {
		t.Error("Expected nil for nil error")
	}

	testErr := &testError{msg: "verifier failure"}
	result = SafeEncodeError(testErr, "ir")

	var parsed map[string]interface{}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("Failed to parse result: %v", err)
	}

	if parsed["phase"] != "ir" {
		t.Errorf("Expected phase ir, got %v", parsed["phase"])
	}
	if !strings.Contains(parsed["message"].(string), "verifier failure") {
		t.Errorf("Expected message to contain 'verifier failure', got %v", parsed["message"])
	}
}

func TestFormatSourceSpan(t *testing.T) {
	tests := []struct {
		file     string
		line     int
		col      int
		expected string
	}{
		{"main.x", 10, 5, "main.x:10:5"},
		{"test.x", 1, 1, "test.x:1:1"},
		{"/path/to/file.x", 100, 25, "/path/to/file.x:100:25"},
	}

	for _, tt := range tests {
		result := FormatSourceSpan(tt.file, tt.line, tt.col)
		if result != tt.expected {
			t.Errorf("FormatSourceSpan(%s, %d, %d) = %s, want %s",
				tt.file, tt.line, tt.col, result, tt.expected)
		}
	}
}

func TestErrorCodePrefixes(t *testing.T) {
	groups := map[string][]string{
		"TYC": {TYC001, TYC002, TYC003, TYC004},
		"IR":  {IR001, IR002, IR003, IR004, IR005, IR006, IR007, IR008, IR009, IR010},
		"CG":  {CG001, CG002},
		"RC":  {RC001, RC002},
		"SIG": {SIG001, SIG002},
	}
	for prefix, codes := range groups {
		for _, code := range codes {
			if !strings.HasPrefix(code, prefix) {
				t.Errorf("code %s should start with %s", code, prefix)
			}
		}
	}
}

// Helper type for testing
type testError struct {
	msg string
}

func (e *testError) Error() string {
	return e.msg
}
