package errors

import "testing"

func TestErrorCodeTaxonomy(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		phase    string
		category string
	}{
		{"MOD001", MOD001, "module", "structure"},
		{"MOD004", MOD004, "module", "namespace"},
		{"LDR001", LDR001, "loader", "resolution"},
		{"LDR002", LDR002, "loader", "dependency"},
		{"AST002", AST002, "ast", "lookup"},
		{"TYC001", TYC001, "types", "equality"},
		{"IR001", IR001, "ir", "structure"},
		{"IR006", IR006, "ir", "switch"},
		{"CG001", CG001, "callgraph", "completeness"},
		{"RC001", RC001, "rcdataflow", "pairing"},
		{"SIG002", SIG002, "sigopt", "mangling"},
		{"CLI001", CLI001, "driver", "unimplemented"},
		{"PAR002", PAR002, "parser", "syntax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, exists := GetErrorInfo(tt.code)
			if !exists {
				t.Fatalf("error code %s not found in registry", tt.code)
			}
			if info.Code != tt.code {
				t.Errorf("code mismatch: got %s, want %s", info.Code, tt.code)
			}
			if info.Phase != tt.phase {
				t.Errorf("phase mismatch for %s: got %s, want %s", tt.code, info.Phase, tt.phase)
			}
			if info.Category != tt.category {
				t.Errorf("category mismatch for %s: got %s, want %s", tt.code, info.Category, tt.category)
			}
		})
	}
}

func TestErrorTypeCheckers(t *testing.T) {
	if !IsModuleError(MOD001) {
		t.Errorf("IsModuleError(%s) = false, want true", MOD001)
	}
	if !IsLoaderError(LDR001) {
		t.Errorf("IsLoaderError(%s) = false, want true", LDR001)
	}
	if !IsASTError(AST001) {
		t.Errorf("IsASTError(%s) = false, want true", AST001)
	}
	if !IsTypeError(TYC001) {
		t.Errorf("IsTypeError(%s) = false, want true", TYC001)
	}
	if !IsIRError(IR001) {
		t.Errorf("IsIRError(%s) = false, want true", IR001)
	}
	if !IsCallGraphError(CG001) {
		t.Errorf("IsCallGraphError(%s) = false, want true", CG001)
	}
	if !IsRCDataflowError(RC001) {
		t.Errorf("IsRCDataflowError(%s) = false, want true", RC001)
	}
	if !IsSigOptError(SIG001) {
		t.Errorf("IsSigOptError(%s) = false, want true", SIG001)
	}
	if !IsDriverError(CLI001) {
		t.Errorf("IsDriverError(%s) = false, want true", CLI001)
	}
	if !IsParserError(PAR001) {
		t.Errorf("IsParserError(%s) = false, want true", PAR001)
	}
	if IsModuleError(IR001) {
		t.Errorf("IsModuleError(%s) = true, want false", IR001)
	}
}

func TestErrorInfoConsistency(t *testing.T) {
	validPhases := map[string]bool{
		"module": true, "loader": true, "ast": true, "types": true,
		"ir": true, "callgraph": true, "rcdataflow": true, "sigopt": true,
		"driver": true, "parser": true,
	}
	for code, info := range ErrorRegistry {
		if info.Code != code {
			t.Errorf("code mismatch in registry: key=%s, info.Code=%s", code, info.Code)
		}
		if len(code) < 4 || len(code) > 6 {
			t.Errorf("invalid code format: %s", code)
		}
		if !validPhases[info.Phase] {
			t.Errorf("invalid phase for %s: %s", code, info.Phase)
		}
		if info.Description == "" {
			t.Errorf("empty description for %s", code)
		}
	}
}
