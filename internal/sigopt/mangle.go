package sigopt

import "strings"

// optimizedPrefix tags a mangled name as the output of this pass,
// mirroring FunctionSignatureOpts.cpp's "_TTOS_" prefix (Thunked,
// Transformed, Optimized Signature) and its isSpecializedFunction guard
// against re-specializing an already-optimized function.
const optimizedPrefix = "_TTOS_"

// IsOptimizedName reports whether name was produced by Mangle, mirroring
// FunctionSignatureOpts.cpp's isSpecializedFunction check that stops the
// pass from re-optimizing its own output.
func IsOptimizedName(name string) bool {
	return strings.HasPrefix(name, optimizedPrefix)
}

// Mangle produces the new function's deterministic name: one packed tag
// per original parameter (spec.md §4.9: 'd' dead, 'o2g' owned→guaranteed,
// 's' exploded, 'n' nothing) followed by the original name, grounded on
// FunctionSignatureOpts.cpp's getOptimizedName. Two functions with the
// same original name and the same per-argument actions always mangle to
// the same name, making a second run of the pass over already-optimized
// code a no-op (idempotency, spec.md §4.9).
func Mangle(originalName string, descs []*ArgumentDescriptor) string {
	var b strings.Builder
	b.WriteString(optimizedPrefix)
	for _, d := range descs {
		if d.Dead {
			b.WriteByte('d')
			continue
		}
		willOptimize := false
		if d.CalleeRelease != nil {
			b.WriteString("o2g")
			willOptimize = true
		}
		if d.CanExplode() {
			b.WriteByte('s')
			willOptimize = true
		}
		if !willOptimize {
			b.WriteByte('n')
		}
	}
	b.WriteByte('_')
	b.WriteString(originalName)
	return b.String()
}
