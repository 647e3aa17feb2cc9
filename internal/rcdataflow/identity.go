package rcdataflow

import "github.com/ailang-project/corec/internal/tir"

// identityPreservingCasts names the tir.CastKind values that preserve a
// reference's identity — the stripped value still names the same
// retain-counted object, merely viewed through a different static type
// (spec.md §4.8: "stripped through all casts that preserve reference
// identity (reference-bit-casts included)"). Casts that box, unbox, or
// bridge representation (CastBridgeToBlock, CastConvertCC,
// CastOpenExistential, CastInitExistential, CastDeinitExistential) are
// deliberately excluded: they can change which object is retained.
var identityPreservingCasts = map[tir.CastKind]bool{
	tir.CastUpcast:          true,
	tir.CastDowncast:        true,
	tir.CastRefToRawPointer: true,
	tir.CastRawPointerToRef: true,
	tir.CastRefToUnowned:    true,
	tir.CastUnownedToRef:    true,
	tir.CastThinToThick:     true,
}

// IdentityRoot strips v through every identity-preserving cast that
// produced it, returning the dominating origin value a retain or
// release on v actually affects. A *tir.Cast instruction is itself the
// Value its result stands for, so walking the chain is a direct type
// assertion with no separate def-use map required.
func IdentityRoot(v tir.Value) tir.Value {
	for {
		cast, ok := v.(*tir.Cast)
		if !ok || !identityPreservingCasts[cast.Kind] {
			return v
		}
		v = cast.Operand
	}
}
