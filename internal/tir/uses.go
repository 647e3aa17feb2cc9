package tir

// ReplaceAllUses rewrites every operand across fn equal to old (by
// identity) to new, grounded on SILValue::replaceAllUsesWith. Unlike the
// teacher's intrusive use-list (each SILValue keeps its own backward
// pointer to every use), this package has no global use-list to walk, so
// the replacement is a direct scan over every instruction's operand
// fields.
func ReplaceAllUses(fn *Function, old, new Value) {
	for _, bb := range fn.Blocks {
		for _, inst := range bb.Instructions {
			replaceOperands(inst, old, new)
		}
	}
}

// CountUses returns the number of operand positions across fn equal to
// v (by identity), used by internal/sigopt to detect dead parameters
// and by ReplaceArgument callers to compute stillUsed.
func CountUses(fn *Function, v Value) int {
	n := 0
	for _, bb := range fn.Blocks {
		for _, inst := range bb.Instructions {
			for _, operand := range inst.Operands() {
				if operand == v {
					n++
				}
			}
		}
	}
	return n
}

func replaceOperands(inst Instruction, old, new Value) {
	switch t := inst.(type) {
	case *Apply:
		if t.Callee == old {
			t.Callee = new
		}
		replaceSlice(t.Args, old, new)
	case *PartialApply:
		if t.Callee == old {
			t.Callee = new
		}
		replaceSlice(t.Args, old, new)
	case *Load:
		if t.Address == old {
			t.Address = new
		}
	case *Store:
		if t.Source == old {
			t.Source = new
		}
		if t.Destination == old {
			t.Destination = new
		}
	case *Cast:
		if t.Operand == old {
			t.Operand = new
		}
	case *Br:
		replaceSlice(t.Args, old, new)
	case *CondBr:
		if t.Condition == old {
			t.Condition = new
		}
		replaceSlice(t.TrueArgs, old, new)
		replaceSlice(t.FalseArgs, old, new)
	case *SwitchEnum:
		if t.Scrutinee == old {
			t.Scrutinee = new
		}
	case *SwitchInt:
		if t.Scrutinee == old {
			t.Scrutinee = new
		}
	case *Return:
		if t.Value == old {
			t.Value = new
		}
	case *AutoreleaseReturn:
		if t.Value == old {
			t.Value = new
		}
	case *Retain:
		if t.Operand == old {
			t.Operand = new
		}
	case *Release:
		if t.Operand == old {
			t.Operand = new
		}
	case *Autorelease:
		if t.Operand == old {
			t.Operand = new
		}
	case *TupleExtract:
		if t.Tuple == old {
			t.Tuple = new
		}
	case *TupleConstruct:
		replaceSlice(t.Elements, old, new)
	}
}

func replaceSlice(vs []Value, old, new Value) {
	for i, v := range vs {
		if v == old {
			vs[i] = new
		}
	}
}
