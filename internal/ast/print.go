package ast

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// declContextType is excluded from Dump's descent: a DeclContext points
// back up toward the tree's root, and walking it would turn a tree dump
// into a cycle.
var declContextType = reflect.TypeOf((*DeclContext)(nil)).Elem()

// skipField names fields that hold a node's enclosing context rather than
// its children, to keep Dump from walking back up the tree it is
// printing.
func skipField(name string) bool {
	switch name {
	case "DC", "Parent", "Decl":
		return true
	default:
		return false
	}
}

// Dump renders n as a deterministic, indented textual tree: every field
// of every node is visited generically via reflection rather than by an
// exhaustive per-kind type switch, so adding a node kind or field never
// requires touching this file. It is meant for golden-file tests and
// debugging, not for round-tripping back to source.
func Dump(n Node) string {
	var b strings.Builder
	dumpValue(&b, reflect.ValueOf(n), 0, make(map[uintptr]bool))
	return b.String()
}

func dumpValue(b *strings.Builder, v reflect.Value, depth int, seen map[uintptr]bool) {
	indent := strings.Repeat("  ", depth)
	if !v.IsValid() {
		b.WriteString(indent + "nil\n")
		return
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			b.WriteString(indent + "nil\n")
			return
		}
		if v.Kind() == reflect.Ptr {
			addr := v.Pointer()
			if seen[addr] {
				b.WriteString(indent + "<cycle>\n")
				return
			}
			seen[addr] = true
		}
		dumpValue(b, v.Elem(), depth, seen)
	case reflect.Struct:
		b.WriteString(indent + typeName(v.Type()) + "\n")
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || skipField(f.Name) {
				continue
			}
			fv := v.Field(i)
			if isLeaf(fv) {
				b.WriteString(fmt.Sprintf("%s  %s: %s\n", indent, f.Name, leafString(fv)))
				continue
			}
			b.WriteString(fmt.Sprintf("%s  %s:\n", indent, f.Name))
			dumpValue(b, fv, depth+2, seen)
		}
	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			b.WriteString(indent + "[]\n")
			return
		}
		for i := 0; i < v.Len(); i++ {
			dumpValue(b, v.Index(i), depth, seen)
		}
	case reflect.Map:
		keys := v.MapKeys()
		strs := make([]string, len(keys))
		for i, k := range keys {
			strs[i] = fmt.Sprint(k.Interface())
		}
		sort.Strings(strs)
		for _, k := range strs {
			b.WriteString(fmt.Sprintf("%s  %s:\n", indent, k))
		}
	default:
		b.WriteString(indent + leafString(v) + "\n")
	}
}

// isLeaf reports whether v should be rendered inline rather than
// recursed into: anything that isn't itself a Node-family type, a
// pointer/interface to one, or a collection of them.
func isLeaf(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	t := v.Type()
	if t.Implements(reflect.TypeOf((*Node)(nil)).Elem()) {
		return false
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Struct, reflect.Slice, reflect.Array, reflect.Map:
		if t.Kind() == reflect.Ptr || t.Kind() == reflect.Interface {
			if !v.IsValid() || v.IsNil() {
				return true
			}
			return isLeaf(v.Elem())
		}
		if t == declContextType {
			return true
		}
		return false
	default:
		return true
	}
}

func leafString(v reflect.Value) string {
	if !v.IsValid() {
		return "<nil>"
	}
	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "<nil>"
		}
		return leafString(v.Elem())
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", v.Interface())
}

func typeName(t reflect.Type) string {
	name := t.Name()
	if name == "" {
		return t.String()
	}
	return name
}
