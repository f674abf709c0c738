package types

// Assignable reports whether a value of type `from` may be assigned/passed
// where `to` is expected, per the one-sided gradual rules of spec §3.3.
// A Float->Int narrowing counts as assignable here; AssignableDetail's
// narrowed flag is what lets a caller in strict mode additionally surface
// the "Potential data loss" warning (it is only ever a warning, gated to
// strict mode, per spec §4.3).
func Assignable(from, to Type) bool {
	ok, _ := assignableDetail(from, to)
	return ok
}

// AssignableDetail is Assignable plus a flag reporting whether the check
// succeeded via numeric narrowing (Float -> Int), which the analyzer uses
// to decide whether to emit a strict-mode-only warning.
func AssignableDetail(from, to Type) (ok bool, narrowed bool) {
	return assignableDetail(from, to)
}

func assignableDetail(from, to Type) (bool, bool) {
	// "null on either side returns assignable (absent type info never errors)"
	if from == nil || to == nil {
		return true, false
	}

	if _, ok := from.(UnknownType); ok {
		return true, false
	}
	if _, ok := to.(UnknownType); ok {
		return true, false
	}
	if _, ok := from.(AnyType); ok {
		return true, false
	}
	if _, ok := to.(AnyType); ok {
		return true, false
	}

	if _, ok := from.(TypeVariable); ok {
		return true, false
	}

	if fu, ok := from.(Union); ok {
		for _, m := range fu.Members {
			if ok2, _ := assignableDetail(m, to); !ok2 {
				return false, false
			}
		}
		return true, false
	}

	if _, ok := from.(NilType); ok {
		if isOption(to) {
			return true, false
		}
	}

	if fp, ok := from.(Primitive); ok {
		if tp, ok2 := to.(Primitive); ok2 {
			if fp.Name == tp.Name {
				return true, false
			}
			if fp.Name == "Int" && tp.Name == "Float" {
				return true, false // widening
			}
			if fp.Name == "Float" && tp.Name == "Int" {
				return true, true // narrowing: assignable, but flag it
			}
			return false, false
		}
	}

	if fa, ok := from.(Array); ok {
		if ta, ok2 := to.(Array); ok2 {
			ok3, narrowed := assignableDetail(fa.Elem, ta.Elem)
			return ok3, narrowed
		}
	}

	if ft, ok := from.(Tuple); ok {
		if tt, ok2 := to.(Tuple); ok2 && len(ft.Elems) == len(tt.Elems) {
			for i := range ft.Elems {
				if ok3, _ := assignableDetail(ft.Elems[i], tt.Elems[i]); !ok3 {
					return false, false
				}
			}
			return true, false
		}
	}

	if fg, ok := from.(Generic); ok {
		if tg, ok2 := to.(Generic); ok2 {
			if fg.Base != tg.Base {
				return false, false
			}
			if len(fg.Args) == 0 || len(tg.Args) == 0 {
				return true, false // bare base is a wildcard both ways
			}
			if len(fg.Args) != len(tg.Args) {
				return false, false
			}
			for i := range fg.Args {
				if ok3, _ := assignableDetail(fg.Args[i], tg.Args[i]); !ok3 {
					return false, false
				}
			}
			return true, false
		}
	}

	if name, ok := nominalName(from); ok {
		if tname, ok2 := nominalName(to); ok2 {
			return name == tname, false
		}
	}

	if tu, ok := to.(Union); ok {
		for _, m := range tu.Members {
			if ok2, _ := assignableDetail(from, m); ok2 {
				return true, false
			}
		}
		return false, false
	}

	return typeEquals(from, to), false
}

// nominalName extracts the shared name used by Record/Primitive/ADT/Generic
// mutual assignability (spec §3.3).
func nominalName(t Type) (string, bool) {
	switch v := t.(type) {
	case Record:
		return v.Name, true
	case Primitive:
		return v.Name, true
	case ADT:
		return v.Name, true
	case Generic:
		return v.Base, true
	}
	return "", false
}

func isOption(t Type) bool {
	if a, ok := t.(ADT); ok {
		return a.Name == "Option"
	}
	if g, ok := t.(Generic); ok {
		return g.Base == "Option"
	}
	return false
}
