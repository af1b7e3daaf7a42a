package resolve

import "reflect"

// Constructible reports whether a value of type t can be built from args.
func Constructible(t reflect.Type, args ...reflect.Type) bool {
	switch len(args) {
	case 0:
		return true
	case 1:
		if Convertible(args[0], t) {
			return true
		}
	}
	return composite(t, args)
}

// Convertible covers assignment and the conversions accepted for one argument.
func Convertible(from, to reflect.Type) bool {
	if from == nil {
		return nilable(to.Kind())
	}
	if from == to || from.AssignableTo(to) {
		return true
	}
	if !from.ConvertibleTo(to) {
		return false
	}

	fk, tk := from.Kind(), to.Kind()
	switch {
	case isInteger(fk) && tk == reflect.String:
		return false
	case fk == reflect.Slice && (tk == reflect.Array || tk == reflect.Pointer):
		return false
	case isNumeric(fk) && isNumeric(tk):
		return true
	case fk == reflect.String && isTextSlice(to):
		return true
	case isTextSlice(from) && tk == reflect.String:
		return true
	}
	return fk == tk
}

// composite reports whether t is a struct literal T{args...} with every field exported.
func composite(t reflect.Type, args []reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() != len(args) {
		return false
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			return false
		}
		if args[i] == nil {
			if !nilable(f.Type.Kind()) {
				return false
			}
			continue
		}
		if !args[i].AssignableTo(f.Type) {
			return false
		}
	}
	return true
}

func assignable(from, to reflect.Type) bool {
	if from == nil {
		return nilable(to.Kind())
	}
	return from.AssignableTo(to)
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumeric(k reflect.Kind) bool {
	return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
}

func isTextSlice(t reflect.Type) bool {
	if t.Kind() != reflect.Slice {
		return false
	}
	ek := t.Elem().Kind()
	return ek == reflect.Uint8 || ek == reflect.Int32
}
