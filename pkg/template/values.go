package template

import (
	"fmt"
	"reflect"
)

// lookup returns the string form of a variable. Slices and arrays yield one entry per
// element; ok is false when the variable is absent or nil.
func lookup(vars map[string]any, name string) (values []string, ok bool) {
	if vars == nil {
		return nil, false
	}
	v, found := vars[name]
	if !found || v == nil {
		return nil, false
	}

	switch x := v.(type) {
	case string:
		return []string{x}, true
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out, true
	case []byte:
		return []string{string(x)}, true
	case fmt.Stringer:
		return []string{x.String()}, true
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			if s, ok := stringify(rv.Index(i)); ok {
				out = append(out, s)
			}
		}
		return out, true
	}

	s, ok := stringify(rv)
	if !ok {
		return nil, false
	}
	return []string{s}, true
}

func stringify(rv reflect.Value) (string, bool) {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return "", false
	}
	if rv.CanInterface() {
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String(), true
		}
	}
	return fmt.Sprint(rv.Interface()), true
}
