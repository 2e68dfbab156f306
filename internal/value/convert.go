package value

import (
	"fmt"
	"reflect"
	"strconv"
)

// From converts an arbitrary Go value into a Value:
//   - Value is returned as is
//   - nil and nil pointers become None
//   - non-nil pointers become Some of the pointee's text
//   - slices and arrays become a List of their elements' text
//   - strings, numbers, booleans and fmt.Stringer implementations become a Literal
//
// Maps, structs without a String method, channels and functions are rejected.
func From(v any) (Value, error) {
	switch x := v.(type) {
	case Value:
		return x, nil
	case *Value:
		if x == nil {
			return None(), nil
		}
		return *x, nil
	case nil:
		return None(), nil
	case string:
		return Literal(x), nil
	case *string:
		return Optional(x), nil
	case []string:
		return List(x...), nil
	case fmt.Stringer:
		if rv := reflect.ValueOf(x); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return None(), nil
		}
		return Literal(x.String()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return None(), nil
		}
		s, err := scalarText(rv.Elem())
		if err != nil {
			return Value{}, err
		}
		return Some(s), nil
	case reflect.Slice, reflect.Array:
		items := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			s, err := scalarText(rv.Index(i))
			if err != nil {
				return Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			items = append(items, s)
		}
		return List(items...), nil
	default:
		s, err := scalarText(rv)
		if err != nil {
			return Value{}, err
		}
		return Literal(s), nil
	}
}

// MustFrom is like From but panics on unsupported types.
func MustFrom(v any) Value {
	out, err := From(v)
	if err != nil {
		panic(err)
	}
	return out
}

func scalarText(rv reflect.Value) (string, error) {
	if rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", fmt.Errorf("cannot bind nil element")
		}
		rv = rv.Elem()
	}
	if rv.CanInterface() {
		if s, ok := rv.Interface().(fmt.Stringer); ok {
			return s.String(), nil
		}
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("cannot bind value of type %s", rv.Type())
	}
}
