package tree

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// FromValue converts generic Go data into a tree. It accepts the shapes
// produced by the common decoders: map[string]any, map[any]any, []any and
// their typed variants, strings, bools, nil, sized integers and floats,
// json.Number, Number, []byte (as base64 text), time.Time and any
// encoding.TextMarshaler (as its text). Map keys are ordered ascending since
// Go maps carry no order of their own.
func FromValue(v any) (Node, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case *Object, Array, Scalar, *Array, *Scalar:
		return Deref(v.(Node)), nil
	case Node:
		return nil, fmt.Errorf("unsupported node type %T", t)
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case Number:
		return Scalar{value: t}, nil
	case json.Number:
		return Num(t.String()), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Num(strconv.FormatUint(uint64(t), 10)), nil
	case uint8:
		return Num(strconv.FormatUint(uint64(t), 10)), nil
	case uint16:
		return Num(strconv.FormatUint(uint64(t), 10)), nil
	case uint32:
		return Num(strconv.FormatUint(uint64(t), 10)), nil
	case uint64:
		return Num(strconv.FormatUint(t, 10)), nil
	case float32:
		if isNonFinite(float64(t)) {
			return String(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
		}
		return Num(strconv.FormatFloat(float64(t), 'g', -1, 32)), nil
	case float64:
		if isNonFinite(t) {
			return String(strconv.FormatFloat(t, 'g', -1, 64)), nil
		}
		return Float(t), nil
	case []byte:
		return String(base64.StdEncoding.EncodeToString(t)), nil
	case time.Time:
		return String(t.Format(time.RFC3339Nano)), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			child, err := FromValue(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			obj.Set(k, child)
		}
		return obj, nil
	case []any:
		arr := make(Array, len(t))
		for i, e := range t {
			child, err := FromValue(e)
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			arr[i] = child
		}
		return arr, nil
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return nil, err
		}
		return String(string(text)), nil
	default:
		return fromReflect(reflect.ValueOf(v))
	}
}

// isNonFinite reports NaN and the infinities, which JSON cannot represent.
// They are kept as their text in a string scalar.
func isNonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

// fromReflect handles typed containers such as map[any]any, map[string]string
// or []string.
func fromReflect(rv reflect.Value) (Node, error) {
	//exhaustive:ignore // only containers and pointers are convertible here
	switch rv.Kind() {
	case reflect.Map:
		type entry struct {
			key   string
			value reflect.Value
		}
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			for k.Kind() == reflect.Interface && !k.IsNil() {
				k = k.Elem()
			}
			var key string
			if k.Kind() == reflect.String {
				key = k.String()
			} else {
				key = fmt.Sprintf("%v", k.Interface())
			}
			entries = append(entries, entry{key: key, value: iter.Value()})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		obj := NewObject()
		for _, e := range entries {
			child, err := FromValue(e.value.Interface())
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", e.key, err)
			}
			obj.Set(e.key, child)
		}
		return obj, nil
	case reflect.Slice, reflect.Array:
		arr := make(Array, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			child, err := FromValue(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("element [%d]: %w", i, err)
			}
			arr[i] = child
		}
		return arr, nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromValue(rv.Elem().Interface())
	case reflect.Invalid:
		return Null(), nil
	default:
		return nil, fmt.Errorf("unsupported type %s", rv.Type())
	}
}
