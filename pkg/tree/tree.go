// Package tree defines the immutable document tree that walks operate on.
// A Node is exactly one of *Object, Array or Scalar; the set is closed so a
// type switch over those three cases is exhaustive.
package tree

import (
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
)

// Kind identifies which variant a Node holds.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindObject
	KindArray
	KindScalar
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindScalar:
		return "scalar"
	default:
		return "invalid"
	}
}

// Node is a parsed document value.
type Node interface {
	Kind() Kind
	// Interface converts the node to plain Go values
	// (map[string]any, []any, string, float64/int64, bool, nil).
	Interface() any
	node()
}

// Deref returns n in its canonical form: *Object, Array or Scalar. Pointer
// forms of Array and Scalar are dereferenced and nil pointers become Null.
// Any other implementation of Node is returned unchanged.
func Deref(n Node) Node {
	switch t := n.(type) {
	case *Object:
		if t == nil {
			return Null()
		}
	case *Array:
		if t == nil {
			return Null()
		}
		return *t
	case *Scalar:
		if t == nil {
			return Null()
		}
		return *t
	}
	return n
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Node
}

// Object is an ordered mapping from unique string keys to nodes.
// Keys keep the order they were first inserted in.
type Object struct {
	members []Member
	index   map[string]int
}

// NewObject builds an object from members. A repeated key replaces the earlier
// value but keeps the earlier position.
func NewObject(members ...Member) *Object {
	o := &Object{}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Set inserts or replaces key. It is meant for parsers building a tree;
// trees handed to walks must not be modified afterwards.
func (o *Object) Set(key string, value Node) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

func (o *Object) Kind() Kind { return KindObject }

func (o *Object) node() {}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.members))
	for i, m := range o.members {
		keys[i] = m.Key
	}
	return keys
}

// Get returns the child stored under key.
func (o *Object) Get(key string) (Node, bool) {
	if o == nil || o.index == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.members[i].Value, true
}

// At returns the i-th member in document order.
func (o *Object) At(i int) Member {
	return o.members[i]
}

func (o *Object) Interface() any {
	out := make(map[string]any, o.Len())
	for i := 0; i < o.Len(); i++ {
		m := o.members[i]
		if m.Value == nil {
			out[m.Key] = nil
			continue
		}
		out[m.Key] = m.Value.Interface()
	}
	return out
}

// Array is an ordered sequence of nodes.
type Array []Node

func (a Array) Kind() Kind { return KindArray }

func (a Array) node() {}

func (a Array) Interface() any {
	out := make([]any, len(a))
	for i, v := range a {
		if v != nil {
			out[i] = v.Interface()
		}
	}
	return out
}

// Number is the literal decimal text of a JSON number.
type Number string

// Float64 parses the number as a float64.
func (n Number) Float64() (float64, error) {
	return strconv.ParseFloat(string(n), 64)
}

// Int64 parses the number as an int64.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

func (n Number) String() string { return string(n) }

// Scalar is a leaf: a string, Number, bool or nil (JSON null).
type Scalar struct {
	value any
}

// String returns a string scalar.
func String(s string) Scalar { return Scalar{value: s} }

// Num returns a number scalar holding the literal text n.
func Num(n string) Scalar { return Scalar{value: Number(n)} }

// Int returns a number scalar for an integer.
func Int(i int64) Scalar { return Num(strconv.FormatInt(i, 10)) }

// Float returns a number scalar for a float.
func Float(f float64) Scalar { return Num(strconv.FormatFloat(f, 'g', -1, 64)) }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{value: b} }

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

func (s Scalar) Kind() Kind { return KindScalar }

func (s Scalar) node() {}

// Value returns the underlying string, Number, bool or nil.
func (s Scalar) Value() any { return s.value }

// IsNull reports whether the scalar is JSON null.
func (s Scalar) IsNull() bool { return s.value == nil }

// Interface returns the scalar with numbers converted to int64 when they are
// integral and float64 otherwise.
func (s Scalar) Interface() any {
	n, ok := s.value.(Number)
	if !ok {
		return s.value
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}

// JSON renders the scalar as JSON text.
func (s Scalar) JSON() string {
	switch v := s.value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case Number:
		return string(v)
	case string:
		b, err := jsontext.AppendQuote(nil, v)
		if err != nil {
			return strconv.Quote(v)
		}
		return string(b)
	default:
		return "null"
	}
}

// String renders strings bare and everything else as JSON text.
func (s Scalar) String() string {
	if str, ok := s.value.(string); ok {
		return str
	}
	return s.JSON()
}
