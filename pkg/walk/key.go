package walk

import (
	"strconv"
	"strings"
)

// Key is the address of a node: one field name or array index plus a link to
// the parent key. Keys are never modified after construction, so a parent is
// shared by all of its children. The nil *Key is the document root and
// renders as "".
type Key struct {
	parent  *Key
	field   string
	index   int
	isIndex bool
	depth   int
}

// Field returns the key of the member named name below parent.
func Field(parent *Key, name string) *Key {
	return &Key{parent: parent, field: name, depth: parent.Depth() + 1}
}

// Index returns the key of element i below parent. It panics if i is negative.
func Index(parent *Key, i int) *Key {
	if i < 0 {
		panic("walk: negative array index " + strconv.Itoa(i))
	}
	return &Key{parent: parent, index: i, isIndex: true, depth: parent.Depth() + 1}
}

// Parent returns the enclosing key, or nil for a top-level segment.
func (k *Key) Parent() *Key {
	if k == nil {
		return nil
	}
	return k.parent
}

// Field returns the field name when the key addresses an object member.
func (k *Key) Field() (string, bool) {
	if k == nil || k.isIndex {
		return "", false
	}
	return k.field, true
}

// Index returns the array index when the key addresses an array element.
func (k *Key) Index() (int, bool) {
	if k == nil || !k.isIndex {
		return 0, false
	}
	return k.index, true
}

// Depth is the number of segments between the root and k.
func (k *Key) Depth() int {
	if k == nil {
		return 0
	}
	return k.depth
}

// Segment is one step of a Key: exactly one of Field or Index is meaningful,
// selected by IsIndex.
type Segment struct {
	Field   string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}
	return s.Field
}

// Segments returns the steps from the root down to k.
func (k *Key) Segments() []Segment {
	segs := make([]Segment, k.Depth())
	for cur := k; cur != nil; cur = cur.parent {
		segs[cur.depth-1] = Segment{Field: cur.field, Index: cur.index, IsIndex: cur.isIndex}
	}
	return segs
}

// String renders the dotted form, e.g. "a.1.b".
func (k *Key) String() string {
	if k == nil {
		return ""
	}
	var b strings.Builder
	k.writeDotted(&b)
	return b.String()
}

func (k *Key) writeDotted(b *strings.Builder) {
	if k.parent != nil {
		k.parent.writeDotted(b)
		b.WriteByte('.')
	}
	if k.isIndex {
		b.WriteString(strconv.Itoa(k.index))
		return
	}
	b.WriteString(k.field)
}

// JSONPath renders the normalized JSONPath form, e.g. "$['a'][1]['b']".
func (k *Key) JSONPath() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range k.Segments() {
		if s.IsIndex {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(']')
			continue
		}
		b.WriteString("['")
		b.WriteString(escapeName(s.Field))
		b.WriteString("']")
	}
	return b.String()
}

// escapeName applies the normalized-path escaping of RFC 9535 §2.7.
func escapeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteByte("0123456789abcdef"[r>>4])
				b.WriteByte("0123456789abcdef"[r&0xf])
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
