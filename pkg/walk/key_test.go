package walk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		key  *Key
		want string
	}{
		{name: "root", key: nil, want: ""},
		{name: "field", key: Field(nil, "a"), want: "a"},
		{name: "index", key: Index(nil, 3), want: "3"},
		{name: "nested", key: Field(Index(Field(nil, "a"), 1), "b"), want: "a.1.b"},
		{name: "empty field", key: Field(Field(nil, "a"), ""), want: "a."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.String())
		})
	}
}

func TestKeyAccessors(t *testing.T) {
	parent := Field(nil, "items")
	child := Index(parent, 2)

	name, ok := parent.Field()
	require.True(t, ok)
	assert.Equal(t, "items", name)
	_, ok = parent.Index()
	assert.False(t, ok)

	idx, ok := child.Index()
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	_, ok = child.Field()
	assert.False(t, ok)

	assert.Same(t, parent, child.Parent())
	assert.Nil(t, parent.Parent())
	assert.Equal(t, 2, child.Depth())

	var root *Key
	assert.Equal(t, 0, root.Depth())
	assert.Nil(t, root.Parent())
	assert.Empty(t, root.Segments())
}

func TestKeySharedParent(t *testing.T) {
	parent := Field(nil, "p")
	a := Field(parent, "a")
	b := Index(parent, 0)
	assert.Equal(t, "p.a", a.String())
	assert.Equal(t, "p.0", b.String())
	assert.Equal(t, "p", parent.String())
}

func TestKeySegments(t *testing.T) {
	k := Field(Index(Field(nil, "a"), 1), "b")
	assert.Equal(t, []Segment{
		{Field: "a"},
		{Index: 1, IsIndex: true},
		{Field: "b"},
	}, k.Segments())
	assert.Equal(t, "1", k.Segments()[1].String())
}

func TestKeyJSONPath(t *testing.T) {
	tests := []struct {
		name string
		key  *Key
		want string
	}{
		{name: "root", key: nil, want: "$"},
		{name: "nested", key: Field(Index(Field(nil, "a"), 1), "b"), want: "$['a'][1]['b']"},
		{name: "quote", key: Field(nil, "it's"), want: `$['it\'s']`},
		{name: "dot in name", key: Field(nil, "a.b"), want: "$['a.b']"},
		{name: "control", key: Field(nil, "x\ny\x01"), want: `$['x\ny\u0001']`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.JSONPath())
		})
	}
}

func TestIndexPanicsOnNegative(t *testing.T) {
	assert.Panics(t, func() { Index(nil, -1) })
}
