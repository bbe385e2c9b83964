package navigator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/jsonwalk/pkg/loader"
	"github.com/oakwood-commons/jsonwalk/pkg/tree"
)

func mustLoad(t *testing.T, input string) tree.Node {
	t.Helper()
	root, err := loader.LoadRoot(input)
	require.NoError(t, err)
	return root
}

func TestDetectShape(t *testing.T) {
	tests := []struct {
		name         string
		data         string
		wantKind     ShapeKind
		wantLen      int
		wantScalars  int
		wantMaxDepth int
	}{
		{name: "null", data: `null`, wantKind: ShapeScalar, wantScalars: 1},
		{name: "string scalar", data: `"hello"`, wantKind: ShapeScalar, wantScalars: 1},
		{name: "empty object", data: `{}`, wantKind: ShapeObject},
		{name: "object with values", data: `{"a": 1, "b": {"c": 2}}`, wantKind: ShapeObject, wantLen: 2, wantScalars: 2, wantMaxDepth: 2},
		{name: "empty array", data: `[]`, wantKind: ShapeArray},
		{name: "simple array", data: `[1, 2, 3]`, wantKind: ShapeArray, wantLen: 3, wantScalars: 3, wantMaxDepth: 1},
		{
			name:         "homogeneous array of objects",
			data:         `[{"name": "a", "id": 1}, {"id": 2, "name": "b"}]`,
			wantKind:     ShapeHomogeneousArray,
			wantLen:      2,
			wantScalars:  4,
			wantMaxDepth: 2,
		},
		{name: "mixed array", data: `[{"a": 1}, 2]`, wantKind: ShapeArray, wantLen: 2, wantScalars: 2, wantMaxDepth: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := DetectShape(mustLoad(t, tt.data))
			assert.Equal(t, tt.wantKind, info.Kind)
			assert.Equal(t, tt.wantLen, info.Length)
			assert.Equal(t, tt.wantScalars, info.Scalars)
			assert.Equal(t, tt.wantMaxDepth, info.MaxDepth)
		})
	}
}

func TestIsHomogeneousArrayFields(t *testing.T) {
	arr, ok := mustLoad(t, `[{"name": "a", "id": 1}, {"id": 2, "name": "b"}]`).(tree.Array)
	require.True(t, ok)

	homogeneous, fields := IsHomogeneousArray(arr)
	assert.True(t, homogeneous)
	assert.Equal(t, []string{"name", "id"}, fields)
}

func TestIsHomogeneousArrayRejects(t *testing.T) {
	tests := map[string]string{
		"empty":          `[]`,
		"scalars":        `[1, 2]`,
		"empty objects":  `[{}, {}]`,
		"different keys": `[{"a": 1}, {"b": 1}]`,
		"extra key":      `[{"a": 1}, {"a": 1, "b": 2}]`,
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			arr, ok := mustLoad(t, input).(tree.Array)
			require.True(t, ok)
			homogeneous, fields := IsHomogeneousArray(arr)
			assert.False(t, homogeneous)
			assert.Nil(t, fields)
		})
	}
}

func TestDetectShapeNil(t *testing.T) {
	info := DetectShape(nil)
	assert.Equal(t, ShapeScalar, info.Kind)
	assert.Zero(t, info.Scalars)
}
