package etf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRecord struct {
	Name    string `etf:"name"`
	Age     int64  `etf:"age"`
	private string //nolint:unused
	Skipped string `etf:"-"`
}

func TestRecordRoundTrip(t *testing.T) {
	in := sampleRecord{Name: "ash", Age: 30, Skipped: "nope"}
	data, err := Encode(in)
	require.NoError(t, err)

	var out sampleRecord
	require.NoError(t, DecodeInto(data, &out))
	assert.Equal(t, "ash", out.Name)
	assert.EqualValues(t, 30, out.Age)
	assert.Empty(t, out.Skipped, "tagged-out fields are never populated")
}

func TestRecordMissingFieldTakesDefault(t *testing.T) {
	data, err := Encode(map[string]any{"name": "only-name"})
	require.NoError(t, err)

	var out sampleRecord
	require.NoError(t, DecodeInto(data, &out))
	assert.Equal(t, "only-name", out.Name)
	assert.Zero(t, out.Age)
}

func TestRecordUnknownFieldSkipped(t *testing.T) {
	data, err := Encode(map[string]any{"name": "x", "unknown_field": "y"})
	require.NoError(t, err)

	var out sampleRecord
	require.NoError(t, DecodeInto(data, &out))
	assert.Equal(t, "x", out.Name)
}

func TestParseTreeMap(t *testing.T) {
	data, err := Encode(map[string]any{"a": int64(1)})
	require.NoError(t, err)

	node, err := ParseTree(data)
	require.NoError(t, err)
	assert.Equal(t, TagMap, node.Tag)
	require.Len(t, node.Children, 1)
	require.Len(t, node.Keys, 1)
	assert.Equal(t, TagBinary, node.Keys[0].Tag)
	assert.Equal(t, "a", string(node.Keys[0].Raw))
}

func TestParseTreeList(t *testing.T) {
	data, err := Encode([]any{int64(1), int64(2)})
	require.NoError(t, err)

	node, err := ParseTree(data)
	require.NoError(t, err)
	assert.Equal(t, TagList, node.Tag)
	// 2 elements + trailing NIL tail marker
	assert.Len(t, node.Children, 3)
}
