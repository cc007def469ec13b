package snowflake

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	id, err := Parse("175928847299117063")
	require.NoError(t, err)
	assert.Equal(t, "175928847299117063", id.String())
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		ID ID `json:"id"`
	}

	w := wrapper{ID: 175928847299117063}
	data, err := json.Marshal(w)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"175928847299117063"}`, string(data))

	var out wrapper
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, w.ID, out.ID)
}

func TestUnmarshalBareNumber(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`123456`), &id))
	assert.Equal(t, ID(123456), id)
}

func TestUnmarshalNull(t *testing.T) {
	var id ID
	require.NoError(t, json.Unmarshal([]byte(`null`), &id))
	assert.True(t, id.IsZero())
}

func TestMapKeyEquality(t *testing.T) {
	m := map[ID]string{}
	m[ID(1)] = "a"
	m[ID(1)] = "b"
	assert.Len(t, m, 1)
	assert.Equal(t, "b", m[ID(1)])
}
