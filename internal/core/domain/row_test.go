package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_SetAndGet(t *testing.T) {
	row := NewRow(2)
	row.Set("id", int64(1))
	row.Set("flag", int64(1))

	v, ok := row.Get("id")
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)

	_, ok = row.Get("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"id", "flag"}, row.Columns())
	assert.Equal(t, 2, row.Len())
}

func TestRow_DuplicateColumnKeepsPosition(t *testing.T) {
	row := NewRow(3)
	row.Set("a", int64(1))
	row.Set("b", int64(2))
	row.Set("a", int64(3))

	assert.Equal(t, []string{"a", "b"}, row.Columns())
	v, _ := row.Get("a")
	assert.Equal(t, int64(3), v)
}

func TestRow_ZeroValueSet(t *testing.T) {
	var row Row
	row.Set("x", "y")

	assert.Equal(t, map[string]Value{"x": "y"}, row.Map())
}

func TestRow_MarshalJSON_PreservesOrder(t *testing.T) {
	row := NewRow(3)
	row.Set("z", "last-letter")
	row.Set("a", nil)
	row.Set("m", 1.5)

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"z":"last-letter","a":null,"m":1.5}`, string(data))
}

func TestRow_MarshalJSON_Empty(t *testing.T) {
	data, err := json.Marshal(NewRow(0))
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(data))
}
