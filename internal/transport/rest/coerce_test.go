package rest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		invalid bool
	}{
		{`12`, 12, false},
		{`"12"`, 12, false},
		{`" 7 "`, 7, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`-3`, -3, false},
		{`"1e3"`, 1000, false},
		{`1.5`, 0, true},
		{`"abc"`, 0, true},
		{`true`, 0, true},
		{`"NaN"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n flexInt
			require.NoError(t, json.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.invalid, n.invalid)
			assert.Equal(t, tt.want, n.value)
		})
	}
}

func TestFlexFloat(t *testing.T) {
	t.Parallel()

	var f flexFloat
	require.NoError(t, json.Unmarshal([]byte(`"42.5"`), &f))
	assert.Equal(t, 42.5, f.value)
	assert.False(t, f.invalid)

	require.NoError(t, json.Unmarshal([]byte(`"4,5"`), &f))
	assert.True(t, f.invalid)
}

func TestStringList(t *testing.T) {
	t.Parallel()

	var l stringList
	require.NoError(t, json.Unmarshal([]byte(`"a,b"`), &l))
	assert.Equal(t, stringList{"a", "b"}, l)

	require.NoError(t, json.Unmarshal([]byte(`["x"]`), &l))
	assert.Equal(t, stringList{"x"}, l)

	assert.Error(t, json.Unmarshal([]byte(`42`), &l))
}

func TestCoercion_CollectsFields(t *testing.T) {
	t.Parallel()

	var c coercion
	c.int("followers", flexInt{invalid: true})
	c.float("bounceRate", flexFloat{invalid: true})
	c.int("reach", flexInt{value: 5})

	err := c.err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors")
}
