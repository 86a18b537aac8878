package bencode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeScalars(t *testing.T) {
	var n int64
	require.NoError(t, Unmarshal([]byte("i-42e"), &n))
	assert.EqualValues(t, -42, n)

	var s string
	require.NoError(t, Unmarshal([]byte("3:cow"), &s))
	assert.Equal(t, "cow", s)

	var l []interface{}
	require.NoError(t, Unmarshal([]byte("le"), &l))
	assert.Empty(t, l)
}

func TestDecodeSortedDict(t *testing.T) {
	var m map[string]string
	require.NoError(t, Unmarshal([]byte("d3:cow3:moo4:spam4:eggse"), &m))
	assert.Equal(t, map[string]string{"cow": "moo", "spam": "eggs"}, m)
}

func TestEncodeDictSortsKeys(t *testing.T) {
	b, err := Marshal(map[string]string{"spam": "eggs", "cow": "moo"})
	require.NoError(t, err)
	assert.Equal(t, "d3:cow3:moo4:spam4:eggse", string(b))
}

func TestDecodeRejectsNonMinimalInteger(t *testing.T) {
	for _, input := range []string{"i03e", "i-0e", "i-042e", "i00e", "ie", "i-e"} {
		var n int64
		assert.Error(t, Unmarshal([]byte(input), &n), "input %q", input)

		var v interface{}
		assert.Error(t, Unmarshal([]byte(input), &v), "input %q", input)
	}
}

func TestDecodeRejectsUnsortedKeys(t *testing.T) {
	var m map[string]string
	assert.Error(t, Unmarshal([]byte("d2:bb1:x2:aa1:ye"), &m))

	var v interface{}
	assert.Error(t, Unmarshal([]byte("d2:bb1:x2:aa1:ye"), &v))
}

func TestDecodeRejectsDuplicateKeys(t *testing.T) {
	var m map[string]string
	assert.Error(t, Unmarshal([]byte("d1:a1:x1:a1:ye"), &m))
}

func TestDecodeRejectsTrailingGarbage(t *testing.T) {
	var n int64
	assert.Error(t, Unmarshal([]byte("i1egarbage"), &n))
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	for _, input := range []string{"i42", "4:abc", "d3:cow", "l3:cow"} {
		var v interface{}
		assert.Error(t, Unmarshal([]byte(input), &v), "input %q", input)
	}
}

func TestDecodeRejectsNonStringKey(t *testing.T) {
	var v interface{}
	assert.Error(t, Unmarshal([]byte("di1e3:mooe"), &v))
}

func TestRoundTrip(t *testing.T) {
	values := []interface{}{
		int64(0),
		int64(-12345),
		"hello, world",
		[]interface{}{int64(1), "two", []interface{}{}},
		map[string]interface{}{
			"int":    int64(7),
			"list":   []interface{}{"a", "b"},
			"nested": map[string]interface{}{"x": "y"},
			"str":    "v",
		},
	}
	for _, v := range values {
		b, err := Marshal(v)
		require.NoError(t, err)

		var got interface{}
		require.NoError(t, Unmarshal(b, &got))
		assert.EqualValues(t, v, got)
	}
}
