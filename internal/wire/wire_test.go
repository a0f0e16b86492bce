package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []Value{
		SimpleString("PONG"),
		Error("ERR boom"),
		Integer(0),
		Integer(-9223372036854775808),
		Integer(9223372036854775807),
		BulkString(""),
		BulkString("hello"),
		Bulk([]byte{0, 1, 2, 0, 255}),
		NullBulk(),
		NullArray(),
		Arr(nil),
		Arr([]Value{BulkString("GET"), BulkString("name")}),
		Arr([]Value{Arr([]Value{Integer(1), Integer(2)}), NullBulk()}),
	}
	for _, v := range cases {
		encoded := Bytes(v)
		got, n, err := Parse(encoded)
		require.NoError(t, err)
		assert.Equal(t, len(encoded), n)
		assert.True(t, Equal(v, got), "round trip mismatch: %+v vs %+v", v, got)
	}
}

func TestParseIncomplete(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte("$5\r\nhel"),
		[]byte("*2\r\n$3\r\nfoo\r\n"),
		[]byte("+OK"),
		[]byte(":123"),
	}
	for _, c := range cases {
		_, _, err := Parse(c)
		assert.ErrorIs(t, err, ErrIncomplete)
	}
}

func TestParseFraming(t *testing.T) {
	cases := []string{
		"$-2\r\n",
		"*-2\r\n",
		"$999999999999\r\n",
		"$abc\r\n",
		"*abc\r\n",
		":abc\r\n",
	}
	for _, c := range cases {
		_, _, err := Parse([]byte(c))
		var fe *FramingError
		assert.ErrorAs(t, err, &fe, "input %q", c)
	}
}

func TestParseDepthLimit(t *testing.T) {
	// Build a nested array 40 levels deep: *1\r\n*1\r\n...$3\r\nfoo\r\n
	buf := []byte("$3\r\nfoo\r\n")
	for i := 0; i < MaxDepth+8; i++ {
		buf = append([]byte("*1\r\n"), buf...)
	}
	_, _, err := Parse(buf)
	var fe *FramingError
	require.ErrorAs(t, err, &fe)
}

func TestInlineFallback(t *testing.T) {
	v, n, err := Parse([]byte("PING foo bar\r\n"))
	require.NoError(t, err)
	assert.Equal(t, len("PING foo bar\r\n"), n)
	require.Equal(t, KindArray, v.Kind)
	require.Len(t, v.Array, 3)
	assert.Equal(t, "PING", string(v.Array[0].Bytes))
	assert.Equal(t, "foo", string(v.Array[1].Bytes))
	assert.Equal(t, "bar", string(v.Array[2].Bytes))
}

func TestInlineFallbackBareLF(t *testing.T) {
	v, n, err := Parse([]byte("PING\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	require.Len(t, v.Array, 1)
}

func TestPipeliningConsumesOneFrameAtATime(t *testing.T) {
	buf := []byte("+OK\r\n:42\r\n")
	v1, n1, err := Parse(buf)
	require.NoError(t, err)
	assert.Equal(t, SimpleString("OK"), v1)
	v2, n2, err := Parse(buf[n1:])
	require.NoError(t, err)
	assert.Equal(t, Integer(42), v2)
	assert.Equal(t, len(buf), n1+n2)
}

func TestEmptyBulk(t *testing.T) {
	v, n, err := Parse([]byte("$0\r\n\r\n"))
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, []byte{}, v.Bytes)
}

func TestNullBulkNotArray(t *testing.T) {
	v, _, err := Parse([]byte("$-1\r\n"))
	require.NoError(t, err)
	assert.True(t, v.IsNull())
	assert.Equal(t, KindBulk, v.Kind)
}
