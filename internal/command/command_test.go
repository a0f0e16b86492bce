package command

import (
	"testing"

	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(16)
	require.NoError(t, err)
	return s
}

func bulkArgs(parts ...string) wire.Value {
	elems := make([]wire.Value, len(parts))
	for i, p := range parts {
		elems[i] = wire.BulkString(p)
	}
	return wire.Arr(elems)
}

// dispatch drops Dispatch's close-connection signal for tests that only
// care about the reply value.
func dispatch(s *store.Store, req wire.Value) wire.Value {
	reply, _ := Dispatch(s, req)
	return reply
}

func TestDispatchUnknownCommand(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("NOSUCHCOMMAND"))
	assert.Equal(t, wire.KindError, reply.Kind)
}

func TestDispatchWrongArity(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("GET"))
	assert.Equal(t, wire.KindError, reply.Kind)
	assert.Contains(t, reply.Str, "wrong number of arguments")
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("SET", "k", "v"))
	assert.Equal(t, wire.SimpleString("OK"), reply)

	reply = dispatch(s, bulkArgs("GET", "k"))
	assert.Equal(t, wire.BulkString("v"), reply)
}

func TestGetMissingReturnsNullBulk(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("GET", "missing"))
	assert.True(t, reply.IsNull())
}

func TestSetNXConflictsWithXX(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("SET", "k", "v", "NX", "XX"))
	assert.Equal(t, wire.KindError, reply.Kind)
}

func TestSetWithGetOption(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "k", "old"))
	reply := dispatch(s, bulkArgs("SET", "k", "new", "GET"))
	assert.Equal(t, wire.BulkString("old"), reply)

	v := dispatch(s, bulkArgs("GET", "k"))
	assert.Equal(t, wire.BulkString("new"), v)
}

func TestWrongTypeErrorFromGetAgainstList(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("LPUSH", "k", "a"))
	reply := dispatch(s, bulkArgs("GET", "k"))
	require.Equal(t, wire.KindError, reply.Kind)
	assert.Contains(t, reply.Str, "WRONGTYPE")
}

func TestIncrDecrFamily(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("INCRBY", "counter", "5"))
	assert.Equal(t, wire.Integer(5), reply)

	reply = dispatch(s, bulkArgs("DECRBY", "counter", "2"))
	assert.Equal(t, wire.Integer(3), reply)

	reply = dispatch(s, bulkArgs("INCR", "counter"))
	assert.Equal(t, wire.Integer(4), reply)

	reply = dispatch(s, bulkArgs("DECR", "counter"))
	assert.Equal(t, wire.Integer(3), reply)
}

func TestIncrByNonIntegerValue(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "k", "notanumber"))
	reply := dispatch(s, bulkArgs("INCR", "k"))
	assert.Equal(t, wire.KindError, reply.Kind)
	assert.Contains(t, reply.Str, "not an integer")
}

func TestExpireAndTTL(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "k", "v"))
	reply := dispatch(s, bulkArgs("EXPIRE", "k", "100"))
	assert.Equal(t, wire.Integer(1), reply)

	reply = dispatch(s, bulkArgs("TTL", "k"))
	require.Equal(t, wire.KindInteger, reply.Kind)
	assert.Greater(t, reply.Num, int64(0))

	reply = dispatch(s, bulkArgs("PERSIST", "k"))
	assert.Equal(t, wire.Integer(1), reply)
	reply = dispatch(s, bulkArgs("TTL", "k"))
	assert.Equal(t, wire.Integer(-1), reply)
}

func TestTTLOnMissingKey(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("TTL", "missing"))
	assert.Equal(t, wire.Integer(-2), reply)
}

func TestExpireNonPositiveDeletesKey(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "k", "v"))
	reply := dispatch(s, bulkArgs("EXPIRE", "k", "-1"))
	assert.Equal(t, wire.Integer(1), reply)

	reply = dispatch(s, bulkArgs("EXISTS", "k"))
	assert.Equal(t, wire.Integer(0), reply)
}

func TestRenameAndRenameNX(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "src", "v"))
	reply := dispatch(s, bulkArgs("RENAME", "src", "dst"))
	assert.Equal(t, wire.SimpleString("OK"), reply)

	dispatch(s, bulkArgs("SET", "src2", "v2"))
	reply = dispatch(s, bulkArgs("RENAMENX", "src2", "dst"))
	assert.Equal(t, wire.Integer(0), reply)
}

func TestRenameMissingSourceIsError(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("RENAME", "missing", "dst"))
	require.Equal(t, wire.KindError, reply.Kind)
	assert.Contains(t, reply.Str, "no such key")
}

func TestListCommands(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("RPUSH", "l", "a", "b", "c"))
	assert.Equal(t, wire.Integer(3), reply)

	reply = dispatch(s, bulkArgs("LRANGE", "l", "0", "-1"))
	require.Equal(t, wire.KindArray, reply.Kind)
	require.Len(t, reply.Array, 3)
	assert.Equal(t, wire.BulkString("a"), reply.Array[0])

	reply = dispatch(s, bulkArgs("LPOP", "l"))
	assert.Equal(t, wire.BulkString("a"), reply)

	reply = dispatch(s, bulkArgs("LLEN", "l"))
	assert.Equal(t, wire.Integer(2), reply)
}

func TestLPushHeadBecomesLastArgument(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("LPUSH", "l", "a", "b", "c"))
	reply := dispatch(s, bulkArgs("LRANGE", "l", "0", "-1"))
	require.Len(t, reply.Array, 3)
	assert.Equal(t, wire.BulkString("c"), reply.Array[0])
}

func TestKeysGlobMatch(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "foo", "1"))
	dispatch(s, bulkArgs("SET", "foobar", "1"))
	dispatch(s, bulkArgs("SET", "bar", "1"))

	reply := dispatch(s, bulkArgs("KEYS", "foo*"))
	require.Equal(t, wire.KindArray, reply.Kind)
	assert.Len(t, reply.Array, 2)
}

func TestCopyAndObjectEncoding(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "src", "v"))

	reply := dispatch(s, bulkArgs("COPY", "src", "dst"))
	assert.Equal(t, wire.Integer(1), reply)

	reply = dispatch(s, bulkArgs("OBJECT", "ENCODING", "src"))
	assert.Equal(t, wire.BulkString("raw"), reply)

	dispatch(s, bulkArgs("RPUSH", "l", "x"))
	reply = dispatch(s, bulkArgs("OBJECT", "ENCODING", "l"))
	assert.Equal(t, wire.BulkString("list"), reply)
}

func TestPingAndEcho(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, wire.SimpleString("PONG"), dispatch(s, bulkArgs("PING")))
	assert.Equal(t, wire.BulkString("hi"), dispatch(s, bulkArgs("PING", "hi")))
	assert.Equal(t, wire.BulkString("hi"), dispatch(s, bulkArgs("ECHO", "hi")))
}

func TestDBSizeAndFlush(t *testing.T) {
	s := newTestStore(t)
	dispatch(s, bulkArgs("SET", "a", "1"))
	dispatch(s, bulkArgs("SET", "b", "2"))
	assert.Equal(t, wire.Integer(2), dispatch(s, bulkArgs("DBSIZE")))

	dispatch(s, bulkArgs("FLUSHALL"))
	assert.Equal(t, wire.Integer(0), dispatch(s, bulkArgs("DBSIZE")))
}

func TestConfigGetAndSet(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("CONFIG", "GET", "maxmemory"))
	require.Equal(t, wire.KindArray, reply.Kind)
	assert.Len(t, reply.Array, 0)

	reply = dispatch(s, bulkArgs("CONFIG", "SET", "maxmemory", "0"))
	assert.Equal(t, wire.SimpleString("OK"), reply)
}

func TestTimeReturnsTwoElementArray(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("TIME"))
	require.Equal(t, wire.KindArray, reply.Kind)
	require.Len(t, reply.Array, 2)
	assert.Equal(t, wire.KindBulk, reply.Array[0].Kind)
	assert.Equal(t, wire.KindBulk, reply.Array[1].Kind)
}

func TestQuitRepliesOKAndSignalsClose(t *testing.T) {
	s := newTestStore(t)
	reply, closeConn := Dispatch(s, bulkArgs("QUIT"))
	assert.Equal(t, wire.SimpleString("OK"), reply)
	assert.True(t, closeConn)
}

func TestCommandListsRegisteredNames(t *testing.T) {
	s := newTestStore(t)
	reply := dispatch(s, bulkArgs("COMMAND"))
	require.Equal(t, wire.KindArray, reply.Kind)
	assert.Greater(t, len(reply.Array), 40)
}

func TestScanPagesThroughAllKeys(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 30; i++ {
		dispatch(s, bulkArgs("SET", string(rune('a'+i%26))+string(rune(i)), "v"))
	}

	seen := map[string]bool{}
	cursor := "0"
	for {
		reply := dispatch(s, bulkArgs("SCAN", cursor, "COUNT", "5"))
		require.Equal(t, wire.KindArray, reply.Kind)
		require.Len(t, reply.Array, 2)
		cursor = string(reply.Array[0].Bytes)
		for _, k := range reply.Array[1].Array {
			seen[string(k.Bytes)] = true
		}
		if cursor == "0" {
			break
		}
	}
	assert.Equal(t, 30, len(seen))
}
