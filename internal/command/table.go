// Package command implements the command table: case-insensitive verb
// lookup, arity validation, and typed argument dispatch against an
// internal/store.Store, producing internal/wire.Value replies.
package command

import (
	"strings"

	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
)

type handlerFunc func(s *store.Store, args [][]byte) wire.Value

type spec struct {
	fn         handlerFunc
	minArgs    int
	maxArgs    int // -1 means unbounded
	closesConn bool
}

var table map[string]spec

func register(name string, minArgs, maxArgs int, fn handlerFunc) {
	table[strings.ToUpper(name)] = spec{fn: fn, minArgs: minArgs, maxArgs: maxArgs}
}

// registerClosing is register for verbs whose reply is the last thing ever
// written on the connection (QUIT).
func registerClosing(name string, minArgs, maxArgs int, fn handlerFunc) {
	table[strings.ToUpper(name)] = spec{fn: fn, minArgs: minArgs, maxArgs: maxArgs, closesConn: true}
}

func init() {
	table = make(map[string]spec, 48)

	// Strings
	register("GET", 1, 1, cmdGet)
	register("SET", 2, -1, cmdSet)
	register("SETNX", 2, 2, cmdSetNX)
	register("SETEX", 3, 3, cmdSetEX)
	register("PSETEX", 3, 3, cmdPSetEX)
	register("GETSET", 2, 2, cmdGetSet)
	register("GETDEL", 1, 1, cmdGetDel)
	register("APPEND", 2, 2, cmdAppend)
	register("STRLEN", 1, 1, cmdStrlen)
	register("INCR", 1, 1, cmdIncr)
	register("DECR", 1, 1, cmdDecr)
	register("INCRBY", 2, 2, cmdIncrBy)
	register("DECRBY", 2, 2, cmdDecrBy)
	register("MGET", 1, -1, cmdMGet)
	register("MSET", 2, -1, cmdMSet)
	register("MSETNX", 2, -1, cmdMSetNX)

	// Generic / keyspace
	register("DEL", 1, -1, cmdDel)
	register("EXISTS", 1, -1, cmdExists)
	register("EXPIRE", 2, 2, cmdExpire)
	register("PEXPIRE", 2, 2, cmdPExpire)
	register("EXPIREAT", 2, 2, cmdExpireAt)
	register("PEXPIREAT", 2, 2, cmdPExpireAt)
	register("TTL", 1, 1, cmdTTL)
	register("PTTL", 1, 1, cmdPTTL)
	register("EXPIRETIME", 1, 1, cmdExpireTime)
	register("PEXPIRETIME", 1, 1, cmdPExpireTime)
	register("PERSIST", 1, 1, cmdPersist)
	register("TYPE", 1, 1, cmdType)
	register("KEYS", 1, 1, cmdKeys)
	register("RENAME", 2, 2, cmdRename)
	register("RENAMENX", 2, 2, cmdRenameNX)
	register("COPY", 2, 3, cmdCopy)
	register("RANDOMKEY", 0, 0, cmdRandomKey)
	register("SCAN", 1, -1, cmdScan)
	register("OBJECT", 1, -1, cmdObject)
	register("FLUSHALL", 0, 1, cmdFlush)
	register("FLUSHDB", 0, 1, cmdFlush)
	register("DBSIZE", 0, 0, cmdDBSize)

	// Lists
	register("LPUSH", 2, -1, cmdLPush)
	register("RPUSH", 2, -1, cmdRPush)
	register("LPOP", 1, 1, cmdLPop)
	register("RPOP", 1, 1, cmdRPop)
	register("LLEN", 1, 1, cmdLLen)
	register("LINDEX", 2, 2, cmdLIndex)
	register("LRANGE", 3, 3, cmdLRange)
	register("LSET", 3, 3, cmdLSet)
	register("LREM", 3, 3, cmdLRem)

	// Connection / server
	register("PING", 0, 1, cmdPing)
	register("ECHO", 1, 1, cmdEcho)
	register("COMMAND", 0, -1, cmdCommand)
	register("INFO", 0, 1, cmdInfo)
	register("TIME", 0, 0, cmdTime)
	register("CONFIG", 1, -1, cmdConfig)
	registerClosing("QUIT", 0, 0, cmdQuit)
}

// Dispatch extracts the command name and arguments from req (expected to be
// a wire.Array, per spec.md §4.4), validates arity, and invokes the
// matching handler. Unknown commands and malformed argument frames produce
// a wire.Error reply rather than a Go error — the connection loop always
// gets a value to write back. The second return value reports whether the
// caller should close the connection after writing this reply (true only
// for QUIT, spec.md §4.5).
func Dispatch(s *store.Store, req wire.Value) (wire.Value, bool) {
	if req.Kind != wire.KindArray || req.IsNull() || len(req.Array) == 0 {
		return wire.Error("ERR invalid request"), false
	}

	nameBytes, err := argBytes(req.Array[0])
	if err != nil {
		return wire.Error("ERR invalid command name"), false
	}
	name := strings.ToUpper(string(nameBytes))

	sp, ok := table[name]
	if !ok {
		return wire.Errorf("ERR unknown command '%s'", string(nameBytes)), false
	}

	args := make([][]byte, len(req.Array)-1)
	for i, v := range req.Array[1:] {
		b, err := argBytes(v)
		if err != nil {
			return wire.Error("ERR protocol error: invalid bulk length"), false
		}
		args[i] = b
	}

	if len(args) < sp.minArgs || (sp.maxArgs >= 0 && len(args) > sp.maxArgs) {
		return errWrongArgs(name), false
	}
	return sp.fn(s, args), sp.closesConn
}
