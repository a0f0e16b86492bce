package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
)

func cmdPing(s *store.Store, args [][]byte) wire.Value {
	if len(args) == 0 {
		return wire.SimpleString("PONG")
	}
	return wire.Bulk(args[0])
}

func cmdEcho(s *store.Store, args [][]byte) wire.Value {
	return wire.Bulk(args[0])
}

// cmdCommand answers COMMAND with the names of every registered verb. This
// server does not implement Redis's full per-command metadata tuples
// (arity, flags, key positions), only the name.
func cmdCommand(s *store.Store, args [][]byte) wire.Value {
	names := make([]wire.Value, 0, len(table))
	for name := range table {
		names = append(names, wire.BulkString(strings.ToLower(name)))
	}
	return wire.Arr(names)
}

// cmdInfo reports the store's observational counters as INFO-style
// "section\r\nkey:value\r\n" text (spec.md §4.2 counters, §6 "uptime, keys,
// get/set/del ops, expired count, approximate memory").
func cmdInfo(s *store.Store, args [][]byte) wire.Value {
	st := s.Stats()
	body := fmt.Sprintf(
		"# Server\r\nuptime_in_seconds:%d\r\n"+
			"# Keyspace\r\nkeys:%d\r\n"+
			"# Memory\r\nused_memory:%d\r\n"+
			"# Stats\r\ntotal_get_ops:%d\r\ntotal_set_ops:%d\r\ntotal_del_ops:%d\r\n"+
			"total_sequence_ops:%d\r\nexpired_keys:%d\r\nkeyspace_hits:%d\r\nkeyspace_misses:%d\r\n",
		int64(s.Uptime().Seconds()), st.Keys, s.ApproxMemoryBytes(),
		st.GetOps, st.SetOps, st.DelOps, st.SeqOps, st.ExpiredReclaimed, st.Hits, st.Misses,
	)
	return wire.BulkString(body)
}

// cmdTime answers TIME with the server's current Unix time split into
// whole seconds and the microsecond remainder, each as a Bulk of its
// decimal ASCII representation — the two-element array shape real clients
// expect.
func cmdTime(s *store.Store, args [][]byte) wire.Value {
	now := time.Now()
	return wire.Arr([]wire.Value{
		wire.BulkString(fmt.Sprintf("%d", now.Unix())),
		wire.BulkString(fmt.Sprintf("%d", now.Nanosecond()/1000)),
	})
}

// cmdQuit answers QUIT with +OK; internal/conn is responsible for closing
// the connection once this reply has been written (spec.md §4.5).
func cmdQuit(s *store.Store, args [][]byte) wire.Value {
	return wire.SimpleString("OK")
}

// cmdConfig answers the GET/SET subcommands real clients issue on connect
// or via administrative tooling. This server has no tunable runtime
// parameters to expose, so GET always reports an empty parameter list and
// SET always succeeds without effect.
func cmdConfig(s *store.Store, args [][]byte) wire.Value {
	switch strings.ToUpper(string(args[0])) {
	case "GET":
		return wire.Arr(nil)
	case "SET":
		return wire.SimpleString("OK")
	default:
		return wire.Errorf("ERR unknown CONFIG subcommand '%s'", args[0])
	}
}
