package command

import (
	"strings"
	"time"

	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
)

func cmdGet(s *store.Store, args [][]byte) wire.Value {
	v, found, err := s.Get(args[0])
	if err != nil {
		return mapStoreErr(err)
	}
	if !found {
		return wire.NullBulk()
	}
	return wire.Bulk(v)
}

// cmdSet implements SET key value [NX|XX] [GET] [KEEPTTL|EX sec|PX ms|EXAT unixsec|PXAT unixms].
func cmdSet(s *store.Store, args [][]byte) wire.Value {
	key, value := args[0], args[1]
	var opts store.SetOptions

	i := 2
	for i < len(args) {
		switch strings.ToUpper(string(args[i])) {
		case "NX":
			opts.NX = true
			i++
		case "XX":
			opts.XX = true
			i++
		case "GET":
			opts.GetOld = true
			i++
		case "KEEPTTL":
			opts.KeepTTL = true
			i++
		case "EX", "PX", "EXAT", "PXAT":
			tok := strings.ToUpper(string(args[i]))
			if i+1 >= len(args) {
				return errSyntax()
			}
			n, ok := parseIntArg(args[i+1])
			if !ok {
				return errNotInt()
			}
			opts.HasTTL = true
			switch tok {
			case "EX":
				opts.TTL = time.Duration(n) * time.Second
			case "PX":
				opts.TTL = time.Duration(n) * time.Millisecond
			case "EXAT":
				opts.TTL = time.Until(time.Unix(n, 0))
			case "PXAT":
				opts.TTL = time.Until(time.UnixMilli(n))
			}
			i += 2
		default:
			return errSyntax()
		}
	}
	if opts.NX && opts.XX {
		return errSyntax()
	}
	if opts.KeepTTL && opts.HasTTL {
		return errSyntax()
	}

	prev, hadPrev, _, wrote, err := s.SetCmd(key, value, opts)
	if err != nil {
		return mapStoreErr(err)
	}
	if opts.GetOld {
		if hadPrev {
			return wire.Bulk(prev)
		}
		return wire.NullBulk()
	}
	if !wrote {
		return wire.NullBulk()
	}
	return wire.SimpleString("OK")
}

func cmdSetNX(s *store.Store, args [][]byte) wire.Value {
	_, _, _, wrote, err := s.SetCmd(args[0], args[1], store.SetOptions{NX: true})
	if err != nil {
		return mapStoreErr(err)
	}
	if wrote {
		return wire.Integer(1)
	}
	return wire.Integer(0)
}

func cmdSetEX(s *store.Store, args [][]byte) wire.Value {
	n, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	_, _, _, _, err := s.SetCmd(args[0], args[2], store.SetOptions{HasTTL: true, TTL: time.Duration(n) * time.Second})
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.SimpleString("OK")
}

func cmdPSetEX(s *store.Store, args [][]byte) wire.Value {
	n, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	_, _, _, _, err := s.SetCmd(args[0], args[2], store.SetOptions{HasTTL: true, TTL: time.Duration(n) * time.Millisecond})
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.SimpleString("OK")
}

func cmdGetSet(s *store.Store, args [][]byte) wire.Value {
	prev, hadPrev, _, _, err := s.SetCmd(args[0], args[1], store.SetOptions{GetOld: true})
	if err != nil {
		return mapStoreErr(err)
	}
	if hadPrev {
		return wire.Bulk(prev)
	}
	return wire.NullBulk()
}

func cmdGetDel(s *store.Store, args [][]byte) wire.Value {
	v, found, err := s.GetDel(args[0])
	if err != nil {
		return mapStoreErr(err)
	}
	if !found {
		return wire.NullBulk()
	}
	return wire.Bulk(v)
}

func cmdAppend(s *store.Store, args [][]byte) wire.Value {
	n, err := s.Append(args[0], args[1])
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(int64(n))
}

func cmdStrlen(s *store.Store, args [][]byte) wire.Value {
	n, err := s.StrLen(args[0])
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(int64(n))
}

func cmdIncr(s *store.Store, args [][]byte) wire.Value {
	n, err := s.IncrBy(args[0], 1)
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(n)
}

func cmdDecr(s *store.Store, args [][]byte) wire.Value {
	n, err := s.IncrBy(args[0], -1)
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(n)
}

func cmdIncrBy(s *store.Store, args [][]byte) wire.Value {
	delta, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	n, err := s.IncrBy(args[0], delta)
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(n)
}

func cmdDecrBy(s *store.Store, args [][]byte) wire.Value {
	delta, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	n, err := s.IncrBy(args[0], -delta)
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(n)
}

func cmdMGet(s *store.Store, args [][]byte) wire.Value {
	out := make([]wire.Value, len(args))
	for i, k := range args {
		v, found, err := s.Get(k)
		if err != nil || !found {
			out[i] = wire.NullBulk()
			continue
		}
		out[i] = wire.Bulk(v)
	}
	return wire.Arr(out)
}

func cmdMSet(s *store.Store, args [][]byte) wire.Value {
	if len(args)%2 != 0 {
		return errWrongArgs("mset")
	}
	for i := 0; i < len(args); i += 2 {
		s.Set(args[i], args[i+1])
	}
	return wire.SimpleString("OK")
}

// cmdMSetNX sets every pair only if none of the keys exist. It is not
// atomic across keys (each Exists/Set call takes its own shard lock) —
// acceptable for a low-traffic bulk-initialization command, not a
// correctness-critical path.
func cmdMSetNX(s *store.Store, args [][]byte) wire.Value {
	if len(args)%2 != 0 {
		return errWrongArgs("msetnx")
	}
	for i := 0; i < len(args); i += 2 {
		if s.Exists([][]byte{args[i]}) > 0 {
			return wire.Integer(0)
		}
	}
	for i := 0; i < len(args); i += 2 {
		s.Set(args[i], args[i+1])
	}
	return wire.Integer(1)
}
