package command

import (
	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
)

func cmdLPush(s *store.Store, args [][]byte) wire.Value {
	n, err := s.LPush(args[0], args[1:])
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(int64(n))
}

func cmdRPush(s *store.Store, args [][]byte) wire.Value {
	n, err := s.RPush(args[0], args[1:])
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(int64(n))
}

func cmdLPop(s *store.Store, args [][]byte) wire.Value {
	v, found, err := s.LPop(args[0])
	if err != nil {
		return mapStoreErr(err)
	}
	if !found {
		return wire.NullBulk()
	}
	return wire.Bulk(v)
}

func cmdRPop(s *store.Store, args [][]byte) wire.Value {
	v, found, err := s.RPop(args[0])
	if err != nil {
		return mapStoreErr(err)
	}
	if !found {
		return wire.NullBulk()
	}
	return wire.Bulk(v)
}

func cmdLLen(s *store.Store, args [][]byte) wire.Value {
	n, err := s.LLen(args[0])
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(int64(n))
}

func cmdLIndex(s *store.Store, args [][]byte) wire.Value {
	idx, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	v, found, err := s.LIndex(args[0], int(idx))
	if err != nil {
		return mapStoreErr(err)
	}
	if !found {
		return wire.NullBulk()
	}
	return wire.Bulk(v)
}

func cmdLRange(s *store.Store, args [][]byte) wire.Value {
	start, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	stop, ok := parseIntArg(args[2])
	if !ok {
		return errNotInt()
	}
	vals, err := s.LRange(args[0], int(start), int(stop))
	if err != nil {
		return mapStoreErr(err)
	}
	out := make([]wire.Value, len(vals))
	for i, v := range vals {
		out[i] = wire.Bulk(v)
	}
	return wire.Arr(out)
}

func cmdLSet(s *store.Store, args [][]byte) wire.Value {
	idx, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	if err := s.LSet(args[0], int(idx), args[2]); err != nil {
		return mapStoreErr(err)
	}
	return wire.SimpleString("OK")
}

func cmdLRem(s *store.Store, args [][]byte) wire.Value {
	count, ok := parseIntArg(args[1])
	if !ok {
		return errNotInt()
	}
	n, err := s.LRem(args[0], int(count), args[2])
	if err != nil {
		return mapStoreErr(err)
	}
	return wire.Integer(int64(n))
}
