package command

import (
	"errors"
	"strings"

	"github.com/dreamware/kvstore/internal/store"
	"github.com/dreamware/kvstore/internal/wire"
)

func errWrongArgs(name string) wire.Value {
	return wire.Errorf("ERR wrong number of arguments for '%s' command", strings.ToLower(name))
}

func errNotInt() wire.Value {
	return wire.Error("ERR value is not an integer or out of range")
}

func errSyntax() wire.Value {
	return wire.Error("ERR syntax error")
}

func errNoSuchKey() wire.Value {
	return wire.Error("ERR no such key")
}

func errWrongType() wire.Value {
	return wire.Error("WRONGTYPE Operation against a key holding the wrong kind of value")
}

// mapStoreErr translates a store-layer sentinel error into the matching
// wire-level Error reply. The store package knows nothing of wire
// conventions by design (see internal/store/errors.go); this is the one
// place that bridges the two.
func mapStoreErr(err error) wire.Value {
	switch {
	case errors.Is(err, store.ErrWrongType):
		return errWrongType()
	case errors.Is(err, store.ErrNotFound):
		return errNoSuchKey()
	case errors.Is(err, store.ErrNotInteger):
		return errNotInt()
	case errors.Is(err, store.ErrOverflow):
		return wire.Error("ERR increment or decrement would overflow")
	case errors.Is(err, store.ErrIndexOutOfRange):
		return wire.Error("ERR index out of range")
	case errors.Is(err, store.ErrKeyExists):
		return wire.Error("ERR key already exists")
	case errors.Is(err, store.ErrNonPositiveTTL):
		return wire.Error("ERR invalid expire time")
	default:
		return wire.Errorf("ERR %s", err.Error())
	}
}
