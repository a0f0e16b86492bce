package command

import (
	"errors"
	"strconv"

	"github.com/dreamware/kvstore/internal/wire"
)

var errUnsupportedArgType = errors.New("command: argument frame is not a scalar")

// argBytes coerces a parsed wire.Value argument (Bulk, SimpleString, or
// Integer) into raw bytes. Arrays and Errors are never valid command
// arguments.
func argBytes(v wire.Value) ([]byte, error) {
	switch v.Kind {
	case wire.KindBulk:
		if v.Null {
			return nil, errUnsupportedArgType
		}
		return v.Bytes, nil
	case wire.KindSimpleString:
		return []byte(v.Str), nil
	case wire.KindInteger:
		return []byte(strconv.FormatInt(v.Num, 10)), nil
	default:
		return nil, errUnsupportedArgType
	}
}

func parseIntArg(b []byte) (int64, bool) {
	n, err := strconv.ParseInt(string(b), 10, 64)
	return n, err == nil
}

func parseUintArg(b []byte) (uint64, bool) {
	n, err := strconv.ParseUint(string(b), 10, 64)
	return n, err == nil
}
