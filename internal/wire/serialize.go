package wire

import (
	"bytes"
	"strconv"
)

// Serialize renders v into its deterministic wire encoding, appending to
// and returning buf (following the common Go append-buffer idiom so callers
// can reuse a connection-scoped byte slice across writes).
func Serialize(buf []byte, v Value) []byte {
	switch v.Kind {
	case KindSimpleString:
		buf = append(buf, '+')
		buf = append(buf, v.Str...)
		buf = append(buf, '\r', '\n')
	case KindError:
		buf = append(buf, '-')
		buf = append(buf, v.Str...)
		buf = append(buf, '\r', '\n')
	case KindInteger:
		buf = append(buf, ':')
		buf = strconv.AppendInt(buf, v.Num, 10)
		buf = append(buf, '\r', '\n')
	case KindBulk:
		if v.Null {
			buf = append(buf, "$-1\r\n"...)
			break
		}
		buf = append(buf, '$')
		buf = strconv.AppendInt(buf, int64(len(v.Bytes)), 10)
		buf = append(buf, '\r', '\n')
		buf = append(buf, v.Bytes...)
		buf = append(buf, '\r', '\n')
	case KindArray:
		if v.Null {
			buf = append(buf, "$-1\r\n"...)
			break
		}
		buf = append(buf, '*')
		buf = strconv.AppendInt(buf, int64(len(v.Array)), 10)
		buf = append(buf, '\r', '\n')
		for _, elem := range v.Array {
			buf = Serialize(buf, elem)
		}
	default:
		// Unreachable for values constructed through this package's
		// constructors; treat as an empty bulk null rather than panic.
		buf = append(buf, "$-1\r\n"...)
	}
	return buf
}

// Bytes returns v's encoding as a standalone byte slice.
func Bytes(v Value) []byte {
	return Serialize(make([]byte, 0, 64), v)
}

// Equal reports whether a and b encode to the same bytes — the round-trip
// law's notion of value equality. Because Serialize renders both null forms
// as $-1\r\n, a Bulk-null and an Array-null compare equal.
func Equal(a, b Value) bool {
	return bytes.Equal(Bytes(a), Bytes(b))
}
