package wire

import "fmt"

// Kind identifies which of the five wire shapes a Value holds.
type Kind byte

const (
	// KindSimpleString is the '+' shape: a short, CRLF-free status string.
	KindSimpleString Kind = '+'
	// KindError is the '-' shape: a short, CRLF-free error message.
	KindError Kind = '-'
	// KindInteger is the ':' shape: a signed 64-bit integer.
	KindInteger Kind = ':'
	// KindBulk is the '$' shape: a length-prefixed binary-safe byte string,
	// or Null when Null is true.
	KindBulk Kind = '$'
	// KindArray is the '*' shape: an ordered sequence of nested Values, or
	// Null when Null is true.
	KindArray Kind = '*'
)

// Value is a single decoded (or to-be-encoded) wire frame. Exactly one of
// its payload fields is meaningful, selected by Kind; Null indicates the
// Bulk-null or Array-null case and takes precedence over Str/Bytes/Array.
type Value struct {
	Array []Value
	Str   string
	Bytes []byte
	Num   int64
	Kind  Kind
	Null  bool
}

// SimpleString constructs a '+' value.
func SimpleString(s string) Value { return Value{Kind: KindSimpleString, Str: s} }

// Error constructs a '-' value.
func Error(s string) Value { return Value{Kind: KindError, Str: s} }

// Errorf constructs a '-' value from a format string.
func Errorf(format string, args ...any) Value {
	return Value{Kind: KindError, Str: fmt.Sprintf(format, args...)}
}

// Integer constructs a ':' value.
func Integer(n int64) Value { return Value{Kind: KindInteger, Num: n} }

// Bulk constructs a '$' value carrying b. A nil b is still a zero-length
// bulk string, not Null — use NullBulk for the wire-level null.
func Bulk(b []byte) Value { return Value{Kind: KindBulk, Bytes: b} }

// BulkString constructs a '$' value from a Go string.
func BulkString(s string) Value { return Value{Kind: KindBulk, Bytes: []byte(s)} }

// NullBulk is the '$' shape's null: $-1\r\n.
func NullBulk() Value { return Value{Kind: KindBulk, Null: true} }

// NullArray is the '*' shape's null: *-1\r\n.
func NullArray() Value { return Value{Kind: KindArray, Null: true} }

// Arr constructs a '*' value from a slice of already-decoded elements.
func Arr(elems []Value) Value { return Value{Kind: KindArray, Array: elems} }

// IsNull reports whether v represents either wire-level null form.
func (v Value) IsNull() bool {
	return (v.Kind == KindBulk || v.Kind == KindArray) && v.Null
}
