package store

import "errors"

// Sentinel errors returned by store operations. The command layer maps
// these to wire-level Error values with the conventional ERR/WRONGTYPE
// prefixes (spec.md §4.4, §7); the store package itself stays free of any
// notion of the wire protocol.
var (
	// ErrNotFound indicates the requested key does not exist (or has
	// already lazily expired).
	ErrNotFound = errors.New("key not found")

	// ErrWrongType indicates an operation was attempted against a key
	// whose stored kind does not match the operation (ByteString op on a
	// Sequence key, or vice versa).
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")

	// ErrNotInteger indicates the current ByteString value (or a supplied
	// argument) is not a valid decimal ASCII signed 64-bit integer.
	ErrNotInteger = errors.New("value is not an integer or out of range")

	// ErrOverflow indicates an INCRBY-family update would overflow signed
	// 64-bit arithmetic.
	ErrOverflow = errors.New("increment or decrement would overflow")

	// ErrIndexOutOfRange indicates an LSET index fell outside the
	// sequence's current bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrKeyExists indicates a rename or copy target already exists and
	// the caller asked not to overwrite it.
	ErrKeyExists = errors.New("key already exists")

	// ErrNonPositiveTTL indicates a caller supplied a zero or negative TTL
	// where a strictly positive one was required.
	ErrNonPositiveTTL = errors.New("TTL must be positive")
)
