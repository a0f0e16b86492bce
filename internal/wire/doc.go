// Package wire implements the frame-level codec for the server's
// request/response protocol: a prefix-tagged, CRLF-terminated wire format
// with five value shapes (SimpleString, Error, Integer, Bulk, Array), plus
// an inline-command fallback for plain-text clients (telnet-style tools).
//
// # Shapes
//
//	+<utf8>\r\n                SimpleString
//	-<utf8>\r\n                Error
//	:<signed-ascii>\r\n        Integer (64-bit)
//	$<n>\r\n<n bytes>\r\n      Bulk (n >= 0); $-1\r\n is Null
//	*<m>\r\n<m frames>         Array (m >= 0); *-1\r\n is Null
//
// # Parser contract
//
// Parse is a pure function of the input slice: given bytes, it returns
// exactly one of a decoded Value with the number of bytes consumed, an
// ErrIncomplete sentinel (more bytes needed, no state retained across
// calls), or a fatal framing error. The only state the parser carries
// across a single call is a recursion-depth counter for nested arrays,
// capped at MaxDepth to bound stack usage against adversarial input.
//
// # Serializer contract
//
// Serialize is deterministic: every Value shape renders to exactly one byte
// sequence, and Null always renders as the Bulk null form ($-1\r\n), never
// the Array null form, regardless of which Null was originally parsed.
//
// # Round-trip law
//
// For every Value v produced by Parse (other than a value produced by the
// inline-fallback path, which synthesizes an Array that never appeared on
// the wire in that form), Parse(Serialize(v)) returns (v, len(Serialize(v))).
package wire
