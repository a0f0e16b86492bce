package store

import "time"

// Kind identifies which of the two value shapes an entry holds. A key maps
// to exactly one kind at a time (spec.md §3); mixing is rejected by the
// operations in this package with ErrWrongType.
type Kind int

const (
	// KindByteString is an opaque, binary-safe byte sequence.
	KindByteString Kind = iota
	// KindSequence is an ordered, double-ended list of byte strings.
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindByteString:
		return "string"
	case KindSequence:
		return "list"
	default:
		return "none"
	}
}

// entry is the shared per-key record: a typed value plus TTL and access
// metadata (spec.md §3 "Entry metadata"). createdAt/lastAccessed are
// informational only, never exposed on the wire, and not part of any
// invariant.
type entry struct {
	seq          *deque
	str          []byte
	expiresAt    time.Time // zero value means persistent (no TTL)
	createdAt    time.Time
	lastAccessed time.Time
	kind         Kind
}

func (e *entry) hasTTL() bool { return !e.expiresAt.IsZero() }

func (e *entry) expiredAt(now time.Time) bool {
	return e.hasTTL() && !now.Before(e.expiresAt)
}

func newByteStringEntry(value []byte, now time.Time) *entry {
	return &entry{
		kind:         KindByteString,
		str:          value,
		createdAt:    now,
		lastAccessed: now,
	}
}

func newSequenceEntry(now time.Time) *entry {
	return &entry{
		kind:         KindSequence,
		seq:          newDeque(),
		createdAt:    now,
		lastAccessed: now,
	}
}

// cloneBytes returns a fresh copy of b so callers can never observe
// mutation of stored payloads through a previously returned slice — the
// "reference-counted, cheaply-cloneable ownership" discipline of spec.md §3
// is approximated here by copy-on-read, the same discipline the teacher's
// MemoryStore.Get used.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
