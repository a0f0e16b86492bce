// Package store implements the sharded, lock-striped key space (spec.md
// §3, §4.2): a fixed number of independent shards, each owning a map of
// typed entries (ByteString or Sequence) with optional per-key expiry.
// Keys are routed to shards by a stable hash so any two callers agree on
// which shard owns a key without coordination.
package store

import (
	"bytes"
	"fmt"
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Store is the shared, concurrency-safe key space. All exported methods
// are safe for concurrent use; multi-key operations acquire at most one
// shard lock at a time except where two shards must be locked together to
// preserve atomicity for that one operation (Rename, Copy), in which case
// locks are always acquired in ascending shard-index order to prevent
// deadlock between two concurrent cross-shard operations.
type Store struct {
	shards    []*shard
	now       func() time.Time
	startedAt time.Time

	keyCount         atomic.Int64
	getOps           atomic.Int64
	setOps           atomic.Int64
	delOps           atomic.Int64
	expiredReclaimed atomic.Int64
	seqOps           atomic.Int64
	hits             atomic.Int64
	misses           atomic.Int64
}

// New creates a Store with numShards independent shards. numShards must be
// a power of two no smaller than 16 (spec.md §4.2: "N=64 in the source; any
// power-of-two >= 16 is acceptable").
func New(numShards int) (*Store, error) {
	if numShards < 16 || numShards&(numShards-1) != 0 {
		return nil, fmt.Errorf("store: numShards must be a power of two >= 16, got %d", numShards)
	}
	shards := make([]*shard, numShards)
	for i := range shards {
		shards[i] = newShard()
	}
	return &Store{shards: shards, now: time.Now, startedAt: time.Now()}, nil
}

// NumShards returns the configured shard count.
func (s *Store) NumShards() int { return len(s.shards) }

func (s *Store) shardIndex(key []byte) int {
	return int(xxhash.Sum64(key) % uint64(len(s.shards)))
}

func (s *Store) shardFor(key []byte) *shard {
	return s.shards[s.shardIndex(key)]
}

// reclaimIfExpired re-checks key under an exclusive lock and removes it if
// still expired, implementing the lazy read-then-upgrade reclamation
// pattern spec.md §4.2 describes for "Read one key".
func (s *Store) reclaimIfExpired(sh *shard, key string) {
	sh.mu.Lock()
	e, exists := sh.entries[key]
	if exists && e.expiredAt(s.now()) {
		delete(sh.entries, key)
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
	}
	sh.mu.Unlock()
}

// Stats is a point-in-time snapshot of the store's observational counters
// (spec.md §4.2: "Relaxed atomic counters... observational only; not
// invariants").
type Stats struct {
	Keys             int64
	GetOps           int64
	SetOps           int64
	DelOps           int64
	ExpiredReclaimed int64
	SeqOps           int64
	Hits             int64
	Misses           int64
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	return Stats{
		Keys:             s.keyCount.Load(),
		GetOps:           s.getOps.Load(),
		SetOps:           s.setOps.Load(),
		DelOps:           s.delOps.Load(),
		ExpiredReclaimed: s.expiredReclaimed.Load(),
		SeqOps:           s.seqOps.Load(),
		Hits:             s.hits.Load(),
		Misses:           s.misses.Load(),
	}
}

// DBSize returns the approximate number of not-yet-expired keys.
func (s *Store) DBSize() int64 { return s.keyCount.Load() }

// Uptime reports how long this Store has existed.
func (s *Store) Uptime() time.Duration { return s.now().Sub(s.startedAt) }

// ApproxMemoryBytes estimates the live payload size of every key and value
// currently held, for INFO's diagnostic "approximate memory" figure (spec.md
// §6). It walks every shard under its read lock and sums key and value
// bytes; it is a size estimate, not an accounting of Go's actual heap
// footprint (map/slice overhead, pointer indirection, and allocator
// bookkeeping are not counted).
func (s *Store) ApproxMemoryBytes() int64 {
	var total int64
	for _, sh := range s.shards {
		sh.mu.RLock()
		for key, e := range sh.entries {
			total += int64(len(key))
			switch e.kind {
			case KindByteString:
				total += int64(len(e.str))
			case KindSequence:
				if e.seq != nil {
					for i := 0; i < e.seq.Len(); i++ {
						if v, ok := e.seq.At(i); ok {
							total += int64(len(v))
						}
					}
				}
			}
		}
		sh.mu.RUnlock()
	}
	return total
}

// Get returns the ByteString value for key, or found=false if the key is
// absent or has expired. It returns ErrWrongType if key currently holds a
// Sequence.
func (s *Store) Get(key []byte) (value []byte, found bool, err error) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	e, exists := sh.entries[string(key)]
	now := s.now()
	switch {
	case !exists:
		sh.mu.RUnlock()
		s.getOps.Add(1)
		s.misses.Add(1)
		return nil, false, nil
	case e.expiredAt(now):
		sh.mu.RUnlock()
		s.reclaimIfExpired(sh, string(key))
		s.getOps.Add(1)
		s.misses.Add(1)
		return nil, false, nil
	case e.kind != KindByteString:
		sh.mu.RUnlock()
		s.getOps.Add(1)
		return nil, false, ErrWrongType
	default:
		v := cloneBytes(e.str)
		sh.mu.RUnlock()
		s.getOps.Add(1)
		s.hits.Add(1)
		return v, true, nil
	}
}

// SetOptions configures the combined behavior of the wire-level SET command
// (spec.md §4.5), resolved atomically under one shard lock so that NX/XX/GET
// checks and the write itself never race with another writer on the same
// key.
type SetOptions struct {
	TTL     time.Duration
	HasTTL  bool
	KeepTTL bool
	NX      bool
	XX      bool
	GetOld  bool
}

// SetCmd implements the full SET command surface: conditional writes
// (NX/XX), returning the previous value (GET), TTL assignment, and TTL
// preservation (KEEPTTL). It returns the previous ByteString value (if
// opts.GetOld and one existed), whether a key was already present before
// this call, whether the write was actually performed, and an error for a
// non-positive explicit TTL or a kind mismatch.
func (s *Store) SetCmd(key, value []byte, opts SetOptions) (prev []byte, hadPrev bool, existed bool, wrote bool, err error) {
	if opts.HasTTL && opts.TTL <= 0 {
		return nil, false, false, false, ErrNonPositiveTTL
	}
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		exists = false
		e = nil
	}
	if exists && e.kind != KindByteString {
		return nil, false, true, false, ErrWrongType
	}
	if opts.GetOld && exists {
		prev = cloneBytes(e.str)
		hadPrev = true
	}
	if opts.NX && exists {
		return prev, hadPrev, true, false, nil
	}
	if opts.XX && !exists {
		return prev, hadPrev, false, false, nil
	}

	var expiresAt time.Time
	if opts.KeepTTL && exists {
		expiresAt = e.expiresAt
	} else if opts.HasTTL {
		expiresAt = now.Add(opts.TTL)
	}
	sh.entries[string(key)] = &entry{
		kind:         KindByteString,
		str:          cloneBytes(value),
		createdAt:    now,
		lastAccessed: now,
		expiresAt:    expiresAt,
	}
	if !exists {
		s.keyCount.Add(1)
	}
	s.setOps.Add(1)
	return prev, hadPrev, exists, true, nil
}

// Set performs a plain overwrite, clearing any prior TTL (spec.md §3: "a
// plain SET resets the entry, losing any prior TTL"). Returns true if this
// call created a new key rather than overwriting an existing one.
func (s *Store) Set(key, value []byte) (created bool) {
	_, _, existed, _, _ := s.SetCmd(key, value, SetOptions{})
	return !existed
}

// GetDel returns key's ByteString value and deletes it in one atomic step.
func (s *Store) GetDel(key []byte) (value []byte, found bool, err error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		return nil, false, nil
	}
	if !exists {
		return nil, false, nil
	}
	if e.kind != KindByteString {
		return nil, false, ErrWrongType
	}
	delete(sh.entries, string(key))
	s.keyCount.Add(-1)
	s.delOps.Add(1)
	return cloneBytes(e.str), true, nil
}

// Del removes each key in keys and returns the count of keys actually
// present and removed (already-expired or never-existing keys do not
// count, matching spec.md §4.5's "Count of keys removed").
func (s *Store) Del(keys [][]byte) int {
	removed := 0
	now := s.now()
	for _, key := range keys {
		sh := s.shardFor(key)
		sh.mu.Lock()
		e, exists := sh.entries[string(key)]
		if exists {
			delete(sh.entries, string(key))
			s.keyCount.Add(-1)
			if e.expiredAt(now) {
				s.expiredReclaimed.Add(1)
			} else {
				removed++
				s.delOps.Add(1)
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Exists returns the count of keys present (duplicates in keys count
// separately, matching spec.md §4.5).
func (s *Store) Exists(keys [][]byte) int {
	count := 0
	now := s.now()
	for _, key := range keys {
		sh := s.shardFor(key)
		sh.mu.RLock()
		e, exists := sh.entries[string(key)]
		expired := exists && e.expiredAt(now)
		sh.mu.RUnlock()
		if expired {
			s.reclaimIfExpired(sh, string(key))
			continue
		}
		if exists {
			count++
		}
	}
	return count
}

// Append concatenates value onto key's ByteString (creating it if absent)
// and returns the new total length, preserving any existing TTL.
func (s *Store) Append(key, value []byte) (newLen int, err error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		exists = false
	}
	if exists && e.kind != KindByteString {
		return 0, ErrWrongType
	}
	if !exists {
		sh.entries[string(key)] = &entry{
			kind:         KindByteString,
			str:          cloneBytes(value),
			createdAt:    now,
			lastAccessed: now,
		}
		s.keyCount.Add(1)
		s.setOps.Add(1)
		return len(value), nil
	}
	e.str = append(e.str, value...)
	s.setOps.Add(1)
	return len(e.str), nil
}

// StrLen returns the length of key's ByteString, or 0 if absent.
func (s *Store) StrLen(key []byte) (int, error) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, exists := sh.entries[string(key)]
	if !exists || e.expiredAt(s.now()) {
		return 0, nil
	}
	if e.kind != KindByteString {
		return 0, ErrWrongType
	}
	return len(e.str), nil
}

// IncrBy parses key's current ByteString as a signed 64-bit decimal integer
// (absent treated as 0), adds delta, checks for overflow, and writes the
// decimal result back in place, preserving any existing TTL.
func (s *Store) IncrBy(key []byte, delta int64) (int64, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		exists = false
	}
	if exists && e.kind != KindByteString {
		return 0, ErrWrongType
	}

	var current int64
	if exists {
		parsed, ok := parseStrictInt64(e.str)
		if !ok {
			return 0, ErrNotInteger
		}
		current = parsed
	}

	sum, ok := addInt64WithOverflowCheck(current, delta)
	if !ok {
		return 0, ErrOverflow
	}

	rendered := []byte(formatInt64(sum))
	if exists {
		e.str = rendered
	} else {
		sh.entries[string(key)] = &entry{
			kind:         KindByteString,
			str:          rendered,
			createdAt:    now,
			lastAccessed: now,
		}
		s.keyCount.Add(1)
	}
	s.setOps.Add(1)
	return sum, nil
}

// Rename moves src's value (and remaining TTL) onto dst, removing src. If
// nx is true, the rename fails with ErrKeyExists when dst already exists.
// It fails with ErrNotFound when src is absent or has expired, even if the
// expiry boundary was crossed only moments before the call (spec.md §9
// open question, resolved: treat as not-found rather than silently
// succeeding with nothing stored).
func (s *Store) Rename(src, dst []byte, nx bool) (bool, error) {
	si, di := s.shardIndex(src), s.shardIndex(dst)
	now := s.now()

	do := func() (bool, error) {
		srcSh, dstSh := s.shards[si], s.shards[di]
		se, exists := srcSh.entries[string(src)]
		if !exists || se.expiredAt(now) {
			if exists {
				delete(srcSh.entries, string(src))
				s.expiredReclaimed.Add(1)
				s.keyCount.Add(-1)
			}
			return false, ErrNotFound
		}
		if de, dexists := dstSh.entries[string(dst)]; dexists && !de.expiredAt(now) && nx {
			return false, ErrKeyExists
		}
		moved := &entry{
			kind: se.kind, str: se.str, seq: se.seq,
			expiresAt: se.expiresAt, createdAt: se.createdAt, lastAccessed: now,
		}
		_, dstHad := dstSh.entries[string(dst)]
		delete(srcSh.entries, string(src))
		dstSh.entries[string(dst)] = moved
		if !dstHad {
			s.keyCount.Add(1)
		}
		s.keyCount.Add(-1)
		return true, nil
	}

	if si == di {
		s.shards[si].mu.Lock()
		defer s.shards[si].mu.Unlock()
		return do()
	}
	first, second := si, di
	if first > second {
		first, second = second, first
	}
	s.shards[first].mu.Lock()
	defer s.shards[first].mu.Unlock()
	s.shards[second].mu.Lock()
	defer s.shards[second].mu.Unlock()
	return do()
}

// Copy duplicates src's value and remaining TTL onto dst. It returns false
// (no error) if src is absent/expired, or if dst already exists and
// replace is false.
func (s *Store) Copy(src, dst []byte, replace bool) (bool, error) {
	si, di := s.shardIndex(src), s.shardIndex(dst)
	now := s.now()

	do := func() (bool, error) {
		srcSh, dstSh := s.shards[si], s.shards[di]
		se, exists := srcSh.entries[string(src)]
		if !exists || se.expiredAt(now) {
			return false, nil
		}
		if de, dexists := dstSh.entries[string(dst)]; dexists && !de.expiredAt(now) && !replace {
			return false, nil
		}
		var clone *entry
		if se.kind == KindByteString {
			clone = &entry{kind: KindByteString, str: cloneBytes(se.str), expiresAt: se.expiresAt, createdAt: now, lastAccessed: now}
		} else {
			clone = newSequenceEntry(now)
			clone.expiresAt = se.expiresAt
			for _, v := range se.seq.ToSlice() {
				clone.seq.PushBack(cloneBytes(v))
			}
		}
		_, dstHad := dstSh.entries[string(dst)]
		dstSh.entries[string(dst)] = clone
		if !dstHad {
			s.keyCount.Add(1)
		}
		return true, nil
	}

	if si == di {
		s.shards[si].mu.Lock()
		defer s.shards[si].mu.Unlock()
		return do()
	}
	first, second := si, di
	if first > second {
		first, second = second, first
	}
	s.shards[first].mu.Lock()
	defer s.shards[first].mu.Unlock()
	s.shards[second].mu.Lock()
	defer s.shards[second].mu.Unlock()
	return do()
}

// SetExpire sets key's remaining TTL. A non-positive ttl deletes the key
// outright (spec.md §4.5: "Non-positive TTL deletes the key"). Returns
// false if the key was absent or already expired.
func (s *Store) SetExpire(key []byte, ttl time.Duration) (bool, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		exists = false
	}
	if !exists {
		return false, nil
	}
	if ttl <= 0 {
		delete(sh.entries, string(key))
		s.keyCount.Add(-1)
		return true, nil
	}
	e.expiresAt = now.Add(ttl)
	return true, nil
}

// SetExpireAtUnix is SetExpire expressed as an absolute Unix-seconds
// deadline (EXPIREAT).
func (s *Store) SetExpireAtUnix(key []byte, unixSeconds int64) (bool, error) {
	target := time.Unix(unixSeconds, 0)
	return s.SetExpire(key, target.Sub(s.now()))
}

// Persist clears key's TTL. Returns true only if the key existed and
// previously had a TTL set.
func (s *Store) Persist(key []byte) (bool, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		return false, nil
	}
	if !exists || !e.hasTTL() {
		return false, nil
	}
	e.expiresAt = time.Time{}
	return true, nil
}

// PTTLMillis returns the remaining TTL in milliseconds, or the sentinel
// -2 (absent) / -1 (persistent) per spec.md §4.5.
func (s *Store) PTTLMillis(key []byte) int64 {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, exists := sh.entries[string(key)]
	now := s.now()
	if !exists || e.expiredAt(now) {
		return -2
	}
	if !e.hasTTL() {
		return -1
	}
	remaining := e.expiresAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return remaining.Milliseconds()
}

// ExpireTimeMillis returns the absolute Unix-milliseconds deadline, or the
// -2/-1 sentinels.
func (s *Store) ExpireTimeMillis(key []byte) int64 {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, exists := sh.entries[string(key)]
	now := s.now()
	if !exists || e.expiredAt(now) {
		return -2
	}
	if !e.hasTTL() {
		return -1
	}
	return e.expiresAt.UnixMilli()
}

// Type returns the Kind stored at key, or found=false if absent/expired.
func (s *Store) Type(key []byte) (kind Kind, found bool) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, exists := sh.entries[string(key)]
	if !exists || e.expiredAt(s.now()) {
		return 0, false
	}
	return e.kind, true
}

// Encoding returns the internal-representation name OBJECT ENCODING
// reports: "raw" for ByteString, "list" for Sequence.
func (s *Store) Encoding(key []byte) (string, bool) {
	kind, found := s.Type(key)
	if !found {
		return "", false
	}
	if kind == KindByteString {
		return "raw", true
	}
	return "list", true
}

// --- Sequence operations ---

// LPush/RPush share this implementation; left selects which end values are
// pushed onto. Per spec.md §4.2, values are pushed left-to-right onto the
// chosen end, so for LPUSH against an empty key the head ends up holding
// the last argument.
func (s *Store) push(key []byte, values [][]byte, left bool) (int, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		exists = false
	}
	if exists && e.kind != KindSequence {
		return 0, ErrWrongType
	}
	if !exists {
		e = newSequenceEntry(now)
		sh.entries[string(key)] = e
		s.keyCount.Add(1)
	}
	for _, v := range values {
		if left {
			e.seq.PushFront(cloneBytes(v))
		} else {
			e.seq.PushBack(cloneBytes(v))
		}
	}
	s.seqOps.Add(1)
	return e.seq.Len(), nil
}

// LPush pushes values onto the head of key's Sequence, creating it if absent.
func (s *Store) LPush(key []byte, values [][]byte) (int, error) { return s.push(key, values, true) }

// RPush pushes values onto the tail of key's Sequence, creating it if absent.
func (s *Store) RPush(key []byte, values [][]byte) (int, error) { return s.push(key, values, false) }

func (s *Store) pop(key []byte, left bool) (value []byte, found bool, err error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := s.now()
	e, exists := sh.entries[string(key)]
	if exists && e.expiredAt(now) {
		delete(sh.entries, string(key))
		s.expiredReclaimed.Add(1)
		s.keyCount.Add(-1)
		exists = false
	}
	if !exists {
		return nil, false, nil
	}
	if e.kind != KindSequence {
		return nil, false, ErrWrongType
	}
	var v []byte
	if left {
		v, found = e.seq.PopFront()
	} else {
		v, found = e.seq.PopBack()
	}
	if !found {
		return nil, false, nil
	}
	if e.seq.Len() == 0 {
		delete(sh.entries, string(key))
		s.keyCount.Add(-1)
	}
	s.seqOps.Add(1)
	return v, true, nil
}

// LPop removes and returns key's first element.
func (s *Store) LPop(key []byte) ([]byte, bool, error) { return s.pop(key, true) }

// RPop removes and returns key's last element.
func (s *Store) RPop(key []byte) ([]byte, bool, error) { return s.pop(key, false) }

// LLen returns the length of key's Sequence, or 0 if absent.
func (s *Store) LLen(key []byte) (int, error) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, exists := sh.entries[string(key)]
	if !exists || e.expiredAt(s.now()) {
		return 0, nil
	}
	if e.kind != KindSequence {
		return 0, ErrWrongType
	}
	return e.seq.Len(), nil
}

// normalizeIndex converts a possibly-negative index into an absolute
// position, or ok=false if it is out of bounds after conversion.
func normalizeIndex(idx, length int) (int, bool) {
	if idx < 0 {
		idx += length
	}
	if idx < 0 || idx >= length {
		return 0, false
	}
	return idx, true
}

// LIndex returns the element at idx (negative indices count from the
// tail), or found=false if out of range or the key is absent.
func (s *Store) LIndex(key []byte, idx int) (value []byte, found bool, err error) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, exists := sh.entries[string(key)]
	if !exists || e.expiredAt(s.now()) {
		return nil, false, nil
	}
	if e.kind != KindSequence {
		return nil, false, ErrWrongType
	}
	pos, ok := normalizeIndex(idx, e.seq.Len())
	if !ok {
		return nil, false, nil
	}
	v, _ := e.seq.At(pos)
	return cloneBytes(v), true, nil
}

// LRange returns the inclusive-inclusive range [start, stop] (both may be
// negative), clamped per spec.md §4.2: start is floored to 0, stop is
// capped to len-1; an empty result is returned if start > stop or
// start >= len.
func (s *Store) LRange(key []byte, start, stop int) ([][]byte, error) {
	sh := s.shardFor(key)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	e, exists := sh.entries[string(key)]
	if !exists || e.expiredAt(s.now()) {
		return nil, nil
	}
	if e.kind != KindSequence {
		return nil, ErrWrongType
	}
	length := e.seq.Len()
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start < 0 {
		start = 0
	}
	if stop > length-1 {
		stop = length - 1
	}
	if start > stop || start >= length {
		return nil, nil
	}
	raw := e.seq.Slice(start, stop)
	out := make([][]byte, len(raw))
	for i, v := range raw {
		out[i] = cloneBytes(v)
	}
	return out, nil
}

// LSet overwrites the element at idx. Returns ErrNotFound if the key is
// absent, ErrIndexOutOfRange if idx is out of bounds, ErrWrongType for a
// ByteString key.
func (s *Store) LSet(key []byte, idx int, value []byte) error {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, exists := sh.entries[string(key)]
	if !exists || e.expiredAt(s.now()) {
		return ErrNotFound
	}
	if e.kind != KindSequence {
		return ErrWrongType
	}
	pos, ok := normalizeIndex(idx, e.seq.Len())
	if !ok {
		return ErrIndexOutOfRange
	}
	e.seq.Set(pos, cloneBytes(value))
	return nil
}

// LRem removes up to |count| occurrences of value from key's Sequence:
// count > 0 scans head-to-tail, count < 0 scans tail-to-head, count == 0
// removes every match. Returns the number removed; an emptied sequence
// deletes the key.
func (s *Store) LRem(key []byte, count int, value []byte) (int, error) {
	sh := s.shardFor(key)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	e, exists := sh.entries[string(key)]
	if !exists || e.expiredAt(s.now()) {
		return 0, nil
	}
	if e.kind != KindSequence {
		return 0, ErrWrongType
	}

	elems := e.seq.ToSlice()
	removed := 0
	var kept [][]byte

	switch {
	case count >= 0:
		limit := count
		if count == 0 {
			limit = len(elems)
		}
		for _, el := range elems {
			if removed < limit && bytes.Equal(el, value) {
				removed++
				continue
			}
			kept = append(kept, el)
		}
	default:
		limit := -count
		rev := make([][]byte, 0, len(elems))
		for i := len(elems) - 1; i >= 0; i-- {
			el := elems[i]
			if removed < limit && bytes.Equal(el, value) {
				removed++
				continue
			}
			rev = append(rev, el)
		}
		for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
			rev[i], rev[j] = rev[j], rev[i]
		}
		kept = rev
	}

	e.seq.rebuild(kept)
	if e.seq.Len() == 0 {
		delete(sh.entries, string(key))
		s.keyCount.Add(-1)
	}
	s.seqOps.Add(1)
	return removed, nil
}

// --- Whole-keyspace operations ---

// Keys returns every key matching pattern (spec.md §4.2 glob rules, matched
// against raw key bytes — see SPEC_FULL.md §6 open-question decision #3).
// Each shard's lock is held only while that shard is scanned; there is no
// cross-shard atomicity.
func (s *Store) Keys(pattern []byte) [][]byte {
	now := s.now()
	var out [][]byte
	for _, sh := range s.shards {
		sh.mu.RLock()
		for k, e := range sh.entries {
			if e.expiredAt(now) {
				continue
			}
			if matchGlob(pattern, []byte(k)) {
				out = append(out, []byte(k))
			}
		}
		sh.mu.RUnlock()
	}
	return out
}

// Scan is a cursor-based, bounded-batch alternative to Keys (SPEC_FULL.md
// §4): cursor 0 starts iteration; the returned cursor is 0 again once
// iteration has visited every shard. Unlike a true production SCAN, pages
// are computed by re-sorting each shard's live keys on every call rather
// than maintaining a stable external iterator, so concurrent mutation of a
// shard being paged through can skip or repeat a key — acceptable for a
// diagnostic/bulk-export command, not a correctness-critical path.
func (s *Store) Scan(cursor uint64, pattern []byte, count int) (nextCursor uint64, keys [][]byte) {
	if count <= 0 {
		count = 10
	}
	const perShardSpan = 1_000_000
	numShards := uint64(len(s.shards))
	shardIdx := cursor / perShardSpan
	offset := int(cursor % perShardSpan)
	now := s.now()

	for shardIdx < numShards {
		sh := s.shards[shardIdx]
		sh.mu.RLock()
		all := make([]string, 0, len(sh.entries))
		for k, e := range sh.entries {
			if e.expiredAt(now) {
				continue
			}
			if pattern == nil || matchGlob(pattern, []byte(k)) {
				all = append(all, k)
			}
		}
		sh.mu.RUnlock()
		sort.Strings(all)

		if offset >= len(all) {
			shardIdx++
			offset = 0
			continue
		}
		end := offset + (count - len(keys))
		if end > len(all) {
			end = len(all)
		}
		for _, k := range all[offset:end] {
			keys = append(keys, []byte(k))
		}
		offset = end

		if len(keys) >= count {
			if offset >= len(all) {
				shardIdx++
				offset = 0
			}
			if shardIdx >= numShards {
				return 0, keys
			}
			return shardIdx*perShardSpan + uint64(offset), keys
		}
		shardIdx++
		offset = 0
	}
	return 0, keys
}

// RandomKey returns a uniformly-ish chosen existing key, or found=false if
// the store is empty. It starts at a random shard and, on finding an empty
// one, retries the next shard (spec.md §4 supplement, grounded on
// original_source's retry-on-empty-shard behavior).
func (s *Store) RandomKey() (key []byte, found bool) {
	n := len(s.shards)
	if n == 0 {
		return nil, false
	}
	now := s.now()
	start := rand.Intn(n)
	for i := 0; i < n; i++ {
		sh := s.shards[(start+i)%n]
		sh.mu.RLock()
		if len(sh.entries) == 0 {
			sh.mu.RUnlock()
			continue
		}
		skip := rand.Intn(len(sh.entries))
		idx := 0
		var chosen string
		ok := false
		for k, e := range sh.entries {
			if e.expiredAt(now) {
				continue
			}
			if idx == skip {
				chosen = k
				ok = true
				break
			}
			idx++
		}
		sh.mu.RUnlock()
		if ok {
			return []byte(chosen), true
		}
	}
	return nil, false
}

// Flush removes every key from every shard and resets the key counter.
func (s *Store) Flush() {
	for _, sh := range s.shards {
		sh.mu.Lock()
		sh.entries = make(map[string]*entry)
		sh.mu.Unlock()
	}
	s.keyCount.Store(0)
}

// CleanupPass removes every expired entry from every shard and returns the
// total removed. It is the operation the background sweeper (internal/expiry)
// drives; lazy per-access reclamation is the correctness mechanism, this is
// only a memory bound for never-accessed expired keys (spec.md §4.3).
func (s *Store) CleanupPass() int {
	now := s.now()
	var total int64
	for _, sh := range s.shards {
		sh.mu.Lock()
		for k, e := range sh.entries {
			if e.expiredAt(now) {
				delete(sh.entries, k)
				total++
			}
		}
		sh.mu.Unlock()
	}
	if total > 0 {
		s.expiredReclaimed.Add(total)
		s.keyCount.Add(-total)
	}
	return int(total)
}
