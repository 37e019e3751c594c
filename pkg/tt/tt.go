// Package tt implements the two-table (side-to-move-keyed) transposition table of
// spec.md §4.5: one open-addressed table for positions with White to move and one
// for Black to move, each bucket holding three candidate slots probed under a
// three-pass replacement policy. Grounded on
// _examples/herohde-morlock/pkg/search/transposition.go for the Read/Write/
// TranspositionTable interface shape and original_source/src/transpos.cpp for the
// two-table-by-side-to-move layout and stale-marking between searches.
package tt

import (
	"context"
	"math/bits"
	"sync"

	"github.com/tanolen/chessmate/pkg/board"
)

// Bound records whether a stored score is exact or merely a lower/upper bound
// (from an alpha-beta cutoff that never searched the full window).
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

// slotsPerBucket is the three-way associativity spec.md §4.5 describes: a probe
// tries up to three candidate slots before giving up on a write.
const slotsPerBucket = 3

type entry struct {
	valid bool
	stale bool
	hash  board.ZobristHash
	bound Bound
	depth int
	ply   int // plies from the search root when this entry was written
	score board.Score
	best  board.Move
}

// weight ranks an entry for eviction: search depth dominates, and ply (plies
// from root) breaks ties between same-depth entries, since a node closer to
// the root is more likely to be reached again by a later iteration than one
// deep in a speculative line. Lower is weaker/more evictable.
func (e *entry) weight() int {
	if !e.valid {
		return -1
	}
	return e.depth*1024 - e.ply
}

// Table is one side-to-move's transposition table.
type Table struct {
	mu      sync.Mutex
	buckets [][slotsPerBucket]entry
	mask    uint64

	probes, hits, collisionDrops uint64
}

// Store holds both side-to-move tables, per spec.md §4.5: searches probe
// Store.For(turn) to get the table relevant to the position on the board.
type Store struct {
	white, black *Table
}

// New allocates a Store sized to approximately sizeBytes total, split evenly
// between the two side-to-move tables.
func New(ctx context.Context, sizeBytes uint64) *Store {
	return &Store{
		white: newTable(sizeBytes / 2),
		black: newTable(sizeBytes / 2),
	}
}

func newTable(sizeBytes uint64) *Table {
	entrySize := uint64(48)
	numBuckets := sizeBytes / (entrySize * slotsPerBucket)
	if numBuckets < 1 {
		numBuckets = 1
	}
	n := uint64(1) << (63 - bits.LeadingZeros64(numBuckets))
	if n == 0 {
		n = 1
	}
	return &Table{
		buckets: make([][slotsPerBucket]entry, n),
		mask:    n - 1,
	}
}

// For returns the table relevant to a position with the given side to move.
func (s *Store) For(turn board.Color) *Table {
	if turn == board.White {
		return s.white
	}
	return s.black
}

// StartNewSearch marks every entry in both tables stale, per spec.md §4.5: a
// stale entry survives until overwritten but is preferred over a fresh one by the
// replacement policy, so old analysis fades out gracefully rather than being
// purged all at once.
func (s *Store) StartNewSearch() {
	s.white.startNewSearch()
	s.black.startNewSearch()
}

func (t *Table) startNewSearch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.buckets {
		for j := range t.buckets[i] {
			t.buckets[i][j].stale = true
		}
	}
}

// Probe looks up hash, returning the stored bound/depth/score/best move.
func (t *Table) Probe(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.probes++
	bucket := &t.buckets[uint64(hash)&t.mask]
	for i := range bucket {
		e := &bucket[i]
		if e.valid && e.hash == hash {
			t.hits++
			return e.bound, e.depth, e.score, e.best, true
		}
	}
	return 0, 0, 0, board.Move{}, false
}

// Store writes an entry for hash at the given ply (plies from the search
// root) using the three-pass replacement policy:
//
//  1. a slot already holding this hash, or any invalid (empty) slot;
//  2. failing that, any stale slot (its prior search iteration is over);
//  3. failing that, the weakest non-stale, different-hash slot, only if the
//     new entry is deeper -- a shallower different-hash entry is never
//     evicted by a shallower newcomer just because it arrived later;
//
// otherwise the write is dropped and counted, exactly the "count failure and
// drop" spec.md §4.5 calls for -- the table never blocks on a full bucket.
func (t *Table) Store(hash board.ZobristHash, bound Bound, depth, ply int, score board.Score, best board.Move) {
	t.mu.Lock()
	defer t.mu.Unlock()

	bucket := &t.buckets[uint64(hash)&t.mask]

	for i := range bucket {
		e := &bucket[i]
		if !e.valid || e.hash == hash {
			t.write(e, hash, bound, depth, ply, score, best)
			return
		}
	}

	for i := range bucket {
		if bucket[i].stale {
			t.write(&bucket[i], hash, bound, depth, ply, score, best)
			return
		}
	}

	weakest := 0
	for i := 1; i < len(bucket); i++ {
		if bucket[i].weight() < bucket[weakest].weight() {
			weakest = i
		}
	}
	if depth > bucket[weakest].depth {
		t.write(&bucket[weakest], hash, bound, depth, ply, score, best)
		return
	}

	t.collisionDrops++
}

func (t *Table) write(e *entry, hash board.ZobristHash, bound Bound, depth, ply int, score board.Score, best board.Move) {
	e.valid = true
	e.stale = false
	e.hash = hash
	e.bound = bound
	e.depth = depth
	e.ply = ply
	e.score = score
	e.best = best
}

// Stats reports probe/hit/drop counters for diagnostics (e.g. UCI "info string").
func (t *Table) Stats() (probes, hits, drops uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.probes, t.hits, t.collisionDrops
}

// Size returns the table's allocated size in bytes.
func (t *Table) Size() uint64 {
	return uint64(len(t.buckets)) * slotsPerBucket * 48
}
