package tt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/tt"
)

func TestStoreProbeRoundTrip(t *testing.T) {
	s := tt.New(context.Background(), 1<<20)
	table := s.For(board.White)

	h := board.ZobristHash(12345)
	best := board.Move{From: board.OFFSET(5, 2), To: board.OFFSET(5, 4), Type: board.DoublePawnPush}
	table.Store(h, tt.ExactBound, 6, 0, board.Score(35), best)

	bound, depth, score, move, ok := table.Probe(h)
	assert.True(t, ok)
	assert.Equal(t, tt.ExactBound, bound)
	assert.Equal(t, 6, depth)
	assert.Equal(t, board.Score(35), score)
	assert.True(t, move.Equals(best))
}

func TestProbeMissReportsNotOK(t *testing.T) {
	s := tt.New(context.Background(), 1<<20)
	table := s.For(board.Black)

	_, _, _, _, ok := table.Probe(board.ZobristHash(999))
	assert.False(t, ok)
}

func TestStoreWhiteAndBlackTablesAreIndependent(t *testing.T) {
	s := tt.New(context.Background(), 1<<20)
	h := board.ZobristHash(7)

	s.For(board.White).Store(h, tt.ExactBound, 4, 0, board.Score(10), board.Move{})

	_, _, _, _, ok := s.For(board.Black).Probe(h)
	assert.False(t, ok, "a hash stored under White-to-move shouldn't appear in Black's table")
}

func TestShallowerEntryIsReplacedByDeeper(t *testing.T) {
	s := tt.New(context.Background(), 64) // force a single bucket
	table := s.For(board.White)
	h := board.ZobristHash(42)

	table.Store(h, tt.UpperBound, 2, 0, board.Score(-5), board.Move{})
	table.Store(h, tt.ExactBound, 8, 0, board.Score(20), board.Move{})

	bound, depth, score, _, ok := table.Probe(h)
	assert.True(t, ok)
	assert.Equal(t, tt.ExactBound, bound)
	assert.Equal(t, 8, depth)
	assert.Equal(t, board.Score(20), score)
}

func TestDifferentHashIsNotEvictedByPassOneRegardlessOfDepth(t *testing.T) {
	s := tt.New(context.Background(), 64) // force a single bucket with 3 slots
	table := s.For(board.White)

	a, b2, c := board.ZobristHash(1), board.ZobristHash(2), board.ZobristHash(3)
	table.Store(a, tt.ExactBound, 10, 0, board.Score(1), board.Move{})
	table.Store(b2, tt.ExactBound, 10, 0, board.Score(2), board.Move{})
	table.Store(c, tt.ExactBound, 10, 0, board.Score(3), board.Move{})

	// All three slots are full, fresh (non-stale) and deeper than the newcomer.
	// Pass 1 only matches an empty or same-hash slot, so this shallow, new-hash
	// write must fall through to pass 3 and be dropped rather than evicting one
	// of the three deeper entries above.
	d := board.ZobristHash(4)
	table.Store(d, tt.ExactBound, 1, 0, board.Score(4), board.Move{})

	_, _, _, _, ok := table.Probe(d)
	assert.False(t, ok, "a shallow write to a full bucket of deeper entries should be dropped, not evict a different hash")

	_, _, _, _, ok = table.Probe(a)
	assert.True(t, ok, "existing deeper entries must survive a shallower different-hash write")
}

func TestStartNewSearchMarksEntriesStaleButKeepsThemReadable(t *testing.T) {
	s := tt.New(context.Background(), 1<<20)
	table := s.For(board.White)
	h := board.ZobristHash(101)

	table.Store(h, tt.ExactBound, 5, 0, board.Score(1), board.Move{})
	s.StartNewSearch()

	// A stale entry is still a valid probe hit -- only the replacement policy
	// treats it as lower priority than a fresh entry.
	_, depth, _, _, ok := table.Probe(h)
	assert.True(t, ok)
	assert.Equal(t, 5, depth)
}

func TestStatsCountProbesAndHits(t *testing.T) {
	s := tt.New(context.Background(), 1<<20)
	table := s.For(board.White)
	h := board.ZobristHash(55)

	table.Store(h, tt.ExactBound, 3, 0, board.Score(0), board.Move{})
	table.Probe(h)
	table.Probe(board.ZobristHash(56))

	probes, hits, _ := table.Stats()
	assert.Equal(t, uint64(2), probes)
	assert.Equal(t, uint64(1), hits)
}
