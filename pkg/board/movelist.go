package board

import (
	"fmt"
	"math/rand"
	"sort"
)

// MaxMoves bounds MoveList capacity: 218 is the documented worst-case legal move count
// for any reachable chess position; a search that overflows it has a corrupt move
// generator, not an unlucky position, per spec.md §7's MoveStackOverflow.
const MaxMoves = 218

// MoveList is a bounded, stack-friendly sequence of moves used as one search-node's
// stack frame. The zero value is an empty, ready-to-use list.
type MoveList struct {
	moves [MaxMoves]Move
	n     int
}

// Append adds a move to the list. Returns false (an overflow) if the list is full --
// callers are expected to treat that as BoardInvariantViolation/MoveStackOverflow.
func (l *MoveList) Append(m Move) bool {
	if l.n >= MaxMoves {
		return false
	}
	l.moves[l.n] = m
	l.n++
	return true
}

// RemoveAt deletes the move at index i via swap-with-last, as spec.md §4.2's legality
// filter requires (order among surviving moves need not be preserved by this step;
// SortByScore runs afterwards).
func (l *MoveList) RemoveAt(i int) {
	l.n--
	l.moves[i] = l.moves[l.n]
}

// Len returns the number of moves currently in the list.
func (l *MoveList) Len() int {
	return l.n
}

// At returns the move at index i.
func (l *MoveList) At(i int) Move {
	return l.moves[i]
}

// Set overwrites the move at index i, e.g. to record an ordering Score.
func (l *MoveList) Set(i int, m Move) {
	l.moves[i] = m
}

// Slice returns the live portion of the list as a slice sharing the backing array.
func (l *MoveList) Slice() []Move {
	return l.moves[:l.n]
}

// Shuffle randomizes move order, used at the root when search_bias is enabled so
// otherwise-tied moves are not always tried in generation order.
func (l *MoveList) Shuffle(r *rand.Rand) {
	s := l.Slice()
	r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// SortByScore orders the list by each move's ordering Score: descending if White is to
// move (highest-scoring tried first), ascending if Black is to move. The sort is stable
// so moves of equal score keep their generation order.
func (l *MoveList) SortByScore(turn Color) {
	s := l.Slice()
	if turn == White {
		sort.SliceStable(s, func(i, j int) bool { return s[i].OrderScore > s[j].OrderScore })
	} else {
		sort.SliceStable(s, func(i, j int) bool { return s[i].OrderScore < s[j].OrderScore })
	}
}

func (l *MoveList) String() string {
	return fmt.Sprintf("moves%v", l.Slice())
}

// BestPath is the principal variation tracked during iterative deepening: one per
// expanded root move, reused across iterations (spec.md §3's "one is kept per
// expanded top-level move for re-use across iterative deepening").
type BestPath struct {
	Moves [MaxBestPathDepth]Move
	Depth int
}

// MaxBestPathDepth bounds principal-variation tracking; spec.md §4.6 clips tracking
// once the live search depth would exceed it.
const MaxBestPathDepth = 32

// Prepend returns a new BestPath with m in front, clipped to MaxBestPathDepth.
func (p BestPath) Prepend(m Move) BestPath {
	var out BestPath
	out.Moves[0] = m
	out.Depth = p.Depth + 1
	if out.Depth > MaxBestPathDepth {
		out.Depth = MaxBestPathDepth
	}
	for i := 1; i < out.Depth; i++ {
		out.Moves[i] = p.Moves[i-1]
	}
	return out
}

// Slice returns the live portion of the path.
func (p BestPath) Slice() []Move {
	return p.Moves[:p.Depth]
}

// StripFirst removes the first n plies. Nothing in this module calls it: the
// search does not carry a previous best path into the next search.
func (p BestPath) StripFirst(n int) BestPath {
	if n >= p.Depth {
		return BestPath{}
	}
	var out BestPath
	out.Depth = p.Depth - n
	copy(out.Moves[:out.Depth], p.Moves[n:p.Depth])
	return out
}

func (p BestPath) String() string {
	return fmt.Sprintf("pv%v", p.Slice())
}
