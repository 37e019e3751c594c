// Package search implements iterative-deepening alpha-beta search with
// quiescence, the explicit White-maximizes/Black-minimizes polarity spec.md §4.6
// requires (board.Score is always White-relative, not side-relative, so this
// package cannot use a negamax formulation the way
// _examples/herohde-morlock/pkg/search does). Grounded on that package's
// Search/Context/PV interface shapes and on original_source/src/search.cpp for
// the win-postponement, repetition-pruning and check-extension behavior.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tanolen/chessmate/pkg/board"
)

// ErrHalted is returned by Search when the context was cancelled mid-search
// (e.g. the host called Halt, or the move-time deadline passed).
var ErrHalted = errors.New("search halted")

// MaxCheckDepth bounds how many checking non-capture moves one quiescence line
// may contain; captures on the line do not count toward it, and the distance
// from the search root is not consulted.
const MaxCheckDepth = 2

// EscapeCheckDepth bounds the check-extension: a position where the side to move
// is in check gets one extra ply of full-width search, up to this many times along
// one line, so the search doesn't stop mid-check-sequence at the horizon.
const EscapeCheckDepth = 6

// PV is one iteration's result: the score, principal variation, node count and
// wall-clock time spent, plus the transposition table's utilization if any.
type PV struct {
	Depth   int
	Nodes   uint64
	Score   board.Score
	Path    board.BestPath
	Time    time.Duration
	TTUsed  float64
	Resign  bool // true once Score has crossed the configured resignation threshold
}

func (p PV) String() string {
	return fmt.Sprintf("{depth=%v, nodes=%v, score=%v, pv=%v, time=%v}", p.Depth, p.Nodes, p.Score, p.Path, p.Time)
}

// Search is one node-searching strategy (currently only AlphaBeta, but the
// interface mirrors the teacher's so alternate strategies -- e.g. a pure minimax
// for testing -- can be dropped in without touching the launcher).
type Search interface {
	Search(ctx context.Context, b *board.Board, depth int, alpha, beta board.Score) (uint64, board.Score, board.BestPath, error)
}
