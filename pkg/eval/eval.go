// Package eval implements static position evaluation: a midgame evaluator (material,
// piece-square placement, mobility, king safety, pawn structure) and an endgame
// evaluator specialized for driving a lone king to the edge of the board, selected
// by remaining material per spec.md §4.3. Grounded on
// _examples/herohde-morlock/pkg/eval/eval.go for the Evaluator interface shape, and
// on original_source/src/eval.cpp and endgame.cpp for the term list and the
// gene-vector indices.
package eval

import (
	"context"

	"github.com/tanolen/chessmate/pkg/board"
)

// Evaluator is a static position evaluator returning a White-perspective score.
type Evaluator interface {
	Evaluate(ctx context.Context, b *board.Board) board.Score
}

// Stats accumulates counters a caller can use to report evaluation activity, e.g.
// over UCI "info string" lines.
type Stats struct {
	MidgameCalls int64
	EndgameCalls int64
}

// Engine is the default Evaluator: it selects between midgame and endgame
// evaluation per position and folds in the gene vector.
type Engine struct {
	Genes Genes
	Stats *Stats
}

// NewEngine constructs an Engine with the given genes (eval.Default() if the zero
// value is undesired) and an optional stats sink.
func NewEngine(g Genes, stats *Stats) *Engine {
	return &Engine{Genes: g, Stats: stats}
}

func (e *Engine) Evaluate(ctx context.Context, b *board.Board) board.Score {
	if isEndgame(b) {
		if e.Stats != nil {
			e.Stats.EndgameCalls++
		}
		return evaluateEndgame(b, e.Genes)
	}
	if e.Stats != nil {
		e.Stats.MidgameCalls++
	}
	return evaluateMidgame(b, e.Genes)
}

// isEndgame reports whether the position is handed to the lone-king-drive
// endgame evaluator: one side has no pieces besides its king and pawns. The other
// side's material is not checked, so this also holds when that side has only a
// single minor piece, or when both sides are down to kings and pawns.
// Mirrors original_source/src/endgame.cpp's coarse material gate.
func isEndgame(b *board.Board) bool {
	return isBareOrPawnsOnly(b, board.White) || isBareOrPawnsOnly(b, board.Black)
}

func isBareOrPawnsOnly(b *board.Board, c board.Color) bool {
	return b.Inventory(c, board.Queen) == 0 && b.Inventory(c, board.Rook) == 0 &&
		b.Inventory(c, board.Bishop) == 0 && b.Inventory(c, board.Knight) == 0
}
