// Package ordering scores pseudo-legal moves so the search tries the most
// promising ones first, per spec.md §4.4 and grounded on
// original_source/src/morder.cpp's term list: a best-path/TT-hint match, killer
// bonus, check/recapture/material terms, and a decaying history table.
package ordering

import (
	"github.com/tanolen/chessmate/pkg/board"
)

// historyBits sizes the history table: a 12-bit hash of (from, to) per
// original_source/src/morder.cpp's HASH_HIST_MAX sizing rationale (enough buckets
// that collisions rarely matter, small enough to stay cache-resident).
const historyBits = 12
const historySize = 1 << historyBits

// HistoryMax caps a single history-table entry so one wildly successful move
// early in the search cannot dominate ordering indefinitely.
const HistoryMax = 1 << 14

// Table holds the mutable move-ordering state that must persist across the whole
// iterative-deepening search (killers and history), but never across games: a new
// Table should be created per search.
type Table struct {
	killers [maxPly][2]board.Move
	history [historySize]int32
}

const maxPly = 128

func historyIndex(m board.Move) int {
	return (int(m.From)<<6 ^ int(m.To)) & (historySize - 1)
}

// NewTable returns an empty ordering table.
func NewTable() *Table {
	return &Table{}
}

// RecordKiller registers m as a killer move at ply: a non-capture that caused a
// beta cutoff, tried early in sibling nodes at the same ply.
func (t *Table) RecordKiller(ply int, m board.Move) {
	if ply < 0 || ply >= maxPly || m.IsCaptureLike() {
		return
	}
	if t.killers[ply][0].Equals(m) {
		return
	}
	t.killers[ply][1] = t.killers[ply][0]
	t.killers[ply][0] = m
}

// RecordHistory increments the history score for m by depth^2, decaying nothing
// itself -- DecayHistory is called once per iterative-deepening iteration instead,
// per spec.md §4.4.
func (t *Table) RecordHistory(m board.Move, depth int) {
	if m.IsCaptureLike() {
		return
	}
	i := historyIndex(m)
	t.history[i] += int32(depth * depth)
	if t.history[i] > HistoryMax {
		t.history[i] = HistoryMax
	}
}

// DecayHistory halves every history entry, giving recent search iterations more
// influence than stale ones (a half-life, not a hard reset).
func (t *Table) DecayHistory() {
	for i := range t.history {
		t.history[i] /= 2
	}
}

// Context carries the per-node information Score needs beyond the move itself:
// the ply (for killer lookup), the TT-recommended move (if any), and the current
// best path for this branch (if any).
type Context struct {
	Ply       int
	HintMove  board.Move
	HasHint   bool
	BestMove  board.Move
	HasBest   bool
}

// Score assigns m.OrderScore an ordering value, White-relative like board.Score:
// the terms rate how early the side to move should try m, and the sum is negated
// when Black is to move, so MoveList.SortByScore (descending for White, ascending
// for Black) tries each side's strongest candidates first.
func (t *Table) Score(b *board.Board, m board.Move, ctx Context) int32 {
	var s int32

	if ctx.HasBest && m.Equals(ctx.BestMove) {
		s += 1_000_000
	}
	if ctx.HasHint && m.Equals(ctx.HintMove) {
		s += 500_000
	}

	if m.GivesCheck {
		s += 5_000
	}

	if m.IsCaptureLike() {
		s += 10_000 + materialGain(m)
		if isRecapture(b, m) {
			s += 2_000
		}
	} else {
		if ctx.Ply >= 0 && ctx.Ply < maxPly {
			if t.killers[ctx.Ply][0].Equals(m) {
				s += 4_000
			} else if t.killers[ctx.Ply][1].Equals(m) {
				s += 3_000
			}
		}
		s += t.history[historyIndex(m)]
	}

	if m.IsCastle() {
		s += 50
	}

	if attackedByPawn(b, m.To, b.Turn().Opponent()) {
		s -= int32(pieceValue(m.Piece))
	}

	if forwardMotion(m, b.Turn()) {
		s += 5
	}

	if b.Turn() == board.Black {
		s = -s
	}
	return s
}

func materialGain(m board.Move) int32 {
	gain := int32(pieceValue(m.Capture))
	if m.Type == board.Promotion || m.Type == board.CapturePromotion {
		gain += int32(pieceValue(m.Promotion)) - int32(pieceValue(board.Pawn))
	}
	return gain
}

func pieceValue(p board.Piece) int32 {
	return board.RawPieceValue[p]
}

func isRecapture(b *board.Board, m board.Move) bool {
	pm, ok := b.PrevMove()
	return ok && pm.IsCaptureLike() && pm.To == m.To
}

func attackedByPawn(b *board.Board, o board.Offset, by board.Color) bool {
	back := -board.PawnAdvanceDirection(by)
	return b.At(o+back+board.East).Is(by, board.Pawn) || b.At(o+back+board.West).Is(by, board.Pawn)
}

func forwardMotion(m board.Move, turn board.Color) bool {
	dr := m.To.RankOf() - m.From.RankOf()
	if turn == board.White {
		return dr > 0
	}
	return dr < 0
}
