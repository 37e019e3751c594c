package search

import (
	"context"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/movegen"
)

// quiescence resolves tactical sequences past the full-width search horizon:
// stand-pat, then captures/promotions (and, while fewer than MaxCheckDepth
// checking non-captures have been played on this line, checking quiet moves too),
// per spec.md §4.6. checkDepth counts plies already spent on
// checking non-captures so the search doesn't chase an endless string of checks.
func (r *run) quiescence(ctx context.Context, alpha, beta board.Score, checkDepth int) (board.Score, uint64) {
	var nodes uint64

	standPat := r.eval.Evaluate(ctx, r.b)
	turn := r.b.Turn()

	if turn == board.White {
		if standPat >= beta {
			return standPat, nodes
		}
		if standPat > alpha {
			alpha = standPat
		}
	} else {
		if standPat <= alpha {
			return standPat, nodes
		}
		if standPat < beta {
			beta = standPat
		}
	}

	var list board.MoveList
	movegen.GenerateCaptures(r.b, &list)
	if checkDepth < MaxCheckDepth {
		appendCheckingQuiets(r.b, &list)
	}
	movegen.FilterLegal(r.b, &list)

	best := standPat
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		var unmove board.UnmoveInfo
		r.b.Make(&m, &unmove, false, true)
		nodes++
		nextCheckDepth := checkDepth
		if !m.IsCaptureLike() {
			nextCheckDepth++
		}
		score, sub := r.quiescence(ctx, alpha, beta, nextCheckDepth)
		nodes += sub
		r.b.Unmake(m, &unmove)

		if turn == board.White {
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
			}
			if best < beta {
				beta = best
			}
		}
		if alpha >= beta {
			break
		}
	}

	return best, nodes
}

// appendCheckingQuiets adds non-capture moves that give check to list, since
// quiescence must also resolve forced check sequences, not only material trades.
func appendCheckingQuiets(b *board.Board, list *board.MoveList) {
	var all board.MoveList
	movegen.Generate(b, &all)
	for i := 0; i < all.Len(); i++ {
		m := all.At(i)
		if m.IsCaptureLike() {
			continue
		}
		var unmove board.UnmoveInfo
		b.Make(&m, &unmove, false, true)
		givesCheck := m.GivesCheck
		b.Unmake(m, &unmove)
		if givesCheck {
			list.Append(m)
		}
	}
}
