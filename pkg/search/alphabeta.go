package search

import (
	"context"
	"math/rand"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/eval"
	"github.com/tanolen/chessmate/pkg/movegen"
	"github.com/tanolen/chessmate/pkg/ordering"
	"github.com/tanolen/chessmate/pkg/tt"
)

// AlphaBeta is the default Search: full-width alpha-beta with a transposition
// table cutoff, move ordering, check extension and a quiescence-search horizon.
// Unlike a negamax engine it explicitly branches on b.Turn(): White maximizes the
// (White-relative) score, Black minimizes it.
type AlphaBeta struct {
	Eval  eval.Evaluator
	TT    *tt.Store
	Order *ordering.Table

	// Bias, if true, shuffles the root move list before ordering (search_bias),
	// so tied candidates are not always explored in generation order. Rand must
	// be non-nil whenever Bias is set.
	Bias bool
	Rand *rand.Rand
}

func (a AlphaBeta) Search(ctx context.Context, b *board.Board, depth int, alpha, beta board.Score) (uint64, board.Score, board.BestPath, error) {
	a.Order.DecayHistory()
	run := &run{eval: a.Eval, ttStore: a.TT, order: a.Order, b: b, bias: a.Bias, rnd: a.Rand}
	score, path := run.alphaBeta(ctx, depth, alpha, beta, 0, 0)
	if contextx.IsCancelled(ctx) {
		return run.nodes, 0, board.BestPath{}, ErrHalted
	}
	return run.nodes, score, path, nil
}

type run struct {
	eval    eval.Evaluator
	ttStore *tt.Store
	order   *ordering.Table
	b       *board.Board
	nodes   uint64
	bias    bool
	rnd     *rand.Rand

	// path holds the Zobrist hash of every ancestor node on the current search
	// line, indexed by ply, for the in-path repetition check below.
	path []board.ZobristHash
}

// isPathRepetition reports whether hash already occurred at a smaller depth of
// the same parity on the current search path (i.e. the same side was to move)
// and the position's on-board repetition count exceeds 1, per spec.md §4.6 step
// 3's repetition pruning -- distinct from IsDefiniteDraw's confirmed-threefold
// check, which only fires once a position has actually recurred three times.
func (r *run) isPathRepetition(hash board.ZobristHash, ply int) bool {
	if r.b.RepeatCount(hash) <= 1 {
		return false
	}
	for i := ply - 2; i >= 0; i -= 2 {
		if r.path[i] == hash {
			return true
		}
	}
	return false
}

// alphaBeta searches one node. ply is the number of plies below the search root
// (used for killer-move indexing); checkExtensions counts how many
// check-extension plies have already been granted along this line (the count is
// never reset on the way down), capped at EscapeCheckDepth.
func (r *run) alphaBeta(ctx context.Context, depth int, alpha, beta board.Score, ply, checkExtensions int) (board.Score, board.BestPath) {
	if contextx.IsCancelled(ctx) {
		return 0, board.BestPath{}
	}

	hash := r.b.Hash()
	if ply > 0 {
		if r.b.IsDefiniteDraw() {
			return board.DrawScore, board.BestPath{}
		}
		if r.isPathRepetition(hash, ply) {
			return board.DrawScore, board.BestPath{}
		}
	}

	for len(r.path) <= ply {
		r.path = append(r.path, 0)
	}
	r.path[ply] = hash

	turn := r.b.Turn()
	table := r.ttStore.For(turn)

	var hint board.Move
	hasHint := false
	if bound, d, score, move, ok := table.Probe(hash); ok {
		hint, hasHint = move, true
		if ply > 0 && d >= depth && bound == tt.ExactBound {
			return score, board.BestPath{}
		}
	}

	if depth <= 0 {
		score, nodes := r.quiescence(ctx, alpha, beta, 0)
		r.nodes += nodes
		table.Store(hash, tt.ExactBound, 0, ply, score, board.Move{})
		return score, board.BestPath{}
	}

	r.nodes++

	if r.b.IsInCheck(turn) && checkExtensions < EscapeCheckDepth {
		depth++
		checkExtensions++
	}

	var list board.MoveList
	movegen.Generate(r.b, &list)
	movegen.FilterLegal(r.b, &list)

	if ply == 0 && r.bias && r.rnd != nil {
		movegen.ShuffleRoot(&list, r.rnd)
	}

	if list.Len() == 0 {
		if r.b.IsInCheck(turn) {
			if turn == board.White {
				return board.BlackWins + board.WinPostponement(ply), board.BestPath{}
			}
			return board.WhiteWins - board.WinPostponement(ply), board.BestPath{}
		}
		return board.DrawScore, board.BestPath{}
	}

	s := list.Slice()
	for i := range s {
		s[i].OrderScore = r.order.Score(r.b, s[i], ordering.Context{Ply: ply, HintMove: hint, HasHint: hasHint})
	}
	list.SortByScore(turn)

	maximizing := turn == board.White
	best := alpha
	if !maximizing {
		best = beta
	}
	var bestPath board.BestPath
	bound := tt.ExactBound
	var bestMove board.Move

	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		var unmove board.UnmoveInfo
		r.b.Make(&m, &unmove, false, true)
		score, path := r.alphaBeta(ctx, depth-1, alpha, beta, ply+1, checkExtensions)
		r.b.Unmake(m, &unmove)

		if maximizing {
			if score > best {
				best = score
				bestPath = path.Prepend(m)
				bestMove = m
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
				bestPath = path.Prepend(m)
				bestMove = m
			}
			if best < beta {
				beta = best
			}
		}

		if alpha >= beta {
			r.order.RecordKiller(ply, m)
			r.order.RecordHistory(m, depth)
			bound = tt.LowerBound
			if !maximizing {
				bound = tt.UpperBound
			}
			break
		}
	}

	table.Store(hash, bound, depth, ply, best, bestMove)
	return best, bestPath
}
