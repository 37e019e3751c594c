package search_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/eval"
	"github.com/tanolen/chessmate/pkg/ordering"
	"github.com/tanolen/chessmate/pkg/search"
	"github.com/tanolen/chessmate/pkg/tt"
)

func newSearch() search.AlphaBeta {
	return search.AlphaBeta{
		Eval:  eval.NewEngine(eval.Default(), nil),
		TT:    tt.New(context.Background(), 1<<20),
		Order: ordering.NewTable(),
	}
}

func TestFindsMateInOne(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	// White to move, back-rank mate with Ra8#.
	require.NoError(t, b.SetFEN("6k1/5ppp/8/8/8/8/8/R3K3 w - - 0 1"))

	s := newSearch()
	_, score, path, err := s.Search(context.Background(), b, 3, board.NegInf, board.Inf)
	require.NoError(t, err)

	moves := path.Slice()
	require.NotEmpty(t, moves)
	assert.Equal(t, "a1a8+", moves[0].String())
	assert.True(t, score.IsMateScore())
	assert.True(t, score > 0, "White delivers mate, so the White-relative score should be positive")
}

func TestAvoidsStalemateWhenWinningIsAvailable(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	// White has an easy win but a careless queen move could stalemate Black;
	// the search should steer away from any move leading to an immediate draw.
	require.NoError(t, b.SetFEN("7k/8/6K1/8/8/8/8/5Q2 w - - 0 1"))

	s := newSearch()
	_, score, _, err := s.Search(context.Background(), b, 2, board.NegInf, board.Inf)
	require.NoError(t, err)
	assert.NotEqual(t, board.DrawScore, score)
}

func TestTranspositionTableReducesNodeCount(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"))

	withTT := newSearch()
	nodesWithTT, _, _, err := withTT.Search(context.Background(), b, 4, board.NegInf, board.Inf)
	require.NoError(t, err)

	// A second search on the same (now-populated) table should need fewer nodes,
	// since the first pass's entries are still live (and not yet marked stale).
	nodesSecondPass, _, _, err := withTT.Search(context.Background(), b, 4, board.NegInf, board.Inf)
	require.NoError(t, err)

	assert.LessOrEqual(t, nodesSecondPass, nodesWithTT)
}
