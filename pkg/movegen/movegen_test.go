package movegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/movegen"
)

const standardFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func perft(b *board.Board, depth int) int64 {
	if depth == 0 {
		return 1
	}

	var list board.MoveList
	movegen.Generate(b, &list)
	movegen.FilterLegal(b, &list)

	var nodes int64
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)

		var unmove board.UnmoveInfo
		b.Make(&m, &unmove, false, false)
		nodes += perft(b, depth-1)
		b.Unmake(m, &unmove)
	}
	return nodes
}

func TestPerftStandardPosition(t *testing.T) {
	// Known perft leaf counts from the standard starting position.
	// See: https://www.chessprogramming.org/Perft_Results.
	want := []int64{1, 20, 400, 8902, 197281}

	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN(standardFEN))

	for depth, n := range want {
		assert.Equal(t, n, perft(b, depth), "perft(%v)", depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	// A standard perft stress position exercising castling, en passant and
	// promotions. See: https://www.chessprogramming.org/Perft_Results#Position_2.
	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	want := []int64{1, 48, 2039}

	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN(kiwipete))

	for depth, n := range want {
		assert.Equal(t, n, perft(b, depth), "perft(%v)", depth)
	}
}

func TestScanMoveLAN(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN(standardFEN))

	m, err := movegen.ScanMove(b, "e2e4")
	require.NoError(t, err)
	assert.Equal(t, board.DoublePawnPush, m.Type)
	assert.Equal(t, "e2", m.From.String())
	assert.Equal(t, "e4", m.To.String())
}

func TestScanMoveSAN(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN(standardFEN))

	m, err := movegen.ScanMove(b, "Nf3")
	require.NoError(t, err)
	assert.Equal(t, "g1", m.From.String())
	assert.Equal(t, "f3", m.To.String())
}

func TestScanMoveRejectsIllegal(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN(standardFEN))

	_, err := movegen.ScanMove(b, "e2e5")
	assert.Error(t, err)
}
