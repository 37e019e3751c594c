package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/board"
)

func mustMove(t *testing.T, b *board.Board, lan string) {
	t.Helper()
	m, err := board.ParseLANMove(lan)
	require.NoError(t, err)

	// Fill in move-type metadata from the board, the way movegen's legal-move
	// matching would, since ParseLANMove alone carries none of it.
	mt := board.Normal
	if sq := b.At(m.To); sq.IsPiece() {
		mt = board.Capture
	}
	m.Type = mt
	if m.Promotion.IsValid() {
		if mt == board.Capture {
			m.Type = board.CapturePromotion
		} else {
			m.Type = board.Promotion
		}
	}

	var unmove board.UnmoveInfo
	b.Make(&m, &unmove, true, true)
}

func TestFoolsMate(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewInitialBoard(zt)

	mustMove(t, b, "f2f3")
	mustMove(t, b, "e7e5")
	mustMove(t, b, "g2g4")
	mustMove(t, b, "d8h4")

	assert.True(t, b.IsInCheck(board.White))
	assert.False(t, b.CurrentPlayerCanMove())
}

func TestStalemate(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	// A textbook stalemate: Black king on a8, boxed in by the White queen on b6
	// alone (the White king on a1 takes no part).
	require.NoError(t, b.SetFEN("k7/8/1Q6/8/8/8/8/K7 b - - 0 1"))

	assert.False(t, b.IsInCheck(board.Black))
	assert.False(t, b.CurrentPlayerCanMove())
}

func TestEnPassantCapture(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN("4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1"))

	m := board.Move{From: board.OFFSET(5, 5), To: board.OFFSET(4, 6), Type: board.EnPassant, Piece: board.Pawn, Capture: board.Pawn}
	var unmove board.UnmoveInfo
	b.Make(&m, &unmove, true, true)

	assert.True(t, b.At(board.OFFSET(4, 5)).IsEmpty(), "captured pawn should be removed")
	assert.True(t, b.At(board.OFFSET(4, 6)).Is(board.White, board.Pawn))

	b.Unmake(m, &unmove)
	assert.True(t, b.At(board.OFFSET(4, 5)).Is(board.Black, board.Pawn), "unmake should restore captured pawn")
	assert.True(t, b.At(board.OFFSET(5, 5)).Is(board.White, board.Pawn))
}

func TestThreefoldRepetitionRequiresConfirmedWalk(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewInitialBoard(zt)

	shuffle := [][2]string{{"g1f3", "g8f6"}, {"f3g1", "f6g8"}}
	for i := 0; i < 3; i++ {
		for _, pair := range shuffle {
			mustMove(t, b, pair[0])
			mustMove(t, b, pair[1])
		}
	}

	assert.True(t, b.IsDefiniteDraw())
}

func TestInsufficientMaterial(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1"))

	assert.True(t, b.HasInsufficientMaterial())
	assert.True(t, b.IsDefiniteDraw())
}

func TestVerifyInvariants(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewInitialBoard(zt)

	mustMove(t, b, "e2e4")
	mustMove(t, b, "e7e5")
	mustMove(t, b, "g1f3")

	assert.NoError(t, b.VerifyInvariants())
}
