package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/board"
)

const standardFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestFENRoundTrip(t *testing.T) {
	tests := []string{
		standardFEN,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"4k3/8/8/3pP3/8/8/8/4K3 w - d6 0 1",
	}

	zt := board.NewZobristTable(1)
	for _, tt := range tests {
		b := board.NewEmptyBoard(zt, nil)
		require.NoError(t, b.SetFEN(tt))
		assert.Equal(t, tt, b.GetFEN())
	}
}

func TestFENRejectsInvalid(t *testing.T) {
	zt := board.NewZobristTable(1)
	tests := []string{
		"",
		"not a fen string",
		"8/8/8/8/8/8/8/8 w - - 0 1",          // no kings
		"kkkkkkkk/8/8/8/8/8/8/KKKKKKKK w - - 0 1", // too many kings
	}

	for _, tt := range tests {
		b := board.NewEmptyBoard(zt, nil)
		assert.Error(t, b.SetFEN(tt))
	}
}
