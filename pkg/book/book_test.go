package book_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/book"
)

func TestNewLineBookFindsKnownPosition(t *testing.T) {
	zt := board.NewZobristTable(1)
	b, err := book.NewLineBook(zt, []book.Line{
		{"e2e4", "c7c5"},
		{"e2e4", "e7e5"},
	})
	require.NoError(t, err)

	start := board.NewInitialBoard(zt)
	moves, err := b.Find(context.Background(), start.GetFEN())
	require.NoError(t, err)
	assert.Len(t, moves, 1, "only e2e4 was ever played from the start position across both lines")
	assert.Equal(t, "e2e4", moves[0].String())
}

func TestNewLineBookRejectsIllegalLine(t *testing.T) {
	zt := board.NewZobristTable(1)
	_, err := book.NewLineBook(zt, []book.Line{{"e2e5"}})
	assert.Error(t, err)
}

func TestNewLineBookUnknownPositionReturnsEmpty(t *testing.T) {
	zt := board.NewZobristTable(1)
	b, err := book.NewLineBook(zt, []book.Line{{"e2e4"}})
	require.NoError(t, err)

	moves, err := b.Find(context.Background(), "4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestNoBookNeverRecommends(t *testing.T) {
	zt := board.NewZobristTable(1)
	start := board.NewInitialBoard(zt)

	moves, err := book.NoBook.Find(context.Background(), start.GetFEN())
	require.NoError(t, err)
	assert.Empty(t, moves)
}
