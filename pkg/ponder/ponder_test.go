package ponder_test

import (
	"context"
	"testing"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/eval"
	"github.com/tanolen/chessmate/pkg/ordering"
	"github.com/tanolen/chessmate/pkg/ponder"
	"github.com/tanolen/chessmate/pkg/search"
	"github.com/tanolen/chessmate/pkg/search/searchctl"
	"github.com/tanolen/chessmate/pkg/tt"
)

func newLauncher() *searchctl.Iterative {
	store := tt.New(context.Background(), 1<<20)
	return &searchctl.Iterative{
		Root: search.AlphaBeta{
			Eval:  eval.NewEngine(eval.Default(), nil),
			TT:    store,
			Order: ordering.NewTable(),
		},
		Store: store,
	}
}

func waitForMatch(t *testing.T, w *ponder.Worker, actual board.Move, timeout time.Duration) (search.PV, bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if pv, ok := w.FinishThinking(actual); ok {
			return pv, true
		}
		time.Sleep(time.Millisecond)
	}
	return search.PV{}, false
}

func TestFinishThinkingMatchesPredictedMove(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewInitialBoard(zt)

	predict, err := board.ParseLANMove("e7e5")
	require.NoError(t, err)

	w := ponder.NewWorker(newLauncher())
	defer w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.Ponder(ctx, b, predict, searchctl.Options{DepthLimit: lang.Some(uint(2))})

	// The worker searches in the background; FinishThinking only reports a
	// match once that search has produced a PV, so poll briefly.
	time.Sleep(50 * time.Millisecond)
	pv, ok := waitForMatch(t, w, predict, 2*time.Second)
	assert.True(t, ok, "predicted move should match once the ponder search completes")
	assert.NotEmpty(t, pv.Path.Slice())
}

func TestFinishThinkingMismatchDiscardsResult(t *testing.T) {
	zt := board.NewZobristTable(1)
	b := board.NewInitialBoard(zt)

	predict, err := board.ParseLANMove("e7e5")
	require.NoError(t, err)
	actual, err := board.ParseLANMove("c7c5")
	require.NoError(t, err)

	w := ponder.NewWorker(newLauncher())
	defer w.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.Ponder(ctx, b, predict, searchctl.Options{DepthLimit: lang.Some(uint(2))})
	time.Sleep(200 * time.Millisecond)

	_, ok := w.FinishThinking(actual)
	assert.False(t, ok, "a differing actual move should never reuse the ponder's PV")
}

func TestFinishThinkingWithoutPriorPonderReportsNoMatch(t *testing.T) {
	w := ponder.NewWorker(newLauncher())
	defer w.Stop()

	_, ok := w.FinishThinking(board.Move{})
	assert.False(t, ok)
}
