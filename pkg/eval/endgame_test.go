package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/eval"
)

func newEndgameBoard(t *testing.T, fen string) *board.Board {
	t.Helper()
	zt := board.NewZobristTable(1)
	b := board.NewEmptyBoard(zt, nil)
	require.NoError(t, b.SetFEN(fen))
	return b
}

func TestEndgameQueenRewardsAnyCorner(t *testing.T) {
	ctx := context.Background()
	e := eval.NewEngine(eval.Default(), nil)

	corner := newEndgameBoard(t, "8/8/8/8/3Q4/8/8/k3K3 w - - 0 1")
	center := newEndgameBoard(t, "8/8/8/4k3/3Q4/8/8/4K3 w - - 0 1")

	assert.Greater(t, e.Evaluate(ctx, corner), e.Evaluate(ctx, center),
		"a queen should drive the losing king toward any corner (KingPosTableQR), not just off-center")
}

func TestEndgameLightBishopPrefersLightCorner(t *testing.T) {
	ctx := context.Background()
	e := eval.NewEngine(eval.Default(), nil)

	// White bishop on f1 (light square): king at h1 (light corner) should score
	// higher than king at a1 (dark corner).
	light := newEndgameBoard(t, "8/8/8/8/8/8/8/4KB1k w - - 0 1")
	dark := newEndgameBoard(t, "8/8/8/8/8/8/8/k3KB2 w - - 0 1")

	assert.Greater(t, e.Evaluate(ctx, light), e.Evaluate(ctx, dark),
		"a light-squared bishop should drive the losing king toward a light corner")
}

func TestEndgameDarkBishopPrefersDarkCorner(t *testing.T) {
	ctx := context.Background()
	e := eval.NewEngine(eval.Default(), nil)

	// White bishop on c1 (dark square): king at a1 (dark corner) should score
	// higher than king at h1 (light corner).
	dark := newEndgameBoard(t, "8/8/8/8/8/8/8/k1B1K3 w - - 0 1")
	light := newEndgameBoard(t, "8/8/8/8/8/8/8/2B1K2k w - - 0 1")

	assert.Greater(t, e.Evaluate(ctx, dark), e.Evaluate(ctx, light),
		"a dark-squared bishop should drive the losing king toward a dark corner")
}

func TestEndgameRewardsPiecesClosingOnLosingKing(t *testing.T) {
	ctx := context.Background()
	e := eval.NewEngine(eval.Default(), nil)

	// Same KQK skeleton, but the queen is far from the cornered black king in
	// one case and close in the other; the closer queen should score higher.
	far := newEndgameBoard(t, "8/8/8/8/8/8/8/k3K2Q w - - 0 1")
	near := newEndgameBoard(t, "8/8/8/8/8/8/1Q6/k3K3 w - - 0 1")

	assert.Greater(t, e.Evaluate(ctx, near), e.Evaluate(ctx, far),
		"the mating piece itself, not just the winning king, should be rewarded for closing in on the losing king")
}
