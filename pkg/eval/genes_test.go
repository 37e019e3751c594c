package eval_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanolen/chessmate/pkg/eval"
)

func TestSaveLoadGenesRoundTrip(t *testing.T) {
	g := eval.Default()
	g.V[eval.GeneMobilityWeight] = 99
	g.V[eval.GeneKnightForkUncertainty] = -7

	path := filepath.Join(t.TempDir(), "genes.yaml")
	require.NoError(t, eval.SaveGenes(path, g))

	got, err := eval.LoadGenes(path)
	require.NoError(t, err)
	assert.Equal(t, g, got)
}

func TestLoadGenesMissingFile(t *testing.T) {
	_, err := eval.LoadGenes(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	assert.Error(t, err)
}

func TestDefaultGenesPinnedSlotsMatchOriginalTuner(t *testing.T) {
	g := eval.Default()
	// These two slots are pinned to the original tuner's gene.v[4] and gene.v[81]
	// indices so an exported gene file from the original still lines up.
	assert.Equal(t, 4, eval.GeneSafeEvalPruneMargin)
	assert.Equal(t, 81, eval.GeneKnightForkUncertainty)
	assert.NotZero(t, g.V[eval.GeneSafeEvalPruneMargin])
	assert.NotZero(t, g.V[eval.GeneKnightForkUncertainty])
}
