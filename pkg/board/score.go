package board

import "fmt"

// Score is a signed evaluation in centipawns, always from White's perspective:
// positive favors White. spec.md §4.3.
type Score int32

const (
	// WhiteWins and BlackWins are the mate sentinels. A search prefers a faster mate,
	// so the actual returned score is offset by WinPostponement(depth).
	WhiteWins Score = 1_000_000
	BlackWins Score = -1_000_000

	// DrawScore is the score of a definite draw.
	DrawScore Score = 0

	// Inf/NegInf bound the alpha-beta window at the root; they must never appear as a
	// stored/returned leaf score.
	Inf    Score = 2_000_000
	NegInf Score = -2_000_000
)

// WinPostponement penalizes a mate found deeper in the tree, so the search always
// prefers the fastest available mate over a slower one. depth is plies below the
// node reporting the mate.
func WinPostponement(depth int) Score {
	return Score(depth)
}

// IsMateScore reports whether s represents some forced mate (for either side).
func (s Score) IsMateScore() bool {
	return s >= WhiteWins-Score(MaxBestPathDepth) || s <= BlackWins+Score(MaxBestPathDepth)
}

// MateDistance returns the number of plies to the mate represented by s, if any.
func (s Score) MateDistance() (int, bool) {
	switch {
	case s >= WhiteWins-Score(MaxBestPathDepth):
		return int(WhiteWins - s), true
	case s <= BlackWins+Score(MaxBestPathDepth):
		return int(s - BlackWins), true
	default:
		return 0, false
	}
}

func (s Score) String() string {
	return fmt.Sprintf("%.2f", float64(s)/100)
}

// Crop clamps s into the representable, non-sentinel range.
func Crop(s Score) Score {
	switch {
	case s > WhiteWins:
		return WhiteWins
	case s < BlackWins:
		return BlackWins
	default:
		return s
	}
}

// Max returns the larger of two scores.
func Max(a, b Score) Score {
	if a > b {
		return a
	}
	return b
}

// Min returns the smaller of two scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
