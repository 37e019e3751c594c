package eval

import "github.com/tanolen/chessmate/pkg/board"

// pieceSquareTable gives each piece kind a White-perspective centipawn bonus by
// rank/file, indexed [rank-1][file-1] with rank 1 at index 0. Values are
// conservative hand-tuned constants in the spirit of original_source/src/eval.cpp's
// static placement tables, not derived from self-play.
type pieceSquareTable [8][8]int32

var pawnPST = pieceSquareTable{
	{0, 0, 0, 0, 0, 0, 0, 0},
	{5, 10, 10, -20, -20, 10, 10, 5},
	{5, -5, -10, 0, 0, -10, -5, 5},
	{0, 0, 0, 20, 20, 0, 0, 0},
	{5, 5, 10, 25, 25, 10, 5, 5},
	{10, 10, 20, 30, 30, 20, 10, 10},
	{50, 50, 50, 50, 50, 50, 50, 50},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var knightPST = pieceSquareTable{
	{-50, -40, -30, -30, -30, -30, -40, -50},
	{-40, -20, 0, 5, 5, 0, -20, -40},
	{-30, 5, 10, 15, 15, 10, 5, -30},
	{-30, 0, 15, 20, 20, 15, 0, -30},
	{-30, 5, 15, 20, 20, 15, 5, -30},
	{-30, 0, 10, 15, 15, 10, 0, -30},
	{-40, -20, 0, 0, 0, 0, -20, -40},
	{-50, -40, -30, -30, -30, -30, -40, -50},
}

var bishopPST = pieceSquareTable{
	{-20, -10, -10, -10, -10, -10, -10, -20},
	{-10, 5, 0, 0, 0, 0, 5, -10},
	{-10, 10, 10, 10, 10, 10, 10, -10},
	{-10, 0, 10, 10, 10, 10, 0, -10},
	{-10, 5, 5, 10, 10, 5, 5, -10},
	{-10, 0, 5, 10, 10, 5, 0, -10},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-20, -10, -10, -10, -10, -10, -10, -20},
}

var rookPST = pieceSquareTable{
	{0, 0, 0, 5, 5, 0, 0, 0},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{-5, 0, 0, 0, 0, 0, 0, -5},
	{5, 10, 10, 10, 10, 10, 10, 5},
	{0, 0, 0, 0, 0, 0, 0, 0},
}

var queenPST = pieceSquareTable{
	{-20, -10, -10, -5, -5, -10, -10, -20},
	{-10, 0, 5, 0, 0, 0, 0, -10},
	{-10, 5, 5, 5, 5, 5, 0, -10},
	{0, 0, 5, 5, 5, 5, 0, -5},
	{-5, 0, 5, 5, 5, 5, 0, -5},
	{-10, 0, 5, 5, 5, 5, 0, -10},
	{-10, 0, 0, 0, 0, 0, 0, -10},
	{-20, -10, -10, -5, -5, -10, -10, -20},
}

var kingMidgamePST = pieceSquareTable{
	{20, 30, 10, 0, 0, 10, 30, 20},
	{20, 20, 0, 0, 0, 0, 20, 20},
	{-10, -20, -20, -20, -20, -20, -20, -10},
	{-20, -30, -30, -40, -40, -30, -30, -20},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
	{-30, -40, -40, -50, -50, -40, -40, -30},
}

// kingEndgamePST drives the king toward the center, and (separately) the
// losing-side king away from it; see endgame.go's per-winning-piece-set selection.
var kingEndgamePST = pieceSquareTable{
	{-50, -30, -30, -30, -30, -30, -30, -50},
	{-30, -30, 0, 0, 0, 0, -30, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 30, 40, 40, 30, -10, -30},
	{-30, -10, 20, 30, 30, 20, -10, -30},
	{-30, -20, -10, 0, 0, -10, -20, -30},
	{-50, -40, -30, -20, -20, -30, -40, -50},
}

func (t pieceSquareTable) at(o board.Offset, c board.Color) int32 {
	rank, file := o.RankOf(), o.FileOf()
	if c == board.Black {
		rank = 9 - rank
	}
	return t[rank-1][file-1]
}

// KingPosTableQR, KingPosTableBishopLight and KingPosTableBishopDark are the
// three corner-drive tables endgame.go selects among by the winning side's
// piece set, per original_source/src/endgame.cpp's mating-technique tables:
// a queen or rook can force the losing king into any corner, while a lone
// bishop can only help mate on the corner matching its square color. Unlike
// the midgame/endgame PSTs above, these describe absolute board geometry, not
// a White-relative one, so they are never mirrored by color and are indexed
// directly rather than through (pieceSquareTable).at.
var (
	KingPosTableQR          = buildCornerTable(corner00, corner07, corner70, corner77)
	KingPosTableBishopLight = buildCornerTable(corner07, corner70)
	KingPosTableBishopDark  = buildCornerTable(corner00, corner77)
)

// corner00..corner77 name the board's four corners as 0-indexed (file, rank)
// pairs: a1, a8, h1, h8. a1 and h8 are dark squares; a8 and h1 are light.
var (
	corner00 = [2]int{0, 0} // a1, dark
	corner07 = [2]int{0, 7} // a8, light
	corner70 = [2]int{7, 0} // h1, light
	corner77 = [2]int{7, 7} // h8, dark
)

// buildCornerTable builds a pieceSquareTable rewarding squares by closeness
// (Chebyshev distance) to the nearest of the given 0-indexed corners, the way
// original_source/src/endgame.cpp drives a lone king toward a specific corner
// rather than merely off-center.
func buildCornerTable(corners ...[2]int) pieceSquareTable {
	var t pieceSquareTable
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			best := 7
			for _, c := range corners {
				d := abs(file - c[0])
				if dr := abs(rank - c[1]); dr > d {
					d = dr
				}
				if d < best {
					best = d
				}
			}
			t[rank][file] = int32((7 - best) * 10)
		}
	}
	return t
}

func pstFor(p board.Piece, endgame bool) pieceSquareTable {
	switch p {
	case board.Pawn:
		return pawnPST
	case board.Knight:
		return knightPST
	case board.Bishop:
		return bishopPST
	case board.Rook:
		return rookPST
	case board.Queen:
		return queenPST
	case board.King:
		if endgame {
			return kingEndgamePST
		}
		return kingMidgamePST
	default:
		return pieceSquareTable{}
	}
}
