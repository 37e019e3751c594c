package eval

import "github.com/tanolen/chessmate/pkg/board"

// evaluateEndgame handles positions where one side has been reduced to a bare
// king (or king plus pawns): material still dominates, but the winning side's
// score is boosted by driving the losing king into the corner its mating
// material can actually reach, and by rewarding the winning pieces -- not just
// the winning king -- for closing in on it, per original_source/src/endgame.cpp.
func evaluateEndgame(b *board.Board, g Genes) board.Score {
	material := int32(b.Material(board.White) - b.Material(board.Black))

	winner := board.White
	if material < 0 {
		winner = board.Black
	}
	if material == 0 {
		return board.Score(materialTerm(b) + placementTerm(b, true))
	}

	loser := winner.Opponent()
	if isBareOrPawnsOnly(b, winner) {
		// Neither side can realistically force mate (e.g. both reduced to bare kings
		// and pawns); fall back to material plus placement only.
		return board.Score(material + placementTerm(b, true))
	}

	loserKing := b.KingOffset(loser)
	winnerKing := b.KingOffset(winner)

	table := kingPosTableFor(b, winner)
	corner := int32(table[loserKing.RankOf()-1][loserKing.FileOf()-1])

	closeness := piecesCloseness(b, winner, loserKing)
	closeness += closeWeightKing * int32(kingDistance(winnerKing, loserKing)*kingDistance(winnerKing, loserKing))

	bonus := corner - closeness/closeWeightScale
	if winner == board.Black {
		bonus = -bonus
	}

	return board.Score(material + placementTerm(b, true) + bonus)
}

// kingPosTableFor picks which of the three corner-drive tables applies,
// chosen by the winning side's remaining piece set per
// original_source/src/endgame.cpp: a queen or rook can help mate in any
// corner, while a lone bishop is bound to the corner matching its square
// color. A winner with only knight(s) left has no forced mate and falls back
// to the dark-corner table, arbitrary but stable.
func kingPosTableFor(b *board.Board, winner board.Color) pieceSquareTable {
	if b.Inventory(winner, board.Queen) > 0 || b.Inventory(winner, board.Rook) > 0 {
		return KingPosTableQR
	}
	if light, _ := bishopSquareColors(b, winner); light {
		return KingPosTableBishopLight
	}
	return KingPosTableBishopDark
}

// bishopSquareColors reports whether winner still has a bishop on a light
// and/or a dark square.
func bishopSquareColors(b *board.Board, winner board.Color) (light, dark bool) {
	for file := 1; file <= 8; file++ {
		for rank := 1; rank <= 8; rank++ {
			sq := b.At(board.OFFSET(file, rank))
			if !sq.IsPiece() || sq.Color() != winner || sq.Kind() != board.Bishop {
				continue
			}
			if isLightSquare(file, rank) {
				light = true
			} else {
				dark = true
			}
		}
	}
	return light, dark
}

// isLightSquare reports whether the 1-indexed (file, rank) square is light
// (e.g. a8, h1), following the standard board coloring where a1 is dark.
func isLightSquare(file, rank int) bool {
	return (file+rank)%2 == 1
}

// closeWeightKing, closeWeightQueen, etc. scale piecesCloseness's per-piece
// squared-distance term by how much that piece kind contributes to driving
// the losing king to the corner, and closeWeightScale brings the summed
// penalty back down to the same order of magnitude as the corner table.
const (
	closeWeightQueen  = 4
	closeWeightRook   = 3
	closeWeightBishop = 2
	closeWeightKnight = 2
	closeWeightKing   = 1
	closeWeightScale  = 4
)

// piecesCloseness sums, over every one of winner's non-pawn, non-king pieces,
// a penalty proportional to its squared Chebyshev distance to the losing
// king and that piece kind's weight -- so the mating material is rewarded for
// closing in, not just the winning king alone.
func piecesCloseness(b *board.Board, winner board.Color, loserKing board.Offset) int32 {
	var penalty int32
	for file := 1; file <= 8; file++ {
		for rank := 1; rank <= 8; rank++ {
			o := board.OFFSET(file, rank)
			sq := b.At(o)
			if !sq.IsPiece() || sq.Color() != winner {
				continue
			}
			weight := int32(0)
			switch sq.Kind() {
			case board.Queen:
				weight = closeWeightQueen
			case board.Rook:
				weight = closeWeightRook
			case board.Bishop:
				weight = closeWeightBishop
			case board.Knight:
				weight = closeWeightKnight
			default:
				continue
			}
			d := kingDistance(o, loserKing)
			penalty += weight * int32(d*d)
		}
	}
	return penalty
}

func kingDistance(a, b board.Offset) int {
	df, dr := abs(a.FileOf()-b.FileOf()), abs(a.RankOf()-b.RankOf())
	return max(df, dr)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
