package eval

import "github.com/tanolen/chessmate/pkg/board"

// evaluateMidgame sums material, piece-square placement, mobility, king safety,
// bishop-pair, pawn-structure and tempo terms for both sides and returns the
// White-relative difference. Grounded on original_source/src/eval.cpp's term list;
// every term except material and piece-square placement is scaled by a Genes
// weight, so a zeroed gene vector leaves material plus placement.
func evaluateMidgame(b *board.Board, g Genes) board.Score {
	var score int32

	score += materialTerm(b)
	score += placementTerm(b, false)
	score += mobilityTerm(b, g)
	score += kingSafetyTerm(b, g)
	score += bishopPairTerm(b, g)
	score += pawnStructureTerm(b, g)
	score += tempoTerm(b, g)

	return board.Score(score)
}

func materialTerm(b *board.Board) int32 {
	return int32(b.Material(board.White) - b.Material(board.Black))
}

func placementTerm(b *board.Board, endgame bool) int32 {
	var total int32
	for o := board.Offset(0); o < board.NumOffsets; o++ {
		sq := b.At(o)
		if !sq.IsPiece() {
			continue
		}
		bonus := pstFor(sq.Kind(), endgame).at(o, sq.Color())
		if sq.Color() == board.White {
			total += bonus
		} else {
			total -= bonus
		}
	}
	return total
}

func mobilityTerm(b *board.Board, g Genes) int32 {
	white := countMobility(b, board.White)
	black := countMobility(b, board.Black)
	return (white - black) * g.V[GeneMobilityWeight]
}

// countMobility counts pseudo-legal destination squares for the given side,
// cheaply (no legality filter, no move allocation) since mobility is a heuristic
// term, not a legality computation.
func countMobility(b *board.Board, c board.Color) int32 {
	var n int32
	for o := board.Offset(0); o < board.NumOffsets; o++ {
		sq := b.At(o)
		if !sq.IsPiece() || sq.Color() != c {
			continue
		}
		switch sq.Kind() {
		case board.Knight:
			n += countStepMobility(b, o, c, board.KnightOffsets[:])
		case board.King:
			n += countStepMobility(b, o, c, board.KingOffsets[:])
		case board.Bishop:
			n += countSlideMobility(b, o, c, board.BishopDirections[:])
		case board.Rook:
			n += countSlideMobility(b, o, c, board.RookDirections[:])
		case board.Queen:
			n += countSlideMobility(b, o, c, board.BishopDirections[:])
			n += countSlideMobility(b, o, c, board.RookDirections[:])
		}
	}
	return n
}

func countStepMobility(b *board.Board, from board.Offset, c board.Color, deltas []board.Offset) int32 {
	var n int32
	for _, d := range deltas {
		sq := b.At(from + d)
		if !sq.IsOffBoard() && !(sq.IsPiece() && sq.Color() == c) {
			n++
		}
	}
	return n
}

func countSlideMobility(b *board.Board, from board.Offset, c board.Color, dirs []board.Offset) int32 {
	var n int32
	for _, d := range dirs {
		for to := from + d; ; to += d {
			sq := b.At(to)
			if sq.IsOffBoard() {
				break
			}
			if sq.IsPiece() {
				if sq.Color() != c {
					n++
				}
				break
			}
			n++
		}
	}
	return n
}

func kingSafetyTerm(b *board.Board, g Genes) int32 {
	var score int32
	if b.CastleFlags().Moved(board.WhiteKingMoved) && castledSafely(b, board.White) {
		score += g.V[GeneCastledKingBonus]
	}
	if b.CastleFlags().Moved(board.BlackKingMoved) && castledSafely(b, board.Black) {
		score -= g.V[GeneCastledKingBonus]
	}

	whiteShield := pawnShieldCount(b, board.White)
	blackShield := pawnShieldCount(b, board.Black)
	score += (whiteShield - blackShield) * g.V[GeneKingSafetyWeight]
	return score
}

// castledSafely reports whether the side's king has already moved off the back
// rank's center files in a way consistent with having castled (a cheap proxy;
// the exact castling move is tracked, but the king may also have walked there).
func castledSafely(b *board.Board, c board.Color) bool {
	home := board.HomeRank(c)
	k := b.KingOffset(c)
	return k.RankOf() == home && (k.FileOf() <= 3 || k.FileOf() >= 7)
}

func pawnShieldCount(b *board.Board, c board.Color) int32 {
	k := b.KingOffset(c)
	adv := board.PawnAdvanceDirection(c)
	var n int32
	for _, d := range []board.Offset{board.West, 0, board.East} {
		if b.At(k + d + adv).Is(c, board.Pawn) {
			n++
		}
	}
	return n
}

func bishopPairTerm(b *board.Board, g Genes) int32 {
	var score int32
	if b.Inventory(board.White, board.Bishop) >= 2 {
		score += g.V[GeneBishopPairBonus]
	}
	if b.Inventory(board.Black, board.Bishop) >= 2 {
		score -= g.V[GeneBishopPairBonus]
	}
	return score
}

func pawnStructureTerm(b *board.Board, g Genes) int32 {
	return (pawnStructureScore(b, board.White, g) - pawnStructureScore(b, board.Black, g))
}

func pawnStructureScore(b *board.Board, c board.Color, g Genes) int32 {
	var filePawns [8]int
	for f := 1; f <= 8; f++ {
		for r := 1; r <= 8; r++ {
			if b.At(board.OFFSET(f, r)).Is(c, board.Pawn) {
				filePawns[f-1]++
			}
		}
	}

	var score int32
	for f := 0; f < 8; f++ {
		if filePawns[f] > 1 {
			score -= g.V[GeneDoubledPawnPenalty] * int32(filePawns[f]-1)
		}
		if filePawns[f] > 0 {
			leftEmpty := f == 0 || filePawns[f-1] == 0
			rightEmpty := f == 7 || filePawns[f+1] == 0
			if leftEmpty && rightEmpty {
				score -= g.V[GeneIsolatedPawnPenalty]
			}
		}
	}
	return score
}

func tempoTerm(b *board.Board, g Genes) int32 {
	if b.Turn() == board.White {
		return g.V[GeneTempoBonus]
	}
	return -g.V[GeneTempoBonus]
}
