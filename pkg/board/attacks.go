package board

// IsAttacked reports whether any piece of color `by` attacks offset `at`. Grounded
// on original_source/src/attack.cpp: pawns and knights are checked by direct
// offset lookup, king by the one-step ring, and bishops/rooks/queens by sliding
// scans that stop at the first occupied or off-board square.
func (b *Board) IsAttacked(by Color, at Offset) bool {
	// Pawn attacks come from the rank behind `at`, relative to the attacker's
	// advance direction.
	back := -PawnAdvanceDirection(by)
	if sq := b.squares[at+back+East]; sq.Is(by, Pawn) {
		return true
	}
	if sq := b.squares[at+back+West]; sq.Is(by, Pawn) {
		return true
	}

	if b.inventory[by][Knight] > 0 {
		for _, d := range KnightOffsets {
			if b.squares[at+d].Is(by, Knight) {
				return true
			}
		}
	}

	for _, d := range KingOffsets {
		if b.squares[at+d].Is(by, King) {
			return true
		}
	}

	if b.inventory[by][Bishop]+b.inventory[by][Queen] > 0 {
		for _, d := range BishopDirections {
			if b.slideAttacks(at, d, by, Bishop) {
				return true
			}
		}
	}
	if b.inventory[by][Rook]+b.inventory[by][Queen] > 0 {
		for _, d := range RookDirections {
			if b.slideAttacks(at, d, by, Rook) {
				return true
			}
		}
	}

	return false
}

// slideAttacks walks from `at` in direction d until it hits an off-board square,
// an occupied square (attack if it's `by`-colored and slides like `like` or is
// the queen), or empty board edge.
func (b *Board) slideAttacks(at, d Offset, by Color, like Piece) bool {
	for o := at + d; ; o += d {
		sq := b.squares[o]
		if sq.IsOffBoard() {
			return false
		}
		if sq.IsEmpty() {
			continue
		}
		if sq.Color() != by {
			return false
		}
		return sq.Kind() == like || sq.Kind() == Queen
	}
}

// AttackersOf returns every offset from which a `by`-colored piece attacks `at`.
// Unlike IsAttacked it does not short-circuit on the first hit. No package in
// this module calls it.
func (b *Board) AttackersOf(by Color, at Offset) []Offset {
	var out []Offset

	back := -PawnAdvanceDirection(by)
	for _, d := range []Offset{back + East, back + West} {
		if b.squares[at+d].Is(by, Pawn) {
			out = append(out, at+d)
		}
	}
	for _, d := range KnightOffsets {
		if b.squares[at+d].Is(by, Knight) {
			out = append(out, at+d)
		}
	}
	for _, d := range KingOffsets {
		if b.squares[at+d].Is(by, King) {
			out = append(out, at+d)
		}
	}
	for _, d := range BishopDirections {
		if o, ok := b.slideAttacker(at, d, by, Bishop); ok {
			out = append(out, o)
		}
	}
	for _, d := range RookDirections {
		if o, ok := b.slideAttacker(at, d, by, Rook); ok {
			out = append(out, o)
		}
	}
	return out
}

func (b *Board) slideAttacker(at, d Offset, by Color, like Piece) (Offset, bool) {
	for o := at + d; ; o += d {
		sq := b.squares[o]
		if sq.IsOffBoard() {
			return 0, false
		}
		if sq.IsEmpty() {
			continue
		}
		if sq.Color() == by && (sq.Kind() == like || sq.Kind() == Queen) {
			return o, true
		}
		return 0, false
	}
}

// CurrentPlayerCanMove performs a minimal existence check for at least one legal
// move, independent of the full pseudo-legal generator in pkg/movegen -- mirroring
// original_source/src/canmove.cpp, which is a standalone routine from
// gencaps.cpp/genmove.cpp for exactly this reason: checkmate/stalemate detection
// needs only a single legal reply, not the complete move list. King moves are
// always tried first, whether or not the side to move is in check, then the other
// pieces in offset order; there is no separate capture-the-checker step.
func (b *Board) CurrentPlayerCanMove() bool {
	turn := b.turn
	from := b.kingOffset[turn]

	if b.tryKingEscapes(from, turn) {
		return true
	}

	for o := Offset(0); o < NumOffsets; o++ {
		sq := b.squares[o]
		if !sq.IsPiece() || sq.Color() != turn || sq.Kind() == King {
			continue
		}
		if b.tryPieceMoves(o, sq.Kind(), turn) {
			return true
		}
	}
	return false
}

func (b *Board) tryKingEscapes(from Offset, turn Color) bool {
	for _, d := range KingOffsets {
		to := from + d
		sq := b.squares[to]
		if sq.IsOffBoard() || (sq.IsPiece() && sq.Color() == turn) {
			continue
		}
		if b.tryMoveLegal(from, to, normalOrCaptureType(sq)) {
			return true
		}
	}
	return false
}

func normalOrCaptureType(dst Square) MoveType {
	if dst.IsPiece() {
		return Capture
	}
	return Normal
}

// tryPieceMoves enumerates candidate destinations for the piece at `from` (not a
// king -- handled separately) and returns true on the first legal one found.
func (b *Board) tryPieceMoves(from Offset, kind Piece, turn Color) bool {
	switch kind {
	case Pawn:
		return b.tryPawnMoves(from, turn)
	case Knight:
		for _, d := range KnightOffsets {
			to := from + d
			sq := b.squares[to]
			if sq.IsOffBoard() || (sq.IsPiece() && sq.Color() == turn) {
				continue
			}
			if b.tryMoveLegal(from, to, normalOrCaptureType(sq)) {
				return true
			}
		}
	case Bishop, Rook, Queen:
		dirs := slideDirsFor(kind)
		for _, d := range dirs {
			for to := from + d; ; to += d {
				sq := b.squares[to]
				if sq.IsOffBoard() {
					break
				}
				if sq.IsPiece() {
					if sq.Color() != turn && b.tryMoveLegal(from, to, Capture) {
						return true
					}
					break
				}
				if b.tryMoveLegal(from, to, Normal) {
					return true
				}
			}
		}
	}
	return false
}

func slideDirsFor(kind Piece) []Offset {
	switch kind {
	case Bishop:
		return BishopDirections[:]
	case Rook:
		return RookDirections[:]
	default:
		all := make([]Offset, 0, 8)
		all = append(all, BishopDirections[:]...)
		all = append(all, RookDirections[:]...)
		return all
	}
}

func (b *Board) tryPawnMoves(from Offset, turn Color) bool {
	adv := PawnAdvanceDirection(turn)
	one := from + adv
	if b.squares[one].IsEmpty() {
		if b.tryMoveLegal(from, one, promotableType(one, turn, Normal)) {
			return true
		}
		if from.RankOf() == PawnHomeRank(turn) {
			two := one + adv
			if b.squares[two].IsEmpty() && b.tryMoveLegal(from, two, DoublePawnPush) {
				return true
			}
		}
	}
	for _, d := range []Offset{adv + East, adv + West} {
		to := from + d
		sq := b.squares[to]
		if sq.IsOffBoard() {
			continue
		}
		if sq.IsPiece() && sq.Color() != turn {
			if b.tryMoveLegal(from, to, promotableType(to, turn, Capture)) {
				return true
			}
			continue
		}
		if sq.IsEmpty() {
			if pm, hasPM := b.PrevMove(); hasPM && pm.Type == DoublePawnPush {
				if pm.To == to-adv && to.FileOf() == pm.To.FileOf() {
					if b.tryMoveLegal(from, to, EnPassant) {
						return true
					}
				}
			}
		}
	}
	return false
}

func promotableType(to Offset, turn Color, base MoveType) MoveType {
	if to.RankOf() == PawnPromotionRank(turn) {
		if base == Capture {
			return CapturePromotion
		}
		return Promotion
	}
	return base
}

// tryMoveLegal makes the candidate move, tests whether it leaves the mover's own
// king in check, then unmakes it. It never mutates castle rights/move history
// beyond the single make/unmake round trip.
func (b *Board) tryMoveLegal(from, to Offset, mt MoveType) bool {
	m := Move{From: from, To: to, Type: mt, Piece: b.squares[from].Kind()}
	if mt == Promotion || mt == CapturePromotion {
		m.Promotion = Queen
	}
	var unmove UnmoveInfo
	turn := b.turn
	b.Make(&m, &unmove, true, false)
	legal := !b.inCheck[turn]
	b.Unmake(m, &unmove)
	return legal
}
