package board

import "strings"

// CastleFlags tracks the six moved-flags spec.md §3 requires: whether each king has
// ever moved, and whether each of the four rooks has ever moved (or been captured off
// its home square). A side may castle a given way only while its king-moved flag and
// the relevant rook-moved flag are both clear -- FEN castling rights are a derived
// view of this state, not the other way around.
type CastleFlags uint8

const (
	WhiteKingMoved CastleFlags = 1 << iota
	WhiteKingRookMoved
	WhiteQueenRookMoved
	BlackKingMoved
	BlackKingRookMoved
	BlackQueenRookMoved
)

// Moved reports whether the given flag(s) are set.
func (c CastleFlags) Moved(flag CastleFlags) bool {
	return c&flag != 0
}

// CanCastleKingSide reports whether the side retains the right to castle kingside,
// based purely on the moved-flags (not on whether the path is currently clear or safe).
func (c CastleFlags) CanCastleKingSide(side Color) bool {
	if side == White {
		return !c.Moved(WhiteKingMoved) && !c.Moved(WhiteKingRookMoved)
	}
	return !c.Moved(BlackKingMoved) && !c.Moved(BlackKingRookMoved)
}

// CanCastleQueenSide reports whether the side retains the right to castle queenside.
func (c CastleFlags) CanCastleQueenSide(side Color) bool {
	if side == White {
		return !c.Moved(WhiteKingMoved) && !c.Moved(WhiteQueenRookMoved)
	}
	return !c.Moved(BlackKingMoved) && !c.Moved(BlackQueenRookMoved)
}

// FENRights renders the flags in FEN castling-field order, e.g. "KQkq", "Kq", "-".
func (c CastleFlags) FENRights() string {
	var sb strings.Builder
	if c.CanCastleKingSide(White) {
		sb.WriteString("K")
	}
	if c.CanCastleQueenSide(White) {
		sb.WriteString("Q")
	}
	if c.CanCastleKingSide(Black) {
		sb.WriteString("k")
	}
	if c.CanCastleQueenSide(Black) {
		sb.WriteString("q")
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// ParseCastleFlags inverts FENRights: any right absent from the FEN field is recorded
// as "moved" since the flags have no other way to represent a permanently-lost right.
func ParseCastleFlags(field string) CastleFlags {
	var c CastleFlags
	if !strings.Contains(field, "K") {
		c |= WhiteKingRookMoved
	}
	if !strings.Contains(field, "Q") {
		c |= WhiteQueenRookMoved
	}
	if !strings.Contains(field, "k") {
		c |= BlackKingRookMoved
	}
	if !strings.Contains(field, "q") {
		c |= BlackQueenRookMoved
	}
	return c
}

func (c CastleFlags) String() string {
	return c.FENRights()
}
