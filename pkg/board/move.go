package board

import "fmt"

// MoveType indicates the kind of a move, including the "tagged special move" destinations
// spec.md §3 calls out: promotion, both castles, both en passant directions, the null move
// used by the search, and the board-edit pseudo-move used only by position setup.
type MoveType uint8

const (
	Normal MoveType = iota
	DoublePawnPush
	Capture
	EnPassant
	KingSideCastle
	QueenSideCastle
	Promotion
	CapturePromotion
	NullMove
	EditBoard
)

// Move represents a not-necessarily-legal move plus the contextual metadata the search
// and move generator need: the captured piece (filled in by Board.Make; Board.Unmake
// restores captures from UnmoveInfo instead), whether the move is
// known to give check (the "causes-check" bit), and a transient ordering Score filled in
// by pkg/ordering and consumed (then discarded) by MoveList sorting.
type Move struct {
	From, To  Offset
	Type      MoveType
	Piece     Piece // moving piece's kind, before any promotion
	Promotion Piece // promoted-to piece, only set for Promotion/CapturePromotion
	Capture   Piece // captured piece's kind, set by Board.Make for Capture/EnPassant/CapturePromotion

	GivesCheck bool // set once Board.Make has been asked to check_enemy

	OrderScore int32 // transient move-ordering score filled in by pkg/ordering; never persisted
}

// IsCaptureLike reports whether the move is a capture, en passant, or any promotion --
// the set the quiescence search's capture generator must also emit, per spec.md §4.2.
func (m Move) IsCaptureLike() bool {
	switch m.Type {
	case Capture, EnPassant, Promotion, CapturePromotion:
		return true
	default:
		return false
	}
}

// IsCastle reports whether the move is either castling move.
func (m Move) IsCastle() bool {
	return m.Type == KingSideCastle || m.Type == QueenSideCastle
}

// Equals compares the squares, move type and promotion piece, ignoring the other fields.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion && m.Type == o.Type
}

// IsZero reports whether this is the zero-value Move (used as a "no move" sentinel).
func (m Move) IsZero() bool {
	return m.From == 0 && m.To == 0 && m.Type == Normal
}

func (m Move) String() string {
	switch m.Type {
	case NullMove:
		return "0000"
	case KingSideCastle:
		return "O-O"
	case QueenSideCastle:
		return "O-O-O"
	}
	suffix := ""
	if m.Promotion.IsValid() {
		suffix = m.Promotion.String()
	}
	check := ""
	if m.GivesCheck {
		check = "+"
	}
	return fmt.Sprintf("%v%v%v%v", m.From, m.To, suffix, check)
}

// ParseLANMove parses a move in pure long algebraic coordinate notation, such as
// "e2e4" or "e7e8q". The parsed move carries no contextual information (capture,
// castling, en passant) -- movegen.ScanMove fills that in by matching against the
// legal move list, which is the only place that information can come from.
func ParseLANMove(str string) (Move, error) {
	if len(str) == 4 && str == "0000" {
		return Move{Type: NullMove}, nil
	}
	if len(str) < 4 || len(str) > 5 {
		return Move{}, fmt.Errorf("invalid move: %q", str)
	}

	from, ok := ParseOffset(str[0:2])
	if !ok {
		return Move{}, fmt.Errorf("invalid from square: %q", str)
	}
	to, ok := ParseOffset(str[2:4])
	if !ok {
		return Move{}, fmt.Errorf("invalid to square: %q", str)
	}

	m := Move{From: from, To: to}
	if len(str) == 5 {
		promo, ok := ParsePiece(rune(str[4]))
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion piece: %q", str)
		}
		m.Promotion = promo
		m.Type = Promotion
	}
	return m, nil
}
