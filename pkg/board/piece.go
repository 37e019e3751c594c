package board

// Piece represents a chess piece kind (King, Pawn, etc), without color.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

const (
	ZeroPiece Piece = Pawn
	NumPieces Piece = King + 1
)

// RawPieceValue is the nominal material value in centipawns, used for Board.Material.
// Indexed directly by Piece.
var RawPieceValue = [NumPieces]int32{
	NoPiece: 0,
	Pawn:    100,
	Knight:  300,
	Bishop:  300,
	Rook:    500,
	Queen:   900,
	King:    0, // king material is tracked separately; never summed in a side's material total
}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'n', 'N':
		return Knight, true
	case 'b', 'B':
		return Bishop, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return Pawn <= p && p <= King
}

func (p Piece) String() string {
	switch p {
	case NoPiece:
		return " "
	case Pawn:
		return "p"
	case Knight:
		return "n"
	case Bishop:
		return "b"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}
