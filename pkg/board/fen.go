package board

import (
	"fmt"
	"strconv"
	"strings"
)

// GetFEN renders the position in Forsyth-Edwards Notation.
func (b *Board) GetFEN() string {
	var sb strings.Builder
	for r := 8; r >= 1; r-- {
		empty := 0
		for f := 1; f <= 8; f++ {
			sq := b.squares[OFFSET(f, r)]
			if sq.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(fenLetter(sq))
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 1 {
			sb.WriteRune('/')
		}
	}

	sb.WriteRune(' ')
	if b.turn == White {
		sb.WriteRune('w')
	} else {
		sb.WriteRune('b')
	}

	sb.WriteRune(' ')
	sb.WriteString(b.castle.FENRights())

	sb.WriteRune(' ')
	sb.WriteString(b.enPassantFENField())

	fmt.Fprintf(&sb, " %d %d", b.NoProgressPlies(), b.ply/2+1)
	return sb.String()
}

func fenLetter(sq Square) string {
	s := sq.String()
	return s
}

// enPassantFENField reports the algebraic square behind the last double pawn push,
// or "-" if no en passant capture is currently possible.
func (b *Board) enPassantFENField() string {
	pm, ok := b.PrevMove()
	if !ok || pm.Type != DoublePawnPush {
		return "-"
	}
	mover := b.squares[pm.To]
	if !mover.IsPiece() {
		return "-"
	}
	target := pm.To - PawnAdvanceDirection(mover.Color())
	for _, d := range []Offset{East, West} {
		if sq := b.squares[pm.To+d]; sq.Is(mover.Color().Opponent(), Pawn) {
			return target.String()
		}
	}
	return "-"
}

// SetFEN parses s and repositions the board to it in place, preserving the
// Board's Zobrist table and fatal channel. On a parse error the board is left
// unmodified and the returned error wraps ErrInvalidFen.
func (b *Board) SetFEN(s string) error {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return fmt.Errorf("%w: expected at least 4 fields, got %d", ErrInvalidFen, len(fields))
	}

	placements, err := parseFENBoard(fields[0])
	if err != nil {
		return err
	}

	var turn Color
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return fmt.Errorf("%w: bad side-to-move field %q", ErrInvalidFen, fields[1])
	}

	castle := ParseCastleFlags(fields[2])

	epTarget, hasEP := Offset(0), fields[3] != "-"
	if hasEP {
		if epTarget, hasEP = ParseOffset(fields[3]); !hasEP {
			return fmt.Errorf("%w: bad en passant field %q", ErrInvalidFen, fields[3])
		}
	}

	halfmove, fullmove := 0, 1
	if len(fields) >= 5 {
		halfmove, err = strconv.Atoi(fields[4])
		if err != nil {
			return fmt.Errorf("%w: bad halfmove clock %q", ErrInvalidFen, fields[4])
		}
	}
	if len(fields) >= 6 {
		fullmove, err = strconv.Atoi(fields[5])
		if err != nil {
			return fmt.Errorf("%w: bad fullmove number %q", ErrInvalidFen, fields[5])
		}
	}

	var kings [NumColors]int
	for _, p := range placements {
		if p.Piece == King {
			kings[p.Color]++
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("%w: exactly one king per side required", ErrInvalidFen)
	}

	if err := b.reset(placements, turn, castle, halfmove, fullmove); err != nil {
		return err
	}
	if hasEP {
		// The pawn that just double-pushed stands one square past the target.
		adv := PawnAdvanceDirection(turn)
		b.prevMove = Move{From: epTarget + adv, To: epTarget - adv, Type: DoublePawnPush, Piece: Pawn}
		b.hasPrevMove = true
	}
	return nil
}

func parseFENBoard(field string) ([]Placement, error) {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFen, len(ranks))
	}

	var out []Placement
	for i, rankField := range ranks {
		rank := 8 - i
		file := 1
		for _, r := range rankField {
			if r >= '1' && r <= '8' {
				file += int(r - '0')
				continue
			}
			p, ok := ParsePiece(r)
			if !ok {
				return nil, fmt.Errorf("%w: bad piece letter %q", ErrInvalidFen, r)
			}
			if file > 8 {
				return nil, fmt.Errorf("%w: rank %d overflows 8 files", ErrInvalidFen, rank)
			}
			c := White
			if r >= 'a' && r <= 'z' {
				c = Black
			}
			out = append(out, Placement{OFFSET(file, rank), c, p})
			file++
		}
		if file != 9 {
			return nil, fmt.Errorf("%w: rank %d has %d files, want 8", ErrInvalidFen, rank, file-1)
		}
	}
	return out, nil
}
