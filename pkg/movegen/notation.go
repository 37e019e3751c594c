package movegen

import (
	"fmt"
	"strings"

	"github.com/tanolen/chessmate/pkg/board"
)

// ScanMove resolves str (LAN such as "e7e8q", or SAN such as "Nf3", "O-O",
// "Rxe1+", "exd5") against the legal moves available in b, filling in the
// contextual fields (capture, castling, en passant, causes-check) that neither
// notation carries on its own. Returns board.ErrAmbiguousMove if more than one
// legal move matches a SAN string lacking sufficient disambiguation, and
// board.ErrIllegalMove if no legal move matches at all.
func ScanMove(b *board.Board, str string) (board.Move, error) {
	legal := LegalMoves(b)

	if m, err := board.ParseLANMove(str); err == nil {
		var match *board.Move
		for i := 0; i < legal.Len(); i++ {
			cand := legal.At(i)
			if cand.From == m.From && cand.To == m.To && cand.Promotion == m.Promotion {
				c := cand
				match = &c
				break
			}
		}
		if match != nil {
			return *match, nil
		}
		if m.Type == board.NullMove {
			return m, nil
		}
	}

	return scanSAN(b, &legal, str)
}

func scanSAN(b *board.Board, legal *board.MoveList, str string) (board.Move, error) {
	s := strings.TrimRight(str, "+#!?")

	if s == "O-O" || s == "0-0" {
		return pickByType(legal, board.KingSideCastle)
	}
	if s == "O-O-O" || s == "0-0-0" {
		return pickByType(legal, board.QueenSideCastle)
	}

	promo := board.NoPiece
	if i := strings.IndexByte(s, '='); i >= 0 {
		p, ok := board.ParsePiece(rune(s[i+1]))
		if !ok {
			return board.Move{}, fmt.Errorf("%w: bad promotion suffix in %q", board.ErrIllegalMove, str)
		}
		promo = p
		s = s[:i]
	}

	piece := board.Pawn
	rest := s
	if len(s) > 0 {
		if p, ok := board.ParsePiece(rune(s[0])); ok && s[0] != 'b' {
			piece, rest = p, s[1:]
		} else if s[0] >= 'A' && s[0] <= 'Z' {
			p2, ok2 := board.ParsePiece(rune(s[0]))
			if ok2 {
				piece, rest = p2, s[1:]
			}
		}
	}

	rest = strings.ReplaceAll(rest, "x", "")
	if len(rest) < 2 {
		return board.Move{}, fmt.Errorf("%w: cannot parse %q", board.ErrIllegalMove, str)
	}

	to, ok := board.ParseOffset(rest[len(rest)-2:])
	if !ok {
		return board.Move{}, fmt.Errorf("%w: bad destination in %q", board.ErrIllegalMove, str)
	}
	disambig := rest[:len(rest)-2]

	var candidates []board.Move
	for i := 0; i < legal.Len(); i++ {
		cand := legal.At(i)
		if cand.To != to || cand.Piece != piece {
			continue
		}
		if promo != board.NoPiece && cand.Promotion != promo {
			continue
		}
		if disambig != "" && !matchesDisambiguation(cand.From, disambig) {
			continue
		}
		candidates = append(candidates, cand)
	}

	switch len(candidates) {
	case 0:
		return board.Move{}, fmt.Errorf("%w: %q matches no legal move", board.ErrIllegalMove, str)
	case 1:
		return candidates[0], nil
	default:
		return board.Move{}, fmt.Errorf("%w: %q matches %d legal moves", board.ErrAmbiguousMove, str, len(candidates))
	}
}

func matchesDisambiguation(from board.Offset, d string) bool {
	for _, r := range d {
		switch {
		case r >= 'a' && r <= 'h':
			if from.FileOf() != int(r-'a')+1 {
				return false
			}
		case r >= '1' && r <= '8':
			if from.RankOf() != int(r-'0') {
				return false
			}
		}
	}
	return true
}

func pickByType(legal *board.MoveList, mt board.MoveType) (board.Move, error) {
	for i := 0; i < legal.Len(); i++ {
		if m := legal.At(i); m.Type == mt {
			return m, nil
		}
	}
	return board.Move{}, fmt.Errorf("%w: castle not available", board.ErrIllegalMove)
}
