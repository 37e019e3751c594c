// Package book defines the opening-book and learned-experience interfaces spec.md
// §4.8 calls for. This module ships no actual book data -- only the interfaces
// and an in-memory line-based implementation for tests -- the same split
// _examples/herohde-morlock/pkg/engine/book.go makes between the Book interface
// and NewBook's line-parsing construction.
package book

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/movegen"
)

// Book returns candidate moves for a given position. Once it returns an empty
// list for a position, the host should stop consulting it for the rest of the
// game (spec.md §4.8's "no repeated probing after leaving book").
type Book interface {
	Find(ctx context.Context, position string) ([]board.Move, error)
}

// Experience records game outcomes keyed by position, so a host can bias move
// selection toward lines that have scored well historically. No persistence
// backend ships with this module; a host wires its own (e.g. the gene-vector
// yaml persistence pattern in pkg/eval, or a key-value store).
type Experience interface {
	// Record stores the outcome of having played move from position.
	Record(ctx context.Context, position string, move board.Move, result board.Result) error
	// Score returns a win-rate-like score in [-1, 1] for move from position, and
	// whether any experience exists for it at all.
	Score(ctx context.Context, position string, move board.Move) (float64, bool)
}

// Line is a sequence of moves in LAN notation, e.g. {"e2e4", "e7e5"}.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an opening book that never has a recommendation.
var NoBook Book = lineBook{moves: map[string][]board.Move{}}

// NewLineBook builds a Book out of explicit opening lines, replaying each one
// from the standard starting position to validate and key it.
func NewLineBook(zt *board.ZobristTable, lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}

	for _, line := range lines {
		b := board.NewInitialBoard(zt)
		for _, str := range line {
			want, err := board.ParseLANMove(str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %v: %v", line, err)
			}

			legal := movegen.LegalMoves(b)
			var found *board.Move
			for i := 0; i < legal.Len(); i++ {
				if cand := legal.At(i); cand.From == want.From && cand.To == want.To && cand.Promotion == want.Promotion {
					c := cand
					found = &c
					break
				}
			}
			if found == nil {
				return nil, fmt.Errorf("invalid line %v: %v is not legal", line, str)
			}

			key := fenKey(b.GetFEN())
			if m[key] == nil {
				m[key] = map[board.Move]bool{}
			}
			m[key][*found] = true

			var unmove board.UnmoveInfo
			mv := *found
			b.Make(&mv, &unmove, true, true)
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for mv := range v {
			list = append(list, mv)
		}
		sort.Slice(list, func(i, j int) bool { return board.RawPieceValue[list[i].Capture] > board.RawPieceValue[list[j].Capture] })
		dedup[k] = list
	}
	return lineBook{moves: dedup}, nil
}

type lineBook struct {
	moves map[string][]board.Move
}

func (b lineBook) Find(ctx context.Context, position string) ([]board.Move, error) {
	return b.moves[fenKey(position)], nil
}

// fenKey drops the halfmove clock and fullmove number, since book entries should
// match regardless of move-count bookkeeping.
func fenKey(fen string) string {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return fen
	}
	return strings.Join(parts[:4], " ")
}
