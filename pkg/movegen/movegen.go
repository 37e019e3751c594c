// Package movegen generates pseudo-legal and capture-only move lists for a
// board.Board and filters them down to legal moves, per spec.md §4.2. Grounded
// on original_source/src/gencaps.cpp and genmove.cpp: separate, piece-by-piece
// scans that never allocate, writing straight into a caller-supplied
// board.MoveList.
package movegen

import (
	"math/rand"

	"github.com/tanolen/chessmate/pkg/board"
)

// Generate appends every pseudo-legal move for the side to move into out. It does
// not filter for legality (a king left in check); call FilterLegal for that.
func Generate(b *board.Board, out *board.MoveList) {
	turn := b.Turn()
	for o := board.Offset(0); o < board.NumOffsets; o++ {
		sq := b.At(o)
		if !sq.IsPiece() || sq.Color() != turn {
			continue
		}
		genPiece(b, o, sq.Kind(), turn, out, false)
	}
	genCastles(b, turn, out)
}

// GenerateCaptures appends only capture-like pseudo-legal moves (captures, en
// passant, and promotions -- every promotion is capture-like for quiescence
// purposes even if it doesn't capture, per spec.md §4.2) for the side to move.
func GenerateCaptures(b *board.Board, out *board.MoveList) {
	turn := b.Turn()
	for o := board.Offset(0); o < board.NumOffsets; o++ {
		sq := b.At(o)
		if !sq.IsPiece() || sq.Color() != turn {
			continue
		}
		genPiece(b, o, sq.Kind(), turn, out, true)
	}
}

func genPiece(b *board.Board, from board.Offset, kind board.Piece, turn board.Color, out *board.MoveList, capturesOnly bool) {
	switch kind {
	case board.Pawn:
		genPawn(b, from, turn, out, capturesOnly)
	case board.Knight:
		genStep(b, from, turn, board.KnightOffsets[:], out, capturesOnly)
	case board.King:
		genStep(b, from, turn, board.KingOffsets[:], out, capturesOnly)
	case board.Bishop:
		genSlide(b, from, turn, board.BishopDirections[:], out, capturesOnly)
	case board.Rook:
		genSlide(b, from, turn, board.RookDirections[:], out, capturesOnly)
	case board.Queen:
		genSlide(b, from, turn, board.BishopDirections[:], out, capturesOnly)
		genSlide(b, from, turn, board.RookDirections[:], out, capturesOnly)
	}
}

func genStep(b *board.Board, from board.Offset, turn board.Color, deltas []board.Offset, out *board.MoveList, capturesOnly bool) {
	for _, d := range deltas {
		to := from + d
		sq := b.At(to)
		if sq.IsOffBoard() || (sq.IsPiece() && sq.Color() == turn) {
			continue
		}
		if sq.IsPiece() {
			appendMove(out, board.Move{From: from, To: to, Type: board.Capture})
		} else if !capturesOnly {
			appendMove(out, board.Move{From: from, To: to, Type: board.Normal})
		}
	}
}

func genSlide(b *board.Board, from board.Offset, turn board.Color, dirs []board.Offset, out *board.MoveList, capturesOnly bool) {
	for _, d := range dirs {
		for to := from + d; ; to += d {
			sq := b.At(to)
			if sq.IsOffBoard() {
				break
			}
			if sq.IsPiece() {
				if sq.Color() != turn {
					appendMove(out, board.Move{From: from, To: to, Type: board.Capture})
				}
				break
			}
			if !capturesOnly {
				appendMove(out, board.Move{From: from, To: to, Type: board.Normal})
			}
		}
	}
}

var promotionPieces = [4]board.Piece{board.Queen, board.Rook, board.Bishop, board.Knight}

func genPawn(b *board.Board, from board.Offset, turn board.Color, out *board.MoveList, capturesOnly bool) {
	adv := board.PawnAdvanceDirection(turn)

	if !capturesOnly {
		one := from + adv
		if b.At(one).IsEmpty() {
			appendPawnAdvance(out, from, one, turn)
			if from.RankOf() == board.PawnHomeRank(turn) {
				two := one + adv
				if b.At(two).IsEmpty() {
					appendMove(out, board.Move{From: from, To: two, Type: board.DoublePawnPush})
				}
			}
		}
	}

	for _, d := range []board.Offset{adv + board.East, adv + board.West} {
		to := from + d
		sq := b.At(to)
		if sq.IsOffBoard() {
			continue
		}
		if sq.IsPiece() && sq.Color() != turn {
			appendPawnCapture(out, from, to, turn)
			continue
		}
		if sq.IsEmpty() {
			if pm, ok := b.PrevMove(); ok && pm.Type == board.DoublePawnPush {
				behind := to - adv
				if pm.To == behind && to.FileOf() == pm.To.FileOf() {
					appendMove(out, board.Move{From: from, To: to, Type: board.EnPassant})
				}
			}
		}
	}
}

func appendPawnAdvance(out *board.MoveList, from, to board.Offset, turn board.Color) {
	if to.RankOf() == board.PawnPromotionRank(turn) {
		for _, p := range promotionPieces {
			appendMove(out, board.Move{From: from, To: to, Type: board.Promotion, Promotion: p})
		}
		return
	}
	appendMove(out, board.Move{From: from, To: to, Type: board.Normal})
}

func appendPawnCapture(out *board.MoveList, from, to board.Offset, turn board.Color) {
	if to.RankOf() == board.PawnPromotionRank(turn) {
		for _, p := range promotionPieces {
			appendMove(out, board.Move{From: from, To: to, Type: board.CapturePromotion, Promotion: p})
		}
		return
	}
	appendMove(out, board.Move{From: from, To: to, Type: board.Capture})
}

func genCastles(b *board.Board, turn board.Color, out *board.MoveList) {
	if b.IsInCheck(turn) {
		return
	}
	flags := b.CastleFlags()
	home := board.HomeRank(turn)
	kingFrom := board.OFFSET(5, home)

	if flags.CanCastleKingSide(turn) &&
		b.At(board.OFFSET(6, home)).IsEmpty() && b.At(board.OFFSET(7, home)).IsEmpty() &&
		b.At(board.OFFSET(8, home)).Is(turn, board.Rook) &&
		!b.IsAttacked(turn.Opponent(), board.OFFSET(6, home)) &&
		!b.IsAttacked(turn.Opponent(), board.OFFSET(7, home)) {
		appendMove(out, board.Move{From: kingFrom, To: board.OFFSET(7, home), Type: board.KingSideCastle})
	}
	if flags.CanCastleQueenSide(turn) &&
		b.At(board.OFFSET(4, home)).IsEmpty() && b.At(board.OFFSET(3, home)).IsEmpty() && b.At(board.OFFSET(2, home)).IsEmpty() &&
		b.At(board.OFFSET(1, home)).Is(turn, board.Rook) &&
		!b.IsAttacked(turn.Opponent(), board.OFFSET(4, home)) &&
		!b.IsAttacked(turn.Opponent(), board.OFFSET(3, home)) {
		appendMove(out, board.Move{From: kingFrom, To: board.OFFSET(3, home), Type: board.QueenSideCastle})
	}
}

func appendMove(out *board.MoveList, m board.Move) {
	if !out.Append(m) {
		panic(board.NewFatalError(board.MoveStackOverflow, "pseudo-legal move list overflow"))
	}
}

// FilterLegal removes every move from list that leaves the mover's own king in
// check, per spec.md §4.2's legality filter: make each candidate with
// check_self=true, check_enemy=true, test, unmake, and swap-remove the illegal
// ones. check_enemy is true here (not just at the quiescence root) so every
// surviving move carries a correct GivesCheck bit for ordering.
func FilterLegal(b *board.Board, list *board.MoveList) {
	turn := b.Turn()
	i := 0
	for i < list.Len() {
		m := list.At(i)
		var unmove board.UnmoveInfo
		b.Make(&m, &unmove, true, true)
		illegal := b.IsInCheck(turn)
		b.Unmake(m, &unmove)
		if illegal {
			list.RemoveAt(i)
			continue
		}
		list.Set(i, m)
		i++
	}
}

// LegalMoves generates every legal move for the side to move.
func LegalMoves(b *board.Board) board.MoveList {
	var list board.MoveList
	Generate(b, &list)
	FilterLegal(b, &list)
	return list
}

// LegalCaptures generates every legal capture-like move for the side to move,
// used at the root of quiescence search.
func LegalCaptures(b *board.Board) board.MoveList {
	var list board.MoveList
	GenerateCaptures(b, &list)
	FilterLegal(b, &list)
	return list
}

// ShuffleRoot randomizes the root move order in place, used when the engine's
// search-bias option is enabled so tied candidates are not always explored in
// generation order.
func ShuffleRoot(list *board.MoveList, r *rand.Rand) {
	list.Shuffle(r)
}
