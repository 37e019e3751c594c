package board

import "math/rand"

// ZobristHash is the 32-bit incrementally-maintained position hash: the XOR of
// one random value for each (color, piece, offset) on the board, plus the
// side-to-move term when White is to move. Contributions are combined by XOR,
// not added as products of separate piece and square multipliers. It is used
// both for transposition lookup and for repetition detection, so after
// Board.Unmake it must equal the pre-move hash bit-exactly.
type ZobristHash uint32

// ZobristTable holds one random value per (color, piece, offset), a side-to-move
// term and per-file en passant terms. Board folds in only the piece and
// side-to-move terms; nothing in this module uses EnPassantFile.
type ZobristTable struct {
	pieceOffset [NumColors][NumPieces][NumOffsets]ZobristHash
	sideToMove  ZobristHash
	enPassant   [BoardWidth]ZobristHash // indexed by file column of the mailbox
}

// NewZobristTable builds a table from the given seed. A fixed seed (e.g. 0) gives
// reproducible hashes across runs, which is convenient for TT regression tests.
func NewZobristTable(seed int64) *ZobristTable {
	r := rand.New(rand.NewSource(seed))
	t := &ZobristTable{}

	for c := ZeroColor; c < NumColors; c++ {
		for p := ZeroPiece; p < NumPieces; p++ {
			for o := Offset(0); o < NumOffsets; o++ {
				t.pieceOffset[c][p][o] = ZobristHash(r.Uint32())
			}
		}
	}
	t.sideToMove = ZobristHash(r.Uint32())
	for f := range t.enPassant {
		t.enPassant[f] = ZobristHash(r.Uint32())
	}
	return t
}

// Piece returns the contribution of one colored piece sitting on one offset.
func (t *ZobristTable) Piece(c Color, p Piece, o Offset) ZobristHash {
	return t.pieceOffset[c][p][o]
}

// SideToMove returns the contribution folded in whenever it is White to move; folding
// it in and out on every ply makes the hash side-dependent, which repetition detection
// requires (the same piece placement with different sides to move is not a repetition).
func (t *ZobristTable) SideToMove() ZobristHash {
	return t.sideToMove
}

// EnPassantFile returns the contribution for an en passant target square on the given
// mailbox file column, or 0 if there is no en passant target.
func (t *ZobristTable) EnPassantFile(file int) ZobristHash {
	if file < 0 || file >= len(t.enPassant) {
		return 0
	}
	return t.enPassant[file]
}
