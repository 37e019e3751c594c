package board

// UnmoveInfo holds exactly the state Board.Make cannot cheaply recompute on Unmake:
// the captured piece (if any), the prior flags, prior material totals, the prior
// previous-move (needed to restore en passant recognition), the prior last-
// irreversible-move ply, and the prior hash. Per the design notes, the search stack
// owns one UnmoveInfo per ply explicitly; no reference to it survives a search return.
type UnmoveInfo struct {
	Capture       Piece
	CaptureOffset Offset // differs from the move's To square only for en passant

	PrevCastle             CastleFlags
	PrevInCheck            [NumColors]bool
	PrevMaterial           [NumColors]Score
	PrevKingOffset         [NumColors]Offset
	PrevMove               Move
	PrevLastIrreversiblePly int
	PrevHash               ZobristHash
}
