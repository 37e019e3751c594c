// Package eboard adapts a DGT electronic board fed through LiveChess into a
// move source for the engine: the operator's physical move on the board is
// treated as the move to play, which lets chessmate sit between a physical
// board and a GUI that expects a UCI engine. Grounded on
// _examples/herohde-morlock/cmd/livechess-uci/main.go's adaptor type, which did
// the same thing by implementing search.Search directly; this package instead
// exposes a plain Await so any host (not just a pkg/search root) can use it.
package eboard

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/herohde/livechess-go/pkg/livechess"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/movegen"
)

// Adaptor tracks events from a LiveChess feed and resolves them against the
// legal moves of a given position.
type Adaptor struct {
	client livechess.FeedClient

	last  atomic.Pointer[livechess.EBoardEventResponse]
	pulse iox.Pulse
}

// New connects to the board identified by serial (or "auto" to autodetect),
// optionally flips it, and sets it up at the given FEN.
func New(ctx context.Context, serial string, flip bool, fen string) (*Adaptor, error) {
	id := livechess.EBoardSerial(serial)
	if id == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			return nil, err
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		return nil, err
	}
	if flip {
		if err := client.Flip(ctx, true); err != nil {
			return nil, err
		}
	}
	if err := client.Setup(ctx, fen); err != nil {
		return nil, err
	}

	a := &Adaptor{client: client, pulse: iox.NewPulse()}
	go a.process(ctx, events)
	return a, nil
}

// Setup resets the physical board to the given FEN, e.g. after the host plays
// a move for the opponent on its own initiative.
func (a *Adaptor) Setup(ctx context.Context, fen string) error {
	return a.client.Setup(ctx, fen)
}

// Await blocks until the operator makes a move on the physical board that
// matches one of b's legal moves, or ctx is done.
func (a *Adaptor) Await(ctx context.Context, b *board.Board) (board.Move, error) {
	legal := movegen.LegalMoves(b)
	candidates := map[string]board.Move{}
	for i := 0; i < legal.Len(); i++ {
		m := legal.At(i)

		var unmove board.UnmoveInfo
		mv := m
		b.Make(&mv, &unmove, false, false)
		candidates[fenPosition(b.GetFEN())] = mv
		b.Unmake(mv, &unmove)
	}

	for {
		if last := a.last.Load(); last != nil {
			if m, ok := candidates[last.Board]; ok {
				return m, nil
			}
		}

		select {
		case <-a.pulse.Chan():
			// ok: try again
		case <-ctx.Done():
			return board.Move{}, ctx.Err()
		}
	}
}

func (a *Adaptor) process(ctx context.Context, events <-chan livechess.EBoardEventResponse) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}

			if len(event.San) > 0 {
				a.last.Store(&event)
				a.pulse.Emit()
			}

		case <-ctx.Done():
			return
		}
	}
}

// fenPosition drops the side-to-move/castle/en-passant/clock fields, since the
// physical board only reports piece placement.
func fenPosition(fen string) string {
	return strings.Fields(fen)[0]
}
