// Package ponder implements opponent-time thinking: a long-lived worker goroutine
// that searches a predicted reply on its own private board copy while the host is
// waiting for the opponent's actual move, per spec.md §4.7. Grounded on
// _examples/herohde-morlock/pkg/search/searchctl's iox.AsyncCloser-based handshake
// idiom, generalized to the explicit wake/started/finished protocol spec.md
// describes rather than the teacher's single quit-closer.
package ponder

import (
	"context"
	"sync"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/search"
	"github.com/tanolen/chessmate/pkg/search/searchctl"
)

// Worker owns one long-lived ponder goroutine. Create one per Engine; Stop it
// when the engine is torn down.
type Worker struct {
	launcher *searchctl.Iterative

	wake    chan job
	started iox.Pulse
	quit    iox.AsyncCloser

	mu       sync.Mutex
	lastPV   search.PV
	predict  board.Move
	hasMatch bool
}

type job struct {
	ctx      context.Context
	board    *board.Board // private copy; the worker owns it exclusively
	predict  board.Move   // the move the worker assumes the opponent will play
	opt      searchctl.Options
}

// NewWorker starts the worker goroutine. It sits idle until Ponder is called.
func NewWorker(launcher *searchctl.Iterative) *Worker {
	w := &Worker{
		launcher: launcher,
		wake:     make(chan job, 1),
		started:  iox.NewPulse(),
		quit:     iox.NewAsyncCloser(),
	}
	go w.run()
	return w
}

// Ponder wakes the worker to search position b (the host's position after
// provisionally playing predict on behalf of the opponent). b is cloned so the
// caller's board is never touched by the ponder goroutine.
func (w *Worker) Ponder(ctx context.Context, b *board.Board, predict board.Move, opt searchctl.Options) {
	select {
	case <-w.wake:
	default:
	}
	w.wake <- job{ctx: ctx, board: b.Clone(), predict: predict, opt: opt}
}

// run is the worker's only goroutine: wake, started, finished, repeat.
func (w *Worker) run() {
	for {
		select {
		case j := <-w.wake:
			w.started.Emit()
			w.think(j)
		case <-w.quit.Closed():
			return
		}
	}
}

func (w *Worker) think(j job) {
	handle, out := w.launcher.Launch(j.ctx, j.board, j.opt)
	defer handle.Halt()

	var last search.PV
	for pv := range out {
		last = pv
	}

	w.mu.Lock()
	w.lastPV = last
	w.predict = j.predict
	w.hasMatch = true
	w.mu.Unlock()

	logw.Debugf(j.ctx, "Ponder finished: predicted=%v, result=%v", j.predict, last)
}

// FinishThinking reports whether the last finished ponder search predicted the
// opponent's actual move: if it did, the already-computed PV can be reused
// directly instead of starting a fresh search. It neither stops nor waits for a
// ponder search that is still running; only a finished search can match.
func (w *Worker) FinishThinking(actual board.Move) (search.PV, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hasMatch {
		return search.PV{}, false
	}
	matched := w.predict.Equals(actual)
	w.hasMatch = false
	if !matched {
		return search.PV{}, false
	}
	return w.lastPV, true
}

// Stop halts the worker goroutine permanently.
func (w *Worker) Stop() {
	w.quit.Close()
}
