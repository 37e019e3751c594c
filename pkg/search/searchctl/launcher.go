package searchctl

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/search"
	"github.com/tanolen/chessmate/pkg/tt"
)

// Options hold dynamic, per-search parameters the host (UCI/console/ponder) may
// change between searches.
type Options struct {
	DepthLimit      lang.Optional[uint]
	NodeLimit       lang.Optional[uint64] // evaluation-count-limited search (max_nodes)
	TimeControl     lang.Optional[TimeControl]
	ResignThreshold lang.Optional[board.Score] // White-relative; crossed means the side to move is lost
	ExtendSearch    bool                       // enable the drop-score re-plan past a soft time limit
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.NodeLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("nodes=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	if v, ok := o.ResignThreshold.V(); ok {
		ret = append(ret, fmt.Sprintf("resign=%v", v))
	}
	if o.ExtendSearch {
		ret = append(ret, "extend")
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher runs iterative deepening over a board, producing a PV per completed
// depth on a channel until halted or exhausted.
type Launcher interface {
	Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the engine stop an in-progress search and retrieve its last PV.
type Handle interface {
	Halt() search.PV
}

// Iterative is the default Launcher: repeatedly calls Root.Search at increasing
// depths, always with the full (NegInf, Inf) window; there is no aspiration
// window. When Options.ExtendSearch is set and the score just dropped sharply
// from the previous depth, it starts one more depth even past the soft time
// limit, per spec.md §4.6's "extended search on score drop" behavior.
type Iterative struct {
	Root  search.Search
	Store *tt.Store
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, opt Options) (Handle, <-chan search.PV) {
	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, i.Root, i.Store, b, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, root search.Search, store *tt.Store, b *board.Board, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	store.StartNewSearch()

	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())
	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var prevScore board.Score
	var totalNodes uint64
	searchStart := time.Now()
	depth := 1
	for !h.quit.IsClosed() {
		start := time.Now()

		nodes, score, path, err := root.Search(wctx, b, depth, board.NegInf, board.Inf)
		if err != nil {
			if err == search.ErrHalted {
				return
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}
		totalNodes += nodes

		pv := search.PV{
			Depth: depth,
			Nodes: nodes,
			Score: score,
			Path:  path,
			Time:  time.Since(start),
		}
		if resign, ok := opt.ResignThreshold.V(); ok {
			pv.Resign = crossesResignThreshold(b.Turn(), score, resign)
		}

		logw.Debugf(ctx, "Searched %v: %v", b, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return
		}
		if limit, ok := opt.NodeLimit.V(); ok && totalNodes >= limit {
			return
		}
		if md, ok := score.MateDistance(); ok && md <= depth {
			return
		}
		if pv.Resign {
			return
		}

		scoreDropped := opt.ExtendSearch && depth > 1 && scoreDropSharply(b.Turn(), prevScore, score)
		prevScore = score

		if useSoft && soft < time.Since(searchStart) && !scoreDropped {
			return
		}
		depth++
	}
}

// scoreDropSharply reports whether the position got meaningfully worse for the
// side that just searched, in which case the launcher keeps going past a soft
// time limit for one more iteration rather than returning a stale, optimistic PV.
func scoreDropSharply(turn board.Color, prev, cur board.Score) bool {
	const threshold = 60 // centipawns, per the drop-score re-plan trigger
	if turn == board.White {
		return prev-cur > threshold
	}
	return cur-prev > threshold
}

func crossesResignThreshold(turn board.Color, score, threshold board.Score) bool {
	if turn == board.White {
		return score <= threshold
	}
	return score >= -threshold
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}
