// Package engine ties board, movegen, eval, ordering, tt, search and ponder
// together behind the Player interface, mirroring
// _examples/herohde-morlock/pkg/engine/engine.go's mutex-guarded, functional-
// options Engine type.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/book"
	"github.com/tanolen/chessmate/pkg/eval"
	"github.com/tanolen/chessmate/pkg/movegen"
	"github.com/tanolen/chessmate/pkg/ordering"
	"github.com/tanolen/chessmate/pkg/ponder"
	"github.com/tanolen/chessmate/pkg/search"
	"github.com/tanolen/chessmate/pkg/search/searchctl"
	"github.com/tanolen/chessmate/pkg/tt"
)

var version = build.NewVersion(0, 1, 0)

// StandardFEN is the FEN of the standard chess starting position.
const StandardFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Options are engine creation/runtime options, per spec.md §6's configuration
// table.
type Options struct {
	// Depth limits search to this many plies (search_depth). Zero means no limit.
	Depth uint
	// MaxNodes stops iterative deepening once the nodes searched across the
	// completed depths reach this count (max_nodes); the depth in progress always
	// completes. Zero means no limit.
	MaxNodes uint64
	// SearchBias shuffles the root move list before ordering (search_bias), so
	// tied candidates are not always explored in generation order.
	SearchBias bool
	// ExtendSearch enables the drop-score re-plan: searching one iteration past
	// a soft time limit if the score just dropped sharply (extend_search).
	ExtendSearch bool
	// OpeningBook gates whether BookMoves ever consults the opening book
	// (opening_book).
	OpeningBook bool
	// Training gates whether the experience tree is consulted/updated
	// (training). Has no effect unless an Experience is registered via
	// WithExperience.
	Training bool
	// AllowResign gates whether a crossed ResignThreshold is ever reported
	// (allow_resign); with this false, the engine never resigns regardless of
	// ResignThreshold.
	AllowResign bool
	// ResignThreshold, if set, is a White-relative centipawn score: White resigns
	// at or below it, Black at or above its negation (so -500 resigns either side
	// once it is 500 centipawns down). Only takes effect when AllowResign is true.
	ResignThreshold lang.Optional[board.Score]
	// HashMB sizes the transposition table, in megabytes. Zero selects a 1 MB table.
	HashMB uint
	// Ponder enables opponent-time thinking between moves.
	Ponder bool
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, max_nodes=%v, bias=%v, extend=%v, book=%v, training=%v, allow_resign=%v, resign=%v, hash=%vMB, ponder=%v}",
		o.Depth, o.MaxNodes, o.SearchBias, o.ExtendSearch, o.OpeningBook, o.Training, o.AllowResign, o.ResignThreshold, o.HashMB, o.Ponder)
}

// HostCallbacks lets the embedding application (UCI, console, internet/pipe
// transports) observe engine-internal events it must react to, per spec.md §4.9.
// Implementations must not block.
type HostCallbacks interface {
	OnFatal(err error)
}

type nopHost struct{}

func (nopHost) OnFatal(error) {}

// Player is the minimal surface a remote move source (network socket, named
// pipe, physical eBoard) must implement to stand in for a human or another
// engine, per the internet/named-pipe/eboard transports of spec.md §4.9.
type Player interface {
	// GetMove blocks until the player has chosen a move in the given position,
	// given in LAN or SAN.
	GetMove(ctx context.Context, position string) (string, error)
	// SendMove informs the player of a move the local side just made.
	SendMove(ctx context.Context, position, move string) error
}

// Engine encapsulates game state, search configuration and opening-book lookup.
type Engine struct {
	name, author string

	zt         *board.ZobristTable
	seed       int64
	opts       Options
	host       HostCallbacks
	book       book.Book
	experience book.Experience
	genes      eval.Genes
	rnd        *rand.Rand

	b        *board.Board
	undoLog  []pendingUndo
	ttStore  *tt.Store
	ponderer *ponder.Worker

	active searchctl.Handle
	mu     sync.Mutex
}

type pendingUndo struct {
	move   board.Move
	unmove board.UnmoveInfo
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithOptions sets the initial runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist selects a non-default Zobrist seed (useful for reproducible tests).
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithHost registers a HostCallbacks sink for fatal errors.
func WithHost(host HostCallbacks) Option {
	return func(e *Engine) { e.host = host }
}

// WithBook registers an opening book.
func WithBook(b book.Book) Option {
	return func(e *Engine) { e.book = b }
}

// WithExperience registers an experience tree, consulted/updated only while
// Options.Training is enabled.
func WithExperience(exp book.Experience) Option {
	return func(e *Engine) { e.experience = exp }
}

// WithGenes overrides the default evaluator gene vector.
func WithGenes(g eval.Genes) Option {
	return func(e *Engine) { e.genes = g }
}

// New constructs an Engine at the standard starting position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:   name,
		author: author,
		host:   nopHost{},
		book:   book.NoBook,
		genes:  eval.Default(),
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zt = board.NewZobristTable(e.seed)
	e.rnd = rand.New(rand.NewSource(e.seed))

	_ = e.Reset(ctx, StandardFEN)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(mb uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.HashMB = mb
}

func (e *Engine) SetResignThreshold(cp board.Score) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.ResignThreshold = lang.Some(cp)
}

// Board returns a private clone of the current position.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.Clone()
}

// Position returns the current position in FEN.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b.GetFEN()
}

// Reset repositions the engine to the given FEN, discarding search state and undo
// history.
func (e *Engine) Reset(ctx context.Context, fen string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, %v", fen, e.opts)

	e.haltActiveLocked(ctx)

	b, err := newBoardFromFEN(e.zt, fen, e.onFatal)
	if err != nil {
		return err
	}
	e.b = b
	e.undoLog = nil

	size := uint64(e.opts.HashMB) << 20
	if size == 0 {
		size = 1 << 20
	}
	e.ttStore = tt.New(ctx, size)

	evaluator := eval.NewEngine(e.genes, nil)

	if e.ponderer != nil {
		e.ponderer.Stop()
	}
	e.ponderer = ponder.NewWorker(e.newLauncher(evaluator))

	logw.Infof(ctx, "New board: %v", e.b)
	return nil
}

func (e *Engine) onFatal(err error) {
	e.host.OnFatal(err)
}

func newBoardFromFEN(zt *board.ZobristTable, fen string, fatal board.FatalFunc) (*board.Board, error) {
	b := board.NewEmptyBoard(zt, fatal)
	if err := b.SetFEN(fen); err != nil {
		return nil, err
	}
	return b, nil
}

// Move plays move (given in LAN or SAN) as though received from the opponent.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	e.haltActiveLocked(ctx)

	m, err := movegen.ScanMove(e.b, move)
	if err != nil {
		return fmt.Errorf("invalid move %q: %w", move, err)
	}

	var unmove board.UnmoveInfo
	e.b.Make(&m, &unmove, true, true)
	e.undoLog = append(e.undoLog, pendingUndo{move: m, unmove: unmove})

	logw.Infof(ctx, "Move %v: %v", m, e.b)
	return nil
}

// TakeBack undoes the most recent move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.haltActiveLocked(ctx)

	if len(e.undoLog) == 0 {
		return fmt.Errorf("no move to take back")
	}
	last := e.undoLog[len(e.undoLog)-1]
	e.undoLog = e.undoLog[:len(e.undoLog)-1]
	e.b.Unmake(last.move, &last.unmove)

	logw.Infof(ctx, "Takeback %v", last.move)
	return nil
}

func (e *Engine) newLauncher(evaluator eval.Evaluator) *searchctl.Iterative {
	return &searchctl.Iterative{
		Root: search.AlphaBeta{
			Eval:  evaluator,
			TT:    e.ttStore,
			Order: ordering.NewTable(),
			Bias:  e.opts.SearchBias,
			Rand:  e.rnd,
		},
		Store: e.ttStore,
	}
}

// Analyze launches a search of the current position, streaming one PV per
// completed depth.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}
	if _, ok := opt.NodeLimit.V(); !ok && e.opts.MaxNodes > 0 {
		opt.NodeLimit = lang.Some(e.opts.MaxNodes)
	}
	if !opt.ExtendSearch {
		opt.ExtendSearch = e.opts.ExtendSearch
	}
	if e.opts.AllowResign {
		if _, ok := opt.ResignThreshold.V(); !ok {
			opt.ResignThreshold = e.opts.ResignThreshold
		}
	} else {
		opt.ResignThreshold = lang.Optional[board.Score]{}
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.b, opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	evaluator := eval.NewEngine(e.genes, nil)
	launcher := e.newLauncher(evaluator)

	handle, out := launcher.Launch(ctx, e.b.Clone(), opt)
	e.active = handle
	return out, nil
}

// Halt stops the active search and returns its last PV, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pv, ok := e.haltActiveLocked(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltActiveLocked(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search %v halted: %v", e.b, pv)
		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}

// BookMoves returns the opening book's recommendation for the current position,
// if any, a no-op unless Options.OpeningBook is set. If Options.Training is
// also set and an Experience tree is registered, candidates are ordered by
// descending experience score, so learned lines are preferred within the book.
func (e *Engine) BookMoves(ctx context.Context) ([]board.Move, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.opts.OpeningBook {
		return nil, nil
	}

	moves, err := e.book.Find(ctx, e.b.GetFEN())
	if err != nil || len(moves) <= 1 {
		return moves, err
	}

	if e.opts.Training && e.experience != nil {
		position := e.b.GetFEN()
		sort.SliceStable(moves, func(i, j int) bool {
			si, _ := e.experience.Score(ctx, position, moves[i])
			sj, _ := e.experience.Score(ctx, position, moves[j])
			return si > sj
		})
	}
	return moves, nil
}

// RecordOutcome updates the experience tree with the outcome of the most
// recently played move, a no-op unless Options.Training is set and an
// Experience tree is registered.
func (e *Engine) RecordOutcome(ctx context.Context, result board.Result) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.opts.Training || e.experience == nil || len(e.undoLog) == 0 {
		return nil
	}
	last := e.undoLog[len(e.undoLog)-1]
	return e.experience.Record(ctx, e.b.GetFEN(), last.move, result)
}

// Ponder starts thinking on the opponent's time, on the position that would
// result after our own move ourMove followed by the opponent replying with
// predict. A no-op if pondering is disabled.
func (e *Engine) Ponder(ctx context.Context, ourMove, predict board.Move, opt searchctl.Options) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.opts.Ponder || e.ponderer == nil {
		return
	}

	b := e.b.Clone()
	var unmove board.UnmoveInfo
	m := ourMove
	b.Make(&m, &unmove, true, true)

	var unmove2 board.UnmoveInfo
	p := predict
	b.Make(&p, &unmove2, true, true)

	e.ponderer.Ponder(ctx, b, predict, opt)
}

// FinishPonder reports whether a just-finished ponder search predicted the
// opponent's actual move, in which case its PV can be reused instead of
// starting a fresh search from scratch.
func (e *Engine) FinishPonder(actual board.Move) (search.PV, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ponderer == nil {
		return search.PV{}, false
	}
	return e.ponderer.FinishThinking(actual)
}
