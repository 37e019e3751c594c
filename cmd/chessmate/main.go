// Command chessmate is a simple UCI/console chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/seekerror/logw"

	"github.com/tanolen/chessmate/pkg/engine"
	"github.com/tanolen/chessmate/pkg/engine/console"
	"github.com/tanolen/chessmate/pkg/engine/uci"
	"github.com/tanolen/chessmate/pkg/eval"
)

var (
	depth        = flag.Uint("depth", 0, "Fixed search depth in plies (zero for time-controlled search)")
	maxNodes     = flag.Uint64("max_nodes", 0, "Evaluation-count-limited search (zero for no limit)")
	hash         = flag.Uint("hash", 64, "Transposition table size, in MB")
	ponder       = flag.Bool("ponder", true, "Think on the opponent's time")
	searchBias   = flag.Bool("search_bias", false, "Shuffle root moves before ordering")
	extendSearch = flag.Bool("extend_search", true, "Search one iteration past a soft time limit on a sharp score drop")
	openingBook  = flag.Bool("opening_book", true, "Consult the opening book")
	training     = flag.Bool("training", false, "Consult/update the experience tree")
	allowResign  = flag.Bool("allow_resign", true, "Permit the engine to signal resignation")
	genes        = flag.String("genes", "", "Path to a gene-vector YAML file (empty for defaults)")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: chessmate [options]

CHESSMATE is a simple UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	opts := []engine.Option{
		engine.WithOptions(engine.Options{
			Depth:        *depth,
			MaxNodes:     *maxNodes,
			HashMB:       *hash,
			Ponder:       *ponder,
			SearchBias:   *searchBias,
			ExtendSearch: *extendSearch,
			OpeningBook:  *openingBook,
			Training:     *training,
			AllowResign:  *allowResign,
		}),
	}
	if *genes != "" {
		g, err := eval.LoadGenes(*genes)
		if err != nil {
			logw.Exitf(ctx, "Failed to load genes from %v: %v", *genes, err)
		}
		opts = append(opts, engine.WithGenes(g))
	}

	e := engine.New(ctx, "chessmate", "tanolen", opts...)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
