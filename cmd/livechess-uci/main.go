// livechess-uci is an adaptor for using a DGT EBoard via LiveChess as a UCI engine. The adaptor
// allows use of DGT EBoards in chess programs, such as CuteChess, by pretending to be an engine:
// whatever move the operator plays on the physical board is reported as the engine's choice.
package main

import (
	"context"
	"flag"

	"github.com/seekerror/logw"

	"github.com/tanolen/chessmate/pkg/engine"
	"github.com/tanolen/chessmate/pkg/transport/eboard"
)

var (
	serial = flag.String("serial", "auto", "Board selection by serial number (default: auto)")
	flip   = flag.Bool("flip", false, "Flip board")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "livechess-uci", "tanolen")

	a, err := eboard.New(ctx, *serial, *flip, e.Position())
	if err != nil {
		logw.Exitf(ctx, "Connecting to eboard failed: %v", err)
	}

	in := engine.ReadStdinLines(ctx)
	protocol := <-in
	if protocol != "uci" {
		logw.Exitf(ctx, "Protocol not supported: %v", protocol)
	}

	logw.Infof(ctx, "id name %v", e.Name())
	logw.Infof(ctx, "id author %v", e.Author())

	for line := range in {
		switch {
		case line == "isready":
			logw.Infof(ctx, "readyok")

		case line == "go" || hasPrefix(line, "go "):
			b := e.Board()
			move, err := a.Await(ctx, b)
			if err != nil {
				logw.Errorf(ctx, "Await move failed: %v", err)
				return
			}

			if err := e.Move(ctx, move.String()); err != nil {
				logw.Errorf(ctx, "Invalid eboard move %v: %v", move, err)
				return
			}
			logw.Infof(ctx, "bestmove %v", move)

		case hasPrefix(line, "position"):
			// The GUI drives position/moves; the physical board is the source of
			// truth for the engine's own replies, so only re-sync it here.
			if err := a.Setup(ctx, e.Position()); err != nil {
				logw.Errorf(ctx, "Re-sync eboard failed: %v", err)
			}

		case line == "quit":
			return
		}
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}
