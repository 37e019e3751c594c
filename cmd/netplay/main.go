// netplay runs a chessmate engine against a remote Player over the internet or
// named-pipe transport, printing the game as it unfolds. Grounded on
// original_source/src/ichess.cpp/npchess.cpp's two-instance match runners.
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/engine"
	"github.com/tanolen/chessmate/pkg/search/searchctl"
	"github.com/tanolen/chessmate/pkg/transport/net"
	"github.com/tanolen/chessmate/pkg/transport/pipe"
)

var (
	transport = flag.String("transport", "net", "Transport: net or pipe")
	addr      = flag.String("addr", "127.0.0.1:17171", "Address to listen on or dial")
	listen    = flag.Bool("listen", true, "Listen for a peer instead of dialing one")
	depth     = flag.Uint("depth", 6, "Fixed search depth")
	engineIs  = flag.String("color", "white", "Which side chessmate plays: white or black")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	var player engine.Player
	var err error
	switch *transport {
	case "net":
		if *listen {
			player, err = net.Listen(*addr)
		} else {
			player, err = net.Dial(*addr)
		}
	case "pipe":
		if *listen {
			player, err = pipe.Listen(*addr)
		} else {
			player, err = pipe.Connect(*addr)
		}
	default:
		logw.Exitf(ctx, "Unknown transport: %v", *transport)
	}
	if err != nil {
		logw.Exitf(ctx, "Connect failed: %v", err)
	}

	e := engine.New(ctx, "chessmate", "tanolen", engine.WithOptions(engine.Options{Depth: *depth}))

	engineColor := board.White
	if *engineIs == "black" {
		engineColor = board.Black
	}

	for {
		b := e.Board()
		if b.Result().IsDecided() {
			fmt.Printf("game over: %v\n", b.Result())
			return
		}

		if b.Turn() == engineColor {
			move, err := think(ctx, e)
			if err != nil {
				logw.Exitf(ctx, "Search failed: %v", err)
			}
			if err := e.Move(ctx, move); err != nil {
				logw.Exitf(ctx, "Invalid engine move %v: %v", move, err)
			}
			if err := player.SendMove(ctx, e.Position(), move); err != nil {
				logw.Exitf(ctx, "Send move failed: %v", err)
			}
			fmt.Printf("chessmate: %v\n", move)
		} else {
			move, err := player.GetMove(ctx, e.Position())
			if err != nil {
				logw.Exitf(ctx, "Get move failed: %v", err)
			}
			if err := e.Move(ctx, move); err != nil {
				logw.Exitf(ctx, "Invalid peer move %v: %v", move, err)
			}
			fmt.Printf("peer: %v\n", move)
		}
	}
}

func think(ctx context.Context, e *engine.Engine) (string, error) {
	out, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(e.Options().Depth)})
	if err != nil {
		return "", err
	}

	var last string
	for pv := range out {
		if moves := pv.Path.Slice(); len(moves) > 0 {
			last = moves[0].String()
		}
	}
	if last == "" {
		return "", fmt.Errorf("no move found")
	}
	return last, nil
}
