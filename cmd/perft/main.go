// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/seekerror/logw"

	"github.com/tanolen/chessmate/pkg/board"
	"github.com/tanolen/chessmate/pkg/engine"
	"github.com/tanolen/chessmate/pkg/movegen"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
	seed     = flag.Int64("seed", 1, "Zobrist table seed")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = engine.StandardFEN
	}

	zt := board.NewZobristTable(*seed)
	b := board.NewEmptyBoard(zt, nil)
	if err := b.SetFEN(*position); err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := perft(b, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, nodes, duration.Microseconds())
	}
}

func perft(b *board.Board, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var list board.MoveList
	movegen.Generate(b, &list)
	movegen.FilterLegal(b, &list)

	var nodes int64
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)

		var unmove board.UnmoveInfo
		b.Make(&m, &unmove, false, false)
		count := perft(b, depth-1, false)
		b.Unmake(m, &unmove)

		if d {
			fmt.Printf("%v: %v\n", m, count)
		}
		nodes += count
	}
	return nodes
}
