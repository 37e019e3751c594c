// Package pipe implements a named-pipe player transport. Go has no portable,
// first-class named pipe in the standard library, so this uses a loopback
// gorilla/websocket connection as the substitute channel, framed the same way
// pkg/transport/net frames a remote internet player. Grounded on
// original_source/src/npchess.cpp's Win32 NamedPipeChessPlayer.
package pipe

import (
	"context"
	"fmt"

	"github.com/tanolen/chessmate/pkg/engine"
	transportnet "github.com/tanolen/chessmate/pkg/transport/net"
)

// DefaultAddr is the loopback address the pipe stand-in listens/dials on when
// the caller doesn't need more than one local pipe at a time.
const DefaultAddr = "127.0.0.1:17171"

// Player is an engine.Player backed by a loopback websocket connection,
// standing in for a named pipe between two local processes.
type Player struct {
	inner *transportnet.Player
}

var _ engine.Player = (*Player)(nil)

// Listen opens the pipe's listening end.
func Listen(addr string) (*Player, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	p, err := transportnet.Listen(addr)
	if err != nil {
		return nil, fmt.Errorf("open pipe listener: %w", err)
	}
	return &Player{inner: p}, nil
}

// Connect opens the pipe's connecting end.
func Connect(addr string) (*Player, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	p, err := transportnet.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("connect to pipe: %w", err)
	}
	return &Player{inner: p}, nil
}

func (p *Player) GetMove(ctx context.Context, position string) (string, error) {
	return p.inner.GetMove(ctx, position)
}

func (p *Player) SendMove(ctx context.Context, position, move string) error {
	return p.inner.SendMove(ctx, position, move)
}

func (p *Player) Close() error {
	return p.inner.Close()
}
