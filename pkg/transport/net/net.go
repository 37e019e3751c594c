// Package net implements an internet chess player transport: a gorilla/websocket
// connection over TCP that frames moves as JSON text messages. Grounded on
// original_source/src/ichess.cpp's InternetChessPlayer, which drove a remote
// opponent over a raw TCP socket; a framed websocket is the portable Go-native
// substitute for that raw protocol, and is already a transitive dependency of
// github.com/herohde/livechess-go.
package net

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/tanolen/chessmate/pkg/engine"
)

// message is the wire frame exchanged between the two instances: GetMove sends
// Position alone (a request to move), the reply carries Move, and SendMove sends
// both Position and Move (a notification of a move just played).
type message struct {
	Position string `json:"position,omitempty"`
	Move     string `json:"move,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Player is an engine.Player backed by a websocket connection to a remote peer.
type Player struct {
	conn *websocket.Conn
}

// Listen starts a server on addr and accepts a single remote peer connection.
func Listen(addr string) (*Player, error) {
	connCh := make(chan *websocket.Conn, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			errCh <- err
			return
		}
		connCh <- conn
	})

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()

	select {
	case conn := <-connCh:
		return &Player{conn: conn}, nil
	case err := <-errCh:
		return nil, err
	}
}

// Dial connects to a remote Player started with Listen.
func Dial(addr string) (*Player, error) {
	url := fmt.Sprintf("ws://%v/", addr)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	return &Player{conn: conn}, nil
}

var _ engine.Player = (*Player)(nil)

// GetMove asks the remote peer to move from position and waits for its reply.
func (p *Player) GetMove(ctx context.Context, position string) (string, error) {
	if err := p.send(message{Position: position}); err != nil {
		return "", err
	}

	var reply message
	if err := p.recv(&reply); err != nil {
		return "", err
	}
	return reply.Move, nil
}

// SendMove tells the remote peer about a move just played locally.
func (p *Player) SendMove(ctx context.Context, position, move string) error {
	return p.send(message{Position: position, Move: move})
}

// Close tears down the underlying connection.
func (p *Player) Close() error {
	return p.conn.Close()
}

func (p *Player) send(m message) error {
	return p.conn.WriteJSON(m)
}

func (p *Player) recv(m *message) error {
	_, data, err := p.conn.ReadMessage()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, m)
}
