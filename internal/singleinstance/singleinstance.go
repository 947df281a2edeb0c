// Package singleinstance prevents two tracktoast processes from running
// in the same user session. The first instance claims a per-user IPC
// endpoint (a named pipe on Windows, a unix socket elsewhere); later
// instances detect the live endpoint and exit.
package singleinstance

import (
	"errors"
	"fmt"
	"net"

	"github.com/tracktoast/tracktoast/internal/logging"
)

var log = logging.L("singleinstance")

// ErrAlreadyRunning means another instance holds the endpoint.
var ErrAlreadyRunning = errors.New("another tracktoast instance is already running")

// Guard holds the instance endpoint for the lifetime of the process.
type Guard struct {
	ln net.Listener
}

// Acquire claims the per-user instance endpoint. Returns
// ErrAlreadyRunning when a live instance answers on it.
func Acquire() (*Guard, error) {
	ln, err := listen()
	if err != nil {
		if probe() {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("claim instance endpoint: %w", err)
	}

	g := &Guard{ln: ln}
	go g.serve()
	log.Debug("instance endpoint claimed", "addr", ln.Addr().String())
	return g, nil
}

// serve answers presence probes. A connection is the entire protocol;
// it is closed immediately.
func (g *Guard) serve() {
	for {
		conn, err := g.ln.Accept()
		if err != nil {
			return
		}
		conn.Close()
	}
}

// Release gives up the endpoint so a new instance can start.
func (g *Guard) Release() error {
	return g.ln.Close()
}
