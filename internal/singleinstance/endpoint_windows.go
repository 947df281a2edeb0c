//go:build windows

package singleinstance

import (
	"net"
	"time"

	"github.com/Microsoft/go-winio"
)

const pipeName = `\\.\pipe\tracktoast-instance`

func listen() (net.Listener, error) {
	// The pipe disappears with the owning process, so no stale-endpoint
	// cleanup is needed on Windows.
	return winio.ListenPipe(pipeName, nil)
}

func probe() bool {
	timeout := time.Second
	conn, err := winio.DialPipe(pipeName, &timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
