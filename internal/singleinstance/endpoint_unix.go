//go:build !windows

package singleinstance

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// endpointPath is a var so tests can point it at a scratch directory.
var endpointPath = filepath.Join(os.TempDir(), fmt.Sprintf("tracktoast-%d.sock", os.Getuid()))

func listen() (net.Listener, error) {
	ln, err := net.Listen("unix", endpointPath)
	if err == nil {
		return ln, nil
	}

	// The socket file may be left over from a crashed instance. Only
	// remove it when nothing answers.
	if !probe() {
		log.Debug("removing stale instance socket", "path", endpointPath)
		os.Remove(endpointPath)
		return net.Listen("unix", endpointPath)
	}
	return nil, err
}

func probe() bool {
	conn, err := net.DialTimeout("unix", endpointPath, time.Second)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
