//go:build !windows

package updater

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
)

// Restart re-executes the current binary in place, preserving arguments
// and environment. The new image takes over this process.
func Restart() error {
	binary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	binary, err = filepath.EvalSymlinks(binary)
	if err != nil {
		return fmt.Errorf("resolve symlinks: %w", err)
	}

	args := []string{binary, "run"}
	return syscall.Exec(binary, args, os.Environ())
}
