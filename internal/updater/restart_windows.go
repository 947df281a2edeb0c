//go:build windows

package updater

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// Restart relaunches the replaced binary in the user session. Windows will
// not re-exec over a running image, so a detached cmd.exe waits for this
// process to release the file lock and then starts the new binary. The
// caller is expected to exit promptly after Restart returns.
func Restart() error {
	binary, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}

	// ping serves as a portable one-second sleep in cmd.
	script := fmt.Sprintf(`ping -n 2 127.0.0.1 >nul & start "" "%s" run`, binary)

	cmd := exec.Command("cmd", "/C", script)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn restart helper: %w", err)
	}
	return nil
}
