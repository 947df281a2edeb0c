//go:build !windows

package display

import (
	"sync"

	"github.com/tracktoast/tracktoast/internal/geometry"
)

var stubLogOnce sync.Once

// snapshotOS is a stub for non-Windows platforms. Monitor enumeration
// currently only supports the Win32 desktop; geometry callers degrade to
// their documented sentinel values.
func snapshotOS() []geometry.Monitor {
	stubLogOnce.Do(func() {
		log.Debug("monitor enumeration not supported on this platform")
	})
	return nil
}

// dpiRatioOS is a stub for non-Windows platforms; always identity scale.
func dpiRatioOS(hwnd uintptr) (float64, float64) {
	log.Debug("per-window DPI not available on this platform, using identity scale")
	return 1.0, 1.0
}
