//go:build windows

package display

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tracktoast/tracktoast/internal/geometry"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	shcore = windows.NewLazySystemDLL("shcore.dll")

	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
	procGetDpiForWindow     = user32.NewProc("GetDpiForWindow")
	procGetDpiForMonitor    = shcore.NewProc("GetDpiForMonitor")
)

const (
	monitorinfofPrimary = 0x1
	mdtEffectiveDPI     = 0
)

type winRect struct {
	Left   int32
	Top    int32
	Right  int32
	Bottom int32
}

type monitorInfoExW struct {
	Size    uint32
	Monitor winRect
	Work    winRect
	Flags   uint32
	Device  [32]uint16
}

// enumCallback is created once; Windows callbacks are never released, so
// allocating one per snapshot would leak the process's callback slots.
// Enumeration state travels through lparam.
var enumCallback = sync.OnceValue(func() uintptr {
	return windows.NewCallback(enumProc)
})

func enumProc(hMonitor, hdc, lprc, lparam uintptr) uintptr {
	monitors := (*[]geometry.Monitor)(unsafe.Pointer(lparam))

	var mi monitorInfoExW
	mi.Size = uint32(unsafe.Sizeof(mi))

	ret, _, _ := procGetMonitorInfoW.Call(hMonitor, uintptr(unsafe.Pointer(&mi)))
	if ret == 0 {
		return 1 // skip this monitor, keep enumerating
	}

	*monitors = append(*monitors, geometry.Monitor{
		WorkArea: geometry.RectLTRB(
			float64(mi.Work.Left),
			float64(mi.Work.Top),
			float64(mi.Work.Right),
			float64(mi.Work.Bottom),
		),
		Scale:   monitorScale(hMonitor),
		Primary: mi.Flags&monitorinfofPrimary != 0,
	})
	return 1
}

// snapshotOS enumerates all active monitors via EnumDisplayMonitors and
// resolves each one's working area and effective DPI.
func snapshotOS() []geometry.Monitor {
	var monitors []geometry.Monitor

	ret, _, err := procEnumDisplayMonitors.Call(0, 0, enumCallback(), uintptr(unsafe.Pointer(&monitors)))
	if ret == 0 {
		log.Warn("EnumDisplayMonitors failed", "error", err)
		return nil
	}
	return monitors
}

// monitorScale returns the monitor's effective DPI relative to 96.
// Falls back to 1.0 on systems without shcore (pre-8.1) or on API failure.
func monitorScale(hMonitor uintptr) float64 {
	if procGetDpiForMonitor.Find() != nil {
		return 1.0
	}

	var dpiX, dpiY uint32
	ret, _, _ := procGetDpiForMonitor.Call(
		hMonitor,
		uintptr(mdtEffectiveDPI),
		uintptr(unsafe.Pointer(&dpiX)),
		uintptr(unsafe.Pointer(&dpiY)),
	)
	if ret != 0 || dpiX == 0 { // S_OK is 0
		return 1.0
	}
	return float64(dpiX) / geometry.ReferenceDPI
}

// dpiRatioOS resolves the DPI transform of the given window handle.
func dpiRatioOS(hwnd uintptr) (float64, float64) {
	if hwnd == 0 {
		log.Debug("no reference window for DPI ratio, using identity scale")
		return 1.0, 1.0
	}
	if procGetDpiForWindow.Find() != nil {
		log.Debug("GetDpiForWindow unavailable, using identity scale")
		return 1.0, 1.0
	}

	dpi, _, _ := procGetDpiForWindow.Call(hwnd)
	if dpi == 0 {
		log.Debug("GetDpiForWindow failed, using identity scale", "hwnd", hwnd)
		return 1.0, 1.0
	}

	ratio := float64(dpi) / geometry.ReferenceDPI
	return ratio, ratio
}
