// Package display queries the OS monitor configuration and exposes the
// geometry the toast window needs for placement. All queries take a fresh
// snapshot per call; monitor hot-plug and resolution changes are picked up
// without any cache invalidation.
package display

import (
	"math"

	"github.com/tracktoast/tracktoast/internal/geometry"
	"github.com/tracktoast/tracktoast/internal/logging"
)

var log = logging.L("display")

// snapshotFn indirection exists so tests can substitute a fixed monitor
// layout for the OS enumeration.
var snapshotFn = snapshotOS

// Snapshot returns a point-in-time view of every connected monitor's
// working area and DPI scale. The slice is never reused; callers own it.
func Snapshot() []geometry.Monitor {
	return snapshotFn()
}

// DPIRatio returns the device-to-logical pixel transform of the window the
// toast is rendered on. With no reference window (hwnd 0, e.g. during
// startup before any window exists) it degrades to the identity scale and
// logs a diagnostic. It never fails.
func DPIRatio(hwnd uintptr) (scaleX, scaleY float64) {
	return dpiRatioOS(hwnd)
}

// PrimaryScaleFactor returns the primary monitor's DPI divided by the
// reference DPI (96). Recomputed on every call so hot-plugged monitors and
// resolution changes are reflected immediately.
func PrimaryScaleFactor() float64 {
	m, ok := primaryMonitor(Snapshot())
	if !ok {
		log.Debug("no monitors in snapshot, assuming identity scale")
		return 1.0
	}
	return m.ScaleOrDefault()
}

// PrimaryWorkingArea returns the primary monitor's working area in logical
// units, or the empty sentinel when no monitor is available.
func PrimaryWorkingArea() geometry.Rect {
	m, ok := primaryMonitor(Snapshot())
	if !ok {
		return geometry.EmptyRect()
	}
	s := m.ScaleOrDefault()
	return m.WorkArea.Scale(s, s)
}

// PrimaryWorkingAreaWidth is a convenience wrapper over PrimaryWorkingArea.
func PrimaryWorkingAreaWidth() float64 {
	return PrimaryWorkingArea().Width()
}

// PrimaryWorkingAreaHeight is a convenience wrapper over PrimaryWorkingArea.
func PrimaryWorkingAreaHeight() float64 {
	return PrimaryWorkingArea().Height()
}

// WorkingAreaContaining returns the scaled working area of the monitor
// containing p, or of the nearest monitor when p lies outside every
// working area. Empty sentinel when no monitors are available.
func WorkingAreaContaining(p geometry.Point) geometry.Rect {
	monitors := Snapshot()
	if len(monitors) == 0 {
		return geometry.EmptyRect()
	}

	best := monitors[0]
	bestDist := math.Inf(1)
	for _, m := range monitors {
		d := distanceToRect(p, m.WorkArea)
		if d == 0 {
			best = m
			break
		}
		if d < bestDist {
			bestDist = d
			best = m
		}
	}

	s := best.ScaleOrDefault()
	return best.WorkArea.Scale(s, s)
}

// DefaultToastPosition places a toast of the given logical size at the
// bottom-right of the primary working area. The result may be negative for
// oversized toasts; callers clamp with ClampOnScreen.
func DefaultToastPosition(size geometry.Size) geometry.Point {
	m, ok := primaryMonitor(Snapshot())
	if !ok {
		log.Debug("no monitors in snapshot, placing toast relative to origin")
		return geometry.DefaultPosition(geometry.Rect{}, size, 1, 1)
	}
	s := m.ScaleOrDefault()
	return geometry.DefaultPosition(m.WorkArea, size, s, s)
}

// VirtualWorkArea returns the union of all monitors' working areas in
// device coordinates, or the empty sentinel for an empty snapshot.
func VirtualWorkArea() geometry.Rect {
	return geometry.Union(Snapshot())
}

// ClampOnScreen returns the translation that pulls an off-screen toast
// back inside the union of all working areas. Zero vector when the toast
// is already fully visible or no monitors are available.
func ClampOnScreen(toast geometry.Rect) geometry.Vector {
	union := VirtualWorkArea()
	if union.IsEmpty() {
		return geometry.Vector{}
	}
	return geometry.ClampInto(toast, union)
}

// MaxToastSize returns how large the toast may grow from its current
// top-left corner without leaving the virtual work area.
func MaxToastSize(toast geometry.Rect) geometry.Size {
	union := VirtualWorkArea()
	if union.IsEmpty() {
		return geometry.Size{}
	}
	return geometry.MaxToastSize(toast, union)
}

// primaryMonitor picks the monitor flagged primary, falling back to the
// first one when the platform backend reports no flag.
func primaryMonitor(monitors []geometry.Monitor) (geometry.Monitor, bool) {
	if len(monitors) == 0 {
		return geometry.Monitor{}, false
	}
	for _, m := range monitors {
		if m.Primary {
			return m, true
		}
	}
	return monitors[0], true
}

// distanceToRect is the Euclidean distance from p to the closest point of
// r; zero when p is inside r.
func distanceToRect(p geometry.Point, r geometry.Rect) float64 {
	dx := math.Max(math.Max(r.Left-p.X, 0), p.X-r.Right)
	dy := math.Max(math.Max(r.Top-p.Y, 0), p.Y-r.Bottom)
	return math.Hypot(dx, dy)
}
