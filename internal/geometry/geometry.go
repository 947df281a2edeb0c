// Package geometry implements the pure screen-geometry math used to place
// the toast window: working-area unions, DPI scaling, and clamping of
// off-screen rectangles. All functions operate on an explicit monitor
// snapshot and never touch the OS.
package geometry

// ReferenceDPI is the Windows baseline DPI that maps one device pixel to
// one logical unit.
const ReferenceDPI = 96.0

// DefaultTopMargin is the vertical inset, in logical units, applied when
// placing the toast against the bottom edge of the working area.
const DefaultTopMargin = 5.0

// Point is a position in virtual-desktop coordinates. Coordinates can be
// negative (a monitor left of or above the primary).
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in logical units.
type Size struct {
	Width  float64
	Height float64
}

// Vector is a translation applied to a rectangle.
type Vector struct {
	Dx float64
	Dy float64
}

// IsZero reports whether the vector is the identity translation.
func (v Vector) IsZero() bool {
	return v.Dx == 0 && v.Dy == 0
}

// Rect is an axis-aligned rectangle stored as edges. Construct with
// RectLTRB or RectXYWH depending on which representation the caller has.
//
// The zero Rect is a valid zero-area rectangle at the origin. The "no
// rectangle" sentinel returned by Union for an empty snapshot has negative
// size and is detected with IsEmpty.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// RectLTRB builds a rectangle from its edges.
func RectLTRB(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Right: right, Bottom: bottom}
}

// RectXYWH builds a rectangle from origin and size.
func RectXYWH(x, y, width, height float64) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// EmptyRect returns the sentinel rectangle with size (-1,-1), signaling
// "no rectangle available". Distinct from a zero-area rect at the origin.
func EmptyRect() Rect {
	return Rect{Left: 0, Top: 0, Right: -1, Bottom: -1}
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// IsEmpty reports whether r is a sentinel (negative-size) rectangle.
func (r Rect) IsEmpty() bool {
	return r.Width() < 0 || r.Height() < 0
}

// Contains reports whether inner lies fully inside r, edges included.
func (r Rect) Contains(inner Rect) bool {
	return inner.Left >= r.Left && inner.Top >= r.Top &&
		inner.Right <= r.Right && inner.Bottom <= r.Bottom
}

// Scale divides the rectangle's edges by the given per-axis factors,
// converting device pixels to logical units.
func (r Rect) Scale(scaleX, scaleY float64) Rect {
	if scaleX == 0 {
		scaleX = 1
	}
	if scaleY == 0 {
		scaleY = 1
	}
	return Rect{
		Left:   r.Left / scaleX,
		Top:    r.Top / scaleY,
		Right:  r.Right / scaleX,
		Bottom: r.Bottom / scaleY,
	}
}

// Monitor is an immutable snapshot of one display: its working area (the
// usable rectangle excluding taskbars and docked UI) in device coordinates
// and the monitor's DPI scale factor relative to ReferenceDPI.
type Monitor struct {
	WorkArea Rect
	Scale    float64
	Primary  bool
}

// ScaleOrDefault returns the monitor's scale factor, defaulting to 1.0
// when the snapshot carries no DPI information.
func (m Monitor) ScaleOrDefault() float64 {
	if m.Scale <= 0 {
		return 1.0
	}
	return m.Scale
}

// Union computes the smallest rectangle covering every monitor's working
// area. Single pass tracking running min/max of the edges. An empty
// snapshot yields the EmptyRect sentinel, not an error.
func Union(monitors []Monitor) Rect {
	if len(monitors) == 0 {
		return EmptyRect()
	}

	u := monitors[0].WorkArea
	for _, m := range monitors[1:] {
		w := m.WorkArea
		if w.Left < u.Left {
			u.Left = w.Left
		}
		if w.Top < u.Top {
			u.Top = w.Top
		}
		if w.Right > u.Right {
			u.Right = w.Right
		}
		if w.Bottom > u.Bottom {
			u.Bottom = w.Bottom
		}
	}
	return u
}

// ClampInto returns the minimal per-axis translation that brings rect back
// inside anchor, or the zero vector when anchor already contains rect.
//
// Per axis the far edge is checked before the near edge: a rectangle
// overhanging on the right is corrected before one underhanging on the
// left, and bottom before top. For rectangles larger than the anchor this
// order decides which edge wins, so it must not be reordered.
func ClampInto(rect, anchor Rect) Vector {
	if anchor.Contains(rect) {
		return Vector{}
	}

	var v Vector
	if rect.Right > anchor.Right {
		v.Dx = anchor.Right - rect.Right
	} else if rect.Left < anchor.Left {
		v.Dx = anchor.Left - rect.Left
	}
	if rect.Bottom > anchor.Bottom {
		v.Dy = anchor.Bottom - rect.Bottom
	} else if rect.Top < anchor.Top {
		v.Dy = anchor.Top - rect.Top
	}
	return v
}

// DefaultPosition places a toast of the given logical size flush against
// the bottom-right corner of the working area, inset by DefaultTopMargin
// and zero right margin. The working area is given in device pixels and is
// converted to logical units using the per-axis scale factors.
//
// The result may be negative when the toast is larger than the working
// area; callers clamp separately via ClampInto.
func DefaultPosition(work Rect, size Size, scaleX, scaleY float64) Point {
	if scaleX <= 0 {
		scaleX = 1
	}
	if scaleY <= 0 {
		scaleY = 1
	}
	return Point{
		X: work.Right/scaleX - size.Width,
		Y: work.Bottom/scaleY - size.Height - DefaultTopMargin,
	}
}

// MaxToastSize returns the largest size the toast can grow to from its
// current top-left corner without leaving the union of all working areas.
//
// The toast is deliberately constrained against the union rather than the
// monitor it sits on; a toast straddling two monitors can therefore grow
// across the seam. Known simplification, not worth the per-monitor split.
func MaxToastSize(toast, union Rect) Size {
	return Size{
		Width:  union.Right - toast.Left,
		Height: union.Bottom - toast.Top,
	}
}
