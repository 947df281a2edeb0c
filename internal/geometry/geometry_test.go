package geometry

import "testing"

func TestUnionEmptySnapshotReturnsSentinel(t *testing.T) {
	u := Union(nil)
	if !u.IsEmpty() {
		t.Fatalf("union of no monitors should be the empty sentinel, got %+v", u)
	}
	if u.Width() != -1 || u.Height() != -1 {
		t.Fatalf("sentinel size should be (-1,-1), got (%v,%v)", u.Width(), u.Height())
	}
}

func TestSentinelDistinctFromZeroAreaRect(t *testing.T) {
	zero := RectXYWH(0, 0, 0, 0)
	if zero.IsEmpty() {
		t.Fatal("zero-area rect at origin must not be treated as the sentinel")
	}
	if !EmptyRect().IsEmpty() {
		t.Fatal("EmptyRect must report IsEmpty")
	}
}

func TestUnionSingleMonitorIsItsWorkArea(t *testing.T) {
	m := Monitor{WorkArea: RectXYWH(100, 50, 800, 600)}
	u := Union([]Monitor{m})
	if u != m.WorkArea {
		t.Fatalf("union of one monitor = %+v, want %+v", u, m.WorkArea)
	}
}

func TestUnionTwoDisjointMonitors(t *testing.T) {
	monitors := []Monitor{
		{WorkArea: RectXYWH(0, 0, 800, 600)},
		{WorkArea: RectXYWH(800, 0, 1024, 768)},
	}
	u := Union(monitors)
	want := RectLTRB(0, 0, 1824, 768)
	if u != want {
		t.Fatalf("union = %+v, want %+v", u, want)
	}
}

func TestUnionMonitorAboveLeftOfPrimary(t *testing.T) {
	monitors := []Monitor{
		{WorkArea: RectXYWH(0, 0, 1920, 1080), Primary: true},
		{WorkArea: RectXYWH(-1280, -400, 1280, 1024)},
	}
	u := Union(monitors)
	want := RectLTRB(-1280, -400, 1920, 1080)
	if u != want {
		t.Fatalf("union = %+v, want %+v", u, want)
	}
}

func TestClampIntoContainedRectIsZeroVector(t *testing.T) {
	anchor := RectXYWH(0, 0, 800, 600)
	cases := []Rect{
		RectXYWH(100, 100, 200, 200),
		RectXYWH(0, 0, 800, 600), // exactly the anchor
		RectXYWH(700, 500, 100, 100),
	}
	for _, rect := range cases {
		if v := ClampInto(rect, anchor); !v.IsZero() {
			t.Fatalf("contained rect %+v should clamp to zero vector, got %+v", rect, v)
		}
	}
}

func TestClampIntoRightOverhang(t *testing.T) {
	rect := RectXYWH(1000, 0, 100, 100)
	anchor := RectXYWH(0, 0, 800, 600)
	v := ClampInto(rect, anchor)
	if v.Dx != -300 || v.Dy != 0 {
		t.Fatalf("clamp vector = %+v, want (-300, 0)", v)
	}
}

func TestClampIntoLeftAndTopUnderhang(t *testing.T) {
	rect := RectXYWH(-50, -20, 100, 100)
	anchor := RectXYWH(0, 0, 800, 600)
	v := ClampInto(rect, anchor)
	if v.Dx != 50 || v.Dy != 20 {
		t.Fatalf("clamp vector = %+v, want (50, 20)", v)
	}
}

func TestClampIntoRightEdgeWinsForOversizedRect(t *testing.T) {
	// Wider than the anchor: both edges overhang. The right-edge correction
	// must win over the left-edge one.
	rect := RectXYWH(-100, 0, 1200, 100)
	anchor := RectXYWH(0, 0, 800, 600)
	v := ClampInto(rect, anchor)
	if v.Dx != 800-1100 {
		t.Fatalf("Dx = %v, want %v (right correction)", v.Dx, 800-1100)
	}
}

func TestClampIntoBottomEdgeWinsForOversizedRect(t *testing.T) {
	rect := RectXYWH(0, -100, 100, 1000)
	anchor := RectXYWH(0, 0, 800, 600)
	v := ClampInto(rect, anchor)
	if v.Dy != 600-900 {
		t.Fatalf("Dy = %v, want %v (bottom correction)", v.Dy, 600-900)
	}
}

func TestDefaultPositionIdentityScale(t *testing.T) {
	work := RectXYWH(0, 0, 1920, 1080)
	p := DefaultPosition(work, Size{Width: 300, Height: 80}, 1, 1)
	if p.X != 1920-300 {
		t.Fatalf("X = %v, want %v", p.X, 1920-300)
	}
	if p.Y != 1080-80-DefaultTopMargin {
		t.Fatalf("Y = %v, want %v", p.Y, 1080-80-DefaultTopMargin)
	}
}

func TestDefaultPositionHighDPI(t *testing.T) {
	// 150% scaling: device edges divide down to logical units first.
	work := RectXYWH(0, 0, 2880, 1620)
	p := DefaultPosition(work, Size{Width: 300, Height: 80}, 1.5, 1.5)
	if p.X != 2880/1.5-300 {
		t.Fatalf("X = %v, want %v", p.X, 2880/1.5-300)
	}
	if p.Y != 1620/1.5-80-DefaultTopMargin {
		t.Fatalf("Y = %v, want %v", p.Y, 1620/1.5-80-DefaultTopMargin)
	}
}

func TestDefaultPositionMayGoNegative(t *testing.T) {
	work := RectXYWH(0, 0, 200, 100)
	p := DefaultPosition(work, Size{Width: 300, Height: 200}, 1, 1)
	if p.X >= 0 || p.Y >= 0 {
		t.Fatalf("oversized toast should yield negative position, got %+v", p)
	}
}

func TestMaxToastSizeAtUnionEdgeIsZeroWidth(t *testing.T) {
	union := RectLTRB(0, 0, 1824, 768)
	toast := RectXYWH(union.Right, 100, 50, 50)
	s := MaxToastSize(toast, union)
	if s.Width != 0 {
		t.Fatalf("width = %v, want 0", s.Width)
	}
}

func TestMaxToastSizeInsideUnion(t *testing.T) {
	union := RectLTRB(0, 0, 1920, 1080)
	toast := RectXYWH(1500, 900, 300, 80)
	s := MaxToastSize(toast, union)
	if s.Width != 420 || s.Height != 180 {
		t.Fatalf("size = %+v, want (420, 180)", s)
	}
}

func TestScaleConvertsDevicePixelsToLogicalUnits(t *testing.T) {
	r := RectXYWH(0, 0, 2400, 1350).Scale(1.25, 1.25)
	if r.Width() != 1920 || r.Height() != 1080 {
		t.Fatalf("scaled size = (%v,%v), want (1920,1080)", r.Width(), r.Height())
	}
}

func TestScaleZeroFactorFallsBackToIdentity(t *testing.T) {
	r := RectXYWH(0, 0, 800, 600)
	if got := r.Scale(0, 0); got != r {
		t.Fatalf("zero scale should be identity, got %+v", got)
	}
}

func TestMonitorScaleOrDefault(t *testing.T) {
	if got := (Monitor{}).ScaleOrDefault(); got != 1.0 {
		t.Fatalf("default scale = %v, want 1.0", got)
	}
	if got := (Monitor{Scale: 1.25}).ScaleOrDefault(); got != 1.25 {
		t.Fatalf("scale = %v, want 1.25", got)
	}
}
