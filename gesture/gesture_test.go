package gesture

import (
	"testing"

	"github.com/wudi/flipkit/curl"
	"github.com/wudi/flipkit/layout"
)

func testGeom() layout.Geometry {
	return layout.Geometry{Width: 400, Height: 565.68, PixelScale: 1}
}

func TestEdgeZoneGating(t *testing.T) {
	g := testGeom()

	// No backward page at index 0: left-edge press is a no-op.
	m := NewMachine(3)
	if m.PointerDown(EdgeZone-1, 100, g) {
		t.Fatalf("left edge with no previous page should not start a drag")
	}
	if m.Phase() != Idle || m.Current() != 0 {
		t.Fatalf("state changed: %+v", m.State())
	}

	// Middle of the surface: no-op regardless of pages.
	if m.PointerDown(g.Width/2, 100, g) {
		t.Fatalf("press outside edge zones should not start a drag")
	}

	// Right edge with a next page available.
	if !m.PointerDown(g.Width-1, 100, g) {
		t.Fatalf("right edge press should start a forward drag")
	}
	if m.Phase() != Dragging || m.State().Dir != curl.Forward {
		t.Fatalf("state: %+v", m.State())
	}
}

func TestCommitThresholdBoundary(t *testing.T) {
	g := testGeom()
	threshold := g.Width * CommitThresholdFraction
	const eps = 0.5

	// Just under: snap back, page unchanged.
	m := NewMachine(3)
	m.PointerDown(g.Width-1, 0, g)
	m.PointerMove(g.Width-1-(threshold-eps), 0)
	rel := m.PointerUp(g)
	if rel.Commit || m.Phase() != Idle || m.Current() != 0 {
		t.Fatalf("release under threshold: rel=%+v state=%+v", rel, m.State())
	}

	// Just over: commit forward.
	m = NewMachine(3)
	m.PointerDown(g.Width-1, 0, g)
	m.PointerMove(g.Width-1-(threshold+eps), 0)
	rel = m.PointerUp(g)
	if !rel.Commit || rel.Target != 1 || rel.Dir != curl.Forward {
		t.Fatalf("release over threshold: %+v", rel)
	}
	if m.Phase() != Animating || m.State().Target != 1 {
		t.Fatalf("state after commit: %+v", m.State())
	}
}

func TestProgressClamped(t *testing.T) {
	g := testGeom()
	m := NewMachine(2)
	m.PointerDown(g.Width-1, 0, g)
	m.PointerMove(g.Width-1-g.Width*0.45, 0)
	p := m.Progress(g)
	want := 0.45 / CommitFraction
	if p < want-1e-9 || p > want+1e-9 {
		t.Fatalf("progress: got %f want %f", p, want)
	}
	m.PointerMove(-5000, 0)
	if m.Progress(g) != 1 {
		t.Fatalf("progress should clamp to 1, got %f", m.Progress(g))
	}
}

func TestBackwardDrag(t *testing.T) {
	g := testGeom()
	m := NewMachine(3)
	m.state.Current = 2
	if !m.PointerDown(EdgeZone-1, 0, g) {
		t.Fatalf("left edge press with a previous page should start a drag")
	}
	m.PointerMove(g.Width*0.5, 0)
	rel := m.PointerUp(g)
	if !rel.Commit || rel.Target != 1 || rel.Dir != curl.Backward {
		t.Fatalf("backward commit: %+v", rel)
	}
	m.FinishAnimation()
	if m.Current() != 1 || m.Phase() != Idle || m.State().Target != -1 {
		t.Fatalf("after finish: %+v", m.State())
	}
}

func TestPointerDownIgnoredWhileAnimating(t *testing.T) {
	g := testGeom()
	m := NewMachine(3)
	m.PointerDown(g.Width-1, 0, g)
	m.PointerMove(0, 0)
	m.PointerUp(g)
	if m.Phase() != Animating {
		t.Fatalf("setup: %+v", m.State())
	}
	if m.PointerDown(g.Width-1, 0, g) {
		t.Fatalf("pointer-down during animation must be ignored")
	}
	if m.PointerMove(10, 10) {
		t.Fatalf("pointer-move during animation must not request redraws")
	}
}

func TestMoveAndUpWithoutDragAreNoops(t *testing.T) {
	g := testGeom()
	m := NewMachine(3)
	if m.PointerMove(10, 10) {
		t.Fatalf("move in Idle should be a no-op")
	}
	rel := m.PointerUp(g)
	if rel.Commit || m.Phase() != Idle {
		t.Fatalf("up in Idle should be a no-op: %+v", rel)
	}
}

func TestDragFieldsSetWhileDragging(t *testing.T) {
	g := testGeom()
	m := NewMachine(2)
	m.PointerDown(g.Width-1, 42, g)
	st := m.State()
	if st.Origin.X != g.Width-1 || st.Origin.Y != 42 || st.Last != st.Origin {
		t.Fatalf("drag fields: %+v", st)
	}
}
