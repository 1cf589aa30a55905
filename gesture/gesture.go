// Package gesture turns pointer input into drag progress and committed
// page transitions. A turn may only start from an edge zone, tracks the
// pointer while dragging, and commits or snaps back on release. Input
// that has no transition in the current phase is ignored.
package gesture

import (
	"github.com/wudi/flipkit/curl"
	"github.com/wudi/flipkit/geom"
	"github.com/wudi/flipkit/layout"
)

type Phase int

const (
	Idle Phase = iota
	Dragging
	Animating
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Animating:
		return "animating"
	}
	return "unknown"
}

const (
	// EdgeZone is the margin, in device-independent pixels, within which
	// a drag may begin.
	EdgeZone = 28.0

	// CommitFraction of the surface width constitutes a full drag.
	CommitFraction = 0.9

	// CommitThresholdFraction of the surface width decides commit vs
	// snap-back at release.
	CommitThresholdFraction = 0.22
)

// State is the single viewer-state value. Target is -1 outside Animating.
type State struct {
	Current int
	Phase   Phase
	Origin  geom.Point
	Last    geom.Point
	Target  int
	Dir     curl.Direction
}

// Release is the outcome of a pointer-up.
type Release struct {
	Commit bool
	Target int
	Dir    curl.Direction
}

type Machine struct {
	state State
	pages int
}

func NewMachine(pageCount int) *Machine {
	return &Machine{state: State{Target: -1}, pages: pageCount}
}

func (m *Machine) State() State { return m.state }
func (m *Machine) Phase() Phase { return m.state.Phase }
func (m *Machine) Current() int { return m.state.Current }

// PointerDown starts a drag when the pointer lands in an edge zone and a
// neighboring page exists in that direction. Reports whether a drag
// started; anything else is a silent no-op.
func (m *Machine) PointerDown(x, y float64, g layout.Geometry) bool {
	if m.state.Phase != Idle || g.Zero() {
		return false
	}
	var dir curl.Direction
	switch {
	case x < EdgeZone && m.state.Current > 0:
		dir = curl.Backward
	case x > g.Width-EdgeZone && m.state.Current < m.pages-1:
		dir = curl.Forward
	default:
		return false
	}
	m.state.Phase = Dragging
	m.state.Dir = dir
	m.state.Origin = geom.Point{X: x, Y: y}
	m.state.Last = m.state.Origin
	return true
}

// PointerMove updates the drag coordinate. Reports whether a redraw is
// needed (only while dragging).
func (m *Machine) PointerMove(x, y float64) bool {
	if m.state.Phase != Dragging {
		return false
	}
	m.state.Last = geom.Point{X: x, Y: y}
	return true
}

// Progress is the live drag progress in [0,1] for the current geometry.
func (m *Machine) Progress(g layout.Geometry) float64 {
	if m.state.Phase != Dragging || g.Zero() {
		return 0
	}
	dist := geom.Abs(m.state.Last.X - m.state.Origin.X)
	return geom.Clamp(dist/(g.Width*CommitFraction), 0, 1)
}

// PointerUp ends the drag. At or beyond the commit threshold the machine
// enters Animating with an adjacent target; otherwise it snaps back to
// Idle with the page unchanged. The last known coordinate is used, so a
// release outside the surface behaves like one inside it.
func (m *Machine) PointerUp(g layout.Geometry) Release {
	if m.state.Phase != Dragging {
		return Release{Target: -1}
	}
	dist := geom.Abs(m.state.Last.X - m.state.Origin.X)
	if g.Zero() || dist < g.Width*CommitThresholdFraction {
		m.state.Phase = Idle
		m.state.Origin = geom.Point{}
		m.state.Last = geom.Point{}
		return Release{Target: -1}
	}
	m.state.Phase = Animating
	m.state.Target = m.state.Current + int(m.state.Dir)
	return Release{Commit: true, Target: m.state.Target, Dir: m.state.Dir}
}

// FinishAnimation commits the page transition and returns to Idle.
func (m *Machine) FinishAnimation() {
	if m.state.Phase != Animating {
		return
	}
	m.state.Current = m.state.Target
	m.state.Phase = Idle
	m.state.Target = -1
	m.state.Origin = geom.Point{}
	m.state.Last = geom.Point{}
}
