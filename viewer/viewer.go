// Package viewer wires the page store, layout, curl renderer, gesture
// machine and animation scheduler into the interactive engine that runs
// behind the passphrase gate. All methods are meant for one goroutine:
// the host event loop.
package viewer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"image"
	"strings"
	"time"

	"github.com/wudi/flipkit/anim"
	"github.com/wudi/flipkit/curl"
	"github.com/wudi/flipkit/gesture"
	"github.com/wudi/flipkit/layout"
	"github.com/wudi/flipkit/observability"
	"github.com/wudi/flipkit/pagestore"
)

var ErrPassphraseMismatch = errors.New("viewer: passphrase mismatch")

// DefaultTurnDuration approximates the original 38-frame turn at 60 Hz.
const DefaultTurnDuration = 633 * time.Millisecond

type Config struct {
	Title string

	// PassphraseHash is the embedded lowercase hex SHA-256 of the
	// passphrase. Empty disables the gate (local preview).
	PassphraseHash string

	TurnDuration time.Duration
	Logger       observability.Logger
}

type Viewer struct {
	store    *pagestore.Store
	machine  *gesture.Machine
	renderer *curl.Renderer
	sched    *anim.Scheduler
	g        layout.Geometry
	cfg      Config
	log      observability.Logger
	unlocked bool
}

func New(store *pagestore.Store, clock anim.Clock, frames anim.FrameScheduler, cfg Config) *Viewer {
	if cfg.TurnDuration <= 0 {
		cfg.TurnDuration = DefaultTurnDuration
	}
	log := cfg.Logger
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Viewer{
		store:    store,
		machine:  gesture.NewMachine(store.Count()),
		renderer: curl.NewRenderer(layout.Geometry{}),
		sched:    anim.New(clock, frames),
		cfg:      cfg,
		log:      log,
		unlocked: cfg.PassphraseHash == "",
	}
}

func (v *Viewer) Title() string         { return v.cfg.Title }
func (v *Viewer) Unlocked() bool        { return v.unlocked }
func (v *Viewer) CurrentPage() int      { return v.machine.Current() }
func (v *Viewer) Phase() gesture.Phase  { return v.machine.Phase() }
func (v *Viewer) State() gesture.State  { return v.machine.State() }
func (v *Viewer) Geometry() layout.Geometry { return v.g }

// HashPassphrase is the one-way function shared with the artifact's
// embedded verifier (WebCrypto SHA-256).
func HashPassphrase(pass string) string {
	sum := sha256.Sum256([]byte(pass))
	return hex.EncodeToString(sum[:])
}

// Unlock verifies the passphrase against the embedded hash. Mismatches
// are recoverable; callers re-prompt with no retry limit.
func (v *Viewer) Unlock(pass string) error {
	if v.unlocked {
		return nil
	}
	if HashPassphrase(pass) != strings.ToLower(v.cfg.PassphraseHash) {
		return ErrPassphraseMismatch
	}
	v.unlocked = true
	v.log.Info("viewer unlocked", observability.Int("pages", v.store.Count()))
	v.drawIdle()
	return nil
}

// Resize recomputes the surface geometry. An in-flight drag or turn is
// never cancelled; only subsequent frames pick up the new geometry.
// While locked, the geometry updates but nothing is drawn.
func (v *Viewer) Resize(viewportWidth, viewportHeight, pixelScale float64) {
	v.g = layout.Recompute(viewportWidth, viewportHeight, pixelScale)
	v.renderer.SetGeometry(v.g)
	if !v.unlocked {
		return
	}
	switch v.machine.Phase() {
	case gesture.Dragging:
		v.drawDrag()
	case gesture.Animating:
		// Next scheduled frame redraws at the new size.
	default:
		v.drawIdle()
	}
}

func (v *Viewer) PointerDown(x, y float64) {
	if !v.unlocked {
		return
	}
	if v.machine.PointerDown(x, y, v.g) {
		v.drawDrag()
	}
}

func (v *Viewer) PointerMove(x, y float64) {
	if !v.unlocked {
		return
	}
	if v.machine.PointerMove(x, y) {
		v.drawDrag()
	}
}

func (v *Viewer) PointerUp() {
	if !v.unlocked || v.machine.Phase() != gesture.Dragging {
		return
	}
	rel := v.machine.PointerUp(v.g)
	if !rel.Commit {
		v.drawIdle()
		return
	}
	front := v.page(v.machine.Current())
	back := v.page(rel.Target)
	dir := rel.Dir
	v.sched.Animate(v.cfg.TurnDuration,
		func(t float64) { v.render(front, back, t, dir, curl.EaseInOut) },
		func() {
			v.machine.FinishAnimation()
			v.drawIdle()
		})
}

// Frame returns the last rendered frame, nil while the gate is locked
// or the surface is degraded.
func (v *Viewer) Frame() image.Image {
	if !v.unlocked {
		return nil
	}
	return v.renderer.Frame()
}

func (v *Viewer) page(index int) image.Image {
	p, err := v.store.Get(index)
	if err != nil {
		v.log.Error("page lookup", observability.Int("index", index), observability.Error("err", err))
		return nil
	}
	return p.Image
}

func (v *Viewer) render(front, back image.Image, t float64, dir curl.Direction, easing curl.Easing) {
	start := time.Now()
	v.renderer.Render(front, back, t, dir, easing)
	v.log.Debug("frame rendered",
		observability.Float64(observability.MetricRenderTime, time.Since(start).Seconds()))
}

func (v *Viewer) drawIdle() {
	v.render(v.page(v.machine.Current()), nil, 0, curl.Forward, nil)
}

func (v *Viewer) drawDrag() {
	st := v.machine.State()
	front := v.page(st.Current)
	back := v.page(st.Current + int(st.Dir))
	v.render(front, back, v.machine.Progress(v.g), st.Dir, curl.EaseOut)
}
