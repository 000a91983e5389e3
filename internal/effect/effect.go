package effect

import (
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/iburimskiy/particle-editor/internal/particle"
	"github.com/iburimskiy/particle-editor/internal/preset"
)

// Effect is one particle system driven by a single emitter. It holds at most
// one emitter connection and at most one affector of each kind.
type Effect struct {
	System  *particle.System
	Emitter *particle.Emitter

	conn *particle.Connection

	torque affectorSlot
	force  affectorSlot
	fade   affectorSlot
}

type affectorSlot struct {
	conn     *particle.Connection
	affector particle.Affector
}

// New creates an effect whose emitter is not yet connected.
func New(rng *rand.Rand) *Effect {
	return &Effect{
		System:  particle.NewSystem(rng),
		Emitter: particle.NewEmitter(),
	}
}

// Connect attaches the emitter, replacing any existing connection. A
// non-looping connection expires after duration seconds.
func (e *Effect) Connect(looping bool, duration float64) {
	e.conn.Disconnect()
	if looping {
		e.conn = e.System.AddEmitter(e.Emitter)
	} else {
		e.conn = e.System.AddTimedEmitter(e.Emitter, duration)
	}
}

func (e *Effect) Disconnect() {
	e.conn.Disconnect()
}

func (e *Effect) Connected() bool {
	return e.conn.IsConnected()
}

// Apply pushes the current parameters into the emitter and the system's
// draw state. The texture is left untouched.
func (e *Effect) Apply(p *preset.ParameterSet) {
	Configure(e.Emitter, p)
	e.System.Blend = Blend(p.BlendMode)
}

// AttachFlagged attaches exactly the affectors whose enable flag is set.
// An affector whose value changed is disconnected before its replacement
// is added.
func (e *Effect) AttachFlagged(p *preset.ParameterSet) {
	e.setAffector(&e.torque, p.EnableTorqueAff, particle.TorqueAffector(p.Torque))
	e.setAffector(&e.force, p.EnableForceAff, particle.ForceAffector(p.Force))
	e.setAffector(&e.fade, p.EnableFadeAff, particle.FadeAffector(p.Fader.X(), p.Fader.Y()))
}

func (e *Effect) setAffector(slot *affectorSlot, enabled bool, a particle.Affector) {
	if !enabled {
		slot.conn.Disconnect()
		slot.conn = nil
		return
	}
	if slot.conn.IsConnected() && slot.affector == a {
		return
	}
	slot.conn.Disconnect()
	slot.affector = a
	slot.conn = e.System.AddAffector(a)
}

// ActiveAffectors lists the kinds currently attached.
func (e *Effect) ActiveAffectors() []particle.AffectorKind {
	var kinds []particle.AffectorKind
	for _, s := range []*affectorSlot{&e.force, &e.torque, &e.fade} {
		if s.conn.IsConnected() {
			kinds = append(kinds, s.affector.Kind)
		}
	}
	return kinds
}

func (e *Effect) Update(dt float64) {
	e.System.Update(dt)
}

func (e *Effect) Draw(dst *ebiten.Image) {
	if e.System.Texture == nil {
		e.System.Texture = defaultTexture()
	}
	e.System.Draw(dst)
}

// SetTexture replaces the particle texture; nil selects the built-in dot.
func (e *Effect) SetTexture(img *ebiten.Image) {
	e.System.Texture = img
}

// LoadTexture reads a PNG or JPEG file.
func LoadTexture(path string) (*ebiten.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load texture %s: %w", path, err)
	}
	return img, nil
}
