package particle

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// expiryEpsilon is the countdown left on a timed emitter that still counts
// as expired. Summing 1/60 s frame steps in float64 misses the exact total
// by far less than this.
const expiryEpsilon = 1e-6

// Connection is the handle returned when an emitter or affector is attached
// to a System. Disconnect is idempotent.
type Connection struct {
	active    bool
	timed     bool
	remaining float64
	fired     bool
}

// IsConnected reports whether the attachment is still live. A timed emitter
// connection goes inactive once its duration has elapsed.
func (c *Connection) IsConnected() bool {
	return c != nil && c.active
}

func (c *Connection) Disconnect() {
	if c != nil {
		c.active = false
	}
}

type emitterSlot struct {
	emitter *Emitter
	conn    *Connection
}

type affectorSlot struct {
	affector Affector
	conn     *Connection
}

// System owns the live particles plus the attached emitters and affectors.
type System struct {
	particles []Particle
	emitters  []emitterSlot
	affectors []affectorSlot
	rng       *rand.Rand

	Texture *ebiten.Image
	Blend   ebiten.Blend
}

// NewSystem creates an empty system. A nil rng is replaced by a time-seeded one.
func NewSystem(rng *rand.Rand) *System {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &System{
		rng:   rng,
		Blend: ebiten.BlendSourceOver,
	}
}

// AddEmitter attaches e until the returned connection is disconnected.
func (s *System) AddEmitter(e *Emitter) *Connection {
	c := &Connection{active: true}
	s.emitters = append(s.emitters, emitterSlot{emitter: e, conn: c})
	return c
}

// AddTimedEmitter attaches e for the given number of seconds. A zero
// duration emits a single burst of ceil(e.Rate) particles on the next update.
func (s *System) AddTimedEmitter(e *Emitter, seconds float64) *Connection {
	c := &Connection{active: true, timed: true, remaining: math.Max(seconds, 0)}
	s.emitters = append(s.emitters, emitterSlot{emitter: e, conn: c})
	return c
}

func (s *System) AddAffector(a Affector) *Connection {
	c := &Connection{active: true}
	s.affectors = append(s.affectors, affectorSlot{affector: a, conn: c})
	return c
}

// Particles returns the live particles; the slice is only valid until the
// next Update.
func (s *System) Particles() []Particle { return s.particles }

func (s *System) Count() int { return len(s.particles) }

// Clear removes every live particle. Emitters and affectors stay attached.
func (s *System) Clear() { s.particles = s.particles[:0] }

// Update advances the simulation by dt seconds: live particles age, are
// affected and moved, then attached emitters spawn new ones.
func (s *System) Update(dt float64) {
	s.pruneAffectors()

	alive := s.particles[:0]
	for i := range s.particles {
		p := s.particles[i]
		p.Age += dt
		if p.Age >= p.Lifetime {
			continue
		}
		for _, a := range s.affectors {
			a.affector.apply(&p, dt)
		}
		p.Position = p.Position.Add(p.Velocity.Mul(dt))
		p.Rotation += p.RotationSpeed * dt
		alive = append(alive, p)
	}
	s.particles = alive

	emitters := s.emitters[:0]
	for _, slot := range s.emitters {
		c := slot.conn
		if !c.active {
			continue
		}
		if !c.timed {
			s.particles = slot.emitter.emit(dt, s.rng, s.particles)
			emitters = append(emitters, slot)
			continue
		}

		if c.remaining <= 0 {
			if !c.fired {
				s.particles = slot.emitter.burst(burstSize(slot.emitter.Rate), s.rng, s.particles)
			}
			c.active = false
			continue
		}
		step := dt
		if c.remaining-step < expiryEpsilon {
			step = c.remaining
		}
		s.particles = slot.emitter.emit(step, s.rng, s.particles)
		c.fired = true
		c.remaining -= step
		if c.remaining < expiryEpsilon {
			c.active = false
			continue
		}
		emitters = append(emitters, slot)
	}
	s.emitters = emitters
}

func (s *System) pruneAffectors() {
	live := s.affectors[:0]
	for _, a := range s.affectors {
		if a.conn.active {
			live = append(live, a)
		}
	}
	s.affectors = live
}

// Draw renders every particle with Texture centred on its position.
func (s *System) Draw(dst *ebiten.Image) {
	if s.Texture == nil || len(s.particles) == 0 {
		return
	}
	w, h := s.Texture.Bounds().Dx(), s.Texture.Bounds().Dy()
	for i := range s.particles {
		p := &s.particles[i]
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
		op.GeoM.Scale(p.Scale.X(), p.Scale.Y())
		op.GeoM.Rotate(p.Rotation * math.Pi / 180)
		op.GeoM.Translate(p.Position.X(), p.Position.Y())
		op.ColorScale.ScaleWithColor(p.Color)
		op.Blend = s.Blend
		dst.DrawImage(s.Texture, op)
	}
}
