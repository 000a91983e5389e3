package effect

import (
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-editor/internal/preset"
)

// TextureFunc loads the texture a preset points at.
type TextureFunc func(path string) (*ebiten.Image, error)

// LoaderOptions tunes NewLoader. The zero value loads textures from disk
// with a time-seeded random source.
type LoaderOptions struct {
	Texture TextureFunc
	Rand    *rand.Rand
}

// Loader replays one saved preset. Its parameters never change after
// construction.
type Loader struct {
	params *preset.ParameterSet
	effect *Effect
}

// NewLoader reads the preset at path and positions it at position. Any
// decode or texture error aborts construction.
func NewLoader(path string, position mgl64.Vec2, opts LoaderOptions) (*Loader, error) {
	p, err := preset.Load(path)
	if err != nil {
		return nil, err
	}
	return NewLoaderFromPreset(p, position, opts)
}

// NewLoaderFromPreset is NewLoader for a preset already in memory. p is
// copied.
func NewLoaderFromPreset(p *preset.ParameterSet, position mgl64.Vec2, opts LoaderOptions) (*Loader, error) {
	if opts.Texture == nil {
		opts.Texture = LoadTexture
	}

	params := p.Clone()
	params.Position = position

	var tex *ebiten.Image
	if params.FullParticlePath != "" {
		img, err := opts.Texture(params.FullParticlePath)
		if err != nil {
			return nil, err
		}
		tex = img
	}

	e := New(opts.Rand)
	e.SetTexture(tex)
	e.Apply(params)
	e.AttachFlagged(params)
	e.Connect(params.Looping, params.Duration)

	return &Loader{params: params, effect: e}, nil
}

// Params returns a copy of the loaded parameters.
func (l *Loader) Params() preset.ParameterSet { return *l.params }

func (l *Loader) IsConnected() bool { return l.effect.Connected() }

// Count is the number of live particles.
func (l *Loader) Count() int { return l.effect.System.Count() }

// Finished reports whether the emitter expired and every particle died.
func (l *Loader) Finished() bool {
	return !l.IsConnected() && l.Count() == 0
}

func (l *Loader) Update(dt float64) {
	Configure(l.effect.Emitter, l.params)
	l.effect.Update(dt)
}

func (l *Loader) Draw(dst *ebiten.Image) {
	l.effect.Draw(dst)
}
