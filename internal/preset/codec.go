package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrMalformed is wrapped by every decode failure caused by the file content.
var ErrMalformed = errors.New("malformed preset")

// record is the on-disk layout: the key set of the legacy loader format
// plus a required "position" key. Files without it are rejected.
type record struct {
	Texture         string     `json:"texture"`
	Looping         bool       `json:"looping"`
	Deflect         bool       `json:"deflect"`
	EnableTorqueAff bool       `json:"enableTorqueAff"`
	EnableFadeAff   bool       `json:"enableFadeAff"`
	EnableForceAff  bool       `json:"enableForceAff"`
	VelPolarVector  bool       `json:"velPolarVector"`
	Duration        float64    `json:"duration"`
	CircleRadius    float64    `json:"circleRadius"`
	Particles       float64    `json:"particles"`
	Torque          float64    `json:"torque"`
	MaxRotation     float64    `json:"maxRotation"`
	RotationSpeed   [2]float64 `json:"rotationSpeed"`
	Rotation        [2]float64 `json:"rotation"`
	Lifetime        [2]float64 `json:"lifetime"`
	RectHalfSize    [2]float64 `json:"rectHalfSize"`
	Size            [2]float64 `json:"size"`
	Velocity        [2]float64 `json:"velocity"`
	Fader           [2]float64 `json:"fader"`
	Force           [2]float64 `json:"force"`
	Position        [2]float64 `json:"position"`
	Color           [4]int     `json:"color"`
	Shape           string     `json:"shape"`
	BlendMode       int        `json:"blendMode"`
	Sound           string     `json:"sound,omitempty"`
}

// requiredKeys lists every key a preset file must carry; "sound" is optional.
var requiredKeys = []string{
	"texture", "looping", "deflect", "enableTorqueAff", "enableFadeAff", "enableForceAff",
	"velPolarVector", "duration", "circleRadius", "particles", "torque", "maxRotation",
	"rotationSpeed", "rotation", "lifetime", "rectHalfSize", "size", "velocity", "fader",
	"force", "position", "color", "shape", "blendMode",
}

var sequenceLengths = map[string]int{
	"rotationSpeed": 2, "rotation": 2, "lifetime": 2, "rectHalfSize": 2, "size": 2,
	"velocity": 2, "fader": 2, "force": 2, "position": 2, "color": 4,
}

// Encode writes p with its affector flags re-derived. p itself is updated
// with the derived flags.
func Encode(w io.Writer, p *ParameterSet) error {
	p.DeriveAffectorFlags()
	rec := record{
		Texture:         p.FullParticlePath,
		Looping:         p.Looping,
		Deflect:         p.Deflect,
		EnableTorqueAff: p.EnableTorqueAff,
		EnableFadeAff:   p.EnableFadeAff,
		EnableForceAff:  p.EnableForceAff,
		VelPolarVector:  p.VelocityPolarVector,
		Duration:        p.Duration,
		CircleRadius:    p.Radius,
		Particles:       p.NrOfParticles,
		Torque:          p.Torque,
		MaxRotation:     p.MaxRotation,
		RotationSpeed:   p.RotationSpeed,
		Rotation:        p.Rotation,
		Lifetime:        p.Lifetime,
		RectHalfSize:    p.HalfSize,
		Size:            p.Size,
		Velocity:        p.Velocity,
		Fader:           p.Fader,
		Force:           p.Force,
		Position:        p.Position,
		Color:           [4]int{int(p.Color.R), int(p.Color.G), int(p.Color.B), int(p.Color.A)},
		Shape:           p.Shape.String(),
		BlendMode:       int(p.BlendMode),
		Sound:           p.SoundPath,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(&rec); err != nil {
		return fmt.Errorf("encode preset: %w", err)
	}
	return nil
}

// Decode reads a complete preset. Nothing is returned unless every field
// decoded cleanly.
func Decode(r io.Reader) (*ParameterSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read preset: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for _, key := range requiredKeys {
		v, ok := raw[key]
		if !ok {
			return nil, fmt.Errorf("%w: missing key %q", ErrMalformed, key)
		}
		if string(bytes.TrimSpace(v)) == "null" {
			return nil, fmt.Errorf("%w: key %q is null", ErrMalformed, key)
		}
	}
	for key, n := range sequenceLengths {
		var seq []json.RawMessage
		if err := json.Unmarshal(raw[key], &seq); err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrMalformed, key, err)
		}
		if len(seq) != n {
			return nil, fmt.Errorf("%w: key %q has %d elements, want %d", ErrMalformed, key, len(seq), n)
		}
	}

	var rec record
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	shape, err := ParseShape(rec.Shape)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	blend, err := ParseBlendMode(rec.BlendMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	var rgba [4]uint8
	for i, c := range rec.Color {
		if c < 0 || c > 255 {
			return nil, fmt.Errorf("%w: color component %d out of range: %d", ErrMalformed, i, c)
		}
		rgba[i] = uint8(c)
	}

	p := &ParameterSet{
		Looping:             rec.Looping,
		Duration:            rec.Duration,
		NrOfParticles:       rec.Particles,
		Lifetime:            mgl64.Vec2(rec.Lifetime),
		Position:            mgl64.Vec2(rec.Position),
		Shape:               shape,
		Radius:              rec.CircleRadius,
		HalfSize:            mgl64.Vec2(rec.RectHalfSize),
		Size:                mgl64.Vec2(rec.Size),
		Rotation:            mgl64.Vec2(rec.Rotation),
		RotationSpeed:       mgl64.Vec2(rec.RotationSpeed),
		Velocity:            mgl64.Vec2(rec.Velocity),
		VelocityPolarVector: rec.VelPolarVector,
		Deflect:             rec.Deflect,
		MaxRotation:         rec.MaxRotation,
		Color:               color.NRGBA{R: rgba[0], G: rgba[1], B: rgba[2], A: rgba[3]},
		BlendMode:           blend,
		Fader:               mgl64.Vec2(rec.Fader),
		Force:               mgl64.Vec2(rec.Force),
		Torque:              rec.Torque,
		EnableTorqueAff:     rec.EnableTorqueAff,
		EnableFadeAff:       rec.EnableFadeAff,
		EnableForceAff:      rec.EnableForceAff,
		FullParticlePath:    rec.Texture,
		SoundPath:           rec.Sound,
	}
	p.Validate()
	return p, nil
}

// Save writes p to path, replacing any existing file only once encoding
// succeeded.
func Save(path string, p *ParameterSet) error {
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write preset %s: %w", path, err)
	}
	return nil
}

// Load reads the preset at path.
func Load(path string) (*ParameterSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open preset %s: %w", path, err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("load preset %s: %w", path, err)
	}
	return p, nil
}
