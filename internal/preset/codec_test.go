package preset

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func samplePreset() *ParameterSet {
	return &ParameterSet{
		Looping:             false,
		Duration:            2,
		NrOfParticles:       50,
		Lifetime:            mgl64.Vec2{0.5, 1.5},
		Position:            mgl64.Vec2{300, 200},
		Shape:               ShapeCircle,
		Radius:              50,
		HalfSize:            mgl64.Vec2{10, 20},
		Size:                mgl64.Vec2{0.25, 0.75},
		Rotation:            mgl64.Vec2{0, 90},
		RotationSpeed:       mgl64.Vec2{10, 45},
		Velocity:            mgl64.Vec2{30, 120},
		VelocityPolarVector: true,
		Deflect:             true,
		MaxRotation:         15,
		Color:               color.NRGBA{R: 255, G: 128, B: 7, A: 200},
		BlendMode:           BlendAdd,
		Fader:               mgl64.Vec2{0.1, 0.3},
		Force:               mgl64.Vec2{0, 98},
		Torque:              0,
		FullParticlePath:    "textures/spark.png",
		SoundPath:           "sounds/whoosh.wav",
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		p    *ParameterSet
	}{
		{"default", Default()},
		{"sample", samplePreset()},
		{"rectangle multiply", func() *ParameterSet {
			p := samplePreset()
			p.Shape = ShapeRectangle
			p.BlendMode = BlendMultiply
			p.Torque = 12
			p.Force = mgl64.Vec2{}
			p.SoundPath = ""
			return p
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := tt.p.Clone()

			var buf bytes.Buffer
			if err := Encode(&buf, tt.p); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}

			if got.EnableTorqueAff != (want.Torque != 0) {
				t.Errorf("EnableTorqueAff: got %v, want %v", got.EnableTorqueAff, want.Torque != 0)
			}
			if got.EnableForceAff != (want.Force != mgl64.Vec2{}) {
				t.Errorf("EnableForceAff: got %v for force %v", got.EnableForceAff, want.Force)
			}
			if got.EnableFadeAff != (want.Fader != mgl64.Vec2{}) {
				t.Errorf("EnableFadeAff: got %v for fader %v", got.EnableFadeAff, want.Fader)
			}

			got.EnableTorqueAff, got.EnableForceAff, got.EnableFadeAff = false, false, false
			want.EnableTorqueAff, want.EnableForceAff, want.EnableFadeAff = false, false, false
			if *got != *want {
				t.Errorf("round trip mismatch:\n got %+v\nwant %+v", *got, *want)
			}
		})
	}
}

func TestEncode_Keys(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, samplePreset()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
	if raw["shape"] != "Circle" {
		t.Errorf("shape: got %v, want Circle", raw["shape"])
	}
	if raw["blendMode"] != float64(1) {
		t.Errorf("blendMode: got %v, want 1", raw["blendMode"])
	}
	if c, ok := raw["color"].([]any); !ok || len(c) != 4 {
		t.Errorf("color: got %v, want 4-element array", raw["color"])
	}
	if !strings.Contains(buf.String(), "\n    \"") {
		t.Error("expected 4-space indentation")
	}
}

func TestEncode_OmitsEmptySound(t *testing.T) {
	p := samplePreset()
	p.SoundPath = ""
	var buf bytes.Buffer
	if err := Encode(&buf, p); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if strings.Contains(buf.String(), "\"sound\"") {
		t.Error("empty sound path should not be written")
	}
}

// encodeMap returns the sample preset as a mutable JSON object.
func encodeMap(t *testing.T) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	if err := Encode(&buf, samplePreset()); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	return m
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"missing looping", func(m map[string]any) { delete(m, "looping") }},
		{"missing texture", func(m map[string]any) { delete(m, "texture") }},
		{"missing position", func(m map[string]any) { delete(m, "position") }},
		{"null duration", func(m map[string]any) { m["duration"] = nil }},
		{"bool as string", func(m map[string]any) { m["deflect"] = "yes" }},
		{"number as string", func(m map[string]any) { m["particles"] = "fifty" }},
		{"short vector", func(m map[string]any) { m["velocity"] = []any{1.0} }},
		{"long vector", func(m map[string]any) { m["lifetime"] = []any{1.0, 2.0, 3.0} }},
		{"vector as number", func(m map[string]any) { m["force"] = 3.0 }},
		{"short color", func(m map[string]any) { m["color"] = []any{1.0, 2.0, 3.0} }},
		{"color out of range", func(m map[string]any) { m["color"] = []any{256.0, 0.0, 0.0, 0.0} }},
		{"fractional color", func(m map[string]any) { m["color"] = []any{1.5, 0.0, 0.0, 0.0} }},
		{"unknown shape", func(m map[string]any) { m["shape"] = "Triangle" }},
		{"unknown blend", func(m map[string]any) { m["blendMode"] = 7 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := encodeMap(t)
			tt.mutate(m)
			data, err := json.Marshal(m)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			p, err := Decode(bytes.NewReader(data))
			if err == nil {
				t.Fatalf("Decode succeeded, want error")
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
			if p != nil {
				t.Errorf("Decode returned a partial preset: %+v", p)
			}
		})
	}
}

func TestDecode_NotJSON(t *testing.T) {
	_, err := Decode(strings.NewReader("{looping: true"))
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("got %v, want ErrMalformed", err)
	}
}

func TestDecode_SoundOptional(t *testing.T) {
	m := encodeMap(t)
	delete(m, "sound")
	data, _ := json.Marshal(m)
	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode without sound: %v", err)
	}
	if p.SoundPath != "" {
		t.Errorf("SoundPath: got %q, want empty", p.SoundPath)
	}
}

func TestDecode_ClampsInvalidValues(t *testing.T) {
	m := encodeMap(t)
	m["lifetime"] = []any{3.0, 1.0}
	m["fader"] = []any{0.8, 0.8}
	data, _ := json.Marshal(m)

	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if p.Lifetime != (mgl64.Vec2{1, 1}) {
		t.Errorf("Lifetime: got %v, want [1 1]", p.Lifetime)
	}
	if p.Fader != (mgl64.Vec2{}) {
		t.Errorf("Fader: got %v, want [0 0]", p.Fader)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fire.json")
	want := samplePreset()
	if err := Save(path, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *got != *want {
		t.Errorf("Load mismatch:\n got %+v\nwant %+v", *got, *want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("Load of a missing file should fail")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want os.ErrNotExist", err)
	}
}
