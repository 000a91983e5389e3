package game

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-editor/internal/config"
	"github.com/iburimskiy/particle-editor/internal/playback"
	"github.com/iburimskiy/particle-editor/internal/preset"
	"github.com/iburimskiy/particle-editor/internal/session"
)

type fakeInput struct {
	x, y int
	down bool
}

func (f *fakeInput) CursorPosition() (int, int) { return f.x, f.y }
func (f *fakeInput) MouseDown() bool            { return f.down }

type fakeDialogs struct {
	path   string
	err    error
	titles []string
}

func (f *fakeDialogs) Open(title, dir string, filter zenity.FileFilter) (string, error) {
	f.titles = append(f.titles, title)
	return f.path, f.err
}

func (f *fakeDialogs) Save(title, dir string, filter zenity.FileFilter) (string, error) {
	f.titles = append(f.titles, title)
	return f.path, f.err
}

var errNoTexture = errors.New("no such texture")

func fakeTexture(path string) (*ebiten.Image, error) {
	if filepath.Base(path) == "missing.png" {
		return nil, errNoTexture
	}
	return nil, nil
}

type fixture struct {
	editor  *Editor
	input   *fakeInput
	dialogs *fakeDialogs
	session *session.Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		input:   &fakeInput{x: 900, y: 700},
		dialogs: &fakeDialogs{err: zenity.ErrCanceled},
		session: session.NewManager(nil),
	}
	f.editor = New(config.Default(), f.session, Options{
		Input:   f.input,
		Dialogs: f.dialogs,
		Texture: fakeTexture,
		Rand:    rand.New(rand.NewPCG(1, 2)),
	})
	return f
}

func (f *fixture) tick(t *testing.T, dt float64, cmd commands) {
	t.Helper()
	if err := f.editor.tick(dt, cmd); err != nil {
		t.Fatalf("tick: %v", err)
	}
}

func writePreset(t *testing.T, p *preset.ParameterSet) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "effect.json")
	if err := preset.Save(path, p); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew_StartsPlayingDefaults(t *testing.T) {
	f := newFixture(t)
	if got := f.editor.Controller().State(); got != playback.Playing {
		t.Errorf("State: got %v, want Playing", got)
	}
	if got, want := *f.editor.Params(), *preset.Default(); got != want {
		t.Errorf("Params: got %+v, want defaults", got)
	}
}

func TestNew_RestoresSessionSelections(t *testing.T) {
	sess := session.NewManager(nil)
	sess.State().ShapeIndex = int(preset.ShapeRectangle)
	sess.State().BlendIndex = int(preset.BlendAdd)
	e := New(config.Default(), sess, Options{Input: &fakeInput{}, Dialogs: &fakeDialogs{}, Texture: fakeTexture})
	if e.Params().Shape != preset.ShapeRectangle || e.Params().BlendMode != preset.BlendAdd {
		t.Errorf("got shape %v blend %v, want Rectangle/Add", e.Params().Shape, e.Params().BlendMode)
	}
}

func TestTick_ClampsEdits(t *testing.T) {
	f := newFixture(t)
	p := f.editor.Params()
	p.Lifetime = mgl64.Vec2{5, 2}
	p.Fader = mgl64.Vec2{0.7, 0.6}
	p.NrOfParticles = -3

	f.tick(t, 1.0/60, commands{})

	if p.Lifetime != (mgl64.Vec2{2, 2}) {
		t.Errorf("Lifetime: got %v, want [2 2]", p.Lifetime)
	}
	if p.Fader != (mgl64.Vec2{}) {
		t.Errorf("Fader: got %v, want reset", p.Fader)
	}
	if p.NrOfParticles != 0 {
		t.Errorf("NrOfParticles: got %v, want 0", p.NrOfParticles)
	}
	if f.editor.LastErr() != nil {
		t.Errorf("clamping surfaced an error: %v", f.editor.LastErr())
	}
}

func TestTick_PauseFreezesSimulation(t *testing.T) {
	f := newFixture(t)
	f.editor.Params().NrOfParticles = 100
	f.editor.Params().Lifetime = mgl64.Vec2{10, 10}
	for i := 0; i < 10; i++ {
		f.tick(t, 0.1, commands{})
	}
	count := f.editor.effect.System.Count()
	elapsed := f.editor.Controller().Elapsed()
	if count == 0 {
		t.Fatal("no particles emitted while playing")
	}

	f.tick(t, 0.1, commands{togglePause: true})
	for i := 0; i < 10; i++ {
		f.tick(t, 0.1, commands{})
	}
	if got := f.editor.effect.System.Count(); got != count {
		t.Errorf("particles changed while paused: %d -> %d", count, got)
	}
	if got := f.editor.Controller().Elapsed(); got != elapsed {
		t.Errorf("watch moved while paused: %v -> %v", elapsed, got)
	}

	f.tick(t, 0.1, commands{togglePause: true})
	if f.editor.Controller().State() != playback.Playing {
		t.Errorf("State after resume: %v", f.editor.Controller().State())
	}
}

func TestTick_QuitSavesSession(t *testing.T) {
	f := newFixture(t)
	f.editor.Params().Shape = preset.ShapeCircle
	f.editor.Params().BlendMode = preset.BlendMultiply

	err := f.editor.tick(1.0/60, commands{quit: true})
	if !errors.Is(err, ebiten.Termination) {
		t.Fatalf("tick: got %v, want ebiten.Termination", err)
	}
	st := f.session.State()
	if st.ShapeIndex != int(preset.ShapeCircle) || st.BlendIndex != int(preset.BlendMultiply) {
		t.Errorf("session not synced: %+v", st)
	}
}

func TestOpenDialog_Cancel(t *testing.T) {
	f := newFixture(t)
	before := f.editor.Params()
	f.tick(t, 1.0/60, commands{open: true})
	if f.editor.LastErr() != nil {
		t.Errorf("cancel reported an error: %v", f.editor.LastErr())
	}
	if f.editor.Params() != before {
		t.Error("cancel replaced the preset")
	}
	if len(f.dialogs.titles) != 1 {
		t.Errorf("dialog calls: %v", f.dialogs.titles)
	}
}

func TestOpenDialog_Failure(t *testing.T) {
	f := newFixture(t)
	before := f.editor.Params()
	f.dialogs.err = errors.New("no display")
	f.tick(t, 1.0/60, commands{open: true})
	if f.editor.LastErr() == nil {
		t.Error("dialog failure not reported")
	}
	if f.editor.Params() != before {
		t.Error("failed dialog replaced the preset")
	}
}

func TestLoadPreset(t *testing.T) {
	f := newFixture(t)
	want := preset.Default()
	want.Looping = false
	want.Duration = 2
	want.NrOfParticles = 50
	want.Torque = 45
	want.Shape = preset.ShapeCircle
	want.Radius = 50
	want.FullParticlePath = "spark.png"
	path := writePreset(t, want)

	f.dialogs.path, f.dialogs.err = path, nil
	f.tick(t, 1.0/60, commands{open: true})

	if err := f.editor.LastErr(); err != nil {
		t.Fatalf("LastErr: %v", err)
	}
	got := f.editor.Params()
	if got.Looping || got.Duration != 2 || got.Shape != preset.ShapeCircle || got.FullParticlePath != "spark.png" {
		t.Errorf("loaded params: %+v", got)
	}
	if kinds := formatAffectors(f.editor.effect.ActiveAffectors()); kinds != "torque" {
		t.Errorf("affectors: got %q, want torque", kinds)
	}
	st := f.session.State()
	if st.LastPresetPath != path || st.LastPresetDir != filepath.Dir(path) || st.ShapeIndex != 1 {
		t.Errorf("session: %+v", st)
	}
}

func TestLoadPreset_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	before := f.editor.Params()

	malformed := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(malformed, []byte(`{"looping": true}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := f.editor.LoadPreset(malformed); !errors.Is(err, preset.ErrMalformed) {
		t.Errorf("malformed: got %v, want ErrMalformed", err)
	}

	p := preset.Default()
	p.FullParticlePath = "missing.png"
	if err := f.editor.LoadPreset(writePreset(t, p)); !errors.Is(err, errNoTexture) {
		t.Errorf("missing texture: got %v, want errNoTexture", err)
	}

	if f.editor.Params() != before {
		t.Error("a failed load replaced the preset")
	}
}

func TestOneShotAfterLoad(t *testing.T) {
	f := newFixture(t)
	p := preset.Default()
	p.Looping = false
	p.Duration = 2
	p.NrOfParticles = 50
	p.Lifetime = mgl64.Vec2{5, 5}
	if err := f.editor.LoadPreset(writePreset(t, p)); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 119; i++ {
		f.tick(t, 1.0/60, commands{})
	}
	if !f.editor.effect.Connected() || f.editor.Controller().State() != playback.Playing {
		t.Fatalf("one-shot ended before frame 120: state %v", f.editor.Controller().State())
	}
	f.tick(t, 1.0/60, commands{})
	if f.editor.effect.Connected() {
		t.Error("emitter still connected after 120 frames at 60 Hz")
	}
	if got := f.editor.Controller().State(); got != playback.Stopped {
		t.Errorf("State: got %v, want Stopped", got)
	}
}

func TestLoadPreset_KeepsDisabledAffector(t *testing.T) {
	f := newFixture(t)
	p := preset.Default()
	p.Force = mgl64.Vec2{10, 0}
	path := writePreset(t, p)

	// a file that keeps a force value with the affector switched off
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rec map[string]any
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatal(err)
	}
	rec["enableForceAff"] = false
	if raw, err = json.Marshal(rec); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := f.editor.LoadPreset(path); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		f.tick(t, 1.0/60, commands{})
	}
	if got := f.editor.effect.ActiveAffectors(); len(got) != 0 {
		t.Errorf("disabled force previewed: affectors %v", got)
	}

	f.editor.Params().Force = mgl64.Vec2{20, 0}
	f.tick(t, 1.0/60, commands{})
	if got := formatAffectors(f.editor.effect.ActiveAffectors()); got != "force" {
		t.Errorf("affectors after editing force: got %q, want force", got)
	}
}

func TestSavePreset_AddsExtension(t *testing.T) {
	f := newFixture(t)
	f.editor.Params().Force = mgl64.Vec2{0, 98}
	dir := t.TempDir()
	f.dialogs.path, f.dialogs.err = filepath.Join(dir, "gravity"), nil

	f.tick(t, 1.0/60, commands{save: true})
	if err := f.editor.LastErr(); err != nil {
		t.Fatalf("LastErr: %v", err)
	}

	loaded, err := preset.Load(filepath.Join(dir, "gravity.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Force != (mgl64.Vec2{0, 98}) || !loaded.EnableForceAff {
		t.Errorf("saved preset: force=%v enabled=%v", loaded.Force, loaded.EnableForceAff)
	}
}

func TestSetTexturePath(t *testing.T) {
	f := newFixture(t)
	if err := f.editor.SetTexturePath("/img/missing.png"); !errors.Is(err, errNoTexture) {
		t.Errorf("missing: got %v", err)
	}
	if f.editor.Params().FullParticlePath != "" {
		t.Error("failed texture load changed the path")
	}
	if err := f.editor.SetTexturePath("/img/spark.png"); err != nil {
		t.Fatal(err)
	}
	if f.editor.Params().FullParticlePath != "/img/spark.png" || f.session.State().LastTextureDir != "/img" {
		t.Errorf("path=%q dir=%q", f.editor.Params().FullParticlePath, f.session.State().LastTextureDir)
	}
	if err := f.editor.SetTexturePath(""); err != nil || f.editor.Params().FullParticlePath != "" {
		t.Errorf("reset: err=%v path=%q", err, f.editor.Params().FullParticlePath)
	}
}

func TestSceneClickMovesEmitter(t *testing.T) {
	f := newFixture(t)

	f.input.x, f.input.y = 900, 300
	f.tick(t, 1.0/60, commands{click: true, cursor: mgl64.Vec2{900, 300}})
	if got := f.editor.Params().Position; got != (mgl64.Vec2{900, 300}) {
		t.Errorf("Position: got %v, want [900 300]", got)
	}

	f.input.x, f.input.y = 100, 100
	f.tick(t, 1.0/60, commands{click: true, cursor: mgl64.Vec2{100, 100}})
	if got := f.editor.Params().Position; got != (mgl64.Vec2{900, 300}) {
		t.Errorf("click on the panel moved the emitter to %v", got)
	}
}
