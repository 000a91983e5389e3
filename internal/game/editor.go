// Package game is the preset editor: one effect, its playback state and the
// parameter panel, run as an ebiten.Game.
package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/particle-editor/internal/audio"
	"github.com/iburimskiy/particle-editor/internal/config"
	"github.com/iburimskiy/particle-editor/internal/effect"
	"github.com/iburimskiy/particle-editor/internal/playback"
	"github.com/iburimskiy/particle-editor/internal/preset"
	"github.com/iburimskiy/particle-editor/internal/session"
	"github.com/iburimskiy/particle-editor/internal/ui"
)

// Options replaces the editor's collaborators. Zero fields get the real
// implementations.
type Options struct {
	Input   ui.Input
	Dialogs Dialogs
	Texture effect.TextureFunc
	Player  *audio.Player
	Rand    *rand.Rand
}

type Editor struct {
	conf        *config.App
	session     *session.Manager
	dialogs     Dialogs
	loadTexture effect.TextureFunc
	player      *audio.Player

	params *preset.ParameterSet
	effect *effect.Effect
	ctrl   *playback.Controller
	ui     *ui.Context

	baseTexture *ebiten.Image
	cue         *audio.Cue
	level       float64
	cuePaused   bool

	// gated holds the affector values the enable flags were last decided on.
	gated gatedValues

	// input edge detection
	prevKey map[ebiten.Key]bool

	lastErr error
}

type gatedValues struct {
	torque float64
	force  mgl64.Vec2
	fader  mgl64.Vec2
}

// commands is the input gathered for one frame.
type commands struct {
	quit        bool
	togglePause bool
	save        bool
	open        bool
	click       bool
	cursor      mgl64.Vec2
}

// New restores the last session (autosaved preset and selections) and
// starts playing it.
func New(conf *config.App, sess *session.Manager, opts Options) *Editor {
	if opts.Input == nil {
		opts.Input = ui.EbitenInput{}
	}
	if opts.Dialogs == nil {
		opts.Dialogs = NativeDialogs()
	}
	if opts.Texture == nil {
		opts.Texture = effect.LoadTexture
	}
	if opts.Player == nil {
		opts.Player = audio.NewPlayer()
	}

	e := &Editor{
		conf:        conf,
		session:     sess,
		dialogs:     opts.Dialogs,
		loadTexture: opts.Texture,
		player:      opts.Player,
		effect:      effect.New(opts.Rand),
		ui:          ui.New(opts.Input),
		prevKey:     map[ebiten.Key]bool{},
	}

	if conf.DefaultTexture != "" {
		img, err := e.loadTexture(conf.DefaultTexture)
		if err != nil {
			e.report(err)
		}
		e.baseTexture = img
	}

	e.params = e.restore()
	e.params.Validate()
	e.setTexture(nil)
	if path := e.params.FullParticlePath; path != "" {
		img, err := e.loadTexture(path)
		if err != nil {
			e.report(err)
			e.params.FullParticlePath = ""
		}
		e.setTexture(img)
	}
	e.cue = e.loadCue(e.params.SoundPath)

	e.effect.Apply(e.params)
	e.attachAffectors(true)
	e.ctrl = playback.New(e.effect, e.params.Looping, e.params.Duration)
	e.ctrl.OnConnect = e.playCue
	e.playCue()
	return e
}

// restore returns the autosaved preset, or defaults carrying the
// remembered combo selections.
func (e *Editor) restore() *preset.ParameterSet {
	p, err := e.session.LoadAutosave()
	if err != nil {
		log.Printf("[Editor] autosave ignored: %v", err)
	}
	if p != nil {
		return p
	}
	st := e.session.State()
	p = preset.Default()
	p.Shape = preset.Shape(st.ShapeIndex)
	p.BlendMode = preset.BlendMode(st.BlendIndex)
	return p
}

func (e *Editor) Params() *preset.ParameterSet { return e.params }

func (e *Editor) Controller() *playback.Controller { return e.ctrl }

func (e *Editor) LastErr() error { return e.lastErr }

func (e *Editor) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !e.prevKey[k]
		e.prevKey[k] = pressed
		return jp
	}

	mod := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	s, o := justPressed(ebiten.KeyS), justPressed(ebiten.KeyO)
	x, y := ebiten.CursorPosition()
	cmd := commands{
		quit:        justPressed(ebiten.KeyEscape) || ebiten.IsWindowBeingClosed(),
		togglePause: justPressed(ebiten.KeySpace),
		save:        mod && s,
		open:        mod && o,
		click:       inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		cursor:      mgl64.Vec2{float64(x), float64(y)},
	}
	return e.tick(1/float64(e.conf.TPS), cmd)
}

// tick runs one frame: input, simulation, then the panel.
func (e *Editor) tick(dt float64, cmd commands) error {
	if cmd.quit {
		e.Shutdown()
		return ebiten.Termination
	}
	if cmd.togglePause {
		e.ctrl.TogglePause()
	}
	if cmd.open {
		e.openPresetDialog()
	}
	if cmd.save {
		e.savePresetDialog()
	}

	e.params.Validate()
	e.effect.Apply(e.params)
	e.attachAffectors(false)
	if e.ctrl.Active() {
		e.effect.Update(dt)
	}
	e.ctrl.Advance(dt)

	e.ui.Begin(config.PanelX, config.PanelY, e.conf.PanelWidth, e.conf.WindowHeight)
	e.buildPanel()
	if cmd.click && !e.ui.WantsMouse() {
		e.params.Position = cmd.cursor
	}
	e.ui.End()

	if paused := e.ctrl.State() == playback.Paused; paused != e.cuePaused {
		e.player.SetPaused(paused)
		e.cuePaused = paused
	}
	e.level = e.player.Level()
	return nil
}

// attachAffectors honours the enable flags of the edited preset. A flag is
// re-derived from its value only once the user changes that value, so a
// loaded preset previews with exactly the affectors it was saved with.
func (e *Editor) attachAffectors(loaded bool) {
	p := e.params
	if !loaded {
		if p.Torque != e.gated.torque {
			p.EnableTorqueAff = p.Torque != 0
		}
		if p.Force != e.gated.force {
			p.EnableForceAff = p.Force != (mgl64.Vec2{})
		}
		if p.Fader != e.gated.fader {
			p.EnableFadeAff = p.Fader != (mgl64.Vec2{})
		}
	}
	e.gated = gatedValues{torque: p.Torque, force: p.Force, fader: p.Fader}
	e.effect.AttachFlagged(p)
}

// Shutdown stores the current preset and the session.
func (e *Editor) Shutdown() {
	e.params.Validate()
	if err := e.session.SaveAutosave(e.params); err != nil {
		log.Printf("[Editor] autosave failed: %v", err)
	}
	e.syncSession()
	if err := e.session.Save(); err != nil {
		log.Printf("[Editor] session save failed: %v", err)
	}
	e.player.Stop()
}

func (e *Editor) syncSession() {
	st := e.session.State()
	st.ShapeIndex = e.params.Shape.Index()
	st.BlendIndex = int(e.params.BlendMode)
}

// LoadPreset replaces the edited preset with the file at path. Nothing
// changes unless both the preset and its texture load.
func (e *Editor) LoadPreset(path string) error {
	p, err := preset.Load(path)
	if err != nil {
		return err
	}
	var tex *ebiten.Image
	if p.FullParticlePath != "" {
		tex, err = e.loadTexture(p.FullParticlePath)
		if err != nil {
			return fmt.Errorf("load preset %q: %w", path, err)
		}
	}

	e.params = p
	e.cue = e.loadCue(p.SoundPath)
	e.setTexture(tex)
	e.effect.System.Clear()
	e.effect.Apply(p)
	e.attachAffectors(true)
	e.ctrl.Reset(p.Looping, p.Duration)

	st := e.session.State()
	st.LastPresetPath = path
	st.LastPresetDir = filepath.Dir(path)
	e.syncSession()
	e.lastErr = nil
	log.Printf("[Editor] loaded preset %s", path)
	return nil
}

// SavePreset writes the edited preset to path, adding .json when the name
// has no extension.
func (e *Editor) SavePreset(path string) error {
	if filepath.Ext(path) == "" {
		path += ".json"
	}
	e.params.Validate()
	if err := preset.Save(path, e.params); err != nil {
		return err
	}
	st := e.session.State()
	st.LastPresetPath = path
	st.LastPresetDir = filepath.Dir(path)
	e.lastErr = nil
	log.Printf("[Editor] saved preset %s", path)
	return nil
}

// SetTexturePath loads path as the particle texture; an empty path goes
// back to the default texture.
func (e *Editor) SetTexturePath(path string) error {
	if path == "" {
		e.params.FullParticlePath = ""
		e.setTexture(nil)
		return nil
	}
	img, err := e.loadTexture(path)
	if err != nil {
		return err
	}
	e.params.FullParticlePath = path
	e.setTexture(img)
	e.session.State().LastTextureDir = filepath.Dir(path)
	return nil
}

// SetSoundPath loads and plays the cue at path; an empty path removes it.
func (e *Editor) SetSoundPath(path string) error {
	if path == "" {
		e.params.SoundPath = ""
		e.cue = nil
		e.player.Stop()
		return nil
	}
	cue, err := audio.LoadCue(path)
	if err != nil {
		return err
	}
	e.params.SoundPath = path
	e.cue = cue
	e.session.State().LastSoundDir = filepath.Dir(path)
	e.playCue()
	return nil
}

func (e *Editor) setTexture(img *ebiten.Image) {
	if img == nil {
		img = e.baseTexture
	}
	e.effect.SetTexture(img)
}

// loadCue is lenient: a preset whose sound is gone still loads.
func (e *Editor) loadCue(path string) *audio.Cue {
	if path == "" {
		return nil
	}
	cue, err := audio.LoadCue(path)
	if err != nil {
		log.Printf("[Editor] sound cue skipped: %v", err)
		return nil
	}
	return cue
}

func (e *Editor) playCue() {
	if e.cue == nil {
		return
	}
	e.report(e.player.Play(e.cue))
	e.player.SetPaused(e.cuePaused)
}

func (e *Editor) report(err error) {
	if err == nil {
		return
	}
	log.Printf("[Editor] Error: %v", err)
	e.lastErr = err
}

// dialogFailed reports a dialog error; cancelling is not an error.
func (e *Editor) dialogFailed(err error) bool {
	if err == nil {
		return false
	}
	if !errors.Is(err, zenity.ErrCanceled) {
		e.report(fmt.Errorf("file dialog: %w", err))
	}
	return true
}

func (e *Editor) openPresetDialog() {
	path, err := e.dialogs.Open("Open preset", e.session.State().LastPresetDir, presetFilter)
	if e.dialogFailed(err) || path == "" {
		return
	}
	e.report(e.LoadPreset(path))
}

func (e *Editor) savePresetDialog() {
	path, err := e.dialogs.Save("Save preset", e.session.State().LastPresetDir, presetFilter)
	if e.dialogFailed(err) || path == "" {
		return
	}
	e.report(e.SavePreset(path))
}

func (e *Editor) openTextureDialog() {
	path, err := e.dialogs.Open("Choose particle texture", e.session.State().LastTextureDir, textureFilter)
	if e.dialogFailed(err) || path == "" {
		return
	}
	e.report(e.SetTexturePath(path))
}

func (e *Editor) openSoundDialog() {
	path, err := e.dialogs.Open("Choose sound cue", e.session.State().LastSoundDir, soundFilter)
	if e.dialogFailed(err) || path == "" {
		return
	}
	e.report(e.SetSoundPath(path))
}

func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	return e.conf.WindowWidth, e.conf.WindowHeight
}
