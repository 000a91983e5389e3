// Command loader replays a saved preset. Every click starts another
// instance of it at the cursor.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/particle-editor/internal/audio"
	"github.com/iburimskiy/particle-editor/internal/config"
	"github.com/iburimskiy/particle-editor/internal/effect"
	"github.com/iburimskiy/particle-editor/internal/preset"
)

var (
	presetFlag = flag.String("preset", "", "preset file to replay (required)")
	configFlag = flag.String("config", "", "TOML settings file")
	xFlag      = flag.Float64("x", -1, "x of the first instance; defaults to the window centre")
	yFlag      = flag.Float64("y", -1, "y of the first instance; defaults to the window centre")
)

type loaderGame struct {
	conf    *config.App
	params  *preset.ParameterSet
	origin  mgl64.Vec2
	opts    effect.LoaderOptions
	loaders []*effect.Loader
	player  *audio.Player
	cue     *audio.Cue
	lastErr error
}

func newLoaderGame(conf *config.App, path string, first mgl64.Vec2) (*loaderGame, error) {
	p, err := preset.Load(path)
	if err != nil {
		return nil, err
	}
	g := &loaderGame{
		conf:   conf,
		params: p,
		origin: first,
		opts:   effect.LoaderOptions{Texture: cachedTextures(effect.LoadTexture)},
		player: audio.NewPlayer(),
	}
	if p.SoundPath != "" {
		if g.cue, err = audio.LoadCue(p.SoundPath); err != nil {
			log.Printf("[Loader] sound cue skipped: %v", err)
		}
	}
	if err := g.spawn(first); err != nil {
		return nil, err
	}
	return g, nil
}

// cachedTextures loads each path once; every instance shares the image.
func cachedTextures(load effect.TextureFunc) effect.TextureFunc {
	cache := map[string]*ebiten.Image{}
	return func(path string) (*ebiten.Image, error) {
		if img, ok := cache[path]; ok {
			return img, nil
		}
		img, err := load(path)
		if err != nil {
			return nil, err
		}
		cache[path] = img
		return img, nil
	}
}

func (g *loaderGame) spawn(at mgl64.Vec2) error {
	l, err := effect.NewLoaderFromPreset(g.params, at, g.opts)
	if err != nil {
		return err
	}
	g.loaders = append(g.loaders, l)
	if g.cue != nil {
		if err := g.player.Play(g.cue); err != nil {
			log.Printf("[Loader] %v", err)
		}
	}
	return nil
}

func (g *loaderGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if err := g.spawn(mgl64.Vec2{float64(x), float64(y)}); err != nil {
			g.lastErr = err
			log.Printf("[Loader] Error: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.replay()
	}

	g.step(1 / float64(g.conf.TPS))
	return nil
}

// step advances every instance and drops the finished ones.
func (g *loaderGame) step(dt float64) {
	alive := g.loaders[:0]
	for _, l := range g.loaders {
		l.Update(dt)
		if !l.Finished() {
			alive = append(alive, l)
		}
	}
	g.loaders = alive
}

// replay restarts every instance, one-shots included, at its position.
func (g *loaderGame) replay() {
	old := g.loaders
	g.loaders = nil
	for _, l := range old {
		params := l.Params()
		if err := g.spawn(params.Position); err != nil {
			g.lastErr = err
		}
	}
	if len(old) == 0 {
		if err := g.spawn(g.origin); err != nil {
			g.lastErr = err
		}
	}
}

func (g *loaderGame) Draw(screen *ebiten.Image) {
	screen.Fill(g.conf.BackgroundColor())
	count := 0
	for _, l := range g.loaders {
		l.Draw(screen)
		count += l.Count()
	}
	status := fmt.Sprintf("instances: %d  particles: %d  (click: spawn, R: replay, Esc: quit)", len(g.loaders), count)
	if g.lastErr != nil {
		status += " | Error: " + g.lastErr.Error()
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *loaderGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.conf.WindowWidth, g.conf.WindowHeight
}

func main() {
	flag.Parse()
	if *presetFlag == "" {
		log.Fatal("[Loader] -preset is required")
	}

	conf, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal(err)
	}

	first := mgl64.Vec2{*xFlag, *yFlag}
	if first.X() < 0 || first.Y() < 0 {
		first = mgl64.Vec2{float64(conf.WindowWidth) / 2, float64(conf.WindowHeight) / 2}
	}

	g, err := newLoaderGame(conf, *presetFlag, first)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(conf.WindowWidth, conf.WindowHeight)
	ebiten.SetWindowTitle("Particle Loader - " + *presetFlag)
	ebiten.SetTPS(conf.TPS)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
