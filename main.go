package main

import (
	"errors"
	"flag"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"

	"github.com/iburimskiy/particle-editor/internal/config"
	"github.com/iburimskiy/particle-editor/internal/game"
	"github.com/iburimskiy/particle-editor/internal/session"
)

var (
	configFlag  = flag.String("config", "", "TOML settings file")
	presetFlag  = flag.String("preset", "", "preset to open instead of the autosave")
	verboseFlag = flag.Bool("verbose", true, "log to stderr")
)

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	conf, err := config.Load(*configFlag)
	if err != nil {
		log.Fatal(err)
	}

	storage, err := gdata.Open(gdata.Config{AppName: config.AppName})
	if err != nil {
		log.Printf("[Editor] Warning: session storage unavailable: %v", err)
		storage = nil
	}
	sess := session.NewManager(storage)
	if !sess.Persistent() {
		log.Printf("[Editor] session and autosave will not be kept")
	}

	g := game.New(conf, sess, game.Options{})
	if *presetFlag != "" {
		if err := g.LoadPreset(*presetFlag); err != nil {
			log.Printf("[Editor] Error: %v", err)
		}
	}

	ebiten.SetWindowSize(conf.WindowWidth, conf.WindowHeight)
	ebiten.SetWindowTitle("Particle Editor - Space: Play/Pause, Ctrl+S: Save, Ctrl+O: Open, Esc: Quit")
	ebiten.SetTPS(conf.TPS)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
