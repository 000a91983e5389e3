package main

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/particle-editor/internal/config"
	"github.com/iburimskiy/particle-editor/internal/preset"
)

func writePreset(t *testing.T, p *preset.ParameterSet) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "burst.json")
	if err := preset.Save(path, p); err != nil {
		t.Fatal(err)
	}
	return path
}

func oneShot() *preset.ParameterSet {
	p := preset.Default()
	p.Looping = false
	p.Duration = 0
	p.NrOfParticles = 20
	p.Lifetime = mgl64.Vec2{0.5, 0.5}
	return p
}

func TestCachedTextures(t *testing.T) {
	calls := 0
	load := cachedTextures(func(path string) (*ebiten.Image, error) {
		calls++
		if path == "bad.png" {
			return nil, errors.New("unreadable")
		}
		return nil, nil
	})
	for i := 0; i < 3; i++ {
		if _, err := load("spark.png"); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("loads for one path: got %d, want 1", calls)
	}
	for i := 0; i < 2; i++ {
		if _, err := load("bad.png"); err == nil {
			t.Error("expected error")
		}
	}
	if calls != 3 {
		t.Errorf("failed loads are not cached: got %d calls, want 3", calls)
	}
}

func TestLoaderGame_SpawnFinishReplay(t *testing.T) {
	origin := mgl64.Vec2{200, 150}
	g, err := newLoaderGame(config.Default(), writePreset(t, oneShot()), origin)
	if err != nil {
		t.Fatalf("newLoaderGame: %v", err)
	}
	if err := g.spawn(mgl64.Vec2{600, 400}); err != nil {
		t.Fatal(err)
	}
	if len(g.loaders) != 2 {
		t.Fatalf("instances: got %d, want 2", len(g.loaders))
	}

	g.step(0.1)
	for _, l := range g.loaders {
		if l.Count() != 20 {
			t.Errorf("burst: got %d particles, want 20", l.Count())
		}
	}
	for i := 0; i < 10; i++ {
		g.step(0.1)
	}
	if len(g.loaders) != 0 {
		t.Fatalf("finished instances kept: %d", len(g.loaders))
	}

	g.replay()
	if len(g.loaders) != 1 {
		t.Fatalf("replay with no instances: got %d, want 1", len(g.loaders))
	}
	if got := g.loaders[0].Params().Position; got != origin {
		t.Errorf("replayed at %v, want %v", got, origin)
	}
}

func TestNewLoaderGame_Errors(t *testing.T) {
	if _, err := newLoaderGame(config.Default(), filepath.Join(t.TempDir(), "none.json"), mgl64.Vec2{}); err == nil {
		t.Error("missing preset: expected error")
	}
}
