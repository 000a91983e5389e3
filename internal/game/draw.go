package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-editor/internal/config"
)

const helpText = "Space: pause/play  Ctrl+O: open  Ctrl+S: save  Click: move emitter  Esc: quit"

func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(e.conf.BackgroundColor())
	e.effect.Draw(screen)
	e.ui.Draw(screen)

	x := e.conf.PanelWidth + 12
	ebitenutil.DebugPrintAt(screen, e.statusLine(), x, config.StatusY)
	ebitenutil.DebugPrintAt(screen, e.filesLine(), x, config.StatusY+16)
	ebitenutil.DebugPrintAt(screen, helpText, x, config.StatusY+32)
	if e.lastErr != nil {
		ebitenutil.DebugPrintAt(screen, "Error: "+e.lastErr.Error(), x, config.StatusY+48)
	}
	if e.cue != nil {
		e.drawLevelMeter(screen, x, e.conf.WindowHeight-config.StatusY-config.MeterHeight)
	}
}

func (e *Editor) drawLevelMeter(screen *ebiten.Image, x, y int) {
	w, h := float32(config.MeterWidth), float32(config.MeterHeight)
	vector.DrawFilledRect(screen, float32(x), float32(y), w, h, color.RGBA{R: 25, G: 30, B: 40, A: 200}, false)
	if fill := float32(clamp01(e.level)) * w; fill > 0 {
		vector.DrawFilledRect(screen, float32(x), float32(y), fill, h, meterColor(e.level), false)
	}
	vector.StrokeRect(screen, float32(x), float32(y), w, h, 1, color.RGBA{R: 70, G: 80, B: 100, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, baseName(e.params.SoundPath, ""), x+config.MeterWidth+8, y-5)
}
