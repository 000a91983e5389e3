// Package ui is a small immediate-mode widget layer for ebiten.
//
// Widgets are plain method calls made during Update: each call reads the
// mouse, returns the edited value in the same call and queues what it needs
// drawn. Draw replays the queue. Widget identity is the label, so labels
// must be unique within a frame.
package ui

import (
	"image"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	RowHeight  = 18
	rowGap     = 4
	padding    = 8
	LabelWidth = 112
	charWidth  = 6
)

// Input is the pointer state widgets read.
type Input interface {
	CursorPosition() (x, y int)
	MouseDown() bool
}

// EbitenInput reads the live ebiten cursor and left mouse button.
type EbitenInput struct{}

func (EbitenInput) CursorPosition() (int, int) { return ebiten.CursorPosition() }

func (EbitenInput) MouseDown() bool { return ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) }

var (
	colorPanel     = color.RGBA{R: 24, G: 28, B: 38, A: 230}
	colorBorder    = color.RGBA{R: 70, G: 80, B: 100, A: 255}
	colorWidget    = color.RGBA{R: 100, G: 120, B: 160, A: 255}
	colorHovered   = color.RGBA{R: 80, G: 100, B: 140, A: 255}
	colorPressed   = color.RGBA{R: 60, G: 80, B: 120, A: 255}
	colorTrack     = color.RGBA{R: 40, G: 46, B: 60, A: 255}
	colorFill      = color.RGBA{R: 120, G: 150, B: 210, A: 255}
	colorHighlight = color.RGBA{R: 150, G: 170, B: 200, A: 255}
)

type opKind int

const (
	opFill opKind = iota
	opStroke
	opText
)

type drawOp struct {
	kind       opKind
	x, y, w, h float32
	col        color.Color
	text       string
}

// Context holds the per-frame layout cursor and the cross-frame
// hot/active widget state.
type Context struct {
	in Input

	mx, my   int
	down     bool
	prevDown bool
	pressed  bool
	released bool

	active string

	panel  image.Rectangle
	x, y   int
	width  int
	last   image.Rectangle
	ops    []drawOp
	hsv    map[string][3]float64
	overUI bool
}

func New(in Input) *Context {
	return &Context{in: in, hsv: map[string][3]float64{}}
}

// Begin starts a frame with a panel of the given width at (x, y) and
// height h.
func (c *Context) Begin(x, y, width, h int) {
	c.mx, c.my = c.in.CursorPosition()
	c.prevDown = c.down
	c.down = c.in.MouseDown()
	c.pressed = c.down && !c.prevDown
	c.released = !c.down && c.prevDown

	c.panel = image.Rect(x, y, x+width, y+h)
	c.x, c.y = x+padding, y+padding
	c.width = width - 2*padding
	c.ops = c.ops[:0]
	c.overUI = image.Pt(c.mx, c.my).In(c.panel)

	c.fill(c.panel, colorPanel)
	c.stroke(c.panel, colorBorder)
}

// End finishes the frame. A released mouse always clears the active widget.
func (c *Context) End() {
	if !c.down {
		c.active = ""
	}
}

// WantsMouse reports whether the pointer is over the panel or dragging a
// widget, so the caller should ignore it for scene interaction.
func (c *Context) WantsMouse() bool {
	return c.overUI || c.active != ""
}

// LastRect is the interactive area of the most recent widget.
func (c *Context) LastRect() image.Rectangle { return c.last }

// Draw replays the queued operations.
func (c *Context) Draw(dst *ebiten.Image) {
	for _, op := range c.ops {
		switch op.kind {
		case opFill:
			vector.DrawFilledRect(dst, op.x, op.y, op.w, op.h, op.col, false)
		case opStroke:
			vector.StrokeRect(dst, op.x, op.y, op.w, op.h, 1, op.col, false)
		case opText:
			ebitenutil.DebugPrintAt(dst, op.text, int(op.x), int(op.y))
		}
	}
}

// row reserves one line and returns the control area right of the label.
func (c *Context) row(label string) image.Rectangle {
	if text := displayText(label); text != "" {
		c.text(c.x, c.y+1, text)
	}
	r := image.Rect(c.x+LabelWidth, c.y, c.x+c.width, c.y+RowHeight)
	c.y += RowHeight + rowGap
	c.last = r
	return r
}

// fullRow reserves one line spanning the whole panel width.
func (c *Context) fullRow() image.Rectangle {
	r := image.Rect(c.x, c.y, c.x+c.width, c.y+RowHeight)
	c.y += RowHeight + rowGap
	c.last = r
	return r
}

// displayText strips a "##suffix" used only to make a label unique.
func displayText(label string) string {
	if i := strings.Index(label, "##"); i >= 0 {
		return label[:i]
	}
	return label
}

func (c *Context) hovered(r image.Rectangle) bool {
	return image.Pt(c.mx, c.my).In(r)
}

// interact runs the press/drag/release protocol for widget id over r.
// It returns whether the widget is being held and whether it was clicked
// this frame.
func (c *Context) interact(id string, r image.Rectangle) (held, clicked bool) {
	if c.pressed && c.hovered(r) && c.active == "" {
		c.active = id
	}
	if c.active != id {
		return false, false
	}
	if c.released {
		return false, c.hovered(r)
	}
	return c.down, false
}

func (c *Context) fill(r image.Rectangle, col color.Color) {
	c.ops = append(c.ops, drawOp{kind: opFill, x: float32(r.Min.X), y: float32(r.Min.Y),
		w: float32(r.Dx()), h: float32(r.Dy()), col: col})
}

func (c *Context) stroke(r image.Rectangle, col color.Color) {
	c.ops = append(c.ops, drawOp{kind: opStroke, x: float32(r.Min.X), y: float32(r.Min.Y),
		w: float32(r.Dx()), h: float32(r.Dy()), col: col})
}

func (c *Context) text(x, y int, s string) {
	c.ops = append(c.ops, drawOp{kind: opText, x: float32(x), y: float32(y), text: s})
}

// centeredText draws s centred in r using the debug font metrics.
func (c *Context) centeredText(r image.Rectangle, s string) {
	x := r.Min.X + (r.Dx()-len(s)*charWidth)/2
	c.text(x, r.Min.Y+1, s)
}
