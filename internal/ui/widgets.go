package ui

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/crazy3lf/colorconv"
	"github.com/go-gl/mathgl/mgl64"
)

func (c *Context) Label(s string) {
	r := c.fullRow()
	c.text(r.Min.X, r.Min.Y+1, s)
}

// Header is a label with an underline.
func (c *Context) Header(s string) {
	r := c.fullRow()
	c.text(r.Min.X, r.Min.Y+1, s)
	c.fill(image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), colorBorder)
}

func (c *Context) Separator() {
	c.y += rowGap
	c.fill(image.Rect(c.x, c.y, c.x+c.width, c.y+1), colorBorder)
	c.y += rowGap
}

// Button draws a full-width button and reports a completed click.
func (c *Context) Button(label string) bool {
	return c.button(label, c.fullRow())
}

// Buttons lays out several buttons on one row and returns the index of the
// clicked one, or -1.
func (c *Context) Buttons(labels ...string) int {
	r := c.fullRow()
	if len(labels) == 0 {
		return -1
	}
	w := (r.Dx() - (len(labels)-1)*rowGap) / len(labels)
	clicked := -1
	for i, l := range labels {
		x := r.Min.X + i*(w+rowGap)
		if c.button(l, image.Rect(x, r.Min.Y, x+w, r.Max.Y)) {
			clicked = i
		}
	}
	return clicked
}

func (c *Context) button(label string, r image.Rectangle) bool {
	held, clicked := c.interact(label, r)
	bg := colorWidget
	switch {
	case held:
		bg = colorPressed
	case c.hovered(r):
		bg = colorHovered
	}
	c.fill(r, bg)
	c.stroke(r, colorHighlight)
	c.centeredText(r, displayText(label))
	return clicked
}

// Checkbox toggles *v on click and reports whether it changed.
func (c *Context) Checkbox(label string, v *bool) bool {
	r := c.row(label)
	box := image.Rect(r.Min.X, r.Min.Y, r.Min.X+RowHeight, r.Max.Y)
	c.last = box
	_, clicked := c.interact(label, box)
	if clicked {
		*v = !*v
	}
	c.fill(box, colorTrack)
	c.stroke(box, colorBorder)
	if *v {
		c.fill(box.Inset(4), colorHighlight)
	}
	return clicked
}

// SliderFloat edits *v by dragging across [min, max]. Values outside the
// range are kept until the slider is dragged.
func (c *Context) SliderFloat(label string, v *float64, min, max float64) bool {
	r := c.row(label)
	return c.slider(label, r, v, min, max)
}

// SliderFloat2 edits both components of a vector side by side, e.g. a
// low/high range or an x/y position.
func (c *Context) SliderFloat2(label string, v *mgl64.Vec2, min, max float64) bool {
	r := c.row(label)
	half := (r.Dx() - rowGap) / 2
	left := image.Rect(r.Min.X, r.Min.Y, r.Min.X+half, r.Max.Y)
	right := image.Rect(r.Max.X-half, r.Min.Y, r.Max.X, r.Max.Y)
	a := c.slider(label+"#0", left, &v[0], min, max)
	b := c.slider(label+"#1", right, &v[1], min, max)
	return a || b
}

func (c *Context) slider(id string, r image.Rectangle, v *float64, min, max float64) bool {
	held, _ := c.interact(id, r)
	changed := false
	if held {
		nv := SliderValue(c.mx, r.Min.X, r.Dx(), min, max)
		if nv != *v {
			*v = nv
			changed = true
		}
	}

	c.fill(r, colorTrack)
	frac := 0.0
	if max > min {
		frac = math.Max(0, math.Min(1, (*v-min)/(max-min)))
	}
	fill := r
	fill.Max.X = r.Min.X + int(frac*float64(r.Dx()))
	c.fill(fill, colorFill)
	c.stroke(r, colorBorder)
	c.centeredText(r, formatValue(*v))
	return changed
}

// SliderValue maps a cursor x inside a track starting at x0 with width w
// onto [min, max], clamped at both ends.
func SliderValue(cursorX, x0, w int, min, max float64) float64 {
	if w <= 0 {
		return min
	}
	t := float64(cursorX-x0) / float64(w)
	t = math.Max(0, math.Min(1, t))
	return min + t*(max-min)
}

func formatValue(v float64) string {
	switch {
	case math.Abs(v) >= 100:
		return fmt.Sprintf("%.0f", v)
	case math.Abs(v) >= 10:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// Combo shows the selected item; a click selects the next one, wrapping.
func (c *Context) Combo(label string, idx *int, items []string) bool {
	r := c.row(label)
	if len(items) == 0 {
		return false
	}
	if *idx < 0 || *idx >= len(items) {
		*idx = 0
	}
	clicked := c.button(label+"#combo", r)
	// the button already drew its id; cover it with the item name
	c.ops = c.ops[:len(c.ops)-1]
	if clicked {
		*idx = (*idx + 1) % len(items)
	}
	c.centeredText(r, "< "+items[*idx]+" >")
	return clicked
}

// ColorEdit edits an 8-bit colour through hue/saturation/value sliders
// plus alpha. Hue is remembered per widget so it survives greys.
func (c *Context) ColorEdit(label string, col *color.NRGBA) bool {
	hsv, ok := c.hsv[label]
	if !ok || !sameRGB(hsv, *col) {
		h, s, v := colorconv.RGBToHSV(col.R, col.G, col.B)
		hsv = [3]float64{h, s, v}
	}

	r := c.row(label)
	swatch := r
	c.fill(swatch, color.NRGBA{R: col.R, G: col.G, B: col.B, A: 255})
	c.stroke(swatch, colorBorder)
	c.centeredText(swatch, fmt.Sprintf("#%02X%02X%02X%02X", col.R, col.G, col.B, col.A))

	changed := false
	changed = c.SliderFloat("  hue##"+label, &hsv[0], 0, 360) || changed
	changed = c.SliderFloat("  sat##"+label, &hsv[1], 0, 1) || changed
	changed = c.SliderFloat("  value##"+label, &hsv[2], 0, 1) || changed
	alpha := float64(col.A)
	if c.SliderFloat("  alpha##"+label, &alpha, 0, 255) {
		col.A = uint8(math.Round(alpha))
		changed = true
	}

	if changed {
		if rr, gg, bb, err := colorconv.HSVToRGB(math.Mod(hsv[0], 360), hsv[1], hsv[2]); err == nil {
			col.R, col.G, col.B = rr, gg, bb
		}
	}
	c.hsv[label] = hsv
	return changed
}

func sameRGB(hsv [3]float64, col color.NRGBA) bool {
	r, g, b, err := colorconv.HSVToRGB(math.Mod(hsv[0], 360), hsv[1], hsv[2])
	return err == nil && r == col.R && g == col.G && b == col.B
}
