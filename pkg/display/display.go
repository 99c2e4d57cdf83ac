// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

// Package display holds the simulated brain screen: a 480x272
// framebuffer of 16-bit RGB565 pixels with dirty-rectangle tracking,
// plus the touch state reported by the viewer.
package display

import "sync"

// Screen geometry of the brain's touch display.
const (
	Width  = 480
	Height = 272
)

// FlushFunc receives one dirty rectangle and its pixels, row-major.
// The driving loop wires this to the viewer link's screen message.
type FlushFunc func(x1, y1, x2, y2 int, pixels []uint16)

// Display is the framebuffer plus touch state. Safe for concurrent
// use; drawing and flushing may run on different tasks.
type Display struct {
	mu sync.Mutex
	fb []uint16

	dirty              bool
	dx1, dy1, dx2, dy2 int

	touchX, touchY int
	touchPressed   bool

	flush FlushFunc
}

// New creates a black framebuffer. flush may be nil; it can be set
// later with SetFlush.
func New(flush FlushFunc) *Display {
	return &Display{
		fb:    make([]uint16, Width*Height),
		flush: flush,
	}
}

// SetFlush installs the flush sink.
func (d *Display) SetFlush(flush FlushFunc) {
	d.mu.Lock()
	d.flush = flush
	d.mu.Unlock()
}

// DrawPixel sets one pixel. Out-of-bounds coordinates are ignored.
func (d *Display) DrawPixel(x, y int, color uint16) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	d.mu.Lock()
	d.fb[y*Width+x] = color
	d.markDirty(x, y, x, y)
	d.mu.Unlock()
}

// FillRect fills an inclusive rectangle, clipped to the screen.
func (d *Display) FillRect(x1, y1, x2, y2 int, color uint16) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	if x1 < 0 {
		x1 = 0
	}
	if y1 < 0 {
		y1 = 0
	}
	if x2 >= Width {
		x2 = Width - 1
	}
	if y2 >= Height {
		y2 = Height - 1
	}
	if x1 > x2 || y1 > y2 {
		return
	}

	d.mu.Lock()
	for y := y1; y <= y2; y++ {
		row := d.fb[y*Width+x1 : y*Width+x2+1]
		for i := range row {
			row[i] = color
		}
	}
	d.markDirty(x1, y1, x2, y2)
	d.mu.Unlock()
}

// Clear fills the whole screen with one color.
func (d *Display) Clear(color uint16) {
	d.FillRect(0, 0, Width-1, Height-1, color)
}

// Pixel returns one pixel, or 0 when out of bounds.
func (d *Display) Pixel(x, y int) uint16 {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fb[y*Width+x]
}

// Flush sends the accumulated dirty rectangle to the flush sink and
// resets the tracking. With no dirty pixels or no sink it is a no-op.
// The sink runs outside the display lock.
func (d *Display) Flush() {
	d.mu.Lock()
	if !d.dirty || d.flush == nil {
		d.mu.Unlock()
		return
	}
	x1, y1, x2, y2 := d.dx1, d.dy1, d.dx2, d.dy2
	w := x2 - x1 + 1
	pixels := make([]uint16, 0, w*(y2-y1+1))
	for y := y1; y <= y2; y++ {
		pixels = append(pixels, d.fb[y*Width+x1:y*Width+x1+w]...)
	}
	flush := d.flush
	d.dirty = false
	d.mu.Unlock()

	flush(x1, y1, x2, y2, pixels)
}

// SetTouch records the viewer's touch state.
func (d *Display) SetTouch(x, y int, pressed bool) {
	d.mu.Lock()
	d.touchX, d.touchY, d.touchPressed = x, y, pressed
	d.mu.Unlock()
}

// Touch returns the last reported touch position and state.
func (d *Display) Touch() (x, y int, pressed bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.touchX, d.touchY, d.touchPressed
}

// markDirty must be called with d.mu held.
func (d *Display) markDirty(x1, y1, x2, y2 int) {
	if !d.dirty {
		d.dirty = true
		d.dx1, d.dy1, d.dx2, d.dy2 = x1, y1, x2, y2
		return
	}
	if x1 < d.dx1 {
		d.dx1 = x1
	}
	if y1 < d.dy1 {
		d.dy1 = y1
	}
	if x2 > d.dx2 {
		d.dx2 = x2
	}
	if y2 > d.dy2 {
		d.dy2 = y2
	}
}
