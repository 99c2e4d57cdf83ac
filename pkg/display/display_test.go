// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 The hostbrain authors

package display

import "testing"

type flushRecord struct {
	x1, y1, x2, y2 int
	pixels         []uint16
}

func newRecordingDisplay() (*Display, *[]flushRecord) {
	var records []flushRecord
	d := New(func(x1, y1, x2, y2 int, pixels []uint16) {
		records = append(records, flushRecord{x1, y1, x2, y2, pixels})
	})
	return d, &records
}

func TestDrawPixelAndFlush(t *testing.T) {
	d, records := newRecordingDisplay()

	d.DrawPixel(10, 20, 0xF800)
	d.Flush()

	if len(*records) != 1 {
		t.Fatalf("flush ran %d times, want 1", len(*records))
	}
	r := (*records)[0]
	if r.x1 != 10 || r.y1 != 20 || r.x2 != 10 || r.y2 != 20 {
		t.Errorf("dirty rect = (%d,%d)-(%d,%d), want the single pixel", r.x1, r.y1, r.x2, r.y2)
	}
	if len(r.pixels) != 1 || r.pixels[0] != 0xF800 {
		t.Errorf("pixels = %v", r.pixels)
	}
}

func TestDirtyRectMerges(t *testing.T) {
	d, records := newRecordingDisplay()

	d.DrawPixel(10, 10, 1)
	d.DrawPixel(20, 15, 2)
	d.Flush()

	if len(*records) != 1 {
		t.Fatalf("flush ran %d times, want 1 merged rect", len(*records))
	}
	r := (*records)[0]
	if r.x1 != 10 || r.y1 != 10 || r.x2 != 20 || r.y2 != 15 {
		t.Errorf("merged rect = (%d,%d)-(%d,%d), want (10,10)-(20,15)", r.x1, r.y1, r.x2, r.y2)
	}
	if want := (20 - 10 + 1) * (15 - 10 + 1); len(r.pixels) != want {
		t.Errorf("pixels carried %d entries, want %d", len(r.pixels), want)
	}
	// Row-major extraction: the two drawn pixels sit at the corners.
	if r.pixels[0] != 1 {
		t.Errorf("top-left pixel = %d, want 1", r.pixels[0])
	}
	if r.pixels[len(r.pixels)-1] != 2 {
		t.Errorf("bottom-right pixel = %d, want 2", r.pixels[len(r.pixels)-1])
	}
}

func TestFlushCleanIsNoop(t *testing.T) {
	d, records := newRecordingDisplay()

	d.Flush() // nothing drawn
	d.DrawPixel(0, 0, 1)
	d.Flush()
	d.Flush() // already flushed

	if len(*records) != 1 {
		t.Errorf("flush ran %d times, want 1", len(*records))
	}
}

func TestFillRectClips(t *testing.T) {
	d, records := newRecordingDisplay()

	d.FillRect(-10, -10, 5, 5, 0x07E0)
	d.Flush()

	r := (*records)[0]
	if r.x1 != 0 || r.y1 != 0 || r.x2 != 5 || r.y2 != 5 {
		t.Errorf("clipped rect = (%d,%d)-(%d,%d), want (0,0)-(5,5)", r.x1, r.y1, r.x2, r.y2)
	}
	if d.Pixel(0, 0) != 0x07E0 || d.Pixel(5, 5) != 0x07E0 {
		t.Error("fill did not reach the clipped corners")
	}
	if d.Pixel(6, 6) != 0 {
		t.Error("fill leaked outside the rect")
	}
}

func TestFillRectFullyOffscreen(t *testing.T) {
	d, records := newRecordingDisplay()
	d.FillRect(Width, Height, Width+10, Height+10, 0xFFFF)
	d.Flush()
	if len(*records) != 0 {
		t.Error("offscreen fill marked the display dirty")
	}
}

func TestOutOfBoundsPixel(t *testing.T) {
	d, _ := newRecordingDisplay()
	d.DrawPixel(-1, 0, 1)
	d.DrawPixel(Width, 0, 1)
	d.DrawPixel(0, Height, 1)
	if d.Pixel(-1, 0) != 0 || d.Pixel(Width, 0) != 0 {
		t.Error("out-of-bounds reads should return 0")
	}
}

func TestClear(t *testing.T) {
	d, records := newRecordingDisplay()
	d.Clear(0x001F)
	d.Flush()

	r := (*records)[0]
	if r.x1 != 0 || r.y1 != 0 || r.x2 != Width-1 || r.y2 != Height-1 {
		t.Errorf("clear rect = (%d,%d)-(%d,%d), want full screen", r.x1, r.y1, r.x2, r.y2)
	}
	if len(r.pixels) != Width*Height {
		t.Errorf("clear carried %d pixels, want %d", len(r.pixels), Width*Height)
	}
}

func TestTouchState(t *testing.T) {
	d, _ := newRecordingDisplay()

	d.SetTouch(100, 150, true)
	x, y, pressed := d.Touch()
	if x != 100 || y != 150 || !pressed {
		t.Errorf("Touch() = (%d, %d, %v)", x, y, pressed)
	}

	d.SetTouch(100, 150, false)
	if _, _, pressed := d.Touch(); pressed {
		t.Error("touch still pressed after release")
	}
}
