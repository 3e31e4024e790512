package capture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

func TestNewRecorder(t *testing.T) {
	tests := []struct {
		name      string
		d         time.Duration
		tps, fps  int
		every     int
		delay     int
		limit     int
		wantError bool
	}{
		{"classic", 15 * time.Second, 60, 20, 3, 5, 300, false},
		{"fps above tps", time.Second, 30, 60, 1, 3, 30, false},
		{"uneven ratio", 2 * time.Second, 60, 25, 2, 3, 60, false},
		{"zero duration", 0, 60, 20, 0, 0, 0, true},
		{"zero fps", time.Second, 60, 0, 0, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRecorder(tt.d, tt.tps, tt.fps)
			if tt.wantError {
				if err == nil {
					t.Fatal("NewRecorder accepted an invalid recording")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRecorder returned error: %v", err)
			}
			if r.every != tt.every || r.delay != tt.delay || r.limit != tt.limit {
				t.Errorf("every=%d delay=%d limit=%d; want %d %d %d", r.every, r.delay, r.limit, tt.every, tt.delay, tt.limit)
			}
		})
	}
}

func TestRecorder_StopsAfterDuration(t *testing.T) {
	r, err := NewRecorder(time.Second, 60, 20)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	frame := solid(8, 6, color.RGBA{R: 70, G: 30, B: 30, A: 255})

	due := 0
	for tick := 0; tick < 180; tick++ {
		if r.Due() {
			due++
			r.Add(frame)
		}
	}
	if due != 20 || r.Len() != 20 {
		t.Errorf("kept %d frames out of %d due ticks; want 20", r.Len(), due)
	}
	if !r.Full() {
		t.Error("recording is not full after its duration")
	}
	r.Add(frame)
	if r.Len() != 20 {
		t.Errorf("Add past the limit kept a frame: %d", r.Len())
	}
}

func TestRecorder_Encode(t *testing.T) {
	r, err := NewRecorder(time.Second, 10, 5)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := r.Encode(&buf); !errors.Is(err, ErrNoFrames) {
		t.Fatalf("Encode of an empty recording = %v; want ErrNoFrames", err)
	}

	red := color.RGBA{R: 255, A: 255}
	for !r.Full() {
		if r.Due() {
			r.Add(solid(12, 9, red))
		}
	}
	if err := r.Encode(&buf); err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("failed to decode the recording: %v", err)
	}
	if len(g.Image) != 5 {
		t.Fatalf("decoded %d frames; want 5", len(g.Image))
	}
	for i, d := range g.Delay {
		if d != 20 {
			t.Errorf("frame %d delay = %d; want 20", i, d)
		}
	}
	if b := g.Image[0].Bounds(); b.Dx() != 12 || b.Dy() != 9 {
		t.Errorf("frame size = %v; want 12x9", b)
	}
	want := color.RGBAModel.Convert(color.Palette(palette.Plan9).Convert(red))
	if got := color.RGBAModel.Convert(g.Image[0].At(3, 3)); got != want {
		t.Errorf("pixel = %v; want the nearest palette colour %v", got, want)
	}
}

func TestRecorder_SubImage(t *testing.T) {
	r, err := NewRecorder(time.Second, 1, 1)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	img := solid(20, 20, color.RGBA{A: 255})
	img.Set(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	r.Add(img.SubImage(image.Rect(10, 10, 15, 15)))
	frame := r.frames[0]
	if b := frame.Bounds(); b.Min != (image.Point{}) || b.Dx() != 5 {
		t.Fatalf("frame bounds = %v; want a 5x5 frame at the origin", b)
	}
	if got := color.RGBAModel.Convert(frame.At(0, 0)).(color.RGBA); got.R != 255 {
		t.Errorf("frame origin = %v; want the white pixel of the sub image", got)
	}
}

func TestRecorder_Save(t *testing.T) {
	r, err := NewRecorder(time.Second, 1, 1)
	if err != nil {
		t.Fatalf("NewRecorder returned error: %v", err)
	}
	r.Add(solid(4, 4, color.RGBA{G: 255, A: 255}))

	path := filepath.Join(t.TempDir(), FileName("wordflock", time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)))
	if filepath.Base(path) != "wordflock-20240309-140507.gif" {
		t.Errorf("FileName = %q", filepath.Base(path))
	}
	if err := r.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	defer f.Close()
	if _, err := gif.DecodeAll(f); err != nil {
		t.Errorf("saved file is not a GIF: %v", err)
	}

	if err := r.Save(filepath.Join(t.TempDir(), "missing", "x.gif")); err == nil {
		t.Error("Save into a missing directory succeeded")
	}
}
