// Package capture records rendered frames into an animated GIF.
package capture

import (
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"time"
)

// ErrNoFrames is returned when encoding a recording that holds no frame.
var ErrNoFrames = errors.New("recording has no frames")

// Recorder keeps one frame every few ticks until it holds a fixed duration
// of animation.
type Recorder struct {
	every  int // ticks between two kept frames
	delay  int // per frame, in 100ths of a second
	limit  int // frames to keep
	tick   int
	frames []*image.Paletted
}

// NewRecorder prepares a recording of d at fps frames per second from a host
// ticking tps times per second. fps is capped at tps.
func NewRecorder(d time.Duration, tps, fps int) (*Recorder, error) {
	if d <= 0 || tps <= 0 || fps <= 0 {
		return nil, fmt.Errorf("invalid recording: %v at %d fps from %d tps", d, fps, tps)
	}
	every := max(tps/fps, 1)
	limit := max(int(d.Seconds()*float64(tps))/every, 1)
	return &Recorder{
		every:  every,
		delay:  max(every*100/tps, 1),
		limit:  limit,
		frames: make([]*image.Paletted, 0, limit),
	}, nil
}

// Due advances the tick counter and reports whether the frame of this tick
// should be passed to Add.
func (r *Recorder) Due() bool {
	if r.Full() {
		return false
	}
	due := r.tick%r.every == 0
	r.tick++
	return due
}

// Add quantizes img to the Plan 9 palette and appends it.
// Frames past the limit are dropped.
func (r *Recorder) Add(img image.Image) {
	if r.Full() {
		return
	}
	b := img.Bounds()
	frame := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.Draw(frame, frame.Bounds(), img, b.Min, draw.Src)
	r.frames = append(r.frames, frame)
}

// Full reports whether the recording holds its whole duration.
func (r *Recorder) Full() bool {
	return len(r.frames) >= r.limit
}

// Len returns the number of frames kept so far.
func (r *Recorder) Len() int {
	return len(r.frames)
}

// Encode writes the frames as a looping GIF.
func (r *Recorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	delays := make([]int, len(r.frames))
	for i := range delays {
		delays[i] = r.delay
	}
	return gif.EncodeAll(w, &gif.GIF{Image: r.frames, Delay: delays})
}

// Save encodes the recording into path.
func (r *Recorder) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := r.Encode(f); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// FileName names a recording after the moment it started.
func FileName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s.gif", prefix, t.Format("20060102-150405"))
}
