// Package snapshot turns CHIP-8 framebuffers into images and records the last
// presented frame so it can be written out as a PNG.
package snapshot

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"sync"

	"github.com/mnafees/chip8/internal"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

var (
	offColor = color.NRGBA{R: 0x1A, G: 0x23, B: 0x7E, A: 0xFF}
	onColor  = color.NRGBA{R: 0x9F, G: 0xA8, B: 0xDA, A: 0xFF}
)

// Image renders fb at one image pixel per CHIP-8 pixel and then scales it up
// by scale with nearest neighbour sampling. A scale below 1 is treated as 1.
func Image(fb *internal.Framebuffer, scale int) *image.NRGBA {
	src := image.NewNRGBA(image.Rect(0, 0, internal.ScreenWidth, internal.ScreenHeight))
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			c := offColor
			if fb[y][x] == 1 {
				c = onColor
			}
			src.SetNRGBA(x, y, c)
		}
	}
	if scale <= 1 {
		return src
	}
	dst := image.NewNRGBA(image.Rect(0, 0, internal.ScreenWidth*scale, internal.ScreenHeight*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Recorder is an internal.Display that remembers every frame it passes on.
type Recorder struct {
	next  internal.Display
	scale int

	mu     sync.Mutex
	last   internal.Framebuffer
	frames int
}

var _ internal.Display = (*Recorder)(nil)

// NewRecorder wraps next. next may be nil when only recording is wanted.
func NewRecorder(next internal.Display, scale int) *Recorder {
	return &Recorder{next: next, scale: scale}
}

// Draw records fb and forwards it.
func (r *Recorder) Draw(fb *internal.Framebuffer) error {
	r.mu.Lock()
	r.last = *fb
	r.frames++
	r.mu.Unlock()

	if r.next == nil {
		return nil
	}
	return r.next.Draw(fb)
}

// Frames returns how many frames have been recorded.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Last returns the most recently recorded frame.
func (r *Recorder) Last() internal.Framebuffer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Save writes the last recorded frame to path as a PNG. A blank screen is
// written if nothing was drawn yet.
func (r *Recorder) Save(path string) error {
	fb := r.Last()
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating snapshot")
	}
	if err := png.Encode(f, Image(&fb, r.scale)); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding snapshot %s", path)
	}
	return errors.Wrap(f.Close(), "closing snapshot")
}
