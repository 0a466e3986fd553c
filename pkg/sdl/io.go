package sdl

import (
	"log/slog"

	"github.com/mnafees/chip8/internal"
	"github.com/pkg/errors"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	screenColor = 0x1A237E
	spriteColor = 0x9FA8DA
)

// IO is the SDL input/output layer for the VM. It implements
// internal.Display and internal.EventSource and must be used from the
// thread that called SetupWindow.
type IO struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	layout   internal.Layout
	log      *slog.Logger
	points   []sdl.Point
}

var (
	_ internal.Display     = (*IO)(nil)
	_ internal.EventSource = (*IO)(nil)
)

// NewIO returns a new I/O instance for the SDL frontend translating host
// keys through layout.
func NewIO(layout internal.Layout, log *slog.Logger) *IO {
	return &IO{
		layout: layout,
		log:    log,
		points: make([]sdl.Point, 0, internal.ScreenWidth*internal.ScreenHeight),
	}
}

// SetupWindow initialises SDL and opens a resizable window scale times the
// size of the CHIP-8 display.
func (io *IO) SetupWindow(title string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return errors.Wrap(err, "initialising SDL")
	}

	window, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(internal.ScreenWidth*scale), int32(internal.ScreenHeight*scale), sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE)
	if err != nil {
		return errors.Wrap(err, "creating window")
	}
	io.window = window

	io.renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return errors.Wrap(err, "creating renderer")
	}
	// Lets SDL scale the 64x32 display to whatever size the window has.
	if err := io.renderer.SetLogicalSize(internal.ScreenWidth, internal.ScreenHeight); err != nil {
		return errors.Wrap(err, "setting logical size")
	}
	return io.clear()
}

// Destroy releases the renderer, the window and SDL itself. Failures are
// logged and otherwise ignored.
func (io *IO) Destroy() {
	if io.renderer != nil {
		if err := io.renderer.Destroy(); err != nil {
			io.log.Warn("destroying renderer", "err", err)
		}
		io.renderer = nil
	}
	if io.window != nil {
		if err := io.window.Destroy(); err != nil {
			io.log.Warn("destroying window", "err", err)
		}
		io.window = nil
	}
	sdl.Quit()
}

// Draw renders the framebuffer and presents it.
func (io *IO) Draw(fb *internal.Framebuffer) error {
	if err := io.setColor(screenColor); err != nil {
		return err
	}
	if err := io.renderer.Clear(); err != nil {
		return errors.Wrap(err, "clearing renderer")
	}

	io.points = io.points[:0]
	for y := 0; y < internal.ScreenHeight; y++ {
		for x := 0; x < internal.ScreenWidth; x++ {
			if fb[y][x] == 1 {
				io.points = append(io.points, sdl.Point{X: int32(x), Y: int32(y)})
			}
		}
	}
	if len(io.points) > 0 {
		if err := io.setColor(spriteColor); err != nil {
			return err
		}
		if err := io.renderer.DrawPoints(io.points); err != nil {
			return errors.Wrap(err, "drawing pixels")
		}
	}
	io.renderer.Present()
	return nil
}

// PollEvent returns the next SDL event relevant to the VM. Key presses that
// the layout does not map, key releases and other events are dropped.
func (io *IO) PollEvent() (internal.Event, bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch t := event.(type) {
		case *sdl.QuitEvent:
			return internal.Event{Kind: internal.EventQuit}, true
		case *sdl.WindowEvent:
			return internal.Event{Kind: internal.EventRedraw}, true
		case *sdl.KeyboardEvent:
			if t.GetType() != sdl.KEYDOWN {
				continue
			}
			if key, ok := io.layout.Translate(rune(t.Keysym.Sym)); ok {
				return internal.Event{Kind: internal.EventKeyDown, Key: key}, true
			}
		default:
			if event.GetType() == sdl.APP_TERMINATING {
				return internal.Event{Kind: internal.EventQuit}, true
			}
		}
	}
	return internal.Event{}, false
}

// Beep reports an active sound timer. There is no audio output; the event
// only shows up in the debug log.
func (io *IO) Beep() {
	io.log.Debug("beep")
}

func (io *IO) clear() error {
	if err := io.setColor(screenColor); err != nil {
		return err
	}
	if err := io.renderer.Clear(); err != nil {
		return errors.Wrap(err, "clearing renderer")
	}
	io.renderer.Present()
	return nil
}

func (io *IO) setColor(rgb uint32) error {
	err := io.renderer.SetDrawColor(uint8(rgb>>16), uint8(rgb>>8), uint8(rgb), 0xFF)
	return errors.Wrap(err, "setting draw color")
}
