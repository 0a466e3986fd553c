package internal

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// EventKind enumerates the input events a frontend can deliver.
type EventKind int

const (
	EventNone    EventKind = iota // No event.
	EventKeyDown                  // A host key mapped to a keypad key went down.
	EventQuit                     // The user asked to quit.
	EventRedraw                   // The window needs repainting (exposed, resized).
)

// Event is a single input event, already translated to a keypad key.
type Event struct {
	Kind EventKind
	Key  Key
}

// EventSource yields pending input events without blocking. ok is false when
// no event is queued.
type EventSource interface {
	PollEvent() (ev Event, ok bool)
}

// Display presents a framebuffer.
type Display interface {
	Draw(fb *Framebuffer) error
}

// DefaultCycleDelay is the pause between two instruction cycles.
const DefaultCycleDelay = time.Millisecond

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	// CycleDelay is slept after every cycle. Negative disables the pause,
	// zero selects DefaultCycleDelay.
	CycleDelay time.Duration
	// TimerInterval overrides the 60 Hz timer cadence.
	TimerInterval time.Duration
	// OnBeep is called from the timer goroutine whenever the sound timer is
	// active on a tick.
	OnBeep func()
	// Logger receives diagnostics. A nil logger discards them.
	Logger *slog.Logger
}

// Runner is the driving loop: it feeds input to the VM, runs cycles, presents
// frames and owns the timer coordinator.
type Runner struct {
	vm      *C8VM
	events  EventSource
	display Display
	timers  *TimerCoordinator
	delay   time.Duration
	log     *slog.Logger
	cycles  uint64
}

// NewRunner wires a VM to its frontend collaborators.
func NewRunner(vm *C8VM, events EventSource, display Display, opts RunnerOptions) *Runner {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	delay := opts.CycleDelay
	if delay == 0 {
		delay = DefaultCycleDelay
	}
	return &Runner{
		vm:      vm,
		events:  events,
		display: display,
		timers:  NewTimerCoordinator(vm.Timers(), opts.TimerInterval, opts.OnBeep, log),
		delay:   delay,
		log:     log,
	}
}

// Cycles returns the number of instruction cycles executed so far.
func (r *Runner) Cycles() uint64 {
	return r.cycles
}

// Run executes the program until the event source reports a quit, ctx is
// cancelled or a fatal error occurs. Quitting and cancellation return nil.
// The timer coordinator has fully stopped by the time Run returns.
func (r *Runner) Run(ctx context.Context) error {
	r.timers.Start()
	defer r.timers.Stop()

	r.log.Info("running", "pc", hex12(r.vm.PC()))
	for {
		if ctx.Err() != nil {
			r.log.Info("cancelled", "cycles", r.cycles)
			return nil
		}

		redraw, quit := r.pollEvents()
		if quit {
			r.log.Info("quit", "cycles", r.cycles)
			return nil
		}

		if !r.vm.AwaitingKey() {
			if _, err := r.vm.Step(); err != nil {
				var unknown UnknownOpcodeError
				if !errors.As(err, &unknown) {
					return errors.Wrap(err, "executing program")
				}
				r.log.Warn("skipping unknown opcode", "opcode", hex16(unknown.Opcode), "pc", hex12(unknown.PC))
			}
			r.cycles++
		}

		if fb, ok := r.vm.TakeFrame(); ok {
			if err := r.display.Draw(&fb); err != nil {
				return errors.Wrap(err, "presenting frame")
			}
		} else if redraw {
			fb := r.vm.Framebuffer()
			if err := r.display.Draw(&fb); err != nil {
				return errors.Wrap(err, "presenting frame")
			}
		}

		if r.delay > 0 {
			time.Sleep(r.delay)
		}
	}
}

// pollEvents drains the event source. Key presses complete a pending Fx0A or
// set the keypad latch.
func (r *Runner) pollEvents() (redraw, quit bool) {
	for {
		ev, ok := r.events.PollEvent()
		if !ok {
			return redraw, false
		}
		switch ev.Kind {
		case EventQuit:
			return redraw, true
		case EventRedraw:
			redraw = true
		case EventKeyDown:
			if !r.vm.ProvideKey(ev.Key) {
				r.vm.PressKey(ev.Key)
			}
		}
	}
}
