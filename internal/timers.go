package internal

import (
	"io"
	"log/slog"
	"sync"
	"time"
)

// TimerFrequency is the rate at which the delay and sound timers count down.
const (
	TimerFrequency = 60
	TimerInterval  = time.Second / TimerFrequency
)

// Timers is the state shared between the interpreter and the timer
// coordinator: the delay timer, the sound timer and the running flag. Every
// access goes through mu.
type Timers struct {
	mu      sync.Mutex
	delay   uint8
	sound   uint8
	running bool
}

// NewTimers returns a zeroed timer block in the running state.
func NewTimers() *Timers {
	return &Timers{running: true}
}

// Delay returns the delay timer.
func (t *Timers) Delay() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.delay
}

// SetDelay loads the delay timer.
func (t *Timers) SetDelay(v uint8) {
	t.mu.Lock()
	t.delay = v
	t.mu.Unlock()
}

// Sound returns the sound timer.
func (t *Timers) Sound() uint8 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sound
}

// SetSound loads the sound timer.
func (t *Timers) SetSound(v uint8) {
	t.mu.Lock()
	t.sound = v
	t.mu.Unlock()
}

// Running reports whether the machine has not been told to shut down.
func (t *Timers) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Stop clears the running flag.
func (t *Timers) Stop() {
	t.mu.Lock()
	t.running = false
	t.mu.Unlock()
}

// Tick counts both timers down by one, stopping at zero. beep is true when
// the sound timer was non-zero. Nothing is decremented once the running flag
// is clear, and running reports the flag as observed.
func (t *Timers) Tick() (beep, running bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return false, false
	}
	if t.delay > 0 {
		t.delay--
	}
	if t.sound > 0 {
		t.sound--
		beep = true
	}
	return beep, true
}

func (t *Timers) reset() {
	t.mu.Lock()
	t.delay = 0
	t.sound = 0
	t.mu.Unlock()
}

// TimerCoordinator decrements a Timers block at a fixed cadence on its own
// goroutine, independent of how fast instructions execute.
type TimerCoordinator struct {
	timers   *Timers
	interval time.Duration
	onBeep   func()
	log      *slog.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	done      chan struct{}
}

// NewTimerCoordinator returns a coordinator for t ticking every interval.
// onBeep, if set, is called from the coordinator goroutine on every tick that
// found the sound timer active; it must not block.
func NewTimerCoordinator(t *Timers, interval time.Duration, onBeep func(), log *slog.Logger) *TimerCoordinator {
	if interval <= 0 {
		interval = TimerInterval
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &TimerCoordinator{
		timers:   t,
		interval: interval,
		onBeep:   onBeep,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start launches the coordinator goroutine. Later calls do nothing.
func (c *TimerCoordinator) Start() {
	c.startOnce.Do(func() {
		go c.loop()
	})
}

// Stop clears the running flag and waits for the goroutine to exit. It is
// safe to call more than once, and before Start.
func (c *TimerCoordinator) Stop() {
	c.stopOnce.Do(func() {
		c.timers.Stop()
		// Never started: make Wait return.
		c.startOnce.Do(func() { close(c.done) })
	})
	c.Wait()
}

// Wait blocks until the coordinator goroutine has exited.
func (c *TimerCoordinator) Wait() {
	<-c.done
}

func (c *TimerCoordinator) loop() {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.log.Debug("timer coordinator started", "interval", c.interval)
	for range ticker.C {
		beep, running := c.timers.Tick()
		if !running {
			break
		}
		if beep && c.onBeep != nil {
			c.onBeep()
		}
	}
	c.log.Debug("timer coordinator stopped")
}
