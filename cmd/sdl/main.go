package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/mnafees/chip8/internal"
	"github.com/mnafees/chip8/pkg/sdl"
	"github.com/mnafees/chip8/pkg/snapshot"
)

// SDL has to be driven from the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	c := parseArgs()

	level := slog.LevelInfo
	if c.Debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(c, log); err != nil {
		log.Error("chip8 stopped", "err", err)
		os.Exit(1)
	}
}

func run(c *Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	vm := internal.NewC8VM(internal.Options{Logger: log})
	if err := vm.LoadProgramFile(c.ROM); err != nil {
		return err
	}

	io := sdl.NewIO(c.Layout, log)
	defer io.Destroy()
	if err := io.SetupWindow("CHIP-8 | "+c.ROM, c.Scale); err != nil {
		return err
	}

	var display internal.Display = io
	var recorder *snapshot.Recorder
	if c.Snapshot != "" {
		recorder = snapshot.NewRecorder(io, c.Scale)
		display = recorder
	}

	runner := internal.NewRunner(vm, io, display, internal.RunnerOptions{
		OnBeep: io.Beep,
		Logger: log,
	})
	err := runner.Run(ctx)

	if recorder != nil {
		if serr := recorder.Save(c.Snapshot); serr != nil {
			log.Warn("saving snapshot", "path", c.Snapshot, "err", serr)
		} else {
			log.Info("snapshot written", "path", c.Snapshot, "frames", recorder.Frames())
		}
	}
	return err
}
