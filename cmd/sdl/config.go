package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mnafees/chip8/internal"
	"github.com/pkg/errors"
)

// Config defines program configuration.
type Config struct {
	ROM      string          // Path to the CHIP-8 program.
	Scale    int             // Window pixels per CHIP-8 pixel.
	Layout   internal.Layout // Host keyboard layout.
	Snapshot string          // If set, the last frame is written here as a PNG on exit.
	Debug    bool            // Log every executed instruction.
}

// parseArgs parses command line arguments as applicable.
//
// If an error occurred, this exits the program with an appropriate message.
// When version information is requested, it is printed to stdout and the program ends cleanly.
func parseArgs() *Config {
	c, err := parseFlags(os.Args[0], os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, errVersion):
		fmt.Println(Version())
		os.Exit(0)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(0)
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return c
}

var errVersion = errors.New("version requested")

func parseFlags(name string, args []string, out io.Writer) (*Config, error) {
	c := Config{Scale: 10}
	keymap := internal.HexLayout.Name()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprintf(out, "%s [options] <CHIP-8 program>\n", name)
		fs.PrintDefaults()
	}

	fs.IntVar(&c.Scale, "scale", c.Scale, "Window pixels per CHIP-8 pixel.")
	fs.StringVar(&keymap, "keymap", keymap, "Host keyboard layout: hex or qwerty.")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "Write the last frame to this PNG file on exit.")
	fs.BoolVar(&c.Debug, "debug", c.Debug, "Log every executed instruction.")
	version := fs.Bool("version", false, "Display version information.")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *version {
		return nil, errVersion
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("expected exactly one CHIP-8 program")
	}
	if c.Scale < 1 {
		return nil, errors.Errorf("scale must be at least 1, got %d", c.Scale)
	}

	layout, err := internal.ParseLayout(keymap)
	if err != nil {
		return nil, err
	}
	c.Layout = layout
	c.ROM = fs.Arg(0)
	return &c, nil
}
