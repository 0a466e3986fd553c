package internal

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// ReadROM reads a program image from r. Images larger than MaxProgramSize are
// rejected without reading past the limit.
func ReadROM(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxProgramSize+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading program")
	}
	if len(data) > MaxProgramSize {
		return nil, errors.Wrapf(ErrProgramTooLarge, "more than %d bytes", MaxProgramSize)
	}
	return data, nil
}

// ReadROMFile opens and reads the program image at path.
func ReadROMFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading program")
	}
	defer f.Close()

	data, err := ReadROM(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return data, nil
}

// LoadProgramFile reads the program image at path into memory at 0x200.
func (vm *C8VM) LoadProgramFile(path string) error {
	data, err := ReadROMFile(path)
	if err != nil {
		return err
	}
	return vm.LoadProgram(data)
}
