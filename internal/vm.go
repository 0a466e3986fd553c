package internal

// Follows the CHIP-8 technical reference found at http://devernay.free.fr/hacks/chip8/C8TECH10.HTM

import (
	"io"
	"log/slog"
)

// CHIP-8 VM constants
const (
	totalMemory    = 0x1000
	addrMask       = totalMemory - 1
	pcStartAddr    = 0x200
	MaxProgramSize = totalMemory - pcStartAddr

	StackSize     = 16
	RegisterCount = 16
	flagReg       = 0xF

	ScreenWidth  = 64
	ScreenHeight = 32
)

// C8VM is an emulated CHIP-8 VM
type C8VM struct {
	opcode  uint16               // 16-bit opcode of the current instruction
	regV    [RegisterCount]uint8 // 16 general purpose 8-bit registers
	regI    uint16               // 16-bit register that is generally used to store memory addresses
	pc      uint16               // Program counter
	sp      uint8                // Stack pointer
	stack   [StackSize]uint16    // A stack of 16 16-bit return addresses
	memory  [totalMemory]uint8   // 4 KB global memory
	timers  *Timers              // Delay/sound timers, shared with the timer coordinator
	keys    Keypad               // Latched key presses
	pixels  Framebuffer          // 64 px x 32 px display
	dirty   bool                 // A redraw is owed to the display
	waiting bool                 // Suspended in Fx0A
	waitReg uint8                // Register that receives the Fx0A key
	rand    RandomSource         // Byte source for RND
	log     *slog.Logger
}

// Options configures a new VM. The zero value is usable.
type Options struct {
	// Logger receives diagnostics. A nil logger discards them.
	Logger *slog.Logger
	// Rand supplies the bytes for RND. Defaults to a PCG source seeded from the runtime.
	Rand RandomSource
	// Timers lets the caller share a timer block with a coordinator created up front.
	Timers *Timers
}

// NewC8VM creates a new instance of an emulated CHIP-8 VM in its power-on state.
func NewC8VM(opts Options) *C8VM {
	vm := &C8VM{
		timers: opts.Timers,
		rand:   opts.Rand,
		log:    opts.Logger,
	}
	if vm.timers == nil {
		vm.timers = NewTimers()
	}
	if vm.rand == nil {
		vm.rand = NewRandom()
	}
	if vm.log == nil {
		vm.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	vm.Reset()
	return vm
}

// Reset puts the VM back into its power-on state. Memory is zeroed, so any
// program has to be loaded again.
func (vm *C8VM) Reset() {
	vm.opcode = 0
	vm.regV = [RegisterCount]uint8{}
	vm.regI = 0
	vm.pc = pcStartAddr
	vm.sp = 0
	vm.stack = [StackSize]uint16{}
	vm.memory = [totalMemory]uint8{}
	copy(vm.memory[fontStartAddr:], fontset)
	vm.keys.clear()
	vm.pixels.clear()
	vm.dirty = false
	vm.waiting = false
	vm.waitReg = 0
	vm.timers.reset()
}

// LoadProgram copies a program image into memory at 0x200.
func (vm *C8VM) LoadProgram(data []byte) error {
	if len(data) > MaxProgramSize {
		return errProgramSize(len(data))
	}
	copy(vm.memory[pcStartAddr:], data)
	vm.log.Info("program loaded", "at", "0x200", "size", len(data))
	return nil
}

// PC returns the program counter.
func (vm *C8VM) PC() uint16 {
	return vm.pc
}

// I returns the index register.
func (vm *C8VM) I() uint16 {
	return vm.regI
}

// V returns the value of register Vx.
func (vm *C8VM) V(x uint8) uint8 {
	return vm.regV[x&0xF]
}

// SP returns the number of return addresses on the stack.
func (vm *C8VM) SP() uint8 {
	return vm.sp
}

// Opcode returns the most recently fetched opcode.
func (vm *C8VM) Opcode() uint16 {
	return vm.opcode
}

// Memory returns a copy of the 4 KB address space.
func (vm *C8VM) Memory() [totalMemory]uint8 {
	return vm.memory
}

// Timers returns the timer block shared with the timer coordinator.
func (vm *C8VM) Timers() *Timers {
	return vm.timers
}

// Framebuffer returns a copy of the current display contents.
func (vm *C8VM) Framebuffer() Framebuffer {
	return vm.pixels
}

// Dirty reports whether a redraw is owed since the last TakeFrame.
func (vm *C8VM) Dirty() bool {
	return vm.dirty
}

// TakeFrame hands out the framebuffer if a redraw is owed and clears the
// dirty flag. The second result is false when nothing changed.
func (vm *C8VM) TakeFrame() (Framebuffer, bool) {
	if !vm.dirty {
		return Framebuffer{}, false
	}
	vm.dirty = false
	return vm.pixels, true
}

// PressKey latches key k as pressed.
func (vm *C8VM) PressKey(k Key) {
	vm.keys.Press(k)
}

// KeyPressed reports whether key k is latched.
func (vm *C8VM) KeyPressed(k Key) bool {
	return vm.keys.Pressed(k)
}

// AwaitingKey reports whether the VM is suspended in Fx0A.
func (vm *C8VM) AwaitingKey() bool {
	return vm.waiting
}

// ProvideKey completes a pending Fx0A: Vx receives k and execution resumes at
// the next instruction. It returns false if no key was awaited.
func (vm *C8VM) ProvideKey(k Key) bool {
	if !vm.waiting {
		return false
	}
	vm.regV[vm.waitReg] = uint8(k) & 0xF
	vm.waiting = false
	vm.pc = (vm.pc + 2) & addrMask
	return true
}

func (vm *C8VM) read(addr uint16) uint8 {
	return vm.memory[addr&addrMask]
}

func (vm *C8VM) write(addr uint16, val uint8) {
	vm.memory[addr&addrMask] = val
}

func (vm *C8VM) fetch() uint16 {
	return uint16(vm.read(vm.pc))<<8 | uint16(vm.read(vm.pc+1))
}
