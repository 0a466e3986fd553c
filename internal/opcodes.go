package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Step runs one fetch-decode-execute cycle and reports whether the display
// needs to be redrawn. While the VM waits for a key (Fx0A) it does nothing.
//
// An UnknownOpcodeError leaves the PC on the following instruction and the VM
// usable. Stack errors leave the state untouched and are fatal.
func (vm *C8VM) Step() (bool, error) {
	if vm.waiting {
		return false, nil
	}

	vm.opcode = vm.fetch()
	if vm.log.Enabled(context.Background(), slog.LevelDebug) {
		vm.log.Debug("exec", "pc", hex12(vm.pc), "opcode", hex16(vm.opcode))
	}

	x := uint8((vm.opcode >> 8) & 0x000F) // the lower 4 bits of the high byte of the instruction
	y := uint8((vm.opcode >> 4) & 0x000F) // the upper 4 bits of the low byte of the instruction
	n := uint8(vm.opcode & 0x000F)        // the lowest 4 bits of the instruction
	kk := uint8(vm.opcode & 0x00FF)       // the lowest 8 bits of the instruction
	nnn := vm.opcode & 0x0FFF             // the lowest 12 bits of the instruction

	switch vm.opcode & 0xF000 { // Compare against the first 4 bits of the instruction only
	case 0x0000:
		switch vm.opcode {
		case 0x00E0: // CLS
			vm.pixels.clear()
			vm.dirty = true
			vm.next()
		case 0x00EE: // RET
			if vm.sp == 0 {
				return false, errors.Wrapf(ErrStackUnderflow, "RET at 0x%03X", vm.pc)
			}
			vm.sp--
			vm.pc = vm.stack[vm.sp]
		default:
			return false, vm.unknownOpcode()
		}
	case 0x1000: // JP nnn
		vm.pc = nnn
	case 0x2000: // CALL nnn
		if int(vm.sp) >= StackSize {
			return false, errors.Wrapf(ErrStackOverflow, "CALL 0x%03X at 0x%03X", nnn, vm.pc)
		}
		vm.stack[vm.sp] = (vm.pc + 2) & addrMask
		vm.sp++
		vm.pc = nnn
	case 0x3000: // SE Vx, kk
		vm.skipIf(vm.regV[x] == kk)
	case 0x4000: // SNE Vx, kk
		vm.skipIf(vm.regV[x] != kk)
	case 0x5000:
		if n != 0 {
			return false, vm.unknownOpcode()
		}
		vm.skipIf(vm.regV[x] == vm.regV[y]) // SE Vx, Vy
	case 0x6000: // LD Vx, kk
		vm.regV[x] = kk
		vm.next()
	case 0x7000: // ADD Vx, kk
		vm.regV[x] += kk
		vm.next()
	case 0x8000:
		if !vm.alu(x, y, n) {
			return false, vm.unknownOpcode()
		}
		vm.next()
	case 0x9000:
		if n != 0 {
			return false, vm.unknownOpcode()
		}
		vm.skipIf(vm.regV[x] != vm.regV[y]) // SNE Vx, Vy
	case 0xA000: // LD I, nnn
		vm.regI = nnn
		vm.next()
	case 0xB000: // JP V0, nnn
		vm.pc = (nnn + uint16(vm.regV[0])) & addrMask
	case 0xC000: // RND Vx, kk
		vm.regV[x] = vm.rand.Byte() & kk
		vm.next()
	case 0xD000: // DRW Vx, Vy, n
		vx, vy := vm.regV[x], vm.regV[y]
		vm.regV[flagReg] = 0
		if vm.drawSprite(vx, vy, n) {
			vm.regV[flagReg] = 1
		}
		vm.next()
	case 0xE000:
		switch kk {
		case 0x9E: // SKP Vx
			k := Key(vm.regV[x])
			pressed := vm.keys.Pressed(k)
			if pressed {
				vm.keys.release(k)
			}
			vm.skipIf(pressed)
		case 0xA1: // SKNP Vx
			k := Key(vm.regV[x])
			pressed := vm.keys.Pressed(k)
			if pressed {
				vm.keys.release(k)
			}
			vm.skipIf(!pressed)
		default:
			return false, vm.unknownOpcode()
		}
	case 0xF000:
		if !vm.misc(x, kk) {
			return false, vm.unknownOpcode()
		}
	}
	return vm.dirty, nil
}

// alu executes the 8xyN register-register group. It reports false for an
// undefined N. VF is always written last, so a flag wins over a result
// stored in VF.
func (vm *C8VM) alu(x, y, n uint8) bool {
	vx, vy := vm.regV[x], vm.regV[y]
	var flag uint8
	switch n {
	case 0x0: // LD Vx, Vy
		vm.regV[x] = vy
		return true
	case 0x1: // OR Vx, Vy
		vm.regV[x] = vx | vy
		return true
	case 0x2: // AND Vx, Vy
		vm.regV[x] = vx & vy
		return true
	case 0x3: // XOR Vx, Vy
		vm.regV[x] = vx ^ vy
		return true
	case 0x4: // ADD Vx, Vy
		sum := uint16(vx) + uint16(vy)
		if sum > 0xFF {
			flag = 1
		}
		vm.regV[x] = uint8(sum)
	case 0x5: // SUB Vx, Vy
		if vx > vy {
			flag = 1
		}
		vm.regV[x] = vx - vy
	case 0x6: // SHR Vx {, Vy}
		flag = vx & 0x01
		vm.regV[x] = vx >> 1
	case 0x7: // SUBN Vx, Vy
		if vy > vx {
			flag = 1
		}
		vm.regV[x] = vy - vx
	case 0xE: // SHL Vx {, Vy}
		flag = vx >> 7
		vm.regV[x] = vx << 1
	default:
		return false
	}
	vm.regV[flagReg] = flag
	return true
}

// misc executes the Fxkk group. It reports false for an undefined kk. Every
// defined instruction except Fx0A advances the PC.
func (vm *C8VM) misc(x, kk uint8) bool {
	switch kk {
	case 0x07: // LD Vx, DT
		vm.regV[x] = vm.timers.Delay()
	case 0x0A: // LD Vx, K
		vm.waiting = true
		vm.waitReg = x
		vm.log.Debug("waiting for key", "register", x)
		return true
	case 0x15: // LD DT, Vx
		vm.timers.SetDelay(vm.regV[x])
	case 0x18: // LD ST, Vx
		vm.timers.SetSound(vm.regV[x])
	case 0x1E: // ADD I, Vx
		vm.regI += uint16(vm.regV[x])
	case 0x29: // LD F, Vx
		vm.regI = FontAddr(vm.regV[x])
	case 0x33: // LD B, Vx
		v := vm.regV[x]
		vm.write(vm.regI, v/100)
		vm.write(vm.regI+1, (v/10)%10)
		vm.write(vm.regI+2, v%10)
	case 0x55: // LD [I], Vx
		for i := uint16(0); i <= uint16(x); i++ {
			vm.write(vm.regI+i, vm.regV[i])
		}
	case 0x65: // LD Vx, [I]
		for i := uint16(0); i <= uint16(x); i++ {
			vm.regV[i] = vm.read(vm.regI + i)
		}
	default:
		return false
	}
	vm.next()
	return true
}

func (vm *C8VM) next() {
	vm.pc = (vm.pc + 2) & addrMask
}

func (vm *C8VM) skipIf(cond bool) {
	if cond {
		vm.next()
	}
	vm.next()
}

func (vm *C8VM) unknownOpcode() error {
	err := UnknownOpcodeError{Opcode: vm.opcode, PC: vm.pc}
	vm.next()
	return err
}

func hex12(v uint16) string {
	return fmt.Sprintf("0x%03X", v)
}

func hex16(v uint16) string {
	return fmt.Sprintf("0x%04X", v)
}
