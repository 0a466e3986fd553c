package internal

// Framebuffer is the 64x32 monochrome display, indexed [row][column]. A cell
// holds 1 when the pixel is lit.
type Framebuffer [ScreenHeight][ScreenWidth]uint8

// Pixel reports whether the pixel at column x, row y is lit. Coordinates
// outside the display are never lit.
func (fb *Framebuffer) Pixel(x, y int) bool {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return false
	}
	return fb[y][x] == 1
}

// Lit returns the number of lit pixels.
func (fb *Framebuffer) Lit() int {
	n := 0
	for _, row := range fb {
		for _, px := range row {
			n += int(px)
		}
	}
	return n
}

func (fb *Framebuffer) clear() {
	*fb = Framebuffer{}
}

// drawSprite XORs n rows of 8 pixels read from memory at I onto the display
// with the origin at (x, y). Both the origin and every pixel wrap around the
// display edges. It reports whether any lit pixel was turned off.
func (vm *C8VM) drawSprite(x, y, n uint8) bool {
	collision := false
	ox := int(x) % ScreenWidth
	oy := int(y) % ScreenHeight
	for row := 0; row < int(n); row++ {
		spriteByte := vm.read(vm.regI + uint16(row))
		py := (oy + row) % ScreenHeight
		for col := 0; col < 8; col++ {
			if spriteByte&(0x80>>col) == 0 {
				continue
			}
			px := &vm.pixels[py][(ox+col)%ScreenWidth]
			if *px == 1 {
				collision = true
			}
			*px ^= 1
		}
	}
	vm.dirty = true
	return collision
}
