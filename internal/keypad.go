package internal

import (
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// KeyCount is the number of keys on the hex keypad.
const KeyCount = 16

// Key identifies one of the hex keypad keys 0x0-0xF.
type Key uint8

// Keypad holds one latch per key. A latch is set by input and stays set until
// an instruction consumes it.
type Keypad [KeyCount]bool

// Press latches key k.
func (kp *Keypad) Press(k Key) {
	kp[k&0xF] = true
}

// Pressed reports whether key k is latched.
func (kp *Keypad) Pressed(k Key) bool {
	return kp[k&0xF]
}

func (kp *Keypad) release(k Key) {
	kp[k&0xF] = false
}

func (kp *Keypad) clear() {
	*kp = Keypad{}
}

// Layout maps characters typed on a host keyboard to keypad keys.
type Layout struct {
	name string
	keys map[rune]Key
}

// HexLayout maps the keys 0-9 and A-F to the keypad key of the same value.
var HexLayout = Layout{
	name: "hex",
	keys: map[rune]Key{
		'0': 0x0, '1': 0x1, '2': 0x2, '3': 0x3,
		'4': 0x4, '5': 0x5, '6': 0x6, '7': 0x7,
		'8': 0x8, '9': 0x9, 'a': 0xA, 'b': 0xB,
		'c': 0xC, 'd': 0xD, 'e': 0xE, 'f': 0xF,
	},
}

// QwertyLayout maps the left 4x4 block of a QWERTY keyboard onto the keypad.
// +--------+--------+--------+--------+
// | 1 -> 1 | 2 -> 2 | 3 -> 3 | 4 -> C |
// +--------+--------+--------+--------+
// | Q -> 4 | W -> 5 | E -> 6 | R -> D |
// +--------+--------+--------+--------+
// | A -> 7 | S -> 8 | D -> 9 | F -> E |
// +--------+--------+--------+--------+
// | Z -> A | X -> 0 | C -> B | V -> F |
// +--------+--------+--------+--------+
var QwertyLayout = Layout{
	name: "qwerty",
	keys: map[rune]Key{
		'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
		'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
		'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
		'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
	},
}

// ParseLayout returns the layout with the given name.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(name) {
	case HexLayout.name:
		return HexLayout, nil
	case QwertyLayout.name:
		return QwertyLayout, nil
	}
	return Layout{}, errors.Errorf("unknown key layout %q", name)
}

// Name returns the layout name as accepted by ParseLayout.
func (l Layout) Name() string {
	return l.name
}

// Translate maps a typed character to a keypad key. Characters outside the
// layout are reported with ok == false.
func (l Layout) Translate(r rune) (k Key, ok bool) {
	k, ok = l.keys[unicode.ToLower(r)]
	return k, ok
}
