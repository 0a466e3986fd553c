package internal

import "testing"

func TestLayouts(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		in     rune
		want   Key
		ok     bool
	}{
		{name: "hex digit", layout: HexLayout, in: '7', want: 0x7, ok: true},
		{name: "hex letter", layout: HexLayout, in: 'c', want: 0xC, ok: true},
		{name: "hex upper case", layout: HexLayout, in: 'F', want: 0xF, ok: true},
		{name: "hex unmapped", layout: HexLayout, in: 'g'},
		{name: "qwerty 4", layout: QwertyLayout, in: '4', want: 0xC, ok: true},
		{name: "qwerty q", layout: QwertyLayout, in: 'q', want: 0x4, ok: true},
		{name: "qwerty x", layout: QwertyLayout, in: 'X', want: 0x0, ok: true},
		{name: "qwerty v", layout: QwertyLayout, in: 'v', want: 0xF, ok: true},
		{name: "qwerty unmapped", layout: QwertyLayout, in: '5'},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := test.layout.Translate(test.in)
			if ok != test.ok {
				t.Fatalf("ok got %t want %t", ok, test.ok)
			}
			if ok && got != test.want {
				t.Errorf("key got 0x%X want 0x%X", got, test.want)
			}
		})
	}
}

func TestLayoutsCoverKeypad(t *testing.T) {
	for _, l := range []Layout{HexLayout, QwertyLayout} {
		seen := map[Key]bool{}
		for _, k := range l.keys {
			seen[k] = true
		}
		if len(seen) != KeyCount {
			t.Errorf("%s layout maps %d distinct keys, want %d", l.Name(), len(seen), KeyCount)
		}
	}
}

func TestParseLayout(t *testing.T) {
	for _, name := range []string{"hex", "HEX", "qwerty"} {
		if _, err := ParseLayout(name); err != nil {
			t.Errorf("ParseLayout(%q): %v", name, err)
		}
	}
	if _, err := ParseLayout("dvorak"); err == nil {
		t.Error("ParseLayout accepted an unknown layout")
	}
}

func TestKeypadLatch(t *testing.T) {
	var kp Keypad
	kp.Press(0x13) // only the low nibble counts
	if !kp.Pressed(0x3) {
		t.Fatal("key 3 not latched")
	}
	kp.release(0x3)
	if kp.Pressed(0x3) {
		t.Fatal("key 3 still latched")
	}
}
