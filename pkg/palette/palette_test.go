package palette

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAtSkipsOutOfRange(t *testing.T) {
	p := Default()[:4]

	tests := []struct {
		name  string
		index int
		ok    bool
	}{
		{"first", 0, true},
		{"last", 3, true},
		{"past end", 7, false},
		{"negative", -1, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := p.At(tc.index)
			if ok != tc.ok {
				t.Fatalf("At(%d) ok = %v, want %v", tc.index, ok, tc.ok)
			}
			if ok && c != p[tc.index] {
				t.Errorf("At(%d) = %v, want %v", tc.index, c, p[tc.index])
			}
		})
	}
}

func TestClamp(t *testing.T) {
	p := Default()[:3]

	if c, _ := p.Clamp(9); c != p[2] {
		t.Errorf("Clamp(9) = %v, want last color %v", c, p[2])
	}
	if c, _ := p.Clamp(-2); c != p[0] {
		t.Errorf("Clamp(-2) = %v, want first color %v", c, p[0])
	}
	if _, ok := Palette(nil).Clamp(0); ok {
		t.Error("Clamp on empty palette should report !ok")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := Default()
	q := p.Clone()
	q[0] = color.RGBA{1, 2, 3, 4}

	if p.Equal(q) {
		t.Error("mutating the clone changed the original")
	}
	if diff := cmp.Diff(Default(), p); diff != "" {
		t.Errorf("original palette changed (-want +got):\n%s", diff)
	}
}

func TestEncodeHex(t *testing.T) {
	tests := []struct {
		c    color.RGBA
		want string
	}{
		{color.RGBA{255, 0, 0, 255}, "FF0000FF"},
		{color.RGBA{128, 128, 128, 255}, "808080FF"},
		{color.RGBA{0x0a, 0xb0, 0x0c, 0x01}, "0AB00C01"},
		{color.RGBA{}, "00000000"},
	}

	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			if got := EncodeHex(tc.c); got != tc.want {
				t.Errorf("EncodeHex(%v) = %q, want %q", tc.c, got, tc.want)
			}
		})
	}
}

func TestDecodeHex(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want color.RGBA
	}{
		{"rrggbbaa", "FF8000C0", color.RGBA{255, 128, 0, 192}},
		{"lowercase with hash", "#ff8000c0", color.RGBA{255, 128, 0, 192}},
		{"rrggbb opaque", "102030", color.RGBA{0x10, 0x20, 0x30, 255}},
		{"rgb short", "#f80", color.RGBA{0xff, 0x88, 0x00, 255}},
		{"rgba short", "f808", color.RGBA{0xff, 0x88, 0x00, 0x88}},
		{"empty", "", color.RGBA{}},
		{"bad length", "FF00F", color.RGBA{}},
		{"not hex", "GG0000FF", color.RGBA{}},
		{"sign", "+F0000FF", color.RGBA{}},
		{"garbage", "red", color.RGBA{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeHex(tc.in); got != tc.want {
				t.Errorf("DecodeHex(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range Default() {
		if got := DecodeHex(EncodeHex(c)); got != c {
			t.Errorf("round trip %v -> %v", c, got)
		}
	}

	// Every channel value must survive bit-exact.
	for v := range 256 {
		c := color.RGBA{uint8(v), uint8(255 - v), uint8(v / 2), uint8(v)}
		if got := DecodeHex(EncodeHex(c)); got != c {
			t.Fatalf("round trip %v -> %v", c, got)
		}
	}
}
