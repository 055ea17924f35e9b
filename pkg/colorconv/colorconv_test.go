package colorconv

import (
	"fmt"
	"testing"
)

func TestHSLToHex(t *testing.T) {
	tests := []struct {
		name    string
		h, s, l float64
		want    string
	}{
		{"red", 0, 100, 50, "#ff0000"},
		{"green", 120, 100, 50, "#00ff00"},
		{"blue", 240, 100, 50, "#0000ff"},
		{"yellow", 60, 100, 50, "#ffff00"},
		{"cyan", 180, 100, 50, "#00ffff"},
		{"magenta", 300, 100, 50, "#ff00ff"},
		{"white", 0, 0, 100, "#ffffff"},
		{"black", 0, 0, 0, "#000000"},
		{"grey", 77, 0, 50, "#808080"},
		{"sky", 210, 80, 60, "#4799eb"},
		{"hue wraps", 360, 100, 50, "#ff0000"},
		{"negative hue", -120, 100, 50, "#0000ff"},
		{"clamped saturation", 0, 150, 50, "#ff0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HSLToHex(tt.h, tt.s, tt.l); got != tt.want {
				t.Errorf("HSLToHex(%v, %v, %v) = %q, want %q", tt.h, tt.s, tt.l, got, tt.want)
			}
		})
	}
}

func TestHSLRoundTrip(t *testing.T) {
	for h := 0.0; h < 360; h += 7.5 {
		for _, s := range []float64{20, 45, 60, 90} {
			for _, l := range []float64{2, 7, 40, 55, 80} {
				want := HSLToRGB(h, s, l)
				got, err := ParseHex(HSLToHex(h, s, l))
				if err != nil {
					t.Fatalf("ParseHex(HSLToHex(%v, %v, %v)): %v", h, s, l, err)
				}
				if got != want {
					t.Errorf("round trip hsl(%v, %v, %v): got %+v, want %+v", h, s, l, got, want)
				}
			}
		}
	}
}

func TestHexToRGBA(t *testing.T) {
	tests := []struct {
		hex     string
		opacity float64
		want    string
	}{
		{"#ff0000", 100, "rgba(255,0,0,1)"},
		{"#ff0000", 50, "rgba(255,0,0,0.5)"},
		{"#0a0a0a", 0, "rgba(10,10,10,0)"},
		{"#123456", 33.3, "rgba(18,52,86,0.33)"},
		{"#fff", 75, "rgba(255,255,255,0.75)"},
		{"00ff00", 10, "rgba(0,255,0,0.1)"},
		{"not-a-color", 100, "rgba(0,0,0,1)"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%v", tt.hex, tt.opacity), func(t *testing.T) {
			if got := HexToRGBA(tt.hex, tt.opacity); got != tt.want {
				t.Errorf("HexToRGBA(%q, %v) = %q, want %q", tt.hex, tt.opacity, got, tt.want)
			}
		})
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    RGB
		wantErr bool
	}{
		{"#ff8000", RGB{255, 128, 0}, false},
		{"FF8000", RGB{255, 128, 0}, false},
		{"#f80", RGB{255, 136, 0}, false},
		{" #0a0a0a ", RGB{10, 10, 10}, false},
		{"#12345", RGB{}, true},
		{"", RGB{}, true},
		{"#gggggg", RGB{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHex(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHex(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("#ABC"); got != "#aabbcc" {
		t.Errorf("Normalize(#ABC) = %q, want #aabbcc", got)
	}
	if got := Normalize("nope"); got != "nope" {
		t.Errorf("Normalize(nope) = %q, want input unchanged", got)
	}
	if !Valid("#000") || Valid("#00") {
		t.Error("Valid() disagrees with ParseHex")
	}
}

func TestIsLight(t *testing.T) {
	tests := []struct {
		hex  string
		want bool
	}{
		{"#ffffff", true},
		{"#ffff00", true},
		{"#000000", false},
		{"#0a0a0a", false},
		{"#0000ff", false},
		{"nope", false},
	}
	for _, tt := range tests {
		if got := IsLight(tt.hex); got != tt.want {
			t.Errorf("IsLight(%q) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}
