package packer

import "testing"

func TestMeasure(t *testing.T) {
	cases := []struct {
		name  string
		text  string
		bytes int
		lines int
	}{
		{"empty", "", 0, 1},
		{"single line", "hello", 5, 1},
		{"two lines", "a\nb", 3, 2},
		{"trailing newline adds empty segment", "a\nb\n", 4, 3},
		{"multibyte", "héllo", 6, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Measure(tc.text)
			if m.Bytes != tc.bytes {
				t.Errorf("bytes: got %d, want %d", m.Bytes, tc.bytes)
			}
			if m.Lines != tc.lines {
				t.Errorf("lines: got %d, want %d", m.Lines, tc.lines)
			}
		})
	}
}

func TestFitsWithin(t *testing.T) {
	b := Budget{MaxBytes: 10, MaxLines: 2}
	if !(TextMetrics{Bytes: 10, Lines: 2}).FitsWithin(b) {
		t.Error("exact fit should pass")
	}
	if (TextMetrics{Bytes: 11, Lines: 1}).FitsWithin(b) {
		t.Error("byte overflow should fail")
	}
	if (TextMetrics{Bytes: 1, Lines: 3}).FitsWithin(b) {
		t.Error("line overflow should fail")
	}
}
