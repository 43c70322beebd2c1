package packer

import (
	"strings"
	"testing"
)

// splitBlock recovers (path, body) from a framed block by scanning the
// header and marker lines, the way a downstream consumer would.
func splitBlock(t *testing.T, block string) (path, body string) {
	t.Helper()
	lines := strings.Split(block, "\n")
	if len(lines) < 3 {
		t.Fatalf("block too short: %q", block)
	}
	if !strings.HasPrefix(lines[0], "@") {
		t.Fatalf("missing @path header: %q", lines[0])
	}
	path = strings.TrimPrefix(lines[0], "@")

	open := lines[1]
	if !strings.HasPrefix(open, "<<'") || !strings.HasSuffix(open, "'") {
		t.Fatalf("malformed opening marker: %q", open)
	}
	delim := strings.TrimSuffix(strings.TrimPrefix(open, "<<'"), "'")

	if lines[len(lines)-1] != delim {
		t.Fatalf("closing line %q does not match delimiter %q", lines[len(lines)-1], delim)
	}
	return path, strings.Join(lines[2:len(lines)-1], "\n")
}

func TestFormatBlockWireFormat(t *testing.T) {
	block := FormatBlock("/src/a.go", "package a", 1)

	lines := strings.Split(block, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), block)
	}
	if lines[0] != "@/src/a.go" {
		t.Errorf("header: got %q", lines[0])
	}
	if lines[2] != "package a" {
		t.Errorf("body line: got %q", lines[2])
	}
}

func TestFormatBlockRoundTrip(t *testing.T) {
	bodies := []string{
		"package a",
		"",
		"multi\nline\nbody",
		"trailing newline\n",
		"unicode: héllo wörld",
	}
	for _, body := range bodies {
		block := FormatBlock("/some/path.txt", body, 2)
		gotPath, gotBody := splitBlock(t, block)
		if gotPath != "/some/path.txt" {
			t.Errorf("path: got %q", gotPath)
		}
		if gotBody != body {
			t.Errorf("body round trip failed:\n got %q\nwant %q", gotBody, body)
		}
	}
}

func TestFormatBlockHostileBody(t *testing.T) {
	// A body that contains what looks like the delimiter must still split
	// cleanly, because the allocator probes past the collision.
	d := Delimiter("/f", 1, "")
	body := "before\n" + d + "\nafter"
	block := FormatBlock("/f", body, 1)
	_, gotBody := splitBlock(t, block)
	if gotBody != body {
		t.Fatalf("hostile body corrupted framing:\n got %q\nwant %q", gotBody, body)
	}
}
