package packer

import (
	"strings"
	"testing"
)

func TestBuildPartialFitsBudget(t *testing.T) {
	body := strings.Repeat("0123456789\n", 200) // ~2200 bytes, 201 lines
	body = strings.TrimSuffix(body, "\n")

	remBytes, remLines := 500, 30
	text, m, ok := buildPartial("/big.txt", body, 1, remBytes, remLines)
	if !ok {
		t.Fatal("expected a partial to fit")
	}
	if m.Bytes > remBytes || m.Lines > remLines {
		t.Fatalf("partial exceeds budget: %+v vs %d bytes / %d lines", m, remBytes, remLines)
	}
	if got := Measure(text); got != m {
		t.Fatalf("reported metrics %+v don't match measured %+v", m, got)
	}
}

func TestBuildPartialKeepsHead(t *testing.T) {
	body := "line1\nline2\nline3\nline4\nline5"
	text, _, ok := buildPartial("/f.txt", body, 1, 200, 6)
	if !ok {
		t.Fatal("expected a partial")
	}
	_, gotBody := splitBlock(t, text)
	if !strings.HasPrefix(body, gotBody) {
		t.Fatalf("partial body %q is not a prefix of the original", gotBody)
	}
	if !strings.HasPrefix(gotBody, "line1") {
		t.Fatalf("partial should keep the earliest lines, got %q", gotBody)
	}
}

func TestBuildPartialRejectsTinyBudget(t *testing.T) {
	body := "some content here"

	// Under the byte floor.
	if _, _, ok := buildPartial("/f", body, 1, 31, 100); ok {
		t.Error("expected no partial below the byte floor")
	}
	// Not enough lines for wrapper plus one body line.
	if _, _, ok := buildPartial("/f", body, 1, 1000, 3); ok {
		t.Error("expected no partial without room for a body line")
	}
}

func TestBuildPartialNeverOversized(t *testing.T) {
	body := strings.Repeat("x", 5000)
	for _, remBytes := range []int{40, 100, 150, 300} {
		text, m, ok := buildPartial("/some/longish/path/name.txt", body, 1, remBytes, 50)
		if !ok {
			continue
		}
		if m.Bytes > remBytes {
			t.Errorf("remBytes=%d: partial is %d bytes", remBytes, m.Bytes)
		}
		if got := Measure(text).Bytes; got > remBytes {
			t.Errorf("remBytes=%d: measured %d bytes", remBytes, got)
		}
	}
}

func TestHeadOf(t *testing.T) {
	s := "aa\nbb\ncc\ndd"
	if got := headOf(s, 2, 1000); got != "aa\nbb" {
		t.Errorf("line cut: got %q", got)
	}
	if got := headOf(s, 10, 1000); got != s {
		t.Errorf("no-op: got %q", got)
	}
	if got := headOf(s, 10, 4); got != "aa\nb" {
		t.Errorf("byte cut: got %q", got)
	}
	// Byte cut lands mid-rune: the partial rune is dropped.
	if got := headOf("héllo", 1, 2); got != "h" {
		t.Errorf("rune-safe cut: got %q", got)
	}
}
