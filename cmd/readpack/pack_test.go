package main

import "testing"

func TestParseFileArg(t *testing.T) {
	cases := []struct {
		arg    string
		path   string
		offset int
		limit  int
	}{
		{"main.go", "main.go", 0, 0},
		{"main.go:100:50", "main.go", 100, 50},
		{"dir/file.txt:1:0", "dir/file.txt", 1, 0},
		// A colon that isn't a window stays part of the path.
		{"c:thing.txt", "c:thing.txt", 0, 0},
		{"weird:name:10:5", "weird:name", 10, 5},
	}
	for _, tc := range cases {
		req, err := parseFileArg(tc.arg)
		if err != nil {
			t.Errorf("%q: %v", tc.arg, err)
			continue
		}
		if req.Path != tc.path || req.Offset != tc.offset || req.Limit != tc.limit {
			t.Errorf("%q: got %+v", tc.arg, req)
		}
	}
}

func TestParseFileArgNegative(t *testing.T) {
	if _, err := parseFileArg("f.txt:-1:5"); err == nil {
		t.Error("expected error for negative offset")
	}
}
