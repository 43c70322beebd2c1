// Package fs implements reader.Reader against the local filesystem.
package fs

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/readpack/readpack/pkg/reader"
)

// imageExtensions are returned as opaque image fragments instead of text.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".ico":  true,
}

// Reader reads files from the local filesystem.
type Reader struct {
	root string
}

// New creates a filesystem reader. Relative paths resolve against root; an
// empty root resolves them against the working directory.
func New(root string) *Reader {
	return &Reader{root: root}
}

// ReadFile reads one file, applying the request's offset/limit line window.
// Image files come back as a single image fragment with their media type;
// other binary files are rejected.
func (r *Reader) ReadFile(ctx context.Context, req reader.Request) (*reader.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := req.Path
	if !filepath.IsAbs(path) && r.root != "" {
		path = filepath.Join(r.root, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", req.Path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if ext := strings.ToLower(filepath.Ext(path)); imageExtensions[ext] {
		return &reader.Result{
			Fragments: []reader.Fragment{{Image: data, MediaType: mediaType(ext)}},
		}, nil
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("%s appears to be a binary file", req.Path)
	}

	content := strings.TrimSuffix(string(data), "\n")
	text, trunc := reader.Window(content, req.Offset, req.Limit)
	return &reader.Result{
		Fragments:  []reader.Fragment{{Text: text}},
		Truncation: trunc,
	}, nil
}

func mediaType(ext string) string {
	if mt := mime.TypeByExtension(ext); mt != "" {
		return mt
	}
	return "application/octet-stream"
}
