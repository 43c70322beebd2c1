package readpack

import (
	"fmt"
	"os"
	"path/filepath"

	readerfs "github.com/readpack/readpack/pkg/reader/fs"
	"github.com/readpack/readpack/store/sqlite"
)

// applyDefaults fills in missing fields on the builder with sensible defaults.
func applyDefaults(b *Builder) error {
	// Config defaults.
	if b.config.ServerAddr == "" {
		b.config.ServerAddr = ":7090"
	}
	if b.config.DataDir == "" {
		b.config.DataDir = defaultDataDir()
	}
	if b.config.DatabasePath == "" {
		b.config.DatabasePath = filepath.Join(b.config.DataDir, "readpack.db")
	}
	if b.config.MaxTotalBytes == 0 {
		b.config.MaxTotalBytes = 100_000
	}
	if b.config.MaxTotalLines == 0 {
		b.config.MaxTotalLines = 2_000
	}

	// Ensure data dir exists.
	if err := os.MkdirAll(b.config.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Reader: local filesystem, working-directory relative.
	if b.reader == nil {
		b.reader = readerfs.New("")
	}

	// Store.
	if b.store == nil {
		st, err := sqlite.New(b.config.DatabasePath)
		if err != nil {
			return fmt.Errorf("initializing store: %w", err)
		}
		b.store = st
	}

	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".readpack"
	}
	return filepath.Join(home, ".readpack")
}
