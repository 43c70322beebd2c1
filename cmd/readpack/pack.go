package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/readpack/readpack/internal/config"
	"github.com/readpack/readpack/pkg/packer"
	"github.com/readpack/readpack/pkg/reader"
	readerfs "github.com/readpack/readpack/pkg/reader/fs"
	readergh "github.com/readpack/readpack/pkg/reader/github"
)

var packCmd = &cobra.Command{
	Use:   "pack <file> [file...]",
	Short: "Read files and pack them into one framed blob",
	Long: `Read each file sequentially and pack the contents into a single text blob
bounded by the byte/line budget. Each file is framed as:

  @<path>
  <<'<delimiter>'
  <body>
  <delimiter>

A file entry may carry its own line window as path:offset:limit, e.g.
"main.go:100:50" reads 50 lines starting at line 100.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPack,
}

var (
	packRepo        string
	packRef         string
	packOffset      int
	packLimit       int
	packMaxBytes    int
	packMaxLines    int
	packStopOnError bool
	packJSON        bool
)

func init() {
	packCmd.Flags().StringVar(&packRepo, "repo", "", "read from a GitHub repo (owner/repo) instead of the filesystem")
	packCmd.Flags().StringVar(&packRef, "ref", "", "GitHub branch, tag, or SHA (default: the repo's default branch)")
	packCmd.Flags().IntVar(&packOffset, "offset", 0, "1-based first line to read, applied to every file")
	packCmd.Flags().IntVar(&packLimit, "limit", 0, "max lines to read per file (0 = no limit)")
	packCmd.Flags().IntVar(&packMaxBytes, "max-bytes", 0, "combined output byte ceiling (default from config)")
	packCmd.Flags().IntVar(&packMaxLines, "max-lines", 0, "combined output line ceiling (default from config)")
	packCmd.Flags().BoolVar(&packStopOnError, "stop-on-error", false, "stop reading after the first failing file")
	packCmd.Flags().BoolVar(&packJSON, "json", false, "print the full structured result as JSON")
	rootCmd.AddCommand(packCmd)
}

func runPack(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if packMaxBytes > 0 {
		cfg.MaxTotalBytes = packMaxBytes
	}
	if packMaxLines > 0 {
		cfg.MaxTotalLines = packMaxLines
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	files := make([]packer.FileRequest, 0, len(args))
	for _, arg := range args {
		req, err := parseFileArg(arg)
		if err != nil {
			return err
		}
		if req.Offset == 0 {
			req.Offset = packOffset
		}
		if req.Limit == 0 {
			req.Limit = packLimit
		}
		files = append(files, req)
	}

	var rd reader.Reader
	if packRepo != "" {
		rd, err = readergh.New(packRepo, packRef, cfg.GitHubToken)
		if err != nil {
			return err
		}
	} else {
		rd = readerfs.New("")
	}

	p, err := packer.New(rd, packer.Budget{MaxBytes: cfg.MaxTotalBytes, MaxLines: cfg.MaxTotalLines})
	if err != nil {
		return err
	}

	result, err := p.Pack(cmd.Context(), files, packer.Options{StopOnError: packStopOnError})
	if err != nil {
		return err
	}

	if packJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Println(result.Text)
	if result.PartialPath != "" {
		fmt.Fprintf(os.Stderr, "note: %s included partially\n", result.PartialPath)
	}
	for _, path := range result.OmittedPaths {
		fmt.Fprintf(os.Stderr, "note: %s omitted (over budget)\n", path)
	}
	if result.Switched {
		fmt.Fprintln(os.Stderr, "note: packed smallest-first to fit more files")
	}
	return nil
}

// parseFileArg splits an optional trailing ":offset:limit" window off a file
// argument. Both numbers must parse for the suffix to count as a window, so
// paths containing colons still work.
func parseFileArg(arg string) (packer.FileRequest, error) {
	parts := strings.Split(arg, ":")
	if len(parts) >= 3 {
		var offset, limit int
		_, errOff := fmt.Sscanf(parts[len(parts)-2], "%d", &offset)
		_, errLim := fmt.Sscanf(parts[len(parts)-1], "%d", &limit)
		if errOff == nil && errLim == nil {
			if offset < 0 || limit < 0 {
				return packer.FileRequest{}, fmt.Errorf("negative offset/limit in %q", arg)
			}
			return packer.FileRequest{
				Path:   strings.Join(parts[:len(parts)-2], ":"),
				Offset: offset,
				Limit:  limit,
			}, nil
		}
	}
	return packer.FileRequest{Path: arg}, nil
}
