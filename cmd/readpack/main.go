// readpack - batched file reads for LLM context
//
// Reads several files in one call and packs their contents into a single
// bounded, delimiter-framed text blob.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "readpack",
	Short: "readpack - batched file reads for LLM context",
	Long: `readpack reads several files in one call and packs their contents into a
single bounded text blob, each file framed by a collision-free delimiter.

  readpack pack main.go util.go            Pack local files
  readpack pack --repo owner/repo a.go     Pack files from a GitHub repo
  readpack serve                           Start the HTTP API server
  readpack history                         List recent pack invocations`,
	Version: version,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
