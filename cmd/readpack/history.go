package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/readpack/readpack/model"
)

var serverURL string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent pack invocations",
	RunE:  runHistory,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("READPACK_SERVER", "http://localhost:7090"), "readpack server URL")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	resp, err := http.Get(serverURL + "/api/invocations")
	if err != nil {
		return fmt.Errorf("connecting to server: %w\nIs the server running? Start it with: readpack serve", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))
	}

	var invocations []struct {
		ID           string `json:"id"`
		RequestJSON  string `json:"request_json"`
		Strategy     string `json:"strategy"`
		Switched     bool   `json:"switched"`
		Processed    int    `json:"processed"`
		FullCount    int    `json:"full_count"`
		PartialCount int    `json:"partial_count"`
		OmittedCount int    `json:"omitted_count"`
		UsedBytes    int    `json:"used_bytes"`
		CreatedAt    string `json:"created_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&invocations); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	if len(invocations) == 0 {
		fmt.Println("No invocations found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTRATEGY\tFILES\tFULL\tPARTIAL\tOMITTED\tBYTES\tREQUEST\tCREATED")
	for _, inv := range invocations {
		strategy := inv.Strategy
		if inv.Switched {
			strategy += "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\t%s\n",
			inv.ID, strategy, inv.Processed,
			inv.FullCount, inv.PartialCount, inv.OmittedCount,
			inv.UsedBytes, model.Truncate(inv.RequestJSON, 40), inv.CreatedAt)
	}
	return w.Flush()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
