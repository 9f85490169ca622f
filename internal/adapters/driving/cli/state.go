package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qontosync/internal/adapters/driven/state"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the persisted sync state at the destination",
	Long: `Loads the sync state stored at the configured destination and prints
one line per known attachment. Attachments listed here are skipped by the
next sync unless their size, creation timestamp or computed name changed.`,
	RunE: runState,
}

func init() {
	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	backend, err := buildBackend(ctx, cfg)
	if err != nil {
		return err
	}

	syncState := state.New(backend).Load(ctx)
	cmd.Printf("%d synced attachments at %s\n", len(syncState), backend.Location())
	if len(syncState) == 0 {
		return nil
	}

	ids := make([]string, 0, len(syncState))
	for id := range syncState {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer w.Flush()
	for _, id := range ids {
		rec := syncState[id]
		fmt.Fprintf(w, "%s\t%s\t%d bytes\t%s\n", id, rec.DestinationName, rec.ByteSize, rec.CreatedAt)
	}
	return nil
}
