package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/qontosync/internal/period"
)

var (
	flagYear    int
	flagMonth   int
	flagDays    int
	flagSlack   bool
	flagWebhook string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile receipts for a period against the destination",
	Long: `Lists the transactions settled in the selected period, decides per
attachment whether to download, rename or skip it, and applies the result
to the configured destination.

The period is the previous calendar month by default. Use --year with
--month for an explicit month, or --days for a trailing window; the two
forms are mutually exclusive.`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().IntVarP(&flagYear, "year", "y", 0, "year of the period (e.g. 2025)")
	syncCmd.Flags().IntVarP(&flagMonth, "month", "m", 0, "month of the period (1-12)")
	syncCmd.Flags().IntVarP(&flagDays, "days", "d", 0, "sync the last N days instead of a month")
	syncCmd.Flags().BoolVar(&flagSlack, "slack", false, "post a summary to Slack when new receipts arrive")
	syncCmd.Flags().StringVar(&flagWebhook, "slack-webhook-url", "", "Slack webhook URL (overrides SLACK_WEBHOOK_URL)")
	rootCmd.AddCommand(syncCmd)
}

// selectWindow validates flag combinations and computes the period.
func selectWindow(year, month, days int, today time.Time) (period.Window, error) {
	switch {
	case days != 0 && (year != 0 || month != 0):
		return period.Window{}, errors.New("use either --days or --year/--month, not both")
	case (year != 0) != (month != 0):
		return period.Window{}, errors.New("--year and --month must be given together")
	case days < 0:
		return period.Window{}, errors.New("--days must be positive")
	case month < 0 || month > 12:
		return period.Window{}, errors.New("--month must be between 1 and 12")
	case days != 0:
		return period.LastDays(days, today), nil
	case year != 0:
		return period.ForMonth(year, month), nil
	default:
		return period.Previous(today), nil
	}
}

func runSync(cmd *cobra.Command, _ []string) error {
	window, err := selectWindow(flagYear, flagMonth, flagDays, time.Now())
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	backend, err := buildBackend(ctx, cfg)
	if err != nil {
		return err
	}

	cmd.Printf("Syncing %s → %s\n", window.Name, backend.Location())

	syncer := buildSyncer(ctx, cfg, backend, flagSlack, flagWebhook)
	summary, err := syncer.Run(ctx, window)
	if err != nil {
		return err
	}

	cmd.Printf("Done: %d fetched, %d renamed, %d skipped", summary.Fetched, summary.Renamed, summary.Skipped)
	if summary.Errors > 0 {
		cmd.Printf(", %d errors", summary.Errors)
	}
	cmd.Println()
	return nil
}
