package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"putmig/internal/preflight"
	"putmig/internal/workflow"
)

func newRunCommand(configFlag *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Scan the account and transfer all pending files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Offline checks only; the API probe happens inside the run.
			if results := preflight.RunAll(ctx, cfg, nil); !preflight.AllPassed(results) {
				for _, result := range results {
					if !result.Passed {
						fmt.Printf("preflight: %s: %s\n", result.Name, result.Detail)
					}
				}
				return fmt.Errorf("preflight checks failed, fix the above or run 'putmig check'")
			}

			if dryRun {
				manager, err := newManager(cfg, logger, workflow.WithScanObserver(scanReporter()))
				if err != nil {
					return err
				}
				return runDryRun(ctx, manager)
			}

			reporter := newTransferReporter()
			manager, err := newManager(cfg, logger,
				workflow.WithScanObserver(scanReporter()),
				workflow.WithItemObserver(reporter.observe),
			)
			if err != nil {
				return err
			}

			summary, runErr := manager.Run(ctx)
			if summary != nil {
				printSummary(summary)
			}
			return runErr
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Scan and report what would transfer without downloading")
	return cmd
}

func printSummary(summary *workflow.Summary) {
	headline := "Migration completed"
	if summary.Interrupted {
		headline = "Migration interrupted; rerun to resume"
	}
	fmt.Println()
	fmt.Println(headline)
	fmt.Println(renderTable(
		[]string{"", "Count"},
		[][]string{
			{"Total files", strconv.Itoa(summary.TotalFiles)},
			{"Completed this run", strconv.Itoa(summary.Completed)},
			{"Failed this run", strconv.Itoa(summary.Failed)},
			{"Already completed", strconv.Itoa(summary.Skipped)},
			{"Bytes transferred", humanize.IBytes(uint64(summary.BytesTransferred))},
		},
		[]columnAlignment{alignLeft, alignRight},
	))
}
