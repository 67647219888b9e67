package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"putmig/internal/workflow"
)

const dryRunSampleSize = 10

func newScanCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Scan the account and show what would transfer (no downloads)",
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

			manager, err := newManager(cfg, logger, workflow.WithScanObserver(scanReporter()))
			if err != nil {
				return err
			}
			return runDryRun(ctx, manager)
		},
	}
}

func runDryRun(ctx context.Context, manager *workflow.Manager) error {
	result, err := manager.Scan(ctx)
	if err != nil {
		return err
	}
	pending := manager.Reconcile(result)

	fmt.Println()
	fmt.Println("Dry run results")
	fmt.Println(renderTable(
		[]string{"", "Value"},
		[][]string{
			{"Files found", fmt.Sprintf("%d", len(result.Files))},
			{"Total size", humanize.IBytes(uint64(result.TotalBytes))},
			{"Pending transfer", fmt.Sprintf("%d", len(pending))},
			{"Already completed", fmt.Sprintf("%d", len(result.Files)-len(pending))},
		},
		[]columnAlignment{alignLeft, alignRight},
	))

	if len(pending) == 0 {
		return nil
	}

	rows := make([][]string, 0, dryRunSampleSize)
	for i, file := range pending {
		if i == dryRunSampleSize {
			break
		}
		rows = append(rows, []string{file.Path, humanize.IBytes(uint64(file.Size))})
	}
	fmt.Println()
	fmt.Println("Next files to transfer")
	fmt.Println(renderTable(
		[]string{"Path", "Size"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	if len(pending) > dryRunSampleSize {
		fmt.Printf("... and %d more files\n", len(pending)-dryRunSampleSize)
	}
	return nil
}
