package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"putmig/internal/ledger"
	"putmig/internal/logging"
)

const failedDetailLimit = 10

func newStatusCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show ledger totals and recent failures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}

			led := ledger.Open(
				cfg.State.FilePath,
				time.Duration(cfg.State.SaveFrequencySeconds)*time.Second,
				logging.NewNop(),
			)

			completed := led.CompletedFiles()
			failed := led.FailedFiles()
			inProgress := led.InProgressFiles()

			var completedBytes uint64
			for _, record := range completed {
				completedBytes += uint64(record.DownloadedBytes)
			}

			fmt.Printf("Ledger: %s (migration %s)\n", led.Path(), led.MigrationID())
			fmt.Println(renderTable(
				[]string{"Status", "Files"},
				[][]string{
					{"Completed", strconv.Itoa(len(completed))},
					{"Failed", strconv.Itoa(len(failed))},
					{"In progress", strconv.Itoa(len(inProgress))},
					{"Completed bytes", humanize.IBytes(completedBytes)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))

			if len(failed) == 0 {
				return nil
			}

			paths := make([]string, 0, len(failed))
			for path := range failed {
				paths = append(paths, path)
			}
			sort.Strings(paths)
			if len(paths) > failedDetailLimit {
				paths = paths[:failedDetailLimit]
			}

			rows := make([][]string, 0, len(paths))
			for _, path := range paths {
				record := failed[path]
				rows = append(rows, []string{
					path,
					strconv.Itoa(record.RetryCount),
					record.ErrorMessage,
				})
			}
			fmt.Println()
			fmt.Println("Recent failures")
			fmt.Println(renderTable(
				[]string{"Path", "Retries", "Last error"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft},
			))
			if len(failed) > failedDetailLimit {
				fmt.Printf("... and %d more failed files\n", len(failed)-failedDetailLimit)
			}
			return nil
		},
	}
}
