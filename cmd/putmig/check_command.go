package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"putmig/internal/preflight"
	"putmig/internal/putio"
)

func newCheckCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration, paths, downloader, and API connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFlag)
			if err != nil {
				return err
			}

			client, err := putio.New(putio.Config{
				Token:             cfg.Putio.Token,
				BaseURL:           cfg.Putio.BaseURL,
				UserAgent:         cfg.Advanced.UserAgent,
				RequestsPerSecond: cfg.Advanced.APIRequestsPerSecond,
			})
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, client)

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				status := "FAIL"
				if result.Passed {
					status = "OK"
				}
				rows = append(rows, []string{result.Name, status, result.Detail})
			}
			fmt.Println(renderTable(
				[]string{"Check", "Status", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if !preflight.AllPassed(results) {
				return fmt.Errorf("preflight checks failed")
			}
			return nil
		},
	}
}
