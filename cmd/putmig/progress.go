package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"putmig/internal/scanner"
	"putmig/internal/workflow"
)

const scanReportEvery = 100

func stdoutIsTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// scanReporter prints a line every scanReportEvery discovered files. The
// observer cadence is display-only and never affects the scan itself.
func scanReporter() func(scanner.Progress) {
	return func(p scanner.Progress) {
		if p.FilesDiscovered == 0 || p.FilesDiscovered%scanReportEvery != 0 {
			return
		}
		fmt.Printf("Scanning... found %d files (%s)\n",
			p.FilesDiscovered, humanize.IBytes(uint64(p.BytesDiscovered)))
	}
}

// transferReporter renders per-item progress: a progress bar on a terminal,
// plain lines otherwise.
type transferReporter struct {
	bar *progressbar.ProgressBar
	tty bool
}

func newTransferReporter() *transferReporter {
	return &transferReporter{tty: stdoutIsTerminal()}
}

func (r *transferReporter) observe(event workflow.ItemEvent) {
	if r.tty {
		if r.bar == nil {
			r.bar = progressbar.NewOptions(event.Total,
				progressbar.OptionSetDescription("Transferring"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWriter(os.Stdout),
				progressbar.OptionClearOnFinish(),
			)
		}
		if event.Outcome != nil {
			_ = r.bar.Add(1)
		}
		return
	}

	if event.Outcome == nil {
		fmt.Printf("[%d/%d] %s (%s)\n",
			event.Index+1, event.Total, event.Item.Path,
			humanize.IBytes(uint64(event.Item.Size)))
		return
	}
	switch {
	case event.Outcome.Success && event.Outcome.AlreadyExisted:
		fmt.Printf("  = already present: %s\n", event.Item.Name)
	case event.Outcome.Success:
		fmt.Printf("  + completed: %s\n", event.Item.Name)
	default:
		fmt.Printf("  ! failed: %s - %s\n", event.Item.Name, event.Outcome.ErrorMessage)
	}
}
