package cmd

import (
	"fmt"
	"io"

	"data-integrity/core/compare"
	"data-integrity/core/reconcile"
	"data-integrity/core/report"
)

// printResult writes stats and mismatch rows. Tables are printed one after
// the other, JSON and YAML print full as a single document.
func printResult(w io.Writer, format report.Format, full any, stats reconcile.Stats, rows []compare.FieldMismatch) error {
	formatter := report.NewFormatter(format)
	if format != report.FormatTable {
		return formatter.Format(w, full)
	}

	if err := formatter.Format(w, report.StatsTable(stats)); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No mismatches found.")
		return err
	}
	fmt.Fprintln(w)
	return formatter.Format(w, report.MismatchTable(rows))
}

func outputFormat(flag string) (report.Format, error) {
	format, err := report.ParseFormat(flag)
	if err != nil {
		return "", err
	}
	return report.DetectFormat(format), nil
}
