package cmd

import (
	"fmt"
	"io"
	"os"

	"data-integrity/core/compare"
	"data-integrity/core/config"
	"data-integrity/core/logger"
	"data-integrity/core/record"
	"data-integrity/core/report"
	"data-integrity/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var compareFlags struct {
	keys           []string
	ignore         []string
	warn           []string
	maxEntries     int
	keepStale      bool
	format         string
	diff           bool
	writeReference string
}

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <reference.json> <tested.json>",
	Short: "Compare two local JSON files",
	Long: `Compares two JSON arrays of records without touching any dataset backend.
With --write-reference the refreshed reference is written to a file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(compareFlags.format)
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		reference, err := readRecords(args[0])
		if err != nil {
			return err
		}
		tested, err := readRecords(args[1])
		if err != nil {
			return err
		}

		req := integrity.CompareRequest{Reference: reference, Tested: tested}
		flags := cmd.Flags()
		if flags.Changed("keys") {
			req.Options.PrimaryKeys = compareFlags.keys
		}
		if flags.Changed("ignore") {
			req.Options.FieldsIgnore = compareFlags.ignore
		}
		if flags.Changed("warn") {
			req.Options.FieldsWarn = compareFlags.warn
		}
		if flags.Changed("keep-stale") {
			removeStale := !compareFlags.keepStale
			req.Options.RemoveStaleEntries = &removeStale
		}
		req.Options.MaxEntries = compareFlags.maxEntries

		svc := integrity.NewService(nil, nil, cfg.Integrity, logg)
		result, err := svc.Compare(cmd.Context(), req)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if err := printResult(out, format, result, result.Stats, result.Mismatches); err != nil {
			return err
		}

		if compareFlags.diff {
			if err := printDiffs(out, result.Analysis.Items); err != nil {
				return err
			}
		}

		if compareFlags.writeReference != "" && result.ReferenceRefreshed {
			data, err := record.MarshalAll(result.Refreshed)
			if err != nil {
				return err
			}
			if err := os.WriteFile(compareFlags.writeReference, data, 0o644); err != nil {
				return fmt.Errorf("failed to write reference: %w", err)
			}
			logg.Info("Wrote refreshed reference",
				zap.String("path", compareFlags.writeReference),
				zap.Int("items", len(result.Refreshed)),
			)
		}
		return nil
	},
}

func readRecords(path string) ([]record.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	items, err := record.DecodeAll(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// printDiffs prints a JSON patch from reference to tested for each differing item.
func printDiffs(w io.Writer, items []compare.ItemReport) error {
	for _, item := range items {
		if item.Match {
			continue
		}
		patch, err := report.ItemPatch(item.ValueReference, item.ValueTested)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\n%s\n", item.CacheID)
		for _, line := range report.PatchLines(patch) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

func init() {
	f := compareCmd.Flags()
	f.StringSliceVar(&compareFlags.keys, "keys", nil, "Fields identifying a record")
	f.StringSliceVar(&compareFlags.ignore, "ignore", nil, "Fields excluded from comparison")
	f.StringSliceVar(&compareFlags.warn, "warn", nil, "Fields reported as WARN instead of ERROR")
	f.IntVar(&compareFlags.maxEntries, "max-entries", 0, "Reference capacity (0 uses the configured value)")
	f.BoolVar(&compareFlags.keepStale, "keep-stale", false, "Do not compute a refreshed reference")
	f.StringVarP(&compareFlags.format, "format", "o", "", "Output format (table, json, yaml)")
	f.BoolVar(&compareFlags.diff, "diff", false, "Print a JSON patch for every differing item")
	f.StringVar(&compareFlags.writeReference, "write-reference", "", "Write the refreshed reference to this file")

	RootCmd.AddCommand(compareCmd)
}
