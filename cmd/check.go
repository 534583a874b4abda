package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"data-integrity/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var checkFlags struct {
	reference      string
	tested         string
	actor          string
	task           string
	build          string
	input          string
	keys           []string
	ignore         []string
	warn           []string
	maxEntries     int
	keepStale      bool
	output         string
	statsKey       string
	format         string
	pick           []string
	rename         map[string]string
	outputMax      int
	metamorph      string
	metamorphBuild string
	metamorphInput string
	dryRun         bool
	failOnMismatch bool
}

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a data integrity check",
	Long: `Compares a tested dataset against the reference dataset, pushes one row per
mismatching field to the output dataset, stores the run stats and refreshes the
reference dataset.

The tested dataset is either given with --tested or produced by running an actor
(--actor) or task (--task). List flags default to the INTEGRITY_* configuration.`,
	Example: `  data-integrity check --reference products-ref --tested products --keys sku --warn description
  data-integrity check --reference products-ref --actor user~scraper --input @input.json --max-entries 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(checkFlags.format)
		if err != nil {
			return err
		}

		in, err := checkInput(cmd)
		if err != nil {
			return err
		}

		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.log.Sync()

		svc := integrity.NewService(rt.store, rt.runner, rt.cfg.Integrity, rt.log)
		rep, err := svc.Run(cmd.Context(), in)
		if err != nil {
			return err
		}

		if err := printResult(cmd.OutOrStdout(), format, rep, rep.Stats, rep.Mismatches); err != nil {
			return err
		}

		if checkFlags.failOnMismatch && rep.Stats.ReferenceItemsFail > 0 {
			return fmt.Errorf("%d reference items failed the integrity check", rep.Stats.ReferenceItemsFail)
		}
		rt.log.Info("Integrity check finished", zap.Int("mismatches", len(rep.Mismatches)))
		return nil
	},
}

// checkInput turns the flags into a run input. Unset list flags stay nil so
// the configured defaults apply.
func checkInput(cmd *cobra.Command) (integrity.Input, error) {
	in := integrity.Input{
		ActorOrTaskDatasetID: checkFlags.tested,
		ComparisonDatasetID:  checkFlags.reference,
		ActorOrTaskBuild:     checkFlags.build,
		ComparisonMaxEntries: checkFlags.maxEntries,
		OutputDatasetID:      checkFlags.output,
		OutputMaxEntries:     checkFlags.outputMax,
		StatsKey:             checkFlags.statsKey,
		MetamorphActorID:     checkFlags.metamorph,
		MetamorphActorBuild:  checkFlags.metamorphBuild,
		DryRun:               checkFlags.dryRun,
	}

	switch {
	case checkFlags.task != "":
		in.RunType = "TASK"
		in.ActorOrTaskID = checkFlags.task
	case checkFlags.actor != "":
		in.RunType = "ACTOR"
		in.ActorOrTaskID = checkFlags.actor
	}

	var err error
	if in.ActorOrTaskInput, err = jsonObject("input", checkFlags.input); err != nil {
		return in, err
	}
	if in.MetamorphActorInput, err = jsonObject("metamorph-input", checkFlags.metamorphInput); err != nil {
		return in, err
	}

	flags := cmd.Flags()
	if flags.Changed("keys") {
		in.ComparisonPrimaryKeys = checkFlags.keys
	}
	if flags.Changed("ignore") {
		in.ComparisonFieldsIgnore = checkFlags.ignore
	}
	if flags.Changed("warn") {
		in.ComparisonFieldsWarn = checkFlags.warn
	}
	if flags.Changed("keep-stale") {
		removeStale := !checkFlags.keepStale
		in.ComparisonRemoveStaleEntries = &removeStale
	}
	if flags.Changed("pick") {
		in.OutputPickFields = checkFlags.pick
	}
	if flags.Changed("rename") {
		in.OutputRenameFields = checkFlags.rename
	}
	return in, nil
}

// jsonObject parses a flag holding a JSON object, either inline or as @file.
func jsonObject(flag, value string) (map[string]any, error) {
	if value == "" {
		return nil, nil
	}
	data := []byte(value)
	if path, ok := strings.CutPrefix(value, "@"); ok {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read --%s file: %w", flag, err)
		}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("--%s must be a JSON object: %w", flag, err)
	}
	return out, nil
}

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkFlags.reference, "reference", "", "Reference dataset id (required)")
	f.StringVar(&checkFlags.tested, "tested", "", "Tested dataset id; overrides the dataset of the run")
	f.StringVar(&checkFlags.actor, "actor", "", "Actor to run to produce the tested dataset")
	f.StringVar(&checkFlags.task, "task", "", "Task to run to produce the tested dataset")
	f.StringVar(&checkFlags.build, "build", "", "Build tag or number of the actor or task")
	f.StringVar(&checkFlags.input, "input", "", "Run input as JSON, or @file")
	f.StringSliceVar(&checkFlags.keys, "keys", nil, "Fields identifying a record")
	f.StringSliceVar(&checkFlags.ignore, "ignore", nil, "Fields excluded from comparison")
	f.StringSliceVar(&checkFlags.warn, "warn", nil, "Fields reported as WARN instead of ERROR")
	f.IntVar(&checkFlags.maxEntries, "max-entries", 0, "Reference capacity (0 uses the configured value)")
	f.BoolVar(&checkFlags.keepStale, "keep-stale", false, "Do not refresh the reference dataset")
	f.StringVar(&checkFlags.output, "output", "", "Dataset receiving mismatch rows")
	f.StringSliceVar(&checkFlags.pick, "pick", nil, "Only push these fields of each mismatch row")
	f.StringToStringVar(&checkFlags.rename, "rename", nil, "Rename fields of pushed rows (old=new)")
	f.IntVar(&checkFlags.outputMax, "output-max-entries", 0, "Push at most this many mismatch rows (0 pushes all)")
	f.StringVar(&checkFlags.statsKey, "stats-key", "", "Key-value entry receiving the stats")
	f.StringVar(&checkFlags.metamorph, "metamorph-actor", "", "Actor to hand off to after the check")
	f.StringVar(&checkFlags.metamorphBuild, "metamorph-build", "", "Build tag or number of the hand-off actor")
	f.StringVar(&checkFlags.metamorphInput, "metamorph-input", "", "Hand-off actor input as JSON, or @file")
	f.StringVarP(&checkFlags.format, "format", "o", "", "Output format (table, json, yaml)")
	f.BoolVar(&checkFlags.dryRun, "dry-run", false, "Compare without writing anything")
	f.BoolVar(&checkFlags.failOnMismatch, "fail-on-mismatch", false, "Exit non-zero when any reference item fails")

	_ = checkCmd.MarkFlagRequired("reference")
	checkCmd.MarkFlagsMutuallyExclusive("actor", "task")

	RootCmd.AddCommand(checkCmd)
}
