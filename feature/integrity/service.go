package integrity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"data-integrity/core/compare"
	"data-integrity/core/dataset"
	"data-integrity/core/reconcile"
	"data-integrity/core/record"
	"data-integrity/core/runner"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Input configures one data integrity run.
type Input struct {
	// RunType is ACTOR or TASK. Empty means ACTOR.
	RunType string `json:"runType,omitempty"`
	// ActorOrTaskID is the actor or task producing the tested dataset.
	ActorOrTaskID string `json:"actorOrTaskId,omitempty"`
	// ActorOrTaskBuild is the optional build tag or number.
	ActorOrTaskBuild string `json:"actorOrTaskBuild,omitempty"`
	// ActorOrTaskInput is passed to the run as its input.
	ActorOrTaskInput map[string]any `json:"actorOrTaskInput,omitempty"`
	// ActorOrTaskDatasetID is the tested dataset. It takes precedence over the run's dataset.
	ActorOrTaskDatasetID string `json:"actorOrTaskDatasetIdOrName,omitempty"`
	// ComparisonDatasetID is the reference dataset.
	ComparisonDatasetID string `json:"comparisonDatasetIdOrName"`
	// ComparisonPrimaryKeys identify a record. Nil uses the configured default.
	ComparisonPrimaryKeys []string `json:"comparisonDatasetPrimaryKeys,omitempty"`
	// ComparisonRemoveStaleEntries enables the reference refresh. Nil uses the configured default.
	ComparisonRemoveStaleEntries *bool `json:"comparisonDatasetRemoveStaleEntries,omitempty"`
	// ComparisonMaxEntries caps the refreshed reference. Zero uses the configured default.
	ComparisonMaxEntries int `json:"comparisonDatasetMaxEntries,omitempty"`
	// ComparisonFieldsIgnore are skipped during comparison. Nil uses the configured default.
	ComparisonFieldsIgnore []string `json:"comparisonFieldsIgnore,omitempty"`
	// ComparisonFieldsWarn produce WARN rows. Nil uses the configured default.
	ComparisonFieldsWarn []string `json:"comparisonFieldsWarn,omitempty"`
	// OutputDatasetID receives the mismatch rows. Empty uses the configured default.
	OutputDatasetID string `json:"outputDatasetId,omitempty"`
	// StatsKey is the key-value entry for the statistics. Empty uses the configured default.
	StatsKey string `json:"statsKey,omitempty"`
	// OutputPickFields keeps only these fields of each pushed row.
	OutputPickFields []string `json:"outputPickFields,omitempty"`
	// OutputRenameFields renames fields of each pushed row.
	OutputRenameFields map[string]string `json:"outputRenameFields,omitempty"`
	// OutputMaxEntries caps the number of pushed rows. Zero pushes all of them.
	OutputMaxEntries int `json:"outputMaxEntries,omitempty"`
	// MetamorphActorID is the actor handed off to once the check is published.
	MetamorphActorID string `json:"metamorphActorId,omitempty"`
	// MetamorphActorBuild is the optional build of the hand-off actor.
	MetamorphActorBuild string `json:"metamorphActorBuild,omitempty"`
	// MetamorphActorInput is passed to the hand-off actor.
	MetamorphActorInput map[string]any `json:"metamorphActorInput,omitempty"`
	// DryRun compares without writing anything.
	DryRun bool `json:"dryRun,omitempty"`
}

func (in Input) outputShape() OutputShape {
	return OutputShape{
		PickFields:   in.OutputPickFields,
		RenameFields: in.OutputRenameFields,
		MaxEntries:   in.OutputMaxEntries,
	}
}

// RunReport is the outcome of a run.
type RunReport struct {
	Run                *runner.Run             `json:"run,omitempty"`
	ReferenceDatasetID string                  `json:"referenceDatasetId"`
	TestedDatasetID    string                  `json:"testedDatasetId"`
	OutputDatasetID    string                  `json:"outputDatasetId"`
	Mismatches         []compare.FieldMismatch `json:"mismatches"`
	Stats              reconcile.Stats         `json:"stats"`
	ReferenceRefreshed bool                    `json:"referenceRefreshed"`
	RefreshedCount     int                     `json:"refreshedCount"`
	PushedCount        int                     `json:"pushedCount"`
	Metamorph          *runner.Run             `json:"metamorph,omitempty"`
	DryRun             bool                    `json:"dryRun"`
}

// CompareOptions are the comparison settings of an inline compare request.
type CompareOptions struct {
	PrimaryKeys        []string `json:"primaryKeys,omitempty"`
	FieldsIgnore       []string `json:"fieldsIgnore,omitempty"`
	FieldsWarn         []string `json:"fieldsWarn,omitempty"`
	RemoveStaleEntries *bool    `json:"removeStaleEntries,omitempty"`
	MaxEntries         int      `json:"maxEntries,omitempty"`
}

// CompareRequest compares two inline collections.
type CompareRequest struct {
	Reference []record.Value `json:"reference" swaggertype:"array,object"`
	Tested    []record.Value `json:"tested" swaggertype:"array,object"`
	Options   CompareOptions `json:"options"`
}

// Service runs data integrity checks.
type Service struct {
	store    dataset.Store
	runner   runner.Runner
	defaults reconcile.Config
	logger   *zap.Logger
	locks    *keyedMutex
}

// NewService creates a new integrity service.
// run may be nil, in which case only existing datasets can be tested.
func NewService(store dataset.Store, run runner.Runner, defaults reconcile.Config, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		runner:   run,
		defaults: defaults,
		logger:   logger,
		locks:    newKeyedMutex(),
	}
}

// Run executes the full check: optional actor or task run, dataset download,
// comparison, publishing of mismatch rows and statistics, reference refresh and
// the optional hand-off to another actor.
func (s *Service) Run(ctx context.Context, in Input) (*RunReport, error) {
	runType, err := validate(in)
	if err != nil {
		return nil, err
	}
	opts, err := s.options(in.ComparisonPrimaryKeys, in.ComparisonFieldsIgnore, in.ComparisonFieldsWarn,
		in.ComparisonRemoveStaleEntries, in.ComparisonMaxEntries)
	if err != nil {
		return nil, err
	}

	outputID := firstNonEmpty(in.OutputDatasetID, s.defaults.OutputDataset, "default")
	statsKey := firstNonEmpty(in.StatsKey, s.defaults.StatsKeyOrDefault())
	if err := dataset.ValidateID(outputID); err != nil {
		return nil, configError("outputDatasetId", "%v", err)
	}
	if err := dataset.ValidateID(statsKey); err != nil {
		return nil, configError("statsKey", "%v", err)
	}
	shape := in.outputShape()
	if err := shape.validate(); err != nil {
		return nil, err
	}
	if in.MetamorphActorID != "" && s.runner == nil {
		return nil, configError("metamorphActorId", "no runner configured to hand off to actor %q", in.MetamorphActorID)
	}

	l := s.logger.With(zap.String("reference", in.ComparisonDatasetID))

	var run *runner.Run
	if in.ActorOrTaskID != "" {
		input, err := encodeInput("actorOrTaskInput", in.ActorOrTaskInput)
		if err != nil {
			return nil, err
		}
		l.Info("Calling runner to generate tested dataset",
			zap.String("stage", "run"),
			zap.String("type", string(runType)),
			zap.String("id", in.ActorOrTaskID),
			zap.String("build", in.ActorOrTaskBuild),
		)
		run, err = s.call(ctx, l, "actorOrTaskId", runner.Request{
			Type:  runType,
			ID:    in.ActorOrTaskID,
			Build: in.ActorOrTaskBuild,
			Input: input,
		})
		if err != nil {
			return nil, err
		}
	} else {
		l.Info("Using existing dataset, skipping actor or task run", zap.String("stage", "run"))
	}

	testedID := in.ActorOrTaskDatasetID
	if testedID == "" && run != nil {
		testedID = run.DefaultDatasetID
	}
	if testedID == "" {
		return nil, fmt.Errorf("%w: make sure the run's dataset exists", ErrUnresolvableInput)
	}
	l = l.With(zap.String("tested", testedID))

	unlock := s.locks.Lock(in.ComparisonDatasetID)
	defer unlock()

	reference, tested, err := s.fetch(ctx, l, in.ComparisonDatasetID, testedID)
	if err != nil {
		return nil, err
	}

	l.Info("Comparing datasets", zap.String("stage", "compare"))
	result := reconcile.Reconcile(tested, reference, opts)
	l.Info("Comparison finished",
		zap.String("stage", "compare"),
		zap.Int("mismatches", len(result.Mismatches)),
		zap.Int("found", result.Stats.ReferenceItemsFound),
		zap.Int("not_found", result.Stats.ReferenceItemsNotFound),
		zap.Int("success", result.Stats.ReferenceItemsSuccess),
		zap.Int("fail", result.Stats.ReferenceItemsFail),
	)

	rep := &RunReport{
		Run:                run,
		ReferenceDatasetID: in.ComparisonDatasetID,
		TestedDatasetID:    testedID,
		OutputDatasetID:    outputID,
		Mismatches:         result.Mismatches,
		Stats:              result.Stats,
		ReferenceRefreshed: result.ReferenceRefreshed,
		RefreshedCount:     len(result.Refreshed),
		DryRun:             in.DryRun,
	}

	if in.DryRun {
		l.Info("Dry run, skipping writes and hand-off", zap.String("stage", "publish"))
		rep.ReferenceRefreshed = false
		return rep, nil
	}

	pushed, err := s.publish(ctx, l, result, shape, in.ComparisonDatasetID, outputID, statsKey)
	if err != nil {
		return nil, err
	}
	rep.PushedCount = pushed

	if in.MetamorphActorID != "" {
		input, err := encodeInput("metamorphActorInput", in.MetamorphActorInput)
		if err != nil {
			return nil, err
		}
		l.Info("Handing off to actor",
			zap.String("stage", "metamorph"),
			zap.String("id", in.MetamorphActorID),
			zap.String("build", in.MetamorphActorBuild),
		)
		rep.Metamorph, err = s.call(ctx, l, "metamorphActorId", runner.Request{
			Type:  runner.TypeActor,
			ID:    in.MetamorphActorID,
			Build: in.MetamorphActorBuild,
			Input: input,
		})
		if err != nil {
			return nil, err
		}
	}
	return rep, nil
}

// call starts a run and waits for it to succeed. field names the input that
// asked for the run.
func (s *Service) call(ctx context.Context, l *zap.Logger, field string, req runner.Request) (*runner.Run, error) {
	if s.runner == nil {
		return nil, configError(field, "no runner configured to call %s %q", req.Type, req.ID)
	}

	run, err := s.runner.Run(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if !run.Succeeded() {
		return nil, &UpstreamError{RunID: run.ID, Status: run.Status, Message: run.StatusMessage}
	}
	l.Info("Runner finished", zap.String("id", req.ID), zap.String("run_id", run.ID))
	return run, nil
}

func encodeInput(field string, input map[string]any) (json.RawMessage, error) {
	if input == nil {
		return nil, nil
	}
	data, err := json.Marshal(input)
	if err != nil {
		return nil, configError(field, "invalid %s: %v", field, err)
	}
	return data, nil
}

// fetch downloads the reference and tested datasets concurrently.
// A missing reference dataset is an empty one, so the first run seeds it.
func (s *Service) fetch(ctx context.Context, l *zap.Logger, referenceID, testedID string) ([]record.Value, []record.Value, error) {
	var reference, tested []record.Value

	l.Info("Downloading datasets", zap.String("stage", "fetch"))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		items, err := s.store.Fetch(gctx, referenceID)
		if errors.Is(err, dataset.ErrNotFound) {
			l.Warn("Reference dataset does not exist yet, starting empty", zap.String("stage", "fetch"))
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to download reference dataset: %w", err)
		}
		reference = items
		return nil
	})
	g.Go(func() error {
		items, err := s.store.Fetch(gctx, testedID)
		if errors.Is(err, dataset.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrUnresolvableInput, err)
		}
		if err != nil {
			return fmt.Errorf("failed to download tested dataset: %w", err)
		}
		tested = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	l.Info("Downloaded datasets",
		zap.String("stage", "fetch"),
		zap.Int("reference_items", len(reference)),
		zap.Int("tested_items", len(tested)),
	)
	return reference, tested, nil
}

// publish writes mismatch rows, statistics and the refreshed reference, in that order.
// It returns the number of rows pushed.
func (s *Service) publish(ctx context.Context, l *zap.Logger, result *reconcile.Result, shape OutputShape, referenceID, outputID, statsKey string) (int, error) {
	rows, err := mismatchRecords(result.Mismatches)
	if err != nil {
		return 0, err
	}
	rows = shape.Apply(rows)
	if err := s.store.Append(ctx, outputID, rows); err != nil {
		return 0, fmt.Errorf("failed to push mismatch rows: %w", err)
	}
	l.Info("Pushed mismatch rows", zap.String("stage", "publish"), zap.String("output", outputID), zap.Int("rows", len(rows)))

	if err := s.store.Put(ctx, statsKey, result.Stats); err != nil {
		return 0, fmt.Errorf("failed to push stats: %w", err)
	}
	l.Info("Pushed stats", zap.String("stage", "publish"), zap.String("key", statsKey))

	if result.ReferenceRefreshed {
		if err := s.store.Replace(ctx, referenceID, result.Refreshed); err != nil {
			return 0, fmt.Errorf("failed to update reference dataset: %w", err)
		}
		l.Info("Updated reference dataset",
			zap.String("stage", "refresh"),
			zap.Int("stale_removed", result.Stats.ReferenceItemsNotFound),
			zap.Int("added", len(result.Refreshed)-result.Stats.ReferenceItemsFound),
		)
	}
	return len(rows), nil
}

// Compare reconciles two inline collections without reading or writing datasets.
func (s *Service) Compare(ctx context.Context, req CompareRequest) (*reconcile.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts, err := s.options(req.Options.PrimaryKeys, req.Options.FieldsIgnore, req.Options.FieldsWarn,
		req.Options.RemoveStaleEntries, req.Options.MaxEntries)
	if err != nil {
		return nil, err
	}
	return reconcile.Reconcile(req.Tested, req.Reference, opts), nil
}

// Stats returns the statistics stored under key, or under the configured key when empty.
func (s *Service) Stats(ctx context.Context, key string) (*reconcile.Stats, error) {
	key = firstNonEmpty(key, s.defaults.StatsKeyOrDefault())
	if err := dataset.ValidateID(key); err != nil {
		return nil, configError("key", "%v", err)
	}
	data, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var stats reconcile.Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats %s: %w", key, err)
	}
	return &stats, nil
}

// options merges request values over the configured defaults.
func (s *Service) options(keys, ignore, warn []string, removeStale *bool, maxEntries int) (reconcile.Options, error) {
	if maxEntries < 0 {
		return reconcile.Options{}, configError("comparisonDatasetMaxEntries", "comparisonDatasetMaxEntries must not be negative, got %d", maxEntries)
	}

	opts := s.defaults.Options()
	if keys != nil {
		opts.IdentityFields = keys
	}
	if ignore != nil {
		opts.IgnoredFields = ignore
	}
	if warn != nil {
		opts.WarnFields = warn
	}
	if removeStale != nil {
		opts.RemoveStale = *removeStale
	}
	if maxEntries > 0 {
		opts.MaxReferenceEntries = maxEntries
	}
	return opts, nil
}

func validate(in Input) (runner.Type, error) {
	if in.ActorOrTaskID == "" && in.ActorOrTaskDatasetID == "" {
		return "", configError("actorOrTaskId",
			`Missing required input. Either "actorOrTaskId" or "actorOrTaskDatasetIdOrName" MUST be given.`)
	}
	if in.ComparisonDatasetID == "" {
		return "", configError("comparisonDatasetIdOrName", `Missing required input "comparisonDatasetIdOrName"`)
	}
	if err := dataset.ValidateID(in.ComparisonDatasetID); err != nil {
		return "", configError("comparisonDatasetIdOrName", "%v", err)
	}
	if in.ActorOrTaskDatasetID != "" {
		if err := dataset.ValidateID(in.ActorOrTaskDatasetID); err != nil {
			return "", configError("actorOrTaskDatasetIdOrName", "%v", err)
		}
	}
	runType, err := runner.ParseType(in.RunType)
	if err != nil {
		return "", configError("runType", "%v", err)
	}
	return runType, nil
}

// mismatchRecords converts mismatch rows into dataset records.
func mismatchRecords(rows []compare.FieldMismatch) ([]record.Value, error) {
	if len(rows) == 0 {
		return []record.Value{}, nil
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mismatch rows: %w", err)
	}
	return record.DecodeAll(data)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
