package integrity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"data-integrity/core/compare"
	"data-integrity/core/dataset"
	"data-integrity/core/reconcile"
	"data-integrity/core/record"
	"data-integrity/core/runner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func entry(n, r int) record.Value {
	return record.ObjectValue(record.NewObject().
		Set("id1", record.String(fmt.Sprintf("id1_%d", n))).
		Set("id2", record.String(fmt.Sprintf("id2_%d", n))).
		Set("dynamicField", record.String(fmt.Sprintf("dyn_%d_%d", n, r))).
		Set("warnField", record.String(fmt.Sprintf("warn_%d_%d", n, r))).
		Set("matchField", record.String(fmt.Sprintf("match_%d", n))).
		Set("errorField", record.String(fmt.Sprintf("error_%d_%d", n, r))))
}

func defaults() reconcile.Config {
	return reconcile.Config{
		MaxEntries:    reconcile.DefaultMaxReferenceEntries,
		RemoveStale:   true,
		StatsKey:      reconcile.DefaultStatsKey,
		OutputDataset: "default",
	}
}

func setupService(t *testing.T, run runner.Runner) (*Service, *dataset.FileStore) {
	t.Helper()
	store := dataset.NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, "reference", []record.Value{entry(1, 11), entry(2, 22), entry(3, 30), entry(6, 66)}))
	require.NoError(t, store.Replace(ctx, "tested", []record.Value{entry(1, 10), entry(2, 20), entry(3, 30), entry(4, 40)}))
	return NewService(store, run, defaults(), zap.NewNop()), store
}

func scenarioInput() Input {
	return Input{
		ActorOrTaskDatasetID:   "tested",
		ComparisonDatasetID:    "reference",
		ComparisonPrimaryKeys:  []string{"id1", "id2"},
		ComparisonMaxEntries:   4,
		ComparisonFieldsIgnore: []string{"dynamicField"},
		ComparisonFieldsWarn:   []string{"warnField"},
	}
}

func TestService_Run(t *testing.T) {
	svc, store := setupService(t, nil)
	ctx := context.Background()

	rep, err := svc.Run(ctx, scenarioInput())
	require.NoError(t, err)

	assert.Equal(t, "tested", rep.TestedDatasetID)
	assert.Nil(t, rep.Run)
	assert.Equal(t, reconcile.Stats{
		ReferenceItemsFound:    3,
		ReferenceItemsNotFound: 1,
		ReferenceItemsSuccess:  1,
		ReferenceItemsFail:     2,
	}, rep.Stats)
	assert.True(t, rep.ReferenceRefreshed)
	assert.Equal(t, 4, rep.RefreshedCount)

	t.Run("MismatchRows", func(t *testing.T) {
		rows, err := store.Fetch(ctx, "default")
		require.NoError(t, err)
		require.Len(t, rows, 4)

		var severities []string
		for _, row := range rows {
			severities = append(severities, record.Field(row, "severity").AsString())
			assert.True(t, record.Field(row, "itemTypeMismatch").AsBool())
			assert.False(t, record.Field(row, "fieldTypeMismatch").AsBool())
			assert.Equal(t, record.KindObject, record.Field(row, "itemKeys").Kind())
		}
		assert.Equal(t, []string{"WARN", "ERROR", "WARN", "ERROR"}, severities)
		assert.Equal(t, "id1_1", record.Field(record.Field(rows[0], "itemKeys"), "id1").AsString())
	})

	t.Run("Stats", func(t *testing.T) {
		stats, err := svc.Stats(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, rep.Stats, *stats)
	})

	t.Run("RefreshedReference", func(t *testing.T) {
		reference, err := store.Fetch(ctx, "reference")
		require.NoError(t, err)
		require.Len(t, reference, 4)
		for i, want := range []record.Value{entry(1, 11), entry(2, 22), entry(3, 30), entry(4, 40)} {
			assert.True(t, record.Equal(want, reference[i]), "reference[%d]", i)
		}
	})
}

func TestService_RunAppendsRows(t *testing.T) {
	svc, store := setupService(t, nil)
	ctx := context.Background()

	in := scenarioInput()
	in.ComparisonRemoveStaleEntries = new(bool)

	_, err := svc.Run(ctx, in)
	require.NoError(t, err)
	_, err = svc.Run(ctx, in)
	require.NoError(t, err)

	rows, err := store.Fetch(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, rows, 8)

	reference, err := store.Fetch(ctx, "reference")
	require.NoError(t, err)
	assert.True(t, record.Equal(entry(6, 66), reference[3]), "stale entry kept")
}

func TestService_RunWithRunner(t *testing.T) {
	t.Run("UsesRunDataset", func(t *testing.T) {
		static := runner.NewStatic(runner.Run{Status: runner.StatusSucceeded, DefaultDatasetID: "tested"})
		svc, _ := setupService(t, static)

		in := scenarioInput()
		in.ActorOrTaskDatasetID = ""
		in.RunType = "TASK"
		in.ActorOrTaskID = "user~task"
		in.ActorOrTaskBuild = "beta"
		in.ActorOrTaskInput = map[string]any{"maxItems": 4}

		rep, err := svc.Run(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "tested", rep.TestedDatasetID)
		require.NotNil(t, rep.Run)
		assert.NotEmpty(t, rep.Run.ID)

		requests := static.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, runner.TypeTask, requests[0].Type)
		assert.Equal(t, "user~task", requests[0].ID)
		assert.Equal(t, "beta", requests[0].Build)
		assert.JSONEq(t, `{"maxItems":4}`, string(requests[0].Input))
	})

	t.Run("ExplicitDatasetWins", func(t *testing.T) {
		static := runner.NewStatic(runner.Run{Status: runner.StatusSucceeded, DefaultDatasetID: "other"})
		svc, _ := setupService(t, static)

		in := scenarioInput()
		in.ActorOrTaskID = "actor"

		rep, err := svc.Run(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, "tested", rep.TestedDatasetID)
		assert.Equal(t, runner.TypeActor, static.Requests()[0].Type)
	})

	t.Run("RunFailed", func(t *testing.T) {
		static := runner.NewStatic(runner.Run{ID: "r1", Status: runner.StatusFailed, StatusMessage: "boom"})
		svc, store := setupService(t, static)

		in := scenarioInput()
		in.ActorOrTaskID = "actor"

		_, err := svc.Run(context.Background(), in)
		require.ErrorIs(t, err, ErrUpstream)

		var upstream *UpstreamError
		require.ErrorAs(t, err, &upstream)
		assert.Equal(t, runner.StatusFailed, upstream.Status)
		assert.Contains(t, err.Error(), "SUCCEEDED")
		assert.Contains(t, err.Error(), "FAILED: boom")

		_, err = store.Fetch(context.Background(), "default")
		assert.ErrorIs(t, err, dataset.ErrNotFound)
	})

	t.Run("RunnerError", func(t *testing.T) {
		static := &runner.Static{Err: assert.AnError}
		svc, _ := setupService(t, static)

		in := scenarioInput()
		in.ActorOrTaskID = "actor"

		_, err := svc.Run(context.Background(), in)
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("NoDatasetFromRun", func(t *testing.T) {
		static := runner.NewStatic(runner.Run{Status: runner.StatusSucceeded})
		svc, _ := setupService(t, static)

		in := scenarioInput()
		in.ActorOrTaskDatasetID = ""
		in.ActorOrTaskID = "actor"

		_, err := svc.Run(context.Background(), in)
		assert.ErrorIs(t, err, ErrUnresolvableInput)
	})

	t.Run("NoRunnerConfigured", func(t *testing.T) {
		svc, _ := setupService(t, nil)

		in := scenarioInput()
		in.ActorOrTaskID = "actor"

		_, err := svc.Run(context.Background(), in)
		assert.ErrorIs(t, err, ErrConfiguration)
	})
}

func TestService_RunValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(in *Input)
		want   string
	}{
		{"NoTestedSource", func(in *Input) { in.ActorOrTaskDatasetID = "" }, `Either "actorOrTaskId" or "actorOrTaskDatasetIdOrName" MUST be given`},
		{"NoReference", func(in *Input) { in.ComparisonDatasetID = "" }, `"comparisonDatasetIdOrName"`},
		{"InvalidReferenceID", func(in *Input) { in.ComparisonDatasetID = "../etc" }, "invalid dataset id"},
		{"InvalidRunType", func(in *Input) { in.RunType = "JOB" }, "invalid run type"},
		{"NegativeMaxEntries", func(in *Input) { in.ComparisonMaxEntries = -1 }, "must not be negative"},
		{"InvalidOutput", func(in *Input) { in.OutputDatasetID = "a/b" }, "invalid dataset id"},
		{"NegativeOutputMaxEntries", func(in *Input) { in.OutputMaxEntries = -2 }, "outputMaxEntries must not be negative"},
		{"EmptyRenameTarget", func(in *Input) { in.OutputRenameFields = map[string]string{"severity": ""} }, "outputRenameFields"},
		{"MetamorphWithoutRunner", func(in *Input) { in.MetamorphActorID = "user~next" }, `hand off to actor "user~next"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := setupService(t, nil)
			in := scenarioInput()
			tt.modify(&in)

			_, err := svc.Run(context.Background(), in)
			require.ErrorIs(t, err, ErrConfiguration)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestService_RunDryRun(t *testing.T) {
	svc, store := setupService(t, nil)
	ctx := context.Background()

	in := scenarioInput()
	in.DryRun = true

	rep, err := svc.Run(ctx, in)
	require.NoError(t, err)
	assert.Len(t, rep.Mismatches, 4)
	assert.False(t, rep.ReferenceRefreshed)

	_, err = store.Fetch(ctx, "default")
	assert.ErrorIs(t, err, dataset.ErrNotFound)
	_, err = store.Get(ctx, reconcile.DefaultStatsKey)
	assert.ErrorIs(t, err, dataset.ErrNotFound)

	reference, err := store.Fetch(ctx, "reference")
	require.NoError(t, err)
	assert.True(t, record.Equal(entry(6, 66), reference[3]))
}

func TestService_RunShapesOutput(t *testing.T) {
	svc, store := setupService(t, nil)
	ctx := context.Background()

	in := scenarioInput()
	in.OutputPickFields = []string{"severity", "fieldName"}
	in.OutputRenameFields = map[string]string{"fieldName": "field"}
	in.OutputMaxEntries = 3

	rep, err := svc.Run(ctx, in)
	require.NoError(t, err)
	assert.Len(t, rep.Mismatches, 4)
	assert.Equal(t, 3, rep.PushedCount)

	rows, err := store.Fetch(ctx, "default")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, `{"severity":"WARN","field":"warnField"}`, string(mustJSON(t, rows[0])))
	assert.Equal(t, `{"severity":"ERROR","field":"errorField"}`, string(mustJSON(t, rows[1])))
}

func TestService_RunMetamorph(t *testing.T) {
	t.Run("HandsOffAfterPublishing", func(t *testing.T) {
		static := runner.NewStatic(runner.Run{ID: "next-run", Status: runner.StatusSucceeded})
		svc, store := setupService(t, static)
		ctx := context.Background()

		in := scenarioInput()
		in.MetamorphActorID = "user~next"
		in.MetamorphActorBuild = "1.2.3"
		in.MetamorphActorInput = map[string]any{"datasetId": "default"}

		rep, err := svc.Run(ctx, in)
		require.NoError(t, err)
		require.NotNil(t, rep.Metamorph)
		assert.Equal(t, "next-run", rep.Metamorph.ID)
		assert.Nil(t, rep.Run)

		requests := static.Requests()
		require.Len(t, requests, 1)
		assert.Equal(t, runner.TypeActor, requests[0].Type)
		assert.Equal(t, "user~next", requests[0].ID)
		assert.Equal(t, "1.2.3", requests[0].Build)
		assert.JSONEq(t, `{"datasetId":"default"}`, string(requests[0].Input))

		rows, err := store.Fetch(ctx, "default")
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})

	t.Run("FailedHandOffKeepsPublishedRows", func(t *testing.T) {
		static := runner.NewStatic(runner.Run{ID: "next-run", Status: runner.StatusAborted})
		svc, store := setupService(t, static)
		ctx := context.Background()

		in := scenarioInput()
		in.MetamorphActorID = "user~next"

		_, err := svc.Run(ctx, in)
		require.ErrorIs(t, err, ErrUpstream)
		assert.Contains(t, err.Error(), "ABORTED")

		rows, err := store.Fetch(ctx, "default")
		require.NoError(t, err)
		assert.Len(t, rows, 4)
	})

	t.Run("SkippedOnDryRun", func(t *testing.T) {
		static := runner.NewStatic(runner.Run{Status: runner.StatusSucceeded})
		svc, _ := setupService(t, static)

		in := scenarioInput()
		in.MetamorphActorID = "user~next"
		in.DryRun = true

		rep, err := svc.Run(context.Background(), in)
		require.NoError(t, err)
		assert.Nil(t, rep.Metamorph)
		assert.Empty(t, static.Requests())
	})
}

func mustJSON(t *testing.T, v record.Value) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestService_RunMissingDatasets(t *testing.T) {
	t.Run("ReferenceStartsEmpty", func(t *testing.T) {
		svc, store := setupService(t, nil)
		ctx := context.Background()

		in := scenarioInput()
		in.ComparisonDatasetID = "fresh"

		rep, err := svc.Run(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, reconcile.Stats{}, rep.Stats)
		assert.Empty(t, rep.Mismatches)

		reference, err := store.Fetch(ctx, "fresh")
		require.NoError(t, err)
		assert.Len(t, reference, 4)
	})

	t.Run("TestedMissing", func(t *testing.T) {
		svc, _ := setupService(t, nil)

		in := scenarioInput()
		in.ActorOrTaskDatasetID = "missing"

		_, err := svc.Run(context.Background(), in)
		assert.ErrorIs(t, err, ErrUnresolvableInput)
	})
}

func TestService_RunUsesConfiguredDefaults(t *testing.T) {
	store := dataset.NewFileStore(t.TempDir())
	ctx := context.Background()
	require.NoError(t, store.Replace(ctx, "reference", []record.Value{entry(1, 11)}))
	require.NoError(t, store.Replace(ctx, "tested", []record.Value{entry(1, 10)}))

	cfg := defaults()
	cfg.IdentityFields = []string{"id1"}
	cfg.IgnoredFields = []string{"dynamicField", "errorField"}
	cfg.WarnFields = []string{"warnField"}
	cfg.OutputDataset = "rows"
	cfg.StatsKey = "STATS"
	svc := NewService(store, nil, cfg, zap.NewNop())

	rep, err := svc.Run(ctx, Input{ActorOrTaskDatasetID: "tested", ComparisonDatasetID: "reference"})
	require.NoError(t, err)

	require.Len(t, rep.Mismatches, 1)
	assert.Equal(t, "warnField", rep.Mismatches[0].FieldName)
	assert.Equal(t, compare.SeverityWarn, rep.Mismatches[0].Severity)
	assert.Equal(t, "rows", rep.OutputDatasetID)

	data, err := store.Get(ctx, "STATS")
	require.NoError(t, err)
	var stats reconcile.Stats
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 1, stats.ReferenceItemsFail)
}

func TestService_Compare(t *testing.T) {
	svc := NewService(nil, nil, defaults(), zap.NewNop())

	result, err := svc.Compare(context.Background(), CompareRequest{
		Reference: []record.Value{entry(1, 11), entry(2, 22), entry(3, 30), entry(6, 66)},
		Tested:    []record.Value{entry(1, 10), entry(2, 20), entry(3, 30), entry(4, 40)},
		Options: CompareOptions{
			PrimaryKeys:  []string{"id1", "id2"},
			FieldsIgnore: []string{"dynamicField"},
			FieldsWarn:   []string{"warnField"},
			MaxEntries:   4,
		},
	})
	require.NoError(t, err)
	assert.Len(t, result.Mismatches, 4)
	assert.Len(t, result.Refreshed, 4)

	_, err = svc.Compare(context.Background(), CompareRequest{Options: CompareOptions{MaxEntries: -3}})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestService_RunSerializesPerReference(t *testing.T) {
	svc, store := setupService(t, nil)
	ctx := context.Background()

	in := scenarioInput()
	in.ComparisonRemoveStaleEntries = new(bool)

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Run(ctx, in)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	rows, err := store.Fetch(ctx, "default")
	require.NoError(t, err)
	assert.Len(t, rows, 20)
	assert.Equal(t, 0, svc.locks.size())
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	unlockA := k.Lock("a")

	acquired := make(chan struct{})
	go func() {
		unlock := k.Lock("a")
		close(acquired)
		unlock()
	}()

	unlockB := k.Lock("b")
	unlockB()

	select {
	case <-acquired:
		t.Fatal("second lock on the same key acquired while held")
	case <-time.After(50 * time.Millisecond):
	}

	unlockA()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock not released")
	}
	assert.Eventually(t, func() bool { return k.size() == 0 }, time.Second, 10*time.Millisecond)
}
