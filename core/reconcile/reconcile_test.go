package reconcile_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"data-integrity/core/compare"
	"data-integrity/core/reconcile"
	"data-integrity/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(n, rand int) record.Value {
	return record.ObjectValue(record.NewObject().
		Set("id1", record.String(fmt.Sprintf("id1_%d", n))).
		Set("id2", record.String(fmt.Sprintf("id2_%d", n))).
		Set("dynamicField", record.String(fmt.Sprintf("dyn_%d_%d", n, rand))).
		Set("warnField", record.String(fmt.Sprintf("warn_%d_%d", n, rand))).
		Set("matchField", record.String(fmt.Sprintf("match_%d", n))).
		Set("errorField", record.String(fmt.Sprintf("error_%d_%d", n, rand))))
}

func ids(n int) []record.Value {
	items := make([]record.Value, n)
	for i := range items {
		items[i] = record.ObjectValue(record.NewObject().Set("id", record.Number(float64(i))))
	}
	return items
}

func scenarioOptions() reconcile.Options {
	opts := reconcile.DefaultOptions()
	opts.IdentityFields = []string{"id1", "id2"}
	opts.IgnoredFields = []string{"dynamicField"}
	opts.WarnFields = []string{"warnField"}
	opts.MaxReferenceEntries = 4
	return opts
}

func TestReconcile_Scenario(t *testing.T) {
	tested := []record.Value{entry(1, 10), entry(2, 20), entry(3, 30), entry(4, 40)}
	reference := []record.Value{entry(1, 11), entry(2, 22), entry(3, 30), entry(6, 66)}

	result := reconcile.Reconcile(tested, reference, scenarioOptions())

	require.Len(t, result.Mismatches, 4)
	severities := make([]compare.Severity, len(result.Mismatches))
	for i, row := range result.Mismatches {
		severities[i] = row.Severity
		n := i/2 + 1
		assert.Equal(t, map[string]record.Value{
			"id1": record.String(fmt.Sprintf("id1_%d", n)),
			"id2": record.String(fmt.Sprintf("id2_%d", n)),
		}, row.ItemKeys)
	}
	assert.Equal(t, []compare.Severity{
		compare.SeverityWarn, compare.SeverityError,
		compare.SeverityWarn, compare.SeverityError,
	}, severities)

	assert.Equal(t, reconcile.Stats{
		ReferenceItemsFound:    3,
		ReferenceItemsNotFound: 1,
		ReferenceItemsSuccess:  1,
		ReferenceItemsFail:     2,
	}, result.Stats)

	require.True(t, result.ReferenceRefreshed)
	require.Len(t, result.Refreshed, 4)
	for i, want := range []record.Value{entry(1, 11), entry(2, 22), entry(3, 30), entry(4, 40)} {
		assert.True(t, record.Equal(want, result.Refreshed[i]), "refreshed[%d]", i)
	}
}

func TestReconcile_IgnoredFieldNeverReported(t *testing.T) {
	tested := []record.Value{entry(1, 10)}
	reference := []record.Value{entry(1, 11)}

	result := reconcile.Reconcile(tested, reference, scenarioOptions())

	for _, row := range result.Mismatches {
		assert.NotEqual(t, "dynamicField", row.FieldName)
	}
	for _, item := range result.Analysis.Items {
		for _, field := range item.Fields {
			assert.NotEqual(t, "dynamicField", field.FieldName)
		}
	}
}

func TestReconcile_Empty(t *testing.T) {
	result := reconcile.Reconcile(nil, nil, reconcile.DefaultOptions())

	assert.Empty(t, result.Mismatches)
	assert.Equal(t, reconcile.Stats{}, result.Stats)
	assert.True(t, result.ReferenceRefreshed)
	assert.Empty(t, result.Refreshed)
}

func TestReconcile_KeepStale(t *testing.T) {
	opts := scenarioOptions()
	opts.RemoveStale = false

	result := reconcile.Reconcile([]record.Value{entry(4, 40)}, []record.Value{entry(6, 66)}, opts)

	assert.False(t, result.ReferenceRefreshed)
	assert.Nil(t, result.Refreshed)
	assert.Equal(t, 1, result.Stats.ReferenceItemsNotFound)
}

func TestReconcile_WithoutIdentityFields(t *testing.T) {
	tested := []record.Value{entry(1, 10), entry(3, 30)}
	reference := []record.Value{entry(1, 11), entry(3, 30)}

	result := reconcile.Reconcile(tested, reference, reconcile.DefaultOptions())

	assert.Empty(t, result.Mismatches)
	assert.Equal(t, 1, result.Stats.ReferenceItemsFound)
	assert.Equal(t, 1, result.Stats.ReferenceItemsSuccess)
	assert.Equal(t, 1, result.Stats.ReferenceItemsNotFound)
}

func TestReconcile_Capacity(t *testing.T) {
	tests := []struct {
		name          string
		foundCount    int
		newCount      int
		max           int
		wantRefreshed int
	}{
		{"FillsGap", 2, 10, 5, 5},
		{"TakesAllWhenShort", 2, 1, 5, 3},
		{"ExactlyFull", 5, 3, 5, 5},
		{"OverCapacityKeepsFound", 6, 3, 4, 6},
		{"NoNewItems", 2, 0, 5, 2},
		{"ZeroCapacity", 0, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			all := ids(tt.foundCount + tt.newCount)
			reference := all[:tt.foundCount]

			opts := reconcile.DefaultOptions()
			opts.IdentityFields = []string{"id"}
			opts.MaxReferenceEntries = tt.max
			opts.Rand = rand.New(rand.NewPCG(1, 2))

			result := reconcile.Reconcile(all, reference, opts)

			assert.Len(t, result.Refreshed, tt.wantRefreshed)
			assert.Equal(t, reference, result.Refreshed[:tt.foundCount])
			for _, item := range result.Refreshed[tt.foundCount:] {
				assert.Contains(t, all[tt.foundCount:], item)
			}
		})
	}
}

func TestReconcile_SamplingWithoutReplacement(t *testing.T) {
	candidates := ids(50)

	opts := reconcile.DefaultOptions()
	opts.IdentityFields = []string{"id"}
	opts.MaxReferenceEntries = 20
	opts.Rand = rand.New(rand.NewPCG(7, 7))

	result := reconcile.Reconcile(candidates, nil, opts)

	require.Len(t, result.Refreshed, 20)
	seen := map[string]bool{}
	for _, item := range result.Refreshed {
		key := record.Canonical(item)
		assert.False(t, seen[key], "duplicate %s", key)
		seen[key] = true
	}
}

func TestReconcile_SeededSamplingIsDeterministic(t *testing.T) {
	candidates := ids(30)

	run := func() []record.Value {
		opts := reconcile.DefaultOptions()
		opts.IdentityFields = []string{"id"}
		opts.MaxReferenceEntries = 10
		opts.Rand = rand.New(rand.NewPCG(42, 1))
		return reconcile.Reconcile(candidates, nil, opts).Refreshed
	}

	assert.Equal(t, run(), run())
	// The input collection is left as it was.
	assert.Equal(t, ids(30), candidates)
}

func TestReconcile_StatsAdditivity(t *testing.T) {
	tested := []record.Value{entry(1, 10), entry(2, 22), entry(3, 30), entry(5, 50)}
	reference := []record.Value{entry(1, 11), entry(2, 22), entry(3, 33), entry(4, 44)}

	result := reconcile.Reconcile(tested, reference, scenarioOptions())

	assert.True(t, result.Stats.Valid())
	assert.Equal(t, result.Stats.ReferenceItemsFound, result.Stats.ReferenceItemsSuccess+result.Stats.ReferenceItemsFail)
	assert.Equal(t, 2, result.Stats.ReferenceItemsFail)
}

func TestReconcile_ItemKeysForMissingField(t *testing.T) {
	opts := reconcile.DefaultOptions()
	opts.IdentityFields = []string{"id", "sku"}

	tested := []record.Value{record.ObjectValue(record.NewObject().Set("id", record.Number(1)).Set("v", record.Number(1)))}
	reference := []record.Value{record.ObjectValue(record.NewObject().Set("id", record.Number(1)).Set("v", record.Number(2)))}

	result := reconcile.Reconcile(tested, reference, opts)

	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, record.Number(1), result.Mismatches[0].ItemKeys["id"])
	assert.True(t, result.Mismatches[0].ItemKeys["sku"].IsUndefined())
}

func TestConfig_Options(t *testing.T) {
	cfg := reconcile.Config{
		IdentityFields: []string{"id"},
		WarnFields:     []string{"w"},
		RemoveStale:    false,
	}

	opts := cfg.Options()
	assert.Equal(t, []string{"id"}, opts.IdentityFields)
	assert.Equal(t, []string{"w"}, opts.WarnFields)
	assert.False(t, opts.RemoveStale)
	assert.Equal(t, reconcile.DefaultMaxReferenceEntries, opts.MaxReferenceEntries)

	cfg.MaxEntries = 7
	assert.Equal(t, 7, cfg.Options().MaxReferenceEntries)

	assert.Equal(t, reconcile.DefaultStatsKey, reconcile.Config{}.StatsKeyOrDefault())
	assert.Equal(t, "custom", reconcile.Config{StatsKey: "custom"}.StatsKeyOrDefault())
}

func TestStats_Valid(t *testing.T) {
	assert.True(t, reconcile.Stats{ReferenceItemsFound: 3, ReferenceItemsSuccess: 1, ReferenceItemsFail: 2}.Valid())
	assert.False(t, reconcile.Stats{ReferenceItemsFound: 1, ReferenceItemsSuccess: 2, ReferenceItemsFail: -1}.Valid())
}
