package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"data-integrity/core/compare"
	"data-integrity/core/reconcile"
	"data-integrity/core/record"
	"data-integrity/core/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) record.Value {
	t.Helper()
	v, err := record.Decode([]byte(s))
	require.NoError(t, err)
	return v
}

func sampleRows(t *testing.T) []compare.FieldMismatch {
	return []compare.FieldMismatch{
		{
			ItemCacheID:         `["a",1]`,
			ItemKeys:            map[string]record.Value{"sku": record.String("a"), "id": record.Number(1)},
			FieldName:           "price",
			FieldValueReference: record.Number(10),
			FieldValueTested:    record.String("10"),
			FieldTypeMismatch:   true,
			Severity:            compare.SeverityError,
		},
		{
			ItemCacheID:         `{"x":1}`,
			FieldName:           "note",
			FieldValueReference: decode(t, `{"long":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}`),
			FieldValueTested:    record.Undefined(),
			Severity:            compare.SeverityWarn,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    report.Format
		wantErr bool
	}{
		{"table", report.FormatTable, false},
		{"JSON", report.FormatJSON, false},
		{" yaml ", report.FormatYAML, false},
		{"", "", false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := report.ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormat_Explicit(t *testing.T) {
	assert.Equal(t, report.FormatYAML, report.DetectFormat(report.FormatYAML))
}

func TestMismatchTable(t *testing.T) {
	table := report.MismatchTable(sampleRows(t))

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{`id=1 sku="a"`, "price", "ERROR", "10", `"10"`, "true"}, table.Rows[0])

	second := table.Rows[1]
	assert.Equal(t, `{"x":1}`, second[0])
	assert.Equal(t, "WARN", second[2])
	assert.Len(t, second[3], 60)
	assert.True(t, len(second[3]) > 3 && second[3][57:] == "...")
	assert.Equal(t, "<missing>", second[4])
}

func TestStatsTable(t *testing.T) {
	table := report.StatsTable(reconcile.Stats{ReferenceItemsFound: 3, ReferenceItemsNotFound: 1, ReferenceItemsSuccess: 1, ReferenceItemsFail: 2})
	assert.Equal(t, []string{"Reference items fail", "2"}, table.Rows[3])
}

func TestFormatters(t *testing.T) {
	stats := reconcile.Stats{ReferenceItemsFound: 3, ReferenceItemsNotFound: 1, ReferenceItemsSuccess: 1, ReferenceItemsFail: 2}

	t.Run("Table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.NewFormatter(report.FormatTable).Format(&buf, report.StatsTable(stats)))
		out := buf.String()
		assert.Contains(t, out, "Reference items found")
		assert.Contains(t, out, "3")
	})

	t.Run("TableFallsBackToJSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.NewFormatter(report.FormatTable).Format(&buf, stats))
		assert.JSONEq(t, `{"referenceItemsFound":3,"referenceItemsNotFound":1,"referenceItemsSuccess":1,"referenceItemsFail":2}`, buf.String())
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.NewFormatter(report.FormatJSON).Format(&buf, sampleRows(t)[:1]))

		var got []map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "price", got[0]["fieldName"])
		assert.Equal(t, "ERROR", got[0]["severity"])
		assert.Equal(t, true, got[0]["fieldTypeMismatch"])
		assert.Equal(t, map[string]any{"id": float64(1), "sku": "a"}, got[0]["itemKeys"])
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, report.NewFormatter(report.FormatYAML).Format(&buf, stats))
		assert.Contains(t, buf.String(), "referenceItemsFail: 2")
	})
}

func TestItemPatch(t *testing.T) {
	reference := decode(t, `{"id":1,"price":10,"tags":["a"],"old":true}`)
	tested := decode(t, `{"id":1,"price":12,"tags":["a"],"new":"x"}`)

	patch, err := report.ItemPatch(reference, tested)
	require.NoError(t, err)

	lines := report.PatchLines(patch)
	assert.Contains(t, lines, "replace /price: 10 -> 12")
	assert.Contains(t, lines, "remove /old")
	assert.Contains(t, lines, `add /new: "x"`)
	assert.Len(t, lines, 3)

	same, err := report.ItemPatch(reference, reference)
	require.NoError(t, err)
	assert.Empty(t, report.PatchLines(same))
}
