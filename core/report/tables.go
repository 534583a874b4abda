package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"data-integrity/core/compare"
	"data-integrity/core/reconcile"
	"data-integrity/core/record"
)

const maxCellWidth = 60

// MismatchTable lists one row per mismatching field.
func MismatchTable(rows []compare.FieldMismatch) Table {
	t := Table{Headers: []string{"Item", "Field", "Severity", "Reference", "Tested", "Type Mismatch"}}
	for _, row := range rows {
		t.Rows = append(t.Rows, []string{
			itemLabel(row),
			row.FieldName,
			string(row.Severity),
			cell(row.FieldValueReference),
			cell(row.FieldValueTested),
			strconv.FormatBool(row.FieldTypeMismatch),
		})
	}
	return t
}

// StatsTable lists the run statistics.
func StatsTable(stats reconcile.Stats) Table {
	return Table{
		Headers: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Reference items found", strconv.Itoa(stats.ReferenceItemsFound)},
			{"Reference items not found", strconv.Itoa(stats.ReferenceItemsNotFound)},
			{"Reference items success", strconv.Itoa(stats.ReferenceItemsSuccess)},
			{"Reference items fail", strconv.Itoa(stats.ReferenceItemsFail)},
		},
	}
}

// itemLabel names the item by its identity fields, or by its cache id when there are none.
func itemLabel(row compare.FieldMismatch) string {
	if len(row.ItemKeys) == 0 {
		return truncate(row.ItemCacheID)
	}
	names := make([]string, 0, len(row.ItemKeys))
	for name := range row.ItemKeys {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%s", name, record.Canonical(row.ItemKeys[name]))
	}
	return truncate(strings.Join(parts, " "))
}

func cell(v record.Value) string {
	if v.IsUndefined() {
		return "<missing>"
	}
	return truncate(record.Canonical(v))
}

func truncate(s string) string {
	if len(s) <= maxCellWidth {
		return s
	}
	return s[:maxCellWidth-3] + "..."
}
