package integrity

import (
	"testing"

	"data-integrity/core/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputShape_Apply(t *testing.T) {
	rows, err := record.DecodeAll([]byte(`[
		{"itemCacheId":"a","fieldName":"price","severity":"ERROR"},
		{"itemCacheId":"b","fieldName":"title","severity":"WARN"},
		"plain"
	]`))
	require.NoError(t, err)

	tests := []struct {
		name  string
		shape OutputShape
		want  string
	}{
		{
			name:  "Unchanged",
			shape: OutputShape{},
			want:  `[{"itemCacheId":"a","fieldName":"price","severity":"ERROR"},{"itemCacheId":"b","fieldName":"title","severity":"WARN"},"plain"]`,
		},
		{
			name:  "PickKeepsGivenOrder",
			shape: OutputShape{PickFields: []string{"severity", "itemCacheId", "absent"}},
			want:  `[{"severity":"ERROR","itemCacheId":"a"},{"severity":"WARN","itemCacheId":"b"},"plain"]`,
		},
		{
			name:  "RenameKeepsPosition",
			shape: OutputShape{RenameFields: map[string]string{"itemCacheId": "id"}},
			want:  `[{"id":"a","fieldName":"price","severity":"ERROR"},{"id":"b","fieldName":"title","severity":"WARN"},"plain"]`,
		},
		{
			name: "PickThenRename",
			shape: OutputShape{
				PickFields:   []string{"fieldName"},
				RenameFields: map[string]string{"fieldName": "field", "severity": "level"},
			},
			want: `[{"field":"price"},{"field":"title"},"plain"]`,
		},
		{
			name:  "MaxEntries",
			shape: OutputShape{MaxEntries: 1, PickFields: []string{"fieldName"}},
			want:  `[{"fieldName":"price"}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := record.MarshalAll(tt.shape.Apply(rows))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
		})
	}

	// The input rows are never modified.
	data, err := record.MarshalAll(rows[:1])
	require.NoError(t, err)
	assert.Equal(t, `[{"itemCacheId":"a","fieldName":"price","severity":"ERROR"}]`, string(data))
}

func TestOutputShape_Validate(t *testing.T) {
	tests := []struct {
		name    string
		shape   OutputShape
		wantErr bool
	}{
		{"Empty", OutputShape{}, false},
		{"Valid", OutputShape{PickFields: []string{"a"}, RenameFields: map[string]string{"a": "b"}, MaxEntries: 5}, false},
		{"NegativeMax", OutputShape{MaxEntries: -1}, true},
		{"EmptyPick", OutputShape{PickFields: []string{""}}, true},
		{"EmptyRenameSource", OutputShape{RenameFields: map[string]string{"": "b"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.shape.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			assert.NoError(t, err)
		})
	}
}
