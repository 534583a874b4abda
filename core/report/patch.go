package report

import (
	"encoding/json"
	"fmt"

	"data-integrity/core/record"

	"github.com/wI2L/jsondiff"
)

// ItemPatch computes the JSON patch that turns the reference record into the tested one.
func ItemPatch(reference, tested record.Value) (jsondiff.Patch, error) {
	source, err := reference.MarshalJSON()
	if err != nil {
		return nil, err
	}
	target, err := tested.MarshalJSON()
	if err != nil {
		return nil, err
	}
	patch, err := jsondiff.CompareJSON(source, target)
	if err != nil {
		return nil, fmt.Errorf("failed to compute patch: %w", err)
	}
	return patch, nil
}

// PatchLines renders each patch operation on one line, e.g.
// `replace /price: 10 -> 12`.
func PatchLines(patch jsondiff.Patch) []string {
	var lines []string
	for _, op := range patch {
		switch op.Type {
		case jsondiff.OperationTest:
			continue
		case jsondiff.OperationAdd:
			lines = append(lines, fmt.Sprintf("%s %s: %s", op.Type, op.Path, compact(op.Value)))
		case jsondiff.OperationRemove:
			lines = append(lines, fmt.Sprintf("%s %s", op.Type, op.Path))
		default:
			lines = append(lines, fmt.Sprintf("%s %s: %s -> %s", op.Type, op.Path, compact(op.OldValue), compact(op.Value)))
		}
	}
	return lines
}

func compact(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
