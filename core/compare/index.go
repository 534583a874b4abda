package compare

import "data-integrity/core/record"

// referenceIndex maps identity keys to reference entries, keeping the order in
// which keys were first seen. A later record with the same key replaces the
// earlier one but keeps its position.
type referenceIndex struct {
	order []string
	byKey map[string]*ReferenceEntry
}

func newReferenceIndex(items []record.Value, key KeyFunc) *referenceIndex {
	idx := &referenceIndex{byKey: make(map[string]*ReferenceEntry, len(items))}
	for _, item := range items {
		id := key(item)
		if entry, ok := idx.byKey[id]; ok {
			entry.Item = item
			continue
		}
		idx.order = append(idx.order, id)
		idx.byKey[id] = &ReferenceEntry{Item: item}
	}
	return idx
}

func (i *referenceIndex) get(id string) (*ReferenceEntry, bool) {
	entry, ok := i.byKey[id]
	return entry, ok
}

func (i *referenceIndex) entries() []*ReferenceEntry {
	out := make([]*ReferenceEntry, 0, len(i.order))
	for _, id := range i.order {
		out = append(out, i.byKey[id])
	}
	return out
}
