package project

import "github.com/goliatone/go-structspec/internal/model"

// reachableFrom collects every record name reachable through record
// references from start, including start itself when a cycle leads back to
// it. Start is not included otherwise.
func reachableFrom(m *model.TypeModel, start *model.RecordType) map[string]struct{} {
	seen := make(map[string]struct{})
	var visit func(*model.RecordType)
	visit = func(record *model.RecordType) {
		for _, def := range record.Fields {
			if !def.Elem.IsRecord() {
				continue
			}
			name := def.Elem.Ref
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if target, ok := m.Record(name); ok {
				visit(target)
			}
		}
	}
	visit(start)
	return seen
}

// recordReferenced reports whether any record in the model references name.
func recordReferenced(m *model.TypeModel, name string) bool {
	for _, owner := range m.Names() {
		record, _ := m.Record(owner)
		for _, def := range record.Fields {
			if def.Elem.IsRecord() && def.Elem.Ref == name {
				return true
			}
		}
	}
	return false
}
