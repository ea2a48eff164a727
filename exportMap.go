package main

// AnonymousName is the export name recorded for default exports whose
// expression has no identifier, e.g. `export default () => {}`.
const AnonymousName = "_default"

// ExportRecord tells how a binding is exported. Both flags may be set:
//
//	export const foo = "bar"
//	export default foo
type ExportRecord struct {
	IsDefault bool `json:"default,omitempty" yaml:"default,omitempty"`
	IsNamed   bool `json:"named,omitempty" yaml:"named,omitempty"`
}

type ExportMap map[string]ExportRecord

// add unions the flags of record into the entry stored under name.
func (m ExportMap) add(name string, record ExportRecord) {
	if name == "" {
		return
	}
	existing := m[name]
	m[name] = ExportRecord{
		IsDefault: existing.IsDefault || record.IsDefault,
		IsNamed:   existing.IsNamed || record.IsNamed,
	}
}

// replaceFrom copies every entry of other into m. Entries already present in
// m take the flags of other.
func (m ExportMap) replaceFrom(other ExportMap) {
	for name, record := range other {
		m[name] = record
	}
}

// Names returns export names in lexical order.
func (m ExportMap) Names() []string {
	sorted := GetSortedMap(m)
	names := make([]string, 0, len(sorted))
	for _, kv := range sorted {
		names = append(names, kv.k)
	}
	return names
}
