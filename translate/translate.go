// Package translate holds the static translation overlay table. Records are
// authored alongside the script and keyed by utterance id; there is no
// runtime translation, only lookup. A missing record simply means no
// translation affordance is offered for that utterance.
package translate

// Record is one precomputed translation for an utterance.
type Record struct {
	Text     string `yaml:"text" validate:"required"`
	Language string `yaml:"language" validate:"required"`
	Code     string `yaml:"code" validate:"required,max=5"`
	Flag     string `yaml:"flag"`
}

// Table is a read-only id-to-translation mapping, loaded once at startup.
type Table struct {
	records map[string]Record
}

// NewTable copies records into a Table. A nil map yields an empty table.
func NewTable(records map[string]Record) *Table {
	t := &Table{records: make(map[string]Record, len(records))}
	for id, r := range records {
		t.records[id] = r
	}
	return t
}

// Lookup returns the translation for an utterance id, if one was authored.
func (t *Table) Lookup(id string) (Record, bool) {
	r, ok := t.records[id]
	return r, ok
}

// Has reports whether a translation exists without copying the record.
func (t *Table) Has(id string) bool {
	_, ok := t.records[id]
	return ok
}

func (t *Table) Len() int { return len(t.records) }
