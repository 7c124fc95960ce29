package result

// Record is a single matching entity record.
type Record struct {
	id     string
	fields map[string]string
}

// New creates a search record.
func New(id string, fields map[string]string) Record {
	return Record{id: id, fields: fields}
}

// ID returns the record identifier.
func (r *Record) ID() string { return r.id }

// Fields returns the stored record attributes.
func (r *Record) Fields() map[string]string { return r.fields }

// Get returns a single attribute.
func (r *Record) Get(name string) (string, bool) {
	v, ok := r.fields[name]
	return v, ok
}

// Page is one window of search results.
type Page struct {
	CriteriaID string
	Total      int
	Records    []Record
}
