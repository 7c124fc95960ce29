package field

// Type is the value/indexing type of a searchable field.
type Type string

// Field type constants.
const (
	// Tag is an exact-match enumeration field.
	Tag     Type = "tag"
	Numeric Type = "numeric"
	// Text is a free-text field searched by terms.
	Text Type = "text"
	// Date is a calendar date stored as epoch seconds.
	Date Type = "date"
)

// ID identifies a searchable attribute. The set is closed: every ID has an
// entry in the definitions table, and names are resolved only through Parse.
type ID int

// Field identifiers.
const (
	Unknown ID = iota
	Tenant
	Subject
	Summary
	Description
	Email
	Status
	Priority
	Severity
	Origin
	Reason
	CaseType
	AssignUser
	Assignee
	Account
	Project
	CreatedTime
	LastUpdatedTime
	DueDate

	numIDs
)

type definition struct {
	name      string
	fieldType Type
}

var definitions = [numIDs]definition{
	Unknown:         {},
	Tenant:          {"saccountid", Numeric},
	Subject:         {"subject", Text},
	Summary:         {"summary", Text},
	Description:     {"description", Text},
	Email:           {"email", Text},
	Status:          {"status", Tag},
	Priority:        {"priority", Tag},
	Severity:        {"severity", Tag},
	Origin:          {"origin", Tag},
	Reason:          {"reason", Tag},
	CaseType:        {"type", Tag},
	AssignUser:      {"assignuser", Tag},
	Assignee:        {"assignee", Tag},
	Account:         {"account", Numeric},
	Project:         {"projectid", Numeric},
	CreatedTime:     {"createdtime", Date},
	LastUpdatedTime: {"lastupdatedtime", Date},
	DueDate:         {"duedate", Date},
}

var byName = func() map[string]ID {
	m := make(map[string]ID, numIDs)
	for id := Unknown + 1; id < numIDs; id++ {
		m[definitions[id].name] = id
	}
	return m
}()

// Parse resolves a field name to its ID.
func Parse(name string) (ID, bool) {
	id, ok := byName[name]
	return id, ok
}

// All returns every valid field ID in declaration order.
func All() []ID {
	ids := make([]ID, 0, numIDs-1)
	for id := Unknown + 1; id < numIDs; id++ {
		ids = append(ids, id)
	}
	return ids
}

// IsValid reports whether id is a member of the enumeration.
func (id ID) IsValid() bool { return id > Unknown && id < numIDs }

// Name returns the storage/query name of the field ("" for invalid IDs).
func (id ID) Name() string {
	if !id.IsValid() {
		return ""
	}
	return definitions[id].name
}

// FieldType returns the field's value type ("" for invalid IDs).
func (id ID) FieldType() Type {
	if !id.IsValid() {
		return ""
	}
	return definitions[id].fieldType
}

func (id ID) String() string {
	if !id.IsValid() {
		return "unknown"
	}
	return definitions[id].name
}
