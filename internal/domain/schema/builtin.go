package schema

import "github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"

// CaseSchema is the CRM case schema.
func CaseSchema() Schema {
	return MustNew(Case,
		[]field.ID{
			field.Account, field.Priority, field.Status, field.Email,
			field.Origin, field.Reason, field.Subject, field.CaseType,
			field.CreatedTime, field.LastUpdatedTime, field.AssignUser,
		},
		BasicForm{
			TextInputs: []TextInput{{Name: "subject", Field: field.Subject}},
			MineOnly:   field.AssignUser,
		},
	)
}

// BugSchema is the project tracker bug schema.
func BugSchema() Schema {
	return MustNew(Bug,
		[]field.ID{
			field.Project, field.Summary, field.Description, field.Status,
			field.Priority, field.Severity, field.Assignee, field.DueDate,
			field.CreatedTime, field.LastUpdatedTime,
		},
		BasicForm{
			TextInputs: []TextInput{{Name: "summary", Field: field.Summary}},
			MineOnly:   field.Assignee,
		},
	)
}

// Default returns a registry with the case and bug schemas.
func Default() *Registry {
	r, err := NewRegistry(CaseSchema(), BugSchema())
	if err != nil {
		panic(err)
	}
	return r
}
