package savedquery

import (
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
	"github.com/kailas-cloud/crmfilter/internal/domain/provider"
	"github.com/kailas-cloud/crmfilter/internal/domain/schema"
)

// Bug saved query ids.
const (
	AllBugs            = "ALL_BUGS"
	OpenBugs           = "OPEN_BUGS"
	OverdueBugs        = "OVERDUE_BUGS"
	MyBugs             = "MY_BUGS"
	NewThisWeek        = "NEW_THIS_WEEK"
	UpdateThisWeek     = "UPDATE_THIS_WEEK"
	NewLastWeek        = "NEW_LAST_WEEK"
	UpdateLastWeek     = "UPDATE_LAST_WEEK"
	WaitingForApproval = "WAITING_FOR_APPROVAL"
)

// Case saved query ids.
const (
	AllCases  = "ALL_CASES"
	MyCases   = "MY_CASES"
	OpenCases = "OPEN_CASES"
)

// Bug statuses.
const (
	BugOpen     = "Open"
	BugReOpen   = "ReOpen"
	BugResolved = "Resolved"
	BugVerified = "Verified"
)

func dynamic(tag provider.Tag) provider.Provider {
	p, ok := provider.For(tag)
	if !ok {
		panic("unknown provider " + string(tag))
	}
	return p
}

// BugQueries returns the shared bug quick filters.
func BugQueries() []SavedQuery {
	return []SavedQuery{
		MustNew(AllBugs, "All Bugs", schema.Bug,
			In(field.Project, dynamic(provider.CurrentProject))),
		MustNew(OpenBugs, "All Open Bugs", schema.Bug,
			In(field.Status, provider.Strings(BugOpen, BugReOpen))),
		MustNew(OverdueBugs, "Overdue Bugs", schema.Bug,
			Where(criteria.And, field.DueDate, criteria.Before, dynamic(provider.Today)),
			Where(criteria.And, field.Status, criteria.NotEq, provider.String(BugVerified))),
		MustNew(MyBugs, "My Bugs", schema.Bug,
			In(field.Assignee, dynamic(provider.CurrentUser))),
		MustNew(NewThisWeek, "New This Week", schema.Bug,
			InRange(field.CreatedTime, dynamic(provider.ThisWeek))),
		MustNew(UpdateThisWeek, "Update This Week", schema.Bug,
			InRange(field.LastUpdatedTime, dynamic(provider.ThisWeek))),
		MustNew(NewLastWeek, "New Last Week", schema.Bug,
			InRange(field.CreatedTime, dynamic(provider.LastWeek))),
		MustNew(UpdateLastWeek, "Update Last Week", schema.Bug,
			InRange(field.LastUpdatedTime, dynamic(provider.LastWeek))),
		MustNew(WaitingForApproval, "Waiting For Approval", schema.Bug,
			In(field.Status, provider.Strings(BugResolved))),
	}
}

// CaseQueries returns the shared case quick filters.
func CaseQueries() []SavedQuery {
	return []SavedQuery{
		MustNew(AllCases, "All Cases", schema.Case),
		MustNew(MyCases, "My Cases", schema.Case,
			In(field.AssignUser, dynamic(provider.CurrentUser))),
		MustNew(OpenCases, "Open Cases", schema.Case,
			In(field.Status, provider.Strings("New", "Assigned", "Pending Input"))),
		MustNew(NewThisWeek, "New This Week", schema.Case,
			InRange(field.CreatedTime, dynamic(provider.ThisWeek))),
		MustNew(UpdateThisWeek, "Update This Week", schema.Case,
			InRange(field.LastUpdatedTime, dynamic(provider.ThisWeek))),
	}
}

// DefaultCatalog returns a catalog with all built-in saved queries.
func DefaultCatalog() *Catalog {
	all := append(CaseQueries(), BugQueries()...)
	c, err := NewCatalog(all...)
	if err != nil {
		panic(err)
	}
	return c
}
