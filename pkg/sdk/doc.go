// Package crmfilter embeds the CRM search criteria builder and its
// Redis-backed query execution in a Go program.
//
// Every search runs on behalf of a Principal: the account (tenant) id is
// mandatory and scopes every query, the username feeds "mine only" and
// current-user saved queries.
//
// # Basic and saved searches
//
//	client, _ := crmfilter.New(ctx, crmfilter.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	alice := crmfilter.Principal{AccountID: 42, Username: "alice"}
//	bugs := client.Search(crmfilter.EntityBug, alice)
//	res, _ := bugs.Basic(ctx, map[string]string{"summary": "crash"}, true, crmfilter.Page{})
//	overdue, _ := bugs.Saved(ctx, "OVERDUE_BUGS", crmfilter.Page{Limit: 50})
//
// # Ad-hoc queries
//
//	res, _ := bugs.Query().
//	    Where("status", crmfilter.OpIn, []string{"New", "Open"}).
//	    Where("duedate", crmfilter.OpBefore, time.Now()).
//	    Limit(20).
//	    Do(ctx)
//
// # Search panels
//
//	p, _ := client.Panel(crmfilter.EntityCase, alice)
//	_ = p.SetInput("subject", "Server down")
//	_ = p.SetMineOnly(true)
//	res, _ := p.Search(ctx, crmfilter.Page{})
package crmfilter
