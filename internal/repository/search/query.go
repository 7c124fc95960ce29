package search

import (
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/crmfilter/internal/domain/criteria"
	"github.com/kailas-cloud/crmfilter/internal/domain/criteria/field"
)

// BuildQuery translates criteria into an FT.SEARCH query string (dialect 2).
// The tenant predicate is always the first conjunct. AND predicates are
// further conjuncts; OR predicates form a single disjunction group.
func BuildQuery(c criteria.Criteria) string {
	parts := []string{condition(c.Tenant())}

	var disjuncts []string
	for _, f := range c.Predicates() {
		if f.Join() == criteria.Or {
			disjuncts = append(disjuncts, condition(f))
			continue
		}
		parts = append(parts, condition(f))
	}

	switch len(disjuncts) {
	case 0:
	case 1:
		parts = append(parts, disjuncts[0])
	default:
		parts = append(parts, "("+strings.Join(disjuncts, " | ")+")")
	}

	return strings.Join(parts, " ")
}

func condition(f criteria.SearchField) string {
	var expr string
	switch f.Field().FieldType() {
	case field.Numeric:
		expr = numericCondition(f)
	case field.Tag:
		expr = tagCondition(f)
	case field.Text:
		expr = textCondition(f)
	case field.Date:
		expr = dateCondition(f)
	}
	if f.Op().IsNegated() {
		return "-" + expr
	}
	return expr
}

func numericCondition(f criteria.SearchField) string {
	name := f.Field().Name()
	v := f.Value()
	if f.Op().IsSet() {
		items := v.Items()
		if len(items) == 1 {
			return exact(name, items[0])
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, exact(name, it))
		}
		return "(" + strings.Join(parts, " | ") + ")"
	}
	return exact(name, strconv.FormatInt(v.Num(), 10))
}

func tagCondition(f criteria.SearchField) string {
	v := f.Value()
	var values []string
	if f.Op().IsSet() {
		values = v.Items()
	} else {
		values = []string{v.Str()}
	}
	for i := range values {
		values[i] = tagEscaper.Replace(values[i])
	}
	return "@" + f.Field().Name() + ":{" + strings.Join(values, " | ") + "}"
}

func textCondition(f criteria.SearchField) string {
	escaped := queryEscaper.Replace(f.Value().Str())
	if f.Op() == criteria.Eq {
		return "@" + f.Field().Name() + `:"` + escaped + `"`
	}
	return "@" + f.Field().Name() + ":(" + escaped + ")"
}

func dateCondition(f criteria.SearchField) string {
	name := f.Field().Name()
	v := f.Value()
	switch f.Op() {
	case criteria.Before:
		return numericRange(name, "-inf", "("+epoch(v.Date()))
	case criteria.After:
		return numericRange(name, epoch(nextDay(v.Date())), "+inf")
	case criteria.Between:
		from, to := v.Range()
		return numericRange(name, epoch(from), "("+epoch(nextDay(to)))
	default:
		d := v.Date()
		return numericRange(name, epoch(d), "("+epoch(nextDay(d)))
	}
}

func exact(name, n string) string {
	return numericRange(name, n, n)
}

func numericRange(name, lo, hi string) string {
	return "@" + name + ":[" + lo + " " + hi + "]"
}

func epoch(t time.Time) string {
	return strconv.FormatInt(t.Unix(), 10)
}

func nextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	"\\", "\\\\",
	",", "\\,",
	".", "\\.",
	"<", "\\<",
	">", "\\>",
	"{", "\\{",
	"}", "\\}",
	"\"", "\\\"",
	"'", "\\'",
	":", "\\:",
	";", "\\;",
	"!", "\\!",
	"@", "\\@",
	"#", "\\#",
	"$", "\\$",
	"%", "\\%",
	"^", "\\^",
	"&", "\\&",
	"*", "\\*",
	"(", "\\(",
	")", "\\)",
	"[", "\\[",
	"]", "\\]",
	"/", "\\/",
	"-", "\\-",
	"+", "\\+",
	"=", "\\=",
	"~", "\\~",
	"|", "\\|",
	" ", "\\ ",
)

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
	`:`, `\:`,
)
