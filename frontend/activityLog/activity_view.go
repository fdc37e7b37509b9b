package activitylog

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/models"
)

// ActivityPage renders the filter form and log table.
func ActivityPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Activity</h1>")

	b.WriteString(`<form method="GET" action="/console/activity">`)
	b.WriteString(`<select name="action"><option value="">All actions</option>`)
	for _, a := range data.ActionTypes {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, html.EscapeString(a), selected(a == data.Filter.Action), html.EscapeString(a))
	}
	b.WriteString(`</select><select name="entity_type"><option value="">All entities</option>`)
	for _, e := range data.EntityTypes {
		fmt.Fprintf(&b, `<option value="%s"%s>%s</option>`, html.EscapeString(e), selected(e == data.Filter.EntityType), html.EscapeString(e))
	}
	fmt.Fprintf(&b, `</select><label>User <input type="text" name="username" value="%s"></label>`, html.EscapeString(data.Filter.Username))
	b.WriteString(`<button type="submit">Filter</button></form>`)

	b.WriteString(`<table><thead><tr><th>When</th><th>User</th><th>Action</th><th>Entity</th><th>Before</th><th>After</th></tr></thead><tbody>`)
	for _, row := range data.Rows {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s %s</td><td><code>%s</code></td><td><code>%s</code></td></tr>`,
			html.EscapeString(row.CreatedAt), html.EscapeString(row.Username),
			html.EscapeString(row.Action), html.EscapeString(row.EntityType), html.EscapeString(row.EntityID),
			html.EscapeString(row.BeforeJSON), html.EscapeString(row.AfterJSON))
	}
	b.WriteString(`</tbody></table>`)

	return sharedhtml.Page("Activity", nav.BuildTopNavData(session).Render(), b.String())
}

func selected(v bool) string {
	if v {
		return " selected"
	}
	return ""
}
