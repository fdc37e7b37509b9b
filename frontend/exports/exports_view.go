package exports

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/models"
)

// ExportsPage renders the download links and recent export runs.
func ExportsPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Exports</h1>")
	if data.Message != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(data.Message))
	}

	b.WriteString(`<ul>
<li><a href="/console/exports/intake.csv">Intake lines (CSV)</a></li>
<li><a href="/console/exports/distribution.csv">Distribution splits (CSV)</a></li>
<li><a href="/console/exports/activity.csv">Activity log (CSV)</a></li>
</ul>`)

	b.WriteString(`<h2>Recent exports</h2><table><thead><tr><th>Type</th><th>User</th><th>When</th></tr></thead><tbody>`)
	for _, run := range data.Runs {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(run.ExportType), html.EscapeString(run.Username), html.EscapeString(run.CreatedAt))
	}
	b.WriteString(`</tbody></table>`)

	return sharedhtml.Page("Exports", nav.BuildTopNavData(session).Render(), b.String())
}
