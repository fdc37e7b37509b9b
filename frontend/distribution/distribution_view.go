package distribution

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/ledger"
	"stockdesk/models"
)

// DistributionPage renders availability, the split form and recent splits.
func DistributionPage(session models.Session, data PageData, cfg ledger.Config) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Distribution</h1>")
	if data.Message != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(data.Message))
	}

	b.WriteString(`<h2>Available stock</h2><table><thead><tr><th>Product</th><th>Available</th></tr></thead><tbody>`)
	for _, row := range data.Availability {
		fmt.Fprintf(&b, `<tr><td>%s %s</td><td>%d</td></tr>`,
			html.EscapeString(row.Code), html.EscapeString(row.Name), row.AvailableQty)
	}
	b.WriteString(`</tbody></table>`)

	if cfg.DistributionEnabled {
		b.WriteString(`<form method="POST" action="/console/distribution">`)
		b.WriteString(`<label>Product <select name="product_id"><option value="">Select...</option>`)
		for _, row := range data.Availability {
			if row.AvailableQty <= 0 {
				continue
			}
			fmt.Fprintf(&b, `<option value="%d">%s %s (%d available)</option>`,
				row.ProductID, html.EscapeString(row.Code), html.EscapeString(row.Name), row.AvailableQty)
		}
		b.WriteString(`</select></label>`)
		b.WriteString(`<label>Online <input type="text" name="online_qty" inputmode="numeric"></label>`)
		b.WriteString(`<label>Offline (leave blank to derive) <input type="text" name="offline_qty" inputmode="numeric"></label>`)
		b.WriteString(`<button type="submit">Record split</button></form>`)
	}

	b.WriteString(`<h2>Recent splits</h2><table><thead><tr><th>Product</th><th>Available</th><th>Online</th><th>Offline</th><th>Recorded</th><th></th></tr></thead><tbody>`)
	for _, s := range data.Splits {
		fmt.Fprintf(&b, `<tr><td>%s %s</td><td>%d</td><td>%d</td><td>%d</td><td>%s</td>`,
			html.EscapeString(s.ProductCode), html.EscapeString(s.ProductName),
			s.AvailableQty, s.OnlineQty, s.OfflineQty, html.EscapeString(s.CreatedAt))
		if cfg.DistributionEnabled {
			fmt.Fprintf(&b, `<td><form method="POST" action="/console/distribution/rebalance"><input type="hidden" name="split_id" value="%d"><button type="submit">Rebalance</button></form></td>`, s.ID)
		} else {
			b.WriteString(`<td></td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	return sharedhtml.Page("Distribution", nav.BuildTopNavData(session).Render(), b.String())
}
