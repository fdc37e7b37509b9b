package shipping

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/models"
)

// ShippingPage renders zone and method management.
func ShippingPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Shipping</h1>")
	if data.Message != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(data.Message))
	}

	b.WriteString(`<h2>Zones</h2><table><thead><tr><th>Name</th><th>Regions</th><th>Methods</th></tr></thead><tbody>`)
	for _, z := range data.Zones {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(z.Name), html.EscapeString(z.Regions), html.EscapeString(z.Methods))
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<form method="POST" action="/console/shipping/zones">
<label>Name <input type="text" name="name"></label>
<label>Region codes (comma separated) <input type="text" name="regions"></label>
<button type="submit">Add zone</button>
</form>`)

	b.WriteString(`<h2>Methods</h2><table><thead><tr><th>Carrier</th><th>Name</th><th>Base rate</th><th>Per kg</th><th>Enabled</th><th></th></tr></thead><tbody>`)
	for _, m := range data.Methods {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td>`,
			html.EscapeString(m.Carrier), html.EscapeString(m.Name),
			html.EscapeString(m.BaseRate), html.EscapeString(m.PerKgRate), yesNo(m.Enabled))
		toggleTo := "1"
		toggleLabel := "Enable"
		if m.Enabled {
			toggleTo = "0"
			toggleLabel = "Disable"
		}
		fmt.Fprintf(&b, `<td><form method="POST" action="/console/shipping/methods/toggle"><input type="hidden" name="method_id" value="%d"><input type="hidden" name="enabled" value="%s"><button type="submit">%s</button></form></td></tr>`,
			m.ID, toggleTo, toggleLabel)
	}
	b.WriteString(`</tbody></table>`)

	b.WriteString(`<form method="POST" action="/console/shipping/methods">
<label>Name <input type="text" name="name"></label>
<label>Carrier <input type="text" name="carrier"></label>
<label>Base rate <input type="text" name="base_rate" inputmode="decimal"></label>
<label>Per kg rate <input type="text" name="per_kg_rate" inputmode="decimal"></label>
<button type="submit">Add method</button>
</form>`)

	b.WriteString(`<h2>Assign method to zone</h2><form method="POST" action="/console/shipping/assign">`)
	b.WriteString(`<select name="zone_id"><option value="">Zone...</option>`)
	for _, z := range data.Zones {
		fmt.Fprintf(&b, `<option value="%d">%s</option>`, z.ID, html.EscapeString(z.Name))
	}
	b.WriteString(`</select><select name="method_id"><option value="">Method...</option>`)
	for _, m := range data.AllMethods {
		fmt.Fprintf(&b, `<option value="%d">%s (%s)</option>`, m.ID, html.EscapeString(m.Name), html.EscapeString(m.Carrier))
	}
	b.WriteString(`</select><select name="action"><option value="assign">Assign</option><option value="unassign">Unassign</option></select>`)
	b.WriteString(`<button type="submit">Apply</button></form>`)

	return sharedhtml.Page("Shipping", nav.BuildTopNavData(session).Render(), b.String())
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
