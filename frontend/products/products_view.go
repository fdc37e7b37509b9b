package products

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/models"
)

// ProductsPage renders the item master list with import and delete forms.
func ProductsPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Products</h1>")
	if data.Message != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(data.Message))
	}

	b.WriteString(`<form method="POST" action="/console/products/import" enctype="multipart/form-data">
  <input type="file" name="file" accept=".csv">
  <button type="submit">Import CSV</button>
</form>`)

	b.WriteString(`<form method="POST" action="/console/products/delete">
<table><thead><tr><th></th><th>Code</th><th>Name</th><th>Type</th><th>Expiry-tracked</th><th>Updated</th></tr></thead><tbody>`)
	for _, rec := range data.Records {
		expiry := "no"
		if rec.Consumable {
			expiry = "yes"
		}
		fmt.Fprintf(&b, `<tr><td><input type="checkbox" name="product_id" value="%d"></td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			rec.ID, html.EscapeString(rec.Code), html.EscapeString(rec.Name), html.EscapeString(rec.ProductType), expiry, rec.UpdatedAt)
	}
	b.WriteString(`</tbody></table>
<button type="submit">Delete selected</button>
</form>`)

	return sharedhtml.Page("Products", nav.BuildTopNavData(session).Render(), b.String())
}
