package purchasing

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/models"
)

// PurchasingListPage renders all purchase orders with the create form.
func PurchasingListPage(session models.Session, data ListPageData) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Purchasing</h1>")
	if data.Message != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(data.Message))
	}

	b.WriteString(`<form method="POST" action="/console/purchasing">`)
	b.WriteString(`<label>Reference <input type="text" name="reference"></label>`)
	b.WriteString(`<label>Supplier <input type="text" name="supplier"></label>`)
	b.WriteString(`<label>Notes <textarea name="notes"></textarea></label>`)
	for i := 0; i < 5; i++ {
		b.WriteString(`<fieldset><legend>Line</legend>`)
		b.WriteString(`<select name="line_product_id"><option value="">None</option>`)
		for _, p := range data.Products {
			fmt.Fprintf(&b, `<option value="%d">%s %s</option>`, p.ID, html.EscapeString(p.Code), html.EscapeString(p.Name))
		}
		b.WriteString(`</select>`)
		b.WriteString(`<label>Qty <input type="text" name="line_qty" inputmode="numeric"></label>`)
		b.WriteString(`<label>Unit cost <input type="text" name="line_unit_cost" inputmode="decimal"></label>`)
		b.WriteString(`</fieldset>`)
	}
	b.WriteString(`<button type="submit">Create order</button></form>`)

	b.WriteString(`<table><thead><tr><th>Reference</th><th>Supplier</th><th>Status</th><th>Lines</th><th>Total</th><th>Created</th></tr></thead><tbody>`)
	for _, o := range data.Orders {
		fmt.Fprintf(&b, `<tr><td><a href="/console/purchasing/%d">%s</a></td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>`,
			o.ID, html.EscapeString(o.Reference), html.EscapeString(o.Supplier),
			html.EscapeString(o.Status), o.LineCount, html.EscapeString(o.TotalCost), html.EscapeString(o.CreatedAt))
	}
	b.WriteString(`</tbody></table>`)

	return sharedhtml.Page("Purchasing", nav.BuildTopNavData(session).Render(), b.String())
}

// OrderDetailPage renders one order with lines, receipts and actions.
func OrderDetailPage(session models.Session, detail PODetail, message string) templ.Component {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Purchase Order %s</h1>", html.EscapeString(detail.Order.Reference))
	if message != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(message))
	}

	fmt.Fprintf(&b, `<p>Supplier: %s | Status: %s</p>`,
		html.EscapeString(detail.Order.Supplier), html.EscapeString(detail.Order.Status))
	if detail.Order.Notes != "" {
		fmt.Fprintf(&b, `<p>Notes: %s</p>`, html.EscapeString(detail.Order.Notes))
	}
	fmt.Fprintf(&b, `<p><a href="/console/purchasing/%d/pdf">Print order sheet</a></p>`, detail.Order.ID)

	b.WriteString(`<table><thead><tr><th>Code</th><th>Product</th><th>Qty</th><th>Unit cost</th><th>Total</th></tr></thead><tbody>`)
	for _, line := range detail.Lines {
		fmt.Fprintf(&b, `<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(line.ProductCode), html.EscapeString(line.ProductName),
			line.Qty, line.UnitCost.StringFixed(2), line.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, `<tr><td colspan="4">Total</td><td>%s</td></tr>`, detail.Total.StringFixed(2))
	b.WriteString(`</tbody></table>`)

	if detail.Order.Status == StatusOpen {
		fmt.Fprintf(&b, `<form method="POST" action="/console/purchasing/%d/status"><input type="hidden" name="to_status" value="received"><button type="submit">Mark received</button></form>`, detail.Order.ID)
		fmt.Fprintf(&b, `<form method="POST" action="/console/purchasing/%d/status"><input type="hidden" name="to_status" value="cancelled"><button type="submit">Cancel order</button></form>`, detail.Order.ID)
	}

	b.WriteString(`<h2>Receipts</h2><ul>`)
	for _, f := range detail.Receipts {
		fmt.Fprintf(&b, `<li><a href="/console/purchasing/%d/receipt/%d">%s</a> (%s)</li>`,
			detail.Order.ID, f.ID, html.EscapeString(f.FileName), html.EscapeString(f.CreatedAt))
	}
	b.WriteString(`</ul>`)
	fmt.Fprintf(&b, `<form method="POST" action="/console/purchasing/%d/receipt" enctype="multipart/form-data">
<label>Receipt file <input type="file" name="receipt_file" accept="image/*,application/pdf"></label>
<button type="submit">Upload</button>
</form>`, detail.Order.ID)

	return sharedhtml.Page("Purchase Order "+detail.Order.Reference, nav.BuildTopNavData(session).Render(), b.String())
}
