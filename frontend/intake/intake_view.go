package intake

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

// IntakePage renders the intake form and the table of recent lines.
func IntakePage(session models.Session, data PageData, cfg ledger.Config) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Stock Intake</h1>")
	if data.Message != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(data.Message))
	}

	if cfg.IntakeEnabled {
		writeIntakeForm(&b, data.Products, cfg)
		writeBulkExpiryForm(&b)
	}
	writeLinesTable(&b, data.Lines)

	return sharedhtml.Page("Stock Intake", nav.BuildTopNavData(session).Render(), b.String())
}

func writeIntakeForm(b *strings.Builder, products []ProductOption, cfg ledger.Config) {
	b.WriteString(`<form method="POST" action="/console/intake">`)
	b.WriteString(`<label>Product <select name="product_id"><option value="">Select...</option>`)
	for _, p := range products {
		fmt.Fprintf(b, `<option value="%d">%s %s</option>`, p.ID, html.EscapeString(p.Code), html.EscapeString(p.Name))
	}
	b.WriteString(`</select></label>`)
	b.WriteString(`<label>Purchase order # <input type="text" name="purchase_order_id"></label>`)
	b.WriteString(`<label>Received <input type="text" name="received_qty" inputmode="numeric"></label>`)
	b.WriteString(`<label>Damaged <input type="text" name="damaged_qty" inputmode="numeric"></label>`)
	b.WriteString(`<label>Expired <input type="text" name="expired_qty" inputmode="numeric"></label>`)
	b.WriteString(`<label>Refurbished <input type="text" name="refurbished_qty" inputmode="numeric"></label>`)
	if !cfg.AutoCalculate {
		b.WriteString(`<label>Passed <input type="text" name="passed_qty" inputmode="numeric"></label>`)
	}
	b.WriteString(`<label><input type="checkbox" name="has_expiry"> Track expiry</label>`)
	b.WriteString(`<label>Expiry date <input type="date" name="expiry_date"></label>`)
	for _, group := range []struct{ prefix, label string }{
		{"passed", "Passed"},
		{"refurbished", "Refurbished"},
		{"damaged", "Damaged"},
	} {
		fmt.Fprintf(b, `<fieldset><legend>%s location</legend>`, group.label)
		fmt.Fprintf(b, `<label>Zone <input type="text" name="%s_zone"></label>`, group.prefix)
		fmt.Fprintf(b, `<label>Aisle <input type="text" name="%s_aisle"></label>`, group.prefix)
		fmt.Fprintf(b, `<label>Shelf <input type="text" name="%s_shelf"></label>`, group.prefix)
		fmt.Fprintf(b, `<label>Bin <input type="text" name="%s_bin"></label>`, group.prefix)
		b.WriteString(`</fieldset>`)
	}
	b.WriteString(`<label>Notes <textarea name="notes"></textarea></label>`)
	b.WriteString(`<button type="submit">Record intake</button></form>`)
}

func writeBulkExpiryForm(b *strings.Builder) {
	b.WriteString(`<form method="POST" action="/console/intake/expiry">
<label>Apply expiry date to all tracked lines <input type="date" name="expiry_date"></label>
<button type="submit">Apply</button>
</form>`)
}

func writeLinesTable(b *strings.Builder, lines []IntakeLineView) {
	b.WriteString(`<table><thead><tr><th>Product</th><th>Received</th><th>Passed</th><th>Refurbished</th><th>Damaged</th><th>Expired</th><th>Expiry</th><th>Status</th><th>Recorded</th></tr></thead><tbody>`)
	for _, l := range lines {
		expiry := ""
		if l.HasExpiry {
			expiry = l.ExpiryDate
		}
		fmt.Fprintf(b, `<tr><td>%s %s</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(l.ProductCode), html.EscapeString(l.ProductName),
			l.ReceivedQty, l.PassedQty, l.RefurbishedQty, l.DamagedQty, l.ExpiredQty,
			html.EscapeString(expiry), html.EscapeString(l.Status), html.EscapeString(l.CreatedAt))
	}
	b.WriteString(`</tbody></table>`)
}
