package settings

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/models"
)

// SettingsPage renders the operational settings form.
func SettingsPage(session models.Session, row models.ConsoleSettings, status string) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Settings</h1>")
	if status != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(status))
	}

	fmt.Fprintf(&b, `<form method="POST" action="/console/settings">
<fieldset><legend>Default expired stock location</legend>
  <label>Zone <input type="text" name="expired_zone" value="%s"></label>
  <label>Aisle <input type="text" name="expired_aisle" value="%s"></label>
  <label>Shelf <input type="text" name="expired_shelf" value="%s"></label>
  <label>Bin <input type="text" name="expired_bin" value="%s"></label>
</fieldset>
<fieldset><legend>Features</legend>
  <label><input type="checkbox" name="auto_calculate"%s> Auto-calculate derived quantity</label>
  <label><input type="checkbox" name="intake_enabled"%s> Stock intake enabled</label>
  <label><input type="checkbox" name="distribution_enabled"%s> Distribution enabled</label>
</fieldset>
<button type="submit">Save</button>
</form>`,
		html.EscapeString(row.ExpiredZone), html.EscapeString(row.ExpiredAisle),
		html.EscapeString(row.ExpiredShelf), html.EscapeString(row.ExpiredBin),
		checked(row.AutoCalculate), checked(row.IntakeEnabled), checked(row.DistributionEnabled))

	return sharedhtml.Page("Settings", nav.BuildTopNavData(session).Render(), b.String())
}

func checked(v bool) string {
	if v {
		return " checked"
	}
	return ""
}
