package nav

import (
	"fmt"
	"html"

	"stockdesk/infrastructure/rbac"
	"stockdesk/models"
)

// TopNavData is shared with page renderers.
type TopNavData struct {
	Username string
	Role     string
	IsAdmin  bool
}

func BuildTopNavData(session models.Session) TopNavData {
	return TopNavData{
		Username: session.User.Username,
		Role:     session.User.Role,
		IsAdmin:  session.User.Role == rbac.RoleAdmin,
	}
}

// Render returns the top navigation bar HTML for the console screens.
func (d TopNavData) Render() string {
	links := `<a href="/console/intake">Intake</a> <a href="/console/distribution">Distribution</a> <a href="/console/purchasing">Purchasing</a> <a href="/console/products">Products</a>`
	if d.IsAdmin {
		links += ` <a href="/console/shipping">Shipping</a> <a href="/console/activity">Activity</a> <a href="/console/exports">Exports</a> <a href="/console/settings">Settings</a> <a href="/console/admin/users">Users</a>`
	}
	return fmt.Sprintf(`<nav class="topnav">%s<span class="user">%s (%s)</span><form method="POST" action="/logout"><button type="submit">Logout</button></form></nav>`,
		links, html.EscapeString(d.Username), html.EscapeString(d.Role))
}
