package adminusers

import (
	"fmt"
	"html"
	"strings"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
	"stockdesk/frontend/shared/nav"
	"stockdesk/models"
)

// UsersListPage renders the users table and the create-user form.
func UsersListPage(session models.Session, data PageData) templ.Component {
	var b strings.Builder
	b.WriteString("<h1>Users</h1>")
	if data.Status != "" {
		fmt.Fprintf(&b, `<p class="status">%s</p>`, html.EscapeString(data.Status))
	}
	if data.ErrorMessage != "" {
		fmt.Fprintf(&b, `<p class="error">%s</p>`, html.EscapeString(data.ErrorMessage))
	}

	b.WriteString(`<table><thead><tr><th>ID</th><th>Username</th><th>Role</th></tr></thead><tbody>`)
	for _, u := range data.Users {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td></tr>", u.ID, html.EscapeString(u.Username), html.EscapeString(u.Role))
	}
	b.WriteString("</tbody></table>")

	b.WriteString(`<h2>Create user</h2>
<form method="POST" action="/console/admin/users">
  <label>Username <input type="text" name="username"></label>
  <label>Password <input type="password" name="password"></label>
  <label>Role <select name="role"><option value="operator">operator</option><option value="admin">admin</option></select></label>
  <button type="submit">Create</button>
</form>`)

	return sharedhtml.Page("Users", nav.BuildTopNavData(session).Render(), b.String())
}
