package login

import (
	"fmt"
	"html"

	"github.com/a-h/templ"

	sharedhtml "stockdesk/frontend/shared/html"
)

// GetLoginScreen renders the standalone login document.
func GetLoginScreen(errorMessage string) templ.Component {
	banner := ""
	if errorMessage != "" {
		banner = fmt.Sprintf(`<p class="error">%s</p>`, html.EscapeString(errorMessage))
	}
	body := fmt.Sprintf(`<!doctype html><html><head><meta charset="utf-8"><title>Sign in</title><link rel="stylesheet" href="/assets/app.css"></head><body><main class="login">
<h1>Warehouse Console</h1>
%s
<form method="POST" action="/login">
  <label>Username <input type="text" name="username" autofocus></label>
  <label>Password <input type="password" name="password"></label>
  <button type="submit">Sign in</button>
</form>
</main>%s</body></html>`, banner, sharedhtml.CSRFFormScript())
	return sharedhtml.Bare(body)
}
