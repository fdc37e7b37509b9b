package html

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// RenderLayout wraps body HTML in the shared document shell.
func RenderLayout(title, nav, body string) string {
	return fmt.Sprintf("<!doctype html><html><head><meta charset=\"utf-8\"><title>%s</title><link rel=\"stylesheet\" href=\"/assets/app.css\"></head><body>%s<main class=\"p-4\">%s</main>%s</body></html>", title, nav, body, CSRFFormScript())
}

// Page returns the laid-out document as a renderable component.
func Page(title, nav, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, RenderLayout(title, nav, body))
		return err
	})
}

// Bare returns raw HTML as a renderable component, without the layout. Used
// by screens that own their whole document (login).
func Bare(raw string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, raw)
		return err
	})
}
