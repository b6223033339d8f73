// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates renders the HTML pages. Views are html/template files
// embedded into the binary and exposed as templ components.
package templates

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"codeberg.org/oliverandrich/clarity/internal/i18n"
	"codeberg.org/oliverandrich/clarity/internal/models"
	"github.com/a-h/templ"
)

//go:embed views
var viewFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the embedded stylesheet and scripts rooted at "static".
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

var pages = mustParsePages()

func mustParsePages() map[string]*template.Template {
	entries, err := fs.Glob(viewFS, "views/pages/*.html")
	if err != nil {
		panic(err)
	}

	parsed := make(map[string]*template.Template, len(entries))
	for _, entry := range entries {
		tpl := template.New("layout.html").Funcs(funcs(context.Background()))
		tpl = template.Must(tpl.ParseFS(viewFS, "views/layout.html", "views/partials/*.html", entry))
		parsed[strings.TrimSuffix(path.Base(entry), ".html")] = tpl
	}
	return parsed
}

// funcs binds the translation helpers to the request context.
func funcs(ctx context.Context) template.FuncMap {
	return template.FuncMap{
		"t": func(id string) string { return i18n.T(ctx, id) },
		"tdata": func(id string, pairs ...any) string {
			data := make(map[string]any, len(pairs)/2)
			for i := 0; i+1 < len(pairs); i += 2 {
				data[fmt.Sprint(pairs[i])] = pairs[i+1]
			}
			return i18n.TData(ctx, id, data)
		},
		"locale": func() string { return Locale(ctx) },
		"csrf":   func() string { return CSRFToken(ctx) },
		"money":  models.FormatCents,
		"date":   formatDate,
		"deref":  deref,
		"eq64":   func(a *int64, b int64) bool { return a != nil && *a == b },
	}
}

func formatDate(v any) string {
	switch d := v.(type) {
	case time.Time:
		if d.IsZero() {
			return ""
		}
		return d.Format(time.DateOnly)
	case *time.Time:
		if d == nil {
			return ""
		}
		return formatDate(*d)
	case *string:
		return deref(d)
	case string:
		return d
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func render(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		base, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		tpl, err := base.Clone()
		if err != nil {
			return err
		}
		return templ.FromGoHTML(tpl.Funcs(funcs(ctx)), data).Render(ctx, w)
	})
}

// Home renders the landing page with the contact form.
func Home(data HomeData) templ.Component { return render("home", data) }

// Auth renders the combined login, registration and forgot-password page.
func Auth(data AuthData) templ.Component { return render("auth", data) }

// ResetPassword renders the form for choosing a new password.
func ResetPassword(data ResetData) templ.Component { return render("reset", data) }

// Dashboard renders the dashboard with the selected section.
func Dashboard(data DashboardData) templ.Component { return render("dashboard", data) }

// Error renders an error page.
func Error(data ErrorData) templ.Component { return render("error", data) }
