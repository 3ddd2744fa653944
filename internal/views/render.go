// Package views renders the admin console pages and holds the pure view logic behind them.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"beemine-admin/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page names
const (
	PageLogin               = "login"
	PageDashboard           = "dashboard"
	PageUsers               = "users"
	PageProfile             = "profile"
	PageRevenue             = "revenue"
	PagePhotoVerification   = "photo_verification"
	PageProfileVerification = "profile_verification"
	PageReports             = "reports"
	PageReviews             = "reviews"
)

// NavLink is one sidebar entry
type NavLink struct {
	Name string
	Path string
}

// NavLinks are the sidebar sections in display order
var NavLinks = []NavLink{
	{Name: "Dashboard", Path: "/dashboard"},
	{Name: "Users", Path: "/users"},
	{Name: "Revenue", Path: "/revenue"},
	{Name: "Photo Verification", Path: "/photo-verification"},
	{Name: "Profile Verification", Path: "/profile-verification"},
	{Name: "Reports", Path: "/reports"},
	{Name: "Review Verification", Path: "/reviews"},
}

// Notice is an inline success or error message
type Notice struct {
	Kind    string
	Message string
}

// Page is the data every template receives
type Page struct {
	Title  string
	Active string
	Admin  models.Credentials
	Notice *Notice
	// Error replaces the page body with an inline error state
	Error string
	// LiveQueue makes the page reload when that moderation queue changes
	LiveQueue string
	Data      any
}

// Nav returns the sidebar entries
func (p Page) Nav() []NavLink {
	return NavLinks
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page template together with the shared layout
func NewRenderer() (*Renderer, error) {
	base, err := template.New("layout.html").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	files, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(file, "templates/"), ".html")
		if name == "layout" {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templatesFS, file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes the named page with status. The page is rendered into a buffer first so
// a template error never produces half a page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"money":   formatMoney,
	"count":   formatCount,
	"orDash":  orDash,
	"percent": func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" },
	"stateOf": StateToken,
}

// formatMoney renders an amount in rupees with thousands separators
func formatMoney(v any) string {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case models.Number:
		f = n.Float()
	case int:
		f = float64(n)
	}
	neg := f < 0
	if neg {
		f = -f
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimSuffix(s, ".00")
	intPart, frac, _ := strings.Cut(s, ".")
	out := groupThousands(intPart)
	if frac != "" {
		out += "." + frac
	}
	if neg {
		return "-₹" + out
	}
	return "₹" + out
}

func formatCount(v any) string {
	switch n := v.(type) {
	case int:
		return groupThousands(strconv.Itoa(n))
	case models.Number:
		return groupThousands(strconv.Itoa(n.Int()))
	case float64:
		return groupThousands(strconv.Itoa(int(n)))
	}
	return fmt.Sprint(v)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
