// Package views renders the HTML pages from embedded templates.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.Render.
const (
	PageSignup  = "signup"
	PageLogin   = "login"
	PageFeed    = "feed"
	PageNewPost = "newpost"
)

// PageData is the model of every page. User is empty for anonymous visitors.
type PageData struct {
	User     string
	Error    string
	Username string
	Content  string
	Posts    []PostView
}

// PostView is one feed entry as seen by the current viewer.
type PostView struct {
	ID        string
	Author    string
	Content   string
	CreatedAt time.Time
	Likes     int
	IsLiked   bool
	CanDelete bool
}

var funcs = template.FuncMap{
	"timestamp": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04") },
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout and executed through it.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses every page template.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range []string{PageSignup, PageLogin, PageFeed, PageNewPost} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}
