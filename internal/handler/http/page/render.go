// Package page renders the server-side HTML pages: the home feed, article
// detail and the review queue.
package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/repository"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "detail", "review", "notfound"}

// Renderer holds one parsed template set per page, each combined with the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{"date": formatDate}
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the page into a buffer first so a template error never
// produces a half-written 200.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data *pageData) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func formatDate(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format("2 Jan 2006 15:04")
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.UTC().Format("2 Jan 2006 15:04")
	default:
		return ""
	}
}

type pageData struct {
	Viewer   *entity.User
	Flash    string
	Leagues  []*entity.League
	Articles []articleView
	Article  *articleView
	Message  string
}

type articleView struct {
	ID         int64
	Title      string
	Display    string
	Body       string
	Author     string
	League     string
	Team       string
	Approver   string
	Approved   bool
	ApprovedAt *time.Time
	CreatedAt  time.Time
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toView(a repository.ArticleWithRefs) articleView {
	league, team := deref(a.LeagueName), deref(a.TeamName)
	return articleView{
		ID:         a.Article.ID,
		Title:      a.Article.Title,
		Display:    a.Article.DisplayName(league, team),
		Body:       a.Article.Body,
		Author:     a.AuthorUsername,
		League:     league,
		Team:       team,
		Approver:   deref(a.ApproverUsername),
		Approved:   a.Article.Approved,
		ApprovedAt: a.Article.ApprovedAt,
		CreatedAt:  a.Article.CreatedAt,
	}
}

func toViews(list []repository.ArticleWithRefs) []articleView {
	out := make([]articleView, 0, len(list))
	for _, a := range list {
		out = append(out, toView(a))
	}
	return out
}
