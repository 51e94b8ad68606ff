// Package server renders the sentiment dashboard: every persisted row,
// with the headline's sentiment label color-coded. Display only; nothing
// here mutates data.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"newsboard/internal/sentiment"
	"newsboard/internal/store"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// ArticleSource loads the rows to display. The store's CycleReader is the
// real implementation; tests substitute stubs.
type ArticleSource interface {
	Articles(ctx context.Context) ([]store.Article, error)
}

// Row is one dashboard table row: the persisted article plus its derived
// sentiment label.
type Row struct {
	Article   store.Article
	Sentiment sentiment.Label
}

// Server is the HTTP server for the dashboard.
type Server struct {
	source     ArticleSource
	classifier *sentiment.Classifier
	page       *template.Template
	mux        *http.ServeMux
}

// New creates a dashboard server over the given article source.
func New(source ArticleSource) (*Server, error) {
	funcMap := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"timestamp": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
	}

	page, err := template.New("base.html").Funcs(funcMap).
		ParseFS(templateFS, "templates/base.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	s := &Server{
		source:     source,
		classifier: sentiment.NewClassifier(),
		page:       page,
		mux:        http.NewServeMux(),
	}
	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
	s.mux.HandleFunc("/", s.handleIndex)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	articles, err := s.source.Articles(r.Context())
	errMsg := ""
	if err != nil {
		// Read failures are non-fatal: show the message, render an
		// empty table.
		log.Printf("Loading articles: %v", err)
		errMsg = readErrorMessage(err)
		articles = nil
	}

	rows := make([]Row, len(articles))
	for i, a := range articles {
		title := ""
		if a.Title != nil {
			title = *a.Title
		}
		rows[i] = Row{Article: a, Sentiment: s.classifier.Classify(title)}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = s.page.ExecuteTemplate(w, "base.html", map[string]any{
		"Rows":  rows,
		"Error": errMsg,
	})
	if err != nil {
		log.Printf("Rendering dashboard: %v", err)
	}
}

// readErrorMessage distinguishes unreachable-database from failed-query
// so the two show different guidance.
func readErrorMessage(err error) string {
	var connErr *store.ConnectError
	if errors.As(err, &connErr) {
		return "Database unreachable. Check the database host and credentials, then reload."
	}
	var queryErr *store.QueryError
	if errors.As(err, &queryErr) {
		return "Loading articles failed: " + queryErr.Error()
	}
	return "Loading articles failed: " + err.Error()
}

// Serve starts the dashboard on the given port.
func Serve(source ArticleSource, port int) error {
	srv, err := New(source)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Server listening on http://%s", addr)
	return http.ListenAndServe(addr, srv.Handler())
}
