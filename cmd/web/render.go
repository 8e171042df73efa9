package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ikiranmezar/product-listing-app/internal/requestctx"
)

// renderer parses templates once, or on every render in dev mode.
type renderer struct {
	dir string
	dev bool

	mu    sync.RWMutex
	cache *template.Template
}

func newRenderer(dir string, dev bool) (*renderer, error) {
	rd := &renderer{dir: dir, dev: dev}
	t, err := rd.parse()
	if err != nil {
		return nil, err
	}
	rd.cache = t
	return rd, nil
}

func (rd *renderer) parse() (*template.Template, error) {
	// ParseGlob doesn't support **, walk instead.
	var files []string
	if err := filepath.WalkDir(rd.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", rd.dir)
	}
	return template.New("_root").ParseFiles(files...)
}

func (rd *renderer) templates() (*template.Template, error) {
	if rd.dev {
		t, err := rd.parse()
		if err != nil {
			return nil, err
		}
		rd.mu.Lock()
		rd.cache = t
		rd.mu.Unlock()
		return t, nil
	}
	rd.mu.RLock()
	defer rd.mu.RUnlock()
	return rd.cache, nil
}

// execute renders name into a buffer first so template failures never leave
// a half-written response.
func (rd *renderer) execute(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	logger := requestctx.Logger(r.Context())
	t, err := rd.templates()
	if err != nil {
		logger.Error("template parse failed", zap.Error(err))
		http.Error(w, "template parse error", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		logger.Error("template exec failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "template exec error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPage executes the base layout.
func (a *app) renderPage(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	a.views.execute(w, r, status, "base", data)
}

// renderTemplate executes a single fragment.
func (a *app) renderTemplate(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	a.views.execute(w, r, status, name, data)
}
