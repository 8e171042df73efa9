package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ikiranmezar/product-listing-app/internal/carousel"
	"github.com/ikiranmezar/product-listing-app/internal/catalog"
	"github.com/ikiranmezar/product-listing-app/internal/config"
	"github.com/ikiranmezar/product-listing-app/internal/content"
	mw "github.com/ikiranmezar/product-listing-app/internal/middleware"
	"github.com/ikiranmezar/product-listing-app/internal/observability"
)

// catalogFetcher is the part of *catalog.Client the handlers use.
type catalogFetcher interface {
	Fetch(ctx context.Context, f catalog.Filter) ([]catalog.Product, error)
}

// app carries the handler dependencies.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	catalog catalogFetcher
	stages  *carousel.Registry
	views   *renderer
	intro   content.Intro
	now     func() time.Time
}

func newApp(cfg config.Config, logger *zap.Logger, fetcher catalogFetcher) (*app, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	views, err := newRenderer(cfg.Web.TemplatesDir, cfg.Web.DevMode)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	intro, err := content.LoadIntro(cfg.Web.IntroFile)
	if err != nil {
		return nil, fmt.Errorf("load intro: %w", err)
	}
	return &app{
		cfg:     cfg,
		logger:  logger,
		catalog: fetcher,
		stages: carousel.NewRegistry(
			carousel.WithTTL(cfg.Stage.TTL),
			carousel.WithMaxStages(cfg.Stage.MaxStages),
		),
		views: views,
		intro: intro,
		now:   time.Now,
	}, nil
}

func newRouter(a *app) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; only deploy behind a proxy that sets it.
	r.Use(chimw.RealIP)
	r.Use(observability.InjectLoggerMiddleware(a.logger))
	r.Use(observability.TraceMiddleware)
	r.Use(observability.RequestLoggerMiddleware)
	r.Use(observability.RecoveryMiddleware)
	r.Use(chimw.Compress(5))
	if a.cfg.Server.HandlerTimeout > 0 {
		r.Use(chimw.Timeout(a.cfg.Server.HandlerTimeout))
	}
	r.Use(mw.HTMX)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok")
	})
	r.Handle("/assets/*", mw.AssetsWithCache("/assets", filepath.Join(a.cfg.Web.PublicDir, "assets")))

	r.Group(func(r chi.Router) {
		r.Use(mw.Session(mw.SessionOptions{
			SigningKey: a.cfg.Session.SigningKey,
			Secure:     a.cfg.Session.SecureCookie,
			Logger:     a.logger.Named("session"),
		}))
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/catalog", http.StatusFound)
		})
		r.Get("/catalog", a.CatalogPage)
		r.Get("/catalog/carousel", a.CarouselFrag)
		r.Get("/catalog/mounts/{mountID}/cards/{index}", a.CardFrag)
	})
	return r
}
