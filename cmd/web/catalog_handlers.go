package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ikiranmezar/product-listing-app/internal/card"
	"github.com/ikiranmezar/product-listing-app/internal/carousel"
	"github.com/ikiranmezar/product-listing-app/internal/catalog"
	"github.com/ikiranmezar/product-listing-app/internal/httpx"
	mw "github.com/ikiranmezar/product-listing-app/internal/middleware"
	"github.com/ikiranmezar/product-listing-app/internal/requestctx"
)

const (
	msgNetwork  = "We couldn't load the catalog. Check your connection and try again."
	msgDecode   = "The catalog sent an unexpected response. Please try again later."
	pageTitle   = "Product Catalog"
	statusRetry = "retry"
)

// CatalogPage renders the full page with the carousel for the filter in the
// query string.
func (a *app) CatalogPage(w http.ResponseWriter, r *http.Request) {
	filter := catalog.FilterFromForm(r.URL.Query())
	vm := pageData{
		Title:  pageTitle,
		Intro:  a.intro,
		Filter: buildFilterView(filter),
	}

	stage := a.stages.Stage(mw.GetSession(r).ID)
	snap, err := a.load(r, stage, filter)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		// keep whatever is already mounted for this viewer
		if prior, ok := stage.Current(); ok {
			vm.Carousel = buildCarouselView(prior)
		} else {
			vm.Carousel = emptyCarouselView()
		}
		vm.Status = a.fetchStatus(r, filter, err)
		a.renderPage(w, r, http.StatusBadGateway, vm)
		return
	}
	vm.Carousel = buildCarouselView(snap)
	a.renderPage(w, r, http.StatusOK, vm)
}

// CarouselFrag runs fetch, render and mount for the submitted filter and
// returns the new render container.
func (a *app) CarouselFrag(w http.ResponseWriter, r *http.Request) {
	filter := catalog.FilterFromForm(r.URL.Query())
	stage := a.stages.Stage(mw.GetSession(r).ID)

	snap, err := a.load(r, stage, filter)
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		status := a.fetchStatus(r, filter, err)
		if !mw.IsHTMX(r.Context()) {
			a.renderTemplate(w, r, http.StatusBadGateway, "frag_status", status)
			return
		}
		// swap the message into the status element and leave the container alone
		w.Header().Set("HX-Retarget", "#"+statusElementID)
		w.Header().Set("HX-Reswap", "innerHTML")
		a.renderTemplate(w, r, http.StatusOK, "frag_status", status)
		return
	}

	w.Header().Set("HX-Push-Url", pageURL(snap.Filter))
	view := buildCarouselView(snap)
	view.ClearStatus = true
	a.renderTemplate(w, r, http.StatusOK, "frag_carousel", view)
}

// CardFrag switches the color of one card in the viewer's current mount.
func (a *app) CardFrag(w http.ResponseWriter, r *http.Request) {
	logger := requestctx.Logger(r.Context())
	mountID := chi.URLParam(r, "mountID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		a.writeError(w, r, httpx.BadRequest("invalid_card", "card index must be an integer"))
		return
	}
	color, ok := catalog.ParseColor(r.URL.Query().Get("color"))
	if !ok {
		a.writeError(w, r, httpx.BadRequest("invalid_color", "color must be one of yellow, white, rose"))
		return
	}

	stage, ok := a.stages.Lookup(mw.GetSession(r).ID)
	if !ok {
		a.mountGone(w, r, mountID)
		return
	}
	m, err := stage.Mount(mountID)
	if err != nil {
		a.mountGone(w, r, mountID)
		return
	}

	c, err := m.Select(index, color)
	var missing *card.MissingVariantImageError
	switch {
	case err == nil:
	case errors.As(err, &missing):
		logger.Info("variant image missing; card unchanged",
			zap.String("mount_id", mountID),
			zap.Int("card", index),
			zap.String("color", string(missing.Color)),
		)
	case errors.Is(err, carousel.ErrMountTornDown):
		a.mountGone(w, r, mountID)
		return
	case errors.Is(err, carousel.ErrCardNotFound):
		a.writeError(w, r, httpx.NotFound("card_not_found", "card not found"))
		return
	default:
		a.writeError(w, r, httpx.BadRequest("invalid_color", err.Error()))
		return
	}
	a.renderTemplate(w, r, http.StatusOK, "frag_card", buildCardView(mountID, c))
}

// load fetches the catalog and commits a new mount to the stage. When a newer
// render committed first, the newer snapshot is returned instead.
func (a *app) load(r *http.Request, stage *carousel.Stage, filter catalog.Filter) (carousel.Snapshot, error) {
	ticket := stage.Begin()
	products, err := a.catalog.Fetch(r.Context(), filter)
	if err != nil {
		return carousel.Snapshot{}, err
	}
	m := carousel.NewMount(products, filter, a.now())
	snap, applied := stage.Commit(ticket, m)
	if !applied {
		requestctx.Logger(r.Context()).Debug("render superseded by a newer one",
			zap.String("discarded_mount_id", m.ID),
			zap.String("mount_id", snap.ID),
		)
	}
	return snap, nil
}

// fetchStatus logs a failed fetch and builds the message shown to the viewer.
func (a *app) fetchStatus(r *http.Request, filter catalog.Filter, err error) statusView {
	logger := requestctx.Logger(r.Context())
	status := statusView{
		Kind:     statusRetry,
		Message:  msgNetwork,
		RetryURL: fragmentURL(filter),
		TargetID: carousel.ContainerID,
	}
	var decodeErr *catalog.DecodeError
	var netErr *catalog.NetworkError
	switch {
	case errors.As(err, &decodeErr):
		status.Message = msgDecode
		logger.Warn("catalog response rejected",
			zap.Int("index", decodeErr.Index),
			zap.String("field", decodeErr.Field),
			zap.Error(err),
		)
	case errors.As(err, &netErr):
		logger.Error("catalog fetch failed",
			zap.Int("status_code", netErr.StatusCode),
			zap.Bool("temporary", netErr.Temporary()),
			zap.Error(err),
		)
	default:
		logger.Error("catalog fetch failed", zap.Error(err))
	}
	return status
}

// mountGone answers card requests that target a replaced mount. htmx clients
// reload the page to pick up the current one.
func (a *app) mountGone(w http.ResponseWriter, r *http.Request, mountID string) {
	requestctx.Logger(r.Context()).Info("card request for stale mount", zap.String("mount_id", mountID))
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Refresh", "true")
		w.WriteHeader(http.StatusGone)
		return
	}
	a.writeError(w, r, httpx.Gone("mount_gone", "the carousel was replaced; reload the page").
		With("mount_id", mountID))
}

func (a *app) writeError(w http.ResponseWriter, r *http.Request, err httpx.Error) {
	httpx.WriteError(r.Context(), w, err)
}
