package main

import (
	"fmt"
	"net/url"

	"github.com/ikiranmezar/product-listing-app/internal/card"
	"github.com/ikiranmezar/product-listing-app/internal/carousel"
	"github.com/ikiranmezar/product-listing-app/internal/catalog"
	"github.com/ikiranmezar/product-listing-app/internal/content"
)

const (
	catalogPath     = "/catalog"
	carouselPath    = "/catalog/carousel"
	statusElementID = "catalog-status"
)

// pageData is the view model of the full catalog page.
type pageData struct {
	Title    string
	Intro    content.Intro
	Filter   filterView
	Carousel carouselView
	Status   statusView
}

type filterView struct {
	FieldMinPrice      string
	FieldMaxPrice      string
	FieldMinPopularity string
	MinPrice           string
	MaxPrice           string
	MinPopularity      string
	Action             string
	FragmentURL        string
}

// carouselView is the render container. MountID is empty when nothing has
// been mounted yet.
type carouselView struct {
	WrapperID    string
	ContainerID  string
	ContainerCSS string
	MountID      string
	ConfigJSON   string
	Cards        []cardView
	// ClearStatus emits an out-of-band swap that empties the status element.
	ClearStatus bool
	StatusID    string
}

type cardView struct {
	card.Card
	DOMID    string
	MountID  string
	Swatches []swatchView
}

type swatchView struct {
	card.Swatch
	URL string
}

type statusView struct {
	Kind     string
	Message  string
	RetryURL string
	TargetID string
}

func (s statusView) IsZero() bool { return s.Message == "" }

func buildFilterView(f catalog.Filter) filterView {
	return filterView{
		FieldMinPrice:      catalog.FieldMinPrice,
		FieldMaxPrice:      catalog.FieldMaxPrice,
		FieldMinPopularity: catalog.FieldMinPopularity,
		MinPrice:           f.MinPrice,
		MaxPrice:           f.MaxPrice,
		MinPopularity:      f.MinPopularity,
		Action:             catalogPath,
		FragmentURL:        carouselPath,
	}
}

func emptyCarouselView() carouselView {
	cfgJSON, _ := carousel.Default().JSON()
	return carouselView{
		WrapperID:    carousel.WrapperID,
		ContainerID:  carousel.ContainerID,
		ContainerCSS: carousel.ContainerClass(),
		ConfigJSON:   cfgJSON,
		StatusID:     statusElementID,
	}
}

func buildCarouselView(snap carousel.Snapshot) carouselView {
	v := emptyCarouselView()
	v.MountID = snap.ID
	if js, err := snap.Config.JSON(); err == nil {
		v.ConfigJSON = js
	}
	v.Cards = make([]cardView, 0, len(snap.Cards))
	for _, c := range snap.Cards {
		v.Cards = append(v.Cards, buildCardView(snap.ID, c))
	}
	return v
}

func buildCardView(mountID string, c card.Card) cardView {
	v := cardView{
		Card:     c,
		DOMID:    fmt.Sprintf("card-%s-%d", mountID, c.Index),
		MountID:  mountID,
		Swatches: make([]swatchView, 0, len(c.Swatches)),
	}
	for _, s := range c.Swatches {
		v.Swatches = append(v.Swatches, swatchView{Swatch: s, URL: cardURL(mountID, c.Index, s.Color)})
	}
	return v
}

func cardURL(mountID string, index int, color catalog.Color) string {
	q := url.Values{}
	q.Set("color", string(color))
	return fmt.Sprintf("%s/mounts/%s/cards/%d?%s", catalogPath, url.PathEscape(mountID), index, q.Encode())
}

// pageURL is the address pushed to history for a filter.
func pageURL(f catalog.Filter) string {
	if q := f.FormQuery(); q != "" {
		return catalogPath + "?" + q
	}
	return catalogPath
}

func fragmentURL(f catalog.Filter) string {
	if q := f.FormQuery(); q != "" {
		return carouselPath + "?" + q
	}
	return carouselPath
}
