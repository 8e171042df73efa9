// Package card builds the view model of one product card. Everything here is
// pure: the same product and view state always produce the same card.
package card

import (
	"errors"
	"fmt"

	"github.com/ikiranmezar/product-listing-app/internal/catalog"
	"github.com/ikiranmezar/product-listing-app/internal/format"
)

// PlaceholderImage is shown when a product has no usable image at all.
const PlaceholderImage = "/assets/img/placeholder.svg"

const (
	glyphFilled = "★"
	glyphEmpty  = "☆"
)

// ViewState is the per-card interactive state.
type ViewState struct {
	Selected catalog.Color
}

// DefaultState is the state every card starts in.
func DefaultState() ViewState {
	return ViewState{Selected: catalog.Yellow}
}

// InitialState is DefaultState unless the product lacks the default image,
// in which case the first available variant is selected.
func InitialState(p catalog.Product) ViewState {
	st := DefaultState()
	if _, ok := p.Image(st.Selected); ok {
		return st
	}
	if c, ok := p.FirstAvailable(); ok {
		st.Selected = c
	}
	return st
}

// Card is the rendered form of one product.
type Card struct {
	Index      int
	Name       string
	Price      string
	Weight     string
	Image      string
	ImageAlt   string
	Color      catalog.Color
	ColorLabel string
	Swatches   []Swatch
	Stars      []Star
	FullStars  int
	Score      float64
	ScoreLabel string
}

// Swatch is one color switch control. Swatches do not track selection.
type Swatch struct {
	Color     catalog.Color
	Label     string
	Hex       string
	Available bool
}

// Star is one slot of the popularity display.
type Star struct {
	Filled bool
	Glyph  string
}

// Build renders product p at position index with the given state.
func Build(index int, p catalog.Product, st ViewState) Card {
	if _, ok := VariantOf(st.Selected); !ok {
		st = DefaultState()
	}
	image, ok := p.Image(st.Selected)
	if !ok {
		image = PlaceholderImage
	}
	variant, _ := VariantOf(st.Selected)

	score := NormalizeScore(p.PopularityScore)
	full := FullStars(score)
	stars := make([]Star, MaxStars)
	for i := range stars {
		if i < full {
			stars[i] = Star{Filled: true, Glyph: glyphFilled}
		} else {
			stars[i] = Star{Glyph: glyphEmpty}
		}
	}

	swatches := make([]Swatch, 0, len(catalog.Colors))
	for _, v := range Variants() {
		_, available := p.Image(v.Color)
		swatches = append(swatches, Swatch{
			Color:     v.Color,
			Label:     v.Label,
			Hex:       v.Hex,
			Available: available,
		})
	}

	return Card{
		Index:      index,
		Name:       p.Name,
		Price:      format.PriceUSD(p.PriceUSD),
		Weight:     format.Grams(p.Weight),
		Image:      image,
		ImageAlt:   p.Name,
		Color:      st.Selected,
		ColorLabel: variant.Label,
		Swatches:   swatches,
		Stars:      stars,
		FullStars:  full,
		Score:      score,
		ScoreLabel: format.Score(score),
	}
}

// MissingVariantImageError reports a color switch to a variant the product
// has no image for.
type MissingVariantImageError struct {
	Product string
	Color   catalog.Color
}

func (e *MissingVariantImageError) Error() string {
	return fmt.Sprintf("card: product %q has no %s image", e.Product, e.Color)
}

// ErrUnknownColor is returned by Select for keys outside the fixed variants.
var ErrUnknownColor = errors.New("card: unknown color")

// Select applies a color switch. On failure the unchanged state is returned
// so the card keeps showing its current image and label.
func Select(p catalog.Product, st ViewState, c catalog.Color) (ViewState, error) {
	if _, ok := VariantOf(c); !ok {
		return st, fmt.Errorf("%w %q", ErrUnknownColor, c)
	}
	if _, ok := p.Image(c); !ok {
		return st, &MissingVariantImageError{Product: p.Name, Color: c}
	}
	return ViewState{Selected: c}, nil
}
