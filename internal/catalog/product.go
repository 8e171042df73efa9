package catalog

import "strings"

// Color identifies one of the selectable metal variants of a product image.
type Color string

const (
	Yellow Color = "yellow"
	White  Color = "white"
	Rose   Color = "rose"
)

// Colors lists the variants in display order.
var Colors = []Color{Yellow, White, Rose}

// ParseColor normalizes a color key. Unknown keys report false.
func ParseColor(raw string) (Color, bool) {
	c := Color(strings.ToLower(strings.TrimSpace(raw)))
	switch c {
	case Yellow, White, Rose:
		return c, true
	default:
		return "", false
	}
}

// Product is one catalog entry as returned by the catalog endpoint.
// Values are treated as read-only once decoded.
type Product struct {
	Name            string
	PriceUSD        float64
	PopularityScore float64
	Images          map[Color]string
	// Weight in grams; zero when the upstream omits it.
	Weight float64
}

// Image returns the image reference for a variant.
func (p Product) Image(c Color) (string, bool) {
	if p.Images == nil {
		return "", false
	}
	ref, ok := p.Images[c]
	if !ok || ref == "" {
		return "", false
	}
	return ref, true
}

// FirstAvailable returns the first color, in display order, that has an image.
func (p Product) FirstAvailable() (Color, bool) {
	for _, c := range Colors {
		if _, ok := p.Image(c); ok {
			return c, true
		}
	}
	return "", false
}
