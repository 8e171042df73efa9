package card

import "github.com/ikiranmezar/product-listing-app/internal/catalog"

// Variant carries the display metadata of a color option.
type Variant struct {
	Color catalog.Color
	Label string
	Hex   string
}

var variants = map[catalog.Color]Variant{
	catalog.Yellow: {Color: catalog.Yellow, Label: "Yellow Gold", Hex: "#E6CA97"},
	catalog.White:  {Color: catalog.White, Label: "White Gold", Hex: "#D9D9D9"},
	catalog.Rose:   {Color: catalog.Rose, Label: "Rose Gold", Hex: "#E1A4A9"},
}

// VariantOf returns the display metadata for c.
func VariantOf(c catalog.Color) (Variant, bool) {
	v, ok := variants[c]
	return v, ok
}

// Variants lists all color options in display order.
func Variants() []Variant {
	out := make([]Variant, 0, len(catalog.Colors))
	for _, c := range catalog.Colors {
		out = append(out, variants[c])
	}
	return out
}
