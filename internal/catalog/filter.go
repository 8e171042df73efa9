package catalog

import (
	"net/url"
	"strings"
)

// Form field identifiers used by the filter form.
const (
	FieldMinPrice      = "minPrice"
	FieldMaxPrice      = "maxPrice"
	FieldMinPopularity = "minPopularity"
)

// Query parameter names understood by the catalog endpoint.
const (
	ParamMinPrice      = "min_price"
	ParamMaxPrice      = "max_price"
	ParamMinPopularity = "min_popularity"
)

// Filter narrows a catalog fetch. Fields hold the raw form text and are sent
// verbatim; an empty field is absent.
type Filter struct {
	MinPrice      string
	MaxPrice      string
	MinPopularity string
}

// FilterFromForm reads the filter fields from submitted form values.
func FilterFromForm(v url.Values) Filter {
	return Filter{
		MinPrice:      strings.TrimSpace(v.Get(FieldMinPrice)),
		MaxPrice:      strings.TrimSpace(v.Get(FieldMaxPrice)),
		MinPopularity: strings.TrimSpace(v.Get(FieldMinPopularity)),
	}
}

// IsZero reports whether no field is set.
func (f Filter) IsZero() bool {
	return f.MinPrice == "" && f.MaxPrice == "" && f.MinPopularity == ""
}

type pair struct{ key, val string }

func (f Filter) wire() []pair {
	return []pair{
		{ParamMinPrice, f.MinPrice},
		{ParamMaxPrice, f.MaxPrice},
		{ParamMinPopularity, f.MinPopularity},
	}
}

func (f Filter) form() []pair {
	return []pair{
		{FieldMinPrice, f.MinPrice},
		{FieldMaxPrice, f.MaxPrice},
		{FieldMinPopularity, f.MinPopularity},
	}
}

// Query encodes the filter for the catalog endpoint, preserving the order
// min_price, max_price, min_popularity. The result has no leading '?'.
func (f Filter) Query() string {
	return encodeOrdered(f.wire())
}

// FormQuery encodes the filter using the form field names, for links back to
// the catalog page.
func (f Filter) FormQuery() string {
	return encodeOrdered(f.form())
}

// encodeOrdered joins non-empty pairs in the given order; url.Values.Encode
// would sort keys alphabetically.
func encodeOrdered(pairs []pair) string {
	var b strings.Builder
	for _, p := range pairs {
		if p.val == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.val))
	}
	return b.String()
}
