package catalog

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
)

const maxBodyBytes = 4 << 20

type productPayload struct {
	Name            *string           `json:"name"`
	PriceUSD        *float64          `json:"priceUSD"`
	PopularityScore *float64          `json:"popularityScore"`
	Images          map[string]string `json:"images"`
	Weight          *float64          `json:"weight"`
}

// Decode reads a product sequence and validates every element's shape.
func Decode(r io.Reader) ([]Product, error) {
	var raw []json.RawMessage
	dec := json.NewDecoder(io.LimitReader(r, maxBodyBytes))
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &DecodeError{Index: -1, Err: errNotArray}
		}
		return nil, &DecodeError{Index: -1, Err: err}
	}
	if raw == nil {
		// literal null
		return nil, &DecodeError{Index: -1, Err: errNotArray}
	}

	products := make([]Product, 0, len(raw))
	for i, msg := range raw {
		p, err := decodeProduct(i, msg)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func decodeProduct(index int, msg json.RawMessage) (Product, error) {
	var payload productPayload
	if err := json.Unmarshal(msg, &payload); err != nil {
		field := ""
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field = typeErr.Field
		}
		return Product{}, &DecodeError{Index: index, Field: field, Err: err}
	}
	return payload.toProduct(index)
}

func (p productPayload) toProduct(index int) (Product, error) {
	if p.Name == nil {
		return Product{}, &DecodeError{Index: index, Field: "name", Err: errMissing}
	}
	// names are plain text labels; templates escape them on output
	name := *p.Name
	if strings.TrimSpace(name) == "" {
		return Product{}, &DecodeError{Index: index, Field: "name", Err: errMissing}
	}
	if p.PriceUSD == nil {
		return Product{}, &DecodeError{Index: index, Field: "priceUSD", Err: errMissing}
	}
	if *p.PriceUSD < 0 {
		return Product{}, &DecodeError{Index: index, Field: "priceUSD", Err: errNegative}
	}
	if p.PopularityScore == nil {
		return Product{}, &DecodeError{Index: index, Field: "popularityScore", Err: errMissing}
	}
	if *p.PopularityScore < 0 {
		return Product{}, &DecodeError{Index: index, Field: "popularityScore", Err: errNegative}
	}
	if p.Images == nil {
		return Product{}, &DecodeError{Index: index, Field: "images", Err: errMissing}
	}

	out := Product{
		Name:            name,
		PriceUSD:        *p.PriceUSD,
		PopularityScore: *p.PopularityScore,
		Images:          make(map[Color]string, len(Colors)),
	}
	if p.Weight != nil && *p.Weight > 0 {
		out.Weight = *p.Weight
	}
	for key, ref := range p.Images {
		c, ok := ParseColor(key)
		if !ok {
			continue
		}
		if ref = cleanImageRef(ref); ref != "" {
			out.Images[c] = ref
		}
	}
	return out, nil
}

func cleanImageRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
		return ref
	default:
		return ""
	}
}
