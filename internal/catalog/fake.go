package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/products.yaml
var fixtureYAML []byte

type fixtureProduct struct {
	Name            string            `yaml:"name"`
	PriceUSD        float64           `yaml:"priceUSD"`
	PopularityScore float64           `yaml:"popularityScore"`
	Weight          float64           `yaml:"weight"`
	Images          map[string]string `yaml:"images"`
}

var loadFixtures = sync.OnceValues(func() ([]Product, error) {
	var raw []fixtureProduct
	if err := yaml.Unmarshal(fixtureYAML, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parse fixtures: %w", err)
	}
	out := make([]Product, 0, len(raw))
	for _, fp := range raw {
		p := Product{
			Name:            fp.Name,
			PriceUSD:        fp.PriceUSD,
			PopularityScore: fp.PopularityScore,
			Weight:          fp.Weight,
			Images:          make(map[Color]string, len(fp.Images)),
		}
		for key, ref := range fp.Images {
			if c, ok := ParseColor(key); ok && ref != "" {
				p.Images[c] = ref
			}
		}
		out = append(out, p)
	}
	return out, nil
})

// Fixtures returns the embedded development catalog. The fixture is served
// unfiltered.
func Fixtures() ([]Product, error) {
	products, err := loadFixtures()
	if err != nil {
		return nil, err
	}
	out := make([]Product, len(products))
	copy(out, products)
	return out, nil
}
