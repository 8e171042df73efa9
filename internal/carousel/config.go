// Package carousel owns the render container handed to the browser-side
// carousel widget: its layout configuration, the mounted card set, and the
// per-viewer stage that keeps exactly one mount current.
package carousel

import "encoding/json"

// Element hooks shared by the page template and the widget configuration.
const (
	WrapperID     = "catalog-carousel"
	ContainerID   = "product-list"
	DotsSelector  = "#dots"
	PrevSelector  = ".glider-prev"
	NextSelector  = ".glider-next"
	containerRole = "glider"
)

// Config is the widget option object, serialized as-is for the browser.
type Config struct {
	SlidesToShow   int          `json:"slidesToShow"`
	SlidesToScroll int          `json:"slidesToScroll"`
	Draggable      bool         `json:"draggable"`
	Dots           string       `json:"dots"`
	Arrows         Arrows       `json:"arrows"`
	Responsive     []Breakpoint `json:"responsive"`
}

// Arrows binds the navigation controls.
type Arrows struct {
	Prev string `json:"prev"`
	Next string `json:"next"`
}

// Breakpoint overrides the layout from a minimum viewport width upward.
type Breakpoint struct {
	Breakpoint int      `json:"breakpoint"`
	Settings   Settings `json:"settings"`
}

// Settings holds the per-breakpoint layout.
type Settings struct {
	SlidesToShow   int `json:"slidesToShow"`
	SlidesToScroll int `json:"slidesToScroll"`
}

// Default returns the fixed catalog layout.
func Default() Config {
	return Config{
		SlidesToShow:   4,
		SlidesToScroll: 1,
		Draggable:      true,
		Dots:           DotsSelector,
		Arrows:         Arrows{Prev: PrevSelector, Next: NextSelector},
		Responsive: []Breakpoint{
			{Breakpoint: 1024, Settings: Settings{SlidesToShow: 4, SlidesToScroll: 4}},
			{Breakpoint: 768, Settings: Settings{SlidesToShow: 2, SlidesToScroll: 2}},
			{Breakpoint: 480, Settings: Settings{SlidesToShow: 1, SlidesToScroll: 1}},
		},
	}
}

// JSON encodes the configuration for a data attribute.
func (c Config) JSON() (string, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ContainerClass is the class marking the render container.
func ContainerClass() string { return containerRole }
