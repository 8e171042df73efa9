package carousel

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ikiranmezar/product-listing-app/internal/card"
	"github.com/ikiranmezar/product-listing-app/internal/catalog"
)

var (
	// ErrMountTornDown is returned when a replaced mount is used.
	ErrMountTornDown = errors.New("carousel: mount torn down")
	// ErrCardNotFound is returned for a card index outside the mount.
	ErrCardNotFound = errors.New("carousel: card not found")
)

// Mount is one populated render container. Its cards are built from the
// products it was created with and their per-card view states.
type Mount struct {
	ID        string
	Filter    catalog.Filter
	Config    Config
	CreatedAt time.Time

	mu       sync.Mutex
	products []catalog.Product
	states   []card.ViewState
	torn     bool
}

// NewMount populates a container with one card per product.
func NewMount(products []catalog.Product, filter catalog.Filter, now time.Time) *Mount {
	m := &Mount{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0)).String(),
		Filter:    filter,
		Config:    Default(),
		CreatedAt: now,
		products:  append([]catalog.Product(nil), products...),
		states:    make([]card.ViewState, len(products)),
	}
	for i, p := range m.products {
		m.states[i] = card.InitialState(p)
	}
	return m
}

// Snapshot is the rendered state of a mount at one point in time.
type Snapshot struct {
	ID     string
	Filter catalog.Filter
	Config Config
	Cards  []card.Card
}

// Snapshot renders every card with its current state.
func (m *Mount) Snapshot() (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.torn {
		return Snapshot{}, ErrMountTornDown
	}
	cards := make([]card.Card, len(m.products))
	for i, p := range m.products {
		cards[i] = card.Build(i, p, m.states[i])
	}
	return Snapshot{ID: m.ID, Filter: m.Filter, Config: m.Config, Cards: cards}, nil
}

// Card renders one card.
func (m *Mount) Card(index int) (card.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.torn {
		return card.Card{}, ErrMountTornDown
	}
	if index < 0 || index >= len(m.products) {
		return card.Card{}, ErrCardNotFound
	}
	return card.Build(index, m.products[index], m.states[index]), nil
}

// Select switches the color of one card. Other cards are untouched. When the
// variant has no image the card is returned unchanged along with the
// *card.MissingVariantImageError.
func (m *Mount) Select(index int, color catalog.Color) (card.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.torn {
		return card.Card{}, ErrMountTornDown
	}
	if index < 0 || index >= len(m.products) {
		return card.Card{}, ErrCardNotFound
	}
	p := m.products[index]
	next, err := card.Select(p, m.states[index], color)
	m.states[index] = next
	return card.Build(index, p, next), err
}

// Teardown releases the mount's card state. Later calls are no-ops.
func (m *Mount) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.torn {
		return
	}
	m.torn = true
	m.products = nil
	m.states = nil
}

// TornDown reports whether Teardown ran.
func (m *Mount) TornDown() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.torn
}
