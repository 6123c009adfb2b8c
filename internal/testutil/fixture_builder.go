package testutil

import (
	"fmt"

	"github.com/florianmende/marketroute/routing"
)

// FixtureBuilder provides a fluent helper for constructing market tables and
// travel-time matrices in tests. Example:
//
//	markets, travel := NewFixture().
//		Market(1, 0, 700).
//		Market(2, 0, 700).
//		Market(3, 100, 300).
//		UniformTravel(10).
//		Build()
//
// Chain only the parts you need; sensible defaults are applied.
type FixtureBuilder struct {
	markets routing.Markets
	travel  routing.TravelTimes
	uniform *int
}

// NewFixture creates an empty fixture builder.
func NewFixture() *FixtureBuilder {
	return &FixtureBuilder{
		markets: routing.Markets{},
		travel:  routing.TravelTimes{},
	}
}

// Market adds a market with the given opening window and a generated name (chainable).
func (b *FixtureBuilder) Market(id, opens, closes int) *FixtureBuilder {
	return b.NamedMarket(id, fmt.Sprintf("market-%d", id), opens, closes)
}

// NamedMarket adds a market with an explicit name (chainable).
func (b *FixtureBuilder) NamedMarket(id int, name string, opens, closes int) *FixtureBuilder {
	b.markets[id] = routing.Market{ID: id, Name: name, Opens: opens, Closes: closes}
	return b
}

// Travel sets the travel time for one directed pair (chainable).
func (b *FixtureBuilder) Travel(from, to, minutes int) *FixtureBuilder {
	b.travel.Set(from, to, minutes)
	return b
}

// SymmetricTravel sets the travel time for both directions of a pair (chainable).
func (b *FixtureBuilder) SymmetricTravel(a, c, minutes int) *FixtureBuilder {
	b.travel.Set(a, c, minutes)
	b.travel.Set(c, a, minutes)
	return b
}

// UniformTravel fills every directed pair not set explicitly with the given
// duration when Build runs (chainable).
func (b *FixtureBuilder) UniformTravel(minutes int) *FixtureBuilder {
	b.uniform = &minutes
	return b
}

// Build returns the finished fixtures.
func (b *FixtureBuilder) Build() (routing.Markets, routing.TravelTimes) {
	if b.uniform != nil {
		for _, from := range b.markets.IDs() {
			for _, to := range b.markets.IDs() {
				if from == to {
					continue
				}
				if _, ok := b.travel[from][to]; !ok {
					b.travel.Set(from, to, *b.uniform)
				}
			}
		}
	}
	return b.markets, b.travel
}
