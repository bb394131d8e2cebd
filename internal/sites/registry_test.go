package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		site, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, site.Name)
		assert.NotEmpty(t, site.Domain, name)
		assert.NotEmpty(t, site.SeedURL, name)
		assert.NotEmpty(t, site.ProductFragments, name)
		assert.NotEmpty(t, site.Tiers, name)
		assert.Contains(t, site.ProductSchema.Fields, FieldName, name)
		assert.Contains(t, site.ListingSchema.Fields, FieldLinks, name)
	}

	_, ok := Lookup("cornershop")
	assert.False(t, ok)
}

func TestTiersEscalateInCost(t *testing.T) {
	for _, name := range Names() {
		site, _ := Lookup(name)
		for i := 1; i < len(site.Tiers); i++ {
			assert.GreaterOrEqual(t, site.Tiers[i].Timeout, site.Tiers[i-1].Timeout,
				"%s tier %d timeout must not shrink", name, i)
			assert.GreaterOrEqual(t, site.Tiers[i].RenderDelay, site.Tiers[i-1].RenderDelay,
				"%s tier %d delay must not shrink", name, i)
		}
	}
}
