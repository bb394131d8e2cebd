package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"grocer/internal/sites"
)

func TestClassifier_Classify(t *testing.T) {
	site := &sites.Site{
		ProductFragments:  []string{"/shop/product/", "/product/", "/pdp/", "/item/", "/detail/"},
		CategoryFragments: []string{"/shop/aisles/"},
	}
	c := NewClassifier(site)

	tests := []struct {
		url  string
		want PageClass
	}{
		{"https://x.com/shop/product/oat-milk.123.html", ProductDetail},
		{"https://x.com/pdp/oat-milk", ProductDetail},
		{"https://x.com/item/960129122", ProductDetail},
		{"https://x.com/shop/aisles/frozen-foods.html", CategoryListing},
		{"https://x.com/about-us", Irrelevant},
		{"https://x.com/", Irrelevant},
		{"", Irrelevant},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.url), tt.url)
	}
}

func TestClassifier_ProductWinsOverCategory(t *testing.T) {
	site := &sites.Site{
		ProductFragments:  []string{"/product/"},
		CategoryFragments: []string{"/shop/"},
	}
	c := NewClassifier(site)
	assert.Equal(t, ProductDetail, c.Classify("https://x.com/shop/product/a"))
}

func TestWorthLogging(t *testing.T) {
	assert.True(t, WorthLogging(0, 0))
	assert.True(t, WorthLogging(3, 0.9))
	assert.False(t, WorthLogging(2, 0.5))
	assert.False(t, WorthLogging(1, 0.1))
}
