package pipeline

import (
	"strings"

	"grocer/internal/sites"
)

// PageClass is the classification of a fetched page's URL.
type PageClass int

const (
	Irrelevant PageClass = iota
	ProductDetail
	CategoryListing
)

func (c PageClass) String() string {
	switch c {
	case ProductDetail:
		return "product_detail"
	case CategoryListing:
		return "category_listing"
	default:
		return "irrelevant"
	}
}

// Classifier decides page handling from URL path fragments alone. It is pure
// and total: every URL maps to exactly one class.
type Classifier struct {
	site *sites.Site
}

func NewClassifier(site *sites.Site) *Classifier {
	return &Classifier{site: site}
}

// Classify checks product fragments before category fragments, so a URL
// matching both is treated as a product detail page.
func (c *Classifier) Classify(pageURL string) PageClass {
	for _, frag := range c.site.ProductFragments {
		if strings.Contains(pageURL, frag) {
			return ProductDetail
		}
	}
	for _, frag := range c.site.CategoryFragments {
		if strings.Contains(pageURL, frag) {
			return CategoryListing
		}
	}
	return Irrelevant
}

// WorthLogging bounds log volume for irrelevant pages: only the traversal
// root and high-relevance pages are logged.
func WorthLogging(depth int, score float64) bool {
	return depth == 0 || score > 0.5
}
