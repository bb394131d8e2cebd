package sites

import "time"

// Logical field names shared by all product schemas.
const (
	FieldName        = "product_name"
	FieldPrice       = "product_price"
	FieldDescription = "product_description"
	FieldIngredients = "ingredients"
	FieldNutrition   = "nutritional_info"
	FieldImage       = "product_image"
	FieldID          = "product_id"
	FieldBrand       = "brand"
	FieldSize        = "size"
	FieldLinks       = "product_links"
)

// FieldRule selects one logical field from a page. When Attr is empty the
// rule yields the text of the first match; otherwise the attribute value.
type FieldRule struct {
	Selector string
	Attr     string
	Multiple bool // collect every match instead of the first
}

// Schema is a named table of field selection rules. Immutable after startup.
type Schema struct {
	Name   string
	Fields map[string]FieldRule
}

// Tier is one rung of the extraction ladder, increasing in cost.
type Tier struct {
	Name        string
	Timeout     time.Duration
	RenderDelay time.Duration
	Evasion     bool
	Headless    bool
}

// Site bundles the static per-retailer configuration: URL classification
// fragments, extraction schemas and the strategy ladder.
type Site struct {
	Name              string
	Domain            string
	Store             string
	SeedURL           string
	Strategy          string
	ProductFragments  []string
	CategoryFragments []string
	ProductSchema     Schema
	ListingSchema     Schema
	Tiers             []Tier
}

// DefaultTiers is the ladder used by sites without a custom one: a cheap
// direct attempt, then stealth, then an extended wait for the slowest
// anti-bot interstitials.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "direct", Timeout: 30 * time.Second, RenderDelay: 5 * time.Second, Evasion: false, Headless: true},
		{Name: "stealth", Timeout: 45 * time.Second, RenderDelay: 10 * time.Second, Evasion: true, Headless: true},
		{Name: "extended_wait", Timeout: 60 * time.Second, RenderDelay: 15 * time.Second, Evasion: true, Headless: true},
	}
}

// defaultListingSchema extracts product detail links from listing pages.
func defaultListingSchema(name string) Schema {
	return Schema{
		Name: name,
		Fields: map[string]FieldRule{
			FieldLinks: {
				Selector: "a[href*='/product/'], a[href*='/pdp/'], a[href*='/item/'], a[href*='/detail/'], .product-item a, .product-card a",
				Attr:     "href",
				Multiple: true,
			},
		},
	}
}
