package sites

import (
	"sort"
	"time"
)

// registry holds every supported retailer keyed by site name. Loaded once,
// never mutated after init.
var registry = map[string]*Site{
	"traderjoes": {
		Name:              "traderjoes",
		Domain:            "traderjoes.com",
		Store:             "Trader Joe's",
		SeedURL:           "https://www.traderjoes.com/home/products/category/food-8",
		Strategy:          "bfs",
		ProductFragments:  []string{"/products/pdp/"},
		CategoryFragments: []string{"/products/category/"},
		ProductSchema: Schema{
			Name: "Trader Joe's Product",
			Fields: map[string]FieldRule{
				FieldName:        {Selector: "h1, .product-title, [data-testid='product-title'], .product-name, .product-details h1, .product-info h1"},
				FieldPrice:       {Selector: ".price, .product-price, [data-testid='price'], .price-value, span[class*='price'], .price-display"},
				FieldDescription: {Selector: ".product-description, .description, [data-testid='description'], .product-summary, .product-overview"},
				FieldIngredients: {Selector: ".ingredients, .ingredient-list, [data-testid='ingredients'], .ingredients-list"},
				FieldNutrition:   {Selector: ".nutrition, .nutritional-info, [data-testid='nutrition'], .nutrition-facts"},
				FieldImage:       {Selector: ".product-image img, .product-photo img, [data-testid='product-image'] img, .product-hero img, .main-image img", Attr: "src"},
				FieldID:          {Selector: ".product-id, .sku, [data-testid='sku'], .item-number"},
			},
		},
		ListingSchema: defaultListingSchema("Trader Joe's Product Links"),
		Tiers:         DefaultTiers(),
	},
	"safeway": {
		Name:              "safeway",
		Domain:            "safeway.com",
		Store:             "Safeway",
		SeedURL:           "https://www.safeway.com/shop/aisles/frozen-foods/ice-cream-novelties.html",
		Strategy:          "best_first",
		ProductFragments:  []string{"/shop/product/", "/product/", "/pdp/", "/item/", "/detail/"},
		CategoryFragments: []string{"/shop/aisles/"},
		ProductSchema: Schema{
			Name: "Safeway Product",
			Fields: map[string]FieldRule{
				FieldName:        {Selector: "h1, .product-title, [data-testid='product-title'], .product-name, .product-detail-title, .item-name"},
				FieldPrice:       {Selector: ".price, .product-price, [data-testid='price'], span[class*='price'], .price-current, .price-sale, .price-amount"},
				FieldDescription: {Selector: ".product-description, .description, [data-testid='description'], .product-summary, .product-overview"},
				FieldIngredients: {Selector: ".ingredients, .ingredient-list, [data-testid='ingredients'], .ingredients-list"},
				FieldNutrition:   {Selector: ".nutrition, .nutritional-info, [data-testid='nutrition'], .nutrition-facts"},
				FieldImage:       {Selector: ".product-image img, .product-photo img, [data-testid='product-image'] img, .product-gallery img, .main-image img", Attr: "src"},
				FieldID:          {Selector: ".product-id, .sku, [data-testid='sku'], .sku-number, .product-code"},
				FieldBrand:       {Selector: ".brand, .product-brand, [data-testid='brand'], .brand-name"},
				FieldSize:        {Selector: ".size, .product-size, [data-testid='size'], .size-value, .product-weight"},
			},
		},
		ListingSchema: defaultListingSchema("Safeway Product Links"),
		Tiers:         DefaultTiers(),
	},
	"starmarket": {
		Name:              "starmarket",
		Domain:            "starmarket.com",
		Store:             "Star Market",
		SeedURL:           "https://www.starmarket.com/shop/aisles/frozen-foods/ice-cream-novelties.html",
		Strategy:          "best_first",
		ProductFragments:  []string{"/shop/product/", "/product-details", "/product/", "/pdp/", "/item/", "/detail/"},
		CategoryFragments: []string{"/shop/aisles/"},
		ProductSchema: Schema{
			Name: "Star Market Product",
			Fields: map[string]FieldRule{
				FieldName:        {Selector: "h1, h2, .product-title, .product-name, .item-title, [data-testid='product-title']"},
				FieldPrice:       {Selector: ".price, .product-price, .cost, [data-testid='price'], [class*='price']"},
				FieldDescription: {Selector: ".description, .product-description, .product-details"},
				FieldImage:       {Selector: "img[src*='product'], .product-image img, img[alt*='product']", Attr: "src"},
				FieldID:          {Selector: ".product-id, .sku, [data-testid='sku'], .item-number"},
			},
		},
		ListingSchema: defaultListingSchema("Star Market Product Links"),
		// Star Market sits behind Incapsula; every tier needs evasion and
		// the extended tier a very long interstitial wait.
		Tiers: []Tier{
			{Name: "direct", Timeout: 30 * time.Second, RenderDelay: 5 * time.Second, Evasion: true, Headless: true},
			{Name: "stealth", Timeout: 45 * time.Second, RenderDelay: 10 * time.Second, Evasion: true, Headless: true},
			{Name: "extended_wait", Timeout: 60 * time.Second, RenderDelay: 20 * time.Second, Evasion: true, Headless: true},
		},
	},
	"stopandshop": {
		Name:              "stopandshop",
		Domain:            "stopandshop.com",
		Store:             "Stop & Shop",
		SeedURL:           "https://stopandshop.com/departments/produce",
		Strategy:          "bfs",
		ProductFragments:  []string{"/product/"},
		CategoryFragments: []string{"/departments/", "/category/", "/browse/"},
		ProductSchema: Schema{
			Name: "Stop and Shop Product",
			Fields: map[string]FieldRule{
				FieldName:        {Selector: "h1, .product-title, [data-testid='product-title'], .product-name, .pdp-product-name, .kds-Text--l"},
				FieldPrice:       {Selector: ".price, .product-price, [data-testid='price'], span[class*='price'], .current-price, .sale-price, .kds-Price"},
				FieldDescription: {Selector: ".product-description, .description, [data-testid='description'], .pdp-description"},
				FieldIngredients: {Selector: ".ingredients, .ingredient-list, [data-testid='ingredients'], .pdp-ingredients"},
				FieldNutrition:   {Selector: ".nutrition, .nutritional-info, [data-testid='nutrition'], .nutrition-panel, .pdp-nutrition"},
				FieldImage:       {Selector: ".product-image img, .product-photo img, [data-testid='product-image'] img, .pdp-image img, .hero-image img", Attr: "src"},
				FieldID:          {Selector: ".product-id, .sku, [data-testid='sku'], .upc"},
				FieldBrand:       {Selector: ".brand, .product-brand, .brand-name, [data-testid='brand'], .manufacturer"},
				FieldSize:        {Selector: ".unit-size, .package-size, .size, .weight, [data-testid='size']"},
			},
		},
		ListingSchema: defaultListingSchema("Stop and Shop Product Links"),
		Tiers:         DefaultTiers(),
	},
}

// Lookup returns the configuration for a site name.
func Lookup(name string) (*Site, bool) {
	s, ok := registry[name]
	return s, ok
}

// Names lists the supported site names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
