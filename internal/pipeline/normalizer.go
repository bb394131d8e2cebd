package pipeline

import (
	"net/url"
	"strings"
	"time"

	"grocer/internal/domain"
	"grocer/internal/sites"
)

// DescriptionUnavailable replaces description text contaminated by
// cookie-consent banner content.
const DescriptionUnavailable = "Product description not available"

// RawFields is the untyped output of schema extraction: logical field name
// to the values every matching element produced. Only field names declared
// by the schema ever appear as keys.
type RawFields map[string][]string

// First returns the first non-empty value for a field, or "".
func (r RawFields) First(field string) string {
	for _, v := range r[field] {
		if v != "" {
			return v
		}
	}
	return ""
}

// Normalize cleans raw extracted fields into a Product. It is deterministic
// and idempotent: normalizing an already-normalized record changes nothing
// but the timestamp. The second return value is false when the record has
// neither a name nor a price and must not reach the accumulator.
func Normalize(raw RawFields, sourceURL string, depth int, score float64) (domain.Product, bool) {
	p := domain.Product{
		Name:            strings.TrimSpace(raw.First(sites.FieldName)),
		Price:           strings.TrimSpace(raw.First(sites.FieldPrice)),
		Description:     strings.TrimSpace(raw.First(sites.FieldDescription)),
		Ingredients:     strings.TrimSpace(raw.First(sites.FieldIngredients)),
		NutritionalInfo: strings.TrimSpace(raw.First(sites.FieldNutrition)),
		ID:              strings.TrimSpace(raw.First(sites.FieldID)),
		Brand:           strings.TrimSpace(raw.First(sites.FieldBrand)),
		Size:            strings.TrimSpace(raw.First(sites.FieldSize)),
		URL:             sourceURL,
		CrawlDepth:      depth,
		CrawlScore:      score,
		ExtractedAt:     time.Now(),
	}

	if strings.Contains(strings.ToLower(p.Description), "cookie") {
		p.Description = DescriptionUnavailable
	}

	p.ImageURL = ResolveImageURL(raw.First(sites.FieldImage), sourceURL)

	if p.Name == "" && p.Price == "" {
		return domain.Product{}, false
	}
	return p, true
}

// ResolveImageURL makes an image reference absolute against the source page.
// Protocol-relative references get the https scheme; root-relative and
// relative paths resolve against the source URL. Already-absolute URLs pass
// through unchanged, so resolution is a no-op on normalized input.
func ResolveImageURL(img, sourceURL string) string {
	img = strings.TrimSpace(img)
	if img == "" {
		return ""
	}
	if strings.HasPrefix(img, "//") {
		return "https:" + img
	}
	ref, err := url.Parse(img)
	if err != nil {
		return img
	}
	if ref.IsAbs() {
		return img
	}
	base, err := url.Parse(sourceURL)
	if err != nil {
		return img
	}
	return base.ResolveReference(ref).String()
}
