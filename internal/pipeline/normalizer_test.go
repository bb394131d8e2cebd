package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocer/internal/sites"
)

func TestNormalize_CookieBannerDescriptionReplaced(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"lowercase token", "We use cookies to improve your experience", DescriptionUnavailable},
		{"mixed case token", "This site uses Cookies for analytics", DescriptionUnavailable},
		{"clean description", "Creamy oat milk from organic oats", "Creamy oat milk from organic oats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := RawFields{
				sites.FieldName:        {"Oat Milk"},
				sites.FieldDescription: {tt.description},
			}
			p, ok := Normalize(raw, "https://x/a", 0, 0)
			require.True(t, ok)
			assert.Equal(t, tt.want, p.Description)
		})
	}
}

func TestNormalize_RejectsRecordWithoutNameAndPrice(t *testing.T) {
	raw := RawFields{
		sites.FieldDescription: {"something"},
		sites.FieldImage:       {"/img/a.jpg"},
	}
	_, ok := Normalize(raw, "https://x/a", 0, 0)
	assert.False(t, ok)

	// Name alone keeps the record.
	raw[sites.FieldName] = []string{"Oat Milk"}
	_, ok = Normalize(raw, "https://x/a", 0, 0)
	assert.True(t, ok)
}

func TestNormalize_StampsMetadata(t *testing.T) {
	raw := RawFields{sites.FieldName: {"Oat Milk"}}
	p, ok := Normalize(raw, "https://x/a", 3, 0.75)
	require.True(t, ok)
	assert.Equal(t, 3, p.CrawlDepth)
	assert.Equal(t, 0.75, p.CrawlScore)
	assert.Equal(t, "https://x/a", p.URL)
	assert.False(t, p.ExtractedAt.IsZero())
}

func TestResolveImageURL(t *testing.T) {
	source := "https://www.testmart.com/product/oat-milk.123.html"
	tests := []struct {
		name string
		img  string
		want string
	}{
		{"absolute is a no-op", "https://cdn.testmart.com/a.jpg", "https://cdn.testmart.com/a.jpg"},
		{"protocol relative gets https", "//cdn.testmart.com/a.jpg", "https://cdn.testmart.com/a.jpg"},
		{"root relative resolves to origin", "/images/a.jpg", "https://www.testmart.com/images/a.jpg"},
		{"relative resolves against page", "a.jpg", "https://www.testmart.com/product/a.jpg"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveImageURL(tt.img, source)
			assert.Equal(t, tt.want, got)
			// Resolution is idempotent: a second pass changes nothing.
			assert.Equal(t, got, ResolveImageURL(got, source))
		})
	}
}
