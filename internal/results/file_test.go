package results

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grocer/internal/domain"
)

func TestWriteLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")

	summary := &domain.RunSummary{
		ScrapedAt:     time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
		TotalProducts: 2,
		CrawlConfig: domain.RunConfig{
			Site:        "safeway",
			SeedURL:     "https://www.safeway.com/shop/aisles/frozen-foods.html",
			MaxProducts: 100,
			Strategy:    "best_first",
		},
		Products: []domain.Product{
			{Name: "Oat Milk", Price: "$4.99", URL: "https://x/a", ExtractionMethod: "direct"},
			{Name: "Almond Butter", Price: "$7.49", URL: "https://x/b", ExtractionMethod: "placeholder", Status: "protected_content"},
		},
	}

	require.NoError(t, Write(path, summary))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, summary, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}
