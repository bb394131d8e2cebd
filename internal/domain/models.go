package domain

import "time"

// CrawlResult is one fetched page yielded by the traversal frontier.
type CrawlResult struct {
	URL          string
	Success      bool
	HTML         string
	ErrorMessage string
	Depth        int
	Score        float64
}

// Product is the canonical extraction output for a single product URL.
type Product struct {
	Name             string    `json:"product_name"`
	Price            string    `json:"product_price"`
	Description      string    `json:"product_description"`
	Ingredients      string    `json:"ingredients,omitempty"`
	NutritionalInfo  string    `json:"nutritional_info,omitempty"`
	ImageURL         string    `json:"product_image"`
	URL              string    `json:"product_url"`
	ID               string    `json:"product_id,omitempty"`
	Brand            string    `json:"brand,omitempty"`
	Size             string    `json:"size,omitempty"`
	CrawlDepth       int       `json:"crawl_depth"`
	CrawlScore       float64   `json:"crawl_score"`
	ExtractedAt      time.Time `json:"extracted_at"`
	ExtractionMethod string    `json:"extraction_method"`
	Status           string    `json:"status,omitempty"`
}

// StoredProduct is a durable row in the products table. Rows are insert-only;
// a later crawl never updates an existing row, even if the price changed.
type StoredProduct struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	URL      string  `json:"url"`
	Category string  `json:"category,omitempty"`
	Store    string  `json:"store,omitempty"`
}

// ScrapeRequest is the payload for the scrape trigger endpoint.
type ScrapeRequest struct {
	Site          string `json:"site"`
	SeedURL       string `json:"seed_url,omitempty"`
	MaxProducts   int    `json:"max_products,omitempty"`
	MaxConcurrent int    `json:"max_concurrent,omitempty"`
	OutputFile    string `json:"output_file,omitempty"`
	Force         bool   `json:"force"` // bypass the recently-scraped check
}

// PersistRequest asks the server to load a run summary file and commit it.
type PersistRequest struct {
	File string `json:"file"`
}

// RunConfig records the bounds an extraction run was started with.
type RunConfig struct {
	Site        string `json:"site"`
	SeedURL     string `json:"seed_url"`
	MaxProducts int    `json:"max_products"`
	Strategy    string `json:"strategy"`
}

// RunSummary is the hand-off artifact between an extraction run and the
// persistence phase.
type RunSummary struct {
	ScrapedAt     time.Time `json:"scraped_at"`
	TotalProducts int       `json:"total_products"`
	CrawlConfig   RunConfig `json:"crawl_config"`
	Products      []Product `json:"products"`
}
