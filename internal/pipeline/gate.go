package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"grocer/internal/domain"
)

// ProductStore is the durable storage the gate writes through.
type ProductStore interface {
	// ExistingNames returns which of the candidate names are already stored.
	ExistingNames(ctx context.Context, names []string) (map[string]struct{}, error)
	// InsertProducts bulk-inserts rows in a single transaction and returns
	// the number actually inserted.
	InsertProducts(ctx context.Context, rows []domain.StoredProduct) (int, error)
}

// Gate deduplicates a batch of extracted products against storage by name
// and bulk-commits the new, valid ones. Persistence is insert-only: a stored
// row is never updated by a later crawl, even if the price changed.
type Gate struct {
	store  ProductStore
	logger *zap.Logger
}

func NewGate(store ProductStore, logger *zap.Logger) *Gate {
	return &Gate{store: store, logger: logger}
}

// Persist commits one batch. Candidates with an empty name, a name already
// stored, or an unparseable price are skipped individually; a skip never
// aborts the batch. Returns the number of rows inserted, so running the same
// batch twice inserts zero rows the second time.
func (g *Gate) Persist(ctx context.Context, products []domain.Product, store string) (int, error) {
	names := make([]string, 0, len(products))
	for _, p := range products {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return 0, nil
	}

	existing, err := g.store.ExistingNames(ctx, names)
	if err != nil {
		return 0, fmt.Errorf("query existing names: %w", err)
	}

	rows := make([]domain.StoredProduct, 0, len(products))
	for _, p := range products {
		if p.Name == "" {
			continue
		}
		if _, dup := existing[p.Name]; dup {
			g.logger.Debug("skipping duplicate product name", zap.String("name", p.Name))
			continue
		}
		price, err := ParsePrice(p.Price)
		if err != nil {
			g.logger.Debug("skipping product with unparseable price",
				zap.String("name", p.Name), zap.String("price", p.Price))
			continue
		}
		// Collapse duplicate names within the batch to the first occurrence.
		existing[p.Name] = struct{}{}
		rows = append(rows, domain.StoredProduct{
			Name:  p.Name,
			Price: price,
			URL:   p.URL,
			Store: store,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	inserted, err := g.store.InsertProducts(ctx, rows)
	if err != nil {
		return 0, fmt.Errorf("bulk insert: %w", err)
	}
	return inserted, nil
}

// ParsePrice turns a scraped price string into a numeric value, stripping
// currency symbols, thousands separators, and surrounding whitespace. Any
// non-numeric remainder is an error.
func ParsePrice(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "$€£")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, fmt.Errorf("empty price")
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	return v, nil
}
