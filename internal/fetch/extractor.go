package fetch

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"grocer/internal/pipeline"
	"grocer/internal/sites"
)

// SchemaExtractor applies declarative field schemas to rendered HTML.
type SchemaExtractor struct{}

func NewSchemaExtractor() *SchemaExtractor {
	return &SchemaExtractor{}
}

// Extract runs every rule in the schema against the document. Single-valued
// fields take the first non-empty match; Multiple rules collect every match.
// Only field names declared by the schema appear in the result.
func (e *SchemaExtractor) Extract(html string, schema sites.Schema) (pipeline.RawFields, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	fields := make(pipeline.RawFields, len(schema.Fields))
	for name, rule := range schema.Fields {
		var values []string
		doc.Find(rule.Selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			v := ruleValue(s, rule)
			if v == "" {
				return true
			}
			values = append(values, v)
			return rule.Multiple
		})
		if len(values) > 0 {
			fields[name] = values
		}
	}
	return fields, nil
}

func ruleValue(s *goquery.Selection, rule sites.FieldRule) string {
	if rule.Attr != "" {
		v, _ := s.Attr(rule.Attr)
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(s.Text())
}
