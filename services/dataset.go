package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"aeo-analytics/models"
)

// Dataset is one immutable snapshot of the three input tables plus the
// indexes every report reads from. Nothing may modify a Dataset or the
// slices it returns once NewDataset has returned.
type Dataset struct {
	ID       string
	LoadedAt time.Time
	Focal    string

	Ranking   []models.RankingRecord
	Details   []models.ProductDetailRecord
	Citations []models.CitationRecord

	hasCitations bool

	categories         []string
	sources            []string
	byCategory         map[string][]models.RankingRecord
	bySource           map[string][]models.RankingRecord
	categorySize       map[string]int
	detailSources      []string
	detailsByCategory  map[string][]models.ProductDetailRecord
	detailsBySource    map[string][]models.ProductDetailRecord
	citationCategories []string
	citesByCategory    map[string][]models.CitationRecord
}

// NewDataset indexes the given records in one pass per table. citations is
// ignored unless hasCitations is set.
func NewDataset(focal string, ranking []models.RankingRecord, details []models.ProductDetailRecord,
	citations []models.CitationRecord, hasCitations bool) *Dataset {
	d := &Dataset{
		ID:                uuid.NewString(),
		LoadedAt:          time.Now(),
		Focal:             strings.ToLower(strings.TrimSpace(focal)),
		Ranking:           ranking,
		Details:           details,
		hasCitations:      hasCitations,
		byCategory:        make(map[string][]models.RankingRecord),
		bySource:          make(map[string][]models.RankingRecord),
		categorySize:      make(map[string]int),
		detailsByCategory: make(map[string][]models.ProductDetailRecord),
		detailsBySource:   make(map[string][]models.ProductDetailRecord),
		citesByCategory:   make(map[string][]models.CitationRecord),
	}

	for _, r := range ranking {
		if _, ok := d.byCategory[r.Category]; !ok {
			d.categories = append(d.categories, r.Category)
		}
		d.byCategory[r.Category] = append(d.byCategory[r.Category], r)

		if _, ok := d.bySource[r.Source]; !ok {
			d.sources = append(d.sources, r.Source)
		}
		d.bySource[r.Source] = append(d.bySource[r.Source], r)
	}
	for _, rows := range d.byCategory {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	}

	products := make(map[string]map[string]struct{})
	for _, p := range details {
		if _, ok := d.detailsBySource[p.Source]; !ok {
			d.detailSources = append(d.detailSources, p.Source)
		}
		d.detailsBySource[p.Source] = append(d.detailsBySource[p.Source], p)
		d.detailsByCategory[p.Category] = append(d.detailsByCategory[p.Category], p)

		if products[p.Category] == nil {
			products[p.Category] = make(map[string]struct{})
		}
		products[p.Category][p.ProductName] = struct{}{}
	}
	for cat, names := range products {
		d.categorySize[cat] = len(names)
	}

	if hasCitations {
		d.Citations = citations
		for _, c := range citations {
			if _, ok := d.citesByCategory[c.Category]; !ok {
				d.citationCategories = append(d.citationCategories, c.Category)
			}
			d.citesByCategory[c.Category] = append(d.citesByCategory[c.Category], c)
		}
	}

	return d
}

// Categories lists the ranking table's categories in first-appearance order.
func (d *Dataset) Categories() []string { return d.categories }

// Sources lists the ranking table's sources in first-appearance order.
func (d *Dataset) Sources() []string { return d.sources }

// HasCategory reports whether the ranking table has rows for category.
func (d *Dataset) HasCategory(category string) bool {
	_, ok := d.byCategory[category]
	return ok
}

// HasSource reports whether the ranking table has rows for source.
func (d *Dataset) HasSource(source string) bool {
	_, ok := d.bySource[source]
	return ok
}

// CategoryRows returns a category's ranking rows ordered by rank.
func (d *Dataset) CategoryRows(category string) []models.RankingRecord {
	return d.byCategory[category]
}

// SourceRows returns a source's ranking rows in table order.
func (d *Dataset) SourceRows(source string) []models.RankingRecord {
	return d.bySource[source]
}

// Winner returns the top-ranked row of a category.
func (d *Dataset) Winner(category string) (models.RankingRecord, bool) {
	rows := d.byCategory[category]
	if len(rows) == 0 {
		return models.RankingRecord{}, false
	}
	return rows[0], true
}

// FocalRow returns the focal source's row in a category, if any.
func (d *Dataset) FocalRow(category string) (models.RankingRecord, bool) {
	return d.SourceRow(category, d.Focal)
}

// SourceRow returns a source's row in a category, if any.
func (d *Dataset) SourceRow(category, source string) (models.RankingRecord, bool) {
	for _, r := range d.byCategory[category] {
		if r.Source == source {
			return r, true
		}
	}
	return models.RankingRecord{}, false
}

// IsFocal reports whether source is exactly the focal source.
func (d *Dataset) IsFocal(source string) bool {
	return strings.EqualFold(source, d.Focal)
}

// MentionsFocal reports whether text contains the focal source's name.
func (d *Dataset) MentionsFocal(text string) bool {
	return strings.Contains(strings.ToLower(text), d.Focal)
}

// CategorySize is the number of distinct product names listed for a category.
func (d *Dataset) CategorySize(category string) (int, bool) {
	n, ok := d.categorySize[category]
	return n, ok
}

// DetailSources lists the product-detail table's sources in first-appearance order.
func (d *Dataset) DetailSources() []string { return d.detailSources }

func (d *Dataset) CategoryDetails(category string) []models.ProductDetailRecord {
	return d.detailsByCategory[category]
}

func (d *Dataset) SourceDetails(source string) []models.ProductDetailRecord {
	return d.detailsBySource[source]
}

// HasCitations reports whether a citation table was loaded.
func (d *Dataset) HasCitations() bool { return d.hasCitations }

// RequireCitations fails with ErrDataUnavailable when no citation table was loaded.
func (d *Dataset) RequireCitations() error {
	if !d.hasCitations {
		return fmt.Errorf("%w: citation table is not configured", ErrDataUnavailable)
	}
	return nil
}

// CategoryCitations returns the citation rows of a category in table order.
func (d *Dataset) CategoryCitations(category string) []models.CitationRecord {
	return d.citesByCategory[category]
}

// CitationCategories lists the citation table's categories in first-appearance order.
func (d *Dataset) CitationCategories() []string { return d.citationCategories }

// validateDenseRanks checks that every category's ranks are exactly 1..k.
func validateDenseRanks(table string, rows []models.RankingRecord) error {
	ranks := make(map[string][]int)
	var order []string
	for _, r := range rows {
		if _, ok := ranks[r.Category]; !ok {
			order = append(order, r.Category)
		}
		ranks[r.Category] = append(ranks[r.Category], r.Rank)
	}

	for _, cat := range order {
		rs := ranks[cat]
		sort.Ints(rs)
		for i, r := range rs {
			if r != i+1 {
				return &SchemaError{
					Table:  table,
					Reason: fmt.Sprintf("category %q ranks %v are not a dense sequence 1..%d", cat, rs, len(rs)),
				}
			}
		}
	}
	return nil
}
