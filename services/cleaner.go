package services

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"aeo-analytics/models"
	"aeo-analytics/utils"
)

// Cleaner transforms raw tables into typed, normalised records.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// cells gives typed access to one raw row by canonical column name.
type cells struct {
	table string
	idx   map[string]int
	row   []string
	line  int
}

func (c cells) get(col string) string {
	i, ok := c.idx[col]
	if !ok || i >= len(c.row) {
		return ""
	}
	return c.row[i]
}

func (c cells) number(col string, required bool) (float64, error) {
	raw := strings.TrimSpace(c.get(col))
	if raw == "" {
		if required {
			return 0, c.invalid(col, raw, "value is required")
		}
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, c.invalid(col, raw, "not a number")
	}
	return v, nil
}

// integer accepts integral floats such as "2.0", which spreadsheets produce.
func (c cells) integer(col string, required bool) (int, error) {
	raw := strings.TrimSpace(c.get(col))
	if raw == "" {
		if required {
			return 0, c.invalid(col, raw, "value is required")
		}
		return 0, nil
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, c.invalid(col, raw, "not an integer")
	}
	return int(f), nil
}

func (c cells) invalid(col, value, reason string) error {
	return &SchemaError{Table: c.table, Row: c.line, Column: col, Value: value, Reason: reason}
}

// RankingRecords converts a validated ranking table. Rows with a blank
// category or source are dropped with a warning.
func (c *Cleaner) RankingRecords(t *models.Table) ([]models.RankingRecord, error) {
	idx := t.ColumnIndex()
	result := make([]models.RankingRecord, 0, len(t.Rows))

	for i, row := range t.Rows {
		r := cells{table: t.Name, idx: idx, row: row, line: i + 2}

		category := normaliseText(r.get(models.ColCategory))
		source := normaliseSource(r.get(models.ColSource))
		if category == "" || source == "" {
			c.logger.Warn("[cleaner] Dropping %s row %d with blank category or source", t.Name, r.line)
			continue
		}

		score, err := r.number(models.ColNormalizedScore, true)
		if err != nil {
			return nil, err
		}
		sum, err := r.number(models.ColScoreSum, false)
		if err != nil {
			return nil, err
		}
		rank, err := r.integer(models.ColRank, true)
		if err != nil {
			return nil, err
		}

		result = append(result, models.RankingRecord{
			Category:        category,
			Source:          source,
			NormalizedScore: score,
			ScoreSum:        sum,
			Rank:            rank,
		})
	}

	c.logCleaned(t.Name, len(t.Rows), len(result))
	return result, nil
}

// ProductDetailRecords converts a validated product-detail table. A blank
// rank cell is kept as 0; nothing downstream reads it.
func (c *Cleaner) ProductDetailRecords(t *models.Table) ([]models.ProductDetailRecord, error) {
	idx := t.ColumnIndex()
	result := make([]models.ProductDetailRecord, 0, len(t.Rows))

	for i, row := range t.Rows {
		r := cells{table: t.Name, idx: idx, row: row, line: i + 2}

		category := normaliseText(r.get(models.ColCategory))
		source := normaliseSource(r.get(models.ColSource))
		if category == "" || source == "" {
			c.logger.Warn("[cleaner] Dropping %s row %d with blank category or source", t.Name, r.line)
			continue
		}

		rank, err := r.integer(models.ColRank, false)
		if err != nil {
			return nil, err
		}

		result = append(result, models.ProductDetailRecord{
			Category:    category,
			ProductName: normaliseText(r.get(models.ColProductName)),
			Source:      source,
			Rank:        rank,
			Extra:       r.get(models.ColExtra),
			Response:    r.get(models.ColResponse),
		})
	}

	c.logCleaned(t.Name, len(t.Rows), len(result))
	return result, nil
}

// CitationRecords converts a validated citation table. Citation text is
// kept verbatim; blank cells mean the product has no citations.
func (c *Cleaner) CitationRecords(t *models.Table) ([]models.CitationRecord, error) {
	idx := t.ColumnIndex()
	result := make([]models.CitationRecord, 0, len(t.Rows))

	for i, row := range t.Rows {
		r := cells{table: t.Name, idx: idx, row: row, line: i + 2}

		category := normaliseText(r.get(models.ColCategory))
		if category == "" {
			c.logger.Warn("[cleaner] Dropping %s row %d with blank category", t.Name, r.line)
			continue
		}

		result = append(result, models.CitationRecord{
			Category:    category,
			ProductName: normaliseText(r.get(models.ColProductName)),
			Citations:   strings.TrimSpace(r.get(models.ColCitations)),
		})
	}

	c.logCleaned(t.Name, len(t.Rows), len(result))
	return result, nil
}

func (c *Cleaner) logCleaned(table string, in, out int) {
	if in == out {
		c.logger.Debug("[cleaner] Cleaned %d %s rows", out, table)
		return
	}
	c.logger.Info("[cleaner] Cleaned %d → %d %s rows (dropped %d)", in, out, table, in-out)
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

func normaliseSource(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
