package storage

import (
	"strings"

	"aeo-analytics/models"
)

// headerAliases maps lower-cased header spellings seen in exported
// spreadsheets onto canonical column names.
var headerAliases = map[string]string{
	"category":          models.ColCategory,
	"product":           models.ColCategory,
	"product category":  models.ColCategory,
	"source":            models.ColSource,
	"source_normalized": models.ColSource,
	"normalized_score":  models.ColNormalizedScore,
	"score_norm":        models.ColNormalizedScore,
	"score_sum":         models.ColScoreSum,
	"rank":              models.ColRank,
	"product_name":      models.ColProductName,
	"product name":      models.ColProductName,
	"extra":             models.ColExtra,
	"response":          models.ColResponse,
	"citations":         models.ColCitations,
}

// CanonicalHeader returns the canonical name for a header cell, or the
// trimmed original when no alias matches.
func CanonicalHeader(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if c, ok := headerAliases[strings.ToLower(h)]; ok {
		return c
	}
	return h
}

// newTable builds a Table from a header row and data rows, canonicalising
// the header and padding short rows.
func newTable(kind, path string, header []string, rows [][]string) *models.Table {
	canon := make([]string, len(header))
	for i, h := range header {
		canon[i] = CanonicalHeader(h)
	}

	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if isBlankRow(r) {
			continue
		}
		if len(r) < len(canon) {
			padded := make([]string, len(canon))
			copy(padded, r)
			r = padded
		}
		out = append(out, r)
	}

	return &models.Table{Name: kind, Path: path, Header: canon, Rows: out}
}

func isBlankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
