package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"aeo-analytics/models"
)

// citationLineRegexp matches numbered reference lines such as
// "[3]: https://example.com/page".
var citationLineRegexp = regexp.MustCompile(`\[\d+\]:\s*https?://[^\s]+`)

// Header of the citation table as exported for spreadsheet users.
var citationTableHeader = []string{"Product Category", "Product Name", "Citations"}

var rankedTableHeader = []string{
	models.ColCategory, models.ColSource, models.ColNormalizedScore, models.ColScoreSum, models.ColRank,
}

// AssignRanks orders rows by category, then score and score sum descending,
// then source name, and numbers each category's rows from 1. The input is
// not modified.
func AssignRanks(rows []models.RankingRecord) []models.RankingRecord {
	out := append([]models.RankingRecord(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.NormalizedScore != b.NormalizedScore {
			return a.NormalizedScore > b.NormalizedScore
		}
		if a.ScoreSum != b.ScoreSum {
			return a.ScoreSum > b.ScoreSum
		}
		return a.Source < b.Source
	})

	rank := 0
	for i := range out {
		if i == 0 || out[i].Category != out[i-1].Category {
			rank = 0
		}
		rank++
		out[i].Rank = rank
	}
	return out
}

// RankTable reads an unranked scores table, assigns ranks and returns the
// ranked table. Any existing rank column is ignored.
func (c *Cleaner) RankTable(t *models.Table) (*models.Table, error) {
	idx := t.ColumnIndex()
	var missing []string
	for _, col := range []string{models.ColCategory, models.ColSource, models.ColNormalizedScore} {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Table: t.Name, Missing: missing}
	}

	rows := make([]models.RankingRecord, 0, len(t.Rows))
	for i, row := range t.Rows {
		r := cells{table: t.Name, idx: idx, row: row, line: i + 2}

		category := normaliseText(r.get(models.ColCategory))
		source := normaliseSource(r.get(models.ColSource))
		if category == "" || source == "" {
			c.logger.Warn("[ranker] Dropping %s row %d with blank category or source", t.Name, r.line)
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
		rows = append(rows, models.RankingRecord{Category: category, Source: source, NormalizedScore: score, ScoreSum: sum})
	}

	ranked := AssignRanks(rows)
	out := &models.Table{Name: models.TableRanking, Header: rankedTableHeader, Rows: make([][]string, 0, len(ranked))}
	for _, r := range ranked {
		out.Rows = append(out.Rows, []string{
			r.Category,
			r.Source,
			strconv.FormatFloat(r.NormalizedScore, 'f', -1, 64),
			strconv.FormatFloat(r.ScoreSum, 'f', -1, 64),
			strconv.Itoa(r.Rank),
		})
	}
	c.logger.Info("[ranker] Ranked %d rows across %d categories", len(ranked), countCategories(ranked))
	return out, nil
}

func countCategories(rows []models.RankingRecord) int {
	seen := make(map[string]struct{})
	for _, r := range rows {
		seen[r.Category] = struct{}{}
	}
	return len(seen)
}

// ExtractCitationLines returns the numbered reference lines in an answer
// text, joined by newlines.
func ExtractCitationLines(response string) string {
	return strings.Join(citationLineRegexp.FindAllString(response, -1), "\n")
}

// BuildCitationTable lists the products the focal source never lists. Each
// product appears once, with the reference lines of its first row, sorted by
// category then product name.
func BuildCitationTable(details []models.ProductDetailRecord, focal string) []models.CitationRecord {
	focal = normaliseSource(focal)
	listed := make(map[string]struct{})
	for _, p := range details {
		if p.Source == focal {
			listed[p.ProductName] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	out := make([]models.CitationRecord, 0)
	for _, p := range details {
		if _, ok := listed[p.ProductName]; ok {
			continue
		}
		if _, dup := seen[p.ProductName]; dup {
			continue
		}
		seen[p.ProductName] = struct{}{}
		out = append(out, models.CitationRecord{
			Category:    p.Category,
			ProductName: p.ProductName,
			Citations:   ExtractCitationLines(p.Response),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out
}

// CitationTable converts citation records into an exportable table.
func CitationTable(records []models.CitationRecord) *models.Table {
	t := &models.Table{Name: models.TableCitation, Header: citationTableHeader, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.Category, r.ProductName, r.Citations})
	}
	return t
}

// ExtractCitations builds the citation table from a product-detail table
// that carries the raw answer text.
func (c *Cleaner) ExtractCitations(t *models.Table, focal string) (*models.Table, error) {
	if _, ok := t.ColumnIndex()[models.ColResponse]; !ok {
		return nil, &SchemaError{Table: t.Name, Missing: []string{models.ColResponse}}
	}
	details, err := c.ProductDetailRecords(t)
	if err != nil {
		return nil, fmt.Errorf("extract citations: %w", err)
	}
	records := BuildCitationTable(details, focal)
	c.logger.Info("[ranker] Found %d products not listed by %s", len(records), normaliseSource(focal))
	return CitationTable(records), nil
}
