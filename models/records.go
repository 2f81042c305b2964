package models

// Table kinds, also used as metric labels and PostgreSQL table names.
const (
	TableRanking       = "ranking"
	TableProductDetail = "product_detail"
	TableCitation      = "citation"
)

// Canonical column names. Readers map header aliases onto these.
const (
	ColCategory        = "category"
	ColSource          = "source"
	ColNormalizedScore = "normalized_score"
	ColScoreSum        = "score_sum"
	ColRank            = "rank"
	ColProductName     = "product_name"
	ColExtra           = "extra"
	ColResponse        = "response"
	ColCitations       = "citations"
)

// Table is a raw, untyped table as read from a file or database. Header
// holds canonical column names where an alias was recognised.
type Table struct {
	Name   string
	Path   string
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of each header column.
func (t *Table) ColumnIndex() map[string]int {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	return idx
}

// RankingRecord is one (category, source) row of the ranking table.
type RankingRecord struct {
	Category        string  `json:"category"`
	Source          string  `json:"source"`
	NormalizedScore float64 `json:"normalized_score"`
	ScoreSum        float64 `json:"score_sum"`
	Rank            int     `json:"rank"`
}

// ProductDetailRecord is one product listed by one source.
type ProductDetailRecord struct {
	Category    string `json:"category"`
	ProductName string `json:"product_name"`
	Source      string `json:"source"`
	Rank        int    `json:"rank"`
	Extra       string `json:"extra"`
	Response    string `json:"response,omitempty"`
}

// CitationRecord is a product the focal source does not list, with the
// citation lines found in its answer text.
type CitationRecord struct {
	Category    string `json:"category"`
	ProductName string `json:"product_name"`
	Citations   string `json:"citations"`
}
