package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"aeo-analytics/config"
	"aeo-analytics/models"
)

func testAnalysis() config.AnalysisConfig {
	return config.Default().Analysis
}

func rankingRow(category, source string, rank int, score float64) models.RankingRecord {
	return models.RankingRecord{Category: category, Source: source, Rank: rank, NormalizedScore: score}
}

func sampleRanking() []models.RankingRecord {
	return []models.RankingRecord{
		rankingRow("Toys", "flipkart", 1, 0.50),
		rankingRow("Toys", "amazon", 2, 0.40),
		rankingRow("Toys", "meesho", 3, 0.30),
		rankingRow("Phones", "amazon", 1, 0.60),
		rankingRow("Phones", "flipkart", 2, 0.45),
		rankingRow("Gadgets", "flipkart", 1, 0.30),
		rankingRow("Gadgets", "croma", 2, 0.20),
		rankingRow("Gadgets", "meesho", 3, 0.10),
		rankingRow("Imported Tea", "tata", 1, 0.70),
		rankingRow("Imported Tea", "amazon", 2, 0.45),
	}
}

func sampleDetails() []models.ProductDetailRecord {
	return []models.ProductDetailRecord{
		{Category: "Toys", ProductName: "Lego Set", Source: "amazon", Extra: "Official store, genuine"},
		{Category: "Toys", ProductName: "Lego Set", Source: "flipkart", Extra: "authorized seller official"},
		{Category: "Toys", ProductName: "Toy Car", Source: "flipkart", Extra: "fast delivery"},
		{Category: "Toys", ProductName: "Doll", Source: "meesho", Extra: "fake reviews"},
		{Category: "Phones", ProductName: "Phone X", Source: "amazon"},
		{Category: "Phones", ProductName: "Phone X", Source: "flipkart"},
		{Category: "Imported Tea", ProductName: "Green Tea", Source: "tata"},
	}
}

func sampleCitations() []models.CitationRecord {
	return []models.CitationRecord{
		{Category: "Toys", ProductName: "Toy Car", Citations: "[1]: https://www.example.com/x [2]: http://example.com/y"},
		{Category: "Toys", ProductName: "Doll", Citations: "[1]: https://amazon.in/doll"},
		{Category: "Gadgets", ProductName: "Drone"},
	}
}

func sampleDataset() *Dataset {
	return NewDataset("amazon", sampleRanking(), sampleDetails(), sampleCitations(), true)
}

func sampleDatasetWithoutCitations() *Dataset {
	return NewDataset("amazon", sampleRanking(), sampleDetails(), nil, false)
}

// writeCSV writes a CSV fixture and returns its path.
func writeCSV(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

// sampleFiles writes the ranking, product-detail and citation fixtures in
// spreadsheet header spelling.
func sampleFiles(t *testing.T) (ranking, details, citations string) {
	t.Helper()
	dir := t.TempDir()
	ranking = writeCSV(t, dir, "ranked.csv",
		"Product,source_normalized,score_norm,score_sum,rank",
		"Toys,Flipkart,0.50,5,1",
		"Toys,Amazon,0.40,4,2",
		"Toys,meesho,0.30,3,3",
		"Phones,amazon,0.60,6,1",
		"Phones,flipkart,0.45,4.5,2",
		"Gadgets,flipkart,0.30,3,1",
		"Gadgets,croma,0.20,2,2",
		"Gadgets,meesho,0.10,1,3",
		"Imported Tea,tata,0.70,7,1",
		"Imported Tea,amazon,0.45,4,2.0",
	)
	details = writeCSV(t, dir, "details.csv",
		"Product,product_name,source_normalized,rank,extra",
		`Toys,Lego Set,amazon,1,"Official store, genuine"`,
		"Toys,Lego Set,flipkart,1,authorized seller official",
		"Toys,Toy Car,flipkart,2,fast delivery",
		"Toys,Doll,meesho,1,fake reviews",
		"Phones,Phone X,amazon,1,",
		"Phones,Phone X,flipkart,1,",
		"Imported Tea,Green Tea,tata,1,",
	)
	citations = writeCSV(t, dir, "norank.csv",
		"Product Category,Product Name,Citations",
		"Toys,Toy Car,[1]: https://www.example.com/x [2]: http://example.com/y",
		"Toys,Doll,[1]: https://amazon.in/doll",
		"Gadgets,Drone,",
	)
	return ranking, details, citations
}

type staticProvider struct {
	d   *Dataset
	err error
}

func (p staticProvider) Snapshot(context.Context) (*Dataset, error) {
	return p.d, p.err
}
