package services

import (
	"fmt"
	"sort"

	"aeo-analytics/models"
)

const (
	defaultRankingTopN = 5
	battleTopN         = 5
	noRankTopN         = 10
	noRankSamples      = 20
)

// CatalogService answers lookups over the raw ranking, product-detail and
// citation tables.
type CatalogService struct{}

func NewCatalogService() *CatalogService {
	return &CatalogService{}
}

// MarketplaceRankings lists, per category in name order, the sources ranked
// at or above topN. topN <= 0 means 5.
func (s *CatalogService) MarketplaceRankings(d *Dataset, topN int) ([]models.CategoryRanking, error) {
	if topN <= 0 {
		topN = defaultRankingTopN
	}

	cats := append([]string(nil), d.Categories()...)
	sort.Strings(cats)

	out := make([]models.CategoryRanking, 0, len(cats))
	for _, cat := range cats {
		var ranks []models.SourceRank
		for _, r := range d.CategoryRows(cat) {
			if r.Rank <= topN {
				ranks = append(ranks, models.SourceRank{Source: r.Source, Rank: r.Rank})
			}
		}
		if len(ranks) == 0 {
			continue
		}
		out = append(out, models.CategoryRanking{Category: cat, Sources: ranks})
	}
	return out, nil
}

// CategoryDetails lists a category's products, every source's rank, and
// how many distinct products each source lists.
func (s *CatalogService) CategoryDetails(d *Dataset, category string) (*models.CategoryDetails, error) {
	if !d.HasCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}

	productSet := make(map[string]struct{})
	perSource := make(map[string]map[string]struct{})
	for _, p := range d.CategoryDetails(category) {
		productSet[p.ProductName] = struct{}{}
		if perSource[p.Source] == nil {
			perSource[p.Source] = make(map[string]struct{})
		}
		perSource[p.Source][p.ProductName] = struct{}{}
	}

	products := make([]string, 0, len(productSet))
	for name := range productSet {
		products = append(products, name)
	}
	sort.Strings(products)

	counts := make(map[string]int, len(perSource))
	for src, names := range perSource {
		counts[src] = len(names)
	}

	rows := d.CategoryRows(category)
	rankings := make([]models.SourceRank, 0, len(rows))
	for _, r := range rows {
		rankings = append(rankings, models.SourceRank{Source: r.Source, Rank: r.Rank})
	}

	return &models.CategoryDetails{
		Category:                 category,
		Products:                 products,
		MarketplaceRankings:      rankings,
		MarketplaceProductCounts: counts,
		TotalProducts:            len(products),
		TotalMarketplaces:        len(rankings),
	}, nil
}

// Statistics summarises the ranking table.
func (s *CatalogService) Statistics(d *Dataset) (*models.RankingStatistics, error) {
	cats := append([]string(nil), d.Categories()...)
	sort.Strings(cats)

	winCounts := make(map[string]int)
	var winners []string
	for _, cat := range d.Categories() {
		w, ok := d.Winner(cat)
		if !ok || w.Rank != 1 {
			continue
		}
		if winCounts[w.Source] == 0 {
			winners = append(winners, w.Source)
		}
		winCounts[w.Source]++
	}

	top := make([]models.SourceWins, 0, len(winners))
	for _, src := range winners {
		top = append(top, models.SourceWins{Source: src, Wins: winCounts[src]})
	}
	sort.SliceStable(top, func(i, j int) bool { return top[i].Wins > top[j].Wins })
	if len(top) > listLimit {
		top = top[:listLimit]
	}

	return &models.RankingStatistics{
		TotalCategories: len(cats),
		TotalSources:    len(d.Sources()),
		TotalEntries:    len(d.Ranking),
		Categories:      cats,
		TopMarketplaces: top,
	}, nil
}

// NoRankAnalysis summarises the products the focal source does not list.
func (s *CatalogService) NoRankAnalysis(d *Dataset) (*models.NoRankAnalysis, error) {
	if err := d.RequireCitations(); err != nil {
		return nil, err
	}

	counts := make([]models.CategoryCount, 0, len(d.CitationCategories()))
	for _, cat := range d.CitationCategories() {
		counts = append(counts, models.CategoryCount{Category: cat, ProductCount: len(d.CategoryCitations(cat))})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].ProductCount > counts[j].ProductCount })
	if len(counts) > noRankTopN {
		counts = counts[:noRankTopN]
	}

	var withCitations int
	samples := make([]models.NoRankProduct, 0, noRankSamples)
	for i, c := range d.Citations {
		if c.Citations != "" {
			withCitations++
		}
		if i < noRankSamples {
			p := models.NoRankProduct{Category: c.Category, ProductName: c.ProductName}
			if c.Citations != "" {
				text := c.Citations
				p.Citations = &text
			}
			samples = append(samples, p)
		}
	}

	return &models.NoRankAnalysis{
		TotalMissingProducts:     len(d.Citations),
		CategoriesAffected:       len(d.CitationCategories()),
		TopOpportunityCategories: counts,
		ProductsWithCitations:    withCitations,
		SampleProducts:           samples,
	}, nil
}

// CategoryBattle compares the top five sources of a category with the
// focal source and counts the category's listed and missing products.
func (s *CatalogService) CategoryBattle(d *Dataset, category string) (*models.CategoryBattle, error) {
	if !d.HasCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	if err := d.RequireCitations(); err != nil {
		return nil, err
	}

	var focalRank int
	var focalScore float64
	if focal, ok := d.FocalRow(category); ok {
		focalRank, focalScore = focal.Rank, focal.NormalizedScore
	}

	rows := d.CategoryRows(category)
	if len(rows) > battleTopN {
		rows = rows[:battleTopN]
	}
	top := make([]models.BattleCompetitor, 0, len(rows))
	for _, r := range rows {
		gap := 0.0
		if focalScore > 0 {
			gap = (r.NormalizedScore - focalScore) * 100
		}
		top = append(top, models.BattleCompetitor{
			Name:  r.Source,
			Rank:  r.Rank,
			Score: r.NormalizedScore,
			Gap:   round(gap, 2),
		})
	}

	all := make(map[string]struct{})
	focalProducts := make(map[string]struct{})
	for _, p := range d.CategoryDetails(category) {
		all[p.ProductName] = struct{}{}
		if d.IsFocal(p.Source) {
			focalProducts[p.ProductName] = struct{}{}
		}
	}

	return &models.CategoryBattle{
		Category:            category,
		FocalRank:           focalRank,
		FocalScore:          round(focalScore, 4),
		TopCompetitors:      top,
		ProductCount:        len(all),
		FocalProductCount:   len(focalProducts),
		MissingProductCount: len(d.CategoryCitations(category)),
	}, nil
}
