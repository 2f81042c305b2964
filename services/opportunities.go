package services

import (
	"fmt"
	"sort"
	"strings"

	"aeo-analytics/config"
	"aeo-analytics/models"
)

const (
	opportunityCategoryLimit = 20
	associationSourceLimit   = 10
	associationCategoryLimit = 15
	availabilityCompetitors  = 5
	missingProductRevenue    = 5000
	officialGapThreshold     = 30.0
	nicheProductGapLimit     = 10
)

// Perception and match-strength labels.
const (
	StrengthStrong = "Strong"
	StrengthMedium = "Medium"
	StrengthWeak   = "Weak"
)

var intents = []string{
	"Cheapest price",
	"Fast delivery",
	"Authentic product",
	"Wide selection",
	"Professional installation",
}

// OpportunityService computes the secondary opportunity reports.
type OpportunityService struct {
	th config.Thresholds
}

func NewOpportunityService(th config.Thresholds) *OpportunityService {
	return &OpportunityService{th: th}
}

func firstCategories(d *Dataset, n int) []string {
	cats := d.Categories()
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// OfficialStoreScores counts "official" and "authorized" mentions in the
// product notes of the focal source versus its competitors.
func (s *OpportunityService) OfficialStoreScores(d *Dataset) ([]models.OfficialStoreScore, error) {
	cats := firstCategories(d, opportunityCategoryLimit)
	out := make([]models.OfficialStoreScore, 0, len(cats))

	for _, cat := range cats {
		var focal, competitors, best int
		topCompetitor := "N/A"

		for _, p := range d.CategoryDetails(cat) {
			text := strings.ToLower(p.Extra)
			n := strings.Count(text, "official") + strings.Count(text, "authorized")
			if d.MentionsFocal(p.Source) {
				focal += n
				continue
			}
			competitors += n
			if n > best {
				best, topCompetitor = n, p.Source
			}
		}

		gap := 0.0
		if competitors > 0 {
			gap = float64(competitors-focal) / float64(competitors) * 100
		}
		rec := "Maintain current status"
		if gap > officialGapThreshold {
			rec = "Establish official partnership"
		}

		out = append(out, models.OfficialStoreScore{
			Category:                   cat,
			FocalOfficialMentions:      focal,
			CompetitorOfficialMentions: competitors,
			GapScore:                   round(gap, 1),
			TopCompetitor:              topCompetitor,
			Recommendation:             rec,
		})
	}
	return out, nil
}

// ProductAvailability reports, per category, how many of the known products
// the focal source and its competitors list.
func (s *OpportunityService) ProductAvailability(d *Dataset) ([]models.AvailabilityRow, error) {
	if err := d.RequireCitations(); err != nil {
		return nil, err
	}

	cats := firstCategories(d, opportunityCategoryLimit)
	out := make([]models.AvailabilityRow, 0, len(cats))

	for _, cat := range cats {
		listed := make(map[string]struct{})
		focal := make(map[string]struct{})
		perSource := make(map[string]map[string]struct{})
		var sourceOrder []string

		for _, p := range d.CategoryDetails(cat) {
			listed[p.ProductName] = struct{}{}
			if d.IsFocal(p.Source) {
				focal[p.ProductName] = struct{}{}
			}
			if d.MentionsFocal(p.Source) {
				continue
			}
			if perSource[p.Source] == nil {
				perSource[p.Source] = make(map[string]struct{})
				sourceOrder = append(sourceOrder, p.Source)
			}
			perSource[p.Source][p.ProductName] = struct{}{}
		}

		missing := d.CategoryCitations(cat)
		total := len(listed) + len(missing)

		competitors := make([]models.SourceProducts, 0, availabilityCompetitors)
		for i, src := range sourceOrder {
			if i == availabilityCompetitors {
				break
			}
			competitors = append(competitors, models.SourceProducts{Source: src, Products: len(perSource[src])})
		}

		names := make([]string, 0, listLimit)
		for i, c := range missing {
			if i == listLimit {
				break
			}
			names = append(names, c.ProductName)
		}

		pct := 0.0
		if total > 0 {
			pct = float64(len(focal)) / float64(total) * 100
		}

		out = append(out, models.AvailabilityRow{
			Category:               cat,
			TotalProducts:          total,
			FocalAvailable:         len(focal),
			FocalPercentage:        round(pct, 1),
			CompetitorAvailability: competitors,
			MissingProducts:        names,
			RevenueOpportunity:     len(missing) * missingProductRevenue,
		})
	}
	return out, nil
}

// NicheOpportunities scores each focal-present category by citation
// pressure, rank, competitor strength and missing products.
func (s *OpportunityService) NicheOpportunities(d *Dataset) ([]models.NicheOpportunity, error) {
	if err := d.RequireCitations(); err != nil {
		return nil, err
	}

	out := make([]models.NicheOpportunity, 0)
	for _, p := range positions(d) {
		missing := len(d.CategoryCitations(p.category))
		rank := p.focal.Rank

		citationFreq := float64(missing * 5)
		if citationFreq > 100 {
			citationFreq = 100
		}

		var top3 []float64
		for _, r := range d.CategoryRows(p.category) {
			if r.Rank <= 3 {
				top3 = append(top3, r.NormalizedScore)
			}
		}
		strength := mean(top3) * 100

		revenue := float64(missing*10 + (5-rank)*10)
		if revenue > 100 {
			revenue = 100
		}

		score := (100-citationFreq)*0.2 +
			float64(100-rank*20)*0.3 +
			(100-strength)*0.3 +
			revenue*0.2

		out = append(out, models.NicheOpportunity{
			Category:           p.category,
			CitationFrequency:  round(citationFreq, 1),
			FocalCurrentRank:   rank,
			CompetitorStrength: round(strength, 1),
			ProductCountGap:    missing,
			RevenuePotential:   round(revenue, 1),
			OpportunityScore:   round(score, 1),
			QuickWin:           containsInt(s.th.QuickWinRanks, rank) && missing < nicheProductGapLimit,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].OpportunityScore > out[j].OpportunityScore })
	return out, nil
}

// Perception classifies an association strength.
func Perception(strength float64) string {
	switch {
	case strength >= 70:
		return StrengthStrong
	case strength >= 40:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}

// CategoryAssociations measures how strongly the most-ranked sources are
// tied to each of their categories.
func (s *OpportunityService) CategoryAssociations(d *Dataset) ([]models.CategoryAssociation, error) {
	type sourceRows struct {
		source string
		rows   []models.RankingRecord
	}
	ranked := make([]sourceRows, 0, len(d.Sources()))
	for _, src := range d.Sources() {
		ranked = append(ranked, sourceRows{source: src, rows: d.SourceRows(src)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return len(ranked[i].rows) > len(ranked[j].rows) })
	if len(ranked) > associationSourceLimit {
		ranked = ranked[:associationSourceLimit]
	}

	out := make([]models.CategoryAssociation, 0)
	for _, sr := range ranked {
		byCat := make(map[string][]models.RankingRecord)
		var cats []string
		for _, r := range sr.rows {
			if _, ok := byCat[r.Category]; !ok {
				cats = append(cats, r.Category)
			}
			byCat[r.Category] = append(byCat[r.Category], r)
		}
		if len(cats) > associationCategoryLimit {
			cats = cats[:associationCategoryLimit]
		}

		for _, cat := range cats {
			rows := byCat[cat]
			var wins, top3 int
			scores := make([]float64, 0, len(rows))
			for _, r := range rows {
				if r.Rank == 1 {
					wins++
				}
				if r.Rank <= 3 {
					top3++
				}
				scores = append(scores, r.NormalizedScore)
			}

			winRate := float64(wins) / float64(len(rows)) * 100
			top3Rate := float64(top3) / float64(len(rows)) * 100
			avgScore := mean(scores) * 100
			strength := winRate*0.4 + top3Rate*0.3 + avgScore*0.3

			out = append(out, models.CategoryAssociation{
				Marketplace:         sr.source,
				Category:            cat,
				WinRate:             round(winRate, 1),
				Top3Rate:            round(top3Rate, 1),
				AvgScore:            round(avgScore, 1),
				AssociationStrength: round(strength, 1),
				PerceptionLevel:     Perception(strength),
			})
		}
	}
	return out, nil
}

// IntentAlignments compares the focal source's category win rate with the
// most frequent category winner, once per shopper intent.
func (s *OpportunityService) IntentAlignments(d *Dataset) ([]models.IntentAlignment, error) {
	total := len(d.Categories())

	var focalWins int
	winCounts := make(map[string]int)
	var winners []string
	for _, r := range d.Ranking {
		if r.Rank != 1 {
			continue
		}
		if d.IsFocal(r.Source) {
			focalWins++
		}
		if winCounts[r.Source] == 0 {
			winners = append(winners, r.Source)
		}
		winCounts[r.Source]++
	}

	topCompetitor, competitorWins := "N/A", 0
	for _, src := range winners {
		if winCounts[src] > competitorWins {
			topCompetitor, competitorWins = src, winCounts[src]
		}
	}

	var focalRate, competitorRate float64
	if total > 0 {
		focalRate = float64(focalWins) / float64(total) * 100
		competitorRate = float64(competitorWins) / float64(total) * 100
	}

	strength, rec := StrengthWeak, fmt.Sprintf("Learn from %s's approach", topCompetitor)
	switch {
	case focalRate >= 60:
		strength, rec = StrengthStrong, "Maintain leadership"
	case focalRate >= 40:
		strength, rec = StrengthMedium, "Strengthen positioning"
	}

	out := make([]models.IntentAlignment, 0, len(intents))
	for _, intent := range intents {
		out = append(out, models.IntentAlignment{
			Intent:            intent,
			FocalWinRate:      round(focalRate, 1),
			TopCompetitor:     topCompetitor,
			CompetitorWinRate: round(competitorRate, 1),
			MatchStrength:     strength,
			Recommendation:    rec,
		})
	}
	return out, nil
}
