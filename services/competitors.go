package services

import (
	"fmt"
	"sort"
	"strings"

	"aeo-analytics/config"
	"aeo-analytics/models"
)

// Specialty patterns.
const (
	PatternImported     = "Imported/niche"
	PatternMainstream   = "Indian mainstream"
	PatternInstallation = "Installation-heavy"
	PatternGeneral      = "General retail"
)

// specialtyRules are checked in order; the first rule with a keyword in the
// dominated-category text wins.
var specialtyRules = []struct {
	keywords []string
	pattern  string
}{
	{[]string{"imported", "specialty"}, PatternImported},
	{[]string{"indian", "local"}, PatternMainstream},
	{[]string{"installation", "service"}, PatternInstallation},
}

const (
	specialtySourceLimit = 15
	listLimit            = 10
)

// CompetitorAnalyzer aggregates the ranking table per competing source.
type CompetitorAnalyzer struct {
	th config.Thresholds
}

func NewCompetitorAnalyzer(th config.Thresholds) *CompetitorAnalyzer {
	return &CompetitorAnalyzer{th: th}
}

// ThreatLevel classifies an average gap percentage.
func (a *CompetitorAnalyzer) ThreatLevel(avgGap float64) string {
	switch {
	case avgGap >= a.th.ThreatCritical:
		return models.LevelCritical
	case avgGap >= a.th.ThreatHigh:
		return models.LevelHigh
	case avgGap >= a.th.ThreatMedium:
		return models.LevelMedium
	default:
		return models.LevelLow
	}
}

// ThreatAnalysis groups the categories where a competitor leads and the
// focal source is present, by leading competitor.
func (a *CompetitorAnalyzer) ThreatAnalysis(d *Dataset) ([]models.CompetitorThreat, error) {
	type wins struct {
		categories []string
		gaps       []float64
	}
	byCompetitor := make(map[string]*wins)
	var order []string

	for _, p := range positions(d) {
		if d.IsFocal(p.winner.Source) {
			continue
		}
		w, ok := byCompetitor[p.winner.Source]
		if !ok {
			w = &wins{}
			byCompetitor[p.winner.Source] = w
			order = append(order, p.winner.Source)
		}
		w.categories = append(w.categories, p.category)
		w.gaps = append(w.gaps, p.gap)
	}

	threats := make([]models.CompetitorThreat, 0, len(order))
	for _, name := range order {
		w := byCompetitor[name]
		avg := mean(w.gaps)
		threats = append(threats, models.CompetitorThreat{
			CompetitorName:       name,
			CategoriesDominated:  len(w.categories),
			AverageGapPercentage: round(avg, 2),
			TotalWins:            len(w.categories),
			ThreatLevel:          a.ThreatLevel(avg),
			DominatedCategories:  w.categories,
		})
	}

	sort.SliceStable(threats, func(i, j int) bool {
		if threats[i].CategoriesDominated != threats[j].CategoriesDominated {
			return threats[i].CategoriesDominated > threats[j].CategoriesDominated
		}
		return threats[i].AverageGapPercentage > threats[j].AverageGapPercentage
	})
	return threats, nil
}

// SpecialtyPattern matches dominated category names against the ordered
// keyword rules.
func SpecialtyPattern(categories []string) string {
	text := strings.ToLower(strings.Join(categories, " "))
	for _, rule := range specialtyRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.pattern
			}
		}
	}
	return PatternGeneral
}

func (a *CompetitorAnalyzer) specialty(d *Dataset, name string) models.CompetitorSpecialty {
	var dominated []string
	var gaps []float64
	for _, r := range d.SourceRows(name) {
		if r.Rank != 1 {
			continue
		}
		dominated = append(dominated, r.Category)
		if focal, ok := d.FocalRow(r.Category); ok {
			gaps = append(gaps, (r.NormalizedScore-focal.NormalizedScore)*100)
		}
	}

	avg := mean(gaps)
	pattern := SpecialtyPattern(dominated)
	action := "Monitor and maintain"
	if avg > a.th.SpecialtyExpandGap {
		action = fmt.Sprintf("Expand catalog in %s categories", pattern)
	}

	shown := dominated
	if len(shown) > listLimit {
		shown = shown[:listLimit]
	}
	if shown == nil {
		shown = []string{}
	}

	return models.CompetitorSpecialty{
		CompetitorName:       name,
		DominatedCategories:  shown,
		SpecialtyPattern:     pattern,
		AvgGapToFocal:        round(avg, 1),
		TotalWins:            len(dominated),
		ActionRecommendation: action,
	}
}

// CompetitorSpecialty profiles one competitor's rank-1 categories.
func (a *CompetitorAnalyzer) CompetitorSpecialty(d *Dataset, name string) (*models.CompetitorSpecialty, error) {
	name = normaliseSource(name)
	if !d.HasSource(name) {
		return nil, fmt.Errorf("%w: %q", ErrCompetitorNotFound, name)
	}
	s := a.specialty(d, name)
	return &s, nil
}

// CompetitorSpecialties profiles the first sources of the ranking table
// that lead at least one category, most wins first. Sources whose name
// contains the focal name are skipped.
func (a *CompetitorAnalyzer) CompetitorSpecialties(d *Dataset) ([]models.CompetitorSpecialty, error) {
	sources := d.Sources()
	if len(sources) > specialtySourceLimit {
		sources = sources[:specialtySourceLimit]
	}

	out := make([]models.CompetitorSpecialty, 0, len(sources))
	for _, name := range sources {
		if d.MentionsFocal(name) {
			continue
		}
		s := a.specialty(d, name)
		if s.TotalWins == 0 {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalWins > out[j].TotalWins })
	return out, nil
}

// CompetitorDetail compares one competitor with the focal source in every
// category where both are ranked.
func (a *CompetitorAnalyzer) CompetitorDetail(d *Dataset, name string) (*models.CompetitorDetail, error) {
	name = normaliseSource(name)
	if !d.HasSource(name) {
		return nil, fmt.Errorf("%w: %q", ErrCompetitorNotFound, name)
	}

	categories := make([]models.CompetitorCategory, 0)
	for _, cat := range d.Categories() {
		comp, ok := d.SourceRow(cat, name)
		if !ok {
			continue
		}
		focal, ok := d.FocalRow(cat)
		if !ok {
			continue
		}
		categories = append(categories, models.CompetitorCategory{
			Category:   cat,
			Rank:       comp.Rank,
			Score:      round(comp.NormalizedScore, 4),
			FocalRank:  focal.Rank,
			FocalScore: round(focal.NormalizedScore, 4),
			Gap:        round((comp.NormalizedScore-focal.NormalizedScore)*100, 2),
		})
	}
	sort.SliceStable(categories, func(i, j int) bool { return categories[i].Rank < categories[j].Rank })

	var dominated int
	gaps := make([]float64, 0, len(categories))
	strengths := make([]string, 0)
	for _, c := range categories {
		if c.Rank == 1 {
			dominated++
		}
		gaps = append(gaps, c.Gap)
		if c.Gap > a.th.StrengthGap && len(strengths) < listLimit {
			strengths = append(strengths, c.Category)
		}
	}

	return &models.CompetitorDetail{
		CompetitorName:           name,
		TotalCategoriesDominated: dominated,
		AverageGap:               round(mean(gaps), 2),
		Categories:               categories,
		StrengthAreas:            strengths,
	}, nil
}
