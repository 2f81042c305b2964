package services

import (
	"fmt"
	"io"
	"strings"

	"aeo-analytics/models"
)

// ReportPrinter renders an InsightBundle as a terminal summary.
type ReportPrinter struct {
	w     io.Writer
	focal string
	color bool
}

func NewReportPrinter(w io.Writer, focal string, color bool) *ReportPrinter {
	return &ReportPrinter{w: w, focal: focal, color: color}
}

func (p *ReportPrinter) style(code, s string) string {
	if !p.color {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

func (p *ReportPrinter) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *ReportPrinter) section(title string) {
	p.printf("%s\n", p.style("1;33", "  "+title))
	p.printf("  %s\n", strings.Repeat("─", 54))
}

func (p *ReportPrinter) Print(b *models.InsightBundle) {
	sep := strings.Repeat("═", 54)

	p.printf("\n%s\n", p.style("1;35", sep))
	p.printf("%s\n", p.style("1;35", "  MARKETPLACE RANKING INSIGHTS: "+strings.ToUpper(p.focal)))
	p.printf("%s\n\n", p.style("1;35", sep))

	if o := b.Overview; o != nil {
		p.section("Overview")
		p.printf("  Categories             : %s\n", p.style("1", fmt.Sprint(o.TotalCategories)))
		p.printf("  Categories with %-7s: %s\n", truncate(p.focal, 7), p.style("1", fmt.Sprint(o.CategoriesWithFocal)))
		p.printf("  Rank 1 / not rank 1    : %d / %d\n", o.CategoriesRank1, o.CategoriesNotRank1)
		p.printf("  Visibility score       : %s\n", p.style("1;32", fmt.Sprintf("%.2f", o.VisibilityScore)))
		p.printf("  Leadership score       : %s\n", p.style("1;32", fmt.Sprintf("%.2f", o.LeadershipScore)))
		p.printf("  Average rank           : %.2f\n", o.AverageRank)
		p.printf("  Opportunity gap        : %.2f\n\n", o.OpportunityGap)
	}

	p.section("Top Competitor Threats")
	if len(b.CompetitorThreats) == 0 {
		p.printf("  No competitor leads a category\n")
	}
	for i, t := range b.CompetitorThreats {
		if i == 5 {
			break
		}
		p.printf("  %s %-28s %3d wins  gap %6.2f%%  %s\n",
			p.style("1", fmt.Sprintf("%d.", i+1)), truncate(t.CompetitorName, 28),
			t.TotalWins, t.AverageGapPercentage, p.threatStyle(t.ThreatLevel))
	}
	p.printf("\n")

	if pb := b.PriorityCategories; pb != nil {
		p.section("Priority Categories")
		p.printf("  Critical : %d\n", len(pb.Critical))
		p.printf("  Medium   : %d\n", len(pb.Medium))
		p.printf("  Low      : %d\n", len(pb.Low))
		for i, c := range pb.Critical {
			if i == 5 {
				break
			}
			p.printf("    %-30s rank %-3d gap %6.2f%% vs %s\n",
				truncate(c.Category, 30), c.CurrentRank, c.GapPercentage, c.Competitor)
		}
		p.printf("\n")
	}

	p.section("Quick Wins")
	if len(b.QuickWins) == 0 {
		p.printf("  No quick wins found\n")
	}
	for _, q := range b.QuickWins {
		p.printf("  %-30s rank %-3d gap %6.2f%%  effort %s\n",
			truncate(q.Category, 30), q.CurrentRank, q.GapPercentage, q.EstimatedEffort)
	}
	p.printf("\n")

	p.section("Category Heatmap")
	counts := make(map[string]int)
	for _, row := range b.CategoryHeatmap {
		counts[row.StatusColor]++
	}
	for _, color := range []string{ColorGreen, ColorYellow, ColorOrange, ColorRed} {
		p.printf("  %-8s %s (%d)\n", color, strings.Repeat("█", counts[color]), counts[color])
	}

	if nr := b.NoRankAnalysis; nr != nil {
		p.printf("\n")
		p.section("Products Not Listed")
		p.printf("  Missing products   : %d across %d categories\n", nr.TotalMissingProducts, nr.CategoriesAffected)
		p.printf("  With citations     : %d\n", nr.ProductsWithCitations)
	}

	if len(b.CitationSources) > 0 {
		p.printf("\n")
		p.section("Top Cited Domains")
		for i, c := range b.CitationSources {
			if i == 5 {
				break
			}
			p.printf("  %-30s %4d citations  impact %.2f\n", truncate(c.Domain, 30), c.Frequency, c.ImpactScore)
		}
	}

	p.printf("\n%s\n", p.style("1;35", "  snapshot "+b.SnapshotID))
	p.printf("%s\n\n", p.style("1;35", sep))
}

func (p *ReportPrinter) threatStyle(level string) string {
	switch level {
	case models.LevelCritical:
		return p.style("1;31", level)
	case models.LevelHigh:
		return p.style("31", level)
	case models.LevelMedium:
		return p.style("33", level)
	default:
		return p.style("32", level)
	}
}
