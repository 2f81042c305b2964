package services

import (
	"regexp"
	"sort"
	"strings"

	"aeo-analytics/models"
)

var (
	// domainRegexp captures the host of every http(s) URL.
	domainRegexp = regexp.MustCompile(`https?://([^\s/\]?#]+)`)

	positiveKeywords = []string{"genuine", "authentic", "verified", "trusted", "excellent", "fast delivery", "quality"}
	negativeKeywords = []string{"fake", "counterfeit", "delayed", "poor quality", "scam", "fraud"}
)

const (
	defaultCitationTopN  = 50
	trustSourceLimit     = 15
	trustKeywordLimit    = 5
	visibilityTopSources = 20
	visibilityBreakdown  = 15
	authoritySources     = 10
	authorityTargets     = 10
	authorityFlowTargets = 5
)

// CitationAnalyzer mines citation URLs and free-text product notes.
type CitationAnalyzer struct{}

func NewCitationAnalyzer() *CitationAnalyzer {
	return &CitationAnalyzer{}
}

// ExtractDomains returns the host of every URL in text, in order, with a
// leading "www." removed. Duplicates are kept.
func ExtractDomains(text string) []string {
	matches := domainRegexp.FindAllStringSubmatch(text, -1)
	domains := make([]string, 0, len(matches))
	for _, m := range matches {
		domains = append(domains, strings.TrimPrefix(m[1], "www."))
	}
	return domains
}

// domainCount is a frequency table that remembers first-seen order.
type domainCount struct {
	order  []string
	counts map[string]int
}

func countDomains(d *Dataset) *domainCount {
	dc := &domainCount{counts: make(map[string]int)}
	for _, c := range d.Citations {
		for _, domain := range ExtractDomains(c.Citations) {
			if _, ok := dc.counts[domain]; !ok {
				dc.order = append(dc.order, domain)
			}
			dc.counts[domain]++
		}
	}
	return dc
}

// mostCommon returns up to n domains by count, ties in first-seen order.
func (dc *domainCount) mostCommon(n int) []models.DomainCount {
	out := make([]models.DomainCount, 0, len(dc.order))
	for _, domain := range dc.order {
		out = append(out, models.DomainCount{Source: domain, Count: dc.counts[domain]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// CitationSources ranks cited domains by impact. topN <= 0 means the default of 50.
func (a *CitationAnalyzer) CitationSources(d *Dataset, topN int) ([]models.CitationSource, error) {
	if err := d.RequireCitations(); err != nil {
		return nil, err
	}
	if topN <= 0 {
		topN = defaultCitationTopN
	}

	type agg struct {
		count      int
		categories map[string]struct{}
	}
	byDomain := make(map[string]*agg)
	var order []string

	for _, c := range d.Citations {
		for _, domain := range ExtractDomains(c.Citations) {
			g, ok := byDomain[domain]
			if !ok {
				g = &agg{categories: make(map[string]struct{})}
				byDomain[domain] = g
				order = append(order, domain)
			}
			g.count++
			g.categories[c.Category] = struct{}{}
		}
	}

	out := make([]models.CitationSource, 0, len(order))
	for _, domain := range order {
		g := byDomain[domain]
		cats := make([]string, 0, len(g.categories))
		for cat := range g.categories {
			cats = append(cats, cat)
		}
		sort.Strings(cats)

		impact := float64(g.count)*0.7 + float64(len(cats))*0.3
		out = append(out, models.CitationSource{
			Domain:      domain,
			Frequency:   g.count,
			Categories:  cats,
			ImpactScore: round(impact, 2),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ImpactScore > out[j].ImpactScore })
	if len(out) > topN {
		out = out[:topN]
	}
	return out, nil
}

// TrustScore is the positive share of keyword mentions, or 50 when there are none.
func TrustScore(positive, negative int) float64 {
	total := positive + negative
	if total == 0 {
		return 50.0
	}
	return float64(positive) / float64(total) * 100
}

func keywordHits(text string, keywords []string, sentiment string) ([]models.TrustKeyword, int) {
	found := make([]models.TrustKeyword, 0)
	var total int
	for _, kw := range keywords {
		if n := strings.Count(text, kw); n > 0 {
			found = append(found, models.TrustKeyword{Keyword: kw, Count: n, Sentiment: sentiment})
			total += n
		}
	}
	return found, total
}

// TrustSignals scores each source's product notes by trust keywords,
// highest score first.
func (a *CitationAnalyzer) TrustSignals(d *Dataset) ([]models.TrustSignal, error) {
	sources := d.DetailSources()
	if len(sources) > trustSourceLimit {
		sources = sources[:trustSourceLimit]
	}

	out := make([]models.TrustSignal, 0, len(sources))
	for _, src := range sources {
		rows := d.SourceDetails(src)
		parts := make([]string, len(rows))
		for i, r := range rows {
			parts[i] = strings.ToLower(r.Extra)
		}
		text := strings.Join(parts, " ")

		pos, posTotal := keywordHits(text, positiveKeywords, "positive")
		neg, negTotal := keywordHits(text, negativeKeywords, "negative")
		if len(pos) > trustKeywordLimit {
			pos = pos[:trustKeywordLimit]
		}
		if len(neg) > trustKeywordLimit {
			neg = neg[:trustKeywordLimit]
		}

		out = append(out, models.TrustSignal{
			Marketplace:     src,
			PositiveSignals: pos,
			NegativeSignals: neg,
			TrustScore:      round(TrustScore(posTotal, negTotal), 1),
			TotalMentions:   posTotal + negTotal,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TrustScore > out[j].TrustScore })
	return out, nil
}

// CitationVisibility splits cited domains into those naming the focal
// source and all others.
func (a *CitationAnalyzer) CitationVisibility(d *Dataset) (*models.CitationVisibility, error) {
	if err := d.RequireCitations(); err != nil {
		return nil, err
	}

	dc := countDomains(d)
	var focal, competitors int
	for _, domain := range dc.order {
		if d.MentionsFocal(domain) {
			focal += dc.counts[domain]
		} else {
			competitors += dc.counts[domain]
		}
	}
	total := focal + competitors

	v := &models.CitationVisibility{
		FocalMentions:      focal,
		CompetitorMentions: competitors,
		TotalCitations:     total,
		TopSources:         dc.mostCommon(visibilityTopSources),
		SourceBreakdown:    make(map[string]models.SourceSplit),
	}
	if total > 0 {
		v.FocalPercentage = float64(focal) / float64(total) * 100
		v.CompetitorPercentage = float64(competitors) / float64(total) * 100
	}
	if focal > 0 {
		v.VisibilityRatio = float64(competitors) / float64(focal)
	}

	for _, dcount := range dc.mostCommon(visibilityBreakdown) {
		split := models.SourceSplit{Competitors: dcount.Count}
		if d.MentionsFocal(dcount.Source) {
			split = models.SourceSplit{Focal: dcount.Count}
		}
		v.SourceBreakdown[dcount.Source] = split
	}
	return v, nil
}

// SourceAuthorityMap distributes the most cited domains' citations over the
// busiest marketplaces in proportion to their product-detail row counts.
func (a *CitationAnalyzer) SourceAuthorityMap(d *Dataset) (*models.SourceAuthorityMap, error) {
	if err := d.RequireCitations(); err != nil {
		return nil, err
	}

	domains := countDomains(d).mostCommon(authoritySources)

	marketplaces := make([]models.DomainCount, 0, len(d.DetailSources()))
	var totalRows int
	for _, src := range d.DetailSources() {
		n := len(d.SourceDetails(src))
		marketplaces = append(marketplaces, models.DomainCount{Source: src, Count: n})
		totalRows += n
	}
	sort.SliceStable(marketplaces, func(i, j int) bool { return marketplaces[i].Count > marketplaces[j].Count })

	m := &models.SourceAuthorityMap{
		Nodes:          make([]string, 0, len(domains)+authorityTargets),
		Links:          make([]models.AuthorityLink, 0),
		GatewaySources: make([]models.GatewaySource, 0, len(domains)),
	}
	for _, dom := range domains {
		m.Nodes = append(m.Nodes, dom.Source)
	}
	for i, mp := range marketplaces {
		if i == authorityTargets {
			break
		}
		m.Nodes = append(m.Nodes, mp.Source)
	}

	for _, dom := range domains {
		for i, mp := range marketplaces {
			if i == authorityFlowTargets {
				break
			}
			flow := int(float64(dom.Count) * (float64(mp.Count) / float64(totalRows)))
			if flow > 0 {
				m.Links = append(m.Links, models.AuthorityLink{Source: dom.Source, Target: mp.Source, Value: flow})
			}
		}
	}

	if len(domains) > 0 {
		top := float64(domains[0].Count)
		for _, dom := range domains {
			m.GatewaySources = append(m.GatewaySources, models.GatewaySource{
				Source:         dom.Source,
				TotalCitations: dom.Count,
				InfluenceScore: round(float64(dom.Count)/top*100, 1),
			})
		}
	}
	m.TotalFlows = len(m.Links)
	return m, nil
}
