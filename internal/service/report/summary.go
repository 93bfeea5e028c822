package report

import (
	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

const topN = 5

// PlatformSummary aggregates social media metrics.
type PlatformSummary struct {
	Entries        int      `json:"entries"`
	Followers      int64    `json:"followers"`
	Engagement     int64    `json:"engagement"`
	Reach          int64    `json:"reach"`
	Impressions    int64    `json:"impressions"`
	Clicks         int64    `json:"clicks"`
	Conversions    int64    `json:"conversions"`
	EngagementRate Ratio    `json:"engagementRate"`
	ConversionRate Ratio    `json:"conversionRate"`
	ClickThrough   Ratio    `json:"clickThroughRate"`
	ByPlatform     []Ranked `json:"byPlatform"`
}

// SummarizePlatforms totals platform metrics and ranks platforms by followers.
func SummarizePlatforms(records []domain.PlatformData) PlatformSummary {
	s := PlatformSummary{Entries: len(records)}
	followers := make(map[string]int64)
	for _, r := range records {
		m := r.Metrics
		s.Followers += m.Followers
		s.Engagement += m.Engagement
		s.Reach += m.Reach
		s.Impressions += m.Impressions
		s.Clicks += m.Clicks
		s.Conversions += m.Conversions
		followers[r.Platform] += m.Followers
	}
	s.EngagementRate = Percent(float64(s.Engagement), float64(s.Reach))
	s.ConversionRate = Percent(float64(s.Conversions), float64(s.Clicks))
	s.ClickThrough = Percent(float64(s.Clicks), float64(s.Impressions))
	s.ByPlatform = rank(followers, 0)
	return s
}

// WebsiteSummary aggregates website analytics.
type WebsiteSummary struct {
	Entries            int      `json:"entries"`
	Visitors           int64    `json:"visitors"`
	PageViews          int64    `json:"pageViews"`
	Conversions        int64    `json:"conversions"`
	AvgBounceRate      float64  `json:"avgBounceRate"`
	AvgSessionDuration float64  `json:"avgSessionDuration"`
	ConversionRate     Ratio    `json:"conversionRate"`
	PagesPerVisit      float64  `json:"pagesPerVisit"`
	TopPages           []Ranked `json:"topPages"`
}

// SummarizeWebsite totals website analytics. Bounce rate and session duration
// are averaged over entries; top pages are ranked by how often they appear.
func SummarizeWebsite(records []domain.WebsiteData) WebsiteSummary {
	s := WebsiteSummary{Entries: len(records)}
	var bounce, duration float64
	pages := make(map[string]int64)
	for _, r := range records {
		s.Visitors += r.Visitors
		s.PageViews += r.PageViews
		s.Conversions += r.Conversions
		bounce += r.BounceRate
		duration += r.AvgSessionDuration
		for _, p := range r.TopPages {
			pages[p]++
		}
	}
	s.AvgBounceRate = Average(bounce, len(records))
	s.AvgSessionDuration = Average(duration, len(records))
	s.ConversionRate = Percent(float64(s.Conversions), float64(s.Visitors))
	if s.Visitors > 0 {
		s.PagesPerVisit = float64(s.PageViews) / float64(s.Visitors)
	}
	s.TopPages = rank(pages, topN)
	return s
}

// SentimentShare is the count and share of one sentiment.
type SentimentShare struct {
	Sentiment domain.Sentiment `json:"sentiment"`
	Count     int              `json:"count"`
	Share     Ratio            `json:"share"`
}

// NewsSummary aggregates press coverage.
type NewsSummary struct {
	Entries    int              `json:"entries"`
	Mentions   int64            `json:"mentions"`
	Reach      int64            `json:"reach"`
	Sentiment  []SentimentShare `json:"sentiment"`
	Dominant   domain.Sentiment `json:"dominant,omitempty"`
	TopSources []Ranked         `json:"topSources"`
}

// SummarizeNews totals mentions and reach and breaks entries down by
// sentiment. Dominant is empty when there are no entries; ties favour the
// earlier sentiment in display order.
func SummarizeNews(records []domain.NewsData) NewsSummary {
	s := NewsSummary{Entries: len(records)}
	counts := make(map[domain.Sentiment]int, len(domain.Sentiments))
	sources := make(map[string]int64)
	for _, r := range records {
		s.Mentions += r.Mentions
		s.Reach += r.Reach
		counts[r.Sentiment]++
		for _, src := range r.TopSources {
			sources[src]++
		}
	}

	best := 0
	s.Sentiment = make([]SentimentShare, 0, len(domain.Sentiments))
	for _, sent := range domain.Sentiments {
		n := counts[sent]
		s.Sentiment = append(s.Sentiment, SentimentShare{
			Sentiment: sent,
			Count:     n,
			Share:     Percent(float64(n), float64(len(records))),
		})
		if n > best {
			best = n
			s.Dominant = sent
		}
	}
	s.TopSources = rank(sources, topN)
	return s
}

// RPASummary aggregates mail distribution statistics.
type RPASummary struct {
	Entries          int      `json:"entries"`
	TotalIncoming    int64    `json:"totalIncoming"`
	TotalDistributed int64    `json:"totalDistributed"`
	DistributionRate Ratio    `json:"distributionRate"`
	TopUnits         []Ranked `json:"topUnits"`
}

// SummarizeRPA totals mail counts. Units are scored 3/2/1 by their rank in
// each entry.
func SummarizeRPA(records []domain.RPAData) RPASummary {
	s := RPASummary{Entries: len(records)}
	units := make(map[string]int64)
	for _, r := range records {
		s.TotalIncoming += r.TotalIncomingMails
		s.TotalDistributed += r.TotalDistributed
		for i, name := range [...]string{r.TopRedirectedUnits.Unit1, r.TopRedirectedUnits.Unit2, r.TopRedirectedUnits.Unit3} {
			if name != "" {
				units[name] += int64(3 - i)
			}
		}
	}
	s.DistributionRate = Percent(float64(s.TotalDistributed), float64(s.TotalIncoming))
	s.TopUnits = rank(units, topN)
	return s
}
