// Package autopilot derives dashboard views from campaign and post data:
// posting-window ordering for scheduled posts, CTR-based health grading for
// ad campaigns, and the periodic summary generator.
package autopilot

import (
	"sort"
	"strings"

	"agencydash/backend/internal/domain"
)

// unmatchedDayRank sorts posts with no configured window after everything else.
const unmatchedDayRank = 999

var dayRank = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// SortPostsByPostingWindows orders posts by the first configured window whose
// platform matches: day-of-week index first (Monday=0..Sunday=6), then the
// window's "HH:MM" time as a string compare. Posts without a matching window
// sort last. The sort is stable so unmatched posts keep their input order.
func SortPostsByPostingWindows(posts []domain.SocialMediaPost, windows []domain.PostingWindow) []domain.SocialMediaPost {
	type ranked struct {
		day  int
		time string
	}

	rankFor := func(platform string) ranked {
		for _, window := range windows {
			if !strings.EqualFold(window.Platform, platform) {
				continue
			}
			day, ok := dayRank[strings.ToLower(window.Day)]
			if !ok {
				day = unmatchedDayRank
			}
			return ranked{day: day, time: window.Time}
		}
		return ranked{day: unmatchedDayRank}
	}

	sorted := make([]domain.SocialMediaPost, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := rankFor(sorted[i].Platform), rankFor(sorted[j].Platform)
		if a.day != b.day {
			return a.day < b.day
		}
		return a.time < b.time
	})
	return sorted
}

// CTR returns clicks/impressions as a percentage, 0 when there are no
// impressions.
func CTR(impressions int64, clicks int64) float64 {
	if impressions == 0 {
		return 0
	}
	return float64(clicks) / float64(impressions) * 100
}

// HealthStatus grades a campaign against the thresholds: Healthy when both
// CTR and conversions meet their minimums, At Risk when either reaches half
// its threshold, Underperforming otherwise.
func HealthStatus(campaign domain.AdCampaign, thresholds domain.HealthThresholds) string {
	ctr := CTR(campaign.Impressions, campaign.Clicks)
	if ctr >= thresholds.MinCTR && campaign.Conversions >= thresholds.MinConversions {
		return domain.HealthHealthy
	}
	if ctr >= thresholds.MinCTR/2 || float64(campaign.Conversions) >= float64(thresholds.MinConversions)/2 {
		return domain.HealthAtRisk
	}
	return domain.HealthUnderperforming
}

type CampaignHealth struct {
	Campaign domain.AdCampaign `json:"campaign"`
	CTR      float64           `json:"ctr"`
	Status   string            `json:"status"`
}

type Summary struct {
	GeneratedAt     int64                    `json:"generated_at"`
	Campaigns       []CampaignHealth         `json:"campaigns"`
	Healthy         int                      `json:"healthy"`
	AtRisk          int                      `json:"at_risk"`
	Underperforming int                      `json:"underperforming"`
	SortedPosts     []domain.SocialMediaPost `json:"sorted_posts"`
}

// BuildSummary grades every campaign and orders scheduled posts by the
// configured posting windows.
func BuildSummary(campaigns []domain.AdCampaign, posts []domain.SocialMediaPost, cfg domain.AutopilotConfig, generatedAt int64) Summary {
	summary := Summary{
		GeneratedAt: generatedAt,
		Campaigns:   make([]CampaignHealth, 0, len(campaigns)),
		SortedPosts: SortPostsByPostingWindows(posts, cfg.PostingWindows),
	}
	for _, campaign := range campaigns {
		status := HealthStatus(campaign, cfg.Thresholds)
		summary.Campaigns = append(summary.Campaigns, CampaignHealth{
			Campaign: campaign,
			CTR:      CTR(campaign.Impressions, campaign.Clicks),
			Status:   status,
		})
		switch status {
		case domain.HealthHealthy:
			summary.Healthy++
		case domain.HealthAtRisk:
			summary.AtRisk++
		default:
			summary.Underperforming++
		}
	}
	return summary
}
