package taskagent

import (
	"strings"

	"agencydash/backend/internal/domain"
)

type taskTemplate struct {
	Text     string
	Priority string
}

// templateRule maps a keyword set to a fixed task template. Rules are scanned
// in order and the first rule with any matching keyword wins; this is a
// deterministic dictionary lookup, not a language model.
type templateRule struct {
	Keywords []string
	Tasks    []taskTemplate
}

var templateRules = []templateRule{
	{
		Keywords: []string{"marketing", "campaign", "launch", "promotion", "brand awareness"},
		Tasks: []taskTemplate{
			{Text: "Define target audience and buyer personas", Priority: domain.PriorityHigh},
			{Text: "Set campaign budget and key performance targets", Priority: domain.PriorityHigh},
			{Text: "Draft messaging and creative assets", Priority: domain.PriorityMedium},
			{Text: "Select channels and schedule placements", Priority: domain.PriorityMedium},
			{Text: "Set up conversion tracking and analytics", Priority: domain.PriorityMedium},
			{Text: "Launch the campaign and monitor early results", Priority: domain.PriorityLow},
			{Text: "Review performance and iterate on creatives", Priority: domain.PriorityLow},
		},
	},
	{
		Keywords: []string{"social", "instagram", "facebook", "tiktok", "linkedin", "content calendar"},
		Tasks: []taskTemplate{
			{Text: "Audit existing social profiles and engagement", Priority: domain.PriorityHigh},
			{Text: "Define content pillars and posting cadence", Priority: domain.PriorityHigh},
			{Text: "Build a four-week content calendar", Priority: domain.PriorityMedium},
			{Text: "Produce and schedule the first batch of posts", Priority: domain.PriorityMedium},
			{Text: "Engage with comments and mentions daily", Priority: domain.PriorityLow},
			{Text: "Report on reach and engagement after two weeks", Priority: domain.PriorityLow},
		},
	},
	{
		Keywords: []string{"seo", "search ranking", "keyword", "organic traffic", "backlink"},
		Tasks: []taskTemplate{
			{Text: "Run a technical SEO audit of the site", Priority: domain.PriorityHigh},
			{Text: "Research target keywords and search intent", Priority: domain.PriorityHigh},
			{Text: "Optimize title tags, metas and headings", Priority: domain.PriorityMedium},
			{Text: "Plan content targeting priority keywords", Priority: domain.PriorityMedium},
			{Text: "Build internal links and fix broken ones", Priority: domain.PriorityLow},
			{Text: "Track ranking positions weekly", Priority: domain.PriorityLow},
		},
	},
	{
		Keywords: []string{"website", "landing page", "redesign", "web page", "funnel"},
		Tasks: []taskTemplate{
			{Text: "Define the page goal and primary call to action", Priority: domain.PriorityHigh},
			{Text: "Write the headline and supporting copy", Priority: domain.PriorityHigh},
			{Text: "Design the layout and hero section", Priority: domain.PriorityMedium},
			{Text: "Wire up the lead capture form", Priority: domain.PriorityMedium},
			{Text: "Set up analytics and A/B test variants", Priority: domain.PriorityLow},
			{Text: "Publish and monitor conversion rate", Priority: domain.PriorityLow},
		},
	},
	{
		Keywords: []string{"email", "newsletter", "drip", "mailing list"},
		Tasks: []taskTemplate{
			{Text: "Segment the mailing list by audience", Priority: domain.PriorityHigh},
			{Text: "Write the subject line and email copy", Priority: domain.PriorityHigh},
			{Text: "Design the email template", Priority: domain.PriorityMedium},
			{Text: "Set up the send schedule and automation", Priority: domain.PriorityMedium},
			{Text: "Send a test and verify rendering", Priority: domain.PriorityLow},
			{Text: "Review open and click rates after sending", Priority: domain.PriorityLow},
		},
	},
}

// genericTemplate is the fallback when no keyword set matches.
var genericTemplate = []taskTemplate{
	{Text: "Clarify the goal and define what success looks like", Priority: domain.PriorityHigh},
	{Text: "Break the goal into measurable milestones", Priority: domain.PriorityHigh},
	{Text: "Identify required resources and owners", Priority: domain.PriorityMedium},
	{Text: "Draft a timeline with checkpoints", Priority: domain.PriorityMedium},
	{Text: "Execute the first milestone", Priority: domain.PriorityLow},
	{Text: "Review progress and adjust the plan", Priority: domain.PriorityLow},
}

// GenerateTasksFromGoal expands free-text goal input into an ordered task list
// using the first matching keyword rule, falling back to the generic template.
// Returned tasks carry no goal id; callers attach one before persisting.
func GenerateTasksFromGoal(text string) []domain.Task {
	lowered := strings.ToLower(text)

	template := genericTemplate
	for _, rule := range templateRules {
		matched := false
		for _, keyword := range rule.Keywords {
			if strings.Contains(lowered, keyword) {
				matched = true
				break
			}
		}
		if matched {
			template = rule.Tasks
			break
		}
	}

	tasks := make([]domain.Task, 0, len(template))
	for i, item := range template {
		tasks = append(tasks, domain.Task{
			Text:     item.Text,
			Priority: item.Priority,
			Order:    i,
		})
	}
	return tasks
}
