package models

// ResourceLinks groups external study links resolved for a topic, keyed by
// category name ("Website Resources", "YouTube Videos", "Concept Guide", ...).
// Values hold one or more URLs.
type ResourceLinks map[string][]string

// Recommendation is one ranked intervention derived from a gap finding.
type Recommendation struct {
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Priority       Severity      `json:"priority"`
	PracticeType   string        `json:"practice_type"`
	TargetTopics   []string      `json:"target_topics"`
	Duration       string        `json:"duration"`
	ExpectedImpact float64       `json:"expected_impact"`
	Steps          []string      `json:"steps"`
	Resources      ResourceLinks `json:"resources,omitempty"`
}

// Trend labels for progress direction, shared by the metrics utilities and
// the recommendation templates.
const (
	TrendImproving        = "improving"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// EngagementLevel labels attempt frequency over the observed time span.
const (
	EngagementHigh   = "high"
	EngagementMedium = "medium"
	EngagementLow    = "low"
)
