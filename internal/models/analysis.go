package models

// Severity is the ordinal risk level attached to a gap finding.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank maps severity to a sortable weight (high=3, medium=2, low=1).
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// GapKind discriminates the three finding variants.
type GapKind string

const (
	GapKindConcept    GapKind = "concept"
	GapKindConfidence GapKind = "confidence"
	GapKindSpeed      GapKind = "speed"
)

// GapType sub-classifies a concept gap: Theoretical means the student can
// handle basics but fails on complexity, Conceptual means the fundamentals
// are misunderstood.
type GapType string

const (
	GapTypeConceptual  GapType = "Conceptual"
	GapTypeTheoretical GapType = "Theoretical"
	GapTypeUnknown     GapType = "Unknown"
)

// Difficulty labels for the mistake breakdown. The enumeration order
// (easy, moderate, hard) is the tie-break precedence for MostFrequent.
const (
	DifficultyEasy     = "easy"
	DifficultyModerate = "moderate"
	DifficultyHard     = "hard"
)

// DifficultyBreakdown counts a topic's wrong attempts by relative time
// taken. MostFrequent is the modal bucket, "unknown" when time data was
// unavailable and "none" when there were no mistakes to classify.
type DifficultyBreakdown struct {
	Easy          int    `json:"easy"`
	Moderate      int    `json:"moderate"`
	Hard          int    `json:"hard"`
	TotalMistakes int    `json:"total_mistakes"`
	MostFrequent  string `json:"most_frequent"`
}

// GapFinding is one detected weakness. Immutable once returned from
// analysis; constructed fresh on every AnalyzeStudent call.
type GapFinding struct {
	Kind     GapKind  `json:"kind"`
	Topic    string   `json:"topic,omitempty"` // concept gaps only
	Severity Severity `json:"severity"`

	// Confidence is 1-accuracy for concept gaps, the slow-attempt error
	// rate for confidence gaps and the fast-attempt error rate for speed
	// gaps. Always in [0,1].
	Confidence        float64 `json:"confidence"`
	AffectedQuestions int     `json:"affected_questions"`
	Description       string  `json:"description"`

	// Concept gaps only.
	DifficultyMistakes *DifficultyBreakdown `json:"difficulty_mistakes,omitempty"`
	GapType            GapType              `json:"gap_type,omitempty"`

	// Trend is the topic's progress direction, used to personalize
	// recommendations. Empty is treated as stable.
	Trend string `json:"trend,omitempty"`
}

// Key returns the finding's identifier inside StudentAnalysis.Gaps. The
// three namespaces (concept_gap_<topic>, confidence_gap, speed_gap) are
// disjoint, so merging detector output can never collide.
func (f GapFinding) Key() string {
	switch f.Kind {
	case GapKindConcept:
		return ConceptGapKey(f.Topic)
	case GapKindConfidence:
		return "confidence_gap"
	case GapKindSpeed:
		return "speed_gap"
	default:
		return string(f.Kind)
	}
}

// ConceptGapKey builds the map key for a topic's concept gap finding.
func ConceptGapKey(topic string) string {
	return "concept_gap_" + slugify(topic)
}

// StudentAnalysis is the aggregate result of analyzing one student's
// attempt set. Recomputed on demand, never incrementally updated.
type StudentAnalysis struct {
	StudentID      string                `json:"student_id"`
	TotalAttempts  int                   `json:"total_attempts"`
	CorrectAnswers int                   `json:"correct_answers"`
	Accuracy       float64               `json:"accuracy"`
	AvgTime        float64               `json:"avg_time"`
	Gaps           map[string]GapFinding `json:"gaps"`
	OverallScore   float64               `json:"overall_score"`
}

// RiskTier buckets a student by overall score for fleet reporting. The
// split (<0.5 high, <0.75 medium, else on-track) is fixed and distinct
// from per-gap severity thresholds.
type RiskTier string

const (
	RiskHigh    RiskTier = "high_risk"
	RiskMedium  RiskTier = "medium_risk"
	RiskOnTrack RiskTier = "on_track"
)

// RiskTierForScore classifies an overall score into a risk tier.
func RiskTierForScore(score float64) RiskTier {
	switch {
	case score < 0.5:
		return RiskHigh
	case score < 0.75:
		return RiskMedium
	default:
		return RiskOnTrack
	}
}

// FleetSummary is the rollup across every student in a dataset.
type FleetSummary struct {
	TotalGapsDetected  int     `json:"total_gaps_detected"`
	TotalAttempts      int     `json:"total_attempts"`
	TotalCorrect       int     `json:"total_correct"`
	OverallAccuracy    float64 `json:"overall_accuracy"`
	HighRiskStudents   int     `json:"high_risk_students"`
	MediumRiskStudents int     `json:"medium_risk_students"`
	OnTrackStudents    int     `json:"on_track_students"`
}

func slugify(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '_')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}
