package events

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// EventType represents the analysis events this service publishes.
type EventType string

const (
	// Per-student events
	EventAnalysisCompleted EventType = "analysis.completed"
	EventStudentHighRisk   EventType = "student.high_risk"

	// Fleet events
	EventFleetSummaryGenerated EventType = "fleet.summary_generated"
)

const eventSource = "learning-gap-service"

// AnalysisEvent is the base event structure for all published events.
type AnalysisEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AnalysisCompletedEvent is emitted after each successful student analysis.
type AnalysisCompletedEvent struct {
	StudentID     string    `json:"student_id"`
	TotalAttempts int       `json:"total_attempts"`
	Accuracy      float64   `json:"accuracy"`
	OverallScore  float64   `json:"overall_score"`
	GapCount      int       `json:"gap_count"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
}

// StudentHighRiskEvent flags a student whose overall score fell into the
// high-risk tier during a fleet run.
type StudentHighRiskEvent struct {
	StudentID    string    `json:"student_id"`
	OverallScore float64   `json:"overall_score"`
	GapCount     int       `json:"gap_count"`
	GapKeys      []string  `json:"gap_keys"`
	DetectedAt   time.Time `json:"detected_at"`
}

// FleetSummaryGeneratedEvent carries the rollup of a full-dataset run.
type FleetSummaryGeneratedEvent struct {
	Summary      models.FleetSummary `json:"summary"`
	StudentCount int                 `json:"student_count"`
	GeneratedAt  time.Time           `json:"generated_at"`
}

// Event factory functions

func NewAnalysisCompletedEvent(analysis models.StudentAnalysis) *AnalysisEvent {
	return &AnalysisEvent{
		ID:        generateEventID(),
		Type:      EventAnalysisCompleted,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: AnalysisCompletedEvent{
			StudentID:     analysis.StudentID,
			TotalAttempts: analysis.TotalAttempts,
			Accuracy:      analysis.Accuracy,
			OverallScore:  analysis.OverallScore,
			GapCount:      len(analysis.Gaps),
			AnalyzedAt:    time.Now(),
		},
	}
}

func NewStudentHighRiskEvent(analysis models.StudentAnalysis) *AnalysisEvent {
	keys := make([]string, 0, len(analysis.Gaps))
	for key := range analysis.Gaps {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return &AnalysisEvent{
		ID:        generateEventID(),
		Type:      EventStudentHighRisk,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: StudentHighRiskEvent{
			StudentID:    analysis.StudentID,
			OverallScore: analysis.OverallScore,
			GapCount:     len(analysis.Gaps),
			GapKeys:      keys,
			DetectedAt:   time.Now(),
		},
	}
}

func NewFleetSummaryGeneratedEvent(summary models.FleetSummary, studentCount int) *AnalysisEvent {
	return &AnalysisEvent{
		ID:        generateEventID(),
		Type:      EventFleetSummaryGenerated,
		Timestamp: time.Now(),
		Source:    eventSource,
		Version:   "1.0",
		Data: FleetSummaryGeneratedEvent{
			Summary:      summary,
			StudentCount: studentCount,
			GeneratedAt:  time.Now(),
		},
	}
}

func generateEventID() string {
	return uuid.NewString()
}
