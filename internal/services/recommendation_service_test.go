package services

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

type stubResolver struct {
	links models.ResourceLinks
}

func (s *stubResolver) ResolveResources(topic string, classLevel int) models.ResourceLinks {
	return s.links
}

func testRecommendations(resolver ResourceResolver) RecommendationService {
	return NewRecommendationService(resolver, slog.Default())
}

func conceptFinding(topic string, severity models.Severity, trend string) models.GapFinding {
	return models.GapFinding{
		Kind:       models.GapKindConcept,
		Topic:      topic,
		Severity:   severity,
		Confidence: 0.6,
		Trend:      trend,
	}
}

func analysisWithGaps(findings ...models.GapFinding) models.StudentAnalysis {
	gaps := make(map[string]models.GapFinding)
	for _, f := range findings {
		gaps[f.Key()] = f
	}
	return models.StudentAnalysis{StudentID: "STU_1001", Gaps: gaps}
}

func TestGenerateRecommendations_MaintenanceFallback(t *testing.T) {
	recs := testRecommendations(nil).GenerateRecommendations(analysisWithGaps(), 0)

	require.Len(t, recs, 1)
	assert.Equal(t, "Continued Practice & Advancement", recs[0].Title)
	assert.Equal(t, models.SeverityLow, recs[0].Priority)
	assert.InDelta(t, 0.10, recs[0].ExpectedImpact, 1e-9)
}

func TestGenerateRecommendations_CapAtFive(t *testing.T) {
	var findings []models.GapFinding
	for i := 0; i < 7; i++ {
		findings = append(findings, conceptFinding(fmt.Sprintf("Topic %d", i), models.SeverityMedium, models.TrendStable))
	}

	recs := testRecommendations(nil).GenerateRecommendations(analysisWithGaps(findings...), 0)
	assert.Len(t, recs, 5)
}

func TestGenerateRecommendations_SeverityOrdering(t *testing.T) {
	analysis := analysisWithGaps(
		conceptFinding("Algebra", models.SeverityLow, models.TrendStable),
		conceptFinding("Fractions", models.SeverityHigh, models.TrendStable),
		models.GapFinding{Kind: models.GapKindSpeed, Severity: models.SeverityMedium, Description: "rushing"},
	)

	recs := testRecommendations(nil).GenerateRecommendations(analysis, 0)
	require.Len(t, recs, 3)

	assert.Equal(t, models.SeverityHigh, recs[0].Priority)
	assert.Contains(t, recs[0].TargetTopics, "Fractions")
	assert.Equal(t, models.SeverityMedium, recs[1].Priority)
	assert.Equal(t, models.SeverityLow, recs[2].Priority)
}

func TestGenerateRecommendations_Deterministic(t *testing.T) {
	analysis := analysisWithGaps(
		conceptFinding("Algebra", models.SeverityMedium, models.TrendStable),
		conceptFinding("Geometry", models.SeverityMedium, models.TrendStable),
		conceptFinding("Fractions", models.SeverityMedium, models.TrendStable),
	)

	svc := testRecommendations(nil)
	first := svc.GenerateRecommendations(analysis, 0)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, svc.GenerateRecommendations(analysis, 0))
	}
}

func TestGenerateRecommendations_IntensityByTrend(t *testing.T) {
	svc := testRecommendations(nil)

	t.Run("high and declining", func(t *testing.T) {
		recs := svc.GenerateRecommendations(
			analysisWithGaps(conceptFinding("Algebra", models.SeverityHigh, models.TrendDeclining)), 0)
		require.Len(t, recs, 1)
		assert.Equal(t, "Foundational Review + Intensive Practice", recs[0].PracticeType)
		assert.Equal(t, "1-2 weeks, 45-60 min daily", recs[0].Duration)
		assert.Contains(t, recs[0].Description, "Urgent")
	})

	t.Run("medium and declining", func(t *testing.T) {
		recs := svc.GenerateRecommendations(
			analysisWithGaps(conceptFinding("Algebra", models.SeverityMedium, models.TrendDeclining)), 0)
		require.Len(t, recs, 1)
		assert.Equal(t, "Targeted Review + Extra Practice", recs[0].PracticeType)
	})

	t.Run("improving", func(t *testing.T) {
		recs := svc.GenerateRecommendations(
			analysisWithGaps(conceptFinding("Algebra", models.SeverityMedium, models.TrendImproving)), 0)
		require.Len(t, recs, 1)
		assert.Equal(t, "Reinforcement + Challenge Problems", recs[0].PracticeType)
		assert.Contains(t, recs[0].Description, "progress")
	})

	t.Run("stable default", func(t *testing.T) {
		recs := svc.GenerateRecommendations(
			analysisWithGaps(conceptFinding("Algebra", models.SeverityLow, models.TrendStable)), 0)
		require.Len(t, recs, 1)
		assert.Equal(t, "Structured Review + Practice", recs[0].PracticeType)
	})
}

func TestGenerateRecommendations_GapKindTemplates(t *testing.T) {
	svc := testRecommendations(nil)

	t.Run("confidence", func(t *testing.T) {
		analysis := analysisWithGaps(models.GapFinding{
			Kind:        models.GapKindConfidence,
			Severity:    models.SeverityHigh,
			Description: "hesitates",
		})
		recs := svc.GenerateRecommendations(analysis, 0)
		require.Len(t, recs, 1)
		assert.Equal(t, "Guided Problem-Solving", recs[0].PracticeType)
		assert.InDelta(t, 0.20, recs[0].ExpectedImpact, 1e-9)
	})

	t.Run("speed", func(t *testing.T) {
		analysis := analysisWithGaps(models.GapFinding{
			Kind:        models.GapKindSpeed,
			Severity:    models.SeverityMedium,
			Description: "rushing",
		})
		recs := svc.GenerateRecommendations(analysis, 0)
		require.Len(t, recs, 1)
		assert.Equal(t, models.SeverityMedium, recs[0].Priority)
		assert.InDelta(t, 0.15, recs[0].ExpectedImpact, 1e-9)
	})
}

func TestGenerateRecommendations_ResolverLinks(t *testing.T) {
	resolver := &stubResolver{links: models.ResourceLinks{
		"Videos": {"https://www.youtube.com/results?search_query=Algebra+class+6"},
	}}

	recs := testRecommendations(resolver).GenerateRecommendations(
		analysisWithGaps(conceptFinding("Algebra", models.SeverityHigh, models.TrendStable)), 6)

	require.Len(t, recs, 1)
	require.Contains(t, recs[0].Resources, "Videos")
	assert.Contains(t, recs[0].Resources["Videos"][0], "class+6")
	// The built-in library links remain alongside resolver links.
	assert.Contains(t, recs[0].Resources, "Practice Questions")
}

func TestEstimateImprovementTime(t *testing.T) {
	svc := testRecommendations(nil)
	assert.Equal(t, "2-3 weeks", svc.EstimateImprovementTime(models.SeverityHigh))
	assert.Equal(t, "1-2 weeks", svc.EstimateImprovementTime(models.SeverityMedium))
	assert.Equal(t, "3-5 days", svc.EstimateImprovementTime(models.SeverityLow))
}
