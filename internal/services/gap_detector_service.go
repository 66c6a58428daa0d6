package services

import (
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learning-gap-service/internal/config"
	"github.com/SAP-F-2025/learning-gap-service/internal/metrics"
	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// GapDetector turns one student's attempt log into typed, severity-ranked
// gap findings plus an overall performance score.
type GapDetector interface {
	// AnalyzeStudent is a pure function of its input: no shared state, no
	// caching, identical input yields identical output. An empty attempt
	// set produces an all-zero analysis, never an error.
	AnalyzeStudent(attempts []models.Attempt) models.StudentAnalysis
}

type gapDetector struct {
	cfg    config.DetectionConfig
	logger *slog.Logger
}

func NewGapDetector(cfg config.DetectionConfig, logger *slog.Logger) GapDetector {
	return &gapDetector{
		cfg:    cfg,
		logger: logger,
	}
}

func (d *gapDetector) AnalyzeStudent(attempts []models.Attempt) models.StudentAnalysis {
	if len(attempts) == 0 {
		return models.StudentAnalysis{Gaps: map[string]models.GapFinding{}}
	}

	totalAttempts := len(attempts)
	correctCount := metrics.CorrectCount(attempts)
	accuracy := float64(correctCount) / float64(totalAttempts)
	avgTime := metrics.Mean(metrics.TimesTaken(attempts))

	// The three sub-detectors are independent strategies over the same
	// input. Their key namespaces are disjoint, so merging cannot collide.
	gaps := make(map[string]models.GapFinding)
	for _, finding := range d.detectConceptGaps(attempts) {
		gaps[finding.Key()] = finding
	}
	if finding, ok := d.detectConfidenceGap(attempts); ok {
		gaps[finding.Key()] = finding
	}
	if finding, ok := d.detectSpeedGap(attempts); ok {
		gaps[finding.Key()] = finding
	}

	analysis := models.StudentAnalysis{
		StudentID:      attempts[0].StudentID,
		TotalAttempts:  totalAttempts,
		CorrectAnswers: correctCount,
		Accuracy:       accuracy,
		AvgTime:        avgTime,
		Gaps:           gaps,
		OverallScore:   d.calculateOverallScore(accuracy, len(gaps), attempts),
	}

	d.logger.Debug("Student analysis completed",
		"student_id", analysis.StudentID,
		"total_attempts", totalAttempts,
		"accuracy", accuracy,
		"gap_count", len(gaps),
		"overall_score", analysis.OverallScore)

	return analysis
}

// detectConceptGaps flags topics with sustained low accuracy. Topic groups
// below the minimum-attempts threshold are skipped as insufficient sample.
func (d *gapDetector) detectConceptGaps(attempts []models.Attempt) []models.GapFinding {
	var findings []models.GapFinding

	groups := models.GroupByTopic(attempts)
	for _, topic := range models.Topics(attempts) {
		group := groups[topic]
		if len(group) < d.cfg.MinAttemptsThreshold {
			continue
		}

		topicAccuracy := metrics.Accuracy(group)
		if topicAccuracy >= d.cfg.ConceptGapThreshold {
			continue
		}

		findings = append(findings, models.GapFinding{
			Kind:               models.GapKindConcept,
			Topic:              topic,
			Severity:           severityFromAccuracy(topicAccuracy),
			Confidence:         1 - topicAccuracy,
			AffectedQuestions:  len(group),
			Description:        fmt.Sprintf("Struggling with %s: %.1f%% accuracy", topic, topicAccuracy*100),
			DifficultyMistakes: analyzeMistakeDifficulty(group),
			GapType:            classifyGapType(group),
			Trend:              topicTrend(group),
		})
	}

	return findings
}

// detectConfidenceGap flags hesitation: attempts well above the student's
// average time that still end up wrong more often than not.
func (d *gapDetector) detectConfidenceGap(attempts []models.Attempt) (models.GapFinding, bool) {
	avgTime := metrics.Mean(metrics.TimesTaken(attempts))
	threshold := avgTime * d.cfg.ConfidenceTimeMultiplier

	var slow []models.Attempt
	for _, a := range attempts {
		if a.TimeTaken > threshold {
			slow = append(slow, a)
		}
	}
	if len(slow) == 0 {
		return models.GapFinding{}, false
	}

	wrong := len(slow) - metrics.CorrectCount(slow)
	errorRate := float64(wrong) / float64(len(slow))
	if errorRate <= 0.5 {
		return models.GapFinding{}, false
	}

	severity := models.SeverityMedium
	if errorRate >= 0.7 {
		severity = models.SeverityHigh
	}

	return models.GapFinding{
		Kind:              models.GapKindConfidence,
		Severity:          severity,
		Confidence:        errorRate,
		AffectedQuestions: len(slow),
		Description: fmt.Sprintf("Hesitates on %.0f%% of slow attempts (%.1fs+) but still gets them wrong",
			errorRate*100, threshold),
	}, true
}

// detectSpeedGap flags rushing: noticeably fast attempts with an elevated
// error rate. Requires more than two fast attempts to avoid noise.
func (d *gapDetector) detectSpeedGap(attempts []models.Attempt) (models.GapFinding, bool) {
	avgTime := metrics.Mean(metrics.TimesTaken(attempts))
	threshold := avgTime * d.cfg.SpeedTimeMultiplier

	var fast []models.Attempt
	for _, a := range attempts {
		if a.TimeTaken < threshold {
			fast = append(fast, a)
		}
	}
	if len(fast) <= 2 {
		return models.GapFinding{}, false
	}

	wrong := len(fast) - metrics.CorrectCount(fast)
	fastRatio := float64(wrong) / float64(len(fast))
	if fastRatio <= 0.4 {
		return models.GapFinding{}, false
	}

	return models.GapFinding{
		Kind:              models.GapKindSpeed,
		Severity:          models.SeverityMedium,
		Confidence:        fastRatio,
		AffectedQuestions: len(fast),
		Description:       "Answers too quickly without careful consideration",
	}, true
}

// calculateOverallScore combines accuracy, gap count and timing consistency
// into a single 0-1 indicator. Every gap costs a flat 0.1 regardless of
// severity; steady pacing earns a 0.05 bonus. The flat penalty is the
// intended model, not an oversight.
func (d *gapDetector) calculateOverallScore(accuracy float64, numGaps int, attempts []models.Attempt) float64 {
	gapPenalty := float64(numGaps) * 0.1

	consistencyBonus := 0.0
	times := metrics.TimesTaken(attempts)
	if hasTimeData(attempts) && metrics.StdDev(times) < metrics.Mean(times)*0.5 {
		consistencyBonus = 0.05
	}

	return clamp01(accuracy - gapPenalty + consistencyBonus)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
