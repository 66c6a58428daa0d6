package services

import (
	"math"

	"github.com/SAP-F-2025/learning-gap-service/internal/metrics"
	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// severityFromAccuracy converts topic accuracy to a severity level. The
// comparisons are strict: exactly 0.4 accuracy is medium, not high.
func severityFromAccuracy(accuracy float64) models.Severity {
	switch {
	case accuracy < 0.4:
		return models.SeverityHigh
	case accuracy < 0.7:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// hasTimeData reports whether the attempt set carries usable timing data.
// Ingestion floors Time_Taken at 10s, so an all-zero column means the
// source had no such column and time-based heuristics must degrade.
func hasTimeData(attempts []models.Attempt) bool {
	for _, a := range attempts {
		if a.TimeTaken > 0 {
			return true
		}
	}
	return false
}

// analyzeMistakeDifficulty classifies each wrong attempt in a topic group
// by its time taken relative to the group mean: more than one standard
// deviation below is easy, above is hard, in between is moderate. The
// counts always sum to the group's wrong-attempt count.
func analyzeMistakeDifficulty(group []models.Attempt) *models.DifficultyBreakdown {
	if !hasTimeData(group) {
		return &models.DifficultyBreakdown{MostFrequent: "unknown"}
	}

	times := metrics.TimesTaken(group)
	avgTime := metrics.Mean(times)
	stdTime := metrics.StdDev(times)

	var wrong []models.Attempt
	for _, a := range group {
		if !a.Correct {
			wrong = append(wrong, a)
		}
	}
	if len(wrong) == 0 {
		return &models.DifficultyBreakdown{MostFrequent: "none"}
	}

	breakdown := &models.DifficultyBreakdown{TotalMistakes: len(wrong)}
	for _, a := range wrong {
		switch {
		case a.TimeTaken < avgTime-stdTime:
			breakdown.Easy++
		case a.TimeTaken > avgTime+stdTime:
			breakdown.Hard++
		default:
			breakdown.Moderate++
		}
	}

	// Modal bucket; ties resolve by easy < moderate < hard precedence.
	breakdown.MostFrequent = models.DifficultyEasy
	best := breakdown.Easy
	if breakdown.Moderate > best {
		breakdown.MostFrequent = models.DifficultyModerate
		best = breakdown.Moderate
	}
	if breakdown.Hard > best {
		breakdown.MostFrequent = models.DifficultyHard
	}

	return breakdown
}

// topicTrend reports the topic's progress direction for recommendation
// wording. Insufficient data collapses to stable so templates always have
// a usable label.
func topicTrend(group []models.Attempt) string {
	trend := metrics.ProgressTrend(group).Trend
	if trend == models.TrendInsufficientData {
		return models.TrendStable
	}
	return trend
}

// classifyGapType decides whether a topic's concept gap is Conceptual
// (fundamentals misunderstood) or Theoretical (basics fine, fails on
// complexity). This is a hand-tuned decision list evaluated top to bottom;
// the layered fallbacks are intentional, so keep them as ordered guards.
func classifyGapType(group []models.Attempt) models.GapType {
	if len(group) < 3 {
		return models.GapTypeUnknown
	}

	var wrong []models.Attempt
	for _, a := range group {
		if !a.Correct {
			wrong = append(wrong, a)
		}
	}
	if len(wrong) == 0 {
		return models.GapTypeTheoretical
	}

	if !hasTimeData(group) {
		return models.GapTypeUnknown
	}

	times := metrics.TimesTaken(group)
	avgTime := metrics.Mean(times)
	stdTime := metrics.StdDev(times)
	if stdTime == 0 {
		// Avoid collapsing both thresholds onto the mean.
		stdTime = 1
	}

	easyThreshold := avgTime - stdTime
	hardThreshold := avgTime + stdTime

	var easy, hard []models.Attempt
	for _, a := range group {
		if a.TimeTaken < easyThreshold {
			easy = append(easy, a)
		}
		if a.TimeTaken > hardThreshold {
			hard = append(hard, a)
		}
	}

	easyAccuracy := metrics.Accuracy(easy)
	hardAccuracy := metrics.Accuracy(hard)

	// Primary indicator: difficulty progression, only when both extremes
	// have enough attempts to mean anything.
	if len(easy) > 1 && len(hard) > 1 {
		// Easy right, hard wrong: can do basics, fails on complexity.
		if easyAccuracy > 0.5 && hardAccuracy < 0.5 && easyAccuracy-hardAccuracy > 0.2 {
			return models.GapTypeTheoretical
		}
		// Struggles equally across difficulties.
		if math.Abs(easyAccuracy-hardAccuracy) < 0.2 {
			return models.GapTypeConceptual
		}
	}

	// Secondary indicator: where do the mistakes sit on the time axis?
	// Deliberating but still wrong reads as conceptual; fast wrong answers
	// read as skipped formula work.
	highTimeWrong := 0
	lowTimeWrong := 0
	for _, a := range wrong {
		if a.TimeTaken > avgTime+stdTime {
			highTimeWrong++
		}
		if a.TimeTaken < avgTime-stdTime {
			lowTimeWrong++
		}
	}

	highTimeRatio := float64(highTimeWrong) / float64(len(wrong))
	lowTimeRatio := float64(lowTimeWrong) / float64(len(wrong))

	if highTimeRatio > 0.5 && lowTimeRatio < 0.2 {
		return models.GapTypeConceptual
	}
	if lowTimeRatio > 0.4 && highTimeRatio < 0.3 {
		return models.GapTypeTheoretical
	}

	// Tertiary: overall topic accuracy.
	if metrics.Accuracy(group) < 0.35 {
		return models.GapTypeConceptual
	}
	return models.GapTypeTheoretical
}
