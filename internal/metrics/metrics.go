// Package metrics provides pure, stateless analysis utilities over a single
// student's attempt set. Every function tolerates empty or short inputs by
// returning a defined degenerate value instead of failing.
package metrics

import (
	"math"

	"github.com/SAP-F-2025/learning-gap-service/internal/models"
)

// TopicStats is the per-topic performance breakdown.
type TopicStats struct {
	Attempts int     `json:"attempts"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
	AvgTime  float64 `json:"avg_time"`
}

// TrendResult describes first-half vs second-half accuracy movement.
type TrendResult struct {
	Trend              string  `json:"trend"`
	Improvement        float64 `json:"improvement"`
	FirstHalfAccuracy  float64 `json:"first_half_accuracy"`
	SecondHalfAccuracy float64 `json:"second_half_accuracy"`
}

// Mean returns the average time taken, 0 for an empty set.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// StdDev returns the sample standard deviation, 0 when fewer than two
// values are present.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// TimesTaken extracts the time-taken column from an attempt set.
func TimesTaken(attempts []models.Attempt) []float64 {
	times := make([]float64, len(attempts))
	for i, a := range attempts {
		times[i] = a.TimeTaken
	}
	return times
}

// Accuracy returns the fraction of correct attempts, 0 for an empty set.
func Accuracy(attempts []models.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	return float64(CorrectCount(attempts)) / float64(len(attempts))
}

// CorrectCount counts correct attempts.
func CorrectCount(attempts []models.Attempt) int {
	count := 0
	for _, a := range attempts {
		if a.Correct {
			count++
		}
	}
	return count
}

// ProgressTrend splits the timestamp-sorted attempts into first/second
// halves by count and compares accuracy. A delta above 0.1 is improving,
// below -0.1 declining, otherwise stable. Fewer than two attempts yields
// insufficient_data.
func ProgressTrend(attempts []models.Attempt) TrendResult {
	if len(attempts) < 2 {
		return TrendResult{Trend: models.TrendInsufficientData}
	}

	sorted := models.SortByTimestamp(attempts)
	mid := len(sorted) / 2
	firstAcc := Accuracy(sorted[:mid])
	secondAcc := Accuracy(sorted[mid:])
	improvement := secondAcc - firstAcc

	trend := models.TrendStable
	if improvement > 0.1 {
		trend = models.TrendImproving
	} else if improvement < -0.1 {
		trend = models.TrendDeclining
	}

	return TrendResult{
		Trend:              trend,
		Improvement:        improvement,
		FirstHalfAccuracy:  firstAcc,
		SecondHalfAccuracy: secondAcc,
	}
}

// TopicWisePerformance returns attempts/correct/accuracy/avg-time per topic.
func TopicWisePerformance(attempts []models.Attempt) map[string]TopicStats {
	stats := make(map[string]TopicStats)
	for topic, group := range models.GroupByTopic(attempts) {
		stats[topic] = TopicStats{
			Attempts: len(group),
			Correct:  CorrectCount(group),
			Accuracy: Accuracy(group),
			AvgTime:  Mean(TimesTaken(group)),
		}
	}
	return stats
}

// WeakTopics lists topics with accuracy below threshold and at least three
// attempts, in first-seen topic order.
func WeakTopics(attempts []models.Attempt, threshold float64) []string {
	stats := TopicWisePerformance(attempts)
	var weak []string
	for _, topic := range models.Topics(attempts) {
		s := stats[topic]
		if s.Accuracy < threshold && s.Attempts >= 3 {
			weak = append(weak, topic)
		}
	}
	return weak
}

// ConsistencyScore maps the coefficient of variation of time taken onto
// [0,1]; higher means steadier pacing. Returns the neutral 0.5 when fewer
// than two attempts are available.
func ConsistencyScore(attempts []models.Attempt) float64 {
	if len(attempts) < 2 {
		return 0.5
	}

	times := TimesTaken(attempts)
	mean := Mean(times)
	if mean <= 0 {
		return 0.5
	}
	cv := StdDev(times) / mean
	return 1 - math.Min(1, cv/2)
}

// LearningVelocity computes rolling-window accuracy over timestamp-sorted
// attempts (window = max(3, n/3)) and returns the slope between the last
// and first window, divided by window count minus one. Positive means
// improving. Returns 0 when fewer than three attempts or fewer than two
// windows exist.
func LearningVelocity(attempts []models.Attempt) float64 {
	if len(attempts) < 3 {
		return 0
	}

	sorted := models.SortByTimestamp(attempts)
	windowSize := len(sorted) / 3
	if windowSize < 3 {
		windowSize = 3
	}

	var rolling []float64
	for i := 0; i+windowSize <= len(sorted); i++ {
		rolling = append(rolling, Accuracy(sorted[i:i+windowSize]))
	}
	if len(rolling) < 2 {
		return 0
	}

	return (rolling[len(rolling)-1] - rolling[0]) / float64(len(rolling)-1)
}

// EngagementLevel labels attempt frequency over the observed time span:
// high at one or more attempts per day, medium at half that, otherwise low.
// Zero attempts or missing timestamps yield low.
func EngagementLevel(attempts []models.Attempt) string {
	if len(attempts) == 0 {
		return models.EngagementLow
	}

	minTS, maxTS := attempts[0].Timestamp, attempts[0].Timestamp
	for _, a := range attempts[1:] {
		if a.Timestamp.Before(minTS) {
			minTS = a.Timestamp
		}
		if a.Timestamp.After(maxTS) {
			maxTS = a.Timestamp
		}
	}
	if minTS.IsZero() {
		return models.EngagementLow
	}

	spanDays := int(maxTS.Sub(minTS).Hours() / 24)
	attemptsPerDay := float64(len(attempts))
	if spanDays > 0 {
		attemptsPerDay = float64(len(attempts)) / float64(spanDays)
	}

	switch {
	case attemptsPerDay >= 1:
		return models.EngagementHigh
	case attemptsPerDay >= 0.5:
		return models.EngagementMedium
	default:
		return models.EngagementLow
	}
}
