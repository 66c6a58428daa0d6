package models

import (
	"sort"
	"time"
)

// MinTimeTaken is the floor (in seconds) enforced on Time_Taken during
// ingestion normalization. Rows below the floor are clamped, not rejected.
const MinTimeTaken = 10.0

// Attempt is one recorded question response by a student, already
// normalized by the ingestion layer: Correct is a real boolean and
// TimeTaken respects the MinTimeTaken floor.
type Attempt struct {
	StudentID  string    `json:"student_id" validate:"required"`
	QuestionID string    `json:"question_id" validate:"required"`
	Topic      string    `json:"topic" validate:"required"`
	Correct    bool      `json:"correct"`
	TimeTaken  float64   `json:"time_taken" validate:"gte=0"`
	Timestamp  time.Time `json:"timestamp"`

	// Optional columns; zero means absent.
	AttemptNumber int `json:"attempt_number,omitempty" validate:"omitempty,min=1"`
	ClassLevel    int `json:"class_level,omitempty" validate:"omitempty,min=1,max=12"`
}

// SortByTimestamp returns a copy of attempts ordered by timestamp ascending.
// The input slice is never mutated; analysis treats attempt sets as read-only.
func SortByTimestamp(attempts []Attempt) []Attempt {
	sorted := make([]Attempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// GroupByTopic buckets attempts by topic, preserving input order within
// each bucket. Topics returns the distinct topics in first-seen order so
// detector output stays deterministic.
func GroupByTopic(attempts []Attempt) map[string][]Attempt {
	groups := make(map[string][]Attempt)
	for _, a := range attempts {
		groups[a.Topic] = append(groups[a.Topic], a)
	}
	return groups
}

// Topics returns distinct topics in first-seen order.
func Topics(attempts []Attempt) []string {
	seen := make(map[string]bool)
	var topics []string
	for _, a := range attempts {
		if !seen[a.Topic] {
			seen[a.Topic] = true
			topics = append(topics, a.Topic)
		}
	}
	return topics
}

// GroupByStudent buckets a dataset by student ID, preserving row order.
func GroupByStudent(attempts []Attempt) map[string][]Attempt {
	groups := make(map[string][]Attempt)
	for _, a := range attempts {
		groups[a.StudentID] = append(groups[a.StudentID], a)
	}
	return groups
}

// StudentIDs returns distinct student IDs in first-seen order.
func StudentIDs(attempts []Attempt) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range attempts {
		if !seen[a.StudentID] {
			seen[a.StudentID] = true
			ids = append(ids, a.StudentID)
		}
	}
	return ids
}
