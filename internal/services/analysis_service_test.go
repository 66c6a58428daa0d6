package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/learning-gap-service/internal/config"
	"github.com/SAP-F-2025/learning-gap-service/internal/events"
	"github.com/SAP-F-2025/learning-gap-service/internal/models"
	"github.com/SAP-F-2025/learning-gap-service/internal/repositories"
)

func newAnalysisFixture() (AnalysisService, repositories.DatasetRepository, *events.MockEventPublisher) {
	repo := repositories.NewDatasetRepository()
	publisher := events.NewMockEventPublisher(slog.Default())
	detector := NewGapDetector(config.DefaultDetection(), slog.Default())
	recommendations := NewRecommendationService(nil, slog.Default())
	svc := NewAnalysisService(repo, detector, recommendations, publisher, slog.Default())
	return svc, repo, publisher
}

func strugglingStudent(studentID string) []models.Attempt {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	correct := []bool{true, false, false, true, false}
	times := []float64{30, 90, 85, 35, 88}
	attempts := make([]models.Attempt, len(correct))
	for i := range correct {
		attempts[i] = models.Attempt{
			StudentID: studentID,
			Topic:     "Algebra",
			Correct:   correct[i],
			TimeTaken: times[i],
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return attempts
}

func TestAnalyzeStudent_DatasetNotLoaded(t *testing.T) {
	svc, _, _ := newAnalysisFixture()

	_, err := svc.AnalyzeStudent(context.Background(), "STU_1001")
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestAnalyzeStudent_UnknownStudent(t *testing.T) {
	svc, repo, _ := newAnalysisFixture()
	repo.ReplaceDataset("class.csv", strugglingStudent("STU_1001_Class6"))

	_, err := svc.AnalyzeStudent(context.Background(), "STU_9999")
	assert.ErrorIs(t, err, ErrStudentNotFound)
}

func TestAnalyzeStudent_PublishesCompletionEvent(t *testing.T) {
	svc, repo, publisher := newAnalysisFixture()
	repo.ReplaceDataset("class.csv", strugglingStudent("STU_1001_Class6"))

	analysis, err := svc.AnalyzeStudent(context.Background(), "STU_1001_Class6")
	require.NoError(t, err)
	assert.Equal(t, "STU_1001_Class6", analysis.StudentID)
	assert.Contains(t, analysis.Gaps, "concept_gap_algebra")

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventAnalysisCompleted, published[0].Type)
}

func TestGetRecommendations_ReturnsRankedList(t *testing.T) {
	svc, repo, _ := newAnalysisFixture()
	repo.ReplaceDataset("class.csv", strugglingStudent("STU_1001_Class6"))

	recs, err := svc.GetRecommendations(context.Background(), "STU_1001_Class6")
	require.NoError(t, err)
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0].TargetTopics, "Algebra")
	assert.LessOrEqual(t, len(recs), 5)
}
