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

// fleetDataset builds a two-student dataset: one solid performer and one
// student failing everything.
func fleetDataset() []models.Attempt {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	var attempts []models.Attempt
	for i := 0; i < 5; i++ {
		attempts = append(attempts, models.Attempt{
			StudentID: "STU_GOOD",
			Topic:     "Algebra",
			Correct:   true,
			TimeTaken: 40,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	for i := 0; i < 5; i++ {
		attempts = append(attempts, models.Attempt{
			StudentID: "STU_WEAK",
			Topic:     "Algebra",
			Correct:   false,
			TimeTaken: 40,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return attempts
}

func newFleetFixture() (FleetService, repositories.DatasetRepository, *events.MockEventPublisher) {
	repo := repositories.NewDatasetRepository()
	publisher := events.NewMockEventPublisher(slog.Default())
	detector := NewGapDetector(config.DefaultDetection(), slog.Default())
	fleet := NewFleetService(repo, detector, publisher, nil, slog.Default())
	return fleet, repo, publisher
}

func TestAnalyzeAll_NoDatasetLoaded(t *testing.T) {
	fleet, _, _ := newFleetFixture()

	_, err := fleet.AnalyzeAll(context.Background())
	assert.ErrorIs(t, err, ErrDatasetNotFound)
}

func TestAnalyzeAll_EmptyDataset(t *testing.T) {
	fleet, repo, publisher := newFleetFixture()
	repo.ReplaceDataset("empty.csv", nil)

	summary, err := fleet.AnalyzeAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FleetSummary{}, summary)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestAnalyzeAll_RiskBucketsAndRollup(t *testing.T) {
	fleet, repo, _ := newFleetFixture()
	repo.ReplaceDataset("class.csv", fleetDataset())

	summary, err := fleet.AnalyzeAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, summary.TotalAttempts)
	assert.Equal(t, 5, summary.TotalCorrect)
	assert.InDelta(t, 0.5, summary.OverallAccuracy, 1e-9)
	assert.Equal(t, 1, summary.OnTrackStudents)
	assert.Equal(t, 1, summary.HighRiskStudents)
	assert.Equal(t, 0, summary.MediumRiskStudents)
	assert.Equal(t, 1, summary.TotalGapsDetected)
}

func TestAnalyzeAll_PublishesEvents(t *testing.T) {
	fleet, repo, publisher := newFleetFixture()
	repo.ReplaceDataset("class.csv", fleetDataset())

	_, err := fleet.AnalyzeAll(context.Background())
	require.NoError(t, err)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 2)

	var highRisk, fleetSummary int
	for _, e := range published {
		switch e.Type {
		case events.EventStudentHighRisk:
			highRisk++
		case events.EventFleetSummaryGenerated:
			fleetSummary++
		}
	}
	assert.Equal(t, 1, highRisk)
	assert.Equal(t, 1, fleetSummary)
}
