package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/learning-gap-service/internal/events"
	"github.com/SAP-F-2025/learning-gap-service/internal/models"
	"github.com/SAP-F-2025/learning-gap-service/internal/repositories"
	"github.com/SAP-F-2025/learning-gap-service/internal/utils"
)

// AnalysisService orchestrates per-student analysis against the loaded
// dataset: fetch attempts, run detection, derive recommendations.
type AnalysisService interface {
	AnalyzeStudent(ctx context.Context, studentID string) (models.StudentAnalysis, error)
	GetRecommendations(ctx context.Context, studentID string) ([]models.Recommendation, error)
}

type analysisService struct {
	repo            repositories.DatasetRepository
	detector        GapDetector
	recommendations RecommendationService
	publisher       events.EventPublisher
	logger          *slog.Logger
}

func NewAnalysisService(
	repo repositories.DatasetRepository,
	detector GapDetector,
	recommendations RecommendationService,
	publisher events.EventPublisher,
	logger *slog.Logger,
) AnalysisService {
	return &analysisService{
		repo:            repo,
		detector:        detector,
		recommendations: recommendations,
		publisher:       publisher,
		logger:          logger,
	}
}

func (s *analysisService) AnalyzeStudent(ctx context.Context, studentID string) (models.StudentAnalysis, error) {
	attempts, err := s.studentAttempts(studentID)
	if err != nil {
		return models.StudentAnalysis{}, err
	}

	analysis := s.detector.AnalyzeStudent(attempts)

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysisEvent(ctx, events.NewAnalysisCompletedEvent(analysis)); err != nil {
			// Analysis is still valid without the event; log and move on.
			s.logger.Warn("Failed to publish analysis completed event",
				"student_id", studentID, "error", err)
		}
	}

	return analysis, nil
}

func (s *analysisService) GetRecommendations(ctx context.Context, studentID string) ([]models.Recommendation, error) {
	attempts, err := s.studentAttempts(studentID)
	if err != nil {
		return nil, err
	}

	analysis := s.detector.AnalyzeStudent(attempts)

	// Class level is best-effort: resource links fall back to generic
	// material when the student ID encodes no class.
	classLevel, ok := utils.ExtractClassLevel(studentID)
	if !ok {
		classLevel = 0
	}

	return s.recommendations.GenerateRecommendations(analysis, classLevel), nil
}

func (s *analysisService) studentAttempts(studentID string) ([]models.Attempt, error) {
	if _, ok := s.repo.Info(); !ok {
		return nil, ErrDatasetNotFound
	}
	attempts, ok := s.repo.GetByStudent(studentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStudentNotFound, studentID)
	}
	return attempts, nil
}
