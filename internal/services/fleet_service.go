package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SAP-F-2025/learning-gap-service/internal/cache"
	"github.com/SAP-F-2025/learning-gap-service/internal/events"
	"github.com/SAP-F-2025/learning-gap-service/internal/models"
	"github.com/SAP-F-2025/learning-gap-service/internal/repositories"
)

const (
	fleetSummaryCacheKey = "fleet:summary"
	fleetSummaryCacheTTL = 5 * time.Minute
)

// FleetService rolls per-student analyses up into a dataset-wide summary.
type FleetService interface {
	// AnalyzeAll analyzes every student in the loaded dataset and returns
	// the fleet rollup. An empty dataset yields a zero summary.
	AnalyzeAll(ctx context.Context) (models.FleetSummary, error)

	// InvalidateCache drops the cached summary, typically after a dataset
	// replacement.
	InvalidateCache(ctx context.Context)
}

type fleetService struct {
	repo      repositories.DatasetRepository
	detector  GapDetector
	publisher events.EventPublisher
	cache     cache.CacheService
	logger    *slog.Logger
}

// NewFleetService builds a fleet service. cacheService may be nil, which
// disables summary caching.
func NewFleetService(
	repo repositories.DatasetRepository,
	detector GapDetector,
	publisher events.EventPublisher,
	cacheService cache.CacheService,
	logger *slog.Logger,
) FleetService {
	return &fleetService{
		repo:      repo,
		detector:  detector,
		publisher: publisher,
		cache:     cacheService,
		logger:    logger,
	}
}

func (s *fleetService) AnalyzeAll(ctx context.Context) (models.FleetSummary, error) {
	if _, ok := s.repo.Info(); !ok {
		return models.FleetSummary{}, ErrDatasetNotFound
	}

	students := s.repo.ListStudents()
	if len(students) == 0 {
		return models.FleetSummary{}, nil
	}

	if s.cache != nil {
		var cached models.FleetSummary
		if err := s.cache.Get(ctx, fleetSummaryCacheKey, &cached); err == nil {
			s.logger.Debug("Fleet summary served from cache")
			return cached, nil
		}
	}

	// Per-student analyses are independent, so fan out across workers and
	// collect results by index to keep student order deterministic.
	analyses := make([]models.StudentAnalysis, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, studentID := range students {
		i, studentID := i, studentID
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			attempts, _ := s.repo.GetByStudent(studentID)
			analyses[i] = s.detector.AnalyzeStudent(attempts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.FleetSummary{}, err
	}

	var summary models.FleetSummary
	for _, analysis := range analyses {
		summary.TotalGapsDetected += len(analysis.Gaps)
		summary.TotalAttempts += analysis.TotalAttempts
		summary.TotalCorrect += analysis.CorrectAnswers

		switch models.RiskTierForScore(analysis.OverallScore) {
		case models.RiskHigh:
			summary.HighRiskStudents++
		case models.RiskMedium:
			summary.MediumRiskStudents++
		default:
			summary.OnTrackStudents++
		}
	}
	if summary.TotalAttempts > 0 {
		summary.OverallAccuracy = float64(summary.TotalCorrect) / float64(summary.TotalAttempts)
	}

	// Events are published sequentially after the parallel phase; the
	// publisher contract does not require goroutine safety.
	s.publishFleetEvents(ctx, analyses, summary)

	if s.cache != nil {
		if err := s.cache.Set(ctx, fleetSummaryCacheKey, summary, fleetSummaryCacheTTL); err != nil {
			s.logger.Warn("Failed to cache fleet summary", "error", err)
		}
	}

	s.logger.Info("Fleet analysis completed",
		"students", len(students),
		"total_gaps", summary.TotalGapsDetected,
		"high_risk", summary.HighRiskStudents)

	return summary, nil
}

func (s *fleetService) publishFleetEvents(ctx context.Context, analyses []models.StudentAnalysis, summary models.FleetSummary) {
	if s.publisher == nil {
		return
	}
	for _, analysis := range analyses {
		if models.RiskTierForScore(analysis.OverallScore) != models.RiskHigh {
			continue
		}
		if err := s.publisher.PublishAnalysisEvent(ctx, events.NewStudentHighRiskEvent(analysis)); err != nil {
			s.logger.Warn("Failed to publish high risk event",
				"student_id", analysis.StudentID, "error", err)
		}
	}
	if err := s.publisher.PublishAnalysisEvent(ctx, events.NewFleetSummaryGeneratedEvent(summary, len(analyses))); err != nil {
		s.logger.Warn("Failed to publish fleet summary event", "error", err)
	}
}

func (s *fleetService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, fleetSummaryCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate fleet summary cache", "error", err)
	}
}
