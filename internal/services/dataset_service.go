package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SAP-F-2025/learning-gap-service/internal/ingestion"
	"github.com/SAP-F-2025/learning-gap-service/internal/repositories"
	"github.com/SAP-F-2025/learning-gap-service/internal/validator"
)

// DatasetService manages the currently loaded dataset.
type DatasetService interface {
	// LoadDataset parses, validates and installs a new dataset, replacing
	// any previous one.
	LoadDataset(ctx context.Context, filename string, r io.Reader) (repositories.DatasetInfo, error)

	// Info returns metadata for the loaded dataset.
	Info(ctx context.Context) (repositories.DatasetInfo, error)

	// ListStudents returns the dataset's student IDs in first-seen order.
	ListStudents(ctx context.Context) ([]string, error)
}

type datasetService struct {
	loader    *ingestion.Loader
	validator *validator.Validator
	repo      repositories.DatasetRepository
	fleet     FleetService
	logger    *slog.Logger
}

func NewDatasetService(
	loader *ingestion.Loader,
	v *validator.Validator,
	repo repositories.DatasetRepository,
	fleet FleetService,
	logger *slog.Logger,
) DatasetService {
	return &datasetService{
		loader:    loader,
		validator: v,
		repo:      repo,
		fleet:     fleet,
		logger:    logger,
	}
}

func (s *datasetService) LoadDataset(ctx context.Context, filename string, r io.Reader) (repositories.DatasetInfo, error) {
	attempts, err := s.loader.Load(r, filename)
	if err != nil {
		return repositories.DatasetInfo{}, fmt.Errorf("failed to load dataset: %w", err)
	}

	if errs := s.validator.ValidateAttempts(attempts); len(errs) > 0 {
		s.logger.Warn("Dataset validation failed", "file", filename, "error_count", len(errs))
		return repositories.DatasetInfo{}, errs
	}

	info := s.repo.ReplaceDataset(filename, attempts)

	// The previous dataset's fleet summary is stale the moment the new one
	// lands.
	if s.fleet != nil {
		s.fleet.InvalidateCache(ctx)
	}

	s.logger.Info("Dataset replaced",
		"file", info.Name,
		"rows", info.TotalRows,
		"students", info.StudentCount)

	return info, nil
}

func (s *datasetService) Info(ctx context.Context) (repositories.DatasetInfo, error) {
	info, ok := s.repo.Info()
	if !ok {
		return repositories.DatasetInfo{}, ErrDatasetNotFound
	}
	return info, nil
}

func (s *datasetService) ListStudents(ctx context.Context) ([]string, error) {
	if _, ok := s.repo.Info(); !ok {
		return nil, ErrDatasetNotFound
	}
	return s.repo.ListStudents(), nil
}
