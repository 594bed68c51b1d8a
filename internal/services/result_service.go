package services

import (
	"fmt"

	"github.com/swaglabs/swagcheck/internal/models"
)

// ResultRepository defines the interface for run and result persistence
type ResultRepository interface {
	CreateRun(run *models.Run) error
	FinishRun(run *models.Run) error
	SaveResult(res *models.ScenarioResult) error
	ListResults(runID string) ([]*models.ScenarioResult, error)
}

// ResultService records suite runs
type ResultService interface {
	StartRun(baseURL, engine, browser string) (*models.Run, error)
	Record(res *models.ScenarioResult) error
	FinishRun(run *models.Run, results []*models.ScenarioResult) error
	Results(runID string) ([]*models.ScenarioResult, error)
}

// ResultServiceImpl implements ResultService
type ResultServiceImpl struct {
	resultRepo ResultRepository
}

// NewResultService creates a new result service
func NewResultService(resultRepo ResultRepository) ResultService {
	return &ResultServiceImpl{
		resultRepo: resultRepo,
	}
}

// StartRun creates and persists a run record
func (s *ResultServiceImpl) StartRun(baseURL, engine, browser string) (*models.Run, error) {
	run, err := models.NewRun(baseURL, engine, browser)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}

	if err := s.resultRepo.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	return run, nil
}

// Record persists a scenario result once it is final
func (s *ResultServiceImpl) Record(res *models.ScenarioResult) error {
	if !res.IsFinal() {
		return fmt.Errorf("%w: cannot record result with status %s", models.ErrInvalidStatusTransition, res.Status)
	}

	if err := s.resultRepo.SaveResult(res); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// FinishRun tallies results into the run and persists it
func (s *ResultServiceImpl) FinishRun(run *models.Run, results []*models.ScenarioResult) error {
	run.Finish(results)

	if err := s.resultRepo.FinishRun(run); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// Results lists the recorded results of a run
func (s *ResultServiceImpl) Results(runID string) ([]*models.ScenarioResult, error) {
	results, err := s.resultRepo.ListResults(runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}
