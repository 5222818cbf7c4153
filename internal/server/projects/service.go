package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/lumeshot/lumeshot/internal/common"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateParams describes an explicit project creation request.
type CreateParams struct {
	Name          string
	Contact       string
	Package       string
	DueDate       time.Time
	EstimatedDays int
}

// Create validates the request, snapshots the delivery countdown and inserts
// the project.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Project, error) {
	if params.Name == "" || params.Contact == "" {
		return nil, fmt.Errorf("%w: project name and contact are required", common.ErrValidation)
	}
	if params.Package == "" {
		params.Package = PackageFree
	}

	cd := CalculateCountdown(params.DueDate, params.EstimatedDays, time.Now())

	p := &Project{
		Name:             params.Name,
		Contact:          params.Contact,
		Package:          params.Package,
		EventDate:        params.DueDate,
		CountdownMonths:  cd.Months,
		CountdownDays:    cd.Days,
		CountdownHours:   cd.Hours,
		CountdownMinutes: cd.Minutes,
	}

	p, err := s.repo.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}

	return p, nil
}

// Resolve upserts the project for the given natural key.
func (s *Service) Resolve(ctx context.Context, key NaturalKey) (*Project, error) {
	if key.Package == "" {
		key.Package = PackageFree
	}
	return s.repo.Upsert(ctx, key)
}

func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}
