package services

import (
	"context"
	"errors"
	"fmt"

	"bonustracker/internal/core"
	"bonustracker/internal/storage"
)

var (
	ErrNotFound      = storage.ErrNotFound
	ErrProjectExists = errors.New("project already exists")
)

// ProjectService handles project CRUD, always returning projects
// enriched with their aggregated hours.
type ProjectService struct {
	repo             *storage.Repository
	defaultBonusRate float64
}

func NewProjectService(repo *storage.Repository, defaultBonusRate float64) *ProjectService {
	return &ProjectService{repo: repo, defaultBonusRate: defaultBonusRate}
}

// List returns projects ordered by name, optionally filtered by status,
// with hours loaded in one grouped query.
func (s *ProjectService) List(ctx context.Context, status core.ProjectStatus) ([]ProjectWithHours, error) {
	projects, err := s.repo.ListProjects(ctx, status)
	if err != nil {
		return nil, err
	}
	return s.withHours(ctx, projects)
}

// Create stores a new project. The external project id must be unique.
func (s *ProjectService) Create(ctx context.Context, p core.Project) (ProjectWithHours, error) {
	if p.BonusRate == 0 {
		p.BonusRate = s.defaultBonusRate
	}
	if p.Status == "" {
		p.Status = core.StatusActive
	}
	if err := p.Validate(); err != nil {
		return ProjectWithHours{}, err
	}
	if _, err := s.repo.GetProjectByExternalID(ctx, p.ProjectID); err == nil {
		return ProjectWithHours{}, fmt.Errorf("%w: %s", ErrProjectExists, p.ProjectID)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return ProjectWithHours{}, err
	}
	created, err := s.repo.CreateProject(ctx, p)
	if err != nil {
		return ProjectWithHours{}, err
	}
	return projectWithHours(created, core.HoursSplit{}), nil
}

// Get loads one project by database id.
func (s *ProjectService) Get(ctx context.Context, id int64) (ProjectWithHours, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return ProjectWithHours{}, err
	}
	hours, err := s.repo.HoursByProject(ctx, []int64{p.ID}, storage.HoursFilter{})
	if err != nil {
		return ProjectWithHours{}, err
	}
	return projectWithHours(p, hours[p.ID]), nil
}

// Update applies a partial patch and persists the merged project.
func (s *ProjectService) Update(ctx context.Context, id int64, patch core.ProjectPatch) (ProjectWithHours, error) {
	p, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return ProjectWithHours{}, err
	}
	merged := patch.Apply(p)
	if err := merged.Validate(); err != nil {
		return ProjectWithHours{}, err
	}
	updated, err := s.repo.UpdateProject(ctx, merged)
	if err != nil {
		return ProjectWithHours{}, err
	}
	hours, err := s.repo.HoursByProject(ctx, []int64{updated.ID}, storage.HoursFilter{})
	if err != nil {
		return ProjectWithHours{}, err
	}
	return projectWithHours(updated, hours[updated.ID]), nil
}

// Delete removes a project and, by cascade, its entries and notes.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteProject(ctx, id)
}

// BulkUpdateStatus sets the status of many projects at once.
func (s *ProjectService) BulkUpdateStatus(ctx context.Context, ids []int64, status core.ProjectStatus) (int64, error) {
	if !status.Valid() {
		return 0, core.ErrInvalidStatus
	}
	return s.repo.BulkUpdateStatus(ctx, ids, status)
}

// BulkDelete removes many projects at once.
func (s *ProjectService) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	return s.repo.BulkDelete(ctx, ids)
}

func (s *ProjectService) withHours(ctx context.Context, projects []core.Project) ([]ProjectWithHours, error) {
	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	hours, err := s.repo.HoursByProject(ctx, ids, storage.HoursFilter{})
	if err != nil {
		return nil, err
	}
	out := make([]ProjectWithHours, len(projects))
	for i, p := range projects {
		out[i] = projectWithHours(p, hours[p.ID])
	}
	return out, nil
}
