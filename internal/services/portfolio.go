package services

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"designhub-backend/internal/cache"
	"designhub-backend/internal/models"
	"designhub-backend/internal/state"
)

var ErrProjectNotFound = errors.New("project not found")

//go:embed seed/projects.yaml
var seedProjects []byte

// SeedProjects returns the built-in portfolio.
func SeedProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := yaml.Unmarshal(seedProjects, &projects); err != nil {
		return nil, fmt.Errorf("failed to parse seed projects: %w", err)
	}
	return projects, nil
}

// PortfolioService manages portfolio entries. Projects live only in the
// local cache and the state holder.
type PortfolioService struct {
	cache *cache.Store
	state *state.Holder

	mu    sync.Mutex
	now   func() time.Time
	newID func() string
}

func NewPortfolioService(store *cache.Store, holder *state.Holder) *PortfolioService {
	return &PortfolioService{
		cache: store,
		state: holder,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Load publishes the cached portfolio, seeding it on first run.
func (s *PortfolioService) Load(ctx context.Context) error {
	projects, ok, err := s.cache.Projects(ctx)
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	if !ok {
		projects, err = SeedProjects()
		if err != nil {
			return err
		}
		if err := s.cache.SetProjects(ctx, projects); err != nil {
			log.Printf("Warning: failed to persist seed projects: %v", err)
		}
	}
	s.state.SetProjects(projects)
	return nil
}

func (s *PortfolioService) List(filter models.ProjectFilter) []models.Project {
	all := s.state.Projects()
	out := make([]models.Project, 0, len(all))
	for _, p := range all {
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *PortfolioService) Get(id string) (models.Project, error) {
	for _, p := range s.state.Projects() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, ErrProjectNotFound
}

// Create adds a project at the front of the portfolio.
func (s *PortfolioService) Create(ctx context.Context, form models.ProjectForm) (models.Project, error) {
	if err := form.Validate(); err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	p := projectFromForm(id, form, s.now().UnixMilli())

	projects := append([]models.Project{p}, s.state.Projects()...)
	if err := s.commit(ctx, projects); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update replaces the project with id, keeping its id and creation time.
func (s *PortfolioService) Update(ctx context.Context, id string, form models.ProjectForm) (models.Project, error) {
	if err := form.Validate(); err != nil {
		return models.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.state.Projects()
	for i, existing := range projects {
		if existing.ID != id {
			continue
		}
		p := projectFromForm(id, form, existing.CreatedAt)
		projects[i] = p
		if err := s.commit(ctx, projects); err != nil {
			return models.Project{}, err
		}
		return p, nil
	}
	return models.Project{}, ErrProjectNotFound
}

func (s *PortfolioService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	projects := s.state.Projects()
	kept := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(projects) {
		return ErrProjectNotFound
	}
	return s.commit(ctx, kept)
}

// commit persists before publishing so a failed save leaves the snapshot
// untouched.
func (s *PortfolioService) commit(ctx context.Context, projects []models.Project) error {
	if err := s.cache.SetProjects(ctx, projects); err != nil {
		return err
	}
	s.state.SetProjects(projects)
	return nil
}

func projectFromForm(id string, form models.ProjectForm, createdAt int64) models.Project {
	image := strings.TrimSpace(form.ImageURL)
	if image == "" {
		image = models.DefaultImageURL(id)
	}
	return models.Project{
		ID:          id,
		Name:        strings.TrimSpace(form.Name),
		Category:    form.Category,
		Subcategory: form.Subcategory,
		Description: strings.TrimSpace(form.Description),
		ImageURL:    image,
		Link:        strings.TrimSpace(form.Link),
		CreatedAt:   createdAt,
	}
}
