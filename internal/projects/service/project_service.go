package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
)

// Store is the persistence collaborator for projects.
type Store interface {
	List(ctx context.Context) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Insert(ctx context.Context, p *domain.Project) error
	UpdateByID(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	DeleteByID(ctx context.Context, id string) (*domain.Project, error)
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

// ImageStore turns an uploaded file into a stored asset path.
type ImageStore interface {
	Save(fh *multipart.FileHeader) (string, error)
	Remove(relPath string) error
}

// WriteRequest contains the request data for a create or update.
type WriteRequest struct {
	Form  domain.ProjectForm
	Image *multipart.FileHeader
}

// ProjectService handles project-related business logic
type ProjectService struct {
	store  Store
	images ImageStore
	logger *zap.Logger
	newID  func() string
}

// NewProjectService creates a new project service
func NewProjectService(store Store, images ImageStore, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProjectService{
		store:  store,
		images: images,
		logger: logger,
		newID:  func() string { return uuid.New().String() },
	}
}

// List returns all projects in store order.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	items, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if items == nil {
		items = []domain.Project{}
	}
	return items, nil
}

// Create validates the form, stores the optional image and inserts a new project.
// A caller-supplied id is honoured; otherwise one is generated.
func (s *ProjectService) Create(ctx context.Context, req WriteRequest) (p *domain.Project, err error) {
	defer func() { recordWrite("create", err) }()

	skills, contributions, err := s.parse(&req.Form)
	if err != nil {
		return nil, err
	}

	image, err := s.saveImage(req.Image)
	if err != nil {
		return nil, err
	}

	id := strings.TrimSpace(domain.Value(req.Form.ID))
	if id == "" {
		id = s.newID()
	}

	p = &domain.Project{
		ID:            id,
		Name:          domain.Value(req.Form.Name),
		Desc:          domain.Value(req.Form.Desc),
		Skills:        skills,
		Contributions: contributions,
		Github:        domain.Value(req.Form.Github),
		Devpost:       domain.Value(req.Form.Devpost),
		Image:         image,
	}

	if err := s.store.Insert(ctx, p); err != nil {
		s.discardImage(image)
		return nil, fmt.Errorf("insert project: %w", err)
	}

	s.logger.Info("project created", zap.String("id", p.ID), zap.Bool("image", image != ""))
	return p, nil
}

// Update replaces the text and list fields of an existing project.
// The image only changes when a new file is supplied. Nothing is written on failure.
func (s *ProjectService) Update(ctx context.Context, id string, req WriteRequest) (p *domain.Project, err error) {
	defer func() { recordWrite("update", err) }()

	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}

	skills, contributions, err := s.parse(&req.Form)
	if err != nil {
		return nil, err
	}

	image, err := s.saveImage(req.Image)
	if err != nil {
		return nil, err
	}

	patch := domain.ProjectPatch{
		Name:          domain.Value(req.Form.Name),
		Desc:          domain.Value(req.Form.Desc),
		Skills:        skills,
		Contributions: contributions,
		Github:        domain.Value(req.Form.Github),
		Devpost:       domain.Value(req.Form.Devpost),
	}
	if image != "" {
		patch.Image = &image
	}

	p, err = s.store.UpdateByID(ctx, id, patch)
	if err != nil {
		s.discardImage(image)
		return nil, fmt.Errorf("update project: %w", err)
	}

	s.logger.Info("project updated", zap.String("id", id), zap.Bool("image_replaced", image != ""))
	return p, nil
}

// Delete removes a project and returns its prior state.
func (s *ProjectService) Delete(ctx context.Context, id string) (p *domain.Project, err error) {
	defer func() { recordWrite("delete", err) }()

	p, err = s.store.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete project: %w", err)
	}

	s.logger.Info("project deleted", zap.String("id", id))
	return p, nil
}

// Seed inserts the given projects when the store is empty and reports how many were added.
func (s *ProjectService) Seed(ctx context.Context, seeds []domain.Project) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	if n > 0 {
		s.logger.Info("store already populated, skipping seed", zap.Int("count", n))
		return 0, nil
	}

	added := 0
	for i := range seeds {
		p := seeds[i].Clone()
		if p.ID == "" {
			p.ID = s.newID()
		}
		if err := s.store.Insert(ctx, &p); err != nil {
			return added, fmt.Errorf("seed project %q: %w", p.Name, err)
		}
		added++
	}
	return added, nil
}

// Ping reports whether the backing store is reachable.
func (s *ProjectService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ProjectService) parse(form *domain.ProjectForm) ([]string, []domain.Contribution, error) {
	if err := form.Validate(); err != nil {
		return nil, nil, err
	}
	return domain.DecodeStructuredFields(*form.Skills, *form.Contributions)
}

func (s *ProjectService) saveImage(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	if s.images == nil {
		return "", fmt.Errorf("image uploads are not configured")
	}
	rel, err := s.images.Save(fh)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return rel, nil
}

func (s *ProjectService) discardImage(rel string) {
	if rel == "" {
		return
	}
	if err := s.images.Remove(rel); err != nil {
		s.logger.Warn("failed to remove orphaned image", zap.String("path", rel), zap.Error(err))
	}
}
