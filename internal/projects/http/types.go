package http

import (
	"context"

	"go.uber.org/zap"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
	"github.com/jwd-portfolio/portfolio-backend/internal/projects/service"
)

// ProjectService is the subset of the service layer the handlers call.
type ProjectService interface {
	List(ctx context.Context) ([]domain.Project, error)
	Create(ctx context.Context, req service.WriteRequest) (*domain.Project, error)
	Update(ctx context.Context, id string, req service.WriteRequest) (*domain.Project, error)
	Delete(ctx context.Context, id string) (*domain.Project, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc         ProjectService
	logger      *zap.Logger
	maxBodySize int64
}

// New builds a Handler. maxBodySize caps the whole write request body, file included.
func New(svc ProjectService, maxBodySize int64, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger, maxBodySize: maxBodySize}
}
