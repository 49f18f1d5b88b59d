// Package seed reads the initial project list from a YAML file.
package seed

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
)

type file struct {
	Projects []domain.Project `yaml:"projects"`
}

// Load parses path and returns its projects in file order.
// Entries repeating an earlier id are dropped.
func Load(path string, logger *zap.Logger) ([]domain.Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw, logger)
}

// Parse decodes seed YAML already in memory.
func Parse(raw []byte, logger *zap.Logger) ([]domain.Project, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]bool, len(f.Projects))
	out := make([]domain.Project, 0, len(f.Projects))
	for i, p := range f.Projects {
		p.ID = strings.TrimSpace(p.ID)
		if err := domain.ValidateRecord(p); err != nil {
			return nil, fmt.Errorf("seed project #%d: %w", i+1, err)
		}
		if p.ID != "" {
			if seen[p.ID] {
				logger.Warn("skipping duplicate seed project", zap.String("id", p.ID), zap.String("name", p.Name))
				continue
			}
			seen[p.ID] = true
		}
		out = append(out, p.Clone())
	}
	return out, nil
}
