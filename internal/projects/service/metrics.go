package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
)

// ProjectWritesTotal counts write operations.
// Labels: operation (create, update, delete), result (ok, invalid, not_found, conflict, error)
var ProjectWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "portfolio",
		Subsystem: "projects",
		Name:      "writes_total",
		Help:      "Total number of project write operations by outcome",
	},
	[]string{"operation", "result"},
)

func recordWrite(operation string, err error) {
	ProjectWritesTotal.WithLabelValues(operation, writeResult(err)).Inc()
}

func writeResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsClientError(err):
		return "invalid"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrDuplicateID):
		return "conflict"
	default:
		return "error"
	}
}
