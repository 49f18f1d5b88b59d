package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jwd-portfolio/portfolio-backend/internal/projects/domain"
)

// PostgresStore provides persistence operations for projects backed by PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a new project store on top of an open pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const projectColumns = `id, name, description, skills::text, contributions::text, github, devpost, image`

// List returns all projects in insertion order.
func (r *PostgresStore) List(ctx context.Context) ([]domain.Project, error) {
	q := `select ` + projectColumns + ` from projects order by seq asc;`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return out, nil
}

// Get returns a single project by id.
func (r *PostgresStore) Get(ctx context.Context, id string) (*domain.Project, error) {
	q := `select ` + projectColumns + ` from projects where id = $1;`

	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Insert stores a new project. The id must already be assigned.
func (r *PostgresStore) Insert(ctx context.Context, p *domain.Project) error {
	skills, contributions, err := encodeLists(p.Skills, p.Contributions)
	if err != nil {
		return err
	}

	const q = `
insert into projects (id, name, description, skills, contributions, github, devpost, image)
values ($1, $2, $3, $4::jsonb, $5::jsonb, $6, $7, nullif($8, ''));
`
	_, err = r.db.Exec(ctx, q, p.ID, p.Name, p.Desc, skills, contributions, p.Github, p.Devpost, p.Image)
	if err != nil {
		// unique violation on id
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicateID
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// UpdateByID applies the patch in a single statement so concurrent writers never interleave.
func (r *PostgresStore) UpdateByID(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	skills, contributions, err := encodeLists(patch.Skills, patch.Contributions)
	if err != nil {
		return nil, err
	}

	q := `
update projects
set name = $2,
    description = $3,
    skills = $4::jsonb,
    contributions = $5::jsonb,
    github = $6,
    devpost = $7,
    image = coalesce($8, image),
    updated_at = now()
where id = $1
returning ` + projectColumns + `;`

	p, err := scanProject(r.db.QueryRow(ctx, q, id, patch.Name, patch.Desc, skills, contributions, patch.Github, patch.Devpost, patch.Image))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// DeleteByID removes a project and returns its last state.
func (r *PostgresStore) DeleteByID(ctx context.Context, id string) (*domain.Project, error) {
	q := `delete from projects where id = $1 returning ` + projectColumns + `;`

	p, err := scanProject(r.db.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `select count(*) from projects;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count projects: %w", err)
	}
	return n, nil
}

func (r *PostgresStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		p            domain.Project
		skillsText   string
		contribsText string
		image        *string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Desc, &skillsText, &contribsText, &p.Github, &p.Devpost, &image); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}

	if err := json.Unmarshal([]byte(skillsText), &p.Skills); err != nil {
		return nil, fmt.Errorf("decode skills for %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(contribsText), &p.Contributions); err != nil {
		return nil, fmt.Errorf("decode contributions for %s: %w", p.ID, err)
	}
	if image != nil {
		p.Image = *image
	}

	out := p.Clone()
	return &out, nil
}

func encodeLists(skills []string, contributions []domain.Contribution) (string, string, error) {
	sk, co, err := domain.EncodeStructuredFields(skills, contributions)
	if err != nil {
		return "", "", fmt.Errorf("encode project lists: %w", err)
	}
	return sk, co, nil
}
