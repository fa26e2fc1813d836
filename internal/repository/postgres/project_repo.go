package postgres

import (
	"context"

	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type projectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) domain.ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	query := `
		INSERT INTO projects (user_id, title, image_url, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, project.UserID, project.Title, project.ImageURL).
		Scan(&project.ID, &project.CreatedAt)
	if err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (r *projectRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Project, error) {
	query := `SELECT id, user_id, title, image_url, created_at
		FROM projects WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// ListByUserIDs fetches portfolios for a page of profiles in one round
// trip, grouped by owner.
func (r *projectRepository) ListByUserIDs(ctx context.Context, userIDs []string) (map[string][]domain.Project, error) {
	query := `SELECT id, user_id, title, image_url, created_at
		FROM projects WHERE user_id = ANY($1) ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byOwner := make(map[string][]domain.Project)
	for rows.Next() {
		var p domain.Project
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		byOwner[p.UserID] = append(byOwner[p.UserID], p)
	}
	return byOwner, rows.Err()
}
