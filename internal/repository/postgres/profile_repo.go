package postgres

import (
	"context"
	"errors"
	"strings"

	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

const profileColumns = `
	id, email, full_name, job_title, COALESCE(bio_description, ''),
	COALESCE(username, ''), COALESCE(phone_number, ''), COALESCE(resume_url, ''),
	status, availability_status, skills, created_at, updated_at`

type profileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *profileRepository) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, username))
}

// Upsert writes the full owner-editable record keyed by the identity id.
// The store's unique index enforces at-most-one username holder; a
// violation surfaces as a conflict so callers can render "username
// taken" instead of a generic failure.
func (r *profileRepository) Upsert(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (
			id, email, full_name, job_title, bio_description, username,
			phone_number, resume_url, status, availability_status, skills,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			job_title = EXCLUDED.job_title,
			bio_description = EXCLUDED.bio_description,
			username = EXCLUDED.username,
			phone_number = EXCLUDED.phone_number,
			resume_url = EXCLUDED.resume_url,
			status = EXCLUDED.status,
			availability_status = EXCLUDED.availability_status,
			skills = EXCLUDED.skills,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		p.ID, p.Email, p.FullName, p.JobTitle, p.BioDescription, p.Username,
		p.PhoneNumber, p.ResumeURL, p.Status, p.Availability, pq.Array(p.Skills),
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return apperror.Conflict("Username is already taken")
			}
			return apperror.Conflict("Profile already exists")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *profileRepository) UpdateStatus(ctx context.Context, id string, status domain.ModerationStatus) error {
	query := `UPDATE profiles SET status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Profile not found")
	}
	return nil
}

func (r *profileRepository) UpdateAvailability(ctx context.Context, id string, availability domain.Availability) error {
	// Deliberately unconditional: a same-value write still refreshes
	// updated_at.
	query := `UPDATE profiles SET availability_status = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, availability)
	if err != nil {
		return apperror.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("Profile not found")
	}
	return nil
}

// ListByStatus orders available-first, then newest-first. Ties fall back
// to the store's native insertion order.
func (r *profileRepository) ListByStatus(ctx context.Context, status domain.ModerationStatus) ([]domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles
		WHERE status = $1
		ORDER BY availability_status ASC, created_at DESC`

	rows, err := r.db.Query(ctx, query, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []domain.Profile
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}

func (r *profileRepository) CountByStatus(ctx context.Context) (map[domain.ModerationStatus]int64, error) {
	query := `SELECT status, COUNT(*) FROM profiles GROUP BY status`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ModerationStatus]int64)
	for rows.Next() {
		var status domain.ModerationStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *profileRepository) scanOne(row pgx.Row) (*domain.Profile, error) {
	p, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) scanRow(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var skills []string

	err := row.Scan(
		&p.ID, &p.Email, &p.FullName, &p.JobTitle, &p.BioDescription,
		&p.Username, &p.PhoneNumber, &p.ResumeURL,
		&p.Status, &p.Availability, pq.Array(&skills), &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Skills = skills
	return &p, nil
}
