package usecase

import (
	"context"
	"strings"

	"bizconnect-backend/internal/authz"
	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"
)

type directoryUsecase struct {
	profiles domain.ProfileRepository
	projects domain.ProjectRepository
	gate     *authz.Gate
}

func NewDirectoryUsecase(profiles domain.ProfileRepository, projects domain.ProjectRepository, gate *authz.Gate) domain.DirectoryUsecase {
	return &directoryUsecase{
		profiles: profiles,
		projects: projects,
		gate:     gate,
	}
}

// ListApproved returns the public directory: approved profiles only,
// available-first then newest-first (store ordering). Search and the
// availability restriction are applied here, after the fetch.
func (u *directoryUsecase) ListApproved(ctx context.Context, filter domain.DirectoryFilter) ([]domain.Profile, error) {
	profiles, err := u.profiles.ListByStatus(ctx, domain.StatusApproved)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	filtered := profiles[:0]
	for _, p := range profiles {
		if filter.AvailableOnly && p.Availability != domain.Available {
			continue
		}
		if !matchesSearch(&p, filter.Search) {
			continue
		}
		filtered = append(filtered, p)
	}

	if filter.WithProjects && len(filtered) > 0 {
		ids := make([]string, len(filtered))
		for i, p := range filtered {
			ids[i] = p.ID
		}
		byOwner, err := u.projects.ListByUserIDs(ctx, ids)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		for i := range filtered {
			filtered[i].Projects = byOwner[filtered[i].ID]
		}
	}

	return filtered, nil
}

// ListPending is the admin review queue, newest submissions first.
func (u *directoryUsecase) ListPending(ctx context.Context) ([]domain.Profile, error) {
	if err := u.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	profiles, err := u.profiles.ListByStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return profiles, nil
}

func (u *directoryUsecase) GetStats(ctx context.Context) (*domain.DirectoryStats, error) {
	if err := u.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}

	counts, err := u.profiles.CountByStatus(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	stats := &domain.DirectoryStats{
		Pending:  counts[domain.StatusPending],
		Approved: counts[domain.StatusApproved],
		Rejected: counts[domain.StatusRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// matchesSearch reports whether any of the three searchable fields
// contains the term, case-insensitively. An empty term matches all.
func matchesSearch(p *domain.Profile, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.FullName), term) ||
		strings.Contains(strings.ToLower(p.JobTitle), term) ||
		strings.Contains(strings.ToLower(p.BioDescription), term)
}
