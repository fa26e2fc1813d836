package domain

import "context"

// DirectoryFilter narrows public directory listings. Search and the
// availability restriction are applied after the fetch, against the
// already-loaded page of approved profiles.
type DirectoryFilter struct {
	// Case-insensitive substring matched against full name, job title
	// and bio. Empty matches everything.
	Search string
	// Restrict to profiles whose availability is "available".
	AvailableOnly bool
	// Attach each profile's portfolio projects.
	WithProjects bool
}

// DirectoryStats summarizes moderation state for the admin dashboard.
type DirectoryStats struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

type DirectoryUsecase interface {
	ListApproved(ctx context.Context, filter DirectoryFilter) ([]Profile, error)
	ListPending(ctx context.Context) ([]Profile, error)
	GetStats(ctx context.Context) (*DirectoryStats, error)
}
