package domain

import (
	"context"
	"strings"
	"time"
)

// ModerationStatus controls directory visibility. Only approved profiles
// are listed publicly.
type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Availability is owner-controlled and independent of moderation status.
// It affects directory ordering and highlighting, never visibility.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

func (a Availability) Valid() bool {
	return a == Available || a == Unavailable
}

// Profile is the moderated professional record, one per authenticated
// identity. ID equals the identity provider's user id.
type Profile struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	FullName       string           `json:"full_name"`
	JobTitle       string           `json:"job_title"`
	BioDescription string           `json:"bio_description,omitempty"`
	Username       string           `json:"username,omitempty"`
	PhoneNumber    string           `json:"phone_number,omitempty"`
	ResumeURL      string           `json:"resume_url,omitempty"`
	Status         ModerationStatus `json:"status"`
	Availability   Availability     `json:"availability_status"`
	Skills         []string         `json:"skills,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`

	// Populated on demand by directory and public profile reads.
	Projects []Project `json:"projects,omitempty"`
}

// Project is a lightweight portfolio item owned by a profile.
type Project struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title" validate:"required,min=2,max=120"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitProfileInput carries the owner-editable fields of a submission.
// Skills may arrive either as a structured list or as a comma-delimited
// string; NormalizeSkills reconciles the two before persistence.
type SubmitProfileInput struct {
	FullName       string   `json:"full_name" validate:"required,min=2,max=100"`
	JobTitle       string   `json:"job_title" validate:"required,min=2,max=100"`
	BioDescription string   `json:"bio_description" validate:"max=1000"`
	Username       string   `json:"username" validate:"omitempty,username_slug"`
	PhoneNumber    string   `json:"phone_number" validate:"omitempty,valid_phone"`
	Skills         []string `json:"skills" validate:"max=30,dive,min=1,max=50"`
	SkillsRaw      string   `json:"-"`
}

// UploadFile is an in-memory file received from a multipart form.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// NormalizeSkills merges the two accepted skill representations into one
// canonical ordered list: trimmed, empties dropped, order preserved. The
// structured list wins when both are present.
func NormalizeSkills(list []string, raw string) []string {
	source := list
	if len(source) == 0 && raw != "" {
		source = strings.Split(raw, ",")
	}

	var skills []string
	for _, s := range source {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	// Upsert creates or replaces the profile keyed by ID. A duplicate
	// username must surface as a conflict distinguishable from other
	// persistence failures.
	Upsert(ctx context.Context, profile *Profile) error
	UpdateStatus(ctx context.Context, id string, status ModerationStatus) error
	UpdateAvailability(ctx context.Context, id string, availability Availability) error
	ListByStatus(ctx context.Context, status ModerationStatus) ([]Profile, error)
	CountByStatus(ctx context.Context) (map[ModerationStatus]int64, error)
}

type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	ListByUserID(ctx context.Context, userID string) ([]Project, error)
	ListByUserIDs(ctx context.Context, userIDs []string) (map[string][]Project, error)
}

// ObjectStore abstracts the external binary storage for résumés and
// project images. Upload returns the publicly resolvable URL.
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// StatusNotifier delivers best-effort moderation outcome notifications.
type StatusNotifier interface {
	NotifyStatusChange(profile *Profile) error
}

type ProfileUsecase interface {
	SubmitProfile(ctx context.Context, input SubmitProfileInput, resume *UploadFile) (*Profile, error)
	GetMyProfile(ctx context.Context) (*Profile, error)
	GetPublicProfile(ctx context.Context, username string) (*Profile, error)
	SetStatus(ctx context.Context, profileID string, status string) (*Profile, error)
	SetAvailability(ctx context.Context, availability string) (*Profile, error)
	AddProject(ctx context.Context, title string, image *UploadFile) (*Project, error)
	ListMyProjects(ctx context.Context) ([]Project, error)
}
