package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"bizconnect-backend/internal/authz"
	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"
	"bizconnect-backend/pkg/logger"
	"bizconnect-backend/pkg/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	projectImageMaxDimension = 1600
	projectImageQuality      = 80
)

type profileUsecase struct {
	profiles domain.ProfileRepository
	projects domain.ProjectRepository
	objects  domain.ObjectStore
	notifier domain.StatusNotifier
	gate     *authz.Gate
	validate *validator.Validate
	// Self-serve variant: profiles are approved on save instead of
	// waiting for review.
	autoApprove bool
}

func NewProfileUsecase(
	profiles domain.ProfileRepository,
	projects domain.ProjectRepository,
	objects domain.ObjectStore,
	notifier domain.StatusNotifier,
	gate *authz.Gate,
	validate *validator.Validate,
	autoApprove bool,
) domain.ProfileUsecase {
	return &profileUsecase{
		profiles:    profiles,
		projects:    projects,
		objects:     objects,
		notifier:    notifier,
		gate:        gate,
		validate:    validate,
		autoApprove: autoApprove,
	}
}

// SubmitProfile creates or updates the caller's profile as one logical
// transaction: the résumé (if any) is uploaded first and a failed upload
// aborts the submission before any record write. An orphaned object on a
// later record-write failure is accepted; keys carry a uniqueness token
// and unreferenced objects are cheap to leave behind.
func (u *profileUsecase) SubmitProfile(ctx context.Context, input domain.SubmitProfileInput, resume *domain.UploadFile) (*domain.Profile, error) {
	id, email, ok := authz.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	input.Skills = domain.NormalizeSkills(input.Skills, input.SkillsRaw)

	if err := u.validate.Struct(input); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	var resumeURL string
	if resume != nil {
		if err := storage.ValidateResume(resume.Name, resume.Data); err != nil {
			return nil, apperror.BadRequest(err.Error())
		}
		key := fmt.Sprintf("resumes/%s-%s.pdf", id, uuid.NewString())
		url, err := u.objects.Upload(ctx, key, resume.Data, "application/pdf")
		if err != nil {
			return nil, apperror.Storage("Resume upload failed", err)
		}
		resumeURL = url
	}

	existing, err := u.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	profile := &domain.Profile{
		ID:             id,
		Email:          email,
		FullName:       input.FullName,
		JobTitle:       input.JobTitle,
		BioDescription: input.BioDescription,
		Username:       input.Username,
		PhoneNumber:    input.PhoneNumber,
		ResumeURL:      resumeURL,
		Skills:         input.Skills,
		Status:         u.nextStatus(existing),
		Availability:   domain.Unavailable,
	}
	if existing != nil {
		profile.Availability = existing.Availability
		if resumeURL == "" {
			profile.ResumeURL = existing.ResumeURL
		}
	}

	if err := u.profiles.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// nextStatus resolves the moderation state for a submission. First
// creations are pending (approved when the self-serve flag is on), a
// re-submission after rejection goes back into review, and an approved
// profile stays approved through owner edits.
func (u *profileUsecase) nextStatus(existing *domain.Profile) domain.ModerationStatus {
	if existing == nil {
		if u.autoApprove {
			return domain.StatusApproved
		}
		return domain.StatusPending
	}
	if existing.Status == domain.StatusRejected {
		return domain.StatusPending
	}
	return existing.Status
}

func (u *profileUsecase) GetMyProfile(ctx context.Context) (*domain.Profile, error) {
	id, _, ok := authz.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	profile, err := u.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile == nil {
		return nil, apperror.NotFound("Profile not found")
	}

	projects, err := u.projects.ListByUserID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	profile.Projects = projects
	return profile, nil
}

// GetPublicProfile resolves a profile by its public username. Only
// approved profiles are addressable this way; everything else is a 404,
// consistent with directory visibility.
func (u *profileUsecase) GetPublicProfile(ctx context.Context, username string) (*domain.Profile, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, apperror.BadRequest("Username is required")
	}

	profile, err := u.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile == nil || profile.Status != domain.StatusApproved {
		return nil, apperror.NotFound("Profile not found")
	}

	projects, err := u.projects.ListByUserID(ctx, profile.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	profile.Projects = projects
	return profile, nil
}

// SetStatus applies a moderation decision. Admin only, fail-closed: the
// gate rejects before any store access.
func (u *profileUsecase) SetStatus(ctx context.Context, profileID string, status string) (*domain.Profile, error) {
	if err := u.gate.RequireAdmin(ctx); err != nil {
		return nil, err
	}
	if profileID == "" {
		return nil, apperror.BadRequest("Profile ID is required")
	}

	newStatus := domain.ModerationStatus(status)
	if newStatus != domain.StatusApproved && newStatus != domain.StatusRejected {
		return nil, apperror.BadRequest("Status must be 'approved' or 'rejected'")
	}

	target, err := u.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if target == nil {
		return nil, apperror.NotFound("Profile not found")
	}

	if err := u.profiles.UpdateStatus(ctx, profileID, newStatus); err != nil {
		return nil, err
	}
	target.Status = newStatus
	target.UpdatedAt = time.Now()

	// Best-effort: the decision is committed, a failed notification
	// only gets logged.
	if u.notifier != nil {
		if err := u.notifier.NotifyStatusChange(target); err != nil {
			logger.Log.Warn("Failed to send status notification",
				"profile_id", target.ID, "error", err)
		}
	}

	return target, nil
}

// SetAvailability toggles the owner's availability flag. Setting the
// same value twice is a content no-op but still refreshes updated_at.
func (u *profileUsecase) SetAvailability(ctx context.Context, availability string) (*domain.Profile, error) {
	id, _, ok := authz.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	value := domain.Availability(availability)
	if !value.Valid() {
		return nil, apperror.BadRequest("Availability must be 'available' or 'unavailable'")
	}

	profile, err := u.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if profile == nil {
		return nil, apperror.NotFound("Profile not found")
	}

	if err := u.profiles.UpdateAvailability(ctx, id, value); err != nil {
		return nil, err
	}
	profile.Availability = value
	profile.UpdatedAt = time.Now()
	return profile, nil
}

func (u *profileUsecase) AddProject(ctx context.Context, title string, image *domain.UploadFile) (*domain.Project, error) {
	id, _, ok := authz.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	project := &domain.Project{UserID: id, Title: title}
	if err := u.validate.Struct(project); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}
	if image == nil {
		return nil, apperror.BadRequest("Project image is required")
	}
	if err := storage.ValidateImage(image.Name, image.Data); err != nil {
		return nil, apperror.BadRequest(err.Error())
	}

	existing, err := u.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if existing == nil {
		return nil, apperror.NotFound("Submit your profile before adding projects")
	}

	compressed, err := storage.CompressImage(image.Data, projectImageMaxDimension, projectImageQuality)
	if err != nil {
		return nil, apperror.BadRequest("Could not process image: " + err.Error())
	}

	key := fmt.Sprintf("projects/%s/%d-%s.jpg", id, time.Now().UnixMilli(), baseName(image.Name))
	url, err := u.objects.Upload(ctx, key, compressed, "image/jpeg")
	if err != nil {
		return nil, apperror.Storage("Project image upload failed", err)
	}
	project.ImageURL = url

	if err := u.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (u *profileUsecase) ListMyProjects(ctx context.Context) ([]domain.Project, error) {
	id, _, ok := authz.IdentityFromContext(ctx)
	if !ok {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	projects, err := u.projects.ListByUserID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return projects, nil
}

// baseName reduces an uploaded filename to a safe ASCII slug for object
// keys (the store rejects non-ASCII key characters).
func baseName(filename string) string {
	name := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
