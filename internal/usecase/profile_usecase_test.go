package usecase_test

import (
	"context"
	"errors"
	"testing"

	"bizconnect-backend/internal/authz"
	"bizconnect-backend/internal/domain"
	"bizconnect-backend/internal/usecase"
	"bizconnect-backend/pkg/apperror"
	"bizconnect-backend/pkg/logger"
	"bizconnect-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) Upsert(ctx context.Context, profile *domain.Profile) error {
	return m.Called(ctx, profile).Error(0)
}

func (m *MockProfileRepo) UpdateStatus(ctx context.Context, id string, status domain.ModerationStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockProfileRepo) UpdateAvailability(ctx context.Context, id string, availability domain.Availability) error {
	return m.Called(ctx, id, availability).Error(0)
}

func (m *MockProfileRepo) ListByStatus(ctx context.Context, status domain.ModerationStatus) ([]domain.Profile, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) CountByStatus(ctx context.Context) (map[domain.ModerationStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[domain.ModerationStatus]int64), args.Error(1)
}

type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}

func (m *MockProjectRepo) ListByUserID(ctx context.Context, userID string) ([]domain.Project, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByUserIDs(ctx context.Context, userIDs []string) (map[string][]domain.Project, error) {
	args := m.Called(ctx, userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]domain.Project), args.Error(1)
}

type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyStatusChange(profile *domain.Profile) error {
	return m.Called(profile).Error(0)
}

func newValidator() *validator.Validate {
	v := validator.New()
	validation.RegisterValidators(v)
	return v
}

func authedCtx(id, email string) context.Context {
	ctx := context.WithValue(context.Background(), domain.KeyUserID, id)
	return context.WithValue(ctx, domain.KeyUserEmail, email)
}

// %PDF header so the upload passes content sniffing.
var pdfBytes = []byte("%PDF-1.4 test resume")

func validInput() domain.SubmitProfileInput {
	return domain.SubmitProfileInput{
		FullName: "Jane Doe",
		JobTitle: "Backend Engineer",
		Username: "janedoe",
		Skills:   []string{"Go", "Postgres"},
	}
}

func TestSubmitProfileAuth(t *testing.T) {
	profiles := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)

	t.Run("Should fail safely when identity is missing", func(t *testing.T) {
		_, err := uc.SubmitProfile(context.Background(), validInput(), nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not authenticated")
		profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}

func TestSubmitProfileValidation(t *testing.T) {
	profiles := new(MockProfileRepo)
	uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)
	ctx := authedCtx("user1", "jane@example.com")

	t.Run("Should reject malformed username before any store write", func(t *testing.T) {
		input := validInput()
		input.Username = "Jane_Doe"
		_, err := uc.SubmitProfile(ctx, input, nil)
		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 400, appErr.Code)
		profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should reject missing full name", func(t *testing.T) {
		input := validInput()
		input.FullName = ""
		_, err := uc.SubmitProfile(ctx, input, nil)
		assert.Error(t, err)
		profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should reject invalid phone number", func(t *testing.T) {
		input := validInput()
		input.PhoneNumber = "call-me-maybe"
		_, err := uc.SubmitProfile(ctx, input, nil)
		assert.Error(t, err)
	})
}

func TestSubmitProfileModeration(t *testing.T) {
	ctx := authedCtx("user1", "jane@example.com")

	t.Run("First submission enters review as pending", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "user1").Return(nil, nil)

		var saved *domain.Profile
		profiles.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Profile")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*domain.Profile) }).
			Return(nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)
		result, err := uc.SubmitProfile(ctx, validInput(), nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPending, result.Status)
		assert.Equal(t, domain.Unavailable, result.Availability)
		assert.Equal(t, "jane@example.com", saved.Email)
	})

	t.Run("First submission is approved when auto-approve is on", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "user1").Return(nil, nil)
		profiles.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), true)
		result, err := uc.SubmitProfile(ctx, validInput(), nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, result.Status)
	})

	t.Run("Owner edit keeps an approved profile approved", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "user1").Return(&domain.Profile{
			ID:           "user1",
			Status:       domain.StatusApproved,
			Availability: domain.Available,
			ResumeURL:    "https://cdn.example.com/resumes/old.pdf",
		}, nil)
		profiles.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)
		result, err := uc.SubmitProfile(ctx, validInput(), nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, result.Status)
		assert.Equal(t, domain.Available, result.Availability)
		assert.Equal(t, "https://cdn.example.com/resumes/old.pdf", result.ResumeURL,
			"résumé must survive an edit without a new upload")
	})

	t.Run("Resubmission after rejection re-enters review", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "user1").Return(&domain.Profile{
			ID:     "user1",
			Status: domain.StatusRejected,
		}, nil)
		profiles.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)
		result, err := uc.SubmitProfile(ctx, validInput(), nil)

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPending, result.Status)
	})
}

func TestSubmitProfileResume(t *testing.T) {
	ctx := authedCtx("user1", "jane@example.com")

	t.Run("Failed upload aborts the submission", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		objects := new(MockObjectStore)
		objects.On("Upload", mock.Anything, mock.Anything, mock.Anything, "application/pdf").
			Return("", errors.New("bucket unreachable"))

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), objects, nil, authz.NewGate(nil), newValidator(), false)
		_, err := uc.SubmitProfile(ctx, validInput(), &domain.UploadFile{Name: "resume.pdf", Data: pdfBytes})

		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 502, appErr.Code)
		profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Rejects non-PDF résumé", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		objects := new(MockObjectStore)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), objects, nil, authz.NewGate(nil), newValidator(), false)
		_, err := uc.SubmitProfile(ctx, validInput(), &domain.UploadFile{Name: "resume.exe", Data: []byte{0x4D, 0x5A}})

		assert.Error(t, err)
		objects.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stores the returned URL under a resumes key", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "user1").Return(nil, nil)
		profiles.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Profile")).Return(nil)

		objects := new(MockObjectStore)
		objects.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
			return len(key) > len("resumes/") && key[:len("resumes/")] == "resumes/"
		}), pdfBytes, "application/pdf").Return("https://cdn.example.com/resumes/new.pdf", nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), objects, nil, authz.NewGate(nil), newValidator(), false)
		result, err := uc.SubmitProfile(ctx, validInput(), &domain.UploadFile{Name: "resume.pdf", Data: pdfBytes})

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/resumes/new.pdf", result.ResumeURL)
	})
}

func TestSubmitProfileUsernameConflict(t *testing.T) {
	ctx := authedCtx("user1", "jane@example.com")

	profiles := new(MockProfileRepo)
	profiles.On("GetByID", mock.Anything, "user1").Return(nil, nil)
	profiles.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.Profile")).
		Return(apperror.Conflict("Username is already taken"))

	uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)
	_, err := uc.SubmitProfile(ctx, validInput(), nil)

	var appErr *apperror.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 409, appErr.Code)
}

func TestSetStatus(t *testing.T) {
	logger.Init()
	gate := authz.NewGate([]string{"Admin@Example.com"})

	t.Run("Rejects non-admin before touching the store", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, gate, newValidator(), false)

		_, err := uc.SetStatus(authedCtx("user1", "jane@example.com"), "target", "approved")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 403, appErr.Code)
		profiles.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Rejects anonymous caller", func(t *testing.T) {
		uc := usecase.NewProfileUsecase(new(MockProfileRepo), new(MockProjectRepo), new(MockObjectStore), nil, gate, newValidator(), false)
		_, err := uc.SetStatus(context.Background(), "target", "approved")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 401, appErr.Code)
	})

	t.Run("Rejects statuses outside the decision set", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, gate, newValidator(), false)

		_, err := uc.SetStatus(authedCtx("admin1", "admin@example.com"), "target", "pending")
		assert.Error(t, err)
		profiles.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Approves and notifies the owner", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "target").Return(&domain.Profile{
			ID: "target", Email: "jane@example.com", Status: domain.StatusPending,
		}, nil)
		profiles.On("UpdateStatus", mock.Anything, "target", domain.StatusApproved).Return(nil)

		notifier := new(MockNotifier)
		notifier.On("NotifyStatusChange", mock.AnythingOfType("*domain.Profile")).Return(nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), notifier, gate, newValidator(), false)
		result, err := uc.SetStatus(authedCtx("admin1", "admin@example.com"), "target", "approved")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, result.Status)
		notifier.AssertExpectations(t)
	})

	t.Run("Decision stands when notification fails", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "target").Return(&domain.Profile{
			ID: "target", Status: domain.StatusPending,
		}, nil)
		profiles.On("UpdateStatus", mock.Anything, "target", domain.StatusRejected).Return(nil)

		notifier := new(MockNotifier)
		notifier.On("NotifyStatusChange", mock.AnythingOfType("*domain.Profile")).Return(errors.New("smtp down"))

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), notifier, gate, newValidator(), false)
		result, err := uc.SetStatus(authedCtx("admin1", "admin@example.com"), "target", "rejected")

		assert.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, result.Status)
	})

	t.Run("Unknown profile is a 404", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "ghost").Return(nil, nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, gate, newValidator(), false)
		_, err := uc.SetStatus(authedCtx("admin1", "admin@example.com"), "ghost", "approved")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})
}

func TestSetAvailability(t *testing.T) {
	ctx := authedCtx("user1", "jane@example.com")

	t.Run("Rejects unknown values", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)

		_, err := uc.SetAvailability(ctx, "busy")
		assert.Error(t, err)
		profiles.AssertNotCalled(t, "UpdateAvailability", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Setting the same value twice still writes through", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByID", mock.Anything, "user1").Return(&domain.Profile{
			ID: "user1", Availability: domain.Available,
		}, nil)
		profiles.On("UpdateAvailability", mock.Anything, "user1", domain.Available).Return(nil)

		uc := usecase.NewProfileUsecase(profiles, new(MockProjectRepo), new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)
		result, err := uc.SetAvailability(ctx, "available")

		assert.NoError(t, err)
		assert.Equal(t, domain.Available, result.Availability)
		profiles.AssertCalled(t, "UpdateAvailability", mock.Anything, "user1", domain.Available)
	})
}

func TestGetPublicProfile(t *testing.T) {
	uc := func(profiles *MockProfileRepo, projects *MockProjectRepo) domain.ProfileUsecase {
		return usecase.NewProfileUsecase(profiles, projects, new(MockObjectStore), nil, authz.NewGate(nil), newValidator(), false)
	}

	t.Run("Pending profile is not addressable", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByUsername", mock.Anything, "janedoe").Return(&domain.Profile{
			ID: "user1", Username: "janedoe", Status: domain.StatusPending,
		}, nil)

		_, err := uc(profiles, new(MockProjectRepo)).GetPublicProfile(context.Background(), "janedoe")

		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Equal(t, 404, appErr.Code)
	})

	t.Run("Lookup is case-insensitive and attaches projects", func(t *testing.T) {
		profiles := new(MockProfileRepo)
		profiles.On("GetByUsername", mock.Anything, "janedoe").Return(&domain.Profile{
			ID: "user1", Username: "janedoe", Status: domain.StatusApproved,
		}, nil)

		projects := new(MockProjectRepo)
		projects.On("ListByUserID", mock.Anything, "user1").Return([]domain.Project{
			{ID: 1, UserID: "user1", Title: "Portfolio Site"},
		}, nil)

		result, err := uc(profiles, projects).GetPublicProfile(context.Background(), "  JaneDoe ")

		assert.NoError(t, err)
		assert.Len(t, result.Projects, 1)
	})

	t.Run("Empty username is a bad request", func(t *testing.T) {
		_, err := uc(new(MockProfileRepo), new(MockProjectRepo)).GetPublicProfile(context.Background(), "  ")
		assert.Error(t, err)
	})
}
