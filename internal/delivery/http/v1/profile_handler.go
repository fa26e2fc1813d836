package v1

import (
	"io"
	"mime/multipart"
	"net/http"

	"bizconnect-backend/internal/delivery/http/response"
	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Uploads are buffered in memory before hitting the object store.
const maxUploadBytes = 10 << 20 // 10 MiB

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/profiles")
	{
		profiles.POST("", handler.SubmitProfile)
		profiles.GET("/me", handler.GetMyProfile)
		profiles.PATCH("/me/availability", handler.SetAvailability)
		profiles.POST("/me/projects", handler.AddProject)
		profiles.GET("/me/projects", handler.ListMyProjects)
	}
}

// SubmitProfile godoc
// @Summary      Submit or update own profile
// @Description  Creates or updates the caller's profile. Accepts multipart form with an optional PDF resume; new profiles enter the review queue.
// @Tags         profiles
// @Accept       mpfd
// @Produce      json
// @Param        full_name        formData  string  true   "Full name"
// @Param        job_title        formData  string  true   "Job title"
// @Param        bio_description  formData  string  false  "Short bio"
// @Param        username         formData  string  false  "Public username (lowercase alphanumerics)"
// @Param        phone_number     formData  string  false  "Phone number"
// @Param        skills           formData  string  false  "Comma-separated skills"
// @Param        resume           formData  file    false  "Resume (PDF)"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      502  {object}  response.Response
// @Router       /profiles [post]
// @Security     BearerAuth
func (h *ProfileHandler) SubmitProfile(c *gin.Context) {
	input := domain.SubmitProfileInput{
		FullName:       c.PostForm("full_name"),
		JobTitle:       c.PostForm("job_title"),
		BioDescription: c.PostForm("bio_description"),
		Username:       c.PostForm("username"),
		PhoneNumber:    c.PostForm("phone_number"),
		SkillsRaw:      c.PostForm("skills"),
	}
	if form, err := c.MultipartForm(); err == nil {
		if list, ok := form.Value["skills[]"]; ok {
			input.Skills = list
		}
	}

	resume, err := readFormFile(c, "resume")
	if err != nil {
		c.Error(err)
		return
	}

	profile, err := h.profileUC.SubmitProfile(c, input, resume)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile submitted", profile)
}

// GetMyProfile godoc
// @Summary      Get own profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profiles/me [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetMyProfile(c *gin.Context) {
	profile, err := h.profileUC.GetMyProfile(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}

type setAvailabilityRequest struct {
	Availability string `json:"availability_status" binding:"required"`
}

// SetAvailability godoc
// @Summary      Toggle own availability
// @Description  Sets availability_status; repeating the same value still refreshes updated_at.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        body  body      setAvailabilityRequest  true  "New availability"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Router       /profiles/me/availability [patch]
// @Security     BearerAuth
func (h *ProfileHandler) SetAvailability(c *gin.Context) {
	var req setAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("availability_status is required"))
		return
	}

	profile, err := h.profileUC.SetAvailability(c, req.Availability)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Availability updated", profile)
}

// AddProject godoc
// @Summary      Add a portfolio project
// @Description  Uploads a project image (compressed server-side) and records the project.
// @Tags         profiles
// @Accept       mpfd
// @Produce      json
// @Param        title  formData  string  true  "Project title"
// @Param        image  formData  file    true  "Project image (jpg/png/webp)"
// @Success      201    {object}  response.Response{data=domain.Project}
// @Failure      400    {object}  response.Response
// @Failure      502    {object}  response.Response
// @Router       /profiles/me/projects [post]
// @Security     BearerAuth
func (h *ProfileHandler) AddProject(c *gin.Context) {
	title := c.PostForm("title")

	image, err := readFormFile(c, "image")
	if err != nil {
		c.Error(err)
		return
	}

	project, err := h.profileUC.AddProject(c, title, image)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Project added", project)
}

// ListMyProjects godoc
// @Summary      List own portfolio projects
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Project}
// @Router       /profiles/me/projects [get]
// @Security     BearerAuth
func (h *ProfileHandler) ListMyProjects(c *gin.Context) {
	projects, err := h.profileUC.ListMyProjects(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Projects", projects)
}

// readFormFile buffers an optional multipart file. A missing field is
// not an error; an oversized or unreadable one is.
func readFormFile(c *gin.Context, field string) (*domain.UploadFile, error) {
	fileHeader, err := c.FormFile(field)
	if err == multipart.ErrMessageTooLarge {
		return nil, apperror.BadRequest("Uploaded file is too large")
	}
	if err != nil {
		// Missing field; the usecase decides whether the file is required.
		return nil, nil
	}

	if fileHeader.Size > maxUploadBytes {
		return nil, apperror.BadRequest("Uploaded file is too large")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, apperror.BadRequest("Could not read uploaded file")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		return nil, apperror.BadRequest("Could not read uploaded file")
	}
	if len(data) > maxUploadBytes {
		return nil, apperror.BadRequest("Uploaded file is too large")
	}

	return &domain.UploadFile{
		Name:        fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
