package v1

import (
	"net/http"
	"strconv"

	"bizconnect-backend/internal/delivery/http/response"
	"bizconnect-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type DirectoryHandler struct {
	directoryUC domain.DirectoryUsecase
	profileUC   domain.ProfileUsecase
}

// NewDirectoryHandler registers the public read surface: the approved
// directory and per-username profile pages.
func NewDirectoryHandler(public *gin.RouterGroup, directoryUC domain.DirectoryUsecase, profileUC domain.ProfileUsecase) {
	handler := &DirectoryHandler{directoryUC: directoryUC, profileUC: profileUC}

	public.GET("/directory", handler.ListDirectory)
	public.GET("/u/:username", handler.GetPublicProfile)
}

// ListDirectory godoc
// @Summary      Browse the public directory
// @Description  Lists approved profiles, available-first then newest-first. Search matches name, job title and bio.
// @Tags         directory
// @Produce      json
// @Param        search          query     string  false  "Case-insensitive substring search"
// @Param        available_only  query     bool    false  "Only currently available professionals"
// @Param        with_projects   query     bool    false  "Include portfolio projects"
// @Success      200  {object}  response.Response{data=[]domain.Profile}
// @Router       /directory [get]
func (h *DirectoryHandler) ListDirectory(c *gin.Context) {
	availableOnly, _ := strconv.ParseBool(c.DefaultQuery("available_only", "false"))
	withProjects, _ := strconv.ParseBool(c.DefaultQuery("with_projects", "false"))

	profiles, err := h.directoryUC.ListApproved(c, domain.DirectoryFilter{
		Search:        c.Query("search"),
		AvailableOnly: availableOnly,
		WithProjects:  withProjects,
	})
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Directory", profiles)
}

// GetPublicProfile godoc
// @Summary      View a public profile
// @Description  Resolves an approved profile by its public username, with portfolio projects.
// @Tags         directory
// @Produce      json
// @Param        username  path      string  true  "Public username"
// @Success      200       {object}  response.Response{data=domain.Profile}
// @Failure      404       {object}  response.Response
// @Router       /u/{username} [get]
func (h *DirectoryHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.profileUC.GetPublicProfile(c, c.Param("username"))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}
