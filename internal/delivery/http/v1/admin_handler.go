package v1

import (
	"net/http"

	"bizconnect-backend/internal/delivery/http/response"
	"bizconnect-backend/internal/domain"
	"bizconnect-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	directoryUC domain.DirectoryUsecase
	profileUC   domain.ProfileUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, directoryUC domain.DirectoryUsecase, profileUC domain.ProfileUsecase) {
	handler := &AdminHandler{directoryUC: directoryUC, profileUC: profileUC}

	admin := protected.Group("/admin")
	{
		admin.GET("/stats", handler.GetStats)
		admin.GET("/profiles/pending", handler.ListPending)
		admin.PATCH("/profiles/:id/status", handler.SetStatus)
	}
}

// GetStats godoc
// @Summary      Moderation dashboard statistics
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=domain.DirectoryStats}
// @Failure      403  {object}  response.Response
// @Router       /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.directoryUC.GetStats(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Dashboard statistics", stats)
}

// ListPending godoc
// @Summary      List profiles awaiting review
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]domain.Profile}
// @Failure      403  {object}  response.Response
// @Router       /admin/profiles/pending [get]
func (h *AdminHandler) ListPending(c *gin.Context) {
	profiles, err := h.directoryUC.ListPending(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Pending profiles", profiles)
}

type setStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus godoc
// @Summary      Approve or reject a profile
// @Description  Applies a moderation decision. The change is immediately reflected in directory reads.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Profile ID"
// @Param        body  body      setStatusRequest  true  "New status (approved or rejected)"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/profiles/{id}/status [patch]
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("status is required"))
		return
	}

	profile, err := h.profileUC.SetStatus(c, c.Param("id"), req.Status)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Status updated", profile)
}
