package review

import (
	"net/http"

	"land-document-service/internal/errors"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type ReasonRequest struct {
	Reason *string `json:"reason" binding:"omitempty,max=1000"`
}

type CompleteReviewRequest struct {
	Decision string  `json:"decision" binding:"required,oneof=approved rejected"`
	Reason   *string `json:"reason" binding:"omitempty,max=1000"`
}

func (h *Handler) Lock(c *gin.Context) {
	var form ReasonRequest
	if err := c.ShouldBindJSON(&form); err != nil && c.Request.ContentLength > 0 {
		c.Error(errors.NewValidationError(err))
		return
	}

	actorID, _ := c.Get("actor_id")

	version, err := h.service.Lock(c.Request.Context(), c.Param("id"), actorID.(string), form.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, version)
}

func (h *Handler) Unlock(c *gin.Context) {
	var form ReasonRequest
	if err := c.ShouldBindJSON(&form); err != nil && c.Request.ContentLength > 0 {
		c.Error(errors.NewValidationError(err))
		return
	}

	actorID, _ := c.Get("actor_id")

	version, err := h.service.Unlock(c.Request.Context(), c.Param("id"), actorID.(string), form.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, version)
}

// ForceUnlock releases another reviewer's lock. Admin only; the release is
// audited with a forced marker.
func (h *Handler) ForceUnlock(c *gin.Context) {
	role, _ := c.Get("actor_role")
	if role != "admin" {
		c.Error(errors.Forbidden("Only admins can force-unlock a version", nil))
		return
	}

	var form ReasonRequest
	if err := c.ShouldBindJSON(&form); err != nil && c.Request.ContentLength > 0 {
		c.Error(errors.NewValidationError(err))
		return
	}

	actorID, _ := c.Get("actor_id")

	version, err := h.service.ForceUnlock(c.Request.Context(), c.Param("id"), actorID.(string), form.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, version)
}

func (h *Handler) Complete(c *gin.Context) {
	var form CompleteReviewRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	actorID, _ := c.Get("actor_id")

	version, err := h.service.CompleteReview(c.Request.Context(), c.Param("id"), actorID.(string), form.Decision, form.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, version)
}

func (h *Handler) Archive(c *gin.Context) {
	var form ReasonRequest
	if err := c.ShouldBindJSON(&form); err != nil && c.Request.ContentLength > 0 {
		c.Error(errors.NewValidationError(err))
		return
	}

	actorID, _ := c.Get("actor_id")

	version, err := h.service.Archive(c.Request.Context(), c.Param("id"), actorID.(string), form.Reason)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, version)
}
