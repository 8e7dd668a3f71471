package docversion

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

type CreateVersionRequest struct {
	Slot         string  `json:"slot" binding:"omitempty,max=16"`
	FileName     string  `json:"file_name" binding:"required,min=1,max=255"`
	FileSize     int64   `json:"file_size" binding:"required,gt=0"`
	ContentType  string  `json:"content_type" binding:"required,max=128"`
	StorageKey   string  `json:"storage_key" binding:"required,max=255"`
	ChangeReason *string `json:"change_reason" binding:"omitempty,max=1000"`
}

func (h *Handler) Create(c *gin.Context) {
	var form CreateVersionRequest
	if err := c.ShouldBindJSON(&form); err != nil {
		c.Error(errors.NewValidationError(err))
		return
	}

	actorID, _ := c.Get("actor_id")

	req := CreateRequest{
		ProjectID:    c.Param("projectId"),
		DocumentType: c.Param("docType"),
		Slot:         form.Slot,
		FileName:     form.FileName,
		FileSize:     form.FileSize,
		ContentType:  form.ContentType,
		StorageKey:   form.StorageKey,
		ChangeReason: form.ChangeReason,
		ActorID:      actorID.(string),
	}

	result, err := h.service.CreateVersion(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *Handler) Index(c *gin.Context) {
	versions, err := h.service.ListVersions(
		c.Request.Context(),
		c.Param("projectId"),
		c.Param("docType"),
		c.Query("slot"),
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": versions})
}

func (h *Handler) Show(c *gin.Context) {
	version, err := h.service.GetVersionByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, version)
}

func (h *Handler) ShowSummary(c *gin.Context) {
	summary, err := h.service.GetStatusSummary(
		c.Request.Context(),
		c.Param("projectId"),
		c.Param("docType"),
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *Handler) ShowOccupiedSlots(c *gin.Context) {
	slots, err := h.service.GetOccupiedSlots(
		c.Request.Context(),
		c.Param("projectId"),
		c.Param("docType"),
	)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
