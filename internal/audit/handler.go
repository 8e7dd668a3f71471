package audit

import (
	"net/http"

	"land-document-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Index(c *gin.Context) {
	filter := Filter{
		ProjectID:    c.Param("projectId"),
		DocumentType: c.Query("document_type"),
		ActionType:   c.Query("action"),
	}

	page, pageSize := utils.GetPaginationParams(c)
	result, err := h.service.Query(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
