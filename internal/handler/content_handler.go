package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/middleware"
	"github.com/openpress/openpress-backend/internal/service"
)

// ContentHandler handles HTTP requests for content registration
type ContentHandler struct {
	service service.VersionService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service service.VersionService) *ContentHandler {
	return &ContentHandler{service: service}
}

// RegisterContent godoc
// @Summary      Register a content item
// @Description  Registers a new content item; it starts in draft with no versions
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.CreateContentRequest  true  "Content registration request"
// @Success      201  {object}  common.APIResponse{data=domain.Content}
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /contents [post]
func (h *ContentHandler) RegisterContent(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ctx := middleware.GetRequestContext(c)
	data, err := h.service.RegisterContent(ctx, &req)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Failed to register content", err)
		return
	}

	c.JSON(201, common.APIResponse{Data: data})
}
