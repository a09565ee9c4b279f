package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/middleware"
	"github.com/openpress/openpress-backend/internal/service"
)

// ConflictHandler handles HTTP requests for edit conflicts
type ConflictHandler struct {
	service service.ConflictService
}

// NewConflictHandler creates a new ConflictHandler
func NewConflictHandler(service service.ConflictService) *ConflictHandler {
	return &ConflictHandler{service: service}
}

// Resolve godoc
// @Summary      Resolve an edit conflict
// @Description  Runs a merge strategy (semantic, sectional, hybrid or manual) over the conflicted payloads and commits the result as a new version
// @Tags         conflicts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                         true  "Conflict ID"
// @Param        request  body      domain.ResolveConflictRequest  true  "Resolution request"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /conflicts/{id}/resolve [post]
func (h *ConflictHandler) Resolve(c *gin.Context) {
	conflictID := c.Param("id")

	var req domain.ResolveConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ctx := middleware.GetRequestContext(c)
	newVersionID, err := h.service.Resolve(ctx, conflictID, req.Strategy, req.Data)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Resolution failed", err)
		return
	}

	common.SuccessResponse(c, gin.H{"resolution_version_id": newVersionID}, nil)
}

// GetConflict godoc
// @Summary      Fetch a conflict
// @Tags         conflicts
// @Produce      json
// @Param        id  path  string  true  "Conflict ID"
// @Success      200  {object}  common.APIResponse{data=domain.EditConflict}
// @Failure      404  {object}  common.APIResponse
// @Router       /conflicts/{id} [get]
func (h *ConflictHandler) GetConflict(c *gin.Context) {
	conflictID := c.Param("id")

	data, err := h.service.Get(conflictID)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Conflict not found", err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// ListOpenConflicts godoc
// @Summary      List open conflicts
// @Description  Lists the unresolved edit conflicts of a content item
// @Tags         conflicts
// @Produce      json
// @Param        id  path  string  true  "Content ID"
// @Success      200  {object}  common.APIResponse{data=[]domain.EditConflict}
// @Router       /contents/{id}/conflicts [get]
func (h *ConflictHandler) ListOpenConflicts(c *gin.Context) {
	contentID := c.Param("id")

	data, err := h.service.ListOpen(contentID)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Failed to list conflicts", err)
		return
	}

	common.SuccessResponse(c, data, &common.Meta{ContentID: contentID})
}
