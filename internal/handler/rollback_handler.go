package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/middleware"
	"github.com/openpress/openpress-backend/internal/service"
)

// RollbackRequest is the API shape for POST /contents/:id/rollback
type RollbackRequest struct {
	TargetVersionID string `json:"target_version_id" binding:"required"`
	Reason          string `json:"reason,omitempty"`
}

// BatchRollbackRequest rolls back several versions in one call
type BatchRollbackRequest struct {
	VersionIDs []string `json:"version_ids" binding:"required,min=1"`
	Reason     string   `json:"reason,omitempty"`
}

// RollbackHandler handles HTTP requests for rollbacks
type RollbackHandler struct {
	service service.RollbackService
}

// NewRollbackHandler creates a new RollbackHandler
func NewRollbackHandler(service service.RollbackService) *RollbackHandler {
	return &RollbackHandler{service: service}
}

// Rollback godoc
// @Summary      Roll back to a prior version
// @Description  Restores the target version's payload as a new version. History is never rewritten.
// @Tags         rollback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string           true  "Content ID"
// @Param        request  body      RollbackRequest  true  "Rollback request"
// @Success      201  {object}  common.APIResponse{data=domain.VersionCommitResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/rollback [post]
func (h *RollbackHandler) Rollback(c *gin.Context) {
	contentID := c.Param("id")

	var req RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ctx := middleware.GetRequestContext(c)
	data, err := h.service.Rollback(ctx, contentID, req.TargetVersionID, req.Reason)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Rollback failed", err)
		return
	}

	c.JSON(201, common.APIResponse{Data: data})
}

// BatchRollback godoc
// @Summary      Roll back several versions
// @Description  Rolls back each listed version independently and reports a per-version outcome
// @Tags         rollback
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      BatchRollbackRequest  true  "Batch rollback request"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Router       /versions/batch-rollback [post]
func (h *RollbackHandler) BatchRollback(c *gin.Context) {
	var req BatchRollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ctx := middleware.GetRequestContext(c)
	outcomes := h.service.BatchRollback(ctx, req.VersionIDs, req.Reason)

	common.SuccessResponse(c, outcomes, nil)
}

// PreviewRollback godoc
// @Summary      Preview a rollback
// @Description  Shows the diff a rollback would apply and warns about structural fields it would drop, without writing anything
// @Tags         rollback
// @Produce      json
// @Param        id      path   string  true  "Content ID"
// @Param        target  query  string  true  "Target version ID"
// @Success      200  {object}  common.APIResponse{data=service.RollbackPreview}
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/rollback/preview [get]
func (h *RollbackHandler) PreviewRollback(c *gin.Context) {
	contentID := c.Param("id")
	target := c.Query("target")
	if target == "" {
		common.ErrorResponse(c, 400, "target query parameter is required", nil)
		return
	}

	data, err := h.service.PreviewRollback(contentID, target)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Preview failed", err)
		return
	}

	common.SuccessResponse(c, data, &common.Meta{ContentID: contentID})
}
