package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/middleware"
	"github.com/openpress/openpress-backend/internal/service"
)

// TransitionRequest is the API shape for POST /contents/:id/transition
type TransitionRequest struct {
	ToState string `json:"to_state" binding:"required"`
	Reason  string `json:"reason,omitempty"`
}

// WorkflowHandler handles HTTP requests for workflow transitions
type WorkflowHandler struct {
	service service.WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(service service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

// Transition godoc
// @Summary      Request a workflow transition
// @Description  Moves a content item to another lifecycle state. Illegal edges return 409; missing capability returns 403.
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string             true  "Content ID"
// @Param        request  body      TransitionRequest  true  "Transition request"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Failure      409  {object}  common.APIResponse
// @Router       /contents/{id}/transition [post]
func (h *WorkflowHandler) Transition(c *gin.Context) {
	contentID := c.Param("id")

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ctx := middleware.GetRequestContext(c)
	if err := h.service.RequestTransition(ctx, contentID, domain.WorkflowState(req.ToState), req.Reason); err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Transition rejected", err)
		return
	}

	common.SuccessResponse(c, gin.H{"state": req.ToState}, &common.Meta{ContentID: contentID})
}

// GetState godoc
// @Summary      Current workflow state
// @Tags         workflow
// @Produce      json
// @Param        id  path  string  true  "Content ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/state [get]
func (h *WorkflowHandler) GetState(c *gin.Context) {
	contentID := c.Param("id")

	state, err := h.service.GetState(contentID)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Content not found", err)
		return
	}

	common.SuccessResponse(c, gin.H{"state": state}, &common.Meta{ContentID: contentID})
}

// AvailableTransitions godoc
// @Summary      Reachable workflow states
// @Description  Lists the states the content item can move to from its current state
// @Tags         workflow
// @Produce      json
// @Param        id  path  string  true  "Content ID"
// @Success      200  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/transitions [get]
func (h *WorkflowHandler) AvailableTransitions(c *gin.Context) {
	contentID := c.Param("id")

	states, err := h.service.AvailableTransitions(contentID)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Content not found", err)
		return
	}

	common.SuccessResponse(c, gin.H{"transitions": states}, &common.Meta{ContentID: contentID})
}
