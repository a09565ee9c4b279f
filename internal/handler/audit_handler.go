package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/repository"
	"github.com/openpress/openpress-backend/pkg/ginutil"
)

// AuditHandler handles HTTP requests for the audit trail
type AuditHandler struct {
	audits repository.AuditRepository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(audits repository.AuditRepository) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// ListAuditLog godoc
// @Summary      Content audit trail
// @Description  Lists the audit entries of a content item in commit order, oldest first
// @Tags         audit
// @Produce      json
// @Param        id          path   string  true   "Content ID"
// @Param        event_type  query  string  false  "Filter by event type"
// @Param        page        query  int     false  "Page number (default: 1)"   default(1)
// @Param        limit       query  int     false  "Entries per page (default: 50)"  default(50)
// @Success      200  {object}  common.APIResponse{data=[]domain.AuditLogEntry}
// @Router       /contents/{id}/audit [get]
func (h *AuditHandler) ListAuditLog(c *gin.Context) {
	contentID := c.Param("id")
	eventType := c.Query("event_type")
	page := ginutil.QueryIntInRange(c, "page", 1, 1, 10000)
	limit := ginutil.QueryIntInRange(c, "limit", 50, 1, 100)

	entries, total, err := h.audits.List(contentID, eventType, page, limit)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Failed to list audit entries", err)
		return
	}

	common.SuccessResponse(c, entries, &common.Meta{
		ContentID: contentID,
		Page:      page,
		Limit:     limit,
		Total:     total,
	})
}
