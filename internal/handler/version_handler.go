package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openpress/openpress-backend/internal/common"
	"github.com/openpress/openpress-backend/internal/domain"
	"github.com/openpress/openpress-backend/internal/middleware"
	"github.com/openpress/openpress-backend/internal/service"
	"github.com/openpress/openpress-backend/pkg/ginutil"
)

// VersionHandler handles HTTP requests for content versions
type VersionHandler struct {
	service service.VersionService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(service service.VersionService) *VersionHandler {
	return &VersionHandler{service: service}
}

// CreateVersion godoc
// @Summary      Commit a new version
// @Description  Commits an edit as a new version. A stale based_on_version_id does not reject the write; the conflict is flagged in the response.
// @Tags         versions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                       true  "Content ID"
// @Param        request  body      domain.CreateVersionRequest  true  "Version commit request"
// @Success      201  {object}  common.APIResponse{data=domain.VersionCommitResponse}
// @Failure      400  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/versions [post]
func (h *VersionHandler) CreateVersion(c *gin.Context) {
	contentID := c.Param("id")

	var req domain.CreateVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	ctx := middleware.GetRequestContext(c)
	data, err := h.service.CreateVersion(ctx, contentID, &req)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Failed to commit version", err)
		return
	}

	c.JSON(201, common.APIResponse{Data: data})
}

// ListVersions godoc
// @Summary      List version history
// @Description  Lists versions of a content item, newest first, without payloads
// @Tags         versions
// @Produce      json
// @Param        id     path      string  true   "Content ID"
// @Param        limit  query     int     false  "Maximum entries (default: 50)"  default(50)
// @Success      200  {object}  common.APIResponse{data=[]domain.VersionSummary}
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/versions [get]
func (h *VersionHandler) ListVersions(c *gin.Context) {
	contentID := c.Param("id")
	limit := ginutil.QueryIntInRange(c, "limit", 50, 1, 200)

	data, err := h.service.ListVersions(contentID, limit)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Failed to list versions", err)
		return
	}

	common.SuccessResponse(c, data, &common.Meta{ContentID: contentID})
}

// GetVersion godoc
// @Summary      Fetch a version
// @Description  Returns one version including its payload
// @Tags         versions
// @Produce      json
// @Param        version_id  path  string  true  "Version ID"
// @Success      200  {object}  common.APIResponse{data=domain.ContentVersion}
// @Failure      404  {object}  common.APIResponse
// @Router       /versions/{version_id} [get]
func (h *VersionHandler) GetVersion(c *gin.Context) {
	versionID := c.Param("version_id")

	data, err := h.service.GetVersion(versionID)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Version not found", err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// GetMetadata godoc
// @Summary      Fetch version metadata
// @Description  Returns parent linkage, conflict status and rollback provenance of a version
// @Tags         versions
// @Produce      json
// @Param        version_id  path  string  true  "Version ID"
// @Success      200  {object}  common.APIResponse{data=domain.VersionMetadata}
// @Failure      404  {object}  common.APIResponse
// @Router       /versions/{version_id}/metadata [get]
func (h *VersionHandler) GetMetadata(c *gin.Context) {
	versionID := c.Param("version_id")

	data, err := h.service.GetMetadata(versionID)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Version metadata not found", err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// CheckConflict godoc
// @Summary      Pre-flight conflict check
// @Description  Reports whether an edit based on the given version would be flagged as a concurrent-edit conflict
// @Tags         versions
// @Produce      json
// @Param        id        path   string  true  "Content ID"
// @Param        based_on  query  string  true  "Version the editor is working from"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/conflict-check [get]
func (h *VersionHandler) CheckConflict(c *gin.Context) {
	contentID := c.Param("id")
	basedOn := c.Query("based_on")
	if basedOn == "" {
		common.ErrorResponse(c, 400, "based_on query parameter is required", nil)
		return
	}

	conflicted, current, err := h.service.DetectConflict(contentID, basedOn)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Conflict check failed", err)
		return
	}

	common.SuccessResponse(c, gin.H{
		"conflict":           conflicted,
		"current_version_id": current.ID,
	}, nil)
}

// Diff godoc
// @Summary      Diff two versions
// @Description  Returns the line-level diff from the against version to the given version
// @Tags         versions
// @Produce      json
// @Param        version_id  path   string  true   "Version ID (new side)"
// @Param        against     query  string  true   "Version ID of the old side"
// @Param        format      query  string  false  "diff format: lines (default) or html"
// @Success      200  {object}  common.APIResponse
// @Failure      400  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /versions/{version_id}/diff [get]
func (h *VersionHandler) Diff(c *gin.Context) {
	versionID := c.Param("version_id")
	against := c.Query("against")
	if against == "" {
		common.ErrorResponse(c, 400, "against query parameter is required", nil)
		return
	}

	if c.Query("format") == "html" {
		data, err := h.service.HTMLDiff(versionID, against)
		if err != nil {
			common.ErrorResponse(c, common.HTTPStatus(err), "Failed to compute diff", err)
			return
		}
		common.SuccessResponse(c, data, nil)
		return
	}

	data, err := h.service.Diff(versionID, against)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Failed to compute diff", err)
		return
	}

	common.SuccessResponse(c, data, nil)
}

// Purge godoc
// @Summary      Purge old versions
// @Description  Deletes the oldest versions beyond the retained count. The current version is never purged.
// @Tags         versions
// @Produce      json
// @Security     BearerAuth
// @Param        id    path   string  true   "Content ID"
// @Param        keep  query  int     false  "Versions to retain (default: 50)"  default(50)
// @Success      200  {object}  common.APIResponse
// @Failure      401  {object}  common.APIResponse
// @Failure      404  {object}  common.APIResponse
// @Router       /contents/{id}/versions/purge [post]
func (h *VersionHandler) Purge(c *gin.Context) {
	contentID := c.Param("id")
	keep := ginutil.QueryIntInRange(c, "keep", 50, 1, 1000)

	ctx := middleware.GetRequestContext(c)
	purged, err := h.service.Purge(ctx, contentID, keep)
	if err != nil {
		common.ErrorResponse(c, common.HTTPStatus(err), "Failed to purge versions", err)
		return
	}

	common.SuccessResponse(c, gin.H{"purged": purged}, &common.Meta{ContentID: contentID})
}
