package handler

import (
	"errors"
	"strconv"

	"snapship-service/controller/respond"
	"snapship-service/database"
	"snapship-service/service/history_service"

	"github.com/gin-gonic/gin"
)

// HistoryHandler deployment history handler
type HistoryHandler struct {
	historyService *history_service.HistoryService
}

// NewHistoryHandler create history handler instance
func NewHistoryHandler(historyService *history_service.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// checkHistoryEnabled 检查部署历史是否启用
func (h *HistoryHandler) checkHistoryEnabled(c *gin.Context) bool {
	if !h.historyService.Enabled() {
		respond.Disabled(c, history_service.ErrHistoryDisabled.Error())
		return false
	}
	return true
}

// ListDeployments 获取部署历史列表
// @Summary List deployments
// @Description Deployment history, newest first, with cursor pagination
// @Tags Deployments
// @Accept json
// @Produce json
// @Param cursor query int false "Cursor (offset)" default(0)
// @Param size query int false "Page size (max 100)" default(20)
// @Success 200 {object} respond.Response{data=respond.DeploymentListResponse}
// @Failure 500 {object} respond.Response
// @Failure 503 {object} respond.Response
// @Router /api/v1/deployments [get]
func (h *HistoryHandler) ListDeployments(c *gin.Context) {
	if !h.checkHistoryEnabled(c) {
		return
	}

	cursor, err := strconv.ParseInt(c.DefaultQuery("cursor", "0"), 10, 64)
	if err != nil || cursor < 0 {
		respond.InvalidParam(c, "invalid cursor")
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(history_service.DefaultPageSize)))
	if err != nil {
		respond.InvalidParam(c, "invalid size")
		return
	}

	records, nextCursor, hasMore, err := h.historyService.List(cursor, size)
	if err != nil {
		respond.ServerError(c, err.Error())
		return
	}

	respond.Success(c, respond.ToDeploymentListResponse(records, nextCursor, hasMore))
}

// GetDeployment 根据 ID 获取部署记录
// @Summary Get a deployment
// @Description Single deployment history record
// @Tags Deployments
// @Accept json
// @Produce json
// @Param id path string true "Deployment ID"
// @Success 200 {object} respond.Response{data=respond.DeploymentRecordResponse}
// @Failure 404 {object} respond.Response
// @Failure 503 {object} respond.Response
// @Router /api/v1/deployments/{id} [get]
func (h *HistoryHandler) GetDeployment(c *gin.Context) {
	if !h.checkHistoryEnabled(c) {
		return
	}

	id := c.Param("id")
	if id == "" {
		respond.InvalidParam(c, "id is required")
		return
	}

	record, err := h.historyService.Get(id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respond.NotFound(c, "deployment not found")
			return
		}
		respond.ServerError(c, err.Error())
		return
	}

	respond.Success(c, respond.ToDeploymentRecordResponse(record))
}
