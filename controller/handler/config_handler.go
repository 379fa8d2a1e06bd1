package handler

import (
	"snapship-service/conf"
	"snapship-service/controller/respond"

	"github.com/gin-gonic/gin"
)

// ConfigHandler public configuration and health handler
type ConfigHandler struct {
	upload               conf.UploadConfig
	credentialConfigured func() bool
	historyEnabled       func() bool
}

// NewConfigHandler create config handler instance
func NewConfigHandler(upload conf.UploadConfig, credentialConfigured, historyEnabled func() bool) *ConfigHandler {
	return &ConfigHandler{
		upload:               upload,
		credentialConfigured: credentialConfigured,
		historyEnabled:       historyEnabled,
	}
}

// GetConfig 获取服务配置
// @Summary Get service configuration
// @Description Whether a deployment credential is configured, the upload limit and whether history is kept. The token itself is never returned.
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} respond.Response{data=respond.ConfigResponse}
// @Router /api/v1/config [get]
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	respond.Success(c, respond.ToConfigResponse(h.upload, h.credentialConfigured(), h.historyEnabled()))
}

// Health 健康检查
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *ConfigHandler) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "snapship",
	})
}
