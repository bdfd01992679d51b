package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// SettingsHandler 系统设置处理器
type SettingsHandler struct {
	svc *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GET /api/v1/erp/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.svc.Get(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, settings)
}

// PUT /api/v1/erp/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req service.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, settings)
}
