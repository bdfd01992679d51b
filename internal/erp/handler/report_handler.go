package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// ReportHandler 报表处理器
type ReportHandler struct {
	svc *service.ReportService
}

func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Run 运行报表
// GET /api/v1/erp/reports?type=sales_by_product&startDate=2025-01-01&endDate=2025-12-31
func (h *ReportHandler) Run(c *gin.Context) {
	reportType := c.Query("type")
	if reportType == "" {
		BadRequest(c, "缺少报表类型")
		return
	}

	start, err := parseDateQuery(c, "startDate")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	end, err := parseDateQuery(c, "endDate")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.Run(c.Request.Context(), service.ReportParams{
		Type:      reportType,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, result)
}

// Export 导出商品销售报表
// GET /api/v1/erp/reports/export?startDate=xxx&endDate=xxx
func (h *ReportHandler) Export(c *gin.Context) {
	start, err := parseDateQuery(c, "startDate")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	end, err := parseDateQuery(c, "endDate")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.svc.ExportSalesByProduct(c.Request.Context(), start, end)
	if err != nil {
		Fail(c, err)
		return
	}

	// 已上传对象存储时返回对象名，否则直接下发文件
	if result.Object != "" {
		Success(c, result)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.FileName))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.Data)
}

func parseDateQuery(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%s 日期格式应为 YYYY-MM-DD", key)
	}
	// 结束日期含当天
	if key == "endDate" {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}
