package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
	"go.uber.org/zap"
)

// Handlers ERP处理器集合
type Handlers struct {
	Sales       *SalesHandler
	Procurement *ProcurementHandler
	Billing     *BillingHandler
	Payment     *PaymentHandler
	Coupon      *CouponHandler
	Report      *ReportHandler
	Contact     *ContactHandler
	Product     *ProductHandler
	Settings    *SettingsHandler
}

// NewHandlers 创建ERP处理器集合
func NewHandlers(svcs *service.Services) *Handlers {
	return &Handlers{
		Sales:       NewSalesHandler(svcs.Sales),
		Procurement: NewProcurementHandler(svcs.Procurement),
		Billing:     NewBillingHandler(svcs.Billing),
		Payment:     NewPaymentHandler(svcs.Payment),
		Coupon:      NewCouponHandler(svcs.Coupon),
		Report:      NewReportHandler(svcs.Report),
		Contact:     NewContactHandler(svcs.Contact),
		Product:     NewProductHandler(svcs.Product),
		Settings:    NewSettingsHandler(svcs.Settings),
	}
}

// === 响应辅助函数 ===

// Response 统一响应体
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Message: message})
}

func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{Success: false, Message: message})
}

// Fail 按业务错误类型映射状态码
// 非业务错误统一返回通用提示，底层错误只进日志
func Fail(c *gin.Context, err error) {
	status := errs.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("请求处理失败",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(status, Response{Success: false, Message: "服务器内部错误"})
		return
	}
	c.JSON(status, Response{Success: false, Message: err.Error()})
}

func SuccessList(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	Success(c, ListResponse{
		Items: items,
		Pagination: &Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      int(total),
			TotalPages: totalPages,
		},
	})
}

func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

func GetRole(c *gin.Context) string {
	role, _ := c.Get("role")
	if r, ok := role.(string); ok {
		return r
	}
	return ""
}

func GetContactID(c *gin.Context) string {
	contactID, _ := c.Get("contact_id")
	if id, ok := contactID.(string); ok {
		return id
	}
	return ""
}

func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}

	return page, pageSize
}
