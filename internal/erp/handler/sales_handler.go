package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// SalesHandler 销售订单处理器
type SalesHandler struct {
	svc *service.SalesService
}

func NewSalesHandler(svc *service.SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

// Create 创建销售订单
// POST /api/v1/erp/sale-orders
func (h *SalesHandler) Create(c *gin.Context) {
	var req service.CreateSaleOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	// 门户用户只能给自己下单
	if GetRole(c) == "PORTAL" {
		if contactID := GetContactID(c); contactID != "" {
			req.CustomerID = contactID
		}
	}

	so, err := h.svc.Create(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, so)
}

// List 销售订单列表
// GET /api/v1/erp/sale-orders?status=xxx&customerId=xxx&search=xxx
func (h *SalesHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.SaleOrderListParams{
		Status:     c.Query("status"),
		CustomerID: c.Query("customerId"),
		Keyword:    c.Query("search"),
		Page:       page,
		Size:       pageSize,
	}

	// 门户用户只能看自己的订单
	if GetRole(c) == "PORTAL" {
		if contactID := GetContactID(c); contactID != "" {
			params.CustomerID = contactID
		}
	}

	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// Get 销售订单详情
// GET /api/v1/erp/sale-orders/:id
func (h *SalesHandler) Get(c *gin.Context) {
	so, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, so)
}

// Confirm 确认销售订单，扣减库存并核销优惠券
// POST /api/v1/erp/sale-orders/:id
func (h *SalesHandler) Confirm(c *gin.Context) {
	so, err := h.svc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, so)
}

// Cancel 取消销售订单，已确认的回补库存
// DELETE /api/v1/erp/sale-orders/:id
func (h *SalesHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
