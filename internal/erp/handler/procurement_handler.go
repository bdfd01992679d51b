package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// ProcurementHandler 采购订单处理器
type ProcurementHandler struct {
	svc *service.ProcurementService
}

func NewProcurementHandler(svc *service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{svc: svc}
}

// Create 创建采购订单
// POST /api/v1/erp/purchase-orders
func (h *ProcurementHandler) Create(c *gin.Context) {
	var req service.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	po, err := h.svc.Create(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, po)
}

// List 采购订单列表
// GET /api/v1/erp/purchase-orders?status=xxx&vendorId=xxx
func (h *ProcurementHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), repository.PurchaseOrderListParams{
		Status:   c.Query("status"),
		VendorID: c.Query("vendorId"),
		Keyword:  c.Query("search"),
		Page:     page,
		Size:     pageSize,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// Get 采购订单详情
// GET /api/v1/erp/purchase-orders/:id
func (h *ProcurementHandler) Get(c *gin.Context) {
	po, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, po)
}

// Confirm 确认采购订单并入库
// POST /api/v1/erp/purchase-orders/:id
func (h *ProcurementHandler) Confirm(c *gin.Context) {
	po, err := h.svc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, po)
}

// Cancel 取消采购订单，已确认的扣回库存
// DELETE /api/v1/erp/purchase-orders/:id
func (h *ProcurementHandler) Cancel(c *gin.Context) {
	if err := h.svc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
