package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// BillingHandler 客户发票与供应商账单处理器
type BillingHandler struct {
	svc *service.BillingService
}

func NewBillingHandler(svc *service.BillingService) *BillingHandler {
	return &BillingHandler{svc: svc}
}

// CreateInvoice 从销售订单开票
// POST /api/v1/erp/invoices
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	var req service.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	inv, err := h.svc.GenerateInvoice(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, inv)
}

// GetInvoice 发票详情
// GET /api/v1/erp/invoices/:id
func (h *BillingHandler) GetInvoice(c *gin.Context) {
	inv, err := h.svc.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, inv)
}

// ListInvoices 发票列表
// GET /api/v1/erp/invoices?status=xxx&customerId=xxx
func (h *BillingHandler) ListInvoices(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListInvoices(c.Request.Context(), repository.InvoiceListParams{
		Status:     c.Query("status"),
		CustomerID: c.Query("customerId"),
		Page:       page,
		Size:       pageSize,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// CreateBill 从采购订单生成账单
// POST /api/v1/erp/vendor-bills
func (h *BillingHandler) CreateBill(c *gin.Context) {
	var req service.GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	bill, err := h.svc.GenerateBill(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, bill)
}

// GetBill 账单详情
// GET /api/v1/erp/vendor-bills/:id
func (h *BillingHandler) GetBill(c *gin.Context) {
	bill, err := h.svc.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, bill)
}

// UpdateBill 更新草稿账单或将其确认为待付
// PUT /api/v1/erp/vendor-bills/:id
func (h *BillingHandler) UpdateBill(c *gin.Context) {
	var req service.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	bill, err := h.svc.UpdateBill(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, bill)
}

// DeleteBill 删除账单，已有付款时拒绝
// DELETE /api/v1/erp/vendor-bills/:id
func (h *BillingHandler) DeleteBill(c *gin.Context) {
	if err := h.svc.DeleteBill(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
