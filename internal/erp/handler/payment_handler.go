package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// PaymentHandler 付款处理器
type PaymentHandler struct {
	svc *service.PaymentService
}

func NewPaymentHandler(svc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{svc: svc}
}

// Register 登记付款并核销到发票或账单
// POST /api/v1/erp/payments
func (h *PaymentHandler) Register(c *gin.Context) {
	var req service.RegisterPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	payment, err := h.svc.Register(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, payment)
}

// Get 付款详情
// GET /api/v1/erp/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, payment)
}

// List 付款列表
// GET /api/v1/erp/payments?type=INBOUND|OUTBOUND
func (h *PaymentHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), repository.PaymentListParams{
		PaymentType: c.Query("type"),
		Page:        page,
		Size:        pageSize,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// Delete 冲销付款，回退单据已付金额与状态
// DELETE /api/v1/erp/payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
