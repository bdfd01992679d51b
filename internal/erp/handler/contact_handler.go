package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// ContactHandler 联系人与付款条件处理器
type ContactHandler struct {
	svc *service.ContactService
}

func NewContactHandler(svc *service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// POST /api/v1/erp/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	contact, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, contact)
}

// GET /api/v1/erp/contacts?type=CUSTOMER&search=xxx
func (h *ContactHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(c.Request.Context(), repository.ContactListParams{
		Type:    c.Query("type"),
		Keyword: c.Query("search"),
		Page:    page,
		Size:    pageSize,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// GET /api/v1/erp/contacts/:id
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, contact)
}

// POST /api/v1/erp/payment-terms
func (h *ContactHandler) CreatePaymentTerm(c *gin.Context) {
	var req service.CreatePaymentTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	pt, err := h.svc.CreatePaymentTerm(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, pt)
}

// GET /api/v1/erp/payment-terms
func (h *ContactHandler) ListPaymentTerms(c *gin.Context) {
	terms, err := h.svc.ListPaymentTerms(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, terms)
}

// DELETE /api/v1/erp/payment-terms/:id
func (h *ContactHandler) DeletePaymentTerm(c *gin.Context) {
	if err := h.svc.DeletePaymentTerm(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, nil)
}
