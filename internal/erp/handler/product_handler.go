package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
)

// ProductHandler 商品处理器
type ProductHandler struct {
	svc *service.ProductService
}

func NewProductHandler(svc *service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// POST /api/v1/erp/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, p)
}

// GET /api/v1/erp/products?category=TOPS&published=true&search=xxx
func (h *ProductHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	params := repository.ProductListParams{
		Category: c.Query("category"),
		Keyword:  c.Query("search"),
		Page:     page,
		Size:     pageSize,
	}
	if raw := c.Query("published"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			params.Published = &v
		}
	}

	items, total, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessList(c, items, page, pageSize, total)
}

// GET /api/v1/erp/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	p, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, p)
}
