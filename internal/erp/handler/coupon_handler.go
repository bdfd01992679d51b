package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
	"github.com/stitchlabs/stitch-erp/internal/middleware"
)

// CouponAction 优惠券请求动作
const (
	CouponActionCreateOffer     = "createOffer"
	CouponActionGenerateCoupons = "generateCoupons"
	CouponActionValidate        = "validate"
)

// CouponHandler 折扣活动与优惠券处理器
type CouponHandler struct {
	svc *service.CouponService
}

func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{svc: svc}
}

type couponEnvelope struct {
	Action string `json:"action" binding:"omitempty,oneof=createOffer generateCoupons validate"`
}

// Dispatch 按 action 字段分发到具体操作，缺省为 validate
// POST /api/v1/erp/coupons
func (h *CouponHandler) Dispatch(c *gin.Context) {
	var env couponEnvelope
	if err := c.ShouldBindBodyWith(&env, binding.JSON); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	switch env.Action {
	case CouponActionCreateOffer, CouponActionGenerateCoupons:
		// 建活动与发券是后台操作，路由侧无法按 action 区分，权限在这里收口
		if GetRole(c) != middleware.RoleInternal {
			Forbidden(c, "内部用户专用接口")
			return
		}
	}

	switch env.Action {
	case CouponActionCreateOffer:
		h.createOffer(c)
	case CouponActionGenerateCoupons:
		h.generateCoupons(c)
	case CouponActionValidate, "":
		h.validate(c)
	}
}

func (h *CouponHandler) createOffer(c *gin.Context) {
	var req service.CreateOfferRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	offer, err := h.svc.CreateOffer(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, offer)
}

func (h *CouponHandler) generateCoupons(c *gin.Context) {
	var req service.GenerateCouponsRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	coupons, err := h.svc.GenerateCoupons(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Created(c, coupons)
}

func (h *CouponHandler) validate(c *gin.Context) {
	var req service.ValidateCouponRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.svc.Validate(c.Request.Context(), req)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, result)
}
