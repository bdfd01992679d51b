package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// 业务错误分类，handler 层据此映射 HTTP 状态码

// ValidationError 输入校验失败
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NotFoundError 引用的实体不存在
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s不存在: %s", e.Entity, e.ID)
}

// InvalidStateError 当前状态不允许该转换
type InvalidStateError struct {
	Entity string
	State  string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s状态 %s 不允许%s", e.Entity, e.State, e.Op)
}

// InsufficientStockError 库存不足，携带第一个不满足的商品
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("商品 %s 库存不足: 需要%d, 可用%d", e.ProductName, e.Requested, e.Available)
}

// DuplicateDocumentError 订单已存在对应的账单
type DuplicateDocumentError struct {
	OrderID string
}

func (e *DuplicateDocumentError) Error() string {
	return fmt.Sprintf("订单 %s 已生成账单", e.OrderID)
}

// DependencyInUseError 实体被其他记录引用，不能删除
type DependencyInUseError struct {
	Message string
}

func (e *DependencyInUseError) Error() string {
	return e.Message
}

// HTTPStatus 业务错误到 HTTP 状态码
func HTTPStatus(err error) int {
	var (
		ve *ValidationError
		nf *NotFoundError
		is *InvalidStateError
		ss *InsufficientStockError
		dd *DuplicateDocumentError
		du *DependencyInUseError
	)
	switch {
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ve), errors.As(err, &is), errors.As(err, &ss),
		errors.As(err, &dd), errors.As(err, &du):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
