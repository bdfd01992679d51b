package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
)

func TestFailHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/erp/payments", nil)

	driverErr := errors.New("failed to connect to host=db user=erp: dial tcp 10.0.0.1:5432: connect: connection refused")
	Fail(c, fmt.Errorf("创建付款失败: %w", driverErr))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	body := w.Body.String()
	for _, leak := range []string{"dial tcp", "connection refused", "host=", "user="} {
		if strings.Contains(body, leak) {
			t.Errorf("body leaks %q: %s", leak, body)
		}
	}
	if !strings.Contains(body, "服务器内部错误") {
		t.Errorf("body = %s, want generic message", body)
	}
}

func TestFailKeepsBusinessErrorMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/erp/sale-orders/so-1", nil)

	Fail(c, &errs.NotFoundError{Entity: "销售订单", ID: "so-1"})

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "销售订单") {
		t.Errorf("body = %s, want business message", w.Body.String())
	}
}
