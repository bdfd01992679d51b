package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// ProductSalesRow 按商品汇总的销量与营收
type ProductSalesRow struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	Revenue     float64 `json:"revenue"`
}

// SalesByProduct 已确认/已付款订单按商品汇总
func (r *ReportRepository) SalesByProduct(ctx context.Context, start, end *time.Time) ([]ProductSalesRow, error) {
	rows := []ProductSalesRow{}
	query := r.db.WithContext(ctx).Raw(`
		SELECT l.product_id, p.name AS product_name,
		       COALESCE(SUM(l.quantity), 0) AS quantity,
		       COALESCE(SUM(l.line_total), 0) AS revenue
		FROM erp_sale_order_lines l
		JOIN erp_sale_orders so ON so.id = l.order_id
		JOIN erp_products p ON p.id = l.product_id
		WHERE so.status IN ('CONFIRMED', 'PAID')
		AND so.deleted_at IS NULL
		AND (?::timestamptz IS NULL OR so.created_at >= ?)
		AND (?::timestamptz IS NULL OR so.created_at <= ?)
		GROUP BY l.product_id, p.name
		ORDER BY revenue DESC
	`, start, start, end, end)
	err := query.Scan(&rows).Error
	return rows, err
}

// CustomerSalesRow 按客户汇总
type CustomerSalesRow struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	OrderCount   int64   `json:"order_count"`
	TotalAmount  float64 `json:"total_amount"`
}

func (r *ReportRepository) SalesByCustomer(ctx context.Context, start, end *time.Time) ([]CustomerSalesRow, error) {
	rows := []CustomerSalesRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT so.customer_id, c.name AS customer_name,
		       COUNT(*) AS order_count,
		       COALESCE(SUM(so.total_amount), 0) AS total_amount
		FROM erp_sale_orders so
		JOIN erp_contacts c ON c.id = so.customer_id
		WHERE so.status IN ('CONFIRMED', 'PAID')
		AND so.deleted_at IS NULL
		AND (?::timestamptz IS NULL OR so.created_at >= ?)
		AND (?::timestamptz IS NULL OR so.created_at <= ?)
		GROUP BY so.customer_id, c.name
		ORDER BY total_amount DESC
	`, start, start, end, end).Scan(&rows).Error
	return rows, err
}

// VendorPurchaseRow 按供应商汇总
type VendorPurchaseRow struct {
	VendorID    string  `json:"vendor_id"`
	VendorName  string  `json:"vendor_name"`
	OrderCount  int64   `json:"order_count"`
	TotalAmount float64 `json:"total_amount"`
}

func (r *ReportRepository) PurchaseByVendor(ctx context.Context, start, end *time.Time) ([]VendorPurchaseRow, error) {
	rows := []VendorPurchaseRow{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT po.vendor_id, c.name AS vendor_name,
		       COUNT(*) AS order_count,
		       COALESCE(SUM(po.total_amount), 0) AS total_amount
		FROM erp_purchase_orders po
		JOIN erp_contacts c ON c.id = po.vendor_id
		WHERE po.status IN ('CONFIRMED', 'PAID')
		AND po.deleted_at IS NULL
		AND (?::timestamptz IS NULL OR po.created_at >= ?)
		AND (?::timestamptz IS NULL OR po.created_at <= ?)
		GROUP BY po.vendor_id, c.name
		ORDER BY total_amount DESC
	`, start, start, end, end).Scan(&rows).Error
	return rows, err
}

// DashboardStats 看板指标
type DashboardStats struct {
	SaleOrderCount     int64   `json:"sale_order_count"`
	PurchaseOrderCount int64   `json:"purchase_order_count"`
	ContactCount       int64   `json:"contact_count"`
	ProductCount       int64   `json:"product_count"`
	ThisMonthSales     float64 `json:"this_month_sales"`
	LastMonthSales     float64 `json:"last_month_sales"`
	OverdueInvoices    int64   `json:"overdue_invoices"`
	LowStockProducts   int64   `json:"low_stock_products"`
}

// lowStockThreshold 低库存预警阈值
const lowStockThreshold = 20

// Dashboard 统计看板指标
func (r *ReportRepository) Dashboard(ctx context.Context, now time.Time) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &DashboardStats{}

	if err := db.Table("erp_sale_orders").Where("deleted_at IS NULL").Count(&stats.SaleOrderCount).Error; err != nil {
		return nil, err
	}
	if err := db.Table("erp_purchase_orders").Where("deleted_at IS NULL").Count(&stats.PurchaseOrderCount).Error; err != nil {
		return nil, err
	}
	if err := db.Table("erp_contacts").Where("deleted_at IS NULL").Count(&stats.ContactCount).Error; err != nil {
		return nil, err
	}
	if err := db.Table("erp_products").Where("deleted_at IS NULL").Count(&stats.ProductCount).Error; err != nil {
		return nil, err
	}

	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonth := thisMonth.AddDate(0, -1, 0)

	row := db.Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN created_at >= ? THEN total_amount END), 0),
			COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN total_amount END), 0)
		FROM erp_sale_orders
		WHERE status IN ('CONFIRMED', 'PAID') AND deleted_at IS NULL
	`, thisMonth, lastMonth, thisMonth).Row()
	if err := row.Scan(&stats.ThisMonthSales, &stats.LastMonthSales); err != nil {
		return nil, err
	}

	if err := db.Table("erp_customer_invoices").
		Where("status = 'UNPAID' AND due_date < ?", now).
		Count(&stats.OverdueInvoices).Error; err != nil {
		return nil, err
	}
	if err := db.Table("erp_products").
		Where("stock < ? AND deleted_at IS NULL", lowStockThreshold).
		Count(&stats.LowStockProducts).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
