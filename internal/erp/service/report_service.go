package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"github.com/stitchlabs/stitch-erp/internal/erp/errs"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// 报表类型
const (
	ReportSalesByProduct   = "sales_by_product"
	ReportSalesByCustomer  = "sales_by_customer"
	ReportPurchaseByVendor = "purchase_by_vendor"
	ReportDashboard        = "dashboard"
)

// dashboardCacheTTL 看板缓存时长
const dashboardCacheTTL = 60 * time.Second

const dashboardCacheKey = "erp:report:dashboard"

type ReportService struct {
	repo   *repository.ReportRepository
	rdb    *redis.Client
	minio  *minio.Client
	bucket string
	logger *zap.Logger
}

func NewReportService(repo *repository.ReportRepository, rdb *redis.Client, mc *minio.Client, bucket string, logger *zap.Logger) *ReportService {
	return &ReportService{repo: repo, rdb: rdb, minio: mc, bucket: bucket, logger: logger}
}

type ReportParams struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
}

// Run 执行报表查询，空结果返回空集合而非错误
func (s *ReportService) Run(ctx context.Context, params ReportParams) (interface{}, error) {
	switch params.Type {
	case ReportSalesByProduct:
		return s.repo.SalesByProduct(ctx, params.StartDate, params.EndDate)
	case ReportSalesByCustomer:
		return s.repo.SalesByCustomer(ctx, params.StartDate, params.EndDate)
	case ReportPurchaseByVendor:
		return s.repo.PurchaseByVendor(ctx, params.StartDate, params.EndDate)
	case ReportDashboard:
		return s.Dashboard(ctx)
	default:
		return nil, &errs.ValidationError{Field: "type", Message: "未知的报表类型"}
	}
}

// Dashboard 看板指标，配置了 redis 时走短缓存
func (s *ReportService) Dashboard(ctx context.Context) (*repository.DashboardStats, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var cached repository.DashboardStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.repo.Dashboard(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("统计看板失败: %w", err)
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
				s.logger.Warn("看板缓存写入失败", zap.Error(err))
			}
		}
	}
	return stats, nil
}

// ExportResult 导出结果，Object 非空表示已上传对象存储
type ExportResult struct {
	FileName string `json:"file_name"`
	Object   string `json:"object,omitempty"`
	Data     []byte `json:"-"`
}

// ExportSalesByProduct 导出商品销售报表为 xlsx
// 配置了对象存储时上传并返回对象名，否则返回文件内容由 handler 直接下发
func (s *ReportService) ExportSalesByProduct(ctx context.Context, start, end *time.Time) (*ExportResult, error) {
	rows, err := s.repo.SalesByProduct(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("查询报表失败: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "SalesByProduct"
	f.SetSheetName("Sheet1", sheet)
	headers := []string{"商品ID", "商品名称", "销量", "营收"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), row.ProductID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), row.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", i+2), row.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", i+2), row.Revenue)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("生成报表文件失败: %w", err)
	}

	result := &ExportResult{
		FileName: fmt.Sprintf("sales_by_product_%s.xlsx", time.Now().Format("20060102150405")),
		Data:     buf.Bytes(),
	}

	if s.minio != nil && s.bucket != "" {
		object := "reports/" + result.FileName
		_, err := s.minio.PutObject(ctx, s.bucket, object, bytes.NewReader(result.Data), int64(len(result.Data)),
			minio.PutObjectOptions{ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"})
		if err != nil {
			s.logger.Warn("报表上传对象存储失败", zap.Error(err))
		} else {
			result.Object = object
		}
	}
	return result, nil
}
