package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"github.com/stitchlabs/stitch-erp/internal/config"
	"github.com/stitchlabs/stitch-erp/internal/erp/entity"
	"github.com/stitchlabs/stitch-erp/internal/erp/handler"
	"github.com/stitchlabs/stitch-erp/internal/erp/repository"
	"github.com/stitchlabs/stitch-erp/internal/erp/service"
	"github.com/stitchlabs/stitch-erp/internal/middleware"
	"github.com/stitchlabs/stitch-erp/internal/notify"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 本地开发加载 .env，不存在则忽略
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	zapLogger.Info("Starting stitch-erp service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := entity.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	// 初始化Redis，未配置时降级为无缓存
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = initRedis(cfg.Redis)
	}

	// 初始化MinIO，未配置时报表只支持直接下载
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			zapLogger.Warn("Failed to init MinIO, continuing without object storage", zap.Error(err))
			minioClient = nil
		}
	}

	notifier := notify.New(cfg.Webhook.Endpoint, zapLogger)

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, service.Deps{
		DB:       db,
		Notifier: notifier,
		Logger:   zapLogger,
		Redis:    rdb,
		MinIO:    minioClient,
		Bucket:   cfg.MinIO.Bucket,
	})
	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1/erp")
	v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	{
		// 销售订单
		saleOrders := v1.Group("/sale-orders")
		{
			saleOrders.POST("", h.Sales.Create)
			saleOrders.GET("", h.Sales.List)
			saleOrders.GET("/:id", h.Sales.Get)
			saleOrders.POST("/:id", h.Sales.Confirm)
			saleOrders.DELETE("/:id", h.Sales.Cancel)
		}

		// 采购订单，仅内部用户
		purchaseOrders := v1.Group("/purchase-orders")
		purchaseOrders.Use(middleware.RequireInternal())
		{
			purchaseOrders.POST("", h.Procurement.Create)
			purchaseOrders.GET("", h.Procurement.List)
			purchaseOrders.GET("/:id", h.Procurement.Get)
			purchaseOrders.POST("/:id", h.Procurement.Confirm)
			purchaseOrders.DELETE("/:id", h.Procurement.Cancel)
		}

		// 客户发票
		invoices := v1.Group("/invoices")
		{
			invoices.POST("", middleware.RequireInternal(), h.Billing.CreateInvoice)
			invoices.GET("", h.Billing.ListInvoices)
			invoices.GET("/:id", h.Billing.GetInvoice)
		}

		// 供应商账单，仅内部用户
		vendorBills := v1.Group("/vendor-bills")
		vendorBills.Use(middleware.RequireInternal())
		{
			vendorBills.POST("", h.Billing.CreateBill)
			vendorBills.GET("/:id", h.Billing.GetBill)
			vendorBills.PUT("/:id", h.Billing.UpdateBill)
			vendorBills.DELETE("/:id", h.Billing.DeleteBill)
		}

		// 付款，仅内部用户
		payments := v1.Group("/payments")
		payments.Use(middleware.RequireInternal())
		{
			payments.POST("", h.Payment.Register)
			payments.GET("", h.Payment.List)
			payments.GET("/:id", h.Payment.Get)
			payments.DELETE("/:id", h.Payment.Delete)
		}

		// 优惠券
		v1.POST("/coupons", h.Coupon.Dispatch)

		// 报表，仅内部用户
		reports := v1.Group("/reports")
		reports.Use(middleware.RequireInternal())
		{
			reports.GET("", h.Report.Run)
			reports.GET("/export", h.Report.Export)
		}

		// 联系人
		contacts := v1.Group("/contacts")
		{
			contacts.POST("", middleware.RequireInternal(), h.Contact.Create)
			contacts.GET("", h.Contact.List)
			contacts.GET("/:id", h.Contact.Get)
		}

		// 付款条件，仅内部用户
		paymentTerms := v1.Group("/payment-terms")
		paymentTerms.Use(middleware.RequireInternal())
		{
			paymentTerms.POST("", h.Contact.CreatePaymentTerm)
			paymentTerms.GET("", h.Contact.ListPaymentTerms)
			paymentTerms.DELETE("/:id", h.Contact.DeletePaymentTerm)
		}

		// 商品
		products := v1.Group("/products")
		{
			products.POST("", middleware.RequireInternal(), h.Product.Create)
			products.GET("", h.Product.List)
			products.GET("/:id", h.Product.Get)
		}

		// 系统设置，仅内部用户
		settings := v1.Group("/settings")
		settings.Use(middleware.RequireInternal())
		{
			settings.GET("", h.Settings.Get)
			settings.PUT("", h.Settings.Update)
		}
	}
}
