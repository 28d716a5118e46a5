package router

import (
	"log/slog"
	"net/http"

	"retail-ledger/internal/backup"
	"retail-ledger/internal/config"
	"retail-ledger/internal/handler"
	"retail-ledger/internal/middleware"
	"retail-ledger/internal/store"
	"retail-ledger/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the ledger API onto a gin engine. Reads, customer
// registration, sales and bills are open to the counter; catalog changes,
// cancellations, exports and backups need an admin session.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *slog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log), gin.Recovery())

	st := store.New(db, store.WithLogger(log))

	r.GET("/healthz", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			util.Error(c, http.StatusServiceUnavailable, util.CodeServerErr, "database unavailable")
			return
		}
		util.Success(c, util.Response{"status": "ok"})
	})

	api := r.Group("/api")

	authHandler := handler.NewAuthHandler(db, cfg.JWT, cfg.Security.AdminPasswordHash)
	categoryHandler := handler.NewCategoryHandler(st)
	productHandler := handler.NewProductHandler(st, cfg.Images.Dir)
	customerHandler := handler.NewCustomerHandler(st)
	saleHandler := handler.NewSaleHandler(st, cfg.Shop)
	reportHandler := handler.NewReportHandler(st)

	// counter panel
	api.POST("/auth/login", authHandler.Login)

	api.GET("/categories", categoryHandler.List)
	api.GET("/categories/:id", categoryHandler.Get)

	api.GET("/products", productHandler.List)
	api.GET("/products/:key", productHandler.Get)
	api.GET("/products/:key/image", productHandler.Image)

	api.GET("/customers", customerHandler.List)
	api.POST("/customers", customerHandler.Create)
	api.GET("/customers/:id", customerHandler.Get)
	api.PUT("/customers/:id", customerHandler.Update)
	api.GET("/customers/:id/sales", customerHandler.Sales)

	api.POST("/sales", saleHandler.Create)
	api.POST("/sales/checkout", saleHandler.Checkout)
	api.GET("/sales", saleHandler.List)
	api.GET("/sales/:id", saleHandler.Get)
	api.GET("/sales/:id/bill", saleHandler.Bill)

	api.GET("/reports/profit", reportHandler.Profit)
	api.GET("/reports/summary", reportHandler.Summary)

	// admin panel
	admin := api.Group("")
	admin.Use(middleware.AdminMiddleware(cfg.JWT.Secret, cfg.JWT.Issuer, db))

	admin.POST("/auth/logout", authHandler.Logout)
	admin.GET("/auth/me", authHandler.Me)

	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	admin.POST("/products", productHandler.Create)
	admin.PUT("/products/:key", productHandler.Update)
	admin.PUT("/products/:key/image", productHandler.UploadImage)
	admin.POST("/products/:key/restock", productHandler.Restock)
	admin.DELETE("/products/:key", productHandler.Delete)

	admin.DELETE("/customers/:id", customerHandler.Delete)

	admin.DELETE("/sales/:id", saleHandler.Delete)
	admin.DELETE("/sales", saleHandler.Clear)

	exportHandler := handler.NewExportHandler(st)
	admin.GET("/export/sales", exportHandler.Sales)
	admin.GET("/export/inventory", exportHandler.Inventory)

	backupHandler := handler.NewBackupHandler(backup.NewService(db, cfg.Security.EncryptionKey, cfg.Backup.Dir, log))
	admin.POST("/backups", backupHandler.Create)
	admin.GET("/backups", backupHandler.List)
	admin.GET("/backups/:id/download", backupHandler.Download)
	admin.POST("/backups/:id/restore", backupHandler.Restore)
	admin.DELETE("/backups/:id", backupHandler.Delete)

	return r
}
