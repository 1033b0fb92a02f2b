package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recount/internal/config"
	"recount/internal/export"
	"recount/internal/importer"
	"recount/internal/rebuild"
	"recount/internal/stock"
	"recount/internal/store"
)

// Handler bundles the HTTP surface over the engine.
type Handler struct {
	store       *store.Store
	cfg         *config.AppConfig
	importer    *importer.Importer
	coordinator *rebuild.Coordinator
	calc        *stock.Calculator
	exporter    *export.Exporter
	log         *logrus.Logger
}

// NewHandler wires the handler over the shared store and configuration.
func NewHandler(st *store.Store, cfg *config.AppConfig, log *logrus.Logger) *Handler {
	calc := stock.NewCalculator()
	return &Handler{
		store:       st,
		cfg:         cfg,
		importer:    importer.New(st, calc, cfg.Import.BatchSize, cfg.Import.KnownCategories, log),
		coordinator: rebuild.NewCoordinator(st, cfg.Import.BatchSize, log),
		calc:        calc,
		exporter:    export.NewExporter(st),
		log:         log,
	}
}

// RegisterRoutes binds all API routes onto the group.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/status", h.GetStatus)

	router.POST("/import", h.Import)
	router.POST("/import/validate", h.ValidateImport)

	router.POST("/rebuild", h.Rebuild)

	router.GET("/products", h.ListProducts)
	router.GET("/products/:id/stock", h.GetProductStock)
	router.GET("/stock/summary", h.GetStockSummary)

	router.GET("/sales", h.ListSales)

	router.GET("/export/sales.csv", h.ExportSalesCSV)
	router.GET("/export/sales.xlsx", h.ExportSalesXLSX)

	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)
}
