package api

import (
	"github.com/gin-gonic/gin"

	"oresync/internal/config"
	"oresync/internal/store"
)

// Handler API 处理器
type Handler struct {
	store   *store.Store
	cfg     *config.AppConfig
	dataDir string
}

// NewHandler 创建 API 处理器
func NewHandler(st *store.Store, cfg *config.AppConfig, dataDir string) *Handler {
	return &Handler{
		store:   st,
		cfg:     cfg,
		dataDir: dataDir,
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/status", h.Status)
	r.POST("/sync", h.Sync)
	r.GET("/runs", h.ListRuns)
	r.GET("/runs/:id", h.GetRun)
	r.GET("/runs/:id/download", h.DownloadLedger)
}
