package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"oresync/internal/importer"
)

// Sync 上传三个文件并执行同步
// POST /api/sync  (multipart: timesheet / mapping / ledger)
//
// 台账副本保存在 exports/<runID>.xlsx 并就地更新, 更新后的文件通过
// download 接口取回; 原始上传件进 uploads 目录便于排查。
func (h *Handler) Sync(c *gin.Context) {
	runID := uuid.NewString()

	timesheetPath, err := h.saveUpload(c, "timesheet", runID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("缺少周报文件: %v", err)})
		return
	}
	mappingPath, err := h.saveUpload(c, "mapping", runID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("缺少映射文件: %v", err)})
		return
	}

	ledgerFile, err := c.FormFile("ledger")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("缺少台账文件: %v", err)})
		return
	}
	ledgerPath := filepath.Join(h.dataDir, "exports", runID+".xlsx")
	if err := c.SaveUploadedFile(ledgerFile, ledgerPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存台账文件失败"})
		return
	}

	coordinator := importer.NewCoordinator(h.store, h.cfg)
	report, err := coordinator.RunSync(importer.Options{
		RunID:         runID,
		TimesheetPath: timesheetPath,
		MappingPath:   mappingPath,
		LedgerPath:    ledgerPath,
	})

	switch {
	case errors.Is(err, importer.ErrNoRecords):
		// 区别于成功: 台账未改动
		c.JSON(http.StatusOK, gin.H{
			"status": "empty",
			"report": report,
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "error",
			"error":  err.Error(),
			"report": report,
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"report":      report,
			"downloadUrl": fmt.Sprintf("/api/runs/%s/download", runID),
		})
	}
}

// DownloadLedger 下载更新后的台账
// GET /api/runs/:id/download
func (h *Handler) DownloadLedger(c *gin.Context) {
	runID := c.Param("id")
	if _, err := uuid.Parse(runID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的运行 ID"})
		return
	}

	path := filepath.Join(h.dataDir, "exports", runID+".xlsx")
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "台账文件不存在"})
		return
	}

	c.FileAttachment(path, "ledger_"+runID+".xlsx")
}

// saveUpload 把上传文件落到 uploads 目录
func (h *Handler) saveUpload(c *gin.Context, field, runID string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", err
	}

	path := filepath.Join(h.dataDir, "uploads", fmt.Sprintf("%s_%s_%s", runID, field, filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", err
	}
	return path, nil
}
