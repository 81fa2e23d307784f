package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Version 应用版本
const Version = "1.2.0"

// Status 服务状态
// GET /api/status
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"app":     "oresync",
		"version": Version,
		"locale": gin.H{
			"weekRangeDelimiter": h.cfg.Locale.WeekRangeDelimiter,
			"weekdayLabels":      h.cfg.Locale.WeekdayLabels,
		},
		"ledger": gin.H{
			"headerRows":  h.cfg.Ledger.HeaderRows,
			"dateColumn":  h.cfg.Ledger.DateColumn,
			"codesColumn": h.cfg.Ledger.CodesColumn,
			"hoursColumn": h.cfg.Ledger.HoursColumn,
		},
	})
}
