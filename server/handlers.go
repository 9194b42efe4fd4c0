package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/calculator"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/models/reports"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/realtime"
	"github.com/mdtanbirulislam55-maxorasoft/tanisha-enterprise-sub002/utils"
	"github.com/shopspring/decimal"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type handler struct {
	deps Deps
}

type currencyQuery struct {
	Amount string `form:"amount" binding:"required"`
	Locale string `form:"locale" binding:"omitempty,bcp47_language_tag"`
}

func (h *handler) getMetrics(c *gin.Context) {
	snapshot, ok := h.deps.Publisher.GetCurrentMetrics()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": reports.ErrNoSnapshot.Error()})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *handler) postData(c *gin.Context) {
	var raw models.RawData
	if err := c.ShouldBindJSON(&raw); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snapshot := h.deps.Publisher.UpdateData(c.Request.Context(), raw)
	c.JSON(http.StatusOK, snapshot)
}

func (h *handler) postRefresh(c *gin.Context) {
	if h.deps.Refresher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "data source not configured"})
		return
	}
	businessId, ok := utils.GetBusinessIdFromContext(c.Request.Context())
	if !ok || businessId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "business id is required"})
		return
	}

	snapshot, err := h.deps.Refresher.Refresh(c.Request.Context(), businessId)
	if errors.Is(err, realtime.ErrRefreshInProgress) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	} else if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *handler) getExport(c *gin.Context) {
	snapshot, ok := h.deps.Publisher.GetCurrentMetrics()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": reports.ErrNoSnapshot.Error()})
		return
	}
	locale := c.DefaultQuery("locale", h.deps.Locale)

	var buf bytes.Buffer
	if err := reports.ExportDashboardExcel(&buf, snapshot, locale); err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="dashboard-%s.xlsx"`, snapshot.AsOf))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *handler) getCurrency(c *gin.Context) {
	var q currencyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount, ok := calculator.Coerce(q.Amount, decimal.Zero)
	if !ok {
		amount = calculator.FromMajorMinor(q.Amount)
	}
	locale := q.Locale
	if locale == "" {
		locale = h.deps.Locale
	}
	c.JSON(http.StatusOK, calculator.ToMajorMinor(amount, locale))
}
