package handlers

import (
	"net/http"
	"time"

	"github.com/waste3d/tianji-twin-api/internal/application/usecase"
	"github.com/waste3d/tianji-twin-api/internal/domain"

	"github.com/gin-gonic/gin"
)

type AstrologyHandler struct {
	astro  *usecase.AstrologyUseCase
	assets *usecase.TimeAssetUseCase
}

func NewAstrologyHandler(astro *usecase.AstrologyUseCase, assets *usecase.TimeAssetUseCase) *AstrologyHandler {
	return &AstrologyHandler{astro: astro, assets: assets}
}

type createChartReq struct {
	ChartStructure     string `json:"chart_structure" binding:"required"`
	BriefAnalysisCache string `json:"brief_analysis_cache"`
}

func (h *AstrologyHandler) CreateChart(c *gin.Context) {
	var req createChartReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "chart_structure is required")
		return
	}

	chart, created, err := h.astro.SaveChart(c.Request.Context(), userID(c), req.ChartStructure, req.BriefAnalysisCache)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondData(c, status, chartJSON(chart))
}

func (h *AstrologyHandler) GetChart(c *gin.Context) {
	chart, err := h.astro.GetChart(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, chartJSON(chart))
}

type briefAnalysisReq struct {
	BriefAnalysis string `json:"brief_analysis" binding:"required"`
}

func (h *AstrologyHandler) UpdateBriefAnalysis(c *gin.Context) {
	var req briefAnalysisReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "brief_analysis is required")
		return
	}
	if err := h.astro.UpdateBriefAnalysis(c.Request.Context(), userID(c), req.BriefAnalysis); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, nil, "brief analysis updated")
}

type unlockReq struct {
	Dimension   string `json:"dimension" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	PeriodType  string `json:"period_type"`
	ExpiresAt   string `json:"expires_at" binding:"required"`
	CostCoins   int    `json:"cost_coins"`
}

func (h *AstrologyHandler) UnlockTimeAsset(c *gin.Context) {
	var req unlockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	asset, newBalance, err := h.assets.Unlock(c.Request.Context(), userID(c),
		req.Dimension, req.PeriodStart, req.PeriodEnd, req.PeriodType, req.ExpiresAt, req.CostCoins)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"asset":       assetJSON(asset),
		"new_balance": newBalance,
	})
}

func (h *AstrologyHandler) ListTimeAssets(c *gin.Context) {
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	assets, err := h.assets.List(c.Request.Context(), userID(c), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(assets))
	for i := range assets {
		items = append(items, assetJSON(&assets[i]))
	}
	respondData(c, http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

func (h *AstrologyHandler) CheckTimeAsset(c *gin.Context) {
	dimension := c.Query("dimension")
	periodStart := c.Query("period_start")
	periodEnd := c.Query("period_end")
	if dimension == "" || periodStart == "" || periodEnd == "" {
		respondValidation(c, "dimension, period_start and period_end are required")
		return
	}

	unlocked, err := h.assets.Check(c.Request.Context(), userID(c), dimension, periodStart, periodEnd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"unlocked": unlocked})
}

type putCacheReq struct {
	Dimension   string `json:"dimension" binding:"required"`
	CacheKey    string `json:"cache_key" binding:"required"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	CacheData   string `json:"cache_data" binding:"required"`
	ExpiresAt   string `json:"expires_at" binding:"required"`
}

func (h *AstrologyHandler) PutCache(c *gin.Context) {
	var req putCacheReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err.Error())
		return
	}

	entry, err := h.astro.PutCache(c.Request.Context(), userID(c),
		req.Dimension, req.CacheKey, req.PeriodStart, req.PeriodEnd, req.CacheData, req.ExpiresAt)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cacheJSON(entry))
}

func (h *AstrologyHandler) GetCache(c *gin.Context) {
	dimension := c.Query("dimension")
	cacheKey := c.Query("cache_key")
	periodStart := c.Query("period_start")
	periodEnd := c.Query("period_end")
	if dimension == "" || cacheKey == "" || periodStart == "" || periodEnd == "" {
		respondValidation(c, "dimension, cache_key, period_start and period_end are required")
		return
	}
	// Expired entries are returned by default; freshness is the caller's call.
	includeExpired := c.DefaultQuery("include_expired", "true") != "false"

	entry, err := h.astro.GetCache(c.Request.Context(), userID(c),
		dimension, cacheKey, periodStart, periodEnd, includeExpired)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, cacheJSON(entry))
}

func chartJSON(chart *domain.StarChart) gin.H {
	return gin.H{
		"user_id":              chart.UserID,
		"chart_structure":      chart.ChartStructure,
		"brief_analysis_cache": chart.BriefAnalysisCache,
		"created_at":           chart.CreatedAt,
		"updated_at":           chart.UpdatedAt,
	}
}

func assetJSON(a *domain.TimeAssetUnlock) gin.H {
	return gin.H{
		"id":           a.ID,
		"dimension":    a.Dimension,
		"period_start": a.PeriodStart.Format(domain.DateLayout),
		"period_end":   a.PeriodEnd.Format(domain.DateLayout),
		"period_type":  a.PeriodType,
		"expires_at":   a.ExpiresAt.Format(time.RFC3339),
		"cost_coins":   a.CostCoins,
		"created_at":   a.CreatedAt,
	}
}

func cacheJSON(e *domain.AnalysisCache) gin.H {
	return gin.H{
		"dimension":    e.Dimension,
		"cache_key":    e.CacheKey,
		"period_start": e.PeriodStart.Format(domain.DateLayout),
		"period_end":   e.PeriodEnd.Format(domain.DateLayout),
		"cache_data":   e.CacheData,
		"expires_at":   e.ExpiresAt.Format(time.RFC3339),
	}
}
