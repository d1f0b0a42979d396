package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ozcotech/denklem/backend/model"
	"github.com/ozcotech/denklem/backend/pkg/logger"
	"github.com/ozcotech/denklem/backend/service"
)

type DeadlineHandler struct {
	table    model.WeekOffsetTable
	location *time.Location
	metrics  *service.Metrics
}

func NewDeadlineHandler(table model.WeekOffsetTable, loc *time.Location, metrics *service.Metrics) *DeadlineHandler {
	return &DeadlineHandler{table: table, location: loc, metrics: metrics}
}

type CalculateRequest struct {
	Category  string `json:"category"`
	StartDate string `json:"start_date" binding:"required"`
}

type BatchRequest struct {
	StartDate  string   `json:"start_date" binding:"required"`
	Categories []string `json:"categories"`
}

type CategoryInfo struct {
	Category      string `json:"category"`
	TableKey      string `json:"table_key"`
	NormalWeeks   int    `json:"normal_weeks"`
	ExtendedWeeks int    `json:"extended_weeks"`
	Default       bool   `json:"default_applied"`
}

// Categories lists every dispute category with the week pair it resolves to
func (h *DeadlineHandler) Categories(c *gin.Context) {
	categories := model.AllCategories()
	out := make([]CategoryInfo, 0, len(categories))
	for _, category := range categories {
		key := category.TableKey()
		offset, found := h.table.Lookup(key)
		out = append(out, CategoryInfo{
			Category:      string(category),
			TableKey:      key,
			NormalWeeks:   offset.Normal,
			ExtendedWeeks: offset.Extended,
			Default:       !found,
		})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

// Calculate computes the deadlines of one category
func (h *DeadlineHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	category := model.DisputeCategory(req.Category)
	result := service.Calculate(category, parseDate(req.StartDate, h.location), h.table)
	observe(c.Request.Context(), h.metrics, category, result)

	c.JSON(http.StatusOK, newCalculationResponse(result))
}

// CalculateBatch computes the deadlines of several categories from one start
// date, in request order. No categories means all of them.
func (h *DeadlineHandler) CalculateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	categories := make([]model.DisputeCategory, 0, len(req.Categories))
	for _, name := range req.Categories {
		categories = append(categories, model.DisputeCategory(name))
	}

	start := parseDate(req.StartDate, h.location)
	results := service.CalculateAll(categories, start, h.table)

	out := make([]CalculationResponse, 0, len(results))
	for _, result := range results {
		observe(c.Request.Context(), h.metrics, result.Category, result)
		out = append(out, newCalculationResponse(result))
	}
	if len(results) == 0 {
		logger.Debug(c.Request.Context(), "batch produced no valid results", "start_date", req.StartDate)
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date": formatDate(start),
		"results":    out,
	})
}

// observe logs the fallback policies a calculation went through and counts it
func observe(ctx context.Context, metrics *service.Metrics, category model.DisputeCategory, result model.CalculationResult) {
	if !result.IsValid {
		logger.Debug(ctx, "start date could not be resolved", "category", category)
		metrics.ObserveCalculation("", false, false, false)
		return
	}

	unknown := !category.IsKnown()
	if unknown {
		logger.Warn(ctx, "unknown dispute category, using fallback key",
			"category", category,
			"table_key", result.TableKey,
		)
	}
	if result.DefaultApplied {
		logger.Debug(ctx, "week offset table has no entry, default pair applied",
			"table_key", result.TableKey,
			"normal_weeks", result.WeekCount,
			"extended_weeks", result.ExtendedWeeks,
		)
	}
	metrics.ObserveCalculation(result.TableKey, true, result.TableKey == model.FallbackTableKey, result.DefaultApplied)
}
