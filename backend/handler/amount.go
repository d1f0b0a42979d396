package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ozcotech/denklem/backend/model"
	"github.com/ozcotech/denklem/backend/pkg/logger"
	"github.com/ozcotech/denklem/backend/service"
)

type AmountHandler struct {
	normalizer *service.AmountNormalizer
	locales    *service.LocaleProvider
	metrics    *service.Metrics
}

func NewAmountHandler(locales *service.LocaleProvider, metrics *service.Metrics) *AmountHandler {
	return &AmountHandler{
		normalizer: service.NewAmountNormalizer(locales.Default()),
		locales:    locales,
		metrics:    metrics,
	}
}

type NormalizeRequest struct {
	Text              string `json:"text"`
	Locale            string `json:"locale"`
	DecimalSeparator  string `json:"decimal_separator" binding:"omitempty,onechar,nefield=GroupingSeparator"`
	GroupingSeparator string `json:"grouping_separator" binding:"omitempty,onechar"`
}

type NormalizeResponse struct {
	Text              string `json:"text"`
	Changed           bool   `json:"changed"`
	Value             string `json:"value,omitempty"`
	DecimalSeparator  string `json:"decimal_separator"`
	GroupingSeparator string `json:"grouping_separator"`
}

// Normalize re-derives the display text of an amount after a keystroke.
// Explicit separators win over locale, which wins over the default locale.
func (h *AmountHandler) Normalize(c *gin.Context) {
	var req NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if (req.DecimalSeparator == "") != (req.GroupingSeparator == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both separators are required when overriding"})
		return
	}

	var override *model.LocaleSeparators
	switch {
	case req.DecimalSeparator != "":
		override = &model.LocaleSeparators{Decimal: req.DecimalSeparator, Grouping: req.GroupingSeparator}
	case req.Locale != "":
		_, seps := h.locales.Lookup(req.Locale)
		override = &seps
	}

	seps := h.normalizer.Resolve(override)
	text, changed := h.normalizer.Apply(req.Text, override)
	h.metrics.ObserveNormalization(changed)

	parts := service.SplitAmount(text, seps)
	if !changed && text != "" && parts.Integer == "" {
		logger.Debug(c.Request.Context(), "amount left unchanged", "text", text)
	}

	resp := NormalizeResponse{
		Text:              text,
		Changed:           changed,
		DecimalSeparator:  seps.Decimal,
		GroupingSeparator: seps.Grouping,
	}
	if value, ok := service.AmountValue(text, seps); ok {
		resp.Value = value.StringFixed(int32(len(parts.Fraction)))
	}
	c.JSON(http.StatusOK, resp)
}

// Locale reports the separators of a locale tag
func (h *AmountHandler) Locale(c *gin.Context) {
	tag, seps := h.locales.Lookup(c.Param("tag"))
	c.JSON(http.StatusOK, gin.H{
		"tag":                tag.String(),
		"decimal_separator":  seps.Decimal,
		"grouping_separator": seps.Grouping,
	})
}
