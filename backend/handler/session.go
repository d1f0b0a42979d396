package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ozcotech/denklem/backend/middleware"
	"github.com/ozcotech/denklem/backend/model"
	"github.com/ozcotech/denklem/backend/service"
)

// SessionHandler drives stateful calculators: the category and start date
// are set one at a time and the result is read back
type SessionHandler struct {
	store    *service.SessionStore
	location *time.Location
	metrics  *service.Metrics
}

func NewSessionHandler(store *service.SessionStore, loc *time.Location, metrics *service.Metrics) *SessionHandler {
	return &SessionHandler{store: store, location: loc, metrics: metrics}
}

type CreateSessionRequest struct {
	Category  string `json:"category"`
	StartDate string `json:"start_date"`
}

type UpdateCategoryRequest struct {
	Category string `json:"category" binding:"required"`
}

type UpdateStartDateRequest struct {
	StartDate string `json:"start_date" binding:"required"`
}

type SessionResponse struct {
	ID        string              `json:"id"`
	Category  string              `json:"category"`
	StartDate string              `json:"start_date"`
	Result    CalculationResponse `json:"result"`
}

// Create opens a session, optionally seeded with a category and start date
func (h *SessionHandler) Create(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session := h.store.Create(middleware.GetOffice(c))
	if req.Category != "" {
		session.Calculator.UpdateCategory(model.DisputeCategory(req.Category))
	}
	if req.StartDate != "" {
		session.Calculator.UpdateStartDate(parseDate(req.StartDate, h.location))
	}

	c.JSON(http.StatusCreated, h.respond(c, session))
}

// UpdateCategory changes the session's dispute category
func (h *SessionHandler) UpdateCategory(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, err := h.store.UpdateCategory(middleware.GetOffice(c), c.Param("id"), model.DisputeCategory(req.Category))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, h.respond(c, session))
}

// UpdateStartDate changes the session's start date
func (h *SessionHandler) UpdateStartDate(c *gin.Context) {
	var req UpdateStartDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	session, err := h.store.UpdateStartDate(middleware.GetOffice(c), c.Param("id"), parseDate(req.StartDate, h.location))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, h.respond(c, session))
}

// Result recalculates the session's deadlines
func (h *SessionHandler) Result(c *gin.Context) {
	session, err := h.store.Get(middleware.GetOffice(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, h.respond(c, session))
}

// Delete closes a session
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(middleware.GetOffice(c), c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

func (h *SessionHandler) respond(c *gin.Context, session *service.Session) SessionResponse {
	calc := session.Calculator
	category := calc.Category()
	result := calc.Calculate()
	observe(c.Request.Context(), h.metrics, category, result)

	return SessionResponse{
		ID:        session.ID,
		Category:  string(category),
		StartDate: formatDate(calc.StartDate()),
		Result:    newCalculationResponse(result),
	}
}
