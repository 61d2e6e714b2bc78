package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cognicore/seoscope/internal/logging"
	"github.com/cognicore/seoscope/pkg/seoscope"
	"github.com/cognicore/seoscope/pkg/seoscope/internalerr"
	"github.com/cognicore/seoscope/pkg/seoscope/store"
)

// Runner runs analyses.
type Runner interface {
	Run(ctx context.Context, req seoscope.Request) (seoscope.Report, error)
}

// Handler holds HTTP request handlers
type Handler struct {
	runner Runner
	store  store.Store
	log    logging.Logger
}

// NewHandler creates a new handler instance. A nil store disables the read
// endpoints.
func NewHandler(runner Runner, st store.Store, log logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{runner: runner, store: st, log: log}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalysisResponse is returned for a new analysis.
type AnalysisResponse struct {
	ID     string          `json:"id"`
	Result seoscope.Result `json:"result"`
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateAnalysis runs an analysis on the posted pages.
func (h *Handler) CreateAnalysis(c *gin.Context) {
	var req seoscope.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid analysis request body", logging.Error(err))
		h.fail(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body: "+err.Error())
		return
	}

	rep, err := h.runner.Run(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, internalerr.ErrInvalidInput) {
			h.fail(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		h.log.Error("analysis failed", logging.Error(err))
		h.fail(c, http.StatusInternalServerError, "ANALYSIS_ERROR", err.Error())
		return
	}

	c.PureJSON(http.StatusCreated, AnalysisResponse{ID: rep.ID, Result: rep.Result})
}

// GetAnalysis returns a stored run.
func (h *Handler) GetAnalysis(c *gin.Context) {
	if h.store == nil {
		h.fail(c, http.StatusNotImplemented, "NO_STORE", "analyses are not stored")
		return
	}
	a, err := h.store.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, internalerr.ErrNotFound) {
			h.fail(c, http.StatusNotFound, "NOT_FOUND", "analysis not found")
			return
		}
		h.log.Error("get analysis failed", logging.Error(err))
		h.fail(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	c.PureJSON(http.StatusOK, a)
}

// ListAnalyses returns stored runs, newest first.
func (h *Handler) ListAnalyses(c *gin.Context) {
	if h.store == nil {
		h.fail(c, http.StatusNotImplemented, "NO_STORE", "analyses are not stored")
		return
	}
	limit := store.DefaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			h.fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := h.store.ListAnalyses(c.Request.Context(), c.Query("keyword"), limit)
	if err != nil {
		h.log.Error("list analyses failed", logging.Error(err))
		h.fail(c, http.StatusInternalServerError, "STORE_ERROR", err.Error())
		return
	}
	c.PureJSON(http.StatusOK, gin.H{"analyses": list, "count": len(list)})
}

func (h *Handler) fail(c *gin.Context, status int, code, msg string) {
	c.JSON(status, ErrorResponse{Error: msg, Code: code, Timestamp: time.Now()})
}
