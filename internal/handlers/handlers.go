package handlers

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/metrics"
	"github.com/claimshield/compliance-engine/internal/monitoring"
	"github.com/claimshield/compliance-engine/internal/validation"
)

var npiPattern = regexp.MustCompile(`^\d{10}$`)

// RegisterValidations installs the custom binding validators. Call once at
// startup before serving requests.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("npi", func(fl validator.FieldLevel) bool {
			return npiPattern.MatchString(fl.Field().String())
		})
	}
}

// ReportStore persists validation reports produced by the HTTP layer.
type ReportStore interface {
	SaveReport(ctx context.Context, report *claims.ValidationReport) error
	RecentRiskFactors(ctx context.Context, claimID string, limit int) ([]claims.RiskFactor, error)
}

// AlertStore persists alert state changes.
type AlertStore interface {
	UpdateAlert(ctx context.Context, alert *monitoring.Alert) error
}

// Handler serves the compliance API.
type Handler struct {
	engine     *validation.Engine
	monitor    *monitoring.Monitor
	store      ReportStore
	alertStore AlertStore
	collector  *metrics.Collector
	logger     *zap.Logger
}

// NewHandler creates an API handler. The stores may be nil for stateless
// deployments; reports and alert state are then held in memory only.
func NewHandler(engine *validation.Engine, monitor *monitoring.Monitor, store ReportStore, alertStore AlertStore, collector *metrics.Collector, logger *zap.Logger) *Handler {
	return &Handler{
		engine:     engine,
		monitor:    monitor,
		store:      store,
		alertStore: alertStore,
		collector:  collector,
		logger:     logger,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/claims/validate", h.validateClaim)
		v1.POST("/claims/validate/batch", h.validateBatch)

		v1.GET("/compliance/metrics", h.complianceMetrics)
		v1.GET("/compliance/trends", h.complianceTrends)
		v1.GET("/compliance/summary", h.complianceSummary)
		v1.GET("/compliance/alerts", h.listAlerts)
		v1.POST("/compliance/alerts/:id/acknowledge", h.acknowledgeAlert)
	}
}

// ValidateRequest is the body for a single-claim validation.
type ValidateRequest struct {
	Snapshot *claims.ClaimSnapshot  `json:"claim" binding:"required"`
	History  *claims.PatientHistory `json:"patient_history,omitempty"`
}

// BatchRequest is the body for a batch validation.
type BatchRequest struct {
	Claims []ValidateRequest `json:"claims" binding:"required,min=1,max=500"`
}

// AcknowledgeRequest names who acknowledged an alert.
type AcknowledgeRequest struct {
	AcknowledgedBy string `json:"acknowledged_by" binding:"required"`
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "compliance-engine",
	})
}

func (h *Handler) validateClaim(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.runValidation(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("validation failed",
			zap.String("claim_id", req.Snapshot.ClaimID),
			zap.Error(err),
		)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) validateBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.collector.ObserveBatch(len(req.Claims))

	ctx := c.Request.Context()
	engineReqs := make([]validation.Request, len(req.Claims))
	for i, entry := range req.Claims {
		engineReqs[i] = validation.Request{
			Snapshot: entry.Snapshot,
			History:  entry.History,
		}
	}

	started := time.Now()
	results := h.engine.ValidateBatch(ctx, engineReqs)

	type batchEntry struct {
		Index  int                      `json:"index"`
		Report *claims.ValidationReport `json:"report,omitempty"`
		Error  string                   `json:"error,omitempty"`
	}
	out := make([]batchEntry, len(results))
	succeeded := 0
	for i, result := range results {
		entry := batchEntry{Index: result.Index}
		if result.Err != nil {
			entry.Error = result.Err.Error()
		} else {
			entry.Report = result.Report
			succeeded++
			h.persistReport(ctx, result.Report)
		}
		out[i] = entry
	}

	h.logger.Info("batch validation completed",
		zap.Int("total", len(results)),
		zap.Int("succeeded", succeeded),
		zap.Duration("elapsed", time.Since(started)),
	)
	c.JSON(http.StatusOK, gin.H{
		"total":     len(results),
		"succeeded": succeeded,
		"results":   out,
	})
}

func (h *Handler) runValidation(ctx context.Context, req ValidateRequest) (*claims.ValidationReport, error) {
	engineReq := validation.Request{
		Snapshot: req.Snapshot,
		History:  req.History,
	}
	if h.store != nil && req.Snapshot != nil {
		factors, err := h.store.RecentRiskFactors(ctx, req.Snapshot.ClaimID, 10)
		if err != nil {
			h.logger.Warn("failed to load prior risk factors",
				zap.String("claim_id", req.Snapshot.ClaimID),
				zap.Error(err),
			)
		} else {
			engineReq.RecentRiskFactors = factors
		}
	}

	started := time.Now()
	report, err := h.engine.Validate(ctx, engineReq)
	if err != nil {
		return nil, err
	}
	h.collector.ObserveValidation(
		string(report.OverallStatus),
		report.RiskAssessment.RiskScore,
		report.ComplianceScore,
		time.Since(started),
	)
	h.persistReport(ctx, report)
	return report, nil
}

// persistReport saves the report when a store is configured. Persistence
// failures are logged, not surfaced; the report was still produced.
func (h *Handler) persistReport(ctx context.Context, report *claims.ValidationReport) {
	if h.store == nil || report == nil {
		return
	}
	if err := h.store.SaveReport(ctx, report); err != nil {
		h.logger.Error("failed to persist report",
			zap.String("report_id", report.ID),
			zap.Error(err),
		)
	}
}

func (h *Handler) complianceMetrics(c *gin.Context) {
	bundle, err := h.monitor.Snapshot(c.Request.Context(), c.Query("range"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bundle.Metrics)
}

func (h *Handler) complianceTrends(c *gin.Context) {
	bundle, err := h.monitor.Snapshot(c.Request.Context(), c.Query("range"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"time_range": bundle.Metrics.TimeRange,
		"trends":     bundle.Trends,
		"patterns":   bundle.Patterns,
	})
}

func (h *Handler) complianceSummary(c *gin.Context) {
	bundle, err := h.monitor.Snapshot(c.Request.Context(), c.Query("range"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, bundle.Summary)
}

func (h *Handler) listAlerts(c *gin.Context) {
	alerts := h.monitor.Alerts().Alerts()
	c.JSON(http.StatusOK, gin.H{
		"total":  len(alerts),
		"alerts": alerts,
	})
}

func (h *Handler) acknowledgeAlert(c *gin.Context) {
	var req AcknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.monitor.Alerts().Acknowledge(c.Request.Context(), c.Param("id"), req.AcknowledgedBy)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if h.alertStore != nil {
		if err := h.alertStore.UpdateAlert(c.Request.Context(), alert); err != nil {
			h.logger.Error("failed to persist alert acknowledgment",
				zap.String("alert_id", alert.ID),
				zap.Error(err),
			)
		}
	}
	c.JSON(http.StatusOK, alert)
}
