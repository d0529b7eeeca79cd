package validation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/claimshield/compliance-engine/internal/audit"
	"github.com/claimshield/compliance-engine/internal/catalog"
	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/config"
)

// Engine runs the six category validators against a claim snapshot and
// aggregates the results into a validation report. It is safe for concurrent
// use; all state is read-only after construction.
type Engine struct {
	catalog *catalog.Catalog
	cfg     config.EngineConfig
	weights map[claims.Category]float64
	clock   clockwork.Clock
	sink    audit.Sink
	logger  *zap.Logger
}

// Request carries one claim into a validation run. History and
// RecentRiskFactors are optional; without history, annual and lifetime
// frequency checks see only the current claim, and without recent factors no
// cross-claim patterns are detected.
type Request struct {
	Snapshot          *claims.ClaimSnapshot
	History           *claims.PatientHistory
	RecentRiskFactors []claims.RiskFactor
}

// NewEngine creates a validation engine. The sink may be nil, in which case
// no audit events are emitted.
func NewEngine(cat *catalog.Catalog, cfg config.EngineConfig, clock clockwork.Clock, sink audit.Sink, logger *zap.Logger) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}
	if err := cat.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine configuration: %w", err)
	}
	weights := make(map[claims.Category]float64, len(cfg.CategoryWeights))
	for name, weight := range cfg.CategoryWeights {
		weights[claims.Category(name)] = weight
	}
	return &Engine{
		catalog: cat,
		cfg:     cfg,
		weights: weights,
		clock:   clock,
		sink:    sink,
		logger:  logger,
	}, nil
}

// Validate runs every category validator against the snapshot and assembles
// the validation report. Identical inputs validated against the same catalog
// at the same instant produce byte-identical reports.
func (e *Engine) Validate(ctx context.Context, req Request) (*claims.ValidationReport, error) {
	if req.Snapshot == nil {
		return nil, fmt.Errorf("claim snapshot is required")
	}
	if req.Snapshot.ClaimID == "" {
		return nil, fmt.Errorf("claim snapshot has no claim ID")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := e.clock.Now().UTC()
	snapshot := req.Snapshot

	results := map[claims.Category]claims.CategoryResult{
		claims.CategoryMedicalNecessity:   ValidateMedicalNecessity(snapshot, e.catalog),
		claims.CategoryTimelyFiling:       ValidateTimelyFiling(snapshot, e.catalog, now, e.cfg.FilingWarningBufferDays),
		claims.CategoryProviderEnrollment: ValidateProviderEnrollment(snapshot, e.catalog),
		claims.CategoryFrequencyLimits:    ValidateFrequencyLimits(snapshot, e.catalog, req.History),
		claims.CategoryPayerCompliance:    ValidatePayerCompliance(snapshot, e.catalog),
		claims.CategoryClaimCompleteness:  ValidateClaimCompleteness(snapshot, e.cfg.CompletenessThreshold),
	}

	assessment := AssessRisk(results, e.weights, e.cfg.RiskThresholds)
	assessment.PatternsDetected = DetectRecurringFactors(assessment.RiskFactors, req.RecentRiskFactors)
	assessment.Recommendations = GenerateRecommendations(assessment.RiskFactors, assessment.OverallRisk)

	report := &claims.ValidationReport{
		ID:              reportID(snapshot.ClaimID, e.catalog.Version, now),
		ClaimID:         snapshot.ClaimID,
		CatalogVersion:  e.catalog.Version,
		ValidatedAt:     now,
		OverallStatus:   ResolveOverallStatus(results),
		ComplianceScore: ComplianceScore(results, e.weights),
		Categories:      results,
		RiskAssessment:  assessment,
		Recommendations: assessment.Recommendations,
	}

	e.emitRiskAssessed(ctx, report)

	e.logger.Info("claim validated",
		zap.String("claim_id", report.ClaimID),
		zap.String("overall_status", string(report.OverallStatus)),
		zap.Float64("compliance_score", report.ComplianceScore),
		zap.Float64("risk_score", assessment.RiskScore),
		zap.String("risk_level", string(assessment.OverallRisk)),
	)
	return report, nil
}

// BatchResult pairs one batch entry with its outcome. Index refers to the
// position in the submitted request slice.
type BatchResult struct {
	Index  int
	Report *claims.ValidationReport
	Err    error
}

// ValidateBatch validates requests concurrently with a bounded worker pool
// and returns results in submission order. A failed entry does not abort the
// rest of the batch.
func (e *Engine) ValidateBatch(ctx context.Context, reqs []Request) []BatchResult {
	results := make([]BatchResult, len(reqs))
	sem := make(chan struct{}, e.cfg.BatchConcurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req Request) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			report, err := e.Validate(ctx, req)
			results[i] = BatchResult{Index: i, Report: report, Err: err}
		}(i, req)
	}
	wg.Wait()
	return results
}

// emitRiskAssessed records the risk assessment in the audit trail. Every
// assessment is audited; a sink failure is logged but does not fail the
// validation run.
func (e *Engine) emitRiskAssessed(ctx context.Context, report *claims.ValidationReport) {
	if e.sink == nil {
		return
	}
	event := audit.NewEvent(audit.EventTypeRiskAssessed, report.ClaimID, report.ValidatedAt, map[string]interface{}{
		"report_id":        report.ID,
		"catalog_version":  report.CatalogVersion,
		"overall_status":   string(report.OverallStatus),
		"compliance_score": report.ComplianceScore,
		"risk_score":       report.RiskAssessment.RiskScore,
		"risk_level":       string(report.RiskAssessment.OverallRisk),
	})
	if err := e.sink.Emit(ctx, event); err != nil {
		e.logger.Warn("failed to emit audit event",
			zap.String("event_type", event.Type),
			zap.String("claim_id", report.ClaimID),
			zap.Error(err),
		)
	}
}

// reportID derives a stable report identifier from the claim, the catalog
// version, and the validation instant.
func reportID(claimID, catalogVersion string, validatedAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d", claimID, catalogVersion, validatedAt.UnixNano())))
	return "vr_" + hex.EncodeToString(sum[:])[:20]
}
