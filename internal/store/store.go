package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/claimshield/compliance-engine/internal/claims"
	"github.com/claimshield/compliance-engine/internal/monitoring"
)

// ReportRecord is the persisted form of a validation report. The full report
// is kept as a JSON document; the indexed columns serve the monitoring
// queries.
type ReportRecord struct {
	ID              string    `gorm:"primaryKey;size:64"`
	ClaimID         string    `gorm:"index;size:64;not null"`
	CatalogVersion  string    `gorm:"size:32;not null"`
	OverallStatus   string    `gorm:"index;size:32;not null"`
	ComplianceScore float64   `gorm:"not null"`
	RiskScore       float64   `gorm:"not null"`
	RiskLevel       string    `gorm:"size:16;not null"`
	ValidatedAt     time.Time `gorm:"index;not null"`
	Document        []byte    `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time
}

// TableName overrides the default pluralization.
func (ReportRecord) TableName() string { return "validation_reports" }

// AlertRecord persists a compliance alert.
type AlertRecord struct {
	ID             string `gorm:"primaryKey;size:64"`
	Severity       string `gorm:"index;size:16;not null"`
	AlertType      string `gorm:"size:64;not null"`
	Title          string `gorm:"size:256;not null"`
	Description    string
	MetricValue    float64
	AffectedClaims int
	Acknowledged   bool `gorm:"index;not null"`
	AcknowledgedBy string
	AcknowledgedAt *time.Time
	CreatedAt      time.Time `gorm:"index;not null"`
}

// TableName overrides the default pluralization.
func (AlertRecord) TableName() string { return "compliance_alerts" }

// Store persists validation reports and alerts in Postgres.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// New opens the database and migrates the schema.
func New(dsn string, logger *zap.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&ReportRecord{}, &AlertRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// SaveReport persists a validation report. Revalidation of an identical
// snapshot at the same instant yields the same report ID, so conflicting
// inserts are ignored rather than duplicated.
func (s *Store) SaveReport(ctx context.Context, report *claims.ValidationReport) error {
	document, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	record := ReportRecord{
		ID:              report.ID,
		ClaimID:         report.ClaimID,
		CatalogVersion:  report.CatalogVersion,
		OverallStatus:   string(report.OverallStatus),
		ComplianceScore: report.ComplianceScore,
		RiskScore:       report.RiskAssessment.RiskScore,
		RiskLevel:       string(report.RiskAssessment.OverallRisk),
		ValidatedAt:     report.ValidatedAt,
		Document:        document,
	}
	result := s.db.WithContext(ctx).
		Where("id = ?", record.ID).
		FirstOrCreate(&record)
	if result.Error != nil {
		return fmt.Errorf("failed to save report: %w", result.Error)
	}
	return nil
}

// ReportsInWindow loads the reports validated inside [from, to), oldest
// first.
func (s *Store) ReportsInWindow(ctx context.Context, from, to time.Time) ([]*claims.ValidationReport, error) {
	var records []ReportRecord
	err := s.db.WithContext(ctx).
		Where("validated_at >= ? AND validated_at < ?", from, to).
		Order("validated_at asc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	reports := make([]*claims.ValidationReport, 0, len(records))
	for _, record := range records {
		var report claims.ValidationReport
		if err := json.Unmarshal(record.Document, &report); err != nil {
			s.logger.Warn("skipping undecodable report document",
				zap.String("report_id", record.ID),
				zap.Error(err),
			)
			continue
		}
		reports = append(reports, &report)
	}
	return reports, nil
}

// RecentRiskFactors collects the risk factors from a claim's prior reports,
// newest first, capped at limit reports. They feed cross-validation pattern
// detection.
func (s *Store) RecentRiskFactors(ctx context.Context, claimID string, limit int) ([]claims.RiskFactor, error) {
	var records []ReportRecord
	err := s.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		Order("validated_at desc").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load prior reports: %w", err)
	}

	var factors []claims.RiskFactor
	for _, record := range records {
		var report claims.ValidationReport
		if err := json.Unmarshal(record.Document, &report); err != nil {
			continue
		}
		factors = append(factors, report.RiskAssessment.RiskFactors...)
	}
	return factors, nil
}

// SaveAlert persists a new alert.
func (s *Store) SaveAlert(ctx context.Context, alert *monitoring.Alert) error {
	record := alertRecordFrom(alert)
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// UpdateAlert persists acknowledgment state changes.
func (s *Store) UpdateAlert(ctx context.Context, alert *monitoring.Alert) error {
	record := alertRecordFrom(alert)
	if err := s.db.WithContext(ctx).Save(&record).Error; err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	return nil
}

// Alerts loads all alerts, newest first. Alerts are never deleted; resolved
// state is carried by acknowledgment.
func (s *Store) Alerts(ctx context.Context) ([]*monitoring.Alert, error) {
	var records []AlertRecord
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}

	alerts := make([]*monitoring.Alert, 0, len(records))
	for _, record := range records {
		alerts = append(alerts, &monitoring.Alert{
			ID:             record.ID,
			Severity:       record.Severity,
			Type:           record.AlertType,
			Title:          record.Title,
			Description:    record.Description,
			Color:          monitoring.SeverityColor(record.Severity),
			MetricValue:    record.MetricValue,
			AffectedClaims: record.AffectedClaims,
			Acknowledged:   record.Acknowledged,
			AcknowledgedBy: record.AcknowledgedBy,
			AcknowledgedAt: record.AcknowledgedAt,
			CreatedAt:      record.CreatedAt,
		})
	}
	return alerts, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func alertRecordFrom(alert *monitoring.Alert) AlertRecord {
	return AlertRecord{
		ID:             alert.ID,
		Severity:       alert.Severity,
		AlertType:      alert.Type,
		Title:          alert.Title,
		Description:    alert.Description,
		MetricValue:    alert.MetricValue,
		AffectedClaims: alert.AffectedClaims,
		Acknowledged:   alert.Acknowledged,
		AcknowledgedBy: alert.AcknowledgedBy,
		AcknowledgedAt: alert.AcknowledgedAt,
		CreatedAt:      alert.CreatedAt,
	}
}
