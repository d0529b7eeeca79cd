package config

import (
	"fmt"
	"math"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config represents the application configuration.
type Config struct {
	Environment string           `mapstructure:"environment"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Kafka       KafkaConfig      `mapstructure:"kafka"`
	Engine      EngineConfig     `mapstructure:"engine"`
	Monitoring  MonitoringConfig `mapstructure:"monitoring"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	HTTPPort int    `mapstructure:"http_port"`
	Host     string `mapstructure:"host"`
	Timeout  int    `mapstructure:"timeout"`
}

// DatabaseConfig contains report store connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig contains metrics cache settings.
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	Database int           `mapstructure:"database"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// KafkaConfig contains audit event publishing settings.
type KafkaConfig struct {
	Brokers    string `mapstructure:"brokers"`
	AuditTopic string `mapstructure:"audit_topic"`
}

// EngineConfig contains validation engine settings. Category weights and
// risk thresholds are configuration so they can be tuned without code
// changes; they are validated at load and inconsistencies are fatal.
type EngineConfig struct {
	CatalogPath             string             `mapstructure:"catalog_path"`
	CategoryWeights         map[string]float64 `mapstructure:"category_weights"`
	RiskThresholds          RiskThresholds     `mapstructure:"risk_thresholds"`
	CompletenessThreshold   float64            `mapstructure:"completeness_threshold"`
	FilingWarningBufferDays int                `mapstructure:"filing_warning_buffer_days"`
	BatchConcurrency        int                `mapstructure:"batch_concurrency"`
}

// RiskThresholds maps a 0-100 risk score onto an overall risk level. Scores
// below Medium are low risk.
type RiskThresholds struct {
	Critical float64 `mapstructure:"critical"`
	High     float64 `mapstructure:"high"`
	Medium   float64 `mapstructure:"medium"`
}

// MonitoringConfig contains compliance monitoring settings.
type MonitoringConfig struct {
	DefaultTimeRange string          `mapstructure:"default_time_range"`
	ScanSchedule     string          `mapstructure:"scan_schedule"`
	AlertThresholds  AlertThresholds `mapstructure:"alert_thresholds"`
}

// ThresholdBand holds per-severity cutoffs for one tracked metric. Whether a
// crossing means "above" or "below" depends on the metric.
type ThresholdBand struct {
	Critical float64 `mapstructure:"critical"`
	High     float64 `mapstructure:"high"`
	Medium   float64 `mapstructure:"medium"`
	Low      float64 `mapstructure:"low"`
}

// AlertThresholds defines the severity cutoffs for each tracked compliance
// metric. ComplianceScore and ValidationRate alert when the metric falls
// below a cutoff; DenialRate alerts when it rises above one.
type AlertThresholds struct {
	ComplianceScore ThresholdBand `mapstructure:"compliance_score"`
	ValidationRate  ThresholdBand `mapstructure:"validation_rate"`
	DenialRate      ThresholdBand `mapstructure:"denial_rate"`
}

// Load reads configuration from the given file plus environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.timeout", 30)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "claims_compliance")
	v.SetDefault("database.username", "claims")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.cache_ttl", "5m")

	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.audit_topic", "compliance.audit-events")

	v.SetDefault("engine.category_weights", map[string]float64{
		"medical_necessity":   0.20,
		"timely_filing":       0.20,
		"provider_enrollment": 0.20,
		"frequency_limits":    0.15,
		"payer_compliance":    0.15,
		"claim_completeness":  0.10,
	})
	v.SetDefault("engine.risk_thresholds.critical", 90.0)
	v.SetDefault("engine.risk_thresholds.high", 70.0)
	v.SetDefault("engine.risk_thresholds.medium", 40.0)
	v.SetDefault("engine.completeness_threshold", 90.0)
	v.SetDefault("engine.filing_warning_buffer_days", 30)
	v.SetDefault("engine.batch_concurrency", 8)

	v.SetDefault("monitoring.default_time_range", "30d")
	v.SetDefault("monitoring.scan_schedule", "@every 15m")
	v.SetDefault("monitoring.alert_thresholds.compliance_score.critical", 60.0)
	v.SetDefault("monitoring.alert_thresholds.compliance_score.high", 70.0)
	v.SetDefault("monitoring.alert_thresholds.compliance_score.medium", 80.0)
	v.SetDefault("monitoring.alert_thresholds.compliance_score.low", 90.0)
	v.SetDefault("monitoring.alert_thresholds.validation_rate.critical", 60.0)
	v.SetDefault("monitoring.alert_thresholds.validation_rate.high", 70.0)
	v.SetDefault("monitoring.alert_thresholds.validation_rate.medium", 80.0)
	v.SetDefault("monitoring.alert_thresholds.validation_rate.low", 90.0)
	v.SetDefault("monitoring.alert_thresholds.denial_rate.critical", 30.0)
	v.SetDefault("monitoring.alert_thresholds.denial_rate.high", 20.0)
	v.SetDefault("monitoring.alert_thresholds.denial_rate.medium", 10.0)
	v.SetDefault("monitoring.alert_thresholds.denial_rate.low", 5.0)
}

// Validate checks the configuration invariants. Category weights must cover
// all six categories and sum to exactly 1.0; silently normalizing a bad
// weight set would mask a configuration bug.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	return c.Monitoring.Validate()
}

// Validate checks engine invariants.
func (e *EngineConfig) Validate() error {
	required := []string{
		"medical_necessity",
		"timely_filing",
		"provider_enrollment",
		"frequency_limits",
		"payer_compliance",
		"claim_completeness",
	}
	sum := 0.0
	for _, name := range required {
		weight, ok := e.CategoryWeights[name]
		if !ok {
			return fmt.Errorf("missing category weight for %q", name)
		}
		if weight < 0 {
			return fmt.Errorf("negative category weight for %q", name)
		}
		sum += weight
	}
	if len(e.CategoryWeights) != len(required) {
		return fmt.Errorf("unexpected category weight entries: got %d, want %d", len(e.CategoryWeights), len(required))
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("category weights must sum to 1.0, got %.6f", sum)
	}
	t := e.RiskThresholds
	if !(t.Medium > 0 && t.High > t.Medium && t.Critical > t.High && t.Critical <= 100) {
		return fmt.Errorf("risk thresholds must satisfy 0 < medium < high < critical <= 100, got %+v", t)
	}
	if e.CompletenessThreshold <= 0 || e.CompletenessThreshold > 100 {
		return fmt.Errorf("completeness threshold must be in (0,100], got %.2f", e.CompletenessThreshold)
	}
	if e.FilingWarningBufferDays < 0 {
		return fmt.Errorf("filing warning buffer must be non-negative, got %d", e.FilingWarningBufferDays)
	}
	if e.BatchConcurrency <= 0 {
		return fmt.Errorf("batch concurrency must be positive, got %d", e.BatchConcurrency)
	}
	return nil
}

// Validate checks monitoring invariants.
func (m *MonitoringConfig) Validate() error {
	for name, band := range map[string]ThresholdBand{
		"compliance_score": m.AlertThresholds.ComplianceScore,
		"validation_rate":  m.AlertThresholds.ValidationRate,
	} {
		if !(band.Critical <= band.High && band.High <= band.Medium && band.Medium <= band.Low) {
			return fmt.Errorf("%s alert thresholds must be ordered critical <= high <= medium <= low", name)
		}
	}
	band := m.AlertThresholds.DenialRate
	if !(band.Critical >= band.High && band.High >= band.Medium && band.Medium >= band.Low) {
		return fmt.Errorf("denial_rate alert thresholds must be ordered critical >= high >= medium >= low")
	}
	return nil
}

// DSN returns the report store connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.Username,
		c.Database.Password,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// RedisAddr returns the metrics cache address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// InitLogger initializes the logger based on configuration.
func (c *Config) InitLogger() (*zap.Logger, error) {
	var zapCfg zap.Config
	if c.Environment == "production" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
