package datasource

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/ricks-picks/internal/config"
)

// SourceType represents the type of data source
type SourceType string

const (
	// CFBDSourceType is the CollegeFootballData API
	CFBDSourceType SourceType = "cfbd"
)

// Factory creates DataSource implementations based on configuration
type Factory struct {
	logger logrus.FieldLogger
}

// NewFactory creates a new data source factory
func NewFactory(logger logrus.FieldLogger) *Factory {
	return &Factory{logger: logger}
}

// HTTPClientConfigFrom builds client settings from the data source section
func HTTPClientConfigFrom(cfg config.DataSourceConfig) HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	if cfg.Burst > 0 {
		httpCfg.Burst = cfg.Burst
	}
	httpCfg.MaxRetries = cfg.RetryMax
	return httpCfg
}

// NewDataSource creates a new DataSource based on the provided configuration
func (f *Factory) NewDataSource(cfg config.DataSourceConfig, httpClient *RateLimitedHTTPClient) (DataSource, error) {
	if httpClient == nil {
		httpClient = NewRateLimitedHTTPClient(HTTPClientConfigFrom(cfg), f.logger)
	}

	switch SourceType(cfg.Name) {
	case CFBDSourceType:
		if cfg.APIKey == "" && f.logger != nil {
			f.logger.Warn("CollegeFootballData API key is empty, requests will be rejected")
		}
		return NewCFBDClient(httpClient, cfg.BaseURL, cfg.APIKey, f.logger), nil
	default:
		return nil, fmt.Errorf("unknown data source: %s", cfg.Name)
	}
}
