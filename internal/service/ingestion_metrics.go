package service

import (
	"fmt"
	"sync"
	"time"
)

// IngestionMetrics tracks statistics about data ingestion
type IngestionMetrics struct {
	mu               sync.RWMutex
	StartTime        time.Time
	Duration         time.Duration
	TotalGames       int
	StoredGames      int
	WithLines        int
	WithWeather      int
	TotalTeams       int
	ValidationErrors int
	Errors           int
}

// NewIngestionMetrics creates a new metrics tracker
func NewIngestionMetrics() *IngestionMetrics {
	return &IngestionMetrics{
		StartTime: time.Now(),
	}
}

// Reset resets all metrics
func (m *IngestionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartTime = time.Now()
	m.Duration = 0
	m.TotalGames = 0
	m.StoredGames = 0
	m.WithLines = 0
	m.WithWeather = 0
	m.TotalTeams = 0
	m.ValidationErrors = 0
	m.Errors = 0
}

// RecordFetched adds fetched game count
func (m *IngestionMetrics) RecordFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalGames += n
}

// RecordStored increments stored game count
func (m *IngestionMetrics) RecordStored(hasLine, hasWeather bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StoredGames++
	if hasLine {
		m.WithLines++
	}
	if hasWeather {
		m.WithWeather++
	}
}

// RecordTeam increments team count
func (m *IngestionMetrics) RecordTeam() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TotalTeams++
}

// RecordError increments error count
func (m *IngestionMetrics) RecordError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors++
}

// RecordValidationError increments validation error count
func (m *IngestionMetrics) RecordValidationError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ValidationErrors++
}

// Finish stamps the run duration
func (m *IngestionMetrics) Finish() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Duration = time.Since(m.StartTime)
}

// Counts returns fetched, stored and failed game counts
func (m *IngestionMetrics) Counts() (fetched, stored, failed int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.TotalGames, m.StoredGames, m.ValidationErrors + m.Errors
}

// String returns a formatted string representation of metrics
func (m *IngestionMetrics) String() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	successRate := float64(0)
	if m.TotalGames > 0 {
		successRate = float64(m.StoredGames) / float64(m.TotalGames) * 100
	}

	return fmt.Sprintf(
		"IngestionMetrics{Total=%d, Stored=%d (%.1f%%), Lines=%d, Weather=%d, Teams=%d, ValidationErrors=%d, Errors=%d, Duration=%v}",
		m.TotalGames,
		m.StoredGames,
		successRate,
		m.WithLines,
		m.WithWeather,
		m.TotalTeams,
		m.ValidationErrors,
		m.Errors,
		m.Duration,
	)
}
