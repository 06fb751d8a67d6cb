package metrics

import (
	"sync"
	"time"
)

// Metrics collects per-run pipeline counters, exposed by the optional
// monitoring server.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	ItemsFetched         int64
	ItemsMalformed       int64
	DuplicatesSkipped    int64
	TranslationsOK       int64
	TranslationsFallback int64
	PartsDelivered       int64
	DeliveryFailures     int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddItemsFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsFetched += int64(n)
}

func (m *Metrics) IncrementItemsMalformed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsMalformed++
}

func (m *Metrics) AddDuplicatesSkipped(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesSkipped += int64(n)
}

func (m *Metrics) IncrementTranslationsOK() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsOK++
}

func (m *Metrics) IncrementTranslationsFallback() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TranslationsFallback++
}

func (m *Metrics) IncrementPartsDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PartsDelivered++
}

func (m *Metrics) IncrementDeliveryFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeliveryFailures++
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"items_fetched":         m.ItemsFetched,
		"items_malformed":       m.ItemsMalformed,
		"duplicates_skipped":    m.DuplicatesSkipped,
		"translations_ok":       m.TranslationsOK,
		"translations_fallback": m.TranslationsFallback,
		"parts_delivered":       m.PartsDelivered,
		"delivery_failures":     m.DeliveryFailures,
		"last_run_time":         m.LastRunTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
