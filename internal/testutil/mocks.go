package testutil

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (e LogEntry) Message() string {
	return fmt.Sprintf(e.Format, e.Args...)
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Entries returns a copy of the recorded entries at the given level.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                sync.Mutex
	SyncRuns          map[string]int
	ResourceDownloads map[string]int
	SyncStates        []string
	TimingsRefreshes  map[string]int
	TriggersFired     map[string]int
	CacheHits         int
	CacheMisses       int
	Requests          int
}

func (m *MockMetrics) inc(target *map[string]int, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if *target == nil {
		*target = make(map[string]int)
	}
	(*target)[key]++
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncSyncRuns(result string) { m.inc(&m.SyncRuns, result) }
func (m *MockMetrics) IncResourceDownloads(resource, result string) {
	m.inc(&m.ResourceDownloads, resource+":"+result)
}
func (m *MockMetrics) SetSyncState(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SyncStates = append(m.SyncStates, state)
}
func (m *MockMetrics) IncTimingsRefresh(source string) { m.inc(&m.TimingsRefreshes, source) }
func (m *MockMetrics) IncTriggersFired(prayer string, audible bool) {
	m.inc(&m.TriggersFired, fmt.Sprintf("%s:%t", prayer, audible))
}
func (m *MockMetrics) ObserveTimeServiceDuration(_ time.Duration) {}
func (m *MockMetrics) Handler() http.Handler                      { return http.NotFoundHandler() }

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockSink implements notify.NotificationSink and records events.
type MockSink struct {
	mu       sync.Mutex
	Events   []models.PrayerEvent
	Stops    int
	Closes   int
	NotifyFn func(models.PrayerEvent) error
}

func (m *MockSink) Notify(_ context.Context, ev models.PrayerEvent) error {
	m.mu.Lock()
	m.Events = append(m.Events, ev)
	fn := m.NotifyFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ev)
	}
	return nil
}

func (m *MockSink) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stops++
}

func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closes++
	return nil
}

func (m *MockSink) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Events)
}

func (m *MockSink) Prayers() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.Events))
	for _, ev := range m.Events {
		out = append(out, ev.Prayer)
	}
	return out
}

// MockDisplay implements notify.TimingsDisplay.
type MockDisplay struct {
	mu       sync.Mutex
	Timings  []*models.PrayerTimings
	Statuses []string
}

func (m *MockDisplay) ShowTimings(t *models.PrayerTimings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timings = append(m.Timings, t)
}

func (m *MockDisplay) ShowStatus(msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statuses = append(m.Statuses, msg)
}

func (m *MockDisplay) LastStatus() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Statuses) == 0 {
		return ""
	}
	return m.Statuses[len(m.Statuses)-1]
}

// MockRestarter implements updater.Restarter.
type MockRestarter struct {
	mu    sync.Mutex
	Calls int
	Err   error
}

func (m *MockRestarter) Restart() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	return m.Err
}

// MockConnectivity implements services.ConnectivityInterface.
type MockConnectivity struct {
	IsOnline bool
}

func (m *MockConnectivity) Online(_ context.Context) bool { return m.IsOnline }
