package notify

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"fmt"
	"strings"
	"sync"
	"time"
)

const unavailable = "unavailable"

// TimingsDisplay presents the current timings and short status lines.
type TimingsDisplay interface {
	ShowTimings(t *models.PrayerTimings)
	ShowStatus(msg string)
}

type StatusEntry struct {
	At      time.Time `json:"at"`
	Message string    `json:"message"`
}

// StatusReader exposes what a display last showed.
type StatusReader interface {
	Timings() *models.PrayerTimings
	History() []StatusEntry
}

// FormatTimings renders the display entries in order, marking missing ones.
func FormatTimings(t *models.PrayerTimings) string {
	parts := make([]string, 0, len(models.DisplayOrder))
	for _, name := range models.DisplayOrder {
		value, ok := t.Get(name)
		if !ok || models.CleanTime(value) == "" {
			value = unavailable
		}
		parts = append(parts, fmt.Sprintf("%s %s", name, models.CleanTime(value)))
	}
	return strings.Join(parts, " | ")
}

type LogDisplay struct {
	logger providers.Logger
}

func NewLogDisplay(logger providers.Logger) *LogDisplay {
	return &LogDisplay{logger: logger}
}

func (d *LogDisplay) ShowTimings(t *models.PrayerTimings) {
	if t.IsEmpty() {
		d.logger.Infof(providers.TypePrayer, "Timings: %s", FormatTimings(nil))
		return
	}
	d.logger.Infof(providers.TypePrayer, "Timings for %s - %s (%s, %s): %s", t.City, t.Country, t.Date, t.Source, FormatTimings(t))
}

func (d *LogDisplay) ShowStatus(msg string) {
	d.logger.Infof(providers.TypePrayer, "%s", msg)
}

// StatusBoard keeps the last timings and a bounded status history in memory
// for the control API, and logs like LogDisplay.
type StatusBoard struct {
	log   *LogDisplay
	limit int
	now   func() time.Time

	mu      sync.RWMutex
	timings *models.PrayerTimings
	history []StatusEntry
}

func NewStatusBoard(logger providers.Logger, limit int) *StatusBoard {
	if limit <= 0 {
		limit = 1
	}
	return &StatusBoard{log: NewLogDisplay(logger), limit: limit, now: time.Now}
}

func (b *StatusBoard) ShowTimings(t *models.PrayerTimings) {
	b.mu.Lock()
	b.timings = t
	b.mu.Unlock()
	b.log.ShowTimings(t)
}

func (b *StatusBoard) ShowStatus(msg string) {
	b.mu.Lock()
	b.history = append(b.history, StatusEntry{At: b.now(), Message: msg})
	if len(b.history) > b.limit {
		b.history = append([]StatusEntry(nil), b.history[len(b.history)-b.limit:]...)
	}
	b.mu.Unlock()
	b.log.ShowStatus(msg)
}

func (b *StatusBoard) Timings() *models.PrayerTimings {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.timings
}

func (b *StatusBoard) History() []StatusEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]StatusEntry(nil), b.history...)
}
