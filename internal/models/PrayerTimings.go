package models

import (
	"strings"
	"time"
)

const (
	Fajr    = "Fajr"
	Sunrise = "Sunrise"
	Dhuhr   = "Dhuhr"
	Asr     = "Asr"
	Maghrib = "Maghrib"
	Isha    = "Isha"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "02-01-2006"
)

// CanonicalPrayers are the only entries that may trigger a notification.
var CanonicalPrayers = []string{Fajr, Dhuhr, Asr, Maghrib, Isha}

// DisplayOrder lists the entries shown to the user, Sunrise included.
var DisplayOrder = []string{Fajr, Sunrise, Dhuhr, Asr, Maghrib, Isha}

type Source string

const (
	SourceLive  Source = "live"
	SourceCache Source = "cache"
)

// PrayerTimings is scoped to one (city, country, calendar day).
type PrayerTimings struct {
	City      string            `json:"city"`
	Country   string            `json:"country"`
	Date      string            `json:"date"`
	FetchedAt time.Time         `json:"fetched_at"`
	Source    Source            `json:"source"`
	Times     map[string]string `json:"timings"`
}

func IsCanonicalPrayer(name string) bool {
	for _, p := range CanonicalPrayers {
		if p == name {
			return true
		}
	}
	return false
}

// CleanTime drops any annotation after the first whitespace, so
// "05:23 (EET)" becomes "05:23".
func CleanTime(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func MatchesClock(value, clock string) bool {
	return CleanTime(value) != "" && CleanTime(value) == clock
}

func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

func (p *PrayerTimings) IsEmpty() bool {
	return p == nil || len(p.Times) == 0
}

func (p *PrayerTimings) Get(name string) (string, bool) {
	if p == nil {
		return "", false
	}
	v, ok := p.Times[name]
	return v, ok
}

// SameScope reports whether both timings describe the same city, country and day.
func (p *PrayerTimings) SameScope(o *PrayerTimings) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.City == o.City && p.Country == o.Country && p.Date == o.Date
}

// Next returns the first canonical prayer strictly after now's clock minute.
func (p *PrayerTimings) Next(now time.Time) (string, string, bool) {
	if p.IsEmpty() {
		return "", "", false
	}
	clock := now.Format(ClockLayout)
	bestName, bestAt := "", ""
	for _, name := range CanonicalPrayers {
		at := CleanTime(p.Times[name])
		if _, err := time.Parse(ClockLayout, at); err != nil {
			continue
		}
		if at <= clock {
			continue
		}
		if bestAt == "" || at < bestAt {
			bestName, bestAt = name, at
		}
	}
	return bestName, bestAt, bestName != ""
}

// PrayerCache is the on-disk record of the last successful time-service call.
type PrayerCache struct {
	FetchedAt string            `json:"fetched_at"`
	City      string            `json:"city"`
	Country   string            `json:"country"`
	Timings   map[string]string `json:"timings"`
}

var fetchedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (c *PrayerCache) FetchedTime() time.Time {
	for _, layout := range fetchedAtLayouts {
		if t, err := time.ParseInLocation(layout, c.FetchedAt, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (c *PrayerCache) Matches(city, country string) bool {
	if c == nil || len(c.Timings) == 0 {
		return false
	}
	return c.City == city && c.Country == country
}

func (c *PrayerCache) ToTimings() *PrayerTimings {
	fetched := c.FetchedTime()
	times := make(map[string]string, len(c.Timings))
	for k, v := range c.Timings {
		times[k] = v
	}
	return &PrayerTimings{
		City:      c.City,
		Country:   c.Country,
		Date:      DateOf(fetched),
		FetchedAt: fetched,
		Source:    SourceCache,
		Times:     times,
	}
}
