package notify

import (
	"adhan/internal/models"
	"adhan/internal/testutil"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTimings() *models.PrayerTimings {
	return &models.PrayerTimings{
		City:    "Cairo",
		Country: "Egypt",
		Date:    "01-03-2026",
		Source:  models.SourceLive,
		Times: map[string]string{
			models.Fajr:    "04:50 (EET)",
			models.Sunrise: "06:15",
			models.Dhuhr:   "12:05",
			models.Asr:     "15:20",
			models.Maghrib: "17:55",
			"Midnight":     "23:59",
		},
	}
}

func TestFormatTimings(t *testing.T) {
	assert.Equal(t,
		"Fajr 04:50 | Sunrise 06:15 | Dhuhr 12:05 | Asr 15:20 | Maghrib 17:55 | Isha unavailable",
		FormatTimings(sampleTimings()))
}

func TestFormatTimings_Nil(t *testing.T) {
	assert.Equal(t,
		"Fajr unavailable | Sunrise unavailable | Dhuhr unavailable | Asr unavailable | Maghrib unavailable | Isha unavailable",
		FormatTimings(nil))
}

func TestLogDisplay(t *testing.T) {
	logger := &testutil.MockLogger{}
	d := NewLogDisplay(logger)

	d.ShowTimings(sampleTimings())
	d.ShowStatus("Using locally cached timings")

	entries := logger.Entries("info")
	if assert.Len(t, entries, 2) {
		assert.Contains(t, entries[0].Message(), "Cairo - Egypt")
		assert.Equal(t, "Using locally cached timings", entries[1].Message())
	}
}

func TestStatusBoard_KeepsSnapshotAndBoundedHistory(t *testing.T) {
	board := NewStatusBoard(&testutil.MockLogger{}, 3)

	board.ShowTimings(sampleTimings())
	for i := 0; i < 5; i++ {
		board.ShowStatus(fmt.Sprintf("status %d", i))
	}

	assert.Equal(t, "Cairo", board.Timings().City)
	history := board.History()
	if assert.Len(t, history, 3) {
		assert.Equal(t, "status 2", history[0].Message)
		assert.Equal(t, "status 4", history[2].Message)
	}
}

func TestNewStatusReader(t *testing.T) {
	board := NewStatusBoard(&testutil.MockLogger{}, 5)
	assert.Same(t, board, NewStatusReader(board))

	reader := NewStatusReader(NewLogDisplay(&testutil.MockLogger{}))
	assert.Nil(t, reader.Timings())
	assert.Empty(t, reader.History())
}
