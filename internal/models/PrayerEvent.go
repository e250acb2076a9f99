package models

import "time"

// PrayerEvent is what a notification sink receives when a prayer starts.
type PrayerEvent struct {
	Prayer   string    `json:"prayer"`
	Time     string    `json:"time"`
	City     string    `json:"city"`
	Country  string    `json:"country"`
	DeviceID string    `json:"device_id"`
	At       time.Time `json:"at"`
}
