package controllers

import (
	"adhan/internal/services"
	"adhan/internal/updater"
	"fmt"
	"net/http"
	"time"
)

type HealthController struct {
	engine    updater.EngineInterface
	timings   services.TimingsServiceInterface
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	SyncState     string  `json:"sync_state"`
	HasTimings    bool    `json:"has_timings"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		SyncState:     hc.engine.State().String(),
		HasTimings:    !hc.timings.Current().IsEmpty(),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(engine updater.EngineInterface, timings services.TimingsServiceInterface) *HealthController {
	return &HealthController{
		engine:    engine,
		timings:   timings,
		startTime: time.Now(),
	}
}
