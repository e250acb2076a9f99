package controllers

import (
	"adhan/internal/models"
	"adhan/internal/notify"
	"adhan/internal/providers"
	"adhan/internal/scheduler/interfaces"
	"adhan/internal/services"
	"adhan/internal/store"
	"adhan/internal/updater"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 20 // 1 MB

const manualPrayer = "Manual"

// ApiController serves the loopback control API: the operations a desktop
// front end offers as buttons and selectors.
type ApiController struct {
	logger    providers.Logger
	cache     providers.CacheProviderInterface
	store     store.ResourceStoreInterface
	settings  services.SettingsServiceInterface
	catalog   services.CatalogServiceInterface
	timings   services.TimingsServiceInterface
	evaluator interfaces.EvaluatorInterface
	engine    updater.EngineInterface
	sink      notify.NotificationSink
	status    notify.StatusReader
	now       func() time.Time
}

func NewApiController(
	logger providers.Logger,
	cache providers.CacheProviderInterface,
	st store.ResourceStoreInterface,
	settings services.SettingsServiceInterface,
	catalog services.CatalogServiceInterface,
	timings services.TimingsServiceInterface,
	evaluator interfaces.EvaluatorInterface,
	engine updater.EngineInterface,
	sink notify.NotificationSink,
	status notify.StatusReader,
) *ApiController {
	return &ApiController{
		logger:    logger,
		cache:     cache,
		store:     st,
		settings:  settings,
		catalog:   catalog,
		timings:   timings,
		evaluator: evaluator,
		engine:    engine,
		sink:      sink,
		status:    status,
		now:       time.Now,
	}
}

type nextPrayer struct {
	Prayer string `json:"prayer"`
	Time   string `json:"time"`
}

type timingsResponse struct {
	*models.PrayerTimings
	Next  *nextPrayer `json:"next,omitempty"`
	Fired []string    `json:"fired"`
}

type statusResponse struct {
	SyncState string                `json:"sync_state"`
	Version   string                `json:"version"`
	Displayed *models.PrayerTimings `json:"displayed"`
	History   []notify.StatusEntry  `json:"history"`
}

// settingsPatch lists the fields a client may change; absent fields stay.
type settingsPatch struct {
	City         *string `json:"city"`
	Country      *string `json:"country"`
	Volume       *int    `json:"volume"`
	AdhanEnabled *bool   `json:"adhan_enabled"`
	AutoStart    *bool   `json:"auto_start"`
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeRaw(w, http.StatusOK, data)
		return
	}

	result, err := compute()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeRaw(w, http.StatusOK, gson)
}

func (ac *ApiController) GetTimings(w http.ResponseWriter, r *http.Request) {
	current := ac.timings.Current()
	if current.IsEmpty() {
		writeError(w, http.StatusNotFound, services.ErrNoData.Error())
		return
	}

	resp := timingsResponse{PrayerTimings: current, Fired: ac.timings.Ledger().Fired()}
	if name, at, ok := ac.evaluator.NextPrayer(ac.now()); ok {
		resp.Next = &nextPrayer{Prayer: name, Time: at}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetCatalog lists countries with their cities. The cached response is keyed
// by the catalog generation, so a reload is never served stale.
func (ac *ApiController) GetCatalog(w http.ResponseWriter, r *http.Request) {
	generation := ac.catalog.Generation()
	catalog := ac.catalog.Current()
	ac.serveFromCacheOrCompute(w, fmt.Sprintf("catalog:%d", generation), func() (any, error) {
		out := make(map[string][]string, len(catalog.Countries()))
		for _, country := range catalog.Countries() {
			out[country] = catalog.Cities(country)
		}
		return out, nil
	})
}

func (ac *ApiController) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.store.LoadTheme())
}

func (ac *ApiController) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		SyncState: ac.engine.State().String(),
		Version:   ac.store.LoadVersion(),
		Displayed: ac.status.Timings(),
		History:   ac.status.History(),
	})
}

func (ac *ApiController) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ac.settings.Get())
}

func (ac *ApiController) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var patch settingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request")
		return
	}

	current := ac.settings.Get()
	city, country := current.Selection()
	if patch.City != nil {
		city = strings.TrimSpace(*patch.City)
	}
	if patch.Country != nil {
		country = strings.TrimSpace(*patch.Country)
	}
	selectionChanged := city != current.City || country != current.Country
	if selectionChanged {
		if _, ok := ac.catalog.Current().Lookup(city, country); !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("%s - %s: %s", city, country, services.ErrCityNotFound))
			return
		}
	}

	_, err := ac.settings.Apply(services.SettingsPatch{
		City:         patch.City,
		Country:      patch.Country,
		Volume:       patch.Volume,
		AdhanEnabled: patch.AdhanEnabled,
		AutoStart:    patch.AutoStart,
	})
	if errors.Is(err, services.ErrInvalidSelection) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		ac.logger.Errorf(providers.TypeHTTP, "Settings update failed: %s", err)
		writeError(w, http.StatusInternalServerError, "unable to save settings")
		return
	}

	if selectionChanged {
		if _, err = ac.timings.Refresh(r.Context(), true); err != nil {
			ac.logger.Warnf(providers.TypeHTTP, "Refresh after selection change: %s", err)
		}
	}
	writeJSON(w, http.StatusOK, ac.settings.Get())
}

func (ac *ApiController) Refresh(w http.ResponseWriter, r *http.Request) {
	timings, err := ac.timings.Refresh(r.Context(), true)
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, services.ErrCityNotFound) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, timings)
}

// PlayAdhan starts a notification for the current selection and returns
// without waiting for it to finish.
func (ac *ApiController) PlayAdhan(w http.ResponseWriter, r *http.Request) {
	cfg := ac.settings.Get()
	now := ac.now()
	ev := models.PrayerEvent{
		Prayer:   manualPrayer,
		Time:     now.Format(models.ClockLayout),
		City:     cfg.City,
		Country:  cfg.Country,
		DeviceID: cfg.DeviceID,
		At:       now,
	}

	go func() {
		if err := ac.sink.Notify(context.Background(), ev); err != nil {
			ac.logger.Errorf(providers.TypeAudio, "Manual adhan failed: %s", err)
		}
	}()
	w.WriteHeader(http.StatusAccepted)
}

// ToggleAdhan flips the audible notification switch and reports the new
// state.
func (ac *ApiController) ToggleAdhan(w http.ResponseWriter, r *http.Request) {
	enabled, err := ac.settings.ToggleAdhan()
	if err != nil {
		ac.logger.Errorf(providers.TypeHTTP, "Adhan toggle failed: %s", err)
		writeError(w, http.StatusInternalServerError, "unable to save settings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"adhan_enabled": enabled})
}

func (ac *ApiController) StopAdhan(w http.ResponseWriter, r *http.Request) {
	ac.sink.Stop()
	w.WriteHeader(http.StatusNoContent)
}
