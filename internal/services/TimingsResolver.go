package services

import (
	"adhan/internal/models"
	"adhan/internal/providers"
	"adhan/internal/store"
	"adhan/internal/structures"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

var (
	ErrCityNotFound = errors.New("city not found in catalog")
	ErrOffline      = errors.New("network unreachable")
	ErrBadResponse  = errors.New("unexpected time-service response")
	ErrNoData       = errors.New("no prayer timings available")
)

type TimingsResolverInterface interface {
	Resolve(ctx context.Context, city, country string, catalog *models.CityCatalog) (*models.PrayerTimings, error)
	Live(ctx context.Context, city, country string, catalog *models.CityCatalog) (*models.PrayerTimings, error)
	Cached(city, country string) (*models.PrayerTimings, bool)
}

type timingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

// TimingsResolver asks the time service for today's timings and falls back to
// the last successful answer, but only when that answer was for the same
// city and country.
type TimingsResolver struct {
	conf    *structures.Config
	store   store.ResourceStoreInterface
	memo    providers.CacheProviderInterface
	online  ConnectivityInterface
	metrics providers.MetricsProviderInterface
	logger  providers.Logger
	client  *http.Client
	now     func() time.Time
}

func NewTimingsResolver(
	conf *structures.Config,
	st store.ResourceStoreInterface,
	memo providers.CacheProviderInterface,
	online ConnectivityInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) TimingsResolverInterface {
	return &TimingsResolver{
		conf:    conf,
		store:   st,
		memo:    memo,
		online:  online,
		metrics: metrics,
		logger:  logger,
		client:  &http.Client{Timeout: conf.TimeService.Timeout},
		now:     time.Now,
	}
}

// Resolve returns live timings when possible and the matching cached timings
// otherwise. The returned error wraps ErrNoData together with the cause of
// the live failure.
func (r *TimingsResolver) Resolve(ctx context.Context, city, country string, catalog *models.CityCatalog) (*models.PrayerTimings, error) {
	timings, liveErr := r.Live(ctx, city, country, catalog)
	if liveErr == nil {
		return timings, nil
	}

	if errors.Is(liveErr, ErrCityNotFound) {
		r.logger.Warnf(providers.TypePrayer, "%s - %s is not in the catalog", city, country)
	} else {
		r.logger.Warnf(providers.TypePrayer, "Live timings for %s - %s unavailable, trying local copy: %s", city, country, liveErr)
	}

	if cached, ok := r.Cached(city, country); ok {
		return cached, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrNoData, liveErr)
}

func (r *TimingsResolver) Live(ctx context.Context, city, country string, catalog *models.CityCatalog) (*models.PrayerTimings, error) {
	entry, ok := catalog.Lookup(city, country)
	if !ok {
		return nil, ErrCityNotFound
	}

	now := r.now()
	date := models.DateOf(now)
	key := memoKey(entry, date)

	times, hit := r.fromMemo(key)
	if !hit {
		if !r.online.Online(ctx) {
			return nil, ErrOffline
		}

		var err error
		times, err = r.fetch(ctx, entry, date)
		if err != nil {
			return nil, err
		}
		r.toMemo(key, times)
	}

	cache := &models.PrayerCache{
		FetchedAt: now.Format(time.RFC3339),
		City:      city,
		Country:   country,
		Timings:   times,
	}
	if err := r.store.SavePrayerCache(cache); err != nil {
		r.logger.Errorf(providers.TypePrayer, "Unable to write prayer cache: %s", err)
	}

	return &models.PrayerTimings{
		City:      city,
		Country:   country,
		Date:      date,
		FetchedAt: now,
		Source:    models.SourceLive,
		Times:     times,
	}, nil
}

func (r *TimingsResolver) Cached(city, country string) (*models.PrayerTimings, bool) {
	cache, ok := r.store.LoadPrayerCache()
	if !ok || !cache.Matches(city, country) {
		return nil, false
	}
	return cache.ToTimings(), true
}

func (r *TimingsResolver) fetch(ctx context.Context, entry models.CityEntry, date string) (map[string]string, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(entry.Lat, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(entry.Lon, 'f', -1, 64))
	query.Set("method", strconv.Itoa(entry.Method))
	query.Set("timezonestring", entry.TZ)
	query.Set("date", date)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.conf.TimeService.URL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", r.conf.AppName)

	start := time.Now()
	resp, err := r.client.Do(req)
	r.metrics.ObserveTimeServiceDuration(time.Since(start))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrBadResponse, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var body timingsResponse
	if err = json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrBadResponse, err)
	}
	if body.Code != http.StatusOK || len(body.Data.Timings) == 0 {
		return nil, fmt.Errorf("%w: code %d", ErrBadResponse, body.Code)
	}
	return body.Data.Timings, nil
}

func memoKey(entry models.CityEntry, date string) string {
	return fmt.Sprintf("timings:%.6f:%.6f:%d:%s:%s", entry.Lat, entry.Lon, entry.Method, entry.TZ, date)
}

func (r *TimingsResolver) fromMemo(key string) (map[string]string, bool) {
	data, ok := r.memo.Get(key)
	if !ok {
		return nil, false
	}
	var times map[string]string
	if err := json.Unmarshal(data, &times); err != nil || len(times) == 0 {
		return nil, false
	}
	return times, true
}

func (r *TimingsResolver) toMemo(key string, times map[string]string) {
	data, err := json.Marshal(times)
	if err != nil {
		return
	}
	r.memo.Set(key, data)
}
