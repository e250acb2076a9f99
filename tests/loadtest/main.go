package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

var (
	baseURL      = flag.String("url", "http://127.0.0.1:18650", "control API address")
	numWorkers   = flag.Int("workers", 20, "concurrent clients")
	phaseLength  = flag.Duration("duration", 10*time.Second, "length of each phase")
	withSettings = flag.Bool("settings", true, "include volume writes in the mixed phase")
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

type probe func(rng *rand.Rand) result

func main() {
	flag.Parse()

	fmt.Println("=== Adhan control API load test ===")
	fmt.Printf("Target: %s | Workers: %d | Phase: %s\n", *baseURL, *numWorkers, *phaseLength)

	fmt.Print("Waiting for daemon... ")
	if !waitHealthy(30) {
		fmt.Println("FAILED: /health not responding")
		return
	}
	fmt.Println("OK")

	fmt.Println("\n--- Phase 1: Read-only (timings, status, catalog, health) ---")
	runPhase(*phaseLength, weighted(
		0.40, getProbe("/timings", http.StatusOK, http.StatusNotFound),
		0.25, getProbe("/status", http.StatusOK),
		0.20, getProbe("/catalog", http.StatusOK),
		0.15, getProbe("/health", http.StatusOK),
	))

	if !*withSettings {
		return
	}

	original := currentVolume()
	fmt.Println("\n--- Phase 2: Mixed (80% reads, 20% volume writes) ---")
	runPhase(*phaseLength, weighted(
		0.45, getProbe("/timings", http.StatusOK, http.StatusNotFound),
		0.20, getProbe("/settings", http.StatusOK),
		0.15, getProbe("/status", http.StatusOK),
		0.20, postVolume,
	))
	if original >= 0 {
		setVolume(original)
	}
}

func waitHealthy(attempts int) bool {
	for i := 0; i < attempts; i++ {
		resp, err := httpClient.Get(*baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return true
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	return false
}

func weighted(pairs ...interface{}) probe {
	type entry struct {
		upTo float64
		fn   probe
	}
	var entries []entry
	var acc float64
	for i := 0; i+1 < len(pairs); i += 2 {
		acc += pairs[i].(float64)
		entries = append(entries, entry{upTo: acc, fn: pairs[i+1].(probe)})
	}
	return func(rng *rand.Rand) result {
		r := rng.Float64() * acc
		for _, e := range entries {
			if r < e.upTo {
				return e.fn(rng)
			}
		}
		return entries[len(entries)-1].fn(rng)
	}
}

func getProbe(path string, okStatus ...int) probe {
	name := "GET " + path
	return func(_ *rand.Rand) result {
		start := time.Now()
		resp, err := httpClient.Get(*baseURL + path)
		lat := time.Since(start)
		if err != nil {
			return result{name, lat, true}
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return result{name, lat, !statusIn(resp.StatusCode, okStatus)}
	}
}

func postVolume(rng *rand.Rand) result {
	start := time.Now()
	code, err := postSettings(map[string]interface{}{"volume": rng.Intn(101)})
	lat := time.Since(start)
	return result{"POST /settings", lat, err != nil || code != http.StatusOK}
}

func postSettings(patch map[string]interface{}) (int, error) {
	data, err := json.Marshal(patch)
	if err != nil {
		return 0, err
	}
	resp, err := httpClient.Post(*baseURL+"/settings", "application/json", bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp.StatusCode, nil
}

func currentVolume() int {
	resp, err := httpClient.Get(*baseURL + "/settings")
	if err != nil {
		return -1
	}
	defer resp.Body.Close()
	var body struct {
		Volume int `json:"volume"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return -1
	}
	return body.Volume
}

func setVolume(v int) {
	if code, err := postSettings(map[string]interface{}{"volume": v}); err != nil || code != http.StatusOK {
		fmt.Printf("\nunable to restore volume %d (status %d, err %v)\n", v, code, err)
	}
}

func statusIn(code int, allowed []int) bool {
	for _, c := range allowed {
		if c == code {
			return true
		}
	}
	return false
}

func runPhase(duration time.Duration, work probe) {
	results := make(chan result, 1000)
	var wg sync.WaitGroup
	stop := make(chan struct{})

	for i := 0; i < *numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					results <- work(rng)
				}
			}
		}(rand.Int63() + int64(i))
	}

	byEndpoint := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := byEndpoint[r.endpoint]
			if !ok {
				s = &stats{}
				byEndpoint[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(byEndpoint, duration)
}

func printResults(byEndpoint map[string]*stats, duration time.Duration) {
	var total, failed int64

	endpoints := make([]string, 0, len(byEndpoint))
	for ep := range byEndpoint {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-18s %8s %6s %10s %10s %10s\n", "Endpoint", "Reqs", "Errs", "Avg", "P50", "P99")
	fmt.Println("  " + strings.Repeat("-", 68))

	for _, ep := range endpoints {
		s := byEndpoint[ep]
		total += s.count
		failed += s.errors

		sort.Slice(s.latencies, func(i, j int) bool { return s.latencies[i] < s.latencies[j] })
		fmt.Printf("  %-18s %8d %6d %10s %10s %10s\n", ep, s.count, s.errors,
			fmtDur(avgDuration(s.latencies)), fmtDur(percentile(s.latencies, 0.50)), fmtDur(percentile(s.latencies, 0.99)))
	}

	fmt.Println("  " + strings.Repeat("-", 68))
	if total == 0 {
		fmt.Println("  no requests completed")
		return
	}
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		total, failed, float64(failed)/float64(total)*100, float64(total)/duration.Seconds())
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dus", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
