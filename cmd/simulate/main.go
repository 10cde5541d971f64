package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/medicore/appointment-scheduling/internal/schedule"
)

// simulate drives booking traffic at a running api-server and reports latency
// and conflict numbers, to sanity check the slot locking under load.

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	ActionRatio  float64
	Days         int
}

func loadSimConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_URL", "http://127.0.0.1:8080"),
		Duration:     getDuration("SIM_DURATION", 30*time.Second),
		Workers:      getInt("SIM_WORKERS", 8),
		BookingRatio: getFloat("SIM_BOOKING_RATIO", 0.5),
		ActionRatio:  getFloat("SIM_ACTION_RATIO", 0.3),
		Days:         getInt("SIM_DAYS", 3),
	}
	if cfg.Days < 1 {
		cfg.Days = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return cfg
}

type DataPool struct {
	mu           sync.RWMutex
	appointments []uuid.UUID
}

func (dp *DataPool) Add(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) Random() (uuid.UUID, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return uuid.Nil, false
	}
	return dp.appointments[rand.Intn(len(dp.appointments))], true
}

type OperationMetrics struct {
	Total    int64
	Success  int64
	Conflict int64
	Error    int64

	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(latency time.Duration, status int) {
	atomic.AddInt64(&om.Total, 1)
	switch {
	case status >= 200 && status < 300:
		atomic.AddInt64(&om.Success, 1)
	case status == http.StatusConflict:
		atomic.AddInt64(&om.Conflict, 1)
	default:
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.latencies = append(om.latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Report(name string) {
	om.mu.Lock()
	latencies := make([]time.Duration, len(om.latencies))
	copy(latencies, om.latencies)
	om.mu.Unlock()

	if len(latencies) == 0 {
		fmt.Printf("%-10s no requests\n", name)
		return
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	pct := func(p int) time.Duration {
		idx := len(latencies) * p / 100
		if idx >= len(latencies) {
			idx = len(latencies) - 1
		}
		return latencies[idx]
	}

	fmt.Printf("%-10s total=%d ok=%d conflict=%d error=%d avg=%s p50=%s p95=%s max=%s\n",
		name,
		atomic.LoadInt64(&om.Total),
		atomic.LoadInt64(&om.Success),
		atomic.LoadInt64(&om.Conflict),
		atomic.LoadInt64(&om.Error),
		sum/time.Duration(len(latencies)),
		pct(50),
		pct(95),
		latencies[len(latencies)-1],
	)
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg := loadSimConfig()
	log.Printf("simulate starting url=%s workers=%d duration=%s", cfg.APIBaseURL, cfg.Workers, cfg.Duration)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCtx, cancel := context.WithTimeout(rootCtx, cfg.Duration)
	defer cancel()

	client := &http.Client{Timeout: 10 * time.Second}
	pool := &DataPool{}

	bookMetrics := &OperationMetrics{}
	actionMetrics := &OperationMetrics{}
	listMetrics := &OperationMetrics{}

	slots := schedule.Slots()
	actions := []string{"confirm", "start", "complete", "cancel"}

	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for runCtx.Err() == nil {
				roll := rand.Float64()
				switch {
				case roll < cfg.BookingRatio:
					date := time.Now().AddDate(0, 0, rand.Intn(cfg.Days)).Format(schedule.DateLayout)
					doBook(runCtx, client, cfg.APIBaseURL, date, slots[rand.Intn(len(slots))], pool, bookMetrics)
				case roll < cfg.BookingRatio+cfg.ActionRatio:
					id, ok := pool.Random()
					if !ok {
						continue
					}
					doAction(runCtx, client, cfg.APIBaseURL, id, actions[rand.Intn(len(actions))], actionMetrics)
				default:
					date := time.Now().AddDate(0, 0, rand.Intn(cfg.Days)).Format(schedule.DateLayout)
					doList(runCtx, client, cfg.APIBaseURL, date, listMetrics)
				}
			}
		}()
	}

	wg.Wait()

	fmt.Println("--- simulation results ---")
	bookMetrics.Report("book")
	actionMetrics.Report("action")
	listMetrics.Report("list")
}

func doBook(ctx context.Context, client *http.Client, baseURL, date, slot string, pool *DataPool, m *OperationMetrics) {
	body, _ := json.Marshal(map[string]any{
		"patient_name":  fmt.Sprintf("Sim Patient %d", rand.Intn(100000)),
		"patient_phone": fmt.Sprintf("+1-555-%04d", rand.Intn(10000)),
		"date":          date,
		"time":          slot,
		"duration":      30,
		"type":          "Consultation",
	})

	status, respBody, latency, err := doRequest(ctx, client, http.MethodPost, baseURL+"/appointments", body)
	if err != nil {
		return
	}
	m.Record(latency, status)

	if status == http.StatusCreated {
		var resp struct {
			ID uuid.UUID `json:"id"`
		}
		if json.Unmarshal(respBody, &resp) == nil && resp.ID != uuid.Nil {
			pool.Add(resp.ID)
		}
	}
}

func doAction(ctx context.Context, client *http.Client, baseURL string, id uuid.UUID, action string, m *OperationMetrics) {
	url := fmt.Sprintf("%s/appointments/%s/%s", baseURL, id, action)
	status, _, latency, err := doRequest(ctx, client, http.MethodPost, url, nil)
	if err != nil {
		return
	}
	m.Record(latency, status)
}

func doList(ctx context.Context, client *http.Client, baseURL, date string, m *OperationMetrics) {
	ranges := []string{"all", "morning", "afternoon", "evening"}
	url := fmt.Sprintf("%s/appointments?date=%s&time_range=%s", baseURL, date, ranges[rand.Intn(len(ranges))])
	status, _, latency, err := doRequest(ctx, client, http.MethodGet, url, nil)
	if err != nil {
		return
	}
	m.Record(latency, status)
}

func doRequest(ctx context.Context, client *http.Client, method, url string, body []byte) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		return 0, nil, latency, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	return resp.StatusCode, respBody, latency, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
