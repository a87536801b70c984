package main

import (
	"encoding/json"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// mockHomework tracks the review status of the single demo submission.
type mockHomework struct {
	statusIdx    int
	updatedAt    int64
	nextChangeAt time.Time
}

// StartMockFeed runs a mock homework status API. The demo submission moves
// through review every 15-30 seconds, and roughly one request in ten fails
// with 503 to show failure deduplication.
func StartMockFeed(addr string) {
	var (
		hw       = &mockHomework{updatedAt: time.Now().Unix(), nextChangeAt: time.Now().Add(15 * time.Second)}
		mu       sync.Mutex
		statuses = []string{"reviewing", "rejected", "reviewing", "approved"}
	)

	http.HandleFunc("/api/user_api/homework_statuses/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			http.Error(w, `{"code":"not_authenticated"}`, http.StatusUnauthorized)
			return
		}
		if rand.Intn(10) == 0 {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}

		from, _ := strconv.ParseInt(r.URL.Query().Get("from_date"), 10, 64)
		now := time.Now()

		mu.Lock()
		if now.After(hw.nextChangeAt) && hw.statusIdx < len(statuses)-1 {
			hw.statusIdx++
			hw.updatedAt = now.Unix()
			hw.nextChangeAt = now.Add(time.Duration(15+rand.Intn(16)) * time.Second)
			slog.Info("mock status change", "status", statuses[hw.statusIdx])
		}
		homeworks := []map[string]string{}
		if hw.updatedAt >= from {
			homeworks = append(homeworks, map[string]string{
				"homework_name": "demo_sprint.zip",
				"status":        statuses[hw.statusIdx],
			})
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"homeworks":    homeworks,
			"current_date": now.Unix(),
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	if err := http.ListenAndServe(addr, nil); err != nil {
		slog.Error("mock feed error", "error", err)
	}
}
