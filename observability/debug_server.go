package observability

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

// StatsProvider composes the debug payload; the caller can enrich the
// base counters with live gauges (group sizes, queue depths).
type StatsProvider func() map[string]any

// NewDebugServer exposes runtime stats as JSON on /debug/stats. The
// caller owns the returned server's lifecycle.
func NewDebugServer(log *slog.Logger, port int, provider StatsProvider) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(provider()); err != nil {
			log.Error("failed to encode debug stats", "error", err)
		}
	})
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}
