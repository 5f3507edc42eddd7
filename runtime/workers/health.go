package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"support-chat/observability"

	"github.com/shirou/gopsutil/process"
)

// HealthWorker periodically samples the server process and logs it next
// to the routing counters.
type HealthWorker struct {
	log      *slog.Logger
	stats    *observability.Stats
	interval time.Duration
}

func NewHealthWorker(log *slog.Logger, stats *observability.Stats, interval time.Duration) *HealthWorker {
	return &HealthWorker{log: log, stats: stats, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("context done, stopping health sampling")
			return nil
		case <-ticker.C:
			cpu, err := self.CPUPercent()
			if err != nil {
				w.log.Debug("cpu sample failed", "error", err)
				continue
			}
			ram, err := self.MemoryPercent()
			if err != nil {
				w.log.Debug("memory sample failed", "error", err)
				continue
			}
			w.log.Info("health",
				"cpu_percent", cpu,
				"ram_percent", ram,
				"stats", w.stats.Snapshot())
		}
	}
}
