package daemon

import (
	"context"
	"time"

	"github.com/ZilDuck/elysium-marketplace/internal/elastic_search"
	"go.uber.org/zap"
)

type Daemon struct {
	elastic  elastic_search.Index
	interval time.Duration
}

func NewDaemon(elastic elastic_search.Index, interval time.Duration) *Daemon {
	if interval <= 0 {
		interval = 5 * time.Second
	}

	return &Daemon{elastic, interval}
}

// Execute flushes buffered index requests every interval until ctx is done, then
// persists whatever is left.
func (d *Daemon) Execute(ctx context.Context) {
	zap.L().With(zap.Duration("interval", d.interval)).Info("Daemon: Started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.persist()
			zap.L().Info("Daemon: Stopped")
			return
		case <-ticker.C:
			if !d.elastic.BatchPersist() {
				d.persist()
			}
		}
	}
}

func (d *Daemon) persist() {
	pending := len(d.elastic.GetRequests())
	if pending == 0 {
		return
	}

	start := time.Now()
	persisted := d.elastic.Persist()

	zap.L().With(
		zap.Int("pending", pending),
		zap.Int("persisted", persisted),
		zap.Duration("elapsed", time.Since(start)),
	).Info("Daemon: Persisted index requests")
}
