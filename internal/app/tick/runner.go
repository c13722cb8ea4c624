package tick

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"creepwork/internal/app/ports"
)

// Host is a world that can be advanced by the caller.
type Host interface {
	ports.World
	Advance()
}

// Runner drives the engine against a host it owns: run the engine, then
// advance the host clock. Step is safe to call from several goroutines.
type Runner struct {
	Engine   UseCase
	Host     Host
	Interval time.Duration
	MaxTicks int

	mu sync.Mutex
}

func (r *Runner) Step(ctx context.Context) (ports.TickSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary, err := r.Engine.Run(ctx)
	if err != nil {
		return summary, err
	}
	r.Host.Advance()
	return summary, nil
}

// Loop steps on every interval until ctx is done or MaxTicks is reached.
func (r *Runner) Loop(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for n := 0; r.MaxTicks <= 0 || n < r.MaxTicks; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		summary, err := r.Step(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		slog.Debug("tick done", "tick", summary.Tick, "rooms", len(summary.Rooms))
	}
	return nil
}
