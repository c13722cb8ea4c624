package tick

import (
	"context"
	"errors"

	"creepwork/internal/app/ports"
)

// Recorders fans a summary out to every recorder, collecting all failures.
type Recorders []ports.TickRecorder

func (rs Recorders) RecordTick(ctx context.Context, summary ports.TickSummary) error {
	var errs []error
	for _, r := range rs {
		if err := r.RecordTick(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
